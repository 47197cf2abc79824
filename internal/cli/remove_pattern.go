package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
)

var removePatternCmd = &cobra.Command{
	Use:   "remove-pattern [id]",
	Short: "Delete a pattern from the catalog",
	Args:  cobra.ExactArgs(1),
	Run:   runRemovePattern,
}

func init() {
	rootCmd.AddCommand(removePatternCmd)
}

func runRemovePattern(cmd *cobra.Command, args []string) {
	cfg := loadConfig(slog.LevelWarn)
	svc := newService(cfg)

	removed, err := svc.RemovePattern(context.Background(), args[0])
	if err != nil {
		fail("Failed to remove pattern: %v", err)
	}
	if !removed {
		fail("Pattern not found: %s", args[0])
	}

	fmt.Printf("%s Removed pattern: %s\n", okMark, args[0])
}
