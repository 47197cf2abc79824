package cli

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
)

var (
	historyRecent    int
	historyClear     bool
	historyOlderThan int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show or clear the recovery attempt log",
	Run:   runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&historyRecent, "recent", 10, "number of recent attempts to show")
	historyCmd.Flags().BoolVar(&historyClear, "clear", false, "clear the attempt log")
	historyCmd.Flags().IntVar(&historyOlderThan, "older-than", 0, "with --clear, only drop attempts older than this many days")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) {
	cfg := loadConfig(slog.LevelWarn)
	svc := newService(cfg)

	if historyClear {
		age := time.Duration(historyOlderThan) * 24 * time.Hour
		if err := svc.ClearHistory(context.Background(), age); err != nil {
			fail("Failed to clear history: %v", err)
		}
		fmt.Printf("%s History cleared\n", okMark)
		return
	}

	attempts := svc.History(historyRecent)
	if len(attempts) == 0 {
		fmt.Println("No recovery attempts recorded")
		return
	}

	// Newest first.
	for i := len(attempts) - 1; i >= 0; i-- {
		att := attempts[i]
		mark := okMark
		if !att.Success {
			mark = failMark
		}
		fmt.Printf("%s %s | Strategy: %s | Retries: %d\n",
			mark, att.Timestamp.Format(time.RFC3339), att.StrategyUsed, att.RetryCount)
		if att.ErrorText != "" {
			fmt.Printf("     %s\n", truncate(att.ErrorText, 60))
		}
	}
}
