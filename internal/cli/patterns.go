package cli

import (
	"fmt"
	"log/slog"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var patternsJSON bool

var patternsCmd = &cobra.Command{
	Use:   "patterns",
	Short: "List registered error patterns, most severe first",
	Run:   runPatterns,
}

func init() {
	patternsCmd.Flags().BoolVar(&patternsJSON, "json", false, "print patterns as JSON")
	rootCmd.AddCommand(patternsCmd)
}

func runPatterns(cmd *cobra.Command, args []string) {
	cfg := loadConfig(slog.LevelWarn)
	svc := newService(cfg)

	patterns := svc.ListPatterns()
	sort.SliceStable(patterns, func(i, j int) bool {
		return patterns[i].Severity.Rank() > patterns[j].Severity.Rank()
	})

	if patternsJSON {
		printJSON(patterns)
		return
	}

	fmt.Printf("Error Patterns (%d total)\n", len(patterns))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', tabwriter.Debug)
	_, _ = fmt.Fprintln(w, "ID\tNAME\tSEVERITY\tSTRATEGY\tMATCHES\tSUCCESSES")

	for _, p := range patterns {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%d\n",
			p.ID, p.Name, p.Severity, p.DefaultStrategy, p.MatchCount, p.SuccessCount)
	}
	_ = w.Flush()
}
