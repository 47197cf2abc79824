package cli

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/spf13/cobra"
)

var statsJSON bool

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show recovery statistics",
	Run:   runStats,
}

func init() {
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "print statistics as JSON")
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) {
	cfg := loadConfig(slog.LevelWarn)
	svc := newService(cfg)

	stats := svc.Statistics()
	if statsJSON {
		printJSON(stats)
		return
	}

	fmt.Println("Recovery Statistics")
	fmt.Printf("Total attempts:        %d\n", stats.TotalAttempts)
	fmt.Printf("Successful recoveries: %d\n", stats.SuccessfulRecoveries)
	fmt.Printf("Failed recoveries:     %d\n", stats.FailedRecoveries)
	fmt.Printf("Success rate:          %.1f%%\n", stats.SuccessRate*100)
	fmt.Printf("Learned strategies:    %d\n", stats.LearningsCount)

	if len(stats.Strategies) > 0 {
		fmt.Println("\nBy strategy:")
		names := make([]string, 0, len(stats.Strategies))
		for name := range stats.Strategies {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			ss := stats.Strategies[name]
			rate := 0.0
			if ss.Total > 0 {
				rate = float64(ss.Success) / float64(ss.Total)
			}
			fmt.Printf("  %-16s %d uses, %.1f%% success\n", name, ss.Total, rate*100)
		}
	}

	if len(stats.Patterns) > 0 {
		fmt.Println("\nBy pattern:")
		ids := make([]string, 0, len(stats.Patterns))
		for id := range stats.Patterns {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			ps := stats.Patterns[id]
			fmt.Printf("  %-24s %d matches, %d recovered\n", id, ps.MatchCount, ps.SuccessCount)
		}
	}
}
