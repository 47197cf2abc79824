package history

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// RenderReport formats statistics as a plain-text report. Sections are
// sorted by key so the output is stable.
func RenderReport(stats *Statistics, now time.Time) string {
	banner := strings.Repeat("=", 70)
	divider := strings.Repeat("-", 40)

	lines := []string{
		banner,
		"ERROR RECOVERY REPORT",
		"Generated: " + now.Format("2006-01-02 15:04:05"),
		banner,
		"",
		"SUMMARY",
		divider,
		fmt.Sprintf("Total Recovery Attempts: %d", stats.TotalAttempts),
		fmt.Sprintf("Successful Recoveries:   %d", stats.SuccessfulRecoveries),
		fmt.Sprintf("Failed Recoveries:       %d", stats.FailedRecoveries),
		fmt.Sprintf("Overall Success Rate:    %.1f%%", stats.SuccessRate*100),
		fmt.Sprintf("Total Learnings:         %d", stats.LearningsCount),
		"",
		"PATTERNS",
		divider,
	}

	for _, id := range sortedKeys(stats.Patterns) {
		ps := stats.Patterns[id]
		if ps.MatchCount == 0 {
			continue
		}
		lines = append(lines, fmt.Sprintf("  %s: %d matches, %.1f%% success",
			ps.Name, ps.MatchCount, ps.SuccessRate*100))
	}

	lines = append(lines, "", "STRATEGIES", divider)

	for _, name := range sortedKeys(stats.Strategies) {
		ss := stats.Strategies[name]
		rate := 0.0
		if ss.Total > 0 {
			rate = float64(ss.Success) / float64(ss.Total)
		}
		lines = append(lines, fmt.Sprintf("  %s: %d uses, %.1f%% success",
			name, ss.Total, rate*100))
	}

	lines = append(lines, "", banner)
	return strings.Join(lines, "\n")
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
