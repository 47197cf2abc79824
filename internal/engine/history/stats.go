package history

import "github.com/vietddude/remedy/internal/core/domain"

// Statistics summarizes the recovery log, per-pattern match counters, and
// per-strategy outcomes.
type Statistics struct {
	TotalAttempts        int                      `json:"total_attempts"`
	SuccessfulRecoveries int                      `json:"successful_recoveries"`
	FailedRecoveries     int                      `json:"failed_recoveries"`
	SuccessRate          float64                  `json:"success_rate"`
	Patterns             map[string]PatternStats  `json:"patterns"`
	Strategies           map[string]StrategyStats `json:"strategies"`
	LearningsCount       int                      `json:"learnings_count"`
}

// PatternStats aggregates one pattern's lifetime counters.
type PatternStats struct {
	Name         string  `json:"name"`
	MatchCount   int     `json:"match_count"`
	SuccessCount int     `json:"success_count"`
	SuccessRate  float64 `json:"success_rate"`
}

// StrategyStats aggregates attempts driven by one strategy.
type StrategyStats struct {
	Total   int `json:"total"`
	Success int `json:"success"`
}

// BuildStatistics aggregates the attempt log against the pattern catalog.
// Rates with a zero denominator are 0.0, never NaN.
func BuildStatistics(attempts []*domain.RecoveryAttempt, patterns []*domain.ErrorPattern, learningsCount int) *Statistics {
	stats := &Statistics{
		TotalAttempts:  len(attempts),
		Patterns:       make(map[string]PatternStats, len(patterns)),
		Strategies:     make(map[string]StrategyStats),
		LearningsCount: learningsCount,
	}

	for _, att := range attempts {
		s := stats.Strategies[string(att.StrategyUsed)]
		s.Total++
		if att.Success {
			s.Success++
			stats.SuccessfulRecoveries++
		}
		stats.Strategies[string(att.StrategyUsed)] = s
	}
	stats.FailedRecoveries = stats.TotalAttempts - stats.SuccessfulRecoveries
	if stats.TotalAttempts > 0 {
		stats.SuccessRate = float64(stats.SuccessfulRecoveries) / float64(stats.TotalAttempts)
	}

	for _, p := range patterns {
		ps := PatternStats{
			Name:         p.Name,
			MatchCount:   p.MatchCount,
			SuccessCount: p.SuccessCount,
		}
		if p.MatchCount > 0 {
			ps.SuccessRate = float64(p.SuccessCount) / float64(p.MatchCount)
		}
		stats.Patterns[p.ID] = ps
	}

	return stats
}
