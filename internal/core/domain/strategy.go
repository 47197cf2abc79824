package domain

import "fmt"

// Strategy is a recovery approach the executor knows how to drive.
type Strategy string

const (
	// StrategyRetry re-runs the operation with exponential backoff.
	StrategyRetry Strategy = "retry"
	// StrategyRetryModified retries with adjusted parameters.
	StrategyRetryModified Strategy = "retry_modified"
	// StrategyFallback switches to an alternative operation.
	StrategyFallback Strategy = "fallback"
	// StrategySkip treats the failure as an ignorable success.
	StrategySkip Strategy = "skip"
	// StrategyEscalate records the failure for human attention.
	StrategyEscalate Strategy = "escalate"
	// StrategyAbort fails immediately without retrying.
	StrategyAbort Strategy = "abort"
)

// ParseStrategy validates a strategy name.
func ParseStrategy(s string) (Strategy, error) {
	switch st := Strategy(s); st {
	case StrategyRetry, StrategyRetryModified, StrategyFallback,
		StrategySkip, StrategyEscalate, StrategyAbort:
		return st, nil
	default:
		return "", fmt.Errorf("unknown strategy: %q", s)
	}
}
