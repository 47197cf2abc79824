package domain

import "time"

// RecoveryAttempt is an immutable record of one executor run, successful or
// not. The executor appends exactly one per execution.
type RecoveryAttempt struct {
	ID            string         `json:"attempt_id"`
	PatternID     string         `json:"pattern_id,omitempty"`
	ErrorText     string         `json:"error_text,omitempty"`
	ErrorType     string         `json:"error_type,omitempty"`
	StrategyUsed  Strategy       `json:"strategy_used"`
	Success       bool           `json:"success"`
	DurationMS    float64        `json:"duration_ms"`
	RetryCount    int            `json:"retry_count"`
	Modifications map[string]any `json:"modifications,omitempty"`
	FallbackUsed  string         `json:"fallback_used,omitempty"`
	Notes         string         `json:"notes,omitempty"`
	Timestamp     time.Time      `json:"timestamp"`
}
