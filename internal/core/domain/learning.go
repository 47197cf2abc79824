package domain

import "time"

// Learning caches a strategy that previously recovered a class of failures.
// The resolver consults learnings ahead of pattern defaults once their
// rolling success rate is high enough.
type Learning struct {
	ID            string         `json:"learning_id"`
	PatternID     string         `json:"pattern_id"`
	Fingerprint   string         `json:"error_signature"`
	Strategy      Strategy       `json:"successful_strategy"`
	Modifications map[string]any `json:"modifications_applied,omitempty"`
	SuccessRate   float64        `json:"success_rate"`
	AttemptCount  int            `json:"attempt_count"`
	LastSuccess   time.Time      `json:"last_success"`
	Notes         string         `json:"notes,omitempty"`
}
