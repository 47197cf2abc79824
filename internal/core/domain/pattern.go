package domain

import (
	"fmt"
	"time"
)

// Severity orders patterns by operational impact.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Rank returns the severity's position in the low < medium < high < critical
// order. Unknown severities rank below low.
func (s Severity) Rank() int {
	switch s {
	case SeverityLow:
		return 0
	case SeverityMedium:
		return 1
	case SeverityHigh:
		return 2
	case SeverityCritical:
		return 3
	default:
		return -1
	}
}

// ParseSeverity validates a severity name.
func ParseSeverity(s string) (Severity, error) {
	switch sev := Severity(s); sev {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return sev, nil
	default:
		return "", fmt.Errorf("unknown severity: %q", s)
	}
}

// ErrorPattern is a named classification rule. A failure matching any of the
// pattern's regex, substring, or type-tag signals selects the pattern and its
// default recovery strategy.
type ErrorPattern struct {
	ID              string    `json:"pattern_id"`
	Name            string    `json:"name"`
	Regex           string    `json:"regex,omitempty"`
	MessageContains []string  `json:"message_contains,omitempty"`
	ErrorTypes      []string  `json:"error_types,omitempty"`
	Severity        Severity  `json:"severity"`
	DefaultStrategy Strategy  `json:"default_strategy"`
	Description     string    `json:"description"`
	RecoveryHints   []string  `json:"recovery_hints,omitempty"`
	Created         time.Time `json:"created"`
	MatchCount      int       `json:"match_count"`
	SuccessCount    int       `json:"success_count"`
}
