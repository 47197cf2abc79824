package storage

import (
	"context"

	"github.com/vietddude/remedy/internal/core/domain"
)

// PatternRepository persists the pattern catalog.
type PatternRepository interface {
	// LoadPatterns returns all persisted patterns in insertion order.
	// A missing collection yields an empty slice, not an error.
	LoadPatterns(ctx context.Context) ([]*domain.ErrorPattern, error)

	// SavePatterns replaces the persisted catalog with the given patterns.
	SavePatterns(ctx context.Context, patterns []*domain.ErrorPattern) error
}

// LearningRepository persists learned strategy preferences.
type LearningRepository interface {
	// LoadLearnings returns all persisted learnings in insertion order.
	LoadLearnings(ctx context.Context) ([]*domain.Learning, error)

	// SaveLearnings replaces the persisted learnings with the given set.
	SaveLearnings(ctx context.Context, learnings []*domain.Learning) error
}

// HistoryRepository persists the recovery attempt log.
type HistoryRepository interface {
	// LoadHistory returns persisted attempts, oldest first.
	LoadHistory(ctx context.Context) ([]*domain.RecoveryAttempt, error)

	// SaveHistory replaces the persisted log. Implementations keep only
	// the most recent attempts past the retention cap.
	SaveHistory(ctx context.Context, attempts []*domain.RecoveryAttempt) error
}
