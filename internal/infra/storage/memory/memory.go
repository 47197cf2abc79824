package memory

import (
	"context"
	"sync"

	"github.com/vietddude/remedy/internal/core/domain"
)

// Store keeps all three engine collections in memory. Used by tests and
// ephemeral engine runs; nothing survives a restart.
type Store struct {
	mu        sync.RWMutex
	patterns  []*domain.ErrorPattern
	learnings []*domain.Learning
	history   []*domain.RecoveryAttempt
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{}
}

func (s *Store) LoadPatterns(ctx context.Context) ([]*domain.ErrorPattern, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.ErrorPattern, len(s.patterns))
	for i, p := range s.patterns {
		cp := *p
		out[i] = &cp
	}
	return out, nil
}

func (s *Store) SavePatterns(ctx context.Context, patterns []*domain.ErrorPattern) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.patterns = make([]*domain.ErrorPattern, len(patterns))
	for i, p := range patterns {
		cp := *p
		s.patterns[i] = &cp
	}
	return nil
}

func (s *Store) LoadLearnings(ctx context.Context) ([]*domain.Learning, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.Learning, len(s.learnings))
	for i, l := range s.learnings {
		cp := *l
		out[i] = &cp
	}
	return out, nil
}

func (s *Store) SaveLearnings(ctx context.Context, learnings []*domain.Learning) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.learnings = make([]*domain.Learning, len(learnings))
	for i, l := range learnings {
		cp := *l
		s.learnings[i] = &cp
	}
	return nil
}

func (s *Store) LoadHistory(ctx context.Context) ([]*domain.RecoveryAttempt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.RecoveryAttempt, len(s.history))
	for i, a := range s.history {
		cp := *a
		out[i] = &cp
	}
	return out, nil
}

func (s *Store) SaveHistory(ctx context.Context, attempts []*domain.RecoveryAttempt) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.history = make([]*domain.RecoveryAttempt, len(attempts))
	for i, a := range attempts {
		cp := *a
		s.history[i] = &cp
	}
	return nil
}
