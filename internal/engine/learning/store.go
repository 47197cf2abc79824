package learning

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/vietddude/remedy/internal/core/domain"
	"github.com/vietddude/remedy/internal/engine/metrics"
	"github.com/vietddude/remedy/internal/infra/storage"
)

// RateThreshold is the success rate a learning must exceed before it
// overrides a pattern's default strategy.
const RateThreshold = 0.7

// ErrEmptyLearningID is returned when adding a learning without an id.
var ErrEmptyLearningID = errors.New("learning id must not be empty")

// Store holds learned strategy preferences keyed by learning id, in
// insertion order.
type Store struct {
	mu    sync.RWMutex
	repo  storage.LearningRepository
	order []*domain.Learning
	index map[string]*domain.Learning
	log   *slog.Logger
}

// NewStore creates an empty learning store backed by the given repository.
func NewStore(repo storage.LearningRepository) *Store {
	return &Store{
		repo:  repo,
		index: make(map[string]*domain.Learning),
		log:   slog.Default().With("component", "learning"),
	}
}

// Load reads persisted learnings. A failed read logs a warning and starts
// empty; loading is never fatal.
func (s *Store) Load(ctx context.Context) {
	stored, err := s.repo.LoadLearnings(ctx)
	if err != nil {
		s.log.Warn("Failed to load learnings, starting empty", "error", err)
		stored = nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.order = nil
	s.index = make(map[string]*domain.Learning)
	for _, l := range stored {
		if l.ID == "" {
			continue
		}
		s.insert(l)
	}
	metrics.Learnings.Set(float64(len(s.order)))
}

// insert upserts without locking; callers hold the write lock.
func (s *Store) insert(l *domain.Learning) {
	if existing, ok := s.index[l.ID]; ok {
		*existing = *l
		return
	}
	s.index[l.ID] = l
	s.order = append(s.order, l)
}

// Lookup returns the first learning whose fingerprint matches and whose
// success rate clears the threshold, or nil.
func (s *Store) Lookup(fingerprint string) *domain.Learning {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, l := range s.order {
		if l.Fingerprint == fingerprint && l.SuccessRate > RateThreshold {
			return l
		}
	}
	return nil
}

// RecordSuccess notes that a strategy recovered a failure matching the given
// pattern, creating or reinforcing the pattern's learning, and persists the
// store. The rolling success rate folds one success into the running
// average.
func (s *Store) RecordSuccess(ctx context.Context, p *domain.ErrorPattern, strat domain.Strategy, mods map[string]any) (*domain.Learning, error) {
	id := "learn_" + p.ID
	now := time.Now()

	s.mu.Lock()
	l, ok := s.index[id]
	if ok {
		l.AttemptCount++
		l.SuccessRate = (l.SuccessRate*float64(l.AttemptCount-1) + 1.0) / float64(l.AttemptCount)
		l.LastSuccess = now
	} else {
		l = &domain.Learning{
			ID:            id,
			PatternID:     p.ID,
			Fingerprint:   p.ID,
			Strategy:      strat,
			Modifications: cloneModifications(mods),
			SuccessRate:   1.0,
			AttemptCount:  1,
			LastSuccess:   now,
		}
		s.insert(l)
	}
	metrics.Learnings.Set(float64(len(s.order)))
	s.mu.Unlock()

	if err := s.Persist(ctx); err != nil {
		return l, err
	}
	return l, nil
}

// Add registers a learning directly, replacing any existing id, and
// persists the store. Useful for seeding known-good strategies.
func (s *Store) Add(ctx context.Context, l *domain.Learning) error {
	if l.ID == "" {
		return ErrEmptyLearningID
	}

	cp := *l
	cp.Modifications = cloneModifications(l.Modifications)

	s.mu.Lock()
	s.insert(&cp)
	metrics.Learnings.Set(float64(len(s.order)))
	s.mu.Unlock()

	return s.Persist(ctx)
}

// Get returns the learning with the given id, or nil.
func (s *Store) Get(id string) *domain.Learning {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index[id]
}

// All returns the learnings in insertion order.
func (s *Store) All() []*domain.Learning {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.Learning, len(s.order))
	copy(out, s.order)
	return out
}

// Len returns the number of learnings.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

// Persist writes all learnings through the repository.
func (s *Store) Persist(ctx context.Context) error {
	return s.repo.SaveLearnings(ctx, s.All())
}

func cloneModifications(mods map[string]any) map[string]any {
	if mods == nil {
		return nil
	}
	out := make(map[string]any, len(mods))
	for k, v := range mods {
		out[k] = v
	}
	return out
}
