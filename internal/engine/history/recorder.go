package history

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/vietddude/remedy/internal/core/domain"
	"github.com/vietddude/remedy/internal/engine/metrics"
	"github.com/vietddude/remedy/internal/infra/storage"
)

// Recorder accumulates recovery attempts in memory and syncs them to
// storage. The in-memory log is unbounded; repositories cap what they
// persist.
type Recorder struct {
	mu       sync.RWMutex
	repo     storage.HistoryRepository
	attempts []*domain.RecoveryAttempt
	log      *slog.Logger
}

// NewRecorder creates an empty recorder backed by the given repository.
func NewRecorder(repo storage.HistoryRepository) *Recorder {
	return &Recorder{
		repo: repo,
		log:  slog.Default().With("component", "history"),
	}
}

// Load reads the persisted attempt log. A failed read logs a warning and
// starts empty; loading is never fatal.
func (r *Recorder) Load(ctx context.Context) {
	stored, err := r.repo.LoadHistory(ctx)
	if err != nil {
		r.log.Warn("Failed to load history, starting empty", "error", err)
		stored = nil
	}

	r.mu.Lock()
	r.attempts = stored
	metrics.HistorySize.Set(float64(len(r.attempts)))
	r.mu.Unlock()
}

// Append adds one attempt to the log.
func (r *Recorder) Append(att *domain.RecoveryAttempt) {
	r.mu.Lock()
	r.attempts = append(r.attempts, att)
	metrics.HistorySize.Set(float64(len(r.attempts)))
	r.mu.Unlock()
}

// Flush persists the full log through the repository.
func (r *Recorder) Flush(ctx context.Context) error {
	return r.repo.SaveHistory(ctx, r.All())
}

// All returns the attempts oldest first.
func (r *Recorder) All() []*domain.RecoveryAttempt {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.RecoveryAttempt, len(r.attempts))
	copy(out, r.attempts)
	return out
}

// Recent returns the last n attempts oldest first. n <= 0 returns everything.
func (r *Recorder) Recent(n int) []*domain.RecoveryAttempt {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if n <= 0 || n > len(r.attempts) {
		n = len(r.attempts)
	}
	out := make([]*domain.RecoveryAttempt, n)
	copy(out, r.attempts[len(r.attempts)-n:])
	return out
}

// Size returns the number of attempts held in memory.
func (r *Recorder) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.attempts)
}

// Clear drops attempts and persists the trimmed log. A zero cutoff clears
// everything; otherwise attempts older than the cutoff are dropped.
func (r *Recorder) Clear(ctx context.Context, olderThan time.Duration) error {
	r.mu.Lock()
	if olderThan <= 0 {
		r.attempts = nil
	} else {
		cutoff := time.Now().Add(-olderThan)
		var kept []*domain.RecoveryAttempt
		for _, att := range r.attempts {
			if att.Timestamp.After(cutoff) {
				kept = append(kept, att)
			}
		}
		r.attempts = kept
	}
	metrics.HistorySize.Set(float64(len(r.attempts)))
	r.mu.Unlock()

	return r.Flush(ctx)
}
