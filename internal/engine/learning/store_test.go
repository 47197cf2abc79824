package learning

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/vietddude/remedy/internal/core/domain"
	"github.com/vietddude/remedy/internal/infra/storage/memory"
)

func testPattern() *domain.ErrorPattern {
	return &domain.ErrorPattern{
		ID:              "timeout",
		Name:            "Operation Timeout",
		DefaultStrategy: domain.StrategyRetryModified,
		Severity:        domain.SeverityMedium,
	}
}

func TestRecordSuccessCreatesLearning(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewStore()
	store := NewStore(repo)
	store.Load(ctx)

	mods := map[string]any{"timeout_multiplier": 2.0}
	l, err := store.RecordSuccess(ctx, testPattern(), domain.StrategyFallback, mods)
	if err != nil {
		t.Fatalf("RecordSuccess failed: %v", err)
	}

	if l.ID != "learn_timeout" {
		t.Errorf("id = %s, want learn_timeout", l.ID)
	}
	if l.Fingerprint != "timeout" {
		t.Errorf("fingerprint = %s, want pattern id", l.Fingerprint)
	}
	if l.SuccessRate != 1.0 || l.AttemptCount != 1 {
		t.Errorf("fresh learning = rate %f count %d, want 1.0 / 1", l.SuccessRate, l.AttemptCount)
	}
	if l.Strategy != domain.StrategyFallback {
		t.Errorf("strategy = %s, want fallback", l.Strategy)
	}

	// Persisted immediately.
	persisted, err := repo.LoadLearnings(ctx)
	if err != nil {
		t.Fatalf("LoadLearnings failed: %v", err)
	}
	if len(persisted) != 1 || persisted[0].ID != "learn_timeout" {
		t.Errorf("learning was not persisted: %+v", persisted)
	}
}

func TestRecordSuccessReinforces(t *testing.T) {
	ctx := context.Background()
	store := NewStore(memory.NewStore())
	store.Load(ctx)

	p := testPattern()
	for i := 0; i < 3; i++ {
		if _, err := store.RecordSuccess(ctx, p, domain.StrategyFallback, nil); err != nil {
			t.Fatalf("RecordSuccess failed: %v", err)
		}
	}

	l := store.Get("learn_timeout")
	if l.AttemptCount != 3 {
		t.Errorf("attempt count = %d, want 3", l.AttemptCount)
	}
	if l.SuccessRate != 1.0 {
		t.Errorf("all-success rate = %f, want 1.0", l.SuccessRate)
	}
	if store.Len() != 1 {
		t.Errorf("reinforcement should not add entries, got %d", store.Len())
	}
	// Reinforcement keeps the original strategy.
	if _, err := store.RecordSuccess(ctx, p, domain.StrategySkip, nil); err != nil {
		t.Fatalf("RecordSuccess failed: %v", err)
	}
	if l := store.Get("learn_timeout"); l.Strategy != domain.StrategyFallback {
		t.Errorf("strategy changed on reinforcement: %s", l.Strategy)
	}
}

func TestRollingRate(t *testing.T) {
	ctx := context.Background()
	store := NewStore(memory.NewStore())
	store.Load(ctx)

	// Seed a learning that has already failed often.
	if err := store.Add(ctx, &domain.Learning{
		ID:           "learn_timeout",
		PatternID:    "timeout",
		Fingerprint:  "timeout",
		Strategy:     domain.StrategyFallback,
		SuccessRate:  0.5,
		AttemptCount: 4,
		LastSuccess:  time.Now(),
	}); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	if _, err := store.RecordSuccess(ctx, testPattern(), domain.StrategyFallback, nil); err != nil {
		t.Fatalf("RecordSuccess failed: %v", err)
	}

	// (0.5*4 + 1.0) / 5 = 0.6
	l := store.Get("learn_timeout")
	if math.Abs(l.SuccessRate-0.6) > 1e-9 {
		t.Errorf("rate = %f, want 0.6", l.SuccessRate)
	}
	if l.AttemptCount != 5 {
		t.Errorf("attempt count = %d, want 5", l.AttemptCount)
	}
}

func TestLookupThreshold(t *testing.T) {
	ctx := context.Background()
	store := NewStore(memory.NewStore())
	store.Load(ctx)

	add := func(id, fp string, rate float64) {
		t.Helper()
		if err := store.Add(ctx, &domain.Learning{
			ID:           id,
			PatternID:    "timeout",
			Fingerprint:  fp,
			Strategy:     domain.StrategyFallback,
			SuccessRate:  rate,
			AttemptCount: 1,
			LastSuccess:  time.Now(),
		}); err != nil {
			t.Fatalf("Add failed: %v", err)
		}
	}

	add("learn_low", "fp-1", 0.5)
	add("learn_exact", "fp-2", 0.7)
	add("learn_good", "fp-3", 0.71)

	if got := store.Lookup("fp-1"); got != nil {
		t.Errorf("rate 0.5 should not win, got %s", got.ID)
	}
	if got := store.Lookup("fp-2"); got != nil {
		t.Errorf("rate exactly 0.7 should not win, got %s", got.ID)
	}
	if got := store.Lookup("fp-3"); got == nil || got.ID != "learn_good" {
		t.Errorf("rate 0.71 should win, got %v", got)
	}
	if got := store.Lookup("fp-unknown"); got != nil {
		t.Errorf("unknown fingerprint should not match, got %s", got.ID)
	}
}

func TestLoadRestoresOrder(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewStore()

	seed := []*domain.Learning{
		{ID: "learn_a", PatternID: "a", Fingerprint: "same", Strategy: domain.StrategySkip, SuccessRate: 0.9, AttemptCount: 2},
		{ID: "learn_b", PatternID: "b", Fingerprint: "same", Strategy: domain.StrategyRetry, SuccessRate: 0.95, AttemptCount: 3},
	}
	if err := repo.SaveLearnings(ctx, seed); err != nil {
		t.Fatalf("SaveLearnings failed: %v", err)
	}

	store := NewStore(repo)
	store.Load(ctx)

	if store.Len() != 2 {
		t.Fatalf("expected 2 learnings, got %d", store.Len())
	}
	// Insertion order decides ties between equal fingerprints.
	if got := store.Lookup("same"); got == nil || got.ID != "learn_a" {
		t.Errorf("first stored learning should win ties, got %v", got)
	}
}
