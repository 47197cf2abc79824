package strategy

import (
	"context"
	"testing"
	"time"

	"github.com/vietddude/remedy/internal/core/domain"
	"github.com/vietddude/remedy/internal/engine/classify"
	"github.com/vietddude/remedy/internal/engine/learning"
	"github.com/vietddude/remedy/internal/engine/pattern"
	"github.com/vietddude/remedy/internal/infra/storage/memory"
)

func newTestResolver(t *testing.T) (*Resolver, *pattern.Catalog, *learning.Store) {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()

	catalog := pattern.NewCatalog(store)
	catalog.Load(ctx)
	learnings := learning.NewStore(store)
	learnings.Load(ctx)
	classifier := classify.NewClassifier(catalog)

	return NewResolver(catalog, learnings, classifier), catalog, learnings
}

func TestResolvePatternDefault(t *testing.T) {
	resolver, catalog, _ := newTestResolver(t)

	d := resolver.Resolve(domain.Failure{Text: "connect: connection refused"})

	if d.Strategy != domain.StrategyRetry {
		t.Errorf("strategy = %s, want retry", d.Strategy)
	}
	if d.Pattern == nil || d.Pattern.ID != "connection_refused" {
		t.Fatalf("pattern = %v, want connection_refused", d.Pattern)
	}
	if d.Severity != domain.SeverityMedium {
		t.Errorf("severity = %s, want medium", d.Severity)
	}
	if d.Learned {
		t.Error("fresh resolution should not be learned")
	}
	if len(d.Hints) == 0 {
		t.Error("pattern hints missing")
	}
	if d.Fingerprint == "" {
		t.Error("fingerprint missing")
	}
	if got := catalog.Get("connection_refused").MatchCount; got != 1 {
		t.Errorf("match count = %d, want 1", got)
	}
}

func TestResolveRetryModifiedHints(t *testing.T) {
	resolver, _, _ := newTestResolver(t)

	d := resolver.Resolve(domain.Failure{Text: "operation timed out"})
	if d.Strategy != domain.StrategyRetryModified {
		t.Fatalf("strategy = %s, want retry_modified", d.Strategy)
	}
	if got, ok := d.Modifications["timeout_multiplier"].(float64); !ok || got != 2.0 {
		t.Errorf("timeout modification = %v, want 2.0", d.Modifications)
	}

	d = resolver.Resolve(domain.Failure{Text: "runtime: out of memory"})
	if d.Strategy != domain.StrategyRetryModified {
		t.Fatalf("strategy = %s, want retry_modified", d.Strategy)
	}
	if got, ok := d.Modifications["chunk_size_divisor"].(int); !ok || got != 2 {
		t.Errorf("memory modification = %v, want 2", d.Modifications)
	}
}

func TestResolveLearnedFirst(t *testing.T) {
	ctx := context.Background()
	resolver, catalog, learnings := newTestResolver(t)

	text := "connect: connection refused"
	fp := classify.Fingerprint(text)

	if err := learnings.Add(ctx, &domain.Learning{
		ID:            "learn_connection_refused",
		PatternID:     "connection_refused",
		Fingerprint:   fp,
		Strategy:      domain.StrategyFallback,
		Modifications: map[string]any{"endpoint": "backup"},
		SuccessRate:   0.9,
		AttemptCount:  5,
		LastSuccess:   time.Now(),
	}); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	d := resolver.Resolve(domain.Failure{Text: text})

	if !d.Learned {
		t.Fatal("expected learned resolution")
	}
	if d.Strategy != domain.StrategyFallback {
		t.Errorf("strategy = %s, want learned fallback", d.Strategy)
	}
	if d.Pattern == nil || d.Pattern.ID != "connection_refused" {
		t.Errorf("learned decision should still carry the pattern, got %v", d.Pattern)
	}
	if d.Modifications["endpoint"] != "backup" {
		t.Errorf("learned modifications missing: %v", d.Modifications)
	}
	if len(d.Hints) != 1 || d.Hints[0] != "Previously successful strategy: fallback" {
		t.Errorf("hints = %v", d.Hints)
	}
	// Learned resolutions do not bump the pattern's match counter.
	if got := catalog.Get("connection_refused").MatchCount; got != 0 {
		t.Errorf("match count = %d, want 0", got)
	}
}

func TestResolveLearnedBelowThreshold(t *testing.T) {
	ctx := context.Background()
	resolver, _, learnings := newTestResolver(t)

	text := "connect: connection refused"
	if err := learnings.Add(ctx, &domain.Learning{
		ID:          "learn_connection_refused",
		PatternID:   "connection_refused",
		Fingerprint: classify.Fingerprint(text),
		Strategy:    domain.StrategyAbort,
		SuccessRate: 0.7, // not strictly above the threshold
	}); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	d := resolver.Resolve(domain.Failure{Text: text})
	if d.Learned {
		t.Error("rate of exactly 0.7 should not override the pattern default")
	}
	if d.Strategy != domain.StrategyRetry {
		t.Errorf("strategy = %s, want pattern default retry", d.Strategy)
	}
}

func TestResolveUnknown(t *testing.T) {
	resolver, _, _ := newTestResolver(t)

	d := resolver.Resolve(domain.Failure{Text: "total gibberish nobody anticipated"})

	if d.Strategy != domain.StrategyRetry {
		t.Errorf("strategy = %s, want retry", d.Strategy)
	}
	if d.Pattern != nil {
		t.Errorf("pattern = %v, want nil", d.Pattern)
	}
	if len(d.Hints) != 1 || d.Hints[0] != "Unknown error pattern - using default retry strategy" {
		t.Errorf("hints = %v", d.Hints)
	}
}
