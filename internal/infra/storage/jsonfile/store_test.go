package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/vietddude/remedy/internal/core/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	return store
}

func TestPatternsRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	patterns := []*domain.ErrorPattern{
		{
			ID:              "connection_refused",
			Name:            "Connection Refused",
			Regex:           `connection\s*refused`,
			MessageContains: []string{"connection refused"},
			ErrorTypes:      []string{"ConnectionRefusedError"},
			Severity:        domain.SeverityMedium,
			DefaultStrategy: domain.StrategyRetry,
			RecoveryHints:   []string{"Check if the target service is running"},
			Created:         time.Now(),
			MatchCount:      3,
		},
	}

	if err := store.SavePatterns(ctx, patterns); err != nil {
		t.Fatalf("SavePatterns failed: %v", err)
	}

	loaded, err := store.LoadPatterns(ctx)
	if err != nil {
		t.Fatalf("LoadPatterns failed: %v", err)
	}
	if len(loaded) != 1 {
		t.Fatalf("expected 1 pattern, got %d", len(loaded))
	}
	if loaded[0].ID != "connection_refused" || loaded[0].MatchCount != 3 {
		t.Errorf("pattern did not survive round trip: %+v", loaded[0])
	}
	if loaded[0].DefaultStrategy != domain.StrategyRetry {
		t.Errorf("strategy = %s, want retry", loaded[0].DefaultStrategy)
	}
}

func TestLearningsRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	learnings := []*domain.Learning{
		{
			ID:           "learn_timeout",
			PatternID:    "timeout",
			Fingerprint:  "timeout",
			Strategy:     domain.StrategyFallback,
			SuccessRate:  1.0,
			AttemptCount: 2,
			LastSuccess:  time.Now(),
		},
	}

	if err := store.SaveLearnings(ctx, learnings); err != nil {
		t.Fatalf("SaveLearnings failed: %v", err)
	}

	loaded, err := store.LoadLearnings(ctx)
	if err != nil {
		t.Fatalf("LoadLearnings failed: %v", err)
	}
	if len(loaded) != 1 || loaded[0].ID != "learn_timeout" {
		t.Fatalf("learning did not survive round trip: %+v", loaded)
	}
	if loaded[0].SuccessRate != 1.0 || loaded[0].AttemptCount != 2 {
		t.Errorf("counters did not survive: %+v", loaded[0])
	}
}

func TestMissingFilesLoadEmpty(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	patterns, err := store.LoadPatterns(ctx)
	if err != nil {
		t.Fatalf("LoadPatterns on empty dir should not error: %v", err)
	}
	if len(patterns) != 0 {
		t.Errorf("expected empty patterns, got %d", len(patterns))
	}

	history, err := store.LoadHistory(ctx)
	if err != nil {
		t.Fatalf("LoadHistory on empty dir should not error: %v", err)
	}
	if len(history) != 0 {
		t.Errorf("expected empty history, got %d", len(history))
	}
}

func TestCorruptFileLoadsEmpty(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store, err := NewStore(dir)
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}

	if err := os.WriteFile(filepath.Join(dir, patternsFile), []byte("{not json"), 0o644); err != nil {
		t.Fatalf("failed to write corrupt file: %v", err)
	}

	patterns, err := store.LoadPatterns(ctx)
	if err != nil {
		t.Fatalf("corrupt file should not error: %v", err)
	}
	if len(patterns) != 0 {
		t.Errorf("expected empty patterns from corrupt file, got %d", len(patterns))
	}
}

func TestHistoryCap(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	attempts := make([]*domain.RecoveryAttempt, historyLimit+50)
	for i := range attempts {
		attempts[i] = &domain.RecoveryAttempt{
			ID:           fmt.Sprintf("attempt-%d", i),
			StrategyUsed: domain.StrategyRetry,
			Success:      true,
			Timestamp:    time.Now(),
		}
	}

	if err := store.SaveHistory(ctx, attempts); err != nil {
		t.Fatalf("SaveHistory failed: %v", err)
	}

	loaded, err := store.LoadHistory(ctx)
	if err != nil {
		t.Fatalf("LoadHistory failed: %v", err)
	}
	if len(loaded) != historyLimit {
		t.Fatalf("expected %d attempts after cap, got %d", historyLimit, len(loaded))
	}
	// The newest records survive.
	if loaded[len(loaded)-1].ID != fmt.Sprintf("attempt-%d", historyLimit+49) {
		t.Errorf("newest attempt missing, last = %s", loaded[len(loaded)-1].ID)
	}
	if loaded[0].ID != "attempt-50" {
		t.Errorf("oldest surviving attempt = %s, want attempt-50", loaded[0].ID)
	}
}

func TestEnvelopeFormat(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store, err := NewStore(dir)
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}

	if err := store.SavePatterns(ctx, nil); err != nil {
		t.Fatalf("SavePatterns failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, patternsFile))
	if err != nil {
		t.Fatalf("failed to read patterns file: %v", err)
	}

	var env map[string]any
	if err := json.Unmarshal(data, &env); err != nil {
		t.Fatalf("patterns file is not valid JSON: %v", err)
	}
	if env["version"] != domain.Version {
		t.Errorf("version = %v, want %s", env["version"], domain.Version)
	}
	if _, ok := env["updated"]; !ok {
		t.Error("envelope missing updated timestamp")
	}
	if patterns, ok := env["patterns"].([]any); !ok || len(patterns) != 0 {
		t.Errorf("empty catalog should persist as [], got %v", env["patterns"])
	}

	// No temp file left behind.
	if _, err := os.Stat(filepath.Join(dir, patternsFile+".tmp")); !os.IsNotExist(err) {
		t.Error("temp file was not cleaned up")
	}
}
