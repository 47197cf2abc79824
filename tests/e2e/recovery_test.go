package e2e

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/vietddude/remedy/internal/control"
	"github.com/vietddude/remedy/internal/core/config"
	"github.com/vietddude/remedy/internal/core/domain"
	"github.com/vietddude/remedy/internal/engine/execute"
)

func testConfig(dataDir string) *config.AppConfig {
	cfg := config.Default()
	cfg.Storage.DataDir = dataDir
	cfg.Recovery.InitialDelay = time.Millisecond
	cfg.Recovery.MaxDelay = 5 * time.Millisecond
	return cfg
}

func TestRecoveryLifecycle(t *testing.T) {
	svc, err := control.New(testConfig(t.TempDir()))
	if err != nil {
		t.Fatalf("Failed to create service: %v", err)
	}

	ctx := context.Background()

	// A flaky operation recovers after two retries.
	calls := 0
	flaky := execute.Operation{
		Name: "fetch",
		Invoke: func(ctx context.Context, params map[string]any) (any, error) {
			calls++
			if calls < 3 {
				return nil, errors.New("connection refused on port 9000")
			}
			return "ok", nil
		},
	}

	result, att, err := svc.Recover(ctx, flaky, nil)
	if err != nil {
		t.Fatalf("Recover returned error: %v", err)
	}
	if result != "ok" {
		t.Errorf("result = %v, want ok", result)
	}
	// One call burns on the raw run, two more inside the executor.
	if att == nil || !att.Success || att.RetryCount != 1 {
		t.Errorf("unexpected attempt record: %+v", att)
	}

	// A missing file falls back to the secondary source.
	primary := execute.Operation{
		Name: "read-primary",
		Invoke: func(ctx context.Context, params map[string]any) (any, error) {
			return nil, errors.New("open /data/main.json: no such file or directory")
		},
	}
	backup := execute.Operation{
		Name: "read-backup",
		Invoke: func(ctx context.Context, params map[string]any) (any, error) {
			return "backup", nil
		},
	}

	result, att, err = svc.Recover(ctx, primary, &backup)
	if err != nil {
		t.Fatalf("Fallback recovery returned error: %v", err)
	}
	if result != "backup" || att.FallbackUsed != "read-backup" {
		t.Errorf("fallback gave %v via %q", result, att.FallbackUsed)
	}

	// A syntax failure aborts without retrying.
	parseCalls := 0
	broken := execute.Operation{
		Name: "parse",
		Invoke: func(ctx context.Context, params map[string]any) (any, error) {
			parseCalls++
			return nil, errors.New("invalid syntax near line 3")
		},
	}
	if _, _, err := svc.Recover(ctx, broken, nil); err == nil {
		t.Fatal("expected abort to surface an error")
	}
	if parseCalls != 2 {
		// Once raw inside Recover, once under the abort strategy.
		t.Errorf("parse ran %d times, want 2", parseCalls)
	}

	stats := svc.Statistics()
	if stats.TotalAttempts != 3 {
		t.Errorf("TotalAttempts = %d, want 3", stats.TotalAttempts)
	}
	if stats.SuccessfulRecoveries != 2 || stats.FailedRecoveries != 1 {
		t.Errorf("recoveries = %d/%d, want 2/1",
			stats.SuccessfulRecoveries, stats.FailedRecoveries)
	}
	// Only the successful fallback produces a learning.
	if len(svc.Learnings()) != 1 {
		t.Errorf("learnings = %d, want 1", len(svc.Learnings()))
	}

	report := svc.Report()
	if !strings.Contains(report, "Total Recovery Attempts: 3") {
		t.Errorf("report missing attempt count:\n%s", report)
	}

	// No Redis configured, so escalation reads must refuse.
	if _, err := svc.Escalations(ctx); !errors.Is(err, control.ErrNoEscalationQueue) {
		t.Errorf("Escalations error = %v, want ErrNoEscalationQueue", err)
	}
}

func TestPersistenceAcrossRestart(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	svc, err := control.New(testConfig(dir))
	if err != nil {
		t.Fatalf("Failed to create service: %v", err)
	}

	// A successful fallback persists the learning and pattern counters.
	primary := execute.Operation{
		Name: "read-primary",
		Invoke: func(ctx context.Context, params map[string]any) (any, error) {
			return nil, errors.New("open /data/main.json: no such file or directory")
		},
	}
	backup := execute.Operation{
		Name: "read-backup",
		Invoke: func(ctx context.Context, params map[string]any) (any, error) {
			return "backup", nil
		},
	}
	_, fbAtt, err := svc.Recover(ctx, primary, &backup)
	if err != nil {
		t.Fatalf("Fallback recovery returned error: %v", err)
	}

	// A retried success flushes the whole attempt log to disk.
	calls := 0
	flaky := execute.Operation{
		Name: "fetch",
		Invoke: func(ctx context.Context, params map[string]any) (any, error) {
			calls++
			if calls < 2 {
				return nil, errors.New("connection refused on port 9000")
			}
			return "ok", nil
		},
	}
	_, retryAtt, err := svc.Recover(ctx, flaky, nil)
	if err != nil {
		t.Fatalf("Recover returned error: %v", err)
	}

	// Reopen on the same directory and verify everything came back.
	svc2, err := control.New(testConfig(dir))
	if err != nil {
		t.Fatalf("Failed to reopen service: %v", err)
	}

	p := svc2.GetPattern("file_not_found")
	if p == nil {
		t.Fatal("file_not_found pattern missing after restart")
	}
	if p.MatchCount != 1 || p.SuccessCount != 1 {
		t.Errorf("pattern counters = %d/%d, want 1/1", p.MatchCount, p.SuccessCount)
	}

	learnings := svc2.Learnings()
	if len(learnings) != 1 {
		t.Fatalf("learnings = %d, want 1", len(learnings))
	}
	l := learnings[0]
	if l.ID != "learn_file_not_found" || l.Strategy != domain.StrategyFallback {
		t.Errorf("unexpected learning: %+v", l)
	}
	if l.AttemptCount != 1 || l.SuccessRate != 1.0 {
		t.Errorf("learning counters = %d/%.2f, want 1/1.00", l.AttemptCount, l.SuccessRate)
	}

	hist := svc2.History(10)
	if len(hist) != 2 {
		t.Fatalf("history = %d records, want 2", len(hist))
	}
	if hist[0].ID != fbAtt.ID || hist[1].ID != retryAtt.ID {
		t.Errorf("history order = [%s %s], want [%s %s]",
			hist[0].ID, hist[1].ID, fbAtt.ID, retryAtt.ID)
	}
	if hist[0].FallbackUsed != "read-backup" || !hist[0].Success {
		t.Errorf("unexpected fallback record: %+v", hist[0])
	}
	if hist[1].StrategyUsed != domain.StrategyRetry || hist[1].RetryCount != 0 {
		t.Errorf("unexpected retry record: %+v", hist[1])
	}
}

func TestGracefulShutdown(t *testing.T) {
	cfg := testConfig(t.TempDir())
	cfg.Server.Port = 0

	svc, err := control.New(cfg)
	if err != nil {
		t.Fatalf("Failed to create service: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	if err := svc.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	// Let the background loops spin up.
	time.Sleep(100 * time.Millisecond)

	cancel()

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer stopCancel()

	if err := svc.Stop(stopCtx); err != nil {
		t.Errorf("Stop failed: %v", err)
	}
}
