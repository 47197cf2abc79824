package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/vietddude/remedy/internal/control"
	"github.com/vietddude/remedy/internal/core/config"
	"github.com/vietddude/remedy/internal/engine/execute"
)

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found")
	}

	dataDir, err := os.MkdirTemp("", "remedy-demo-")
	if err != nil {
		log.Fatalf("Failed to create data dir: %v", err)
	}
	defer os.RemoveAll(dataDir)

	// 1. Build the engine on a throwaway data dir with fast backoff
	cfg := config.Default()
	cfg.Storage.DataDir = dataDir
	cfg.Recovery.InitialDelay = 50 * time.Millisecond
	cfg.Recovery.MaxDelay = 200 * time.Millisecond

	svc, err := control.New(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize engine: %v", err)
	}

	ctx := context.Background()

	// 2. Classify a raw error without executing anything
	fmt.Println("=== Classifying an error ===")
	decision := svc.Resolve("connection refused on port 8080", "")
	fmt.Printf("Pattern:  %s\n", decision.Pattern.Name)
	fmt.Printf("Severity: %s\n", decision.Severity)
	fmt.Printf("Strategy: %s\n", decision.Strategy)
	fmt.Println()

	// 3. Drive a flaky operation through recovery: fails twice, then succeeds
	fmt.Println("=== Recovering a flaky operation ===")
	calls := 0
	flaky := execute.Operation{
		Name: "fetch-quota",
		Invoke: func(ctx context.Context, params map[string]any) (any, error) {
			calls++
			if calls < 3 {
				return nil, errors.New("connection refused on port 8080")
			}
			return "quota: 1000", nil
		},
	}

	result, att, err := svc.Recover(ctx, flaky, nil)
	if err != nil {
		log.Fatalf("Recovery failed: %v", err)
	}
	fmt.Printf("Result: %v (after %d retries)\n", result, att.RetryCount)
	fmt.Println()

	// 4. Fall back to a secondary source when the primary keeps failing
	fmt.Println("=== Falling back to a secondary source ===")
	primary := execute.Operation{
		Name: "read-primary",
		Invoke: func(ctx context.Context, params map[string]any) (any, error) {
			return nil, errors.New("open /data/primary.json: no such file or directory")
		},
	}
	backup := execute.Operation{
		Name: "read-backup",
		Invoke: func(ctx context.Context, params map[string]any) (any, error) {
			return "backup copy", nil
		},
	}

	result, att, err = svc.Recover(ctx, primary, &backup)
	if err != nil {
		log.Fatalf("Fallback failed: %v", err)
	}
	fmt.Printf("Result: %v (via %s)\n", result, att.FallbackUsed)
	fmt.Println()

	// 5. Wrap an operation so it recovers itself transparently
	fmt.Println("=== Wrapping an operation ===")
	wrapCalls := 0
	wrapped := svc.Wrap(execute.Operation{
		Name: "list-batches",
		Invoke: func(ctx context.Context, params map[string]any) (any, error) {
			wrapCalls++
			if wrapCalls == 1 {
				return nil, errors.New("operation timed out after 30 seconds")
			}
			return []string{"batch-001", "batch-002"}, nil
		},
	}, execute.WrapOptions{})

	result, err = wrapped.Invoke(ctx, nil)
	if err != nil {
		log.Fatalf("Wrapped call failed: %v", err)
	}
	fmt.Printf("Result: %v\n", result)
	fmt.Println()

	// 6. The engine remembered which strategies worked
	fmt.Println("=== Learned strategies ===")
	for _, l := range svc.Learnings() {
		fmt.Printf("%s -> %s (%.0f%% success over %d attempts)\n",
			l.PatternID, l.Strategy, l.SuccessRate*100, l.AttemptCount)
	}
	fmt.Println()

	// 7. Print the recovery report
	fmt.Println(svc.Report())
}
