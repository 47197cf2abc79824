package execute

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/vietddude/remedy/internal/core/domain"
	"github.com/vietddude/remedy/internal/engine/classify"
	"github.com/vietddude/remedy/internal/engine/history"
	"github.com/vietddude/remedy/internal/engine/learning"
	"github.com/vietddude/remedy/internal/engine/metrics"
	"github.com/vietddude/remedy/internal/engine/pattern"
)

// Operation is a unit of work the executor can run and re-run. Params are
// passed to Invoke as a fresh copy on every attempt, so retry modifications
// never compound.
type Operation struct {
	Name   string
	Params map[string]any
	Invoke func(ctx context.Context, params map[string]any) (any, error)
}

// Options control a single recovery execution.
type Options struct {
	// Strategy to drive. Empty means retry.
	Strategy domain.Strategy
	// Fallback is the alternative operation for the fallback strategy.
	Fallback *Operation
	// Modifications scale numeric params from the second attempt on.
	Modifications map[string]any
	// OnRetry is invoked once per failed attempt before strategy handling.
	OnRetry func(retry int, err error)
}

// Config holds executor tuning.
type Config struct {
	MaxRetries    int           `yaml:"max_retries"`
	InitialDelay  time.Duration `yaml:"initial_delay"`
	MaxDelay      time.Duration `yaml:"max_delay"`
	BackoffFactor float64       `yaml:"backoff_factor"`
	AutoLearn     bool          `yaml:"auto_learn"`
}

// DefaultConfig returns the stock executor tuning.
func DefaultConfig() Config {
	return Config{
		MaxRetries:    3,
		InitialDelay:  time.Second,
		MaxDelay:      60 * time.Second,
		BackoffFactor: 2.0,
		AutoLearn:     true,
	}
}

// Escalator receives attempts that exhausted the escalate strategy.
type Escalator interface {
	Escalate(ctx context.Context, att *domain.RecoveryAttempt) error
}

// Executor drives operations through retry, fallback, skip, escalate, and
// abort handling, recording one attempt per execution.
type Executor struct {
	cfg        Config
	classifier *classify.Classifier
	catalog    *pattern.Catalog
	learnings  *learning.Store
	history    *history.Recorder
	escalator  Escalator
	log        *slog.Logger
}

// NewExecutor creates an executor. The escalator may be nil; escalated
// attempts are then only recorded.
func NewExecutor(cfg Config, classifier *classify.Classifier, catalog *pattern.Catalog, learnings *learning.Store, rec *history.Recorder, escalator Escalator) *Executor {
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	return &Executor{
		cfg:        cfg,
		classifier: classifier,
		catalog:    catalog,
		learnings:  learnings,
		history:    rec,
		escalator:  escalator,
		log:        slog.Default().With("component", "executor"),
	}
}

// Execute runs the operation under the given strategy. It returns the
// operation's result, the attempt record, and the final error. Exactly one
// attempt record is appended per call.
func (e *Executor) Execute(ctx context.Context, op Operation, opts Options) (any, *domain.RecoveryAttempt, error) {
	start := time.Now()
	attemptID := uuid.New().String()

	strat := opts.Strategy
	if strat == "" {
		strat = domain.StrategyRetry
	}

	retries := 0
	cancelled := false
	var lastErr error

loop:
	for retries <= e.cfg.MaxRetries {
		result, err := op.Invoke(ctx, modifiedParams(op.Params, opts.Modifications, retries))
		if err == nil {
			att := e.newAttempt(attemptID, strat, start)
			att.Success = true
			att.RetryCount = retries
			if retries > 0 {
				att.Modifications = cloneParams(opts.Modifications)
			}
			e.record(att)
			if e.cfg.AutoLearn {
				e.flush(ctx)
			}
			return result, att, nil
		}

		lastErr = err
		failure := domain.FailureFromError(err)
		matched := e.classifier.Match(failure)

		if opts.OnRetry != nil {
			opts.OnRetry(retries, err)
		}

		switch strat {
		case domain.StrategyAbort, domain.StrategyEscalate:
			break loop

		case domain.StrategySkip:
			att := e.newAttempt(attemptID, strat, start)
			att.PatternID = patternID(matched)
			att.ErrorText = failure.Text
			att.ErrorType = failure.Type
			att.Success = true
			att.RetryCount = retries
			att.Notes = "Skipped error as per strategy"
			e.record(att)
			return nil, att, nil

		case domain.StrategyFallback:
			if opts.Fallback == nil {
				break // no alternative; fall through to retrying
			}
			result, fbErr := opts.Fallback.Invoke(ctx, cloneParams(op.Params))
			if fbErr == nil {
				att := e.newAttempt(attemptID, strat, start)
				att.PatternID = patternID(matched)
				att.ErrorText = failure.Text
				att.ErrorType = failure.Type
				att.Success = true
				att.RetryCount = retries
				att.FallbackUsed = opts.Fallback.Name
				e.record(att)

				if e.cfg.AutoLearn && matched != nil {
					e.learn(ctx, matched)
				}
				return result, att, nil
			}
			lastErr = fbErr
			break loop
		}

		if retries >= e.cfg.MaxRetries {
			break
		}
		retries++

		delay := e.backoff(retries)
		e.log.Debug("Operation failed, retrying",
			"operation", op.Name,
			"retry", retries,
			"delay", delay,
			"error", err,
		)
		select {
		case <-ctx.Done():
			cancelled = true
			break loop
		case <-time.After(delay):
		}
	}

	// Retries exhausted, aborted, escalated, or the fallback failed too.
	failure := domain.FailureFromError(lastErr)
	matched := e.classifier.Match(failure)

	att := e.newAttempt(attemptID, strat, start)
	att.PatternID = patternID(matched)
	att.ErrorText = failure.Text
	att.ErrorType = failure.Type
	att.RetryCount = retries
	if len(opts.Modifications) > 0 {
		att.Modifications = cloneParams(opts.Modifications)
	}
	if cancelled {
		att.Notes = "Recovery cancelled while waiting to retry"
		lastErr = errors.Join(ctx.Err(), lastErr)
	}
	e.record(att)
	e.flush(ctx)

	e.log.Warn("Recovery failed",
		"operation", op.Name,
		"strategy", strat,
		"retries", retries,
		"error", lastErr,
	)

	if strat == domain.StrategyEscalate {
		label := att.PatternID
		if label == "" {
			label = "unknown"
		}
		metrics.EscalationsTotal.WithLabelValues(label).Inc()
		if e.escalator != nil {
			if err := e.escalator.Escalate(ctx, att); err != nil {
				e.log.Error("Failed to escalate attempt", "attempt_id", att.ID, "error", err)
			}
		}
	}

	return nil, att, lastErr
}

// newAttempt stamps a record with id, strategy, duration, and timestamp.
func (e *Executor) newAttempt(id string, strat domain.Strategy, start time.Time) *domain.RecoveryAttempt {
	return &domain.RecoveryAttempt{
		ID:           id,
		StrategyUsed: strat,
		DurationMS:   time.Since(start).Seconds() * 1000,
		Timestamp:    time.Now(),
	}
}

// record appends the attempt and updates execution metrics.
func (e *Executor) record(att *domain.RecoveryAttempt) {
	e.history.Append(att)

	outcome := "failure"
	if att.Success {
		outcome = "success"
	}
	strat := string(att.StrategyUsed)
	metrics.RecoveryAttemptsTotal.WithLabelValues(strat, outcome).Inc()
	metrics.RetriesTotal.WithLabelValues(strat).Add(float64(att.RetryCount))
	metrics.RecoveryDuration.WithLabelValues(strat).Observe(att.DurationMS / 1000)
}

// flush persists the attempt log; persistence problems are advisory.
func (e *Executor) flush(ctx context.Context) {
	if err := e.history.Flush(ctx); err != nil {
		e.log.Warn("Failed to persist history", "error", err)
	}
}

// learn records a successful fallback against the matched pattern.
func (e *Executor) learn(ctx context.Context, matched *domain.ErrorPattern) {
	if _, err := e.learnings.RecordSuccess(ctx, matched, domain.StrategyFallback, nil); err != nil {
		e.log.Warn("Failed to persist learning", "pattern", matched.ID, "error", err)
	}
	if err := e.catalog.MarkSuccess(ctx, matched.ID); err != nil {
		e.log.Warn("Failed to persist pattern counters", "pattern", matched.ID, "error", err)
	}
	e.log.Info("Learned successful fallback", "pattern", matched.ID)
}

// backoff computes the delay before the given retry, capped at MaxDelay.
func (e *Executor) backoff(retries int) time.Duration {
	delay := float64(e.cfg.InitialDelay) * math.Pow(e.cfg.BackoffFactor, float64(retries-1))
	return time.Duration(min(delay, float64(e.cfg.MaxDelay)))
}

// modifiedParams copies the original params and, from the second attempt on,
// scales the numeric ones named by modifications.
func modifiedParams(params, mods map[string]any, retries int) map[string]any {
	out := cloneParams(params)
	if retries == 0 || len(mods) == 0 {
		return out
	}
	for key, modifier := range mods {
		cur, ok := out[key]
		if !ok {
			continue
		}
		if scaled, ok := scale(cur, modifier); ok {
			out[key] = scaled
		}
	}
	return out
}

// scale multiplies a numeric param by a numeric modifier. int times int
// stays int; anything involving a float yields float64; durations scale to
// durations. Non-numeric pairs are left untouched.
func scale(value, modifier any) (any, bool) {
	var factor float64
	intModifier := false
	switch m := modifier.(type) {
	case int:
		factor = float64(m)
		intModifier = true
	case float64:
		factor = m
	default:
		return nil, false
	}

	switch v := value.(type) {
	case int:
		if intModifier {
			return v * int(factor), true
		}
		return float64(v) * factor, true
	case int64:
		if intModifier {
			return v * int64(factor), true
		}
		return float64(v) * factor, true
	case float64:
		return v * factor, true
	case time.Duration:
		return time.Duration(float64(v) * factor), true
	default:
		return nil, false
	}
}

func cloneParams(params map[string]any) map[string]any {
	out := make(map[string]any, len(params))
	for k, v := range params {
		out[k] = v
	}
	return out
}

func patternID(p *domain.ErrorPattern) string {
	if p == nil {
		return ""
	}
	return p.ID
}
