// Package control wires the recovery engine together and manages its lifecycle.
package control

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/vietddude/remedy/internal/core/config"
	"github.com/vietddude/remedy/internal/core/domain"
	"github.com/vietddude/remedy/internal/core/worker"
	"github.com/vietddude/remedy/internal/engine/classify"
	"github.com/vietddude/remedy/internal/engine/execute"
	"github.com/vietddude/remedy/internal/engine/health"
	"github.com/vietddude/remedy/internal/engine/history"
	"github.com/vietddude/remedy/internal/engine/learning"
	"github.com/vietddude/remedy/internal/engine/pattern"
	"github.com/vietddude/remedy/internal/engine/strategy"
	redisclient "github.com/vietddude/remedy/internal/infra/redis"
	"github.com/vietddude/remedy/internal/infra/storage"
	"github.com/vietddude/remedy/internal/infra/storage/jsonfile"
	"github.com/vietddude/remedy/internal/infra/storage/postgres"
)

// ErrNoEscalationQueue is returned by escalation operations when Redis is
// not configured.
var ErrNoEscalationQueue = errors.New("escalation queue not configured")

// Service is the main application struct that owns the recovery engine.
type Service struct {
	cfg        *config.AppConfig
	catalog    *pattern.Catalog
	classifier *classify.Classifier
	learnings  *learning.Store
	history    *history.Recorder
	resolver   *strategy.Resolver
	executor   *execute.Executor
	queue      *redisclient.EscalationQueue
	healthMon  *health.Monitor
	healthSrv  *health.Server
	pruner     *worker.Pruner
	db         *postgres.DB
	redis      *redisclient.Client
	log        *slog.Logger
}

// New creates a Service with all dependencies initialized.
func New(cfg *config.AppConfig) (*Service, error) {
	// 1. Initialize Storage
	var patternRepo storage.PatternRepository
	var learningRepo storage.LearningRepository
	var historyRepo storage.HistoryRepository
	var db *postgres.DB

	if cfg.Database.URL != "" {
		var err error
		db, err = postgres.NewDB(context.Background(), cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to init db: %w", err)
		}
		if err := db.RunMigrations("migrations"); err != nil {
			return nil, err
		}

		patternRepo = postgres.NewPatternRepo(db)
		learningRepo = postgres.NewLearningRepo(db)
		historyRepo = postgres.NewHistoryRepo(db)
		slog.Info("Using PostgreSQL storage")
	} else {
		store, err := jsonfile.NewStore(cfg.Storage.DataDir)
		if err != nil {
			return nil, fmt.Errorf("failed to init file storage: %w", err)
		}
		patternRepo = store
		learningRepo = store
		historyRepo = store
		slog.Info("Using file storage", "dir", cfg.Storage.DataDir)
	}

	// 2. Initialize Redis escalation queue (optional)
	var redisClient *redisclient.Client
	var queue *redisclient.EscalationQueue
	if cfg.Redis.URL != "" {
		var err error
		redisClient, err = redisclient.NewClient(cfg.Redis)
		if err != nil {
			slog.Warn("Failed to connect to Redis, escalation queue disabled", "error", err)
		} else {
			queue = redisclient.NewEscalationQueue(redisClient)
		}
	}

	// 3. Initialize Engine Components
	catalog := pattern.NewCatalog(patternRepo)
	catalog.Load(context.Background())

	learnings := learning.NewStore(learningRepo)
	learnings.Load(context.Background())

	rec := history.NewRecorder(historyRepo)
	rec.Load(context.Background())

	classifier := classify.NewClassifier(catalog)
	resolver := strategy.NewResolver(catalog, learnings, classifier)

	var escalator execute.Escalator
	if queue != nil {
		escalator = &queueEscalator{queue: queue}
	}
	executor := execute.NewExecutor(cfg.Recovery, classifier, catalog, learnings, rec, escalator)

	// 4. Initialize Health Monitor
	var dbPinger, cachePinger health.Pinger
	var backlog health.BacklogCounter
	if db != nil {
		dbPinger = db
	}
	if redisClient != nil {
		cachePinger = redisClient
	}
	if queue != nil {
		backlog = queue
	}
	healthMon := health.NewMonitor(dbPinger, cachePinger, backlog, rec)
	healthSrv := health.NewServer(healthMon, cfg.Server.Port)

	// 5. Initialize Pruner
	var pruner *worker.Pruner
	if cfg.History.RetentionPeriod > 0 {
		pruner = worker.NewPruner(cfg.History.RetentionPeriod, rec)
	}

	return &Service{
		cfg:        cfg,
		catalog:    catalog,
		classifier: classifier,
		learnings:  learnings,
		history:    rec,
		resolver:   resolver,
		executor:   executor,
		queue:      queue,
		healthMon:  healthMon,
		healthSrv:  healthSrv,
		pruner:     pruner,
		db:         db,
		redis:      redisClient,
		log:        slog.Default().With("component", "control"),
	}, nil
}

// queueEscalator adapts the Redis queue to the executor's Escalator interface.
type queueEscalator struct {
	queue *redisclient.EscalationQueue
}

func (q *queueEscalator) Escalate(ctx context.Context, att *domain.RecoveryAttempt) error {
	return q.queue.Push(ctx, att)
}

// Classify matches raw error text and an optional type tag against the
// pattern catalog.
func (s *Service) Classify(text, errType string) *domain.ErrorPattern {
	return s.classifier.Match(domain.Failure{Text: text, Type: errType})
}

// Resolve picks a recovery strategy for the given failure text.
func (s *Service) Resolve(text, errType string) *strategy.Decision {
	return s.resolver.Resolve(domain.Failure{Text: text, Type: errType})
}

// ResolveError picks a recovery strategy for a Go error value.
func (s *Service) ResolveError(err error) *strategy.Decision {
	return s.resolver.Resolve(domain.FailureFromError(err))
}

// Execute drives an operation through the given recovery options.
func (s *Service) Execute(ctx context.Context, op execute.Operation, opts execute.Options) (any, *domain.RecoveryAttempt, error) {
	return s.executor.Execute(ctx, op, opts)
}

// Recover runs an operation once and, if it fails, resolves a strategy for
// the error and drives recovery. The fallback may be nil.
func (s *Service) Recover(ctx context.Context, op execute.Operation, fallback *execute.Operation) (any, *domain.RecoveryAttempt, error) {
	result, err := op.Invoke(ctx, op.Params)
	if err == nil {
		return result, nil, nil
	}

	decision := s.resolver.Resolve(domain.FailureFromError(err))
	return s.executor.Execute(ctx, op, execute.Options{
		Strategy:      decision.Strategy,
		Fallback:      fallback,
		Modifications: decision.Modifications,
	})
}

// Wrap returns an operation that recovers itself on failure.
func (s *Service) Wrap(op execute.Operation, wo execute.WrapOptions) execute.Operation {
	return s.executor.Wrap(s.resolver, op, wo)
}

// AddPattern registers a custom pattern in the catalog.
func (s *Service) AddPattern(ctx context.Context, p *domain.ErrorPattern) error {
	return s.catalog.Add(ctx, p)
}

// RemovePattern deletes a pattern by ID. It reports whether the pattern
// existed.
func (s *Service) RemovePattern(ctx context.Context, id string) (bool, error) {
	return s.catalog.Remove(ctx, id)
}

// GetPattern returns a pattern by ID, or nil.
func (s *Service) GetPattern(id string) *domain.ErrorPattern {
	return s.catalog.Get(id)
}

// ListPatterns returns all patterns in match order.
func (s *Service) ListPatterns() []*domain.ErrorPattern {
	return s.catalog.List()
}

// Learnings returns all learned strategy preferences.
func (s *Service) Learnings() []*domain.Learning {
	return s.learnings.All()
}

// Statistics aggregates the attempt log.
func (s *Service) Statistics() *history.Statistics {
	return history.BuildStatistics(s.history.All(), s.catalog.List(), s.learnings.Len())
}

// Report renders the plain-text recovery report.
func (s *Service) Report() string {
	return history.RenderReport(s.Statistics(), time.Now())
}

// History returns the n most recent attempts, oldest first.
func (s *Service) History(n int) []*domain.RecoveryAttempt {
	return s.history.Recent(n)
}

// ClearHistory drops attempts older than the given age. Zero drops all.
func (s *Service) ClearHistory(ctx context.Context, olderThan time.Duration) error {
	return s.history.Clear(ctx, olderThan)
}

// Health reports the current component health.
func (s *Service) Health(ctx context.Context) health.Report {
	return s.healthMon.CheckHealth(ctx)
}

// Escalations returns all queued escalations, oldest first.
func (s *Service) Escalations(ctx context.Context) ([]*domain.RecoveryAttempt, error) {
	if s.queue == nil {
		return nil, ErrNoEscalationQueue
	}
	return s.queue.GetAll(ctx)
}

// NextEscalation removes and returns the oldest escalation, or nil when the
// queue is empty.
func (s *Service) NextEscalation(ctx context.Context) (*domain.RecoveryAttempt, error) {
	if s.queue == nil {
		return nil, ErrNoEscalationQueue
	}
	return s.queue.PopNext(ctx)
}

// ResolveEscalation marks a queued escalation as handled.
func (s *Service) ResolveEscalation(ctx context.Context, attemptID string) error {
	if s.queue == nil {
		return ErrNoEscalationQueue
	}
	return s.queue.Resolve(ctx, attemptID)
}

// ClearEscalations drops the whole escalation queue.
func (s *Service) ClearEscalations(ctx context.Context) error {
	if s.queue == nil {
		return ErrNoEscalationQueue
	}
	return s.queue.Clear(ctx)
}
