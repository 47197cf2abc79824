package control

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/vietddude/remedy/internal/engine/metrics"
)

// Start starts the service's background components.
func (s *Service) Start(ctx context.Context) error {
	// Start Health Server
	go func() {
		if err := s.healthSrv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error("Health server failed", "error", err)
		}
	}()

	// Start DB Metrics Collector
	if s.db != nil {
		s.db.StartMetricsCollector(ctx)
	}

	// Start Escalation Watcher
	if s.queue != nil {
		go s.runEscalationWatcher(ctx)
	}

	// Start Pruner
	if s.pruner != nil {
		go s.pruner.Start(ctx)
	}

	s.log.Info("Recovery service started",
		"port", s.cfg.Server.Port,
		"patterns", s.catalog.Len(),
		"learnings", s.learnings.Len(),
	)
	return nil
}

// Stop flushes state and shuts down the service.
func (s *Service) Stop(ctx context.Context) error {
	s.log.Info("Stopping recovery service...")

	// Flush buffered history
	if err := s.history.Flush(ctx); err != nil {
		s.log.Warn("Failed to flush history", "error", err)
	}

	// Close Redis
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.log.Warn("Failed to close Redis", "error", err)
		}
	}

	// Close Database
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.log.Warn("Failed to close database", "error", err)
		}
	}

	// Stop Health Server
	return s.healthSrv.Stop(ctx)
}

// runEscalationWatcher keeps the backlog gauge current and nags about
// escalations waiting for an operator.
func (s *Service) runEscalationWatcher(ctx context.Context) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			count, err := s.queue.Count(ctx)
			if err != nil {
				s.log.Warn("Failed to count escalations", "error", err)
				continue
			}
			metrics.EscalationBacklog.Set(float64(count))
			if count > 0 {
				s.log.Warn("Escalations awaiting attention", "count", count)
			}
		}
	}
}
