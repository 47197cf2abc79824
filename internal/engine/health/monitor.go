package health

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Pinger reports whether a backing service is reachable.
type Pinger interface {
	Health(ctx context.Context) error
}

// BacklogCounter reports the number of escalations awaiting an operator.
type BacklogCounter interface {
	Count(ctx context.Context) (int64, error)
}

// SizeReporter reports the number of buffered recovery attempts.
type SizeReporter interface {
	Size() int
}

// Monitor aggregates health status from the engine's backing components.
type Monitor struct {
	db         Pinger
	cache      Pinger
	backlog    BacklogCounter
	history    SizeReporter
	lastCheck  time.Time
	lastReport Report
	mu         sync.Mutex
}

// NewMonitor creates a new health monitor. db, cache and backlog may be nil
// when the corresponding backend is not configured.
func NewMonitor(db, cache Pinger, backlog BacklogCounter, history SizeReporter) *Monitor {
	return &Monitor{
		db:      db,
		cache:   cache,
		backlog: backlog,
		history: history,
	}
}

// CheckHealth performs a health check across all configured components.
func (m *Monitor) CheckHealth(ctx context.Context) Report {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Rate limit checks (e.g. max once per 10s) to avoid hammering backends
	if time.Since(m.lastCheck) < 10*time.Second && len(m.lastReport.Components) > 0 {
		return m.lastReport
	}

	report := Report{
		SystemStatus: StatusHealthy,
		Components:   make(map[string]ComponentHealth),
		CheckedAt:    time.Now(),
	}

	// 1. Storage backend. A dead database means nothing persists, so this
	// is the only component that can take the whole system critical on its own.
	storage := ComponentHealth{Component: "storage", Status: StatusHealthy}
	if m.db == nil {
		storage.Detail = "file-backed"
	} else if err := m.db.Health(ctx); err != nil {
		storage.Status = StatusCritical
		storage.Detail = err.Error()
	}
	report.Components["storage"] = storage

	// 2. Escalation cache. Losing it degrades escalation delivery but the
	// engine keeps classifying and retrying.
	if m.cache != nil {
		cache := ComponentHealth{Component: "cache", Status: StatusHealthy}
		if err := m.cache.Health(ctx); err != nil {
			cache.Status = StatusDegraded
			cache.Detail = err.Error()
		}
		report.Components["cache"] = cache
	}

	// 3. Escalation backlog size.
	if m.backlog != nil {
		esc := ComponentHealth{Component: "escalations", Status: StatusHealthy}
		count, err := m.backlog.Count(ctx)
		if err == nil {
			esc.Detail = fmt.Sprintf("%d pending", count)
			if count > 50 {
				esc.Status = StatusCritical
			} else if count > 0 {
				esc.Status = StatusDegraded
			}
		}
		report.Components["escalations"] = esc
	}

	// 4. In-memory history buffer.
	if m.history != nil {
		hist := ComponentHealth{Component: "history", Status: StatusHealthy}
		size := m.history.Size()
		hist.Detail = fmt.Sprintf("%d attempts buffered", size)
		if size > 5000 {
			hist.Status = StatusDegraded
		}
		report.Components["history"] = hist
	}

	// Evaluate overall status (worst case wins)
	for _, c := range report.Components {
		if c.Status == StatusCritical {
			report.SystemStatus = StatusCritical
			break
		}
		if c.Status == StatusDegraded {
			report.SystemStatus = StatusDegraded
		}
	}

	m.lastCheck = time.Now()
	m.lastReport = report
	return report
}
