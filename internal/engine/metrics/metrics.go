// Package metrics defines Prometheus collectors for the recovery engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ClassificationsTotal counts classified failures by pattern and severity.
	ClassificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "remedy_classifications_total",
			Help: "Total number of failures classified against the pattern catalog",
		},
		[]string{"pattern", "severity"},
	)

	// RecoveryAttemptsTotal counts executor runs by strategy and outcome.
	RecoveryAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "remedy_recovery_attempts_total",
			Help: "Total number of recovery executions",
		},
		[]string{"strategy", "outcome"},
	)

	// RetriesTotal counts retries consumed during recovery.
	RetriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "remedy_retries_total",
			Help: "Total number of operation retries",
		},
		[]string{"strategy"},
	)

	// EscalationsTotal counts attempts routed to escalation.
	EscalationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "remedy_escalations_total",
			Help: "Total number of failures escalated for human attention",
		},
		[]string{"pattern"},
	)

	// RecoveryDuration observes recovery wall time per strategy.
	RecoveryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "remedy_recovery_duration_seconds",
			Help:    "Wall time of recovery executions",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"strategy"},
	)

	// Learnings tracks the learning store size.
	Learnings = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "remedy_learnings",
			Help: "Number of learned strategy preferences",
		},
	)

	// HistorySize tracks the in-memory attempt log size.
	HistorySize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "remedy_history_size",
			Help: "Number of recovery attempts held in memory",
		},
	)

	// EscalationBacklog tracks queued escalations awaiting action.
	EscalationBacklog = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "remedy_escalation_backlog",
			Help: "Number of escalations waiting in the queue",
		},
	)

	// DBConnectionPoolUsage tracks database connection pool state.
	DBConnectionPoolUsage = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "remedy_db_connection_pool_usage",
			Help: "Database connection pool connections by state",
		},
		[]string{"state"},
	)
)
