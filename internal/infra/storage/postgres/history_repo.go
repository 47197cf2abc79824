package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/vietddude/remedy/internal/core/domain"
)

// historyLimit caps the number of attempts kept in the history table.
const historyLimit = 1000

// HistoryRepo implements storage.HistoryRepository using PostgreSQL.
type HistoryRepo struct {
	db *DB
}

// NewHistoryRepo creates a new PostgreSQL history repository.
func NewHistoryRepo(db *DB) *HistoryRepo {
	return &HistoryRepo{db: db}
}

type attemptRow struct {
	AttemptID     string    `db:"attempt_id"`
	PatternID     string    `db:"pattern_id"`
	ErrorText     string    `db:"error_text"`
	ErrorType     string    `db:"error_type"`
	StrategyUsed  string    `db:"strategy_used"`
	Success       bool      `db:"success"`
	DurationMS    float64   `db:"duration_ms"`
	RetryCount    int       `db:"retry_count"`
	Modifications []byte    `db:"modifications"`
	FallbackUsed  string    `db:"fallback_used"`
	Notes         string    `db:"notes"`
	Timestamp     time.Time `db:"timestamp"`
}

// LoadHistory returns persisted attempts, oldest first.
func (r *HistoryRepo) LoadHistory(ctx context.Context) ([]*domain.RecoveryAttempt, error) {
	var rows []attemptRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT attempt_id, pattern_id, error_text, error_type, strategy_used,
		       success, duration_ms, retry_count, modifications, fallback_used,
		       notes, timestamp
		FROM history
		ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}

	attempts := make([]*domain.RecoveryAttempt, 0, len(rows))
	for _, row := range rows {
		mods, err := unmarshalMap(row.Modifications)
		if err != nil {
			return nil, fmt.Errorf("failed to decode attempt %s: %w", row.AttemptID, err)
		}

		attempts = append(attempts, &domain.RecoveryAttempt{
			ID:            row.AttemptID,
			PatternID:     row.PatternID,
			ErrorText:     row.ErrorText,
			ErrorType:     row.ErrorType,
			StrategyUsed:  domain.Strategy(row.StrategyUsed),
			Success:       row.Success,
			DurationMS:    row.DurationMS,
			RetryCount:    row.RetryCount,
			Modifications: mods,
			FallbackUsed:  row.FallbackUsed,
			Notes:         row.Notes,
			Timestamp:     row.Timestamp,
		})
	}
	return attempts, nil
}

// SaveHistory replaces the persisted log, keeping only the most recent
// attempts past the retention cap.
func (r *HistoryRepo) SaveHistory(ctx context.Context, attempts []*domain.RecoveryAttempt) error {
	if len(attempts) > historyLimit {
		attempts = attempts[len(attempts)-historyLimit:]
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM history`); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}

	const insert = `
		INSERT INTO history (attempt_id, pattern_id, error_text, error_type, strategy_used,
		                     success, duration_ms, retry_count, modifications, fallback_used,
		                     notes, timestamp)
		VALUES (:attempt_id, :pattern_id, :error_text, :error_type, :strategy_used,
		        :success, :duration_ms, :retry_count, :modifications, :fallback_used,
		        :notes, :timestamp)`

	for _, a := range attempts {
		mods, err := marshalMap(a.Modifications)
		if err != nil {
			return fmt.Errorf("failed to encode attempt %s: %w", a.ID, err)
		}

		row := attemptRow{
			AttemptID:     a.ID,
			PatternID:     a.PatternID,
			ErrorText:     a.ErrorText,
			ErrorType:     a.ErrorType,
			StrategyUsed:  string(a.StrategyUsed),
			Success:       a.Success,
			DurationMS:    a.DurationMS,
			RetryCount:    a.RetryCount,
			Modifications: mods,
			FallbackUsed:  a.FallbackUsed,
			Notes:         a.Notes,
			Timestamp:     a.Timestamp,
		}
		if _, err := tx.NamedExecContext(ctx, insert, row); err != nil {
			return fmt.Errorf("failed to insert attempt %s: %w", a.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit history: %w", err)
	}
	return nil
}
