package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/vietddude/remedy/internal/core/domain"
)

// LearningRepo implements storage.LearningRepository using PostgreSQL.
type LearningRepo struct {
	db *DB
}

// NewLearningRepo creates a new PostgreSQL learning repository.
func NewLearningRepo(db *DB) *LearningRepo {
	return &LearningRepo{db: db}
}

type learningRow struct {
	LearningID    string    `db:"learning_id"`
	PatternID     string    `db:"pattern_id"`
	Fingerprint   string    `db:"error_signature"`
	Strategy      string    `db:"successful_strategy"`
	Modifications []byte    `db:"modifications"`
	SuccessRate   float64   `db:"success_rate"`
	AttemptCount  int       `db:"attempt_count"`
	LastSuccess   time.Time `db:"last_success"`
	Notes         string    `db:"notes"`
}

// LoadLearnings returns all persisted learnings in insertion order.
func (r *LearningRepo) LoadLearnings(ctx context.Context) ([]*domain.Learning, error) {
	var rows []learningRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT learning_id, pattern_id, error_signature, successful_strategy,
		       modifications, success_rate, attempt_count, last_success, notes
		FROM learnings
		ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to load learnings: %w", err)
	}

	learnings := make([]*domain.Learning, 0, len(rows))
	for _, row := range rows {
		mods, err := unmarshalMap(row.Modifications)
		if err != nil {
			return nil, fmt.Errorf("failed to decode learning %s: %w", row.LearningID, err)
		}

		learnings = append(learnings, &domain.Learning{
			ID:            row.LearningID,
			PatternID:     row.PatternID,
			Fingerprint:   row.Fingerprint,
			Strategy:      domain.Strategy(row.Strategy),
			Modifications: mods,
			SuccessRate:   row.SuccessRate,
			AttemptCount:  row.AttemptCount,
			LastSuccess:   row.LastSuccess,
			Notes:         row.Notes,
		})
	}
	return learnings, nil
}

// SaveLearnings replaces the persisted learnings with the given set.
func (r *LearningRepo) SaveLearnings(ctx context.Context, learnings []*domain.Learning) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM learnings`); err != nil {
		return fmt.Errorf("failed to clear learnings: %w", err)
	}

	const insert = `
		INSERT INTO learnings (learning_id, pattern_id, error_signature, successful_strategy,
		                       modifications, success_rate, attempt_count, last_success, notes)
		VALUES (:learning_id, :pattern_id, :error_signature, :successful_strategy,
		        :modifications, :success_rate, :attempt_count, :last_success, :notes)`

	for _, l := range learnings {
		mods, err := marshalMap(l.Modifications)
		if err != nil {
			return fmt.Errorf("failed to encode learning %s: %w", l.ID, err)
		}

		row := learningRow{
			LearningID:    l.ID,
			PatternID:     l.PatternID,
			Fingerprint:   l.Fingerprint,
			Strategy:      string(l.Strategy),
			Modifications: mods,
			SuccessRate:   l.SuccessRate,
			AttemptCount:  l.AttemptCount,
			LastSuccess:   l.LastSuccess,
			Notes:         l.Notes,
		}
		if _, err := tx.NamedExecContext(ctx, insert, row); err != nil {
			return fmt.Errorf("failed to insert learning %s: %w", l.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit learnings: %w", err)
	}
	return nil
}
