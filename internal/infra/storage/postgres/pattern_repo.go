package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/vietddude/remedy/internal/core/domain"
)

// PatternRepo implements storage.PatternRepository using PostgreSQL.
type PatternRepo struct {
	db *DB
}

// NewPatternRepo creates a new PostgreSQL pattern repository.
func NewPatternRepo(db *DB) *PatternRepo {
	return &PatternRepo{db: db}
}

type patternRow struct {
	PatternID       string    `db:"pattern_id"`
	Name            string    `db:"name"`
	Regex           string    `db:"regex"`
	MessageContains []byte    `db:"message_contains"`
	ErrorTypes      []byte    `db:"error_types"`
	Severity        string    `db:"severity"`
	DefaultStrategy string    `db:"default_strategy"`
	Description     string    `db:"description"`
	RecoveryHints   []byte    `db:"recovery_hints"`
	Created         time.Time `db:"created"`
	MatchCount      int       `db:"match_count"`
	SuccessCount    int       `db:"success_count"`
}

// LoadPatterns returns all persisted patterns in insertion order.
func (r *PatternRepo) LoadPatterns(ctx context.Context) ([]*domain.ErrorPattern, error) {
	var rows []patternRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT pattern_id, name, regex, message_contains, error_types, severity,
		       default_strategy, description, recovery_hints, created,
		       match_count, success_count
		FROM patterns
		ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to load patterns: %w", err)
	}

	patterns := make([]*domain.ErrorPattern, 0, len(rows))
	for _, row := range rows {
		contains, err := unmarshalStrings(row.MessageContains)
		if err != nil {
			return nil, fmt.Errorf("failed to decode pattern %s: %w", row.PatternID, err)
		}
		types, err := unmarshalStrings(row.ErrorTypes)
		if err != nil {
			return nil, fmt.Errorf("failed to decode pattern %s: %w", row.PatternID, err)
		}
		hints, err := unmarshalStrings(row.RecoveryHints)
		if err != nil {
			return nil, fmt.Errorf("failed to decode pattern %s: %w", row.PatternID, err)
		}

		patterns = append(patterns, &domain.ErrorPattern{
			ID:              row.PatternID,
			Name:            row.Name,
			Regex:           row.Regex,
			MessageContains: contains,
			ErrorTypes:      types,
			Severity:        domain.Severity(row.Severity),
			DefaultStrategy: domain.Strategy(row.DefaultStrategy),
			Description:     row.Description,
			RecoveryHints:   hints,
			Created:         row.Created,
			MatchCount:      row.MatchCount,
			SuccessCount:    row.SuccessCount,
		})
	}
	return patterns, nil
}

// SavePatterns replaces the persisted catalog with the given patterns.
func (r *PatternRepo) SavePatterns(ctx context.Context, patterns []*domain.ErrorPattern) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM patterns`); err != nil {
		return fmt.Errorf("failed to clear patterns: %w", err)
	}

	const insert = `
		INSERT INTO patterns (pattern_id, name, regex, message_contains, error_types,
		                      severity, default_strategy, description, recovery_hints,
		                      created, match_count, success_count)
		VALUES (:pattern_id, :name, :regex, :message_contains, :error_types,
		        :severity, :default_strategy, :description, :recovery_hints,
		        :created, :match_count, :success_count)`

	for _, p := range patterns {
		contains, err := marshalStrings(p.MessageContains)
		if err != nil {
			return fmt.Errorf("failed to encode pattern %s: %w", p.ID, err)
		}
		types, err := marshalStrings(p.ErrorTypes)
		if err != nil {
			return fmt.Errorf("failed to encode pattern %s: %w", p.ID, err)
		}
		hints, err := marshalStrings(p.RecoveryHints)
		if err != nil {
			return fmt.Errorf("failed to encode pattern %s: %w", p.ID, err)
		}

		row := patternRow{
			PatternID:       p.ID,
			Name:            p.Name,
			Regex:           p.Regex,
			MessageContains: contains,
			ErrorTypes:      types,
			Severity:        string(p.Severity),
			DefaultStrategy: string(p.DefaultStrategy),
			Description:     p.Description,
			RecoveryHints:   hints,
			Created:         p.Created,
			MatchCount:      p.MatchCount,
			SuccessCount:    p.SuccessCount,
		}
		if _, err := tx.NamedExecContext(ctx, insert, row); err != nil {
			return fmt.Errorf("failed to insert pattern %s: %w", p.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit patterns: %w", err)
	}
	return nil
}
