package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/vietddude/remedy/internal/core/domain"
)

const (
	patternsFile  = "patterns.json"
	learningsFile = "learnings.json"
	historyFile   = "history.json"

	// historyLimit caps the persisted attempt log.
	historyLimit = 1000
)

// Store persists the three engine collections as versioned JSON files under
// a single data directory. Loads are tolerant: a missing or malformed file
// yields an empty collection so the engine can always start.
type Store struct {
	dir string
	log *slog.Logger
}

// NewStore creates the data directory if needed and returns a file-backed store.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &Store{
		dir: dir,
		log: slog.Default().With("component", "jsonfile"),
	}, nil
}

type patternsEnvelope struct {
	Version  string                 `json:"version"`
	Updated  time.Time              `json:"updated"`
	Patterns []*domain.ErrorPattern `json:"patterns"`
}

type learningsEnvelope struct {
	Version   string             `json:"version"`
	Updated   time.Time          `json:"updated"`
	Learnings []*domain.Learning `json:"learnings"`
}

type historyEnvelope struct {
	Version string                    `json:"version"`
	Updated time.Time                 `json:"updated"`
	History []*domain.RecoveryAttempt `json:"history"`
}

// LoadPatterns reads the pattern catalog from disk.
func (s *Store) LoadPatterns(ctx context.Context) ([]*domain.ErrorPattern, error) {
	var env patternsEnvelope
	if !s.read(patternsFile, &env) {
		return nil, nil
	}
	return env.Patterns, nil
}

// SavePatterns writes the full pattern catalog to disk.
func (s *Store) SavePatterns(ctx context.Context, patterns []*domain.ErrorPattern) error {
	if patterns == nil {
		patterns = []*domain.ErrorPattern{}
	}
	return s.write(patternsFile, patternsEnvelope{
		Version:  domain.Version,
		Updated:  time.Now(),
		Patterns: patterns,
	})
}

// LoadLearnings reads learned strategies from disk.
func (s *Store) LoadLearnings(ctx context.Context) ([]*domain.Learning, error) {
	var env learningsEnvelope
	if !s.read(learningsFile, &env) {
		return nil, nil
	}
	return env.Learnings, nil
}

// SaveLearnings writes the full learning set to disk.
func (s *Store) SaveLearnings(ctx context.Context, learnings []*domain.Learning) error {
	if learnings == nil {
		learnings = []*domain.Learning{}
	}
	return s.write(learningsFile, learningsEnvelope{
		Version:   domain.Version,
		Updated:   time.Now(),
		Learnings: learnings,
	})
}

// LoadHistory reads the recovery attempt log from disk.
func (s *Store) LoadHistory(ctx context.Context) ([]*domain.RecoveryAttempt, error) {
	var env historyEnvelope
	if !s.read(historyFile, &env) {
		return nil, nil
	}
	return env.History, nil
}

// SaveHistory writes the attempt log to disk, keeping the most recent records.
func (s *Store) SaveHistory(ctx context.Context, attempts []*domain.RecoveryAttempt) error {
	if len(attempts) > historyLimit {
		attempts = attempts[len(attempts)-historyLimit:]
	}
	if attempts == nil {
		attempts = []*domain.RecoveryAttempt{}
	}
	return s.write(historyFile, historyEnvelope{
		Version: domain.Version,
		Updated: time.Now(),
		History: attempts,
	})
}

// read loads one collection file. Returns false for a missing or unreadable
// collection; the caller starts empty.
func (s *Store) read(name string, v any) bool {
	path := filepath.Join(s.dir, name)
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.log.Warn("Could not read collection, starting empty", "path", path, "error", err)
		}
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		s.log.Warn("Could not parse collection, starting empty", "path", path, "error", err)
		return false
	}
	return true
}

// write marshals one collection and replaces its file atomically.
func (s *Store) write(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", name, err)
	}

	path := filepath.Join(s.dir, name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to replace %s: %w", name, err)
	}
	return nil
}
