package pattern

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/vietddude/remedy/internal/core/domain"
	"github.com/vietddude/remedy/internal/infra/storage"
)

// ErrEmptyPatternID is returned when registering a pattern without an id.
var ErrEmptyPatternID = errors.New("pattern id must not be empty")

// Catalog is the ordered pattern collection classification runs against.
// Persisted patterns keep their stored order; built-ins are seeded after
// loading, insert-if-absent, so user overrides of built-in ids survive
// restarts. Registration order doubles as classification priority.
type Catalog struct {
	mu    sync.RWMutex
	repo  storage.PatternRepository
	order []*domain.ErrorPattern
	index map[string]*domain.ErrorPattern
	log   *slog.Logger
}

// NewCatalog creates an empty catalog backed by the given repository.
func NewCatalog(repo storage.PatternRepository) *Catalog {
	return &Catalog{
		repo:  repo,
		index: make(map[string]*domain.ErrorPattern),
		log:   slog.Default().With("component", "catalog"),
	}
}

// Load reads persisted patterns and seeds the built-in set. A failed read
// logs a warning and starts from built-ins alone; loading is never fatal.
func (c *Catalog) Load(ctx context.Context) {
	stored, err := c.repo.LoadPatterns(ctx)
	if err != nil {
		c.log.Warn("Failed to load patterns, starting with built-ins", "error", err)
		stored = nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.order = nil
	c.index = make(map[string]*domain.ErrorPattern)
	for _, p := range stored {
		if p.ID == "" {
			continue
		}
		c.insert(p)
	}
	for _, p := range builtinPatterns() {
		if _, ok := c.index[p.ID]; !ok {
			c.insert(p)
		}
	}
}

// insert upserts without locking; callers hold the write lock.
func (c *Catalog) insert(p *domain.ErrorPattern) {
	if existing, ok := c.index[p.ID]; ok {
		*existing = *p
		return
	}
	c.index[p.ID] = p
	c.order = append(c.order, p)
}

// Add registers a pattern and persists the catalog. An existing id is
// replaced in place, keeping its classification priority.
func (c *Catalog) Add(ctx context.Context, p *domain.ErrorPattern) error {
	if p.ID == "" {
		return ErrEmptyPatternID
	}

	cp := *p
	if cp.Severity == "" {
		cp.Severity = domain.SeverityMedium
	}
	if cp.DefaultStrategy == "" {
		cp.DefaultStrategy = domain.StrategyRetry
	}
	if cp.Created.IsZero() {
		cp.Created = time.Now()
	}

	c.mu.Lock()
	c.insert(&cp)
	c.mu.Unlock()

	return c.Persist(ctx)
}

// Remove deletes a pattern by id and persists the catalog. Returns false
// when the id is unknown.
func (c *Catalog) Remove(ctx context.Context, id string) (bool, error) {
	c.mu.Lock()
	if _, ok := c.index[id]; !ok {
		c.mu.Unlock()
		return false, nil
	}
	delete(c.index, id)
	for i, p := range c.order {
		if p.ID == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	c.mu.Unlock()

	return true, c.Persist(ctx)
}

// Get returns the pattern with the given id, or nil.
func (c *Catalog) Get(id string) *domain.ErrorPattern {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.index[id]
}

// List returns the patterns in classification order.
func (c *Catalog) List() []*domain.ErrorPattern {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]*domain.ErrorPattern, len(c.order))
	copy(out, c.order)
	return out
}

// Len returns the number of registered patterns.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.order)
}

// RecordMatch bumps a pattern's match counter. The new count is flushed on
// the next persist.
func (c *Catalog) RecordMatch(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if p, ok := c.index[id]; ok {
		p.MatchCount++
	}
}

// MarkSuccess bumps a pattern's success counter and persists the catalog.
func (c *Catalog) MarkSuccess(ctx context.Context, id string) error {
	c.mu.Lock()
	p, ok := c.index[id]
	if ok {
		p.SuccessCount++
	}
	c.mu.Unlock()

	if !ok {
		return nil
	}
	return c.Persist(ctx)
}

// Persist writes the full catalog through the repository.
func (c *Catalog) Persist(ctx context.Context) error {
	return c.repo.SavePatterns(ctx, c.List())
}
