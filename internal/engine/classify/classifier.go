// Package classify matches failures against the pattern catalog and reduces
// failure text to stable signatures.
package classify

import (
	"regexp"
	"strings"
	"sync"

	"github.com/vietddude/remedy/internal/core/domain"
	"github.com/vietddude/remedy/internal/engine/pattern"
)

// Classifier walks the catalog in order and returns the first pattern a
// failure matches. Pattern regexes are compiled case-insensitively on first
// use and cached; a regex that fails to compile never matches but leaves the
// pattern's substring and type signals intact.
type Classifier struct {
	catalog *pattern.Catalog

	mu       sync.Mutex
	compiled map[string]*regexp.Regexp
}

// NewClassifier creates a classifier over the given catalog.
func NewClassifier(catalog *pattern.Catalog) *Classifier {
	return &Classifier{
		catalog:  catalog,
		compiled: make(map[string]*regexp.Regexp),
	}
}

// Match returns the first catalog pattern the failure matches, or nil when
// nothing matches.
func (c *Classifier) Match(f domain.Failure) *domain.ErrorPattern {
	if f.Text == "" && f.Type == "" {
		return nil
	}
	for _, p := range c.catalog.List() {
		if c.matches(p, f) {
			return p
		}
	}
	return nil
}

// matches checks a single pattern's three signals. Any one suffices.
func (c *Classifier) matches(p *domain.ErrorPattern, f domain.Failure) bool {
	if p.Regex != "" && f.Text != "" {
		if re := c.regexFor(p.Regex); re != nil && re.MatchString(f.Text) {
			return true
		}
	}

	if len(p.MessageContains) > 0 && f.Text != "" {
		lower := strings.ToLower(f.Text)
		for _, phrase := range p.MessageContains {
			if strings.Contains(lower, strings.ToLower(phrase)) {
				return true
			}
		}
	}

	if f.Type != "" {
		for _, tag := range p.ErrorTypes {
			if tag == f.Type {
				return true
			}
		}
	}

	return false
}

// regexFor returns the cached case-insensitive compilation of expr. The nil
// result of a malformed expression is cached too, so a bad user pattern is
// only reported once per expression.
func (c *Classifier) regexFor(expr string) *regexp.Regexp {
	c.mu.Lock()
	defer c.mu.Unlock()

	if re, ok := c.compiled[expr]; ok {
		return re
	}
	re, err := regexp.Compile("(?i)" + expr)
	if err != nil {
		re = nil
	}
	c.compiled[expr] = re
	return re
}
