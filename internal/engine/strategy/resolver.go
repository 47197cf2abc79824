package strategy

import (
	"strings"

	"github.com/vietddude/remedy/internal/core/domain"
	"github.com/vietddude/remedy/internal/engine/classify"
	"github.com/vietddude/remedy/internal/engine/learning"
	"github.com/vietddude/remedy/internal/engine/metrics"
	"github.com/vietddude/remedy/internal/engine/pattern"
)

// Decision is the outcome of strategy resolution for a failure: which
// strategy to drive and everything the executor or a human needs alongside.
type Decision struct {
	Strategy      domain.Strategy      `json:"strategy"`
	Pattern       *domain.ErrorPattern `json:"pattern,omitempty"`
	Severity      domain.Severity      `json:"severity,omitempty"`
	ErrorText     string               `json:"error_text"`
	Fingerprint   string               `json:"fingerprint"`
	Hints         []string             `json:"hints,omitempty"`
	Modifications map[string]any       `json:"modifications,omitempty"`
	Learned       bool                 `json:"learned"`
}

// Resolver picks a recovery strategy for a failure: learnings first, then
// the matched pattern's default, then a generic retry.
type Resolver struct {
	catalog    *pattern.Catalog
	learnings  *learning.Store
	classifier *classify.Classifier
}

// NewResolver creates a resolver over the given catalog and learning store.
func NewResolver(catalog *pattern.Catalog, learnings *learning.Store, classifier *classify.Classifier) *Resolver {
	return &Resolver{
		catalog:    catalog,
		learnings:  learnings,
		classifier: classifier,
	}
}

// Resolve classifies the failure and picks a strategy. A learning whose
// fingerprint matches and whose success rate clears the threshold overrides
// the pattern default; otherwise the pattern's default strategy applies and
// its match counter is bumped. Unmatched failures fall back to plain retry.
func (r *Resolver) Resolve(f domain.Failure) *Decision {
	matched := r.classifier.Match(f)
	fp := classify.Fingerprint(f.Text)

	d := &Decision{
		ErrorText:   f.Text,
		Fingerprint: fp,
	}

	patternLabel, severityLabel := "unknown", "unknown"
	if matched != nil {
		patternLabel, severityLabel = matched.ID, string(matched.Severity)
	}
	metrics.ClassificationsTotal.WithLabelValues(patternLabel, severityLabel).Inc()

	if learned := r.learnings.Lookup(fp); learned != nil {
		d.Strategy = learned.Strategy
		d.Pattern = matched
		d.Modifications = cloneModifications(learned.Modifications)
		d.Hints = []string{"Previously successful strategy: " + string(learned.Strategy)}
		d.Learned = true
		if matched != nil {
			d.Severity = matched.Severity
		}
		return d
	}

	if matched != nil {
		r.catalog.RecordMatch(matched.ID)

		d.Strategy = matched.DefaultStrategy
		d.Pattern = matched
		d.Severity = matched.Severity
		d.Hints = append([]string(nil), matched.RecoveryHints...)

		if matched.DefaultStrategy == domain.StrategyRetryModified {
			id := strings.ToLower(matched.ID)
			switch {
			case strings.Contains(id, "timeout"):
				d.Modifications = map[string]any{"timeout_multiplier": 2.0}
			case strings.Contains(id, "memory"):
				d.Modifications = map[string]any{"chunk_size_divisor": 2}
			}
		}
		return d
	}

	d.Strategy = domain.StrategyRetry
	d.Hints = []string{"Unknown error pattern - using default retry strategy"}
	return d
}

func cloneModifications(mods map[string]any) map[string]any {
	if mods == nil {
		return nil
	}
	out := make(map[string]any, len(mods))
	for k, v := range mods {
		out[k] = v
	}
	return out
}
