package seed

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"mercator-hq/ruleengine/pkg/rule"
	"mercator-hq/ruleengine/pkg/service"
	"mercator-hq/ruleengine/pkg/storage"
)

// Upserter stores a rule by name. *service.RuleService implements it.
type Upserter interface {
	UpsertRule(ctx context.Context, name, text string) (*storage.Rule, service.Outcome, error)
}

// Report counts what a load did.
type Report struct {
	Created   int `json:"created"`
	Updated   int `json:"updated"`
	Unchanged int `json:"unchanged"`
}

// Total returns the number of entries processed.
func (r Report) Total() int {
	return r.Created + r.Updated + r.Unchanged
}

// Loader applies seed files to a rule store.
type Loader struct {
	rules  Upserter
	logger *slog.Logger
}

// NewLoader creates a Loader. A nil logger means slog.Default().
func NewLoader(rules Upserter, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{rules: rules, logger: logger.With("component", "seed")}
}

// Load reads path and upserts every rule in file order. Validation runs
// before any write; a store failure midway returns the partial report
// with the error.
func (l *Loader) Load(ctx context.Context, path string) (Report, error) {
	f, err := ReadFile(path)
	if err != nil {
		return Report{}, err
	}
	return l.Apply(ctx, f)
}

// Apply upserts an already validated file.
func (l *Loader) Apply(ctx context.Context, f *File) (Report, error) {
	var report Report
	for i, e := range f.Rules {
		name := strings.TrimSpace(e.Name)
		l.warnUnevaluable(ctx, name, e.Rule)
		_, outcome, err := l.rules.UpsertRule(ctx, name, e.Rule)
		if err != nil {
			return report, fmt.Errorf("seed rule %q: %w", name, &EntryError{Index: i, Name: name, Err: err})
		}
		switch outcome {
		case service.OutcomeCreated:
			report.Created++
		case service.OutcomeUpdated:
			report.Updated++
		default:
			report.Unchanged++
		}
	}

	l.logger.InfoContext(ctx, "seed rules applied",
		"created", report.Created,
		"updated", report.Updated,
		"unchanged", report.Unchanged,
	)
	return report, nil
}

// warnUnevaluable logs conditions that parse but would fail evaluation.
// They are stored anyway: a record without the attribute still evaluates.
func (l *Loader) warnUnevaluable(ctx context.Context, name, text string) {
	c, err := rule.Compile(text)
	if err != nil {
		return
	}
	for _, problem := range c.Check() {
		l.logger.WarnContext(ctx, "seed rule has a condition that cannot be evaluated",
			"name", name,
			"error", problem,
		)
	}
}
