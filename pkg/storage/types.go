package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Rule is a stored rule: its source text and the interchange JSON of its
// syntax tree.
type Rule struct {
	ID        int64           `json:"id"`
	Name      string          `json:"ruleName"`
	Text      string          `json:"ruleString"`
	AST       json.RawMessage `json:"ast"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// clone returns a deep copy so callers never share AST bytes with the store.
func (r *Rule) clone() *Rule {
	c := *r
	c.AST = append(json.RawMessage(nil), r.AST...)
	return &c
}

// Store is the persistence boundary for rules. Implementations are safe for
// concurrent use.
type Store interface {
	// Save inserts a new rule and returns its assigned ID.
	Save(ctx context.Context, name, text string, ast []byte) (int64, error)

	// FindByID returns the rule with id, or nil and no error if absent.
	FindByID(ctx context.Context, id int64) (*Rule, error)

	// FindAllByIDs returns the rules whose IDs appear in ids, ordered by ID.
	// Missing IDs are skipped and duplicates collapse to one rule.
	FindAllByIDs(ctx context.Context, ids []int64) ([]*Rule, error)

	// FindByName returns the oldest rule called name, or nil if none.
	FindByName(ctx context.Context, name string) (*Rule, error)

	// Update replaces the text and AST of an existing rule. A missing ID
	// yields *errors.NotFoundError.
	Update(ctx context.Context, id int64, text string, ast []byte) error

	// List returns every rule ordered by ID.
	List(ctx context.Context) ([]*Rule, error)

	// Delete removes a rule. A missing ID yields *errors.NotFoundError.
	Delete(ctx context.Context, id int64) error

	// Count returns the number of stored rules.
	Count(ctx context.Context) (int, error)

	// Ping reports whether the backend is reachable.
	Ping(ctx context.Context) error

	// Close releases backend resources.
	Close() error
}

// Maintainer is implemented by stores that benefit from periodic upkeep.
type Maintainer interface {
	Maintain(ctx context.Context) error
}

// Error wraps a backend failure with the operation that caused it.
type Error struct {
	Backend   string
	Operation string
	Cause     error
}

func (e *Error) Error() string {
	return fmt.Sprintf("storage error [backend=%s, operation=%s]: %v", e.Backend, e.Operation, e.Cause)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func newError(backend, op string, cause error) *Error {
	return &Error{Backend: backend, Operation: op, Cause: cause}
}
