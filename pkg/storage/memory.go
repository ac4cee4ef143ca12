package storage

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	ruleerrors "mercator-hq/ruleengine/pkg/rule/errors"
)

// MemoryStore implements Store with an in-memory map. Rules are copied on
// the way in and out.
type MemoryStore struct {
	mu     sync.RWMutex
	rules  map[int64]*Rule
	nextID int64
	now    func() time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		rules:  make(map[int64]*Rule),
		nextID: 1,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (s *MemoryStore) Save(ctx context.Context, name, text string, ast []byte) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	now := s.now()
	s.rules[id] = &Rule{
		ID:        id,
		Name:      name,
		Text:      text,
		AST:       append([]byte(nil), ast...),
		CreatedAt: now,
		UpdatedAt: now,
	}
	return id, nil
}

func (s *MemoryStore) FindByID(ctx context.Context, id int64) (*Rule, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.rules[id]
	if !ok {
		return nil, nil
	}
	return r.clone(), nil
}

func (s *MemoryStore) FindAllByIDs(ctx context.Context, ids []int64) ([]*Rule, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[int64]bool, len(ids))
	var out []*Rule
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if r, ok := s.rules[id]; ok {
			out = append(out, r.clone())
		}
	}
	sortByID(out)
	return out, nil
}

func (s *MemoryStore) FindByName(ctx context.Context, name string) (*Rule, error) {
	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, r := range all {
		if r.Name == name {
			return r, nil
		}
	}
	return nil, nil
}

func (s *MemoryStore) Update(ctx context.Context, id int64, text string, ast []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.rules[id]
	if !ok {
		return &ruleerrors.NotFoundError{IDs: []int64{id}}
	}
	r.Text = text
	r.AST = append([]byte(nil), ast...)
	r.UpdatedAt = s.now()
	return nil
}

func (s *MemoryStore) List(ctx context.Context) ([]*Rule, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Rule, 0, len(s.rules))
	for _, r := range s.rules {
		out = append(out, r.clone())
	}
	sortByID(out)
	return out, nil
}

func (s *MemoryStore) Delete(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.rules[id]; !ok {
		return &ruleerrors.NotFoundError{IDs: []int64{id}}
	}
	delete(s.rules, id)
	return nil
}

func (s *MemoryStore) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rules), nil
}

func (s *MemoryStore) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (s *MemoryStore) Close() error {
	return nil
}

func sortByID(rules []*Rule) {
	slices.SortFunc(rules, func(a, b *Rule) int { return cmp.Compare(a.ID, b.ID) })
}
