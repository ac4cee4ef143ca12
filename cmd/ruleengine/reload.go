package main

import (
	"context"
	"fmt"
	"sync"

	"mercator-hq/ruleengine/pkg/seed"
)

// reloadStatus remembers the most recent seed reload failure.
type reloadStatus struct {
	mu   sync.Mutex
	last error
}

func newReloadStatus() *reloadStatus {
	return &reloadStatus{}
}

func (s *reloadStatus) record(_ seed.Report, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last = err
}

func (s *reloadStatus) check(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.last != nil {
		return fmt.Errorf("last seed reload failed: %w", s.last)
	}
	return nil
}
