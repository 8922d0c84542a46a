package milestone

import (
	"context"
	"sort"
	"strings"
	"sync"

	id "sprout/pkg/domain"
	"sprout/pkg/platform/sentinel"
)

// InMemory is the development and test catalog store.
type InMemory struct {
	mu   sync.RWMutex
	defs map[id.MilestoneID]*Definition
}

func NewInMemory() *InMemory {
	return &InMemory{defs: make(map[id.MilestoneID]*Definition)}
}

func (s *InMemory) Create(_ context.Context, def *Definition) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.defs[def.ID]; exists {
		return sentinel.ErrConflict
	}
	clone := *def
	s.defs[def.ID] = &clone
	return nil
}

func (s *InMemory) Update(_ context.Context, def *Definition) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.defs[def.ID]; !exists {
		return sentinel.ErrNotFound
	}
	clone := *def
	s.defs[def.ID] = &clone
	return nil
}

func (s *InMemory) FindByID(_ context.Context, milestoneID id.MilestoneID) (*Definition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	def, ok := s.defs[milestoneID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	clone := *def
	return &clone, nil
}

func (s *InMemory) List(_ context.Context) ([]*Definition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Definition, 0, len(s.defs))
	for _, def := range s.defs {
		clone := *def
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DisplayOrder != out[j].DisplayOrder {
			return out[i].DisplayOrder < out[j].DisplayOrder
		}
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out, nil
}
