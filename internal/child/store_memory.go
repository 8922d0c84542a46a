package child

import (
	"context"
	"sort"
	"strings"
	"sync"

	id "sprout/pkg/domain"
	"sprout/pkg/platform/sentinel"
)

// InMemory is the development and test roster store.
type InMemory struct {
	mu       sync.RWMutex
	children map[id.ChildID]*Child
}

func NewInMemory() *InMemory {
	return &InMemory{children: make(map[id.ChildID]*Child)}
}

// Put inserts or replaces a roster entry. Only dev seeding and tests call
// this; production rosters arrive through replication.
func (s *InMemory) Put(_ context.Context, c *Child) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := *c
	s.children[c.ID] = &clone
	return nil
}

func (s *InMemory) FindByID(_ context.Context, childID id.ChildID) (*Child, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.children[childID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	clone := *c
	return &clone, nil
}

func (s *InMemory) ListByWorker(_ context.Context, workerID id.ActorID) ([]*Child, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*Child
	for _, c := range s.children {
		if c.WorkerID == workerID {
			clone := *c
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].DisplayName) < strings.ToLower(out[j].DisplayName)
	})
	return out, nil
}
