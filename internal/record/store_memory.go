package record

import (
	"context"
	"sort"
	"sync"
	"time"

	id "sprout/pkg/domain"
	"sprout/pkg/platform/sentinel"
)

type pairKey struct {
	milestoneID id.MilestoneID
	childID     id.ChildID
}

// InMemory is the development and test record store. The pair index mirrors
// the unique constraint the Postgres store gets from its schema.
type InMemory struct {
	mu      sync.Mutex
	records map[id.RecordID]*AchievementRecord
	pairs   map[pairKey]id.RecordID
}

func NewInMemory() *InMemory {
	return &InMemory{
		records: make(map[id.RecordID]*AchievementRecord),
		pairs:   make(map[pairKey]id.RecordID),
	}
}

func (s *InMemory) Create(_ context.Context, rec *AchievementRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := pairKey{milestoneID: rec.MilestoneID, childID: rec.ChildID}
	if _, exists := s.pairs[key]; exists {
		return sentinel.ErrConflict
	}
	if _, exists := s.records[rec.ID]; exists {
		return sentinel.ErrConflict
	}

	clone := *rec
	s.records[rec.ID] = &clone
	s.pairs[key] = rec.ID
	return nil
}

func (s *InMemory) FindByID(_ context.Context, recordID id.RecordID) (*AchievementRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[recordID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	clone := *rec
	return &clone, nil
}

func (s *InMemory) ListByChild(_ context.Context, childID id.ChildID) ([]*AchievementRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*AchievementRecord
	for _, rec := range s.records {
		if rec.ChildID != childID {
			continue
		}
		clone := *rec
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (s *InMemory) Update(_ context.Context, rec *AchievementRecord, expectedUpdatedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.records[rec.ID]
	if !ok {
		return sentinel.ErrNotFound
	}
	if !current.UpdatedAt.Equal(expectedUpdatedAt) {
		return sentinel.ErrStaleVersion
	}

	clone := *rec
	s.records[rec.ID] = &clone
	return nil
}

func (s *InMemory) Delete(_ context.Context, recordID id.RecordID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[recordID]
	if !ok {
		return sentinel.ErrNotFound
	}
	delete(s.pairs, pairKey{milestoneID: rec.MilestoneID, childID: rec.ChildID})
	delete(s.records, recordID)
	return nil
}

func (s *InMemory) UpdateVerificationIfPending(_ context.Context, recordID id.RecordID, v Verification, updatedAt time.Time) (*AchievementRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[recordID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	if rec.Verification.Status != id.VerificationPending {
		return nil, sentinel.ErrInvalidState
	}

	rec.Verification = v
	rec.UpdatedAt = updatedAt
	clone := *rec
	return &clone, nil
}
