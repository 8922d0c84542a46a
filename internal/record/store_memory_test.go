package record

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	id "sprout/pkg/domain"
	"sprout/pkg/platform/sentinel"
)

type InMemoryStoreSuite struct {
	suite.Suite
	store *InMemory
}

func TestInMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryStoreSuite))
}

func (s *InMemoryStoreSuite) SetupTest() {
	s.store = NewInMemory()
}

func (s *InMemoryStoreSuite) newRecord() *AchievementRecord {
	now := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	return &AchievementRecord{
		ID:           id.NewRecordID(),
		MilestoneID:  id.NewMilestoneID(),
		ChildID:      id.NewChildID(),
		CaregiverID:  id.NewActorID(),
		AchievedDate: time.Date(2026, 1, 28, 0, 0, 0, 0, time.UTC),
		Verification: pendingVerification(),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func (s *InMemoryStoreSuite) TestCreate() {
	ctx := context.Background()

	s.Run("stores and retrieves a record", func() {
		rec := s.newRecord()
		s.Require().NoError(s.store.Create(ctx, rec))

		found, err := s.store.FindByID(ctx, rec.ID)
		s.NoError(err)
		s.Equal(rec.ID, found.ID)
		s.Equal(id.VerificationPending, found.Verification.Status)
	})

	s.Run("rejects a second record for the same pair", func() {
		rec := s.newRecord()
		s.Require().NoError(s.store.Create(ctx, rec))

		dup := s.newRecord()
		dup.MilestoneID = rec.MilestoneID
		dup.ChildID = rec.ChildID
		s.ErrorIs(s.store.Create(ctx, dup), sentinel.ErrConflict)
	})

	s.Run("same milestone for a different child is fine", func() {
		rec := s.newRecord()
		s.Require().NoError(s.store.Create(ctx, rec))

		other := s.newRecord()
		other.MilestoneID = rec.MilestoneID
		s.NoError(s.store.Create(ctx, other))
	})
}

// TestConcurrentCreateSamePair verifies that racing creates for one
// (milestone, child) pair produce exactly one winner.
func (s *InMemoryStoreSuite) TestConcurrentCreateSamePair() {
	ctx := context.Background()
	milestoneID := id.NewMilestoneID()
	childID := id.NewChildID()

	const attempts = 10
	var wg sync.WaitGroup
	results := make(chan error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rec := s.newRecord()
			rec.MilestoneID = milestoneID
			rec.ChildID = childID
			results <- s.store.Create(ctx, rec)
		}()
	}
	wg.Wait()
	close(results)

	var successes, conflicts int
	for err := range results {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, sentinel.ErrConflict):
			conflicts++
		default:
			s.Failf("unexpected error", "%v", err)
		}
	}
	s.Equal(1, successes)
	s.Equal(attempts-1, conflicts)
}

func (s *InMemoryStoreSuite) TestUpdate() {
	ctx := context.Background()

	s.Run("applies the edit when updated_at matches", func() {
		rec := s.newRecord()
		s.Require().NoError(s.store.Create(ctx, rec))

		expected := rec.UpdatedAt
		rec.Notes = "smiled at mirror"
		rec.UpdatedAt = expected.Add(time.Minute)
		s.Require().NoError(s.store.Update(ctx, rec, expected))

		found, err := s.store.FindByID(ctx, rec.ID)
		s.NoError(err)
		s.Equal("smiled at mirror", found.Notes)
	})

	s.Run("rejects a stale edit", func() {
		rec := s.newRecord()
		s.Require().NoError(s.store.Create(ctx, rec))

		stale := rec.UpdatedAt.Add(-time.Hour)
		err := s.store.Update(ctx, rec, stale)
		s.ErrorIs(err, sentinel.ErrStaleVersion)
	})

	s.Run("missing record is not found", func() {
		rec := s.newRecord()
		err := s.store.Update(ctx, rec, rec.UpdatedAt)
		s.ErrorIs(err, sentinel.ErrNotFound)
	})
}

func (s *InMemoryStoreSuite) TestDelete() {
	ctx := context.Background()

	s.Run("frees the pair for a new record", func() {
		rec := s.newRecord()
		s.Require().NoError(s.store.Create(ctx, rec))
		s.Require().NoError(s.store.Delete(ctx, rec.ID))

		_, err := s.store.FindByID(ctx, rec.ID)
		s.ErrorIs(err, sentinel.ErrNotFound)

		again := s.newRecord()
		again.MilestoneID = rec.MilestoneID
		again.ChildID = rec.ChildID
		s.NoError(s.store.Create(ctx, again))
	})

	s.Run("missing record is not found", func() {
		s.ErrorIs(s.store.Delete(ctx, id.NewRecordID()), sentinel.ErrNotFound)
	})
}

func (s *InMemoryStoreSuite) TestUpdateVerificationIfPending() {
	ctx := context.Background()
	worker := id.NewActorID()
	verifiedAt := time.Date(2026, 2, 2, 14, 0, 0, 0, time.UTC)

	s.Run("completes a pending round once", func() {
		rec := s.newRecord()
		s.Require().NoError(s.store.Create(ctx, rec))

		v := Verification{
			Status:     id.VerificationApproved,
			VerifiedBy: &worker,
			VerifiedAt: &verifiedAt,
		}
		updated, err := s.store.UpdateVerificationIfPending(ctx, rec.ID, v, verifiedAt)
		s.Require().NoError(err)
		s.Equal(id.VerificationApproved, updated.Verification.Status)
		s.Equal(worker, *updated.Verification.VerifiedBy)

		_, err = s.store.UpdateVerificationIfPending(ctx, rec.ID, v, verifiedAt)
		s.ErrorIs(err, sentinel.ErrInvalidState)
	})

	s.Run("missing record is not found", func() {
		_, err := s.store.UpdateVerificationIfPending(ctx, id.NewRecordID(), Verification{Status: id.VerificationFlagged}, verifiedAt)
		s.ErrorIs(err, sentinel.ErrNotFound)
	})
}

func (s *InMemoryStoreSuite) TestListByChild() {
	ctx := context.Background()
	childID := id.NewChildID()

	first := s.newRecord()
	first.ChildID = childID
	second := s.newRecord()
	second.ChildID = childID
	second.CreatedAt = first.CreatedAt.Add(time.Hour)
	other := s.newRecord()

	s.Require().NoError(s.store.Create(ctx, first))
	s.Require().NoError(s.store.Create(ctx, second))
	s.Require().NoError(s.store.Create(ctx, other))

	recs, err := s.store.ListByChild(ctx, childID)
	s.Require().NoError(err)
	s.Require().Len(recs, 2)
	s.Equal(first.ID, recs[0].ID)
	s.Equal(second.ID, recs[1].ID)
}
