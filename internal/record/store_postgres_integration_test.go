//go:build integration

package record_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"sprout/internal/record"
	id "sprout/pkg/domain"
	"sprout/pkg/platform/sentinel"
	"sprout/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres    *containers.PostgresContainer
	store       *record.PostgresStore
	milestoneID id.MilestoneID
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.postgres = mgr.GetPostgres(s.T())
	s.store = record.NewPostgres(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	ctx := context.Background()

	err := s.postgres.TruncateTables(ctx, "achievement_records", "milestone_definitions")
	s.Require().NoError(err)

	// Create a catalog milestone for the FK constraint.
	s.milestoneID = id.NewMilestoneID()
	_, err = s.postgres.Exec(ctx, `
		INSERT INTO milestone_definitions (id, name, min_months, max_months, created_at, updated_at)
		VALUES ($1, $2, 4, 6, NOW(), NOW())
	`, uuid.UUID(s.milestoneID), "Rolls over "+uuid.NewString())
	s.Require().NoError(err)
}

func (s *PostgresStoreSuite) newTestRecord(childID id.ChildID) *record.AchievementRecord {
	now := time.Now().UTC().Truncate(time.Microsecond)
	age := 5.2
	return &record.AchievementRecord{
		ID:                   id.NewRecordID(),
		MilestoneID:          s.milestoneID,
		ChildID:              childID,
		CaregiverID:          id.NewActorID(),
		AchievedDate:         now.AddDate(0, 0, -3),
		AgeMonthsAtRecording: &age,
		Notes:                "smiled at mirror",
		Verification:         record.Verification{Status: id.VerificationPending},
		CreatedAt:            now,
		UpdatedAt:            now,
	}
}

func (s *PostgresStoreSuite) TestCreateAndFind() {
	ctx := context.Background()
	rec := s.newTestRecord(id.NewChildID())

	s.Require().NoError(s.store.Create(ctx, rec))

	found, err := s.store.FindByID(ctx, rec.ID)
	s.Require().NoError(err)
	s.Equal(rec.ID, found.ID)
	s.Equal(rec.MilestoneID, found.MilestoneID)
	s.Equal(id.VerificationPending, found.Verification.Status)
	s.Require().NotNil(found.AgeMonthsAtRecording)
	s.InDelta(5.2, *found.AgeMonthsAtRecording, 0.0001)
	s.Nil(found.Verification.VerifiedBy)
}

// TestConcurrentCreateSamePair verifies the unique index arbitrates racing
// creates: exactly one caller wins, the rest get a conflict.
func (s *PostgresStoreSuite) TestConcurrentCreateSamePair() {
	ctx := context.Background()
	childID := id.NewChildID()
	const goroutines = 50

	var wg sync.WaitGroup
	var successCount atomic.Int32
	var conflictCount atomic.Int32

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			rec := s.newTestRecord(childID)
			err := s.store.Create(ctx, rec)
			if err == nil {
				successCount.Add(1)
			} else if errors.Is(err, sentinel.ErrConflict) {
				conflictCount.Add(1)
			}
		}()
	}

	wg.Wait()

	s.Equal(int32(1), successCount.Load(), "exactly one create should succeed")
	s.Equal(int32(goroutines-1), conflictCount.Load(), "all others should get conflict error")

	recs, err := s.store.ListByChild(ctx, childID)
	s.Require().NoError(err)
	s.Len(recs, 1)
}

func (s *PostgresStoreSuite) TestUpdateStaleVersion() {
	ctx := context.Background()
	rec := s.newTestRecord(id.NewChildID())
	s.Require().NoError(s.store.Create(ctx, rec))

	expected := rec.UpdatedAt
	rec.Notes = "first edit"
	rec.UpdatedAt = expected.Add(time.Second)
	s.Require().NoError(s.store.Update(ctx, rec, expected))

	// A second writer still holding the original timestamp loses.
	rec.Notes = "second edit"
	err := s.store.Update(ctx, rec, expected)
	s.ErrorIs(err, sentinel.ErrStaleVersion)
}

func (s *PostgresStoreSuite) TestConcurrentVerification() {
	ctx := context.Background()
	rec := s.newTestRecord(id.NewChildID())
	s.Require().NoError(s.store.Create(ctx, rec))

	const goroutines = 20
	var wg sync.WaitGroup
	var successCount atomic.Int32
	var invalidCount atomic.Int32

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			worker := id.NewActorID()
			now := time.Now().UTC()
			_, err := s.store.UpdateVerificationIfPending(ctx, rec.ID, record.Verification{
				Status:     id.VerificationApproved,
				VerifiedBy: &worker,
				VerifiedAt: &now,
			}, now)
			if err == nil {
				successCount.Add(1)
			} else if errors.Is(err, sentinel.ErrInvalidState) {
				invalidCount.Add(1)
			}
		}()
	}

	wg.Wait()

	s.Equal(int32(1), successCount.Load(), "exactly one review should complete the round")
	s.Equal(int32(goroutines-1), invalidCount.Load())
}

func (s *PostgresStoreSuite) TestDeleteFreesPair() {
	ctx := context.Background()
	childID := id.NewChildID()
	rec := s.newTestRecord(childID)
	s.Require().NoError(s.store.Create(ctx, rec))

	s.Require().NoError(s.store.Delete(ctx, rec.ID))

	_, err := s.store.FindByID(ctx, rec.ID)
	s.ErrorIs(err, sentinel.ErrNotFound)

	s.NoError(s.store.Create(ctx, s.newTestRecord(childID)))
}
