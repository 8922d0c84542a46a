package record

import (
	"context"
	"time"

	id "sprout/pkg/domain"
)

// Store is the achievement-record persistence contract. Implementations
// return sentinel errors; the service translates them into domain errors.
//
// Two invariants live at this layer rather than in application code, so
// concurrent callers cannot race past them:
//   - Create enforces uniqueness on (milestone_id, child_id) and returns
//     sentinel.ErrConflict when a record already exists for the pair.
//   - UpdateVerificationIfPending mutates verification fields only while the
//     current status is pending, returning sentinel.ErrInvalidState
//     otherwise. Two workers reviewing the same record cannot both win.
type Store interface {
	Create(ctx context.Context, rec *AchievementRecord) error
	FindByID(ctx context.Context, recordID id.RecordID) (*AchievementRecord, error)
	ListByChild(ctx context.Context, childID id.ChildID) ([]*AchievementRecord, error)
	// Update replaces the record's caregiver-editable fields and verification
	// sub-record. expectedUpdatedAt guards against concurrent edits: the
	// write applies only if the stored updated_at still matches, otherwise
	// sentinel.ErrStaleVersion.
	Update(ctx context.Context, rec *AchievementRecord, expectedUpdatedAt time.Time) error
	Delete(ctx context.Context, recordID id.RecordID) error
	// UpdateVerificationIfPending applies one verification round and returns
	// the updated record.
	UpdateVerificationIfPending(ctx context.Context, recordID id.RecordID, v Verification, updatedAt time.Time) (*AchievementRecord, error)
}
