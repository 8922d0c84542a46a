package record

import (
	"context"
	"errors"
	"strings"
	"time"

	"sprout/internal/audit"
	"sprout/internal/child"
	"sprout/internal/milestone"
	"sprout/internal/platform/metrics"
	"sprout/internal/progress"
	id "sprout/pkg/domain"
	dErrors "sprout/pkg/domain-errors"
	"sprout/pkg/platform/sentinel"
	"sprout/pkg/requestcontext"
)

// Service owns the achievement-record lifecycle and verification workflow.
// Every mutation is audited; the audit append is part of the operation.
type Service struct {
	records    Store
	children   child.Store
	milestones milestone.Store
	auditor    *audit.Publisher
	metrics    *metrics.Metrics

	// strictFlagNotes makes empty flag notes a hard validation failure
	// instead of an advisory gap. Flags carry the clinical concern.
	strictFlagNotes bool
}

func NewService(records Store, children child.Store, milestones milestone.Store,
	auditor *audit.Publisher, m *metrics.Metrics, strictFlagNotes bool) *Service {
	return &Service{
		records:         records,
		children:        children,
		milestones:      milestones,
		auditor:         auditor,
		metrics:         m,
		strictFlagNotes: strictFlagNotes,
	}
}

// CreateInput is a caregiver's new achievement submission.
type CreateInput struct {
	MilestoneID  id.MilestoneID
	ChildID      id.ChildID
	AchievedDate time.Time
	Notes        string
	PhotoRef     string
}

// UpdateInput carries the caregiver-editable fields. Nil means "leave as is".
// ExpectedUpdatedAt, when set, rejects the edit if someone else edited the
// record since the caller last read it.
type UpdateInput struct {
	AchievedDate      *time.Time
	Notes             *string
	PhotoRef          *string
	ExpectedUpdatedAt *time.Time
}

// Create records a milestone achievement for a child. The caller must be the
// child's owning caregiver. The child's age is snapshotted now; later
// birth-date corrections never rewrite it.
func (s *Service) Create(ctx context.Context, in CreateInput) (*AchievementRecord, error) {
	now := requestcontext.Now(ctx)
	if err := validateAchievedDate(in.AchievedDate, now); err != nil {
		return nil, err
	}

	if _, err := s.milestones.FindByID(ctx, in.MilestoneID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "milestone not found")
		}
		return nil, dErrors.Wrap(dErrors.CodeInternal, "failed to load milestone", err)
	}

	ch, err := s.loadChild(ctx, in.ChildID)
	if err != nil {
		return nil, err
	}
	actorID := requestcontext.ActorID(ctx)
	if ch.CaregiverID != actorID {
		return nil, dErrors.New(dErrors.CodeForbidden, "only the child's caregiver can record achievements")
	}

	rec := &AchievementRecord{
		ID:                   id.NewRecordID(),
		MilestoneID:          in.MilestoneID,
		ChildID:              in.ChildID,
		CaregiverID:          actorID,
		AchievedDate:         in.AchievedDate,
		AgeMonthsAtRecording: ageSnapshot(ch, now),
		Notes:                in.Notes,
		PhotoRef:             in.PhotoRef,
		Verification:         pendingVerification(),
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	if err := s.records.Create(ctx, rec); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeDuplicateRecord,
				"a record already exists for this milestone and child, edit it instead")
		}
		return nil, dErrors.Wrap(dErrors.CodeInternal, "failed to create record", err)
	}

	if err := s.audit(ctx, audit.ActionRecordCreated, rec, ""); err != nil {
		return nil, err
	}
	s.metrics.IncRecordsCreated()
	return rec, nil
}

// Update applies a caregiver edit. Any successful edit reopens verification:
// a prior sign-off does not carry over to changed content.
func (s *Service) Update(ctx context.Context, recordID id.RecordID, in UpdateInput) (*AchievementRecord, error) {
	now := requestcontext.Now(ctx)

	rec, err := s.loadOwned(ctx, recordID)
	if err != nil {
		return nil, err
	}

	if in.AchievedDate != nil {
		if err := validateAchievedDate(*in.AchievedDate, now); err != nil {
			return nil, err
		}
		rec.AchievedDate = *in.AchievedDate
	}
	if in.Notes != nil {
		rec.Notes = *in.Notes
	}
	if in.PhotoRef != nil {
		rec.PhotoRef = *in.PhotoRef
	}

	// An edit is a re-submission: snapshot the age again and reset review.
	if ch, err := s.loadChild(ctx, rec.ChildID); err == nil {
		rec.AgeMonthsAtRecording = ageSnapshot(ch, now)
	}
	rec.Verification = pendingVerification()

	expected := rec.UpdatedAt
	if in.ExpectedUpdatedAt != nil {
		expected = *in.ExpectedUpdatedAt
	}
	rec.UpdatedAt = now

	if err := s.records.Update(ctx, rec, expected); err != nil {
		switch {
		case errors.Is(err, sentinel.ErrNotFound):
			return nil, dErrors.New(dErrors.CodeNotFound, "record not found")
		case errors.Is(err, sentinel.ErrStaleVersion):
			return nil, dErrors.New(dErrors.CodeConflict, "record was modified by another request, refresh and retry")
		default:
			return nil, dErrors.Wrap(dErrors.CodeInternal, "failed to update record", err)
		}
	}

	if err := s.audit(ctx, audit.ActionRecordUpdated, rec, ""); err != nil {
		return nil, err
	}
	return rec, nil
}

// Delete permanently removes a record. The audit trail keeps the tombstone;
// the pair returns to whichever age-window status the current age implies.
func (s *Service) Delete(ctx context.Context, recordID id.RecordID) error {
	rec, err := s.loadOwned(ctx, recordID)
	if err != nil {
		return err
	}

	if err := s.records.Delete(ctx, recordID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "record not found")
		}
		return dErrors.Wrap(dErrors.CodeInternal, "failed to delete record", err)
	}

	return s.audit(ctx, audit.ActionRecordDeleted, rec, "achieved "+rec.AchievedDate.Format("2006-01-02"))
}

// Approve completes a pending verification round positively. Notes are
// optional on approval.
func (s *Service) Approve(ctx context.Context, recordID id.RecordID, notes string) (*AchievementRecord, error) {
	return s.verify(ctx, recordID, id.VerificationApproved, notes)
}

// Flag completes a pending round with a clinical-attention signal. The
// record stays valid; flagged is an outcome, not an error.
func (s *Service) Flag(ctx context.Context, recordID id.RecordID, notes string) (*AchievementRecord, error) {
	if s.strictFlagNotes && strings.TrimSpace(notes) == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "flag notes are required")
	}
	return s.verify(ctx, recordID, id.VerificationFlagged, notes)
}

func (s *Service) verify(ctx context.Context, recordID id.RecordID, status id.VerificationStatus, notes string) (*AchievementRecord, error) {
	if requestcontext.ActorRole(ctx) != id.RoleHealthWorker {
		return nil, dErrors.New(dErrors.CodeForbidden, "only a health worker can verify records")
	}

	now := requestcontext.Now(ctx)
	workerID := requestcontext.ActorID(ctx)
	v := Verification{
		Status:     status,
		VerifiedBy: &workerID,
		Notes:      notes,
		VerifiedAt: &now,
	}

	rec, err := s.records.UpdateVerificationIfPending(ctx, recordID, v, now)
	if err != nil {
		switch {
		case errors.Is(err, sentinel.ErrNotFound):
			return nil, dErrors.New(dErrors.CodeNotFound, "record not found")
		case errors.Is(err, sentinel.ErrInvalidState):
			return nil, dErrors.New(dErrors.CodeInvalidState, "record is not pending verification")
		default:
			return nil, dErrors.Wrap(dErrors.CodeInternal, "failed to verify record", err)
		}
	}

	action := audit.ActionRecordApproved
	if status == id.VerificationFlagged {
		action = audit.ActionRecordFlagged
	}
	if err := s.audit(ctx, action, rec, notes); err != nil {
		return nil, err
	}
	s.metrics.IncRecordsVerified(status.String())
	return rec, nil
}

// Get resolves one record. Caregivers see only their own; health workers and
// admins see any.
func (s *Service) Get(ctx context.Context, recordID id.RecordID) (*AchievementRecord, error) {
	rec, err := s.records.FindByID(ctx, recordID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "record not found")
		}
		return nil, dErrors.Wrap(dErrors.CodeInternal, "failed to load record", err)
	}
	if requestcontext.ActorRole(ctx) == id.RoleCaregiver && rec.CaregiverID != requestcontext.ActorID(ctx) {
		return nil, dErrors.New(dErrors.CodeForbidden, "record belongs to another caregiver")
	}
	return rec, nil
}

// loadOwned loads a record and checks the caller owns it.
func (s *Service) loadOwned(ctx context.Context, recordID id.RecordID) (*AchievementRecord, error) {
	rec, err := s.records.FindByID(ctx, recordID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "record not found")
		}
		return nil, dErrors.Wrap(dErrors.CodeInternal, "failed to load record", err)
	}
	if rec.CaregiverID != requestcontext.ActorID(ctx) {
		return nil, dErrors.New(dErrors.CodeForbidden, "record belongs to another caregiver")
	}
	return rec, nil
}

func (s *Service) loadChild(ctx context.Context, childID id.ChildID) (*child.Child, error) {
	ch, err := s.children.FindByID(ctx, childID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "child not found")
		}
		return nil, dErrors.Wrap(dErrors.CodeInternal, "failed to load child", err)
	}
	return ch, nil
}

func (s *Service) audit(ctx context.Context, action audit.Action, rec *AchievementRecord, detail string) error {
	err := s.auditor.Publish(ctx, audit.Event{
		Action:      action,
		ActorID:     requestcontext.ActorID(ctx),
		ActorRole:   requestcontext.ActorRole(ctx),
		ChildID:     rec.ChildID,
		RecordID:    rec.ID,
		MilestoneID: rec.MilestoneID,
		Detail:      detail,
	})
	if err != nil {
		return dErrors.Wrap(dErrors.CodeInternal, "failed to record audit event", err)
	}
	return nil
}

// ageSnapshot converts the child's current age into the stored snapshot.
// Unknown age stays nil rather than zero.
func ageSnapshot(ch *child.Child, now time.Time) *float64 {
	age := progress.AgeAt(ch.BirthDate, now)
	if !age.Known {
		return nil
	}
	months := age.Months
	return &months
}

func validateAchievedDate(achieved, now time.Time) error {
	// Compare calendar dates in UTC so a same-day entry never trips the
	// future check on timezone skew.
	if achieved.UTC().Truncate(24*time.Hour).After(now.UTC().Truncate(24 * time.Hour)) {
		return dErrors.New(dErrors.CodeInvalidInput, "achieved date cannot be in the future")
	}
	return nil
}
