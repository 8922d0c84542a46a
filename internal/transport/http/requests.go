package httptransport

import (
	"time"

	"sprout/internal/milestone"
	"sprout/internal/record"
	id "sprout/pkg/domain"
	dErrors "sprout/pkg/domain-errors"
)

// dateOnly is the wire format for calendar dates.
const dateOnly = "2006-01-02"

// createRecordRequest is a caregiver's achievement submission.
type createRecordRequest struct {
	MilestoneID  string `json:"milestone_id"`
	AchievedDate string `json:"achieved_date"`
	Notes        string `json:"notes"`
	PhotoRef     string `json:"photo_ref"`
}

func (r createRecordRequest) toInput(childID id.ChildID) (record.CreateInput, error) {
	milestoneID, err := id.ParseMilestoneID(r.MilestoneID)
	if err != nil {
		return record.CreateInput{}, dErrors.New(dErrors.CodeBadRequest, "invalid milestone_id")
	}
	achieved, err := time.Parse(dateOnly, r.AchievedDate)
	if err != nil {
		return record.CreateInput{}, dErrors.New(dErrors.CodeBadRequest, "achieved_date must be YYYY-MM-DD")
	}
	return record.CreateInput{
		MilestoneID:  milestoneID,
		ChildID:      childID,
		AchievedDate: achieved,
		Notes:        r.Notes,
		PhotoRef:     r.PhotoRef,
	}, nil
}

// updateRecordRequest carries a partial edit; absent fields are untouched.
type updateRecordRequest struct {
	AchievedDate *string `json:"achieved_date"`
	Notes        *string `json:"notes"`
	PhotoRef     *string `json:"photo_ref"`
	// ExpectedUpdatedAt enables optimistic locking: send the updated_at you
	// last read and the edit fails on a concurrent change.
	ExpectedUpdatedAt *time.Time `json:"expected_updated_at"`
}

func (r updateRecordRequest) toInput() (record.UpdateInput, error) {
	in := record.UpdateInput{
		Notes:             r.Notes,
		PhotoRef:          r.PhotoRef,
		ExpectedUpdatedAt: r.ExpectedUpdatedAt,
	}
	if r.AchievedDate != nil {
		achieved, err := time.Parse(dateOnly, *r.AchievedDate)
		if err != nil {
			return record.UpdateInput{}, dErrors.New(dErrors.CodeBadRequest, "achieved_date must be YYYY-MM-DD")
		}
		in.AchievedDate = &achieved
	}
	if in.AchievedDate == nil && in.Notes == nil && in.PhotoRef == nil {
		return record.UpdateInput{}, dErrors.New(dErrors.CodeBadRequest, "no fields to update")
	}
	return in, nil
}

// verifyRequest carries review notes for approve and flag.
type verifyRequest struct {
	Notes string `json:"notes"`
}

// milestoneRequest is the admin catalog payload.
type milestoneRequest struct {
	Name         string              `json:"name"`
	Description  string              `json:"description"`
	MinMonths    float64             `json:"min_months"`
	MaxMonths    float64             `json:"max_months"`
	DisplayOrder int                 `json:"display_order"`
	IconRef      string              `json:"icon_ref"`
	Guidance     *milestone.Guidance `json:"guidance"`
}

func (r milestoneRequest) toDefinition() *milestone.Definition {
	return &milestone.Definition{
		Name:         r.Name,
		Description:  r.Description,
		MinMonths:    r.MinMonths,
		MaxMonths:    r.MaxMonths,
		DisplayOrder: r.DisplayOrder,
		IconRef:      r.IconRef,
		Guidance:     r.Guidance,
	}
}
