// Package record owns the achievement-record lifecycle: caregiver
// submissions, edits, deletes, and the health-worker verification workflow
// layered on top of each record.
package record

import (
	"time"

	id "sprout/pkg/domain"
)

// Verification is the review sub-record embedded in every achievement
// record. It is created as pending when the record is created and reopened
// to pending on every caregiver edit.
type Verification struct {
	Status id.VerificationStatus `json:"status"`
	// VerifiedBy is the health worker who completed the current round.
	// Nil while pending.
	VerifiedBy *id.ActorID `json:"verified_by,omitempty"`
	Notes      string      `json:"notes,omitempty"`
	VerifiedAt *time.Time  `json:"verified_at,omitempty"`
}

// pendingVerification is the state every new or freshly edited record gets.
func pendingVerification() Verification {
	return Verification{Status: id.VerificationPending}
}

// AchievementRecord is a caregiver's claim that a child reached a milestone.
// At most one record exists per (milestone, child) pair; re-recording must go
// through an edit.
type AchievementRecord struct {
	ID          id.RecordID    `json:"id"`
	MilestoneID id.MilestoneID `json:"milestone_id"`
	ChildID     id.ChildID     `json:"child_id"`
	// CaregiverID is the owner; only the owner may edit or delete.
	CaregiverID  id.ActorID `json:"caregiver_id"`
	AchievedDate time.Time  `json:"achieved_date"`
	// AgeMonthsAtRecording is snapshotted when the record is created or
	// edited, never recomputed afterwards. Later birth-date corrections do
	// not rewrite history. Nil when the birth date was unknown at the time.
	AgeMonthsAtRecording *float64     `json:"age_months_at_recording,omitempty"`
	Notes                string       `json:"notes,omitempty"`
	PhotoRef             string       `json:"photo_ref,omitempty"`
	Verification         Verification `json:"verification"`
	CreatedAt            time.Time    `json:"created_at"`
	UpdatedAt            time.Time    `json:"updated_at"`
}
