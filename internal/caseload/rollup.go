// Package caseload composes catalog, roster, and records into the read-side
// views: per-child progress, worker child detail, and the triage queue.
package caseload

import (
	"time"

	"sprout/internal/milestone"
	"sprout/internal/progress"
	"sprout/internal/record"
	id "sprout/pkg/domain"
)

// Priority is the single triage classification for a child.
type Priority string

const (
	PriorityUrgent              Priority = "urgent"
	PriorityPendingVerification Priority = "pending_verification"
	PriorityFlagged             Priority = "flagged"
	PriorityOnTrack             Priority = "on_track"
)

// priorityRank orders the queue: lower sorts first.
var priorityRank = map[Priority]int{
	PriorityUrgent:              0,
	PriorityPendingVerification: 1,
	PriorityFlagged:             2,
	PriorityOnTrack:             3,
}

// Item is one (milestone, child) row of a progress view. Record is nil when
// the caregiver has not recorded the milestone; Status then comes from the
// age window.
type Item struct {
	Milestone *milestone.Definition     `json:"milestone"`
	Record    *record.AchievementRecord `json:"record,omitempty"`
	Status    progress.Status           `json:"status"`
	Color     progress.Color            `json:"color"`
}

// Rollup is the derived per-child aggregate behind the monitoring queue.
// Never persisted as truth: age advances between reads, so it is recomputed
// (or cached briefly by date bucket) on every request.
type Rollup struct {
	ChildID             id.ChildID `json:"child_id"`
	DisplayName         string     `json:"display_name"`
	TotalMilestones     int        `json:"total_milestones"`
	AchievedCount       int        `json:"achieved_count"`
	PendingVerification int        `json:"pending_verification"`
	ApprovedCount       int        `json:"approved_count"`
	FlaggedCount        int        `json:"flagged_count"`
	OverdueCount        int        `json:"overdue_count"`
	LastRecordedDate    *time.Time `json:"last_recorded_date,omitempty"`
	Priority            Priority   `json:"priority"`
}

// buildItems derives the full progress view for one child at one instant.
// defs must already be in display order; the output preserves it.
func buildItems(defs []*milestone.Definition, recs []*record.AchievementRecord, age progress.Age) []Item {
	byMilestone := make(map[id.MilestoneID]*record.AchievementRecord, len(recs))
	for _, rec := range recs {
		byMilestone[rec.MilestoneID] = rec
	}

	items := make([]Item, 0, len(defs))
	for _, def := range defs {
		window := progress.Window{MinMonths: def.MinMonths, MaxMonths: def.MaxMonths}

		var verification *id.VerificationStatus
		rec := byMilestone[def.ID]
		if rec != nil {
			verification = &rec.Verification.Status
		}

		status := progress.Derive(window, age, verification)
		items = append(items, Item{
			Milestone: def,
			Record:    rec,
			Status:    status,
			Color:     status.Color(),
		})
	}
	return items
}

// buildRollup reduces a progress view to the queue aggregate. Priority is
// assigned by ordered precedence, first match wins: unresolved overdue
// milestones outrank unreviewed records, which outrank already-flagged ones,
// because flagged items are already in a worker's hands.
func buildRollup(childID id.ChildID, displayName string, items []Item) Rollup {
	r := Rollup{
		ChildID:         childID,
		DisplayName:     displayName,
		TotalMilestones: len(items),
	}

	for _, item := range items {
		switch item.Status {
		case progress.StatusOverdue:
			r.OverdueCount++
		case progress.StatusPending:
			r.PendingVerification++
		case progress.StatusApproved:
			r.ApprovedCount++
		case progress.StatusFlagged:
			r.FlaggedCount++
		}
		if item.Record != nil {
			r.AchievedCount++
			if r.LastRecordedDate == nil || item.Record.AchievedDate.After(*r.LastRecordedDate) {
				d := item.Record.AchievedDate
				r.LastRecordedDate = &d
			}
		}
	}

	switch {
	case r.OverdueCount > 0:
		r.Priority = PriorityUrgent
	case r.PendingVerification > 0:
		r.Priority = PriorityPendingVerification
	case r.FlaggedCount > 0:
		r.Priority = PriorityFlagged
	default:
		r.Priority = PriorityOnTrack
	}
	return r
}
