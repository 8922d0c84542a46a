// Package audit records who did what to which record. Record deletes are
// hard deletes; the audit trail is the retained history, so a deleted record
// still leaves its tombstone event behind.
package audit

import (
	"time"

	id "sprout/pkg/domain"
)

// Action labels an audited operation.
type Action string

const (
	ActionRecordCreated  Action = "record_created"
	ActionRecordUpdated  Action = "record_updated"
	ActionRecordDeleted  Action = "record_deleted"
	ActionRecordApproved Action = "record_approved"
	ActionRecordFlagged  Action = "record_flagged"

	ActionMilestoneCreated Action = "milestone_created"
	ActionMilestoneUpdated Action = "milestone_updated"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Timestamp   time.Time      `json:"timestamp"`
	Action      Action         `json:"action"`
	ActorID     id.ActorID     `json:"actor_id"`
	ActorRole   id.Role        `json:"actor_role"`
	ChildID     id.ChildID     `json:"child_id,omitempty"`
	RecordID    id.RecordID    `json:"record_id,omitempty"`
	MilestoneID id.MilestoneID `json:"milestone_id,omitempty"`
	// Enrichment from the request context.
	RequestID string `json:"request_id,omitempty"`
	ClientIP  string `json:"client_ip,omitempty"`
	Device    string `json:"device,omitempty"`
	// Detail carries action-specific context, e.g. flag notes.
	Detail string `json:"detail,omitempty"`
}
