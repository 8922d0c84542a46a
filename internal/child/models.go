// Package child adapts the upstream roster service. Children are consumed,
// never owned: this service reads birth dates and ownership links and writes
// nothing back.
package child

import (
	"time"

	id "sprout/pkg/domain"
)

// Child is the roster projection the core needs: identity, birth date, and
// the two actors attached to the child.
//
// BirthDate is nullable. Age-dependent features degrade gracefully when it
// is absent: every unrecorded milestone derives as upcoming.
type Child struct {
	ID          id.ChildID `json:"id"`
	DisplayName string     `json:"display_name"`
	BirthDate   *time.Time `json:"birth_date,omitempty"`
	// CaregiverID owns the child's achievement records.
	CaregiverID id.ActorID `json:"caregiver_id"`
	// WorkerID is the health worker monitoring this child.
	WorkerID id.ActorID `json:"worker_id"`
}
