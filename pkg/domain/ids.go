// Package domain holds shared domain primitives: typed identifiers and actor
// roles. Typed IDs make cross-entity mixups (passing a child ID where a
// milestone ID is expected) a compile error instead of a data bug.
package domain

import (
	"github.com/google/uuid"

	dErrors "sprout/pkg/domain-errors"
)

// Typed identifiers for the core entities. Construct via the Parse functions
// at trust boundaries; direct casting bypasses validation.
type (
	// ChildID identifies a child in the roster. The roster itself is owned
	// by an upstream service; we only reference it.
	ChildID uuid.UUID

	// MilestoneID identifies a catalog milestone definition.
	MilestoneID uuid.UUID

	// RecordID identifies an achievement record.
	RecordID uuid.UUID

	// ActorID identifies the authenticated caller (caregiver, health worker,
	// or administrator). The actor's role travels separately in the token.
	ActorID uuid.UUID
)

func parseUUID(s string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id cannot be empty")
	}
	parsed, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id must be a valid UUID")
	}
	if parsed == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id cannot be the nil UUID")
	}
	return parsed, nil
}

// ParseChildID constructs a ChildID from external input.
func ParseChildID(s string) (ChildID, error) {
	parsed, err := parseUUID(s)
	return ChildID(parsed), err
}

// ParseMilestoneID constructs a MilestoneID from external input.
func ParseMilestoneID(s string) (MilestoneID, error) {
	parsed, err := parseUUID(s)
	return MilestoneID(parsed), err
}

// ParseRecordID constructs a RecordID from external input.
func ParseRecordID(s string) (RecordID, error) {
	parsed, err := parseUUID(s)
	return RecordID(parsed), err
}

// ParseActorID constructs an ActorID from external input.
func ParseActorID(s string) (ActorID, error) {
	parsed, err := parseUUID(s)
	return ActorID(parsed), err
}

func (id ChildID) String() string     { return uuid.UUID(id).String() }
func (id MilestoneID) String() string { return uuid.UUID(id).String() }
func (id RecordID) String() string    { return uuid.UUID(id).String() }
func (id ActorID) String() string     { return uuid.UUID(id).String() }

func (id ChildID) IsNil() bool     { return uuid.UUID(id) == uuid.Nil }
func (id MilestoneID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id RecordID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }
func (id ActorID) IsNil() bool     { return uuid.UUID(id) == uuid.Nil }

// MarshalText renders IDs as canonical UUID strings in JSON and logs.
// Nil IDs render as the empty string so optional references stay readable.
func (id ChildID) MarshalText() ([]byte, error)     { return marshalID(uuid.UUID(id)) }
func (id MilestoneID) MarshalText() ([]byte, error) { return marshalID(uuid.UUID(id)) }
func (id RecordID) MarshalText() ([]byte, error)    { return marshalID(uuid.UUID(id)) }
func (id ActorID) MarshalText() ([]byte, error)     { return marshalID(uuid.UUID(id)) }

func marshalID(u uuid.UUID) ([]byte, error) {
	if u == uuid.Nil {
		return []byte(""), nil
	}
	return []byte(u.String()), nil
}

func (id *ChildID) UnmarshalText(b []byte) error {
	parsed, err := ParseChildID(string(b))
	*id = parsed
	return err
}

func (id *MilestoneID) UnmarshalText(b []byte) error {
	parsed, err := ParseMilestoneID(string(b))
	*id = parsed
	return err
}

func (id *RecordID) UnmarshalText(b []byte) error {
	parsed, err := ParseRecordID(string(b))
	*id = parsed
	return err
}

func (id *ActorID) UnmarshalText(b []byte) error {
	parsed, err := ParseActorID(string(b))
	*id = parsed
	return err
}

// NewChildID generates a fresh ChildID.
func NewChildID() ChildID { return ChildID(uuid.New()) }

// NewMilestoneID generates a fresh MilestoneID.
func NewMilestoneID() MilestoneID { return MilestoneID(uuid.New()) }

// NewRecordID generates a fresh RecordID.
func NewRecordID() RecordID { return RecordID(uuid.New()) }

// NewActorID generates a fresh ActorID.
func NewActorID() ActorID { return ActorID(uuid.New()) }
