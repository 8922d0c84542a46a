package domain

import dErrors "sprout/pkg/domain-errors"

// VerificationStatus is the review state of an achievement record. It is
// created as pending the moment a record is created, moves to approved or
// flagged exactly once per round, and only a caregiver edit reopens it.
//
// Flagged is a terminal clinical-attention signal, not an error state: the
// record stays valid and visible.
type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "pending"
	VerificationApproved VerificationStatus = "approved"
	VerificationFlagged  VerificationStatus = "flagged"
)

var validVerificationStatuses = map[VerificationStatus]bool{
	VerificationPending:  true,
	VerificationApproved: true,
	VerificationFlagged:  true,
}

// ParseVerificationStatus constructs a VerificationStatus from external
// input (rows, requests).
func ParseVerificationStatus(s string) (VerificationStatus, error) {
	v := VerificationStatus(s)
	if !v.IsValid() {
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid verification status")
	}
	return v, nil
}

// IsValid checks if the status is one of the supported enum values.
func (v VerificationStatus) IsValid() bool {
	return validVerificationStatuses[v]
}

// String returns the string representation of the status.
func (v VerificationStatus) String() string {
	return string(v)
}
