package domain

import dErrors "sprout/pkg/domain-errors"

// Role labels what an authenticated actor is allowed to do. Caregivers own
// achievement records; health workers review them; admins maintain the
// milestone catalog.
//
// Usage: construct via ParseRole at trust boundaries to enforce the
// allowlist; direct casting bypasses validation.
type Role string

const (
	RoleCaregiver    Role = "caregiver"
	RoleHealthWorker Role = "health_worker"
	RoleAdmin        Role = "admin"
)

// validRoles is the single source of truth for valid actor roles.
var validRoles = map[Role]bool{
	RoleCaregiver:    true,
	RoleHealthWorker: true,
	RoleAdmin:        true,
}

// ParseRole constructs a Role from external input (token claims, requests).
//
// Errors: returns CodeInvalidInput when the value is empty or unsupported.
func ParseRole(s string) (Role, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "role cannot be empty")
	}
	r := Role(s)
	if !r.IsValid() {
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid role")
	}
	return r, nil
}

// IsValid checks if the role is one of the supported enum values.
func (r Role) IsValid() bool {
	return validRoles[r]
}

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}
