// Package milestone owns the developmental-milestone catalog: reference data
// maintained by administrators and consumed read-only by everything else.
package milestone

import (
	"time"

	id "sprout/pkg/domain"
	dErrors "sprout/pkg/domain-errors"
	pkgstrings "sprout/pkg/platform/strings"
)

// Guidance is the optional caregiver-facing content bundle attached to a
// milestone definition.
type Guidance struct {
	Checklist      []string `json:"checklist,omitempty"`
	Tips           []string `json:"tips,omitempty"`
	SafetyWarnings []string `json:"safety_warnings,omitempty"`
	RedFlags       []string `json:"red_flags,omitempty"`
	WhatToExpect   string   `json:"what_to_expect,omitempty"`
	VideoRef       string   `json:"video_ref,omitempty"`
}

// Definition is a catalogued developmental milestone with its expected age
// window. Immutable at runtime except through admin CRUD; achievement
// records reference definitions, never own them.
//
// Invariants:
//   - Name is non-empty and at most 128 characters
//   - 0 ≤ MinMonths ≤ MaxMonths (inclusive window)
type Definition struct {
	ID           id.MilestoneID `json:"id"`
	Name         string         `json:"name"`
	Description  string         `json:"description,omitempty"`
	MinMonths    float64        `json:"min_months"`
	MaxMonths    float64        `json:"max_months"`
	DisplayOrder int            `json:"display_order"`
	IconRef      string         `json:"icon_ref,omitempty"`
	Guidance     *Guidance      `json:"guidance,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// Validate enforces the definition invariants. Guidance list fields are
// normalized in place (trimmed, deduplicated).
func (d *Definition) Validate() error {
	if d.Name == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "milestone name cannot be empty")
	}
	if len(d.Name) > 128 {
		return dErrors.New(dErrors.CodeInvalidInput, "milestone name must be 128 characters or less")
	}
	if d.MinMonths < 0 {
		return dErrors.New(dErrors.CodeInvalidInput, "min_months cannot be negative")
	}
	if d.MaxMonths < d.MinMonths {
		return dErrors.New(dErrors.CodeInvalidInput, "max_months cannot be less than min_months")
	}
	if d.Guidance != nil {
		d.Guidance.Checklist = pkgstrings.DedupeAndTrim(d.Guidance.Checklist)
		d.Guidance.Tips = pkgstrings.DedupeAndTrim(d.Guidance.Tips)
		d.Guidance.SafetyWarnings = pkgstrings.DedupeAndTrim(d.Guidance.SafetyWarnings)
		d.Guidance.RedFlags = pkgstrings.DedupeAndTrim(d.Guidance.RedFlags)
	}
	return nil
}
