package progress

import id "sprout/pkg/domain"

// Status is the derived state of one (child, milestone) pair. Without an
// achievement record the age window decides; once a record exists its
// verification status supersedes the window entirely.
type Status string

const (
	// StatusUpcoming: age below the window, or age unknown. Not actionable.
	StatusUpcoming Status = "upcoming"
	// StatusDue: age inside the window (inclusive on both ends).
	StatusDue Status = "due"
	// StatusOverdue: age past the window with no record. Drives urgency in
	// the caseload rollup.
	StatusOverdue Status = "overdue"
	// StatusPending: record exists, awaiting health-worker review.
	StatusPending Status = "pending_verification"
	// StatusApproved: record reviewed and approved.
	StatusApproved Status = "approved"
	// StatusFlagged: record reviewed and flagged for clinical follow-up.
	StatusFlagged Status = "flagged"
)

// Color is the triage display color for a status.
type Color string

const (
	ColorNeutral Color = "neutral"
	ColorCaution Color = "caution"
	ColorAlert   Color = "alert"
	ColorGood    Color = "good"
)

// statusColors is the single source of truth for the status → color mapping.
var statusColors = map[Status]Color{
	StatusUpcoming: ColorNeutral,
	StatusDue:      ColorCaution,
	StatusOverdue:  ColorAlert,
	StatusPending:  ColorCaution,
	StatusApproved: ColorGood,
	StatusFlagged:  ColorAlert,
}

// Color returns the display color for the status.
func (s Status) Color() Color {
	if c, ok := statusColors[s]; ok {
		return c
	}
	return ColorNeutral
}

// Recorded reports whether the status belongs to the recorded branch of the
// state machine.
func (s Status) Recorded() bool {
	return s == StatusPending || s == StatusApproved || s == StatusFlagged
}

// Window is a milestone's inclusive expected age window in months.
type Window struct {
	MinMonths float64
	MaxMonths float64
}

// Contains reports whether a known age falls inside the window, boundaries
// included.
func (w Window) Contains(months float64) bool {
	return months >= w.MinMonths && months <= w.MaxMonths
}

// Derive runs the status state machine for one (child, milestone) pair.
// verification is nil when no achievement record exists; deleting a record
// therefore returns the pair to whichever age-window state the current age
// implies, with no memory of the deleted record.
func Derive(window Window, age Age, verification *id.VerificationStatus) Status {
	if verification != nil {
		switch *verification {
		case id.VerificationApproved:
			return StatusApproved
		case id.VerificationFlagged:
			return StatusFlagged
		default:
			return StatusPending
		}
	}

	if !age.Known || age.Months < window.MinMonths {
		return StatusUpcoming
	}
	if age.Months > window.MaxMonths {
		return StatusOverdue
	}
	return StatusDue
}
