// Package progress holds the pure milestone-progress logic: age computation
// and status derivation. No I/O, no side effects; callers supply the clock.
package progress

import "time"

// daysPerMonth is the average Gregorian month length. The same divisor is
// used everywhere age is computed - at read time and at record-creation
// snapshot time - so window comparisons stay consistent.
const daysPerMonth = 30.4375

// Age is a child's age in fractional months. Unknown is a valid value, not
// an error: children registered without a birth date still appear in lists,
// with age-dependent features degraded.
//
// Unknown age is distinct from age zero; consumers must check Known before
// reading Months.
type Age struct {
	Months float64
	Known  bool
}

// UnknownAge is the age of a child with no recorded birth date.
var UnknownAge = Age{}

// AgeAt computes the age at the reference instant. A nil birth date yields
// UnknownAge. A birth date after the reference instant clamps to zero months
// rather than going negative.
func AgeAt(birthDate *time.Time, at time.Time) Age {
	if birthDate == nil {
		return UnknownAge
	}
	days := at.Sub(*birthDate).Hours() / 24
	months := days / daysPerMonth
	if months < 0 {
		months = 0
	}
	return Age{Months: months, Known: true}
}
