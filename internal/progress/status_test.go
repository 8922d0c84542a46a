package progress

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "sprout/pkg/domain"
)

func TestAgeAt(t *testing.T) {
	ref := time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)

	t.Run("nil birth date is unknown, not zero", func(t *testing.T) {
		age := AgeAt(nil, ref)
		assert.False(t, age.Known)
		assert.NotEqual(t, Age{Months: 0, Known: true}, age)
	})

	t.Run("fractional months use the average month length", func(t *testing.T) {
		dob := ref.AddDate(0, 0, -365)
		age := AgeAt(&dob, ref)
		require.True(t, age.Known)
		assert.InDelta(t, 11.99, age.Months, 0.02)
	})

	t.Run("birth date after reference clamps to zero", func(t *testing.T) {
		dob := ref.AddDate(0, 0, 10)
		age := AgeAt(&dob, ref)
		require.True(t, age.Known)
		assert.Equal(t, 0.0, age.Months)
	})

	t.Run("same instant is zero months", func(t *testing.T) {
		dob := ref
		age := AgeAt(&dob, ref)
		require.True(t, age.Known)
		assert.Equal(t, 0.0, age.Months)
	})
}

func TestDerive_AgeWindow(t *testing.T) {
	window := Window{MinMonths: 4, MaxMonths: 6}

	tests := []struct {
		name string
		age  Age
		want Status
	}{
		{"unknown age is upcoming", UnknownAge, StatusUpcoming},
		{"below window is upcoming", Age{Months: 3.9, Known: true}, StatusUpcoming},
		{"lower boundary is due", Age{Months: 4, Known: true}, StatusDue},
		{"inside window is due", Age{Months: 5.2, Known: true}, StatusDue},
		{"upper boundary is due", Age{Months: 6, Known: true}, StatusDue},
		{"past window is overdue", Age{Months: 6.01, Known: true}, StatusOverdue},
		{"well past window is overdue", Age{Months: 7.0, Known: true}, StatusOverdue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Derive(window, tt.age, nil))
		})
	}
}

func TestDerive_RecordSupersedesWindow(t *testing.T) {
	window := Window{MinMonths: 4, MaxMonths: 6}
	overdueAge := Age{Months: 9, Known: true}

	pending := id.VerificationPending
	approved := id.VerificationApproved
	flagged := id.VerificationFlagged

	assert.Equal(t, StatusPending, Derive(window, overdueAge, &pending))
	assert.Equal(t, StatusApproved, Derive(window, overdueAge, &approved))
	assert.Equal(t, StatusFlagged, Derive(window, overdueAge, &flagged))

	// Record presence supersedes the window even for an upcoming-age child.
	assert.Equal(t, StatusApproved, Derive(window, UnknownAge, &approved))
}

func TestStatusColors(t *testing.T) {
	assert.Equal(t, ColorNeutral, StatusUpcoming.Color())
	assert.Equal(t, ColorCaution, StatusDue.Color())
	assert.Equal(t, ColorAlert, StatusOverdue.Color())
	assert.Equal(t, ColorCaution, StatusPending.Color())
	assert.Equal(t, ColorGood, StatusApproved.Color())
	assert.Equal(t, ColorAlert, StatusFlagged.Color())
}
