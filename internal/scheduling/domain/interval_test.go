package domain

import (
	"testing"
	"time"

	sharedDomain "github.com/felixgeelhaar/hireflow/internal/shared/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Monday 2 March 2026.
var monday = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

func at(day, hour, minute int) time.Time {
	return monday.AddDate(0, 0, day).Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name string
		a, b TimeInterval
		want bool
	}{
		{"identical", IntervalOf(at(0, 9, 0), time.Hour), IntervalOf(at(0, 9, 0), time.Hour), true},
		{"partial", IntervalOf(at(0, 9, 0), time.Hour), IntervalOf(at(0, 9, 30), time.Hour), true},
		{"contained", IntervalOf(at(0, 9, 0), 3*time.Hour), IntervalOf(at(0, 10, 0), 30*time.Minute), true},
		{"touching end to start", IntervalOf(at(0, 9, 0), time.Hour), IntervalOf(at(0, 10, 0), time.Hour), false},
		{"disjoint", IntervalOf(at(0, 9, 0), time.Hour), IntervalOf(at(1, 9, 0), time.Hour), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Overlaps(tt.a, tt.b))
			assert.Equal(t, tt.want, Overlaps(tt.b, tt.a), "overlap must be symmetric")
			assert.Equal(t, tt.want, tt.a.Overlaps(tt.b))
		})
	}
}

func TestOverlapsSymmetryAcrossGrid(t *testing.T) {
	var intervals []TimeInterval
	for h := 8; h < 12; h++ {
		for _, d := range []time.Duration{15 * time.Minute, time.Hour, 90 * time.Minute} {
			intervals = append(intervals, IntervalOf(at(0, h, 30), d))
		}
	}
	for _, a := range intervals {
		for _, b := range intervals {
			assert.Equal(t, Overlaps(a, b), Overlaps(b, a))
		}
	}
}

func TestIsFuture(t *testing.T) {
	now := at(0, 9, 0)
	assert.True(t, IsFuture(IntervalOf(now, time.Hour), now), "start == now counts as future")
	assert.True(t, IsFuture(IntervalOf(now.Add(time.Minute), time.Hour), now))
	assert.False(t, IsFuture(IntervalOf(now.Add(-time.Minute), time.Hour), now))
}

func TestNewTimeInterval(t *testing.T) {
	_, err := NewTimeInterval(at(0, 10, 0), at(0, 10, 0))
	assert.Equal(t, sharedDomain.KindInvalidInput, sharedDomain.KindOf(err))

	i, err := NewTimeInterval(at(0, 10, 0), at(0, 11, 0))
	require.NoError(t, err)
	assert.Equal(t, time.Hour, i.Duration())
}

func TestValidateDuration(t *testing.T) {
	assert.NoError(t, ValidateDuration(45*time.Minute))
	assert.Error(t, ValidateDuration(0))
	assert.Error(t, ValidateDuration(90*time.Second))
	assert.Error(t, ValidateDuration(9*time.Hour))
}

func TestGenerateRecurring(t *testing.T) {
	t.Run("one slot per step inside the window", func(t *testing.T) {
		got := GenerateRecurring(monday, []time.Weekday{time.Tuesday, time.Monday}, HourRange{StartHour: 9, EndHour: 11}, 45*time.Minute)

		require.Len(t, got, 4)
		assert.Equal(t, at(0, 9, 0), got[0].Start)
		assert.Equal(t, at(0, 9, 45), got[1].Start)
		assert.Equal(t, at(1, 9, 0), got[2].Start, "results are sorted by start")
		for _, i := range got {
			assert.False(t, i.End.After(i.Start.Truncate(24*time.Hour).Add(11*time.Hour)), "slot must end inside the window")
		}
	})

	t.Run("week starting mid-week wraps to following days", func(t *testing.T) {
		thursday := monday.AddDate(0, 0, 3).Add(15 * time.Hour)
		got := GenerateRecurring(thursday, []time.Weekday{time.Monday}, HourRange{StartHour: 9, EndHour: 10}, time.Hour)

		require.Len(t, got, 1)
		assert.Equal(t, at(7, 9, 0), got[0].Start)
	})

	t.Run("duplicate days are ignored", func(t *testing.T) {
		got := GenerateRecurring(monday, []time.Weekday{time.Monday, time.Monday}, HourRange{StartHour: 9, EndHour: 10}, time.Hour)
		assert.Len(t, got, 1)
	})

	t.Run("invalid inputs produce nothing", func(t *testing.T) {
		assert.Empty(t, GenerateRecurring(monday, []time.Weekday{time.Monday}, HourRange{StartHour: 10, EndHour: 9}, time.Hour))
		assert.Empty(t, GenerateRecurring(monday, []time.Weekday{time.Monday}, HourRange{StartHour: 9, EndHour: 10}, 0))
	})

	t.Run("respects the week's location", func(t *testing.T) {
		berlin, err := time.LoadLocation("Europe/Berlin")
		if err != nil {
			t.Skip("tzdata unavailable")
		}
		weekStart := time.Date(2026, 3, 2, 0, 0, 0, 0, berlin)
		got := GenerateRecurring(weekStart, []time.Weekday{time.Monday}, HourRange{StartHour: 9, EndHour: 10}, time.Hour)

		require.Len(t, got, 1)
		assert.Equal(t, 8, got[0].Start.UTC().Hour())
	})
}
