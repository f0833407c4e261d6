// Package domain holds the pure slot arithmetic used to propose, validate and
// reconcile interview time slots. Nothing here reads the clock: every
// time-sensitive function takes now as a parameter.
package domain

import (
	"sort"
	"time"

	sharedDomain "github.com/felixgeelhaar/hireflow/internal/shared/domain"
)

// MaxSlotDuration bounds a single interview slot.
const MaxSlotDuration = 8 * time.Hour

// TimeInterval is the half-open range [Start, End).
type TimeInterval struct {
	Start time.Time
	End   time.Time
}

// NewTimeInterval validates that start is strictly before end.
func NewTimeInterval(start, end time.Time) (TimeInterval, error) {
	if !start.Before(end) {
		return TimeInterval{}, sharedDomain.NewInvalidInputError(
			"interval start must be before end",
			"Check that the end time is later than the start time.",
		)
	}
	return TimeInterval{Start: start, End: end}, nil
}

// IntervalOf returns [start, start+duration).
func IntervalOf(start time.Time, duration time.Duration) TimeInterval {
	return TimeInterval{Start: start, End: start.Add(duration)}
}

// Duration returns End - Start.
func (i TimeInterval) Duration() time.Duration {
	return i.End.Sub(i.Start)
}

// Overlaps reports whether i and other share any instant. Touching
// intervals ([9:00,10:00) and [10:00,11:00)) do not overlap.
func (i TimeInterval) Overlaps(other TimeInterval) bool {
	return Overlaps(i, other)
}

// Equal compares instants, ignoring location.
func (i TimeInterval) Equal(other TimeInterval) bool {
	return i.Start.Equal(other.Start) && i.End.Equal(other.End)
}

// Overlaps reports whether a and b intersect. It is symmetric.
func Overlaps(a, b TimeInterval) bool {
	return a.Start.Before(b.End) && b.Start.Before(a.End)
}

// IsFuture reports whether the interval starts at or after now.
func IsFuture(i TimeInterval, now time.Time) bool {
	return !i.Start.Before(now)
}

// ValidateDuration accepts positive whole-minute durations up to MaxSlotDuration.
func ValidateDuration(d time.Duration) error {
	if d <= 0 || d%time.Minute != 0 || d > MaxSlotDuration {
		return sharedDomain.NewInvalidInputError(
			"duration must be a positive whole number of minutes",
			"Use a duration between 1 and 480 minutes.",
		)
	}
	return nil
}

// HourRange is a daily window [StartHour, EndHour) in the week's location.
type HourRange struct {
	StartHour int
	EndHour   int
}

// Validate checks 0 <= StartHour < EndHour <= 24.
func (h HourRange) Validate() error {
	if h.StartHour < 0 || h.EndHour > 24 || h.StartHour >= h.EndHour {
		return sharedDomain.NewInvalidInputError(
			"hour range must satisfy 0 <= start < end <= 24",
			"Pick a daily window such as 9 to 17.",
		)
	}
	return nil
}

// GenerateRecurring lays consecutive duration-long intervals inside hours on
// each requested weekday of the week beginning on weekStart's calendar day.
// A slot that would run past the end of the window is not produced. The
// result is sorted by start.
func GenerateRecurring(weekStart time.Time, daysOfWeek []time.Weekday, hours HourRange, duration time.Duration) []TimeInterval {
	if duration <= 0 || hours.Validate() != nil {
		return nil
	}

	loc := weekStart.Location()
	y, m, d := weekStart.Date()
	firstDay := time.Date(y, m, d, 0, 0, 0, 0, loc).Weekday()

	seen := make(map[time.Weekday]bool, len(daysOfWeek))
	var out []TimeInterval
	for _, day := range daysOfWeek {
		if day < time.Sunday || day > time.Saturday || seen[day] {
			continue
		}
		seen[day] = true

		offset := (int(day) - int(firstDay) + 7) % 7
		windowStart := time.Date(y, m, d+offset, hours.StartHour, 0, 0, 0, loc)
		windowEnd := time.Date(y, m, d+offset, hours.EndHour, 0, 0, 0, loc)

		for start := windowStart; !start.Add(duration).After(windowEnd); start = start.Add(duration) {
			out = append(out, IntervalOf(start, duration))
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out
}
