package domain

import (
	"strings"
	"time"

	sharedDomain "github.com/felixgeelhaar/hireflow/internal/shared/domain"
	"github.com/google/uuid"
)

// ProposalAction says what ProposeSlot did to the selection.
type ProposalAction string

const (
	ActionAdded   ProposalAction = "added"
	ActionRemoved ProposalAction = "removed"
)

// Proposal is the outcome of ProposeSlot.
type Proposal struct {
	Slots  []ProposedSlot
	Slot   ProposedSlot
	Action ProposalAction
}

// WeeklyPattern describes a repeating block of availability within one week.
type WeeklyPattern struct {
	WeekStart time.Time
	Days      []time.Weekday
	Hours     HourRange
}

// ProposeSlot validates one slot against the clock, the busy set and the
// current selection. A start that matches an existing selection toggles it
// off; any other valid slot is appended. existing is never mutated.
func ProposeSlot(start time.Time, duration time.Duration, busy []BusySlot, existing []ProposedSlot, now time.Time) (Proposal, error) {
	if err := ValidateDuration(duration); err != nil {
		return Proposal{}, err
	}

	candidate := NewProposedSlot(start, duration)
	if !IsFuture(candidate.TimeInterval, now) {
		return Proposal{}, sharedDomain.NewPastTimeError(candidate.Start, now)
	}
	if hit, ok := FirstConflict(candidate.TimeInterval, busy); ok {
		return Proposal{}, sharedDomain.NewBusyConflictError(hit.Label, hit.Start, hit.End)
	}

	slots := make([]ProposedSlot, 0, len(existing)+1)
	for _, s := range existing {
		if s.Start.Equal(candidate.Start) {
			continue
		}
		slots = append(slots, s)
	}
	if len(slots) < len(existing) {
		return Proposal{Slots: SortSlots(slots), Slot: candidate, Action: ActionRemoved}, nil
	}

	for _, s := range existing {
		if Overlaps(s.TimeInterval, candidate.TimeInterval) {
			return Proposal{}, sharedDomain.NewBusyConflictError(LabelSelectedSlot, s.Start, s.End)
		}
	}

	slots = append(slots, candidate)
	return Proposal{Slots: SortSlots(slots), Slot: candidate, Action: ActionAdded}, nil
}

// BulkPropose generates the pattern's slots and keeps those that are in the
// future and conflict-free. Rejected slots are dropped without error.
func BulkPropose(pattern WeeklyPattern, duration time.Duration, busy []BusySlot, now time.Time) []ProposedSlot {
	if ValidateDuration(duration) != nil {
		return []ProposedSlot{}
	}

	out := []ProposedSlot{}
	for _, interval := range GenerateRecurring(pattern.WeekStart, pattern.Days, pattern.Hours, duration) {
		if !IsFuture(interval, now) {
			continue
		}
		if _, conflict := FirstConflict(interval, busy); conflict {
			continue
		}
		out = append(out, NewProposedSlot(interval.Start, duration))
	}
	return out
}

// ClearAll empties a selection unconditionally.
func ClearAll(existing []ProposedSlot) []ProposedSlot {
	return []ProposedSlot{}
}

// MergeSlots adds each addition that does not overlap what is already
// selected. Overlapping additions are skipped.
func MergeSlots(existing, additions []ProposedSlot) []ProposedSlot {
	out := append([]ProposedSlot(nil), existing...)
	for _, add := range additions {
		clash := false
		for _, s := range out {
			if Overlaps(s.TimeInterval, add.TimeInterval) {
				clash = true
				break
			}
		}
		if !clash {
			out = append(out, add)
		}
	}
	return SortSlots(out)
}

// Reconcile checks a candidate's chosen slot IDs against the proposed set.
// Each choice must be proposed, in the future and free of busy periods.
// Duplicate IDs collapse. The result is sorted by start.
func Reconcile(proposed []ProposedSlot, chosen []uuid.UUID, busy []BusySlot, now time.Time) ([]ProposedSlot, error) {
	if len(chosen) == 0 {
		return nil, sharedDomain.NewIncompleteSelectionError("at least one time slot")
	}

	seen := make(map[uuid.UUID]bool, len(chosen))
	out := make([]ProposedSlot, 0, len(chosen))
	for _, id := range chosen {
		if seen[id] {
			continue
		}
		seen[id] = true

		slot, ok := FindSlot(proposed, id)
		if !ok {
			return nil, NewSlotNotProposedError(id)
		}
		if !IsFuture(slot.TimeInterval, now) {
			return nil, sharedDomain.NewPastTimeError(slot.Start, now)
		}
		if hit, conflict := FirstConflict(slot.TimeInterval, busy); conflict {
			return nil, sharedDomain.NewBusyConflictError(hit.Label, hit.Start, hit.End)
		}
		out = append(out, slot)
	}
	return SortSlots(out), nil
}

// FreeSlots cuts window into consecutive duration-long slots that avoid every
// busy period and start at or after now.
func FreeSlots(window TimeInterval, busy []BusySlot, duration time.Duration, now time.Time) []ProposedSlot {
	if ValidateDuration(duration) != nil {
		return []ProposedSlot{}
	}

	out := []ProposedSlot{}
	cursor := window.Start
	if cursor.Before(now) {
		cursor = now.Truncate(time.Minute)
		if cursor.Before(now) {
			cursor = cursor.Add(time.Minute)
		}
	}
	for !cursor.Add(duration).After(window.End) {
		interval := IntervalOf(cursor, duration)
		if hit, conflict := FirstConflict(interval, busy); conflict {
			cursor = latestEnd(interval, busy, hit.End)
			continue
		}
		out = append(out, NewProposedSlot(cursor, duration))
		cursor = cursor.Add(duration)
	}
	return out
}

// latestEnd skips past every busy slot overlapping interval.
func latestEnd(interval TimeInterval, busy []BusySlot, end time.Time) time.Time {
	for _, b := range busy {
		if Overlaps(interval, b.TimeInterval) && b.End.After(end) {
			end = b.End
		}
	}
	return end
}

var weekdayNames = map[string]time.Weekday{
	"sun": time.Sunday, "sunday": time.Sunday,
	"mon": time.Monday, "monday": time.Monday,
	"tue": time.Tuesday, "tuesday": time.Tuesday,
	"wed": time.Wednesday, "wednesday": time.Wednesday,
	"thu": time.Thursday, "thursday": time.Thursday,
	"fri": time.Friday, "friday": time.Friday,
	"sat": time.Saturday, "saturday": time.Saturday,
}

// ParseWeekdays converts day names ("mon", "Tuesday") into weekdays.
func ParseWeekdays(names []string) ([]time.Weekday, error) {
	days := make([]time.Weekday, 0, len(names))
	for _, name := range names {
		day, ok := weekdayNames[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			return nil, sharedDomain.NewInvalidInputError("unknown weekday "+name, "Use day names such as mon or tuesday.")
		}
		days = append(days, day)
	}
	return days, nil
}
