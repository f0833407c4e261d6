package domain

import (
	"encoding/json"
	"testing"
	"time"

	sharedDomain "github.com/felixgeelhaar/hireflow/internal/shared/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProposeSlot(t *testing.T) {
	now := at(0, 8, 0)
	busy := []BusySlot{NewBusySlot(at(0, 12, 0), at(0, 13, 0), LabelCalendarEvent)}

	t.Run("appends a valid slot", func(t *testing.T) {
		p, err := ProposeSlot(at(0, 9, 0), time.Hour, busy, nil, now)

		require.NoError(t, err)
		assert.Equal(t, ActionAdded, p.Action)
		require.Len(t, p.Slots, 1)
		assert.Equal(t, at(0, 10, 0), p.Slots[0].End)
		assert.Equal(t, SlotID(at(0, 9, 0), time.Hour), p.Slots[0].ID)
	})

	t.Run("rejects past start regardless of busy state", func(t *testing.T) {
		for _, b := range [][]BusySlot{nil, busy, {NewBusySlot(at(0, 6, 0), at(0, 8, 0), "x")}} {
			_, err := ProposeSlot(at(0, 7, 0), time.Hour, b, nil, now)
			assert.Equal(t, sharedDomain.KindPastTime, sharedDomain.KindOf(err))
		}
	})

	t.Run("reports the conflicting busy label", func(t *testing.T) {
		_, err := ProposeSlot(at(0, 12, 30), time.Hour, busy, nil, now)

		label, ok := sharedDomain.BusyConflictLabel(err)
		require.True(t, ok)
		assert.Equal(t, LabelCalendarEvent, label)
	})

	t.Run("touching a busy slot is allowed", func(t *testing.T) {
		_, err := ProposeSlot(at(0, 11, 0), time.Hour, busy, nil, now)
		assert.NoError(t, err)
	})

	t.Run("same start twice toggles back to the original selection", func(t *testing.T) {
		existing := []ProposedSlot{NewProposedSlot(at(1, 9, 0), time.Hour)}

		added, err := ProposeSlot(at(0, 9, 0), time.Hour, busy, existing, now)
		require.NoError(t, err)
		require.Len(t, added.Slots, 2)

		removed, err := ProposeSlot(at(0, 9, 0), time.Hour, busy, added.Slots, now)
		require.NoError(t, err)
		assert.Equal(t, ActionRemoved, removed.Action)
		assert.Equal(t, existing, removed.Slots)
	})

	t.Run("overlapping an existing selection conflicts", func(t *testing.T) {
		existing := []ProposedSlot{NewProposedSlot(at(0, 9, 0), time.Hour)}
		_, err := ProposeSlot(at(0, 9, 30), time.Hour, nil, existing, now)

		label, ok := sharedDomain.BusyConflictLabel(err)
		require.True(t, ok)
		assert.Equal(t, LabelSelectedSlot, label)
	})

	t.Run("does not mutate existing", func(t *testing.T) {
		existing := []ProposedSlot{NewProposedSlot(at(1, 9, 0), time.Hour)}
		_, err := ProposeSlot(at(0, 9, 0), time.Hour, nil, existing, now)
		require.NoError(t, err)
		assert.Len(t, existing, 1)
	})

	t.Run("rejects invalid duration", func(t *testing.T) {
		_, err := ProposeSlot(at(0, 9, 0), 0, nil, nil, now)
		assert.Equal(t, sharedDomain.KindInvalidInput, sharedDomain.KindOf(err))
	})
}

func TestBulkPropose(t *testing.T) {
	pattern := WeeklyPattern{
		WeekStart: monday,
		Days:      []time.Weekday{time.Monday, time.Tuesday},
		Hours:     HourRange{StartHour: 9, EndHour: 12},
	}

	t.Run("drops past and conflicting slots silently", func(t *testing.T) {
		now := at(0, 10, 0)
		busy := []BusySlot{NewBusySlot(at(1, 10, 0), at(1, 11, 0), LabelCalendarEvent)}

		got := BulkPropose(pattern, time.Hour, busy, now)

		var starts []time.Time
		for _, s := range got {
			starts = append(starts, s.Start)
		}
		assert.Equal(t, []time.Time{at(0, 10, 0), at(0, 11, 0), at(1, 9, 0), at(1, 11, 0)}, starts)
	})

	t.Run("never returns nil", func(t *testing.T) {
		got := BulkPropose(pattern, time.Hour, nil, at(30, 0, 0))
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})
}

func TestClearAll(t *testing.T) {
	assert.Empty(t, ClearAll([]ProposedSlot{NewProposedSlot(at(0, 9, 0), time.Hour)}))
	assert.NotNil(t, ClearAll(nil))
}

func TestMergeSlots(t *testing.T) {
	existing := []ProposedSlot{NewProposedSlot(at(0, 9, 0), time.Hour)}
	additions := []ProposedSlot{
		NewProposedSlot(at(0, 9, 30), time.Hour),
		NewProposedSlot(at(0, 8, 0), time.Hour),
	}

	got := MergeSlots(existing, additions)

	require.Len(t, got, 2)
	assert.Equal(t, at(0, 8, 0), got[0].Start)
	assert.Equal(t, at(0, 9, 0), got[1].Start)
}

func TestReconcile(t *testing.T) {
	now := at(0, 8, 0)
	mon := NewProposedSlot(at(0, 9, 0), time.Hour)
	tue := NewProposedSlot(at(1, 14, 0), time.Hour)
	proposed := []ProposedSlot{mon, tue}

	t.Run("returns chosen slots sorted and deduplicated", func(t *testing.T) {
		got, err := Reconcile(proposed, []uuid.UUID{tue.ID, mon.ID, tue.ID}, nil, now)
		require.NoError(t, err)
		assert.Equal(t, []ProposedSlot{mon, tue}, got)
	})

	t.Run("empty choice is incomplete", func(t *testing.T) {
		_, err := Reconcile(proposed, nil, nil, now)
		assert.Equal(t, sharedDomain.KindIncompleteSelection, sharedDomain.KindOf(err))
	})

	t.Run("unknown slot", func(t *testing.T) {
		_, err := Reconcile(proposed, []uuid.UUID{uuid.New()}, nil, now)
		assert.ErrorIs(t, err, ErrSlotNotProposed)
	})

	t.Run("slot in the past", func(t *testing.T) {
		_, err := Reconcile(proposed, []uuid.UUID{mon.ID}, nil, at(0, 9, 30))
		assert.Equal(t, sharedDomain.KindPastTime, sharedDomain.KindOf(err))
	})

	t.Run("slot now busy", func(t *testing.T) {
		busy := []BusySlot{tue.AsBusy(LabelPreviouslyScheduled)}
		_, err := Reconcile(proposed, []uuid.UUID{tue.ID}, busy, now)

		label, ok := sharedDomain.BusyConflictLabel(err)
		require.True(t, ok)
		assert.Equal(t, LabelPreviouslyScheduled, label)
	})
}

func TestFreeSlots(t *testing.T) {
	window := TimeInterval{Start: at(0, 9, 0), End: at(0, 13, 0)}
	busy := []BusySlot{
		NewBusySlot(at(0, 10, 15), at(0, 11, 0), LabelCalendarEvent),
		NewBusySlot(at(0, 10, 30), at(0, 11, 30), LabelCalendarEvent),
	}

	got := FreeSlots(window, busy, time.Hour, at(0, 8, 0))

	var starts []time.Time
	for _, s := range got {
		starts = append(starts, s.Start)
	}
	assert.Equal(t, []time.Time{at(0, 9, 0), at(0, 11, 30)}, starts)

	later := FreeSlots(window, nil, time.Hour, at(0, 9, 10))
	require.NotEmpty(t, later)
	assert.Equal(t, at(0, 9, 10), later[0].Start)
}

func TestSlotJSONShape(t *testing.T) {
	slot := NewProposedSlot(at(1, 14, 0), 45*time.Minute)

	data, err := json.Marshal(slot)
	require.NoError(t, err)

	var raw map[string]string
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, slot.ID.String(), raw["id"])
	assert.Equal(t, "2026-03-03T14:00:00Z", raw["startTime"])
	assert.Equal(t, "2026-03-03T14:45:00Z", raw["endTime"])

	var back ProposedSlot
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, slot.ID, back.ID)
	assert.True(t, back.Equal(slot.TimeInterval))
}

func TestParseWeekdays(t *testing.T) {
	days, err := ParseWeekdays([]string{"mon", "Wednesday", " FRI "})
	require.NoError(t, err)
	assert.Equal(t, []time.Weekday{time.Monday, time.Wednesday, time.Friday}, days)

	_, err = ParseWeekdays([]string{"someday"})
	assert.Equal(t, sharedDomain.KindInvalidInput, sharedDomain.KindOf(err))
}
