package domain

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
)

// Well-known busy slot labels.
const (
	LabelPreviouslyScheduled = "Previously Scheduled"
	LabelCalendarEvent       = "Calendar Event"
	LabelSelectedSlot        = "Selected Slot"
)

// slotNamespace seeds deterministic slot IDs.
var slotNamespace = uuid.MustParse("6f1c2a52-4c8e-4b7e-9a57-2f0d8f4b1e3a")

// SlotID is the stable identifier of a slot: the same start and duration
// always produce the same ID.
func SlotID(start time.Time, duration time.Duration) uuid.UUID {
	key := fmt.Sprintf("%d/%d", start.UTC().Unix(), int64(duration/time.Minute))
	return uuid.NewSHA1(slotNamespace, []byte(key))
}

// BusySlot is an interval unavailable for scheduling.
type BusySlot struct {
	TimeInterval
	Label string
}

// NewBusySlot creates a labeled busy slot.
func NewBusySlot(start, end time.Time, label string) BusySlot {
	return BusySlot{TimeInterval: TimeInterval{Start: start, End: end}, Label: label}
}

type busySlotJSON struct {
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
	Label     string    `json:"label,omitempty"`
}

func (b BusySlot) MarshalJSON() ([]byte, error) {
	return json.Marshal(busySlotJSON{StartTime: b.Start.UTC(), EndTime: b.End.UTC(), Label: b.Label})
}

func (b *BusySlot) UnmarshalJSON(data []byte) error {
	var raw busySlotJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*b = NewBusySlot(raw.StartTime, raw.EndTime, raw.Label)
	return nil
}

// ProposedSlot is a candidate interview time of exactly the interview's duration.
type ProposedSlot struct {
	ID uuid.UUID
	TimeInterval
}

// NewProposedSlot creates a slot with its stable ID.
func NewProposedSlot(start time.Time, duration time.Duration) ProposedSlot {
	start = start.UTC()
	return ProposedSlot{
		ID:           SlotID(start, duration),
		TimeInterval: IntervalOf(start, duration),
	}
}

// slotJSON is the persisted and wire shape {id, startTime, endTime}.
type slotJSON struct {
	ID        uuid.UUID `json:"id"`
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
}

func (s ProposedSlot) MarshalJSON() ([]byte, error) {
	return json.Marshal(slotJSON{ID: s.ID, StartTime: s.Start.UTC(), EndTime: s.End.UTC()})
}

func (s *ProposedSlot) UnmarshalJSON(data []byte) error {
	var raw slotJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = ProposedSlot{ID: raw.ID, TimeInterval: TimeInterval{Start: raw.StartTime, End: raw.EndTime}}
	return nil
}

// AsBusy converts the slot into a busy slot with the given label.
func (s ProposedSlot) AsBusy(label string) BusySlot {
	return BusySlot{TimeInterval: s.TimeInterval, Label: label}
}

// SortSlots orders slots by start time in place and returns them.
func SortSlots(slots []ProposedSlot) []ProposedSlot {
	sort.SliceStable(slots, func(i, j int) bool { return slots[i].Start.Before(slots[j].Start) })
	return slots
}

// FindSlot looks a slot up by ID.
func FindSlot(slots []ProposedSlot, id uuid.UUID) (ProposedSlot, bool) {
	for _, s := range slots {
		if s.ID == id {
			return s, true
		}
	}
	return ProposedSlot{}, false
}

// FirstConflict returns the earliest busy slot overlapping interval.
func FirstConflict(interval TimeInterval, busy []BusySlot) (BusySlot, bool) {
	var (
		hit   BusySlot
		found bool
	)
	for _, b := range busy {
		if !Overlaps(interval, b.TimeInterval) {
			continue
		}
		if !found || b.Start.Before(hit.Start) {
			hit, found = b, true
		}
	}
	return hit, found
}
