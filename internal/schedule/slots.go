package schedule

import (
	"fmt"
	"time"
)

// SlotLayout is the "HH:MM" form every slot and time-of-day value uses.
const SlotLayout = "15:04"

// Catalog is the fixed set of bookable time-of-day slots within clinic
// hours. It is configuration, not per-request input.
type Catalog struct {
	slots []string
}

// NewCatalog builds the slot catalog from opening and closing times
// (both inclusive, "HH:MM") and a step. A catalog with invalid bounds
// or a non-positive step is empty.
func NewCatalog(open, close string, step time.Duration) Catalog {
	openT, err1 := time.Parse(SlotLayout, open)
	closeT, err2 := time.Parse(SlotLayout, close)
	if err1 != nil || err2 != nil || step <= 0 || closeT.Before(openT) {
		return Catalog{}
	}

	var slots []string
	for t := openT; !t.After(closeT); t = t.Add(step) {
		slots = append(slots, t.Format(SlotLayout))
	}
	return Catalog{slots: slots}
}

// Slots returns the catalog in ascending order.
func (c Catalog) Slots() []string {
	out := make([]string, len(c.slots))
	copy(out, c.slots)
	return out
}

// Contains reports whether tod is one of the catalog's slots.
func (c Catalog) Contains(tod string) bool {
	for _, s := range c.slots {
		if s == tod {
			return true
		}
	}
	return false
}

// BookedSlots returns the time-of-day values (minute granularity)
// occupied on the given calendar day by the provided appointment
// start timestamps.
func BookedSlots(day time.Time, starts []time.Time) map[string]bool {
	booked := make(map[string]bool)
	for _, s := range starts {
		if SameDay(day, s) {
			booked[s.In(day.Location()).Format(SlotLayout)] = true
		}
	}
	return booked
}

// IsSlotBooked reports whether the given "HH:MM" slot on day is taken.
func IsSlotBooked(day time.Time, tod string, starts []time.Time) bool {
	return BookedSlots(day, starts)[tod]
}

// NextFreeSlot suggests the first catalog slot on day at or after now
// that is not booked. Falls back to the first slot of the catalog when
// the day is fully booked or already over.
func (c Catalog) NextFreeSlot(day, now time.Time, starts []time.Time) string {
	if len(c.slots) == 0 {
		return ""
	}
	booked := BookedSlots(day, starts)
	cutoff := ""
	if SameDay(day, now) {
		cutoff = now.In(day.Location()).Format(SlotLayout)
	}
	for _, s := range c.slots {
		if s >= cutoff && !booked[s] {
			return s
		}
	}
	return c.slots[0]
}

// CombineDateTime merges a "2006-01-02" date and an "HH:MM" time into
// one absolute timestamp in the given location.
func CombineDateTime(date, tod string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02 "+SlotLayout, fmt.Sprintf("%s %s", date, tod), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("schedule: parse date/time: %w", err)
	}
	return t, nil
}
