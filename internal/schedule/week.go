package schedule

import "time"

// DaysPerWeek is the size of every week window.
const DaysPerWeek = 7

// WeekOf returns the seven consecutive calendar days of the week
// containing ref, starting from the most recent occurrence of start on
// or before ref. Days are truncated to midnight in ref's location.
func WeekOf(ref time.Time, start time.Weekday) [DaysPerWeek]time.Time {
	first := DayStart(ref)
	offset := (int(first.Weekday()) - int(start) + DaysPerWeek) % DaysPerWeek
	first = first.AddDate(0, 0, -offset)

	var week [DaysPerWeek]time.Time
	for i := range week {
		week[i] = first.AddDate(0, 0, i)
	}
	return week
}

// NextWeek shifts the reference date forward by one whole week.
func NextWeek(ref time.Time) time.Time {
	return ref.AddDate(0, 0, DaysPerWeek)
}

// PrevWeek shifts the reference date back by one whole week.
func PrevWeek(ref time.Time) time.Time {
	return ref.AddDate(0, 0, -DaysPerWeek)
}

// DayStart truncates t to midnight in its own location.
func DayStart(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// DayEnd returns the last representable instant of t's calendar day.
func DayEnd(t time.Time) time.Time {
	return DayStart(t).AddDate(0, 0, 1).Add(-time.Nanosecond)
}

// MonthBounds returns the first and last instants of t's calendar month.
func MonthBounds(t time.Time) (time.Time, time.Time) {
	y, m, _ := t.Date()
	first := time.Date(y, m, 1, 0, 0, 0, 0, t.Location())
	last := first.AddDate(0, 1, 0).Add(-time.Nanosecond)
	return first, last
}

// SameDay reports whether a and b fall on the same calendar day,
// evaluated in a's location.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.In(a.Location()).Date()
	return ay == by && am == bm && ad == bd
}
