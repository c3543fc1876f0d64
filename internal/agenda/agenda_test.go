package agenda

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elmarkeb/clinicdesk/internal/catalog"
	"github.com/elmarkeb/clinicdesk/internal/patients"
	"github.com/elmarkeb/clinicdesk/internal/schedule"
)

func apptAt(id, ts string) Appointment {
	return Appointment{ID: id, StartsAt: ts}
}

func TestForDayOrdersAscending(t *testing.T) {
	day := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)
	appts := []Appointment{
		apptAt("late", "2025-03-10T14:00:00Z"),
		apptAt("early", "2025-03-10T09:00:00Z"),
		apptAt("mid", "2025-03-10T11:30:00Z"),
		apptAt("other-day", "2025-03-11T10:00:00Z"),
	}

	got := ForDay(day, appts)
	require.Len(t, got, 3)
	assert.Equal(t, "early", got[0].ID)
	assert.Equal(t, "mid", got[1].ID)
	assert.Equal(t, "late", got[2].ID)
}

func TestForDayStableOnTies(t *testing.T) {
	day := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)
	appts := []Appointment{
		apptAt("first", "2025-03-10T10:00:00Z"),
		apptAt("second", "2025-03-10T10:00:00Z"),
	}

	got := ForDay(day, appts)
	require.Len(t, got, 2)
	assert.Equal(t, "first", got[0].ID)
	assert.Equal(t, "second", got[1].ID)
}

func TestWithDisplayDataJoins(t *testing.T) {
	a := Appointment{
		ID:        "a1",
		PatientID: "p1",
		ServiceID: "s1",
		StartsAt:  "2025-03-10T10:00:00Z",
	}
	p := &patients.Patient{ID: "p1", Name: "Sara Adel", Phone: "0100000000"}
	s := &catalog.Service{ID: "s1", Name: "Cleaning", Price: 300, Color: "yellow"}

	v := WithDisplayData(a, p, s, time.UTC)
	assert.Equal(t, "Sara Adel", v.PatientName)
	assert.Equal(t, "0100000000", v.PatientPhone)
	assert.Equal(t, "Cleaning", v.ServiceName)
	assert.Equal(t, int64(300), v.Price)
	assert.Equal(t, "10:00", v.Time)
}

func TestWithDisplayDataFallsBackToStoredNames(t *testing.T) {
	a := Appointment{
		ID:          "a1",
		PatientID:   "gone",
		PatientName: "Sara Adel",
		ServiceID:   "gone",
		ServiceName: "Cleaning",
		StartsAt:    "2025-03-10T10:00:00Z",
	}

	v := WithDisplayData(a, nil, nil, time.UTC)
	assert.Equal(t, "Sara Adel", v.PatientName)
	assert.Equal(t, "Cleaning", v.ServiceName)
	assert.Zero(t, v.Price)
}

func TestWithDisplayDataNoNamesAnywhere(t *testing.T) {
	a := Appointment{ID: "a1", PatientID: "gone", ServiceID: "gone", StartsAt: "2025-03-10T10:00:00Z"}

	v := WithDisplayData(a, nil, nil, time.UTC)
	assert.Equal(t, "deleted", v.PatientName)
	assert.Equal(t, "deleted", v.ServiceName)
}

func TestBuilderWeekView(t *testing.T) {
	loc := time.UTC
	cat := schedule.NewCatalog("09:00", "14:30", 30*time.Minute)
	b := NewBuilder(
		[]patients.Patient{{ID: "p1", Name: "Sara Adel"}},
		[]catalog.Service{{ID: "s1", Name: "Cleaning", Price: 300}},
		cat, loc)

	// Monday 2025-03-10; Saturday start puts the week at 03-08..03-14.
	ref := time.Date(2025, time.March, 10, 12, 0, 0, 0, loc)
	appts := []Appointment{
		{ID: "a1", PatientID: "p1", ServiceID: "s1", StartsAt: "2025-03-10T10:00:00Z"},
		{ID: "a2", PatientID: "p1", ServiceID: "s1", StartsAt: "2025-03-12T11:30:00Z"},
	}

	view := b.WeekView(ref, time.Saturday, appts)
	assert.Equal(t, "2025-03-08", view.Start)
	assert.Equal(t, "2025-03-14", view.End)
	require.Len(t, view.Days, schedule.DaysPerWeek)
	assert.Len(t, view.Slots, 12)

	monday := view.Days[2]
	assert.Equal(t, "2025-03-10", monday.Date)
	assert.Equal(t, "Monday", monday.Weekday)
	require.Len(t, monday.Appointments, 1)
	assert.Equal(t, "Sara Adel", monday.Appointments[0].PatientName)
	assert.True(t, monday.BookedSlots["10:00"])
	assert.False(t, monday.BookedSlots["11:30"])

	wednesday := view.Days[4]
	require.Len(t, wednesday.Appointments, 1)
	assert.True(t, wednesday.BookedSlots["11:30"])
}
