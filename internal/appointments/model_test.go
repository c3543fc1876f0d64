package appointments

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAppointmentStart(t *testing.T) {
	a := Appointment{StartsAt: "2025-03-10T10:00:00Z"}
	assert.Equal(t, time.Date(2025, time.March, 10, 10, 0, 0, 0, time.UTC), a.Start())

	bad := Appointment{StartsAt: "garbage"}
	assert.True(t, bad.Start().IsZero())

	var empty Appointment
	assert.True(t, empty.Start().IsZero())
}

func TestStartTimes(t *testing.T) {
	appts := []Appointment{
		{StartsAt: "2025-03-10T10:00:00Z"},
		{StartsAt: "bad"},
		{StartsAt: "2025-03-10T11:30:00Z"},
	}
	starts := StartTimes(appts)
	assert.Len(t, starts, 3)
	assert.True(t, starts[1].IsZero())
	assert.Equal(t, 11, starts[2].Hour())
}
