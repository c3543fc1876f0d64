package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateBookingSuccess(t *testing.T) {
	now := time.Date(2024, 5, 30, 12, 0, 0, 0, time.UTC)
	starts := []time.Time{
		time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC),
		time.Date(2024, 6, 1, 10, 30, 0, 0, time.UTC),
	}

	at, err := ValidateBooking(BookingRequest{
		PatientID: "p1",
		ServiceID: "s1",
		Date:      "2024-06-01",
		Time:      "11:00",
	}, starts, now)

	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 6, 1, 11, 0, 0, 0, time.UTC), at)
}

func TestValidateBookingSlotConflict(t *testing.T) {
	now := time.Date(2024, 5, 30, 12, 0, 0, 0, time.UTC)
	starts := []time.Time{
		time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC),
		time.Date(2024, 6, 1, 10, 30, 0, 0, time.UTC),
	}

	_, err := ValidateBooking(BookingRequest{
		PatientID: "p1",
		ServiceID: "s1",
		Date:      "2024-06-01",
		Time:      "10:00",
	}, starts, now)

	assert.ErrorIs(t, err, ErrSlotConflict)
}

func TestValidateBookingMissingFields(t *testing.T) {
	now := time.Date(2024, 5, 30, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		req  BookingRequest
	}{
		{"no patient", BookingRequest{ServiceID: "s1", Date: "2024-06-01", Time: "10:00"}},
		{"no service", BookingRequest{PatientID: "p1", Date: "2024-06-01", Time: "10:00"}},
		{"no date", BookingRequest{PatientID: "p1", ServiceID: "s1", Time: "10:00"}},
		{"no time", BookingRequest{PatientID: "p1", ServiceID: "s1", Date: "2024-06-01"}},
		{"blank patient", BookingRequest{PatientID: "  ", ServiceID: "s1", Date: "2024-06-01", Time: "10:00"}},
		{"unparseable date", BookingRequest{PatientID: "p1", ServiceID: "s1", Date: "01/06/2024", Time: "10:00"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidateBooking(tt.req, nil, now)
			assert.ErrorIs(t, err, ErrMissingField)
		})
	}
}

func TestValidateBookingPastDateTime(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	// Past rejection applies regardless of slot occupancy.
	_, err := ValidateBooking(BookingRequest{
		PatientID: "p1",
		ServiceID: "s1",
		Date:      "2024-06-01",
		Time:      "09:00",
	}, nil, now)
	assert.ErrorIs(t, err, ErrPastDateTime)

	// The current minute itself is still bookable.
	_, err = ValidateBooking(BookingRequest{
		PatientID: "p1",
		ServiceID: "s1",
		Date:      "2024-06-01",
		Time:      "12:00",
	}, nil, now)
	assert.NoError(t, err)
}

func TestValidateBookingFreeTextTimeStillChecked(t *testing.T) {
	// A time outside the fixed catalog must hit the same conflict check.
	now := time.Date(2024, 5, 30, 12, 0, 0, 0, time.UTC)
	starts := []time.Time{
		time.Date(2024, 6, 1, 10, 15, 0, 0, time.UTC),
	}

	_, err := ValidateBooking(BookingRequest{
		PatientID: "p1",
		ServiceID: "s1",
		Date:      "2024-06-01",
		Time:      "10:15",
	}, starts, now)
	assert.ErrorIs(t, err, ErrSlotConflict)
}
