package schedule

import (
	"strings"
	"time"
)

// BookingRequest is a proposed appointment before validation.
type BookingRequest struct {
	PatientID string `json:"patientId"`
	ServiceID string `json:"serviceId"`
	Date      string `json:"date"` // "2006-01-02"
	Time      string `json:"time"` // "HH:MM"
}

// ValidateBooking checks a proposed booking against the existing
// appointment start timestamps and returns the combined absolute
// timestamp on success. The slot check applies to every requested
// time, fixed-catalog or free-text, so a conflict can never reach the
// store.
func ValidateBooking(req BookingRequest, starts []time.Time, now time.Time) (time.Time, error) {
	if strings.TrimSpace(req.PatientID) == "" ||
		strings.TrimSpace(req.ServiceID) == "" ||
		strings.TrimSpace(req.Date) == "" ||
		strings.TrimSpace(req.Time) == "" {
		return time.Time{}, ErrMissingField
	}

	at, err := CombineDateTime(req.Date, req.Time, now.Location())
	if err != nil {
		return time.Time{}, ErrMissingField
	}

	if at.Before(now) {
		return time.Time{}, ErrPastDateTime
	}

	if IsSlotBooked(at, at.Format(SlotLayout), starts) {
		return time.Time{}, ErrSlotConflict
	}

	return at, nil
}
