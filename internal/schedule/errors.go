package schedule

import "errors"

var (
	// ErrMissingField is returned when a booking request omits a required field
	ErrMissingField = errors.New("patient, service, date and time are required")

	// ErrPastDateTime is returned when a booking targets a moment already passed
	ErrPastDateTime = errors.New("cannot book an appointment in the past")

	// ErrSlotConflict is returned when the requested slot is already taken
	ErrSlotConflict = errors.New("slot is already booked")
)
