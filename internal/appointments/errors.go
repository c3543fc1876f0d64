package appointments

import "errors"

// ErrAppointmentNotFound is returned when no appointment has the requested id
var ErrAppointmentNotFound = errors.New("appointment not found")
