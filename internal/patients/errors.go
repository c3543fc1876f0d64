package patients

import "errors"

var (
	// ErrMissingName is returned when the patient name is absent
	ErrMissingName = errors.New("name is required")

	// ErrMissingPhone is returned when the phone number is absent
	ErrMissingPhone = errors.New("phone is required")

	// ErrInvalidDateOfBirth is returned when the date of birth cannot be parsed
	ErrInvalidDateOfBirth = errors.New("dateOfBirth must be YYYY-MM-DD")

	// ErrInvalidGender is returned for values outside the enumeration
	ErrInvalidGender = errors.New("gender must be male or female")

	// ErrPatientNotFound is returned when no patient has the requested id
	ErrPatientNotFound = errors.New("patient not found")
)
