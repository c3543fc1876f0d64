package catalog

import "errors"

var (
	// ErrMissingName is returned when the service name is absent
	ErrMissingName = errors.New("name is required")

	// ErrNegativePrice is returned when the price is below zero
	ErrNegativePrice = errors.New("price must not be negative")

	// ErrServiceNotFound is returned when no service has the requested id
	ErrServiceNotFound = errors.New("service not found")
)
