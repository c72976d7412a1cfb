package database

import "errors"

var (
	// ErrNotFound is returned when a reservation, payment or notification
	// id matches no row.
	ErrNotFound = errors.New("not found")

	// ErrCabinUnavailable is returned when the transactional overlap guard
	// finds a competing reservation at insert or update time.
	ErrCabinUnavailable = errors.New("cabin unavailable for requested dates")
)
