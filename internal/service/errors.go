package service

import (
	"fmt"
	"time"

	"github.com/fiignacio/manuara-reservas-app-sub000/internal/datemath"
)

// ValidationError reports a rejected input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ConflictError reports a double booking attempt together with the
// earliest date the cabin frees up, so callers can offer an alternative
// instead of a bare rejection.
type ConflictError struct {
	CabinID       string
	CheckIn       time.Time
	CheckOut      time.Time
	NextAvailable time.Time
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("cabin %s is occupied between %s; next available date is %s",
		e.CabinID,
		datemath.FormatRange(e.CheckIn, e.CheckOut),
		datemath.FormatDate(e.NextAvailable))
}

// StateError reports an illegal lifecycle transition.
type StateError struct {
	Entity  string
	ID      string
	From    string
	To      string
	Message string
}

func (e *StateError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s %s: cannot move from %s to %s: %s", e.Entity, e.ID, e.From, e.To, e.Message)
	}
	return fmt.Sprintf("%s %s: cannot move from %s to %s", e.Entity, e.ID, e.From, e.To)
}
