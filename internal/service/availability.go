package service

import (
	"context"
	"time"

	"github.com/fiignacio/manuara-reservas-app-sub000/internal/datemath"
	"github.com/fiignacio/manuara-reservas-app-sub000/internal/models"
)

// CheckAvailability reports whether a cabin is free for the half-open
// range [checkIn, checkOut). Same-day turnover is legal: one stay may end
// the day another begins. excludeID ignores a reservation's own row when
// its dates are edited. On conflict the returned date is the earliest the
// cabin frees up; on success it echoes checkIn.
func (s *ReservationSvc) CheckAvailability(ctx context.Context, cabinID string, checkIn, checkOut time.Time, excludeID string) (bool, time.Time, error) {
	reservations, err := s.store.ListReservationsByCabin(ctx, cabinID)
	if err != nil {
		return false, time.Time{}, err
	}

	checkIn = datemath.AtNoon(checkIn)
	checkOut = datemath.AtNoon(checkOut)

	for _, r := range reservations {
		if !blocks(r, excludeID) {
			continue
		}
		if datemath.BeforeDay(checkIn, r.CheckOut) && datemath.AfterDay(checkOut, r.CheckIn) {
			next := nextFreeDate(reservations, checkIn, excludeID)
			return false, next, nil
		}
	}

	return true, checkIn, nil
}

// NextAvailableDate finds the first date on or after preferred not covered
// by any blocking stay.
func (s *ReservationSvc) NextAvailableDate(ctx context.Context, cabinID string, preferred time.Time) (time.Time, error) {
	reservations, err := s.store.ListReservationsByCabin(ctx, cabinID)
	if err != nil {
		return time.Time{}, err
	}
	return nextFreeDate(reservations, datemath.AtNoon(preferred), ""), nil
}

// nextFreeDate walks stays ordered by check-out ascending, pushing the
// candidate past every window that covers it. The ordering makes a single
// pass sufficient: once pushed to a window's check-out, no earlier window
// can cover the candidate again.
func nextFreeDate(reservations []*models.Reservation, candidate time.Time, excludeID string) time.Time {
	for _, r := range reservations {
		if !blocks(r, excludeID) {
			continue
		}
		if !datemath.BeforeDay(candidate, r.CheckIn) && datemath.BeforeDay(candidate, r.CheckOut) {
			candidate = r.CheckOut
		}
	}
	return candidate
}

// blocks reports whether a reservation holds its dates. A no-show frees
// the cabin immediately.
func blocks(r *models.Reservation, excludeID string) bool {
	if excludeID != "" && r.ID == excludeID {
		return false
	}
	return r.CheckInStatus != models.CheckInStatusNoShow
}
