package service

import (
	"context"

	"github.com/fiignacio/manuara-reservas-app-sub000/internal/datemath"
	"github.com/fiignacio/manuara-reservas-app-sub000/internal/events"
	"github.com/fiignacio/manuara-reservas-app-sub000/internal/metrics"
	"github.com/fiignacio/manuara-reservas-app-sub000/internal/models"
)

// PerformCheckIn records the guest's arrival. Only a pending reservation
// can check in; a repeat call is a state error, not a no-op.
func (s *ReservationSvc) PerformCheckIn(ctx context.Context, id, note string) (*models.Reservation, error) {
	r, err := s.store.GetReservation(ctx, id)
	if err != nil {
		return nil, err
	}

	if r.CheckInStatus != models.CheckInStatusPending {
		return nil, &StateError{
			Entity:  "reservation",
			ID:      id,
			From:    r.CheckInStatus,
			To:      models.CheckInStatusCheckedIn,
			Message: "only a pending reservation can check in",
		}
	}

	now := s.clock.Now()
	r.CheckInStatus = models.CheckInStatusCheckedIn
	r.ActualCheckIn = &now
	r.CheckInNote = note

	if err := s.store.UpdateReservation(ctx, r); err != nil {
		return nil, err
	}

	metrics.IncTransition("check_in")
	s.publishReservationEvent(events.EventGuestCheckedIn, r, note)
	s.invalidateDashboard(ctx)
	return r, nil
}

// PerformCheckOut records the departure. Requires a completed check-in and
// no prior check-out; late flags the stay as late_checkout.
func (s *ReservationSvc) PerformCheckOut(ctx context.Context, id string, late bool, note string) (*models.Reservation, error) {
	r, err := s.store.GetReservation(ctx, id)
	if err != nil {
		return nil, err
	}

	target := models.CheckOutStatusCheckedOut
	if late {
		target = models.CheckOutStatusLateCheckout
	}

	if r.CheckInStatus != models.CheckInStatusCheckedIn {
		return nil, &StateError{
			Entity:  "reservation",
			ID:      id,
			From:    r.CheckInStatus,
			To:      target,
			Message: "guest never checked in",
		}
	}
	if r.CheckOutStatus != models.CheckOutStatusPending {
		return nil, &StateError{
			Entity:  "reservation",
			ID:      id,
			From:    r.CheckOutStatus,
			To:      target,
			Message: "guest already checked out",
		}
	}

	now := s.clock.Now()
	r.CheckOutStatus = target
	r.ActualCheckOut = &now
	r.CheckOutNote = note

	if err := s.store.UpdateReservation(ctx, r); err != nil {
		return nil, err
	}

	metrics.IncTransition("check_out")
	s.publishReservationEvent(events.EventGuestCheckedOut, r, note)
	s.invalidateDashboard(ctx)
	return r, nil
}

// MarkNoShow flags a guest who never arrived. Terminal: the reservation
// stops blocking the cabin and its undelivered reminders are voided.
func (s *ReservationSvc) MarkNoShow(ctx context.Context, id string) (*models.Reservation, error) {
	r, err := s.store.GetReservation(ctx, id)
	if err != nil {
		return nil, err
	}

	if r.CheckInStatus != models.CheckInStatusPending {
		return nil, &StateError{
			Entity:  "reservation",
			ID:      id,
			From:    r.CheckInStatus,
			To:      models.CheckInStatusNoShow,
			Message: "only a pending reservation can be a no-show",
		}
	}

	r.CheckInStatus = models.CheckInStatusNoShow
	if err := s.store.UpdateReservation(ctx, r); err != nil {
		return nil, err
	}
	if _, err := s.store.CancelPendingByReservation(ctx, id); err != nil {
		s.logger.Error().Err(err).Str("reservation_id", id).Msg("cancelling no-show notifications failed")
	}

	metrics.IncTransition("no_show")
	s.publishReservationEvent(events.EventReservationNoShow, r, "")
	s.invalidateDashboard(ctx)
	return r, nil
}

// FlagNoShows marks every reservation still pending after its check-in day
// fully passed. Returns the number flagged.
func (s *ReservationSvc) FlagNoShows(ctx context.Context) (int, error) {
	reservations, err := s.store.ListReservations(ctx)
	if err != nil {
		return 0, err
	}

	today := datemath.Today(s.clock.Now())
	flagged := 0
	for _, r := range reservations {
		if r.CheckInStatus != models.CheckInStatusPending {
			continue
		}
		if !datemath.BeforeDay(r.CheckIn, today) {
			continue
		}
		if _, err := s.MarkNoShow(ctx, r.ID); err != nil {
			return flagged, err
		}
		flagged++
	}
	return flagged, nil
}

// DeleteExpired removes reservations whose check-out lies beyond the grace
// window, voiding their undelivered notifications first. Destructive;
// returns the number deleted.
func (s *ReservationSvc) DeleteExpired(ctx context.Context) (int, error) {
	reservations, err := s.store.ListReservations(ctx)
	if err != nil {
		return 0, err
	}

	now := s.clock.Now()
	deleted := 0
	for _, r := range reservations {
		if !r.ExpiredBy(now) {
			continue
		}
		if _, err := s.store.CancelPendingByReservation(ctx, r.ID); err != nil {
			return deleted, err
		}
		if err := s.store.DeleteReservation(ctx, r.ID); err != nil {
			return deleted, err
		}
		s.logger.Info().
			Str("reservation_id", r.ID).
			Str("guest", r.GuestName).
			Str("check_out", datemath.FormatDate(r.CheckOut)).
			Msg("Expired reservation removed")
		deleted++
	}

	if deleted > 0 {
		s.invalidateDashboard(ctx)
	}
	return deleted, nil
}
