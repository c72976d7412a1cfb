package service

import (
	"context"
	"errors"

	"github.com/fiignacio/manuara-reservas-app-sub000/internal/database"
	"github.com/fiignacio/manuara-reservas-app-sub000/internal/datemath"
	"github.com/fiignacio/manuara-reservas-app-sub000/internal/domain"
	"github.com/fiignacio/manuara-reservas-app-sub000/internal/events"
	"github.com/fiignacio/manuara-reservas-app-sub000/internal/metrics"
	"github.com/fiignacio/manuara-reservas-app-sub000/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ReservationSvc is the booking engine: validation, conflict detection,
// pricing, the payment ledger and the guest lifecycle. Every mutation
// publishes an event and invalidates the dashboard cache.
type ReservationSvc struct {
	store    domain.Repository
	cache    domain.DashboardCache
	bus      domain.EventPublisher
	notifier domain.NotificationService
	pricing  *PricingCalculator
	clock    domain.Clock
	logger   *zerolog.Logger
}

func NewReservationService(
	store domain.Repository,
	cache domain.DashboardCache,
	bus domain.EventPublisher,
	notifier domain.NotificationService,
	pricing *PricingCalculator,
	clock domain.Clock,
	logger *zerolog.Logger,
) *ReservationSvc {
	if clock == nil {
		clock = domain.SystemClock{}
	}
	return &ReservationSvc{
		store:    store,
		cache:    cache,
		bus:      bus,
		notifier: notifier,
		pricing:  pricing,
		clock:    clock,
		logger:   logger,
	}
}

func (s *ReservationSvc) CreateReservation(ctx context.Context, r *models.Reservation) error {
	now := s.clock.Now()

	if err := s.pricing.ValidateDates(r.CheckIn, r.CheckOut, now); err != nil {
		return err
	}
	if err := s.pricing.ValidateGuests(r); err != nil {
		return err
	}

	r.CheckIn = datemath.AtNoon(r.CheckIn)
	r.CheckOut = datemath.AtNoon(r.CheckOut)

	available, next, err := s.CheckAvailability(ctx, r.CabinID, r.CheckIn, r.CheckOut, "")
	if err != nil {
		return err
	}
	if !available {
		metrics.IncConflict()
		return &ConflictError{CabinID: r.CabinID, CheckIn: r.CheckIn, CheckOut: r.CheckOut, NextAvailable: next}
	}

	r.TotalPrice = s.pricing.PriceFor(r)
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.CheckInStatus == "" {
		r.CheckInStatus = models.CheckInStatusPending
	}
	if r.CheckOutStatus == "" {
		r.CheckOutStatus = models.CheckOutStatusPending
	}

	// The store re-checks the overlap inside its insert transaction, so a
	// writer that lost the race still comes back as a conflict.
	if err := s.store.CreateReservation(ctx, r); err != nil {
		if errors.Is(err, database.ErrCabinUnavailable) {
			metrics.IncConflict()
			return s.conflictFor(ctx, r)
		}
		return err
	}

	if s.notifier != nil {
		if _, err := s.notifier.GenerateForReservation(ctx, r); err != nil {
			s.logger.Error().Err(err).Str("reservation_id", r.ID).Msg("notification generation failed")
		}
	}

	metrics.IncReservationOp("created")
	s.publishReservationEvent(events.EventReservationCreated, r, "")
	s.invalidateDashboard(ctx)
	return nil
}

func (s *ReservationSvc) UpdateReservation(ctx context.Context, r *models.Reservation) error {
	now := s.clock.Now()

	current, err := s.store.GetReservation(ctx, r.ID)
	if err != nil {
		return err
	}

	r.CheckIn = datemath.AtNoon(r.CheckIn)
	r.CheckOut = datemath.AtNoon(r.CheckOut)

	datesChanged := !datemath.SameDay(current.CheckIn, r.CheckIn) ||
		!datemath.SameDay(current.CheckOut, r.CheckOut)
	cabinChanged := current.CabinID != r.CabinID

	// Date-window rules apply only to windows being moved; an in-flight
	// stay may be edited (notes, guests) without tripping the past check.
	if datesChanged {
		if err := s.pricing.ValidateDates(r.CheckIn, r.CheckOut, now); err != nil {
			return err
		}
	}
	if err := s.pricing.ValidateGuests(r); err != nil {
		return err
	}

	if datesChanged || cabinChanged {
		available, next, err := s.CheckAvailability(ctx, r.CabinID, r.CheckIn, r.CheckOut, r.ID)
		if err != nil {
			return err
		}
		if !available {
			metrics.IncConflict()
			return &ConflictError{CabinID: r.CabinID, CheckIn: r.CheckIn, CheckOut: r.CheckOut, NextAvailable: next}
		}
	}

	r.TotalPrice = s.pricing.PriceFor(r)

	if err := s.store.UpdateReservation(ctx, r); err != nil {
		if errors.Is(err, database.ErrCabinUnavailable) {
			metrics.IncConflict()
			return s.conflictFor(ctx, r)
		}
		return err
	}

	if (datesChanged || cabinChanged) && s.notifier != nil {
		if _, err := s.notifier.RegenerateForReservation(ctx, r); err != nil {
			s.logger.Error().Err(err).Str("reservation_id", r.ID).Msg("notification regeneration failed")
		}
	}

	metrics.IncReservationOp("updated")
	s.publishReservationEvent(events.EventReservationUpdated, r, "")
	s.invalidateDashboard(ctx)
	return nil
}

func (s *ReservationSvc) DeleteReservation(ctx context.Context, id string) error {
	r, err := s.store.GetReservation(ctx, id)
	if err != nil {
		return err
	}

	// Undelivered reminders are voided; delivered history stays.
	if _, err := s.store.CancelPendingByReservation(ctx, id); err != nil {
		return err
	}
	if err := s.store.DeleteReservation(ctx, id); err != nil {
		return err
	}

	metrics.IncReservationOp("deleted")
	s.publishReservationEvent(events.EventReservationDeleted, r, "")
	s.invalidateDashboard(ctx)
	return nil
}

func (s *ReservationSvc) GetReservation(ctx context.Context, id string) (*models.Reservation, error) {
	return s.store.GetReservation(ctx, id)
}

func (s *ReservationSvc) ListReservations(ctx context.Context) ([]*models.Reservation, error) {
	return s.store.ListReservations(ctx)
}

func (s *ReservationSvc) ListReservationsByCabin(ctx context.Context, cabinID string) ([]*models.Reservation, error) {
	return s.store.ListReservationsByCabin(ctx, cabinID)
}

// conflictFor rebuilds a ConflictError after the store reported a race,
// looking up the next free date best-effort.
func (s *ReservationSvc) conflictFor(ctx context.Context, r *models.Reservation) error {
	next, err := s.NextAvailableDate(ctx, r.CabinID, r.CheckIn)
	if err != nil {
		next = r.CheckOut
	}
	return &ConflictError{CabinID: r.CabinID, CheckIn: r.CheckIn, CheckOut: r.CheckOut, NextAvailable: next}
}

func (s *ReservationSvc) publishReservationEvent(eventType string, r *models.Reservation, note string) {
	if s.bus == nil {
		return
	}

	now := s.clock.Now()
	payload := events.ReservationEventPayload{
		ReservationID: r.ID,
		CabinID:       r.CabinID,
		GuestName:     r.GuestName,
		CheckIn:       r.CheckIn,
		CheckOut:      r.CheckOut,
		Status:        r.StatusAt(now),
		PaymentStatus: r.PaymentStatusAt(now),
		TotalPrice:    r.TotalPrice,
		Balance:       r.RemainingBalance(),
		Note:          note,
	}
	if err := s.bus.PublishJSON(eventType, payload); err != nil {
		s.logger.Error().Err(err).Str("event_type", eventType).Str("reservation_id", r.ID).Msg("publish event error")
	}
}

func (s *ReservationSvc) invalidateDashboard(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Error().Err(err).Msg("dashboard cache invalidation failed")
	}
}
