package service

import (
	"context"
	"fmt"

	"github.com/fiignacio/manuara-reservas-app-sub000/internal/datemath"
	"github.com/fiignacio/manuara-reservas-app-sub000/internal/events"
	"github.com/fiignacio/manuara-reservas-app-sub000/internal/metrics"
	"github.com/fiignacio/manuara-reservas-app-sub000/internal/models"

	"github.com/google/uuid"
)

var paymentMethods = map[string]bool{
	models.PaymentMethodCash:       true,
	models.PaymentMethodTransfer:   true,
	models.PaymentMethodCreditCard: true,
	models.PaymentMethodDebitCard:  true,
	models.PaymentMethodOther:      true,
}

// AddPayment records a ledger entry. Overpayment is rejected rather than
// clamped: the amount must fit the remaining balance exactly or below.
func (s *ReservationSvc) AddPayment(ctx context.Context, reservationID string, payment *models.Payment) (*models.Reservation, error) {
	r, err := s.store.GetReservation(ctx, reservationID)
	if err != nil {
		return nil, err
	}

	if payment.Amount <= 0 {
		return nil, &ValidationError{Field: "amount", Message: "must be positive"}
	}
	if !paymentMethods[payment.Method] {
		return nil, &ValidationError{Field: "method", Message: fmt.Sprintf("unknown payment method %q", payment.Method)}
	}
	if balance := r.RemainingBalance(); payment.Amount > balance {
		return nil, &ValidationError{
			Field:   "amount",
			Message: fmt.Sprintf("payment of %d exceeds the remaining balance of %d", payment.Amount, balance),
		}
	}

	if payment.ID == "" {
		payment.ID = uuid.NewString()
	}
	if payment.Date.IsZero() {
		payment.Date = datemath.Today(s.clock.Now())
	} else {
		payment.Date = datemath.AtNoon(payment.Date)
	}

	if err := s.store.AddPayment(ctx, reservationID, payment); err != nil {
		return nil, err
	}

	updated, err := s.store.GetReservation(ctx, reservationID)
	if err != nil {
		return nil, err
	}

	metrics.IncPayment(payment.Method)
	s.publishPaymentEvent(events.EventPaymentRecorded, updated, payment)
	s.invalidateDashboard(ctx)
	return updated, nil
}

// RemovePayment deletes a ledger entry; staff use it to correct
// mistaken records. Balance and payment status re-derive on read.
func (s *ReservationSvc) RemovePayment(ctx context.Context, reservationID, paymentID string) (*models.Reservation, error) {
	r, err := s.store.GetReservation(ctx, reservationID)
	if err != nil {
		return nil, err
	}

	var removed *models.Payment
	for i := range r.Payments {
		if r.Payments[i].ID == paymentID {
			removed = &r.Payments[i]
			break
		}
	}

	if err := s.store.DeletePayment(ctx, reservationID, paymentID); err != nil {
		return nil, err
	}

	updated, err := s.store.GetReservation(ctx, reservationID)
	if err != nil {
		return nil, err
	}

	if removed != nil {
		s.publishPaymentEvent(events.EventPaymentRemoved, updated, removed)
	}
	s.invalidateDashboard(ctx)
	return updated, nil
}

func (s *ReservationSvc) publishPaymentEvent(eventType string, r *models.Reservation, payment *models.Payment) {
	if s.bus == nil {
		return
	}

	payload := events.PaymentEventPayload{
		ReservationID: r.ID,
		PaymentID:     payment.ID,
		Amount:        payment.Amount,
		Method:        payment.Method,
		Balance:       r.RemainingBalance(),
	}
	if err := s.bus.PublishJSON(eventType, payload); err != nil {
		s.logger.Error().Err(err).Str("event_type", eventType).Str("reservation_id", r.ID).Msg("publish event error")
	}
}
