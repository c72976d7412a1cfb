package service

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/fiignacio/manuara-reservas-app-sub000/internal/database"
	"github.com/fiignacio/manuara-reservas-app-sub000/internal/domain"
	"github.com/fiignacio/manuara-reservas-app-sub000/internal/events"
	"github.com/fiignacio/manuara-reservas-app-sub000/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func ledgerFixture() *models.Reservation {
	r := stay("res-1", "cabana-grande", day(2026, time.July, 10), day(2026, time.July, 14))
	r.TotalPrice = 100000
	r.Payments = []models.Payment{
		{ID: "pay-1", Amount: 40000, Method: models.PaymentMethodTransfer, Date: day(2026, time.June, 1)},
	}
	return r
}

func TestAddPayment(t *testing.T) {
	logger := zerolog.New(io.Discard)
	clock := domain.FixedClock{T: time.Date(2026, time.June, 5, 16, 45, 0, 0, time.Local)}
	ctx := context.Background()

	t.Run("ExactRemainingBalance", func(t *testing.T) {
		repo := new(mockRepo)
		bus := new(mockEventBus)
		cache := new(mockCache)
		svc := NewReservationService(repo, cache, bus, nil, NewPricingCalculator(testConfig()), clock, &logger)

		initial := ledgerFixture()
		updated := ledgerFixture()
		updated.Payments = append(updated.Payments,
			models.Payment{ID: "pay-2", Amount: 60000, Method: models.PaymentMethodCash})

		payment := &models.Payment{Amount: 60000, Method: models.PaymentMethodCash}

		repo.On("GetReservation", ctx, "res-1").Return(initial, nil).Once()
		repo.On("AddPayment", ctx, "res-1", payment).Return(nil).Once()
		repo.On("GetReservation", ctx, "res-1").Return(updated, nil).Once()
		bus.On("PublishJSON", events.EventPaymentRecorded, mock.MatchedBy(func(p events.PaymentEventPayload) bool {
			return p.ReservationID == "res-1" && p.Amount == 60000 && p.Balance == 0
		})).Return(nil).Once()
		cache.On("Invalidate", ctx).Return(nil).Once()

		got, err := svc.AddPayment(ctx, "res-1", payment)
		assert.NoError(t, err)
		assert.Equal(t, updated, got)
		assert.NotEmpty(t, payment.ID)
		assert.True(t, payment.Date.Equal(day(2026, time.June, 5)), "omitted date defaults to today at noon, got %v", payment.Date)

		repo.AssertExpectations(t)
		bus.AssertExpectations(t)
		cache.AssertExpectations(t)
	})

	t.Run("OverpaymentRejected", func(t *testing.T) {
		repo := new(mockRepo)
		svc := NewReservationService(repo, nil, nil, nil, NewPricingCalculator(testConfig()), clock, &logger)

		repo.On("GetReservation", ctx, "res-1").Return(ledgerFixture(), nil).Once()

		_, err := svc.AddPayment(ctx, "res-1", &models.Payment{Amount: 60001, Method: models.PaymentMethodCash})
		var verr *ValidationError
		assert.True(t, errors.As(err, &verr))
		assert.Equal(t, "amount", verr.Field)
		repo.AssertNotCalled(t, "AddPayment", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("NonPositiveAmountRejected", func(t *testing.T) {
		repo := new(mockRepo)
		svc := NewReservationService(repo, nil, nil, nil, NewPricingCalculator(testConfig()), clock, &logger)

		repo.On("GetReservation", ctx, "res-1").Return(ledgerFixture(), nil).Once()

		_, err := svc.AddPayment(ctx, "res-1", &models.Payment{Amount: 0, Method: models.PaymentMethodCash})
		var verr *ValidationError
		assert.True(t, errors.As(err, &verr))
		assert.Equal(t, "amount", verr.Field)
	})

	t.Run("UnknownMethodRejected", func(t *testing.T) {
		repo := new(mockRepo)
		svc := NewReservationService(repo, nil, nil, nil, NewPricingCalculator(testConfig()), clock, &logger)

		repo.On("GetReservation", ctx, "res-1").Return(ledgerFixture(), nil).Once()

		_, err := svc.AddPayment(ctx, "res-1", &models.Payment{Amount: 1000, Method: "barter"})
		var verr *ValidationError
		assert.True(t, errors.As(err, &verr))
		assert.Equal(t, "method", verr.Field)
	})

	t.Run("ExplicitDateNormalizedToNoon", func(t *testing.T) {
		repo := new(mockRepo)
		cache := new(mockCache)
		svc := NewReservationService(repo, cache, nil, nil, NewPricingCalculator(testConfig()), clock, &logger)

		payment := &models.Payment{
			Amount: 10000,
			Method: models.PaymentMethodDebitCard,
			Date:   time.Date(2026, time.June, 3, 22, 15, 0, 0, time.Local),
		}

		repo.On("GetReservation", ctx, "res-1").Return(ledgerFixture(), nil).Once()
		repo.On("AddPayment", ctx, "res-1", payment).Return(nil).Once()
		repo.On("GetReservation", ctx, "res-1").Return(ledgerFixture(), nil).Once()
		cache.On("Invalidate", ctx).Return(nil).Once()

		_, err := svc.AddPayment(ctx, "res-1", payment)
		assert.NoError(t, err)
		assert.True(t, payment.Date.Equal(day(2026, time.June, 3)), "got %v", payment.Date)
		repo.AssertExpectations(t)
	})

	t.Run("UnknownReservation", func(t *testing.T) {
		repo := new(mockRepo)
		svc := NewReservationService(repo, nil, nil, nil, NewPricingCalculator(testConfig()), clock, &logger)

		repo.On("GetReservation", ctx, "missing").Return(nil, database.ErrNotFound).Once()

		_, err := svc.AddPayment(ctx, "missing", &models.Payment{Amount: 1000, Method: models.PaymentMethodCash})
		assert.ErrorIs(t, err, database.ErrNotFound)
	})
}

func TestRemovePayment(t *testing.T) {
	logger := zerolog.New(io.Discard)
	clock := domain.FixedClock{T: time.Date(2026, time.June, 5, 16, 45, 0, 0, time.Local)}
	ctx := context.Background()

	t.Run("RemovesAndPublishes", func(t *testing.T) {
		repo := new(mockRepo)
		bus := new(mockEventBus)
		cache := new(mockCache)
		svc := NewReservationService(repo, cache, bus, nil, NewPricingCalculator(testConfig()), clock, &logger)

		updated := ledgerFixture()
		updated.Payments = nil

		repo.On("GetReservation", ctx, "res-1").Return(ledgerFixture(), nil).Once()
		repo.On("DeletePayment", ctx, "res-1", "pay-1").Return(nil).Once()
		repo.On("GetReservation", ctx, "res-1").Return(updated, nil).Once()
		bus.On("PublishJSON", events.EventPaymentRemoved, mock.MatchedBy(func(p events.PaymentEventPayload) bool {
			return p.PaymentID == "pay-1" && p.Balance == 100000
		})).Return(nil).Once()
		cache.On("Invalidate", ctx).Return(nil).Once()

		got, err := svc.RemovePayment(ctx, "res-1", "pay-1")
		assert.NoError(t, err)
		assert.Empty(t, got.Payments)

		repo.AssertExpectations(t)
		bus.AssertExpectations(t)
		cache.AssertExpectations(t)
	})

	t.Run("UnknownPayment", func(t *testing.T) {
		repo := new(mockRepo)
		bus := new(mockEventBus)
		svc := NewReservationService(repo, nil, bus, nil, NewPricingCalculator(testConfig()), clock, &logger)

		repo.On("GetReservation", ctx, "res-1").Return(ledgerFixture(), nil).Once()
		repo.On("DeletePayment", ctx, "res-1", "pay-9").Return(database.ErrNotFound).Once()

		_, err := svc.RemovePayment(ctx, "res-1", "pay-9")
		assert.ErrorIs(t, err, database.ErrNotFound)
		bus.AssertNotCalled(t, "PublishJSON", mock.Anything, mock.Anything)
	})
}
