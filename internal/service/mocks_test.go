package service

import (
	"context"
	"time"

	"github.com/fiignacio/manuara-reservas-app-sub000/internal/config"
	"github.com/fiignacio/manuara-reservas-app-sub000/internal/models"

	"github.com/stretchr/testify/mock"
)

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) CreateReservation(ctx context.Context, r *models.Reservation) error {
	return m.Called(ctx, r).Error(0)
}
func (m *mockRepo) GetReservation(ctx context.Context, id string) (*models.Reservation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Reservation), args.Error(1)
}
func (m *mockRepo) ListReservations(ctx context.Context) ([]*models.Reservation, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Reservation), args.Error(1)
}
func (m *mockRepo) ListReservationsByCabin(ctx context.Context, cabinID string) ([]*models.Reservation, error) {
	args := m.Called(ctx, cabinID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Reservation), args.Error(1)
}
func (m *mockRepo) ListReservationsInRange(ctx context.Context, start, end time.Time) ([]*models.Reservation, error) {
	args := m.Called(ctx, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Reservation), args.Error(1)
}
func (m *mockRepo) UpdateReservation(ctx context.Context, r *models.Reservation) error {
	return m.Called(ctx, r).Error(0)
}
func (m *mockRepo) DeleteReservation(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}
func (m *mockRepo) AddPayment(ctx context.Context, reservationID string, p *models.Payment) error {
	return m.Called(ctx, reservationID, p).Error(0)
}
func (m *mockRepo) DeletePayment(ctx context.Context, reservationID, paymentID string) error {
	return m.Called(ctx, reservationID, paymentID).Error(0)
}
func (m *mockRepo) CreateNotification(ctx context.Context, n *models.Notification) error {
	return m.Called(ctx, n).Error(0)
}
func (m *mockRepo) GetNotification(ctx context.Context, id string) (*models.Notification, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Notification), args.Error(1)
}
func (m *mockRepo) ListNotifications(ctx context.Context) ([]*models.Notification, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Notification), args.Error(1)
}
func (m *mockRepo) ListNotificationsByReservation(ctx context.Context, reservationID string) ([]*models.Notification, error) {
	args := m.Called(ctx, reservationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Notification), args.Error(1)
}
func (m *mockRepo) ListDueNotifications(ctx context.Context, now time.Time) ([]*models.Notification, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Notification), args.Error(1)
}
func (m *mockRepo) UpdateNotification(ctx context.Context, n *models.Notification) error {
	return m.Called(ctx, n).Error(0)
}
func (m *mockRepo) CancelPendingByReservation(ctx context.Context, reservationID string) (int64, error) {
	args := m.Called(ctx, reservationID)
	return args.Get(0).(int64), args.Error(1)
}
func (m *mockRepo) DeleteNotificationsByReservation(ctx context.Context, reservationID string) error {
	return m.Called(ctx, reservationID).Error(0)
}

type mockEventBus struct {
	mock.Mock
}

func (m *mockEventBus) PublishJSON(eventType string, payload interface{}) error {
	return m.Called(eventType, payload).Error(0)
}

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) GenerateForReservation(ctx context.Context, r *models.Reservation) (int, error) {
	args := m.Called(ctx, r)
	return args.Int(0), args.Error(1)
}
func (m *mockNotifier) RegenerateForReservation(ctx context.Context, r *models.Reservation) (int, error) {
	args := m.Called(ctx, r)
	return args.Int(0), args.Error(1)
}
func (m *mockNotifier) DueNotifications(ctx context.Context) ([]*models.Notification, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Notification), args.Error(1)
}
func (m *mockNotifier) MarkSent(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}
func (m *mockNotifier) MarkRead(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}
func (m *mockNotifier) Complete(ctx context.Context, id, note string) error {
	return m.Called(ctx, id, note).Error(0)
}
func (m *mockNotifier) Archive(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}
func (m *mockNotifier) Cancel(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}
func (m *mockNotifier) Snooze(ctx context.Context, id string, duration time.Duration) error {
	return m.Called(ctx, id, duration).Error(0)
}

type mockCache struct {
	mock.Mock
}

func (m *mockCache) Get(ctx context.Context) (*models.DashboardSnapshot, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DashboardSnapshot), args.Error(1)
}
func (m *mockCache) Set(ctx context.Context, snapshot *models.DashboardSnapshot) error {
	return m.Called(ctx, snapshot).Error(0)
}
func (m *mockCache) Invalidate(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}
func (m *mockCache) Close() error {
	return m.Called().Error(0)
}

// day builds the local-noon date the engine normalizes everything to.
func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 12, 0, 0, 0, time.Local)
}

func testConfig() *config.Config {
	return &config.Config{
		Cabins: []models.Cabin{
			{ID: "cabana-pequena", Name: "Cabaña Pequeña", Capacity: 3, SortOrder: 1, IsActive: true},
			{ID: "cabana-grande", Name: "Cabaña Grande", Capacity: 6, SortOrder: 2, IsActive: true},
			{ID: "cabana-cerrada", Name: "Cabaña Cerrada", Capacity: 2, SortOrder: 3, IsActive: false},
		},
		Pricing: config.PricingConfig{
			AdultRateHigh: 25000,
			AdultRateLow:  20000,
			ChildRate:     10000,
		},
		Booking: config.BookingConfig{
			MaxStayNights:      30,
			BookingHorizonDays: 730,
		},
		Notifications: config.NotificationsConfig{
			CheckInAnchor:  "14:00",
			CheckOutAnchor: "11:00",
			SnoozeHours:    24,
			MaxSnoozeHours: 168,
		},
	}
}
