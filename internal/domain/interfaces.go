package domain

import (
	"context"
	"time"

	"github.com/fiignacio/manuara-reservas-app-sub000/internal/models"
)

// Delivery channel hints handed to the Sender.
const (
	ChannelPrimary   = "primary"
	ChannelSecondary = "secondary"
)

type ReservationStore interface {
	CreateReservation(ctx context.Context, reservation *models.Reservation) error
	GetReservation(ctx context.Context, id string) (*models.Reservation, error)
	ListReservations(ctx context.Context) ([]*models.Reservation, error)
	ListReservationsByCabin(ctx context.Context, cabinID string) ([]*models.Reservation, error)
	ListReservationsInRange(ctx context.Context, start, end time.Time) ([]*models.Reservation, error)
	UpdateReservation(ctx context.Context, reservation *models.Reservation) error
	DeleteReservation(ctx context.Context, id string) error
	AddPayment(ctx context.Context, reservationID string, payment *models.Payment) error
	DeletePayment(ctx context.Context, reservationID, paymentID string) error
}

type NotificationStore interface {
	CreateNotification(ctx context.Context, notification *models.Notification) error
	GetNotification(ctx context.Context, id string) (*models.Notification, error)
	ListNotifications(ctx context.Context) ([]*models.Notification, error)
	ListNotificationsByReservation(ctx context.Context, reservationID string) ([]*models.Notification, error)
	ListDueNotifications(ctx context.Context, now time.Time) ([]*models.Notification, error)
	UpdateNotification(ctx context.Context, notification *models.Notification) error
	CancelPendingByReservation(ctx context.Context, reservationID string) (int64, error)
	DeleteNotificationsByReservation(ctx context.Context, reservationID string) error
}

type Repository interface {
	ReservationStore
	NotificationStore
}

type DashboardCache interface {
	Get(ctx context.Context) (*models.DashboardSnapshot, error)
	Set(ctx context.Context, snapshot *models.DashboardSnapshot) error
	Invalidate(ctx context.Context) error
	Close() error
}

type Sender interface {
	Deliver(ctx context.Context, notification *models.Notification, channel string) error
}

type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

type ReservationService interface {
	CreateReservation(ctx context.Context, reservation *models.Reservation) error
	UpdateReservation(ctx context.Context, reservation *models.Reservation) error
	DeleteReservation(ctx context.Context, id string) error
	GetReservation(ctx context.Context, id string) (*models.Reservation, error)
	ListReservations(ctx context.Context) ([]*models.Reservation, error)
	ListReservationsByCabin(ctx context.Context, cabinID string) ([]*models.Reservation, error)
	CheckAvailability(ctx context.Context, cabinID string, checkIn, checkOut time.Time, excludeID string) (bool, time.Time, error)
	NextAvailableDate(ctx context.Context, cabinID string, preferred time.Time) (time.Time, error)
	AddPayment(ctx context.Context, reservationID string, payment *models.Payment) (*models.Reservation, error)
	RemovePayment(ctx context.Context, reservationID, paymentID string) (*models.Reservation, error)
	PerformCheckIn(ctx context.Context, id, note string) (*models.Reservation, error)
	PerformCheckOut(ctx context.Context, id string, late bool, note string) (*models.Reservation, error)
	MarkNoShow(ctx context.Context, id string) (*models.Reservation, error)
	FlagNoShows(ctx context.Context) (int, error)
	DeleteExpired(ctx context.Context) (int, error)
}

type NotificationService interface {
	GenerateForReservation(ctx context.Context, reservation *models.Reservation) (int, error)
	RegenerateForReservation(ctx context.Context, reservation *models.Reservation) (int, error)
	DueNotifications(ctx context.Context) ([]*models.Notification, error)
	MarkSent(ctx context.Context, id string) error
	MarkRead(ctx context.Context, id string) error
	Complete(ctx context.Context, id, note string) error
	Archive(ctx context.Context, id string) error
	Cancel(ctx context.Context, id string) error
	Snooze(ctx context.Context, id string, duration time.Duration) error
}
