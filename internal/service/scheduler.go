package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/fiignacio/manuara-reservas-app-sub000/internal/config"
	"github.com/fiignacio/manuara-reservas-app-sub000/internal/datemath"
	"github.com/fiignacio/manuara-reservas-app-sub000/internal/domain"
	"github.com/fiignacio/manuara-reservas-app-sub000/internal/metrics"
	"github.com/fiignacio/manuara-reservas-app-sub000/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	anchorCheckIn  = "check_in"
	anchorCheckOut = "check_out"
)

type notificationTemplate struct {
	typ      string
	anchor   string
	offset   time.Duration
	priority string
	staff    bool
	enabled  bool
	title    string
	message  string
}

// Disabled rows are manual-only types: staff raise them by hand, the
// scheduler never emits them.
var notificationTemplates = []notificationTemplate{
	{
		typ:      models.NotificationPaymentReminder,
		anchor:   anchorCheckIn,
		offset:   -72 * time.Hour,
		priority: models.PriorityHigh,
		enabled:  true,
		title:    "Recordatorio de pago",
		message:  "Hola {{guest}}, su reserva en {{cabin}} con llegada el {{checkin}} registra un saldo pendiente de ${{balance}}.",
	},
	{
		typ:      models.NotificationCheckInReminder,
		anchor:   anchorCheckIn,
		offset:   -24 * time.Hour,
		priority: models.PriorityHigh,
		enabled:  true,
		title:    "Recordatorio de llegada",
		message:  "Hola {{guest}}, su llegada a {{cabin}} está programada para el {{checkin}}. ¡Buen viaje!",
	},
	{
		typ:      models.NotificationFlightDelay,
		anchor:   anchorCheckIn,
		offset:   -6 * time.Hour,
		priority: models.PriorityUrgent,
		staff:    true,
		enabled:  false,
		title:    "Posible atraso de vuelo",
		message:  "Confirmar el vuelo de {{guest}} antes de la llegada del {{checkin}} a {{cabin}}.",
	},
	{
		typ:      models.NotificationWelcomeMessage,
		anchor:   anchorCheckIn,
		offset:   0,
		priority: models.PriorityMedium,
		enabled:  true,
		title:    "¡Bienvenido a {{cabin}}!",
		message:  "Hola {{guest}}, le damos la bienvenida. Su estadía es del {{checkin}} al {{checkout}}.",
	},
	{
		typ:      models.NotificationCheckOutReminder,
		anchor:   anchorCheckOut,
		offset:   -24 * time.Hour,
		priority: models.PriorityMedium,
		enabled:  true,
		title:    "Recordatorio de salida",
		message:  "Hola {{guest}}, le recordamos que su salida de {{cabin}} es el {{checkout}}.",
	},
	{
		typ:      models.NotificationCleaningSchedule,
		anchor:   anchorCheckOut,
		offset:   time.Hour,
		priority: models.PriorityMedium,
		staff:    true,
		enabled:  true,
		title:    "Aseo programado",
		message:  "Preparar {{cabin}} después de la salida de {{guest}} el {{checkout}}.",
	},
	{
		typ:      models.NotificationMaintenanceAlert,
		anchor:   anchorCheckOut,
		offset:   2 * time.Hour,
		priority: models.PriorityUrgent,
		staff:    true,
		enabled:  false,
		title:    "Revisión de mantención",
		message:  "Revisar {{cabin}} tras la salida del {{checkout}}.",
	},
}

// NotificationSvc expands the template table into scheduled notifications
// and runs their status machine.
type NotificationSvc struct {
	store        domain.NotificationStore
	cabins       []models.Cabin
	snooze       time.Duration
	maxSnooze    time.Duration
	checkInHour  int
	checkInMin   int
	checkOutHour int
	checkOutMin  int
	clock        domain.Clock
	logger       *zerolog.Logger
}

func NewNotificationService(store domain.NotificationStore, cfg *config.Config, clock domain.Clock, logger *zerolog.Logger) *NotificationSvc {
	if clock == nil {
		clock = domain.SystemClock{}
	}

	s := &NotificationSvc{
		store:     store,
		cabins:    cfg.Cabins,
		snooze:    time.Duration(cfg.Notifications.SnoozeHours) * time.Hour,
		maxSnooze: time.Duration(cfg.Notifications.MaxSnoozeHours) * time.Hour,
		clock:     clock,
		logger:    logger,
	}

	// Anchors were validated at config load; the fallbacks only matter for
	// hand-built configs in tests.
	s.checkInHour, s.checkInMin = anchorOrDefault(cfg.Notifications.CheckInAnchor, 14, 0)
	s.checkOutHour, s.checkOutMin = anchorOrDefault(cfg.Notifications.CheckOutAnchor, 11, 0)
	return s
}

func anchorOrDefault(anchor string, hour, min int) (int, int) {
	h, m, err := config.AnchorClock(anchor)
	if err != nil {
		return hour, min
	}
	return h, m
}

// GenerateForReservation expands every enabled template for the stay and
// persists the ones still in the future. Past-dated entries are dropped
// silently: a reservation created two days before arrival simply never
// gets the -72h payment reminder. Returns the number created.
func (s *NotificationSvc) GenerateForReservation(ctx context.Context, r *models.Reservation) (int, error) {
	now := s.clock.Now()
	created := 0

	for _, tpl := range notificationTemplates {
		if !tpl.enabled {
			continue
		}

		scheduledAt := s.scheduleFor(tpl, r)
		if !scheduledAt.After(now) {
			s.logger.Debug().
				Str("reservation_id", r.ID).
				Str("type", tpl.typ).
				Time("scheduled_at", scheduledAt).
				Msg("Skipping past-dated notification")
			continue
		}

		if err := s.store.CreateNotification(ctx, s.build(tpl, r, scheduledAt)); err != nil {
			return created, fmt.Errorf("failed to create %s notification: %w", tpl.typ, err)
		}
		created++
	}

	metrics.AddNotificationsGenerated(created)
	return created, nil
}

// RegenerateForReservation voids the reservation's undelivered
// notifications and expands the table again. Date edits go through here so
// a moved stay does not keep reminders for the old dates.
func (s *NotificationSvc) RegenerateForReservation(ctx context.Context, r *models.Reservation) (int, error) {
	cancelled, err := s.store.CancelPendingByReservation(ctx, r.ID)
	if err != nil {
		return 0, err
	}
	if cancelled > 0 {
		s.logger.Info().
			Str("reservation_id", r.ID).
			Int64("cancelled", cancelled).
			Msg("Cancelled stale notifications before regeneration")
	}
	return s.GenerateForReservation(ctx, r)
}

// DueNotifications returns what the delivery sweep should send now.
func (s *NotificationSvc) DueNotifications(ctx context.Context) ([]*models.Notification, error) {
	return s.store.ListDueNotifications(ctx, s.clock.Now())
}

// MarkSent records a delivery. Legal from pending or from an expired
// snooze; the snooze timestamp is cleared.
func (s *NotificationSvc) MarkSent(ctx context.Context, id string) error {
	return s.transition(ctx, id, models.NotificationStatusSent,
		models.NotificationStatusPending, models.NotificationStatusSnoozed)
}

// MarkRead records that the recipient saw a sent notification.
func (s *NotificationSvc) MarkRead(ctx context.Context, id string) error {
	return s.transition(ctx, id, models.NotificationStatusRead,
		models.NotificationStatusSent)
}

// Complete resolves a notification. The resolution note is mandatory:
// "done" without what-was-done is not an audit trail.
func (s *NotificationSvc) Complete(ctx context.Context, id, note string) error {
	note = strings.TrimSpace(note)
	if note == "" {
		return &ValidationError{Field: "resolution_note", Message: "a resolution note is required to complete"}
	}

	n, err := s.store.GetNotification(ctx, id)
	if err != nil {
		return err
	}
	if !openStatus(n.Status) {
		return &StateError{Entity: "notification", ID: id, From: n.Status, To: models.NotificationStatusCompleted}
	}

	n.Status = models.NotificationStatusCompleted
	n.ResolutionNote = note
	n.SnoozedUntil = nil
	n.IsActive = false
	return s.store.UpdateNotification(ctx, n)
}

// Archive files a notification away. Terminal.
func (s *NotificationSvc) Archive(ctx context.Context, id string) error {
	return s.transition(ctx, id, models.NotificationStatusArchived,
		models.NotificationStatusPending, models.NotificationStatusSent,
		models.NotificationStatusRead, models.NotificationStatusCompleted,
		models.NotificationStatusSnoozed)
}

// Cancel voids an unresolved notification. Terminal.
func (s *NotificationSvc) Cancel(ctx context.Context, id string) error {
	return s.transition(ctx, id, models.NotificationStatusCancelled,
		models.NotificationStatusPending, models.NotificationStatusSent,
		models.NotificationStatusRead, models.NotificationStatusSnoozed)
}

// Snooze pushes a notification out of the due set until now+d. A zero or
// negative duration means the configured default; anything above the cap
// is clamped, not rejected.
func (s *NotificationSvc) Snooze(ctx context.Context, id string, d time.Duration) error {
	if d <= 0 {
		d = s.snooze
	}
	if d > s.maxSnooze {
		d = s.maxSnooze
	}

	n, err := s.store.GetNotification(ctx, id)
	if err != nil {
		return err
	}
	if !openStatus(n.Status) {
		return &StateError{Entity: "notification", ID: id, From: n.Status, To: models.NotificationStatusSnoozed}
	}

	until := s.clock.Now().Add(d)
	n.Status = models.NotificationStatusSnoozed
	n.SnoozedUntil = &until
	return s.store.UpdateNotification(ctx, n)
}

// openStatus reports whether the notification still awaits resolution.
func openStatus(status string) bool {
	switch status {
	case models.NotificationStatusPending, models.NotificationStatusSent,
		models.NotificationStatusRead, models.NotificationStatusSnoozed:
		return true
	}
	return false
}

func (s *NotificationSvc) transition(ctx context.Context, id, to string, from ...string) error {
	n, err := s.store.GetNotification(ctx, id)
	if err != nil {
		return err
	}

	allowed := false
	for _, f := range from {
		if n.Status == f {
			allowed = true
			break
		}
	}
	if !allowed {
		return &StateError{Entity: "notification", ID: id, From: n.Status, To: to}
	}

	n.Status = to
	n.SnoozedUntil = nil
	switch to {
	case models.NotificationStatusCompleted, models.NotificationStatusArchived, models.NotificationStatusCancelled:
		n.IsActive = false
	}
	return s.store.UpdateNotification(ctx, n)
}

func (s *NotificationSvc) build(tpl notificationTemplate, r *models.Reservation, scheduledAt time.Time) *models.Notification {
	recipient := r.ID
	if tpl.staff {
		recipient = models.RecipientStaff
	}

	return &models.Notification{
		ID:            uuid.NewString(),
		Type:          tpl.typ,
		Priority:      tpl.priority,
		Title:         s.expand(tpl.title, r),
		Message:       s.expand(tpl.message, r),
		ReservationID: r.ID,
		RecipientID:   recipient,
		ScheduledAt:   scheduledAt,
		Status:        models.NotificationStatusPending,
		IsActive:      true,
		Metadata: map[string]string{
			"cabin": r.CabinID,
			"guest": r.GuestName,
		},
	}
}

func (s *NotificationSvc) scheduleFor(tpl notificationTemplate, r *models.Reservation) time.Time {
	day := r.CheckIn
	hour, min := s.checkInHour, s.checkInMin
	if tpl.anchor == anchorCheckOut {
		day = r.CheckOut
		hour, min = s.checkOutHour, s.checkOutMin
	}

	anchor := time.Date(day.Year(), day.Month(), day.Day(), hour, min, 0, 0, day.Location())
	return anchor.Add(tpl.offset)
}

func (s *NotificationSvc) expand(text string, r *models.Reservation) string {
	replacer := strings.NewReplacer(
		"{{guest}}", r.GuestName,
		"{{cabin}}", s.cabinName(r.CabinID),
		"{{checkin}}", datemath.FormatDate(r.CheckIn),
		"{{checkout}}", datemath.FormatDate(r.CheckOut),
		"{{balance}}", strconv.FormatInt(r.RemainingBalance(), 10),
	)
	return replacer.Replace(text)
}

func (s *NotificationSvc) cabinName(id string) string {
	for _, cabin := range s.cabins {
		if cabin.ID == id {
			return cabin.Name
		}
	}
	return id
}
