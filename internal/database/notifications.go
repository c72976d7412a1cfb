package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/fiignacio/manuara-reservas-app-sub000/internal/models"
)

const notificationColumns = `id, type, priority, title, message, reservation_id, recipient_id,
        scheduled_at, status, snoozed_until, resolution_note, is_active, metadata,
        created_at, updated_at`

func (db *DB) CreateNotification(ctx context.Context, n *models.Notification) error {
	metadata, err := encodeMetadata(n.Metadata)
	if err != nil {
		return err
	}

	query := `INSERT INTO notifications (` + notificationColumns + `)
              VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	now := time.Now()
	_, err = db.ExecContext(ctx, query,
		n.ID,
		n.Type,
		n.Priority,
		n.Title,
		n.Message,
		n.ReservationID,
		n.RecipientID,
		n.ScheduledAt,
		n.Status,
		nullableTime(n.SnoozedUntil),
		n.ResolutionNote,
		n.IsActive,
		metadata,
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to insert notification: %w", err)
	}

	n.CreatedAt = now
	n.UpdatedAt = now
	return nil
}

func (db *DB) GetNotification(ctx context.Context, id string) (*models.Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications WHERE id = ?`
	n, err := scanNotification(db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("notification %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get notification: %w", err)
	}
	return n, nil
}

func (db *DB) ListNotifications(ctx context.Context) ([]*models.Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications ORDER BY scheduled_at ASC`
	return db.queryNotifications(ctx, query)
}

func (db *DB) ListNotificationsByReservation(ctx context.Context, reservationID string) ([]*models.Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications
              WHERE reservation_id = ? ORDER BY scheduled_at ASC`
	return db.queryNotifications(ctx, query, reservationID)
}

// ListDueNotifications returns everything the delivery sweep should hand
// to the sender: active, scheduled instant reached, and either pending or
// snoozed with the snooze expired.
func (db *DB) ListDueNotifications(ctx context.Context, now time.Time) ([]*models.Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications
              WHERE is_active = 1 AND scheduled_at <= ?
              AND (status = ? OR (status = ? AND snoozed_until IS NOT NULL AND snoozed_until <= ?))
              ORDER BY scheduled_at ASC`
	return db.queryNotifications(ctx, query,
		now, models.NotificationStatusPending, models.NotificationStatusSnoozed, now)
}

func (db *DB) UpdateNotification(ctx context.Context, n *models.Notification) error {
	metadata, err := encodeMetadata(n.Metadata)
	if err != nil {
		return err
	}

	query := `UPDATE notifications SET
                type = ?, priority = ?, title = ?, message = ?,
                reservation_id = ?, recipient_id = ?, scheduled_at = ?,
                status = ?, snoozed_until = ?, resolution_note = ?,
                is_active = ?, metadata = ?, updated_at = ?
              WHERE id = ?`
	now := time.Now()
	result, err := db.ExecContext(ctx, query,
		n.Type,
		n.Priority,
		n.Title,
		n.Message,
		n.ReservationID,
		n.RecipientID,
		n.ScheduledAt,
		n.Status,
		nullableTime(n.SnoozedUntil),
		n.ResolutionNote,
		n.IsActive,
		metadata,
		now,
		n.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update notification: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("notification %s: %w", n.ID, ErrNotFound)
	}

	n.UpdatedAt = now
	return nil
}

// CancelPendingByReservation voids a reservation's still-undelivered
// notifications. Regeneration after a date edit calls this first so edits
// do not duplicate reminders.
func (db *DB) CancelPendingByReservation(ctx context.Context, reservationID string) (int64, error) {
	query := `UPDATE notifications SET status = ?, is_active = 0, updated_at = ?
              WHERE reservation_id = ? AND status IN (?, ?)`
	result, err := db.ExecContext(ctx, query,
		models.NotificationStatusCancelled, time.Now(), reservationID,
		models.NotificationStatusPending, models.NotificationStatusSnoozed)
	if err != nil {
		return 0, fmt.Errorf("failed to cancel pending notifications: %w", err)
	}
	rows, _ := result.RowsAffected()
	return rows, nil
}

func (db *DB) DeleteNotificationsByReservation(ctx context.Context, reservationID string) error {
	_, err := db.ExecContext(ctx, `DELETE FROM notifications WHERE reservation_id = ?`, reservationID)
	if err != nil {
		return fmt.Errorf("failed to delete notifications: %w", err)
	}
	return nil
}

func (db *DB) queryNotifications(ctx context.Context, query string, args ...interface{}) ([]*models.Notification, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query notifications: %w", err)
	}
	defer rows.Close()

	var notifications []*models.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

func scanNotification(s scanner) (*models.Notification, error) {
	n := &models.Notification{}
	var snoozedUntil sql.NullTime
	var metadata string
	err := s.Scan(
		&n.ID, &n.Type, &n.Priority, &n.Title, &n.Message,
		&n.ReservationID, &n.RecipientID, &n.ScheduledAt,
		&n.Status, &snoozedUntil, &n.ResolutionNote, &n.IsActive,
		&metadata, &n.CreatedAt, &n.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if snoozedUntil.Valid {
		t := snoozedUntil.Time
		n.SnoozedUntil = &t
	}
	if metadata != "" {
		if err := json.Unmarshal([]byte(metadata), &n.Metadata); err != nil {
			return nil, fmt.Errorf("notification %s metadata: %w", n.ID, err)
		}
	}
	return n, nil
}

func encodeMetadata(metadata map[string]string) (string, error) {
	if len(metadata) == 0 {
		return "", nil
	}
	raw, err := json.Marshal(metadata)
	if err != nil {
		return "", fmt.Errorf("failed to encode metadata: %w", err)
	}
	return string(raw), nil
}
