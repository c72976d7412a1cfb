package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fiignacio/manuara-reservas-app-sub000/internal/models"
)

const reservationColumns = `id, cabin_id, guest_name, contact_email, contact_phone,
        check_in, check_out, adults, children, babies, season,
        total_price, use_custom_price, custom_price,
        check_in_status, check_out_status, actual_check_in, actual_check_out,
        check_in_note, check_out_note, notes, created_at, updated_at`

// Half-open overlap: an existing row conflicts iff its range intersects
// [check_in, check_out). No-show rows do not block dates.
const overlapQuery = `SELECT COUNT(*) FROM reservations
        WHERE cabin_id = ? AND id != ? AND check_in_status != ?
        AND check_in < ? AND check_out > ?`

type rowQuerier interface {
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

func countOverlapping(ctx context.Context, q rowQuerier, cabinID, excludeID string, checkIn, checkOut time.Time) (int, error) {
	var count int
	err := q.QueryRowContext(ctx, overlapQuery,
		cabinID, excludeID, models.CheckInStatusNoShow,
		storeDate(checkOut), storeDate(checkIn)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count overlapping reservations: %w", err)
	}
	return count, nil
}

// CreateReservation inserts a reservation and re-checks the date overlap
// inside the same transaction, so two racing requests for the same cabin
// and range cannot both land. Returns ErrCabinUnavailable when the guard
// trips.
func (db *DB) CreateReservation(ctx context.Context, r *models.Reservation) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	count, err := countOverlapping(ctx, tx, r.CabinID, r.ID, r.CheckIn, r.CheckOut)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrCabinUnavailable
	}

	query := `INSERT INTO reservations (` + reservationColumns + `)
              VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	now := time.Now()
	_, err = tx.ExecContext(ctx, query,
		r.ID,
		r.CabinID,
		r.GuestName,
		r.ContactEmail,
		r.ContactPhone,
		storeDate(r.CheckIn),
		storeDate(r.CheckOut),
		r.Adults,
		r.Children,
		r.Babies,
		r.Season,
		r.TotalPrice,
		r.UseCustomPrice,
		r.CustomPrice,
		r.CheckInStatus,
		r.CheckOutStatus,
		nullableTime(r.ActualCheckIn),
		nullableTime(r.ActualCheckOut),
		r.CheckInNote,
		r.CheckOutNote,
		r.Notes,
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to insert reservation: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit reservation: %w", err)
	}

	r.CreatedAt = now
	r.UpdatedAt = now
	if r.Payments == nil {
		r.Payments = []models.Payment{}
	}
	return nil
}

// UpdateReservation rewrites the scalar columns of a reservation. The same
// transactional overlap guard applies, since an edit can move the dates.
func (db *DB) UpdateReservation(ctx context.Context, r *models.Reservation) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	count, err := countOverlapping(ctx, tx, r.CabinID, r.ID, r.CheckIn, r.CheckOut)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrCabinUnavailable
	}

	query := `UPDATE reservations SET
                cabin_id = ?, guest_name = ?, contact_email = ?, contact_phone = ?,
                check_in = ?, check_out = ?, adults = ?, children = ?, babies = ?,
                season = ?, total_price = ?, use_custom_price = ?, custom_price = ?,
                check_in_status = ?, check_out_status = ?,
                actual_check_in = ?, actual_check_out = ?,
                check_in_note = ?, check_out_note = ?, notes = ?, updated_at = ?
              WHERE id = ?`
	now := time.Now()
	result, err := tx.ExecContext(ctx, query,
		r.CabinID,
		r.GuestName,
		r.ContactEmail,
		r.ContactPhone,
		storeDate(r.CheckIn),
		storeDate(r.CheckOut),
		r.Adults,
		r.Children,
		r.Babies,
		r.Season,
		r.TotalPrice,
		r.UseCustomPrice,
		r.CustomPrice,
		r.CheckInStatus,
		r.CheckOutStatus,
		nullableTime(r.ActualCheckIn),
		nullableTime(r.ActualCheckOut),
		r.CheckInNote,
		r.CheckOutNote,
		r.Notes,
		now,
		r.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update reservation: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("reservation %s: %w", r.ID, ErrNotFound)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit reservation update: %w", err)
	}

	r.UpdatedAt = now
	return nil
}

func (db *DB) GetReservation(ctx context.Context, id string) (*models.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = ?`
	r, err := scanReservation(db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("reservation %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get reservation: %w", err)
	}
	if err := db.attachPayments(ctx, []*models.Reservation{r}); err != nil {
		return nil, err
	}
	return r, nil
}

func (db *DB) ListReservations(ctx context.Context) ([]*models.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations ORDER BY check_in ASC, created_at ASC`
	return db.queryReservations(ctx, query)
}

// ListReservationsByCabin returns a cabin's reservations ordered by
// check-out ascending, the order the next-free-date walk expects.
func (db *DB) ListReservationsByCabin(ctx context.Context, cabinID string) ([]*models.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE cabin_id = ? ORDER BY check_out ASC`
	return db.queryReservations(ctx, query, cabinID)
}

// ListReservationsInRange returns reservations whose stay intersects the
// inclusive [start, end] calendar window.
func (db *DB) ListReservationsInRange(ctx context.Context, start, end time.Time) ([]*models.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations
              WHERE check_in <= ? AND check_out >= ? ORDER BY check_in ASC`
	return db.queryReservations(ctx, query, storeDate(end), storeDate(start))
}

func (db *DB) DeleteReservation(ctx context.Context, id string) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM payments WHERE reservation_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete payments: %w", err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM reservations WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete reservation: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("reservation %s: %w", id, ErrNotFound)
	}

	return tx.Commit()
}

func (db *DB) AddPayment(ctx context.Context, reservationID string, payment *models.Payment) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	now := time.Now()
	touched, err := tx.ExecContext(ctx, `UPDATE reservations SET updated_at = ? WHERE id = ?`, now, reservationID)
	if err != nil {
		return fmt.Errorf("failed to touch reservation: %w", err)
	}
	rows, _ := touched.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("reservation %s: %w", reservationID, ErrNotFound)
	}

	query := `INSERT INTO payments (id, reservation_id, amount, date, method, note, recorded_at)
              VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err = tx.ExecContext(ctx, query,
		payment.ID,
		reservationID,
		payment.Amount,
		storeDate(payment.Date),
		payment.Method,
		payment.Note,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to insert payment: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit payment: %w", err)
	}

	payment.RecordedAt = now
	return nil
}

func (db *DB) DeletePayment(ctx context.Context, reservationID, paymentID string) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	result, err := tx.ExecContext(ctx,
		`DELETE FROM payments WHERE id = ? AND reservation_id = ?`, paymentID, reservationID)
	if err != nil {
		return fmt.Errorf("failed to delete payment: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("payment %s: %w", paymentID, ErrNotFound)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE reservations SET updated_at = ? WHERE id = ?`, time.Now(), reservationID); err != nil {
		return fmt.Errorf("failed to touch reservation: %w", err)
	}

	return tx.Commit()
}

func (db *DB) queryReservations(ctx context.Context, query string, args ...interface{}) ([]*models.Reservation, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query reservations: %w", err)
	}
	defer rows.Close()

	var reservations []*models.Reservation
	for rows.Next() {
		r, err := scanReservation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reservation: %w", err)
		}
		reservations = append(reservations, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read reservations: %w", err)
	}

	if err := db.attachPayments(ctx, reservations); err != nil {
		return nil, err
	}
	return reservations, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanReservation(s scanner) (*models.Reservation, error) {
	r := &models.Reservation{}
	var checkIn, checkOut string
	var actualIn, actualOut sql.NullTime
	err := s.Scan(
		&r.ID, &r.CabinID, &r.GuestName, &r.ContactEmail, &r.ContactPhone,
		&checkIn, &checkOut, &r.Adults, &r.Children, &r.Babies, &r.Season,
		&r.TotalPrice, &r.UseCustomPrice, &r.CustomPrice,
		&r.CheckInStatus, &r.CheckOutStatus, &actualIn, &actualOut,
		&r.CheckInNote, &r.CheckOutNote, &r.Notes, &r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if r.CheckIn, err = normalizeDate(checkIn); err != nil {
		return nil, fmt.Errorf("reservation %s check-in: %w", r.ID, err)
	}
	if r.CheckOut, err = normalizeDate(checkOut); err != nil {
		return nil, fmt.Errorf("reservation %s check-out: %w", r.ID, err)
	}
	if actualIn.Valid {
		t := actualIn.Time
		r.ActualCheckIn = &t
	}
	if actualOut.Valid {
		t := actualOut.Time
		r.ActualCheckOut = &t
	}
	return r, nil
}

func (db *DB) attachPayments(ctx context.Context, reservations []*models.Reservation) error {
	if len(reservations) == 0 {
		return nil
	}

	index := make(map[string]*models.Reservation, len(reservations))
	placeholders := make([]string, 0, len(reservations))
	args := make([]interface{}, 0, len(reservations))
	for _, r := range reservations {
		r.Payments = []models.Payment{}
		index[r.ID] = r
		placeholders = append(placeholders, "?")
		args = append(args, r.ID)
	}

	query := fmt.Sprintf(`SELECT id, reservation_id, amount, date, method, note, recorded_at
              FROM payments WHERE reservation_id IN (%s)
              ORDER BY recorded_at ASC, id ASC`, strings.Join(placeholders, ","))
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to query payments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var p models.Payment
		var reservationID, dateStr string
		if err := rows.Scan(&p.ID, &reservationID, &p.Amount, &dateStr, &p.Method, &p.Note, &p.RecordedAt); err != nil {
			return fmt.Errorf("failed to scan payment: %w", err)
		}
		if p.Date, err = normalizeDate(dateStr); err != nil {
			return fmt.Errorf("payment %s date: %w", p.ID, err)
		}
		if r, ok := index[reservationID]; ok {
			r.Payments = append(r.Payments, p)
		}
	}
	return rows.Err()
}

func nullableTime(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return *t
}
