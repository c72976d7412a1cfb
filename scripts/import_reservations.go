package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/fiignacio/manuara-reservas-app-sub000/internal/database"
	"github.com/fiignacio/manuara-reservas-app-sub000/internal/datemath"
	"github.com/fiignacio/manuara-reservas-app-sub000/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// Bulk-imports reservations exported from the previous booking system.
// Rows go straight through the storage layer so historical stays (past
// check-ins, settled ledgers) load as-is; the insert's own overlap guard
// still rejects double-booked ranges.

type importFile struct {
	Reservations []importEntry `yaml:"reservations"`
}

type importEntry struct {
	ID             string          `yaml:"id"`
	CabinID        string          `yaml:"cabin_id"`
	GuestName      string          `yaml:"guest_name"`
	ContactEmail   string          `yaml:"contact_email"`
	ContactPhone   string          `yaml:"contact_phone"`
	CheckIn        string          `yaml:"check_in"`
	CheckOut       string          `yaml:"check_out"`
	Adults         int             `yaml:"adults"`
	Children       int             `yaml:"children"`
	Babies         int             `yaml:"babies"`
	Season         string          `yaml:"season"`
	TotalPrice     int64           `yaml:"total_price"`
	CheckInStatus  string          `yaml:"check_in_status"`
	CheckOutStatus string          `yaml:"check_out_status"`
	Notes          string          `yaml:"notes"`
	Payments       []importPayment `yaml:"payments"`
}

type importPayment struct {
	Amount int64  `yaml:"amount"`
	Date   string `yaml:"date"`
	Method string `yaml:"method"`
	Note   string `yaml:"note"`
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	var (
		filePath = flag.String("file", "configs/reservations.yaml", "path to the reservations export")
		dbPath   = flag.String("db", "./data/reservas.db", "path to sqlite db")
	)
	flag.Parse()

	data, err := os.ReadFile(*filePath)
	if err != nil {
		return fmt.Errorf("read export: %w", err)
	}
	var file importFile
	if err = yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parse export: %w", err)
	}
	if len(file.Reservations) == 0 {
		return fmt.Errorf("no reservations in %s", *filePath)
	}

	db, err := database.New(*dbPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	created := 0
	updated := 0
	skipped := 0
	for _, entry := range file.Reservations {
		if entry.GuestName == "" || entry.CabinID == "" {
			skipped++
			continue
		}

		r, buildErr := buildReservation(entry)
		if buildErr != nil {
			logger.Warn().Err(buildErr).Str("guest", entry.GuestName).Msg("Skipping malformed row")
			skipped++
			continue
		}

		if _, getErr := db.GetReservation(ctx, r.ID); getErr == nil {
			if err = db.UpdateReservation(ctx, r); err != nil {
				return fmt.Errorf("update %s: %w", r.ID, err)
			}
			updated++
			continue
		} else if !errors.Is(getErr, database.ErrNotFound) {
			return fmt.Errorf("get %s: %w", r.ID, getErr)
		}

		if err = db.CreateReservation(ctx, r); err != nil {
			if errors.Is(err, database.ErrCabinUnavailable) {
				logger.Warn().
					Str("cabin_id", r.CabinID).
					Str("guest", r.GuestName).
					Str("range", datemath.FormatRange(r.CheckIn, r.CheckOut)).
					Msg("Skipping double-booked row")
				skipped++
				continue
			}
			return fmt.Errorf("create %s: %w", r.ID, err)
		}
		created++

		for _, p := range entry.Payments {
			payment, payErr := buildPayment(p)
			if payErr != nil {
				logger.Warn().Err(payErr).Str("reservation_id", r.ID).Msg("Skipping malformed payment")
				continue
			}
			if err = db.AddPayment(ctx, r.ID, payment); err != nil {
				return fmt.Errorf("payment for %s: %w", r.ID, err)
			}
		}
	}

	fmt.Printf("done: created=%d updated=%d skipped=%d\n", created, updated, skipped)
	return nil
}

func buildReservation(entry importEntry) (*models.Reservation, error) {
	checkIn, err := datemath.ParseDate(entry.CheckIn)
	if err != nil {
		return nil, fmt.Errorf("check_in: %w", err)
	}
	checkOut, err := datemath.ParseDate(entry.CheckOut)
	if err != nil {
		return nil, fmt.Errorf("check_out: %w", err)
	}
	if !datemath.AfterDay(checkOut, checkIn) {
		return nil, fmt.Errorf("check_out %s not after check_in %s", entry.CheckOut, entry.CheckIn)
	}

	r := &models.Reservation{
		ID:             entry.ID,
		CabinID:        entry.CabinID,
		GuestName:      entry.GuestName,
		ContactEmail:   entry.ContactEmail,
		ContactPhone:   entry.ContactPhone,
		CheckIn:        checkIn,
		CheckOut:       checkOut,
		Adults:         entry.Adults,
		Children:       entry.Children,
		Babies:         entry.Babies,
		Season:         entry.Season,
		TotalPrice:     entry.TotalPrice,
		CheckInStatus:  entry.CheckInStatus,
		CheckOutStatus: entry.CheckOutStatus,
		Notes:          entry.Notes,
	}
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.Season == "" {
		r.Season = models.SeasonLow
	}
	if r.CheckInStatus == "" {
		r.CheckInStatus = models.CheckInStatusPending
	}
	if r.CheckOutStatus == "" {
		r.CheckOutStatus = models.CheckOutStatusPending
	}
	return r, nil
}

func buildPayment(p importPayment) (*models.Payment, error) {
	if p.Amount <= 0 {
		return nil, fmt.Errorf("non-positive amount %d", p.Amount)
	}
	date, err := datemath.ParseDate(p.Date)
	if err != nil {
		return nil, fmt.Errorf("date: %w", err)
	}
	method := p.Method
	if method == "" {
		method = models.PaymentMethodOther
	}
	return &models.Payment{
		ID:         uuid.NewString(),
		Amount:     p.Amount,
		Date:       date,
		Method:     method,
		Note:       p.Note,
		RecordedAt: time.Now(),
	}, nil
}
