package worker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fiignacio/manuara-reservas-app-sub000/internal/config"
	"github.com/fiignacio/manuara-reservas-app-sub000/internal/domain"
	"github.com/fiignacio/manuara-reservas-app-sub000/internal/metrics"
	"github.com/fiignacio/manuara-reservas-app-sub000/internal/models"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// Sweeper is the maintenance loop: it delivers due notifications, flags
// overdue arrivals as no-shows and removes long-departed reservations.
// Each pass runs the three steps in that order; a storage failure aborts
// the pass, a single delivery failure does not.
type Sweeper struct {
	reservations domain.ReservationService
	notifier     domain.NotificationService
	sender       domain.Sender
	limiter      *rate.Limiter
	retry        RetryPolicy
	interval     time.Duration
	flagNoShows  bool
	cleanExpired bool
	clock        domain.Clock
	logger       *zerolog.Logger

	// Delivery backoff state, keyed by notification id. Entries live only
	// as long as the notification stays due.
	attempts map[string]int
	nextTry  map[string]time.Time
}

func NewSweeper(
	cfg config.SweepConfig,
	reservations domain.ReservationService,
	notifier domain.NotificationService,
	sender domain.Sender,
	retry RetryPolicy,
	clock domain.Clock,
	logger *zerolog.Logger,
) *Sweeper {
	if cfg.IntervalMinutes <= 0 {
		cfg.IntervalMinutes = 15
	}
	if cfg.DeliveryRPS <= 0 {
		cfg.DeliveryRPS = 1
	}
	if cfg.DeliveryBurst <= 0 {
		cfg.DeliveryBurst = 5
	}
	if retry.MaxRetries == 0 {
		retry.MaxRetries = 5
	}
	if retry.InitialDelay == 0 {
		retry.InitialDelay = 30 * time.Second
	}
	if retry.MaxDelay == 0 {
		retry.MaxDelay = 15 * time.Minute
	}
	if retry.BackoffFactor == 0 {
		retry.BackoffFactor = 2
	}
	if clock == nil {
		clock = domain.SystemClock{}
	}

	return &Sweeper{
		reservations: reservations,
		notifier:     notifier,
		sender:       sender,
		limiter:      rate.NewLimiter(rate.Limit(cfg.DeliveryRPS), cfg.DeliveryBurst),
		retry:        retry,
		interval:     time.Duration(cfg.IntervalMinutes) * time.Minute,
		flagNoShows:  cfg.NoShowFlagging,
		cleanExpired: cfg.ExpiryCleanup,
		clock:        clock,
		logger:       logger,
		attempts:     make(map[string]int),
		nextTry:      make(map[string]time.Time),
	}
}

// Start runs a pass immediately and then on every tick until the context
// is cancelled.
func (s *Sweeper) Start(ctx context.Context) {
	s.logger.Info().
		Dur("interval", s.interval).
		Bool("no_show_flagging", s.flagNoShows).
		Bool("expiry_cleanup", s.cleanExpired).
		Msg("Maintenance sweep started")
	defer s.logger.Info().Msg("Maintenance sweep stopped")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		if err := s.RunPass(ctx); err != nil && !errors.Is(err, context.Canceled) {
			s.logger.Error().Err(err).Msg("Sweep pass aborted")
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// RunPass executes one sweep: delivery, then no-show flagging, then expiry
// cleanup.
func (s *Sweeper) RunPass(ctx context.Context) error {
	start := time.Now()
	defer func() { metrics.ObserveSweep(time.Since(start)) }()

	if err := s.deliverDue(ctx); err != nil {
		return err
	}

	if s.flagNoShows {
		flagged, err := s.reservations.FlagNoShows(ctx)
		if err != nil {
			return fmt.Errorf("failed to flag no-shows: %w", err)
		}
		if flagged > 0 {
			s.logger.Info().Int("flagged", flagged).Msg("Flagged overdue arrivals as no-shows")
		}
	}

	if s.cleanExpired {
		deleted, err := s.reservations.DeleteExpired(ctx)
		if err != nil {
			return fmt.Errorf("failed to delete expired reservations: %w", err)
		}
		if deleted > 0 {
			s.logger.Info().Int("deleted", deleted).Msg("Removed expired reservations")
		}
	}

	return nil
}

func (s *Sweeper) deliverDue(ctx context.Context) error {
	due, err := s.notifier.DueNotifications(ctx)
	if err != nil {
		return fmt.Errorf("failed to list due notifications: %w", err)
	}

	seen := make(map[string]bool, len(due))
	for _, n := range due {
		seen[n.ID] = true

		// Respect the backoff from earlier failed attempts; the item stays
		// due and comes back on a later pass.
		if at, ok := s.nextTry[n.ID]; ok && s.clock.Now().Before(at) {
			continue
		}

		if err := s.limiter.Wait(ctx); err != nil {
			return err
		}

		if err := s.deliver(ctx, n); err != nil {
			attempt := s.attempts[n.ID] + 1
			s.attempts[n.ID] = attempt
			s.nextTry[n.ID] = s.clock.Now().Add(s.retry.NextDelay(attempt))
			metrics.IncDeliveryFailure()
			s.logger.Error().Err(err).
				Str("notification_id", n.ID).
				Str("type", n.Type).
				Int("attempt", attempt).
				Msg("Notification delivery failed")
			continue
		}

		delete(s.attempts, n.ID)
		delete(s.nextTry, n.ID)
		if err := s.notifier.MarkSent(ctx, n.ID); err != nil {
			return fmt.Errorf("failed to mark notification %s sent: %w", n.ID, err)
		}
	}

	// Drop backoff state for anything no longer due (sent, snoozed or
	// cancelled since the last pass).
	for id := range s.attempts {
		if !seen[id] {
			delete(s.attempts, id)
			delete(s.nextTry, id)
		}
	}

	return nil
}

// deliver pushes a notification out on the primary channel, and on the
// secondary one too for high and urgent priorities.
func (s *Sweeper) deliver(ctx context.Context, n *models.Notification) error {
	if err := s.sender.Deliver(ctx, n, domain.ChannelPrimary); err != nil {
		return err
	}
	metrics.IncDelivered(domain.ChannelPrimary)

	if n.IsHighPriority() {
		if err := s.sender.Deliver(ctx, n, domain.ChannelSecondary); err != nil {
			return err
		}
		metrics.IncDelivered(domain.ChannelSecondary)
	}
	return nil
}
