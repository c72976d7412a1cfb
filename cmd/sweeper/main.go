package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fiignacio/manuara-reservas-app-sub000/internal/config"
	"github.com/fiignacio/manuara-reservas-app-sub000/internal/database"
	"github.com/fiignacio/manuara-reservas-app-sub000/internal/domain"
	"github.com/fiignacio/manuara-reservas-app-sub000/internal/events"
	"github.com/fiignacio/manuara-reservas-app-sub000/internal/logging"
	"github.com/fiignacio/manuara-reservas-app-sub000/internal/metrics"
	"github.com/fiignacio/manuara-reservas-app-sub000/internal/models"
	"github.com/fiignacio/manuara-reservas-app-sub000/internal/repository"
	"github.com/fiignacio/manuara-reservas-app-sub000/internal/service"
	"github.com/fiignacio/manuara-reservas-app-sub000/internal/worker"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	cfg, logger, closer, loadErr := loadConfigAndLogger()
	if loadErr != nil {
		return loadErr
	}
	if closer != nil {
		defer (func() { _ = closer.Close() })()
	}

	if err := prepareDirectories(cfg, &logger); err != nil {
		return err
	}

	db, err := database.New(cfg.Database.Path)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to open reservation store")
		return err
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cache := initDashboardCache(ctx, cfg, &logger)
	defer func() { _ = cache.Close() }()

	eventBus := events.NewEventBus()
	subscribeReservationEvents(eventBus, &logger)

	metrics.Register()
	if cfg.Monitoring.PrometheusEnabled {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		metricsServer := &http.Server{Addr: fmt.Sprintf(":%d", cfg.Monitoring.PrometheusPort), Handler: mux}
		go func() {
			logger.Info().Str("addr", metricsServer.Addr).Msg("Prometheus exposition listening")
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error().Err(err).Msg("Metrics server error")
			}
		}()
		defer func() {
			_ = metricsServer.Shutdown(context.Background())
		}()
	}

	pricing := service.NewPricingCalculator(cfg)
	notifier := service.NewNotificationService(db, cfg, nil, &logger)
	reservations := service.NewReservationService(db, cache, eventBus, notifier, pricing, nil, &logger)
	dashboard := service.NewDashboardService(db, cache, cfg.Cabins, nil, &logger)

	if cfg.Backup.Enabled {
		backupService := database.NewBackupService(cfg.Database.Path, cfg.Backup, &logger)
		go backupService.Start(ctx)
	}

	go warmDashboard(ctx, dashboard, &logger)

	retryPolicy := worker.RetryPolicy{MaxRetries: 5, InitialDelay: 30 * time.Second, MaxDelay: 15 * time.Minute, BackoffFactor: 2}
	sweeper := worker.NewSweeper(cfg.Sweep, reservations, notifier, worker.NewLogSender(&logger), retryPolicy, nil, &logger)

	logger.Info().Str("version", cfg.App.Version).Str("environment", cfg.App.Environment).Msg("Reservation engine started")
	sweeper.Start(ctx)

	logger.Info().Msg("Shutdown complete.")
	return nil
}

func loadConfigAndLogger() (*config.Config, zerolog.Logger, io.Closer, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, zerolog.Logger{}, nil, err
	}

	baseLogger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return nil, zerolog.Logger{}, nil, fmt.Errorf("init logger: %w", err)
	}
	logger := baseLogger.With().Str("component", "sweeper-main").Logger()

	return cfg, logger, closer, nil
}

func prepareDirectories(cfg *config.Config, logger *zerolog.Logger) error {
	if cfg == nil {
		return os.ErrInvalid
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		logger.Error().Err(err).Msg("Failed to create database directory")
		return err
	}
	if cfg.Backup.Enabled {
		if err := os.MkdirAll(cfg.Backup.StoragePath, 0o755); err != nil {
			logger.Error().Err(err).Msg("Failed to create backup directory")
			return err
		}
	}
	return nil
}

func initDashboardCache(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) domain.DashboardCache {
	ttl := time.Duration(models.DashboardCacheTTL) * time.Second
	if !cfg.Redis.Enabled {
		return repository.NewMemoryCache(ttl)
	}

	client := repository.NewRedisClient(cfg.Redis)
	if err := repository.Ping(ctx, client); err != nil {
		logger.Warn().Err(err).Msg("Redis unavailable, dashboard cache starts on the in-memory fallback")
	}

	primary := repository.NewRedisCache(client, ttl)
	return repository.NewFailoverCache(primary, repository.NewMemoryCache(ttl), logger)
}

// warmDashboard keeps the aggregate snapshot fresh so readers never pay the
// recompute cost. Snapshot() reads through the cache and rebuilds on expiry.
func warmDashboard(ctx context.Context, dashboard *service.DashboardService, logger *zerolog.Logger) {
	ticker := time.NewTicker(time.Duration(models.DashboardCacheTTL) * time.Second)
	defer ticker.Stop()

	for {
		if _, err := dashboard.Snapshot(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error().Err(err).Msg("Dashboard snapshot refresh failed")
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func subscribeReservationEvents(bus *events.EventBus, logger *zerolog.Logger) {
	if bus == nil {
		return
	}

	reservationHandler := func(ev *events.Event) error {
		var payload events.ReservationEventPayload
		if err := json.Unmarshal(ev.Payload, &payload); err != nil {
			logger.Error().Err(err).Str("event", ev.Type).Msg("event bus: decode payload")
			return nil
		}
		logger.Info().
			Str("event", ev.Type).
			Str("reservation_id", payload.ReservationID).
			Str("cabin_id", payload.CabinID).
			Str("status", payload.Status).
			Int64("balance", payload.Balance).
			Msg("Reservation lifecycle event")
		return nil
	}

	paymentHandler := func(ev *events.Event) error {
		var payload events.PaymentEventPayload
		if err := json.Unmarshal(ev.Payload, &payload); err != nil {
			logger.Error().Err(err).Str("event", ev.Type).Msg("event bus: decode payload")
			return nil
		}
		logger.Info().
			Str("event", ev.Type).
			Str("reservation_id", payload.ReservationID).
			Str("payment_id", payload.PaymentID).
			Int64("amount", payload.Amount).
			Int64("balance", payload.Balance).
			Msg("Payment ledger event")
		return nil
	}

	bus.Subscribe(events.EventReservationCreated, reservationHandler)
	bus.Subscribe(events.EventReservationUpdated, reservationHandler)
	bus.Subscribe(events.EventReservationDeleted, reservationHandler)
	bus.Subscribe(events.EventGuestCheckedIn, reservationHandler)
	bus.Subscribe(events.EventGuestCheckedOut, reservationHandler)
	bus.Subscribe(events.EventReservationNoShow, reservationHandler)
	bus.Subscribe(events.EventPaymentRecorded, paymentHandler)
	bus.Subscribe(events.EventPaymentRemoved, paymentHandler)
}
