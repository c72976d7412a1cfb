package service

import (
	"context"
	"fmt"

	"github.com/fiignacio/manuara-reservas-app-sub000/internal/datemath"
	"github.com/fiignacio/manuara-reservas-app-sub000/internal/domain"
	"github.com/fiignacio/manuara-reservas-app-sub000/internal/models"

	"github.com/rs/zerolog"
)

// DashboardService aggregates the occupancy board the staff sees. Reads go
// through the cache; a cold or failing cache falls back to recomputing
// from the store.
type DashboardService struct {
	store  domain.Repository
	cache  domain.DashboardCache
	cabins []models.Cabin
	clock  domain.Clock
	logger *zerolog.Logger
}

func NewDashboardService(store domain.Repository, cache domain.DashboardCache, cabins []models.Cabin, clock domain.Clock, logger *zerolog.Logger) *DashboardService {
	if clock == nil {
		clock = domain.SystemClock{}
	}
	return &DashboardService{
		store:  store,
		cache:  cache,
		cabins: cabins,
		clock:  clock,
		logger: logger,
	}
}

// Snapshot returns the current dashboard aggregate, serving from cache
// when possible. Cache errors are logged and absorbed: the dashboard must
// keep rendering while Redis is down.
func (s *DashboardService) Snapshot(ctx context.Context) (*models.DashboardSnapshot, error) {
	if s.cache != nil {
		snapshot, err := s.cache.Get(ctx)
		if err != nil {
			s.logger.Warn().Err(err).Msg("Dashboard cache read failed, recomputing")
		} else if snapshot != nil {
			return snapshot, nil
		}
	}

	snapshot, err := s.build(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, snapshot); err != nil {
			s.logger.Warn().Err(err).Msg("Failed to cache dashboard snapshot")
		}
	}
	return snapshot, nil
}

func (s *DashboardService) build(ctx context.Context) (*models.DashboardSnapshot, error) {
	now := s.clock.Now()
	today := datemath.AtNoon(now)

	reservations, err := s.store.ListReservations(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to build dashboard snapshot: %w", err)
	}

	snapshot := &models.DashboardSnapshot{
		GeneratedAt:       now,
		TotalReservations: len(reservations),
		StatusCounts:      make(map[string]int),
		Occupancy:         make(map[string]bool, len(s.cabins)),
	}

	for _, r := range reservations {
		snapshot.StatusCounts[r.StatusAt(now)]++
		if r.CheckInStatus == models.CheckInStatusNoShow {
			continue
		}
		if datemath.SameDay(r.CheckIn, today) {
			snapshot.ArrivalsToday++
		}
		if datemath.SameDay(r.CheckOut, today) {
			snapshot.DeparturesToday++
		}
		snapshot.OutstandingBalance += r.RemainingBalance()
	}

	for _, cabin := range s.cabins {
		snapshot.Occupancy[cabin.ID] = false
	}
	// A cabin counts as occupied on its check-in day but not on its
	// check-out day, matching the half-open stay interval.
	covering, err := s.store.ListReservationsInRange(ctx, today, today)
	if err != nil {
		return nil, fmt.Errorf("failed to build dashboard snapshot: %w", err)
	}
	for _, r := range covering {
		if r.CheckInStatus == models.CheckInStatusNoShow {
			continue
		}
		if datemath.BeforeDay(today, r.CheckOut) {
			snapshot.Occupancy[r.CabinID] = true
		}
	}

	due, err := s.store.ListDueNotifications(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("failed to build dashboard snapshot: %w", err)
	}
	snapshot.PendingNotifications = len(due)

	return snapshot, nil
}
