package repository

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/fiignacio/manuara-reservas-app-sub000/internal/domain"
	"github.com/fiignacio/manuara-reservas-app-sub000/internal/models"

	"github.com/rs/zerolog"
)

const recoveryInterval = time.Minute

// FailoverCache serves from the primary cache until it errors, then
// switches to the fallback and probes the primary once a minute.
type FailoverCache struct {
	primary  domain.DashboardCache
	fallback domain.DashboardCache
	logger   *zerolog.Logger
	isDown   atomic.Bool
	downAt   atomic.Int64
}

func NewFailoverCache(primary, fallback domain.DashboardCache, logger *zerolog.Logger) *FailoverCache {
	return &FailoverCache{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

func (c *FailoverCache) Get(ctx context.Context) (*models.DashboardSnapshot, error) {
	if !c.isDown.Load() {
		snapshot, err := c.primary.Get(ctx)
		if err == nil {
			return snapshot, nil
		}
		c.markDown(err)
	} else if c.shouldRetry() {
		snapshot, err := c.primary.Get(ctx)
		if err == nil {
			c.isDown.Store(false)
			return snapshot, nil
		}
		c.downAt.Store(time.Now().UnixNano())
	}

	return c.fallback.Get(ctx)
}

func (c *FailoverCache) Set(ctx context.Context, snapshot *models.DashboardSnapshot) error {
	if !c.isDown.Load() {
		err := c.primary.Set(ctx, snapshot)
		if err == nil {
			return nil
		}
		c.markDown(err)
	}

	return c.fallback.Set(ctx, snapshot)
}

func (c *FailoverCache) Invalidate(ctx context.Context) error {
	// The fallback copy must go regardless of which side serves reads;
	// otherwise a later failover would revive a stale snapshot.
	_ = c.fallback.Invalidate(ctx)

	if !c.isDown.Load() {
		if err := c.primary.Invalidate(ctx); err != nil {
			c.markDown(err)
		}
	}
	return nil
}

func (c *FailoverCache) Close() error {
	_ = c.fallback.Close()
	return c.primary.Close()
}

func (c *FailoverCache) markDown(err error) {
	c.logger.Error().Err(err).Msg("Primary dashboard cache failed, falling back to memory")
	c.isDown.Store(true)
	c.downAt.Store(time.Now().UnixNano())
}

func (c *FailoverCache) shouldRetry() bool {
	return time.Since(time.Unix(0, c.downAt.Load())) > recoveryInterval
}
