package repository

import (
	"context"
	"sync"
	"time"

	"github.com/fiignacio/manuara-reservas-app-sub000/internal/models"
)

// MemoryCache keeps the dashboard snapshot in process memory. It backs
// deployments that run without Redis and doubles as the failover target.
type MemoryCache struct {
	mu        sync.RWMutex
	snapshot  *models.DashboardSnapshot
	expiresAt time.Time
	ttl       time.Duration
}

func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{ttl: ttl}
}

func (c *MemoryCache) Get(ctx context.Context) (*models.DashboardSnapshot, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.snapshot == nil || time.Now().After(c.expiresAt) {
		return nil, nil
	}
	return c.snapshot, nil
}

func (c *MemoryCache) Set(ctx context.Context, snapshot *models.DashboardSnapshot) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snapshot = snapshot
	c.expiresAt = time.Now().Add(c.ttl)
	return nil
}

func (c *MemoryCache) Invalidate(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snapshot = nil
	return nil
}

func (c *MemoryCache) Close() error {
	return nil
}
