package fxrate

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// Snapshot is the cached rate and where it came from.
type Snapshot struct {
	Rate      decimal.Decimal `json:"rate"`
	UpdatedAt time.Time       `json:"updated_at"`
	Fallback  bool            `json:"fallback"`
}

// Cache holds the latest rate. It starts on the configured fallback, is
// filled by Init and kept fresh by Run; readers never block on the source.
type Cache struct {
	source   Source
	interval time.Duration
	retries  int
	backoff  time.Duration

	mu   sync.RWMutex
	snap Snapshot
}

// NewCache creates a cache that serves fallback until the first successful fetch.
func NewCache(source Source, fallback decimal.Decimal, interval time.Duration, retries int) *Cache {
	if retries < 1 {
		retries = 1
	}
	if interval <= 0 {
		interval = time.Hour
	}
	return &Cache{
		source:   source,
		interval: interval,
		retries:  retries,
		backoff:  500 * time.Millisecond,
		snap:     Snapshot{Rate: fallback, UpdatedAt: time.Now().UTC(), Fallback: true},
	}
}

// Rate returns the cached rate.
func (c *Cache) Rate() decimal.Decimal {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snap.Rate
}

func (c *Cache) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snap
}

// Init performs the startup fetch. On failure the fallback rate stays in place.
func (c *Cache) Init(ctx context.Context) error {
	return c.Refresh(ctx)
}

// Refresh fetches a new rate, retrying a bounded number of times.
func (c *Cache) Refresh(ctx context.Context) error {
	var lastErr error
	for attempt := 1; attempt <= c.retries; attempt++ {
		rate, err := c.source.FetchRate(ctx)
		if err == nil {
			c.mu.Lock()
			c.snap = Snapshot{Rate: rate, UpdatedAt: time.Now().UTC()}
			c.mu.Unlock()
			return nil
		}
		lastErr = err

		if attempt == c.retries {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(c.backoff * time.Duration(attempt)):
		}
	}
	return fmt.Errorf("fxrate: refresh failed after %d attempts: %w", c.retries, lastErr)
}

// Run refreshes on every tick until ctx is cancelled. Failures keep the previous rate.
func (c *Cache) Run(ctx context.Context) error {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := c.Refresh(ctx); err != nil && ctx.Err() == nil {
				log.Printf("FX rate refresh failed, keeping %s: %v", c.Rate(), err)
			}
		}
	}
}
