package resource

import (
	"context"
	"time"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// DefaultMaxConcurrentDownloads bounds concurrent remote-object cache downloads.
const DefaultMaxConcurrentDownloads = 4

// Config holds remote resource limits.
type Config struct {
	// ReconnectsPerSecond limits how often remote handles may re-open their
	// underlying stream. If 0, reconnects are unlimited.
	ReconnectsPerSecond float64

	// ReconnectBurst is the number of reconnects allowed at once.
	// Defaults to 1 when a rate is set.
	ReconnectBurst int

	// MaxConcurrentDownloads is the maximum number of concurrent cache downloads.
	// If <= 0, defaults to DefaultMaxConcurrentDownloads.
	MaxConcurrentDownloads int64
}

// Controller governs remote connections shared by all handles of a resolver.
type Controller struct {
	cfg Config

	reconnects *rate.Limiter // nil if unlimited
	downloads  *semaphore.Weighted
}

// NewController creates a new resource controller.
func NewController(cfg Config) *Controller {
	if cfg.MaxConcurrentDownloads <= 0 {
		cfg.MaxConcurrentDownloads = DefaultMaxConcurrentDownloads
	}

	c := &Controller{
		cfg:       cfg,
		downloads: semaphore.NewWeighted(cfg.MaxConcurrentDownloads),
	}

	if cfg.ReconnectsPerSecond > 0 {
		burst := cfg.ReconnectBurst
		if burst <= 0 {
			burst = 1
		}
		c.reconnects = rate.NewLimiter(rate.Limit(cfg.ReconnectsPerSecond), burst)
	}

	return c
}

// Config returns the effective configuration.
func (c *Controller) Config() Config {
	if c == nil {
		return Config{}
	}
	return c.cfg
}

// AcquireReconnect waits until the reconnect rate allows another stream re-open.
func (c *Controller) AcquireReconnect(ctx context.Context) error {
	if c == nil || c.reconnects == nil {
		return nil
	}
	return c.reconnects.Wait(ctx)
}

// TryAcquireReconnect reports whether a reconnect is allowed right now.
func (c *Controller) TryAcquireReconnect() bool {
	if c == nil || c.reconnects == nil {
		return true
	}
	return c.reconnects.AllowN(time.Now(), 1)
}

// AcquireDownload reserves a download slot. Blocks while all slots are busy.
func (c *Controller) AcquireDownload(ctx context.Context) error {
	if c == nil {
		return nil
	}
	return c.downloads.Acquire(ctx, 1)
}

// TryAcquireDownload attempts to reserve a download slot without blocking.
func (c *Controller) TryAcquireDownload() bool {
	if c == nil {
		return true
	}
	return c.downloads.TryAcquire(1)
}

// ReleaseDownload releases a download slot.
func (c *Controller) ReleaseDownload() {
	if c == nil {
		return
	}
	c.downloads.Release(1)
}
