package resource

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestController_Downloads(t *testing.T) {
	c := NewController(Config{MaxConcurrentDownloads: 2})

	require.NoError(t, c.AcquireDownload(t.Context()))
	require.NoError(t, c.AcquireDownload(t.Context()))

	assert.False(t, c.TryAcquireDownload())

	c.ReleaseDownload()
	assert.True(t, c.TryAcquireDownload())
}

func TestController_DownloadWaitHonoursContext(t *testing.T) {
	c := NewController(Config{MaxConcurrentDownloads: 1})
	require.NoError(t, c.AcquireDownload(t.Context()))

	ctx, cancel := context.WithTimeout(t.Context(), 10*time.Millisecond)
	defer cancel()

	err := c.AcquireDownload(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestController_DefaultDownloads(t *testing.T) {
	c := NewController(Config{})
	assert.Equal(t, int64(DefaultMaxConcurrentDownloads), c.Config().MaxConcurrentDownloads)
}

func TestController_Reconnects(t *testing.T) {
	c := NewController(Config{ReconnectsPerSecond: 0.001, ReconnectBurst: 2})

	assert.True(t, c.TryAcquireReconnect())
	assert.True(t, c.TryAcquireReconnect())
	assert.False(t, c.TryAcquireReconnect())

	ctx, cancel := context.WithTimeout(t.Context(), 10*time.Millisecond)
	defer cancel()
	assert.Error(t, c.AcquireReconnect(ctx))
}

func TestController_UnlimitedReconnects(t *testing.T) {
	c := NewController(Config{})
	for range 100 {
		assert.True(t, c.TryAcquireReconnect())
	}
	assert.NoError(t, c.AcquireReconnect(t.Context()))
}

func TestController_Nil(t *testing.T) {
	var c *Controller
	assert.NoError(t, c.AcquireReconnect(t.Context()))
	assert.True(t, c.TryAcquireReconnect())
	assert.NoError(t, c.AcquireDownload(t.Context()))
	assert.True(t, c.TryAcquireDownload())
	c.ReleaseDownload()
	assert.Equal(t, Config{}, c.Config())
}
