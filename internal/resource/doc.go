// Package resource governs remote I/O shared by every handle a resolver opens.
//
//   - Reconnects: a token bucket (golang.org/x/time/rate) bounding how often
//     stream-backed handles may re-open their remote stream after large or
//     backward seeks. Unlimited by default.
//   - Downloads: a weighted semaphore (golang.org/x/sync/semaphore) bounding
//     concurrent object downloads into the local remote-object cache.
//
// Usage:
//
//	rc := resource.NewController(resource.Config{
//	    ReconnectsPerSecond:    20,
//	    MaxConcurrentDownloads: 2,
//	})
//
//	if err := rc.AcquireDownload(ctx); err != nil {
//	    return err
//	}
//	defer rc.ReleaseDownload()
//
// All methods handle a nil Controller gracefully: they become no-ops.
package resource
