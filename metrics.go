package locio

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
//
// Example Prometheus integration:
//
//	type PrometheusCollector struct {
//	    openCounter    *prometheus.CounterVec
//	    reconnectCount *prometheus.CounterVec
//	}
//
//	func (p *PrometheusCollector) RecordOpen(backend string, duration time.Duration, err error) {
//	    p.openCounter.WithLabelValues(backend).Inc()
//	    // ... record error state, duration, etc.
//	}
type MetricsCollector interface {
	// RecordOpen is called after each handle open.
	// backend names the handle type (file, http, objstore, gzip, ...).
	RecordOpen(backend string, duration time.Duration, err error)

	// RecordReconnect is called each time a remote stream is re-opened.
	RecordReconnect(backend string, offset int64)

	// RecordListing is called after each directory listing.
	// cached is true if the result was served from the listing cache.
	RecordListing(cached bool, duration time.Duration)

	// RecordDownload is called after each remote object cache download.
	RecordDownload(bytes int64, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordOpen(string, time.Duration, error)    {}
func (NoopMetricsCollector) RecordReconnect(string, int64)              {}
func (NoopMetricsCollector) RecordListing(bool, time.Duration)          {}
func (NoopMetricsCollector) RecordDownload(int64, time.Duration, error) {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	OpenCount         atomic.Int64
	OpenErrors        atomic.Int64
	OpenTotalNanos    atomic.Int64
	ReconnectCount    atomic.Int64
	ListingCount      atomic.Int64
	ListingCacheHits  atomic.Int64
	ListingTotalNanos atomic.Int64
	DownloadCount     atomic.Int64
	DownloadErrors    atomic.Int64
	DownloadBytes     atomic.Int64
}

// RecordOpen implements MetricsCollector.
func (b *BasicMetricsCollector) RecordOpen(_ string, duration time.Duration, err error) {
	b.OpenCount.Add(1)
	b.OpenTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.OpenErrors.Add(1)
	}
}

// RecordReconnect implements MetricsCollector.
func (b *BasicMetricsCollector) RecordReconnect(string, int64) {
	b.ReconnectCount.Add(1)
}

// RecordListing implements MetricsCollector.
func (b *BasicMetricsCollector) RecordListing(cached bool, duration time.Duration) {
	b.ListingCount.Add(1)
	b.ListingTotalNanos.Add(duration.Nanoseconds())
	if cached {
		b.ListingCacheHits.Add(1)
	}
}

// RecordDownload implements MetricsCollector.
func (b *BasicMetricsCollector) RecordDownload(bytes int64, _ time.Duration, err error) {
	b.DownloadCount.Add(1)
	if err != nil {
		b.DownloadErrors.Add(1)
		return
	}
	b.DownloadBytes.Add(bytes)
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		OpenCount:        b.OpenCount.Load(),
		OpenErrors:       b.OpenErrors.Load(),
		OpenAvgNanos:     avg(b.OpenTotalNanos.Load(), b.OpenCount.Load()),
		ReconnectCount:   b.ReconnectCount.Load(),
		ListingCount:     b.ListingCount.Load(),
		ListingCacheHits: b.ListingCacheHits.Load(),
		ListingAvgNanos:  avg(b.ListingTotalNanos.Load(), b.ListingCount.Load()),
		DownloadCount:    b.DownloadCount.Load(),
		DownloadErrors:   b.DownloadErrors.Load(),
		DownloadBytes:    b.DownloadBytes.Load(),
	}
}

func avg(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	OpenCount        int64
	OpenErrors       int64
	OpenAvgNanos     int64
	ReconnectCount   int64
	ListingCount     int64
	ListingCacheHits int64
	ListingAvgNanos  int64
	DownloadCount    int64
	DownloadErrors   int64
	DownloadBytes    int64
}
