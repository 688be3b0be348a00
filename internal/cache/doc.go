// Package cache provides the process-wide directory listing cache.
//
// # Listing Cache
//
// ListingCache maps a directory key (absolute path plus hidden-file filter) to
// the names it contained when it was listed. Entries older than the TTL are
// treated as absent and purged by CleanStale.
//
// Key features:
//   - 64-way sharding keyed with hash/maphash
//   - Per-shard mutex for minimal contention
//   - Lock-free enable flag and TTL, adjustable at runtime
//   - Injectable clock for tests
package cache
