package objstore

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"
)

// MemoryClient is an in-memory Client implementation for testing and
// embedding. It is safe for concurrent use.
type MemoryClient struct {
	mu      sync.RWMutex
	buckets map[string]map[string]memoryObject
	err     error

	gets      atomic.Int64
	stats     atomic.Int64
	downloads atomic.Int64
}

type memoryObject struct {
	data    []byte
	modTime time.Time
}

// NewMemoryClient creates an empty in-memory store.
func NewMemoryClient() *MemoryClient {
	return &MemoryClient{buckets: make(map[string]map[string]memoryObject)}
}

// Factory returns a ClientFactory that always yields c.
func (c *MemoryClient) Factory() ClientFactory {
	return func(context.Context, Ref) (Client, error) { return c, nil }
}

// MakeBucket creates bucket if it does not exist.
func (c *MemoryClient) MakeBucket(bucket string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.buckets[bucket]; !ok {
		c.buckets[bucket] = make(map[string]memoryObject)
	}
}

// PutObject stores a copy of data, creating the bucket if necessary.
func (c *MemoryClient) PutObject(bucket, key string, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.buckets[bucket]
	if !ok {
		b = make(map[string]memoryObject)
		c.buckets[bucket] = b
	}
	b[key] = memoryObject{data: bytes.Clone(data), modTime: time.Now().UTC()}
}

// RemoveObject deletes an object.
func (c *MemoryClient) RemoveObject(bucket, key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.buckets[bucket], key)
}

// SetError makes every subsequent call fail with err. Pass nil to recover.
func (c *MemoryClient) SetError(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.err = err
}

// GetObjectCalls returns how many times GetObject was called.
func (c *MemoryClient) GetObjectCalls() int64 { return c.gets.Load() }

// StatObjectCalls returns how many times StatObject was called.
func (c *MemoryClient) StatObjectCalls() int64 { return c.stats.Load() }

// FGetObjectCalls returns how many times FGetObject was called.
func (c *MemoryClient) FGetObjectCalls() int64 { return c.downloads.Load() }

func (c *MemoryClient) object(bucket, key string) (memoryObject, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.err != nil {
		return memoryObject{}, c.err
	}
	b, ok := c.buckets[bucket]
	if !ok {
		return memoryObject{}, fmt.Errorf("bucket %s: %w", bucket, ErrNotFound)
	}
	obj, ok := b[key]
	if !ok {
		return memoryObject{}, fmt.Errorf("object %s/%s: %w", bucket, key, ErrNotFound)
	}
	return obj, nil
}

func (c *MemoryClient) BucketExists(_ context.Context, bucket string) (bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.err != nil {
		return false, c.err
	}
	_, ok := c.buckets[bucket]
	return ok, nil
}

func (c *MemoryClient) StatObject(_ context.Context, bucket, key string) (ObjectInfo, error) {
	c.stats.Add(1)
	obj, err := c.object(bucket, key)
	if err != nil {
		return ObjectInfo{}, err
	}
	return ObjectInfo{Size: int64(len(obj.data)), LastModified: obj.modTime}, nil
}

func (c *MemoryClient) GetObject(_ context.Context, bucket, key string, offset int64) (io.ReadCloser, error) {
	c.gets.Add(1)
	obj, err := c.object(bucket, key)
	if err != nil {
		return nil, err
	}
	offset = min(max(offset, 0), int64(len(obj.data)))
	return io.NopCloser(bytes.NewReader(obj.data[offset:])), nil
}

func (c *MemoryClient) FGetObject(_ context.Context, bucket, key, filePath string) error {
	c.downloads.Add(1)
	obj, err := c.object(bucket, key)
	if err != nil {
		return err
	}
	return os.WriteFile(filePath, obj.data, 0o644)
}
