package objstore

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"
)

var downloads singleflight.Group

// CachePath returns the local path of uri inside cacheRoot without touching
// the filesystem.
func CachePath(uri, cacheRoot string) (string, error) {
	if cacheRoot == "" {
		return "", ErrCacheRootNotSet
	}
	ref, err := ParseRef(uri)
	if err != nil {
		return "", err
	}
	if ref.Key == "" {
		return "", fmt.Errorf("%w: %s", ErrNoObjectKey, ref)
	}
	return cachePath(ref, cacheRoot)
}

func cachePath(ref Ref, cacheRoot string) (string, error) {
	root := filepath.Clean(cacheRoot)
	p := filepath.Join(root, filepath.FromSlash(ref.CacheKey()))
	rel, err := filepath.Rel(root, p)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrUnsafeCacheKey, ref.CacheKey())
	}
	return p, nil
}

// CacheObject downloads the object named by uri into cacheRoot unless a copy
// already exists, and returns the local path. Concurrent calls for the same
// object share one download.
func CacheObject(ctx context.Context, uri, cacheRoot string, opts ...Option) (string, error) {
	if cacheRoot == "" {
		return "", ErrCacheRootNotSet
	}
	ref, err := ParseRef(uri)
	if err != nil {
		return "", err
	}
	if ref.Key == "" {
		return "", fmt.Errorf("%w: %s", ErrNoObjectKey, ref)
	}
	dest, err := cachePath(ref, cacheRoot)
	if err != nil {
		return "", err
	}

	o := applyOptions(opts)
	logger := o.logger.With("ref", ref.String(), "path", dest)

	if _, err := o.fsys.Stat(dest); err == nil {
		logger.Debug("found existing cache")
		return dest, nil
	}

	_, err, shared := downloads.Do(dest, func() (any, error) {
		return nil, download(ctx, ref, dest, o)
	})
	if err != nil {
		return "", err
	}
	logger.Debug("cached object", "shared", shared)
	return dest, nil
}

func download(ctx context.Context, ref Ref, dest string, o options) (err error) {
	if _, err := o.fsys.Stat(dest); err == nil {
		return nil
	}
	if o.factory == nil {
		return ErrNoClientFactory
	}

	if err := o.controller.AcquireDownload(ctx); err != nil {
		return err
	}
	defer o.controller.ReleaseDownload()

	start := time.Now()
	var size int64
	if o.onDownload != nil {
		defer func() { o.onDownload(size, time.Since(start), err) }()
	}

	client, err := o.factory(ctx, ref)
	if err != nil {
		return fmt.Errorf("download %s: %w", ref, err)
	}
	info, err := client.StatObject(ctx, ref.Bucket, ref.Key)
	if err != nil {
		return fmt.Errorf("download %s: %w", ref, err)
	}
	if err := o.fsys.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}

	tmp := dest + "." + strconv.FormatInt(time.Now().UnixNano(), 36) + ".part"
	o.logger.Debug("caching object", "ref", ref.String(), "path", dest)
	if err := client.FGetObject(ctx, ref.Bucket, ref.Key, tmp); err != nil {
		_ = o.fsys.Remove(tmp)
		return fmt.Errorf("download %s: %w", ref, err)
	}
	if err := o.fsys.Rename(tmp, dest); err != nil {
		_ = o.fsys.Remove(tmp)
		return err
	}
	size = info.Size
	return nil
}
