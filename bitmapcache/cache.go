// Package bitmapcache is an in-memory sapling.BitmapCache. It fetches file,
// http(s) and data URIs, rejects payloads that are not images, decodes PNG,
// JPEG, GIF, BMP and WebP, and keeps decoded bitmaps until they are evicted.
//
// Concurrent fetches of the same request share one download.
package bitmapcache

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/phanxgames/sapling"
	"golang.org/x/sync/singleflight"
)

// Options configures a Cache. The zero value is usable.
type Options struct {
	// Client performs http and https fetches. Nil means a client with a
	// 30 second timeout.
	Client *http.Client

	// Root resolves relative file paths. Empty means the working directory.
	Root string

	// MaxEntries bounds the number of decoded bitmaps kept. Entries with
	// outstanding references are never evicted. Zero means 64.
	MaxEntries int

	// MaxBytes bounds a single encoded payload. Zero means 32 MiB.
	MaxBytes int64

	// Logger receives fetch and eviction records. Nil means sapling.Logger().
	Logger *slog.Logger
}

// entry is one decoded bitmap.
type entry struct {
	img     image.Image
	refs    int
	lastUse time.Time
}

// Cache implements sapling.BitmapCache. It is safe for concurrent use.
type Cache struct {
	opts Options

	mu      sync.Mutex
	entries map[sapling.ImageRequest]*entry

	group   singleflight.Group
	fetches atomic.Int64
}

var _ sapling.BitmapCache = (*Cache)(nil)

// New returns an empty cache.
func New(opts Options) *Cache {
	if opts.Client == nil {
		opts.Client = &http.Client{Timeout: 30 * time.Second}
	}
	if opts.MaxEntries <= 0 {
		opts.MaxEntries = 64
	}
	if opts.MaxBytes <= 0 {
		opts.MaxBytes = 32 << 20
	}
	return &Cache{
		opts:    opts,
		entries: make(map[sapling.ImageRequest]*entry),
	}
}

func (c *Cache) logger() *slog.Logger {
	if c.opts.Logger != nil {
		return c.opts.Logger
	}
	return sapling.Logger()
}

// IsCached implements sapling.BitmapCache.
func (c *Cache) IsCached(req sapling.ImageRequest) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[req]
	return ok
}

// FromCache implements sapling.BitmapCache. The returned reference pins the
// entry until it is released.
func (c *Cache) FromCache(req sapling.ImageRequest) (sapling.BitmapRef, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[req]
	if !ok {
		return nil, false
	}
	e.refs++
	e.lastUse = time.Now()
	return &ref{cache: c, entry: e}, true
}

// FetchDecoded implements sapling.BitmapCache. A request that is already
// cached returns without fetching.
func (c *Cache) FetchDecoded(ctx context.Context, req sapling.ImageRequest) (image.Image, error) {
	if img, ok := c.peek(req); ok {
		return img, nil
	}
	key := fmt.Sprintf("%s|%dx%d", req.URI, req.Width, req.Height)
	ch := c.group.DoChan(key, func() (any, error) {
		return c.fetch(ctx, req)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(image.Image), nil
	}
}

// Put stores img under req, replacing any previous bitmap.
func (c *Cache) Put(req sapling.ImageRequest, img image.Image) {
	c.mu.Lock()
	c.entries[req] = &entry{img: img, lastUse: time.Now()}
	c.evictLocked(&req)
	c.mu.Unlock()
}

// Len returns the number of cached bitmaps.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Fetches returns how many downloads the cache has started.
func (c *Cache) Fetches() int64 {
	return c.fetches.Load()
}

// Purge drops every entry without outstanding references.
func (c *Cache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k, e := range c.entries {
		if e.refs == 0 {
			delete(c.entries, k)
		}
	}
}

func (c *Cache) peek(req sapling.ImageRequest) (image.Image, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[req]; ok {
		return e.img, true
	}
	return nil, false
}

func (c *Cache) fetch(ctx context.Context, req sapling.ImageRequest) (image.Image, error) {
	c.fetches.Add(1)
	start := time.Now()
	data, err := c.readSource(ctx, req.URI)
	if err != nil {
		return nil, err
	}
	img, err := decode(data, req.URI)
	if err != nil {
		return nil, err
	}
	img = fit(img, req.Width, req.Height)
	c.Put(req, img)
	c.logger().Debug("bitmapcache: fetched",
		"uri", req.URI,
		"bytes", len(data),
		"size", img.Bounds().Size(),
		"elapsed", time.Since(start),
	)
	return img, nil
}

// evictLocked drops the least recently used unreferenced entries until the
// cache is within MaxEntries. The entry under keep, if any, is never chosen,
// so the cache may stay over its limit while other entries are pinned.
// c.mu must be held.
func (c *Cache) evictLocked(keep *sapling.ImageRequest) {
	for len(c.entries) > c.opts.MaxEntries {
		var oldest sapling.ImageRequest
		var found bool
		var at time.Time
		for k, e := range c.entries {
			if e.refs > 0 || (keep != nil && k == *keep) {
				continue
			}
			if !found || e.lastUse.Before(at) {
				oldest, at, found = k, e.lastUse, true
			}
		}
		if !found {
			return
		}
		delete(c.entries, oldest)
		c.logger().Debug("bitmapcache: evicted", "uri", oldest.URI)
	}
}

// ref is a pinned entry. Release is idempotent.
type ref struct {
	cache    *Cache
	entry    *entry
	released atomic.Bool
}

func (r *ref) Image() image.Image {
	return r.entry.img
}

func (r *ref) Release() {
	if !r.released.CompareAndSwap(false, true) {
		return
	}
	r.cache.mu.Lock()
	r.entry.refs--
	r.cache.evictLocked(nil)
	r.cache.mu.Unlock()
}
