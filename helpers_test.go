package sapling

import (
	"context"
	"image"
	"image/color"
	"log/slog"
	"sync"
	"testing"
)

// warnings collects log records at warn level or above.
type warnings struct {
	mu      sync.Mutex
	records []slog.Record
}

func captureWarnings(t *testing.T) *warnings {
	t.Helper()
	return &warnings{}
}

func (w *warnings) logger() *slog.Logger { return slog.New(w) }

func (w *warnings) Enabled(_ context.Context, l slog.Level) bool { return l >= slog.LevelWarn }
func (w *warnings) WithAttrs([]slog.Attr) slog.Handler          { return w }
func (w *warnings) WithGroup(string) slog.Handler               { return w }

func (w *warnings) Handle(_ context.Context, r slog.Record) error {
	w.mu.Lock()
	w.records = append(w.records, r)
	w.mu.Unlock()
	return nil
}

func (w *warnings) count() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.records)
}

func (w *warnings) messages() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]string, len(w.records))
	for i, r := range w.records {
		out[i] = r.Message
	}
	return out
}

// solidImage returns a w×h opaque image.
func solidImage(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 255, A: 255})
		}
	}
	return img
}

// stubRef is a BitmapRef counting releases.
type stubRef struct {
	img      image.Image
	released *int
	panics   bool
}

func (r stubRef) Image() image.Image {
	if r.panics {
		panic("corrupt bitmap")
	}
	return r.img
}

func (r stubRef) Release() { *r.released++ }

// stubCache is a BitmapCache whose fetches block until released.
type stubCache struct {
	mu       sync.Mutex
	images   map[string]image.Image
	fetches  int
	releases int
	fail     error
	corrupt  bool
	gate     chan struct{}
	done     chan struct{}
}

func newStubCache() *stubCache {
	return &stubCache{
		images: make(map[string]image.Image),
		gate:   make(chan struct{}),
		done:   make(chan struct{}, 8),
	}
}

func (c *stubCache) IsCached(req ImageRequest) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.images[req.URI]
	return ok
}

func (c *stubCache) FromCache(req ImageRequest) (BitmapRef, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	img, ok := c.images[req.URI]
	if !ok {
		return nil, false
	}
	return stubRef{img: img, released: &c.releases, panics: c.corrupt}, true
}

func (c *stubCache) FetchDecoded(ctx context.Context, req ImageRequest) (image.Image, error) {
	c.mu.Lock()
	c.fetches++
	c.mu.Unlock()
	defer func() { c.done <- struct{}{} }()
	select {
	case <-c.gate:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	if c.fail != nil {
		return nil, c.fail
	}
	img := solidImage(200, 100)
	c.mu.Lock()
	c.images[req.URI] = img
	c.mu.Unlock()
	return img, nil
}

func (c *stubCache) fetchCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fetches
}
