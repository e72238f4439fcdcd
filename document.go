package sapling

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
)

// RedrawScheduler is notified when a document transitions from clean to
// needing a redraw, and when background work posts a task. Hosts use it to
// schedule a frame. RequestRedraw may be called from any goroutine.
type RedrawScheduler interface {
	RequestRedraw()
}

// RedrawFunc adapts a function to RedrawScheduler.
type RedrawFunc func()

// RequestRedraw calls f.
func (f RedrawFunc) RequestRedraw() { f() }

// LayoutListener receives the device-space bounds of drawn nodes each time
// they change by value.
type LayoutListener interface {
	ReportClientRect(id NodeID, r Rect)
}

// Config configures a Document. The zero value is usable: scale 1, font size
// DefaultFontSize, no bitmap cache, silent logging.
type Config struct {
	// Width and Height are the initial viewport size in device pixels.
	Width, Height float64

	// Scale is the device scale factor applied to absolute lengths and
	// matrix translations. Zero means 1.
	Scale float64

	// FontSize is the root font size used for em lengths. Zero means
	// DefaultFontSize.
	FontSize float64

	// Logger overrides the package logger for this document.
	Logger *slog.Logger

	// Bitmaps resolves image sources. A nil cache leaves images blank.
	Bitmaps BitmapCache

	// Redraw is called once per clean-to-dirty transition.
	Redraw RedrawScheduler

	// Layout receives client-rect updates for drawn nodes.
	Layout LayoutListener

	// Debug enables tree sanity checks and per-frame render statistics.
	Debug bool
}

// Document owns the node arena, clip-path definitions and pending main-thread
// tasks. All methods except Post must be called from the render goroutine.
type Document struct {
	slots []slot
	free  []uint32
	root  NodeID
	defs  map[string]NodeID

	scale    float64
	fontSize float64
	viewport Rect

	log     *slog.Logger
	bitmaps BitmapCache
	redraw  RedrawScheduler
	layout  LayoutListener
	debug   bool

	needsRedraw bool

	// fetches counts image loads whose goroutine has not finished.
	fetches atomic.Int32

	// ctx scopes background fetches; cancelled by Close.
	ctx    context.Context
	cancel context.CancelFunc

	// queue holds work posted from other goroutines.
	mu     sync.Mutex
	queue  []func()
	closed bool
	epoch  uint64
}

// NewDocument creates a document with a pre-created root node sized to the
// configured viewport.
func NewDocument(cfg Config) *Document {
	d := &Document{
		defs:     make(map[string]NodeID),
		scale:    cfg.Scale,
		fontSize: cfg.FontSize,
		viewport: Rect{Width: cfg.Width, Height: cfg.Height},
		log:      cfg.Logger,
		bitmaps:  cfg.Bitmaps,
		redraw:   cfg.Redraw,
		layout:   cfg.Layout,
		debug:    cfg.Debug,
		epoch:    1,
	}
	if d.scale <= 0 || !finite(d.scale) {
		d.scale = 1
	}
	if d.fontSize <= 0 || !finite(d.fontSize) {
		d.fontSize = DefaultFontSize
	}
	d.ctx, d.cancel = context.WithCancel(context.Background())
	d.root = d.alloc("root", NodeTypeRoot)
	d.needsRedraw = true
	return d
}

// Root returns the document's root node.
func (d *Document) Root() NodeID {
	return d.root
}

// Scale returns the device scale factor.
func (d *Document) Scale() float64 {
	return d.scale
}

// Viewport returns the current viewport in device pixels.
func (d *Document) Viewport() Rect {
	return d.viewport
}

// SetViewport resizes the root coordinate space. Every cached length is
// recomputed on the next render.
func (d *Document) SetViewport(width, height float64) {
	if d.viewport.Width == width && d.viewport.Height == height {
		return
	}
	d.viewport = Rect{Width: width, Height: height}
	d.invalidate(d.root)
}

// SetDebugMode enables or disables debug mode. When enabled, tree
// operations warn about excessive depth or child counts and Render logs
// per-frame statistics.
func (d *Document) SetDebugMode(enabled bool) {
	d.debug = enabled
}

// MarkNeedsRedraw flags the document dirty. Repeated calls before the next
// render are coalesced into a single RequestRedraw.
func (d *Document) MarkNeedsRedraw() {
	if d.needsRedraw {
		return
	}
	d.needsRedraw = true
	if d.redraw != nil {
		d.redraw.RequestRedraw()
	}
}

// NeedsRedraw reports whether something changed since the last render.
func (d *Document) NeedsRedraw() bool {
	return d.needsRedraw
}

// --- Definitions ---

// DefineTemplate registers id under name. A later definition with the same
// name replaces the earlier one.
func (d *Document) DefineTemplate(id NodeID, name string) {
	if d.node(id) == nil || name == "" {
		return
	}
	d.defs[name] = id
	d.clearClipCaches()
	d.MarkNeedsRedraw()
}

// LookupClipPath returns the clip-path definition registered under name.
func (d *Document) LookupClipPath(name string) (NodeID, bool) {
	id, ok := d.defs[name]
	if !ok {
		return NoNode, false
	}
	n := d.node(id)
	if n == nil || n.Type != NodeTypeClipPath {
		return NoNode, false
	}
	return id, true
}

// --- Main-thread queue ---

// Post schedules fn to run on the render goroutine during the next Drain.
// Safe to call from any goroutine. Posts after Close are dropped.
func (d *Document) Post(fn func()) {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.queue = append(d.queue, fn)
	d.mu.Unlock()
	if d.redraw != nil {
		d.redraw.RequestRedraw()
	}
}

// Drain runs all posted tasks and returns how many ran. Call it from the
// render goroutine, typically once per frame before Render.
func (d *Document) Drain() int {
	d.mu.Lock()
	tasks := d.queue
	d.queue = nil
	d.mu.Unlock()
	for _, fn := range tasks {
		fn()
	}
	return len(tasks)
}

// Pending returns the number of posted tasks waiting for Drain.
func (d *Document) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.queue)
}

// Close cancels outstanding image fetches and discards pending tasks. Work
// that completes afterwards finds the document closed and is dropped.
func (d *Document) Close() {
	d.cancel()
	d.mu.Lock()
	d.closed = true
	d.queue = nil
	d.epoch++
	d.mu.Unlock()
}

// currentEpoch returns the liveness token captured by background work.
func (d *Document) currentEpoch() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.epoch
}

// aliveAt reports whether the document is still open at epoch.
func (d *Document) aliveAt(epoch uint64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return !d.closed && d.epoch == epoch
}
