package sapling

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync/atomic"
)

// ErrBitmapInvalid is returned when a cached bitmap reference cannot be
// interpreted as an image.
var ErrBitmapInvalid = errors.New("sapling: invalid bitmap reference")

// ImageRequest identifies a bitmap in the cache. Width and Height are resize
// hints in device pixels; zero means natural size.
type ImageRequest struct {
	URI           string
	Width, Height int
}

// BitmapRef is a held reference to a cached bitmap. Release must be called
// exactly once when the caller is done with the image.
type BitmapRef interface {
	Image() image.Image
	Release()
}

// BitmapCache is the fetch and cache facility image nodes draw from.
// IsCached and FromCache are called on the render goroutine and must not
// block. FetchDecoded is called on its own goroutine.
type BitmapCache interface {
	IsCached(req ImageRequest) bool
	FromCache(req ImageRequest) (BitmapRef, bool)
	FetchDecoded(ctx context.Context, req ImageRequest) (image.Image, error)
}

// imageContent is the per-node state of an image. loading and failed are
// the only fields written off the render goroutine.
type imageContent struct {
	src         ImageSource
	align       string
	meetOrSlice MeetOrSlice

	// natural size in user units; starts from the source hint and is
	// filled from the decoded bitmap when the hint is missing.
	naturalW, naturalH float64

	loading atomic.Bool
	failed  atomic.Bool
}

// Loading reports whether an image fetch for id is in flight.
func (d *Document) Loading(id NodeID) bool {
	n := d.node(id)
	return n != nil && n.image != nil && n.image.loading.Load()
}

// Fetches returns the number of image fetches still running. A fetch stops
// counting after its completion task is posted, so a caller that waits for
// Fetches and Pending to reach zero has seen every result.
func (d *Document) Fetches() int {
	return int(d.fetches.Load())
}

func (d *Document) imageRequest(n *Node) ImageRequest {
	return ImageRequest{
		URI:    n.image.src.URI,
		Width:  int(n.image.src.Width * d.scale),
		Height: int(n.image.src.Height * d.scale),
	}
}

// imageRect resolves the target rectangle. A zero width or height falls
// back to the natural bitmap size times the device scale.
func (d *Document) imageRect(n *Node) Rect {
	r := Rect{
		X:      d.relativeOnWidth(n, AttrX, 0),
		Y:      d.relativeOnHeight(n, AttrY, 0),
		Width:  d.relativeOnWidth(n, AttrWidth, 0),
		Height: d.relativeOnHeight(n, AttrHeight, 0),
	}
	if n.image != nil {
		if r.Width == 0 {
			r.Width = n.image.naturalW * d.scale
		}
		if r.Height == 0 {
			r.Height = n.image.naturalH * d.scale
		}
	}
	return r
}

// acquireBitmap returns the cached bitmap for an image node. When the bitmap
// is not resident it starts a fetch and reports false; the node is skipped
// for this frame. While a fetch is in flight no second fetch starts.
func (d *Document) acquireBitmap(n *Node) (BitmapRef, bool) {
	img := n.image
	if img == nil || img.src.URI == "" || d.bitmaps == nil {
		return nil, false
	}
	if img.loading.Load() {
		return nil, false
	}
	req := d.imageRequest(n)
	if !d.bitmaps.IsCached(req) {
		if !img.failed.Load() {
			d.loadBitmap(n, req)
		}
		return nil, false
	}
	return d.bitmaps.FromCache(req)
}

// loadBitmap fetches req on a new goroutine. Completion is posted back to the
// render goroutine carrying only the node's id, so a node disposed in the
// meantime is never touched.
func (d *Document) loadBitmap(n *Node, req ImageRequest) {
	img := n.image
	if !img.loading.CompareAndSwap(false, true) {
		return
	}
	id, epoch, bitmaps, log := n.ID, d.currentEpoch(), d.bitmaps, d.logger()
	d.fetches.Add(1)
	go func() {
		defer d.fetches.Add(-1)
		bmp, err := bitmaps.FetchDecoded(d.ctx, req)
		if err != nil {
			log.Warn("sapling: image fetch failed", "uri", req.URI, "err", err)
			img.failed.Store(true)
			img.loading.Store(false)
			return
		}
		img.loading.Store(false)
		d.Post(func() {
			d.imageLoaded(id, epoch, bmp)
		})
	}()
}

// imageLoaded runs on the render goroutine after a successful fetch.
func (d *Document) imageLoaded(id NodeID, epoch uint64, bmp image.Image) {
	if !d.aliveAt(epoch) {
		return
	}
	n := d.node(id)
	if n == nil || n.image == nil {
		return
	}
	if bmp != nil {
		d.adoptNaturalSize(n, bmp)
	}
	d.MarkNeedsRedraw()
}

// adoptNaturalSize fills a missing natural size from the decoded bitmap.
func (d *Document) adoptNaturalSize(n *Node, bmp image.Image) {
	img := n.image
	if img.naturalW != 0 && img.naturalH != 0 {
		return
	}
	b := bmp.Bounds()
	img.naturalW, img.naturalH = float64(b.Dx()), float64(b.Dy())
	d.invalidateGeometry(n)
}

// drawBitmap draws ref into the node's fitted rectangle. The canvas clip is
// already restricted to the node's rect. A panic while reading the bitmap is
// returned as an error wrapping ErrBitmapInvalid.
func (d *Document) drawBitmap(c Canvas, n *Node, bmp image.Image, opacity float64) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("sapling: draw image %q: %v: %w", n.image.src.URI, r, ErrBitmapInvalid)
		}
	}()
	img := n.image
	rect := d.imageRect(n)
	vb := Rect{Width: img.naturalW, Height: img.naturalH}
	fit := ViewBoxTransform(vb, rect, img.align, img.meetOrSlice)
	if err := c.DrawImage(bmp, fit.MapRect(vb), opacity); err != nil {
		return fmt.Errorf("sapling: draw image %q: %w", img.src.URI, err)
	}
	return nil
}

// bitmapImage extracts the image from ref, adopting its natural size.
func (d *Document) bitmapImage(n *Node, ref BitmapRef) (bmp image.Image, err error) {
	defer func() {
		if r := recover(); r != nil {
			bmp = nil
			err = fmt.Errorf("sapling: image %q: %v: %w", n.image.src.URI, r, ErrBitmapInvalid)
		}
	}()
	bmp = ref.Image()
	if bmp == nil || bmp.Bounds().Empty() {
		return nil, fmt.Errorf("sapling: image %q: %w", n.image.src.URI, ErrBitmapInvalid)
	}
	d.adoptNaturalSize(n, bmp)
	return bmp, nil
}
