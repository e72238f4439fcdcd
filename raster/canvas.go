// Package raster implements sapling.Canvas on a CPU image. Paths are
// rasterized with github.com/fogleman/gg into coverage masks; clipping is a
// per-state alpha mask combined with each fill; bitmaps are resampled with
// golang.org/x/image/draw.
//
// A Canvas is intended for offline rendering, golden images and tests. It is
// not safe for concurrent use.
package raster

import (
	"image"
	"image/color"

	"github.com/fogleman/gg"
	"github.com/phanxgames/sapling"
	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
)

// Options configures a Canvas. The zero value gives a transparent background
// and bilinear image sampling.
type Options struct {
	// Background fills the canvas on creation and on Clear. Nil means
	// transparent.
	Background color.Color

	// Sampler resamples bitmaps in DrawImage. Nil means draw.BiLinear.
	Sampler draw.Transformer
}

// state is one entry of the save stack. A nil clip is the whole canvas.
// Masks are never mutated after they are stored in a state.
type state struct {
	matrix sapling.Matrix
	clip   *image.Alpha
}

// Canvas is a raster sapling.Canvas.
type Canvas struct {
	dst  *image.RGBA
	dc   *gg.Context
	w, h int
	opts Options

	state state
	stack []state
}

var _ sapling.Canvas = (*Canvas)(nil)

// New returns a w by h canvas.
func New(w, h int, opts Options) *Canvas {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	if opts.Sampler == nil {
		opts.Sampler = draw.BiLinear
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	c := &Canvas{
		dst:   dst,
		dc:    gg.NewContextForRGBA(dst),
		w:     w,
		h:     h,
		opts:  opts,
		state: state{matrix: sapling.Identity},
	}
	c.Clear()
	return c
}

// Image returns the backing image. Pixels are premultiplied.
func (c *Canvas) Image() *image.RGBA {
	return c.dst
}

// Clear resets pixels to the background and drops every saved state.
func (c *Canvas) Clear() {
	bg := c.opts.Background
	if bg == nil {
		bg = color.Transparent
	}
	draw.Draw(c.dst, c.dst.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)
	c.stack = c.stack[:0]
	c.state = state{matrix: sapling.Identity}
}

// Bounds implements sapling.Canvas.
func (c *Canvas) Bounds() sapling.Rect {
	return sapling.Rect{Width: float64(c.w), Height: float64(c.h)}
}

// Depth returns the number of saved states.
func (c *Canvas) Depth() int {
	return len(c.stack)
}

// Save implements sapling.Canvas.
func (c *Canvas) Save() int {
	n := len(c.stack)
	c.stack = append(c.stack, c.state)
	return n
}

// RestoreToCount implements sapling.Canvas.
func (c *Canvas) RestoreToCount(count int) {
	if count < 0 {
		count = 0
	}
	for len(c.stack) > count {
		c.state = c.stack[len(c.stack)-1]
		c.stack = c.stack[:len(c.stack)-1]
	}
}

// Concat implements sapling.Canvas.
func (c *Canvas) Concat(m sapling.Matrix) {
	c.state.matrix = c.state.matrix.Mul(m)
}

// Matrix returns the current device matrix.
func (c *Canvas) Matrix() sapling.Matrix {
	return c.state.matrix
}

// ClipPath implements sapling.Canvas.
func (c *Canvas) ClipPath(p *sapling.Path, op sapling.ClipOp) {
	cov := c.coverage(p)
	switch op {
	case sapling.ClipReplace:
		c.state.clip = cov
	case sapling.ClipDifference:
		invertMask(cov)
		c.state.clip = intersectMasks(c.state.clip, cov)
	default:
		c.state.clip = intersectMasks(c.state.clip, cov)
	}
}

// FillPath implements sapling.Canvas.
func (c *Canvas) FillPath(p *sapling.Path, col sapling.Color) {
	if col.A <= 0 {
		return
	}
	mask := intersectMasks(c.state.clip, c.coverage(p))
	draw.DrawMask(c.dst, c.dst.Bounds(), image.NewUniform(toNRGBA(col)), image.Point{}, mask, image.Point{}, draw.Over)
}

// DrawImage implements sapling.Canvas. The image's bounds are mapped onto
// dst in user space, then through the current matrix.
func (c *Canvas) DrawImage(img image.Image, dst sapling.Rect, alpha float64) error {
	sr := img.Bounds()
	if sr.Empty() || dst.IsEmpty() || alpha <= 0 {
		return nil
	}
	place := sapling.Translate(dst.X, dst.Y).
		Mul(sapling.Scale(dst.Width/float64(sr.Dx()), dst.Height/float64(sr.Dy()))).
		Mul(sapling.Translate(-float64(sr.Min.X), -float64(sr.Min.Y)))
	m := c.state.matrix.Mul(place)
	s2d := f64.Aff3{m[0], m[2], m[4], m[1], m[3], m[5]}

	var opts draw.Options
	if mask := c.imageMask(alpha); mask != nil {
		opts.DstMask = mask
	}
	c.opts.Sampler.Transform(c.dst, s2d, img, sr, draw.Over, &opts)
	return nil
}

// imageMask combines the clip with a constant alpha. Nil means no masking.
func (c *Canvas) imageMask(alpha float64) image.Image {
	if alpha >= 1 {
		if c.state.clip == nil {
			return nil
		}
		return c.state.clip
	}
	a := uint8(alpha*255 + 0.5)
	if c.state.clip == nil {
		return image.NewUniform(color.Alpha{A: a})
	}
	out := image.NewAlpha(c.state.clip.Rect)
	for i, v := range c.state.clip.Pix {
		out.Pix[i] = mul8(v, a)
	}
	return out
}

// coverage rasterizes p in device space into an alpha mask.
func (c *Canvas) coverage(p *sapling.Path) *image.Alpha {
	mc := gg.NewContext(c.w, c.h)
	if p != nil && !p.IsEmpty() {
		if p.FillType.IsEvenOdd() {
			mc.SetFillRule(gg.FillRuleEvenOdd)
		} else {
			mc.SetFillRule(gg.FillRuleWinding)
		}
		trace(mc, p, c.state.matrix)
		mc.SetRGBA(0, 0, 0, 1)
		mc.Fill()
	}
	mask := mc.AsMask()
	if p != nil && p.FillType.IsInverse() {
		invertMask(mask)
	}
	return mask
}

// trace replays p into dc with every point mapped by m. Affine maps carry
// cubic control points exactly.
func trace(dc *gg.Context, p *sapling.Path, m sapling.Matrix) {
	for _, e := range p.Elements() {
		switch e.Op {
		case sapling.OpMoveTo:
			dc.MoveTo(m.Apply(e.P[0].X, e.P[0].Y))
		case sapling.OpLineTo:
			dc.LineTo(m.Apply(e.P[0].X, e.P[0].Y))
		case sapling.OpCubicTo:
			x1, y1 := m.Apply(e.P[0].X, e.P[0].Y)
			x2, y2 := m.Apply(e.P[1].X, e.P[1].Y)
			x3, y3 := m.Apply(e.P[2].X, e.P[2].Y)
			dc.CubicTo(x1, y1, x2, y2, x3, y3)
		case sapling.OpClose:
			dc.ClosePath()
		}
	}
}

func toNRGBA(c sapling.Color) color.NRGBA {
	return color.NRGBA{R: unit8(c.R), G: unit8(c.G), B: unit8(c.B), A: unit8(c.A)}
}

func unit8(v float64) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 255
	}
	return uint8(v*255 + 0.5)
}
