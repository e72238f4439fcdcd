// Package ebitenview draws sapling documents with Ebitengine. Canvas
// implements sapling.Canvas on an *ebiten.Image with a clip stack of mask
// images; Run opens a window and re-renders the document only when it asks
// for a redraw.
package ebitenview

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/phanxgames/sapling"
)

// maxCachedImages bounds the number of converted bitmaps kept between
// frames. Exceeding it drops the whole conversion cache.
const maxCachedImages = 256

var (
	whiteImage    = ebiten.NewImage(3, 3)
	whiteSubImage = whiteImage.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
)

func init() {
	whiteImage.Fill(color.White)
}

// state is one entry of the save stack. A nil clip is the whole target.
// Masks stored in a state are never drawn into again.
type state struct {
	matrix sapling.Matrix
	clip   *ebiten.Image
}

// Canvas is a sapling.Canvas backed by an *ebiten.Image. Call Begin with the
// target before each Render. A Canvas must be used from the game goroutine.
type Canvas struct {
	// AntiAlias enables anti-aliased path fills. NewCanvas turns it on.
	AntiAlias bool

	target *ebiten.Image
	state  state
	stack  []state

	pool  layerPool
	owned []*ebiten.Image

	images map[image.Image]*ebiten.Image

	vs []ebiten.Vertex
	is []uint16
}

var _ sapling.Canvas = (*Canvas)(nil)

// NewCanvas returns a canvas with anti-aliasing enabled.
func NewCanvas() *Canvas {
	return &Canvas{
		AntiAlias: true,
		state:     state{matrix: sapling.Identity},
		images:    make(map[image.Image]*ebiten.Image),
	}
}

// Begin targets img for the next frame. Masks and layers from the previous
// frame return to the pool and the save stack is cleared.
func (c *Canvas) Begin(img *ebiten.Image) {
	for _, o := range c.owned {
		c.pool.Release(o)
	}
	c.owned = c.owned[:0]
	c.stack = c.stack[:0]
	c.state = state{matrix: sapling.Identity}
	c.target = img
}

// Dispose frees pooled images and converted bitmaps.
func (c *Canvas) Dispose() {
	c.Begin(nil)
	c.pool.Dispose()
	for k, img := range c.images {
		img.Deallocate()
		delete(c.images, k)
	}
}

// Bounds implements sapling.Canvas.
func (c *Canvas) Bounds() sapling.Rect {
	if c.target == nil {
		return sapling.Rect{}
	}
	b := c.target.Bounds()
	return sapling.Rect{Width: float64(b.Dx()), Height: float64(b.Dy())}
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
	if c.target == nil {
		return
	}
	cov := c.coverage(p)
	switch op {
	case sapling.ClipReplace:
		c.state.clip = cov
	case sapling.ClipDifference:
		m := c.acquire()
		if c.state.clip == nil {
			m.Fill(color.White)
		} else {
			m.DrawImage(c.state.clip, nil)
		}
		m.DrawImage(cov, &ebiten.DrawImageOptions{Blend: blendErase})
		c.state.clip = m
	default:
		if c.state.clip == nil {
			c.state.clip = cov
			return
		}
		m := c.acquire()
		m.DrawImage(c.state.clip, nil)
		m.DrawImage(cov, &ebiten.DrawImageOptions{Blend: blendMask})
		c.state.clip = m
	}
}

// FillPath implements sapling.Canvas.
func (c *Canvas) FillPath(p *sapling.Path, col sapling.Color) {
	if c.target == nil || col.A <= 0 {
		return
	}
	if c.state.clip == nil && !p.FillType.IsInverse() {
		c.fill(c.target, p, col, ebiten.BlendSourceOver)
		return
	}
	layer := c.acquire()
	if p.FillType.IsInverse() {
		layer.Fill(toNRGBA(col))
		layer.DrawImage(c.coverage(p), &ebiten.DrawImageOptions{Blend: blendMask})
	} else {
		c.fill(layer, p, col, ebiten.BlendSourceOver)
	}
	c.composite(layer)
}

// DrawImage implements sapling.Canvas.
func (c *Canvas) DrawImage(img image.Image, dst sapling.Rect, alpha float64) error {
	if c.target == nil || dst.IsEmpty() || alpha <= 0 {
		return nil
	}
	src, err := c.ebitenImage(img)
	if err != nil {
		return err
	}
	b := src.Bounds()
	var op ebiten.DrawImageOptions
	op.GeoM.Scale(dst.Width/float64(b.Dx()), dst.Height/float64(b.Dy()))
	op.GeoM.Translate(dst.X, dst.Y)
	op.GeoM.Concat(geoM(c.state.matrix))
	op.ColorScale.ScaleAlpha(float32(alpha))
	op.Filter = ebiten.FilterLinear

	if c.state.clip == nil {
		c.target.DrawImage(src, &op)
		return nil
	}
	layer := c.acquire()
	layer.DrawImage(src, &op)
	c.composite(layer)
	return nil
}

// composite masks layer by the current clip and draws it onto the target.
func (c *Canvas) composite(layer *ebiten.Image) {
	if c.state.clip != nil {
		layer.DrawImage(c.state.clip, &ebiten.DrawImageOptions{Blend: blendMask})
	}
	c.target.DrawImage(layer, nil)
}

// coverage renders the filled area of p into a white mask.
func (c *Canvas) coverage(p *sapling.Path) *ebiten.Image {
	m := c.acquire()
	if p.FillType.IsInverse() {
		m.Fill(color.White)
		c.fill(m, p, sapling.ColorWhite, blendErase)
		return m
	}
	c.fill(m, p, sapling.ColorWhite, ebiten.BlendSourceOver)
	return m
}

// fill triangulates p in device space and draws it into dst.
func (c *Canvas) fill(dst *ebiten.Image, p *sapling.Path, col sapling.Color, blend ebiten.Blend) {
	if p.IsEmpty() {
		return
	}
	var vp vector.Path
	trace(&vp, p, c.state.matrix)
	c.vs, c.is = vp.AppendVerticesAndIndicesForFilling(c.vs[:0], c.is[:0])
	r, g, b, a := float32(col.R), float32(col.G), float32(col.B), float32(col.A)
	for i := range c.vs {
		c.vs[i].SrcX, c.vs[i].SrcY = 1, 1
		c.vs[i].ColorR, c.vs[i].ColorG, c.vs[i].ColorB, c.vs[i].ColorA = r, g, b, a
	}
	rule := ebiten.FillRuleNonZero
	if p.FillType.IsEvenOdd() {
		rule = ebiten.FillRuleEvenOdd
	}
	dst.DrawTriangles(c.vs, c.is, whiteSubImage, &ebiten.DrawTrianglesOptions{
		AntiAlias: c.AntiAlias,
		FillRule:  rule,
		Blend:     blend,
	})
}

// acquire returns a cleared target-sized image owned by the current frame.
func (c *Canvas) acquire() *ebiten.Image {
	b := c.target.Bounds()
	img := c.pool.Acquire(b.Dx(), b.Dy())
	c.owned = append(c.owned, img)
	return img
}

// ebitenImage converts img once and reuses the result across frames.
func (c *Canvas) ebitenImage(img image.Image) (*ebiten.Image, error) {
	if img == nil {
		return nil, errors.New("ebitenview: nil image")
	}
	if e, ok := img.(*ebiten.Image); ok {
		return e, nil
	}
	if e, ok := c.images[img]; ok {
		return e, nil
	}
	if img.Bounds().Empty() {
		return nil, fmt.Errorf("ebitenview: empty image %v", img.Bounds())
	}
	if len(c.images) >= maxCachedImages {
		for k, e := range c.images {
			e.Deallocate()
			delete(c.images, k)
		}
	}
	e := ebiten.NewImageFromImage(img)
	c.images[img] = e
	return e, nil
}

// trace replays p into vp with every point mapped by m.
func trace(vp *vector.Path, p *sapling.Path, m sapling.Matrix) {
	pt := func(v sapling.Vec2) (float32, float32) {
		x, y := m.Apply(v.X, v.Y)
		return float32(x), float32(y)
	}
	for _, e := range p.Elements() {
		switch e.Op {
		case sapling.OpMoveTo:
			vp.MoveTo(pt(e.P[0]))
		case sapling.OpLineTo:
			vp.LineTo(pt(e.P[0]))
		case sapling.OpCubicTo:
			x1, y1 := pt(e.P[0])
			x2, y2 := pt(e.P[1])
			x3, y3 := pt(e.P[2])
			vp.CubicTo(x1, y1, x2, y2, x3, y3)
		case sapling.OpClose:
			vp.Close()
		}
	}
}

// geoM converts a sapling matrix into an ebiten.GeoM.
func geoM(m sapling.Matrix) ebiten.GeoM {
	var g ebiten.GeoM
	g.SetElement(0, 0, m[0])
	g.SetElement(1, 0, m[1])
	g.SetElement(0, 1, m[2])
	g.SetElement(1, 1, m[3])
	g.SetElement(0, 2, m[4])
	g.SetElement(1, 2, m[5])
	return g
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
