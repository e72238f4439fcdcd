package sapling

import (
	"strconv"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// TweenGroup animates up to four values of one node simultaneously. Create
// one via the constructors (TweenOpacity, TweenFill, TweenTranslate,
// TweenLength) and call Update(dt) each frame on the render goroutine. Each
// update writes the values through the document setters, which request a
// redraw. If the target node is disposed, the group stops immediately.
//
// There is no global animation manager; hosts call Update themselves.
type TweenGroup struct {
	tweens [4]*gween.Tween
	count  int
	values [4]float64
	apply  func(v *[4]float64)

	doc    *Document
	target NodeID
	Done   bool
}

func newTweenGroup(d *Document, id NodeID, from, to []float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{count: len(from), doc: d, target: id}
	for i := range from {
		g.tweens[i] = gween.New(float32(from[i]), float32(to[i]), duration, fn)
		g.values[i] = from[i]
	}
	return g
}

// Update advances all tweens by dt seconds and applies the values. If the
// target has been disposed, Done is set and nothing is written.
func (g *TweenGroup) Update(dt float32) {
	if g.Done {
		return
	}
	if !g.doc.Alive(g.target) {
		g.Done = true
		return
	}

	allDone := true
	for i := 0; i < g.count; i++ {
		val, finished := g.tweens[i].Update(dt)
		g.values[i] = float64(val)
		if !finished {
			allDone = false
		}
	}
	g.Done = allDone
	g.apply(&g.values)
}

// Reset rewinds the group to its start values without applying them.
func (g *TweenGroup) Reset() {
	for i := 0; i < g.count; i++ {
		g.tweens[i].Reset()
	}
	g.Done = false
}

// TweenOpacity animates the node opacity from its current value to to.
func TweenOpacity(d *Document, id NodeID, to float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := newTweenGroup(d, id, []float64{d.Opacity(id)}, []float64{to}, duration, fn)
	g.apply = func(v *[4]float64) { d.SetOpacity(id, v[0]) }
	return g
}

// TweenFill animates all four components of a shape's fill color.
func TweenFill(d *Document, id NodeID, to Color, duration float32, fn ease.TweenFunc) *TweenGroup {
	c := d.Fill(id)
	g := newTweenGroup(d, id,
		[]float64{c.R, c.G, c.B, c.A},
		[]float64{to.R, to.G, to.B, to.A}, duration, fn)
	g.apply = func(v *[4]float64) {
		d.SetFill(id, Color{R: clamp01(v[0]), G: clamp01(v[1]), B: clamp01(v[2]), A: clamp01(v[3])})
	}
	return g
}

// TweenTranslate animates the translation of the host transform in device
// pixels. The linear part of the transform is kept.
func TweenTranslate(d *Document, id NodeID, toX, toY float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	m := d.Transform(id)
	g := newTweenGroup(d, id, []float64{m[4], m[5]}, []float64{toX, toY}, duration, fn)
	g.apply = func(v *[4]float64) {
		m := d.Transform(id)
		m[4], m[5] = v[0], v[1]
		d.SetTransform(id, m)
	}
	return g
}

// TweenLength animates a length attribute between two user-unit values,
// writing each step as a plain number expression.
func TweenLength(d *Document, id NodeID, attr Attr, from, to float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := newTweenGroup(d, id, []float64{from}, []float64{to}, duration, fn)
	g.apply = func(v *[4]float64) {
		d.SetLength(id, attr, strconv.FormatFloat(v[0], 'f', -1, 64))
	}
	return g
}
