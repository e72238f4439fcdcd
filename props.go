package sapling

import "fmt"

// Property setters. Each setter ignores stale ids, stores the raw value,
// invalidates the node's cached geometry and clip, and requests a redraw.

// SetLength stores an unresolved length expression for attr. Pass "" to
// clear it back to the attribute default.
func (d *Document) SetLength(id NodeID, attr Attr, expr string) {
	n := d.node(id)
	if n == nil || attr >= attrCount {
		return
	}
	if n.lengths[attr] == expr {
		return
	}
	n.lengths[attr] = expr
	d.invalidate(id)
}

// Length returns the stored expression for attr.
func (d *Document) Length(id NodeID, attr Attr) string {
	n := d.node(id)
	if n == nil || attr >= attrCount {
		return ""
	}
	return n.lengths[attr]
}

// SetOpacity sets the node opacity, clamped to [0, 1].
func (d *Document) SetOpacity(id NodeID, opacity float64) {
	n := d.node(id)
	if n == nil {
		return
	}
	n.opacity = clamp01(opacity)
	d.invalidate(id)
}

// Opacity returns the node opacity.
func (d *Document) Opacity(id NodeID) float64 {
	n := d.node(id)
	if n == nil {
		return 0
	}
	return n.opacity
}

// SetFill sets the paint color of a shape.
func (d *Document) SetFill(id NodeID, c Color) {
	n := d.node(id)
	if n == nil {
		return
	}
	n.fill = c
	d.invalidate(id)
}

// Fill returns the paint color of a shape.
func (d *Document) Fill(id NodeID) Color {
	n := d.node(id)
	if n == nil {
		return Color{}
	}
	return n.fill
}

// SetFillRule sets the rule used to fill a shape's own path.
func (d *Document) SetFillRule(id NodeID, rule FillRule) {
	n := d.node(id)
	if n == nil {
		return
	}
	n.fillRule = rule
	d.invalidate(id)
}

// SetClipPath references the clip-path definition registered under name.
// The empty string removes the clip.
func (d *Document) SetClipPath(id NodeID, name string) {
	n := d.node(id)
	if n == nil {
		return
	}
	n.clipPathName = name
	d.invalidate(id)
}

// SetClipRule sets the rule used to fill the referenced clip path. Codes
// other than ClipRuleEvenOdd and ClipRuleNonZero are stored; resolution
// warns and falls back to nonzero.
func (d *Document) SetClipRule(id NodeID, rule ClipRule) {
	n := d.node(id)
	if n == nil {
		return
	}
	n.clipRule = rule
	d.invalidate(id)
}

// SetMask stores a mask reference. Masks are consumed by hosts; the render
// pipeline does not apply them.
func (d *Document) SetMask(id NodeID, name string) {
	n := d.node(id)
	if n == nil {
		return
	}
	n.maskName = name
	d.invalidate(id)
}

// SetName renames the node. Clip-path definitions are re-registered under
// the new name.
func (d *Document) SetName(id NodeID, name string) {
	n := d.node(id)
	if n == nil {
		return
	}
	old := n.Name
	n.Name = name
	if n.Type == NodeTypeClipPath {
		if def, ok := d.defs[old]; ok && def == id && old != name {
			delete(d.defs, old)
		}
		d.DefineTemplate(id, name)
	}
	d.invalidate(id)
}

// SetResponsible marks the node as a hit-test target.
func (d *Document) SetResponsible(id NodeID, responsible bool) {
	n := d.node(id)
	if n == nil {
		return
	}
	n.responsible = responsible
	d.invalidate(id)
}

// SetTextScope makes a group establish its own coordinate and font scope.
// Pass nil to make it inherit again.
func (d *Document) SetTextScope(id NodeID, scope *TextScope) {
	n := d.node(id)
	if n == nil {
		return
	}
	if n.Type != NodeTypeGroup {
		panic(fmt.Sprintf("sapling: text scope on %s node %q", n.Type, n.Name))
	}
	if scope != nil {
		s := *scope
		scope = &s
	}
	n.scope = scope
	d.invalidate(id)
}

// ImageSource describes the bitmap an image node displays. Width and Height
// are the natural size used when the node's own size is zero.
type ImageSource struct {
	URI           string
	Width, Height float64
}

// SetImageSource sets the bitmap source of an image node.
func (d *Document) SetImageSource(id NodeID, src ImageSource) {
	n := d.node(id)
	if n == nil || n.image == nil {
		return
	}
	if n.image.src == src {
		return
	}
	n.image.src = src
	n.image.naturalW, n.image.naturalH = src.Width, src.Height
	n.image.failed.Store(false)
	d.invalidate(id)
}

// SetAlign sets how an image's natural bounds are fitted into its rect.
// align is a preserveAspectRatio alignment such as "xMidYMid" or "none".
func (d *Document) SetAlign(id NodeID, align string, mos MeetOrSlice) {
	n := d.node(id)
	if n == nil || n.image == nil {
		return
	}
	n.image.align = align
	n.image.meetOrSlice = mos
	d.invalidate(id)
}
