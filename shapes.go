package sapling

import "math"

// CornerRadii applies rounded-rectangle corner defaulting and clamping. If
// exactly one radius is zero it takes the other's value; the results are
// then clamped to half the width and half the height.
func CornerRadii(rx, ry, width, height float64) (float64, float64) {
	if rx == 0 && ry != 0 {
		rx = ry
	} else if ry == 0 && rx != 0 {
		ry = rx
	}
	rx = math.Min(rx, width/2)
	ry = math.Min(ry, height/2)
	return rx, ry
}

// FillPath returns the node's resolved fill path in its own coordinate space.
// The returned path is cached and must not be mutated.
func (d *Document) FillPath(id NodeID) *Path {
	n := d.node(id)
	if n == nil || !n.Type.producesPath() {
		return nil
	}
	return d.fillPath(n)
}

func (d *Document) fillPath(n *Node) *Path {
	if n.path == nil {
		n.path = d.computeFillPath(n)
	}
	return n.path
}

// computeFillPath builds the fill path for n from its resolved lengths.
func (d *Document) computeFillPath(n *Node) *Path {
	p := NewPath()
	switch n.Type {
	case NodeTypeRect:
		r := Rect{
			X:      d.relativeOnWidth(n, AttrX, 0),
			Y:      d.relativeOnHeight(n, AttrY, 0),
			Width:  d.relativeOnWidth(n, AttrWidth, 0),
			Height: d.relativeOnHeight(n, AttrHeight, 0),
		}
		rx, ry := CornerRadii(
			d.relativeOnWidth(n, AttrRx, 0),
			d.relativeOnHeight(n, AttrRy, 0),
			r.Width, r.Height)
		if rx != 0 || ry != 0 {
			p.AddRoundRect(r, rx, ry)
		} else {
			p.AddRect(r)
		}

	case NodeTypeCircle:
		cx := d.relativeOnWidth(n, AttrCx, 0)
		cy := d.relativeOnHeight(n, AttrCy, 0)
		r := d.relativeOnOther(n, AttrR, 0)
		p.AddOval(Rect{X: cx - r, Y: cy - r, Width: 2 * r, Height: 2 * r})

	case NodeTypeEllipse:
		cx := d.relativeOnWidth(n, AttrCx, 0)
		cy := d.relativeOnHeight(n, AttrCy, 0)
		rx := d.relativeOnWidth(n, AttrRx, 0)
		ry := d.relativeOnHeight(n, AttrRy, 0)
		p.AddOval(Rect{X: cx - rx, Y: cy - ry, Width: 2 * rx, Height: 2 * ry})

	case NodeTypeImage:
		p.AddRect(d.imageRect(n))

	case NodeTypeGroup, NodeTypeClipPath:
		for _, cid := range n.children {
			c := d.node(cid)
			if c == nil || !c.Type.producesPath() || c.Type == NodeTypeClipPath {
				continue
			}
			p.AddPath(d.fillPath(c).Transform(c.nodeMatrix()))
		}
		return p
	}
	if n.fillRule == FillRuleEvenOdd {
		p.FillType = FillEvenOdd
	}
	return p
}
