package sapling

import "math"

// TextScope is the coordinate and font context a group establishes for its
// subtree. Width and Height are device pixels; FontSize is in user units and
// is multiplied by the document scale when em lengths resolve. A FontSize of
// zero means DefaultFontSize.
type TextScope struct {
	Width, Height float64
	FontSize      float64
}

// scopeOf walks from n to the nearest node that defines a coordinate scope:
// a group with a TextScope or the root. ok is false for detached subtrees.
func (d *Document) scopeOf(n *Node) (w, h, fontSize float64, ok bool) {
	for p := n; p != nil; p = d.node(p.parent) {
		switch {
		case p.Type == NodeTypeRoot:
			return d.viewport.Width, d.viewport.Height, d.fontSize, true
		case p.Type == NodeTypeGroup && p.scope != nil:
			fs := p.scope.FontSize
			if fs <= 0 {
				fs = DefaultFontSize
			}
			return p.scope.Width, p.scope.Height, fs, true
		}
	}
	return 0, 0, DefaultFontSize, false
}

// CanvasWidth returns the width of the coordinate scope that applies to id.
func (d *Document) CanvasWidth(id NodeID) float64 {
	n := d.node(id)
	if n == nil {
		return 0
	}
	return d.canvasWidth(n)
}

// CanvasHeight returns the height of the coordinate scope that applies to id.
func (d *Document) CanvasHeight(id NodeID) float64 {
	n := d.node(id)
	if n == nil {
		return 0
	}
	return d.canvasHeight(n)
}

// CanvasDiagonal returns sqrt(w² + h²) / sqrt(2) for the scope that applies
// to id. Percentages of r resolve against this value.
func (d *Document) CanvasDiagonal(id NodeID) float64 {
	n := d.node(id)
	if n == nil {
		return 0
	}
	return d.canvasDiagonal(n)
}

// FontSize returns the font size of the scope that applies to id, or
// DefaultFontSize when the node is detached.
func (d *Document) FontSize(id NodeID) float64 {
	n := d.node(id)
	if n == nil {
		return DefaultFontSize
	}
	return d.fontSizeOf(n)
}

func (d *Document) canvasWidth(n *Node) float64 {
	if n.canvasWidth == unset {
		n.canvasWidth, _, _, _ = d.scopeOf(n)
	}
	return n.canvasWidth
}

func (d *Document) canvasHeight(n *Node) float64 {
	if n.canvasHeight == unset {
		_, n.canvasHeight, _, _ = d.scopeOf(n)
	}
	return n.canvasHeight
}

func (d *Document) canvasDiagonal(n *Node) float64 {
	if n.canvasDiagonal == unset {
		w, h := d.canvasWidth(n), d.canvasHeight(n)
		n.canvasDiagonal = math.Sqrt(w*w+h*h) * sqrt1_2
	}
	return n.canvasDiagonal
}

func (d *Document) fontSizeOf(n *Node) float64 {
	if n.fontSize == unset {
		_, _, n.fontSize, _ = d.scopeOf(n)
	}
	return n.fontSize
}

// --- Length resolution against a node's scope ---

func (d *Document) relativeOnWidth(n *Node, a Attr, def float64) float64 {
	return ResolveLength(n.lengths[a], d.canvasWidth(n), def, d.scale, d.fontSizeOf(n))
}

func (d *Document) relativeOnHeight(n *Node, a Attr, def float64) float64 {
	return ResolveLength(n.lengths[a], d.canvasHeight(n), def, d.scale, d.fontSizeOf(n))
}

func (d *Document) relativeOnOther(n *Node, a Attr, def float64) float64 {
	return ResolveLength(n.lengths[a], d.canvasDiagonal(n), def, d.scale, d.fontSizeOf(n))
}
