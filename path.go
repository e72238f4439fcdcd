package sapling

import "github.com/tdewolff/canvas"

// FillType selects how a path's interior is determined. The inverse types
// fill everything outside the corresponding regular interior.
type FillType uint8

const (
	FillWinding FillType = iota
	FillEvenOdd
	FillInverseWinding
	FillInverseEvenOdd
)

// IsInverse reports whether t fills the outside of the path.
func (t FillType) IsInverse() bool {
	return t == FillInverseWinding || t == FillInverseEvenOdd
}

// IsEvenOdd reports whether t uses the even-odd rule.
func (t FillType) IsEvenOdd() bool {
	return t == FillEvenOdd || t == FillInverseEvenOdd
}

func (t FillType) rule() canvas.FillRule {
	if t.IsEvenOdd() {
		return canvas.EvenOdd
	}
	return canvas.NonZero
}

// PathOp identifies a path element.
type PathOp uint8

const (
	OpMoveTo PathOp = iota
	OpLineTo
	OpCubicTo
	OpClose
)

// PathElement is one drawing command. MoveTo and LineTo use P[0]; CubicTo
// uses P[0] and P[1] as control points and P[2] as the end point.
type PathElement struct {
	Op PathOp
	P  [3]Vec2
}

// Path is a sequence of contours with a fill type. Contours emitted by the
// shape helpers wind clockwise in a Y-down coordinate system.
//
// The geometry is held in a canvas.Path, which drops zero-length segments
// and merges collinear lines as they are added.
type Path struct {
	p        *canvas.Path
	FillType FillType
}

// NewPath returns an empty path with winding fill.
func NewPath() *Path {
	return &Path{p: &canvas.Path{}}
}

func (p *Path) geom() *canvas.Path {
	if p.p == nil {
		p.p = &canvas.Path{}
	}
	return p.p
}

// Elements returns the path as drawing commands. Each call builds a new
// slice.
func (p *Path) Elements() []PathElement {
	if p == nil || p.p == nil {
		return nil
	}
	var out []PathElement
	s := p.p.Scanner()
	for s.Scan() {
		end := s.End()
		switch s.Cmd() {
		case canvas.MoveToCmd:
			out = append(out, PathElement{Op: OpMoveTo, P: [3]Vec2{{end.X, end.Y}}})
		case canvas.LineToCmd:
			out = append(out, PathElement{Op: OpLineTo, P: [3]Vec2{{end.X, end.Y}}})
		case canvas.CubeToCmd:
			c1, c2 := s.CP1(), s.CP2()
			out = append(out, PathElement{Op: OpCubicTo, P: [3]Vec2{{c1.X, c1.Y}, {c2.X, c2.Y}, {end.X, end.Y}}})
		case canvas.CloseCmd:
			out = append(out, PathElement{Op: OpClose})
		}
	}
	return out
}

// IsEmpty reports whether the path has no drawable segment.
func (p *Path) IsEmpty() bool {
	return p == nil || p.p.Empty()
}

// MoveTo starts a new contour.
func (p *Path) MoveTo(x, y float64) {
	p.geom().MoveTo(x, y)
}

// LineTo adds a straight segment.
func (p *Path) LineTo(x, y float64) {
	p.geom().LineTo(x, y)
}

// CubicTo adds a cubic Bézier segment.
func (p *Path) CubicTo(c1x, c1y, c2x, c2y, x, y float64) {
	p.geom().CubeTo(c1x, c1y, c2x, c2y, x, y)
}

// Close closes the current contour.
func (p *Path) Close() {
	p.geom().Close()
}

// kappa is the control-point distance for a quarter-ellipse cubic.
const kappa = 0.5522847498307936

// AddRect adds a clockwise rectangle contour.
func (p *Path) AddRect(r Rect) {
	p.MoveTo(r.X, r.Y)
	p.LineTo(r.Right(), r.Y)
	p.LineTo(r.Right(), r.Bottom())
	p.LineTo(r.X, r.Bottom())
	p.Close()
}

// AddRoundRect adds a clockwise rounded rectangle contour with elliptical
// corners of radii rx, ry. Radii are used as given; callers clamp them.
func (p *Path) AddRoundRect(r Rect, rx, ry float64) {
	if rx <= 0 || ry <= 0 {
		p.AddRect(r)
		return
	}
	l, t, rt, b := r.X, r.Y, r.Right(), r.Bottom()
	kx, ky := rx*kappa, ry*kappa
	p.MoveTo(l+rx, t)
	p.LineTo(rt-rx, t)
	p.CubicTo(rt-rx+kx, t, rt, t+ry-ky, rt, t+ry)
	p.LineTo(rt, b-ry)
	p.CubicTo(rt, b-ry+ky, rt-rx+kx, b, rt-rx, b)
	p.LineTo(l+rx, b)
	p.CubicTo(l+rx-kx, b, l, b-ry+ky, l, b-ry)
	p.LineTo(l, t+ry)
	p.CubicTo(l, t+ry-ky, l+rx-kx, t, l+rx, t)
	p.Close()
}

// AddOval adds a clockwise ellipse contour inscribed in r.
func (p *Path) AddOval(r Rect) {
	rx, ry := r.Width/2, r.Height/2
	cx, cy := r.X+rx, r.Y+ry
	kx, ky := rx*kappa, ry*kappa
	p.MoveTo(cx+rx, cy)
	p.CubicTo(cx+rx, cy+ky, cx+kx, cy+ry, cx, cy+ry)
	p.CubicTo(cx-kx, cy+ry, cx-rx, cy+ky, cx-rx, cy)
	p.CubicTo(cx-rx, cy-ky, cx-kx, cy-ry, cx, cy-ry)
	p.CubicTo(cx+kx, cy-ry, cx+rx, cy-ky, cx+rx, cy)
	p.Close()
}

// AddPath appends the contours of src. The fill type of p is unchanged.
func (p *Path) AddPath(src *Path) {
	if src.IsEmpty() {
		return
	}
	p.p = p.geom().Append(src.p)
}

// Clone returns a deep copy of the path.
func (p *Path) Clone() *Path {
	return &Path{p: p.geom().Copy(), FillType: p.FillType}
}

// Transform returns a copy of the path with every point mapped by m.
func (p *Path) Transform(m Matrix) *Path {
	out := p.Clone()
	if m.IsIdentity() {
		return out
	}
	out.p = out.p.Transform(canvas.Matrix{
		{m[0], m[2], m[4]},
		{m[1], m[3], m[5]},
	})
	return out
}

// Bounds returns the exact bounds of the path, curves included.
func (p *Path) Bounds() Rect {
	if p.IsEmpty() {
		return Rect{}
	}
	b := p.p.Bounds()
	return Rect{X: b.X0, Y: b.Y0, Width: b.X1 - b.X0, Height: b.Y1 - b.Y0}
}

// Winding returns the winding number of (x, y) relative to the path, using
// a horizontal ray to the right. Points on the boundary report 0.
func (p *Path) Winding(x, y float64) int {
	if p.IsEmpty() {
		return 0
	}
	n, _ := p.p.WindingsAt(x, y)
	return n
}

// Contains reports whether (x, y) is inside the path under its fill type.
// Points on the boundary of a regular fill are inside.
func (p *Path) Contains(x, y float64) bool {
	if p == nil {
		return false
	}
	inside := !p.IsEmpty() && p.p.ContainsPoint(x, y, p.FillType.rule())
	if p.FillType.IsInverse() {
		return !inside
	}
	return inside
}
