package sapling

import "math"

// Matrix is a 2D affine matrix [a, b, c, d, tx, ty].
//
//	| a  c  tx |
//	| b  d  ty |
//	| 0  0   1 |
type Matrix [6]float64

// Identity is the identity affine matrix.
var Identity = Matrix{1, 0, 0, 1, 0, 0}

// Translate returns a translation matrix.
func Translate(tx, ty float64) Matrix {
	return Matrix{1, 0, 0, 1, tx, ty}
}

// Scale returns a scaling matrix.
func Scale(sx, sy float64) Matrix {
	return Matrix{sx, 0, 0, sy, 0, 0}
}

// Mul returns m * c: c is applied first, then m.
func (m Matrix) Mul(c Matrix) Matrix {
	return multiplyAffine(m, c)
}

// Invert returns the inverse of m. ok is false when m is singular, in which
// case the returned matrix is the identity and must not be used.
func (m Matrix) Invert() (inv Matrix, ok bool) {
	return invertAffine(m)
}

// Apply transforms the point (x, y).
func (m Matrix) Apply(x, y float64) (float64, float64) {
	return transformPoint(m, x, y)
}

// IsIdentity reports whether m is exactly the identity.
func (m Matrix) IsIdentity() bool {
	return m == Identity
}

// MapRect returns the axis-aligned bounds of r after transformation.
func (m Matrix) MapRect(r Rect) Rect {
	x0, y0 := m.Apply(r.X, r.Y)
	x1, y1 := m.Apply(r.X+r.Width, r.Y)
	x2, y2 := m.Apply(r.X+r.Width, r.Y+r.Height)
	x3, y3 := m.Apply(r.X, r.Y+r.Height)
	minX := math.Min(math.Min(x0, x1), math.Min(x2, x3))
	minY := math.Min(math.Min(y0, y1), math.Min(y2, y3))
	maxX := math.Max(math.Max(x0, x1), math.Max(x2, x3))
	maxY := math.Max(math.Max(y0, y1), math.Max(y2, y3))
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// multiplyAffine multiplies two 2D affine matrices: result = parent * child.
func multiplyAffine(p, c Matrix) Matrix {
	return Matrix{
		p[0]*c[0] + p[2]*c[1],
		p[1]*c[0] + p[3]*c[1],
		p[0]*c[2] + p[2]*c[3],
		p[1]*c[2] + p[3]*c[3],
		p[0]*c[4] + p[2]*c[5] + p[4],
		p[1]*c[4] + p[3]*c[5] + p[5],
	}
}

// invertAffine computes the inverse of a 2D affine matrix.
// Reports false (and returns identity) if the matrix is singular.
func invertAffine(m Matrix) (Matrix, bool) {
	det := m[0]*m[3] - m[2]*m[1]
	if !finite(det) || (det > -1e-12 && det < 1e-12) {
		return Identity, false
	}
	invDet := 1.0 / det
	a := m[3] * invDet
	b := -m[1] * invDet
	c := -m[2] * invDet
	d := m[0] * invDet
	return Matrix{
		a, b, c, d,
		-(a*m[4] + c*m[5]),
		-(b*m[4] + d*m[5]),
	}, true
}

// transformPoint applies an affine matrix to a point.
func transformPoint(m Matrix, x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}

// --- Local matrix property ---

// SetMatrix sets the node's local transform from six components
// [a, b, c, d, tx, ty]. Translation is given in user-space pixels and is
// multiplied by the document scale.
//
// Any input that is not exactly six finite numbers clears the local
// transform and marks the node non-invertible. This never fails.
func (d *Document) SetMatrix(id NodeID, values []float64) {
	n := d.node(id)
	if n == nil {
		return
	}
	ok := len(values) == 6
	for _, v := range values {
		if !finite(v) {
			ok = false
		}
	}
	if !ok {
		if values != nil {
			d.logger().Warn("sapling: transform matrices must be of size 6",
				"node", n.Name, "size", len(values))
		}
		n.matrix = Identity
		n.hasMatrix = false
		n.invMatrix = Identity
		n.invertible = false
		d.invalidate(id)
		return
	}
	n.matrix = Matrix{
		values[0], values[1], values[2], values[3],
		values[4] * d.scale, values[5] * d.scale,
	}
	n.hasMatrix = true
	n.invMatrix, n.invertible = invertAffine(n.matrix)
	d.invalidate(id)
}

// LocalMatrix returns the node's local transform, or identity if none is set.
func (d *Document) LocalMatrix(id NodeID) Matrix {
	n := d.node(id)
	if n == nil || !n.hasMatrix {
		return Identity
	}
	return n.matrix
}

// Invertible reports whether the node's local transform could be inverted.
func (d *Document) Invertible(id NodeID) bool {
	n := d.node(id)
	return n != nil && n.invertible
}

// SetTransform sets the host-supplied transform that is composed before the
// node's local matrix, for example a layout offset. Singular transforms are
// accepted and recorded as non-invertible.
func (d *Document) SetTransform(id NodeID, m Matrix) {
	n := d.node(id)
	if n == nil {
		return
	}
	n.transform = m
	_, n.transformInvertible = invertAffine(m)
	d.invalidate(id)
}

// Transform returns the host-supplied transform set by SetTransform.
func (d *Document) Transform(id NodeID) Matrix {
	n := d.node(id)
	if n == nil {
		return Identity
	}
	return n.transform
}

// nodeMatrix returns inherited × local for a single node.
func (n *Node) nodeMatrix() Matrix {
	m := n.transform
	if n.hasMatrix {
		m = m.Mul(n.matrix)
	}
	return m
}

// WorldMatrix returns the composition of all node transforms from the root
// down to and including id, and whether the result can be inverted. A chain
// containing any non-invertible factor is reported non-invertible even if the
// product happens to invert numerically.
func (d *Document) WorldMatrix(id NodeID) (Matrix, bool) {
	n := d.node(id)
	if n == nil {
		return Identity, false
	}
	m := Identity
	invertible := true
	for cur := n; cur != nil; cur = d.node(cur.parent) {
		m = cur.nodeMatrix().Mul(m)
		if !cur.invertible || !cur.transformInvertible {
			invertible = false
		}
	}
	if _, ok := invertAffine(m); !ok {
		invertible = false
	}
	return m, invertible
}

// saveAndSetup saves the canvas state and concatenates the inherited
// transform followed by the local matrix, so the local matrix acts in the
// node's own coordinate space. Opacity is not applied here; leaves multiply
// it in at paint time. The returned count must be passed to RestoreToCount on
// every exit path.
func (n *Node) saveAndSetup(c Canvas) int {
	count := c.Save()
	if !n.transform.IsIdentity() {
		c.Concat(n.transform)
	}
	if n.hasMatrix {
		c.Concat(n.matrix)
	}
	return count
}
