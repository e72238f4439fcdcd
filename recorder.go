package sapling

import (
	"fmt"
	"image"
)

// CanvasOp is one call captured by RecordingCanvas.
type CanvasOp struct {
	Kind   string // "save", "restore", "concat", "clip", "fill", "image"
	Matrix Matrix // current matrix after the call
	Path   *Path
	ClipOp ClipOp
	Color  Color
	Rect   Rect
	Alpha  float64
}

// RecordingCanvas is a Canvas that records calls instead of drawing. It keeps
// a real matrix stack so recorded matrices are device matrices. Use it to
// inspect the render pipeline without a rasterizer.
type RecordingCanvas struct {
	Width, Height float64

	// FailImages makes every DrawImage call return an error.
	FailImages bool

	Ops      []CanvasOp
	Saves    int
	Restores int

	stack  []Matrix
	matrix Matrix
}

// NewRecordingCanvas returns a recorder with the given bounds.
func NewRecordingCanvas(width, height float64) *RecordingCanvas {
	return &RecordingCanvas{Width: width, Height: height, matrix: Identity}
}

// Bounds implements Canvas.
func (r *RecordingCanvas) Bounds() Rect {
	return Rect{Width: r.Width, Height: r.Height}
}

// Depth returns the current save depth.
func (r *RecordingCanvas) Depth() int {
	return len(r.stack)
}

// Save implements Canvas.
func (r *RecordingCanvas) Save() int {
	count := len(r.stack)
	r.stack = append(r.stack, r.matrix)
	r.Saves++
	r.Ops = append(r.Ops, CanvasOp{Kind: "save", Matrix: r.matrix})
	return count
}

// RestoreToCount implements Canvas. Each popped state counts as one restore.
func (r *RecordingCanvas) RestoreToCount(count int) {
	if count < 0 {
		count = 0
	}
	for len(r.stack) > count {
		r.matrix = r.stack[len(r.stack)-1]
		r.stack = r.stack[:len(r.stack)-1]
		r.Restores++
		r.Ops = append(r.Ops, CanvasOp{Kind: "restore", Matrix: r.matrix})
	}
}

// Concat implements Canvas.
func (r *RecordingCanvas) Concat(m Matrix) {
	r.matrix = r.matrix.Mul(m)
	r.Ops = append(r.Ops, CanvasOp{Kind: "concat", Matrix: r.matrix})
}

// ClipPath implements Canvas.
func (r *RecordingCanvas) ClipPath(p *Path, op ClipOp) {
	r.Ops = append(r.Ops, CanvasOp{Kind: "clip", Matrix: r.matrix, Path: p, ClipOp: op})
}

// FillPath implements Canvas.
func (r *RecordingCanvas) FillPath(p *Path, c Color) {
	r.Ops = append(r.Ops, CanvasOp{Kind: "fill", Matrix: r.matrix, Path: p, Color: c})
}

// DrawImage implements Canvas.
func (r *RecordingCanvas) DrawImage(img image.Image, dst Rect, alpha float64) error {
	r.Ops = append(r.Ops, CanvasOp{Kind: "image", Matrix: r.matrix, Rect: dst, Alpha: alpha})
	if r.FailImages {
		return fmt.Errorf("recording canvas: image %v rejected", img.Bounds())
	}
	return nil
}

// OpsOfKind returns the recorded ops with the given kind.
func (r *RecordingCanvas) OpsOfKind(kind string) []CanvasOp {
	var out []CanvasOp
	for _, op := range r.Ops {
		if op.Kind == kind {
			out = append(out, op)
		}
	}
	return out
}

// Reset clears recorded ops and counters but keeps the bounds.
func (r *RecordingCanvas) Reset() {
	r.Ops = r.Ops[:0]
	r.Saves, r.Restores = 0, 0
	r.stack = r.stack[:0]
	r.matrix = Identity
}
