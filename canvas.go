package sapling

import "image"

// ClipOp selects how a path combines with the current clip region.
type ClipOp uint8

const (
	ClipIntersect  ClipOp = iota // keep only the area inside both
	ClipDifference               // remove the path's area from the clip
	ClipReplace                  // discard the current clip and use the path
)

// String returns the operation name.
func (op ClipOp) String() string {
	switch op {
	case ClipIntersect:
		return "intersect"
	case ClipDifference:
		return "difference"
	case ClipReplace:
		return "replace"
	default:
		return "unknown"
	}
}

// Canvas is the rasterizer the render pipeline draws into. Implementations
// keep a stack of (matrix, clip) states. Every geometry argument is in the
// current user space and is mapped by the accumulated matrix.
//
// A Canvas is used from the render goroutine only.
type Canvas interface {
	// Bounds returns the device-space drawable area.
	Bounds() Rect

	// Save pushes the current state and returns the depth before the push.
	Save() int

	// RestoreToCount pops states until the depth equals count.
	RestoreToCount(count int)

	// Concat post-multiplies the current matrix by m.
	Concat(m Matrix)

	// ClipPath combines the filled area of p, under p.FillType, with the
	// current clip region.
	ClipPath(p *Path, op ClipOp)

	// FillPath paints the interior of p with c. c.A already includes the
	// accumulated opacity.
	FillPath(p *Path, c Color)

	// DrawImage draws img scaled into dst with the given opacity.
	DrawImage(img image.Image, dst Rect, alpha float64) error
}
