package sapling

import "math"

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
// Premultiplication occurs at canvas submission time.
type Color struct {
	R, G, B, A float64
}

// ColorBlack is the default fill color for shapes.
var ColorBlack = Color{0, 0, 0, 1}

// ColorWhite is the opaque white color.
var ColorWhite = Color{1, 1, 1, 1}

// Vec2 is a 2D point or vector.
type Vec2 struct {
	X, Y float64
}

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Right returns the X coordinate of the right edge.
func (r Rect) Right() float64 { return r.X + r.Width }

// Bottom returns the Y coordinate of the bottom edge.
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// IsEmpty reports whether the rectangle has no area.
func (r Rect) IsEmpty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// NodeType distinguishes rendering behavior for a Node.
type NodeType uint8

const (
	NodeTypeRoot     NodeType = iota // document root; defines the device viewport
	NodeTypeGroup                    // container; may establish a text scope
	NodeTypeRect                     // rectangle with optional rounded corners
	NodeTypeCircle                   // circle from cx, cy, r
	NodeTypeEllipse                  // ellipse from cx, cy, rx, ry
	NodeTypeImage                    // bitmap fitted into a target rectangle
	NodeTypeClipPath                 // clip-path definition; never drawn
)

// String returns the lowercase SVG-ish name of the node type.
func (t NodeType) String() string {
	switch t {
	case NodeTypeRoot:
		return "svg"
	case NodeTypeGroup:
		return "g"
	case NodeTypeRect:
		return "rect"
	case NodeTypeCircle:
		return "circle"
	case NodeTypeEllipse:
		return "ellipse"
	case NodeTypeImage:
		return "image"
	case NodeTypeClipPath:
		return "clipPath"
	default:
		return "unknown"
	}
}

// producesPath reports whether nodes of this type have a fill path.
func (t NodeType) producesPath() bool {
	return t != NodeTypeRoot
}

// isShape reports whether nodes of this type draw a filled outline.
func (t NodeType) isShape() bool {
	return t == NodeTypeRect || t == NodeTypeCircle || t == NodeTypeEllipse
}

// ClipRule selects how a clip path's own overlapping contours combine.
// The numeric codes match the declarative input format.
type ClipRule int

const (
	ClipRuleEvenOdd ClipRule = 0
	ClipRuleNonZero ClipRule = 1
)

// FillRule selects which enclosed regions of a shape are painted.
type FillRule uint8

const (
	FillRuleNonZero FillRule = iota
	FillRuleEvenOdd
)

// MeetOrSlice selects how a viewbox is scaled into its viewport.
type MeetOrSlice uint8

const (
	Meet            MeetOrSlice = iota // fit entirely inside, preserving aspect ratio
	Slice                              // cover entirely, preserving aspect ratio, cropped
	MeetOrSliceNone                    // stretch without preserving aspect ratio
)

const (
	// MinOpacityForDraw is the accumulated opacity below which a node and its
	// subtree are skipped entirely.
	MinOpacityForDraw = 0.01

	// DefaultFontSize is the font size used when no scope defines one.
	DefaultFontSize = 12.0
)

// sqrt1_2 is 1/sqrt(2), used by the diagonal reference length.
const sqrt1_2 = 0.707106781186547524400844362104849039

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
