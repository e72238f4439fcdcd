package sapling

import (
	"math"
	"testing"
)

func TestCornerRadiiDefaulting(t *testing.T) {
	rx, ry := CornerRadii(0, 5, 100, 100)
	assertNear(t, "rx", rx, 5)
	assertNear(t, "ry", ry, 5)
}

func TestCornerRadiiDefaultBeforeClamp(t *testing.T) {
	rx, ry := CornerRadii(60, 0, 100, 40)
	assertNear(t, "rx", rx, 50)
	assertNear(t, "ry", ry, 20)
}

func TestCornerRadiiBoth(t *testing.T) {
	rx, ry := CornerRadii(0, 0, 100, 100)
	if rx != 0 || ry != 0 {
		t.Errorf("zero radii = (%v, %v)", rx, ry)
	}
	rx, ry = CornerRadii(3, 7, 100, 100)
	assertNear(t, "rx", rx, 3)
	assertNear(t, "ry", ry, 7)
}

func newRect(d *Document, x, y, w, h, rx string) NodeID {
	r := d.NewRect("rect")
	d.SetLength(r, AttrX, x)
	d.SetLength(r, AttrY, y)
	d.SetLength(r, AttrWidth, w)
	d.SetLength(r, AttrHeight, h)
	d.SetLength(r, AttrRx, rx)
	d.AddChild(d.Root(), r)
	return r
}

func TestRoundedRectEndToEnd(t *testing.T) {
	d := NewDocument(Config{Width: 100, Height: 100})
	r := newRect(d, "10", "10", "80", "40", "50")
	p := d.FillPath(r)
	b := p.Bounds()
	assertNear(t, "left", b.X, 10)
	assertNear(t, "top", b.Y, 10)
	assertNear(t, "right", b.Right(), 90)
	assertNear(t, "bottom", b.Bottom(), 50)

	// rx clamps to w/2=40 and ry to h/2=20: the contour starts 40 in from
	// the left edge and the first corner ends 20 below the top. The top
	// edge has zero length and is dropped.
	elements := p.Elements()
	first := elements[0]
	if first.Op != OpMoveTo {
		t.Fatalf("first op = %v, want MoveTo", first.Op)
	}
	assertNear(t, "start x", first.P[0].X, 50)
	var cubics int
	for _, e := range elements {
		if e.Op != OpCubicTo {
			continue
		}
		if cubics == 0 {
			assertNear(t, "corner end y", e.P[2].Y, 30)
		}
		cubics++
	}
	if cubics != 4 {
		t.Errorf("cubic corners = %d, want 4", cubics)
	}
	if !p.Contains(50, 30) {
		t.Error("center should be inside")
	}
}

func TestPlainRectHasNoCurves(t *testing.T) {
	d := NewDocument(Config{Width: 100, Height: 100})
	r := newRect(d, "0", "0", "50%", "25%", "")
	p := d.FillPath(r)
	for _, e := range p.Elements() {
		if e.Op == OpCubicTo {
			t.Fatal("plain rect emitted a curve")
		}
	}
	b := p.Bounds()
	assertNear(t, "w", b.Width, 50)
	assertNear(t, "h", b.Height, 25)
}

func TestFillPathCached(t *testing.T) {
	d := NewDocument(Config{Width: 100, Height: 100})
	r := newRect(d, "0", "0", "10", "10", "")
	p1 := d.FillPath(r)
	if p2 := d.FillPath(r); p1 != p2 {
		t.Error("fill path not cached")
	}
	d.SetLength(r, AttrWidth, "20")
	p3 := d.FillPath(r)
	if p3 == p1 {
		t.Error("fill path not recomputed after mutation")
	}
	assertNear(t, "new width", p3.Bounds().Width, 20)
}

func TestCircleRadiusOnDiagonal(t *testing.T) {
	d := NewDocument(Config{Width: 300, Height: 400})
	c := d.NewCircle("c")
	d.SetLength(c, AttrCx, "50%")
	d.SetLength(c, AttrCy, "50%")
	d.SetLength(c, AttrR, "10%")
	d.AddChild(d.Root(), c)
	b := d.FillPath(c).Bounds()
	r := 0.1 * 500 / math.Sqrt2
	assertNear(t, "width", b.Width, 2*r)
	assertNear(t, "cx", b.X+b.Width/2, 150)
	assertNear(t, "cy", b.Y+b.Height/2, 200)
}

func TestEllipseAxes(t *testing.T) {
	d := NewDocument(Config{Width: 200, Height: 100})
	e := d.NewEllipse("e")
	d.SetLength(e, AttrCx, "100")
	d.SetLength(e, AttrCy, "50")
	d.SetLength(e, AttrRx, "50%")
	d.SetLength(e, AttrRy, "10%")
	d.AddChild(d.Root(), e)
	b := d.FillPath(e).Bounds()
	assertNear(t, "w", b.Width, 200)
	assertNear(t, "h", b.Height, 20)
}

func TestGroupUnionAppliesChildMatrix(t *testing.T) {
	d := NewDocument(Config{Width: 100, Height: 100})
	g := d.NewGroup("g")
	d.AddChild(d.Root(), g)
	a := d.NewRect("a")
	d.SetLength(a, AttrWidth, "10")
	d.SetLength(a, AttrHeight, "10")
	b := d.NewRect("b")
	d.SetLength(b, AttrWidth, "10")
	d.SetLength(b, AttrHeight, "10")
	d.SetMatrix(b, []float64{1, 0, 0, 1, 30, 0})
	d.AddChild(g, a)
	d.AddChild(g, b)

	p := d.FillPath(g)
	bounds := p.Bounds()
	assertNear(t, "union width", bounds.Width, 40)
	if !p.Contains(35, 5) || !p.Contains(5, 5) || p.Contains(20, 5) {
		t.Error("union contains wrong regions")
	}

	// editing a child drops the group's cached union
	d.SetLength(a, AttrHeight, "50")
	assertNear(t, "union height", d.FillPath(g).Bounds().Height, 50)
}

func TestScaleAppliesToAbsoluteLengths(t *testing.T) {
	d := NewDocument(Config{Width: 200, Height: 200, Scale: 2})
	r := newRect(d, "5", "5", "10", "50%", "")
	b := d.FillPath(r).Bounds()
	assertNear(t, "x", b.X, 10)
	assertNear(t, "w", b.Width, 20)
	assertNear(t, "h", b.Height, 100)
}

func TestEvenOddFillRule(t *testing.T) {
	d := NewDocument(Config{Width: 100, Height: 100})
	r := newRect(d, "0", "0", "10", "10", "")
	d.SetFillRule(r, FillRuleEvenOdd)
	if d.FillPath(r).FillType != FillEvenOdd {
		t.Error("fill rule not applied")
	}
}
