package sapling

import "testing"

func TestHitTestTopmostFirst(t *testing.T) {
	d := NewDocument(Config{Width: 100, Height: 100})
	below := newRect(d, "0", "0", "50", "50", "")
	above := newRect(d, "25", "25", "50", "50", "")
	d.SetResponsible(below, true)
	d.SetResponsible(above, true)

	if id, ok := d.HitTest(30, 30); !ok || id != above {
		t.Errorf("overlap hit = %v, want above", id)
	}
	if id, ok := d.HitTest(10, 10); !ok || id != below {
		t.Errorf("hit = %v, want below", id)
	}
	if _, ok := d.HitTest(90, 10); ok {
		t.Error("empty area hit")
	}
}

func TestHitTestSingularMatrixNoHit(t *testing.T) {
	d := NewDocument(Config{Width: 100, Height: 100})
	r := newRect(d, "0", "0", "50", "50", "")
	d.SetResponsible(r, true)
	d.SetMatrix(r, []float64{0, 0, 0, 0, 0, 0})
	if d.Invertible(r) {
		t.Fatal("singular matrix reported invertible")
	}
	if _, ok := d.HitTest(0, 0); ok {
		t.Error("non-invertible node was hit")
	}
}

func TestHitTestAppliesMatrix(t *testing.T) {
	d := NewDocument(Config{Width: 100, Height: 100})
	r := newRect(d, "0", "0", "10", "10", "")
	d.SetResponsible(r, true)
	d.SetMatrix(r, []float64{2, 0, 0, 2, 50, 50})
	if _, ok := d.HitTest(5, 5); ok {
		t.Error("hit at untransformed location")
	}
	if id, ok := d.HitTest(65, 65); !ok || id != r {
		t.Error("miss at transformed location")
	}
}

func TestHitTestClipLimitsRegion(t *testing.T) {
	d, _, _, target := clipScene(t, Config{Width: 100, Height: 100})
	d.SetResponsible(target, true)
	if _, ok := d.HitTest(10, 10); ok {
		t.Error("hit outside clip")
	}
	if id, ok := d.HitTest(50, 10); !ok || id != target {
		t.Error("miss inside clip")
	}
}

func TestHitTestResponsibleGroupClaimsHit(t *testing.T) {
	d := NewDocument(Config{Width: 100, Height: 100})
	g := d.NewGroup("button")
	d.AddChild(d.Root(), g)
	d.SetResponsible(g, true)
	r := d.NewRect("face")
	d.SetLength(r, AttrWidth, "40")
	d.SetLength(r, AttrHeight, "40")
	d.AddChild(g, r)
	if id, ok := d.HitTest(20, 20); !ok || id != g {
		t.Errorf("hit = %v, want group", id)
	}
}

func TestHitTestNonResponsibleTransparent(t *testing.T) {
	d := NewDocument(Config{Width: 100, Height: 100})
	target := newRect(d, "0", "0", "50", "50", "")
	d.SetResponsible(target, true)
	newRect(d, "0", "0", "50", "50", "") // decoration on top
	if id, ok := d.HitTest(10, 10); !ok || id != target {
		t.Errorf("hit = %v, want target beneath decoration", id)
	}
}
