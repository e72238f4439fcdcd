package raster

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/phanxgames/sapling"
)

func alphaAt(c *Canvas, x, y int) uint8 {
	return c.Image().RGBAAt(x, y).A
}

func assertAlpha(t *testing.T, c *Canvas, x, y int, want uint8) {
	t.Helper()
	if got := alphaAt(c, x, y); absDiff(got, want) > 2 {
		t.Errorf("alpha at (%d,%d) = %d, want %d", x, y, got, want)
	}
}

func absDiff(a, b uint8) uint8 {
	if a > b {
		return a - b
	}
	return b - a
}

func rectPath(x, y, w, h float64) *sapling.Path {
	p := sapling.NewPath()
	p.AddRect(sapling.Rect{X: x, Y: y, Width: w, Height: h})
	return p
}

func TestFillPath(t *testing.T) {
	c := New(100, 100, Options{})
	c.FillPath(rectPath(10, 10, 40, 40), sapling.ColorBlack)
	assertAlpha(t, c, 20, 20, 255)
	assertAlpha(t, c, 60, 60, 0)
}

func TestFillPathUsesMatrix(t *testing.T) {
	c := New(100, 100, Options{})
	c.Concat(sapling.Translate(50, 50))
	c.FillPath(rectPath(0, 0, 10, 10), sapling.ColorBlack)
	assertAlpha(t, c, 5, 5, 0)
	assertAlpha(t, c, 55, 55, 255)
}

func TestFillEvenOddHole(t *testing.T) {
	c := New(100, 100, Options{})
	p := rectPath(0, 0, 100, 100)
	p.AddRect(sapling.Rect{X: 25, Y: 25, Width: 50, Height: 50})
	p.FillType = sapling.FillEvenOdd
	c.FillPath(p, sapling.ColorBlack)
	assertAlpha(t, c, 10, 10, 255)
	assertAlpha(t, c, 50, 50, 0)
}

func TestFillInverse(t *testing.T) {
	c := New(100, 100, Options{})
	p := rectPath(25, 25, 50, 50)
	p.FillType = sapling.FillInverseWinding
	c.FillPath(p, sapling.ColorBlack)
	assertAlpha(t, c, 10, 10, 255)
	assertAlpha(t, c, 50, 50, 0)
}

func TestClipOps(t *testing.T) {
	tests := []struct {
		name    string
		op      sapling.ClipOp
		in, out image.Point
	}{
		{"intersect", sapling.ClipIntersect, image.Pt(30, 30), image.Pt(10, 10)},
		{"difference", sapling.ClipDifference, image.Pt(10, 10), image.Pt(30, 30)},
		{"replace", sapling.ClipReplace, image.Pt(60, 60), image.Pt(10, 10)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(100, 100, Options{})
			c.ClipPath(rectPath(0, 0, 50, 50), sapling.ClipReplace)
			c.ClipPath(rectPath(20, 20, 80, 80), tt.op)
			c.FillPath(rectPath(0, 0, 100, 100), sapling.ColorBlack)
			assertAlpha(t, c, tt.in.X, tt.in.Y, 255)
			assertAlpha(t, c, tt.out.X, tt.out.Y, 0)
		})
	}
}

func TestRestoreToCountRestoresClipAndMatrix(t *testing.T) {
	c := New(100, 100, Options{})
	n := c.Save()
	c.Concat(sapling.Translate(10, 0))
	c.ClipPath(rectPath(0, 0, 10, 10), sapling.ClipIntersect)
	c.Save()
	c.RestoreToCount(n)
	if c.Depth() != 0 {
		t.Errorf("depth = %d, want 0", c.Depth())
	}
	if c.Matrix() != sapling.Identity {
		t.Errorf("matrix = %v, want identity", c.Matrix())
	}
	c.FillPath(rectPath(0, 0, 100, 100), sapling.ColorBlack)
	assertAlpha(t, c, 90, 90, 255)
}

func TestDrawImageScalesWithAlpha(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 10, 10))
	for i := 0; i < len(src.Pix); i += 4 {
		src.Pix[i], src.Pix[i+3] = 255, 255
	}
	c := New(100, 100, Options{})
	if err := c.DrawImage(src, sapling.Rect{X: 10, Y: 10, Width: 40, Height: 40}, 0.5); err != nil {
		t.Fatal(err)
	}
	assertAlpha(t, c, 30, 30, 128)
	assertAlpha(t, c, 70, 70, 0)
	if r := c.Image().RGBAAt(30, 30).R; absDiff(r, 128) > 2 {
		t.Errorf("red = %d, want 128", r)
	}
}

func TestDrawImageClipped(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.Set(x, y, color.White)
		}
	}
	c := New(100, 100, Options{})
	c.ClipPath(rectPath(0, 0, 50, 100), sapling.ClipReplace)
	if err := c.DrawImage(img, sapling.Rect{Width: 100, Height: 100}, 1); err != nil {
		t.Fatal(err)
	}
	assertAlpha(t, c, 25, 50, 255)
	assertAlpha(t, c, 75, 50, 0)
}

func TestRenderDocumentWithClip(t *testing.T) {
	d := sapling.NewDocument(sapling.Config{})
	def := d.NewClipPath("c")
	d.AddChild(d.Root(), def)
	cr := d.NewRect("clipRect")
	d.SetLength(cr, sapling.AttrX, "25")
	d.SetLength(cr, sapling.AttrWidth, "50")
	d.SetLength(cr, sapling.AttrHeight, "100")
	d.AddChild(def, cr)

	r := d.NewRect("target")
	d.SetLength(r, sapling.AttrWidth, "100%")
	d.SetLength(r, sapling.AttrHeight, "50%")
	d.SetClipPath(r, "c")
	d.AddChild(d.Root(), r)

	c := New(100, 100, Options{})
	if err := d.Render(c); err != nil {
		t.Fatal(err)
	}
	if c.Depth() != 0 {
		t.Errorf("unbalanced depth %d", c.Depth())
	}
	assertAlpha(t, c, 10, 10, 0)
	assertAlpha(t, c, 50, 10, 255)
	assertAlpha(t, c, 50, 70, 0)
}

func TestBackground(t *testing.T) {
	c := New(4, 4, Options{Background: color.White})
	if got := c.Image().RGBAAt(1, 1); got != (color.RGBA{255, 255, 255, 255}) {
		t.Errorf("background = %v", got)
	}
}

func TestSavePNG(t *testing.T) {
	c := New(8, 8, Options{})
	c.FillPath(rectPath(0, 0, 8, 8), sapling.ColorBlack)
	path, err := c.Snapshot(t.TempDir(), "frame one")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(filepath.Base(path), "_frame_one.png") {
		t.Errorf("path = %q", path)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != 8 {
		t.Errorf("width = %d", img.Bounds().Dx())
	}
}

func TestSanitizeLabel(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"hello", "hello"},
		{"after-load", "after-load"},
		{"frame.01", "frame.01"},
		{"has spaces", "has_spaces"},
		{"path/to/thing", "path_to_thing"},
		{"", "unlabeled"},
		{"   ", "unlabeled"},
	}
	for _, tt := range tests {
		if got := sanitizeLabel(tt.in); got != tt.want {
			t.Errorf("sanitizeLabel(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
