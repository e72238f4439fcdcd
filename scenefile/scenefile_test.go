package scenefile

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"strings"
	"sync"
	"testing"

	"github.com/phanxgames/sapling"
)

const clippedScene = `
width: 100
height: 100
background: "#fff"
children:
  - type: clipPath
    name: c
    children:
      - {type: rect, x: 10, width: 50, height: 100}
  - type: group
    name: g
    opacity: 0.5
    textScope: {width: 40, height: 40, fontSize: 10}
    children:
      - type: rect
        name: target
        width: 50%
        height: 2em
        rx: 4
        fill: "#ff000080"
        clipPath: c
        clipRule: evenodd
        responsible: true
        matrix: "1 0 0 1 10 0"
`

func parse(t *testing.T, src string, cfg sapling.Config) *Scene {
	t.Helper()
	s, err := Parse([]byte(src), cfg)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func assertNear(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

func TestParseScene(t *testing.T) {
	s := parse(t, clippedScene, sapling.Config{})
	if s.Width != 100 || s.Height != 100 {
		t.Errorf("size = %vx%v", s.Width, s.Height)
	}
	if s.Background != sapling.ColorWhite {
		t.Errorf("background = %+v", s.Background)
	}
	if vp := s.Doc.Viewport(); vp.Width != 100 {
		t.Errorf("viewport = %+v", vp)
	}

	target, ok := s.IDs["target"]
	if !ok {
		t.Fatal("target not registered")
	}
	if got := s.Doc.Parent(target); got != s.IDs["g"] {
		t.Error("target not nested in group")
	}
	assertNear(t, "opacity", s.Doc.Opacity(s.IDs["g"]), 0.5)
	if s.Doc.Length(target, sapling.AttrWidth) != "50%" {
		t.Errorf("width = %q", s.Doc.Length(target, sapling.AttrWidth))
	}

	b := s.Doc.FillPath(target).Bounds()
	assertNear(t, "width from scope", b.Width, 20)
	assertNear(t, "height from em", b.Height, 20)

	m := s.Doc.LocalMatrix(target)
	assertNear(t, "tx", m[4], 10)

	if _, ok := s.Doc.LookupClipPath("c"); !ok {
		t.Error("clip path not defined")
	}
	clip, ok := s.Doc.ResolveClip(target)
	if !ok || clip.FillType != sapling.FillEvenOdd {
		t.Error("clip not resolved with evenodd rule")
	}
	if id, ok := s.Doc.HitTest(28, 10); !ok || id != target {
		t.Errorf("hit = %v, %v", id, ok)
	}
}

func TestParseRendersThroughPipeline(t *testing.T) {
	s := parse(t, clippedScene, sapling.Config{})
	rc := sapling.NewRecordingCanvas(100, 100)
	if err := s.Doc.Render(rc); err != nil {
		t.Fatal(err)
	}
	fills := rc.OpsOfKind("fill")
	if len(fills) != 1 {
		t.Fatalf("fills = %d, want 1", len(fills))
	}
	assertNear(t, "alpha", fills[0].Color.A, 0.5*128.0/255)
	if rc.Depth() != 0 {
		t.Error("unbalanced canvas")
	}
}

func TestConfigOverridesFile(t *testing.T) {
	s := parse(t, "width: 100\nheight: 50\nscale: 2\n", sapling.Config{Width: 300, Height: 200, Scale: 3})
	if vp := s.Doc.Viewport(); vp.Width != 300 || vp.Height != 200 {
		t.Errorf("viewport = %+v", vp)
	}
	if s.Doc.Scale() != 3 {
		t.Errorf("scale = %v", s.Doc.Scale())
	}
}

func TestParseImage(t *testing.T) {
	s := parse(t, `
children:
  - type: image
    name: photo
    width: 80
    src: {uri: "a.png", width: 200, height: 100}
    preserveAspectRatio: xMinYMin slice
`, sapling.Config{})
	id := s.IDs["photo"]
	if s.Doc.Node(id).Type != sapling.NodeTypeImage {
		t.Fatal("not an image")
	}
	b := s.Doc.FillPath(id).Bounds()
	assertNear(t, "width", b.Width, 80)
	assertNear(t, "natural height", b.Height, 100)
}

func TestParseColors(t *testing.T) {
	tests := []struct {
		in   string
		want sapling.Color
	}{
		{`"#000"`, sapling.ColorBlack},
		{`"#ffffff"`, sapling.ColorWhite},
		{`"#ff000000"`, sapling.Color{R: 1}},
		{`red`, sapling.Color{R: 1, A: 1}},
		{`{r: 0.5, g: 0.25}`, sapling.Color{R: 0.5, G: 0.25, A: 1}},
		{`{b: 1, a: 0}`, sapling.Color{B: 1}},
	}
	for _, tt := range tests {
		s := parse(t, "background: "+tt.in+"\n", sapling.Config{})
		if s.Background != tt.want {
			t.Errorf("%s = %+v, want %+v", tt.in, s.Background, tt.want)
		}
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name, src, want string
	}{
		{"not mapping", "- 1\n", "mapping"},
		{"unknown key", "bogus: 1\n", "bogus"},
		{"bad yaml", "children: [\n", ""},
		{"no type", "children:\n  - {width: 1}\n", "no type"},
		{"unknown type", "children:\n  - {type: path}\n", "path"},
		{"unknown prop", "children:\n  - {type: rect, stroke: red}\n", "stroke"},
		{"bad number", "children:\n  - {type: rect, opacity: lots}\n", "lots"},
		{"bad color", "background: \"#12\"\n", "#12"},
		{"bad fill rule", "children:\n  - {type: rect, fillRule: odd}\n", "odd"},
		{"scope on rect", "children:\n  - {type: rect, textScope: {width: 1}}\n", "groups"},
		{"rect children", "children:\n  - {type: rect, children: []}\n", "children"},
		{"src on rect", "children:\n  - {type: rect, src: a.png}\n", "images"},
		{"bad aspect", "children:\n  - {type: image, preserveAspectRatio: xMidYMid crop}\n", "crop"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.src), sapling.Config{})
			if !errors.Is(err, ErrInvalid) {
				t.Fatalf("err = %v, want ErrInvalid", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want mention of %q", err, tt.want)
			}
		})
	}
}

func TestErrorsCarryLine(t *testing.T) {
	_, err := Parse([]byte("width: 1\nchildren:\n  - type: rect\n    opacity: x\n"), sapling.Config{})
	if err == nil || !strings.Contains(err.Error(), "line 4") {
		t.Errorf("err = %v, want line 4", err)
	}
}

// warnRecorder counts warn-level records.
type warnRecorder struct {
	mu   sync.Mutex
	msgs []string
}

func (w *warnRecorder) Enabled(_ context.Context, l slog.Level) bool { return l >= slog.LevelWarn }
func (w *warnRecorder) WithAttrs([]slog.Attr) slog.Handler          { return w }
func (w *warnRecorder) WithGroup(string) slog.Handler               { return w }
func (w *warnRecorder) Handle(_ context.Context, r slog.Record) error {
	w.mu.Lock()
	w.msgs = append(w.msgs, r.Message)
	w.mu.Unlock()
	return nil
}

func TestBadMatrixAndClipRuleReachDocument(t *testing.T) {
	rec := &warnRecorder{}
	s := parse(t, `
children:
  - type: clipPath
    name: c
    children: [{type: rect, width: 10, height: 10}]
  - type: rect
    name: r
    width: 10
    height: 10
    matrix: [1, 0, 0]
    clipPath: c
    clipRule: 7
`, sapling.Config{Logger: slog.New(rec)})
	r := s.IDs["r"]
	if s.Doc.LocalMatrix(r) != sapling.Identity {
		t.Error("bad matrix should reset to identity")
	}
	if _, ok := s.Doc.ResolveClip(r); !ok {
		t.Error("clip with unknown rule should still resolve")
	}
	rec.mu.Lock()
	defer rec.mu.Unlock()
	if len(rec.msgs) != 2 {
		t.Errorf("warnings = %v, want matrix and clip rule", rec.msgs)
	}
}

func TestLoadReader(t *testing.T) {
	s, err := Load(strings.NewReader("width: 10\nheight: 10\n"), sapling.Config{})
	if err != nil {
		t.Fatal(err)
	}
	if s.Doc == nil || len(s.Doc.Children(s.Doc.Root())) != 0 {
		t.Error("unexpected document")
	}
}

func TestParseColorExported(t *testing.T) {
	c, err := ParseColor(" Blue ")
	if err != nil || c != (sapling.Color{B: 1, A: 1}) {
		t.Errorf("ParseColor = %+v, %v", c, err)
	}
	_, err = ParseColor("#12345")
	if !errors.Is(err, ErrInvalid) {
		t.Errorf("err = %v, want ErrInvalid", err)
	}
	if strings.Count(err.Error(), "scenefile:") != 1 {
		t.Errorf("err = %q, want a single package prefix", err)
	}
}

func TestParseColorSVGNames(t *testing.T) {
	tests := []struct {
		in   string
		want sapling.Color
	}{
		{"orange", sapling.Color{R: 1, G: 165.0 / 255, A: 1}},
		{"navy", sapling.Color{B: 128.0 / 255, A: 1}},
		{"Silver", sapling.Color{R: 192.0 / 255, G: 192.0 / 255, B: 192.0 / 255, A: 1}},
		{"green", sapling.Color{G: 128.0 / 255, A: 1}},
		{"none", sapling.Color{}},
		{"transparent", sapling.Color{}},
	}
	for _, tt := range tests {
		c, err := ParseColor(tt.in)
		if err != nil {
			t.Errorf("ParseColor(%q): %v", tt.in, err)
			continue
		}
		if c != tt.want {
			t.Errorf("ParseColor(%q) = %+v, want %+v", tt.in, c, tt.want)
		}
	}
	if _, err := ParseColor("chartreux"); !errors.Is(err, ErrInvalid) {
		t.Errorf("unknown name: err = %v, want ErrInvalid", err)
	}
}

func TestLineErrorsCarrySinglePrefix(t *testing.T) {
	_, err := Parse([]byte("bogus: 1\n"), sapling.Config{})
	if err == nil {
		t.Fatal("expected error")
	}
	if strings.Count(err.Error(), "scenefile:") != 1 {
		t.Errorf("err = %q, want a single package prefix", err)
	}
}
