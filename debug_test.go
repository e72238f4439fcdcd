package sapling

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

// ---- Debug mode tests ------------------------------------------------------

func debugDoc(buf *bytes.Buffer, debug bool) *Document {
	log := slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return NewDocument(Config{Width: 100, Height: 100, Logger: log, Debug: debug})
}

func TestDebugMode_FrameStats(t *testing.T) {
	var buf bytes.Buffer
	d := debugDoc(&buf, true)

	g := d.NewGroup("g")
	d.AddChild(d.Root(), g)
	for i := 0; i < 3; i++ {
		r := d.NewRect("r")
		d.SetLength(r, AttrWidth, "10")
		d.SetLength(r, AttrHeight, "10")
		d.AddChild(g, r)
	}
	if err := d.Render(NewRecordingCanvas(100, 100)); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	if !strings.Contains(out, "sapling: frame") {
		t.Fatalf("expected a frame record, got: %s", out)
	}
	// root + group + three rects
	if !strings.Contains(out, "nodes=5") {
		t.Errorf("node count missing: %s", out)
	}
	if !strings.Contains(out, "draws=3") || !strings.Contains(out, "clips=3") {
		t.Errorf("draw or clip count missing: %s", out)
	}
}

func TestDebugMode_OffIsSilent(t *testing.T) {
	var buf bytes.Buffer
	d := debugDoc(&buf, false)
	r := d.NewRect("r")
	d.AddChild(d.Root(), r)
	if err := d.Render(NewRecordingCanvas(100, 100)); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != 0 {
		t.Errorf("expected no output with debug off, got: %s", buf.String())
	}
}

func TestDebugMode_Toggle(t *testing.T) {
	var buf bytes.Buffer
	d := debugDoc(&buf, false)
	d.SetDebugMode(true)
	if err := d.Render(NewRecordingCanvas(100, 100)); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "sapling: frame") {
		t.Error("SetDebugMode(true) did not enable frame stats")
	}

	buf.Reset()
	d.SetDebugMode(false)
	if err := d.Render(NewRecordingCanvas(100, 100)); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != 0 {
		t.Errorf("SetDebugMode(false) left output: %s", buf.String())
	}
}

func TestDebugMode_WarnsOnChildCount(t *testing.T) {
	var buf bytes.Buffer
	d := debugDoc(&buf, true)
	g := d.NewGroup("crowded")
	d.AddChild(d.Root(), g)
	for i := 0; i <= debugMaxChildCount; i++ {
		d.AddChild(g, d.NewRect(""))
	}
	out := buf.String()
	if !strings.Contains(out, "child count exceeds threshold") {
		t.Fatalf("expected child count warning, got: %s", out)
	}
	if strings.Count(out, "child count exceeds threshold") != 1 {
		t.Errorf("expected exactly one warning, got: %s", out)
	}
}
