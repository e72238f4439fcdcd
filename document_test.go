package sapling

import (
	"sync"
	"testing"
)

func TestNewDocumentDefaults(t *testing.T) {
	d := NewDocument(Config{})
	if d.Scale() != 1 {
		t.Errorf("scale = %v, want 1", d.Scale())
	}
	if d.fontSize != DefaultFontSize {
		t.Errorf("font size = %v, want %v", d.fontSize, DefaultFontSize)
	}
	if !d.Alive(d.Root()) || d.Node(d.Root()).Type != NodeTypeRoot {
		t.Error("root missing")
	}
	if !d.NeedsRedraw() {
		t.Error("new document should need a first draw")
	}
}

func TestPostDrainFromGoroutines(t *testing.T) {
	var requests int
	var mu sync.Mutex
	d := NewDocument(Config{Redraw: RedrawFunc(func() {
		mu.Lock()
		requests++
		mu.Unlock()
	})})

	var ran int
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d.Post(func() { ran++ })
		}()
	}
	wg.Wait()
	if d.Pending() != 10 {
		t.Fatalf("pending = %d, want 10", d.Pending())
	}
	if n := d.Drain(); n != 10 || ran != 10 {
		t.Errorf("drained %d, ran %d, want 10", n, ran)
	}
	if d.Drain() != 0 {
		t.Error("second drain ran tasks")
	}
	mu.Lock()
	defer mu.Unlock()
	if requests != 10 {
		t.Errorf("redraw requests = %d, want one per post", requests)
	}
}

func TestCloseDropsTasks(t *testing.T) {
	d := NewDocument(Config{})
	d.Post(func() { t.Error("task ran after Close") })
	epoch := d.currentEpoch()
	d.Close()
	d.Post(func() { t.Error("task ran after Close") })
	if d.Drain() != 0 {
		t.Error("tasks survived Close")
	}
	if d.aliveAt(epoch) {
		t.Error("epoch still alive after Close")
	}
}

func TestSetViewportSameSizeKeepsCaches(t *testing.T) {
	d := NewDocument(Config{Width: 100, Height: 100})
	r := newRect(d, "0", "0", "10", "10", "")
	p := d.FillPath(r)
	d.SetViewport(100, 100)
	if d.FillPath(r) != p {
		t.Error("unchanged viewport dropped cached paths")
	}
}
