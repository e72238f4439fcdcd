package ebitenview

import (
	"log/slog"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/phanxgames/sapling"
)

// RunConfig configures Run.
type RunConfig struct {
	// Title is the window title.
	Title string

	// Width and Height are the initial window size. Zero means 640x480.
	Width, Height int

	// Background fills the frame before each render.
	Background sapling.Color

	// ShowFPS draws an FPS/TPS counter in the top-left corner.
	ShowFPS bool

	// Update runs once per tick after posted document tasks are drained.
	// A non-nil error ends the game loop.
	Update func() error

	// Logger receives render failures. Nil means sapling.Logger().
	Logger *slog.Logger
}

// Game is an ebiten.Game that shows one document. The document is rendered
// into a cached frame only when it needs a redraw or the window size changes.
type Game struct {
	doc    *sapling.Document
	cfg    RunConfig
	canvas *Canvas
	frame  *ebiten.Image
	fps    *fpsOverlay

	renders int
}

// NewGame returns a game showing doc.
func NewGame(doc *sapling.Document, cfg RunConfig) *Game {
	g := &Game{doc: doc, cfg: cfg, canvas: NewCanvas()}
	if cfg.ShowFPS {
		g.fps = newFPSOverlay()
	}
	return g
}

// Renders returns how many times the document has been rendered.
func (g *Game) Renders() int {
	return g.renders
}

// Update implements ebiten.Game.
func (g *Game) Update() error {
	g.doc.Drain()
	if g.cfg.Update != nil {
		if err := g.cfg.Update(); err != nil {
			return err
		}
	}
	if g.fps != nil {
		tps := ebiten.TPS()
		if tps <= 0 {
			tps = 60
		}
		g.fps.update(1 / float64(tps))
	}
	return nil
}

// Draw implements ebiten.Game.
func (g *Game) Draw(screen *ebiten.Image) {
	b := screen.Bounds()
	if g.frame == nil || g.frame.Bounds().Size() != b.Size() {
		if g.frame != nil {
			g.frame.Deallocate()
		}
		g.frame = ebiten.NewImage(b.Dx(), b.Dy())
		g.doc.MarkNeedsRedraw()
	}
	if g.doc.NeedsRedraw() {
		g.render()
	}
	screen.DrawImage(g.frame, nil)
	if g.fps != nil {
		g.fps.draw(screen)
	}
}

func (g *Game) render() {
	g.frame.Fill(toNRGBA(g.cfg.Background))
	g.canvas.Begin(g.frame)
	if err := g.doc.Render(g.canvas); err != nil {
		g.logger().Warn("ebitenview: render failed", "err", err)
	}
	g.renders++
}

// Layout implements ebiten.Game. The document viewport follows the window.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return outsideWidth, outsideHeight
}

func (g *Game) logger() *slog.Logger {
	if g.cfg.Logger != nil {
		return g.cfg.Logger
	}
	return sapling.Logger()
}

// Run opens a resizable window and runs the game loop until the window is
// closed or Update returns an error. The document is closed on return.
func Run(doc *sapling.Document, cfg RunConfig) error {
	w, h := cfg.Width, cfg.Height
	if w <= 0 || h <= 0 {
		w, h = 640, 480
	}
	ebiten.SetWindowSize(w, h)
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	g := NewGame(doc, cfg)
	defer g.canvas.Dispose()
	defer doc.Close()
	return ebiten.RunGame(g)
}
