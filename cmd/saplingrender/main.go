// Command saplingrender renders a YAML scene file to a PNG.
//
//	saplingrender -width 400 -out card.png card.yaml
//
// Settings may also come from a TOML file passed with -config; flags given
// on the command line take precedence:
//
//	scene = "card.yaml"
//	out = "card.png"
//	scale = 2
//	background = "#ffffff"
//	wait = "5s"
//	snapshots = "frames"
package main

import (
	"errors"
	"flag"
	"fmt"
	"image/color"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/phanxgames/sapling"
	"github.com/phanxgames/sapling/bitmapcache"
	"github.com/phanxgames/sapling/raster"
	"github.com/phanxgames/sapling/scenefile"
)

// Size used when neither the flags nor the scene give one.
const (
	defaultWidth  = 300
	defaultHeight = 150
)

func main() {
	if err := run(os.Args[1:], os.Stderr); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintf(os.Stderr, "saplingrender: %v\n", err)
		}
		os.Exit(1)
	}
}

func run(args []string, stderr io.Writer) error {
	cfg, err := loadConfig(args, stderr)
	if err != nil {
		return err
	}

	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	cache := bitmapcache.New(bitmapcache.Options{Root: cfg.Root, Logger: log})
	scene, err := scenefile.LoadFile(cfg.Scene, sapling.Config{
		Width:   float64(cfg.Width),
		Height:  float64(cfg.Height),
		Scale:   cfg.Scale,
		Debug:   cfg.Debug,
		Bitmaps: cache,
		Logger:  log,
	})
	if err != nil {
		return err
	}
	doc := scene.Doc
	defer doc.Close()

	w, h := outputSize(cfg, scene)
	bg := scene.Background
	if cfg.Background != "" {
		if bg, err = scenefile.ParseColor(cfg.Background); err != nil {
			return err
		}
	}
	canvas := raster.New(w, h, raster.Options{Background: nrgba(bg)})

	start := time.Now()
	var onFrame func(int) error
	if cfg.Snapshots != "" {
		base := strings.TrimSuffix(filepath.Base(cfg.Scene), filepath.Ext(cfg.Scene))
		onFrame = func(n int) error {
			path, err := canvas.Snapshot(cfg.Snapshots, fmt.Sprintf("%s frame %d", base, n))
			if err != nil {
				return err
			}
			log.Debug("saplingrender: snapshot", "frame", n, "path", path)
			return nil
		}
	}
	frames, err := settle(doc, canvas, cfg.wait, onFrame, log)
	if err != nil {
		return err
	}
	if err := canvas.SavePNG(cfg.Out); err != nil {
		return err
	}
	log.Info("rendered",
		"scene", cfg.Scene, "out", cfg.Out,
		"width", w, "height", h,
		"frames", frames, "images", cache.Len(),
		"elapsed", time.Since(start).Round(time.Millisecond))
	return nil
}

// outputSize picks the canvas size from the flags, then the scene, then the
// defaults. A single given dimension keeps the scene's aspect ratio.
func outputSize(cfg config, scene *scenefile.Scene) (int, int) {
	w, h := float64(cfg.Width), float64(cfg.Height)
	sw, sh := scene.Width, scene.Height
	switch {
	case w > 0 && h > 0:
	case w > 0 && sw > 0 && sh > 0:
		h = w * sh / sw
	case h > 0 && sw > 0 && sh > 0:
		w = h * sw / sh
	default:
		if w <= 0 {
			w = sw
		}
		if h <= 0 {
			h = sh
		}
	}
	if w <= 0 {
		w = defaultWidth
	}
	if h <= 0 {
		h = defaultHeight
	}
	return int(math.Ceil(w)), int(math.Ceil(h))
}

// settle renders until no image fetch is outstanding, re-rendering after each
// batch of completions that asks for a redraw. It gives up waiting after
// wait and keeps whatever was drawn. onFrame, if set, runs after every
// frame. It returns the number of frames drawn.
func settle(doc *sapling.Document, canvas *raster.Canvas, wait time.Duration, onFrame func(int) error, log *slog.Logger) (int, error) {
	frames := 0
	draw := func() error {
		canvas.Clear()
		frames++
		if err := doc.Render(canvas); err != nil {
			return err
		}
		if onFrame != nil {
			return onFrame(frames)
		}
		return nil
	}
	if err := draw(); err != nil {
		return frames, err
	}

	deadline := time.Now().Add(wait)
	for doc.Fetches() > 0 || doc.Pending() > 0 {
		if doc.Pending() == 0 {
			if time.Now().After(deadline) {
				log.Warn("saplingrender: gave up waiting for images", "fetches", doc.Fetches())
				break
			}
			time.Sleep(5 * time.Millisecond)
			continue
		}
		doc.Drain()
		if doc.NeedsRedraw() {
			if err := draw(); err != nil {
				return frames, err
			}
		}
	}
	return frames, nil
}

// nrgba converts a sapling color for the raster background. Transparent
// colors yield nil so the canvas starts clear.
func nrgba(c sapling.Color) color.Color {
	if c.A <= 0 {
		return nil
	}
	u := func(v float64) uint8 {
		return uint8(math.Round(math.Max(0, math.Min(1, v)) * 255))
	}
	return color.NRGBA{R: u(c.R), G: u(c.G), B: u(c.B), A: u(c.A)}
}
