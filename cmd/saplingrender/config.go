package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// config holds the render settings. Values come from defaults, then the
// optional TOML file, then flags that were set explicitly.
type config struct {
	Scene      string  `toml:"scene"`
	Out        string  `toml:"out"`
	Width      int     `toml:"width"`
	Height     int     `toml:"height"`
	Scale      float64 `toml:"scale"`
	Background string  `toml:"background"`
	Root       string  `toml:"root"`
	Debug      bool    `toml:"debug"`

	// Snapshots names a directory that receives a PNG of every frame
	// drawn while images settle.
	Snapshots string `toml:"snapshots"`

	// Wait bounds how long image fetches may run after the first frame,
	// as a time.ParseDuration string.
	Wait string `toml:"wait"`

	wait time.Duration
}

const defaultWait = 10 * time.Second

var errUsage = errors.New("usage: saplingrender [flags] scene.yaml")

func defaultConfig() config {
	return config{Wait: defaultWait.String()}
}

// loadConfig parses args. A -config file is read first and explicit flags
// override it. A positional argument names the scene.
func loadConfig(args []string, stderr io.Writer) (config, error) {
	fs := flag.NewFlagSet("saplingrender", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var flags config
	configPath := fs.String("config", "", "TOML settings file")
	fs.StringVar(&flags.Scene, "scene", "", "scene file (YAML)")
	fs.StringVar(&flags.Out, "out", "", "output PNG; defaults to the scene name with .png")
	fs.IntVar(&flags.Width, "width", 0, "output width in pixels; defaults to the scene width")
	fs.IntVar(&flags.Height, "height", 0, "output height in pixels; defaults to the scene height")
	fs.Float64Var(&flags.Scale, "scale", 0, "device scale factor")
	fs.StringVar(&flags.Background, "background", "", "background color name or hex")
	fs.StringVar(&flags.Root, "root", "", "directory relative image paths resolve against")
	fs.BoolVar(&flags.Debug, "debug", false, "enable debug logging and render statistics")
	fs.StringVar(&flags.Wait, "wait", "", "maximum time to wait for images")
	fs.StringVar(&flags.Snapshots, "snapshots", "", "directory to write every intermediate frame to")
	if err := fs.Parse(args); err != nil {
		return config{}, err
	}

	cfg := defaultConfig()
	if *configPath != "" {
		if err := readConfigFile(*configPath, &cfg); err != nil {
			return config{}, err
		}
		if cfg.Root == "" {
			cfg.Root = filepath.Dir(*configPath)
		}
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "scene":
			cfg.Scene = flags.Scene
		case "out":
			cfg.Out = flags.Out
		case "width":
			cfg.Width = flags.Width
		case "height":
			cfg.Height = flags.Height
		case "scale":
			cfg.Scale = flags.Scale
		case "background":
			cfg.Background = flags.Background
		case "root":
			cfg.Root = flags.Root
		case "debug":
			cfg.Debug = flags.Debug
		case "wait":
			cfg.Wait = flags.Wait
		case "snapshots":
			cfg.Snapshots = flags.Snapshots
		}
	})

	switch fs.NArg() {
	case 0:
	case 1:
		cfg.Scene = fs.Arg(0)
	default:
		return config{}, errUsage
	}
	if cfg.Scene == "" {
		return config{}, errUsage
	}
	if cfg.Out == "" {
		cfg.Out = strings.TrimSuffix(cfg.Scene, filepath.Ext(cfg.Scene)) + ".png"
	}
	if cfg.Width < 0 || cfg.Height < 0 {
		return config{}, fmt.Errorf("size %dx%d must not be negative", cfg.Width, cfg.Height)
	}
	d, err := time.ParseDuration(cfg.Wait)
	if err != nil {
		return config{}, fmt.Errorf("wait: %w", err)
	}
	cfg.wait = d
	return cfg, nil
}

func readConfigFile(path string, cfg *config) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	dec := toml.NewDecoder(f).DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return fmt.Errorf("%s: %s", path, strict.String())
		}
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}
