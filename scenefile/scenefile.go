// Package scenefile builds sapling documents from YAML scene descriptions.
//
// A scene is a mapping with optional document settings and a list of
// nodes:
//
//	width: 200
//	height: 100
//	background: "#ffffff"
//	children:
//	  - type: clipPath
//	    name: window
//	    children:
//	      - {type: circle, cx: 50%, cy: 50%, r: 40%}
//	  - type: rect
//	    width: 100%
//	    height: 100%
//	    fill: "#3366cc"
//	    clipPath: window
//
// Node properties are applied in file order, the way a host forwards props
// to a view, so later keys see the effects of earlier ones.
package scenefile

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/phanxgames/sapling"
	"gopkg.in/yaml.v3"
)

// ErrInvalid is wrapped by every error describing malformed scene content.
var ErrInvalid = errors.New("scenefile: invalid scene")

// Scene is a loaded scene file.
type Scene struct {
	Doc *sapling.Document

	// Width and Height are the declared canvas size in device pixels, zero
	// when the file leaves them out.
	Width, Height float64

	// Background is the declared background color. The zero value is
	// transparent.
	Background sapling.Color

	// IDs maps node names to handles. When names repeat, the last node wins.
	IDs map[string]sapling.NodeID
}

// LoadFile reads and parses the scene file at path.
func LoadFile(path string, cfg sapling.Config) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scenefile: %w", err)
	}
	s, err := Parse(data, cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Load reads a scene from r.
func Load(r io.Reader, cfg sapling.Config) (*Scene, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("scenefile: %w", err)
	}
	return Parse(data, cfg)
}

// Parse builds a document from YAML scene content. Settings in the file
// fill in Width, Height, Scale and FontSize when cfg leaves them zero.
func Parse(data []byte, cfg sapling.Config) (*Scene, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, fmt.Errorf("%w: empty document", ErrInvalid)
	}
	top := doc.Content[0]
	if top.Kind != yaml.MappingNode {
		return nil, invalid(top, "top level must be a mapping")
	}

	s := &Scene{IDs: make(map[string]sapling.NodeID)}
	var children *yaml.Node
	for i := 0; i+1 < len(top.Content); i += 2 {
		key, val := top.Content[i], top.Content[i+1]
		var err error
		switch key.Value {
		case "width":
			s.Width, err = number(val)
		case "height":
			s.Height, err = number(val)
		case "scale":
			if cfg.Scale == 0 {
				cfg.Scale, err = number(val)
			}
		case "fontSize":
			if cfg.FontSize == 0 {
				cfg.FontSize, err = number(val)
			}
		case "background":
			s.Background, err = colorValue(val)
		case "debug":
			err = val.Decode(&cfg.Debug)
		case "children":
			children = val
		default:
			err = invalid(key, "unknown scene key %q", key.Value)
		}
		if err != nil {
			return nil, err
		}
	}
	if cfg.Width == 0 {
		cfg.Width = s.Width
	}
	if cfg.Height == 0 {
		cfg.Height = s.Height
	}

	s.Doc = sapling.NewDocument(cfg)
	if children != nil {
		b := &builder{scene: s, doc: s.Doc}
		if err := b.children(s.Doc.Root(), children); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// invalid returns an ErrInvalid error positioned at n.
func invalid(n *yaml.Node, format string, args ...any) error {
	return fmt.Errorf("%w: line %d: %s", ErrInvalid, n.Line, fmt.Sprintf(format, args...))
}
