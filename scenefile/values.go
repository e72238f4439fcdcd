package scenefile

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/phanxgames/sapling"
	tstrconv "github.com/tdewolff/parse/v2/strconv"
	"golang.org/x/image/colornames"
	"gopkg.in/yaml.v3"
)

// number parses a scalar that must be a complete number.
func number(v *yaml.Node) (float64, error) {
	if v.Kind != yaml.ScalarNode {
		return 0, invalid(v, "expected a number")
	}
	f, ok := parseNumber(v.Value)
	if !ok {
		return 0, invalid(v, "bad number %q", v.Value)
	}
	return f, nil
}

func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	f, n := tstrconv.ParseFloat([]byte(s))
	return f, n > 0 && n == len(s)
}

// numberList parses a sequence of numbers or a string of numbers separated
// by spaces or commas.
func numberList(v *yaml.Node) ([]float64, error) {
	var fields []string
	switch v.Kind {
	case yaml.SequenceNode:
		for _, item := range v.Content {
			if item.Kind != yaml.ScalarNode {
				return nil, invalid(item, "expected a number")
			}
			fields = append(fields, item.Value)
		}
	case yaml.ScalarNode:
		fields = strings.FieldsFunc(v.Value, func(r rune) bool {
			return r == ' ' || r == ',' || r == '\t'
		})
	default:
		return nil, invalid(v, "expected a list of numbers")
	}
	out := make([]float64, len(fields))
	for i, f := range fields {
		n, ok := parseNumber(f)
		if !ok {
			return nil, invalid(v, "bad number %q", f)
		}
		out[i] = n
	}
	return out, nil
}

// colorValue parses "#rgb", "#rgba", "#rrggbb", "#rrggbbaa", an SVG color name or
// a mapping with r, g, b and a components in [0, 1].
func colorValue(v *yaml.Node) (sapling.Color, error) {
	if v.Kind == yaml.MappingNode {
		var raw struct {
			R, G, B float64
			A       *float64
		}
		if err := v.Decode(&raw); err != nil {
			return sapling.Color{}, invalid(v, "color: %v", err)
		}
		c := sapling.Color{R: raw.R, G: raw.G, B: raw.B, A: 1}
		if raw.A != nil {
			c.A = *raw.A
		}
		return c, nil
	}
	if v.Kind != yaml.ScalarNode {
		return sapling.Color{}, invalid(v, "expected a color")
	}
	c, ok := parseColor(v.Value)
	if !ok {
		return sapling.Color{}, invalid(v, "bad color %q", v.Value)
	}
	return c, nil
}

// ParseColor parses a color name or hex color the way scene files do.
func ParseColor(s string) (sapling.Color, error) {
	c, ok := parseColor(s)
	if !ok {
		return sapling.Color{}, fmt.Errorf("%w: bad color %q", ErrInvalid, s)
	}
	return c, nil
}

func parseColor(s string) (sapling.Color, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "transparent", "none":
		return sapling.Color{}, true
	}
	if cn, ok := colornames.Map[s]; ok {
		return sapling.Color{
			R: float64(cn.R) / 255,
			G: float64(cn.G) / 255,
			B: float64(cn.B) / 255,
			A: float64(cn.A) / 255,
		}, true
	}
	return parseHexColor(s)
}

func parseHexColor(s string) (sapling.Color, bool) {
	if !strings.HasPrefix(s, "#") {
		return sapling.Color{}, false
	}
	s = s[1:]
	if len(s) == 3 || len(s) == 4 {
		var b strings.Builder
		for _, r := range s {
			b.WriteRune(r)
			b.WriteRune(r)
		}
		s = b.String()
	}
	if len(s) == 6 {
		s += "ff"
	}
	if len(s) != 8 {
		return sapling.Color{}, false
	}
	u, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return sapling.Color{}, false
	}
	return sapling.Color{
		R: float64(u>>24&0xff) / 255,
		G: float64(u>>16&0xff) / 255,
		B: float64(u>>8&0xff) / 255,
		A: float64(u&0xff) / 255,
	}, true
}

// aspectRatio parses "<align> [meet|slice]".
func aspectRatio(v *yaml.Node) (string, sapling.MeetOrSlice, error) {
	fields := strings.Fields(v.Value)
	if len(fields) == 0 || len(fields) > 2 {
		return "", 0, invalid(v, "bad preserveAspectRatio %q", v.Value)
	}
	align := fields[0]
	mos := sapling.Meet
	if align == "none" {
		mos = sapling.MeetOrSliceNone
	}
	if len(fields) == 2 {
		switch fields[1] {
		case "meet":
		case "slice":
			mos = sapling.Slice
		default:
			return "", 0, invalid(v, "bad meetOrSlice %q", fields[1])
		}
	}
	return align, mos, nil
}
