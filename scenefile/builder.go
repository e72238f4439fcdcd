package scenefile

import (
	"github.com/phanxgames/sapling"
	"gopkg.in/yaml.v3"
)

// builder creates nodes for one Parse call.
type builder struct {
	scene *Scene
	doc   *sapling.Document
}

// setter applies one property value to a node.
type setter func(b *builder, id sapling.NodeID, v *yaml.Node) error

// setters maps property keys to their handlers. Length attributes are
// handled separately through sapling.ParseAttr.
var setters = map[string]setter{
	"opacity":             setOpacity,
	"fill":                setFill,
	"fillRule":            setFillRule,
	"clipPath":            setClipPath,
	"clipRule":            setClipRule,
	"mask":                setMask,
	"responsible":         setResponsible,
	"matrix":              setMatrix,
	"textScope":           setTextScope,
	"src":                 setSrc,
	"preserveAspectRatio": setPreserveAspectRatio,
}

func (b *builder) children(parent sapling.NodeID, seq *yaml.Node) error {
	if seq.Kind != yaml.SequenceNode {
		return invalid(seq, "children must be a list")
	}
	for _, item := range seq.Content {
		if err := b.node(parent, item); err != nil {
			return err
		}
	}
	return nil
}

func (b *builder) node(parent sapling.NodeID, m *yaml.Node) error {
	if m.Kind != yaml.MappingNode {
		return invalid(m, "node must be a mapping")
	}
	typ, name := lookup(m, "type"), lookup(m, "name")
	if typ == nil {
		return invalid(m, "node has no type")
	}
	var nameValue string
	if name != nil {
		nameValue = name.Value
	}

	var id sapling.NodeID
	switch typ.Value {
	case "group", "g":
		id = b.doc.NewGroup(nameValue)
	case "rect":
		id = b.doc.NewRect(nameValue)
	case "circle":
		id = b.doc.NewCircle(nameValue)
	case "ellipse":
		id = b.doc.NewEllipse(nameValue)
	case "image":
		id = b.doc.NewImage(nameValue)
	case "clipPath":
		id = b.doc.NewClipPath(nameValue)
	default:
		return invalid(typ, "unknown node type %q", typ.Value)
	}
	b.doc.AddChild(parent, id)
	if nameValue != "" {
		b.scene.IDs[nameValue] = id
	}

	var children *yaml.Node
	for i := 0; i+1 < len(m.Content); i += 2 {
		key, val := m.Content[i], m.Content[i+1]
		switch key.Value {
		case "type", "name":
			continue
		case "children":
			children = val
			continue
		}
		if attr, ok := sapling.ParseAttr(key.Value); ok {
			if val.Kind != yaml.ScalarNode {
				return invalid(val, "%s must be a scalar length", key.Value)
			}
			b.doc.SetLength(id, attr, val.Value)
			continue
		}
		set, ok := setters[key.Value]
		if !ok {
			return invalid(key, "unknown property %q", key.Value)
		}
		if err := set(b, id, val); err != nil {
			return err
		}
	}

	if children != nil {
		t := b.doc.Node(id).Type
		if t != sapling.NodeTypeGroup && t != sapling.NodeTypeClipPath {
			return invalid(children, "%s nodes cannot have children", t)
		}
		return b.children(id, children)
	}
	return nil
}

// lookup returns the value for key in mapping m.
func lookup(m *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return m.Content[i+1]
		}
	}
	return nil
}

func nodeType(b *builder, id sapling.NodeID) sapling.NodeType {
	return b.doc.Node(id).Type
}

func setOpacity(b *builder, id sapling.NodeID, v *yaml.Node) error {
	f, err := number(v)
	if err != nil {
		return err
	}
	b.doc.SetOpacity(id, f)
	return nil
}

func setFill(b *builder, id sapling.NodeID, v *yaml.Node) error {
	c, err := colorValue(v)
	if err != nil {
		return err
	}
	b.doc.SetFill(id, c)
	return nil
}

func setFillRule(b *builder, id sapling.NodeID, v *yaml.Node) error {
	switch v.Value {
	case "nonzero":
		b.doc.SetFillRule(id, sapling.FillRuleNonZero)
	case "evenodd":
		b.doc.SetFillRule(id, sapling.FillRuleEvenOdd)
	default:
		return invalid(v, "unknown fill rule %q", v.Value)
	}
	return nil
}

func setClipPath(b *builder, id sapling.NodeID, v *yaml.Node) error {
	b.doc.SetClipPath(id, v.Value)
	return nil
}

// setClipRule accepts the rule names or a raw numeric code. Unrecognized
// codes are passed through; the document warns when it resolves them.
func setClipRule(b *builder, id sapling.NodeID, v *yaml.Node) error {
	switch v.Value {
	case "evenodd":
		b.doc.SetClipRule(id, sapling.ClipRuleEvenOdd)
		return nil
	case "nonzero":
		b.doc.SetClipRule(id, sapling.ClipRuleNonZero)
		return nil
	}
	var code int
	if err := v.Decode(&code); err != nil {
		return invalid(v, "unknown clip rule %q", v.Value)
	}
	b.doc.SetClipRule(id, sapling.ClipRule(code))
	return nil
}

func setMask(b *builder, id sapling.NodeID, v *yaml.Node) error {
	b.doc.SetMask(id, v.Value)
	return nil
}

func setResponsible(b *builder, id sapling.NodeID, v *yaml.Node) error {
	var on bool
	if err := v.Decode(&on); err != nil {
		return invalid(v, "responsible must be a boolean")
	}
	b.doc.SetResponsible(id, on)
	return nil
}

// setMatrix accepts a list of numbers or a string of numbers separated by
// spaces or commas. A wrong count reaches the document, which resets the
// transform.
func setMatrix(b *builder, id sapling.NodeID, v *yaml.Node) error {
	values, err := numberList(v)
	if err != nil {
		return err
	}
	b.doc.SetMatrix(id, values)
	return nil
}

func setTextScope(b *builder, id sapling.NodeID, v *yaml.Node) error {
	if nodeType(b, id) != sapling.NodeTypeGroup {
		return invalid(v, "textScope is only valid on groups")
	}
	if v.Kind == yaml.ScalarNode && v.Tag == "!!null" {
		b.doc.SetTextScope(id, nil)
		return nil
	}
	var raw struct {
		Width    float64 `yaml:"width"`
		Height   float64 `yaml:"height"`
		FontSize float64 `yaml:"fontSize"`
	}
	if err := v.Decode(&raw); err != nil {
		return invalid(v, "textScope: %v", err)
	}
	b.doc.SetTextScope(id, &sapling.TextScope{Width: raw.Width, Height: raw.Height, FontSize: raw.FontSize})
	return nil
}

// setSrc accepts a URI string or a mapping with uri, width and height.
func setSrc(b *builder, id sapling.NodeID, v *yaml.Node) error {
	if nodeType(b, id) != sapling.NodeTypeImage {
		return invalid(v, "src is only valid on images")
	}
	if v.Kind == yaml.ScalarNode {
		b.doc.SetImageSource(id, sapling.ImageSource{URI: v.Value})
		return nil
	}
	var raw struct {
		URI    string  `yaml:"uri"`
		Width  float64 `yaml:"width"`
		Height float64 `yaml:"height"`
	}
	if err := v.Decode(&raw); err != nil {
		return invalid(v, "src: %v", err)
	}
	b.doc.SetImageSource(id, sapling.ImageSource{URI: raw.URI, Width: raw.Width, Height: raw.Height})
	return nil
}

func setPreserveAspectRatio(b *builder, id sapling.NodeID, v *yaml.Node) error {
	if nodeType(b, id) != sapling.NodeTypeImage {
		return invalid(v, "preserveAspectRatio is only valid on images")
	}
	align, mos, err := aspectRatio(v)
	if err != nil {
		return err
	}
	b.doc.SetAlign(id, align, mos)
	return nil
}
