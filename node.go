package sapling

// NodeID is a stable, generation-checked handle to a node in a Document's
// arena. The zero value refers to no node. A NodeID kept after its node was
// disposed never resolves again, even if the slot is reused.
type NodeID struct {
	slot uint32
	gen  uint32
}

// NoNode is the zero NodeID.
var NoNode NodeID

// IsValid reports whether id was ever issued. It does not check liveness;
// use Document.Alive for that.
func (id NodeID) IsValid() bool {
	return id.gen != 0
}

// Attr names a length-valued geometry attribute.
type Attr uint8

const (
	AttrX Attr = iota
	AttrY
	AttrWidth
	AttrHeight
	AttrRx
	AttrRy
	AttrCx
	AttrCy
	AttrR
	attrCount
)

var attrNames = [attrCount]string{"x", "y", "width", "height", "rx", "ry", "cx", "cy", "r"}

// String returns the declarative attribute name.
func (a Attr) String() string {
	if a < attrCount {
		return attrNames[a]
	}
	return "unknown"
}

// ParseAttr maps a declarative attribute name to an Attr.
func ParseAttr(name string) (Attr, bool) {
	for i, n := range attrNames {
		if n == name {
			return Attr(i), true
		}
	}
	return 0, false
}

// unset is the sentinel for memoized scalars that have not been computed.
const unset = -1

// Node is the fundamental scene graph element. A single flat struct is used
// for all node kinds; behavior is selected by Type.
type Node struct {
	// Identity
	ID   NodeID
	Name string
	Type NodeType

	// Hierarchy. parent is a non-owning back-reference used only for
	// context and transform lookup.
	parent   NodeID
	children []NodeID

	// Geometry inputs, stored unresolved.
	lengths [attrCount]string

	// Style and clipping
	opacity      float64
	fill         Color
	fillRule     FillRule
	clipPathName string
	clipRule     ClipRule
	clipWarned   string
	maskName     string
	responsible  bool

	// Transform
	matrix              Matrix
	invMatrix           Matrix
	hasMatrix           bool
	invertible          bool
	transform           Matrix
	transformInvertible bool

	// Coordinate scope (groups only)
	scope *TextScope

	// Image content (NodeTypeImage)
	image *imageContent

	// Cached derived state, cleared by invalidation.
	path           *Path
	clipPath       *Path
	canvasWidth    float64
	canvasHeight   float64
	canvasDiagonal float64
	fontSize       float64

	// Last reported client rect.
	clientRect    Rect
	hasClientRect bool

	disposed bool
}

// nodeDefaults sets the common default field values shared by all constructors.
func nodeDefaults(n *Node) {
	n.opacity = 1
	n.fill = ColorBlack
	n.clipRule = ClipRuleNonZero
	n.matrix = Identity
	n.invMatrix = Identity
	n.invertible = true
	n.transform = Identity
	n.transformInvertible = true
	n.clearCache()
}

// clearCache resets every memoized value to its sentinel.
func (n *Node) clearCache() {
	n.path = nil
	n.clipPath = nil
	n.canvasWidth = unset
	n.canvasHeight = unset
	n.canvasDiagonal = unset
	n.fontSize = unset
}

// --- Arena ---

type slot struct {
	gen  uint32
	node *Node
}

// node resolves id, returning nil for stale or zero ids.
func (d *Document) node(id NodeID) *Node {
	if id.gen == 0 || int(id.slot) >= len(d.slots) {
		return nil
	}
	s := &d.slots[id.slot]
	if s.gen != id.gen || s.node == nil {
		return nil
	}
	return s.node
}

// Alive reports whether id refers to a node that has not been disposed.
func (d *Document) Alive(id NodeID) bool {
	return d.node(id) != nil
}

// Node returns the node for id, or nil if id is stale. The returned pointer
// must not be retained across Dispose.
func (d *Document) Node(id NodeID) *Node {
	return d.node(id)
}

func (d *Document) alloc(name string, t NodeType) NodeID {
	n := &Node{Name: name, Type: t}
	nodeDefaults(n)
	var idx uint32
	if k := len(d.free); k > 0 {
		idx = d.free[k-1]
		d.free = d.free[:k-1]
	} else {
		idx = uint32(len(d.slots))
		d.slots = append(d.slots, slot{})
	}
	s := &d.slots[idx]
	s.gen++
	if s.gen == 0 {
		s.gen = 1
	}
	s.node = n
	n.ID = NodeID{slot: idx, gen: s.gen}
	return n.ID
}

// NewGroup creates a detached group node.
func (d *Document) NewGroup(name string) NodeID {
	return d.alloc(name, NodeTypeGroup)
}

// NewRect creates a detached rectangle node.
func (d *Document) NewRect(name string) NodeID {
	return d.alloc(name, NodeTypeRect)
}

// NewCircle creates a detached circle node.
func (d *Document) NewCircle(name string) NodeID {
	return d.alloc(name, NodeTypeCircle)
}

// NewEllipse creates a detached ellipse node.
func (d *Document) NewEllipse(name string) NodeID {
	return d.alloc(name, NodeTypeEllipse)
}

// NewImage creates a detached image node.
func (d *Document) NewImage(name string) NodeID {
	id := d.alloc(name, NodeTypeImage)
	d.node(id).image = &imageContent{}
	return id
}

// NewClipPath creates a detached clip-path definition. The definition is
// registered under name so shapes can reference it with SetClipPath.
func (d *Document) NewClipPath(name string) NodeID {
	id := d.alloc(name, NodeTypeClipPath)
	if name != "" {
		d.DefineTemplate(id, name)
	}
	return id
}

// --- Tree manipulation ---

// AddChild appends child to parent's children.
// If child already has a parent, it is removed from that parent first.
// Panics if either id is stale or child is an ancestor of parent (cycle).
func (d *Document) AddChild(parent, child NodeID) {
	d.AddChildAt(parent, child, -1)
}

// AddChildAt inserts child at the given index; -1 appends.
// Same reparenting and cycle-check behavior as AddChild.
func (d *Document) AddChildAt(parent, child NodeID, index int) {
	p := d.node(parent)
	c := d.node(child)
	if p == nil || c == nil {
		panic("sapling: cannot add stale or nil node")
	}
	if c.Type == NodeTypeRoot {
		panic("sapling: root cannot be a child")
	}
	if d.isAncestor(child, parent) {
		panic("sapling: adding child would create a cycle")
	}
	if index > len(p.children) || index < -1 {
		panic("sapling: child index out of range")
	}
	if old := d.node(c.parent); old != nil {
		d.invalidate(child)
		old.removeChild(child)
	}
	c.parent = parent
	if index == -1 {
		p.children = append(p.children, child)
	} else {
		p.children = append(p.children, NoNode)
		copy(p.children[index+1:], p.children[index:])
		p.children[index] = child
	}
	d.invalidate(child)
	if d.debug {
		d.debugCheckTreeDepth(child)
		d.debugCheckChildCount(p)
	}
}

// RemoveChild detaches child from parent.
// Panics if child's parent is not parent.
func (d *Document) RemoveChild(parent, child NodeID) {
	p := d.node(parent)
	c := d.node(child)
	if p == nil || c == nil || c.parent != parent {
		panic("sapling: child's parent is not this node")
	}
	d.invalidate(child)
	p.removeChild(child)
	c.parent = NoNode
	d.releaseCachedPath(c)
}

// RemoveFromParent detaches id from its parent.
// No-op if id has no parent.
func (d *Document) RemoveFromParent(id NodeID) {
	n := d.node(id)
	if n == nil || d.node(n.parent) == nil {
		return
	}
	d.RemoveChild(n.parent, id)
}

// Children returns the child list. The returned slice MUST NOT be mutated by the caller.
func (d *Document) Children(id NodeID) []NodeID {
	n := d.node(id)
	if n == nil {
		return nil
	}
	return n.children
}

// Parent returns the parent of id, or NoNode.
func (d *Document) Parent(id NodeID) NodeID {
	n := d.node(id)
	if n == nil || d.node(n.parent) == nil {
		return NoNode
	}
	return n.parent
}

// Dispose removes id from its parent and releases it and all descendants.
// Outstanding image fetches for these nodes complete normally and their
// results are discarded.
func (d *Document) Dispose(id NodeID) {
	n := d.node(id)
	if n == nil || n.Type == NodeTypeRoot {
		return
	}
	d.RemoveFromParent(id)
	d.dispose(id)
	d.clearClipCaches()
}

func (d *Document) dispose(id NodeID) {
	n := d.node(id)
	if n == nil {
		return
	}
	for _, child := range n.children {
		d.dispose(child)
	}
	for name, def := range d.defs {
		if def == id {
			delete(d.defs, name)
		}
	}
	n.disposed = true
	n.children = nil
	n.parent = NoNode
	n.scope = nil
	n.image = nil
	n.clearCache()
	s := &d.slots[id.slot]
	s.node = nil
	d.free = append(d.free, id.slot)
}

// --- Helpers ---

// isAncestor reports whether candidate is node or one of its ancestors.
func (d *Document) isAncestor(candidate, node NodeID) bool {
	for p := d.node(node); p != nil; p = d.node(p.parent) {
		if p.ID == candidate {
			return true
		}
	}
	return false
}

// withinClipDefinition reports whether n is, or descends from, a clip-path
// definition.
func (d *Document) withinClipDefinition(n *Node) bool {
	for p := n; p != nil; p = d.node(p.parent) {
		if p.Type == NodeTypeClipPath {
			return true
		}
	}
	return false
}

// removeChild removes child from n.children without touching child.parent.
// Uses copy+zero to avoid retaining a stale handle in the backing array.
func (n *Node) removeChild(child NodeID) {
	for i, c := range n.children {
		if c == child {
			copy(n.children[i:], n.children[i+1:])
			n.children[len(n.children)-1] = NoNode
			n.children = n.children[:len(n.children)-1]
			return
		}
	}
}

// --- Invalidation ---

// invalidate clears the cached geometry of id and all its descendants and
// requests a redraw. Ancestors lose their cached union paths, which are
// built from this subtree. Edits inside a clip-path definition also drop
// every cached clip path in the document, since any node may reference it.
func (d *Document) invalidate(id NodeID) {
	n := d.node(id)
	if n == nil {
		return
	}
	d.invalidateGeometry(n)
	d.MarkNeedsRedraw()
}

// invalidateGeometry clears cached geometry without requesting a redraw.
func (d *Document) invalidateGeometry(n *Node) {
	d.releaseCachedPath(n)
	for p := d.node(n.parent); p != nil; p = d.node(p.parent) {
		p.path = nil
	}
	if d.withinClipDefinition(n) {
		d.clearClipCaches()
	}
}

// releaseCachedPath clears n and its subtree.
func (d *Document) releaseCachedPath(n *Node) {
	n.clearCache()
	for _, child := range n.children {
		if c := d.node(child); c != nil {
			d.releaseCachedPath(c)
		}
	}
}

// clearClipCaches drops every cached clip path in the document.
func (d *Document) clearClipCaches() {
	for i := range d.slots {
		if n := d.slots[i].node; n != nil {
			n.clipPath = nil
		}
	}
}
