package sapling

// HitTest finds the topmost node at the device point (x, y). Candidates are
// visited in reverse painter order. A drawable node is hit when the point
// lies inside its fill path and its clip path; group clips limit the hit area
// of their subtree. Nodes whose transforms cannot be inverted are never hit,
// and neither is anything below them.
//
// The returned node is the nearest responsible node at or above the hit
// drawable. Drawables with no responsible node on their ancestor chain are
// transparent to hits.
func (d *Document) HitTest(x, y float64) (NodeID, bool) {
	root := d.node(d.root)
	if root == nil {
		return NoNode, false
	}
	return d.hitNode(root, x, y)
}

// hitNode tests n with (x, y) in n's parent coordinate space.
func (d *Document) hitNode(n *Node, x, y float64) (NodeID, bool) {
	if n == nil || n.Type == NodeTypeClipPath {
		return NoNode, false
	}
	if !n.invertible || !n.transformInvertible {
		return NoNode, false
	}
	inv, ok := invertAffine(n.nodeMatrix())
	if !ok {
		return NoNode, false
	}
	lx, ly := inv.Apply(x, y)
	clip := d.resolveClip(n)

	switch n.Type {
	case NodeTypeRoot, NodeTypeGroup:
		if clip != nil && !clip.Contains(lx, ly) {
			return NoNode, false
		}
		for i := len(n.children) - 1; i >= 0; i-- {
			if id, ok := d.hitNode(d.node(n.children[i]), lx, ly); ok {
				return id, true
			}
		}
		return NoNode, false
	}

	if !clipContains(d.fillPath(n), clip, lx, ly) {
		return NoNode, false
	}
	return d.hitTarget(n)
}

// hitTarget returns the nearest responsible node at or above n.
func (d *Document) hitTarget(n *Node) (NodeID, bool) {
	for p := n; p != nil; p = d.node(p.parent) {
		if p.responsible {
			return p.ID, true
		}
	}
	return NoNode, false
}
