package sapling

// ResolveClip returns the clip path referenced by id, or false when the node
// is unclipped. The result is cached on the node; repeated calls return the
// same *Path until the node or the definition changes.
func (d *Document) ResolveClip(id NodeID) (*Path, bool) {
	n := d.node(id)
	if n == nil {
		return nil, false
	}
	p := d.resolveClip(n)
	return p, p != nil
}

func (d *Document) resolveClip(n *Node) *Path {
	if n.clipPathName == "" {
		return nil
	}
	if n.clipPath != nil {
		return n.clipPath
	}
	defID, ok := d.LookupClipPath(n.clipPathName)
	if !ok {
		if n.clipWarned != n.clipPathName {
			n.clipWarned = n.clipPathName
			d.logger().Warn("sapling: undefined clipPath",
				"node", n.Name, "clipPath", n.clipPathName)
		}
		return nil
	}
	n.clipWarned = ""

	p := d.fillPath(d.node(defID)).Clone()
	switch n.clipRule {
	case ClipRuleEvenOdd:
		p.FillType = FillEvenOdd
	case ClipRuleNonZero:
		p.FillType = FillWinding
	default:
		d.logger().Warn("sapling: clipRule unrecognized",
			"node", n.Name, "clipRule", int(n.clipRule))
		p.FillType = FillWinding
	}
	n.clipPath = p
	return p
}

// clipToIntersection restricts the canvas clip to the intersection of path
// and clip using two difference clips. The even-odd union removes the
// symmetric difference; the inverse-winding union removes everything
// outside both.
func clipToIntersection(c Canvas, path, clip *Path) {
	xor := NewPath()
	xor.AddPath(path)
	xor.AddPath(clip)
	xor.FillType = FillEvenOdd
	c.ClipPath(xor, ClipDifference)

	outside := NewPath()
	outside.AddPath(path)
	outside.AddPath(clip)
	outside.FillType = FillInverseWinding
	c.ClipPath(outside, ClipDifference)
}

// clipContains reports whether (x, y), in the node's own coordinates, lies
// inside both path and clip.
func clipContains(path, clip *Path, x, y float64) bool {
	if !path.Contains(x, y) {
		return false
	}
	return clip == nil || clip.Contains(x, y)
}
