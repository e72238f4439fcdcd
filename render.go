package sapling

import "time"

// renderState is carried down one Render traversal.
type renderState struct {
	// matrix is the device matrix of the node being drawn, used for client
	// rect reporting. The canvas keeps its own copy.
	matrix Matrix

	// groupClips counts active ancestor group clips. While positive, a
	// node's own path intersects the clip instead of replacing it.
	groupClips int

	stats debugStats
}

// Render draws the document into c. If the canvas bounds differ from the
// viewport, the viewport is resized first. Every Save issued during the
// traversal is matched by a restore, including when drawing a node fails.
// The first drawing error stops the traversal and is returned.
func (d *Document) Render(c Canvas) error {
	if b := c.Bounds(); !b.IsEmpty() {
		d.SetViewport(b.Width, b.Height)
	}
	d.needsRedraw = false

	var t0 time.Time
	if d.debug {
		t0 = time.Now()
	}

	st := renderState{matrix: Identity}
	err := d.drawNode(c, d.node(d.root), 1, &st)

	if d.debug {
		st.stats.traverseTime = time.Since(t0)
		d.debugLog(st.stats)
	}
	return err
}

// drawNode runs the per-node pipeline: opacity check, path resolution,
// scope save, clip, content draw and restore.
func (d *Document) drawNode(c Canvas, n *Node, parentAlpha float64, st *renderState) error {
	if n == nil || n.Type == NodeTypeClipPath {
		return nil
	}
	alpha := parentAlpha * n.opacity
	if alpha < MinOpacityForDraw {
		return nil
	}
	st.stats.nodeCount++

	switch n.Type {
	case NodeTypeRoot, NodeTypeGroup:
		return d.drawGroup(c, n, alpha, st)
	case NodeTypeImage:
		return d.drawImageNode(c, n, alpha, st)
	}
	if !n.Type.isShape() {
		return nil
	}

	path := d.fillPath(n)
	parent := st.matrix
	st.matrix = parent.Mul(n.nodeMatrix())
	count := n.saveAndSetup(c)
	defer func() {
		c.RestoreToCount(count)
		st.matrix = parent
	}()

	d.applyClip(c, n, path, st)
	fill := n.fill
	fill.A *= alpha
	c.FillPath(path, fill)
	st.stats.drawCount++
	d.reportClientRect(n, path, st.matrix)
	return nil
}

// drawGroup applies the group's clip and draws its children in order with
// the group's accumulated opacity.
func (d *Document) drawGroup(c Canvas, n *Node, alpha float64, st *renderState) error {
	parent := st.matrix
	st.matrix = parent.Mul(n.nodeMatrix())
	count := n.saveAndSetup(c)
	clipped := false
	defer func() {
		if clipped {
			st.groupClips--
		}
		c.RestoreToCount(count)
		st.matrix = parent
	}()

	if clip := d.resolveClip(n); clip != nil {
		c.ClipPath(clip, ClipIntersect)
		st.stats.clipCount++
		st.groupClips++
		clipped = true
	}
	for _, cid := range n.children {
		if err := d.drawNode(c, d.node(cid), alpha, st); err != nil {
			return err
		}
	}
	return nil
}

// drawImageNode draws an image once its bitmap is resident. The bitmap
// reference is released on every exit path.
func (d *Document) drawImageNode(c Canvas, n *Node, alpha float64, st *renderState) error {
	ref, ok := d.acquireBitmap(n)
	if !ok {
		return nil
	}
	defer ref.Release()
	bmp, err := d.bitmapImage(n, ref)
	if err != nil {
		return err
	}

	path := d.fillPath(n)
	parent := st.matrix
	st.matrix = parent.Mul(n.nodeMatrix())
	count := n.saveAndSetup(c)
	defer func() {
		c.RestoreToCount(count)
		st.matrix = parent
	}()

	d.applyClip(c, n, path, st)
	if err := d.drawBitmap(c, n, bmp, alpha); err != nil {
		return err
	}
	st.stats.drawCount++
	d.reportClientRect(n, path, st.matrix)
	return nil
}

// applyClip restricts the canvas to the node's own path, intersected with its
// clip path when one resolves.
func (d *Document) applyClip(c Canvas, n *Node, path *Path, st *renderState) {
	if clip := d.resolveClip(n); clip != nil {
		clipToIntersection(c, path, clip)
		st.stats.clipCount += 2
		return
	}
	op := ClipReplace
	if st.groupClips > 0 {
		op = ClipIntersect
	}
	c.ClipPath(path, op)
	st.stats.clipCount++
}

// reportClientRect sends the device bounds of path to the layout listener
// when they differ from the last report.
func (d *Document) reportClientRect(n *Node, path *Path, m Matrix) {
	r := m.MapRect(path.Bounds())
	if n.hasClientRect && n.clientRect == r {
		return
	}
	n.clientRect = r
	n.hasClientRect = true
	if d.layout != nil {
		d.layout.ReportClientRect(n.ID, r)
	}
}

// ClientRect returns the device bounds recorded for id during the last
// render.
func (d *Document) ClientRect(id NodeID) (Rect, bool) {
	n := d.node(id)
	if n == nil || !n.hasClientRect {
		return Rect{}, false
	}
	return n.clientRect, true
}
