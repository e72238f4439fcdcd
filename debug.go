package sapling

import "time"

// debugStats holds per-frame timing and draw metrics.
// Only populated when Document.debug is true.
type debugStats struct {
	traverseTime time.Duration
	nodeCount    int
	drawCount    int
	clipCount    int
}

// debugLog writes the frame stats at debug level.
func (d *Document) debugLog(stats debugStats) {
	if !d.debug {
		return
	}
	d.logger().Debug("sapling: frame",
		"traverse", stats.traverseTime,
		"nodes", stats.nodeCount,
		"draws", stats.drawCount,
		"clips", stats.clipCount)
}

// debugCheckTreeDepth warns if tree depth exceeds the threshold.
const debugMaxTreeDepth = 32

func (d *Document) debugCheckTreeDepth(id NodeID) {
	n := d.node(id)
	depth := 0
	for p := n; p != nil; p = d.node(p.parent) {
		depth++
	}
	if depth > debugMaxTreeDepth {
		d.logger().Warn("sapling: tree depth exceeds threshold",
			"node", n.Name, "depth", depth, "threshold", debugMaxTreeDepth)
	}
}

// debugCheckChildCount warns if a node has more than 1000 children.
const debugMaxChildCount = 1000

func (d *Document) debugCheckChildCount(n *Node) {
	if len(n.children) > debugMaxChildCount {
		d.logger().Warn("sapling: child count exceeds threshold",
			"node", n.Name, "children", len(n.children), "threshold", debugMaxChildCount)
	}
}
