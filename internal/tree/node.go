// Package tree implements the copy-on-write B-tree engine behind the
// rope: nodes with per-subtree summaries, height-general concatenation,
// the bottom-up builder, path cursors, and grapheme resync.
package tree

import (
	"fmt"

	"github.com/scigolib/rope/internal/chunk"
)

// Child count window for internal nodes. The root may go below
// MinChild; every other internal node must fall inside the window,
// except transiently during builds.
const (
	MinChild = 4
	MaxChild = 8
)

// Node is one vertex of the tree: a leaf (height 0) owning a text
// chunk, or an internal node (height >= 1) owning an ordered list of
// children of height-1.
//
// Nodes are shared structurally across revisions and are immutable
// unless the operation holding them created them itself. The write
// paths (concat, builder, resync) clone any node reachable from an
// input root before changing it. A clone carries a generation one
// higher than its source; the source itself is left unchanged, so
// cursors bound to the old revision keep reading it.
type Node struct {
	height     int
	count      int // length in base units (UTF-8 bytes)
	summary    chunk.Summary
	generation uint32

	children []*Node    // height >= 1
	leaf     chunk.Leaf // height == 0
}

// NewLeafNode returns a leaf node owning l.
func NewLeafNode(l chunk.Leaf) *Node {
	return &Node{
		count:   l.Len(),
		summary: l.Summarize(),
		leaf:    l,
	}
}

// NewInternal returns an internal node owning children, which must be
// non-empty, share one height, and number at most MaxChild. The node
// takes ownership of the slice.
func NewInternal(children []*Node) *Node {
	if len(children) == 0 || len(children) > MaxChild {
		panic(fmt.Sprintf("rope: internal node with %d children", len(children)))
	}
	n := &Node{height: children[0].height + 1, children: children}
	for _, c := range children {
		if c.height != n.height-1 {
			panic("rope: children of mixed heights")
		}
		n.count += c.count
		n.summary = n.summary.Merge(c.summary)
	}
	return n
}

// Height returns 0 for leaves, and 1 + child height otherwise.
func (n *Node) Height() int { return n.height }

// Count returns the subtree length in base units.
func (n *Node) Count() int { return n.count }

// Summary returns the subtree's aggregated statistics.
func (n *Node) Summary() chunk.Summary { return n.summary }

// Generation returns the node's mutation generation.
func (n *Node) Generation() uint32 { return n.generation }

// IsLeaf reports whether n is a leaf node.
func (n *Node) IsLeaf() bool { return n.height == 0 }

// Leaf returns the chunk of a leaf node.
func (n *Node) Leaf() chunk.Leaf {
	if !n.IsLeaf() {
		panic("rope: Leaf on internal node")
	}
	return n.leaf
}

// Children returns an internal node's child list. Callers must not
// mutate it.
func (n *Node) Children() []*Node {
	if n.IsLeaf() {
		panic("rope: Children on leaf node")
	}
	return n.children
}

// Clone returns a shallow copy: the node itself is duplicated with a
// bumped generation, while children keep their identities and stay
// shared with the original.
func (n *Node) Clone() *Node {
	c := &Node{
		height:     n.height,
		count:      n.count,
		summary:    n.summary,
		generation: n.generation + 1,
		leaf:       n.leaf,
	}
	if n.children != nil {
		c.children = make([]*Node, len(n.children))
		copy(c.children, n.children)
	}
	return c
}

// pushLeaf merges other into n's chunk, splitting on overflow. n must
// be a uniquely owned leaf node. Returns the split-off right node, if
// any.
func (n *Node) pushLeaf(other chunk.Leaf) *Node {
	split := n.leaf.PushMaybeSplit(other)
	n.count = n.leaf.Len()
	n.summary = n.leaf.Summarize()
	if split == nil {
		return nil
	}
	return NewLeafNode(*split)
}

// undersized reports whether n is below its lower size bound: MinBytes
// for a leaf chunk, MinChild children for an internal node.
func (n *Node) undersized() bool {
	if n.IsLeaf() {
		return n.leaf.IsUndersized()
	}
	return len(n.children) < MinChild
}

// Measure returns the subtree's length under m.
func (n *Node) Measure(m Metric) int {
	return m.Measure(n.summary, n.count)
}

// Convert translates position m1, expressed in from units, into to
// units. It descends, accumulating the to-measure of the children
// preceding the one whose from-measure still contains m1, and finishes
// inside the destination leaf via the metric's per-chunk maps.
func (n *Node) Convert(m1 int, from, to Metric) int {
	node := n
	toAcc := 0
	for node.height > 0 {
		i := 0
		for ; i < len(node.children)-1; i++ {
			cf := node.children[i].Measure(from)
			if m1 <= cf {
				break
			}
			m1 -= cf
			toAcc += node.children[i].Measure(to)
		}
		node = node.children[i]
	}
	base := from.ToBase(m1, node.leaf)
	return toAcc + to.FromBase(base, node.leaf)
}
