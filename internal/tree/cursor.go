// Copyright (c) 2025 SciGo Rope Library Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.

package tree

import (
	"fmt"

	"github.com/scigolib/rope/internal/chunk"
)

// Cursor is a stateful path into one revision of a tree. It captures
// the root's generation at creation and validates it on every use, so
// a cursor applied after its revision was rewritten fails loudly
// instead of reading a different text.
//
// The end sentinel is the state with no current leaf and position ==
// root.Count().
type Cursor struct {
	root       *Node
	generation uint32
	position   int

	path      []pathEntry
	leafNode  *Node
	leafStart int
}

type pathEntry struct {
	node *Node
	slot int
}

// NewCursor returns a cursor positioned at the base offset. offset ==
// root.Count() yields the end sentinel.
func NewCursor(root *Node, offset int) *Cursor {
	if offset < 0 || offset > root.count {
		panic(fmt.Sprintf("rope: index offset %d out of range [0, %d]", offset, root.count))
	}
	c := &Cursor{root: root, generation: root.generation}
	if offset == root.count {
		c.toSentinel()
		return c
	}
	c.descend(offset)
	c.position = offset
	return c
}

func (c *Cursor) check() {
	if c.root.generation != c.generation {
		panic("rope: index used after its revision was mutated")
	}
}

// Root returns the revision the cursor is bound to.
func (c *Cursor) Root() *Node { return c.root }

// Position returns the cursor's absolute base offset.
func (c *Cursor) Position() int {
	c.check()
	return c.position
}

// AtEnd reports whether the cursor is the end sentinel.
func (c *Cursor) AtEnd() bool {
	c.check()
	return c.leafNode == nil
}

// Read returns the current chunk and the cursor's offset inside it,
// or ok == false at the end sentinel.
func (c *Cursor) Read() (l chunk.Leaf, offset int, ok bool) {
	c.check()
	if c.leafNode == nil {
		return chunk.Leaf{}, 0, false
	}
	return c.leafNode.leaf, c.position - c.leafStart, true
}

// Clone returns an independent copy of the cursor.
func (c *Cursor) Clone() *Cursor {
	dup := *c
	dup.path = make([]pathEntry, len(c.path))
	copy(dup.path, c.path)
	return &dup
}

// Compare orders two cursors by position. Both must be bound to the
// same root and generation.
func (c *Cursor) Compare(o *Cursor) int {
	c.check()
	o.check()
	if c.root != o.root {
		panic("rope: comparing indices from different ropes")
	}
	switch {
	case c.position < o.position:
		return -1
	case c.position > o.position:
		return 1
	}
	return 0
}

// toSentinel moves the cursor to the end sentinel.
func (c *Cursor) toSentinel() {
	c.path = c.path[:0]
	c.leafNode = nil
	c.leafStart = -1
	c.position = c.root.count
}

// descend rebuilds the path to the leaf containing offset, using the
// strict fits rule: a child is skipped while the offsets it covers end
// at or before the target.
func (c *Cursor) descend(offset int) {
	c.path = c.path[:0]
	n := c.root
	start := 0
	for !n.IsLeaf() {
		slot := 0
		for slot < len(n.children)-1 && start+n.children[slot].count <= offset {
			start += n.children[slot].count
			slot++
		}
		c.path = append(c.path, pathEntry{n, slot})
		n = n.children[slot]
	}
	c.leafNode = n
	c.leafStart = start
}

// descendToLeaf rebuilds the path to the leaf containing the target-th
// unit under m, skipping children whose measure the target clears. The
// position is left at the leaf's start.
func (c *Cursor) descendToLeaf(target int, m Metric) {
	c.path = c.path[:0]
	n := c.root
	start := 0
	for !n.IsLeaf() {
		slot := 0
		for slot < len(n.children)-1 {
			cm := n.children[slot].Measure(m)
			if target <= cm {
				break
			}
			target -= cm
			start += n.children[slot].count
			slot++
		}
		c.path = append(c.path, pathEntry{n, slot})
		n = n.children[slot]
	}
	c.leafNode = n
	c.leafStart = start
	c.position = start
}

// nextLeaf steps to the following leaf: ascend while sitting on a last
// slot, advance one slot, then descend through first slots. At the
// last leaf the cursor becomes the end sentinel and false is returned.
func (c *Cursor) nextLeaf() bool {
	if c.leafNode == nil {
		return false
	}
	nextStart := c.leafStart + c.leafNode.leaf.Len()
	i := len(c.path) - 1
	for i >= 0 && c.path[i].slot == len(c.path[i].node.children)-1 {
		i--
	}
	if i < 0 {
		c.toSentinel()
		return false
	}
	c.path = c.path[:i+1]
	c.path[i].slot++
	n := c.path[i].node.children[c.path[i].slot]
	for !n.IsLeaf() {
		c.path = append(c.path, pathEntry{n, 0})
		n = n.children[0]
	}
	c.leafNode = n
	c.leafStart = nextStart
	return true
}

// prevLeaf steps to the preceding leaf, descending through last slots
// after backing up one slot. From the end sentinel it re-descends to
// the final leaf. At the first leaf it returns false, unmoved.
func (c *Cursor) prevLeaf() bool {
	if c.leafNode == nil {
		if c.root.count == 0 {
			return false
		}
		c.descend(c.root.count - 1)
		return true
	}
	i := len(c.path) - 1
	for i >= 0 && c.path[i].slot == 0 {
		i--
	}
	if i < 0 {
		return false
	}
	c.path = c.path[:i+1]
	c.path[i].slot--
	n := c.path[i].node.children[c.path[i].slot]
	for !n.IsLeaf() {
		c.path = append(c.path, pathEntry{n, len(n.children) - 1})
		n = n.children[len(n.children)-1]
	}
	c.leafNode = n
	c.leafStart -= n.leaf.Len()
	return true
}

// boundaryAfter returns the least boundary of the current leaf whose
// absolute offset is strictly greater than after.
func (c *Cursor) boundaryAfter(m Metric, after int) (int, bool) {
	l := c.leafNode.leaf
	if after < c.leafStart && m.IsBoundary(0, l) {
		return c.leafStart, true
	}
	from := after - c.leafStart
	if from < 0 {
		from = 0
	}
	if b, ok := m.Next(from, l); ok {
		return c.leafStart + b, true
	}
	return 0, false
}

// boundaryBefore returns the greatest boundary of the current leaf
// whose absolute offset is strictly less than before.
func (c *Cursor) boundaryBefore(m Metric, before int) (int, bool) {
	l := c.leafNode.leaf
	end := c.leafStart + l.Len()
	if before > end && m.IsBoundary(l.Len(), l) {
		return end, true
	}
	limit := before - c.leafStart
	if limit > l.Len() {
		limit = l.Len()
	}
	if limit <= 0 {
		return 0, false
	}
	if b, ok := m.Prev(limit, l); ok {
		return c.leafStart + b, true
	}
	return 0, false
}

// Next advances to the following boundary under m and returns its
// absolute offset. When no boundary remains the cursor saturates at
// the end sentinel and ok is false.
//
// The search tries the current chunk, then the adjacent chunk, and
// finally re-descends top-down by measure; the last step is what lets
// metrics whose boundaries can skip whole subtrees (newlines in a
// newline-free region) move in logarithmic time instead of scanning
// chunk by chunk.
func (c *Cursor) Next(m Metric) (int, bool) {
	c.check()
	if c.leafNode == nil {
		return 0, false
	}
	from := c.position
	if b, ok := c.boundaryAfter(m, from); ok {
		c.moveTo(b)
		return b, true
	}
	if !c.nextLeaf() {
		return 0, false
	}
	if b, ok := c.boundaryAfter(m, from); ok {
		c.moveTo(b)
		return b, true
	}

	cur := c.root.Convert(from, Bytes{}, m)
	if cur >= c.root.Measure(m) {
		c.toSentinel()
		return 0, false
	}
	c.descendToLeaf(cur+1, m)
	for {
		if b, ok := c.boundaryAfter(m, from); ok {
			c.moveTo(b)
			return b, true
		}
		if !c.nextLeaf() {
			return 0, false
		}
	}
}

// Prev moves to the preceding boundary under m and returns its
// absolute offset. When no boundary precedes the position the cursor
// saturates at offset zero and ok is false.
func (c *Cursor) Prev(m Metric) (int, bool) {
	c.check()
	from := c.position
	if from == 0 {
		return 0, false
	}
	if c.leafNode == nil {
		c.descend(c.root.count - 1)
	}
	if b, ok := c.boundaryBefore(m, from); ok {
		c.moveTo(b)
		return b, true
	}
	if c.prevLeaf() {
		if b, ok := c.boundaryBefore(m, from); ok {
			c.moveTo(b)
			return b, true
		}
	}

	cur := c.root.Convert(from, Bytes{}, m)
	if cur == 0 && m.Kind() == KindTrailing {
		c.moveTo(0)
		return 0, false
	}
	if cur > 0 {
		c.descendToLeaf(cur, m)
	} else {
		c.descend(0)
	}
	for {
		if b, ok := c.boundaryBefore(m, from); ok {
			c.moveTo(b)
			return b, true
		}
		if !c.prevLeaf() {
			c.moveTo(0)
			return 0, false
		}
	}
}

// moveTo repositions the cursor at the absolute offset, reusing the
// current path when the offset falls inside the current leaf.
func (c *Cursor) moveTo(offset int) {
	if offset == c.root.count {
		c.toSentinel()
		return
	}
	if c.leafNode == nil || offset < c.leafStart || offset >= c.leafStart+c.leafNode.leaf.Len() {
		c.descend(offset)
	}
	c.position = offset
}
