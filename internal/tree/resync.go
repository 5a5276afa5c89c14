// Copyright (c) 2025 SciGo Rope Library Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.

package tree

import (
	"unicode/utf8"

	"github.com/scigolib/rope/internal/chunk"
	"github.com/scigolib/rope/internal/segment"
)

// Grapheme resync.
//
// Edits rewrite chunks with their fragment lengths zeroed, and a chunk
// join inside the edit region may now fall mid-cluster. Resync walks
// forward from the last cluster boundary known to survive the edit,
// re-deriving every chunk's prefix and suffix fragment from a fresh
// streaming break scan, until the recomputed breaks land back on the
// breaks the untouched chunks already record. From that point the old
// segmentation re-derives itself, so the remaining chunks are left
// untouched.
//
// The boundary the scan is seeded from must be a true cluster boundary:
// cluster breaking has no lookahead past the next scalar but unbounded
// lookback (regional-indicator parity), so a scan seeded mid-cluster
// could stay wrong forever. Seeds are taken from the fragment metadata
// of the previous revision, which is trustworthy everywhere before the
// edit; the new revision's chunks near the edit are not, since slicing
// zeroed them.

// resyncWindow pads the rewritten region: chunk merges and splits
// around an edit can rewrite chunk boundaries up to two chunks past
// it, and chunks inside the window never stop the walk early.
const resyncWindow = 2 * chunk.MaxBytes

// Resync re-derives fragment metadata after an edit and returns the
// corrected root. old is the pre-edit revision (nil for bulk builds);
// oldShift maps new offsets before the edit to old ones (new+oldShift).
// editStart and editEnd bound the rewritten bytes in the new revision.
func Resync(root, old *Node, oldShift, editStart, editEnd int) *Node {
	if root.count == 0 {
		return root
	}

	seed := 0
	if old != nil && editStart > 0 {
		seed = findSeed(old, editStart+oldShift) - oldShift
		if seed < 0 {
			seed = 0
		}
	}

	updates := planResync(root, old, oldShift, seed, editEnd)
	for _, u := range updates {
		root = updateLeafAt(root, u.pos, u.prefix, u.suffix)
	}
	return root
}

// findSeed returns the latest stored cluster boundary that provably
// survives an edit at limit: its scalar must end before the edited
// bytes, and it must lie at least two chunks back. The chunk holding
// the edit is re-sliced, and the builder may merge the chunk before it
// into the rewrite and split the result elsewhere, so breaks recorded
// by either cannot be trusted; the second predecessor is pushed whole
// and keeps its metadata. Offset 0 is always a boundary.
func findSeed(old *Node, limit int) int {
	c := NewCursor(old, limit)
	if !c.prevLeaf() {
		return 0
	}
	for c.prevLeaf() {
		l := c.leafNode.leaf
		if l.PrefixLen() >= l.Len() && l.Len() > 0 {
			continue // whole-chunk fragment, no break inside
		}
		last := c.leafStart + l.Len() - l.SuffixLen()
		if last+utf8.UTFMax <= limit {
			return last
		}
		first := c.leafStart + l.PrefixLen()
		if first+utf8.UTFMax <= limit {
			return first
		}
	}
	return 0
}

type leafUpdate struct {
	pos    int // absolute start of the leaf
	prefix int
	suffix int
}

// planResync scans the new revision's clusters from seed and decides
// which leaves need their fragments rewritten.
func planResync(root, old *Node, oldShift, seed, editEnd int) []leafUpdate {
	sc := segment.NewScanner(newTreeReader(root, seed))
	pending, pendOK := nextBreak(sc, seed)

	it := newLeafIter(root, seed)
	stopAt := editEnd + resyncWindow

	var updates []leafUpdate
	carry := seed
	first := true
	var breaks []int

	for {
		n, lo, ok := it.current()
		if !ok {
			break
		}
		l := n.leaf
		hi := lo + l.Len()

		breaks = breaks[:0]
		if carry >= lo {
			breaks = append(breaks, carry)
		}
		for pendOK && pending <= hi {
			breaks = append(breaks, pending)
			carry = pending
			pending, pendOK = nextBreak(sc, pending)
		}

		var prefix, suffix, clusters int
		if len(breaks) == 0 {
			prefix, suffix, clusters = l.Len(), 0, 0
		} else {
			prefix = breaks[0] - lo
			suffix = hi - breaks[len(breaks)-1]
			clusters = len(breaks)
			if breaks[len(breaks)-1] == hi {
				clusters--
			}
		}
		if first {
			if seed > lo {
				// Breaks before the seed were not rescanned; the
				// stored prefix predates the edit and stands.
				prefix = l.PrefixLen()
				clusters += preservedClusters(old, oldShift, lo, seed)
			}
			first = false
		}

		same := prefix == l.PrefixLen() && suffix == l.SuffixLen() &&
			clusters == n.summary.Clusters
		if same && lo >= stopAt && prefix < l.Len() {
			// The rescan landed on a stored break past the edit; the
			// old segmentation re-derives itself from here on.
			break
		}
		if !same {
			updates = append(updates, leafUpdate{pos: lo, prefix: prefix, suffix: suffix})
		}
		it.advance()
	}
	return updates
}

func nextBreak(sc *segment.Scanner, at int) (int, bool) {
	n, ok := sc.Next()
	if !ok {
		return 0, false
	}
	return at + n, true
}

// preservedClusters counts the clusters starting in [lo, seed), a
// region the edit did not touch, using the previous revision's
// summaries.
func preservedClusters(old *Node, oldShift, lo, seed int) int {
	if old == nil {
		return 0
	}
	chars := Characters{}
	return old.Convert(seed+oldShift, Bytes{}, chars) -
		old.Convert(lo+oldShift, Bytes{}, chars)
}

// updateLeafAt rewrites the fragment lengths of the leaf starting at
// pos by path copying: every node on the path is cloned, summaries are
// refreshed bottom-up, and untouched siblings stay shared.
func updateLeafAt(n *Node, pos, prefix, suffix int) *Node {
	c := n.Clone()
	if c.IsLeaf() {
		c.leaf.SetFragments(prefix, suffix)
		c.summary = c.leaf.Summarize()
		return c
	}
	off := 0
	for i, ch := range c.children {
		if pos < off+ch.count || i == len(c.children)-1 {
			c.children[i] = updateLeafAt(ch, pos-off, prefix, suffix)
			break
		}
		off += ch.count
	}
	s := chunk.Summary{}
	for _, ch := range c.children {
		s = s.Merge(ch.summary)
	}
	c.summary = s
	return c
}
