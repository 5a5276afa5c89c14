// Copyright (c) 2025 SciGo Rope Library Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.

package tree

// Concat joins two trees into one that reads as left then right. Both
// inputs are treated as shared: the result aliases their subtrees
// wherever possible and clones the handful of nodes it rewrites, so
// either input remains a valid independent revision.
//
// An empty side is returned unchanged from the other, root identity
// included.
func Concat(left, right *Node) *Node {
	if left.count == 0 {
		return right
	}
	if right.count == 0 {
		return left
	}

	switch {
	case left.height == right.height:
		return concatBalanced(left, right)

	case left.height < right.height:
		// Graft left onto right's leftmost spine.
		if left.height == right.height-1 && !left.undersized() {
			return mergeChildLists([]*Node{left}, right.children)
		}
		sub := Concat(left, right.children[0])
		rest := right.children[1:]
		if len(rest) == 0 {
			return sub
		}
		if sub.height == right.height-1 {
			return mergeChildLists([]*Node{sub}, rest)
		}
		return mergeChildLists(sub.children, rest)

	default:
		// Graft right onto left's rightmost spine. The recursion works
		// on a child reachable from a shared root; every path below
		// that rewrites a node clones it first, so this never writes
		// through the shared pointer.
		if right.height == left.height-1 && !right.undersized() {
			return mergeChildLists(left.children, []*Node{right})
		}
		last := len(left.children) - 1
		sub := Concat(left.children[last], right)
		rest := left.children[:last]
		if len(rest) == 0 {
			return sub
		}
		if sub.height == left.height-1 {
			return mergeChildLists(rest, []*Node{sub})
		}
		return mergeChildLists(rest, sub.children)
	}
}

// concatBalanced joins two trees of equal height.
func concatBalanced(left, right *Node) *Node {
	if left.IsLeaf() {
		if !left.leaf.IsUndersized() && !right.leaf.IsUndersized() {
			return NewInternal([]*Node{left, right})
		}
		l := left.Clone()
		if split := l.pushLeaf(right.leaf); split != nil {
			return NewInternal([]*Node{l, split})
		}
		return l
	}
	if !left.undersized() && !right.undersized() {
		return NewInternal([]*Node{left, right})
	}
	return mergeChildLists(left.children, right.children)
}

// mergeChildLists is the shared balancing primitive: given two child
// sequences of one height h, it produces a single node of height h+1
// when the joined list fits MaxChild, and otherwise splits the list at
// its midpoint into two height-h+1 nodes under a height-h+2 parent.
func mergeChildLists(a, b []*Node) *Node {
	joined := make([]*Node, 0, len(a)+len(b))
	joined = append(joined, a...)
	joined = append(joined, b...)
	if len(joined) <= MaxChild {
		return NewInternal(joined)
	}
	mid := (len(joined) + 1) / 2
	return NewInternal([]*Node{
		NewInternal(joined[:mid:mid]),
		NewInternal(joined[mid:]),
	})
}
