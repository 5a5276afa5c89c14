// Copyright (c) 2025 SciGo Rope Library Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.

package tree

import (
	"strings"
	"unicode/utf8"

	"github.com/scigolib/rope/internal/chunk"
	"github.com/scigolib/rope/internal/segment"
)

// BoundaryKind describes where a metric places boundaries relative to
// its units.
type BoundaryKind int

const (
	// KindLeading marks the start of each unit.
	KindLeading BoundaryKind = iota
	// KindTrailing marks the end of each unit.
	KindTrailing
	// KindAtomic marks both; every boundary ends one unit and starts
	// the next.
	KindAtomic
)

// Metric maps between base units (UTF-8 bytes) and one derived textual
// unit. Measure works from a summary alone; the remaining operations
// work inside a single chunk. Boundary offsets handed to and returned
// by the per-chunk operations are chunk-local and range over
// [0, chunk length].
//
// All implementations are zero-size structs, so passing them through
// the interface does not allocate.
type Metric interface {
	// Measure returns the derived-unit length of a subtree with the
	// given summary and base-unit count.
	Measure(s chunk.Summary, count int) int

	// ToBase returns the base offset of the measured-th boundary in l,
	// rounding down to the containing unit's start when measured lands
	// inside one.
	ToBase(measured int, l chunk.Leaf) int

	// FromBase returns the number of units in l's text before base.
	FromBase(base int, l chunk.Leaf) int

	// IsBoundary reports whether base is a boundary in l.
	IsBoundary(base int, l chunk.Leaf) bool

	// Prev returns the greatest boundary in l strictly before base, if
	// one exists. It is never called with base 0.
	Prev(base int, l chunk.Leaf) (int, bool)

	// Next returns the least boundary in l strictly after base, if one
	// exists.
	Next(base int, l chunk.Leaf) (int, bool)

	// CanFragment reports whether the metric's units may straddle a
	// chunk join, making its boundaries depend on neighboring chunks.
	CanFragment() bool

	// Kind returns the metric's boundary placement.
	Kind() BoundaryKind
}

// Bytes is the identity metric over UTF-8 bytes.
type Bytes struct{}

func (Bytes) Measure(_ chunk.Summary, count int) int { return count }
func (Bytes) ToBase(measured int, _ chunk.Leaf) int  { return measured }
func (Bytes) FromBase(base int, _ chunk.Leaf) int    { return base }
func (Bytes) IsBoundary(int, chunk.Leaf) bool        { return true }

func (Bytes) Prev(base int, _ chunk.Leaf) (int, bool) {
	return base - 1, base >= 1
}

func (Bytes) Next(base int, l chunk.Leaf) (int, bool) {
	return base + 1, base < l.Len()
}

func (Bytes) CanFragment() bool  { return false }
func (Bytes) Kind() BoundaryKind { return KindAtomic }
func (Bytes) String() string     { return "utf8" }

// scalarBoundaries is shared by the scalar-aligned metrics: boundaries
// at every scalar start and at the chunk end.
type scalarBoundaries struct{}

func (scalarBoundaries) IsBoundary(base int, l chunk.Leaf) bool {
	return base == l.Len() || utf8.RuneStart(l.Text()[base])
}

func (scalarBoundaries) Prev(base int, l chunk.Leaf) (int, bool) {
	if base < 1 {
		return 0, false
	}
	b := base - 1
	if b > l.Len() {
		b = l.Len()
	}
	text := l.Text()
	for b > 0 && !utf8.RuneStart(text[b]) {
		b--
	}
	return b, true
}

func (scalarBoundaries) Next(base int, l chunk.Leaf) (int, bool) {
	if base >= l.Len() {
		return 0, false
	}
	b := base + 1
	text := l.Text()
	for b < len(text) && !utf8.RuneStart(text[b]) {
		b++
	}
	return b, true
}

func (scalarBoundaries) CanFragment() bool  { return false }
func (scalarBoundaries) Kind() BoundaryKind { return KindAtomic }

// UTF16 measures UTF-16 code units. Boundaries are scalar boundaries;
// a position inside a surrogate pair has no base-unit address and
// rounds down to the pair's scalar.
type UTF16 struct {
	scalarBoundaries
}

func (UTF16) Measure(s chunk.Summary, _ int) int { return s.UTF16 }

func (UTF16) ToBase(measured int, l chunk.Leaf) int {
	off := 0
	text := l.Text()
	for off < len(text) && measured > 0 {
		r, sz := utf8.DecodeRuneInString(text[off:])
		u := 1
		if r > 0xFFFF {
			u = 2
		}
		if u > measured {
			break // mid-pair; round down to the scalar start
		}
		measured -= u
		off += sz
	}
	return off
}

func (UTF16) FromBase(base int, l chunk.Leaf) int {
	u := 0
	for _, r := range l.Text()[:base] {
		if r > 0xFFFF {
			u += 2
		} else {
			u++
		}
	}
	return u
}

func (UTF16) String() string { return "utf16" }

// Scalars measures Unicode scalar values.
type Scalars struct {
	scalarBoundaries
}

func (Scalars) Measure(s chunk.Summary, _ int) int { return s.Scalars }

func (Scalars) ToBase(measured int, l chunk.Leaf) int {
	off := 0
	text := l.Text()
	for off < len(text) && measured > 0 {
		_, sz := utf8.DecodeRuneInString(text[off:])
		off += sz
		measured--
	}
	return off
}

func (Scalars) FromBase(base int, l chunk.Leaf) int {
	return utf8.RuneCountInString(l.Text()[:base])
}

func (Scalars) String() string { return "scalars" }

// Characters measures extended grapheme clusters. Boundaries inside a
// chunk are the cluster starts in the complete-clusters region plus
// the region end; a chunk that is entirely cluster interior has no
// boundaries at all, which is why the metric can fragment.
type Characters struct{}

func (Characters) Measure(s chunk.Summary, _ int) int { return s.Clusters }

// region returns the complete-clusters region bounds [lo, hi].
func (Characters) region(l chunk.Leaf) (int, int, bool) {
	if l.PrefixLen() == l.Len() && l.Len() > 0 {
		return 0, 0, false // whole-chunk fragment
	}
	return l.PrefixLen(), l.Len() - l.SuffixLen(), true
}

func (c Characters) ToBase(measured int, l chunk.Leaf) int {
	lo, hi, ok := c.region(l)
	if !ok {
		return l.Len()
	}
	off := lo
	segment.EachCluster(l.Text()[lo:hi], func(n int) bool {
		if measured == 0 {
			return false
		}
		measured--
		off += n
		return true
	})
	if measured > 0 {
		return hi // straddler start, or clamp at the region end
	}
	return off
}

func (c Characters) FromBase(base int, l chunk.Leaf) int {
	lo, hi, ok := c.region(l)
	if !ok || base <= lo {
		return 0
	}
	count := 0
	off := lo
	segment.EachCluster(l.Text()[lo:hi], func(n int) bool {
		if off >= base {
			return false
		}
		count++
		off += n
		return true
	})
	if l.SuffixLen() > 0 && hi < base {
		count++ // the straddling cluster starts before base
	}
	return count
}

func (c Characters) IsBoundary(base int, l chunk.Leaf) bool {
	lo, hi, ok := c.region(l)
	if !ok || base < lo || base > hi {
		return false
	}
	if base == lo || base == hi {
		return true
	}
	found := false
	off := lo
	segment.EachCluster(l.Text()[lo:hi], func(n int) bool {
		off += n
		if off == base {
			found = true
		}
		return off < base
	})
	return found
}

func (c Characters) Prev(base int, l chunk.Leaf) (int, bool) {
	lo, hi, ok := c.region(l)
	if !ok || base <= lo {
		return 0, false
	}
	best := lo
	off := lo
	segment.EachCluster(l.Text()[lo:hi], func(n int) bool {
		off += n
		if off < base && off <= hi {
			best = off
		}
		return off < base
	})
	return best, true
}

func (c Characters) Next(base int, l chunk.Leaf) (int, bool) {
	lo, hi, ok := c.region(l)
	if !ok || base >= hi {
		return 0, false
	}
	if base < lo {
		return lo, true
	}
	next := -1
	off := lo
	segment.EachCluster(l.Text()[lo:hi], func(n int) bool {
		off += n
		if off > base {
			next = off
			return false
		}
		return true
	})
	if next < 0 {
		return hi, true
	}
	return next, true
}

func (Characters) CanFragment() bool  { return true }
func (Characters) Kind() BoundaryKind { return KindAtomic }
func (Characters) String() string     { return "characters" }

// Lines measures newlines. A boundary sits just past each '\n'; a
// chunk without newlines has no line boundaries, so navigation may
// skip whole subtrees.
type Lines struct{}

func (Lines) Measure(s chunk.Summary, _ int) int { return s.Newlines }

func (Lines) ToBase(measured int, l chunk.Leaf) int {
	if measured <= 0 {
		return 0
	}
	text := l.Text()
	off := 0
	for measured > 0 {
		i := strings.IndexByte(text[off:], '\n')
		if i < 0 {
			return len(text)
		}
		off += i + 1
		measured--
	}
	return off
}

func (Lines) FromBase(base int, l chunk.Leaf) int {
	return strings.Count(l.Text()[:base], "\n")
}

func (Lines) IsBoundary(base int, l chunk.Leaf) bool {
	return base >= 1 && base <= l.Len() && l.Text()[base-1] == '\n'
}

func (Lines) Prev(base int, l chunk.Leaf) (int, bool) {
	if base < 2 {
		return 0, false
	}
	limit := base - 1
	if limit > l.Len() {
		limit = l.Len()
	}
	j := strings.LastIndexByte(l.Text()[:limit], '\n')
	if j < 0 {
		return 0, false
	}
	return j + 1, true
}

func (Lines) Next(base int, l chunk.Leaf) (int, bool) {
	if base < 0 {
		base = 0
	}
	if base >= l.Len() {
		return 0, false
	}
	i := strings.IndexByte(l.Text()[base:], '\n')
	if i < 0 {
		return 0, false
	}
	return base + i + 1, true
}

func (Lines) CanFragment() bool  { return false }
func (Lines) Kind() BoundaryKind { return KindTrailing }
func (Lines) String() string     { return "lines" }
