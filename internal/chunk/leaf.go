// Copyright (c) 2025 SciGo Rope Library Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.

// Package chunk implements the fixed-capacity UTF-8 text chunks the
// rope B-tree stores at its leaves, together with the split-point
// selection rules for bulk loading and overflow.
package chunk

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/scigolib/rope/internal/segment"
)

// Size window for leaf chunks. The root of a tree that is itself a
// leaf may be shorter than MinBytes; every other leaf must fall inside
// the window.
const (
	MinBytes = 511
	MaxBytes = 1023
)

// Leaf is one contiguous UTF-8 chunk.
//
// prefixLen and suffixLen describe grapheme fragments at the chunk
// edges: the first prefixLen bytes belong to a cluster that started in
// a previous chunk, and the last suffixLen bytes start a cluster that
// completes in a following chunk. Both always fall on scalar
// boundaries. A chunk that is entirely the interior of one cluster has
// prefixLen == len(text) and suffixLen == 0.
type Leaf struct {
	text      string
	prefixLen int
	suffixLen int
}

// New returns a leaf holding text, with no edge fragments recorded.
// text must be valid UTF-8.
func New(text string) Leaf {
	if !utf8.ValidString(text) {
		panic("rope: invalid UTF-8 in chunk")
	}
	return Leaf{text: text}
}

// Text returns the chunk's bytes.
func (l Leaf) Text() string { return l.text }

// Len returns the chunk length in bytes.
func (l Leaf) Len() int { return len(l.text) }

// PrefixLen returns the length of the leading cluster fragment.
func (l Leaf) PrefixLen() int { return l.prefixLen }

// SuffixLen returns the length of the trailing cluster fragment.
func (l Leaf) SuffixLen() int { return l.suffixLen }

// IsUndersized reports whether the chunk is below MinBytes.
func (l Leaf) IsUndersized() bool { return len(l.text) < MinBytes }

// SetFragments records the edge fragment lengths. Both must lie on
// scalar boundaries and satisfy prefix+suffix <= len, except for the
// whole-chunk fragment where prefix == len and suffix == 0.
func (l *Leaf) SetFragments(prefix, suffix int) {
	if prefix == len(l.text) && suffix == 0 {
		l.prefixLen, l.suffixLen = prefix, 0
		return
	}
	if prefix < 0 || suffix < 0 || prefix+suffix > len(l.text) {
		panic(fmt.Sprintf("rope: fragment lengths %d+%d exceed chunk length %d", prefix, suffix, len(l.text)))
	}
	if !l.isScalarBoundary(prefix) || !l.isScalarBoundary(len(l.text)-suffix) {
		panic("rope: fragment length not on a scalar boundary")
	}
	l.prefixLen, l.suffixLen = prefix, suffix
}

func (l Leaf) isScalarBoundary(i int) bool {
	return i == 0 || i == len(l.text) || utf8.RuneStart(l.text[i])
}

// PushMaybeSplit appends other's text. If the result fits MaxBytes the
// receiver holds the concatenation and nil is returned. Otherwise the
// text is split at a point chosen by MergeSplitPoint so that both
// pieces fall inside the size window; the receiver keeps the left
// piece and the right piece is returned.
//
// The receiver's prefix fragment is preserved (its leading bytes are
// unchanged). Without a split the trailing fragment is taken from
// other, whose tail the result now ends with. A split lands at an
// arbitrary interior point, so both fragment lengths around it are
// zeroed; resync re-derives them.
func (l *Leaf) PushMaybeSplit(other Leaf) *Leaf {
	joined := l.text + other.text
	if len(joined) <= MaxBytes {
		l.text = joined
		l.suffixLen = other.suffixLen
		if l.prefixLen == len(l.text)-len(other.text) && other.prefixLen == len(other.text) {
			// Both pieces were cluster interior; so is the join.
			l.prefixLen = len(l.text)
			l.suffixLen = 0
		}
		return nil
	}
	i := MergeSplitPoint(joined)
	right := Leaf{text: joined[i:]}
	l.text = joined[:i]
	if l.prefixLen > len(l.text) {
		l.prefixLen = len(l.text)
	}
	l.suffixLen = 0
	return &right
}

// Slice returns the chunk for the byte range [start, end), which must
// lie on scalar boundaries. Fragment lengths of the result are reset
// to zero; resync restores them.
func (l Leaf) Slice(start, end int) Leaf {
	if start < 0 || end > len(l.text) || start > end {
		panic(fmt.Sprintf("rope: chunk slice [%d, %d) out of range [0, %d)", start, end, len(l.text)))
	}
	if !l.isScalarBoundary(start) || !l.isScalarBoundary(end) {
		panic("rope: chunk slice not on a scalar boundary")
	}
	return Leaf{text: l.text[start:end]}
}

// Summarize computes the chunk's statistics. Cluster counting is
// restricted to the complete-clusters region between the edge
// fragments, plus the straddling cluster that starts at the region end
// when a trailing fragment is present.
func (l Leaf) Summarize() Summary {
	var s Summary
	for _, r := range l.text {
		s.Scalars++
		if r > 0xFFFF {
			s.UTF16 += 2
		} else {
			s.UTF16++
		}
	}
	s.Newlines = strings.Count(l.text, "\n")
	if l.prefixLen < len(l.text) {
		s.Clusters = segment.ClusterCount(l.text[l.prefixLen : len(l.text)-l.suffixLen])
		if l.suffixLen > 0 {
			s.Clusters++
		}
	}
	return s
}
