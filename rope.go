// Copyright (c) 2025 SciGo Rope Library Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.

// Package rope provides a persistent, value-semantic text sequence
// backed by a B-tree of UTF-8 chunks. Concatenation, slicing, and
// replacement run in logarithmic time and share subtrees across
// revisions; positional access is available in five textual units
// (UTF-8 bytes, UTF-16 code units, Unicode scalars, extended grapheme
// clusters, and lines) over one base addressing in bytes.
//
// A Rope is immutable: every editing method returns a new value, and
// the old one remains a valid, independently usable snapshot. Distinct
// snapshots may be read concurrently from any number of goroutines.
//
// Misuse — out-of-range offsets, offsets off a scalar boundary, or an
// Index passed to another revision's editing or slicing methods — is a
// programmer error and panics. Navigation methods do not check an
// Index's revision (see Index). The only recoverable errors are I/O and encoding failures
// from FromReader.
package rope

import (
	"errors"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/scigolib/rope/internal/chunk"
	"github.com/scigolib/rope/internal/tree"
	"github.com/scigolib/rope/internal/utils"
)

// Rope is an immutable UTF-8 text sequence. The zero value is empty
// and ready to use.
type Rope struct {
	root *tree.Node
}

// Metric selects the textual unit for counting and navigation.
type Metric = tree.Metric

// The concrete metrics.
var (
	UTF8       Metric = tree.Bytes{}
	UTF16      Metric = tree.UTF16{}
	Scalars    Metric = tree.Scalars{}
	Characters Metric = tree.Characters{}
	Lines      Metric = tree.Lines{}
)

// New returns an empty rope.
func New() Rope {
	return Rope{}
}

// FromString returns a rope holding s. s must be valid UTF-8.
func FromString(s string) Rope {
	if !utf8.ValidString(s) {
		panic("rope: FromString with invalid UTF-8")
	}
	return fromValidString(s)
}

func fromValidString(s string) Rope {
	if s == "" {
		return Rope{}
	}
	var b tree.Builder
	b.PushString(s)
	root := b.Build()
	root = tree.Resync(root, nil, 0, 0, root.Count())
	return Rope{root: root}
}

// FromReader reads r to the end and returns a rope holding its bytes,
// which must be valid UTF-8.
func FromReader(r io.Reader) (Rope, error) {
	var sb strings.Builder
	buf := utils.GetBuffer(32 * 1024)
	defer utils.ReleaseBuffer(buf)
	for {
		n, err := r.Read(buf[:cap(buf)])
		sb.Write(buf[:n])
		if err == io.EOF {
			break
		}
		if err != nil {
			return Rope{}, utils.WrapError("rope read failed", err)
		}
	}
	text := sb.String()
	if !utf8.ValidString(text) {
		return Rope{}, utils.WrapError("rope construction failed", errors.New("invalid UTF-8"))
	}
	return fromValidString(text), nil
}

// emptyNode is the canonical root of every empty rope, so indices into
// distinct empty values still share a revision. It is never mutated.
var emptyNode = tree.NewLeafNode(chunk.Leaf{})

// node returns the root, substituting the canonical empty leaf for the
// zero value.
func (r Rope) node() *tree.Node {
	if r.root == nil {
		return emptyNode
	}
	return r.root
}

// Len returns the length in base units (UTF-8 bytes).
func (r Rope) Len() int {
	if r.root == nil {
		return 0
	}
	return r.root.Count()
}

// IsEmpty reports whether the rope holds no text.
func (r Rope) IsEmpty() bool { return r.Len() == 0 }

// Count returns the rope's length under m.
func (r Rope) Count(m Metric) int {
	return r.node().Measure(m)
}

// String materializes the whole text.
func (r Rope) String() string {
	return tree.Extract(r.node(), 0, r.Len())
}

// Concat returns the concatenation of r and other. Either side being
// empty returns the other unchanged, shared root included.
func (r Rope) Concat(other Rope) Rope {
	if r.Len() == 0 {
		return other
	}
	if other.Len() == 0 {
		return r
	}
	join := r.Len()
	root := tree.Concat(r.node(), other.node())
	root = tree.Resync(root, r.root, 0, join, join)
	return Rope{root: root}
}

// Slice returns the sub-rope for the byte range [start, end). Both
// bounds must lie on scalar boundaries. Slicing the full range returns
// r unchanged, root included.
func (r Rope) Slice(start, end int) Rope {
	r.checkRange(start, end)
	if start == 0 && end == r.Len() {
		return r
	}
	if start == end {
		return Rope{}
	}
	var b tree.Builder
	b.PushSlice(r.node(), start, end)
	root := b.Build()
	if start > 0 {
		root = tree.Resync(root, nil, 0, 0, 0)
	}
	if end < r.Len() {
		root = tree.Resync(root, r.root, start, root.Count(), root.Count())
	}
	return Rope{root: root}
}

// Split returns the two sub-ropes on either side of i, which must lie
// on a scalar boundary.
func (r Rope) Split(i int) (Rope, Rope) {
	return r.Slice(0, i), r.Slice(i, r.Len())
}

// Replace returns r with the byte range [start, end) replaced by text.
// The bounds must lie on scalar boundaries; text must be valid UTF-8.
func (r Rope) Replace(start, end int, text string) Rope {
	r.checkRange(start, end)
	if !utf8.ValidString(text) {
		panic("rope: Replace with invalid UTF-8")
	}
	if start == 0 && end == r.Len() {
		return fromValidString(text)
	}
	var b tree.Builder
	b.PushSlice(r.node(), 0, start)
	b.PushString(text)
	b.PushSlice(r.node(), end, r.Len())
	root := b.Build()
	root = tree.Resync(root, r.root, 0, start, start+len(text))
	return Rope{root: root}
}

// Insert returns r with text inserted at the byte offset pos, which
// must lie on a scalar boundary.
func (r Rope) Insert(pos int, text string) Rope {
	return r.Replace(pos, pos, text)
}

// Append returns r with text appended.
func (r Rope) Append(text string) Rope {
	return r.Replace(r.Len(), r.Len(), text)
}

// Remove returns r with the byte range [start, end) deleted.
func (r Rope) Remove(start, end int) Rope {
	return r.Replace(start, end, "")
}

// Equal reports whether r and other hold the same text.
func (r Rope) Equal(other Rope) bool {
	if r.Len() != other.Len() {
		return false
	}
	if r.root == other.root {
		return true
	}
	return r.String() == other.String()
}

// checkRange validates a byte range against the rope's length and
// scalar boundaries.
func (r Rope) checkRange(start, end int) {
	if start < 0 || end > r.Len() || start > end {
		panic("rope: range out of bounds")
	}
	r.checkBoundary(start)
	r.checkBoundary(end)
}

func (r Rope) checkBoundary(pos int) {
	if pos == 0 || pos == r.Len() {
		return
	}
	c := tree.NewCursor(r.node(), pos)
	l, off, _ := c.Read()
	if off < l.Len() && !utf8.RuneStart(l.Text()[off]) {
		panic("rope: offset not on a scalar boundary")
	}
}
