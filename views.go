// Copyright (c) 2025 SciGo Rope Library Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.

package rope

import (
	"iter"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/scigolib/rope/internal/segment"
	"github.com/scigolib/rope/internal/tree"
)

// The view types are thin adapters over the metrics: each exposes the
// rope as a sequence of one textual unit, delegating counting and
// navigation to the corresponding metric over the shared base
// addressing.

// UTF8View presents the rope as a sequence of UTF-8 bytes.
type UTF8View struct{ r Rope }

// UTF8 returns the byte view.
func (r Rope) UTF8() UTF8View { return UTF8View{r} }

// Count returns the number of bytes.
func (v UTF8View) Count() int { return v.r.Len() }

// At returns the byte at i.
func (v UTF8View) At(i Index) byte {
	l, off, ok := i.c.Read()
	if !ok || off >= l.Len() {
		panic("rope: byte read at the end index")
	}
	return l.Text()[off]
}

// All yields the bytes in order.
func (v UTF8View) All() iter.Seq[byte] {
	return func(yield func(byte) bool) {
		for text := range v.r.Chunks() {
			for i := 0; i < len(text); i++ {
				if !yield(text[i]) {
					return
				}
			}
		}
	}
}

// UTF16View presents the rope as a sequence of UTF-16 code units.
type UTF16View struct{ r Rope }

// UTF16 returns the code-unit view.
func (r Rope) UTF16() UTF16View { return UTF16View{r} }

// Count returns the number of UTF-16 code units.
func (v UTF16View) Count() int { return v.r.Count(UTF16) }

// All yields the code units in order, surrogate pairs included.
func (v UTF16View) All() iter.Seq[uint16] {
	return func(yield func(uint16) bool) {
		for r := range v.r.Scalars().All() {
			if r <= 0xFFFF {
				if !yield(uint16(r)) {
					return
				}
				continue
			}
			hi, lo := utf16.EncodeRune(r)
			if !yield(uint16(hi)) || !yield(uint16(lo)) {
				return
			}
		}
	}
}

// ScalarView presents the rope as a sequence of Unicode scalar values.
type ScalarView struct{ r Rope }

// Scalars returns the scalar view.
func (r Rope) Scalars() ScalarView { return ScalarView{r} }

// Count returns the number of scalars.
func (v ScalarView) Count() int { return v.r.Count(Scalars) }

// At returns the scalar starting at the rounded-down position of i.
func (v ScalarView) At(i Index) rune {
	j := v.r.IndexRoundingDown(i, Scalars)
	l, off, ok := j.c.Read()
	if !ok || off >= l.Len() {
		panic("rope: scalar read at the end index")
	}
	r, _ := utf8.DecodeRuneInString(l.Text()[off:])
	return r
}

// All yields the scalars in order.
func (v ScalarView) All() iter.Seq[rune] {
	return func(yield func(rune) bool) {
		for text := range v.r.Chunks() {
			for _, r := range text {
				if !yield(r) {
					return
				}
			}
		}
	}
}

// CharacterView presents the rope as a sequence of extended grapheme
// clusters.
type CharacterView struct{ r Rope }

// Characters returns the cluster view.
func (r Rope) Characters() CharacterView { return CharacterView{r} }

// Count returns the number of clusters.
func (v CharacterView) Count() int { return v.r.Count(Characters) }

// At returns a copy of the cluster at the rounded-down position of i.
func (v CharacterView) At(i Index) string {
	start := v.r.IndexRoundingDown(i, Characters)
	if start.AtEnd() {
		panic("rope: character read at the end index")
	}
	end := v.r.IndexAfter(start, Characters)
	return tree.Extract(v.r.node(), start.Position(), end.Position())
}

// All yields the clusters in order. Clusters spanning chunk joins are
// assembled whole.
func (v CharacterView) All() iter.Seq[string] {
	return func(yield func(string) bool) {
		sc := segment.NewScanner(NewReader(v.r))
		for {
			cluster, ok := sc.NextToken()
			if !ok {
				return
			}
			if !yield(cluster) {
				return
			}
		}
	}
}

// LineView presents the rope as a sequence of lines, each including
// its trailing newline. Text after the final newline forms a last,
// unterminated line.
type LineView struct{ r Rope }

// Lines returns the line view.
func (r Rope) Lines() LineView { return LineView{r} }

// Count returns the number of line boundaries (newlines).
func (v LineView) Count() int { return v.r.Count(Lines) }

// At returns the line containing the rounded-down position of i: the
// text from the preceding line boundary through the next newline,
// inclusive.
func (v LineView) At(i Index) string {
	start := v.r.IndexRoundingDown(i, Lines)
	end := v.r.IndexAfter(start, Lines)
	return tree.Extract(v.r.node(), start.Position(), end.Position())
}

// Line returns the n-th line, 0-based.
func (v LineView) Line(n int) string {
	start := v.r.IndexAt(n, Lines)
	return v.At(start)
}

// All yields the lines in order.
func (v LineView) All() iter.Seq[string] {
	return func(yield func(string) bool) {
		var line []byte
		for text := range v.r.Chunks() {
			for len(text) > 0 {
				i := strings.IndexByte(text, '\n')
				if i < 0 {
					line = append(line, text...)
					break
				}
				line = append(line, text[:i+1]...)
				if !yield(string(line)) {
					return
				}
				line = line[:0]
				text = text[i+1:]
			}
		}
		if len(line) > 0 {
			yield(string(line))
		}
	}
}

// Chunks yields the rope's raw chunk texts in order.
func (r Rope) Chunks() iter.Seq[string] {
	return func(yield func(string) bool) {
		tree.Chunks(r.node(), yield)
	}
}
