package rope

import "github.com/scigolib/rope/internal/tree"

// Index is a position in a specific revision of a rope. ReplaceBetween,
// InsertAt, RemoveBetween and SliceBetween panic when given an Index of
// another revision, and so do Equal and Before on Indices of different
// revisions. IndexAfter, IndexBefore, IndexOffsetBy, IndexRoundingDown
// and the views' At methods do not check which revision an Index
// belongs to; they move and read within the Index's own revision.
type Index struct {
	c *tree.Cursor
}

// Index returns an Index at the base (UTF-8 byte) offset, which must
// lie in [0, Len()].
func (r Rope) Index(offset int) Index {
	return Index{c: tree.NewCursor(r.node(), offset)}
}

// StartIndex returns the Index of the first position.
func (r Rope) StartIndex() Index { return r.Index(0) }

// EndIndex returns the one-past-the-end Index.
func (r Rope) EndIndex() Index { return r.Index(r.Len()) }

// IndexAt returns the Index of the measured-th boundary under m,
// counted from the start. measured == Count(m) yields the end Index
// for every metric except Lines, where it yields the position just
// past the last newline; that is the end Index only when the text
// ends with a newline.
func (r Rope) IndexAt(measured int, m Metric) Index {
	if measured < 0 || measured > r.Count(m) {
		panic("rope: metric offset out of range")
	}
	base := r.node().Convert(measured, m, tree.Bytes{})
	return r.Index(base)
}

// Position returns the Index's base offset.
func (i Index) Position() int { return i.c.Position() }

// AtEnd reports whether the Index is one past the end.
func (i Index) AtEnd() bool { return i.c.AtEnd() }

// Equal reports whether two Indices denote the same position. Both
// must belong to the same revision.
func (i Index) Equal(o Index) bool { return i.c.Compare(o.c) == 0 }

// Before reports whether i precedes o. Both must belong to the same
// revision.
func (i Index) Before(o Index) bool { return i.c.Compare(o.c) < 0 }

// IndexAfter returns the next boundary under m after i. Advancing past
// the end panics.
func (r Rope) IndexAfter(i Index, m Metric) Index {
	c := i.c.Clone()
	if _, ok := c.Next(m); !ok {
		if c.AtEnd() && i.c.AtEnd() {
			panic("rope: advancing index past the end")
		}
		// Saturated onto the end sentinel: that is the successor.
	}
	return Index{c: c}
}

// IndexBefore returns the previous boundary under m before i. Moving
// before the start panics.
func (r Rope) IndexBefore(i Index, m Metric) Index {
	if i.c.Position() == 0 {
		panic("rope: moving index before the start")
	}
	c := i.c.Clone()
	if _, ok := c.Prev(m); !ok {
		panic("rope: no boundary before index")
	}
	return Index{c: c}
}

// IndexOffsetBy returns i moved by distance boundaries under m
// (negative distances move backward). Running off either end panics.
func (r Rope) IndexOffsetBy(i Index, distance int, m Metric) Index {
	for distance > 0 {
		i = r.IndexAfter(i, m)
		distance--
	}
	for distance < 0 {
		i = r.IndexBefore(i, m)
		distance++
	}
	return i
}

// IndexOffsetByLimited behaves like IndexOffsetBy but stops at limit,
// reporting whether the full distance was covered.
func (r Rope) IndexOffsetByLimited(i Index, distance int, m Metric, limit Index) (Index, bool) {
	for distance > 0 {
		if !i.Before(limit) {
			return i, false
		}
		next := r.IndexAfter(i, m)
		if limit.Before(next) {
			return limit, false
		}
		i = next
		distance--
	}
	for distance < 0 {
		if !limit.Before(i) {
			return i, false
		}
		prev := r.IndexBefore(i, m)
		if prev.Before(limit) {
			return limit, false
		}
		i = prev
		distance++
	}
	return i, true
}

// checkIndex verifies that i belongs to r's current revision.
func (r Rope) checkIndex(i Index) {
	if i.c.Root() != r.node() {
		panic("rope: index from a different rope")
	}
}

// ReplaceBetween returns r with the text between two Indices replaced.
// Both must belong to r's revision.
func (r Rope) ReplaceBetween(start, end Index, text string) Rope {
	r.checkIndex(start)
	r.checkIndex(end)
	return r.Replace(start.Position(), end.Position(), text)
}

// InsertAt returns r with text inserted at an Index of r's revision.
func (r Rope) InsertAt(i Index, text string) Rope {
	r.checkIndex(i)
	return r.Insert(i.Position(), text)
}

// RemoveBetween returns r with the text between two Indices deleted.
func (r Rope) RemoveBetween(start, end Index) Rope {
	return r.ReplaceBetween(start, end, "")
}

// SliceBetween returns the sub-rope between two Indices of r's
// revision.
func (r Rope) SliceBetween(start, end Index) Rope {
	r.checkIndex(start)
	r.checkIndex(end)
	return r.Slice(start.Position(), end.Position())
}

// IndexRoundingDown returns the greatest boundary under m at or before
// i.
func (r Rope) IndexRoundingDown(i Index, m Metric) Index {
	c := i.c.Clone()
	if l, off, ok := c.Read(); ok && m.IsBoundary(off, l) {
		return Index{c: c}
	}
	if c.AtEnd() {
		return Index{c: c}
	}
	if _, ok := c.Prev(m); !ok {
		return Index{c: tree.NewCursor(r.node(), 0)}
	}
	return Index{c: c}
}
