package tree

import (
	"testing"

	"github.com/scigolib/rope/internal/chunk"
	"github.com/stretchr/testify/assert"
)

// TestMetric_Bytes checks the identity metric inside one chunk.
func TestMetric_Bytes(t *testing.T) {
	l := chunk.New("abc")
	m := Bytes{}
	assert.Equal(t, 3, m.Measure(l.Summarize(), l.Len()))
	for b := 0; b <= 3; b++ {
		assert.True(t, m.IsBoundary(b, l))
		assert.Equal(t, b, m.ToBase(m.FromBase(b, l), l))
	}
	n, ok := m.Next(0, l)
	assert.True(t, ok)
	assert.Equal(t, 1, n)
	_, ok = m.Next(3, l)
	assert.False(t, ok)
	p, ok := m.Prev(3, l)
	assert.True(t, ok)
	assert.Equal(t, 2, p)
}

// TestMetric_UTF16 checks measure and rounding inside surrogate pairs.
func TestMetric_UTF16(t *testing.T) {
	l := chunk.New("a\U0001F600b") // 1 + 2 + 1 units, 1 + 4 + 1 bytes
	m := UTF16{}
	assert.Equal(t, 4, m.Measure(l.Summarize(), l.Len()))

	assert.Equal(t, 0, m.ToBase(0, l))
	assert.Equal(t, 1, m.ToBase(1, l))
	assert.Equal(t, 1, m.ToBase(2, l), "mid-pair rounds down to the scalar start")
	assert.Equal(t, 5, m.ToBase(3, l))
	assert.Equal(t, 6, m.ToBase(4, l))

	assert.Equal(t, 1, m.FromBase(1, l))
	assert.Equal(t, 3, m.FromBase(5, l))

	assert.True(t, m.IsBoundary(5, l))
	assert.False(t, m.IsBoundary(2, l))
}

// TestMetric_Scalars checks scalar navigation over mixed widths.
func TestMetric_Scalars(t *testing.T) {
	l := chunk.New("aé☃")
	m := Scalars{}
	assert.Equal(t, 3, m.Measure(l.Summarize(), l.Len()))

	wantBounds := []int{0, 1, 3, 6}
	for _, b := range wantBounds {
		assert.True(t, m.IsBoundary(b, l), "boundary %d", b)
	}
	assert.False(t, m.IsBoundary(2, l))
	assert.False(t, m.IsBoundary(4, l))

	next, ok := m.Next(1, l)
	assert.True(t, ok)
	assert.Equal(t, 3, next)
	prev, ok := m.Prev(6, l)
	assert.True(t, ok)
	assert.Equal(t, 3, prev)
	prev, ok = m.Prev(1, l)
	assert.True(t, ok)
	assert.Equal(t, 0, prev)
}

// TestMetric_Characters checks cluster boundaries with and without
// edge fragments.
func TestMetric_Characters(t *testing.T) {
	m := Characters{}

	plain := chunk.New("aéx") // a, é, x
	assert.Equal(t, 3, m.Measure(plain.Summarize(), plain.Len()))
	assert.True(t, m.IsBoundary(0, plain))
	assert.True(t, m.IsBoundary(1, plain))
	assert.False(t, m.IsBoundary(2, plain), "inside the combining sequence")
	assert.True(t, m.IsBoundary(4, plain))
	assert.True(t, m.IsBoundary(5, plain))

	next, ok := m.Next(1, plain)
	assert.True(t, ok)
	assert.Equal(t, 4, next)
	prev, ok := m.Prev(4, plain)
	assert.True(t, ok)
	assert.Equal(t, 1, prev)

	assert.Equal(t, 1, m.ToBase(1, plain))
	assert.Equal(t, 2, m.FromBase(4, plain))

	// With fragments: the mark belongs to the previous chunk's
	// cluster, the trailing e starts a straddler.
	frag := chunk.New("́abe")
	frag.SetFragments(2, 1)
	assert.Equal(t, 3, m.Measure(frag.Summarize(), frag.Len()))
	assert.False(t, m.IsBoundary(0, frag))
	assert.True(t, m.IsBoundary(2, frag))
	assert.True(t, m.IsBoundary(4, frag), "straddler start")
	assert.False(t, m.IsBoundary(5, frag), "chunk end is mid-cluster")
	next, ok = m.Next(4, frag)
	assert.False(t, ok, "no boundary past the straddler start: %d", next)

	// A whole-chunk fragment has no boundaries at all.
	interior := chunk.New("́́")
	interior.SetFragments(interior.Len(), 0)
	assert.Equal(t, 0, m.Measure(interior.Summarize(), interior.Len()))
	assert.False(t, m.IsBoundary(0, interior))
	_, ok = m.Next(0, interior)
	assert.False(t, ok)
}

// TestMetric_Lines checks trailing newline boundaries.
func TestMetric_Lines(t *testing.T) {
	l := chunk.New("ab\ncd\nef")
	m := Lines{}
	assert.Equal(t, 2, m.Measure(l.Summarize(), l.Len()))

	assert.False(t, m.IsBoundary(0, l))
	assert.True(t, m.IsBoundary(3, l))
	assert.True(t, m.IsBoundary(6, l))
	assert.False(t, m.IsBoundary(8, l))

	assert.Equal(t, 0, m.ToBase(0, l))
	assert.Equal(t, 3, m.ToBase(1, l))
	assert.Equal(t, 6, m.ToBase(2, l))
	assert.Equal(t, 1, m.FromBase(4, l))

	next, ok := m.Next(0, l)
	assert.True(t, ok)
	assert.Equal(t, 3, next)
	next, ok = m.Next(3, l)
	assert.True(t, ok)
	assert.Equal(t, 6, next)
	_, ok = m.Next(6, l)
	assert.False(t, ok)

	prev, ok := m.Prev(6, l)
	assert.True(t, ok)
	assert.Equal(t, 3, prev)
	prev, ok = m.Prev(8, l)
	assert.True(t, ok)
	assert.Equal(t, 6, prev)
	_, ok = m.Prev(3, l)
	assert.False(t, ok)
}

// TestMetric_KindsAndFragmentation pins down the classification table.
func TestMetric_KindsAndFragmentation(t *testing.T) {
	assert.Equal(t, KindAtomic, Bytes{}.Kind())
	assert.Equal(t, KindAtomic, UTF16{}.Kind())
	assert.Equal(t, KindAtomic, Scalars{}.Kind())
	assert.Equal(t, KindAtomic, Characters{}.Kind())
	assert.Equal(t, KindTrailing, Lines{}.Kind())

	assert.False(t, Bytes{}.CanFragment())
	assert.False(t, UTF16{}.CanFragment())
	assert.False(t, Scalars{}.CanFragment())
	assert.True(t, Characters{}.CanFragment())
	assert.False(t, Lines{}.CanFragment())
}
