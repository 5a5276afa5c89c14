package tree

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// replaceText mirrors the rope's edit pipeline: slice + insert + slice
// through the builder, then resync against the previous revision.
func replaceText(t *testing.T, root *Node, start, end int, text string) *Node {
	t.Helper()
	var b Builder
	b.PushSlice(root, 0, start)
	b.PushString(text)
	b.PushSlice(root, end, root.Count())
	out := b.Build()
	out = Resync(out, root, 0, start, start+len(text))
	require.NoError(t, Validate(out))
	return out
}

// TestResync_BulkBuild checks that a full build derives fragment
// metadata for clusters split by bulk chunking.
func TestResync_BulkBuild(t *testing.T) {
	// The chunker cuts this text at 689, between the 'e' and its
	// combining acute.
	text := strings.Repeat("x", 688) + "e\u0301" + strings.Repeat("y", 509)
	root := buildText(t, text)

	assert.Equal(t, 688+1+509, root.Measure(Characters{}))
	require.False(t, root.IsLeaf())
	first := root.Children()[0]
	second := root.Children()[1]
	assert.Equal(t, 1, first.Leaf().SuffixLen())
	assert.Equal(t, 2, second.Leaf().PrefixLen())
}

// TestResync_EditCreatesStraddle checks the edit path of the spec's
// boundary scenario: replacing bytes so that a combining sequence
// lands exactly on a chunk join.
func TestResync_EditCreatesStraddle(t *testing.T) {
	root := buildText(t, strings.Repeat("x", 1200))
	assert.Equal(t, 1200, root.Measure(Characters{}))

	edited := replaceText(t, root, 688, 691, "e\u0301")
	assert.Equal(t, 1200, edited.Count())
	assert.Equal(t, 1198, edited.Measure(Characters{}),
		"e plus combining acute fuse into one cluster")
	assert.Equal(t, strings.Repeat("x", 688)+"e\u0301"+strings.Repeat("x", 509),
		textOf(edited))

	// The old revision still answers with its own counts.
	assert.Equal(t, 1200, root.Measure(Characters{}))
}

// TestResync_EditHealsStraddle checks the reverse: removing the
// combining mark restores per-chunk boundaries.
func TestResync_EditHealsStraddle(t *testing.T) {
	text := strings.Repeat("x", 688) + "e\u0301" + strings.Repeat("y", 509)
	root := buildText(t, text)

	healed := replaceText(t, root, 689, 691, "z")
	assert.Equal(t, strings.Repeat("x", 688)+"ez"+strings.Repeat("y", 509), textOf(healed))
	assert.Equal(t, 1199, healed.Measure(Characters{}))
}

// TestResync_AppendAfterTrailingFragment checks seeding from stored
// metadata when the edit lands right after a cross-chunk cluster.
func TestResync_AppendAfterTrailingFragment(t *testing.T) {
	text := strings.Repeat("x", 688) + "e\u0301" + strings.Repeat("y", 509)
	root := buildText(t, text)

	grown := replaceText(t, root, root.Count(), root.Count(), strings.Repeat("z", 700))
	assert.Equal(t, 688+1+509+700, grown.Measure(Characters{}))
}

// TestResync_RegionalIndicators checks a metric whose breaks depend on
// unbounded lookback: flags pair up two scalars at a time, and an edit
// in front of a long run must not flip the pairing of the tail.
func TestResync_RegionalIndicators(t *testing.T) {
	flags := strings.Repeat("\U0001F1E9\U0001F1EA", 300) // 2400 bytes, 300 pairs
	root := buildText(t, "abcd"+flags)
	require.Equal(t, 4+300, root.Measure(Characters{}))

	// Deleting two leading bytes of ASCII padding keeps the flag run
	// aligned; the pairing must survive the edit.
	edited := replaceText(t, root, 0, 2, "")
	assert.Equal(t, 2+300, edited.Measure(Characters{}))

	// Inserting one more regional indicator at the front of the run
	// re-pairs every flag after it.
	shifted := replaceText(t, root, 4, 4, "\U0001F1E6")
	assert.Equal(t, 4+300+1, shifted.Measure(Characters{}),
		"odd leading indicator pairs with the first flag half")
}

// TestResync_LongFragmentChain checks whole-chunk fragments: a cluster
// far longer than a chunk leaves interior chunks with no boundaries at
// all.
func TestResync_LongFragmentChain(t *testing.T) {
	cluster := "e" + strings.Repeat("́", 1500) // one 3001-byte cluster
	root := buildText(t, "ab"+cluster+"cd")

	assert.Equal(t, 2+1+2, root.Measure(Characters{}))
	require.NoError(t, Validate(root))
}
