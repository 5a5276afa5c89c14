package chunk

import (
	"strings"
	"unicode/utf8"
)

// splitPoint picks a split offset for text inside the window [lo, hi],
// preferring the position just past the last newline in the window so
// chunk edges tend to coincide with line edges, and falling back to
// the upper bound. The result is rounded down to a scalar boundary
// (and nudged back up if rounding left the window).
func splitPoint(text string, lo, hi int) int {
	i := hi
	if j := strings.LastIndexByte(text[lo:hi], '\n'); j >= 0 {
		i = lo + j + 1
	}
	for i > 0 && !utf8.RuneStart(text[i]) {
		i--
	}
	for i < lo {
		i++
		for i < len(text) && !utf8.RuneStart(text[i]) {
			i++
		}
	}
	return i
}

// BulkSplitPoint picks the split for a run of more than MaxBytes bytes
// during bulk loading: the left piece becomes one chunk and the right
// piece remains to be chunked, so the window keeps at least MinBytes
// on each side.
func BulkSplitPoint(text string) int {
	hi := len(text) - MinBytes
	if hi > MaxBytes {
		hi = MaxBytes
	}
	return splitPoint(text, MinBytes, hi)
}

// MergeSplitPoint picks the split for an overflowing chunk merge: the
// joined text is at most 2*MaxBytes, and both pieces must land inside
// the size window.
func MergeSplitPoint(text string) int {
	lo := len(text) - MaxBytes
	if lo < MinBytes {
		lo = MinBytes
	}
	hi := len(text) - MinBytes
	if hi > MaxBytes {
		hi = MaxBytes
	}
	return splitPoint(text, lo, hi)
}
