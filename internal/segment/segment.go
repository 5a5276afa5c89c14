// Package segment wraps the Unicode extended-grapheme-cluster
// segmentation primitives the rope relies on.
//
// Two collaborators are used for two different access patterns:
// rivo/uniseg for counting and iterating clusters inside a string that
// is known to start and end on cluster boundaries, and
// clipperhouse/uax29 for streaming break detection across chunk joins,
// where a cluster may extend past the bytes seen so far. The uax29
// split function speaks bufio.SplitFunc, so it can ask the scanner for
// more data instead of treating a chunk edge as end of text.
package segment

import (
	"bufio"
	"io"

	"github.com/clipperhouse/uax29/v2/graphemes"
	"github.com/rivo/uniseg"
)

// ClusterCount returns the number of extended grapheme clusters in s.
// s must start on a cluster boundary.
func ClusterCount(s string) int {
	return uniseg.GraphemeClusterCount(s)
}

// EachCluster calls f with the byte length of each cluster in s, in
// order, stopping early if f returns false. s must start on a cluster
// boundary.
func EachCluster(s string, f func(n int) bool) {
	state := -1
	for len(s) > 0 {
		var cluster string
		cluster, s, _, state = uniseg.FirstGraphemeClusterInString(s, state)
		if !f(len(cluster)) {
			return
		}
	}
}

// maxCluster bounds a single cluster token during streaming scans. Real
// clusters are a handful of scalars; the cap only guards degenerate
// input (an unbounded run of combining marks).
const maxCluster = 1 << 20

// Scanner yields the byte length of successive extended grapheme
// clusters read from a stream. The stream must start on a cluster
// boundary; cluster boundaries after the first are then derived
// exactly, even when clusters straddle the chunk sizes of the
// underlying reader.
type Scanner struct {
	sc *bufio.Scanner
}

// NewScanner returns a Scanner reading clusters from r.
func NewScanner(r io.Reader) *Scanner {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 4096), maxCluster)
	sc.Split(graphemes.SplitFunc)
	return &Scanner{sc: sc}
}

// Next returns the byte length of the next cluster, or false at end of
// stream.
func (s *Scanner) Next() (int, bool) {
	if !s.sc.Scan() {
		return 0, false
	}
	return len(s.sc.Bytes()), true
}

// NextToken returns a copy of the next cluster's bytes, or false at
// end of stream.
func (s *Scanner) NextToken() (string, bool) {
	if !s.sc.Scan() {
		return "", false
	}
	return s.sc.Text(), true
}
