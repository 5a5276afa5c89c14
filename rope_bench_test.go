package rope

import (
	"strings"
	"testing"
)

func benchText(n int) string {
	line := "the quick brown fox jumps over the lazy dog\n"
	return strings.Repeat(line, n/len(line)+1)[:n]
}

// BenchmarkFromString measures bulk construction.
func BenchmarkFromString(b *testing.B) {
	s := benchText(1 << 20)
	b.SetBytes(int64(len(s)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = FromString(s)
	}
}

// BenchmarkReplaceFront measures repeated small edits at the head of a
// large rope.
func BenchmarkReplaceFront(b *testing.B) {
	r := FromString(benchText(1 << 20))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		r = r.Replace(0, 1, "x")
	}
}

// BenchmarkConcat measures joining two large ropes.
func BenchmarkConcat(b *testing.B) {
	left := FromString(benchText(1 << 19))
	right := FromString(benchText(1 << 19))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = left.Concat(right)
	}
}

// BenchmarkCursorWalkLines measures line navigation over a large rope.
func BenchmarkCursorWalkLines(b *testing.B) {
	r := FromString(benchText(1 << 20))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		idx := r.StartIndex()
		for n := 0; n < 1000; n++ {
			idx = r.IndexAfter(idx, Lines)
		}
	}
}

// BenchmarkReader measures streaming a snapshot.
func BenchmarkReader(b *testing.B) {
	r := FromString(benchText(1 << 20))
	b.SetBytes(1 << 20)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		var sb strings.Builder
		if _, err := NewReader(r).WriteTo(&sb); err != nil {
			b.Fatal(err)
		}
	}
}
