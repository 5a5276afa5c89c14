package segment

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClusterCount(t *testing.T) {
	assert.Equal(t, 0, ClusterCount(""))
	assert.Equal(t, 3, ClusterCount("abc"))
	assert.Equal(t, 1, ClusterCount("é"))
	assert.Equal(t, 2, ClusterCount("éx"))
	assert.Equal(t, 1, ClusterCount("\U0001F1E9\U0001F1EA")) // regional-indicator pair
}

func TestEachCluster(t *testing.T) {
	var lens []int
	EachCluster("aé\U0001F600", func(n int) bool {
		lens = append(lens, n)
		return true
	})
	assert.Equal(t, []int{1, 3, 4}, lens)

	calls := 0
	EachCluster("abc", func(int) bool {
		calls++
		return false
	})
	assert.Equal(t, 1, calls)
}

// chunkedReader feeds its text in tiny fixed-size reads so cluster
// boundaries land mid-read, the situation the scanner must handle at
// rope chunk joins.
type chunkedReader struct {
	text string
	step int
}

func (r *chunkedReader) Read(p []byte) (int, error) {
	if r.text == "" {
		return 0, io.EOF
	}
	n := r.step
	if n > len(r.text) {
		n = len(r.text)
	}
	if n > len(p) {
		n = len(p)
	}
	copy(p, r.text[:n])
	r.text = r.text[n:]
	return n, nil
}

// TestScanner_AcrossReads checks that a cluster split across reads is
// still yielded whole.
func TestScanner_AcrossReads(t *testing.T) {
	text := "aé" + strings.Repeat("x", 10) + "\U0001F600"
	sc := NewScanner(&chunkedReader{text: text, step: 1})

	var total, clusters int
	for {
		n, ok := sc.Next()
		if !ok {
			break
		}
		clusters++
		total += n
	}
	assert.Equal(t, len(text), total)
	assert.Equal(t, 13, clusters) // a, e+mark, 10 x's, emoji
}

// TestScanner_Tokens checks the token form used by the character view.
func TestScanner_Tokens(t *testing.T) {
	sc := NewScanner(strings.NewReader("éx"))
	tok, ok := sc.NextToken()
	require.True(t, ok)
	assert.Equal(t, "é", tok)
	tok, ok = sc.NextToken()
	require.True(t, ok)
	assert.Equal(t, "x", tok)
	_, ok = sc.NextToken()
	assert.False(t, ok)
}
