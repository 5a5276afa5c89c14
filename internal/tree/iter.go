package tree

import "io"

// leafIter walks the leaves of one revision in text order, tracking
// each leaf's absolute start. It reads structure only and never
// mutates the tree.
type leafIter struct {
	stack []pathEntry
	node  *Node // current leaf, nil when exhausted
	start int
}

// newLeafIter returns an iterator positioned at the leaf containing
// offset (or exhausted when offset == root.Count() and the tree is
// non-empty).
func newLeafIter(root *Node, offset int) *leafIter {
	it := &leafIter{}
	if offset >= root.count && root.count > 0 {
		return it
	}
	n := root
	start := 0
	for !n.IsLeaf() {
		slot := 0
		for slot < len(n.children)-1 && start+n.children[slot].count <= offset {
			start += n.children[slot].count
			slot++
		}
		it.stack = append(it.stack, pathEntry{n, slot})
		n = n.children[slot]
	}
	it.node = n
	it.start = start
	return it
}

// current returns the iterator's leaf and its absolute start.
func (it *leafIter) current() (*Node, int, bool) {
	if it.node == nil {
		return nil, 0, false
	}
	return it.node, it.start, true
}

// advance steps to the next leaf.
func (it *leafIter) advance() bool {
	if it.node == nil {
		return false
	}
	nextStart := it.start + it.node.leaf.Len()
	i := len(it.stack) - 1
	for i >= 0 && it.stack[i].slot == len(it.stack[i].node.children)-1 {
		i--
	}
	if i < 0 {
		it.node = nil
		return false
	}
	it.stack = it.stack[:i+1]
	it.stack[i].slot++
	n := it.stack[i].node.children[it.stack[i].slot]
	for !n.IsLeaf() {
		it.stack = append(it.stack, pathEntry{n, 0})
		n = n.children[0]
	}
	it.node = n
	it.start = nextStart
	return true
}

// treeReader is an io.Reader over the bytes of one revision, starting
// at a given offset.
type treeReader struct {
	it   *leafIter
	rest string
}

// newTreeReader returns a reader over root's text from offset on.
func newTreeReader(root *Node, offset int) *treeReader {
	r := &treeReader{it: newLeafIter(root, offset)}
	if n, start, ok := r.it.current(); ok {
		r.rest = n.leaf.Text()[offset-start:]
	}
	return r
}

func (r *treeReader) Read(p []byte) (int, error) {
	total := 0
	for total < len(p) {
		if r.rest == "" {
			if !r.it.advance() {
				if total == 0 {
					return 0, io.EOF
				}
				return total, nil
			}
			n, _, _ := r.it.current()
			r.rest = n.leaf.Text()
		}
		copied := copy(p[total:], r.rest)
		r.rest = r.rest[copied:]
		total += copied
	}
	return total, nil
}

// NewReader returns an io.Reader over root's text from offset on.
func NewReader(root *Node, offset int) io.Reader {
	return newTreeReader(root, offset)
}

// Chunks calls yield with each non-empty chunk text in order, stopping
// early if yield returns false.
func Chunks(root *Node, yield func(string) bool) {
	it := newLeafIter(root, 0)
	for {
		n, _, ok := it.current()
		if !ok {
			return
		}
		if text := n.leaf.Text(); text != "" && !yield(text) {
			return
		}
		it.advance()
	}
}

// Extract materializes the text of the base range [start, end).
func Extract(root *Node, start, end int) string {
	if start >= end {
		return ""
	}
	buf := make([]byte, 0, end-start)
	it := newLeafIter(root, start)
	for {
		n, lo, ok := it.current()
		if !ok || lo >= end {
			break
		}
		text := n.leaf.Text()
		from, to := start-lo, end-lo
		if from < 0 {
			from = 0
		}
		if to > len(text) {
			to = len(text)
		}
		buf = append(buf, text[from:to]...)
		it.advance()
	}
	return string(buf)
}
