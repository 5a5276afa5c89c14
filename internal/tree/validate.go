package tree

import (
	"fmt"
	"unicode/utf8"

	"github.com/scigolib/rope/internal/chunk"
	"github.com/scigolib/rope/internal/segment"
)

// Validate walks the whole tree and checks every structural invariant:
// child-count and chunk-size windows, uniform child heights, additive
// counts and summaries, scalar-aligned fragment lengths, and cluster
// disjointness across adjacent chunks. Tests run it after every
// operation; it is not called on hot paths.
func Validate(root *Node) error {
	if err := validateNode(root, true); err != nil {
		return err
	}
	return validateFragments(root)
}

func validateNode(n *Node, isRoot bool) error {
	if n.IsLeaf() {
		l := n.leaf
		if !isRoot && l.Len() < chunk.MinBytes {
			return fmt.Errorf("non-root leaf of %d bytes below %d", l.Len(), chunk.MinBytes)
		}
		if l.Len() > chunk.MaxBytes {
			return fmt.Errorf("leaf of %d bytes above %d", l.Len(), chunk.MaxBytes)
		}
		if n.count != l.Len() {
			return fmt.Errorf("leaf count %d != chunk length %d", n.count, l.Len())
		}
		if n.summary != l.Summarize() {
			return fmt.Errorf("leaf summary %+v stale (want %+v)", n.summary, l.Summarize())
		}
		if l.PrefixLen() == l.Len() {
			if l.SuffixLen() != 0 {
				return fmt.Errorf("whole-fragment chunk with suffix %d", l.SuffixLen())
			}
		} else if l.PrefixLen()+l.SuffixLen() > l.Len() {
			return fmt.Errorf("fragments %d+%d exceed chunk length %d", l.PrefixLen(), l.SuffixLen(), l.Len())
		}
		text := l.Text()
		for _, i := range []int{l.PrefixLen(), l.Len() - l.SuffixLen()} {
			if i < len(text) && !utf8.RuneStart(text[i]) {
				return fmt.Errorf("fragment bound %d off a scalar boundary", i)
			}
		}
		return nil
	}

	if len(n.children) > MaxChild {
		return fmt.Errorf("internal node with %d children above %d", len(n.children), MaxChild)
	}
	if !isRoot && len(n.children) < MinChild {
		return fmt.Errorf("non-root internal node with %d children below %d", len(n.children), MinChild)
	}
	count := 0
	summary := chunk.Summary{}
	for _, c := range n.children {
		if c.height != n.height-1 {
			return fmt.Errorf("child height %d under node height %d", c.height, n.height)
		}
		count += c.count
		summary = summary.Merge(c.summary)
		if err := validateNode(c, false); err != nil {
			return err
		}
	}
	if count != n.count {
		return fmt.Errorf("node count %d != child sum %d", n.count, count)
	}
	if summary != n.summary {
		return fmt.Errorf("node summary %+v != child fold %+v", n.summary, summary)
	}
	return nil
}

// validateFragments checks that adjacent chunks agree about the
// cluster spanning their join: a trailing fragment must continue into
// the neighbor's leading fragment, the joined fragment bytes must form
// exactly one cluster, and no cluster may start in one chunk's
// complete region and end inside the next.
func validateFragments(root *Node) error {
	it := newLeafIter(root, 0)
	prev, _, ok := it.current()
	if !ok {
		return nil
	}
	if p := prev.leaf.PrefixLen(); p != 0 && prev.leaf.Len() > 0 {
		return fmt.Errorf("first chunk claims a %d-byte leading fragment", p)
	}

	// pending accumulates the bytes of an in-flight cross-chunk
	// cluster: a trailing fragment plus any whole-fragment chunks.
	pending := ""
	for it.advance() {
		cur, _, _ := it.current()
		pl, cl := prev.leaf, cur.leaf

		if pending == "" {
			if pl.SuffixLen() > 0 {
				pending = pl.Text()[pl.Len()-pl.SuffixLen():]
			}
		} else {
			pending += pl.Text() // whole-fragment chunk in the middle
		}

		wholeFragment := cl.PrefixLen() == cl.Len() && cl.Len() > 0
		if (pending != "") != (cl.PrefixLen() > 0) {
			return fmt.Errorf("fragment mismatch at chunk join: suffix %q vs prefix %d", pending, cl.PrefixLen())
		}
		if pending != "" && !wholeFragment {
			span := pending + cl.Text()[:cl.PrefixLen()]
			if n := segment.ClusterCount(span); n != 1 {
				return fmt.Errorf("join fragments %q form %d clusters, want 1", span, n)
			}
			pending = ""
		}
		prev = cur
	}
	if l := prev.leaf; l.SuffixLen() != 0 {
		return fmt.Errorf("last chunk claims a %d-byte trailing fragment", l.SuffixLen())
	}
	if pending != "" {
		// The text ends inside the pending fragment: together with the
		// final whole-fragment chunk it must close as one cluster.
		span := pending + prev.leaf.Text()
		if n := segment.ClusterCount(span); n != 1 {
			return fmt.Errorf("trailing fragments %q form %d clusters, want 1", span, n)
		}
	}
	return nil
}
