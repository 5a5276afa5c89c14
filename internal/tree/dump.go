package tree

import (
	"fmt"
	"io"
	"strings"
)

// Dump writes a human-readable rendering of the tree shape to w, one
// node per line. Debug aid only; the format is not stable.
func Dump(w io.Writer, root *Node) {
	dumpRec(w, root, 0)
}

func dumpRec(w io.Writer, n *Node, depth int) {
	indent := strings.Repeat("  ", depth)
	if n.IsLeaf() {
		l := n.leaf
		text := l.Text()
		if len(text) > 24 {
			text = text[:24] + "…"
		}
		fmt.Fprintf(w, "%sleaf len=%d prefix=%d suffix=%d %q\n",
			indent, l.Len(), l.PrefixLen(), l.SuffixLen(), text)
		return
	}
	fmt.Fprintf(w, "%snode h=%d count=%d children=%d summary=%+v\n",
		indent, n.height, n.count, len(n.children), n.summary)
	for _, c := range n.children {
		dumpRec(w, c, depth+1)
	}
}
