// Package render prints a node tree as indented text.
package render

import (
	"bufio"
	"io"
	"strings"

	"github.com/phobologic/ipftree/internal/model"
)

// Indent is the per-level indentation.
const Indent = "   "

// Text writes n and its descendants, one node per line, as
// "<Indent × depth><name> (<Kind>)". n itself is at depth 0.
func Text(w io.Writer, n *model.Node) error {
	bw := bufio.NewWriter(w)
	writeNode(bw, n, 0)
	return bw.Flush()
}

// String returns the Text rendering of n.
func String(n *model.Node) string {
	var b strings.Builder
	_ = Text(&b, n)
	return b.String()
}

func writeNode(w *bufio.Writer, n *model.Node, depth int) {
	w.WriteString(strings.Repeat(Indent, depth))
	w.WriteString(n.Name)
	w.WriteString(" (")
	w.WriteString(n.Kind.String())
	w.WriteString(")\n")
	for _, c := range n.Children() {
		writeNode(w, c, depth+1)
	}
}

// Walk calls fn for n and every descendant in render order.
func Walk(n *model.Node, fn func(n *model.Node, depth int)) {
	walk(n, 0, fn)
}

func walk(n *model.Node, depth int, fn func(*model.Node, int)) {
	fn(n, depth)
	for _, c := range n.Children() {
		walk(c, depth+1, fn)
	}
}
