package markup

import (
	"sicptex/utils/debug"
)

type treeWriter struct {
	*debug.TreeWriter
}

// Dump returns readable indented tree of the node and its subtree. Character
// data is quoted so whitespace is visible. It exists solely for manual
// inspection during debugging.
func (n *Node) Dump() string {
	if n == nil {
		return "<nil Node>"
	}
	tw := treeWriter{debug.NewTreeWriter()}
	tw.node(0, n)
	return tw.String()
}

func (tw treeWriter) node(depth int, n *Node) {
	switch {
	case n.IsText():
		tw.TextBlock(depth, "#text", n.Text)
		return
	case n.Tag == CommentTag:
		tw.TextBlock(depth, CommentTag, n.Text)
		return
	}
	pairs := make([]string, 0, 2*len(n.Attrs))
	for _, a := range n.Attrs {
		pairs = append(pairs, a.Name, a.Value)
	}
	tw.Pairs(depth, n.Tag, pairs...)
	for _, c := range n.Children {
		tw.node(depth+1, c)
	}
}
