package latex

import (
	"strings"

	"sicptex/markup"
)

// processList renders list items starting with n.
func (r *Renderer) processList(n *markup.Node, out *Output) error {
	for ; n != nil; n = n.NextSibling() {
		switch {
		case n.Tag == "LI":
			out.Push(`\item{`)
			if err := r.recurse(n.FirstChild(), out); err != nil {
				return err
			}
			out.Push("}\n")
		case n.IsText() && strings.TrimSpace(n.Text) == "":
		default:
			if _, err := r.process(n, out); err != nil {
				return err
			}
		}
	}
	return nil
}
