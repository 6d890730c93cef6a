package convert

import (
	"strings"

	"sicptex/common"
	"sicptex/markup"
)

// document is single parsed source ready for rendering.
type document struct {
	root *markup.Node
	// part of the source path relative to the processed source, always
	// including file name
	srcName string
	mode    common.RenderMode
}

// title returns text of the NAME child of the root element with whitespace
// collapsed.
func (d *document) title() string {
	n := d.root.FirstChildByTag("NAME")
	if n == nil {
		return ""
	}
	return strings.Join(strings.Fields(n.TextContent()), " ")
}

// label returns name of the LABEL child of the root element.
func (d *document) label() string {
	if n := d.root.FirstChildByTag("LABEL"); n != nil {
		return n.Attr("NAME")
	}
	return ""
}
