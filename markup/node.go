// Package markup defines the document tree the LaTeX renderer walks.
package markup

import (
	"strings"
)

// Tag used for comment nodes. Text nodes have empty tag.
const CommentTag = "#comment"

// Attr is a single attribute of an element, kept in document order.
type Attr struct {
	Name  string
	Value string
}

// Node is either an element or a text unit of the parsed markup tree. Node
// owns its children, parent link is never used to modify the tree and only
// serves ancestor lookups.
type Node struct {
	Tag      string
	Text     string
	Attrs    []Attr
	Children []*Node

	parent *Node
	pos    int
}

// NewElement creates detached element node.
func NewElement(tag string, attrs ...Attr) *Node {
	return &Node{Tag: tag, Attrs: attrs}
}

// NewText creates detached text node.
func NewText(text string) *Node {
	return &Node{Text: text}
}

// NewComment creates detached comment node.
func NewComment(text string) *Node {
	return &Node{Tag: CommentTag, Text: text}
}

// IsText reports whether node is character data.
func (n *Node) IsText() bool {
	return n != nil && n.Tag == ""
}

// Name returns the name dispatch is keyed on: element tag, "#text" for
// character data.
func (n *Node) Name() string {
	if n.Tag == "" {
		return "#text"
	}
	return n.Tag
}

// Append adds children to the end of the child list and returns n, so trees
// could be built inline.
func (n *Node) Append(children ...*Node) *Node {
	for _, c := range children {
		if c == nil {
			continue
		}
		c.parent = n
		c.pos = len(n.Children)
		n.Children = append(n.Children, c)
	}
	return n
}

// Parent returns enclosing element or nil for the root.
func (n *Node) Parent() *Node {
	return n.parent
}

// FirstChild returns first child or nil.
func (n *Node) FirstChild() *Node {
	if n == nil || len(n.Children) == 0 {
		return nil
	}
	return n.Children[0]
}

// NextSibling returns following node in the parent's child list or nil.
func (n *Node) NextSibling() *Node {
	if n == nil || n.parent == nil {
		return nil
	}
	if next := n.pos + 1; next < len(n.parent.Children) {
		return n.parent.Children[next]
	}
	return nil
}

// Attr returns value of the named attribute, empty string when absent.
func (n *Node) Attr(name string) string {
	v, _ := n.LookupAttr(name)
	return v
}

// LookupAttr returns value of the named attribute and whether it is present.
func (n *Node) LookupAttr(name string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// ChildrenByTag returns direct children with requested tag in document order.
func (n *Node) ChildrenByTag(tag string) []*Node {
	var res []*Node
	for _, c := range n.Children {
		if c.Tag == tag {
			res = append(res, c)
		}
	}
	return res
}

// FirstChildByTag returns first direct child with requested tag or nil.
func (n *Node) FirstChildByTag(tag string) *Node {
	for _, c := range n.Children {
		if c.Tag == tag {
			return c
		}
	}
	return nil
}

// FindFirst returns first descendant (depth first, document order) with
// requested tag or nil. Node itself is not considered.
func (n *Node) FindFirst(tag string) *Node {
	for _, c := range n.Children {
		if c.Tag == tag {
			return c
		}
		if found := c.FindFirst(tag); found != nil {
			return found
		}
	}
	return nil
}

// HasAncestor walks parent chain looking for element with requested tag.
func (n *Node) HasAncestor(tag string) bool {
	for p := n.parent; p != nil; p = p.parent {
		if p.Tag == tag {
			return true
		}
	}
	return false
}

// TextContent returns concatenated character data of the subtree.
func (n *Node) TextContent() string {
	if n.IsText() {
		return n.Text
	}
	var b strings.Builder
	for _, c := range n.Children {
		if c.Tag == CommentTag {
			continue
		}
		b.WriteString(c.TextContent())
	}
	return b.String()
}
