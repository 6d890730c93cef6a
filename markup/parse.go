package markup

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/beevik/etree"
	"golang.org/x/net/html/charset"
)

// Parse reads XML document and returns its root element as markup tree.
//
// Reading is permissive: textbook sources reference external files through
// entities declared elsewhere, such references are not resolved here and are
// kept in text nodes as is (for example "&chapter1;") for the renderer to
// handle.
func Parse(r io.Reader) (*Node, error) {
	doc := etree.NewDocument()
	doc.ReadSettings = etree.ReadSettings{
		CharsetReader: charsetReader,
		ValidateInput: false,
		Permissive:    true,
	}
	if _, err := doc.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("unable to read XML: %w", err)
	}
	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("document has no root element")
	}
	return FromElement(root), nil
}

// charsetReader converts declared non UTF-8 encodings. Wide Unicode
// encodings cannot be read by XML decoder directly, so by the time
// declaration is seen input has been already transcoded by the caller.
func charsetReader(label string, input io.Reader) (io.Reader, error) {
	l := strings.ToLower(label)
	if strings.HasPrefix(l, "utf-16") || strings.HasPrefix(l, "utf-32") {
		return input, nil
	}
	return charset.NewReaderLabel(label, input)
}

// ParseFile is a convenience wrapper around Parse.
func ParseFile(path string) (*Node, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	root, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return root, nil
}

// FromElement converts etree element (and its subtree) into detached markup
// tree.
func FromElement(el *etree.Element) *Node {
	n := NewElement(el.FullTag())
	for _, a := range el.Attr {
		n.Attrs = append(n.Attrs, Attr{Name: a.FullKey(), Value: a.Value})
	}
	for _, tok := range el.Child {
		switch t := tok.(type) {
		case *etree.Element:
			n.Append(FromElement(t))
		case *etree.CharData:
			if t.Data == "" {
				continue
			}
			n.Append(NewText(t.Data))
		case *etree.Comment:
			n.Append(NewComment(t.Data))
		}
		// processing instructions and directives carry nothing to render
	}
	return n
}

// ToElement converts markup tree back to etree element.
func (n *Node) ToElement() *etree.Element {
	el := etree.NewElement(n.Tag)
	for _, a := range n.Attrs {
		el.CreateAttr(a.Name, a.Value)
	}
	for _, c := range n.Children {
		switch {
		case c.IsText():
			el.CreateText(c.Text)
		case c.Tag == CommentTag:
			el.CreateComment(c.Text)
		default:
			el.AddChild(c.ToElement())
		}
	}
	return el
}

// String returns XML rendering of the node, used in diagnostics.
func (n *Node) String() string {
	if n == nil {
		return "<nil>"
	}
	switch {
	case n.IsText():
		return n.Text
	case n.Tag == CommentTag:
		return "<!--" + n.Text + "-->"
	}
	doc := etree.NewDocument()
	doc.SetRoot(n.ToElement())
	s, err := doc.WriteToString()
	if err != nil {
		return "<" + n.Tag + ">"
	}
	return s
}
