package latex

import (
	"strings"

	"sicptex/markup"
)

// NewlineMode selects newline handling in verbatim text.
type NewlineMode int

const (
	// NewlinesKeep leaves text as is.
	NewlinesKeep NewlineMode = iota
	// NewlinesRemoveAll folds every run of line breaks into single space.
	NewlinesRemoveAll
	// NewlinesTrim drops line breaks at the beginning and at the end of the
	// whole verbatim block.
	NewlinesTrim
)

// PureTextOptions controls verbatim text rendering.
type PureTextOptions struct {
	Newlines     NewlineMode
	EscapeBraces bool
}

var braceEscaper = strings.NewReplacer("{", `\{`, "}", `\}`)

// pureText emits literal text of n and its following siblings. Nested
// elements are never interpreted as markup: their text is taken verbatim,
// only symbol elements are substituted and comments are dropped.
func (r *Renderer) pureText(n *markup.Node, out *Output, opts PureTextOptions) {
	var sb strings.Builder
	collectPureText(n, &sb)

	s := sb.String()
	switch opts.Newlines {
	case NewlinesRemoveAll:
		s = lineBreaks.ReplaceAllString(s, " ")
	case NewlinesTrim:
		s = strings.Trim(s, "\r\n")
	}
	if opts.EscapeBraces {
		s = braceEscaper.Replace(s)
	}
	out.Push(s)
}

func collectPureText(n *markup.Node, sb *strings.Builder) {
	for ; n != nil; n = n.NextSibling() {
		switch {
		case n.IsText():
			sb.WriteString(n.Text)
		case n.Tag == markup.CommentTag:
		default:
			if s, ok := symbolFor(n); ok {
				sb.WriteString(s)
				continue
			}
			collectPureText(n.FirstChild(), sb)
		}
	}
}
