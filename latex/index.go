package latex

import (
	"sicptex/markup"
)

const primitiveSuffix = `primitive functions (ECMAScript equivalent in parentheses; those marked \textit{ns} are not in the ECMAScript standard)`

// Control children of INDEX shape the entry, they never show up in the
// displayed text.
var (
	indexControls    = []string{"PRIMITIVE", "FRAGILE", "OPEN", "CLOSE", "ORDER", "DECLARATION", "USE", "SUBINDEX", "SEE", "SEEALSO"}
	subindexControls = []string{"ORDER", "ECMA", "OPEN", "CLOSE", "DECLARATION"}
)

// notes accumulates margin and inline annotations for an index entry. The
// margin variant falls back to inline markers for fragile entries.
type notes struct {
	fragile bool
	margin  string
	inline  string
}

func (a *notes) add(name, text string) {
	if a.fragile {
		a.margin += `\` + name + `inline{` + text + "}"
	} else {
		a.margin += `\` + name + `marginpar{` + text + "}"
	}
	a.inline += `\` + name + `inline{` + text + "}"
}

func ruleIndex(r *Renderer, n *markup.Node, out *Output) error {
	an := notes{fragile: n.FirstChildByTag("FRAGILE") != nil}

	out.Push(`\index{`)

	display, err := r.renderString(n.FirstChild(), indexControls...)
	if err != nil {
		return err
	}
	if n.FirstChildByTag("PRIMITIVE") != nil {
		display += primitiveSuffix
	}

	open, close := n.FirstChildByTag("OPEN"), n.FirstChildByTag("CLOSE")
	var prefix string
	if open != nil {
		prefix += `$\langle$`
	}
	if close != nil {
		prefix += `$\rangle$`
	}

	order := n.FirstChildByTag("ORDER")
	declaration := n.FirstChildByTag("DECLARATION")
	use := n.FirstChildByTag("USE")

	// sort key
	marker, key := "index", order
	switch {
	case declaration != nil:
		marker = "indexdeclaration"
		if key == nil {
			key = declaration
		}
	case use != nil:
		marker = "indexuse"
		if key == nil {
			key = use
		}
	}
	if key != nil {
		if err := r.recurse(key.FirstChild(), out); err != nil {
			return err
		}
		out.Push("@")
	}
	an.add(marker, prefix+display)

	out.Push(display)

	if order != nil {
		s, err := r.renderString(order.FirstChild())
		if err != nil {
			return err
		}
		an.add("order", s)
	}

	sub := n.FirstChildByTag("SUBINDEX")
	if sub != nil {
		if err := r.subindex(sub, out, &an); err != nil {
			return err
		}
		if declaration == nil {
			declaration = sub.FirstChildByTag("DECLARATION")
		}
	}

	// locator, first match wins
	see, seeAlso := n.FirstChildByTag("SEE"), n.FirstChildByTag("SEEALSO")
	switch {
	case open != nil:
		out.Push("|(")
	case close != nil:
		out.Push("|)")
	case n.HasAncestor("FOOTNOTE"):
		if declaration != nil {
			out.Push("|nndd")
		} else {
			out.Push("|nn")
		}
	case n.HasAncestor("EXERCISE"):
		if declaration != nil {
			out.Push(`|xxdd{\theExercise}`)
		} else {
			out.Push(`|xx{\theExercise}`)
		}
	case n.HasAncestor("FIGURE"):
		out.Push(`|ff{\thefigure}`)
	case declaration != nil:
		out.Push("|dd")
	case see != nil:
		if err := r.crossReference("see", see, out, &an); err != nil {
			return err
		}
	case seeAlso != nil:
		if err := r.crossReference("seealso", seeAlso, out, &an); err != nil {
			return err
		}
	}

	switch {
	case !r.opts.IndexAnnotations:
		out.Push("}%\n")
	case n.HasAncestor("FIGURE") || n.HasAncestor("FOOTNOTE") || n.HasAncestor("EPIGRAPH"):
		out.Push("}" + an.inline + "%\n")
	default:
		out.Push("}" + an.margin + "%\n")
	}
	return nil
}

func (r *Renderer) subindex(sub *markup.Node, out *Output, an *notes) error {
	display, err := r.renderString(sub.FirstChild(), subindexControls...)
	if err != nil {
		return err
	}
	out.Push("!")

	order := sub.FirstChildByTag("ORDER")
	if order != nil {
		if err := r.recurse(order.FirstChild(), out); err != nil {
			return err
		}
		out.Push("@")
	}

	var ecma string
	if e := sub.FirstChildByTag("ECMA"); e != nil {
		s, err := r.renderString(e.FirstChild())
		if err != nil {
			return err
		}
		ecma = ` (\texttt{` + s + "})"
	}

	var prefix, postfix string
	if sub.FirstChildByTag("OPEN") != nil {
		prefix, postfix = `$\langle$`, "|("
	} else if sub.FirstChildByTag("CLOSE") != nil {
		prefix, postfix = `$\rangle$`, "|)"
	}

	out.Push(display + ecma + postfix)
	an.add("subindex", prefix+display)

	if order != nil {
		s, err := r.renderString(order.FirstChild())
		if err != nil {
			return err
		}
		an.add("order", s)
	}
	return nil
}

// crossReference emits |see{...} style locator.
func (r *Renderer) crossReference(kind string, n *markup.Node, out *Output, an *notes) error {
	s, err := r.renderString(n.FirstChild())
	if err != nil {
		return err
	}
	an.margin += `\` + kind + `inline{` + s + "}"
	out.Push("|" + kind + "{" + s + "}")
	return nil
}
