package latex

import (
	"sicptex/common"
	"sicptex/markup"
)

// rule renders single node appending to borrowed output.
type rule func(r *Renderer, n *markup.Node, out *Output) error

// ruleset maps every known tag to its rule.
type ruleset [tagCount]rule

func (rs *ruleset) lookup(name string) rule {
	return rs[ParseTag(name)]
}

// Rulesets are immutable once built, renderers only select one of them.
var (
	pdfRuleset  = pdfRules()
	epubRuleset = epubRules()
)

func rulesetFor(mode common.RenderMode) *ruleset {
	if mode == common.RenderModeEpub {
		return &epubRuleset
	}
	return &pdfRuleset
}

// epubRules overlays EPUB specific rules on top of PDF ones.
func epubRules() ruleset {
	rs := pdfRules()
	rs[TagExercise] = (*Renderer).exerciseEPUB
	rs[TagFigure] = (*Renderer).figureEPUB
	rs[TagSection] = heading(`\section{`, "")
	rs[TagSubsection] = heading(`\subsection{`, "")
	rs[TagSubheading] = heading(`\paragraph{`, "")
	rs[TagSubsubsection] = alias(TagSubheading)
	rs[TagJavascriptInline] = inlineCode(`{\lstinline[mathescape=false, language=JavaScript]~`, "", "~}%\n")
	rs[TagSnippet] = (*Renderer).snippetEPUB
	return rs
}

// alias re-dispatches to the rule of canonical tag in the active ruleset.
func alias(canonical Tag) rule {
	return func(r *Renderer, n *markup.Node, out *Output) error {
		return r.rules[canonical](r, n, out)
	}
}

// literal emits fixed text ignoring node content.
func literal(s string) rule {
	return func(_ *Renderer, _ *markup.Node, out *Output) error {
		out.Push(s)
		return nil
	}
}

// wrap emits rendered children between open and close markers.
func wrap(open, close string) rule {
	return func(r *Renderer, n *markup.Node, out *Output) error {
		if len(open) > 0 {
			out.Push(open)
		}
		if err := r.recurse(n.FirstChild(), out); err != nil {
			return err
		}
		if len(close) > 0 {
			out.Push(close)
		}
		return nil
	}
}

// heading emits structural opening marker and name, then optional marker
// and children.
func heading(open, afterName string) rule {
	return func(r *Renderer, n *markup.Node, out *Output) error {
		out.Push(open)
		if _, err := r.addName(n, out); err != nil {
			return err
		}
		if len(afterName) > 0 {
			out.Push(afterName)
		}
		return r.recurse(n.FirstChild(), out)
	}
}

// inlineCode renders children verbatim. When node has non empty "break"
// attribute and breakOpen is set, it is used instead of open.
func inlineCode(open, breakOpen, close string) rule {
	return func(r *Renderer, n *markup.Node, out *Output) error {
		if len(breakOpen) > 0 && n.Attr("break") != "" {
			out.Push(breakOpen)
		} else {
			out.Push(open)
		}
		r.pureText(n.FirstChild(), out, PureTextOptions{Newlines: NewlinesRemoveAll, EscapeBraces: true})
		out.Push(close)
		return nil
	}
}
