package latex

import (
	"strings"

	"sicptex/markup"
)

func pdfRules() (rs ruleset) {
	rs[TagText] = ruleText
	rs[TagPDFOnly] = wrap("", "")

	rs[TagAbout] = ruleAbout
	rs[TagReferences] = alias(TagAbout)
	rs[TagWebPreface] = alias(TagAbout)
	rs[TagMatter] = alias(TagAbout)
	rs[TagMatterSection] = heading(`\section*{`, "")
	rs[TagChapter] = heading(`\chapter{`, "\\pagestyle{main}%\n")
	rs[TagSection] = heading(`\section{`, "\\pagestyle{section}%\n")
	rs[TagSubsection] = heading(`\subsection{`, "\\pagestyle{subsection}%\n")
	rs[TagSubsubsection] = heading(`\subsubsection{`, "")
	rs[TagSubheading] = heading(`\subsubsection*{`, "")
	rs[TagSubsubheading] = heading(`{\noindent\emph{`, "}\n\n")
	rs[TagH2] = wrap(`\subsection*{`, "}")

	rs[TagB] = wrap(`\textbf{`, "}")
	rs[TagEm] = wrap(`{\em `, "}")
	rs[TagEM] = alias(TagEm)
	rs[TagSC] = wrap(`{\scshape `, "}%\n")
	rs[TagTT] = wrap(`\texttt{`, "}%\n")
	rs[TagQuote] = wrap("``", "''")
	rs[TagBlockquote] = wrap(`\begin{quote}`, `\end{quote}`)
	rs[TagFootnote] = wrap(`\cprotect\footnote{`, "}")
	rs[TagTEXT] = wrap("\n\n", "\n\n")
	rs[TagP] = alias(TagTEXT)
	rs[TagReference] = wrap("", "\\\\[3mm]\n")
	rs[TagCitation] = ruleCitation

	rs[TagBR] = literal("\\newline\\noindent%\n")
	rs[TagNoIndent] = literal(`\noindent `)
	rs[TagExerciseStartingWithItems] = literal(`\vspace{-7mm}`)
	rs[TagExerciseFollowedByText] = literal(`\vspace{5mm}`)
	rs[TagLaTeX] = literal(`\LaTeX\`)
	rs[TagTeX] = literal(`\TeX\`)
	rs[TagECMA] = literal("")

	rs[TagLabel] = ruleLabel
	rs[TagRef] = ruleRef
	rs[TagLink] = ruleLink
	rs[TagImage] = ruleImage

	rs[TagLatexInline] = ruleLatexInline
	rs[TagLATEX] = alias(TagLatexInline)
	rs[TagJavascriptInline] = inlineCode(`{\lstinline[mathescape=false]~`,
		`{\lstinline[breaklines=true, breakatwhitespace=true,mathescape=false]~`, "~}")
	rs[TagSchemeInline] = alias(TagJavascriptInline)
	rs[TagDeclaration] = alias(TagJavascriptInline)
	rs[TagUse] = alias(TagJavascriptInline)

	rs[TagOL] = ruleOrderedList
	rs[TagUL] = ruleUnorderedList

	rs[TagIndex] = ruleIndex

	rs[TagEpigraph] = (*Renderer).epigraphPDF
	rs[TagExercise] = (*Renderer).exercisePDF
	rs[TagFigure] = (*Renderer).figurePDF
	rs[TagSnippet] = (*Renderer).snippetPDF
	rs[TagTable] = (*Renderer).tablePDF
	return rs
}

func ruleText(r *Renderer, n *markup.Node, out *Output) error {
	escaped := escapeText(n.Text)
	if hasEntityRef(escaped) {
		return r.processFileInput(strings.TrimSpace(n.Text), out)
	}
	out.Push(escaped)
	return nil
}

func ruleAbout(r *Renderer, n *markup.Node, out *Output) error {
	out.Push(`\chapter*{`)
	name, err := r.addName(n, out)
	if err != nil {
		return err
	}
	out.Push(`\addcontentsline{toc}{chapter}{`)
	out.Push(name + "}")
	return r.recurse(n.FirstChild(), out)
}

// Citations are not linked to bibliography, only text is rendered.
func ruleCitation(r *Renderer, n *markup.Node, out *Output) error {
	if text := n.FindFirst("TEXT"); text != nil {
		return r.recurse(text.FirstChild(), out)
	}
	return r.recurse(n.FirstChild(), out)
}

func ruleLabel(_ *Renderer, n *markup.Node, out *Output) error {
	out.Push(`\label{` + n.Attr("NAME") + "}%\n")
	return nil
}

func ruleRef(_ *Renderer, n *markup.Node, out *Output) error {
	out.Push(`\ref{` + n.Attr("NAME") + "}")
	return nil
}

func ruleLink(r *Renderer, n *markup.Node, out *Output) error {
	out.Push(`\href{` + n.Attr("address") + "}{")
	if err := r.recurse(n.FirstChild(), out); err != nil {
		return err
	}
	out.Push("}")
	return nil
}

func ruleImage(r *Renderer, n *markup.Node, out *Output) error {
	out.Push("\\begin{figure}[H]\n\\centering" + r.generateImage(n.Attr("src")) + "\n\\end{figure}\n")
	return nil
}

func ruleLatexInline(r *Renderer, n *markup.Node, out *Output) error {
	r.pureText(n.FirstChild(), out, PureTextOptions{})
	return nil
}

func ruleOrderedList(r *Renderer, n *markup.Node, out *Output) error {
	out.Push(`\begin{enumerate}`)
	if n.HasAncestor("EXERCISE") {
		out.Push("[\\alph*.]\n")
	} else {
		out.Push("[\\arabic*.]\n")
	}
	if err := r.processList(n.FirstChild(), out); err != nil {
		return err
	}
	out.Push("\\end{enumerate}%\n")
	return nil
}

func ruleUnorderedList(r *Renderer, n *markup.Node, out *Output) error {
	out.Push(`\begin{itemize}`)
	if err := r.processList(n.FirstChild(), out); err != nil {
		return err
	}
	out.Push("\\end{itemize}%\n")
	return nil
}
