package latex

import (
	"strings"

	"sicptex/markup"
)

func (r *Renderer) epigraphPDF(n *markup.Node, out *Output) error {
	out.Push(`\begin{epigraph}`)
	if err := r.recurseExcept(n.FirstChild(), out, "ATTRIBUTION"); err != nil {
		return err
	}
	if attr := n.FirstChildByTag("ATTRIBUTION"); attr != nil {
		out.Push(`\\\hfill{\small `)
		if author := attr.FirstChildByTag("AUTHOR"); author != nil {
			if err := r.recurse(author.FirstChild(), out); err != nil {
				return err
			}
		}
		if title := attr.FirstChildByTag("TITLE"); title != nil {
			out.Push(`, {\em `)
			if err := r.recurse(title.FirstChild(), out); err != nil {
				return err
			}
			out.Push("}")
		}
		out.Push("}")
	}
	out.Push("\\end{epigraph}%\n")
	return nil
}

func exerciseLabel(n *markup.Node) string {
	if label := n.FirstChildByTag("LABEL"); label != nil {
		return label.Attr("NAME")
	}
	return ""
}

func (r *Renderer) exercisePDF(n *markup.Node, out *Output) error {
	out.Push(`\begin{Exercise}`)
	if label := exerciseLabel(n); label != "" {
		out.Push(`[label={` + label + `}]`)
	}
	out.Push("\n")
	if err := r.recurseExcept(n.FirstChild(), out, "LABEL"); err != nil {
		return err
	}
	out.Push("\\end{Exercise}%\n")
	return nil
}

func (r *Renderer) exerciseEPUB(n *markup.Node, out *Output) error {
	out.Push(`\noindent{\bf Exercise~\thechapter.\theExercise}\stepcounter{Exercise}`)
	if label := exerciseLabel(n); label != "" {
		out.Push(`\label{` + label + `}`)
	}
	out.Push("\\\\\n")
	if err := r.recurseExcept(n.FirstChild(), out, "LABEL"); err != nil {
		return err
	}
	out.Push("\n\n")
	return nil
}

// figure renders common part of figure environments, caption command differs
// between backends.
func (r *Renderer) figure(n *markup.Node, out *Output, caption string) error {
	src := n.Attr("src")
	if src == "" {
		if img := n.FirstChildByTag("IMAGE"); img != nil {
			src = img.Attr("src")
		}
	}
	if src != "" {
		out.Push(r.generateImage(src))
	}
	out.Push("\n")
	if err := r.recurseExcept(n.FirstChild(), out, "IMAGE", "CAPTION", "LABEL"); err != nil {
		return err
	}
	if c := n.FirstChildByTag("CAPTION"); c != nil {
		out.Push(caption)
		if err := r.recurse(c.FirstChild(), out); err != nil {
			return err
		}
		out.Push("}\n")
	}
	if label := n.FirstChildByTag("LABEL"); label != nil {
		out.Push(`\label{` + label.Attr("NAME") + "}\n")
	}
	return nil
}

func (r *Renderer) figurePDF(n *markup.Node, out *Output) error {
	out.Push("\\begin{figure}[tp]\n\\centering")
	if err := r.figure(n, out, `\caption{`); err != nil {
		return err
	}
	out.Push("\\end{figure}%\n")
	return nil
}

func (r *Renderer) figureEPUB(n *markup.Node, out *Output) error {
	out.Push(`\begin{center}`)
	if err := r.figure(n, out, `\captionof{figure}{`); err != nil {
		return err
	}
	out.Push("\\end{center}%\n")
	return nil
}

// snippet renders program text of the snippet, prompts and other metadata
// are ignored. Hidden snippets produce nothing.
func (r *Renderer) snippet(n *markup.Node, out *Output, open, close string) error {
	if _, hidden := n.LookupAttr("HIDE"); hidden {
		return nil
	}
	js := n.FirstChildByTag("JAVASCRIPT")
	if js == nil {
		return nil
	}
	out.Push(open)
	r.pureText(js.FirstChild(), out, PureTextOptions{Newlines: NewlinesTrim})
	out.Push(close)
	return nil
}

func (r *Renderer) snippetPDF(n *markup.Node, out *Output) error {
	return r.snippet(n, out, "\\begin{JavaScript}\n", "\n\\end{JavaScript}%\n")
}

func (r *Renderer) snippetEPUB(n *markup.Node, out *Output) error {
	return r.snippet(n, out, "\\begin{lstlisting}[language=JavaScript]\n", "\n\\end{lstlisting}%\n")
}

func (r *Renderer) tablePDF(n *markup.Node, out *Output) error {
	rows := n.ChildrenByTag("TR")
	columns := 0
	for _, row := range rows {
		columns = max(columns, len(row.ChildrenByTag("TD")))
	}
	out.Push(`\begin{tabular}{` + strings.Repeat("l", columns) + "}\n")
	for _, row := range rows {
		for i, cell := range row.ChildrenByTag("TD") {
			if i > 0 {
				out.Push(" & ")
			}
			if err := r.recurse(cell.FirstChild(), out); err != nil {
				return err
			}
		}
		out.Push("\\\\\n")
	}
	out.Push("\\end{tabular}%\n")
	return nil
}
