package latex

import (
	"sicptex/markup"
)

// symbols maps empty marker elements to their LaTeX equivalents.
var symbols = map[string]string{
	"APOS":       "'",
	"AMP":        `\&`,
	"DOLLAR":     `\$`,
	"HASH":       `\#`,
	"UNDERSCORE": `\_`,
	"PERCENT":    `\%`,
	"TILDE":      `\textasciitilde{}`,
	"DOTS":       `\ldots{}`,
	"EMDASH":     "---",
	"ENDASH":     "--",
	"SPACE":      "~",
	"LT":         "$<$",
	"GT":         "$>$",
	"LEQ":        `$\leq$`,
	"GEQ":        `$\geq$`,
	"NEQ":        `$\neq$`,
	"TIMES":      `$\times$`,
	"RIGHTARROW": `$\rightarrow$`,
	"LEFTARROW":  `$\leftarrow$`,
	"ALPHA":      `$\alpha$`,
	"BETA":       `$\beta$`,
	"GAMMA":      `$\gamma$`,
	"DELTA":      `$\delta$`,
	"EPSILON":    `$\epsilon$`,
	"THETA":      `$\theta$`,
	"LAMBDA":     `$\lambda$`,
	"MU":         `$\mu$`,
	"PHI":        `$\phi$`,
	"PSI":        `$\psi$`,
	"SIGMA":      `$\sigma$`,
	"PI":         `$\pi$`,
}

// symbolFor returns replacement for symbol element n.
func symbolFor(n *markup.Node) (string, bool) {
	if n.IsText() {
		return "", false
	}
	s, ok := symbols[n.Tag]
	return s, ok
}

// replaceTagWithSymbol emits symbol replacement for n and reports whether n
// was a symbol element.
func (r *Renderer) replaceTagWithSymbol(n *markup.Node, out *Output) bool {
	s, ok := symbolFor(n)
	if ok {
		out.Push(s)
	}
	return ok
}
