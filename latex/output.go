package latex

import (
	"io"
	"strings"
)

// Output is append-only sequence of text fragments. Concatenated fragments
// form the target document source. It is owned by the caller of
// Renderer.Render and borrowed by every rule.
type Output struct {
	frags []string
}

// Push appends fragments.
func (o *Output) Push(frags ...string) {
	o.frags = append(o.frags, frags...)
}

// Len returns number of fragments.
func (o *Output) Len() int {
	return len(o.frags)
}

// Fragments returns copy of accumulated fragments.
func (o *Output) Fragments() []string {
	return append([]string(nil), o.frags...)
}

func (o *Output) String() string {
	return strings.Join(o.frags, "")
}

// WriteTo writes concatenated fragments to w.
func (o *Output) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for _, f := range o.frags {
		n, err := io.WriteString(w, f)
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}
