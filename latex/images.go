package latex

import (
	"path"
	"strconv"
	"strings"
)

// generateImage returns \includegraphics command for image src. Extension is
// dropped so LaTeX can pick best available format.
func (r *Renderer) generateImage(src string) string {
	name := strings.TrimSuffix(path.Base(src), path.Ext(src))
	if r.opts.ImageDir != "" {
		name = path.Join(r.opts.ImageDir, name)
	}
	if r.opts.ImageScale <= 0 {
		return "\n\\includegraphics{" + name + "}"
	}
	scale := strconv.FormatFloat(r.opts.ImageScale, 'f', -1, 64)
	return "\n\\includegraphics[width=" + scale + "\\textwidth]{" + name + "}"
}
