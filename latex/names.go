package latex

import (
	"maps"
	"strings"

	"github.com/gosimple/slug"
	"go.uber.org/zap"

	"sicptex/markup"
)

// addName renders NAME child of structural node n, closes heading opened by
// the caller and registers the name. It returns the rendered name.
func (r *Renderer) addName(n *markup.Node, out *Output) (string, error) {
	var name string
	if nameNode := n.FirstChildByTag("NAME"); nameNode != nil {
		s, err := r.renderString(nameNode.FirstChild())
		if err != nil {
			return "", err
		}
		name = strings.TrimSpace(s)
	}
	out.Push(name + "}\n\n")

	key := ""
	if label := n.FirstChildByTag("LABEL"); label != nil {
		key = label.Attr("NAME")
	}
	if key == "" && name != "" {
		key = slug.Make(name)
	}
	if key != "" {
		if prev, ok := r.names[key]; ok && prev != name {
			r.log.Debug("Name registered twice", zap.String("key", key), zap.String("previous", prev), zap.String("name", name))
		}
		r.names[key] = name
	}
	return name, nil
}

// Names returns copy of names registered by headings rendered so far, keyed
// by label (or slug of the name when heading has no label).
func (r *Renderer) Names() map[string]string {
	return maps.Clone(r.names)
}
