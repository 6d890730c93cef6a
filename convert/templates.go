package convert

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"text/template"

	sprig "github.com/go-task/slim-sprig/v3"
	"github.com/google/uuid"

	"sicptex/config"
)

// Values is a struct that holds variables we make available for template expansion
type Values struct {
	Context string
	// Element is tag of the document root: CHAPTER, SECTION...
	Element    string
	Title      string
	Label      string
	Mode       string
	SourceFile string
	RunID      string
}

func expandTemplate(d *document, name config.TemplateFieldName, field string, runID uuid.UUID) (string, error) {
	funcMap := sprig.FuncMap()

	tmpl, err := template.New(string(name)).Funcs(funcMap).Parse(field)
	if err != nil {
		return "", fmt.Errorf("unable to parse template field %s: %w", name, err)
	}

	values := Values{
		Context:    string(name),
		Element:    d.root.Tag,
		Title:      d.title(),
		Label:      d.label(),
		Mode:       d.mode.String(),
		SourceFile: strings.TrimSuffix(filepath.Base(d.srcName), filepath.Ext(d.srcName)),
		RunID:      runID.String(),
	}

	buf := new(bytes.Buffer)
	if err := tmpl.Execute(buf, values); err != nil {
		return "", err
	}
	return buf.String(), nil
}
