// Package common keeps enumerations shared between configuration, renderer
// and conversion driver.
package common

import (
	"fmt"
	"strings"
)

// Specification of requested rendering backend.
// ENUM(pdf, epub)
type RenderMode int

const (
	// RenderModePdf is LaTeX flavor for PDF typesetting.
	RenderModePdf RenderMode = iota
	// RenderModeEpub is LaTeX flavor feeding EPUB pipeline.
	RenderModeEpub
)

var renderModeNames = []string{"pdf", "epub"}

// RenderModeNames returns list of possible string values of RenderMode.
func RenderModeNames() []string {
	return append([]string(nil), renderModeNames...)
}

func (m RenderMode) String() string {
	if m >= 0 && int(m) < len(renderModeNames) {
		return renderModeNames[m]
	}
	return fmt.Sprintf("RenderMode(%d)", int(m))
}

// IsValid reports whether m is one of the defined modes.
func (m RenderMode) IsValid() bool {
	return m >= 0 && int(m) < len(renderModeNames)
}

// Ext returns file extension for generated fragments.
func (m RenderMode) Ext() string {
	switch m {
	case RenderModePdf, RenderModeEpub:
		return ".tex"
	default:
		// this should never happen
		panic("unsupported render mode requested")
	}
}

// ParseRenderMode attempts to convert a string to a RenderMode.
func ParseRenderMode(name string) (RenderMode, error) {
	for i, n := range renderModeNames {
		if strings.EqualFold(n, name) {
			return RenderMode(i), nil
		}
	}
	return RenderMode(0), fmt.Errorf("%s is not a valid RenderMode, try [%s]", name, strings.Join(renderModeNames, ", "))
}

// MarshalText implements the text marshaller method.
func (m RenderMode) MarshalText() ([]byte, error) {
	if !m.IsValid() {
		return nil, fmt.Errorf("%d is not a valid RenderMode", int(m))
	}
	return []byte(m.String()), nil
}

// UnmarshalText implements the text unmarshaller method.
func (m *RenderMode) UnmarshalText(text []byte) error {
	tmp, err := ParseRenderMode(string(text))
	if err != nil {
		return err
	}
	*m = tmp
	return nil
}
