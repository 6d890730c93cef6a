package latex

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"sicptex/markup"
)

// Includer resolves entity reference name to the root of referenced
// document.
type Includer interface {
	Include(name string) (*markup.Node, error)
}

// FileIncluder reads included documents from disk. Explicit entity mapping
// takes precedence, otherwise "<name>.xml" is looked up in Dir.
type FileIncluder struct {
	// BaseDir is used to resolve relative paths in Entities and Dir.
	BaseDir  string
	Entities map[string]string
	Dir      string
	Log      *zap.Logger
}

// Include implements Includer.
func (fi *FileIncluder) Include(name string) (*markup.Node, error) {
	file, ok := fi.Entities[name]
	if !ok {
		file = filepath.Join(fi.Dir, name+".xml")
	}
	if !filepath.IsAbs(file) {
		file = filepath.Join(fi.BaseDir, file)
	}
	if _, err := os.Stat(file); err != nil {
		return nil, fmt.Errorf("entity &%s; cannot be resolved: %w", name, err)
	}
	if fi.Log != nil {
		fi.Log.Debug("Including file", zap.String("entity", name), zap.String("file", file))
	}
	return markup.ParseFile(file)
}

// processFileInput renders documents referenced by entities in text. Any
// other text in the run is ignored.
func (r *Renderer) processFileInput(text string, out *Output) error {
	for _, name := range entityNames(text) {
		if err := r.include(name, out); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) include(name string, out *Output) error {
	if r.opts.Includer == nil {
		return fmt.Errorf("entity &%s; found but file inclusion is not configured", name)
	}
	if r.including[name] {
		return fmt.Errorf("entity &%s; includes itself", name)
	}
	root, err := r.opts.Includer.Include(name)
	if err != nil {
		return fmt.Errorf("unable to include &%s;: %w", name, err)
	}

	r.including[name] = true
	defer delete(r.including, name)

	r.log.Debug("Rendering included document", zap.String("entity", name), zap.String("root", root.Tag))
	if _, err := r.process(root, out); err != nil {
		return fmt.Errorf("&%s;: %w", name, err)
	}
	return nil
}
