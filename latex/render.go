// Package latex turns textbook markup trees into LaTeX source fragments for
// PDF typesetting and for the EPUB pipeline.
package latex

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"sicptex/common"
	"sicptex/markup"
)

// Options controls Renderer behavior.
type Options struct {
	Mode common.RenderMode
	// IndexAnnotations adds margin (or inline) notes next to every index
	// entry, useful when proofreading index.
	IndexAnnotations bool
	// ImageDir is prepended to image file names in \includegraphics.
	ImageDir string
	// ImageScale is fraction of \textwidth for images, zero means natural
	// size.
	ImageScale float64
	// Includer resolves entity references found in character data. When nil
	// any entity reference is an error.
	Includer Includer
}

// Renderer walks markup trees and produces LaTeX fragments. Each document
// should use its own Renderer: mode lives here and rendering keeps per
// document state (name registry, diagnostics). Renderer is not safe for
// concurrent use.
type Renderer struct {
	log   *zap.Logger
	opts  Options
	rules *ruleset

	names       map[string]string
	including   map[string]bool
	diagnostics int
	depth       int
}

// New creates Renderer with requested options. Invalid mode falls back to
// pdf.
func New(opts Options, log *zap.Logger) *Renderer {
	if log == nil {
		log = zap.NewNop()
	}
	r := &Renderer{
		log:       log,
		opts:      opts,
		names:     make(map[string]string),
		including: make(map[string]bool),
	}
	if !opts.Mode.IsValid() {
		log.Warn("Unknown render mode requested, switching to pdf", zap.Stringer("mode", opts.Mode))
		r.opts.Mode = common.RenderModePdf
	}
	r.rules = rulesetFor(r.opts.Mode)
	return r
}

// Mode returns active render mode.
func (r *Renderer) Mode() common.RenderMode {
	return r.opts.Mode
}

// SetMode installs rules for requested mode. Mode cannot change while
// rendering is in progress.
func (r *Renderer) SetMode(mode common.RenderMode) error {
	if r.depth > 0 {
		return errors.New("render mode cannot be changed while rendering")
	}
	if !mode.IsValid() {
		return fmt.Errorf("unsupported render mode %s", mode)
	}
	r.opts.Mode = mode
	r.rules = rulesetFor(mode)
	r.log.Debug("Render mode selected", zap.Stringer("mode", mode))
	return nil
}

// Diagnostics returns number of unrecognized tags reported so far.
func (r *Renderer) Diagnostics() int {
	return r.diagnostics
}

// Render appends fragments for node n (but not its siblings) to out. Errors
// are fatal for the document, output produced so far is incomplete.
func (r *Renderer) Render(n *markup.Node, out *Output) error {
	if n == nil {
		return nil
	}
	r.depth++
	defer func() { r.depth-- }()

	_, err := r.process(n, out)
	return err
}

// process renders single node. It reports whether node was recognized.
func (r *Renderer) process(n *markup.Node, out *Output) (bool, error) {
	name := n.Name()
	if fn := r.rules.lookup(name); fn != nil {
		return true, fn(r, n, out)
	}
	if r.replaceTagWithSymbol(n, out) {
		return true, nil
	}
	switch Classify(name) {
	case Removed:
		return true, nil
	case Unwrapped:
		return true, r.recurse(n.FirstChild(), out)
	}
	r.diagnostics++
	r.log.Warn("Unrecognized tag, skipping", zap.String("tag", name), zap.String("xml", n.String()))
	return false, nil
}

// recurse renders n and all its following siblings.
func (r *Renderer) recurse(n *markup.Node, out *Output) error {
	for ; n != nil; n = n.NextSibling() {
		if _, err := r.process(n, out); err != nil {
			return err
		}
	}
	return nil
}

// recurseExcept is recurse which skips nodes with listed tags.
func (r *Renderer) recurseExcept(n *markup.Node, out *Output, skip ...string) error {
next:
	for ; n != nil; n = n.NextSibling() {
		for _, tag := range skip {
			if n.Tag == tag {
				continue next
			}
		}
		if _, err := r.process(n, out); err != nil {
			return err
		}
	}
	return nil
}

// renderString renders n and its siblings (minus skipped tags) into private
// buffer and returns concatenated result.
func (r *Renderer) renderString(n *markup.Node, skip ...string) (string, error) {
	var buf Output
	if err := r.recurseExcept(n, &buf, skip...); err != nil {
		return "", err
	}
	return buf.String(), nil
}
