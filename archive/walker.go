// Package archive gives access to markup sources packed into zip archives.
package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/maruel/natural"
)

// WalkFunc is the type of the function called for each file in archive
// visited by Walk. The archive argument contains path to archive passed to
// Walk, file is the entry which satisfies prefix condition. If an error is
// returned, processing stops.
type WalkFunc func(archive string, file *zip.File) error

// NameFunc maps stored entry name to the name used on disk. It allows caller
// to decode names written in legacy code pages.
type NameFunc func(file *zip.File) string

// Walk visits all regular files in the archive whose names start with
// prefix, calling walkFn for each item in natural name order, so "ch2.xml"
// comes before "ch10.xml". Archive with absolute entry names or names with
// ".." components is rejected as a whole.
func Walk(archive, prefix string, walkFn WalkFunc) error {
	r, err := zip.OpenReader(archive)
	if err != nil {
		return err
	}
	defer r.Close()

	files := make([]*zip.File, 0, len(r.File))
	for _, f := range r.File {
		if !isSafePath(f.Name) {
			return fmt.Errorf("zip entry %q: unsafe path (absolute or contains path traversal)", f.Name)
		}
		if !f.FileInfo().IsDir() && strings.HasPrefix(f.Name, prefix) {
			files = append(files, f)
		}
	}
	slices.SortStableFunc(files, func(a, b *zip.File) int {
		switch {
		case a.Name == b.Name:
			return 0
		case natural.Less(a.Name, b.Name):
			return -1
		default:
			return 1
		}
	})

	for _, f := range files {
		if err := walkFn(archive, f); err != nil {
			return err
		}
	}
	return nil
}

// Extract unpacks regular files under prefix into dir preserving relative
// layout and returns paths of extracted files in walk order. When name is
// nil stored entry names are used.
func Extract(archive, prefix, dir string, name NameFunc) ([]string, error) {
	if name == nil {
		name = func(f *zip.File) string { return f.Name }
	}

	var extracted []string
	err := Walk(archive, prefix, func(_ string, f *zip.File) error {
		rel := name(f)
		if !isSafePath(rel) {
			return fmt.Errorf("zip entry %q: unsafe decoded name %q", f.Name, rel)
		}
		dst := filepath.Join(dir, filepath.FromSlash(rel))
		if err := extractFile(f, dst); err != nil {
			return fmt.Errorf("unable to extract %q: %w", f.Name, err)
		}
		extracted = append(extracted, dst)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return extracted, nil
}

func extractFile(f *zip.File, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// isSafePath returns false for paths that could escape the extraction
// directory: absolute paths and those containing ".." components.
func isSafePath(name string) bool {
	if path.IsAbs(name) || strings.HasPrefix(name, `\`) || filepath.VolumeName(name) != "" {
		return false
	}
	for part := range strings.SplitSeq(strings.ReplaceAll(name, `\`, "/"), "/") {
		if part == ".." {
			return false
		}
	}
	return true
}
