// Package convert drives batch rendering of textbook sources into LaTeX
// fragments.
package convert

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"
	"slices"
	"strings"
	"time"

	"github.com/gosimple/slug"
	"github.com/maruel/natural"
	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/text/encoding/ianaindex"

	"sicptex/archive"
	"sicptex/common"
	"sicptex/latex"
	"sicptex/markup"
	"sicptex/misc"
	"sicptex/state"
)

func Run(ctx context.Context, cmd *cli.Command) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("convert")

	src := cmd.Args().Get(0)
	if len(src) == 0 {
		return errors.New("no input source has been specified")
	}
	src, err = filepath.Abs(src)
	if err != nil {
		return err
	}

	dst := cmd.Args().Get(1)
	if len(dst) == 0 {
		if dst, err = os.Getwd(); err != nil {
			return fmt.Errorf("unable to get working directory: %w", err)
		}
	}
	if dst, err = filepath.Abs(dst); err != nil {
		return err
	}
	if cmd.Args().Len() > 2 {
		log.Warn("Mailformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[2:]))
	}

	env.Mode = env.Cfg.Document.Mode
	if cmd.IsSet("to") {
		mode, err := common.ParseRenderMode(cmd.String("to"))
		if err != nil {
			log.Warn("Unknown render mode requested, switching to pdf", zap.Error(err))
			mode = common.RenderModePdf
		}
		env.Mode = mode
	}

	env.NoDirs, env.Overwrite = cmd.Bool("nodirs"), cmd.Bool("overwrite")

	// Since zip "standard" does not define file name encoding we may need to
	// force archaic code page for old archives
	cp := cmd.String("force-zip-cp")
	if len(cp) > 0 {
		env.CodePage, err = ianaindex.IANA.Encoding(cp)
		if err != nil || env.CodePage == nil {
			log.Warn("Unknown character set specification. Ignoring...", zap.String("charset", cp), zap.Error(err))
			env.CodePage = nil
		} else {
			n, _ := ianaindex.IANA.Name(env.CodePage)
			log.Debug("Forcefully converting all non UTF-8 file names in archives", zap.String("charset", n))
		}
	}

	log.Info("Processing starting",
		zap.String("source", src), zap.String("destination", dst), zap.Stringer("mode", env.Mode), zap.Stringer("run_id", env.RunID))
	defer func(start time.Time) {
		log.Info("Processing completed", zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	return process(ctx, src, dst, log)
}

// process handles the core conversion logic independently of CLI framework. It
// determines the input type (directory, archive, or single file) and processes
// accordingly.
func process(ctx context.Context, src, dst string, log *zap.Logger) error {
	var head, tail string
	for head = src; len(head) != 0; head, tail = filepath.Split(head) {
		if err := ctx.Err(); err != nil {
			return err
		}

		head = strings.TrimSuffix(head, string(filepath.Separator))

		fi, err := os.Stat(head)
		if err != nil {
			// does not exists - probably path in archive
			continue
		}

		if fi.Mode().IsDir() {
			if len(tail) != 0 {
				// directory cannot have tail - it would be simple file
				return fmt.Errorf("input source was not found (%s) => (%s)", head, strings.TrimPrefix(src, head))
			}
			if err := processDir(ctx, head, dst, log); err != nil {
				return fmt.Errorf("unable to process directory: %w", err)
			}
			break
		}

		if !fi.Mode().IsRegular() {
			return fmt.Errorf("unexpected path mode for (%s) => (%s)", head, strings.TrimPrefix(src, head))
		}

		isArchive, err := isArchiveFile(head)
		if err != nil {
			// checking format - but cannot open target file
			return fmt.Errorf("unable to check archive type: %w", err)
		}
		if isArchive {
			// we need to look inside to see if path makes sense
			tail = filepath.ToSlash(strings.TrimPrefix(strings.TrimPrefix(src, head), string(filepath.Separator)))
			if err := processArchive(ctx, head, tail, "", dst, log); err != nil {
				return fmt.Errorf("unable to process archive: %w", err)
			}
			break
		}

		doc, enc, err := isDocumentFile(head)
		if err != nil {
			// checking format - but cannot open target file
			return fmt.Errorf("unable to check file type: %w", err)
		}
		if doc && len(tail) == 0 {
			// we have document, it cannot have tail
			if err := processDocument(ctx, head, enc, filepath.Base(head), dst, log); err != nil {
				log.Error("Unable to process file", zap.String("file", head), zap.Error(err))
				return err
			}
			break
		}
		return fmt.Errorf("input was not recognized as textbook source (%s)", head)
	}
	if len(head) == 0 {
		return fmt.Errorf("input source was not found (%s)", src)
	}
	return nil
}

// naturalOrder sorts paths so numbered chapters follow each other.
func naturalOrder(paths []string) {
	slices.SortStableFunc(paths, func(a, b string) int {
		switch {
		case a == b:
			return 0
		case natural.Less(a, b):
			return -1
		default:
			return 1
		}
	})
}

// processDir walks directory tree finding textbook sources and archives and
// processes them in natural order. Failures of individual documents do not
// stop processing, they are collected and returned together.
func processDir(ctx context.Context, dir, dst string, log *zap.Logger) (err error) {
	count := 0
	defer func() {
		if err == nil && count == 0 {
			log.Debug("Nothing to process", zap.String("dir", dir))
		}
	}()

	var candidates []string
	err = filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err != nil {
			log.Warn("Skipping path", zap.String("path", path), zap.Error(err))
			return nil
		}
		if d.Type().IsRegular() {
			candidates = append(candidates, path)
		}
		return nil
	})
	if err != nil {
		return err
	}
	naturalOrder(candidates)

	var errs error
	for _, path := range candidates {
		if err := ctx.Err(); err != nil {
			return multierr.Append(errs, err)
		}

		isArchive, err := isArchiveFile(path)
		if err != nil {
			// checking format - but cannot open target file
			log.Warn("Skipping file", zap.String("file", path), zap.Error(err))
			continue
		}
		if isArchive {
			if err := processArchive(ctx, path, "", filepath.Dir(relativeTo(dir, path)), dst, log); err != nil {
				log.Error("Unable to process archive", zap.String("file", path), zap.Error(err))
				errs = multierr.Append(errs, err)
			}
			continue
		}

		doc, enc, err := isDocumentFile(path)
		if err != nil {
			log.Warn("Skipping file", zap.String("file", path), zap.Error(err))
			continue
		}
		if !doc {
			log.Debug("Skipping file, not recognized as textbook source or archive", zap.String("file", path))
			continue
		}

		count++
		if err := processDocument(ctx, path, enc, relativeTo(dir, path), dst, log); err != nil {
			log.Error("Unable to process file", zap.String("file", path), zap.Error(err))
			errs = multierr.Append(errs, err)
		}
	}
	return errs
}

func relativeTo(dir, path string) string {
	return strings.TrimPrefix(strings.TrimPrefix(path, dir), string(filepath.Separator))
}

// processArchive finds textbook sources under "pathIn" inside archive and
// processes them. Sources reference each other through entities, so the
// whole archive is unpacked into scratch directory first.
func processArchive(ctx context.Context, path, pathIn, pathOut, dst string, log *zap.Logger) (err error) {
	env := state.EnvFromContext(ctx)

	type source struct {
		name string
		enc  srcEncoding
	}
	var sources []source

	err = archive.Walk(path, pathIn, func(arc string, f *zip.File) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		doc, enc, err := isDocumentInArchive(f)
		if err != nil {
			log.Warn("Skipping file in archive", zap.String("archive", arc), zap.String("path", f.Name), zap.Error(err))
			return nil
		}
		if !doc {
			log.Debug("Skipping file, not recognized as textbook source", zap.String("archive", arc), zap.String("file", f.Name))
			return nil
		}
		sources = append(sources, source{name: decodeName(f, env, log), enc: enc})
		return nil
	})
	if err != nil {
		return err
	}
	if len(sources) == 0 {
		log.Debug("Nothing to process", zap.String("archive", path))
		return nil
	}

	scratch, err := os.MkdirTemp("", misc.GetAppName()+"-a-")
	if err != nil {
		return fmt.Errorf("unable to create working directory: %w", err)
	}
	defer os.RemoveAll(scratch)

	if _, err := archive.Extract(path, "", scratch, func(f *zip.File) string { return decodeName(f, env, log) }); err != nil {
		return err
	}
	if env.Rpt != nil {
		if err := env.Rpt.StoreCopy("source-"+slug.Make(filepath.Base(path)), scratch); err != nil {
			log.Warn("Unable to store archive content in the report", zap.Error(err))
		}
	}

	var errs error
	for _, s := range sources {
		if err := ctx.Err(); err != nil {
			return multierr.Append(errs, err)
		}
		file := filepath.Join(scratch, filepath.FromSlash(s.name))
		if err := processDocument(ctx, file, s.enc, filepath.Join(pathOut, filepath.FromSlash(s.name)), dst, log); err != nil {
			log.Error("Unable to process file in archive",
				zap.String("archive", path), zap.String("file", s.name), zap.Error(err))
			errs = multierr.Append(errs, err)
		}
	}
	return errs
}

// decodeName returns name of the archive entry, forcing requested code page
// on names which are not marked as UTF-8.
func decodeName(f *zip.File, env *state.LocalEnv, log *zap.Logger) string {
	cp := env.CodePage
	if cp == nil || !f.NonUTF8 {
		return f.Name
	}
	n, err := cp.NewDecoder().String(f.Name)
	if err != nil {
		cpName, _ := ianaindex.IANA.Name(cp)
		log.Warn("Unable to convert archive name from specified encoding",
			zap.String("charset", cpName), zap.String("path", f.Name), zap.Error(err))
		return f.Name
	}
	return n
}

// processDocument renders single textbook source. "path" is actual file on
// disk. "src" is part of the source path (always including file name)
// relative to the original path: base file name when single file was
// requested, relative path inside archive or directory otherwise. "dst" is
// the destination directory where fragments should be written.
func processDocument(ctx context.Context, path string, enc srcEncoding, src, dst string, log *zap.Logger) (rerr error) {
	env := state.EnvFromContext(ctx)

	var outputName string

	log.Info("Conversion starting", zap.String("from", src))
	defer func(start time.Time) {
		// malformed sources could trip renderer, if multiple documents are
		// being processed we do not want to stop.
		if r := recover(); r != nil {
			log.Error("Conversion ended with panic",
				zap.Any("panic", r), zap.Duration("elapsed", time.Since(start)), zap.String("to", outputName), zap.ByteString("stack", debug.Stack()))
			rerr = fmt.Errorf("conversion panic: %v", r)
		} else if rerr == nil {
			log.Info("Conversion completed", zap.Duration("elapsed", time.Since(start)), zap.String("to", outputName))
		}
	}(time.Now())

	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	root, err := markup.Parse(selectReader(file, enc))
	if err != nil {
		return fmt.Errorf("unable to parse source (%s): %w", src, err)
	}
	d := &document{root: root, srcName: src, mode: env.Mode}

	rep := reportKey(src)
	env.Rpt.StoreData(fmt.Sprintf("markup-%s.txt", rep), []byte(root.Dump()))

	r := latex.New(latex.Options{
		Mode:             d.mode,
		IndexAnnotations: env.Cfg.Document.IndexAnnotations,
		ImageDir:         env.Cfg.Document.Images.Directory,
		ImageScale:       env.Cfg.Document.Images.Scale,
		Includer: &latex.FileIncluder{
			BaseDir:  filepath.Dir(path),
			Entities: env.Cfg.Document.Entities,
			Dir:      env.Cfg.Document.EntitiesDir,
			Log:      log,
		},
	}, log.Named("latex"))

	var out latex.Output
	if err := r.Render(root, &out); err != nil {
		return fmt.Errorf("unable to render source (%s): %w", src, err)
	}
	if n := r.Diagnostics(); n > 0 {
		log.Warn("Source has unrecognized tags", zap.String("from", src), zap.Int("count", n))
	}
	env.Rpt.StoreData(fmt.Sprintf("names-%s.txt", rep), dumpNames(r.Names()))

	// Determine output file name and path based on input and configuration.
	outputName = buildOutputPath(d, dst, env)

	// Check if output file already exists
	if _, err := os.Stat(outputName); err == nil {
		if !env.Overwrite {
			return fmt.Errorf("output file already exists: %s", outputName)
		}
		log.Warn("Overwriting existing file", zap.String("file", outputName))
		if err = os.Remove(outputName); err != nil {
			return err
		}
	} else if !os.IsNotExist(err) {
		return err
	} else if err := os.MkdirAll(filepath.Dir(outputName), 0755); err != nil {
		return fmt.Errorf("unable to create output directory: %w", err)
	}

	if err := writeOutput(outputName, &out); err != nil {
		return fmt.Errorf("unable to write output: %w", err)
	}

	// Store conversion result for debugging
	env.Rpt.Store(fmt.Sprintf("result-%s%s", rep, filepath.Ext(outputName)), outputName)
	return nil
}

func writeOutput(name string, out *latex.Output) (err error) {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, f.Close())
	}()
	_, err = out.WriteTo(f)
	return err
}

// reportKey makes name under which document artifacts are kept in the debug
// report.
func reportKey(src string) string {
	return slug.Make(filepath.ToSlash(src))
}

// dumpNames formats heading names registry, one "key: name" per line in
// natural key order.
func dumpNames(names map[string]string) []byte {
	keys := make([]string, 0, len(names))
	for k := range names {
		keys = append(keys, k)
	}
	naturalOrder(keys)

	var sb strings.Builder
	for _, k := range keys {
		sb.WriteString(k + ": " + names[k] + "\n")
	}
	return []byte(sb.String())
}
