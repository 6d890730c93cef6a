package convert

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/encoding/unicode/utf32"
	"golang.org/x/text/transform"

	"sicptex/common"
	"sicptex/config"
	"sicptex/state"
)

const sampleChapter = `<?xml version="1.0" encoding="UTF-8"?>
<CHAPTER>
  <NAME>Building Abstractions with Functions</NAME>
  <LABEL NAME="chap:building"/>
  <TEXT>We are about to study the idea of a <B>computational process</B>.</TEXT>
</CHAPTER>
`

const sampleSnippet = `<SECTION>
  <NAME>Elements</NAME>
  <SNIPPET><JAVASCRIPT>
const size = 2;
</JAVASCRIPT></SNIPPET>
</SECTION>
`

// setupTestEnv creates a test environment with proper context and logger
func setupTestEnv(t *testing.T) (context.Context, *state.LocalEnv) {
	t.Helper()
	logger := zaptest.NewLogger(t, zaptest.WrapOptions(zap.AddCaller(), zap.AddCallerSkip(1)))
	cfg, err := config.LoadConfiguration("")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	ctx := state.ContextWithEnv(context.Background())
	env := state.EnvFromContext(ctx)
	env.Log = logger
	env.Cfg = cfg
	env.Mode = cfg.Document.Mode
	return ctx, env
}

func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}
	return path
}

func readOutput(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Expected output %s: %v", path, err)
	}
	return string(data)
}

func assertMissing(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("Unexpected output %s", path)
	}
}

func writeZip(t *testing.T, path string, files map[string]string) string {
	t.Helper()
	zipFile, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create zip file: %v", err)
	}
	w := zip.NewWriter(zipFile)
	for name, content := range files {
		f, err := w.Create(name)
		if err != nil {
			t.Fatalf("Failed to create file in zip: %v", err)
		}
		if _, err := f.Write([]byte(content)); err != nil {
			t.Fatalf("Failed to write to zip: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Failed to finish zip: %v", err)
	}
	zipFile.Close()
	return path
}

func encodeSample(t *testing.T, data []byte, enc srcEncoding) []byte {
	t.Helper()
	var encoder transform.Transformer
	switch enc {
	case encUnknown:
		return data
	case encUTF8:
		return append([]byte{0xEF, 0xBB, 0xBF}, data...)
	case encUTF16BigEndian:
		encoder = unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewEncoder()
	case encUTF16LittleEndian:
		encoder = unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder()
	case encUTF32BigEndian:
		encoder = utf32.UTF32(utf32.BigEndian, utf32.UseBOM).NewEncoder()
	case encUTF32LittleEndian:
		encoder = utf32.UTF32(utf32.LittleEndian, utf32.UseBOM).NewEncoder()
	default:
		t.Fatalf("unsupported encoding: %v", enc)
	}
	var buf bytes.Buffer
	w := transform.NewWriter(&buf, encoder)
	if _, err := w.Write(data); err != nil {
		t.Fatalf("encode sample: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("finalize encoded sample: %v", err)
	}
	return buf.Bytes()
}

func TestProcess_NonExistentPath(t *testing.T) {
	ctx, env := setupTestEnv(t)

	err := process(ctx, "/nonexistent/path/file.xml", t.TempDir(), env.Log)
	if err == nil {
		t.Fatal("Expected error for non-existent path, got nil")
	}
	if !strings.Contains(err.Error(), "input source was not found") {
		t.Errorf("Unexpected error: %v", err)
	}
}

func TestProcess_CancelledContext(t *testing.T) {
	ctx, env := setupTestEnv(t)
	cancelCtx, cancel := context.WithCancel(ctx)
	cancel()

	tmpDir := t.TempDir()
	if err := process(cancelCtx, tmpDir, tmpDir, env.Log); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled error, got %v", err)
	}
}

func TestProcess_Directory(t *testing.T) {
	ctx, env := setupTestEnv(t)
	src, dst := t.TempDir(), t.TempDir()

	writeFile(t, filepath.Join(src, "chapter2.xml"), sampleChapter)
	writeFile(t, filepath.Join(src, "part", "chapter1.xml"), sampleChapter)
	writeFile(t, filepath.Join(src, "notes.txt"), "not a source")
	writeFile(t, filepath.Join(src, "figure.xml"), `<svg xmlns="http://www.w3.org/2000/svg"/>`)

	if err := process(ctx, src, dst, env.Log); err != nil {
		t.Fatalf("process() error = %v", err)
	}

	out := readOutput(t, filepath.Join(dst, "chapter2.tex"))
	for _, want := range []string{
		`\chapter{Building Abstractions with Functions}`,
		`\label{chap:building}`,
		`\textbf{computational process}`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output does not contain %q:\n%s", want, out)
		}
	}
	readOutput(t, filepath.Join(dst, "part", "chapter1.tex"))
	assertMissing(t, filepath.Join(dst, "figure.tex"))
	assertMissing(t, filepath.Join(dst, "notes.tex"))
}

func TestProcess_DirectoryNoDirs(t *testing.T) {
	ctx, env := setupTestEnv(t)
	env.NoDirs = true
	src, dst := t.TempDir(), t.TempDir()

	writeFile(t, filepath.Join(src, "part", "chapter1.xml"), sampleChapter)

	if err := process(ctx, src, dst, env.Log); err != nil {
		t.Fatalf("process() error = %v", err)
	}
	readOutput(t, filepath.Join(dst, "chapter1.tex"))
}

func TestProcess_DirectoryCollectsFailures(t *testing.T) {
	ctx, env := setupTestEnv(t)
	src, dst := t.TempDir(), t.TempDir()

	writeFile(t, filepath.Join(src, "chapter1.xml"), `<CHAPTER><NAME>One</NAME>&missing;</CHAPTER>`)
	writeFile(t, filepath.Join(src, "chapter2.xml"), sampleChapter)

	err := process(ctx, src, dst, env.Log)
	if err == nil || !strings.Contains(err.Error(), "missing") {
		t.Fatalf("process() error = %v, want failure for unresolved entity", err)
	}
	assertMissing(t, filepath.Join(dst, "chapter1.tex"))
	readOutput(t, filepath.Join(dst, "chapter2.tex"))
}

func TestProcess_DirectoryWithTail(t *testing.T) {
	ctx, env := setupTestEnv(t)
	tmpDir := t.TempDir()

	pathWithTail := filepath.Join(tmpDir, "nonexistent.xml")
	if err := process(ctx, pathWithTail, tmpDir, env.Log); err == nil {
		t.Fatal("Expected error for directory with tail, got nil")
	}
}

func TestProcess_SingleFileWithInclude(t *testing.T) {
	ctx, env := setupTestEnv(t)
	src, dst := t.TempDir(), t.TempDir()

	main := writeFile(t, filepath.Join(src, "chapter1.xml"), `<CHAPTER><NAME>One</NAME>
&section1;
</CHAPTER>`)
	writeFile(t, filepath.Join(src, "section1.xml"), sampleSnippet)

	if err := process(ctx, main, dst, env.Log); err != nil {
		t.Fatalf("process() error = %v", err)
	}
	out := readOutput(t, filepath.Join(dst, "chapter1.tex"))
	if !strings.Contains(out, `\section{Elements}`) {
		t.Errorf("included section was not rendered:\n%s", out)
	}
	if !strings.Contains(out, "\\begin{JavaScript}\nconst size = 2;\n\\end{JavaScript}") {
		t.Errorf("snippet was not rendered for pdf:\n%s", out)
	}
}

func TestProcess_EntitiesFromConfig(t *testing.T) {
	ctx, env := setupTestEnv(t)
	src, dst := t.TempDir(), t.TempDir()

	env.Cfg.Document.Entities = map[string]string{"elements": filepath.Join("parts", "s1.xml")}
	main := writeFile(t, filepath.Join(src, "chapter1.xml"), `<CHAPTER><NAME>One</NAME>&elements;</CHAPTER>`)
	writeFile(t, filepath.Join(src, "parts", "s1.xml"), sampleSnippet)

	if err := process(ctx, main, dst, env.Log); err != nil {
		t.Fatalf("process() error = %v", err)
	}
	if out := readOutput(t, filepath.Join(dst, "chapter1.tex")); !strings.Contains(out, `\section{Elements}`) {
		t.Errorf("mapped entity was not rendered:\n%s", out)
	}
}

func TestProcess_Modes(t *testing.T) {
	tests := []struct {
		mode common.RenderMode
		want string
	}{
		{common.RenderModePdf, `\begin{JavaScript}`},
		{common.RenderModeEpub, `\begin{lstlisting}[language=JavaScript]`},
	}
	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			ctx, env := setupTestEnv(t)
			env.Mode = tt.mode
			src, dst := t.TempDir(), t.TempDir()

			file := writeFile(t, filepath.Join(src, "section.xml"), sampleSnippet)
			if err := process(ctx, file, dst, env.Log); err != nil {
				t.Fatalf("process() error = %v", err)
			}
			if out := readOutput(t, filepath.Join(dst, "section.tex")); !strings.Contains(out, tt.want) {
				t.Errorf("output does not contain %q:\n%s", tt.want, out)
			}
		})
	}
}

func TestProcess_Overwrite(t *testing.T) {
	ctx, env := setupTestEnv(t)
	src, dst := t.TempDir(), t.TempDir()

	file := writeFile(t, filepath.Join(src, "chapter1.xml"), sampleChapter)
	existing := writeFile(t, filepath.Join(dst, "chapter1.tex"), "old")

	err := process(ctx, file, dst, env.Log)
	if err == nil || !strings.Contains(err.Error(), "already exists") {
		t.Fatalf("process() error = %v, want already exists", err)
	}
	if readOutput(t, existing) != "old" {
		t.Fatal("existing output must not be touched")
	}

	env.Overwrite = true
	if err := process(ctx, file, dst, env.Log); err != nil {
		t.Fatalf("process() with overwrite error = %v", err)
	}
	if readOutput(t, existing) == "old" {
		t.Error("existing output was not overwritten")
	}
}

func TestProcess_Archive(t *testing.T) {
	ctx, env := setupTestEnv(t)
	tmpDir, dst := t.TempDir(), t.TempDir()

	zipPath := writeZip(t, filepath.Join(tmpDir, "sicp.zip"), map[string]string{
		"book/chapter1.xml":  "<CHAPTER><NAME>One</NAME>&section1;</CHAPTER>",
		"book/section1.xml":  sampleSnippet,
		"book/img/notes.txt": "skip me",
	})

	if err := process(ctx, zipPath, dst, env.Log); err != nil {
		t.Fatalf("process() error = %v", err)
	}
	out := readOutput(t, filepath.Join(dst, "book", "chapter1.tex"))
	if !strings.Contains(out, `\section{Elements}`) {
		t.Errorf("entity inside archive was not resolved:\n%s", out)
	}
	readOutput(t, filepath.Join(dst, "book", "section1.tex"))
}

func TestProcess_ArchiveWithPath(t *testing.T) {
	ctx, env := setupTestEnv(t)
	tmpDir, dst := t.TempDir(), t.TempDir()

	zipPath := writeZip(t, filepath.Join(tmpDir, "sicp.zip"), map[string]string{
		"book/chapter1.xml": "<CHAPTER><NAME>One</NAME>&section1;</CHAPTER>",
		"book/section1.xml": sampleSnippet,
	})

	src := filepath.Join(zipPath, "book", "chapter1.xml")
	if err := process(ctx, src, dst, env.Log); err != nil {
		t.Fatalf("process() error = %v", err)
	}
	readOutput(t, filepath.Join(dst, "book", "chapter1.tex"))
	assertMissing(t, filepath.Join(dst, "book", "section1.tex"))
}

func TestProcess_DirectoryWithArchive(t *testing.T) {
	ctx, env := setupTestEnv(t)
	src, dst := t.TempDir(), t.TempDir()

	if err := os.MkdirAll(filepath.Join(src, "packed"), 0755); err != nil {
		t.Fatal(err)
	}
	writeZip(t, filepath.Join(src, "packed", "sicp.zip"), map[string]string{"chapter3.xml": sampleChapter})

	if err := process(ctx, src, dst, env.Log); err != nil {
		t.Fatalf("process() error = %v", err)
	}
	readOutput(t, filepath.Join(dst, "packed", "chapter3.tex"))
}

func TestProcess_NonDocumentFile(t *testing.T) {
	ctx, env := setupTestEnv(t)
	tmpDir := t.TempDir()

	testFile := writeFile(t, filepath.Join(tmpDir, "test.txt"), "not a source")
	err := process(ctx, testFile, tmpDir, env.Log)
	if err == nil {
		t.Fatal("Expected error for non-source file, got nil")
	}
	if !strings.Contains(err.Error(), "input was not recognized as textbook source") {
		t.Errorf("Unexpected error: %v", err)
	}
}

func TestProcess_EmptyDirectory(t *testing.T) {
	ctx, env := setupTestEnv(t)
	if err := process(ctx, t.TempDir(), t.TempDir(), env.Log); err != nil {
		t.Errorf("process() error = %v", err)
	}
}

func TestProcessDocument_Encodings(t *testing.T) {
	encodings := []srcEncoding{encUnknown, encUTF8, encUTF16BigEndian, encUTF16LittleEndian, encUTF32BigEndian, encUTF32LittleEndian}
	for _, enc := range encodings {
		t.Run("encoding_"+string(rune('0'+int(enc))), func(t *testing.T) {
			ctx, env := setupTestEnv(t)
			src, dst := t.TempDir(), t.TempDir()

			file := filepath.Join(src, "chapter1.xml")
			if err := os.WriteFile(file, encodeSample(t, []byte(sampleChapter), enc), 0644); err != nil {
				t.Fatal(err)
			}

			ok, detected, err := isDocumentFile(file)
			if err != nil || !ok || detected != enc {
				t.Fatalf("isDocumentFile() = %v, %v, %v; want true, %v", ok, detected, err, enc)
			}
			if err := processDocument(ctx, file, detected, "chapter1.xml", dst, env.Log); err != nil {
				t.Fatalf("processDocument() error = %v", err)
			}
			if out := readOutput(t, filepath.Join(dst, "chapter1.tex")); !strings.Contains(out, `\chapter{Building Abstractions with Functions}`) {
				t.Errorf("unexpected output:\n%s", out)
			}
		})
	}
}

func TestProcessDocument_Report(t *testing.T) {
	ctx, env := setupTestEnv(t)
	src, dst := t.TempDir(), t.TempDir()

	rc := config.ReporterConfig{Destination: filepath.Join(t.TempDir(), "report.zip")}
	rpt, err := rc.Prepare()
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	env.Rpt = rpt

	file := writeFile(t, filepath.Join(src, "chapter1.xml"), sampleChapter)
	if err := processDocument(ctx, file, encUnknown, "chapter1.xml", dst, env.Log); err != nil {
		t.Fatalf("processDocument() error = %v", err)
	}
	if err := rpt.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	r, err := zip.OpenReader(rc.Destination)
	if err != nil {
		t.Fatalf("open report: %v", err)
	}
	defer r.Close()

	got := make(map[string]bool)
	for _, f := range r.File {
		got[f.Name] = true
	}
	for _, want := range []string{"markup-chapter1-xml.txt", "names-chapter1-xml.txt", "result-chapter1-xml.tex"} {
		if !got[want] {
			t.Errorf("report has no %s, got %v", want, got)
		}
	}
}

func TestRun_Flags(t *testing.T) {
	ctx, env := setupTestEnv(t)
	src, dst := t.TempDir(), t.TempDir()
	file := writeFile(t, filepath.Join(src, "part", "section.xml"), sampleSnippet)

	cmd := &cli.Command{
		Name: "convert",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "to", Value: "pdf"},
			&cli.BoolFlag{Name: "nodirs"},
			&cli.BoolFlag{Name: "overwrite"},
			&cli.StringFlag{Name: "force-zip-cp"},
		},
		Action: Run,
	}
	if err := cmd.Run(ctx, []string{"convert", "--to", "epub", "--nodirs", "--force-zip-cp", "windows-1251", file, dst}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if env.Mode != common.RenderModeEpub || !env.NoDirs || env.Overwrite {
		t.Errorf("flags were not applied: mode=%s nodirs=%v overwrite=%v", env.Mode, env.NoDirs, env.Overwrite)
	}
	if env.CodePage == nil {
		t.Error("code page was not selected")
	}
	if out := readOutput(t, filepath.Join(dst, "section.tex")); !strings.Contains(out, "lstlisting") {
		t.Errorf("epub rules were not used:\n%s", out)
	}
}

func TestRun_ModeFromConfig(t *testing.T) {
	ctx, env := setupTestEnv(t)
	env.Cfg.Document.Mode = common.RenderModeEpub

	cmd := &cli.Command{
		Name:   "convert",
		Flags:  []cli.Flag{&cli.StringFlag{Name: "to", Value: "pdf"}},
		Action: Run,
	}
	src := writeFile(t, filepath.Join(t.TempDir(), "section.xml"), sampleSnippet)
	if err := cmd.Run(ctx, []string{"convert", src, t.TempDir()}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if env.Mode != common.RenderModeEpub {
		t.Errorf("mode = %s, want configured epub", env.Mode)
	}
}

func TestRun_NoSource(t *testing.T) {
	ctx, _ := setupTestEnv(t)
	cmd := &cli.Command{Name: "convert", Action: Run}
	if err := cmd.Run(ctx, []string{"convert"}); err == nil || !strings.Contains(err.Error(), "no input source") {
		t.Errorf("Run() error = %v, want missing source", err)
	}
}

func TestDecodeName(t *testing.T) {
	_, env := setupTestEnv(t)
	cp, err := ianaindex.IANA.Encoding("windows-1251")
	if err != nil {
		t.Fatalf("encoding lookup: %v", err)
	}

	raw := "\xe3\xeb\xe0\xe2\xe0.xml"
	tests := []struct {
		name     string
		cp       bool
		nonUTF8  bool
		expected string
	}{
		{"no code page", false, true, raw},
		{"utf8 flagged entry", true, false, raw},
		{"forced code page", true, true, "глава.xml"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env.CodePage = nil
			if tt.cp {
				env.CodePage = cp
			}
			f := &zip.File{FileHeader: zip.FileHeader{Name: raw, NonUTF8: tt.nonUTF8}}
			if got := decodeName(f, env, env.Log); got != tt.expected {
				t.Errorf("decodeName() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestDumpNames(t *testing.T) {
	got := string(dumpNames(map[string]string{
		"sec:10": "Ten",
		"sec:2":  "Two",
		"chap:1": "One",
	}))
	want := "chap:1: One\nsec:2: Two\nsec:10: Ten\n"
	if got != want {
		t.Errorf("dumpNames() = %q, want %q", got, want)
	}
}
