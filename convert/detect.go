package convert

import (
	"archive/zip"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/h2non/filetype"
	"github.com/h2non/filetype/matchers"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/encoding/unicode/utf32"
	"golang.org/x/text/transform"
)

const (
	documentExt = ".xml"
	archiveExt  = ".zip"
	headSize    = 512
)

var markupType = filetype.NewType("sicpxml", "application/x-sicp+xml")

func init() {
	filetype.AddMatcher(markupType, isMarkup)
}

// srcEncoding is Unicode flavor detected by byte order mark.
type srcEncoding int

const (
	encUnknown srcEncoding = iota
	encUTF8
	encUTF16BigEndian
	encUTF16LittleEndian
	encUTF32BigEndian
	encUTF32LittleEndian
)

func isUTF8BOM3(buf []byte) bool {
	return len(buf) >= 3 && buf[0] == 0xEF && buf[1] == 0xBB && buf[2] == 0xBF
}

func isUTF16BigEndianBOM2(buf []byte) bool {
	return len(buf) >= 2 && buf[0] == 0xFE && buf[1] == 0xFF
}

func isUTF16LittleEndianBOM2(buf []byte) bool {
	return len(buf) >= 2 && buf[0] == 0xFF && buf[1] == 0xFE
}

func isUTF32BigEndianBOM4(buf []byte) bool {
	return len(buf) >= 4 && buf[0] == 0x00 && buf[1] == 0x00 && buf[2] == 0xFE && buf[3] == 0xFF
}

func isUTF32LittleEndianBOM4(buf []byte) bool {
	return len(buf) >= 4 && buf[0] == 0xFF && buf[1] == 0xFE && buf[2] == 0x00 && buf[3] == 0x00
}

// detectUTF looks for byte order mark. UTF-32LE must be checked before
// UTF-16LE since their marks share prefix.
func detectUTF(buf []byte) srcEncoding {
	switch {
	case isUTF8BOM3(buf):
		return encUTF8
	case isUTF32LittleEndianBOM4(buf):
		return encUTF32LittleEndian
	case isUTF32BigEndianBOM4(buf):
		return encUTF32BigEndian
	case isUTF16BigEndianBOM2(buf):
		return encUTF16BigEndian
	case isUTF16LittleEndianBOM2(buf):
		return encUTF16LittleEndian
	}
	return encUnknown
}

// selectReader returns reader producing UTF-8 without byte order mark.
func selectReader(r io.Reader, enc srcEncoding) io.Reader {
	switch enc {
	case encUnknown:
		return r
	case encUTF8:
		return transform.NewReader(r, unicode.UTF8BOM.NewDecoder())
	case encUTF16BigEndian:
		return transform.NewReader(r, unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM).NewDecoder())
	case encUTF16LittleEndian:
		return transform.NewReader(r, unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM).NewDecoder())
	case encUTF32BigEndian:
		return transform.NewReader(r, utf32.UTF32(utf32.BigEndian, utf32.ExpectBOM).NewDecoder())
	case encUTF32LittleEndian:
		return transform.NewReader(r, utf32.UTF32(utf32.LittleEndian, utf32.ExpectBOM).NewDecoder())
	default:
		// this should never happen
		panic("unexpected source encoding")
	}
}

// isMarkup recognizes textbook documents: XML whose root element name is in
// upper case (CHAPTER, SECTION, ...). Declarations, comments and DOCTYPE
// before root are skipped, DOCTYPE names root directly.
func isMarkup(buf []byte) bool {
	buf = bytes.TrimPrefix(buf, []byte{0xEF, 0xBB, 0xBF})
	for {
		buf = bytes.TrimLeft(buf, " \t\r\n")
		switch {
		case bytes.HasPrefix(buf, []byte("<?")):
			i := bytes.Index(buf, []byte("?>"))
			if i < 0 {
				return false
			}
			buf = buf[i+2:]
		case bytes.HasPrefix(buf, []byte("<!--")):
			i := bytes.Index(buf, []byte("-->"))
			if i < 0 {
				return false
			}
			buf = buf[i+3:]
		case bytes.HasPrefix(buf, []byte("<!DOCTYPE")):
			return isMarkupRoot(bytes.TrimLeft(buf[len("<!DOCTYPE"):], " \t\r\n"))
		case bytes.HasPrefix(buf, []byte("<")):
			return isMarkupRoot(buf[1:])
		default:
			return false
		}
	}
}

func isMarkupRoot(buf []byte) bool {
	n := 0
	for n < len(buf) {
		c := buf[n]
		if ('A' <= c && c <= 'Z') || c == '_' || (n > 0 && '0' <= c && c <= '9') {
			n++
			continue
		}
		break
	}
	if n == 0 || n == len(buf) {
		return false
	}
	switch buf[n] {
	case ' ', '\t', '\r', '\n', '>', '/', '[':
		return buf[0] != '_'
	}
	return false
}

func readHead(r io.Reader) ([]byte, error) {
	head := make([]byte, headSize)
	n, err := io.ReadFull(r, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, err
	}
	return head[:n], nil
}

// markupHead decides whether head of the file belongs to textbook document.
func markupHead(head []byte) (bool, srcEncoding) {
	enc := detectUTF(head)
	decoded, err := io.ReadAll(selectReader(bytes.NewReader(head), enc))
	if err != nil && len(decoded) == 0 {
		return false, encUnknown
	}
	if !filetype.IsType(decoded, markupType) {
		return false, encUnknown
	}
	return true, enc
}

func isArchiveFile(path string) (bool, error) {
	if !strings.EqualFold(filepath.Ext(path), archiveExt) {
		return false, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	head, err := readHead(f)
	if err != nil {
		return false, err
	}
	return filetype.IsType(head, matchers.TypeZip), nil
}

func isDocumentFile(path string) (bool, srcEncoding, error) {
	if !strings.EqualFold(filepath.Ext(path), documentExt) {
		return false, encUnknown, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return false, encUnknown, err
	}
	defer f.Close()

	head, err := readHead(f)
	if err != nil {
		return false, encUnknown, err
	}
	ok, enc := markupHead(head)
	return ok, enc, nil
}

func isDocumentInArchive(f *zip.File) (bool, srcEncoding, error) {
	if !strings.EqualFold(filepath.Ext(f.Name), documentExt) {
		return false, encUnknown, nil
	}
	r, err := f.Open()
	if err != nil {
		return false, encUnknown, err
	}
	defer r.Close()

	head, err := readHead(r)
	if err != nil {
		return false, encUnknown, err
	}
	ok, enc := markupHead(head)
	return ok, enc, nil
}

