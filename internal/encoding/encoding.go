// Package encoding converts between the charsets spreadsheet users hand us and UTF-8.
package encoding

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/MrJamesThe3rd/cdapos/internal/apperr"
)

type Charset string

const (
	UTF8        Charset = "utf-8"
	Windows1252 Charset = "windows-1252"
	UTF16LE     Charset = "utf-16le"
	UTF16BE     Charset = "utf-16be"
)

// ParseCharset accepts the names clients use for export downloads. Empty means UTF-8.
func ParseCharset(s string) (Charset, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "utf-8", "utf8":
		return UTF8, nil
	case "windows-1252", "cp1252", "latin1", "iso-8859-1":
		return Windows1252, nil
	}

	return "", apperr.Validation("unsupported charset %q", s)
}

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// sampleSize is how much of an upload is inspected before choosing a decoder.
const sampleSize = 4096

// Detect guesses the charset of sample. A BOM wins, then UTF-8 validity, then chardet.
// Anything chardet cannot place is treated as Windows-1252, which is what Excel writes
// on Spanish-locale Windows.
func Detect(sample []byte) Charset {
	switch {
	case bytes.HasPrefix(sample, bomUTF8):
		return UTF8
	case bytes.HasPrefix(sample, bomUTF16LE):
		return UTF16LE
	case bytes.HasPrefix(sample, bomUTF16BE):
		return UTF16BE
	case utf8.Valid(sample):
		return UTF8
	}

	result, err := chardet.NewTextDetector().DetectBest(sample)
	if err == nil && result.Charset == "UTF-8" {
		return UTF8
	}

	return Windows1252
}

// NewUTF8Reader returns r decoded to UTF-8, with any UTF-8 BOM removed.
func NewUTF8Reader(r io.Reader) (io.Reader, error) {
	br := bufio.NewReaderSize(r, sampleSize)

	sample, err := br.Peek(sampleSize)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, fmt.Errorf("peek: %w", err)
	}

	switch Detect(sample) {
	case UTF16LE:
		return transform.NewReader(br, unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder()), nil
	case UTF16BE:
		return transform.NewReader(br, unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewDecoder()), nil
	case Windows1252:
		return transform.NewReader(br, charmap.Windows1252.NewDecoder()), nil
	}

	if bytes.HasPrefix(sample, bomUTF8) {
		_, _ = br.Discard(len(bomUTF8))
	}

	return br, nil
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }

// NewWriter encodes UTF-8 text written to it into charset. Runes Windows-1252
// cannot represent are replaced rather than failing the download. Close flushes
// but does not close w.
func NewWriter(w io.Writer, charset Charset) io.WriteCloser {
	if charset != Windows1252 {
		return nopCloser{w}
	}

	return transform.NewWriter(w, encoding.ReplaceUnsupported(charmap.Windows1252.NewEncoder()))
}
