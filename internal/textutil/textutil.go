// Package textutil provides text helpers for metadata extraction: numeric
// coercion of stringly-typed tool output and charset detection for text
// files, including BOM-aware UTF-16 decoding.
package textutil

import (
	"bytes"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// CoerceNumber converts numeric-looking strings to int64 or float64 so JSON
// output carries numbers instead of quoted digits. Non-string and
// non-numeric values pass through unchanged.
func CoerceNumber(value any) any {
	s, ok := value.(string)
	if !ok {
		return value
	}
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return value
	}
	lowered := strings.ToLower(trimmed)
	if strings.Count(lowered, ".") == 1 || strings.Count(lowered, "e") == 1 {
		if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
			return f
		}
		return value
	}
	if i, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
		return i
	}
	return value
}

// Charset names returned by DetectCharset.
const (
	CharsetUTF8    = "utf-8"
	CharsetUTF16LE = "utf-16le"
	CharsetUTF16BE = "utf-16be"
	CharsetBinary  = "binary"
)

var (
	bomUTF8    = []byte{0xef, 0xbb, 0xbf}
	bomUTF16LE = []byte{0xff, 0xfe}
	bomUTF16BE = []byte{0xfe, 0xff}
)

// DetectCharset classifies a text buffer by BOM and UTF-8 validity. The
// second result reports whether a byte order mark was present.
func DetectCharset(data []byte) (string, bool) {
	switch {
	case bytes.HasPrefix(data, bomUTF8):
		return CharsetUTF8, true
	case bytes.HasPrefix(data, bomUTF16LE):
		return CharsetUTF16LE, true
	case bytes.HasPrefix(data, bomUTF16BE):
		return CharsetUTF16BE, true
	}
	if utf8.Valid(data) {
		return CharsetUTF8, false
	}
	return CharsetBinary, false
}

// DecodeReader wraps r with a decoder for the detected charset so callers
// always consume UTF-8. UTF-16 input is transcoded; everything else passes
// through unchanged.
func DecodeReader(r io.Reader, charset string) io.Reader {
	switch charset {
	case CharsetUTF16LE:
		dec := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder()
		return transform.NewReader(r, dec)
	case CharsetUTF16BE:
		dec := unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewDecoder()
		return transform.NewReader(r, dec)
	default:
		return r
	}
}
