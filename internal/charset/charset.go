// Package charset resolves text encodings by name and wraps streams so the
// repair pass always sees UTF-8.
package charset

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ErrUnknownEncoding is returned when a name maps to no supported encoding.
var ErrUnknownEncoding = errors.New("unknown encoding")

// The UTF-16 forms and utf-8-bom consume a leading byte order mark on decode
// and write one on encode. Plain utf-8 leaves a BOM in place and never adds one.
var builtin = map[string]encoding.Encoding{
	"utf-8":     unicode.UTF8,
	"utf8":      unicode.UTF8,
	"utf-8-bom": unicode.UTF8BOM,
	"utf-16le":  unicode.UTF16(unicode.LittleEndian, unicode.UseBOM),
	"utf-16be":  unicode.UTF16(unicode.BigEndian, unicode.UseBOM),
	"utf-16":    unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM),
}

// Lookup returns the encoding registered under name. Matching ignores case and
// surrounding whitespace, and falls back to the IANA registry.
func Lookup(name string) (encoding.Encoding, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return nil, fmt.Errorf("%w: empty name", ErrUnknownEncoding)
	}
	if enc, ok := builtin[key]; ok {
		return enc, nil
	}
	enc, err := ianaindex.IANA.Encoding(key)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrUnknownEncoding, name, err)
	}
	if enc == nil {
		// Registered with IANA but not implemented by x/text.
		return nil, fmt.Errorf("%w %q: not supported", ErrUnknownEncoding, name)
	}
	return enc, nil
}

// NewReader decodes r from enc into UTF-8.
func NewReader(r io.Reader, enc encoding.Encoding) io.Reader {
	return transform.NewReader(r, enc.NewDecoder())
}

// NewWriter encodes UTF-8 written to the returned writer into enc. Close must
// be called to flush the final transformed bytes; it does not close w.
func NewWriter(w io.Writer, enc encoding.Encoding) io.WriteCloser {
	return transform.NewWriter(w, enc.NewEncoder())
}
