package locale

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/ianaindex"
)

// DefaultEncoding is the encoding assumed when none was declared.
const DefaultEncoding = "ISO8859-1"

// Encoding is a canonical encoding name. The zero value means "not declared".
type Encoding struct {
	name string
}

// NewEncoding resolves raw to its canonical name. Unknown names are kept,
// trimmed and uppercased.
func NewEncoding(raw string) Encoding {
	return Encoding{name: normalizeName(raw)}
}

// Value returns the canonical name, or "" for an undeclared encoding.
func (e Encoding) Value() string { return e.name }

// ValueOrDefault returns the canonical name, or DefaultEncoding when empty.
func (e Encoding) ValueOrDefault() string {
	if e.name == "" {
		return DefaultEncoding
	}
	return e.name
}

// IsUTF8 reports whether the canonical name is UTF-8.
func (e Encoding) IsUTF8() bool { return e.name == "UTF-8" }

// IsZero reports whether the encoding was built from an empty name.
func (e Encoding) IsZero() bool { return e.name == "" }

func (e Encoding) String() string { return e.ValueOrDefault() }

// MarshalText implements encoding.TextMarshaler.
func (e Encoding) MarshalText() ([]byte, error) { return []byte(e.name), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (e *Encoding) UnmarshalText(b []byte) error {
	*e = NewEncoding(string(b))
	return nil
}

// Codec returns the codec for the encoding (DefaultEncoding when empty).
func (e Encoding) Codec() (Codec, error) {
	name := e.ValueOrDefault()
	if name == "UTF-8" {
		return UTF8, nil
	}
	if cm, ok := singleByte[name]; ok {
		return SingleByte(name, cm), nil
	}
	// Fall back to the IANA and WHATWG registries; only single-byte
	// tables can serve the per-character codec contract.
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil || enc == nil {
		enc, err = htmlindex.Get(name)
	}
	if err != nil || enc == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedEncoding, name)
	}
	cm, ok := enc.(*charmap.Charmap)
	if !ok {
		return nil, fmt.Errorf("%w: %q is not a single-byte encoding", ErrUnsupportedEncoding, name)
	}
	return SingleByte(name, cm), nil
}

var aliases = map[string]string{
	"UTF8":   "UTF-8",
	"LATIN1": "ISO8859-1",
	"LATIN2": "ISO8859-2",
	"KOI8R":  "KOI8-R",
	"KOI8U":  "KOI8-U",
}

var singleByte = map[string]*charmap.Charmap{
	"ISO8859-1":  charmap.ISO8859_1,
	"ISO8859-2":  charmap.ISO8859_2,
	"ISO8859-3":  charmap.ISO8859_3,
	"ISO8859-4":  charmap.ISO8859_4,
	"ISO8859-5":  charmap.ISO8859_5,
	"ISO8859-6":  charmap.ISO8859_6,
	"ISO8859-7":  charmap.ISO8859_7,
	"ISO8859-8":  charmap.ISO8859_8,
	"ISO8859-9":  charmap.ISO8859_9,
	"ISO8859-10": charmap.ISO8859_10,
	"ISO8859-13": charmap.ISO8859_13,
	"ISO8859-14": charmap.ISO8859_14,
	"ISO8859-15": charmap.ISO8859_15,
	"ISO8859-16": charmap.ISO8859_16,
	"CP1250":     charmap.Windows1250,
	"CP1251":     charmap.Windows1251,
	"CP1252":     charmap.Windows1252,
	"CP1253":     charmap.Windows1253,
	"CP1254":     charmap.Windows1254,
	"CP1255":     charmap.Windows1255,
	"CP1256":     charmap.Windows1256,
	"CP1257":     charmap.Windows1257,
	"CP1258":     charmap.Windows1258,
	"KOI8-R":     charmap.KOI8R,
	"KOI8-U":     charmap.KOI8U,
	// Windows-874 is a superset of TIS-620.
	"TIS620":   charmap.Windows874,
	"TIS-620":  charmap.Windows874,
	"MACROMAN": charmap.Macintosh,
}

// normalizeName uppercases and trims the name, then applies the alias rules.
func normalizeName(raw string) string {
	name := strings.ToUpper(strings.TrimSpace(raw))
	if name == "" {
		return ""
	}
	name = strings.TrimPrefix(name, "MICROSOFT-")
	if canonical, ok := aliases[name]; ok {
		return canonical
	}
	switch {
	case strings.HasPrefix(name, "WINDOWS-125"):
		return "CP" + strings.TrimPrefix(name, "WINDOWS-")
	case strings.HasPrefix(name, "ISO-8859-"):
		return "ISO8859-" + strings.TrimPrefix(name, "ISO-8859-")
	case strings.HasPrefix(name, "ISO_8859-"):
		return "ISO8859-" + strings.TrimPrefix(name, "ISO_8859-")
	}
	return name
}
