// Package locale prepares text for dictionary lookup: it names and validates
// byte encodings, converts between byte strings and UTF-16 under a codec,
// and classifies and maps letter case under locale-specific rules.
//
// Case mappings and code page tables come from golang.org/x/text. Every
// function takes its locale and codec as arguments; the package holds no
// mutable state and all functions are safe for concurrent use.
package locale

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// Locale pairs the language tag used for casing with the byte encoding
// used for transcoding.
type Locale struct {
	Tag      language.Tag
	Encoding Encoding
}

// Root is the root locale with no declared encoding.
var Root = Locale{Tag: language.Und}

// ParseLocale reads POSIX names such as "tr_TR.ISO8859-9@euro" and BCP 47
// tags such as "nl-NL". "", "C" and "POSIX" map to the root locale.
func ParseLocale(name string) (Locale, error) {
	name = strings.TrimSpace(name)
	var enc Encoding
	if i := strings.IndexByte(name, '@'); i >= 0 {
		name = name[:i]
	}
	if i := strings.IndexByte(name, '.'); i >= 0 {
		enc = NewEncoding(name[i+1:])
		name = name[:i]
	}
	switch name {
	case "", "C", "POSIX":
		return Locale{Tag: language.Und, Encoding: enc}, nil
	}
	tag, err := language.Parse(name)
	if err != nil {
		return Locale{}, fmt.Errorf("%w %q: %v", ErrInvalidLocale, name, err)
	}
	return Locale{Tag: tag, Encoding: enc}, nil
}

// MustParseLocale is like ParseLocale but panics on error.
func MustParseLocale(name string) Locale {
	l, err := ParseLocale(name)
	if err != nil {
		panic(err)
	}
	return l
}

// Codec returns the codec for the locale's encoding.
func (l Locale) Codec() (Codec, error) { return l.Encoding.Codec() }

func (l Locale) String() string {
	if l.Encoding.IsZero() {
		return l.Tag.String()
	}
	return l.Tag.String() + "." + l.Encoding.Value()
}

// MarshalText implements encoding.TextMarshaler.
func (l Locale) MarshalText() ([]byte, error) { return []byte(l.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *Locale) UnmarshalText(b []byte) error {
	parsed, err := ParseLocale(string(b))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}
