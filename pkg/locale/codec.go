package locale

import (
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// Status is the outcome of converting a single character.
type Status int

const (
	// StatusOK means the character was converted.
	StatusOK Status = iota
	// StatusIncomplete means the input (decode) or output buffer (encode)
	// ended before a whole character fit.
	StatusIncomplete
	// StatusIllegal means the bytes are not valid in the codec, or the code
	// point has no representation in it.
	StatusIllegal
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusIncomplete:
		return "incomplete"
	case StatusIllegal:
		return "illegal"
	default:
		return "unknown"
	}
}

// Codec converts between one byte encoding and Unicode code points, one
// character at a time. Implementations are read-only and safe for
// concurrent use.
type Codec interface {
	// Name returns the canonical encoding name.
	Name() string

	// DecodeOne decodes the first character of p. n is the number of bytes
	// consumed; on StatusIllegal it is the length of the rejected sequence
	// (at least 1), on StatusIncomplete it is 0.
	DecodeOne(p []byte) (r rune, n int, st Status)

	// EncodeOne writes r to p and returns the number of bytes written.
	EncodeOne(r rune, p []byte) (n int, st Status)

	// MaxEncodedLength is the longest byte sequence EncodeOne can produce.
	MaxEncodedLength() int
}

// UTF8 is the variable-width UTF-8 codec.
var UTF8 Codec = utf8Codec{}

type utf8Codec struct{}

func (utf8Codec) Name() string          { return "UTF-8" }
func (utf8Codec) MaxEncodedLength() int { return utf8.UTFMax }

func (utf8Codec) DecodeOne(p []byte) (rune, int, Status) {
	if len(p) == 0 {
		return 0, 0, StatusIncomplete
	}
	r, n := utf8.DecodeRune(p)
	if r == utf8.RuneError && n <= 1 {
		if !utf8.FullRune(p) {
			return 0, 0, StatusIncomplete
		}
		return utf8.RuneError, 1, StatusIllegal
	}
	return r, n, StatusOK
}

func (utf8Codec) EncodeOne(r rune, p []byte) (int, Status) {
	if !utf8.ValidRune(r) {
		return 0, StatusIllegal
	}
	if len(p) < utf8.RuneLen(r) {
		return 0, StatusIncomplete
	}
	return utf8.EncodeRune(p, r), StatusOK
}

// SingleByte returns a fixed-width codec backed by an x/text code page table.
// Bytes the table leaves undefined decode as StatusIllegal.
func SingleByte(name string, cm *charmap.Charmap) Codec {
	return singleByteCodec{name: name, cm: cm}
}

// Latin1 is the ISO 8859-1 codec.
var Latin1 = SingleByte("ISO8859-1", charmap.ISO8859_1)

type singleByteCodec struct {
	name string
	cm   *charmap.Charmap
}

func (c singleByteCodec) Name() string        { return c.name }
func (singleByteCodec) MaxEncodedLength() int { return 1 }

func (c singleByteCodec) DecodeOne(p []byte) (rune, int, Status) {
	if len(p) == 0 {
		return 0, 0, StatusIncomplete
	}
	r := c.cm.DecodeByte(p[0])
	if r == utf8.RuneError {
		return r, 1, StatusIllegal
	}
	return r, 1, StatusOK
}

func (c singleByteCodec) EncodeOne(r rune, p []byte) (int, Status) {
	b, ok := c.cm.EncodeRune(r)
	if !ok {
		return 0, StatusIllegal
	}
	if len(p) < 1 {
		return 0, StatusIncomplete
	}
	p[0] = b
	return 1, StatusOK
}
