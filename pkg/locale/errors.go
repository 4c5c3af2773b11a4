package locale

import (
	"errors"
	"fmt"
)

// Sentinel errors for use with errors.Is.
var (
	// ErrDecodeIncomplete indicates the input ended inside a multi-byte sequence.
	ErrDecodeIncomplete = errors.New("incomplete byte sequence")

	// ErrDecodeIllegal indicates a byte sequence that is not valid in the codec.
	ErrDecodeIllegal = errors.New("illegal byte sequence")

	// ErrEncodeUnmappable indicates a code point the target codec cannot represent.
	ErrEncodeUnmappable = errors.New("unmappable code point")

	// ErrUnsupportedEncoding is returned when no codec exists for an encoding name.
	ErrUnsupportedEncoding = errors.New("unsupported encoding")

	// ErrInvalidLocale is returned by ParseLocale for names it cannot read.
	ErrInvalidLocale = errors.New("invalid locale")
)

// ErrorKind classifies a TranscodeError.
type ErrorKind int

const (
	DecodeIncomplete ErrorKind = iota
	DecodeIllegal
	EncodeUnmappable
)

func (k ErrorKind) String() string {
	switch k {
	case DecodeIncomplete:
		return "decode incomplete"
	case DecodeIllegal:
		return "decode illegal"
	case EncodeUnmappable:
		return "encode unmappable"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// TranscodeError describes where a conversion stopped or lost information.
type TranscodeError struct {
	Kind ErrorKind
	// Codec is the name of the codec in use.
	Codec string
	// Offset is the byte offset (decode) or code unit offset (encode) of the
	// offending input, or -1 when unknown.
	Offset int
	// Rune is the unmappable code point for EncodeUnmappable.
	Rune rune
}

func (e *TranscodeError) Error() string {
	msg := e.Kind.String()
	if e.Codec != "" {
		msg += " (" + e.Codec + ")"
	}
	if e.Offset >= 0 {
		msg += fmt.Sprintf(" at offset %d", e.Offset)
	}
	if e.Kind == EncodeUnmappable {
		msg += fmt.Sprintf(": %U", e.Rune)
	}
	return msg
}

// Is reports whether target is the sentinel for this error's kind.
func (e *TranscodeError) Is(target error) bool {
	switch e.Kind {
	case DecodeIncomplete:
		return target == ErrDecodeIncomplete
	case DecodeIllegal:
		return target == ErrDecodeIllegal
	case EncodeUnmappable:
		return target == ErrEncodeUnmappable
	}
	return false
}
