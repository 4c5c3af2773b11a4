package locale

import (
	"fmt"
	"unicode/utf16"
	"unicode/utf8"

	"golang.org/x/text/transform"
)

// Outcome classifies the result of a conversion.
type Outcome int

const (
	// Exact means every character was converted without loss.
	Exact Outcome = iota
	// Lossy means output is complete but some characters were substituted.
	Lossy
	// Failed means conversion stopped early; output holds the progress made.
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Exact:
		return "exact"
	case Lossy:
		return "lossy"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (o Outcome) MarshalText() ([]byte, error) { return []byte(o.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (o *Outcome) UnmarshalText(b []byte) error {
	for _, v := range []Outcome{Exact, Lossy, Failed} {
		if v.String() == string(b) {
			*o = v
			return nil
		}
	}
	return fmt.Errorf("unknown outcome %q", b)
}

// Substitute is written in place of characters the target codec cannot
// represent.
const Substitute = '?'

// DecodeResult is the result of Decode.
type DecodeResult struct {
	Wide    WideString
	Outcome Outcome
	// Err is nil when Outcome is Exact.
	Err error
}

// EncodeResult is the result of Encode.
type EncodeResult struct {
	Bytes   []byte
	Outcome Outcome
	// Err is the first problem met; nil when Outcome is Exact.
	Err error
}

// Decode converts src to UTF-16 using c. It stops at the first incomplete
// or illegal sequence and reports Failed.
func Decode(src []byte, c Codec) DecodeResult {
	res := DecodeResult{Wide: make(WideString, 0, len(src))}
	for off := 0; off < len(src); {
		r, n, st := c.DecodeOne(src[off:])
		switch st {
		case StatusIncomplete:
			res.Outcome = Failed
			res.Err = &TranscodeError{Kind: DecodeIncomplete, Codec: c.Name(), Offset: off}
			return res
		case StatusIllegal:
			res.Outcome = Failed
			res.Err = &TranscodeError{Kind: DecodeIllegal, Codec: c.Name(), Offset: off}
			return res
		}
		res.Wide = utf16.AppendRune(res.Wide, r)
		off += n
	}
	return res
}

// Encode converts w to bytes using c. Each character c cannot represent,
// including unpaired surrogates, becomes a single Substitute byte and the
// outcome is Lossy.
func Encode(w WideString, c Codec) EncodeResult {
	res := EncodeResult{Bytes: make([]byte, 0, len(w))}
	buf := make([]byte, c.MaxEncodedLength())
	for i := 0; i < len(w); {
		r, n, ok := nextRune(w[i:])
		st := StatusIllegal
		var size int
		if ok {
			size, st = c.EncodeOne(r, buf)
		}
		switch st {
		case StatusOK:
			res.Bytes = append(res.Bytes, buf[:size]...)
		case StatusIllegal:
			res.Bytes = append(res.Bytes, Substitute)
			if res.Outcome == Exact {
				res.Outcome = Lossy
				res.Err = &TranscodeError{Kind: EncodeUnmappable, Codec: c.Name(), Offset: i, Rune: r}
			}
		default:
			// MaxEncodedLength was too small for the codec's own output.
			res.Outcome = Failed
			res.Err = &TranscodeError{Kind: EncodeUnmappable, Codec: c.Name(), Offset: i, Rune: r}
			return res
		}
		i += n
	}
	return res
}

// ToWide decodes src and fails unless the conversion is exact.
func ToWide(src []byte, c Codec) (WideString, error) {
	res := Decode(src, c)
	if res.Outcome != Exact {
		return nil, res.Err
	}
	return res.Wide, nil
}

// ToWideInto decodes src into *out and reports whether the conversion was
// exact. On false *out holds whatever was decoded before the failure.
func ToWideInto(src []byte, c Codec, out *WideString) bool {
	res := Decode(src, c)
	*out = res.Wide
	return res.Outcome == Exact
}

// ToNarrow encodes w and fails unless the conversion is exact.
func ToNarrow(w WideString, c Codec) ([]byte, error) {
	res := Encode(w, c)
	if res.Outcome != Exact {
		return nil, res.Err
	}
	return res.Bytes, nil
}

// ToNarrowInto encodes w into *out, substituting '?' for unmappable
// characters, and reports whether no substitution was needed.
func ToNarrowInto(w WideString, c Codec, out *[]byte) bool {
	res := Encode(w, c)
	*out = res.Bytes
	return res.Outcome == Exact
}

// NewDecoder returns a transformer that converts text in c's encoding to
// UTF-8. In strict mode it fails with a *TranscodeError; in lossy mode bad
// sequences become U+FFFD.
func NewDecoder(c Codec, lossy bool) transform.Transformer {
	return &decoder{codec: c, lossy: lossy}
}

type decoder struct {
	transform.NopResetter
	codec Codec
	lossy bool
}

func (d *decoder) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	for nSrc < len(src) {
		r, n, st := d.codec.DecodeOne(src[nSrc:])
		switch st {
		case StatusIncomplete:
			if !atEOF {
				return nDst, nSrc, transform.ErrShortSrc
			}
			if !d.lossy {
				return nDst, nSrc, &TranscodeError{Kind: DecodeIncomplete, Codec: d.codec.Name(), Offset: -1}
			}
			r, n = utf8.RuneError, len(src)-nSrc
		case StatusIllegal:
			if !d.lossy {
				return nDst, nSrc, &TranscodeError{Kind: DecodeIllegal, Codec: d.codec.Name(), Offset: -1}
			}
			r, n = utf8.RuneError, max(n, 1)
		}
		if nDst+utf8.RuneLen(r) > len(dst) {
			return nDst, nSrc, transform.ErrShortDst
		}
		nDst += utf8.EncodeRune(dst[nDst:], r)
		nSrc += n
	}
	return nDst, nSrc, nil
}
