package locale

import (
	"unicode/utf16"
	"unicode/utf8"
)

// WideString is a sequence of UTF-16 code units.
type WideString []uint16

// Widen converts a UTF-8 string to UTF-16. Invalid bytes become U+FFFD.
func Widen(s string) WideString {
	w := make(WideString, 0, len(s))
	for _, r := range s {
		w = utf16.AppendRune(w, r)
	}
	return w
}

// String converts w to UTF-8. Unpaired surrogates become U+FFFD.
func (w WideString) String() string {
	b := make([]byte, 0, len(w))
	for i := 0; i < len(w); {
		r, n, _ := nextRune(w[i:])
		b = utf8.AppendRune(b, r)
		i += n
	}
	return string(b)
}

// Latin1ToUCS2 widens every byte of s to one code unit of the same value.
// It does not decode UTF-8: len(result) == len(s).
func Latin1ToUCS2(s string) WideString {
	w := make(WideString, len(s))
	for i := 0; i < len(s); i++ {
		w[i] = uint16(s[i])
	}
	return w
}

// IsAllBMP reports whether w contains no surrogate code units, i.e. every
// character lies in the Basic Multilingual Plane.
func IsAllBMP(w WideString) bool {
	for _, u := range w {
		if utf16.IsSurrogate(rune(u)) {
			return false
		}
	}
	return true
}

// nextRune decodes the character starting at w[0]. An unpaired surrogate
// yields utf8.RuneError, n == 1 and ok == false.
func nextRune(w WideString) (r rune, n int, ok bool) {
	u := rune(w[0])
	if !utf16.IsSurrogate(u) {
		return u, 1, true
	}
	if len(w) > 1 {
		if r = utf16.DecodeRune(u, rune(w[1])); r != utf8.RuneError {
			return r, 2, true
		}
	}
	return utf8.RuneError, 1, false
}
