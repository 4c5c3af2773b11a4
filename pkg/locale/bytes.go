package locale

import "unicode/utf8"

// IsASCII reports whether b is a 7-bit ASCII byte.
func IsASCII(b byte) bool { return b < utf8.RuneSelf }

// IsAllASCII reports whether every byte of s is ASCII. It is true for "".
func IsAllASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if !IsASCII(s[i]) {
			return false
		}
	}
	return true
}

// ValidateUTF8 reports whether s is well-formed UTF-8. Overlong forms,
// encoded surrogates, values above U+10FFFF and truncated sequences are
// all rejected.
func ValidateUTF8(s string) bool { return utf8.ValidString(s) }

// ValidateUTF8Bytes is ValidateUTF8 for byte slices.
func ValidateUTF8Bytes(p []byte) bool { return utf8.Valid(p) }
