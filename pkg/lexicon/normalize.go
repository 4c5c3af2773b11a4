// CLAUDE:SUMMARY Word normalization strategies (none, locale lowercase, lowercase+strip-accents) applied before storage and lookup.
package lexicon

import (
	"unicode"

	"github.com/hazyhaar/lexnorm/pkg/locale"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalizer transforms a word before storage and lookup.
type Normalizer func(string) string

// stripAccents is rebuilt per call: transform chains carry state.
func stripAccents() transform.Transformer {
	return transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
}

// NormalizeNone returns the word unchanged.
func NormalizeNone(s string) string {
	return s
}

// NormalizeLower lowercases under the rules of tag (e.g. Turkish İ -> i).
func NormalizeLower(tag language.Tag) Normalizer {
	return func(s string) string {
		return locale.ToLower(s, tag)
	}
}

// NormalizeFold lowercases under tag and strips accents (e.g. Élodie -> elodie).
func NormalizeFold(tag language.Tag) Normalizer {
	return func(s string) string {
		result, _, err := transform.String(stripAccents(), locale.ToLower(s, tag))
		if err != nil {
			return locale.ToLower(s, tag)
		}
		return result
	}
}

// GetNormalizer returns the normalizer for the given mode.
// Default is none: lookups rely on casing variants instead.
func GetNormalizer(mode string, tag language.Tag) Normalizer {
	switch mode {
	case "lower":
		return NormalizeLower(tag)
	case "fold":
		return NormalizeFold(tag)
	default:
		return NormalizeNone
	}
}
