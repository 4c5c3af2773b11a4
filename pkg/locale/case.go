package locale

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// CaseService supplies letter categories and locale-sensitive case mappings.
// Implementations must be safe for concurrent use.
type CaseService interface {
	IsUpper(r rune, tag language.Tag) bool
	IsLower(r rune, tag language.Tag) bool
	Upper(s string, tag language.Tag) string
	Lower(s string, tag language.Tag) string
	// Title upper-cases the first cased character of s (or a digraph such
	// as Dutch "ij") and lower-cases the rest, treating s as a single word.
	Title(s string, tag language.Tag) string
}

// Unicode is the CaseService backed by golang.org/x/text/cases. It keeps no
// state: a fresh caser is built for every call.
var Unicode CaseService = unicodeCases{}

type unicodeCases struct{}

// Letter categories do not vary by locale in the Unicode database.
func (unicodeCases) IsUpper(r rune, _ language.Tag) bool {
	return unicode.IsUpper(r) || unicode.IsTitle(r)
}

func (unicodeCases) IsLower(r rune, _ language.Tag) bool {
	return unicode.IsLower(r)
}

func (unicodeCases) Upper(s string, tag language.Tag) string {
	return cases.Upper(tag).String(s)
}

func (unicodeCases) Lower(s string, tag language.Tag) string {
	return cases.Lower(tag).String(s)
}

func (unicodeCases) Title(s string, tag language.Tag) string {
	start := strings.IndexFunc(s, isCased)
	if start < 0 {
		return cases.Lower(tag).String(s)
	}
	// The title caser restarts at every word boundary, so it only sees the
	// letter run holding the first cased character. The prefix stays out of
	// it: Dutch elision would otherwise leave "'abc" lower-case.
	end := len(s)
	if i := strings.IndexFunc(s[start:], notLetter); i >= 0 {
		end = start + i
	}
	return s[:start] + cases.Title(tag).String(s[start:end]) + cases.Lower(tag).String(s[end:])
}

func isCased(r rune) bool {
	return unicode.IsUpper(r) || unicode.IsLower(r) || unicode.IsTitle(r)
}

func notLetter(r rune) bool {
	return !unicode.IsLetter(r) && !unicode.IsMark(r)
}

// ToUpper upper-cases word under the rules of tag.
func ToUpper(word string, tag language.Tag) string { return Unicode.Upper(word, tag) }

// ToLower lower-cases word under the rules of tag.
func ToLower(word string, tag language.Tag) string { return Unicode.Lower(word, tag) }

// ToTitle title-cases word as a single unit under the rules of tag.
func ToTitle(word string, tag language.Tag) string { return Unicode.Title(word, tag) }
