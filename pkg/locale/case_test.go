package locale

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"
)

type caseTest struct {
	in, want string
}

func runCases(t *testing.T, name string, f func(string, language.Tag) string, loc string, tests []caseTest) {
	t.Helper()
	tag := MustParseLocale(loc).Tag
	for _, tt := range tests {
		assert.Equal(t, tt.want, f(tt.in, tag), "%s(%q, %s)", name, tt.in, loc)
	}
}

func TestToUpper(t *testing.T) {
	runCases(t, "ToUpper", ToUpper, "", []caseTest{
		{"", ""},
		{"a", "A"}, {"A", "A"},
		{"aa", "AA"}, {"aA", "AA"}, {"Aa", "AA"}, {"AA", "AA"},
		{"table", "TABLE"}, {"Table", "TABLE"}, {"tABLE", "TABLE"}, {"TABLE", "TABLE"},
	})
	// i becomes I, not İ, outside Turkic locales.
	assert.NotEqual(t, "İSTANBUL", ToUpper("istanbul", language.Und))

	runCases(t, "ToUpper", ToUpper, "tr_TR", []caseTest{
		{"istanbul", "İSTANBUL"},
		{"Diyarbakır", "DİYARBAKIR"},
	})
	// An existing I is kept as is.
	assert.NotEqual(t, "İSTANBUL", ToUpper("Istanbul", MustParseLocale("tr_TR").Tag))

	runCases(t, "ToUpper", ToUpper, "de_DE", []caseTest{
		{"GRÜßEN", "GRÜSSEN"},
		{"GRÜẞEN", "GRÜẞEN"},
	})

	runCases(t, "ToUpper", ToUpper, "nl_NL", []caseTest{
		{"één", "ÉÉN"}, {"Één", "ÉÉN"},
		{"ijsselmeer", "IJSSELMEER"}, {"IJsselmeer", "IJSSELMEER"}, {"IJSSELMEER", "IJSSELMEER"},
		{"ĳsselmeer", "ĲSSELMEER"}, {"Ĳsselmeer", "ĲSSELMEER"}, {"ĲSSELMEER", "ĲSSELMEER"},
	})

	runCases(t, "ToUpper", ToUpper, "el_GR", []caseTest{
		{"ςίγμα", "ΣΙΓΜΑ"},
	})
}

func TestToLower(t *testing.T) {
	runCases(t, "ToLower", ToLower, "en_US", []caseTest{
		{"", ""},
		{"A", "a"}, {"a", "a"},
		{"aa", "aa"}, {"aA", "aa"}, {"Aa", "aa"}, {"AA", "aa"},
		{"table", "table"}, {"Table", "table"}, {"TABLE", "table"},
	})
	// İ lower-cases to i followed by U+0307 outside Turkic locales.
	en := MustParseLocale("en_US").Tag
	assert.NotEqual(t, "istanbul", ToLower("İSTANBUL", en))
	assert.NotEqual(t, "istanbul", ToLower("İstanbul", en))

	runCases(t, "ToLower", ToLower, "tr_TR", []caseTest{
		{"İSTANBUL", "istanbul"},
		{"İstanbul", "istanbul"},
		{"Diyarbakır", "diyarbakır"},
	})

	runCases(t, "ToLower", ToLower, "el_GR", []caseTest{
		{"ελλάδα", "ελλάδα"}, {"Ελλάδα", "ελλάδα"}, {"ΕΛΛΆΔΑ", "ελλάδα"},
	})

	runCases(t, "ToLower", ToLower, "de_DE", []caseTest{
		{"grüßen", "grüßen"},
		{"grüssen", "grüssen"},
		// SS does not fold back to ß.
		{"GRÜSSEN", "grüssen"},
	})

	runCases(t, "ToLower", ToLower, "nl_NL", []caseTest{
		{"Één", "één"}, {"ÉÉN", "één"},
		{"ijsselmeer", "ijsselmeer"}, {"IJsselmeer", "ijsselmeer"}, {"IJSSELMEER", "ijsselmeer"},
		{"Ĳsselmeer", "ĳsselmeer"}, {"ĲSSELMEER", "ĳsselmeer"},
	})
}

func TestToTitle(t *testing.T) {
	runCases(t, "ToTitle", ToTitle, "en_US", []caseTest{
		{"", ""},
		{"a", "A"}, {"A", "A"},
		{"aa", "Aa"}, {"Aa", "Aa"}, {"aA", "Aa"}, {"AA", "Aa"},
		{"table", "Table"}, {"Table", "Table"}, {"tABLE", "Table"}, {"TABLE", "Table"},
		{"İSTANBUL", "İstanbul"},
		{"ISTANBUL", "Istanbul"},
		{"istanbul", "Istanbul"},
		{"iSTANBUL", "Istanbul"},
	})

	runCases(t, "ToTitle", ToTitle, "tr_TR", []caseTest{
		{"istanbul", "İstanbul"},
		{"iSTANBUL", "İstanbul"},
		{"İSTANBUL", "İstanbul"},
		{"ISTANBUL", "Istanbul"},
		{"diyarbakır", "Diyarbakır"},
	})
	runCases(t, "ToTitle", ToTitle, "tr_CY", []caseTest{{"istanbul", "İstanbul"}})
	runCases(t, "ToTitle", ToTitle, "az_AZ", []caseTest{{"istanbul", "İstanbul"}})
	// Crimean Tatar has no Turkic tailoring in the casing data; kept as is.
	runCases(t, "ToTitle", ToTitle, "crh_UA", []caseTest{{"istanbul", "Istanbul"}})
	// az_IR is written in Arabic script by default, so it inherits root rules.
	runCases(t, "ToTitle", ToTitle, "az_IR", []caseTest{{"istanbul", "Istanbul"}})

	runCases(t, "ToTitle", ToTitle, "el_GR", []caseTest{
		{"ελλάδα", "Ελλάδα"}, {"Ελλάδα", "Ελλάδα"}, {"ΕΛΛΆΔΑ", "Ελλάδα"},
		{"Σίγμα", "Σίγμα"}, {"σίγμα", "Σίγμα"},
		{"ςίγμα", "Σίγμα"},
	})

	runCases(t, "ToTitle", ToTitle, "de_DE", []caseTest{
		{"grüßen", "Grüßen"},
		{"GRÜßEN", "Grüßen"},
	})

	runCases(t, "ToTitle", ToTitle, "nl_NL", []caseTest{
		{"één", "Één"}, {"ÉÉN", "Één"},
		{"ijsselmeer", "IJsselmeer"}, {"Ijsselmeer", "IJsselmeer"}, {"iJsselmeer", "IJsselmeer"},
		{"IJsselmeer", "IJsselmeer"}, {"IJSSELMEER", "IJsselmeer"},
		{"ĳsselmeer", "Ĳsselmeer"}, {"Ĳsselmeer", "Ĳsselmeer"}, {"ĲSSELMEER", "Ĳsselmeer"},
		// Text before the first cased letter is kept verbatim.
		{"'abc", "'Abc"}, {"'ijs", "'IJs"}, {"'ABC", "'Abc"},
	})
}

func TestToTitle_SingleUnit(t *testing.T) {
	runCases(t, "ToTitle", ToTitle, "", []caseTest{
		{"jean-PIERRE", "Jean-pierre"},
		{"ROCK'N'ROLL", "Rock'n'roll"},
		{"3D", "3D"},
		{"3dmodel", "3Dmodel"},
		{"...hello WORLD", "...Hello world"},
		{"123", "123"},
	})
}
