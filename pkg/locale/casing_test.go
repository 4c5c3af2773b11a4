package locale

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestClassifyCasing(t *testing.T) {
	tests := []struct {
		word string
		want Casing
	}{
		{"", Small},
		{"alllowercase", Small},
		{"alllowercase3", Small},
		{"123", Small},
		{"Initandlowercase", InitCapital},
		{"Initandlowercase_", InitCapital},
		{"A", InitCapital},
		{"Abc", InitCapital},
		{"ALLUPPERCASE", AllCapital},
		{"ALLUPPERCASE.", AllCapital},
		{"ABC", AllCapital},
		{"iCamelCase", Camel},
		{"iCamelCase@", Camel},
		{"aBc", Camel},
		{"InitCamelCase", Pascal},
		{"InitCamelCase ", Pascal},
		{"AbC", Pascal},
		{"İstanbul", InitCapital},
		{"ĲSSELMEER", AllCapital},
		{"ǅungla", InitCapital},
		// Non-letters before the first letter do not count as the first letter.
		{"3Dmodel", InitCapital},
		{"3dModel", Camel},
		{"'S-HERTOGENBOSCH", AllCapital},
		// Letters without case are skipped the same way.
		{"中A", InitCapital},
		{"中AB", AllCapital},
		{"中a", Small},
		{"東京Tower", InitCapital},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyCasing(tt.word), "ClassifyCasing(%q)", tt.word)
	}
}

func TestClassifyCasing_Wide(t *testing.T) {
	w, err := ToWide([]byte("D\xC4\xB0YARBAKIR"), UTF8)
	require.NoError(t, err)
	assert.Equal(t, AllCapital, ClassifyCasing(w.String()))
}

type asciiOnly struct{ CaseService }

func (asciiOnly) IsUpper(r rune, _ language.Tag) bool { return r >= 'A' && r <= 'Z' }
func (asciiOnly) IsLower(r rune, _ language.Tag) bool { return r >= 'a' && r <= 'z' }

func TestClassifyCasingWith(t *testing.T) {
	svc := asciiOnly{Unicode}
	// With ASCII-only categories the leading É is invisible.
	assert.Equal(t, Small, ClassifyCasingWith(svc, "Été", language.French))
	assert.Equal(t, InitCapital, ClassifyCasing("Été"))
}

func TestCasing_String(t *testing.T) {
	assert.Equal(t, "SMALL", Small.String())
	assert.Equal(t, "INIT_CAPITAL", InitCapital.String())
	assert.Equal(t, "ALL_CAPITAL", AllCapital.String())
	assert.Equal(t, "CAMEL", Camel.String())
	assert.Equal(t, "PASCAL", Pascal.String())
	assert.Equal(t, "Casing(9)", Casing(9).String())

	b, err := json.Marshal(map[string]Casing{"casing": Pascal})
	require.NoError(t, err)
	assert.JSONEq(t, `{"casing":"PASCAL"}`, string(b))

	var c Casing
	require.NoError(t, c.UnmarshalText([]byte("ALL_CAPITAL")))
	assert.Equal(t, AllCapital, c)
	assert.Error(t, c.UnmarshalText([]byte("all_capital")))
}
