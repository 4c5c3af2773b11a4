package locale

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncoding_Default(t *testing.T) {
	var e Encoding
	assert.Equal(t, "ISO8859-1", e.ValueOrDefault())
	assert.Equal(t, "", e.Value())
	assert.False(t, e.IsUTF8())
	assert.True(t, e.IsZero())

	e = NewEncoding("   ")
	assert.Equal(t, "ISO8859-1", e.ValueOrDefault())
}

func TestEncoding_Aliases(t *testing.T) {
	tests := []struct {
		raw, want string
		utf8      bool
	}{
		{"UTF8", "UTF-8", true},
		{"utf-8", "UTF-8", true},
		{" utf8\n", "UTF-8", true},
		{"MICROSOFT-CP1251", "CP1251", false},
		{"microsoft-cp1250", "CP1250", false},
		{"windows-1252", "CP1252", false},
		{"ISO-8859-2", "ISO8859-2", false},
		{"iso_8859-15", "ISO8859-15", false},
		{"ISO8859-1", "ISO8859-1", false},
		{"latin1", "ISO8859-1", false},
		{"koi8r", "KOI8-R", false},
		{"ISCII-DEVANAGARI", "ISCII-DEVANAGARI", false},
		{"some-thing", "SOME-THING", false},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			e := NewEncoding(tt.raw)
			assert.Equal(t, tt.want, e.Value())
			assert.Equal(t, tt.want, e.ValueOrDefault())
			assert.Equal(t, tt.utf8, e.IsUTF8())
		})
	}
}

func TestEncoding_Codec(t *testing.T) {
	c, err := NewEncoding("UTF8").Codec()
	require.NoError(t, err)
	assert.Equal(t, "UTF-8", c.Name())
	assert.Equal(t, 4, c.MaxEncodedLength())

	c, err = Encoding{}.Codec()
	require.NoError(t, err)
	assert.Equal(t, "ISO8859-1", c.Name())
	assert.Equal(t, 1, c.MaxEncodedLength())

	c, err = NewEncoding("MICROSOFT-CP1251").Codec()
	require.NoError(t, err)
	w, err := ToWide([]byte{0xC0, 0xE0}, c)
	require.NoError(t, err)
	assert.Equal(t, "Аа", w.String())

	// Found through the IANA index rather than the built-in table.
	c, err = NewEncoding("IBM850").Codec()
	require.NoError(t, err)
	assert.Equal(t, "IBM850", c.Name())

	_, err = NewEncoding("ISCII-DEVANAGARI").Codec()
	assert.True(t, errors.Is(err, ErrUnsupportedEncoding))

	_, err = NewEncoding("Shift_JIS").Codec()
	assert.True(t, errors.Is(err, ErrUnsupportedEncoding), "multi-byte legacy encodings are rejected")
}

func TestEncoding_Text(t *testing.T) {
	var v struct {
		Enc Encoding `json:"enc"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"enc":"microsoft-cp1251"}`), &v))
	assert.Equal(t, "CP1251", v.Enc.Value())

	b, err := json.Marshal(v)
	require.NoError(t, err)
	assert.JSONEq(t, `{"enc":"CP1251"}`, string(b))
}
