package wkfmla

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
)

func TestUnpackCString(t *testing.T) {
	data := []byte("\x06Gr\x94\xe1e\x00rest")
	s, next, err := unpackCString(data, 1, len(data), charmap.CodePage437)
	require.NoError(t, err)
	assert.Equal(t, "Größe", s)
	assert.Equal(t, 7, next)

	_, _, err = unpackCString(data, 1, 5, charmap.CodePage437)
	assert.EqualError(t, err, "unterminated string")

	_, _, err = unpackCString(data, 9, 5, charmap.CodePage437)
	assert.EqualError(t, err, "insufficient data for string")
}

func TestLookupCharset(t *testing.T) {
	cm, err := lookupCharset("")
	require.NoError(t, err)
	assert.Equal(t, charmap.CodePage437, cm)

	for _, name := range CharsetNames() {
		_, err := lookupCharset(name)
		assert.NoError(t, err, name)
	}
	for _, v := range []FormatVariant{VariantWK1, VariantWQ1, VariantWB1} {
		_, err := lookupCharset(v.Charset)
		assert.NoError(t, err, v.Name)
	}

	_, err = lookupCharset("utf-7")
	assert.EqualError(t, err, `unknown charset "utf-7"`)
}
