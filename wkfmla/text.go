package wkfmla

import (
	"bytes"
	"fmt"
	"sort"

	"golang.org/x/text/encoding/charmap"
)

var charsets = map[string]*charmap.Charmap{
	"cp437":        charmap.CodePage437,
	"cp850":        charmap.CodePage850,
	"cp852":        charmap.CodePage852,
	"cp865":        charmap.CodePage865,
	"windows-1250": charmap.Windows1250,
	"windows-1252": charmap.Windows1252,
	"latin_1":      charmap.ISO8859_1,
}

// CharsetNames lists the code pages accepted in FormatVariant.Charset.
func CharsetNames() []string {
	names := make([]string, 0, len(charsets))
	for name := range charsets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func lookupCharset(name string) (*charmap.Charmap, error) {
	if name == "" {
		return charmap.CodePage437, nil
	}
	cm, ok := charsets[name]
	if !ok {
		return nil, fmt.Errorf("unknown charset %q", name)
	}
	return cm, nil
}

// unpackCString decodes a NUL-terminated string starting at pos and returns it
// with the position just past the terminator. The terminator must occur before end.
func unpackCString(data []byte, pos, end int, cm *charmap.Charmap) (string, int, error) {
	if pos > end {
		return "", pos, fmt.Errorf("insufficient data for string")
	}
	n := bytes.IndexByte(data[pos:end], 0)
	if n < 0 {
		return "", pos, fmt.Errorf("unterminated string")
	}
	raw := data[pos : pos+n]
	s, err := cm.NewDecoder().Bytes(raw)
	if err != nil {
		return "", pos, err
	}
	return string(s), pos + n + 1, nil
}
