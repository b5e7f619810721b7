package wkfmla

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"strings"
)

// PEEK_SIZE is the number of leading bytes needed to identify a file family:
// a BOF record header and its version word.
const PEEK_SIZE = 6

const bofRecordType = 0x0000

// bofVersions maps the BOF version word to the variant whose formulas the
// file carries.
var bofVersions = map[uint16]FormatVariant{
	0x0404: VariantWK1, // 1-2-3 release 1A
	0x0405: VariantWK1, // Symphony
	0x0406: VariantWK1, // 1-2-3 release 2
	0x5120: VariantWQ1,
	0x5121: VariantWQ1,
	0x1000: VariantWB1,
	0x1002: VariantWB1,
	0x1003: VariantWB1,
	0x1005: VariantWB1,
}

// InspectVariant identifies the format variant of the file at path, or of
// content when it is non-nil. ~ in path is expanded.
func InspectVariant(path string, content []byte) (FormatVariant, error) {
	peek := content
	if peek == nil {
		expandedPath := path
		if strings.HasPrefix(path, "~") {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				return FormatVariant{}, err
			}
			expandedPath = strings.Replace(path, "~", homeDir, 1)
		}

		f, err := os.Open(expandedPath)
		if err != nil {
			return FormatVariant{}, err
		}
		defer f.Close()

		peek = make([]byte, PEEK_SIZE)
		n, err := io.ReadFull(f, peek)
		if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
			return FormatVariant{}, err
		}
		peek = peek[:n]
	}

	if len(peek) < PEEK_SIZE {
		return FormatVariant{}, fmt.Errorf("file too short to carry a BOF record")
	}
	if binary.LittleEndian.Uint16(peek[0:2]) != bofRecordType {
		return FormatVariant{}, fmt.Errorf("no BOF record at start of file")
	}
	if binary.LittleEndian.Uint16(peek[2:4]) < 2 {
		return FormatVariant{}, fmt.Errorf("BOF record too short")
	}
	version := binary.LittleEndian.Uint16(peek[4:6])
	v, ok := bofVersions[version]
	if !ok {
		return FormatVariant{}, fmt.Errorf("unsupported BOF version 0x%04x", version)
	}
	return v, nil
}
