package wkfmla

import (
	"fmt"
	"sort"
)

// RefWidth selects how many bits of a relative coordinate field carry the delta.
type RefWidth int

const (
	// Narrow is the DOS-era 8-bit delta; axes wrap at 256.
	Narrow RefWidth = 8
	// Extended is the Windows-era 14-bit delta; axes wrap at 8192.
	Extended RefWidth = 14
)

// RefLayout selects where reference operands live in a formula blob.
type RefLayout int

const (
	// LayoutPrescanned keeps all references in a table located by a 4-byte
	// header at the start of the blob.
	LayoutPrescanned RefLayout = iota + 1
	// LayoutInterleaved stores each reference right after its opcode.
	LayoutInterleaved
)

func (l RefLayout) String() string {
	switch l {
	case LayoutPrescanned:
		return "prescanned"
	case LayoutInterleaved:
		return "interleaved"
	}
	return fmt.Sprintf("RefLayout(%d)", int(l))
}

// FormatVariant is everything the decoder needs to know about a file family.
type FormatVariant struct {
	Name       string
	Width      RefWidth
	Layout     RefLayout
	SheetField bool

	// Charset names the code page of text literals, see CharsetNames.
	Charset string
}

// axisWidth is the modulus relative coordinates wrap at.
func (v FormatVariant) axisWidth() int {
	if v.Width == Extended {
		return 1 << 13
	}
	return 1 << 8
}

// refSize is the number of bytes one encoded cell reference occupies.
func (v FormatVariant) refSize() int {
	if v.SheetField {
		return 6
	}
	return 4
}

var (
	VariantWK1 = FormatVariant{Name: "wk1", Width: Narrow, Layout: LayoutInterleaved, Charset: "cp437"}
	VariantWQ1 = FormatVariant{Name: "wq1", Width: Narrow, Layout: LayoutPrescanned, Charset: "cp850"}
	VariantWB1 = FormatVariant{Name: "wb1", Width: Extended, Layout: LayoutPrescanned, SheetField: true, Charset: "windows-1252"}
)

var variants = map[string]FormatVariant{
	VariantWK1.Name: VariantWK1,
	VariantWQ1.Name: VariantWQ1,
	VariantWB1.Name: VariantWB1,
}

// VariantByName returns a registered variant.
func VariantByName(name string) (FormatVariant, error) {
	if v, ok := variants[name]; ok {
		return v, nil
	}
	return FormatVariant{}, fmt.Errorf("unknown format variant %q", name)
}

// VariantNames lists the registered variant names in sorted order.
func VariantNames() []string {
	names := make([]string, 0, len(variants))
	for name := range variants {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
