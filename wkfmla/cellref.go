package wkfmla

import (
	"encoding/binary"
)

// Position is the coordinate of the cell that owns a formula. Relative
// references are rebased against it.
type Position struct {
	Column int `yaml:"column"`
	Row    int `yaml:"row"`
	Sheet  int `yaml:"sheet"`
}

// RefFields are the raw little-endian fields of one encoded reference.
type RefFields struct {
	Column   uint16
	Row      uint16
	Sheet    uint16
	HasSheet bool
}

const (
	fieldSentinel = 0xFFFF

	absoluteMask  = 0xF000
	relativeMask  = 0xC000
	relativeValue = 0x8000

	fileIDMask  = 0x0F00
	fileIDShift = 8
	fileIDNone  = 0x0F

	narrowColumnMax = 255
)

// DecodeCellReference resolves raw reference fields into an absolute
// CellReference. The only error it returns is MalformedCellReference.
func DecodeCellReference(f RefFields, pos Position, v FormatVariant, names NameResolver) (CellReference, error) {
	d := refDecoder{variant: v, pos: pos, names: names}
	return d.decode(f)
}

type refDecoder struct {
	variant FormatVariant
	pos     Position
	names   NameResolver
	diag    *diagnostics
}

func (d *refDecoder) decode(f RefFields) (CellReference, error) {
	var ref CellReference
	names := d.names
	if names == nil {
		names = noNames{}
	}

	colField := f.Column
	if n := int(colField&fileIDMask) >> fileIDShift; n != 0 && n != fileIDNone {
		ref.File = n
		ref.HasFile = true
		if name, ok := names.ExternalFileName(n); ok {
			ref.FileName = name
		} else {
			d.diag.notef("no name for external file %d", n)
		}
		colField &^= fileIDMask
	}

	col, colRel, colNA, err := decodeAxis(colField, d.pos.Column, d.variant)
	if err != nil {
		return CellReference{}, newDecodeError(MalformedCellReference, 0, "column field 0x%04x", f.Column)
	}
	row, rowRel, rowNA, err := decodeAxis(f.Row, d.pos.Row, d.variant)
	if err != nil {
		return CellReference{}, newDecodeError(MalformedCellReference, 0, "row field 0x%04x", f.Row)
	}
	if colNA || rowNA || (f.HasSheet && f.Sheet == fieldSentinel) {
		return CellReference{Unresolved: true}, nil
	}
	if d.variant.Width == Narrow && col > narrowColumnMax {
		col = narrowColumnMax
	}
	ref.Column, ref.ColumnRelative = col, colRel
	ref.Row, ref.RowRelative = row, rowRel

	sheet := d.pos.Sheet
	if f.HasSheet {
		sheet = int(f.Sheet)
	}
	if sheet != d.pos.Sheet || ref.HasFile {
		ref.Sheet = sheet
		ref.HasSheet = true
		if name, ok := names.SheetName(sheet); ok {
			ref.SheetName = name
		} else {
			d.diag.notef("no name for sheet %d", sheet)
		}
	}
	return ref, nil
}

// decodeAxis applies the four field encodings to one coordinate. It returns
// the absolute value, whether the field was relative, and whether it was the
// unresolved sentinel.
func decodeAxis(field uint16, own int, v FormatVariant) (int, bool, bool, error) {
	switch {
	case field&absoluteMask == 0:
		return int(field), false, false, nil
	case field&relativeMask == relativeValue:
		bits := uint(v.Width)
		delta := int(field) & (1<<bits - 1)
		if delta&(1<<(bits-1)) != 0 {
			delta -= 1 << bits
		}
		width := v.axisWidth()
		value := (own + delta) % width
		if value < 0 {
			value += width
		}
		return value, true, false, nil
	case field == fieldSentinel:
		return 0, false, true, nil
	}
	return 0, false, false, ErrMalformedCellReference
}

// readRefFields reads one encoded reference at pos. The caller has already
// checked that v.refSize() bytes are available.
func readRefFields(data []byte, pos int, v FormatVariant) RefFields {
	f := RefFields{
		Column: binary.LittleEndian.Uint16(data[pos : pos+2]),
		Row:    binary.LittleEndian.Uint16(data[pos+2 : pos+4]),
	}
	if v.SheetField {
		f.Sheet = binary.LittleEndian.Uint16(data[pos+4 : pos+6])
		f.HasSheet = true
	}
	return f
}
