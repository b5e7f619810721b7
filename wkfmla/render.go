package wkfmla

import (
	"strconv"
	"strings"
)

// Render joins an instruction list into formula text such as
// SUM($A$1:$B$3;2). Relative axes are written without '$'.
func Render(instrs []Instruction) string {
	var b strings.Builder
	for _, in := range instrs {
		switch in.Kind {
		case InstrOperator, InstrFunction:
			b.WriteString(in.Text)
		case InstrNumber:
			b.WriteString(strconv.FormatFloat(in.Number, 'g', -1, 64))
		case InstrInteger:
			b.WriteString(strconv.Itoa(int(in.Integer)))
		case InstrText:
			b.WriteString(`"` + strings.ReplaceAll(in.Text, `"`, `""`) + `"`)
		case InstrCell:
			b.WriteString(CellName(in.Cell))
		case InstrRange:
			b.WriteString(RangeName(in.Range))
		default:
			b.WriteString("?")
		}
	}
	return b.String()
}

// ColName returns the letters of a 0-based column: 0 is A, 26 is AA.
func ColName(colx int) string {
	if colx < 0 {
		return "?"
	}
	var buf [8]byte
	i := len(buf)
	for {
		i--
		buf[i] = byte('A' + colx%26)
		colx = colx/26 - 1
		if colx < 0 {
			break
		}
	}
	return string(buf[i:])
}

// CellName returns the A1-style name of a reference, qualified with its
// sheet and file when those are set.
func CellName(ref CellReference) string {
	if ref.Unresolved {
		return "#REF!"
	}
	return qualifier(ref) + localName(ref)
}

// RangeName returns first:last, qualified once by the first corner.
func RangeName(r CellRange) string {
	if r.First.Unresolved || r.Last.Unresolved {
		return "#REF!"
	}
	return qualifier(r.First) + localName(r.First) + ":" + localName(r.Last)
}

func localName(ref CellReference) string {
	var b strings.Builder
	if !ref.ColumnRelative {
		b.WriteByte('$')
	}
	b.WriteString(ColName(ref.Column))
	if !ref.RowRelative {
		b.WriteByte('$')
	}
	b.WriteString(strconv.Itoa(ref.Row + 1))
	return b.String()
}

func qualifier(ref CellReference) string {
	var q string
	if ref.HasFile {
		name := ref.FileName
		if name == "" {
			name = "?file " + strconv.Itoa(ref.File) + "?"
		}
		q = "<<" + name + ">>"
	}
	if ref.HasSheet {
		name := ref.SheetName
		if name == "" {
			name = "?sheet " + strconv.Itoa(ref.Sheet) + "?"
		}
		q += QuotedSheetName(name) + "!"
	}
	return q
}

// QuotedSheetName quotes a sheet name when it contains a quote or a space.
func QuotedSheetName(name string) string {
	if strings.Contains(name, "'") {
		return "'" + strings.ReplaceAll(name, "'", "''") + "'"
	}
	if strings.Contains(name, " ") {
		return "'" + name + "'"
	}
	return name
}
