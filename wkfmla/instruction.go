package wkfmla

import (
	"fmt"
	"strconv"
)

// InstrKind identifies which field of an Instruction is meaningful.
type InstrKind uint8

const (
	InstrOperator InstrKind = iota + 1
	InstrFunction
	InstrCell
	InstrRange
	InstrNumber
	InstrInteger
	InstrText
)

var instrKindNames = map[InstrKind]string{
	InstrOperator: "Operator",
	InstrFunction: "Function",
	InstrCell:     "Cell",
	InstrRange:    "Range",
	InstrNumber:   "Number",
	InstrInteger:  "Integer",
	InstrText:     "Text",
}

func (k InstrKind) String() string {
	if s, ok := instrKindNames[k]; ok {
		return s
	}
	return "?Unknown kind?"
}

// Instruction is one unit of a decoded formula in infix order.
//
// Operator and Function carry their text in Text; Text literals do too.
// Number, Integer, Cell and Range use the field of the same name.
type Instruction struct {
	Kind    InstrKind
	Text    string
	Number  float64
	Integer int16
	Cell    CellReference
	Range   CellRange
}

// Grouping and separator operator texts.
const (
	OpenParen  = "("
	CloseParen = ")"
	ArgSep     = ";"
)

func Op(text string) Instruction         { return Instruction{Kind: InstrOperator, Text: text} }
func Func(name string) Instruction       { return Instruction{Kind: InstrFunction, Text: name} }
func Number(v float64) Instruction       { return Instruction{Kind: InstrNumber, Number: v} }
func Integer(v int16) Instruction        { return Instruction{Kind: InstrInteger, Integer: v} }
func Text(s string) Instruction          { return Instruction{Kind: InstrText, Text: s} }
func Cell(ref CellReference) Instruction { return Instruction{Kind: InstrCell, Cell: ref} }

func Range(first, last CellReference) Instruction {
	return Instruction{Kind: InstrRange, Range: CellRange{First: first, Last: last}}
}

// String returns a debugging representation of the Instruction.
func (in Instruction) String() string {
	switch in.Kind {
	case InstrOperator, InstrFunction:
		return fmt.Sprintf("%s(%s)", in.Kind, in.Text)
	case InstrText:
		return fmt.Sprintf("Text(%q)", in.Text)
	case InstrNumber:
		return "Number(" + strconv.FormatFloat(in.Number, 'g', -1, 64) + ")"
	case InstrInteger:
		return fmt.Sprintf("Integer(%d)", in.Integer)
	case InstrCell:
		return "Cell(" + in.Cell.String() + ")"
	case InstrRange:
		return "Range(" + in.Range.First.String() + ":" + in.Range.Last.String() + ")"
	}
	return in.Kind.String()
}

// CellRange is a rectangular block given by two corners.
type CellRange struct {
	First CellReference
	Last  CellReference
}

// CellReference is a cell coordinate resolved to absolute 0-based values.
//
// The Relative flags only record how the reference was stored; Column and Row
// are already rebased. Sheet and File are valid only when HasSheet and HasFile
// are set. A reference with Unresolved set came from the all-ones sentinel and
// its coordinates are meaningless.
type CellReference struct {
	Column int
	Row    int

	Sheet    int
	HasSheet bool
	File     int
	HasFile  bool

	SheetName string
	FileName  string

	ColumnRelative bool
	RowRelative    bool

	Unresolved bool
}

// String returns a debugging representation of the CellReference.
func (r CellReference) String() string {
	if r.Unresolved {
		return "unresolved"
	}
	s := fmt.Sprintf("col=%d row=%d", r.Column, r.Row)
	if r.ColumnRelative || r.RowRelative {
		s += fmt.Sprintf(" rel=%t/%t", r.ColumnRelative, r.RowRelative)
	}
	if r.HasSheet {
		s += fmt.Sprintf(" sheet=%d", r.Sheet)
	}
	if r.HasFile {
		s += fmt.Sprintf(" file=%d", r.File)
	}
	return s
}
