package wkfmla

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestColName(t *testing.T) {
	tests := []struct {
		input    int
		expected string
	}{
		{0, "A"},
		{25, "Z"},
		{26, "AA"},
		{255, "IV"},
		{701, "ZZ"},
		{702, "AAA"},
		{8191, "LCB"},
		{-1, "?"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, ColName(tt.input), "ColName(%d)", tt.input)
	}
}

func TestCellName(t *testing.T) {
	tests := []struct {
		ref  CellReference
		want string
	}{
		{CellReference{Column: 2, Row: 4}, "$C$5"},
		{CellReference{Column: 2, Row: 4, ColumnRelative: true}, "C$5"},
		{CellReference{Column: 2, Row: 4, ColumnRelative: true, RowRelative: true}, "C5"},
		{CellReference{Sheet: 1, HasSheet: true, SheetName: "Sales"}, "Sales!$A$1"},
		{CellReference{Sheet: 1, HasSheet: true, SheetName: "Bob's"}, "'Bob''s'!$A$1"},
		{CellReference{File: 1, HasFile: true, FileName: "a.wk1"}, "<<a.wk1>>$A$1"},
		{CellReference{Unresolved: true}, "#REF!"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CellName(tt.ref))
	}
}

func TestRangeName(t *testing.T) {
	first := CellReference{Sheet: 2, HasSheet: true, SheetName: "Q2"}
	last := CellReference{Column: 3, Row: 9, Sheet: 2, HasSheet: true, SheetName: "Q2", RowRelative: true}
	assert.Equal(t, "Q2!$A$1:$D10", RangeName(CellRange{First: first, Last: last}))
	assert.Equal(t, "#REF!", RangeName(CellRange{First: first, Last: CellReference{Unresolved: true}}))
}

func TestRender(t *testing.T) {
	instrs := []Instruction{
		Func("IF"), Op("("),
		Cell(CellReference{Column: 1, Row: 1, ColumnRelative: true, RowRelative: true}), Op(">"), Number(2.5), Op(";"),
		Text(`say "hi"`), Op(";"),
		Op("-"), Integer(3),
		Op(")"),
	}
	assert.Equal(t, `IF(B2>2.5;"say ""hi""";-3)`, Render(instrs))
	assert.Equal(t, "", Render(nil))
	assert.Equal(t, "?", Render([]Instruction{{}}))
}

func TestQuotedSheetName(t *testing.T) {
	assert.Equal(t, "Data", QuotedSheetName("Data"))
	assert.Equal(t, "'Q1 Totals'", QuotedSheetName("Q1 Totals"))
	assert.Equal(t, "'it''s'", QuotedSheetName("it's"))
}

func TestInstructionString(t *testing.T) {
	assert.Equal(t, "Operator(+)", Op("+").String())
	assert.Equal(t, "Function(SUM)", Func("SUM").String())
	assert.Equal(t, `Text("a")`, Text("a").String())
	assert.Equal(t, "Number(0.5)", Number(0.5).String())
	assert.Equal(t, "Integer(-7)", Integer(-7).String())
	assert.Equal(t, "Cell(col=1 row=2 rel=true/false sheet=3)",
		Cell(CellReference{Column: 1, Row: 2, ColumnRelative: true, Sheet: 3, HasSheet: true}).String())
	assert.Equal(t, "Range(col=0 row=0:unresolved)", Range(CellReference{}, CellReference{Unresolved: true}).String())
	assert.Equal(t, "?Unknown kind?", Instruction{}.String())
}
