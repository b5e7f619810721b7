package wkfmla

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeCellReference(t *testing.T) {
	tests := []struct {
		name    string
		fields  RefFields
		pos     Position
		variant FormatVariant
		want    CellReference
	}{
		{
			name:    "absolute",
			fields:  RefFields{Column: 3, Row: 7},
			variant: VariantWK1,
			want:    CellReference{Column: 3, Row: 7},
		},
		{
			name:    "narrow relative",
			fields:  RefFields{Column: 0x8002, Row: 0x80FE},
			pos:     Position{Column: 10, Row: 20},
			variant: VariantWK1,
			want:    CellReference{Column: 12, Row: 18, ColumnRelative: true, RowRelative: true},
		},
		{
			name:    "narrow wraps below zero",
			fields:  RefFields{Column: 0x80FF, Row: 0},
			variant: VariantWK1,
			want:    CellReference{Column: 255, ColumnRelative: true},
		},
		{
			name:    "narrow wraps past the last column",
			fields:  RefFields{Column: 0x8005, Row: 1},
			pos:     Position{Column: 254},
			variant: VariantWK1,
			want:    CellReference{Column: 3, Row: 1, ColumnRelative: true},
		},
		{
			name:    "extended wraps below zero",
			fields:  RefFields{Column: 0xBFFF, Row: 0, HasSheet: true},
			variant: VariantWB1,
			want:    CellReference{Column: 8191, ColumnRelative: true},
		},
		{
			name:    "extended positive delta",
			fields:  RefFields{Column: 1, Row: 0x8010, HasSheet: true},
			pos:     Position{Row: 100},
			variant: VariantWB1,
			want:    CellReference{Column: 1, Row: 116, RowRelative: true},
		},
		{
			name:    "extended wraps past the last row",
			fields:  RefFields{Column: 0, Row: 0x8005, HasSheet: true},
			pos:     Position{Row: 8190},
			variant: VariantWB1,
			want:    CellReference{Row: 3, RowRelative: true},
		},
		{
			name:    "narrow rows wrap at 256",
			fields:  RefFields{Column: 0, Row: 0x8000},
			pos:     Position{Row: 300},
			variant: VariantWK1,
			want:    CellReference{Row: 44, RowRelative: true},
		},
		{
			name:    "extended column delta loses the file id bits",
			fields:  RefFields{Column: 0x8100, Row: 0, HasSheet: true},
			variant: VariantWB1,
			want:    CellReference{ColumnRelative: true, File: 1, HasFile: true, HasSheet: true},
		},
		{
			name:    "narrow column clamp",
			fields:  RefFields{Column: 0x0F05, Row: 2},
			variant: VariantWK1,
			want:    CellReference{Column: 255, Row: 2},
		},
		{
			name:    "extended keeps wide columns",
			fields:  RefFields{Column: 0x0F05, Row: 2, HasSheet: true},
			variant: VariantWB1,
			want:    CellReference{Column: 3845, Row: 2},
		},
		{
			name:    "same sheet is unqualified",
			fields:  RefFields{Column: 1, Row: 1, Sheet: 2, HasSheet: true},
			pos:     Position{Sheet: 2},
			variant: VariantWB1,
			want:    CellReference{Column: 1, Row: 1},
		},
		{
			name:    "narrow formats inherit the owning sheet",
			fields:  RefFields{Column: 1, Row: 1},
			pos:     Position{Sheet: 2},
			variant: VariantWQ1,
			want:    CellReference{Column: 1, Row: 1},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeCellReference(tt.fields, tt.pos, tt.variant, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeCellReferenceUnresolved(t *testing.T) {
	tests := []struct {
		name   string
		fields RefFields
	}{
		{"column", RefFields{Column: 0xFFFF, Row: 3, HasSheet: true}},
		{"row", RefFields{Column: 3, Row: 0xFFFF, HasSheet: true}},
		{"sheet", RefFields{Column: 3, Row: 3, Sheet: 0xFFFF, HasSheet: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeCellReference(tt.fields, Position{Column: 4, Row: 4}, VariantWB1, nil)
			require.NoError(t, err)
			assert.True(t, got.Unresolved)
			assert.Equal(t, CellReference{Unresolved: true}, got)
			assert.NotEqual(t, CellReference{}, got)
		})
	}
}

func TestDecodeCellReferenceMalformed(t *testing.T) {
	for _, f := range []RefFields{
		{Column: 0x4000},
		{Column: 0xC001},
		{Column: 0x1000},
		{Column: 0, Row: 0x7000},
	} {
		_, err := DecodeCellReference(f, Position{}, VariantWK1, nil)
		assert.True(t, errors.Is(err, ErrMalformedCellReference), "fields %+v: %v", f, err)
	}
}

func TestDecodeCellReferenceNames(t *testing.T) {
	names := StaticNames{
		Sheets: map[int]string{0: "Data", 1: "Q1 Totals"},
		Files:  map[int]string{2: "budget.wk1"},
	}

	t.Run("other sheet", func(t *testing.T) {
		got, err := DecodeCellReference(RefFields{Column: 0, Row: 0, Sheet: 1, HasSheet: true}, Position{}, VariantWB1, names)
		require.NoError(t, err)
		assert.Equal(t, CellReference{Sheet: 1, HasSheet: true, SheetName: "Q1 Totals"}, got)
		assert.Equal(t, "'Q1 Totals'!$A$1", CellName(got))
	})

	t.Run("external file", func(t *testing.T) {
		got, err := DecodeCellReference(RefFields{Column: 0x0203, Row: 4}, Position{}, VariantWK1, names)
		require.NoError(t, err)
		want := CellReference{
			Column: 3, Row: 4,
			File: 2, HasFile: true, FileName: "budget.wk1",
			Sheet: 0, HasSheet: true, SheetName: "Data",
		}
		assert.Equal(t, want, got)
		assert.Equal(t, "<<budget.wk1>>Data!$D$5", CellName(got))
	})

	t.Run("file id survives a relative column", func(t *testing.T) {
		got, err := DecodeCellReference(RefFields{Column: 0x8201, Row: 0}, Position{Column: 5}, VariantWK1, names)
		require.NoError(t, err)
		assert.True(t, got.HasFile)
		assert.Equal(t, 2, got.File)
		assert.Equal(t, 6, got.Column)
		assert.True(t, got.ColumnRelative)
	})

	t.Run("missing names are left empty", func(t *testing.T) {
		got, err := DecodeCellReference(RefFields{Column: 0x0903, Row: 0}, Position{Sheet: 7}, VariantWK1, names)
		require.NoError(t, err)
		assert.Equal(t, 9, got.File)
		assert.Empty(t, got.FileName)
		assert.Equal(t, 7, got.Sheet)
		assert.Empty(t, got.SheetName)
		assert.Equal(t, "<<?file 9?>>'?sheet 7?'!$D$1", CellName(got))
	})
}
