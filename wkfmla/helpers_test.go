package wkfmla

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

// fmla assembles formula bytecode for tests.
type fmla struct {
	b []byte
}

func (f *fmla) op(codes ...byte) *fmla {
	f.b = append(f.b, codes...)
	return f
}

func (f *fmla) num(v float64) *fmla {
	f.b = append(f.b, opNumber)
	f.b = binary.LittleEndian.AppendUint64(f.b, math.Float64bits(v))
	return f
}

func (f *fmla) int(v int16) *fmla {
	f.b = append(f.b, opInteger)
	f.b = binary.LittleEndian.AppendUint16(f.b, uint16(v))
	return f
}

func (f *fmla) str(raw string) *fmla {
	f.b = append(f.b, opString)
	f.b = append(f.b, raw...)
	f.b = append(f.b, 0)
	return f
}

// ref appends raw reference fields without an opcode.
func (f *fmla) ref(fields ...uint16) *fmla {
	for _, v := range fields {
		f.b = binary.LittleEndian.AppendUint16(f.b, v)
	}
	return f
}

func (f *fmla) end() []byte {
	return append(f.b, opReturn)
}

func (f *fmla) bytes() []byte {
	return f.b
}

// prescanned prefixes code with the reference table header and appends the table.
func prescanned(code, table []byte) []byte {
	refStart := prescanHeaderSize + len(code)
	refEnd := refStart + len(table)
	out := binary.LittleEndian.AppendUint16(nil, uint16(refStart))
	out = binary.LittleEndian.AppendUint16(out, uint16(refEnd))
	out = append(out, code...)
	return append(out, table...)
}

func decodeOK(t *testing.T, blob []byte, opts Options) []Instruction {
	t.Helper()
	res, err := Decode(blob, len(blob), opts)
	require.NoError(t, err)
	require.Nil(t, res.Warning)
	return res.Instructions
}

func decodeErr(t *testing.T, blob []byte, opts Options) *DecodeError {
	t.Helper()
	res, err := Decode(blob, len(blob), opts)
	require.Error(t, err)
	require.Nil(t, res)
	de, ok := err.(*DecodeError)
	require.True(t, ok, "error %T is not a *DecodeError", err)
	return de
}

var (
	wk1 = Options{Variant: VariantWK1}
	wq1 = Options{Variant: VariantWQ1}
	wb1 = Options{Variant: VariantWB1}
)
