package wkfmla

import (
	"fmt"
)

// ErrorKind classifies a DecodeError.
type ErrorKind int

const (
	TruncatedStream ErrorKind = iota + 1
	UnknownOpcode
	StackUnderflow
	MalformedCellReference
	UnsupportedReferenceLayout
	TrailingData
	ExcessOperands
)

var errorKindNames = map[ErrorKind]string{
	TruncatedStream:            "truncated stream",
	UnknownOpcode:              "unknown opcode",
	StackUnderflow:             "stack underflow",
	MalformedCellReference:     "malformed cell reference",
	UnsupportedReferenceLayout: "unsupported reference layout",
	TrailingData:               "trailing data",
	ExcessOperands:             "excess operands",
}

func (k ErrorKind) String() string {
	if s, ok := errorKindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// DecodeError describes why a formula could not be decoded. TrailingData is
// only ever reported as Result.Warning, never returned as an error.
type DecodeError struct {
	Kind ErrorKind

	// Opcode is the offending opcode, or -1 when none applies.
	Opcode int

	// Needed and Available are the operand counts of a StackUnderflow.
	Needed    int
	Available int

	// Offset is the position in the blob where the problem was detected.
	Offset int

	// Message adds detail for kinds that carry no structured fields.
	Message string

	// Diagnostics holds the trace accumulated up to the failure.
	Diagnostics string
}

func (e *DecodeError) Error() string {
	switch e.Kind {
	case UnknownOpcode:
		return fmt.Sprintf("wkfmla: unknown opcode 0x%02x at offset %d", e.Opcode, e.Offset)
	case StackUnderflow:
		return fmt.Sprintf("wkfmla: stack underflow at offset %d: opcode 0x%02x needs %d operands, %d available",
			e.Offset, e.Opcode, e.Needed, e.Available)
	case ExcessOperands:
		return fmt.Sprintf("wkfmla: %d operands left on the stack at offset %d", e.Available, e.Offset)
	case TrailingData:
		return fmt.Sprintf("wkfmla: trailing data at offset %d", e.Offset)
	}
	if e.Message != "" {
		return fmt.Sprintf("wkfmla: %s at offset %d: %s", e.Kind, e.Offset, e.Message)
	}
	return fmt.Sprintf("wkfmla: %s at offset %d", e.Kind, e.Offset)
}

// Is reports whether target is a DecodeError of the same kind, so callers can
// write errors.Is(err, wkfmla.ErrStackUnderflow).
func (e *DecodeError) Is(target error) bool {
	t, ok := target.(*DecodeError)
	return ok && t.Kind == e.Kind
}

var (
	ErrTruncatedStream            = &DecodeError{Kind: TruncatedStream, Opcode: -1}
	ErrUnknownOpcode              = &DecodeError{Kind: UnknownOpcode, Opcode: -1}
	ErrStackUnderflow             = &DecodeError{Kind: StackUnderflow, Opcode: -1}
	ErrMalformedCellReference     = &DecodeError{Kind: MalformedCellReference, Opcode: -1}
	ErrUnsupportedReferenceLayout = &DecodeError{Kind: UnsupportedReferenceLayout, Opcode: -1}
	ErrTrailingData               = &DecodeError{Kind: TrailingData, Opcode: -1}
	ErrExcessOperands             = &DecodeError{Kind: ExcessOperands, Opcode: -1}
)

func newDecodeError(kind ErrorKind, offset int, format string, args ...interface{}) *DecodeError {
	return &DecodeError{
		Kind:    kind,
		Opcode:  -1,
		Offset:  offset,
		Message: fmt.Sprintf(format, args...),
	}
}
