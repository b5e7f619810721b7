// Package wkfmla decodes the formula bytecode of 1-2-3 and Quattro era
// worksheet files into infix instruction lists.
package wkfmla

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Options configures a single Decode call.
type Options struct {
	Variant FormatVariant

	// Position is the cell that owns the formula.
	Position Position

	// Names resolves sheet and external file ids. May be nil.
	Names NameResolver

	// Logger receives opcode traces at debug level. Defaults to a no-op logger.
	Logger *zap.Logger
}

// Result is a successfully decoded formula.
type Result struct {
	Instructions []Instruction

	// Warning is set to a TrailingData error when the formula ended before
	// the end offset. The instructions are still valid.
	Warning *DecodeError

	// Diagnostics is a human-readable trace of anomalies seen while decoding.
	Diagnostics string
}

// diagnostics accumulates trace notes for one decode. A nil *diagnostics
// discards everything.
type diagnostics struct {
	b strings.Builder
}

func (d *diagnostics) notef(format string, args ...interface{}) {
	if d == nil {
		return
	}
	fmt.Fprintf(&d.b, format, args...)
	d.b.WriteByte('\n')
}

func (d *diagnostics) String() string {
	if d == nil {
		return ""
	}
	return d.b.String()
}

// Decode translates the formula bytecode in blob[:endOffset] into infix
// instructions. On failure no instructions are returned and callers should
// fall back to the cell's stored value. The error is a *DecodeError, except
// for an unknown Variant.Charset, which is a plain configuration error
// reported before any bytes are read.
func Decode(blob []byte, endOffset int, opts Options) (*Result, error) {
	diag := &diagnostics{}
	if endOffset < 0 || endOffset > len(blob) {
		err := newDecodeError(TruncatedStream, 0, "end offset %d outside blob of %d bytes", endOffset, len(blob))
		err.Diagnostics = diag.String()
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	cm, err := lookupCharset(opts.Variant.Charset)
	if err != nil {
		return nil, fmt.Errorf("wkfmla: variant %s: %w", opts.Variant.Name, err)
	}

	refs := &refDecoder{
		variant: opts.Variant,
		pos:     opts.Position,
		names:   opts.Names,
		diag:    diag,
	}
	src, err := newTokenSource(blob, endOffset, refs, cm)
	if err != nil {
		return nil, dumpOnFailure(failWith(err, diag, nil, -1), blob, endOffset)
	}
	m := &machine{src: src, diag: diag, logger: logger, last: -1}
	res, err := m.run()
	if err != nil {
		logger.Debug("formula decode failed", zap.Error(err))
		return nil, dumpOnFailure(err, blob, endOffset)
	}
	return res, nil
}

// dumpOnFailure appends a hex dump of the formula to a DecodeError's trace.
func dumpOnFailure(err error, blob []byte, end int) error {
	if de, ok := err.(*DecodeError); ok {
		var b strings.Builder
		b.WriteString(de.Diagnostics)
		HexCharDump(blob, 0, end, 0, &b, false)
		de.Diagnostics = b.String()
	}
	return err
}

// machine is the state of one Decode call.
type machine struct {
	src    tokenSource
	stack  operandStack
	diag   *diagnostics
	logger *zap.Logger
	last   int
}

func (m *machine) run() (*Result, error) {
	terminated := false
loop:
	for m.src.offset() < m.src.end() {
		tok, err := m.src.nextOpcode()
		if err != nil {
			if de, ok := err.(*DecodeError); ok && de.Kind == UnknownOpcode {
				m.last = de.Opcode
			}
			return nil, m.fail(err)
		}
		m.last = int(tok.info.Code)
		m.trace(tok)

		switch tok.info.Kind {
		case OpNumber:
			m.stack.push([]Instruction{Number(tok.number)})
		case OpInteger:
			m.stack.push([]Instruction{Integer(tok.integer)})
		case OpText:
			m.stack.push([]Instruction{Text(tok.text)})
		case OpCellRef:
			ref, err := m.src.nextSingleReference()
			if err != nil {
				return nil, m.fail(err)
			}
			m.stack.push([]Instruction{Cell(ref)})
		case OpRangeRef:
			rng, err := m.src.nextRangeReference()
			if err != nil {
				return nil, m.fail(err)
			}
			m.stack.push([]Instruction{{Kind: InstrRange, Range: rng}})
		case OpTerminator:
			terminated = true
			break loop
		case OpReduce:
			if err := m.reduce(tok); err != nil {
				return nil, m.fail(err)
			}
		}
	}

	switch n := m.stack.len(); {
	case n == 0:
		return nil, m.fail(&DecodeError{Kind: StackUnderflow, Opcode: m.last, Needed: 1, Offset: m.src.offset()})
	case n > 1:
		return nil, m.fail(&DecodeError{Kind: ExcessOperands, Opcode: m.last, Available: n, Offset: m.src.offset()})
	}
	if p := m.src.pending(); p > 0 {
		m.diag.notef("%d references in the reference table were never used", p)
	}

	out, _ := m.stack.popN(1)
	res := &Result{Instructions: out[0]}
	if terminated && m.src.offset() < m.src.end() {
		res.Warning = &DecodeError{Kind: TrailingData, Opcode: -1, Offset: m.src.offset()}
		m.diag.notef("%d trailing bytes after offset %d", m.src.end()-m.src.offset(), m.src.offset())
		m.logger.Warn("formula has trailing data",
			zap.Int("offset", m.src.offset()),
			zap.Int("end", m.src.end()))
	}
	if start, end := m.src.tail(); start < end {
		if res.Warning == nil {
			res.Warning = &DecodeError{Kind: TrailingData, Opcode: -1, Offset: start}
			m.logger.Warn("formula has trailing data",
				zap.Int("offset", start),
				zap.Int("end", end))
		}
		m.diag.notef("%d trailing bytes after the reference table at offset %d", end-start, start)
	}
	res.Diagnostics = m.diag.String()
	return res, nil
}

func (m *machine) reduce(tok token) error {
	args, ok := m.stack.popN(tok.argc)
	if !ok {
		return &DecodeError{
			Kind:      StackUnderflow,
			Opcode:    int(tok.info.Code),
			Needed:    tok.argc,
			Available: m.stack.len(),
			Offset:    tok.offset,
		}
	}
	shape := shapeOf(tok.info)
	var list []Instruction
	if shape == shapeCall {
		if rw, ok := Rewrite(tok.info.Name, args); ok {
			m.diag.notef("Pos:%d rewrote %s as NPER", tok.offset, tok.info.Name)
			list = rw
		}
	}
	if list == nil {
		list = shape.compose(tok.info.Name, args)
	}
	m.stack.push(list)
	return nil
}

func (m *machine) trace(tok token) {
	if ce := m.logger.Check(zap.DebugLevel, "opcode"); ce != nil {
		ce.Write(
			zap.Int("pos", tok.offset),
			zap.Uint8("op", tok.info.Code),
			zap.String("name", tok.info.Name),
			zap.Int("argc", tok.argc),
			zap.Int("depth", m.stack.len()),
		)
	}
}

func (m *machine) fail(err error) error {
	return failWith(err, m.diag, &m.stack, m.last)
}

// failWith attaches the diagnostics trace to a DecodeError.
func failWith(err error, diag *diagnostics, stack *operandStack, last int) error {
	de, ok := err.(*DecodeError)
	if !ok {
		return err
	}
	depth := 0
	if stack != nil {
		depth = stack.len()
		for i, list := range stack.items {
			diag.notef("Stack[%d] = %v", i, list)
		}
	}
	if last >= 0 {
		diag.notef("ERROR *** %s; last opcode 0x%02x, stack depth %d", de.Kind, last, depth)
	} else {
		diag.notef("ERROR *** %s; stack depth %d", de.Kind, depth)
	}
	de.Diagnostics = diag.String()
	return de
}
