package wkfmla

import (
	"encoding/binary"
	"math"

	"golang.org/x/text/encoding/charmap"
)

// token is one opcode together with its decoded immediate operands.
type token struct {
	info   OpcodeInfo
	offset int

	number  float64
	integer int16
	text    string

	// argc is the effective arity: the fixed arity, or the count byte of a
	// variable-arity opcode.
	argc int
}

// tokenSource yields opcodes in stream order and the references they consume.
type tokenSource interface {
	nextOpcode() (token, error)
	nextSingleReference() (CellReference, error)
	nextRangeReference() (CellRange, error)

	// offset is the position of the next unread opcode byte.
	offset() int
	// end is the position the opcode stream stops at.
	end() int
	// pending counts references that were scanned but never consumed.
	pending() int
	// tail is the byte range after the reference table that no opcode reads.
	tail() (start, end int)
}

// cursor is a bounds-checked little-endian reader over data[:limit].
type cursor struct {
	data  []byte
	pos   int
	limit int
}

func (c *cursor) need(n int, what string) error {
	if n < 0 || c.pos+n > c.limit {
		return newDecodeError(TruncatedStream, c.pos, "need %d bytes for %s, %d left", n, what, c.limit-c.pos)
	}
	return nil
}

func (c *cursor) u8() byte {
	b := c.data[c.pos]
	c.pos++
	return b
}

func (c *cursor) u16() uint16 {
	v := binary.LittleEndian.Uint16(c.data[c.pos : c.pos+2])
	c.pos += 2
	return v
}

func (c *cursor) f64() float64 {
	v := math.Float64frombits(binary.LittleEndian.Uint64(c.data[c.pos : c.pos+8]))
	c.pos += 8
	return v
}

func (c *cursor) ref(d *refDecoder) (CellReference, error) {
	size := d.variant.refSize()
	if err := c.need(size, "cell reference"); err != nil {
		return CellReference{}, err
	}
	at := c.pos
	f := readRefFields(c.data, c.pos, d.variant)
	c.pos += size
	ref, err := d.decode(f)
	if err != nil {
		if de, ok := err.(*DecodeError); ok {
			de.Offset = at
		}
		return CellReference{}, err
	}
	return ref, nil
}

func (c *cursor) rangeRef(d *refDecoder) (CellRange, error) {
	first, err := c.ref(d)
	if err != nil {
		return CellRange{}, err
	}
	last, err := c.ref(d)
	if err != nil {
		return CellRange{}, err
	}
	return CellRange{First: first, Last: last}, nil
}

// readOpcode decodes the opcode at the cursor and its inline operands.
// Reference operands are left to the layout.
func readOpcode(c *cursor, cm *charmap.Charmap) (token, error) {
	if err := c.need(1, "opcode"); err != nil {
		return token{}, err
	}
	tok := token{offset: c.pos}
	code := c.u8()
	info, ok := LookupOpcode(code)
	if !ok || info.Arity == ArityInvalid {
		return token{}, &DecodeError{Kind: UnknownOpcode, Opcode: int(code), Offset: tok.offset}
	}
	tok.info = info
	tok.argc = info.Arity

	switch info.Kind {
	case OpNumber:
		if err := c.need(8, "number"); err != nil {
			return token{}, err
		}
		tok.number = c.f64()
	case OpInteger:
		if err := c.need(2, "integer"); err != nil {
			return token{}, err
		}
		tok.integer = int16(c.u16())
	case OpText:
		s, next, err := unpackCString(c.data, c.pos, c.limit, cm)
		if err != nil {
			return token{}, newDecodeError(TruncatedStream, c.pos, "%v", err)
		}
		tok.text = s
		c.pos = next
	case OpReduce:
		if info.Arity == ArityVariable {
			if err := c.need(1, "argument count"); err != nil {
				return token{}, err
			}
			tok.argc = int(c.u8())
		}
	}
	return tok, nil
}

// interleavedSource reads references inline, right after their opcode.
type interleavedSource struct {
	cur  cursor
	refs *refDecoder
	cm   *charmap.Charmap
}

func (s *interleavedSource) nextOpcode() (token, error) { return readOpcode(&s.cur, s.cm) }

func (s *interleavedSource) nextSingleReference() (CellReference, error) {
	return s.cur.ref(s.refs)
}

func (s *interleavedSource) nextRangeReference() (CellRange, error) {
	return s.cur.rangeRef(s.refs)
}

func (s *interleavedSource) offset() int  { return s.cur.pos }
func (s *interleavedSource) end() int     { return s.cur.limit }
func (s *interleavedSource) pending() int { return 0 }

func (s *interleavedSource) tail() (int, int) { return s.cur.limit, s.cur.limit }

// Entry kinds in a prescanned reference table.
const (
	refEntrySingle = 0x01
	refEntryRange  = 0x02
)

const prescanHeaderSize = 4

// prescannedSource decodes the whole reference table up front and hands the
// references out in encounter order.
type prescannedSource struct {
	cur      cursor
	cm       *charmap.Charmap
	tableEnd int
	blobEnd  int
	singles  []CellReference
	ranges   []CellRange
}

func newPrescannedSource(data []byte, end int, refs *refDecoder, cm *charmap.Charmap) (*prescannedSource, error) {
	hdr := cursor{data: data, limit: end}
	if err := hdr.need(prescanHeaderSize, "reference table header"); err != nil {
		return nil, err
	}
	refStart, refEnd := int(hdr.u16()), int(hdr.u16())
	if refStart < prescanHeaderSize || refStart > refEnd || refEnd > end {
		return nil, newDecodeError(TruncatedStream, 0,
			"reference table [%d, %d) outside formula of %d bytes", refStart, refEnd, end)
	}

	s := &prescannedSource{
		cur:      cursor{data: data, pos: prescanHeaderSize, limit: refStart},
		cm:       cm,
		tableEnd: refEnd,
		blobEnd:  end,
	}
	tab := cursor{data: data, pos: refStart, limit: refEnd}
	for tab.pos < tab.limit {
		at := tab.pos
		switch tab.u8() {
		case refEntrySingle:
			ref, err := tab.ref(refs)
			if err != nil {
				return nil, err
			}
			s.singles = append(s.singles, ref)
		case refEntryRange:
			rng, err := tab.rangeRef(refs)
			if err != nil {
				return nil, err
			}
			s.ranges = append(s.ranges, rng)
		default:
			return nil, newDecodeError(MalformedCellReference, at, "reference table entry kind 0x%02x", data[at])
		}
	}
	return s, nil
}

func (s *prescannedSource) nextOpcode() (token, error) { return readOpcode(&s.cur, s.cm) }

func (s *prescannedSource) nextSingleReference() (CellReference, error) {
	if len(s.singles) == 0 {
		return CellReference{}, newDecodeError(TruncatedStream, s.cur.pos, "reference table has no more cell references")
	}
	ref := s.singles[0]
	s.singles = s.singles[1:]
	return ref, nil
}

func (s *prescannedSource) nextRangeReference() (CellRange, error) {
	if len(s.ranges) == 0 {
		return CellRange{}, newDecodeError(TruncatedStream, s.cur.pos, "reference table has no more ranges")
	}
	rng := s.ranges[0]
	s.ranges = s.ranges[1:]
	return rng, nil
}

func (s *prescannedSource) offset() int  { return s.cur.pos }
func (s *prescannedSource) end() int     { return s.cur.limit }
func (s *prescannedSource) pending() int { return len(s.singles) + len(s.ranges) }

func (s *prescannedSource) tail() (int, int) { return s.tableEnd, s.blobEnd }

// newTokenSource picks the reader for the variant's reference layout.
func newTokenSource(data []byte, end int, refs *refDecoder, cm *charmap.Charmap) (tokenSource, error) {
	switch refs.variant.Layout {
	case LayoutPrescanned:
		s, err := newPrescannedSource(data, end, refs, cm)
		if err != nil {
			return nil, err
		}
		return s, nil
	case LayoutInterleaved:
		return &interleavedSource{cur: cursor{data: data, limit: end}, refs: refs, cm: cm}, nil
	}
	return nil, newDecodeError(UnsupportedReferenceLayout, 0, "layout %s", refs.variant.Layout)
}
