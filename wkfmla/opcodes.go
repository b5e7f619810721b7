package wkfmla

// OpKind says how the decoder treats an opcode.
type OpKind uint8

const (
	// OpReduce pops Arity operand lists and pushes one.
	OpReduce OpKind = iota + 1
	OpTerminator
	OpNumber
	OpInteger
	OpText
	OpCellRef
	OpRangeRef
)

// Arity classifications besides fixed counts.
const (
	ArityVariable = -1 // a count byte follows the opcode
	ArityInvalid  = -2 // reserved, decoding always fails
)

// OpcodeInfo is one entry of the opcode table.
type OpcodeInfo struct {
	Code  byte
	Name  string
	Arity int
	Kind  OpKind
}

// Opcode values with special handling in the decoder.
const (
	opNumber     = 0x00
	opCellRef    = 0x01
	opRangeRef   = 0x02
	opReturn     = 0x03
	opParen      = 0x04
	opInteger    = 0x05
	opString     = 0x06
	opUnaryMinus = 0x08
)

var opcodeTable = [256]OpcodeInfo{}

var opcodeDefs = []OpcodeInfo{
	{0x00, "Number", 0, OpNumber},
	{0x01, "CellRef", 0, OpCellRef},
	{0x02, "RangeRef", 0, OpRangeRef},
	{0x03, "Return", 1, OpTerminator},
	{0x04, "(", 1, OpReduce},
	{0x05, "Integer", 0, OpInteger},
	{0x06, "String", 0, OpText},
	{0x07, "Unk07", ArityInvalid, OpReduce},
	{0x08, "-", 1, OpReduce},
	{0x09, "+", 2, OpReduce},
	{0x0A, "-", 2, OpReduce},
	{0x0B, "*", 2, OpReduce},
	{0x0C, "/", 2, OpReduce},
	{0x0D, "^", 2, OpReduce},
	{0x0E, "=", 2, OpReduce},
	{0x0F, "<>", 2, OpReduce},
	{0x10, "<=", 2, OpReduce},
	{0x11, ">=", 2, OpReduce},
	{0x12, "<", 2, OpReduce},
	{0x13, ">", 2, OpReduce},
	{0x14, "AND", 2, OpReduce},
	{0x15, "OR", 2, OpReduce},
	{0x16, "NOT", 1, OpReduce},
	{0x17, "+", 1, OpReduce},
	{0x18, "&", 2, OpReduce},
	{0x19, "Unk19", ArityInvalid, OpReduce},
	{0x1A, "Unk1A", ArityInvalid, OpReduce},
	{0x1B, "Unk1B", ArityInvalid, OpReduce},
	{0x1C, "Unk1C", ArityInvalid, OpReduce},
	{0x1D, "Unk1D", ArityInvalid, OpReduce},
	{0x1E, "Unk1E", ArityInvalid, OpReduce},

	{0x1F, "NA", 0, OpReduce},
	{0x20, "ERR", 0, OpReduce},
	{0x21, "ABS", 1, OpReduce},
	{0x22, "INT", 1, OpReduce},
	{0x23, "SQRT", 1, OpReduce},
	{0x24, "LOG10", 1, OpReduce},
	{0x25, "LN", 1, OpReduce},
	{0x26, "PI", 0, OpReduce},
	{0x27, "SIN", 1, OpReduce},
	{0x28, "COS", 1, OpReduce},
	{0x29, "TAN", 1, OpReduce},
	{0x2A, "ATAN2", 2, OpReduce},
	{0x2B, "ATAN", 1, OpReduce},
	{0x2C, "ASIN", 1, OpReduce},
	{0x2D, "ACOS", 1, OpReduce},
	{0x2E, "EXP", 1, OpReduce},
	{0x2F, "MOD", 2, OpReduce},
	{0x30, "CHOOSE", ArityVariable, OpReduce},
	{0x31, "ISNA", 1, OpReduce},
	{0x32, "ISERR", 1, OpReduce},
	{0x33, "FALSE", 0, OpReduce},
	{0x34, "TRUE", 0, OpReduce},
	{0x35, "RAND", 0, OpReduce},
	{0x36, "DATE", 3, OpReduce},
	{0x37, "TODAY", 0, OpReduce},
	{0x38, "PMT", 3, OpReduce},
	{0x39, "PV", 3, OpReduce},
	{0x3A, "FV", 3, OpReduce},
	{0x3B, "IF", 3, OpReduce},
	{0x3C, "DAY", 1, OpReduce},
	{0x3D, "MONTH", 1, OpReduce},
	{0x3E, "YEAR", 1, OpReduce},
	{0x3F, "ROUND", 2, OpReduce},
	{0x40, "TIME", 3, OpReduce},
	{0x41, "HOUR", 1, OpReduce},
	{0x42, "MINUTE", 1, OpReduce},
	{0x43, "SECOND", 1, OpReduce},
	{0x44, "ISNUMBER", 1, OpReduce},
	{0x45, "ISTEXT", 1, OpReduce},
	{0x46, "LEN", 1, OpReduce},
	{0x47, "VALUE", 1, OpReduce},
	{0x48, "FIXED", 2, OpReduce},
	{0x49, "MID", 3, OpReduce},
	{0x4A, "CHAR", 1, OpReduce},
	{0x4B, "CODE", 1, OpReduce},
	{0x4C, "FIND", 3, OpReduce},
	{0x4D, "DATEVALUE", 1, OpReduce},
	{0x4E, "TIMEVALUE", 1, OpReduce},
	{0x4F, "CELLPOINTER", 1, OpReduce},
	{0x50, "SUM", ArityVariable, OpReduce},
	{0x51, "AVERAGE", ArityVariable, OpReduce},
	{0x52, "COUNT", ArityVariable, OpReduce},
	{0x53, "MIN", ArityVariable, OpReduce},
	{0x54, "MAX", ArityVariable, OpReduce},
	{0x55, "VLOOKUP", 3, OpReduce},
	{0x56, "NPV", 2, OpReduce},
	{0x57, "VARP", ArityVariable, OpReduce},
	{0x58, "STDEVP", ArityVariable, OpReduce},
	{0x59, "IRR", 2, OpReduce},
	{0x5A, "HLOOKUP", 3, OpReduce},
	{0x5B, "DSUM", 3, OpReduce},
	{0x5C, "DAVERAGE", 3, OpReduce},
	{0x5D, "DCOUNT", 3, OpReduce},
	{0x5E, "DMIN", 3, OpReduce},
	{0x5F, "DMAX", 3, OpReduce},
	{0x60, "DVARP", 3, OpReduce},
	{0x61, "DSTDEVP", 3, OpReduce},
	{0x62, "INDEX", 3, OpReduce},
	{0x63, "COLUMNS", 1, OpReduce},
	{0x64, "ROWS", 1, OpReduce},
	{0x65, "REPT", 2, OpReduce},
	{0x66, "UPPER", 1, OpReduce},
	{0x67, "LOWER", 1, OpReduce},
	{0x68, "LEFT", 2, OpReduce},
	{0x69, "RIGHT", 2, OpReduce},
	{0x6A, "REPLACE", 4, OpReduce},
	{0x6B, "PROPER", 1, OpReduce},
	{0x6C, "CELL", 2, OpReduce},
	{0x6D, "TRIM", 1, OpReduce},
	{0x6E, "CLEAN", 1, OpReduce},
	{0x6F, "T", 1, OpReduce},
	{0x70, "N", 1, OpReduce},
	{0x71, "EXACT", 2, OpReduce},
	{0x72, "CALL", ArityInvalid, OpReduce},
	{0x73, "INDIRECT", 1, OpReduce},
	{0x74, "RATE", 3, OpReduce},
	{0x75, "TERM", 3, OpReduce},
	{0x76, "CTERM", 3, OpReduce},
	{0x77, "SLN", 3, OpReduce},
	{0x78, "SYD", 4, OpReduce},
	{0x79, "DDB", 4, OpReduce},
	{0x7A, "MEMAVAIL", ArityInvalid, OpReduce},
	{0x7B, "MEMEMSAVAIL", ArityInvalid, OpReduce},
	{0x7C, "FILEEXISTS", 1, OpReduce},
	{0x7D, "CURVALUE", 2, OpReduce},
	{0x7E, "DEGREES", 1, OpReduce},
	{0x7F, "RADIANS", 1, OpReduce},
	{0x80, "DEC2HEX", 1, OpReduce},
	{0x81, "HEX2DEC", 1, OpReduce},
	{0x82, "SHEETS", 1, OpReduce},
}

func init() {
	for _, def := range opcodeDefs {
		opcodeTable[def.Code] = def
	}
}

// LookupOpcode returns the table entry for code. Codes outside the table
// report false.
func LookupOpcode(code byte) (OpcodeInfo, bool) {
	info := opcodeTable[code]
	if info.Kind == 0 {
		return OpcodeInfo{}, false
	}
	return info, true
}

// Opcodes returns a copy of every defined table entry in opcode order.
func Opcodes() []OpcodeInfo {
	out := make([]OpcodeInfo, len(opcodeDefs))
	copy(out, opcodeDefs)
	return out
}
