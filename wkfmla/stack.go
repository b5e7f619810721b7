package wkfmla

// operandStack holds one instruction list per pushed operand.
type operandStack struct {
	items [][]Instruction
}

func (s *operandStack) push(list []Instruction) {
	s.items = append(s.items, list)
}

func (s *operandStack) len() int {
	return len(s.items)
}

// popN removes the top n lists and returns them bottom first, which is the
// left-to-right argument order. It reports false when fewer than n are held.
func (s *operandStack) popN(n int) ([][]Instruction, bool) {
	if n < 0 || n > len(s.items) {
		return nil, false
	}
	at := len(s.items) - n
	args := make([][]Instruction, n)
	copy(args, s.items[at:])
	for i := at; i < len(s.items); i++ {
		s.items[i] = nil
	}
	s.items = s.items[:at]
	return args, true
}

// reductionShape is how a reduced opcode lays out its operands.
type reductionShape int

const (
	shapeTerminator reductionShape = iota + 1
	shapePrefix
	shapeInfix
	shapeCall
)

func shapeOf(info OpcodeInfo) reductionShape {
	if info.Kind == OpTerminator {
		return shapeTerminator
	}
	if isCallName(info.Name) {
		return shapeCall
	}
	switch info.Arity {
	case 1:
		return shapePrefix
	case 2:
		return shapeInfix
	}
	return shapeCall
}

func isCallName(name string) bool {
	if name == OpenParen {
		return true
	}
	return name != "" && name[0] >= 'A' && name[0] <= 'Z'
}

// compose builds the instruction list for one reduction.
func (shape reductionShape) compose(name string, args [][]Instruction) []Instruction {
	switch shape {
	case shapePrefix:
		return prefix(name, args[0])
	case shapeInfix:
		out := make([]Instruction, 0, len(args[0])+len(args[1])+1)
		out = append(out, args[0]...)
		out = append(out, Op(name))
		return append(out, args[1]...)
	}
	return call(name, args)
}

func prefix(op string, arg []Instruction) []Instruction {
	out := make([]Instruction, 0, len(arg)+1)
	out = append(out, Op(op))
	return append(out, arg...)
}

// call renders name(a0;a1;...). The bare grouping marker gets no name token.
func call(name string, args [][]Instruction) []Instruction {
	n := 3 + len(args)
	for _, a := range args {
		n += len(a)
	}
	out := make([]Instruction, 0, n)
	if name != OpenParen {
		out = append(out, Func(name))
	}
	out = append(out, Op(OpenParen))
	for i, a := range args {
		if i > 0 {
			out = append(out, Op(ArgSep))
		}
		out = append(out, a...)
	}
	return append(out, Op(CloseParen))
}
