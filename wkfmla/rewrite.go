package wkfmla

// Rewrite maps the 1-2-3 term functions onto NPER, which has no direct
// counterpart in the old function set:
//
//	TERM(pmt; int; fv)  -> NPER(int; -pmt; 0; fv)
//	CTERM(int; fv; pv)  -> NPER(int; 0; -pv; fv)
//
// It reports false for any other name or argument count.
func Rewrite(name string, args [][]Instruction) ([]Instruction, bool) {
	if len(args) != 3 {
		return nil, false
	}
	zero := []Instruction{Integer(0)}
	switch name {
	case "TERM":
		pmt, rate, fv := args[0], args[1], args[2]
		return call("NPER", [][]Instruction{rate, prefix("-", pmt), zero, fv}), true
	case "CTERM":
		rate, fv, pv := args[0], args[1], args[2]
		return call("NPER", [][]Instruction{rate, zero, prefix("-", pv), fv}), true
	}
	return nil, false
}
