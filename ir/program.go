package ir

import "strings"

// Program is an ordered list of IR instructions.
type Program struct {
	Insts []Instruction
}

// NewProgram creates a new program from the given instructions.
func NewProgram(insts ...Instruction) *Program {
	return &Program{Insts: insts}
}

// Add appends an instruction to the end of the program.
func (p *Program) Add(inst Instruction) {
	p.Insts = append(p.Insts, inst)
}

// Len returns the number of instructions in the program.
func (p *Program) Len() int {
	return len(p.Insts)
}

// MaxTemp returns the largest temporary id referenced by the program or 0 if
// the program uses no temporaries.
func (p *Program) MaxTemp() int {
	max := 0
	for _, inst := range p.Insts {
		if inst == nil {
			continue
		}

		for _, operand := range inst.Operands() {
			if v, ok := operand.(Variable); ok && v.Temp > max {
				max = v.Temp
			}
		}
	}

	return max
}

// Variables returns every distinct variable referenced by the program in
// order of first appearance.
func (p *Program) Variables() []Variable {
	seen := make(map[Variable]struct{})
	var vars []Variable

	for _, inst := range p.Insts {
		for _, operand := range inst.Operands() {
			if v, ok := operand.(Variable); ok {
				if _, ok := seen[v]; !ok {
					seen[v] = struct{}{}
					vars = append(vars, v)
				}
			}
		}
	}

	return vars
}

// Repr returns the textual form of the program: one instruction per line.
func (p *Program) Repr() string {
	sb := strings.Builder{}

	for _, inst := range p.Insts {
		sb.WriteString(inst.Repr())
		sb.WriteRune('\n')
	}

	return sb.String()
}

// -----------------------------------------------------------------------------

// TempAllocator hands out fresh temporaries.  Ids increase monotonically so
// no two temporaries from the same allocator are ever equal.
type TempAllocator struct {
	counter int
}

// NewTempAllocator creates a temporary allocator whose first temporary is
// `after + 1`.
func NewTempAllocator(after int) *TempAllocator {
	return &TempAllocator{counter: after}
}

// Next returns a new temporary.
func (ta *TempAllocator) Next() Variable {
	ta.counter++
	return NewTemp(ta.counter)
}
