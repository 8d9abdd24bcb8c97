package ir

import "strings"

// Instruction is a single three-address IR instruction.
type Instruction interface {
	// Repr returns the textual form of the instruction, eg. `(ADD, $1, a, 5)`.
	Repr() string

	// Operands returns every value the instruction references in allocation
	// order: the result or destination first, then its sources.
	Operands() []Value

	isInstruction()
}

// Opcode is the operation performed by a BinOp.
type Opcode int

// Enumeration of binary op codes
const (
	OpAdd Opcode = iota
	OpSub
	OpMul
)

// displayTable converts an op code into its textual form.
var displayTable = []string{
	"ADD", // OpAdd
	"SUB", // OpSub
	"MUL", // OpMul
}

func (op Opcode) String() string {
	if op < 0 || int(op) >= len(displayTable) {
		return "???"
	}

	return displayTable[op]
}

// Fold evaluates the op code over two constant operands with 32-bit
// wrapping arithmetic.
func (op Opcode) Fold(lhs, rhs Immediate) Immediate {
	a, b := int32(lhs), int32(rhs)

	switch op {
	case OpSub:
		return Immediate(a - b)
	case OpMul:
		return Immediate(a * b)
	default:
		return Immediate(a + b)
	}
}

// -----------------------------------------------------------------------------

// BinOp computes `Result = LHS <Op> RHS`.
type BinOp struct {
	Op       Opcode
	Result   Variable
	LHS, RHS Value
}

func (b *BinOp) Repr() string {
	return formatInstr(b.Op.String(), b.Result, b.LHS, b.RHS)
}

func (b *BinOp) Operands() []Value {
	return []Value{b.Result, b.LHS, b.RHS}
}

func (*BinOp) isInstruction() {}

// Move copies `Src` into `Dest`.
type Move struct {
	Dest Variable
	Src  Value
}

func (m *Move) Repr() string {
	return formatInstr("MOV", m.Dest, m.Src)
}

func (m *Move) Operands() []Value {
	return []Value{m.Dest, m.Src}
}

func (*Move) isInstruction() {}

// Return ends the program producing `Value`.
type Return struct {
	Value Value
}

func (r *Return) Repr() string {
	return formatInstr("RET", r.Value)
}

func (r *Return) Operands() []Value {
	return []Value{r.Value}
}

func (*Return) isInstruction() {}

func formatInstr(mnemonic string, operands ...Value) string {
	sb := strings.Builder{}
	sb.WriteRune('(')
	sb.WriteString(mnemonic)

	for _, operand := range operands {
		sb.WriteString(", ")
		sb.WriteString(reprValue(operand))
	}

	sb.WriteRune(')')
	return sb.String()
}
