package asm

import (
	"fmt"
	"minic/ir"
	"minic/logging"
	"strings"

	"tlog.app/go/errors"
)

// Generator translates a legalized IR program into assembly.  Registers are
// allocated for each instruction's operands immediately before it is
// emitted.
type Generator struct {
	registers int
}

// NewGenerator creates a new generator that allocates from the first
// `registers` temporaries.
func NewGenerator(registers int) *Generator {
	return &Generator{registers: registers}
}

// Generate emits the assembly for `prog`.  Emission stops after the first
// return.  On error, no assembly is returned.
func (g *Generator) Generate(prog *ir.Program) (*Assembly, error) {
	alloc, err := NewAllocator(prog.Insts, g.registers)
	if err != nil {
		return nil, err
	}

	asm := NewAssembly()
	for i, inst := range prog.Insts {
		e := emitter{alloc: alloc, at: i}

		line, err := e.emitInst(inst)
		if err != nil {
			return nil, errors.Wrap(err, "instruction %d %s", i, reprInst(inst))
		}

		asm.Add(line + "\t# " + inst.Repr())
		logging.LogTrace("emitted %q", strings.TrimSpace(line))

		if _, ok := inst.(*ir.Return); ok {
			break
		}
	}

	return asm, nil
}

func reprInst(inst ir.Instruction) string {
	if inst == nil {
		return "<nil>"
	}

	return inst.Repr()
}

// -----------------------------------------------------------------------------

// emitter emits a single instruction
type emitter struct {
	alloc *Allocator
	at    int
}

func (e *emitter) emitInst(inst ir.Instruction) (string, error) {
	switch v := inst.(type) {
	case *ir.BinOp:
		return e.emitBinOp(v)
	case *ir.Move:
		return e.emitMove(v)
	case *ir.Return:
		return e.emitReturn(v)
	default:
		return "", errors.Wrap(ErrMalformedInstruction, "unknown instruction kind %T", inst)
	}
}

func (e *emitter) emitBinOp(b *ir.BinOp) (string, error) {
	dst, err := e.dest(b.Result)
	if err != nil {
		return "", err
	}

	lhs, err := e.register(b.LHS, "left operand")
	if err != nil {
		return "", err
	}

	if b.RHS == nil {
		return "", errors.Wrap(ErrMalformedInstruction, "missing right operand")
	}

	if imm, ok := b.RHS.(ir.Immediate); ok {
		switch b.Op {
		case ir.OpAdd:
			return format("addi", dst, lhs, imm), nil
		case ir.OpSub:
			return format("subi", dst, lhs, imm), nil
		default:
			return "", errors.Wrap(ErrMalformedInstruction, "immediate operand to %s", b.Op)
		}
	}

	rhs, err := e.register(b.RHS, "right operand")
	if err != nil {
		return "", err
	}

	switch b.Op {
	case ir.OpAdd:
		return format("add", dst, lhs, rhs), nil
	case ir.OpSub:
		return format("sub", dst, lhs, rhs), nil
	case ir.OpMul:
		return format("mul", dst, lhs, rhs), nil
	default:
		return "", errors.Wrap(ErrMalformedInstruction, "unknown op code %d", int(b.Op))
	}
}

func (e *emitter) emitMove(m *ir.Move) (string, error) {
	dst, err := e.dest(m.Dest)
	if err != nil {
		return "", err
	}

	if m.Src == nil {
		return "", errors.Wrap(ErrMalformedInstruction, "missing move source")
	}

	if imm, ok := m.Src.(ir.Immediate); ok {
		return format("li", dst, imm), nil
	}

	src, err := e.register(m.Src, "move source")
	if err != nil {
		return "", err
	}

	return format("mv", dst, src), nil
}

func (e *emitter) emitReturn(r *ir.Return) (string, error) {
	if r.Value == nil {
		return "", errors.Wrap(ErrMalformedInstruction, "missing return value")
	}

	if imm, ok := r.Value.(ir.Immediate); ok {
		return format("li", A0, imm), nil
	}

	src, err := e.register(r.Value, "return value")
	if err != nil {
		return "", err
	}

	return format("mv", A0, src), nil
}

// dest allocates the register for a result or destination variable.
func (e *emitter) dest(v ir.Variable) (Register, error) {
	if !v.Valid() {
		return NoRegister, errors.Wrap(ErrMalformedInstruction, "invalid destination")
	}

	return e.alloc.Allocate(v, e.at)
}

// register allocates the register for an operand that must be a variable.
func (e *emitter) register(val ir.Value, what string) (Register, error) {
	v, ok := val.(ir.Variable)
	if !ok || !v.Valid() {
		return NoRegister, errors.Wrap(ErrMalformedInstruction, "%s must be a variable", what)
	}

	return e.alloc.Allocate(v, e.at)
}

// format builds an instruction line: a tab, the mnemonic and the comma
// separated operands.
func format(mnemonic string, operands ...fmt.Stringer) string {
	strs := make([]string, len(operands))
	for i, operand := range operands {
		strs[i] = operand.String()
	}

	return "\t" + mnemonic + " " + strings.Join(strs, ",")
}
