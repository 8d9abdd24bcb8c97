// Package lower rewrites IR programs into the restricted instruction shapes
// the assembly emitter accepts.
package lower

import (
	"minic/ir"
	"minic/logging"
)

// Legalizer rewrites a single IR program.  It owns the temporary allocator
// used to materialize immediates that cannot appear in their position.
type Legalizer struct {
	temps *ir.TempAllocator
	out   *ir.Program
}

// Legalize returns a new program in which every instruction is in a shape the
// emitter can handle directly:
//
//   - binary operations with two immediates are folded into a move
//   - the left operand of a binary operation is never an immediate
//   - the operands of a multiply are never immediates
//   - nothing follows a return
//
// The input program is not modified.  Fresh temporaries are numbered after
// the largest temporary of the input.
func Legalize(prog *ir.Program) *ir.Program {
	l := &Legalizer{
		temps: ir.NewTempAllocator(prog.MaxTemp()),
		out:   &ir.Program{},
	}

	for i, inst := range prog.Insts {
		if !l.legalizeInst(inst) {
			if dropped := len(prog.Insts) - i - 1; dropped > 0 {
				logging.LogTrace("dropped %d instruction(s) following return", dropped)
			}

			break
		}
	}

	return l.out
}

// legalizeInst appends the legalized form of `inst` to the output.  It
// returns false if legalization should stop.
func (l *Legalizer) legalizeInst(inst ir.Instruction) bool {
	switch v := inst.(type) {
	case *ir.BinOp:
		l.legalizeBinOp(v)
	case *ir.Return:
		l.out.Add(v)
		return false
	default:
		// moves and anything unrecognized pass through: the emitter is
		// responsible for rejecting malformed instructions
		l.out.Add(inst)
	}

	return true
}

func (l *Legalizer) legalizeBinOp(b *ir.BinOp) {
	lhsImm, lhsIsImm := b.LHS.(ir.Immediate)
	rhsImm, rhsIsImm := b.RHS.(ir.Immediate)

	switch {
	case lhsIsImm && rhsIsImm:
		folded := b.Op.Fold(lhsImm, rhsImm)
		logging.LogTrace("folded %s into %s", b.Repr(), folded.Repr())
		l.out.Add(&ir.Move{Dest: b.Result, Src: folded})
	case lhsIsImm && b.Op == ir.OpAdd:
		// addition commutes so the immediate can move into the right slot
		l.out.Add(&ir.BinOp{Op: ir.OpAdd, Result: b.Result, LHS: b.RHS, RHS: b.LHS})
	case lhsIsImm:
		tmp := l.materialize(lhsImm)
		l.out.Add(&ir.BinOp{Op: b.Op, Result: b.Result, LHS: tmp, RHS: b.RHS})
	case rhsIsImm && b.Op == ir.OpMul:
		tmp := l.materialize(rhsImm)
		l.out.Add(&ir.BinOp{Op: ir.OpMul, Result: b.Result, LHS: b.LHS, RHS: tmp})
	default:
		l.out.Add(b)
	}
}

// materialize moves an immediate into a fresh temporary and returns it.
func (l *Legalizer) materialize(imm ir.Immediate) ir.Variable {
	tmp := l.temps.Next()
	l.out.Add(&ir.Move{Dest: tmp, Src: imm})
	logging.LogTrace("materialized %s into %s", imm.Repr(), tmp.Repr())
	return tmp
}
