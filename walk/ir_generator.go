package walk

import (
	"fmt"
	"strconv"

	"minic/ir"
	"minic/logging"
	"minic/syntax"
)

// IRGenerator builds the IR program of the source as it is parsed.  Every
// arithmetic operation produces a fresh temporary.
type IRGenerator struct {
	reporter

	prog  *ir.Program
	temps *ir.TempAllocator
	stack symbolStack
}

// NewIRGenerator creates a new IR generator
func NewIRGenerator(lctx *logging.LogContext) *IRGenerator {
	return &IRGenerator{
		reporter: reporter{lctx: lctx},
		prog:     ir.NewProgram(),
		temps:    ir.NewTempAllocator(0),
	}
}

// Program returns the program generated so far
func (irg *IRGenerator) Program() *ir.Program {
	return irg.prog
}

func (irg *IRGenerator) WhenShift(state int, tok *syntax.Token) {
	irg.stack.push(stackEntry{Tok: tok})
}

func (irg *IRGenerator) WhenReduce(state int, rule *syntax.PTableRule) {
	body := irg.stack.pop(rule.Count)

	var result ir.Value
	switch rule.Index {
	case syntax.RuleStmtAssign:
		// IDENTIFIER '=' expr
		irg.prog.Add(&ir.Move{Dest: ir.NewVar(body[0].Tok.Value), Src: body[2].Value})
	case syntax.RuleStmtReturn:
		// 'return' expr
		irg.prog.Add(&ir.Return{Value: body[1].Value})
	case syntax.RuleExprAdd:
		result = irg.binop(ir.OpAdd, body[0].Value, body[2].Value)
	case syntax.RuleExprSub:
		result = irg.binop(ir.OpSub, body[0].Value, body[2].Value)
	case syntax.RuleTermMul:
		result = irg.binop(ir.OpMul, body[0].Value, body[2].Value)
	case syntax.RuleExprTerm, syntax.RuleTermFactor:
		result = body[0].Value
	case syntax.RuleFactorParen:
		// '(' expr ')'
		result = body[1].Value
	case syntax.RuleFactorIdentifier:
		result = ir.NewVar(body[0].Tok.Value)
	case syntax.RuleFactorIntLit:
		result = irg.immediate(body[0].Tok)
	}

	irg.stack.push(stackEntry{Value: result})
}

func (irg *IRGenerator) WhenAccept(state int) {
	irg.stack = nil
}

// binop adds a binary operation into a fresh temporary and returns it
func (irg *IRGenerator) binop(op ir.Opcode, lhs, rhs ir.Value) ir.Value {
	result := irg.temps.Next()
	irg.prog.Add(&ir.BinOp{Op: op, Result: result, LHS: lhs, RHS: rhs})
	return result
}

// immediate converts an integer literal into an immediate.  Literals must fit
// in a 32-bit signed integer.
func (irg *IRGenerator) immediate(tok *syntax.Token) ir.Value {
	n, err := strconv.ParseInt(tok.Value, 10, 32)
	if err != nil {
		irg.logError(fmt.Sprintf("integer literal `%s` is out of range", tok.Value), logging.LMKUsage, tok)
		return ir.Immediate(0)
	}

	return ir.Immediate(n)
}
