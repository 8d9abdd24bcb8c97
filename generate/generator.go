// Package generate converts IR programs into LLVM IR modules.  The resulting
// source text can be passed to `llc` or `clang` to obtain a native program
// whose exit code is the value returned by the source program.
package generate

import (
	"minic/ir"
	"os"

	llir "github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

// Generator is responsible for converting a single IR program into an LLVM
// module.  Every variable lives in its own stack slot which is loaded before
// each use and stored after each definition.
type Generator struct {
	// name is the name of the source file being compiled
	name string

	// llModule is the LLVM module being built by this generator
	llModule *llir.Module

	// block is the block of `main` instructions are appended to
	block *llir.Block

	// slots maps each variable to its stack slot
	slots map[ir.Variable]*llir.InstAlloca
}

// NewGenerator creates a new generator for the source file `name`
func NewGenerator(name string) *Generator {
	return &Generator{
		name:     name,
		llModule: llir.NewModule(),
		slots:    make(map[ir.Variable]*llir.InstAlloca),
	}
}

// Generate builds an LLVM module with a single `i32 @main()` function that
// computes the program.  Programs that never return yield 0.
func (g *Generator) Generate(prog *ir.Program) *llir.Module {
	g.llModule.SourceFilename = g.name

	mainFn := g.llModule.NewFunc("main", types.I32)
	g.block = mainFn.NewBlock("entry")

	for _, v := range prog.Variables() {
		slot := g.block.NewAlloca(types.I32)
		slot.SetName(slotName(v))
		g.slots[v] = slot
	}

	for _, inst := range prog.Insts {
		if !g.genInst(inst) {
			return g.llModule
		}
	}

	g.block.NewRet(constant.NewInt(types.I32, 0))
	return g.llModule
}

// genInst generates a single instruction.  It returns false once the
// function has been terminated.
func (g *Generator) genInst(inst ir.Instruction) bool {
	switch v := inst.(type) {
	case *ir.BinOp:
		lhs, rhs := g.genValue(v.LHS), g.genValue(v.RHS)

		var result value.Value
		switch v.Op {
		case ir.OpAdd:
			result = g.block.NewAdd(lhs, rhs)
		case ir.OpSub:
			result = g.block.NewSub(lhs, rhs)
		case ir.OpMul:
			result = g.block.NewMul(lhs, rhs)
		}

		g.block.NewStore(result, g.slots[v.Result])
	case *ir.Move:
		g.block.NewStore(g.genValue(v.Src), g.slots[v.Dest])
	case *ir.Return:
		g.block.NewRet(g.genValue(v.Value))
		return false
	}

	return true
}

// genValue produces the LLVM value of an operand: immediates become
// constants and variables are loaded from their slots.
func (g *Generator) genValue(val ir.Value) value.Value {
	switch v := val.(type) {
	case ir.Immediate:
		// immediates are truncated to the width of the register
		return constant.NewInt(types.I32, int64(int32(v)))
	case ir.Variable:
		return g.block.NewLoad(types.I32, g.slots[v])
	}

	return constant.NewInt(types.I32, 0)
}

func slotName(v ir.Variable) string {
	if v.IsTemp() {
		return "tmp." + v.Repr()[1:]
	}

	return v.Name
}

// Dump writes the module's source text to the file at `path`
func Dump(m *llir.Module, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = m.WriteTo(f)
	return err
}
