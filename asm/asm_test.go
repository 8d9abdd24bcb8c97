package asm

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"minic/ir"
	"minic/lower"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kr/pretty"
)

func generate(t *testing.T, registers int, insts ...ir.Instruction) (*Assembly, error) {
	t.Helper()
	return NewGenerator(registers).Generate(ir.NewProgram(insts...))
}

// body strips the `.text` directive and the IR comments from the emitted lines
func body(a *Assembly) []string {
	var lines []string
	for _, line := range a.Lines[1:] {
		code, _, _ := strings.Cut(line, "\t#")
		lines = append(lines, strings.TrimSpace(code))
	}

	return lines
}

func TestRoundTrip(t *testing.T) {
	x, y := ir.NewVar("x"), ir.NewVar("y")
	prog := ir.NewProgram(
		&ir.Move{Dest: x, Src: ir.Immediate(2)},
		&ir.BinOp{Op: ir.OpAdd, Result: y, LHS: x, RHS: ir.Immediate(3)},
		&ir.Return{Value: y},
	)

	legal := lower.Legalize(prog)
	if diff := pretty.Diff(legal.Insts, prog.Insts); len(diff) > 0 {
		t.Fatalf("legal program was rewritten: %v", diff)
	}

	asm, err := NewGenerator(MaxRegisters).Generate(legal)
	if err != nil {
		t.Fatal(err)
	}

	want := []string{
		".text",
		"\tli t0,2\t# (MOV, x, 2)",
		"\taddi t1,t0,3\t# (ADD, y, x, 3)",
		"\tmv a0,t1\t# (RET, y)",
	}

	if diff := pretty.Diff(asm.Lines, want); len(diff) > 0 {
		t.Errorf("emitted lines differ:\n%s", strings.Join(asm.Lines, "\n"))
	}
}

func TestEmitMnemonics(t *testing.T) {
	a, b, c := ir.NewVar("a"), ir.NewVar("b"), ir.NewVar("c")

	tests := []struct {
		name string
		inst ir.Instruction
		want string
	}{
		{"add immediate", &ir.BinOp{Op: ir.OpAdd, Result: c, LHS: a, RHS: ir.Immediate(-4)}, "addi t0,t1,-4"},
		{"add register", &ir.BinOp{Op: ir.OpAdd, Result: c, LHS: a, RHS: b}, "add t0,t1,t2"},
		{"sub immediate", &ir.BinOp{Op: ir.OpSub, Result: c, LHS: a, RHS: ir.Immediate(9)}, "subi t0,t1,9"},
		{"sub register", &ir.BinOp{Op: ir.OpSub, Result: c, LHS: a, RHS: b}, "sub t0,t1,t2"},
		{"mul register", &ir.BinOp{Op: ir.OpMul, Result: c, LHS: a, RHS: b}, "mul t0,t1,t2"},
		{"move immediate", &ir.Move{Dest: c, Src: ir.Immediate(7)}, "li t0,7"},
		{"move register", &ir.Move{Dest: c, Src: a}, "mv t0,t1"},
		{"return register", &ir.Return{Value: a}, "mv a0,t0"},
		{"return immediate", &ir.Return{Value: ir.Immediate(1)}, "li a0,1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			asm, err := generate(t, MaxRegisters, tt.inst)
			if err != nil {
				t.Fatal(err)
			}

			if got := body(asm); len(got) != 1 || got[0] != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCommutedAddEmitsAddi(t *testing.T) {
	x, y := ir.NewVar("x"), ir.NewVar("y")
	legal := lower.Legalize(ir.NewProgram(
		&ir.Move{Dest: y, Src: ir.Immediate(1)},
		&ir.BinOp{Op: ir.OpAdd, Result: x, LHS: ir.Immediate(5), RHS: y},
	))

	asm, err := NewGenerator(MaxRegisters).Generate(legal)
	if err != nil {
		t.Fatal(err)
	}

	if got := body(asm)[1]; got != "addi t1,t0,5" {
		t.Errorf("got %q, want addi with the immediate on the right", got)
	}
}

func TestTruncationAfterReturn(t *testing.T) {
	a, b := ir.NewVar("a"), ir.NewVar("b")
	gen := NewGenerator(MaxRegisters)
	insts := []ir.Instruction{
		&ir.Move{Dest: a, Src: ir.Immediate(1)},
		&ir.Return{Value: a},
		&ir.Move{Dest: b, Src: ir.Immediate(2)},
		&ir.Return{Value: b},
	}

	asm, err := gen.Generate(lower.Legalize(ir.NewProgram(insts...)))
	if err != nil {
		t.Fatal(err)
	}

	if diff := pretty.Diff(body(asm), []string{"li t0,1", "mv a0,t0"}); len(diff) > 0 {
		t.Errorf("unexpected output: %q", body(asm))
	}

	// the generator stops at the first return even without legalization
	asm, err = gen.Generate(ir.NewProgram(insts...))
	if err != nil {
		t.Fatal(err)
	}

	if len(asm.Lines) != 3 {
		t.Errorf("expected emission to stop after return, got %q", asm.Lines)
	}
}

func TestImmediateOnlyProgramsNeverExhaust(t *testing.T) {
	for r := 1; r <= MaxRegisters; r++ {
		var insts []ir.Instruction
		for i := 0; i < 3*r; i++ {
			insts = append(insts, &ir.Move{Dest: ir.NewVar(fmt.Sprintf("v%d", i)), Src: ir.Immediate(int64(i))})
		}
		insts = append(insts, &ir.Return{Value: ir.Immediate(0)})

		if _, err := generate(t, r, insts...); err != nil {
			t.Errorf("pool of %d: %v", r, err)
		}
	}
}

func TestReclaimDeadRegister(t *testing.T) {
	const r = 3

	// v0 is dead before v3 is first used, so v3 takes over its register
	vars := make([]ir.Variable, r+1)
	for i := range vars {
		vars[i] = ir.NewVar(fmt.Sprintf("v%d", i))
	}

	asm, err := generate(t, r,
		&ir.Move{Dest: vars[0], Src: ir.Immediate(1)},
		&ir.Move{Dest: vars[1], Src: vars[0]},
		&ir.Move{Dest: vars[2], Src: ir.Immediate(2)},
		&ir.Move{Dest: vars[3], Src: ir.Immediate(3)},
		&ir.BinOp{Op: ir.OpAdd, Result: vars[1], LHS: vars[1], RHS: vars[2]},
		&ir.BinOp{Op: ir.OpAdd, Result: vars[1], LHS: vars[1], RHS: vars[3]},
		&ir.Return{Value: vars[1]},
	)
	if err != nil {
		t.Fatal(err)
	}

	want := []string{
		"li t0,1",
		"mv t1,t0",
		"li t2,2",
		"li t0,3",
		"add t1,t1,t2",
		"add t1,t1,t0",
		"mv a0,t1",
	}

	if diff := pretty.Diff(body(asm), want); len(diff) > 0 {
		t.Errorf("unexpected output:\n%s", strings.Join(body(asm), "\n"))
	}
}

func TestRegisterExhaustion(t *testing.T) {
	const r = 2
	a, b, c := ir.NewVar("a"), ir.NewVar("b"), ir.NewVar("c")

	asm, err := generate(t, r,
		&ir.Move{Dest: a, Src: ir.Immediate(1)},
		&ir.Move{Dest: b, Src: ir.Immediate(2)},
		&ir.Move{Dest: c, Src: ir.Immediate(3)},
		&ir.BinOp{Op: ir.OpAdd, Result: a, LHS: a, RHS: b},
		&ir.BinOp{Op: ir.OpAdd, Result: a, LHS: a, RHS: c},
		&ir.Return{Value: a},
	)

	if !stderrors.Is(err, ErrOutOfRegisters) {
		t.Fatalf("expected register exhaustion, got %v", err)
	}

	if !strings.Contains(err.Error(), "instruction 2") {
		t.Errorf("error does not name the failing instruction: %v", err)
	}

	if asm != nil {
		t.Error("no assembly should be returned on error")
	}
}

func TestUsesAfterReturnDoNotHoldRegisters(t *testing.T) {
	a, b := ir.NewVar("a"), ir.NewVar("b")

	asm, err := generate(t, 1,
		&ir.Move{Dest: a, Src: ir.Immediate(1)},
		&ir.Move{Dest: b, Src: ir.Immediate(2)},
		&ir.Return{Value: b},
		&ir.Move{Dest: b, Src: a},
	)

	if err != nil {
		t.Fatal(err)
	}

	want := []string{
		"li t0,1",
		"li t0,2",
		"mv a0,t0",
	}

	if diff := pretty.Diff(body(asm), want); len(diff) > 0 {
		t.Errorf("unexpected output:\n%s", strings.Join(body(asm), "\n"))
	}
}

func TestMalformedInstructions(t *testing.T) {
	a := ir.NewVar("a")

	tests := []struct {
		name string
		inst ir.Instruction
	}{
		{"zero destination", &ir.Move{Src: ir.Immediate(1)}},
		{"nil move source", &ir.Move{Dest: a}},
		{"nil return value", &ir.Return{}},
		{"immediate left operand", &ir.BinOp{Op: ir.OpSub, Result: a, LHS: ir.Immediate(1), RHS: a}},
		{"immediate multiply operand", &ir.BinOp{Op: ir.OpMul, Result: a, LHS: a, RHS: ir.Immediate(2)}},
		{"nil right operand", &ir.BinOp{Op: ir.OpAdd, Result: a, LHS: a}},
		{"unknown op", &ir.BinOp{Op: ir.Opcode(42), Result: a, LHS: a, RHS: a}},
		{"nil instruction", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := generate(t, MaxRegisters, tt.inst)
			if !stderrors.Is(err, ErrMalformedInstruction) {
				t.Errorf("expected malformed instruction error, got %v", err)
			}
		})
	}
}

func TestInvalidPoolSize(t *testing.T) {
	for _, size := range []int{0, MaxRegisters + 1} {
		if _, err := NewAllocator(nil, size); !stderrors.Is(err, ErrPoolSize) {
			t.Errorf("pool size %d: expected ErrPoolSize, got %v", size, err)
		}
	}
}

// TestBindingsStayInjective checks after every instruction that no register
// holds two variables and no live variable lost its register.
func TestBindingsStayInjective(t *testing.T) {
	prog := lower.Legalize(ir.NewProgram(
		&ir.Move{Dest: ir.NewVar("a"), Src: ir.Immediate(3)},
		&ir.BinOp{Op: ir.OpAdd, Result: ir.NewTemp(1), LHS: ir.NewVar("a"), RHS: ir.Immediate(4)},
		&ir.BinOp{Op: ir.OpMul, Result: ir.NewTemp(2), LHS: ir.NewTemp(1), RHS: ir.Immediate(2)},
		&ir.Move{Dest: ir.NewVar("b"), Src: ir.NewTemp(2)},
		&ir.BinOp{Op: ir.OpSub, Result: ir.NewTemp(3), LHS: ir.NewVar("b"), RHS: ir.NewVar("a")},
		&ir.Return{Value: ir.NewTemp(3)},
	))

	alloc, err := NewAllocator(prog.Insts, 4)
	if err != nil {
		t.Fatal(err)
	}

	for i, inst := range prog.Insts {
		regs := make(map[ir.Variable]Register)
		for _, operand := range inst.Operands() {
			r, err := alloc.Allocate(operand, i)
			if err != nil {
				t.Fatalf("instruction %d: %v", i, err)
			}

			if v, ok := operand.(ir.Variable); ok {
				regs[v] = r
			}
		}

		seen := make(map[Register]ir.Variable)
		for _, v := range alloc.Bindings().Bound() {
			r, _ := alloc.Bindings().RegisterOf(v)
			if other, ok := seen[r]; ok {
				t.Fatalf("instruction %d: %s and %s share %s", i, v.Repr(), other.Repr(), r)
			}
			seen[r] = v
		}

		// every operand of the current instruction still holds its register
		for v, r := range regs {
			if held, _ := alloc.Bindings().VariableIn(r); held != v {
				t.Errorf("instruction %d: %s lost %s", i, v.Repr(), r)
			}
		}
	}
}

func TestRegisterMapBind(t *testing.T) {
	rm := NewRegisterMap()
	a, b := ir.NewVar("a"), ir.NewVar("b")

	rm.Bind(a, T0)
	rm.Bind(b, T0)

	if _, ok := rm.RegisterOf(a); ok {
		t.Error("rebinding a register should unbind its previous variable")
	}

	rm.Bind(b, T3)
	if _, ok := rm.VariableIn(T0); ok {
		t.Error("rebinding a variable should free its previous register")
	}

	if rm.Len() != 1 {
		t.Errorf("expected 1 binding, got %d", rm.Len())
	}
}

func TestAssemblyWriteAndDump(t *testing.T) {
	asm := NewAssembly()
	asm.Add("\tli t0,1\t# (MOV, a, 1)")

	var buf bytes.Buffer
	if _, err := asm.WriteTo(&buf); err != nil {
		t.Fatal(err)
	}

	want := ".text\n\tli t0,1\t# (MOV, a, 1)\n"
	if buf.String() != want {
		t.Errorf("WriteTo wrote %q, want %q", buf.String(), want)
	}

	path := filepath.Join(t.TempDir(), "out.s")
	if err := os.WriteFile(path, []byte("stale contents that are longer\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := asm.Dump(path); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	if string(data) != want {
		t.Errorf("Dump wrote %q, want %q", data, want)
	}
}
