package lower

import (
	"minic/ir"
	"testing"

	"github.com/kr/pretty"
)

var (
	a  = ir.NewVar("a")
	b  = ir.NewVar("b")
	t1 = ir.NewTemp(1)
	t2 = ir.NewTemp(2)
	t3 = ir.NewTemp(3)
)

func TestLegalize(t *testing.T) {
	tests := []struct {
		name string
		in   []ir.Instruction
		want []ir.Instruction
	}{
		{
			name: "fold add",
			in:   []ir.Instruction{&ir.BinOp{Op: ir.OpAdd, Result: t1, LHS: ir.Immediate(2), RHS: ir.Immediate(3)}},
			want: []ir.Instruction{&ir.Move{Dest: t1, Src: ir.Immediate(5)}},
		},
		{
			name: "fold sub",
			in:   []ir.Instruction{&ir.BinOp{Op: ir.OpSub, Result: t1, LHS: ir.Immediate(2), RHS: ir.Immediate(3)}},
			want: []ir.Instruction{&ir.Move{Dest: t1, Src: ir.Immediate(-1)}},
		},
		{
			name: "fold mul",
			in:   []ir.Instruction{&ir.BinOp{Op: ir.OpMul, Result: t1, LHS: ir.Immediate(4), RHS: ir.Immediate(3)}},
			want: []ir.Instruction{&ir.Move{Dest: t1, Src: ir.Immediate(12)}},
		},
		{
			name: "swap add",
			in:   []ir.Instruction{&ir.BinOp{Op: ir.OpAdd, Result: t1, LHS: ir.Immediate(5), RHS: a}},
			want: []ir.Instruction{&ir.BinOp{Op: ir.OpAdd, Result: t1, LHS: a, RHS: ir.Immediate(5)}},
		},
		{
			name: "materialize left of sub",
			in:   []ir.Instruction{&ir.BinOp{Op: ir.OpSub, Result: t1, LHS: ir.Immediate(5), RHS: a}},
			want: []ir.Instruction{
				&ir.Move{Dest: t2, Src: ir.Immediate(5)},
				&ir.BinOp{Op: ir.OpSub, Result: t1, LHS: t2, RHS: a},
			},
		},
		{
			name: "materialize left of mul",
			in:   []ir.Instruction{&ir.BinOp{Op: ir.OpMul, Result: t1, LHS: ir.Immediate(5), RHS: a}},
			want: []ir.Instruction{
				&ir.Move{Dest: t2, Src: ir.Immediate(5)},
				&ir.BinOp{Op: ir.OpMul, Result: t1, LHS: t2, RHS: a},
			},
		},
		{
			name: "materialize right of mul",
			in:   []ir.Instruction{&ir.BinOp{Op: ir.OpMul, Result: t1, LHS: a, RHS: ir.Immediate(5)}},
			want: []ir.Instruction{
				&ir.Move{Dest: t2, Src: ir.Immediate(5)},
				&ir.BinOp{Op: ir.OpMul, Result: t1, LHS: a, RHS: t2},
			},
		},
		{
			name: "right immediate add and sub unchanged",
			in: []ir.Instruction{
				&ir.BinOp{Op: ir.OpAdd, Result: t1, LHS: a, RHS: ir.Immediate(5)},
				&ir.BinOp{Op: ir.OpSub, Result: t1, LHS: a, RHS: ir.Immediate(5)},
			},
			want: []ir.Instruction{
				&ir.BinOp{Op: ir.OpAdd, Result: t1, LHS: a, RHS: ir.Immediate(5)},
				&ir.BinOp{Op: ir.OpSub, Result: t1, LHS: a, RHS: ir.Immediate(5)},
			},
		},
		{
			name: "variables and moves unchanged",
			in: []ir.Instruction{
				&ir.Move{Dest: a, Src: ir.Immediate(3)},
				&ir.BinOp{Op: ir.OpMul, Result: t1, LHS: a, RHS: b},
			},
			want: []ir.Instruction{
				&ir.Move{Dest: a, Src: ir.Immediate(3)},
				&ir.BinOp{Op: ir.OpMul, Result: t1, LHS: a, RHS: b},
			},
		},
		{
			name: "truncate after return",
			in: []ir.Instruction{
				&ir.Move{Dest: a, Src: ir.Immediate(3)},
				&ir.Return{Value: a},
				&ir.Move{Dest: b, Src: ir.Immediate(4)},
				&ir.Return{Value: b},
			},
			want: []ir.Instruction{
				&ir.Move{Dest: a, Src: ir.Immediate(3)},
				&ir.Return{Value: a},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Legalize(ir.NewProgram(tt.in...))
			if diff := pretty.Diff(got.Insts, tt.want); len(diff) > 0 {
				t.Errorf("legalized program differs:\n%s", pretty.Sprint(diff))
			}
		})
	}
}

func TestLegalizeFreshTemporaries(t *testing.T) {
	in := ir.NewProgram(
		&ir.BinOp{Op: ir.OpSub, Result: t3, LHS: ir.Immediate(1), RHS: a},
		&ir.BinOp{Op: ir.OpMul, Result: t1, LHS: ir.Immediate(2), RHS: t3},
	)

	out := Legalize(in)
	if len(out.Insts) != 4 {
		t.Fatalf("expected 4 instructions, got:\n%s", out.Repr())
	}

	first := out.Insts[0].(*ir.Move).Dest
	second := out.Insts[2].(*ir.Move).Dest
	if first != ir.NewTemp(4) || second != ir.NewTemp(5) {
		t.Errorf("fresh temporaries should follow $3, got %s and %s", first.Repr(), second.Repr())
	}
}

func TestLegalizeIdempotent(t *testing.T) {
	in := ir.NewProgram(
		&ir.Move{Dest: a, Src: ir.Immediate(3)},
		&ir.BinOp{Op: ir.OpAdd, Result: t1, LHS: ir.Immediate(4), RHS: a},
		&ir.BinOp{Op: ir.OpMul, Result: t2, LHS: t1, RHS: ir.Immediate(2)},
		&ir.BinOp{Op: ir.OpSub, Result: t3, LHS: ir.Immediate(9), RHS: t2},
		&ir.BinOp{Op: ir.OpMul, Result: b, LHS: ir.Immediate(2), RHS: ir.Immediate(7)},
		&ir.Return{Value: t3},
		&ir.Return{Value: b},
	)

	once := Legalize(in)
	twice := Legalize(once)
	if diff := pretty.Diff(once.Insts, twice.Insts); len(diff) > 0 {
		t.Errorf("legalizing twice changed the program:\n%s", pretty.Sprint(diff))
	}
}

func TestLegalizeDoesNotMutateInput(t *testing.T) {
	in := ir.NewProgram(&ir.BinOp{Op: ir.OpAdd, Result: t1, LHS: ir.Immediate(5), RHS: a})
	before := in.Repr()

	Legalize(in)

	if in.Repr() != before {
		t.Errorf("input program was modified: %q", in.Repr())
	}
}
