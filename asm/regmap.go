package asm

import (
	"minic/ir"

	"github.com/samber/lo"
)

// RegisterMap is a bijection between variables and registers: each variable
// is bound to at most one register and each register holds at most one
// variable.
type RegisterMap struct {
	byVar map[ir.Variable]Register
	byReg map[Register]ir.Variable
}

// NewRegisterMap creates a new empty register map.
func NewRegisterMap() *RegisterMap {
	return &RegisterMap{
		byVar: make(map[ir.Variable]Register),
		byReg: make(map[Register]ir.Variable),
	}
}

// Bind binds `v` to `r`, dropping any previous binding of `v` and whatever
// variable previously occupied `r`.
func (rm *RegisterMap) Bind(v ir.Variable, r Register) {
	if old, ok := rm.byVar[v]; ok {
		delete(rm.byReg, old)
	}

	if old, ok := rm.byReg[r]; ok {
		delete(rm.byVar, old)
	}

	rm.byVar[v] = r
	rm.byReg[r] = v
}

// RegisterOf returns the register bound to `v` if there is one.
func (rm *RegisterMap) RegisterOf(v ir.Variable) (Register, bool) {
	r, ok := rm.byVar[v]
	return r, ok
}

// VariableIn returns the variable held by `r` if there is one.
func (rm *RegisterMap) VariableIn(r Register) (ir.Variable, bool) {
	v, ok := rm.byReg[r]
	return v, ok
}

// Len returns the number of live bindings.
func (rm *RegisterMap) Len() int {
	return len(rm.byVar)
}

// Bound returns all the bound variables.  The order is unspecified.
func (rm *RegisterMap) Bound() []ir.Variable {
	return lo.Keys(rm.byVar)
}
