package asm

import (
	"minic/ir"
	"minic/logging"

	"github.com/samber/lo"
	"tlog.app/go/errors"
)

// Allocator assigns registers to variables on the fly as a program is
// emitted.  When the pool is exhausted, it reclaims a register whose variable
// is never referenced again.  There is no spilling: if no register can be
// reclaimed, allocation fails.
type Allocator struct {
	pool     []Register
	bindings *RegisterMap

	// lastUse maps each variable to the index of the last emitted instruction
	// that references it
	lastUse map[ir.Variable]int
}

// NewAllocator creates an allocator for the instruction list `insts` that
// allocates from the first `poolSize` temporary registers.
func NewAllocator(insts []ir.Instruction, poolSize int) (*Allocator, error) {
	if poolSize < 1 || poolSize > MaxRegisters {
		return nil, errors.Wrap(ErrPoolSize, "%d registers (must be between 1 and %d)", poolSize, MaxRegisters)
	}

	a := &Allocator{
		pool:     pool(poolSize),
		bindings: NewRegisterMap(),
		lastUse:  make(map[ir.Variable]int),
	}

	for i, inst := range insts {
		if inst == nil {
			continue
		}

		for _, operand := range inst.Operands() {
			if v, ok := operand.(ir.Variable); ok {
				a.lastUse[v] = i
			}
		}

		// nothing after a return is emitted
		if _, ok := inst.(*ir.Return); ok {
			break
		}
	}

	return a, nil
}

// Allocate returns the register holding `v` for use by the instruction at
// index `at`, binding one if necessary.  Immediates are never allocated:
// NoRegister is returned for them.
func (a *Allocator) Allocate(val ir.Value, at int) (Register, error) {
	v, ok := val.(ir.Variable)
	if !ok {
		return NoRegister, nil
	}

	if r, ok := a.bindings.RegisterOf(v); ok {
		return r, nil
	}

	if r, ok := lo.Find(a.pool, a.isFree); ok {
		a.bind(v, r)
		return r, nil
	}

	// a register is reclaimable if its variable is not referenced by the
	// current instruction or any instruction after it
	r, ok := lo.Find(a.pool, func(r Register) bool {
		held, _ := a.bindings.VariableIn(r)
		return a.lastUse[held] < at
	})

	if !ok {
		return NoRegister, errors.Wrap(ErrOutOfRegisters, "allocating %s", v.Repr())
	}

	held, _ := a.bindings.VariableIn(r)
	logging.LogTrace("reclaimed %s from %s", r, held.Repr())

	a.bind(v, r)
	return r, nil
}

func (a *Allocator) isFree(r Register) bool {
	_, ok := a.bindings.VariableIn(r)
	return !ok
}

func (a *Allocator) bind(v ir.Variable, r Register) {
	a.bindings.Bind(v, r)
	logging.LogTrace("bound %s to %s", v.Repr(), r)
}

// Bindings returns the allocator's current variable-register bindings.
func (a *Allocator) Bindings() *RegisterMap {
	return a.bindings
}
