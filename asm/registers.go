// Package asm allocates registers for legalized IR programs and emits RISC-V
// style assembly text for them.
package asm

// Register is a machine register.
type Register int

// Enumeration of the registers the backend knows about.  The temporaries are
// the allocatable pool; A0 only ever receives the return value.
const (
	T0 Register = iota
	T1
	T2
	T3
	T4
	T5
	T6
	A0
)

// NoRegister is returned when allocating an immediate.
const NoRegister Register = -1

// MaxRegisters is the number of allocatable temporary registers.
const MaxRegisters = 7

var registerNames = []string{
	"t0", "t1", "t2", "t3", "t4", "t5", "t6", "a0",
}

func (r Register) String() string {
	if r < 0 || int(r) >= len(registerNames) {
		return "r?"
	}

	return registerNames[r]
}

// pool returns the first `size` temporaries in allocation order.
func pool(size int) []Register {
	regs := make([]Register, size)
	for i := range regs {
		regs[i] = T0 + Register(i)
	}

	return regs
}
