package asm

import "tlog.app/go/errors"

var (
	// ErrMalformedInstruction is returned for instructions the emitter cannot
	// translate: missing operands, invalid variables or immediates in a
	// register-only position.
	ErrMalformedInstruction = errors.New("malformed instruction")

	// ErrOutOfRegisters is returned when every register holds a variable that
	// is still needed.
	ErrOutOfRegisters = errors.New("ran out of registers")

	// ErrPoolSize is returned for a register pool size outside 1..MaxRegisters.
	ErrPoolSize = errors.New("invalid register pool size")
)
