package cpu

import (
	"strings"
)

// Register is a register id, as encoded in a register operand byte.
type Register int

//go:generate go tool stringer -linecomment -type=Register
const (
	REG_A = Register(0) // A
	REG_B = Register(1) // B
	REG_C = Register(2) // C
	REG_X = Register(3) // X
	REG_Y = Register(4) // Y
)

// REGISTER_COUNT is the size of the register file.
const REGISTER_COUNT = 5

// Valid returns true if the register id names a register.
func (reg Register) Valid() bool {
	return reg >= REG_A && reg <= REG_Y
}

// registerMap maps upper case register names to register ids.
var registerMap = map[string]Register{
	"A": REG_A,
	"B": REG_B,
	"C": REG_C,
	"X": REG_X,
	"Y": REG_Y,
}

// ParseRegister returns the register named by word, in any case.
func ParseRegister(word string) (reg Register, ok bool) {
	reg, ok = registerMap[strings.ToUpper(word)]
	return
}

// Flag is a single status flag bit.
type Flag byte

const (
	FLAG_C = Flag(1 << 0) // Carry
	FLAG_Z = Flag(1 << 1) // Zero
	FLAG_P = Flag(1 << 2) // Parity
	FLAG_S = Flag(1 << 3) // Sign
)

// String returns the flag letter.
func (flag Flag) String() string {
	switch flag {
	case FLAG_C:
		return "C"
	case FLAG_Z:
		return "Z"
	case FLAG_P:
		return "P"
	case FLAG_S:
		return "S"
	}
	return "?"
}

// Flags is the processor status word, laid out as 0b0000SPZC.
type Flags byte

// Has returns true if the flag is set.
func (flags Flags) Has(flag Flag) bool {
	return byte(flags)&byte(flag) != 0
}

// Set sets or clears a flag.
func (flags *Flags) Set(flag Flag, on bool) {
	if on {
		*flags |= Flags(flag)
	} else {
		*flags &^= Flags(flag)
	}
}

// String returns the flags as "SPZC", with '-' for each clear flag.
func (flags Flags) String() string {
	out := []byte("SPZC")
	for n, flag := range []Flag{FLAG_S, FLAG_P, FLAG_Z, FLAG_C} {
		if !flags.Has(flag) {
			out[n] = '-'
		}
	}
	return string(out)
}

// Mode is an operand addressing mode.
type Mode int

//go:generate go tool stringer -linecomment -type=Mode
const (
	MODE_REGISTER  = Mode(0) // register
	MODE_IMMEDIATE = Mode(1) // immediate
	MODE_INDIRECT  = Mode(2) // indirect
	MODE_INDEXED   = Mode(3) // indexed
	MODE_LABEL     = Mode(4) // label
)

// Width returns the number of operand bytes the mode encodes to.
func (mode Mode) Width() int {
	switch mode {
	case MODE_INDIRECT, MODE_LABEL:
		return 2
	default:
		return 1
	}
}
