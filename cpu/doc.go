// Package cpu implements the processor, instruction set, and assembler for
// the Popola fantasy console.
//
// The processor has an 8-bit accumulator (A), two general-purpose registers
// (B, C), and two index registers (X, Y) that together form the 16-bit XY
// address. Four status flags (carry, zero, parity, sign) are updated by the
// arithmetic and compare instructions. Data lives in a flat 64KiB memory; the
// program image lives in a separate code space addressed by the program
// counter. The stack pointer has no register of its own: it is stored in the
// first two bytes of the memory-mapped I/O window, and every stack operation
// reads it from there.
//
// The assembler is a two-pass assembler for Popola assembly language,
// supporting labels, equates, and compile-time expression evaluation.
package cpu
