// Package io provides the Popola peripherals. Each device owns a few bytes
// of the memory-mapped I/O window, and is serviced by the host between
// instructions.
package io

import (
	"iter"

	"github.com/ezrec/popola/cpu"
)

// Device is a peripheral attached to the data address space.
type Device interface {
	// Rewind resets the device to its initial state.
	Rewind()
	// Sync services any requests the program left in the device's bytes.
	Sync(bus cpu.Memory) error
	// Defines returns the assembler equates for the device's bytes.
	Defines() iter.Seq2[string, string]
}
