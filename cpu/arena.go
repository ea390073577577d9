package cpu

import (
	"fmt"
	"iter"
	"maps"
)

// Memory map of the Popola data address space.
const (
	MEMORY_SIZE = 0x1_0000 // Size of the data address space.

	MMIO_BASE  = 0x0ff0        // Memory-mapped I/O window.
	MMIO_SIZE  = 0x10          // Size of the memory-mapped I/O window.
	MMIO_SP_HI = MMIO_BASE + 0 // Stack pointer, high byte.
	MMIO_SP_LO = MMIO_BASE + 1 // Stack pointer, low byte.

	VRAM_BASE = 0xf000 // Video memory, owned by the host.
	VRAM_SIZE = 0x1000 // Size of video memory.

	STACK_TOP = 0x0f00 // Stack pointer after reset; the stack grows down.
)

// Defines returns an iter of the memory map defines.
func (cpu *Cpu) Defines() iter.Seq2[string, string] {
	return maps.All(map[string]string{
		"MMIO":      fmt.Sprintf("%d", MMIO_BASE),
		"SP_HI":     fmt.Sprintf("%d", MMIO_SP_HI),
		"SP_LO":     fmt.Sprintf("%d", MMIO_SP_LO),
		"STACK_TOP": fmt.Sprintf("%d", STACK_TOP),
	})
}
