package cpu

// The stack pointer lives in the MMIO window at MMIO_SP_HI and MMIO_SP_LO.
// It is loaded from memory on every use, and stored back after every
// change, so that ordinary stores to those addresses move the stack.

// StackPointer loads the stack pointer from memory.
func (cpu *Cpu) StackPointer() uint16 {
	return LoadAddress(cpu.Memory, MMIO_SP_HI)
}

// SetStackPointer stores the stack pointer to memory.
func (cpu *Cpu) SetStackPointer(sp uint16) {
	StoreAddress(cpu.Memory, MMIO_SP_HI, sp)
}

// push decrements the stack pointer, then stores the value at it.
func (cpu *Cpu) push(value byte) {
	sp := cpu.StackPointer() - 1
	cpu.Memory.StoreByte(sp, value)
	cpu.SetStackPointer(sp)
}

// pop loads the value at the stack pointer, then increments it.
func (cpu *Cpu) pop() (value byte) {
	sp := cpu.StackPointer()
	value = cpu.Memory.LoadByte(sp)
	cpu.SetStackPointer(sp + 1)
	return
}

// pushAddress pushes the high byte, then the low byte.
func (cpu *Cpu) pushAddress(addr uint16) {
	cpu.push(byte(addr >> 8))
	cpu.push(byte(addr))
}

// popAddress pops the low byte, then the high byte.
func (cpu *Cpu) popAddress() uint16 {
	lo := cpu.pop()
	hi := cpu.pop()
	return uint16(hi)<<8 | uint16(lo)
}
