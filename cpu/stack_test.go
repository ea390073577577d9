package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStack_Push(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu(nil)
	cpu.push(0x12)
	assert.Equal(uint16(STACK_TOP-1), cpu.StackPointer())
	assert.Equal(byte(0x12), cpu.LoadByte(STACK_TOP-1))
}

func TestStack_Pop(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu(nil)
	cpu.push(0x12)
	cpu.push(0xAB)

	assert.Equal(byte(0xAB), cpu.pop())
	assert.Equal(uint16(STACK_TOP-1), cpu.StackPointer())

	assert.Equal(byte(0x12), cpu.pop())
	assert.Equal(uint16(STACK_TOP), cpu.StackPointer())
}

func TestStack_Address(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu(nil)
	cpu.pushAddress(0x1234)
	assert.Equal(byte(0x12), cpu.LoadByte(STACK_TOP-1))
	assert.Equal(byte(0x34), cpu.LoadByte(STACK_TOP-2))
	assert.Equal(uint16(0x1234), cpu.popAddress())
	assert.Equal(uint16(STACK_TOP), cpu.StackPointer())
}

func TestStack_Memory(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu(nil)

	// The stack pointer is ordinary memory.
	StoreAddress(cpu.Memory, MMIO_SP_HI, 0x2000)
	cpu.push(0x55)
	assert.Equal(byte(0x55), cpu.LoadByte(0x1fff))
	assert.Equal(byte(0x1f), cpu.LoadByte(MMIO_SP_HI))
	assert.Equal(byte(0xff), cpu.LoadByte(MMIO_SP_LO))
}

func TestStack_Wrap(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu(nil)
	cpu.SetStackPointer(0)
	cpu.push(0x77)
	assert.Equal(uint16(0xffff), cpu.StackPointer())
	assert.Equal(byte(0x77), cpu.LoadByte(0xffff))
	assert.Equal(byte(0x77), cpu.pop())
	assert.Equal(uint16(0), cpu.StackPointer())
}
