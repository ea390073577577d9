package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFlatMemory(t *testing.T) {
	assert := assert.New(t)

	mem := NewFlatMemory()
	mem.StoreByte(0x1234, 0x56)
	assert.Equal(byte(0x56), mem.LoadByte(0x1234))

	StoreAddress(mem, 0x2000, 0xabcd)
	assert.Equal(byte(0xab), mem.LoadByte(0x2000))
	assert.Equal(byte(0xcd), mem.LoadByte(0x2001))
	assert.Equal(uint16(0xabcd), LoadAddress(mem, 0x2000))

	mem.StoreBytes(0xfffe, []byte{1, 2, 3, 4})
	buff := make([]byte, 4)
	mem.LoadBytes(0xfffe, buff)
	assert.Equal([]byte{1, 2, 3, 4}, buff)
	assert.Equal(byte(3), mem.LoadByte(0x0000))
	assert.Equal(byte(4), mem.LoadByte(0x0001))

	mem.Clear()
	assert.Equal(byte(0), mem.LoadByte(0x1234))
	assert.Equal(byte(0), mem.LoadByte(0xffff))
}

// byteMemory is a Memory without block transfers.
type byteMemory struct {
	b      map[uint16]byte
	stores int
}

func (m *byteMemory) LoadByte(addr uint16) byte {
	return m.b[addr]
}

func (m *byteMemory) StoreByte(addr uint16, value byte) {
	m.stores++
	m.b[addr] = value
}

func TestBulkMemory(t *testing.T) {
	assert := assert.New(t)

	flat := NewFlatMemory()
	StoreBytes(flat, 0xffff, []byte{7, 8})
	assert.Equal(byte(7), flat.LoadByte(0xffff))
	assert.Equal(byte(8), flat.LoadByte(0x0000))

	buff := make([]byte, 2)
	LoadBytes(flat, 0xffff, buff)
	assert.Equal([]byte{7, 8}, buff)

	bus := &byteMemory{b: map[uint16]byte{}}
	StoreBytes(bus, 0x0100, []byte{1, 2, 3})
	assert.Equal(3, bus.stores)

	buff = make([]byte, 3)
	LoadBytes(bus, 0x0100, buff)
	assert.Equal([]byte{1, 2, 3}, buff)
}

func TestArena(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(MMIO_BASE, MMIO_SP_HI)
	assert.Equal(MMIO_BASE+1, MMIO_SP_LO)

	assert.Less(STACK_TOP, MMIO_BASE)
	assert.Equal(MEMORY_SIZE, VRAM_BASE+VRAM_SIZE)
}

func TestCpuDefines(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu(nil)
	defines := map[string]string{}
	for key, value := range cpu.Defines() {
		defines[key] = value
	}

	assert.Equal("4080", defines["MMIO"])
	assert.Equal("4080", defines["SP_HI"])
	assert.Equal("4081", defines["SP_LO"])
	assert.Equal("3840", defines["STACK_TOP"])
}
