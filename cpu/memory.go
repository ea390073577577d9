package cpu

// Memory is the data address space seen by the CPU. Every data access,
// including the stack pointer bytes, goes through it, so a host may
// intercept peripheral addresses by wrapping a FlatMemory.
type Memory interface {
	// LoadByte loads a single byte from the address.
	LoadByte(addr uint16) byte

	// StoreByte stores a single byte to the address.
	StoreByte(addr uint16, value byte)
}

// FlatMemory is the full 64KiB address space as a single buffer.
type FlatMemory struct {
	b [MEMORY_SIZE]byte
}

var _ Memory = (*FlatMemory)(nil)

// NewFlatMemory creates a zeroed 64KiB memory.
func NewFlatMemory() *FlatMemory {
	return &FlatMemory{}
}

// Clear zeroes all of memory.
func (m *FlatMemory) Clear() {
	clear(m.b[:])
}

// LoadByte loads a single byte from the address.
func (m *FlatMemory) LoadByte(addr uint16) byte {
	return m.b[addr]
}

// StoreByte stores a single byte to the address.
func (m *FlatMemory) StoreByte(addr uint16, value byte) {
	m.b[addr] = value
}

// LoadBytes fills b from consecutive addresses, wrapping at the top of
// memory.
func (m *FlatMemory) LoadBytes(addr uint16, b []byte) {
	for n := range b {
		b[n] = m.b[addr+uint16(n)]
	}
}

// StoreBytes stores b to consecutive addresses, wrapping at the top of
// memory.
func (m *FlatMemory) StoreBytes(addr uint16, b []byte) {
	for n, value := range b {
		m.b[addr+uint16(n)] = value
	}
}

// bulkMemory is a Memory with block transfers.
type bulkMemory interface {
	LoadBytes(addr uint16, b []byte)
	StoreBytes(addr uint16, b []byte)
}

// LoadBytes fills b from consecutive addresses of m, wrapping at the top
// of memory.
func LoadBytes(m Memory, addr uint16, b []byte) {
	if bulk, ok := m.(bulkMemory); ok {
		bulk.LoadBytes(addr, b)
		return
	}

	for n := range b {
		b[n] = m.LoadByte(addr + uint16(n))
	}
}

// StoreBytes stores b to consecutive addresses of m, wrapping at the top
// of memory.
func StoreBytes(m Memory, addr uint16, b []byte) {
	if bulk, ok := m.(bulkMemory); ok {
		bulk.StoreBytes(addr, b)
		return
	}

	for n, value := range b {
		m.StoreByte(addr+uint16(n), value)
	}
}

// LoadAddress loads a big-endian 16-bit value from memory.
func LoadAddress(m Memory, addr uint16) uint16 {
	return uint16(m.LoadByte(addr))<<8 | uint16(m.LoadByte(addr+1))
}

// StoreAddress stores a big-endian 16-bit value to memory.
func StoreAddress(m Memory, addr uint16, value uint16) {
	m.StoreByte(addr, byte(value>>8))
	m.StoreByte(addr+1, byte(value))
}
