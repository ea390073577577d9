package cpu

import (
	"fmt"
	"log"
	"slices"
)

// State is a snapshot of the processor registers.
type State struct {
	Pc       uint16               // Program counter.
	Sp       uint16               // Stack pointer, as loaded from memory.
	Register [REGISTER_COUNT]byte // Register file, indexed by Register.
	Flags    Flags                // Status flags.
}

// XY returns the 16-bit index address.
func (st State) XY() uint16 {
	return uint16(st.Register[REG_X])<<8 | uint16(st.Register[REG_Y])
}

// Cpu is the simulation context for the Popola processor.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.

	Memory  Memory // Data address space.
	Program []byte // Code address space; the assembled program image.

	Pc       uint16               // Program counter.
	Register [REGISTER_COUNT]byte // Register file, indexed by Register.
	Flags    Flags                // Status flags.

	Ticks int // Instructions executed since reset.
}

// NewCpu creates a new CPU attached to a memory. A nil memory attaches a
// new FlatMemory.
func NewCpu(mem Memory) (cpu *Cpu) {
	if mem == nil {
		mem = NewFlatMemory()
	}

	cpu = &Cpu{
		Memory: mem,
	}

	cpu.Reset()

	return
}

// Load replaces the program image.
func (cpu *Cpu) Load(image []byte) {
	cpu.Program = slices.Clone(image)
}

// Reset the CPU state.
// - Clears the registers, flags, and program counter.
// - Zeros all of memory.
// - Sets the stack pointer to STACK_TOP.
// - Zeros the tick counter.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		log.Printf("cpu: reset")
	}

	clear(cpu.Register[:])
	cpu.Flags = 0
	cpu.Pc = 0
	cpu.Ticks = 0

	if flat, ok := cpu.Memory.(interface{ Clear() }); ok {
		flat.Clear()
	} else {
		for addr := range MEMORY_SIZE {
			cpu.Memory.StoreByte(uint16(addr), 0)
		}
	}

	cpu.SetStackPointer(STACK_TOP)
}

// XY returns the 16-bit index address formed from X and Y.
func (cpu *Cpu) XY() uint16 {
	return uint16(cpu.Register[REG_X])<<8 | uint16(cpu.Register[REG_Y])
}

// LoadByte reads data memory, for the host.
func (cpu *Cpu) LoadByte(addr uint16) byte {
	return cpu.Memory.LoadByte(addr)
}

// StoreByte writes data memory, for the host.
func (cpu *Cpu) StoreByte(addr uint16, value byte) {
	cpu.Memory.StoreByte(addr, value)
}

// Snapshot returns a copy of the processor registers.
func (cpu *Cpu) Snapshot() State {
	return State{
		Pc:       cpu.Pc,
		Sp:       cpu.StackPointer(),
		Register: cpu.Register,
		Flags:    cpu.Flags,
	}
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() (text string) {
	st := cpu.Snapshot()

	text += fmt.Sprintf("% 5s: %04X\n", "pc", st.Pc)
	text += fmt.Sprintf("% 5s: %04X\n", "sp", st.Sp)
	for reg := REG_A; reg <= REG_Y; reg++ {
		text += fmt.Sprintf("% 5s: %02X\n", reg.String(), st.Register[reg])
	}
	text += fmt.Sprintf("% 5s: %04X\n", "XY", st.XY())
	text += fmt.Sprintf("% 5s: %v\n", "flags", st.Flags)

	return
}

// FetchCode fetches the instruction at the program counter.
func (cpu *Cpu) FetchCode() (code Code, err error) {
	pc := int(cpu.Pc)
	if pc >= len(cpu.Program) {
		err = ErrIpEmpty
		return
	}

	opcode := cpu.Program[pc]
	inst, ok := Lookup(opcode)
	if !ok {
		err = ErrOpcode{Pc: cpu.Pc, Opcode: opcode, Err: ErrOpcodeDecode}
		return
	}

	end := pc + inst.Width()
	if end > len(cpu.Program) {
		err = ErrOpcode{Pc: cpu.Pc, Opcode: opcode, Err: ErrOpcodeTruncated}
		return
	}

	code = Code{Opcode: opcode, Args: cpu.Program[pc+1 : end]}

	return
}

// Tick executes a single instruction. On a fault, the CPU state is left
// unchanged.
func (cpu *Cpu) Tick() (err error) {
	code, err := cpu.FetchCode()
	if err != nil {
		return
	}

	inst, args, err := code.Decode()
	if err != nil {
		err = ErrOpcode{Pc: cpu.Pc, Opcode: code.Opcode, Err: err}
		return
	}

	if cpu.Verbose {
		log.Printf("%04x: %v", cpu.Pc, code)
	}

	cpu.Pc += uint16(code.Len())
	inst.exec(cpu, inst, args)
	cpu.Ticks++

	return
}

// Run executes up to max instructions, stopping early at the first fault.
func (cpu *Cpu) Run(max int) (count int, err error) {
	for count < max {
		err = cpu.Tick()
		if err != nil {
			return
		}
		count++
	}

	return
}

// value resolves a source operand to a byte.
func (cpu *Cpu) value(mode Mode, arg uint16) (value byte) {
	switch mode {
	case MODE_REGISTER:
		value = cpu.Register[arg]
	case MODE_IMMEDIATE:
		value = byte(arg)
	case MODE_INDIRECT, MODE_INDEXED:
		value = cpu.Memory.LoadByte(cpu.address(mode, arg))
	default:
		panic("unknown source mode")
	}

	return
}

// address resolves a memory operand to a data address.
func (cpu *Cpu) address(mode Mode, arg uint16) (addr uint16) {
	switch mode {
	case MODE_INDIRECT:
		addr = arg
	case MODE_INDEXED:
		addr = cpu.XY() + arg
	default:
		panic("unknown address mode")
	}

	return
}

// setResult sets the flags for an arithmetic result.
func (cpu *Cpu) setResult(result byte, carry bool) {
	cpu.Register[REG_A] = result
	cpu.Flags.Set(FLAG_C, carry)
	cpu.Flags.Set(FLAG_P, result&0x01 != 0)
	cpu.Flags.Set(FLAG_S, result&0x80 != 0)
	cpu.Flags.Set(FLAG_Z, result == 0)
}

func (cpu *Cpu) execNop(inst *Instruction, args []uint16) {
}

func (cpu *Cpu) execLoad(inst *Instruction, args []uint16) {
	cpu.Register[args[0]] = cpu.value(inst.Modes[1], args[1])
}

func (cpu *Cpu) execStore(inst *Instruction, args []uint16) {
	cpu.Memory.StoreByte(cpu.address(inst.Modes[1], args[1]), cpu.Register[args[0]])
}

func (cpu *Cpu) execAdd(inst *Instruction, args []uint16) {
	a := cpu.Register[REG_A]
	n := cpu.value(inst.Modes[0], args[0])
	sum := uint16(a) + uint16(n)
	cpu.setResult(byte(sum), sum > 0xff)
}

func (cpu *Cpu) execSub(inst *Instruction, args []uint16) {
	a := cpu.Register[REG_A]
	n := cpu.value(inst.Modes[0], args[0])
	cpu.setResult(a-n, a < n)
}

func (cpu *Cpu) execInc(inst *Instruction, args []uint16) {
	a := cpu.Register[REG_A]
	cpu.setResult(a+1, a == 0xff)
}

func (cpu *Cpu) execDec(inst *Instruction, args []uint16) {
	a := cpu.Register[REG_A]
	cpu.setResult(a-1, a == 0x00)
}

// execCmp compares against the accumulator without modifying it.
// Parity and sign report whether the two values agree, not the value of a
// result.
func (cpu *Cpu) execCmp(inst *Instruction, args []uint16) {
	a := cpu.Register[REG_A]
	n := cpu.value(inst.Modes[0], args[0])
	cpu.Flags.Set(FLAG_C, a < n)
	cpu.Flags.Set(FLAG_P, a&0x01 == n&0x01)
	cpu.Flags.Set(FLAG_S, a&0x80 == n&0x80)
	cpu.Flags.Set(FLAG_Z, a == n)
}

func (cpu *Cpu) execJump(inst *Instruction, args []uint16) {
	cond, ok := jumpCondition[inst.Mnemonic]
	if !ok || cpu.Flags.Has(cond.Flag) == cond.When {
		cpu.Pc = args[0]
	}
}

func (cpu *Cpu) execCall(inst *Instruction, args []uint16) {
	cpu.pushAddress(cpu.Pc)
	cpu.Pc = args[0]
}

func (cpu *Cpu) execRet(inst *Instruction, args []uint16) {
	cpu.Pc = cpu.popAddress()
}

func (cpu *Cpu) execPush(inst *Instruction, args []uint16) {
	cpu.push(cpu.Register[args[0]])
}

func (cpu *Cpu) execPop(inst *Instruction, args []uint16) {
	cpu.Register[args[0]] = cpu.pop()
}
