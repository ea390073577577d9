// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package emulator drives a Popola program: it loads the image, runs the
// processor, and services the peripherals between instructions.
package emulator

import (
	"errors"
	"fmt"
	"iter"
	"log"

	"github.com/ezrec/popola/cpu"
	"github.com/ezrec/popola/io"
)

// Emulator state. CPU + peripherals.
type Emulator struct {
	Verbose  bool         // If set, enables verbose logging.
	*cpu.Cpu              // Reference to the CPU simulation.
	Program  *cpu.Program // Reference to the currently running program listing.

	Tape       io.Tape       // Tape peripheral.
	Controller io.Controller // Controller peripheral.
	Video      io.Video      // Video region view.

	calls []string // Active subroutines, when Verbose.
}

// NewEmulator creates a new emulator.
func NewEmulator() (emu *Emulator) {
	emu = &Emulator{
		Cpu:     cpu.NewCpu(nil),
		Program: &cpu.Program{},
	}

	return
}

// devices returns the peripherals serviced between instructions.
func (emu *Emulator) devices() []io.Device {
	return []io.Device{&emu.Tape, &emu.Controller}
}

// Defines returns an iterator over all of the defines
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		seqs := []iter.Seq2[string, string]{emu.Cpu.Defines(), emu.Video.Defines()}
		for _, dev := range emu.devices() {
			seqs = append(seqs, dev.Defines())
		}
		for _, seq := range seqs {
			for key, value := range seq {
				if !yield(key, value) {
					return
				}
			}
		}
	}
}

// Assembler returns an assembler with the emulator defines predefined.
func (emu *Emulator) Assembler() (asm *cpu.Assembler) {
	asm = &cpu.Assembler{Verbose: emu.Verbose}
	for key, value := range emu.Defines() {
		asm.Predefine(key, value)
	}

	return
}

// Reset loads the program image and resets the CPU and peripherals.
func (emu *Emulator) Reset() (err error) {
	emu.Cpu.Verbose = emu.Verbose

	emu.Cpu.Load(emu.Program.Binary())
	emu.Cpu.Reset()
	emu.calls = emu.calls[:0]

	for _, dev := range emu.devices() {
		dev.Rewind()
	}

	return
}

// Ticks returns the total ticks since a reset.
func (emu *Emulator) Ticks() int {
	return emu.Cpu.Ticks
}

// Ip returns current instruction pointer.
func (emu *Emulator) Ip() int {
	return int(emu.Cpu.Pc)
}

// Code returns the current instruction code.
func (emu *Emulator) Code() cpu.Code {
	for ip, code := range emu.Program.Codes() {
		if emu.Cpu.Pc == ip {
			return code
		}
	}

	return cpu.Code{}
}

// LineNo returns the current line number for the executing opcode.
func (emu *Emulator) LineNo() int {
	dbg := emu.Program.Debug(emu.Cpu.Pc)
	if dbg.Opcode == nil {
		return 0
	}

	return dbg.LineNo
}

// Frame returns a copy of the video region.
func (emu *Emulator) Frame() []byte {
	return emu.Video.Frame(emu.Cpu.Memory)
}

// MemGet returns a copy of size bytes of data memory, starting at addr.
func (emu *Emulator) MemGet(addr uint16, size int) (data []byte) {
	data = make([]byte, size)
	cpu.LoadBytes(emu.Cpu.Memory, addr, data)

	return
}

// MemSet copies data into data memory, starting at addr.
func (emu *Emulator) MemSet(addr uint16, data []byte) {
	cpu.StoreBytes(emu.Cpu.Memory, addr, data)
}

// symbol names a code address by its label, if it has one.
func (emu *Emulator) symbol(ip uint16) string {
	label, ok := emu.Program.Symbol(ip)
	if !ok {
		label = fmt.Sprintf("%04Xh", ip)
	}

	return label
}

// trace logs subroutine calls, and the B register on return.
func (emu *Emulator) trace(code cpu.Code) {
	inst, _, err := code.Decode()
	if err != nil {
		return
	}

	switch inst.Mnemonic {
	case cpu.MN_CALL:
		name := emu.symbol(emu.Cpu.Pc)
		emu.calls = append(emu.calls, name)
		log.Printf("popola: call %v", name)
	case cpu.MN_RET:
		name := "unknown"
		if n := len(emu.calls); n > 0 {
			name, emu.calls = emu.calls[n-1], emu.calls[:n-1]
		}
		log.Printf("popola: %v returned %d", name, emu.Cpu.Register[cpu.REG_B])
	}
}

// Tick services the peripherals, then executes a single instruction.
// Running off the end of the program is done, and not an error.
func (emu *Emulator) Tick() (done bool, err error) {
	// Set CPU verbosity
	emu.Cpu.Verbose = emu.Verbose

	lineno, pc := emu.LineNo(), emu.Cpu.Pc
	defer func() {
		if err != nil {
			err = &ErrRuntime{LineNo: lineno, Pc: pc, Err: err}
		}
	}()

	for _, dev := range emu.devices() {
		err = dev.Sync(emu.Cpu.Memory)
		if err != nil {
			return
		}
	}

	var code cpu.Code
	if emu.Verbose {
		code, _ = emu.Cpu.FetchCode()
	}

	err = emu.Cpu.Tick()
	if errors.Is(err, cpu.ErrIpEmpty) {
		err = nil
		done = true
		return
	}

	if err == nil && emu.Verbose {
		emu.trace(code)
	}

	return
}

// Run ticks until the program is done, a fault occurs, or max instructions
// have executed.
func (emu *Emulator) Run(max int) (count int, done bool, err error) {
	for count < max {
		done, err = emu.Tick()
		if done || err != nil {
			return
		}
		count++
	}

	return
}
