package io

import (
	"errors"
	"fmt"
	"io"
	"iter"
	"maps"

	"github.com/ezrec/popola/cpu"
)

// Tape bytes of the memory-mapped I/O window.
const (
	TAPE_IN   = cpu.MMIO_BASE + 2 // Last byte received.
	TAPE_OUT  = cpu.MMIO_BASE + 3 // Next byte to send.
	TAPE_CTRL = cpu.MMIO_BASE + 4 // Request and status bits.
)

// TAPE_CTRL bits.
const (
	TAPE_SEND = 1 << 0 // Set by the program to send TAPE_OUT.
	TAPE_RECV = 1 << 1 // Set by the program to receive into TAPE_IN.
	TAPE_EOF  = 1 << 7 // Set by the tape when the input is exhausted.
)

// Tape provides sequential byte I/O to a program. A program writes
// TAPE_OUT and sets TAPE_SEND to send a byte, or sets TAPE_RECV and then
// reads TAPE_IN. The tape clears each request bit once it is serviced.
type Tape struct {
	Input  io.Reader
	Output io.Writer
}

var _ Device = (*Tape)(nil)

// Defines returns an iter of defines for the tape.
func (tc *Tape) Defines() iter.Seq2[string, string] {
	return maps.All(map[string]string{
		"TAPE_IN":   fmt.Sprintf("%d", TAPE_IN),
		"TAPE_OUT":  fmt.Sprintf("%d", TAPE_OUT),
		"TAPE_CTRL": fmt.Sprintf("%d", TAPE_CTRL),
		"TAPE_SEND": fmt.Sprintf("%d", TAPE_SEND),
		"TAPE_RECV": fmt.Sprintf("%d", TAPE_RECV),
		"TAPE_EOF":  fmt.Sprintf("%d", TAPE_EOF),
	})
}

// Rewind is not possible on a tape.
func (tc *Tape) Rewind() {
}

// Sync sends, then receives, as requested by TAPE_CTRL.
func (tc *Tape) Sync(bus cpu.Memory) (err error) {
	ctrl := bus.LoadByte(TAPE_CTRL)
	if ctrl&(TAPE_SEND|TAPE_RECV) == 0 {
		return
	}

	if ctrl&TAPE_SEND != 0 {
		if tc.Output == nil {
			err = ErrTapeOutput
			return
		}
		_, err = tc.Output.Write([]byte{bus.LoadByte(TAPE_OUT)})
		if err != nil {
			return
		}
		ctrl &^= TAPE_SEND
	}

	if ctrl&TAPE_RECV != 0 {
		var one [1]byte
		var n int
		if tc.Input != nil {
			n, err = io.ReadFull(tc.Input, one[:])
		}
		switch {
		case n == 1:
			bus.StoreByte(TAPE_IN, one[0])
			ctrl &^= TAPE_EOF
		case err == nil || errors.Is(err, io.EOF):
			err = nil
			ctrl |= TAPE_EOF
		default:
			return
		}
		ctrl &^= TAPE_RECV
	}

	bus.StoreByte(TAPE_CTRL, ctrl)

	return
}
