package io

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/popola/cpu"
)

type failReader struct{}

var errFail = errors.New("fail")

func (fr failReader) Read(b []byte) (int, error) {
	return 0, errFail
}

func TestTape_Idle(t *testing.T) {
	assert := assert.New(t)

	bus := cpu.NewFlatMemory()
	tape := &Tape{}

	assert.NoError(tape.Sync(bus))
	assert.Equal(byte(0), bus.LoadByte(TAPE_CTRL))
}

func TestTape_Send(t *testing.T) {
	assert := assert.New(t)

	bus := cpu.NewFlatMemory()
	output := &bytes.Buffer{}
	tape := &Tape{Output: output}

	for _, c := range []byte("Hi!") {
		bus.StoreByte(TAPE_OUT, c)
		bus.StoreByte(TAPE_CTRL, TAPE_SEND)
		assert.NoError(tape.Sync(bus))
		assert.Equal(byte(0), bus.LoadByte(TAPE_CTRL))

		// Serviced requests are not repeated.
		assert.NoError(tape.Sync(bus))
	}

	assert.Equal("Hi!", output.String())

	tape.Output = nil
	bus.StoreByte(TAPE_CTRL, TAPE_SEND)
	assert.ErrorIs(tape.Sync(bus), ErrTapeOutput)
	assert.Equal(byte(TAPE_SEND), bus.LoadByte(TAPE_CTRL))
}

func TestTape_Receive(t *testing.T) {
	assert := assert.New(t)

	bus := cpu.NewFlatMemory()
	tape := &Tape{Input: bytes.NewReader([]byte{0x12, 0x34})}

	for _, expected := range []byte{0x12, 0x34} {
		bus.StoreByte(TAPE_CTRL, TAPE_RECV)
		assert.NoError(tape.Sync(bus))
		assert.Equal(byte(0), bus.LoadByte(TAPE_CTRL))
		assert.Equal(expected, bus.LoadByte(TAPE_IN))
	}

	bus.StoreByte(TAPE_CTRL, TAPE_RECV)
	assert.NoError(tape.Sync(bus))
	assert.Equal(byte(TAPE_EOF), bus.LoadByte(TAPE_CTRL))
	assert.Equal(byte(0x34), bus.LoadByte(TAPE_IN))

	tape.Input = failReader{}
	bus.StoreByte(TAPE_CTRL, TAPE_RECV)
	assert.ErrorIs(tape.Sync(bus), errFail)
}

func TestTape_NoInput(t *testing.T) {
	assert := assert.New(t)

	bus := cpu.NewFlatMemory()
	tape := &Tape{}

	bus.StoreByte(TAPE_CTRL, TAPE_RECV)
	assert.NoError(tape.Sync(bus))
	assert.Equal(byte(TAPE_EOF), bus.LoadByte(TAPE_CTRL))
}

func TestTape_SendReceive(t *testing.T) {
	assert := assert.New(t)

	bus := cpu.NewFlatMemory()
	output := &bytes.Buffer{}
	tape := &Tape{Input: bytes.NewReader([]byte("x")), Output: output}

	bus.StoreByte(TAPE_OUT, 'y')
	bus.StoreByte(TAPE_CTRL, TAPE_SEND|TAPE_RECV)
	assert.NoError(tape.Sync(bus))
	assert.Equal(byte(0), bus.LoadByte(TAPE_CTRL))
	assert.Equal(byte('x'), bus.LoadByte(TAPE_IN))
	assert.Equal("y", output.String())

	defines := map[string]string{}
	for key, value := range tape.Defines() {
		defines[key] = value
	}
	assert.Equal("4082", defines["TAPE_IN"])
	assert.Equal("4083", defines["TAPE_OUT"])
	assert.Equal("4084", defines["TAPE_CTRL"])
	assert.Equal("128", defines["TAPE_EOF"])
}
