package io

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/popola/cpu"
)

func TestVideo_Frame(t *testing.T) {
	assert := assert.New(t)

	bus := cpu.NewFlatMemory()
	vc := &Video{}

	bus.StoreByte(cpu.VRAM_BASE, 0x11)
	bus.StoreByte(cpu.VRAM_BASE+VIDEO_WIDTH*2+3, 0x22)
	bus.StoreByte(0xffff, 0x33)

	frame := vc.Frame(bus)
	assert.Equal(cpu.VRAM_SIZE, len(frame))
	assert.Equal(byte(0x11), Pixel(frame, 0, 0))
	assert.Equal(byte(0x22), Pixel(frame, 3, 2))
	assert.Equal(byte(0x33), Pixel(frame, VIDEO_WIDTH-1, VIDEO_HEIGHT-1))

	// The frame is a copy.
	frame[0] = 0
	assert.Equal(byte(0x11), bus.LoadByte(cpu.VRAM_BASE))
}

func TestVideo_Dump(t *testing.T) {
	assert := assert.New(t)

	bus := cpu.NewFlatMemory()
	vc := &Video{}
	bus.StoreByte(cpu.VRAM_BASE+VIDEO_WIDTH, 0xab)

	var buff bytes.Buffer
	assert.NoError(vc.Dump(&buff, vc.Frame(bus)))

	lines := strings.Split(strings.TrimRight(buff.String(), "\n"), "\n")
	assert.Equal(VIDEO_HEIGHT, len(lines))
	assert.True(strings.HasPrefix(lines[0], "F000: 0000"))
	assert.True(strings.HasPrefix(lines[1], "F040: AB00"))
}
