package io

import (
	"fmt"
	"io"
	"iter"
	"maps"

	"github.com/ezrec/popola/cpu"
)

// Video geometry; one byte per pixel.
const (
	VIDEO_WIDTH  = 64
	VIDEO_HEIGHT = cpu.VRAM_SIZE / VIDEO_WIDTH
)

// Video is a view of the video region, for a renderer.
type Video struct{}

// Defines returns an iter of defines for the video region.
func (vc *Video) Defines() iter.Seq2[string, string] {
	return maps.All(map[string]string{
		"VRAM":         fmt.Sprintf("%d", cpu.VRAM_BASE),
		"VRAM_SIZE":    fmt.Sprintf("%d", cpu.VRAM_SIZE),
		"VIDEO_WIDTH":  fmt.Sprintf("%d", VIDEO_WIDTH),
		"VIDEO_HEIGHT": fmt.Sprintf("%d", VIDEO_HEIGHT),
	})
}

// Frame copies the video region.
func (vc *Video) Frame(bus cpu.Memory) (frame []byte) {
	frame = make([]byte, cpu.VRAM_SIZE)
	cpu.LoadBytes(bus, cpu.VRAM_BASE, frame)

	return
}

// Pixel returns the pixel at column x of row y in a frame.
func Pixel(frame []byte, x, y int) byte {
	return frame[y*VIDEO_WIDTH+x]
}

// Dump writes a frame as rows of hex pixels.
func (vc *Video) Dump(w io.Writer, frame []byte) (err error) {
	for y := range VIDEO_HEIGHT {
		_, err = fmt.Fprintf(w, "%04X: %X\n", cpu.VRAM_BASE+y*VIDEO_WIDTH, frame[y*VIDEO_WIDTH:(y+1)*VIDEO_WIDTH])
		if err != nil {
			return
		}
	}

	return
}
