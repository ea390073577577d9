package io

import (
	"fmt"
	"iter"
	"maps"

	"github.com/ezrec/popola/cpu"
)

// CONTROLLER is the controller latch in the memory-mapped I/O window.
const CONTROLLER = cpu.MMIO_BASE + 5

// Button is a set of controller buttons.
type Button byte

const (
	BUTTON_UP     = Button(1 << 0)
	BUTTON_DOWN   = Button(1 << 1)
	BUTTON_LEFT   = Button(1 << 2)
	BUTTON_RIGHT  = Button(1 << 3)
	BUTTON_A      = Button(1 << 4)
	BUTTON_B      = Button(1 << 5)
	BUTTON_SELECT = Button(1 << 6)
	BUTTON_START  = Button(1 << 7)
)

// Controller latches the host's button state into CONTROLLER.
type Controller struct {
	Buttons Button // Buttons held down.
}

var _ Device = (*Controller)(nil)

// Defines returns an iter of defines for the controller.
func (cc *Controller) Defines() iter.Seq2[string, string] {
	return maps.All(map[string]string{
		"CONTROLLER":    fmt.Sprintf("%d", CONTROLLER),
		"BUTTON_UP":     fmt.Sprintf("%d", BUTTON_UP),
		"BUTTON_DOWN":   fmt.Sprintf("%d", BUTTON_DOWN),
		"BUTTON_LEFT":   fmt.Sprintf("%d", BUTTON_LEFT),
		"BUTTON_RIGHT":  fmt.Sprintf("%d", BUTTON_RIGHT),
		"BUTTON_A":      fmt.Sprintf("%d", BUTTON_A),
		"BUTTON_B":      fmt.Sprintf("%d", BUTTON_B),
		"BUTTON_SELECT": fmt.Sprintf("%d", BUTTON_SELECT),
		"BUTTON_START":  fmt.Sprintf("%d", BUTTON_START),
	})
}

// Rewind releases all buttons.
func (cc *Controller) Rewind() {
	cc.Buttons = 0
}

// Press holds down buttons.
func (cc *Controller) Press(buttons Button) {
	cc.Buttons |= buttons
}

// Release lets go of buttons.
func (cc *Controller) Release(buttons Button) {
	cc.Buttons &^= buttons
}

// Sync stores the button state to the latch.
func (cc *Controller) Sync(bus cpu.Memory) (err error) {
	bus.StoreByte(CONTROLLER, byte(cc.Buttons))
	return
}
