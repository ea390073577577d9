package emulator

import (
	"github.com/ezrec/popola/translate"
)

var f = translate.From

// ErrRuntime indicates the source line and code address of a fault.
type ErrRuntime struct {
	LineNo int    // Source line, or 0 if the address has no source.
	Pc     uint16 // Code address of the faulting instruction.
	Err    error
}

func (err *ErrRuntime) Error() string {
	if err.LineNo == 0 {
		return f("pc %04x: %v", err.Pc, err.Err)
	}
	return f("line %d (pc %04x): %v", err.LineNo, err.Pc, err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}
