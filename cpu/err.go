package cpu

import (
	"errors"
	"strings"

	"github.com/ezrec/popola/translate"
)

var f = translate.From

var (
	// Cpu errors
	ErrIpEmpty = errors.New(f("ip empty"))

	// Instruction decode errors
	ErrOpcodeDecode    = errors.New(f("decode"))
	ErrOpcodeTruncated = errors.New(f("truncated"))
	ErrOpcodeRegister  = errors.New(f("register invalid"))

	// Assembler errors
	ErrEquateSyntax        = errors.New(f(".equ syntax"))
	ErrEquateDuplicate     = errors.New(f(".equ duplicated"))
	ErrLabelSyntax         = errors.New(f("label invalid"))
	ErrOpcodeInvalid       = errors.New(f("opcode invalid"))
	ErrOpcodeMode          = errors.New(f("addressing mode invalid"))
	ErrOperandMissing      = errors.New(f("operand missing"))
	ErrInstructionReserved = errors.New(f("instruction reserved"))
	ErrProgramSize         = errors.New(f("program exceeds code space"))
)

// ErrOpcode is a decode fault at a program counter.
type ErrOpcode struct {
	Pc     uint16
	Opcode byte
	Err    error
}

func (eo ErrOpcode) Error() string {
	return f("bad opcode 0x%02x at 0x%04x: %v", eo.Opcode, eo.Pc, eo.Err)
}

func (eo ErrOpcode) Unwrap() error {
	return eo.Err
}

func (eo ErrOpcode) Is(err error) (ok bool) {
	_, ok = err.(ErrOpcode)
	return
}

type ErrLabelMissing string

func (el ErrLabelMissing) Error() string {
	return f("label %v missing", string(el))
}

// ErrLabelDuplicate identifies both definitions of a label.
type ErrLabelDuplicate struct {
	Label       string
	LineNo      int
	FirstLineNo int
}

func (err *ErrLabelDuplicate) Error() string {
	return f("label %v duplicated, first defined on line %d", err.Label, err.FirstLineNo)
}

type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}

// ErrAssembly collects every error found while assembling a source.
type ErrAssembly struct {
	Errs []error
}

func (err *ErrAssembly) Error() string {
	lines := make([]string, len(err.Errs))
	for n, e := range err.Errs {
		lines[n] = e.Error()
	}
	return strings.Join(lines, "\n")
}

func (err *ErrAssembly) Unwrap() []error {
	return err.Errs
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

type ErrParseRange string

func (err ErrParseRange) Error() string {
	return f("'%v' is out of range", string(err))
}

type ErrParseCharacter string

func (err ErrParseCharacter) Error() string {
	return f("'%v' is not a character", string(err))
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}
