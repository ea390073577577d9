package cpu

import (
	"fmt"
	"io"
	"iter"
	"maps"
	"slices"
	"strings"
)

// Opcode represents a line of assembled code with its source location and
// generated instruction.
type Opcode struct {
	LineNo    int      // Source line number.
	Ip        int      // Code address of the instruction.
	Words     []string // Source words that produced the instruction.
	Code      Code     // Encoded instruction.
	LinkLabel string   // Label whose address was linked into the code.
}

// Program is an assembled program: its opcodes, in address order, and its
// label table.
type Program struct {
	Opcodes []Opcode
	Label   map[string]uint16
}

type Debug struct {
	*Opcode
	Index int
}

// Debug returns the opcode containing a code address, and the offset of
// the address within it.
func (prog *Program) Debug(ip uint16) (dbg Debug) {
	for n, op := range prog.Opcodes {
		if int(ip) >= op.Ip && int(ip) < op.Ip+op.Code.Len() {
			dbg = Debug{
				Opcode: &prog.Opcodes[n],
				Index:  int(ip) - op.Ip,
			}
			break
		}
	}

	return
}

// Binary returns the program image.
func (prog *Program) Binary() (image []byte) {
	for _, code := range prog.Codes() {
		image = append(image, code.Bytes()...)
	}

	return
}

// Codes iterates over the encoded instructions and their code addresses.
func (prog *Program) Codes() iter.Seq2[uint16, Code] {
	return func(yield func(ip uint16, code Code) bool) {
		for _, op := range prog.Opcodes {
			if !yield(uint16(op.Ip), op.Code) {
				return
			}
		}
	}
}

// Symbol returns the label defined at a code address.
func (prog *Program) Symbol(ip uint16) (label string, ok bool) {
	for _, name := range slices.Sorted(maps.Keys(prog.Label)) {
		if prog.Label[name] == ip {
			return name, true
		}
	}

	return
}

// text returns the assembly text of an opcode, naming jump targets by
// their labels.
func (prog *Program) text(op *Opcode) string {
	if len(op.Words) == 1 && strings.HasSuffix(op.Words[0], ":") {
		return op.Words[0]
	}

	return op.Code.Format(prog.Symbol)
}

// Listing writes an address, bytes, and disassembly line for every opcode.
func (prog *Program) Listing(w io.Writer) (err error) {
	for n := range prog.Opcodes {
		op := &prog.Opcodes[n]

		var hex []string
		for _, b := range op.Code.Bytes() {
			hex = append(hex, fmt.Sprintf("%02X", b))
		}

		_, err = fmt.Fprintf(w, "%04X  %-12s %5d  %v\n", op.Ip, strings.Join(hex, " "), op.LineNo, prog.text(op))
		if err != nil {
			return
		}
	}

	return
}

// Source writes the program as assembly source that assembles back to the
// same image.
func (prog *Program) Source(w io.Writer) (err error) {
	for n := range prog.Opcodes {
		op := &prog.Opcodes[n]

		text := prog.text(op)
		if !strings.HasSuffix(text, ":") {
			text = "\t" + text
		}

		_, err = fmt.Fprintln(w, text)
		if err != nil {
			return
		}
	}

	return
}

// Disassemble recovers a program from an image. Bytes that do not decode
// become single byte opcodes. A jump or call target holding a NOP is named
// as a label.
func Disassemble(image []byte) (prog *Program) {
	prog = &Program{Label: map[string]uint16{}}

	index := map[int]int{}
	for ip := 0; ip < len(image); {
		code := Code{Opcode: image[ip]}
		inst, ok := Lookup(code.Opcode)
		if ok && ip+inst.Width() <= len(image) {
			code.Args = slices.Clone(image[ip+1 : ip+inst.Width()])
		}

		index[ip] = len(prog.Opcodes)
		prog.Opcodes = append(prog.Opcodes, Opcode{Ip: ip, Code: code})
		ip += code.Len()
	}

	for _, op := range prog.Opcodes {
		inst, args, err := op.Code.Decode()
		if err != nil {
			continue
		}
		for n, mode := range inst.Modes {
			if mode != MODE_LABEL {
				continue
			}
			target, ok := index[int(args[n])]
			if !ok {
				continue
			}
			target_inst, ok := Lookup(prog.Opcodes[target].Code.Opcode)
			if ok && target_inst.Mnemonic == MN_NOP {
				prog.Label[fmt.Sprintf("L%04X", args[n])] = args[n]
			}
		}
	}

	for n := range prog.Opcodes {
		op := &prog.Opcodes[n]
		if label, ok := prog.Symbol(uint16(op.Ip)); ok {
			op.Words = []string{label + ":"}
			continue
		}
		op.Words = strings.Fields(strings.ReplaceAll(op.Code.Format(prog.Symbol), ",", ""))
	}

	return
}
