// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"errors"
	"io"
	"log"
	"maps"
	"slices"
)

// Assembler is a two pass assembler for the Popola system.
//
// The first pass assigns a code address to every label and instruction.
// The second pass encodes every instruction, linking label addresses into
// jump and call operands. Every label definition assembles to a NOP at the
// label's address, so a label is always a valid jump target.
type Assembler struct {
	Parser           // Source parser; holds the equates.
	Verbose bool     // If set, verbosely logs the assembler actions.
	Opcode  []Opcode // List of generated opcodes.

	Label     map[string]uint16 // Map of labels to code addresses.
	labelLine map[string]int    // Map of labels to their defining line.
}

// selection is the pass one result for a statement.
type selection struct {
	inst     *Instruction
	operands []Operand
	err      error
}

// Assemble parses and assembles the input. Either a complete program is
// returned, or an *ErrAssembly listing every problem found, in line order.
func (asm *Assembler) Assemble(input io.Reader) (prog *Program, err error) {
	asm.Parser.Verbose = asm.Verbose

	var errs []error

	stmts, err := asm.Parser.Parse(input)
	if err != nil {
		var parse_err *ErrAssembly
		if !errors.As(err, &parse_err) {
			return
		}
		errs = append(errs, parse_err.Errs...)
	}

	prog, err = asm.Link(stmts)
	if err != nil {
		var link_err *ErrAssembly
		if !errors.As(err, &link_err) {
			return
		}
		errs = append(errs, link_err.Errs...)
	}

	if len(errs) != 0 {
		slices.SortStableFunc(errs, func(a, b error) int {
			return lineOf(a) - lineOf(b)
		})
		prog = nil
		err = &ErrAssembly{Errs: errs}
	}

	return
}

// lineOf returns the source line of an error, or 0.
func lineOf(err error) int {
	var syntax ErrSyntax
	if errors.As(err, &syntax) {
		return syntax.LineNo
	}
	return 0
}

// Link runs both assembler passes over parsed statements.
func (asm *Assembler) Link(stmts []Statement) (prog *Program, err error) {
	var errs []error

	asm.Opcode = asm.Opcode[:0]
	asm.Label = make(map[string]uint16, 16)
	asm.labelLine = make(map[string]int, 16)

	nop, _ := Select(MN_NOP, nil)

	// Pass one: addresses.
	selected := make([]selection, len(stmts))
	ip := 0
	for n := range stmts {
		stmt := &stmts[n]

		if len(stmt.Label) != 0 {
			first, dup := asm.labelLine[stmt.Label]
			if dup {
				errs = append(errs, ErrSyntax{LineNo: stmt.LineNo, Line: stmt.Line, Err: &ErrLabelDuplicate{
					Label:       stmt.Label,
					LineNo:      stmt.LineNo,
					FirstLineNo: first,
				}})
			} else {
				asm.labelLine[stmt.Label] = stmt.LineNo
				asm.Label[stmt.Label] = uint16(ip)
			}
			ip += nop.Width()
		}

		if !stmt.HasOpcode {
			continue
		}

		sel := &selected[n]
		sel.inst, sel.operands, sel.err = asm.selectInstruction(stmt)
		if sel.err == nil {
			ip += sel.inst.Width()
		}
	}

	if ip > MEMORY_SIZE {
		errs = append(errs, ErrProgramSize)
	}

	// Pass two: encoding.
	ip = 0
	for n := range stmts {
		stmt := &stmts[n]

		if len(stmt.Label) != 0 {
			asm.emit(Opcode{LineNo: stmt.LineNo, Ip: ip, Words: []string{stmt.Label + ":"}, Code: MakeCode(nop)})
			ip += nop.Width()
		}

		if !stmt.HasOpcode {
			continue
		}

		sel := selected[n]
		if sel.err != nil {
			errs = append(errs, ErrSyntax{LineNo: stmt.LineNo, Line: stmt.Line, Err: sel.err})
			continue
		}

		var label string
		args := make([]uint16, len(sel.operands))
		for i, operand := range sel.operands {
			switch operand.Mode {
			case MODE_REGISTER:
				args[i] = uint16(operand.Register)
			case MODE_LABEL:
				addr, ok := asm.Label[operand.Label]
				if !ok {
					errs = append(errs, ErrSyntax{LineNo: stmt.LineNo, Line: stmt.Line, Err: ErrLabelMissing(operand.Label)})
				}
				args[i] = addr
				label = operand.Label
			default:
				args[i] = operand.Value
			}
		}

		asm.emit(Opcode{LineNo: stmt.LineNo, Ip: ip, Words: stmt.Words, Code: MakeCode(sel.inst, args...), LinkLabel: label})
		ip += sel.inst.Width()
	}

	if len(errs) != 0 {
		err = &ErrAssembly{Errs: errs}
		return
	}

	prog = &Program{
		Opcodes: slices.Clone(asm.Opcode),
		Label:   maps.Clone(asm.Label),
	}

	return
}

// emit appends an opcode to the program.
func (asm *Assembler) emit(op Opcode) {
	if asm.Verbose {
		log.Printf("%04x: %v", op.Ip, op.Code)
	}
	asm.Opcode = append(asm.Opcode, op)
}

// selectInstruction finds the encoding for a statement's operand modes.
// An operand that was read as a literal, a register, or a bare XY is
// taken as a label reference if the mnemonic only accepts a label there
// and the text is an identifier.
func (asm *Assembler) selectInstruction(stmt *Statement) (inst *Instruction, operands []Operand, err error) {
	operands = slices.Clone(stmt.Operands)

	for _, enc := range Encodings(stmt.Mnemonic) {
		if len(enc.Modes) != len(operands) {
			continue
		}
		for i, mode := range enc.Modes {
			operand := &operands[i]
			if mode == MODE_LABEL && labelLike(operand) {
				operand.Mode = MODE_LABEL
				operand.Label = operand.Text
			}
		}
	}

	modes := make([]Mode, len(operands))
	for i, operand := range operands {
		modes[i] = operand.Mode
	}

	inst, err = Select(stmt.Mnemonic, modes)

	return
}

// labelLike returns true if an operand could also be read as a label.
func labelLike(operand *Operand) bool {
	switch operand.Mode {
	case MODE_IMMEDIATE, MODE_REGISTER, MODE_INDEXED:
		return reIdentifier.MatchString(operand.Text)
	}

	return false
}
