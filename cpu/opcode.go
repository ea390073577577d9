package cpu

import (
	"fmt"
	"slices"
	"strings"
)

// Mnemonic is an instruction name.
type Mnemonic int

//go:generate go tool stringer -linecomment -type=Mnemonic
const (
	MN_NOP  = Mnemonic(0)  // NOP
	MN_LD   = Mnemonic(1)  // LD
	MN_ST   = Mnemonic(2)  // ST
	MN_ADD  = Mnemonic(3)  // ADD
	MN_SUB  = Mnemonic(4)  // SUB
	MN_CMP  = Mnemonic(5)  // CMP
	MN_INC  = Mnemonic(6)  // INC
	MN_DEC  = Mnemonic(7)  // DEC
	MN_JMP  = Mnemonic(8)  // JMP
	MN_JC   = Mnemonic(9)  // JC
	MN_JNC  = Mnemonic(10) // JNC
	MN_JZ   = Mnemonic(11) // JZ
	MN_JNZ  = Mnemonic(12) // JNZ
	MN_JP   = Mnemonic(13) // JP
	MN_JNP  = Mnemonic(14) // JNP
	MN_JS   = Mnemonic(15) // JS
	MN_JNS  = Mnemonic(16) // JNS
	MN_CALL = Mnemonic(17) // CALL
	MN_RET  = Mnemonic(18) // RET
	MN_PUSH = Mnemonic(19) // PUSH
	MN_POP  = Mnemonic(20) // POP
	MN_ADXY = Mnemonic(21) // ADXY
	MN_SBXY = Mnemonic(22) // SBXY

	mnemonicCount = 23
)

// mnemonicMap maps upper case mnemonic names.
var mnemonicMap = map[string]Mnemonic{}

// ParseMnemonic returns the mnemonic named by word, in any case.
func ParseMnemonic(word string) (mn Mnemonic, ok bool) {
	mn, ok = mnemonicMap[strings.ToUpper(word)]
	return
}

// Reserved returns true if the mnemonic is named by the instruction set but
// has no encoding.
func (mn Mnemonic) Reserved() bool {
	return len(byMnemonic[mn]) == 0
}

// execFunc executes a decoded instruction against the CPU state.
type execFunc func(cpu *Cpu, inst *Instruction, args []uint16)

// Instruction is an entry in the instruction table: one encoding of a
// mnemonic for a fixed list of operand modes.
type Instruction struct {
	Mnemonic Mnemonic
	Opcode   byte
	Modes    []Mode // Operand modes, in source order.

	exec execFunc
}

// Width returns the encoded size of the instruction, in bytes.
func (inst *Instruction) Width() (width int) {
	width = 1
	for _, mode := range inst.Modes {
		width += mode.Width()
	}
	return
}

// String returns the mnemonic and operand modes.
func (inst *Instruction) String() string {
	modes := make([]string, len(inst.Modes))
	for n, mode := range inst.Modes {
		modes[n] = mode.String()
	}
	return strings.TrimSpace(fmt.Sprintf("%v %v", inst.Mnemonic, strings.Join(modes, ",")))
}

var (
	modesNone     = []Mode{}
	modesReg      = []Mode{MODE_REGISTER}
	modesImm      = []Mode{MODE_IMMEDIATE}
	modesInd      = []Mode{MODE_INDIRECT}
	modesIdx      = []Mode{MODE_INDEXED}
	modesLabel    = []Mode{MODE_LABEL}
	modesRegReg   = []Mode{MODE_REGISTER, MODE_REGISTER}
	modesRegImm   = []Mode{MODE_REGISTER, MODE_IMMEDIATE}
	modesRegInd   = []Mode{MODE_REGISTER, MODE_INDIRECT}
	modesRegIdx   = []Mode{MODE_REGISTER, MODE_INDEXED}
	modesSource   = [][]Mode{modesReg, modesImm, modesInd, modesIdx}
	modesRegSrc   = [][]Mode{modesRegReg, modesRegImm, modesRegInd, modesRegIdx}
	modesRegStore = [][]Mode{modesRegInd, modesRegIdx}
)

// instructionTable is the instruction set. The assembler selects entries by
// mnemonic and operand modes; the CPU selects them by opcode.
var instructionTable = []Instruction{
	{MN_NOP, 0x00, modesNone, (*Cpu).execNop},

	{MN_LD, 0x10, modesRegSrc[0], (*Cpu).execLoad},
	{MN_LD, 0x11, modesRegSrc[1], (*Cpu).execLoad},
	{MN_LD, 0x12, modesRegSrc[2], (*Cpu).execLoad},
	{MN_LD, 0x13, modesRegSrc[3], (*Cpu).execLoad},

	{MN_ST, 0x22, modesRegStore[0], (*Cpu).execStore},
	{MN_ST, 0x23, modesRegStore[1], (*Cpu).execStore},

	{MN_ADD, 0x30, modesSource[0], (*Cpu).execAdd},
	{MN_ADD, 0x31, modesSource[1], (*Cpu).execAdd},
	{MN_ADD, 0x32, modesSource[2], (*Cpu).execAdd},
	{MN_ADD, 0x33, modesSource[3], (*Cpu).execAdd},

	{MN_SUB, 0x40, modesSource[0], (*Cpu).execSub},
	{MN_SUB, 0x41, modesSource[1], (*Cpu).execSub},
	{MN_SUB, 0x42, modesSource[2], (*Cpu).execSub},
	{MN_SUB, 0x43, modesSource[3], (*Cpu).execSub},

	{MN_CMP, 0x50, modesSource[0], (*Cpu).execCmp},
	{MN_CMP, 0x51, modesSource[1], (*Cpu).execCmp},
	{MN_CMP, 0x52, modesSource[2], (*Cpu).execCmp},
	{MN_CMP, 0x53, modesSource[3], (*Cpu).execCmp},

	{MN_INC, 0x60, modesNone, (*Cpu).execInc},
	{MN_DEC, 0x61, modesNone, (*Cpu).execDec},

	{MN_JMP, 0x70, modesLabel, (*Cpu).execJump},
	{MN_JC, 0x71, modesLabel, (*Cpu).execJump},
	{MN_JNC, 0x72, modesLabel, (*Cpu).execJump},
	{MN_JZ, 0x73, modesLabel, (*Cpu).execJump},
	{MN_JNZ, 0x74, modesLabel, (*Cpu).execJump},
	{MN_JP, 0x75, modesLabel, (*Cpu).execJump},
	{MN_JNP, 0x76, modesLabel, (*Cpu).execJump},
	{MN_JS, 0x77, modesLabel, (*Cpu).execJump},
	{MN_JNS, 0x78, modesLabel, (*Cpu).execJump},

	{MN_CALL, 0x80, modesLabel, (*Cpu).execCall},
	{MN_RET, 0x81, modesNone, (*Cpu).execRet},

	{MN_PUSH, 0x90, modesReg, (*Cpu).execPush},
	{MN_POP, 0x91, modesReg, (*Cpu).execPop},
}

// jumpCondition maps conditional jumps to the flag tested, and the state
// of the flag that takes the branch.
var jumpCondition = map[Mnemonic]struct {
	Flag Flag
	When bool
}{
	MN_JC:  {FLAG_C, true},
	MN_JNC: {FLAG_C, false},
	MN_JZ:  {FLAG_Z, true},
	MN_JNZ: {FLAG_Z, false},
	MN_JP:  {FLAG_P, true},
	MN_JNP: {FLAG_P, false},
	MN_JS:  {FLAG_S, true},
	MN_JNS: {FLAG_S, false},
}

var (
	byOpcode   [256]*Instruction
	byMnemonic = map[Mnemonic][]*Instruction{}
)

func init() {
	for mn := range Mnemonic(mnemonicCount) {
		mnemonicMap[mn.String()] = mn
	}

	for n := range instructionTable {
		inst := &instructionTable[n]
		if byOpcode[inst.Opcode] != nil {
			panic(fmt.Sprintf("opcode 0x%02x assigned twice", inst.Opcode))
		}
		byOpcode[inst.Opcode] = inst
		byMnemonic[inst.Mnemonic] = append(byMnemonic[inst.Mnemonic], inst)
	}
}

// Lookup returns the instruction encoded by an opcode byte.
func Lookup(opcode byte) (inst *Instruction, ok bool) {
	inst = byOpcode[opcode]
	ok = inst != nil
	return
}

// Select returns the encoding of a mnemonic for a list of operand modes.
func Select(mn Mnemonic, modes []Mode) (inst *Instruction, err error) {
	if mn.Reserved() {
		err = ErrInstructionReserved
		return
	}

	for _, inst = range byMnemonic[mn] {
		if slices.Equal(inst.Modes, modes) {
			return
		}
	}

	inst = nil
	err = ErrOpcodeMode
	return
}

// Encodings returns all encodings of a mnemonic.
func Encodings(mn Mnemonic) []*Instruction {
	return slices.Clone(byMnemonic[mn])
}

// Code is a single encoded instruction.
type Code struct {
	Opcode byte   // Opcode byte.
	Args   []byte // Operand bytes.
}

// MakeCode encodes an instruction with its operand values. Operand values
// are register ids, immediates, offsets, or addresses, per mode.
func MakeCode(inst *Instruction, args ...uint16) Code {
	if len(args) != len(inst.Modes) {
		panic(fmt.Sprintf("%v: %d operands given", inst, len(args)))
	}

	code := Code{Opcode: inst.Opcode}
	for n, mode := range inst.Modes {
		if mode.Width() == 2 {
			code.Args = append(code.Args, byte(args[n]>>8), byte(args[n]))
		} else {
			code.Args = append(code.Args, byte(args[n]))
		}
	}

	return code
}

// Bytes returns the encoded instruction.
func (code Code) Bytes() []byte {
	return append([]byte{code.Opcode}, code.Args...)
}

// Len returns the encoded size of the instruction.
func (code Code) Len() int {
	return 1 + len(code.Args)
}

// Decode returns the instruction table entry and the operand values.
func (code Code) Decode() (inst *Instruction, args []uint16, err error) {
	inst, ok := Lookup(code.Opcode)
	if !ok {
		err = ErrOpcodeDecode
		return
	}

	if len(code.Args) != inst.Width()-1 {
		err = ErrOpcodeTruncated
		return
	}

	args = make([]uint16, len(inst.Modes))
	pos := 0
	for n, mode := range inst.Modes {
		if mode.Width() == 2 {
			args[n] = uint16(code.Args[pos])<<8 | uint16(code.Args[pos+1])
		} else {
			args[n] = uint16(code.Args[pos])
		}
		pos += mode.Width()

		if mode == MODE_REGISTER && !Register(args[n]).Valid() {
			err = ErrOpcodeRegister
			return
		}
	}

	return
}

// String returns the assembly language representation of this instruction.
func (code Code) String() string {
	return code.Format(nil)
}

// Format returns the assembly language representation of this instruction,
// naming label operands with symbol. Addresses without a symbol are
// written in hex.
func (code Code) Format(symbol func(ip uint16) (string, bool)) string {
	inst, args, err := code.Decode()
	if err != nil {
		return fmt.Sprintf(".db %02Xh ; %v", code.Opcode, err)
	}

	words := make([]string, len(inst.Modes))
	for n, mode := range inst.Modes {
		arg := args[n]
		switch mode {
		case MODE_REGISTER:
			words[n] = Register(arg).String()
		case MODE_IMMEDIATE:
			words[n] = fmt.Sprintf("%d", arg)
		case MODE_INDIRECT:
			words[n] = fmt.Sprintf("#%04Xh", arg)
		case MODE_INDEXED:
			if arg == 0 {
				words[n] = "XY"
			} else {
				words[n] = fmt.Sprintf("XY+%d", arg)
			}
		case MODE_LABEL:
			words[n] = fmt.Sprintf("%04Xh", arg)
			if symbol == nil {
				break
			}
			if label, ok := symbol(arg); ok {
				words[n] = label
			}
		}
	}

	if len(words) == 0 {
		return inst.Mnemonic.String()
	}

	return inst.Mnemonic.String() + " " + strings.Join(words, ", ")
}
