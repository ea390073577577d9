package cpu

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOpcodeTable(t *testing.T) {
	assert := assert.New(t)

	for _, inst := range instructionTable {
		found, ok := Lookup(inst.Opcode)
		assert.True(ok, inst.String())
		assert.Equal(inst.Mnemonic, found.Mnemonic)

		selected, err := Select(inst.Mnemonic, inst.Modes)
		assert.NoError(err, inst.String())
		assert.Equal(inst.Opcode, selected.Opcode)
	}

	for mn := range Mnemonic(mnemonicCount) {
		parsed, ok := ParseMnemonic(strings.ToLower(mn.String()))
		assert.True(ok)
		assert.Equal(mn, parsed)

		switch mn {
		case MN_ADXY, MN_SBXY:
			assert.True(mn.Reserved(), mn.String())
		default:
			assert.False(mn.Reserved(), mn.String())
			assert.NotEqual(0, len(Encodings(mn)), mn.String())
		}
	}

	_, ok := ParseMnemonic("JPE")
	assert.False(ok)
}

func TestOpcodeWidth(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		mn    Mnemonic
		modes []Mode
		width int
	}){
		{MN_NOP, nil, 1},
		{MN_LD, []Mode{MODE_REGISTER, MODE_REGISTER}, 3},
		{MN_LD, []Mode{MODE_REGISTER, MODE_IMMEDIATE}, 3},
		{MN_LD, []Mode{MODE_REGISTER, MODE_INDIRECT}, 4},
		{MN_LD, []Mode{MODE_REGISTER, MODE_INDEXED}, 3},
		{MN_ST, []Mode{MODE_REGISTER, MODE_INDIRECT}, 4},
		{MN_ADD, []Mode{MODE_INDIRECT}, 3},
		{MN_CMP, []Mode{MODE_IMMEDIATE}, 2},
		{MN_JNZ, []Mode{MODE_LABEL}, 3},
		{MN_CALL, []Mode{MODE_LABEL}, 3},
		{MN_RET, nil, 1},
		{MN_PUSH, []Mode{MODE_REGISTER}, 2},
	}

	for _, entry := range table {
		inst, err := Select(entry.mn, entry.modes)
		assert.NoError(err, entry.mn.String())
		if err == nil {
			assert.Equal(entry.width, inst.Width(), inst.String())
		}
	}

	_, err := Select(MN_ST, []Mode{MODE_REGISTER, MODE_IMMEDIATE})
	assert.Equal(ErrOpcodeMode, err)

	_, err = Select(MN_ADXY, nil)
	assert.Equal(ErrInstructionReserved, err)
}

func TestCodeString(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		code Code
		text string
	}){
		{MakeCode(mustSelect(MN_NOP)), "NOP"},
		{MakeCode(mustSelect(MN_LD, MODE_REGISTER, MODE_IMMEDIATE), uint16(REG_A), 5), "LD A, 5"},
		{MakeCode(mustSelect(MN_LD, MODE_REGISTER, MODE_REGISTER), uint16(REG_X), uint16(REG_C)), "LD X, C"},
		{MakeCode(mustSelect(MN_LD, MODE_REGISTER, MODE_INDIRECT), uint16(REG_B), 0x1234), "LD B, #1234h"},
		{MakeCode(mustSelect(MN_ST, MODE_REGISTER, MODE_INDEXED), uint16(REG_A), 0), "ST A, XY"},
		{MakeCode(mustSelect(MN_ST, MODE_REGISTER, MODE_INDEXED), uint16(REG_A), 3), "ST A, XY+3"},
		{MakeCode(mustSelect(MN_JMP, MODE_LABEL), 0x10), "JMP 0010h"},
		{MakeCode(mustSelect(MN_POP, MODE_REGISTER), uint16(REG_Y)), "POP Y"},
	}

	for _, entry := range table {
		assert.Equal(entry.text, entry.code.String())
	}

	assert.True(strings.HasPrefix(Code{Opcode: 0xff}.String(), ".db FFh ; "))
	assert.True(strings.HasPrefix(Code{Opcode: 0x90, Args: []byte{0x09}}.String(), ".db 90h ; "))
}

func TestCodeDecode(t *testing.T) {
	assert := assert.New(t)

	code := Code{Opcode: 0x12, Args: []byte{0x02, 0xab, 0xcd}}
	inst, args, err := code.Decode()
	assert.NoError(err)
	assert.Equal(MN_LD, inst.Mnemonic)
	assert.Equal([]uint16{uint16(REG_C), 0xabcd}, args)
	assert.Equal([]byte{0x12, 0x02, 0xab, 0xcd}, code.Bytes())
	assert.Equal(4, code.Len())

	_, _, err = Code{Opcode: 0x12, Args: []byte{0x02, 0xab}}.Decode()
	assert.Equal(ErrOpcodeTruncated, err)

	_, _, err = Code{Opcode: 0x01}.Decode()
	assert.Equal(ErrOpcodeDecode, err)

	assert.Panics(func() { MakeCode(mustSelect(MN_NOP), 1) })
}

func TestFlags(t *testing.T) {
	assert := assert.New(t)

	var flags Flags
	assert.Equal("----", flags.String())

	flags.Set(FLAG_S, true)
	flags.Set(FLAG_C, true)
	assert.Equal("S--C", flags.String())
	assert.Equal(Flags(0b1001), flags)

	flags.Set(FLAG_C, false)
	flags.Set(FLAG_Z, true)
	flags.Set(FLAG_P, true)
	assert.Equal("SPZ-", flags.String())
	assert.True(flags.Has(FLAG_Z))
	assert.False(flags.Has(FLAG_C))

	assert.Equal("C", FLAG_C.String())
	assert.Equal("Z", FLAG_Z.String())
	assert.Equal("P", FLAG_P.String())
	assert.Equal("S", FLAG_S.String())
}

func TestRegister(t *testing.T) {
	assert := assert.New(t)

	for reg := REG_A; reg <= REG_Y; reg++ {
		assert.True(reg.Valid())
		parsed, ok := ParseRegister(strings.ToLower(reg.String()))
		assert.True(ok)
		assert.Equal(reg, parsed)
	}

	assert.False(Register(REGISTER_COUNT).Valid())
	assert.False(Register(-1).Valid())

	_, ok := ParseRegister("XY")
	assert.False(ok)
}
