// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/ezrec/popola/cpu"
	"github.com/ezrec/popola/emulator"
)

var verbose bool

// rootCmd is the popola command.
var rootCmd = &cobra.Command{
	Use:   "popola",
	Short: "Popola fantasy console assembler and emulator",
	Long: `Popola is an 8-bit fantasy console. The asm command assembles
Popola assembly language into a program image, the dis command lists an
image, and the run command executes a program with the tape attached to
files or to standard input and output.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose mode")
}

// assemble assembles a source file, with the emulator defines.
func assemble(emu *emulator.Emulator, path string) (prog *cpu.Program, err error) {
	inf, err := os.Open(path)
	if err != nil {
		return
	}
	defer inf.Close()

	asm := emu.Assembler()
	prog, err = asm.Assemble(inf)

	return
}

// program loads a source file, or an image if raw is set.
func program(emu *emulator.Emulator, path string, raw bool) (prog *cpu.Program, err error) {
	if !raw {
		prog, err = assemble(emu, path)
		return
	}

	image, err := os.ReadFile(path)
	if err != nil {
		return
	}

	prog = cpu.Disassemble(image)

	return
}

// closeOutput closes an output file, reporting its error unless an
// earlier one is already set.
func closeOutput(c io.Closer, err *error) {
	cerr := c.Close()
	if *err == nil {
		*err = cerr
	}
}

func main() {
	log.SetFlags(0)

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
