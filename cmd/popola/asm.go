package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/ezrec/popola/emulator"
)

var (
	asmOutput  string
	asmListing bool
)

// asmCmd assembles a source file.
var asmCmd = &cobra.Command{
	Use:   "asm source",
	Short: "Assemble a Popola source file",
	Long: `Asm assembles a Popola source file. Every error in the source is
reported, and no image is written unless the source assembled cleanly.
The memory map and peripheral addresses are predefined as equates.`,

	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		emu := emulator.NewEmulator()
		emu.Verbose = verbose

		prog, err := assemble(emu, args[0])
		if err != nil {
			return
		}

		if asmListing {
			err = prog.Listing(cmd.OutOrStdout())
			if err != nil {
				return
			}
		}

		if len(asmOutput) != 0 {
			err = os.WriteFile(asmOutput, prog.Binary(), 0o644)
		}

		return
	},
}

func init() {
	asmCmd.Flags().StringVarP(&asmOutput, "output", "o", "", "Program image to write")
	asmCmd.Flags().BoolVarP(&asmListing, "listing", "l", false, "Write a listing to standard output")

	rootCmd.AddCommand(asmCmd)
}
