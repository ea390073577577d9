package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/ezrec/popola/cpu"
)

var disSource bool

// disCmd lists a program image.
var disCmd = &cobra.Command{
	Use:   "dis image",
	Short: "Disassemble a Popola program image",
	Long: `Dis lists a Popola program image. Jump and call targets that hold a
NOP are named as labels. With --source, the output is plain assembly
source that assembles back to the same image.`,

	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		image, err := os.ReadFile(args[0])
		if err != nil {
			return
		}

		prog := cpu.Disassemble(image)
		if disSource {
			err = prog.Source(cmd.OutOrStdout())
		} else {
			err = prog.Listing(cmd.OutOrStdout())
		}

		return
	},
}

func init() {
	disCmd.Flags().BoolVarP(&disSource, "source", "s", false, "Write assembly source instead of a listing")

	rootCmd.AddCommand(disCmd)
}
