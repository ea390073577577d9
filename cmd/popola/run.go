package main

import (
	"fmt"
	goio "io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ezrec/popola/cpu"
	"github.com/ezrec/popola/emulator"
	"github.com/ezrec/popola/io"
)

var (
	runInput   string
	runOutput  string
	runRaw     bool
	runMax     int
	runButtons uint8
	runVideo   bool
	runState   bool
	runData    string
	runAt      uint16
	runDump    []string
)

// runCmd executes a program.
var runCmd = &cobra.Command{
	Use:   "run program",
	Short: "Run a Popola program",
	Long: `Run assembles and executes a Popola program, or executes a program
image when --raw is given. The tape reads from --input and writes to
--output; '-' selects standard input or output. The program stops when it
runs off the end of its image, on a fault, or after --max instructions.`,

	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		emu := emulator.NewEmulator()
		emu.Verbose = verbose

		emu.Program, err = program(emu, args[0], runRaw)
		if err != nil {
			return
		}

		if runInput == "-" {
			emu.Tape.Input = cmd.InOrStdin()
		} else {
			var inf *os.File
			inf, err = os.Open(runInput)
			if err != nil {
				return
			}
			defer inf.Close()
			emu.Tape.Input = inf
		}

		if runOutput == "-" {
			emu.Tape.Output = cmd.OutOrStdout()
		} else {
			var ouf *os.File
			ouf, err = os.Create(runOutput)
			if err != nil {
				return
			}
			defer closeOutput(ouf, &err)
			emu.Tape.Output = ouf
		}

		err = emu.Reset()
		if err != nil {
			return
		}
		emu.Controller.Press(io.Button(runButtons))

		if len(runData) != 0 {
			var data []byte
			data, err = os.ReadFile(runData)
			if err != nil {
				return
			}
			emu.MemSet(runAt, data)
		}

		count, done, err := emu.Run(runMax)
		if verbose {
			log.Printf("popola: %v instructions", count)
		}
		if err != nil {
			return
		}
		if !done {
			log.Printf("popola: stopped after %v instructions", count)
		}

		if runState || verbose {
			fmt.Fprint(cmd.ErrOrStderr(), emu.Cpu.String())
		}

		for _, region := range runDump {
			var addr uint16
			var size int
			addr, size, err = parseRegion(region)
			if err != nil {
				return
			}
			err = dumpMemory(cmd.ErrOrStderr(), addr, emu.MemGet(addr, size))
			if err != nil {
				return
			}
		}

		if runVideo {
			err = emu.Video.Dump(cmd.ErrOrStderr(), emu.Frame())
		}

		return
	},
}

func init() {
	runCmd.Flags().StringVarP(&runInput, "input", "i", "-", "Tape input")
	runCmd.Flags().StringVarP(&runOutput, "output", "o", "-", "Tape output")
	runCmd.Flags().BoolVar(&runRaw, "raw", false, "Program is an image, not source")
	runCmd.Flags().IntVarP(&runMax, "max", "n", 1_000_000, "Maximum instructions to execute")
	runCmd.Flags().Uint8Var(&runButtons, "buttons", 0, "Controller buttons held down")
	runCmd.Flags().BoolVar(&runVideo, "video", false, "Dump the video region on exit")
	runCmd.Flags().BoolVar(&runState, "state", false, "Dump the processor state on exit")
	runCmd.Flags().StringVar(&runData, "data", "", "File to load into data memory before running")
	runCmd.Flags().Uint16Var(&runAt, "data-addr", 0, "Data memory address for --data")
	runCmd.Flags().StringSliceVar(&runDump, "dump", nil, "Dump data memory regions (addr:size) on exit")

	rootCmd.AddCommand(runCmd)
}

// parseRegion parses an 'addr:size' memory region. Numbers use Go syntax,
// so '0x' selects hex.
func parseRegion(region string) (addr uint16, size int, err error) {
	start, length, ok := strings.Cut(region, ":")
	if !ok {
		err = fmt.Errorf("%v: expected addr:size", region)
		return
	}

	a64, err := strconv.ParseUint(start, 0, 16)
	if err != nil {
		return
	}

	s64, err := strconv.ParseUint(length, 0, 32)
	if err != nil {
		return
	}
	if s64 > cpu.MEMORY_SIZE {
		err = fmt.Errorf("%v: size out of range", region)
		return
	}

	addr, size = uint16(a64), int(s64)

	return
}

// dumpMemory writes data as rows of 16 hex bytes.
func dumpMemory(w goio.Writer, addr uint16, data []byte) (err error) {
	for len(data) != 0 {
		row := data[:min(16, len(data))]
		_, err = fmt.Fprintf(w, "%04X: % X\n", addr, row)
		if err != nil {
			return
		}
		addr += uint16(len(row))
		data = data[len(row):]
	}

	return
}
