package main

import (
	"errors"
	"fmt"
	"os"
	"runtime"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/ssh/terminal"

	"github.com/nuqtool/nuq/internal/version"
	"github.com/nuqtool/nuq/pkg/flagutil"
	"github.com/nuqtool/nuq/pkg/nuq"
)

// flags are the configuration flags for nuq
type flags struct {
	Debug        bool
	InputFormat  string
	OutputFormat string
	ProgramFile  string
	Raw          bool
	Slurp        bool
	Pretty       bool
	Color        flagutil.ColorMode
	PrintVersion bool
}

func runCmdFunc(cmd *cobra.Command, args []string, flags flags) error {
	if flags.Debug {
		logrus.SetLevel(logrus.DebugLevel)
	}

	if flags.PrintVersion {
		fmt.Print(version.UsageVersion())
		return nil
	}

	var program string
	if flags.ProgramFile != "" {
		programBytes, err := os.ReadFile(flags.ProgramFile)
		if err != nil {
			return fmt.Errorf("unable to read --program-file %s: err %v", flags.ProgramFile, err)
		}
		program = string(programBytes)
	} else if len(args) >= 1 {
		program = args[0]
		args = args[1:]
	} else {
		return errors.New("no jq program provided")
	}

	var files []nuq.File
	if len(args) == 0 {
		if terminal.IsTerminal(int(os.Stdin.Fd())) {
			return errors.New("no input files provided")
		}
		files = []nuq.File{nuq.NewFile("/dev/stdin", os.Stdin)}
	} else {
		// Verify all files exist, and open them.
		for _, path := range args {
			file, err := nuq.OpenFile(path)
			if err != nil {
				return err
			}
			files = append(files, file)
		}
	}

	runFlags := nuq.Flags{
		InputFormat:  flags.InputFormat,
		OutputFormat: flags.OutputFormat,
		Raw:          flags.Raw,
		Slurp:        flags.Slurp,
		Pretty:       flags.Pretty,
		Color:        shouldColor(flags),
	}

	return nuq.Run(os.Stdout, files, program, runFlags)
}

// shouldColor resolves the tri-state color flag. In auto mode color is on
// only when stdout is a terminal and the output is re-encoded rather than
// raw. Windows terminals usually mangle escape codes, so auto never
// colorizes there.
func shouldColor(flags flags) bool {
	switch flags.Color {
	case flagutil.ColorAlways:
		return true
	case flagutil.ColorNever:
		return false
	}
	if runtime.GOOS == "windows" || flags.Raw {
		return false
	}
	return terminal.IsTerminal(int(os.Stdout.Fd()))
}
