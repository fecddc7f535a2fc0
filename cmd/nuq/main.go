package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/nuqtool/nuq/pkg/flagutil"
)

func main() {
	var flags flags

	colorFlag := flagutil.NewColorFlag(&flags.Color)

	var rootCmd = &cobra.Command{
		Use:   "nuq [flags] [program] [files...]",
		Short: "multi-format frontend for jq",
		Long: `nuq runs a jq program against structured data in any supported format.
Inputs are converted to JSON, processed with jq, and the results are
re-encoded in the requested output format (the input format by default).

Supported formats:
- JSON
- RON
- TOML
- YAML

When no format is declared, the file extension decides; failing that, the
content is sniffed by trying each format's parser in a fixed order.

$NUQ_FORMATTER can be set to terminal, terminal16m, json, tokens, html.
$NUQ_STYLE can be set to any of the following themes:
https://xyproto.github.io/splash/docs/
`,
		DisableFlagsInUseLine: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCmdFunc(cmd, args, flags)
		},
	}

	rootCmd.Flags().BoolVar(&flags.Debug, "debug", false, "enable debug logging")
	rootCmd.Flags().StringVarP(&flags.InputFormat, "input-format", "f", "auto", "input format, guessed by extension or content when auto")
	rootCmd.Flags().StringVarP(&flags.OutputFormat, "output-format", "o", "auto", "output format, defaults to the input format")
	rootCmd.Flags().StringVarP(&flags.ProgramFile, "program-file", "F", "", "If specified, read the file provided as the jq program for nuq.")
	rootCmd.Flags().BoolVarP(&flags.Raw, "raw", "r", false, "if jq outputs a JSON string, print only the contained plain text")
	rootCmd.Flags().BoolVarP(&flags.Slurp, "slurp", "s", false, "read (slurp) all inputs into an array; apply the program to it")
	rootCmd.Flags().BoolVarP(&flags.Pretty, "pretty", "p", false, "pretty-print the output where the format supports it")
	rootCmd.Flags().VarP(colorFlag, "color", "c", "colorize the output: auto, always, never")
	rootCmd.Flags().BoolVarP(&flags.PrintVersion, "version", "v", false, "Print the version and exit.")

	_ = rootCmd.Flags().MarkHidden("debug")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
