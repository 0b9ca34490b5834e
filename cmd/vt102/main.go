// Command vt102 runs a VT102 terminal emulator against a host shell,
// drawing the emulated screen with tcell.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	shellCmd   string
	traceFlag  bool
	rowsFlag   int
	colsFlag   int
	answerback string
)

var rootCmd = &cobra.Command{
	Use:               "vt102",
	Short:             "A VT102-compatible terminal emulator",
	Version:           "1.0.0",
	RunE:              runEmulator,
	DisableAutoGenTag: true,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
}

func init() {
	rootCmd.Flags().StringVarP(&shellCmd, "shell", "s", defaultShell(), "command to run as the connected host process")
	rootCmd.Flags().BoolVar(&traceFlag, "trace", false, "log every control byte and every rejected byte at trace level")
	rootCmd.Flags().IntVar(&rowsFlag, "rows", 24, "terminal rows (unused: VT102 is fixed at 24 and the host pty is sized to the emulated screen)")
	rootCmd.Flags().IntVar(&colsFlag, "cols", 80, "initial terminal columns (80 or 132)")
	rootCmd.Flags().StringVar(&answerback, "answerback", "", "ENQ answerback string")
}

func defaultShell() string {
	if sh := os.Getenv("SHELL"); sh != "" {
		return sh
	}
	return "/bin/sh"
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "vt102: %v\n", err)
		os.Exit(1)
	}
}
