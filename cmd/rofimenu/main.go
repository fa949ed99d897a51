package main

import (
	"context"
	"fmt"
	"os"

	"github.com/aledsdavies/rofimenu/internal/driver"
	"github.com/aledsdavies/rofimenu/internal/wireio"
	"github.com/spf13/cobra"
)

func main() {
	var debug bool

	rootCmd := &cobra.Command{
		Use:   "rofimenu [input]",
		Short: "Stack-driven menu driver for a row-based selector host",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 2 && args[0] == "unjson5" {
				return runUnjson5(args[1])
			}
			if len(args) > 1 {
				return fmt.Errorf("unexpected extra argument %q", args[1])
			}
			var input string
			if len(args) == 1 {
				input = args[0]
			}
			return driver.New(debug).Run(context.Background(), input)
		},
	}

	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "trace driver state transitions to stderr")
	rootCmd.SilenceUsage = true

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "rofimenu: %v\n", err)
		os.Exit(1)
	}
}

// runUnjson5 backs the root command's `unjson5 <literal>` form
// (spec.md §4.6): reformat a JSON5 literal as strict JSON on standard
// output.
func runUnjson5(literal string) error {
	out, err := wireio.ToJSON([]byte(literal))
	if err != nil {
		return err
	}
	_, err = fmt.Println(string(out))
	return err
}
