// Command bitsctl decodes and evaluates BITS transmissions.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "bitsctl",
		Short: "Decode and evaluate BITS transmissions",
		Long: `bitsctl decodes hexadecimal BITS transmissions into packet trees.

The transmission is taken from the first argument, from --file, or from the
first line of standard input, in that order.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "TOML config file")
	flags.StringVarP(&opts.file, "file", "f", "", "read the transmission from a file")
	flags.IntVar(&opts.maxDepth, "max-depth", 0, "maximum packet nesting depth")
	flags.BoolVar(&opts.strict, "strict", false, "reject non-zero trailing bits")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(
		decodeCmd(opts),
		sumCmd(opts),
		evalCmd(opts),
		encodeLiteralCmd(opts),
		versionCmd(),
	)

	return rootCmd
}
