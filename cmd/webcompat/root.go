package main

import (
	"webcompat/internal/version"

	"github.com/spf13/cobra"
)

var (
	// formatFlag is the --format flag value; empty means the configured default
	formatFlag string
	verbosity  int
	quiet      bool
)

var rootCmd = &cobra.Command{
	Use:   "webcompat",
	Short: "webcompat - browser compatibility and Baseline lookups",
	Long: `webcompat answers browser compatibility questions from MDN
browser-compat-data (BCD) and the W3C WebDX web-features Baseline data.

Run "webcompat mcp" to serve the data to MCP clients over stdio, or use
the lookup commands directly from a terminal.`,
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.SetVersionTemplate("webcompat version {{.Version}}\n")
	rootCmd.PersistentFlags().StringVar(&formatFlag, "format", "",
		"Output format: markdown, json or yaml (default: output.defaultFormat)")
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase log verbosity (-v info, -vv debug)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress log output")
}
