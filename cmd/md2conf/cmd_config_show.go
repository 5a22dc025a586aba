/*
Copyright © 2024 paul <paul@denknerd.org>
*/

package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/toothbrush/md2conf/internal/termfmt"
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Output current config",
	Long: `
Is something not working for you?  Have a look whether your config is as you expect.
`,
	Args: cobra.ExactArgs(0),
	Run: func(cmd *cobra.Command, args []string) {
		showConfig(cmd.OutOrStdout())
	},
}

func init() {
	configCmd.AddCommand(showCmd)
}

// Only persistent flags are visible here, command-specific ones are not
// parsed.
func showConfig(out io.Writer) {
	key := termfmt.Fg(termfmt.Cyan)
	secret := "(unset)"
	if APIKey != "" {
		secret = "(set)"
	}
	parsed := ParsedConfig
	if parsed.APIKey != "" {
		parsed.APIKey = "(set)"
	}

	fmt.Fprintf(out, "Dump current config state:\n\n")
	fmt.Fprintf(out, "  %v: %s\n", key.V("Config file"), Config)
	fmt.Fprintf(out, "  %v: %v\n", key.V("Debug"), Debug)
	fmt.Fprintln(out)
	fmt.Fprintf(out, "  %v:\n%#v\n", key.V("Parsed YAML"), parsed)
	fmt.Fprintln(out)
	fmt.Fprintf(out, "  %v: %s\n", key.V("AuthUsername"), AuthUsername)
	fmt.Fprintf(out, "  %v: %s\n", key.V("APIKey"), secret)
	fmt.Fprintf(out, "  %v: %v\n", key.V("AuthTokenCmd"), AuthTokenCmd)
	fmt.Fprintf(out, "  %v: %s\n", key.V("OrgName"), OrgName)
	fmt.Fprintf(out, "  %v: %v\n", key.V("NoSSL"), NoSSL)
	fmt.Fprintf(out, "  %v: %v\n", key.V("WithVCR"), WithVCR)
}
