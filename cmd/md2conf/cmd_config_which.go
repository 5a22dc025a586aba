/*
Copyright © 2024 paul <paul@denknerd.org>
*/

package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var whichCmd = &cobra.Command{
	Use:   "which",
	Short: "Tell me the resolved config path",
	Long: `
Output the filename that's being used to store your config, and how it was chosen: --config,
$MD2CONF_CONFIG or the default location.
`,
	Args: cobra.ExactArgs(0),
	Run: func(cmd *cobra.Command, args []string) {
		state := "present"
		if _, err := os.Stat(Config); errors.Is(err, os.ErrNotExist) {
			state = "missing"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Config path: %s (%s, %s)\n", Config, ConfigSource, state)
	},
}

func init() {
	configCmd.AddCommand(whichCmd)
}
