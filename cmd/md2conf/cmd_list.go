/*
Copyright © 2024 paul <paul@denknerd.org>
*/

package main

import (
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Commands to list items",
	Long: `
Commands in this namespace are to help you explore the Confluence wiki, e.g. to find the key of the
space you want to publish to.
`,
}

func init() {
	rootCmd.AddCommand(listCmd)
}
