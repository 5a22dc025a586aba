/*
Copyright © 2024 paul <paul@denknerd.org>
*/

package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/exp/maps"

	"github.com/toothbrush/md2conf/internal/termfmt"
)

var listSpacesUsage = strings.TrimSpace(`
If you want to find out what spaces your Confluence wiki has, use this command.
`)

var IncludePersonal bool

var listSpacesCmd = &cobra.Command{
	Use:   "spaces",
	Short: "Print list of spaces",
	Long:  listSpacesUsage,
	Args:  cobra.ExactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		api, done, err := newAPI("")
		if err != nil {
			return err
		}
		defer done()

		debugLog("Listing Confluence spaces in %s...\n", OrgName)
		spacesRemote, err := api.ListAllSpaces(cmd.Context(), OrgName, IncludePersonal)
		if err != nil {
			return fmt.Errorf("list: couldn't list Confluence spaces: %w", err)
		}
		debugLog("Found %d spaces on '%s'.\n", len(spacesRemote), OrgName)

		spaceKeys := maps.Keys(spacesRemote)
		sort.Strings(spaceKeys)

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "spaces:\n")
		for _, spaceKey := range spaceKeys {
			s := spacesRemote[spaceKey]
			link := api.URL() + "/spaces/" + spaceKey
			fmt.Fprintf(out, "  - %v: %s\n", termfmt.Bold().Linked(link).V(spaceKey), s.Name)
		}

		return nil
	},
}

func init() {
	listCmd.AddCommand(listSpacesCmd)

	listSpacesCmd.Flags().BoolVar(&IncludePersonal, "include-personal-spaces", false, "list individuals' personal spaces")
}
