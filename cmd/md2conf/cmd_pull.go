/*
Copyright © 2024 paul <paul@denknerd.org>
*/

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/toothbrush/md2conf/pull"
)

var pullUsage = strings.TrimSpace(`
Fetch the page called TITLE from SPACEKEY (default: your personal space) and turn it back into
Markdown, with a YAML header describing where it came from.  Without --output the document is
printed.  A file written by an earlier pull is only replaced when the page has a new version, or with
--force.
`)

var (
	Output string
	Force  bool
)

var pullCmd = &cobra.Command{
	Use:   "pull TITLE [SPACEKEY]",
	Short: "Download a Confluence page as Markdown",
	Long:  pullUsage,
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		spaceKey := spaceKeyArg(args, 1)
		api, done, err := newAPI(spaceKey)
		if err != nil {
			return err
		}
		defer done()

		puller := &pull.Puller{
			Client:   api,
			BaseURI:  api.BaseURI,
			SpaceKey: spaceKey,
			Logger:   newLogger(),
		}
		if Output != "" {
			written, err := puller.PullFile(cmd.Context(), args[0], Output, Force)
			if err != nil {
				return err
			}
			if written {
				debugLog("wrote %q to %s\n", args[0], Output)
			}
			return nil
		}

		doc, err := puller.Pull(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		content, err := doc.Render()
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(cmd.OutOrStdout(), content)
		return err
	},
}

func init() {
	rootCmd.AddCommand(pullCmd)

	pullCmd.Flags().StringVar(&Output, "output", "", "file to write the Markdown to")
	pullCmd.Flags().BoolVarP(&Force, "force", "f", false, "rewrite --output even if it holds the current version")
}
