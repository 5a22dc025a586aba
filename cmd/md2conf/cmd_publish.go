/*
Copyright © 2024 paul <paul@denknerd.org>
*/

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"

	"github.com/toothbrush/md2conf/converter"
	"github.com/toothbrush/md2conf/publish"
)

var publishUsage = strings.TrimSpace(`
Convert a Markdown file to Confluence storage format and publish it as a page in SPACEKEY (default:
your personal space).  The page is created when no page of that title exists yet, otherwise its
content is replaced.  Images the document refers to are uploaded as attachments.
`)

var (
	Ancestor      string
	Attachments   []string
	Contents      bool
	DeletePage    bool
	Simulate      bool
	EditorVersion int
	MarkdownSrc   string
	Labels        []string
	Properties    []string
	Title         string
	RemoveEmojis  bool
	Workers       int
)

var publishCmd = &cobra.Command{
	Use:   "publish FILE [SPACEKEY]",
	Short: "Publish a Markdown file to Confluence",
	Long:  publishUsage,
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := publishOptions(args)
		if err != nil {
			return err
		}

		p := &publish.Publisher{
			Workers:  Workers,
			Logger:   newLogger(),
			Out:      cmd.OutOrStdout(),
			Progress: cmd.ErrOrStderr(),
		}

		// A dry run never talks to Confluence, so it doesn't need credentials.
		if !opts.Simulate {
			api, done, err := newAPI(opts.SpaceKey)
			if err != nil {
				return err
			}
			defer done()
			p.Client = api
		}

		return p.Publish(cmd.Context(), opts)
	},
}

func init() {
	rootCmd.AddCommand(publishCmd)

	publishCmd.Flags().StringVarP(&Ancestor, "ancestor", "a", "", "title of the parent page or folder")
	publishCmd.Flags().StringSliceVarP(&Attachments, "attachment", "t", []string{}, "file to attach to the page, relative to FILE (repeatable)")
	publishCmd.Flags().BoolVarP(&Contents, "contents", "c", false, "add a table of contents to the top of the page")
	publishCmd.Flags().BoolVarP(&DeletePage, "delete", "d", false, "delete the page instead of publishing it")
	publishCmd.Flags().BoolVarP(&Simulate, "simulate", "s", false, "print the converted page and exit without publishing")
	publishCmd.Flags().IntVarP(&EditorVersion, "editor-version", "v", int(converter.EditorV2), "Confluence editor version, 1 or 2")
	publishCmd.Flags().StringVar(&MarkdownSrc, "markdown-src", string(converter.SourceDefault), "where FILE is hosted, for links between documents: default or bitbucket")
	publishCmd.Flags().StringSliceVar(&Labels, "label", []string{}, "label to add to the page (repeatable)")
	publishCmd.Flags().StringArrayVar(&Properties, "property", []string{}, "content property to set, as key=value (repeatable)")
	publishCmd.Flags().StringVar(&Title, "title", "", "page title (default: first line of FILE)")
	publishCmd.Flags().BoolVar(&RemoveEmojis, "remove-emojis", false, "strip emoji from the page")
	publishCmd.Flags().IntVar(&Workers, "workers", 0, "concurrent attachment uploads (default: GOMAXPROCS)")
}

// publishOptions checks the arguments and flags before anything goes over the
// wire.
func publishOptions(args []string) (publish.Options, error) {
	file, err := homedir.Expand(args[0])
	if err != nil {
		return publish.Options{}, fmt.Errorf("publish: couldn't expand %s: %w", args[0], err)
	}
	info, err := os.Stat(file)
	if err != nil {
		return publish.Options{}, fmt.Errorf("publish: markdown file: %w", err)
	}
	if info.IsDir() {
		return publish.Options{}, fmt.Errorf("publish: markdown file %s is a directory", file)
	}

	editor, err := converter.ParseEditorVersion(EditorVersion)
	if err != nil {
		return publish.Options{}, fmt.Errorf("publish: %w", err)
	}
	source, err := converter.ParseMarkdownSource(MarkdownSrc)
	if err != nil {
		return publish.Options{}, fmt.Errorf("publish: %w", err)
	}
	props, err := parseProperties(Properties)
	if err != nil {
		return publish.Options{}, err
	}

	return publish.Options{
		File:         file,
		Title:        Title,
		SpaceKey:     spaceKeyArg(args, 1),
		Ancestor:     Ancestor,
		Attachments:  Attachments,
		Labels:       Labels,
		Properties:   props,
		Simulate:     Simulate,
		Delete:       DeletePage,
		RemoveEmojis: RemoveEmojis,
		AddContents:  Contents,
		Editor:       editor,
		Source:       source,
	}, nil
}

// parseProperties turns key=value pairs into a map. Later pairs win.
func parseProperties(pairs []string) (map[string]string, error) {
	props := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("publish: property %q is not key=value", pair)
		}
		props[key] = value
	}
	return props, nil
}
