/*
Copyright © 2024 paul <paul@denknerd.org>
*/

package main

import (
	"fmt"
	"runtime/debug"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var versionUsage = strings.TrimSpace(`
Show version information
`)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: versionUsage,
	Long:  versionUsage,
	RunE:  versionRun,
	Args:  cobra.ExactArgs(0),
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

// Version is set with -ldflags "-X main.Version=..." on release builds.
var Version = "unknown"

func versionRun(cmd *cobra.Command, args []string) error {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return fmt.Errorf("version: could not read build info")
	}
	v := buildVersion(Version, info)
	fmt.Fprintf(cmd.OutOrStdout(), "md2conf version %s\n", v)
	return nil
}

// buildVersion combines the release tag with the VCS stamp go build embeds,
// e.g. v1.2.0-rev-abc123-dirty.
func buildVersion(version string, info *debug.BuildInfo) string {
	if (version == "unknown" || version == "") && info.Main.Version != "" {
		version = info.Main.Version
	}
	settings := map[string]string{}
	for _, kv := range info.Settings {
		settings[kv.Key] = kv.Value
	}

	var parts []string
	if version != "unknown" && version != "(devel)" && version != "" {
		parts = append(parts, version)
	}
	if rev := settings["vcs.revision"]; rev != "" {
		parts = append(parts, "rev", rev)
		if settings["vcs.modified"] == "true" {
			parts = append(parts, "dirty")
		}
	}
	if t, err := time.Parse(time.RFC3339, settings["vcs.time"]); err == nil {
		debugLog("last commit: %s\n", t.Format(time.RFC3339))
	}

	if len(parts) == 0 {
		return "devel"
	}
	return strings.Join(parts, "-")
}
