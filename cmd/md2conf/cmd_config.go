/*
Copyright © 2024 paul <paul@denknerd.org>
*/

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"
)

var configUsage = strings.TrimSpace(`
Commands in this namespace are to help you configure the app.  Find out what the current config is,
learn where it's being read from, or write a starting point.
`)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Commands to work with the app config",
	Long:  configUsage,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with your current settings",
	Long: `
Save the persistent flags you passed (except the API key) to the config file, so you don't need to
repeat them.  An existing file is never overwritten.
`,
	Args:        cobra.ExactArgs(0),
	Annotations: map[string]string{configOptional: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		content, err := starterConfig()
		if err != nil {
			return err
		}

		f, err := os.OpenFile(Config, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
		if err != nil {
			return fmt.Errorf("config: couldn't create %s: %w", Config, err)
		}
		defer f.Close()

		if _, err := f.Write(content); err != nil {
			return fmt.Errorf("config: couldn't write %s: %w", Config, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", Config)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
}

// starterConfig renders the connection settings in effect. Secrets stay out:
// point auth-token-cmd at a password manager instead.
func starterConfig() ([]byte, error) {
	cfg := struct {
		OrgName      string   `yaml:"orgname"`
		AuthUsername string   `yaml:"auth-username"`
		AuthTokenCmd []string `yaml:"auth-token-cmd,omitempty"`
		NoSSL        bool     `yaml:"nossl,omitempty"`
	}{
		OrgName:      OrgName,
		AuthUsername: AuthUsername,
		AuthTokenCmd: AuthTokenCmd,
		NoSSL:        NoSSL,
	}
	content, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("config: couldn't render config: %w", err)
	}
	return content, nil
}
