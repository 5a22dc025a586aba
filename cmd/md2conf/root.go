/*
Copyright © 2024 paul <paul@denknerd.org>
*/

package main

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"reflect"
	"strings"

	"github.com/fatih/structs"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"go.uber.org/automaxprocs/maxprocs"
	"gopkg.in/yaml.v2"

	"github.com/toothbrush/md2conf/confluence"
	"github.com/toothbrush/md2conf/internal/termfmt"
	"github.com/toothbrush/md2conf/internal/vcr"
)

const defaultConfig = "~/.config/md2conf.yaml"

// Commands annotated with configOptional run without a config file, even one
// named explicitly.
const configOptional = "config-optional"

var (
	// Store the result of binding cobra flags
	Config  string
	Debug   bool
	NoSSL   bool
	NoColor bool
	// Record and replay Confluence traffic under fixtures/
	WithVCR bool

	// Command to run to retrieve API Personal Access Token
	AuthTokenCmd []string

	AuthUsername string
	APIKey       string
	OrgName      string

	ParsedConfig YamlConfig
	// Where Config came from: "flag", "environment" or "default".
	ConfigSource string
)

// Environment variables that stand in for unset flags. They beat the config
// file but lose against the command line.
var envBindings = map[string]string{
	"auth-username": "CONFLUENCE_USERNAME",
	"api-key":       "CONFLUENCE_API_KEY",
	"orgname":       "CONFLUENCE_ORGNAME",
}

// Build the cobra command that handles our command line tool.
var rootCmd = &cobra.Command{
	Use:   "md2conf",
	Short: "Publish Markdown documents to Confluence",
	Long: `
Write documentation in Markdown, next to your code, and publish it to a Confluence space.  md2conf
converts the document into Confluence storage format, turning admonitions, code blocks, tables of
contents and footnotes into their Confluence macros, and uploads the images it refers to.
`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := initializeConfig(cmd); err != nil {
			return fmt.Errorf("md2conf: failed to initialise config: %w", err)
		}

		termfmt.SetEnabled(!NoColor)

		// An invalid GOMAXPROCS leaves the runtime default in place.
		_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...any) {
			debugLog(format+"\n", args...)
		}))
		return nil
	},
}

func init() {
	// Define cobra flags, the default value has the lowest (least significant) precedence
	rootCmd.PersistentFlags().StringVar(&Config, "config", "", "config file location (default: "+defaultConfig+", respects MD2CONF_CONFIG)")
	rootCmd.PersistentFlags().BoolVar(&Debug, "debug", false, "display debug output")
	rootCmd.PersistentFlags().BoolVar(&NoColor, "no-color", false, "don't style terminal output")
	rootCmd.PersistentFlags().StringSliceVar(&AuthTokenCmd, "auth-token-cmd", []string{}, "shell command to retrieve the Atlassian API key")
	rootCmd.PersistentFlags().StringVarP(&AuthUsername, "auth-username", "u", "", "your Atlassian username (or $CONFLUENCE_USERNAME)")
	rootCmd.PersistentFlags().StringVarP(&APIKey, "api-key", "p", "", "your Atlassian API key (or $CONFLUENCE_API_KEY)")
	rootCmd.PersistentFlags().StringVarP(&OrgName, "orgname", "o", "", "your Atlassian ORG name, e.g. ORG in ORG.atlassian.net, or a host name (or $CONFLUENCE_ORGNAME)")
	rootCmd.PersistentFlags().BoolVarP(&NoSSL, "nossl", "n", false, "talk plain HTTP instead of HTTPS")
	rootCmd.PersistentFlags().BoolVar(&WithVCR, "with-vcr", false, "use go-vcr to record and replay responses")
}

func initializeConfig(cmd *cobra.Command) error {
	ConfigSource = "flag"
	if Config == "" {
		// Did the user provide an ENV?
		if envConfig := os.Getenv("MD2CONF_CONFIG"); envConfig != "" {
			Config = envConfig
			ConfigSource = "environment"
		} else {
			// As fallback, search for config in home XDG-ish directory
			Config = defaultConfig
			ConfigSource = "default"
		}
	}
	explicit := ConfigSource != "default"
	config, err := homedir.Expand(Config)
	if err != nil {
		return fmt.Errorf("md2conf: unable to expand homedir: %w", err)
	}
	Config = config

	ParsedConfig = YamlConfig{}
	yamlFile, err := os.ReadFile(Config)
	switch {
	case errors.Is(err, os.ErrNotExist) && (!explicit || cmd.Annotations[configOptional] != ""):
		// no config file is fine, flags and environment will do.
	case err != nil:
		return fmt.Errorf("md2conf: error reading config file %s: %w", Config, err)
	default:
		// I'd like to bark if a user sets a flag we don't recognise:
		if err := yaml.UnmarshalStrict(yamlFile, &ParsedConfig); err != nil {
			return fmt.Errorf("md2conf: issue parsing config file: %w", err)
		}
	}

	if err := bindEnv(cmd); err != nil {
		return fmt.Errorf("md2conf: failed to bind environment: %w", err)
	}

	if err := bindFlags(cmd, ParsedConfig); err != nil {
		return fmt.Errorf("md2conf: failed to bind flags: %w", err)
	}

	return nil
}

type YamlConfig struct {
	NoSSL        *bool `yaml:"nossl"`
	WithVCR      *bool `yaml:"with-vcr"`
	NoColor      *bool `yaml:"no-color"`
	Contents     *bool `yaml:"contents"`
	RemoveEmojis *bool `yaml:"remove-emojis"`

	EditorVersion *int `yaml:"editor-version"`
	Workers       *int `yaml:"workers"`

	OrgName      string   `yaml:"orgname"`
	AuthUsername string   `yaml:"auth-username"`
	APIKey       string   `yaml:"api-key"`
	AuthTokenCmd []string `yaml:"auth-token-cmd"`
	Ancestor     string   `yaml:"ancestor"`
	MarkdownSrc  string   `yaml:"markdown-src"`
	Labels       []string `yaml:"label"`
}

// bindEnv fills unset flags from their environment variables.
func bindEnv(cmd *cobra.Command) error {
	for key, env := range envBindings {
		flag := cmd.Flag(key)
		if flag == nil || cmd.Flags().Changed(key) {
			continue
		}
		if v := os.Getenv(env); v != "" {
			if err := cmd.Flags().Set(key, v); err != nil {
				return fmt.Errorf("md2conf: bad value in $%s: %w", env, err)
			}
		}
	}
	return nil
}

// Bind each cobra flag to its associated config file value, unless the flag
// was set on the command line or from the environment.
func bindFlags(cmd *cobra.Command, v YamlConfig) error {
	for _, field := range structs.Fields(v) {
		key := field.Tag("yaml")
		if key == "" {
			return fmt.Errorf("md2conf: could not retrieve struct tag 'yaml'")
		}
		if flag := cmd.Flag(key); flag == nil {
			// the flag is unknown.  but that can legitimately happen if you're running e.g. `list
			// spaces` which has no `contents` flag but your YAML file does define that flag...
			continue
		}
		if cmd.Flags().Changed(key) {
			continue
		}

		var err error
		switch field.Kind() {
		case reflect.Ptr:
			switch p := field.Value().(type) {
			case *bool:
				if p != nil {
					err = cmd.Flags().Set(key, fmt.Sprintf("%v", *p))
				}
			case *int:
				if p != nil {
					err = cmd.Flags().Set(key, fmt.Sprintf("%d", *p))
				}
			default:
				return fmt.Errorf("md2conf: found unrecognised field: %+v", field)
			}

		case reflect.String:
			s, ok := field.Value().(string)
			if !ok {
				return fmt.Errorf("md2conf: found unrecognised field: %+v", field)
			}
			if s != "" {
				err = cmd.Flags().Set(key, s)
			}

		case reflect.Slice:
			ss, ok := field.Value().([]string)
			if !ok {
				return fmt.Errorf("md2conf: found unrecognised field: %+v", field)
			}
			for _, s := range ss {
				// yes, repeatedly calling Set() appends to the slice...
				if err = cmd.Flags().Set(key, s); err != nil {
					break
				}
			}

		default:
			return fmt.Errorf("md2conf: found unrecognised field: %+v", field)
		}
		if err != nil {
			return fmt.Errorf("md2conf: bad config value for %s: %w", key, err)
		}
	}

	return nil
}

// apiToken returns --api-key, or else the first line printed by
// --auth-token-cmd.
func apiToken() (string, error) {
	if APIKey != "" {
		return APIKey, nil
	}
	if len(AuthTokenCmd) == 0 {
		return "", fmt.Errorf("md2conf: API key not specified, use --api-key, $CONFLUENCE_API_KEY or --auth-token-cmd")
	}

	tokenCmdOutput, err := exec.Command(AuthTokenCmd[0], AuthTokenCmd[1:]...).Output()
	if err != nil {
		return "", fmt.Errorf("md2conf: couldn't execute auth-token-cmd '%v': %w", AuthTokenCmd, err)
	}

	return strings.TrimSpace(strings.Split(string(tokenCmdOutput), "\n")[0]), nil
}

// spaceKeyArg is the optional space argument, defaulting to the user's
// personal space.
func spaceKeyArg(args []string, i int) string {
	if len(args) > i && args[i] != "" {
		return args[i]
	}
	return "~" + AuthUsername
}

// newAPI builds the Confluence client from the persistent flags. The returned
// func saves the VCR cassette, if one is in use.
func newAPI(spaceKey string) (*confluence.API, func(), error) {
	if AuthUsername == "" {
		return nil, nil, fmt.Errorf("md2conf: username not specified, use --auth-username or $CONFLUENCE_USERNAME")
	}
	if OrgName == "" {
		return nil, nil, fmt.Errorf("md2conf: org name not specified, use --orgname or $CONFLUENCE_ORGNAME")
	}
	token, err := apiToken()
	if err != nil {
		return nil, nil, err
	}

	api, err := confluence.NewAPI(OrgName, !NoSSL, spaceKey, AuthUsername, token)
	if err != nil {
		return nil, nil, fmt.Errorf("md2conf: couldn't instantiate Confluence API: %w", err)
	}
	api.Logger = newLogger()

	if !WithVCR {
		return api, func() {}, nil
	}

	rec, err := vcr.New(vcr.DefaultCassette, vcr.ModeReplayOrRecord, nil)
	if err != nil {
		return nil, nil, err
	}
	api.Client = rec.Client()
	return api, func() {
		if err := rec.Stop(); err != nil {
			debugLog("%v\n", err)
		}
	}, nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		return fmt.Errorf("md2conf: execution error: %w", err)
	}

	return nil
}
