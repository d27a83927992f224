package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fivetwenty-io/pocketbase-client/internal/constants"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config represents the CLI configuration.
type Config struct {
	URL            string `json:"url,omitempty"             yaml:"url,omitempty"`
	Token          string `json:"token,omitempty"           yaml:"token,omitempty"`
	AuthCollection string `json:"auth_collection,omitempty" yaml:"auth_collection,omitempty"`
	Identity       string `json:"identity,omitempty"        yaml:"identity,omitempty"`
	Superuser      bool   `json:"superuser,omitempty"       yaml:"superuser,omitempty"`
	Output         string `json:"output,omitempty"          yaml:"output,omitempty"`
}

// configPath returns the path of the active config file.
func configPath() string {
	if cfgFile := viper.GetString("config"); cfgFile != "" {
		return cfgFile
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	return filepath.Join(home, ".pb", "config.yml")
}

// loadConfig reads the config file, returning an empty config when missing.
func loadConfig() *Config {
	config := &Config{}

	data, err := os.ReadFile(configPath())
	if err != nil {
		return config
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return &Config{}
	}

	return config
}

// saveConfig writes the config file, creating the directory when needed.
func saveConfig(config *Config) error {
	path := configPath()
	if path == "" {
		return fmt.Errorf("determining config path: %w", os.ErrNotExist)
	}

	if err := os.MkdirAll(filepath.Dir(path), constants.ConfigDirPerm); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(path, data, constants.ConfigFilePerm); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// NewConfigCommand creates the config command group.
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage CLI configuration",
		Long:  "Manage pb CLI configuration including server URL and credentials",
	}

	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigSetCommand())
	cmd.AddCommand(newConfigUnsetCommand())

	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Long:  "Display the current CLI configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()

			// Tokens are never printed in full.
			display := *config
			if display.Token != "" {
				display.Token = constants.MaskedSecret
			}

			output := viper.GetString("output")
			switch output {
			case constants.FormatJSON:
				encoder := json.NewEncoder(os.Stdout)
				encoder.SetIndent("", "  ")

				return encoder.Encode(display)
			case constants.FormatYAML:
				encoder := yaml.NewEncoder(os.Stdout)

				return encoder.Encode(display)
			default:
				table := tablewriter.NewWriter(os.Stdout)
				table.Header("Property", "Value")
				_ = table.Append("URL", valueOrNA(display.URL))
				_ = table.Append("Token", valueOrNA(display.Token))
				_ = table.Append("Auth Collection", valueOrNA(display.AuthCollection))
				_ = table.Append("Identity", valueOrNA(display.Identity))
				_ = table.Append("Superuser", fmt.Sprintf("%t", display.Superuser))
				_ = table.Append("Output", valueOrNA(display.Output))

				if err := table.Render(); err != nil {
					return fmt.Errorf("failed to render table: %w", err)
				}
			}

			return nil
		},
	}
}

func newConfigSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Set a configuration value",
		Long:  "Set a specific configuration value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			value := args[1]

			config := loadConfig()

			switch key {
			case "url":
				config.URL = value
			case "token":
				config.Token = value
			case "auth_collection", "auth-collection":
				config.AuthCollection = value
			case "identity":
				config.Identity = value
			case "output":
				config.Output = value
			default:
				return fmt.Errorf("%w: %s", constants.ErrUnknownConfigKey, key)
			}

			if err := saveConfig(config); err != nil {
				return err
			}

			fmt.Fprintf(os.Stdout, "Set %s\n", key)

			return nil
		},
	}
}

func newConfigUnsetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "unset KEY",
		Short: "Unset a configuration value",
		Long:  "Remove a specific configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			config := loadConfig()

			switch key {
			case "url":
				config.URL = ""
			case "token":
				config.Token = ""
			case "auth_collection", "auth-collection":
				config.AuthCollection = ""
			case "identity":
				config.Identity = ""
			case "output":
				config.Output = ""
			default:
				return fmt.Errorf("%w: %s", constants.ErrUnknownConfigKey, key)
			}

			if err := saveConfig(config); err != nil {
				return err
			}

			fmt.Fprintf(os.Stdout, "Unset %s\n", key)

			return nil
		},
	}
}
