package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/fivetwenty-io/dph-client/internal/constants"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config keys.
const (
	keyURL            = "url"
	keyAuthURL        = "auth_url"
	keyAPIKey         = "apikey"
	keyToken          = "token"
	keyTokenExpiresAt = "token_expires_at"
	keyRefreshToken   = "refresh_token"
	keyLastRefreshed  = "last_refreshed"
	keyOutput         = "output"
)

// Config represents the CLI configuration.
type Config struct {
	URL     string `json:"url,omitempty"      yaml:"url,omitempty"`
	AuthURL string `json:"auth_url,omitempty" yaml:"auth_url,omitempty"`

	// Credentials written by login
	APIKey         string     `json:"apikey,omitempty"           yaml:"apikey,omitempty"`
	Token          string     `json:"token,omitempty"            yaml:"token,omitempty"`
	TokenExpiresAt *time.Time `json:"token_expires_at,omitempty" yaml:"token_expires_at,omitempty"`
	RefreshToken   string     `json:"refresh_token,omitempty"    yaml:"refresh_token,omitempty"`
	LastRefreshed  *time.Time `json:"last_refreshed,omitempty"   yaml:"last_refreshed,omitempty"`

	Output string `json:"output,omitempty" yaml:"output,omitempty"`
}

// masked returns a copy safe to print.
func (c *Config) masked() *Config {
	cp := *c
	cp.APIKey = maskSecret(c.APIKey)
	cp.Token = maskSecret(c.Token)
	cp.RefreshToken = maskSecret(c.RefreshToken)

	return &cp
}

// NewConfigCommand creates the config command group.
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage CLI configuration",
		Long:  "Show and change the settings stored in the dph config file",
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
		Long:  "Display the current CLI configuration with secrets masked",
		RunE: func(cmd *cobra.Command, args []string) error {
			return renderOutput(cmd.OutOrStdout(), loadConfig().masked(), displayConfigTable)
		},
	}
}

func displayConfigTable(out io.Writer, config *Config) error {
	return renderProperties(out, [][]string{
		{"URL", valueOrNA(config.URL)},
		{"Auth URL", valueOrNA(config.AuthURL)},
		{"API Key", valueOrNA(config.APIKey)},
		{"Token", valueOrNA(config.Token)},
		{"Token Expires", formatTime(config.TokenExpiresAt)},
		{"Last Refreshed", formatTime(config.LastRefreshed)},
		{"Output", valueOrNA(config.Output)},
	})
}

func newConfigSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Set a configuration value",
		Long:  "Set one of url, auth_url or output in the config file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, value := args[0], args[1]
			config := loadConfig()

			err := setConfigValue(config, key, value)
			if err != nil {
				return err
			}

			err = saveConfigStruct(config)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s\n", key, value)

			return nil
		},
	}
}

func newConfigUnsetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "unset KEY",
		Short: "Unset a configuration value",
		Long:  "Remove one of url, auth_url or output from the config file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			config := loadConfig()

			err := setConfigValue(config, key, "")
			if err != nil {
				return err
			}

			err = saveConfigStruct(config)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Unset %s\n", key)

			return nil
		},
	}
}

// setConfigValue changes one user settable key. An empty value clears it.
func setConfigValue(config *Config, key, value string) error {
	switch key {
	case keyURL:
		config.URL = value
	case keyAuthURL:
		config.AuthURL = value
	case keyOutput:
		switch value {
		case "", constants.FormatTable, constants.FormatJSON, constants.FormatYAML:
		default:
			return fmt.Errorf("%w: %s", constants.ErrUnsupportedOutputFormat, value)
		}

		config.Output = value
	case keyAPIKey, keyToken, keyTokenExpiresAt, keyRefreshToken, keyLastRefreshed:
		return fmt.Errorf("%w: %s", constants.ErrTokenFieldsReadOnly, key)
	default:
		return fmt.Errorf("%w: %s", constants.ErrUnknownConfigKey, key)
	}

	return nil
}

// loadConfig reads the effective configuration: flags, then DPH_* variables, then the config file.
func loadConfig() *Config {
	return &Config{
		URL:            viper.GetString(keyURL),
		AuthURL:        viper.GetString(keyAuthURL),
		APIKey:         viper.GetString(keyAPIKey),
		Token:          viper.GetString(keyToken),
		TokenExpiresAt: optionalTime(keyTokenExpiresAt),
		RefreshToken:   viper.GetString(keyRefreshToken),
		LastRefreshed:  optionalTime(keyLastRefreshed),
		Output:         viper.GetString(keyOutput),
	}
}

func optionalTime(key string) *time.Time {
	if !viper.IsSet(key) {
		return nil
	}

	value := viper.GetTime(key)
	if value.IsZero() {
		return nil
	}

	return &value
}

// configFilePath returns the file in use, defaulting to $HOME/.dph/config.yml.
func configFilePath() (string, error) {
	configFile := viper.ConfigFileUsed()
	if configFile != "" {
		return configFile, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	configDir := filepath.Join(home, ".dph")

	err = os.MkdirAll(configDir, constants.ConfigDirPerm)
	if err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return filepath.Join(configDir, "config.yml"), nil
}

// saveConfigStruct writes config to the config file and makes it the
// effective configuration of this process.
func saveConfigStruct(config *Config) error {
	configFile, err := configFilePath()
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config to YAML: %w", err)
	}

	err = os.WriteFile(configFile, data, constants.ConfigFilePerm)
	if err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	viper.Set(keyURL, config.URL)
	viper.Set(keyAuthURL, config.AuthURL)
	viper.Set(keyAPIKey, config.APIKey)
	viper.Set(keyToken, config.Token)
	viper.Set(keyTokenExpiresAt, timeValue(config.TokenExpiresAt))
	viper.Set(keyRefreshToken, config.RefreshToken)
	viper.Set(keyLastRefreshed, timeValue(config.LastRefreshed))
	viper.Set(keyOutput, config.Output)

	return nil
}

func timeValue(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}

	return *t
}
