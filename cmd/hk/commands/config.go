package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/valescamoura/hkgo/internal/constants"
)

// Keys the CLI persists. Everything else in viper comes from flags or env.
var persistedKeys = []string{"url", "api-version", "token"}

var ErrUnknownConfigKey = errors.New("unknown configuration key")

// NewConfigCommand creates the config command group.
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage CLI configuration",
		Long:  "Get and set persistent configuration values ($HOME/.hk/config.yml)",
	}

	cmd.AddCommand(newConfigGetCommand())
	cmd.AddCommand(newConfigSetCommand())

	return cmd
}

func newConfigGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get KEY",
		Short: "Print a configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			if !isPersistedKey(key) {
				return fmt.Errorf("%w: %q", ErrUnknownConfigKey, key)
			}

			value := viper.GetString(key)
			if key == "token" && value != "" {
				value = "***"
			}

			fmt.Println(value)

			return nil
		},
	}
}

func newConfigSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Set and persist a configuration value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, value := args[0], args[1]
			if !isPersistedKey(key) {
				return fmt.Errorf("%w: %q", ErrUnknownConfigKey, key)
			}

			viper.Set(key, value)

			return saveConfig()
		},
	}
}

func isPersistedKey(key string) bool {
	for _, k := range persistedKeys {
		if k == key {
			return true
		}
	}

	return false
}

// saveConfig writes the persisted keys to the config file.
func saveConfig() error {
	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("locating home directory: %w", err)
	}

	dir := filepath.Join(home, ".hk")
	if err := os.MkdirAll(dir, constants.ConfigDirPerm); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	settings := make(map[string]string, len(persistedKeys))

	for _, key := range persistedKeys {
		if value := viper.GetString(key); value != "" {
			settings[key] = value
		}
	}

	data, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	path := filepath.Join(dir, "config.yml")
	if err := os.WriteFile(path, data, constants.ConfigFilePerm); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
