// Copyright (c) 2025 Vaultara Team
// Vaultara - dead-man's switch inheritance vault
// This source code is licensed under the MIT license found in the LICENSE file.

// Package config loads the Vaultara configuration from its YAML config
// file, environment variables, and CLI flags, in ascending precedence.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Config is the application configuration.
type Config struct {
	Database struct {
		Type string `mapstructure:"type" yaml:"type"`
		DSN  string `mapstructure:"dsn" yaml:"dsn"`
	} `mapstructure:"database" yaml:"database"`

	// Owner is the administrative identity of this deployment's vault.
	Owner string `mapstructure:"owner" yaml:"owner"`

	// Identity is the caller identity used when issuing commands; defaults
	// to Owner. Watchdogs and funders override it with --from.
	Identity string `mapstructure:"identity" yaml:"identity"`

	Language string `mapstructure:"language" yaml:"language"`

	Seal struct {
		// Secret keys the confidentiality service. When empty, the seal
		// adapter runs in permanent fallback mode.
		Secret string `mapstructure:"secret" yaml:"secret"`
	} `mapstructure:"seal" yaml:"seal"`

	History struct {
		// PollIntervalSeconds is the display-only history refresh cadence.
		PollIntervalSeconds int `mapstructure:"poll_interval_seconds" yaml:"poll_interval_seconds"`
	} `mapstructure:"history" yaml:"history"`

	Debug bool `mapstructure:"debug" yaml:"debug"`
}

// getConfigPath returns the full path for the configuration file.
func getConfigPath(system bool) (string, error) {
	var configDir string
	var err error

	if system {
		switch runtime.GOOS {
		case "windows":
			configDir = filepath.Join(os.Getenv("ProgramData"), "Vaultara")
		default: // Linux, macOS, etc.
			configDir = "/etc/vaultara"
		}
	} else {
		configDir, err = os.UserConfigDir()
		if err != nil {
			return "", fmt.Errorf("could not get user config directory: %w", err)
		}
		configDir = filepath.Join(configDir, "vaultara")
	}

	return filepath.Join(configDir, "vaultara.yaml"), nil
}

// LoadConfig merges defaults, the config file, environment variables
// (prefix VAULTARA), and bound CLI flags into a Config.
func LoadConfig(cmd *cobra.Command, defaults map[string]any, configFilePath *string) (Config, error) {
	var c Config
	v := viper.New()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetConfigName("vaultara")
	v.SetConfigType("yaml")

	// An explicit --config path has the highest precedence for file-based
	// configuration.
	if configFilePath != nil {
		v.SetConfigFile(*configFilePath)
	}

	if userConfigPath, err := getConfigPath(false); err == nil {
		v.AddConfigPath(filepath.Dir(userConfigPath))
	}
	if systemConfigPath, err := getConfigPath(true); err == nil {
		v.AddConfigPath(filepath.Dir(systemConfigPath))
	}
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		// It's okay if the file is not found, but other errors are fatal.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return c, err
		}
	}

	v.AutomaticEnv()
	v.AllowEmptyEnv(true)
	v.SetEnvPrefix("vaultara")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return c, err
	}

	if err := v.Unmarshal(&c); err != nil {
		return c, err
	}

	return c, nil
}

// WriteConfigFile persists the configuration as YAML, creating the config
// directory if needed. The file may contain the seal secret, hence 0600.
func WriteConfigFile(c *Config, system bool) error {
	path, err := getConfigPath(system)
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	configDir := filepath.Dir(path)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("could not create config directory %s: %w", configDir, err)
	}

	return os.WriteFile(path, data, 0600)
}
