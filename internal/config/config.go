// SPDX-License-Identifier: MPL-2.0

// Package config loads the continuum configuration and resolves the
// platform-specific directories the guidelines store lives in.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/spf13/viper"

	"continuum-cli/internal/platform"
)

const (
	// AppName is the application name, used for platform directory layout.
	AppName = "Continuum"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "config"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "yaml"
	// EnvPrefix is the prefix for CONTINUUM_* environment overrides.
	EnvPrefix = "CONTINUUM"

	// DefaultIndexURL is the published catalog location.
	DefaultIndexURL = "https://raw.githubusercontent.com/EnjiMD/Continuum/main/docs/index.json"
	// guidelinesDirName is the store subdirectory under the app data dir.
	guidelinesDirName = "guidelines"
)

// dataDirOverride allows tests to redirect the app data directory.
//
//nolint:gochecknoglobals // Test seam for platform directory resolution.
var dataDirOverride = ""

// Config holds the resolved runtime configuration.
type Config struct {
	// IndexURL is the catalog document location. Must be HTTPS.
	IndexURL string `mapstructure:"index_url"`
	// StoreRoot is the installed-pack directory. Defaults to the platform
	// data dir plus "Continuum/guidelines".
	StoreRoot string `mapstructure:"store_root"`
	// TimeoutSeconds bounds each network fetch.
	TimeoutSeconds int `mapstructure:"timeout_seconds"`
}

// Timeout returns TimeoutSeconds as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// DataDir returns the per-user application data directory using platform
// conventions: Windows uses %APPDATA%, macOS uses ~/Library/Application
// Support, and Linux/others use ~/.local/share.
func DataDir() (string, error) {
	if dataDirOverride != "" {
		return dataDirOverride, nil
	}

	var base string

	switch runtime.GOOS {
	case platform.Windows:
		base = os.Getenv("APPDATA")
		if base == "" {
			base = os.Getenv("USERPROFILE")
		}
		if base == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			base = home
		}
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		base = filepath.Join(home, "Library", "Application Support")
	default: // Linux and others
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		base = filepath.Join(home, ".local", "share")
	}

	return filepath.Join(base, AppName), nil
}

// DefaultStoreRoot returns the default installed-pack directory.
func DefaultStoreRoot() (string, error) {
	dataDir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dataDir, guidelinesDirName), nil
}

// ConfigDir returns the directory the config file is read from, following
// XDG conventions on Linux and the platform data dir elsewhere.
//
//nolint:revive // ConfigDir is more descriptive than Dir for external callers.
func ConfigDir() (string, error) {
	switch runtime.GOOS {
	case platform.Windows, "darwin":
		// Same base as the data dir on these platforms.
		return DataDir()
	default:
		base := os.Getenv("XDG_CONFIG_HOME")
		if base == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			base = filepath.Join(home, ".config")
		}
		return filepath.Join(base, AppName), nil
	}
}

// Load resolves the configuration from defaults, the config file (if
// present), and CONTINUUM_* environment variables, in increasing precedence.
// configFile, when non-empty, is used instead of the platform config path
// and must exist.
func Load(configFile string) (*Config, error) {
	storeRoot, err := DefaultStoreRoot()
	if err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetDefault("index_url", DefaultIndexURL)
	v.SetDefault("store_root", storeRoot)
	v.SetDefault("timeout_seconds", 15)

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file %q: %w", configFile, err)
		}
	} else {
		configDir, err := ConfigDir()
		if err != nil {
			return nil, err
		}
		v.SetConfigName(ConfigFileName)
		v.SetConfigType(ConfigFileExt)
		v.AddConfigPath(configDir)

		// A missing config file is fine; anything else is surfaced.
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("reading config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if cfg.TimeoutSeconds <= 0 {
		cfg.TimeoutSeconds = 15
	}

	return &cfg, nil
}
