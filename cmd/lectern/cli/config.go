// Copyright 2026 The Lectern Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds the optional per-user defaults read from the config
// file. Flags override config values; config values override built-in
// defaults.
type Config struct {
	// Homeserver is the default homeserver URL for login and for
	// sessions restored from the session file.
	Homeserver string `yaml:"homeserver"`

	// Blog is the default blog room ID, used when a command's --blog
	// flag is omitted.
	Blog string `yaml:"blog"`

	// AliasPrefix overrides the default "blog." slug prefix.
	AliasPrefix string `yaml:"alias_prefix"`
}

// ConfigFilePath returns the config file location: $LECTERN_CONFIG if
// set, otherwise <config dir>/lectern/config.yaml.
func ConfigFilePath() string {
	if envPath := os.Getenv("LECTERN_CONFIG"); envPath != "" {
		return envPath
	}
	return filepath.Join(configDirectory(), "lectern", "config.yaml")
}

// LoadConfig reads the config file. A missing file is not an error;
// every field has a workable zero value.
func LoadConfig() (*Config, error) {
	path := ConfigFilePath()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return &config, nil
}

// configDirectory resolves the base config directory: $XDG_CONFIG_HOME
// or ~/.config.
func configDirectory() string {
	if directory := os.Getenv("XDG_CONFIG_HOME"); directory != "" {
		return directory
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return os.TempDir()
	}
	return filepath.Join(home, ".config")
}
