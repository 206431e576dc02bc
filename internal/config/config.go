// Package config loads the server configuration from an optional YAML
// file merged over built-in defaults.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the full server configuration.
type Config struct {
	// DocsDir is the root directory of the documentation resources.
	DocsDir string `yaml:"docs_dir"`

	FinLab FinLabConfig `yaml:"finlab"`
	Log    LogConfig    `yaml:"log"`
}

// FinLabConfig configures the FinLab engine client.
type FinLabConfig struct {
	BaseURL        string `yaml:"base_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// Timeout returns the request timeout as a duration.
func (c FinLabConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// LogConfig configures diagnostic logging. Stdout carries the protocol,
// so logs go to a file or nowhere.
type LogConfig struct {
	// Level is a zerolog level name: debug, info, warn, error.
	Level string `yaml:"level"`

	// File is the log file path; empty disables logging.
	File string `yaml:"file"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		DocsDir: "docs",
		FinLab: FinLabConfig{
			TimeoutSeconds: 60,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads the YAML file at path over the defaults. An empty path
// returns the defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return cfg, nil
}
