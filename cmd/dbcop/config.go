package main

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the dbcop CLI's file-based defaults: the consistency level
// and cache directory used when the matching flag is left unset.
type Config struct {
	Level    string `yaml:"level"`
	CacheDir string `yaml:"cache_dir"`
}

// DefaultConfig returns the CLI's built-in defaults, used when no --config
// file is given.
func DefaultConfig() *Config {
	return &Config{Level: "serializable"}
}

// LoadConfig reads and parses a YAML config file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
