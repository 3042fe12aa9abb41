// Package config loads and saves the optional YAML defaults file used
// by the naf command line tool.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/sequenceio/naf/pkg/alphabet"
	"github.com/sequenceio/naf/pkg/header"
)

// Config holds the packing defaults for the naf tool
type Config struct {
	SequenceType string `yaml:"sequence_type"` // dna, rna, protein or text
	LineLength   uint64 `yaml:"line_length"`   // FASTA wrap width recorded in archives
	Separator    string `yaml:"separator"`     // single character splitting id and title
	Level        int    `yaml:"level"`         // zstd compression level, 0 = default
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		SequenceType: alphabet.DNA.String(),
		LineLength:   header.DefaultLineLength,
		Separator:    string(rune(header.DefaultSeparator)),
		Level:        0,
	}
}

// Validate checks the configuration values
func (c *Config) Validate() error {
	if _, err := alphabet.ParseSequenceType(c.SequenceType); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if len(c.Separator) != 1 {
		return fmt.Errorf("invalid config: separator must be a single character, got %q", c.Separator)
	}
	return nil
}

// SequenceTypeValue returns the parsed sequence type. Validate first.
func (c *Config) SequenceTypeValue() alphabet.SequenceType {
	t, _ := alphabet.ParseSequenceType(c.SequenceType)
	return t
}

// SeparatorByte returns the separator as a byte. Validate first.
func (c *Config) SeparatorByte() byte {
	return c.Separator[0]
}

// LoadConfig loads configuration from the specified path
func LoadConfig(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// SaveConfig saves the configuration to the specified path
func SaveConfig(config *Config, configPath string) error {
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
