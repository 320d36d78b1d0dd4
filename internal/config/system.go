package config

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
)

// SystemConfig represents the global configuration file (~/.forgeplan/config.yaml).
// It carries tool-level defaults applied when the corresponding flags are absent.
type SystemConfig struct {
	Defaults DefaultsConfig `yaml:"defaults"`
}

// DefaultsConfig configures fallback values for resolution requests.
type DefaultsConfig struct {
	// Target architecture used when --arch is not given
	Arch string `yaml:"arch"`
	// Output format used when --format is not given
	Format string `yaml:"format"`
	// Profiles requested when --profile is not given (overrides the
	// description's import-flagged defaults)
	Profiles []string `yaml:"profiles"`
}

// LoadSystemConfig loads the system configuration from the specified path.
// If the file does not exist, it returns an empty config without error.
func LoadSystemConfig(path string) (*SystemConfig, error) {
	// Check if file exists
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return &SystemConfig{}, nil
	}

	// Read config file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read system config: %w", err)
	}

	// Parse YAML
	var config SystemConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse system config: %w", err)
	}

	return &config, nil
}
