package app

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the batch processor configuration.
type Config struct {
	Settings Settings      `yaml:"settings"`
	Input    InputConfig   `yaml:"input"`
	Output   OutputConfig  `yaml:"output"`
	Storage  StorageConfig `yaml:"storage"`
}

// Settings represents global application settings.
type Settings struct {
	LogLevel string `yaml:"logLevel"`
}

// Level parses the configured log level, defaulting to info.
func (s Settings) Level() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// InputConfig points at the directory holding profile files; the most
// recent one is processed.
type InputConfig struct {
	ProfilesDirectory string `yaml:"profilesDirectory"`
}

// OutputConfig sets where the results artifacts are written.
type OutputConfig struct {
	ResultsDirectory string `yaml:"resultsDirectory"`
}

// StorageConfig configures the optional run-history database. When
// DatabasePath is empty no run is persisted.
type StorageConfig struct {
	DatabasePath string `yaml:"databasePath"`
}

// LoadConfig reads and validates a YAML configuration file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading configuration: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parsing configuration: %w", err)
	}

	if config.Input.ProfilesDirectory == "" {
		return nil, fmt.Errorf("input.profilesDirectory is required")
	}
	if config.Output.ResultsDirectory == "" {
		return nil, fmt.Errorf("output.resultsDirectory is required")
	}

	return &config, nil
}
