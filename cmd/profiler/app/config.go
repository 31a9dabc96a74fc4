package app

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the profiler application configuration.
type Config struct {
	Settings Settings     `yaml:"settings"`
	Input    InputConfig  `yaml:"input"`
	Output   OutputConfig `yaml:"output"`
	Model    ModelConfig  `yaml:"model"`
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

// InputConfig points at the enriched receiver points table.
type InputConfig struct {
	PointsFile string `yaml:"pointsFile"`
}

// OutputConfig sets where profile files are exported.
type OutputConfig struct {
	ProfilesDirectory string `yaml:"profilesDirectory"`
}

// ModelConfig carries the propagation parameters stamped into every
// profile.
type ModelConfig struct {
	FrequencyGHz     float64 `yaml:"frequencyGHz"`
	TimePercentage   int     `yaml:"timePercentage"`
	Polarization     int     `yaml:"polarization"`
	TxAntennaHeightM float64 `yaml:"txAntennaHeightM"`
	RxAntennaHeightM float64 `yaml:"rxAntennaHeightM"`
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

	if config.Input.PointsFile == "" {
		return nil, fmt.Errorf("input.pointsFile is required")
	}
	if config.Output.ProfilesDirectory == "" {
		return nil, fmt.Errorf("output.profilesDirectory is required")
	}

	return &config, nil
}
