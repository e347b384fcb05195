package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Data    DataConfig    `yaml:"data"`
	Logs    LogsConfig    `yaml:"logs"`
	Solver  SolverConfig  `yaml:"solver"`
	Logging LoggingConfig `yaml:"logging"`
}

type ServerConfig struct {
	Port int `yaml:"port"`
}

type DataConfig struct {
	Dir string `yaml:"dir"`
}

type LogsConfig struct {
	Dir     string `yaml:"dir"`
	Archive bool   `yaml:"archive"`
}

type SolverConfig struct {
	Strategy  string  `yaml:"strategy"`
	FreqFloor float64 `yaml:"freq_floor"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Server:  ServerConfig{Port: 3000},
		Data:    DataConfig{Dir: "data"},
		Logs:    LogsConfig{Dir: "logs", Archive: true},
		Solver:  SolverConfig{Strategy: "balanced", FreqFloor: 1.0},
		Logging: LoggingConfig{Level: "info"},
	}
}

// Load reads configuration from a file, falling back to defaults when the
// file is absent. Environment variables override file values.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if port := os.Getenv("PORT"); port != "" {
		var p int
		if _, err := fmt.Sscanf(port, "%d", &p); err == nil && p > 0 {
			cfg.Server.Port = p
		}
	}
	if dir := os.Getenv("BOARDLENS_DATA_DIR"); dir != "" {
		cfg.Data.Dir = dir
	}
	if dir := os.Getenv("BOARDLENS_LOG_DIR"); dir != "" {
		cfg.Logs.Dir = dir
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1-65535")
	}
	if c.Data.Dir == "" {
		return fmt.Errorf("data.dir is required")
	}
	if c.Logs.Dir == "" {
		return fmt.Errorf("logs.dir is required")
	}
	if c.Solver.Strategy != "balanced" && c.Solver.Strategy != "longestFirst" {
		return fmt.Errorf("solver.strategy must be 'balanced' or 'longestFirst'")
	}
	return nil
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}
