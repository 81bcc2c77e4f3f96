// Package config provides configuration management for the application.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Simulation SimulationConfig `mapstructure:"simulation"`
	Coach      CoachConfig      `mapstructure:"coach"`
	Server     ServerConfig     `mapstructure:"server"`
	Storage    StorageConfig    `mapstructure:"storage"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// SimulationConfig holds trading-session configuration.
type SimulationConfig struct {
	StartingCapital float64       `mapstructure:"starting_capital"`
	TickInterval    time.Duration `mapstructure:"tick_interval"`
}

// CoachConfig holds AI coach configuration.
type CoachConfig struct {
	APIKey       string        `mapstructure:"api_key"`
	Model        string        `mapstructure:"model"`
	DefaultStyle string        `mapstructure:"default_style"`
	Timeout      time.Duration `mapstructure:"timeout"`
}

// ServerConfig holds HTTP/websocket server configuration.
type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

// StorageConfig holds persistence configuration.
type StorageConfig struct {
	DBPath string `mapstructure:"db_path"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level   string `mapstructure:"level"`
	Console bool   `mapstructure:"console"`
	File    bool   `mapstructure:"file"`
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/legacy-guardians"
	}
	return filepath.Join(home, ".config", "legacy-guardians")
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Simulation: SimulationConfig{
			StartingCapital: 5000,
			TickInterval:    3 * time.Second,
		},
		Coach: CoachConfig{
			Model:        "gpt-4o-mini",
			DefaultStyle: "Balanced Coach",
			Timeout:      15 * time.Second,
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
		Storage: StorageConfig{
			DBPath: filepath.Join(DefaultConfigDir(), "guardians.db"),
		},
		Logging: LoggingConfig{
			Level:   "info",
			Console: true,
			File:    true,
		},
	}
}

// Load loads configuration from the specified directory.
// If configDir is empty, uses the default config directory.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	cfg := Default()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	v.SetDefault("simulation.starting_capital", cfg.Simulation.StartingCapital)
	v.SetDefault("simulation.tick_interval", cfg.Simulation.TickInterval)
	v.SetDefault("coach.model", cfg.Coach.Model)
	v.SetDefault("coach.default_style", cfg.Coach.DefaultStyle)
	v.SetDefault("coach.timeout", cfg.Coach.Timeout)
	v.SetDefault("server.addr", cfg.Server.Addr)
	v.SetDefault("storage.db_path", cfg.Storage.DBPath)
	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.console", cfg.Logging.Console)
	v.SetDefault("logging.file", cfg.Logging.File)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			if err := createTemplateConfig(configDir); err != nil {
				return nil, fmt.Errorf("creating config template: %w", err)
			}
		} else {
			return nil, fmt.Errorf("loading config.toml: %w", err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config.toml: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.Coach.APIKey = v
	}
	if v := os.Getenv("GUARDIANS_COACH_MODEL"); v != "" {
		cfg.Coach.Model = v
	}
	if v := os.Getenv("GUARDIANS_SERVER_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("GUARDIANS_DB_PATH"); v != "" {
		cfg.Storage.DBPath = v
	}
	if v := os.Getenv("GUARDIANS_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Simulation.StartingCapital <= 0 {
		return fmt.Errorf("starting_capital must be positive")
	}
	if c.Simulation.TickInterval <= 0 {
		return fmt.Errorf("tick_interval must be positive")
	}
	if c.Coach.Timeout <= 0 {
		return fmt.Errorf("coach timeout must be positive")
	}
	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}
	return nil
}
