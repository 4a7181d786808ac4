package logging

import "fmt"

// Config holds logging preferences.
type Config struct {
	Level      string `koanf:"level" yaml:"level" validate:"omitempty,oneof=debug info warn error"`
	File       string `koanf:"file" yaml:"file"`
	MaxSize    int    `koanf:"max_size" yaml:"max_size" validate:"min=0"` // MB
	MaxBackups int    `koanf:"max_backups" yaml:"max_backups" validate:"min=0"`
	MaxAge     int    `koanf:"max_age" yaml:"max_age" validate:"min=0"` // days
	Compress   bool   `koanf:"compress" yaml:"compress"`
}

// DefaultConfig returns the logging defaults: warnings to the console, no file.
func DefaultConfig() Config {
	return Config{
		Level:      "warn",
		MaxSize:    10,
		MaxBackups: 3,
		MaxAge:     28,
	}
}

// SetDefaults fills zero values from DefaultConfig.
func (cfg Config) SetDefaults() Config {
	def := DefaultConfig()
	if cfg.Level == "" {
		cfg.Level = def.Level
	}
	if cfg.MaxSize <= 0 {
		cfg.MaxSize = def.MaxSize
	}
	if cfg.MaxBackups < 0 {
		cfg.MaxBackups = def.MaxBackups
	}
	if cfg.MaxAge < 0 {
		cfg.MaxAge = def.MaxAge
	}
	return cfg
}

// Validate validates logging configuration
func (cfg Config) Validate() error {
	switch cfg.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s", cfg.Level)
	}
	if cfg.MaxSize <= 0 {
		return fmt.Errorf("max_size must be positive")
	}
	return nil
}
