package config

import (
	"fmt"

	"github.com/caarlos0/env/v10"
)

// Config holds runtime parameters for the service. Precedence is
// flags > config file > environment > built-in defaults; main applies the
// layers in that order.
type Config struct {
	// HTTP listen address.
	Addr string `env:"AURORAD_ADDR" envDefault:":8080" json:"addr" yaml:"addr" toml:"addr"`
	// Shared secret for protected endpoints. Empty disables auth.
	APIKey string `env:"API_KEY" json:"api_key" yaml:"api_key" toml:"api_key"`
	// Path of the serialized model artifact.
	ModelPath string `env:"MODEL_PATH" envDefault:"/models/california-housing/latest/model.bin" json:"model_path" yaml:"model_path" toml:"model_path"`
	// Path of the metadata JSON descriptor.
	MetadataPath string `env:"MODEL_VERSION_FILE" envDefault:"/models/california-housing/latest/metadata.json" json:"metadata_path" yaml:"metadata_path" toml:"metadata_path"`
	// Log level: debug|info|warn|error.
	LogLevel string `env:"AURORAD_LOG_LEVEL" envDefault:"info" json:"log_level" yaml:"log_level" toml:"log_level"`
	// Maximum request body size in bytes for JSON endpoints (0 = default).
	MaxBodyBytes int64 `env:"AURORAD_MAX_BODY_BYTES" json:"max_body_bytes" yaml:"max_body_bytes" toml:"max_body_bytes"`
	// Comma-separated CORS origins; empty disables CORS handling.
	CORSOrigins string `env:"AURORAD_CORS_ORIGINS" json:"cors_origins" yaml:"cors_origins" toml:"cors_origins"`
}

// FromEnv reads configuration from environment variables, applying defaults
// for unset values.
func FromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse environment: %w", err)
	}
	return cfg, nil
}

// Apply overlays the non-zero fields of other onto c.
func (c *Config) Apply(other Config) {
	if other.Addr != "" {
		c.Addr = other.Addr
	}
	if other.APIKey != "" {
		c.APIKey = other.APIKey
	}
	if other.ModelPath != "" {
		c.ModelPath = other.ModelPath
	}
	if other.MetadataPath != "" {
		c.MetadataPath = other.MetadataPath
	}
	if other.LogLevel != "" {
		c.LogLevel = other.LogLevel
	}
	if other.MaxBodyBytes != 0 {
		c.MaxBodyBytes = other.MaxBodyBytes
	}
	if other.CORSOrigins != "" {
		c.CORSOrigins = other.CORSOrigins
	}
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("listen address is required")
	}
	if c.ModelPath == "" {
		return fmt.Errorf("model path is required")
	}
	if c.MetadataPath == "" {
		return fmt.Errorf("metadata path is required")
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s", c.LogLevel)
	}
	if c.MaxBodyBytes < 0 {
		return fmt.Errorf("max body bytes must not be negative")
	}
	return nil
}
