package storestub

import (
	"fmt"
	"strings"

	"github.com/kelseyhightower/envconfig"
)

// Config carries environment-driven settings for the store stub process.
type Config struct {
	Port         string `envconfig:"PORT" default:"8000"`
	BasePath     string `envconfig:"BASE_PATH" default:"/api"`
	LogLevel     string `envconfig:"LOG_LEVEL" default:"info"`
	Environment  string `envconfig:"ENVIRONMENT" default:"local"`
	OTLPEndpoint string `envconfig:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	NoSeed       bool   `envconfig:"NO_SEED"`
}

// LoadConfig reads STORESTUB_* variables, applies defaults, and validates basic constraints.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := envconfig.Process("storestub", &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to read environment: %w", err)
	}
	if strings.TrimSpace(cfg.Port) == "" {
		return Config{}, fmt.Errorf("STORESTUB_PORT must not be empty")
	}
	return cfg, nil
}
