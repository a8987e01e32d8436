package client

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const envPrefix = "grocery"

// Config carries environment-driven settings for the grocery client.
type Config struct {
	APIURL       string        `envconfig:"API_URL" default:"http://localhost:8000/api"`
	HTTPTimeout  time.Duration `envconfig:"HTTP_TIMEOUT" default:"10s"`
	LogLevel     string        `envconfig:"LOG_LEVEL" default:"warn"`
	Environment  string        `envconfig:"ENVIRONMENT" default:"local"`
	OTLPEndpoint string        `envconfig:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	OTLPInsecure bool          `envconfig:"OTEL_EXPORTER_OTLP_INSECURE" default:"true"`
	Trace        bool          `envconfig:"TRACE"`
}

// LoadConfig reads GROCERY_* variables and applies defaults. Callers validate
// after applying flag overrides.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to read environment: %w", err)
	}
	return cfg, nil
}

// Validate checks the settings after flags have been applied.
func (c Config) Validate() error {
	raw := strings.TrimSpace(c.APIURL)
	if raw == "" {
		return fmt.Errorf("GROCERY_API_URL must be set")
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("GROCERY_API_URL must be an absolute http(s) URL, got %q", raw)
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("GROCERY_HTTP_TIMEOUT must be positive")
	}
	return nil
}
