package config

import (
	"fmt"
	"strings"

	"github.com/kelseyhightower/envconfig"
)

// Config holds process-wide settings for the newsindex CLI and HTTP server.
type Config struct {
	Environment string `envconfig:"ENVIRONMENT" default:"local"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`

	IndexBuckets   int    `envconfig:"NI_INDEX_BUCKETS" default:"10007"`
	StopWordsFile  string `envconfig:"NI_STOPWORDS_FILE" default:""`
	HTTPHost       string `envconfig:"NI_HTTP_HOST" default:"0.0.0.0"`
	HTTPPort       int    `envconfig:"NI_HTTP_PORT" default:"8080"`
	CORSAllowed    string `envconfig:"NI_CORS_ALLOWED_ORIGINS" default:""`
	ReaderTimeoutS int    `envconfig:"NI_READER_TIMEOUT_SECONDS" default:"12"`
}

// Load reads configuration from the environment and validates it.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.IndexBuckets < 0 {
		return fmt.Errorf("NI_INDEX_BUCKETS must be >= 0")
	}
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("NI_HTTP_PORT must be between 1 and 65535")
	}
	if c.ReaderTimeoutS < 1 {
		return fmt.Errorf("NI_READER_TIMEOUT_SECONDS must be >= 1")
	}
	return nil
}

// CORSAllowedOriginsList returns the configured CORS origins, deduplicated
// and order-preserving.
func (c *Config) CORSAllowedOriginsList() []string {
	if c == nil {
		return nil
	}

	parts := strings.Split(c.CORSAllowed, ",")
	origins := make([]string, 0, len(parts))
	seen := make(map[string]struct{}, len(parts))
	for _, part := range parts {
		origin := strings.TrimSpace(part)
		if origin == "" {
			continue
		}
		if _, exists := seen[origin]; exists {
			continue
		}
		seen[origin] = struct{}{}
		origins = append(origins, origin)
	}
	return origins
}
