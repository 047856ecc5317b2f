package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"
)

// Validate performs rule validation on the loaded configuration.
// Load calls it automatically.
func (c *Config) Validate() error {
	if _, err := url.ParseRequestURI(c.Source.BaseURL); err != nil {
		return fmt.Errorf("source.base_url: %w", err)
	}

	switch c.Fetch.Transport {
	case "http", "browser":
	default:
		return fmt.Errorf("fetch.transport must be http or browser (got %q)", c.Fetch.Transport)
	}
	if c.Fetch.RateLimit < 0 || c.Fetch.MaxDelay < 0 || c.Fetch.MaxAge < 0 {
		return fmt.Errorf("fetch durations must not be negative")
	}
	if c.Fetch.Retries < 0 {
		return fmt.Errorf("fetch.retries must be >= 0 (got %d)", c.Fetch.Retries)
	}

	switch c.Cache.Backend {
	case "file":
		if c.Cache.DataDir == "" {
			return fmt.Errorf("cache.data_dir is required for the file backend")
		}
	case "redis":
		if c.Cache.RedisURL == "" {
			return fmt.Errorf("cache.redis_url is required for the redis backend")
		}
	default:
		return fmt.Errorf("cache.backend must be file or redis (got %q)", c.Cache.Backend)
	}

	if _, err := c.Log.SlogLevel(); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json (got %q)", c.Log.Format)
	}

	return nil
}

// SlogLevel parses the configured level name.
func (l LogConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	err := level.UnmarshalText([]byte(strings.ToUpper(l.Level)))
	return level, err
}
