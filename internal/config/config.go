// Package config loads reader settings from YAML and the environment.
package config

import (
	"time"
)

// Config is the root configuration.
type Config struct {
	Source  SourceConfig  `yaml:"source"`
	Fetch   FetchConfig   `yaml:"fetch"`
	Cache   CacheConfig   `yaml:"cache"`
	Log     LogConfig     `yaml:"log"`
	Session SessionConfig `yaml:"session"`
}

// SourceConfig points at the site and the name translation tables.
type SourceConfig struct {
	BaseURL              string `yaml:"base_url"              env:"SOFIFA_BASE_URL"              env-default:"https://sofifa.com"`
	LeagueDict           string `yaml:"league_dict"           env:"SOFIFA_LEAGUE_DICT"`
	TeamnameReplacements string `yaml:"teamname_replacements" env:"SOFIFA_TEAMNAME_REPLACEMENTS"`
}

// FetchConfig controls the transport and request pacing.
type FetchConfig struct {
	Transport string        `yaml:"transport"  env:"SOFIFA_TRANSPORT"   env-default:"http"`
	RateLimit time.Duration `yaml:"rate_limit" env:"SOFIFA_RATE_LIMIT"  env-default:"1s"`
	MaxDelay  time.Duration `yaml:"max_delay"  env:"SOFIFA_MAX_DELAY"   env-default:"0s"`
	Timeout   time.Duration `yaml:"timeout"    env:"SOFIFA_TIMEOUT"     env-default:"30s"`
	Retries   int           `yaml:"retries"    env:"SOFIFA_RETRIES"     env-default:"5"`
	UserAgent string        `yaml:"user_agent" env:"SOFIFA_USER_AGENT"`
	Proxy     string        `yaml:"proxy"      env:"SOFIFA_PROXY"`
	// MaxAge bounds the age of cached pages that track the latest release.
	// Zero trusts cached pages forever.
	MaxAge  time.Duration `yaml:"max_age"  env:"SOFIFA_MAXAGE"   env-default:"0s"`
	NoCache bool          `yaml:"no_cache" env:"SOFIFA_NOCACHE"  env-default:"false"`
	NoStore bool          `yaml:"no_store" env:"SOFIFA_NOSTORE"  env-default:"false"`
}

// CacheConfig selects the document cache backend.
type CacheConfig struct {
	Backend   string `yaml:"backend"    env:"SOFIFA_CACHE_BACKEND" env-default:"file"`
	DataDir   string `yaml:"data_dir"   env:"SOFIFA_DATA_DIR"      env-default:"~/soccerdata/data/SoFIFA"`
	RedisURL  string `yaml:"redis_url"  env:"SOFIFA_REDIS_URL"     env-default:"redis://localhost:6379"`
	KeyPrefix string `yaml:"key_prefix" env:"SOFIFA_CACHE_PREFIX"  env-default:"sofifa:"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"SOFIFA_LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"SOFIFA_LOG_FORMAT" env-default:"text"`
}

// SessionConfig holds the default league and version selection.
type SessionConfig struct {
	Leagues  []string `yaml:"leagues"  env:"SOFIFA_LEAGUES"  env-separator:","`
	Versions string   `yaml:"versions" env:"SOFIFA_VERSIONS" env-default:"latest"`
}
