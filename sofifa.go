// Package sofifa reads player and team ratings from sofifa.com.
//
// A Client is opened from a Config, which selects the leagues and game
// versions to read, the transport used to reach the site and the cache
// that keeps every downloaded page:
//
//	cfg, err := sofifa.LoadConfig()
//	...
//	client, err := sofifa.Open(ctx, cfg, nil)
//	...
//	defer client.Close()
//	ratings, err := client.ReadPlayerRatings(ctx, sofifa.PlayerRatingsQuery{Teams: []string{"Arsenal"}})
package sofifa

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/fortuna/sofifa/internal/cache"
	"github.com/fortuna/sofifa/internal/config"
	"github.com/fortuna/sofifa/internal/fetch"
	ingest "github.com/fortuna/sofifa/internal/ingest/sofifa"
	"github.com/fortuna/sofifa/internal/logging"
	"github.com/fortuna/sofifa/internal/normalize"
)

type (
	Config             = config.Config
	Reader             = ingest.Reader
	Reporter           = ingest.Reporter
	VersionSelector    = ingest.VersionSelector
	Version            = ingest.Version
	League             = ingest.League
	Team               = ingest.Team
	Player             = ingest.Player
	TeamRating         = ingest.TeamRating
	PlayerRating       = ingest.PlayerRating
	Points             = ingest.Points
	PlayerRatingsQuery = ingest.PlayerRatingsQuery

	ParseError                = ingest.ParseError
	NoDataError               = ingest.NoDataError
	UnknownLeagueError        = ingest.UnknownLeagueError
	InvalidVersionError       = ingest.InvalidVersionError
	MissingRequiredFieldError = ingest.MissingRequiredFieldError
)

var (
	ErrParse                = ingest.ErrParse
	ErrNoData               = ingest.ErrNoData
	ErrUnknownLeague        = ingest.ErrUnknownLeague
	ErrInvalidVersion       = ingest.ErrInvalidVersion
	ErrMissingRequiredField = ingest.ErrMissingRequiredField
)

var (
	LatestVersion        = ingest.LatestVersion
	AllVersions          = ingest.AllVersions
	VersionIDs           = ingest.VersionIDs
	ParseVersionSelector = ingest.ParseVersionSelector
	TeamRatingColumns    = ingest.TeamRatingColumns
	SkillColumns         = ingest.SkillColumns
)

// LoadConfig reads the configuration from SOFIFA_CONFIG (or ./config.yaml)
// and the environment.
func LoadConfig() (*Config, error) {
	return config.Load()
}

// Client is a Reader together with the resources it holds open.
type Client struct {
	*Reader
	closers []func() error
}

// Open wires the configured cache, transport and name tables into a Reader.
// A nil logger is built from cfg.Log. The version history is read before
// Open returns.
func Open(ctx context.Context, cfg *Config, logger *slog.Logger) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}
	if logger == nil {
		var err error
		if logger, err = logging.New(cfg.Log, nil); err != nil {
			return nil, err
		}
	}

	c := &Client{}
	store, err := openStore(cfg.Cache, c)
	if err != nil {
		return nil, err
	}
	logger.Debug("cache ready", "backend", cfg.Cache.Backend)

	transport := openTransport(cfg.Fetch, logger, c)
	fetcher := fetch.New(transport, store, fetch.Options{
		RateLimit: cfg.Fetch.RateLimit,
		MaxDelay:  cfg.Fetch.MaxDelay,
		NoCache:   cfg.Fetch.NoCache,
		NoStore:   cfg.Fetch.NoStore,
		Logger:    logger,
	})

	dict, err := ingest.LoadLeagueDict(cfg.Source.LeagueDict)
	if err != nil {
		c.Close()
		return nil, err
	}
	aliases, err := normalize.LoadAliases(cfg.Source.TeamnameReplacements)
	if err != nil {
		c.Close()
		return nil, err
	}
	versions, err := ingest.ParseVersionSelector(cfg.Session.Versions)
	if err != nil {
		c.Close()
		return nil, err
	}

	c.Reader, err = ingest.NewReader(ctx, fetcher, ingest.Options{
		Leagues:    cfg.Session.Leagues,
		Versions:   versions,
		BaseURL:    cfg.Source.BaseURL,
		MaxAge:     cfg.Fetch.MaxAge,
		LeagueDict: dict,
		Aliases:    aliases,
		Logger:     logger,
	})
	if err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}

func openStore(cfg config.CacheConfig, c *Client) (cache.Store, error) {
	switch cfg.Backend {
	case "redis":
		rc, err := cache.NewRedisCache(cfg.RedisURL, cfg.KeyPrefix)
		if err != nil {
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		c.closers = append(c.closers, rc.Close)
		return rc, nil
	default:
		return cache.NewFileStore(cfg.DataDir)
	}
}

func openTransport(cfg config.FetchConfig, logger *slog.Logger, c *Client) fetch.Transport {
	if cfg.Transport == "browser" {
		bt := fetch.NewBrowserTransport(cfg.UserAgent, cfg.Timeout, logger)
		c.closers = append(c.closers, func() error {
			bt.Close()
			return nil
		})
		return bt
	}
	return fetch.NewHTTPTransport(fetch.HTTPOptions{
		UserAgent: cfg.UserAgent,
		Timeout:   cfg.Timeout,
		Retries:   cfg.Retries,
		Proxy:     cfg.Proxy,
		Logger:    logger,
	})
}

// Close releases the browser and cache connections.
func (c *Client) Close() error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		errs = append(errs, c.closers[i]())
	}
	c.closers = nil
	return errors.Join(errs...)
}
