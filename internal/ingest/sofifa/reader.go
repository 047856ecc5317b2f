// Package sofifa reads versions, leagues, teams, players and their ratings
// from sofifa.com and resolves them into flat, sorted record tables.
//
// Every entity page is addressed by a version id, so reads iterate over the
// Cartesian product of the selected versions and the parent entities:
// leagues for teams, teams for players, players for player ratings.
package sofifa

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/fortuna/sofifa/internal/normalize"
)

// Fetcher retrieves a page through the document cache. A zero maxAge
// trusts a cached copy forever.
type Fetcher interface {
	Get(ctx context.Context, url, cacheKey string, maxAge time.Duration) ([]byte, error)
}

// Options configure a Reader.
type Options struct {
	// Leagues are canonical league names. Empty selects every league in
	// the dictionary.
	Leagues  []string
	Versions VersionSelector
	BaseURL  string
	// MaxAge bounds the cached index and latest edition pages.
	MaxAge     time.Duration
	LeagueDict LeagueDict
	Aliases    *normalize.Aliases
	Logger     *slog.Logger
	Reporter   Reporter
}

// Reader resolves the site's entities for a fixed league and version
// selection. It is not safe for concurrent use.
type Reader struct {
	fetcher  Fetcher
	urls     urls
	dict     LeagueDict
	leagues  []string
	versions []Version
	maxAge   time.Duration
	aliases  *normalize.Aliases
	logger   *slog.Logger
	reporter Reporter
}

// NewReader validates the league selection, reads the version history and
// fixes the selected versions for the lifetime of the Reader.
func NewReader(ctx context.Context, fetcher Fetcher, opts Options) (*Reader, error) {
	u, err := newURLs(opts.BaseURL)
	if err != nil {
		return nil, err
	}

	dict := opts.LeagueDict
	if dict == nil {
		dict = DefaultLeagueDict()
	}
	leagues, err := selectLeagues(dict, opts.Leagues)
	if err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "sofifa")

	reporter := opts.Reporter
	if reporter == nil {
		reporter = logReporter{logger: logger}
	}

	r := &Reader{
		fetcher:  fetcher,
		urls:     u,
		dict:     dict,
		leagues:  leagues,
		maxAge:   opts.MaxAge,
		aliases:  opts.Aliases,
		logger:   logger,
		reporter: reporter,
	}

	history, err := r.ReadVersions(ctx)
	if err != nil {
		return nil, fmt.Errorf("read version history: %w", err)
	}
	r.versions, err = opts.Versions.resolve(history)
	if err != nil {
		return nil, err
	}

	logger.Debug("reader ready", "leagues", leagues, "versions", len(r.versions))
	return r, nil
}

func selectLeagues(dict LeagueDict, requested []string) ([]string, error) {
	if len(requested) == 0 {
		leagues := make([]string, 0, len(dict))
		for canonical := range dict {
			leagues = append(leagues, canonical)
		}
		sort.Strings(leagues)
		return leagues, nil
	}

	seen := make(map[string]bool, len(requested))
	leagues := make([]string, 0, len(requested))
	for _, league := range requested {
		if _, ok := dict[league]; !ok {
			return nil, &UnknownLeagueError{League: league, Reason: "not in the league dictionary"}
		}
		if !seen[league] {
			seen[league] = true
			leagues = append(leagues, league)
		}
	}
	return leagues, nil
}

// Leagues returns the selected canonical league names.
func (r *Reader) Leagues() []string {
	return append([]string(nil), r.leagues...)
}

// Versions returns the selected versions in ascending id order.
func (r *Reader) Versions() []Version {
	return append([]Version(nil), r.versions...)
}

// fetchDocument retrieves an entity page. Entity pages are addressed by
// version id; cached copies are trusted forever.
func (r *Reader) fetchDocument(ctx context.Context, url, key string) ([]byte, error) {
	body, err := r.fetcher.Get(ctx, url, key, 0)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", key, err)
	}
	return body, nil
}
