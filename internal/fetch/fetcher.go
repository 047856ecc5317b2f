// Package fetch resolves URLs to raw documents, serving them from a local
// cache when fresh and rate limiting every network request.
package fetch

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/fortuna/sofifa/internal/cache"
)

const (
	// DefaultRateLimit is the minimum interval between network requests.
	DefaultRateLimit = 1 * time.Second
)

// Transport downloads a single URL.
type Transport interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Options tune caching and pacing.
type Options struct {
	RateLimit time.Duration // minimum interval between network requests
	MaxDelay  time.Duration // extra random delay, up to this value
	NoCache   bool          // never read from the cache
	NoStore   bool          // never write to the cache
	Logger    *slog.Logger
}

// Fetcher serves documents from the cache when fresh and downloads them
// through the transport otherwise.
type Fetcher struct {
	transport Transport
	store     cache.Store
	opts      Options
	logger    *slog.Logger

	mu          sync.Mutex
	lastRequest time.Time
	now         func() time.Time
	sleep       func(ctx context.Context, d time.Duration) error
}

// New creates a fetcher. A nil store disables caching.
func New(transport Transport, store cache.Store, opts Options) *Fetcher {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Fetcher{
		transport: transport,
		store:     store,
		opts:      opts,
		logger:    logger.With("component", "fetch"),
		now:       time.Now,
		sleep:     sleepContext,
	}
}

// Get returns the document at url. cacheKey identifies the cached copy; a
// cached copy younger than maxAge (or of any age when maxAge is zero) is
// returned without network access.
func (f *Fetcher) Get(ctx context.Context, url, cacheKey string, maxAge time.Duration) ([]byte, error) {
	if f.store != nil && !f.opts.NoCache {
		body, ok, err := f.store.Get(ctx, cacheKey, maxAge)
		if err != nil {
			f.logger.Warn("cache read failed", "key", cacheKey, "error", err)
		} else if ok {
			return body, nil
		}
	}

	if err := f.wait(ctx); err != nil {
		return nil, err
	}

	f.logger.Debug("downloading", "url", url)
	body, err := f.transport.Fetch(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}

	if f.store != nil && !f.opts.NoStore {
		if err := f.store.Put(ctx, cacheKey, body); err != nil {
			return nil, fmt.Errorf("store %s: %w", cacheKey, err)
		}
	}
	return body, nil
}

// wait enforces the minimum interval between network requests.
func (f *Fetcher) wait(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	interval := f.opts.RateLimit
	if f.opts.MaxDelay > 0 {
		interval += rand.N(f.opts.MaxDelay)
	}
	if !f.lastRequest.IsZero() {
		if elapsed := f.now().Sub(f.lastRequest); elapsed < interval {
			waitTime := interval - elapsed
			f.logger.Debug("rate limiting", "wait", waitTime)
			if err := f.sleep(ctx, waitTime); err != nil {
				return err
			}
		}
	}
	f.lastRequest = f.now()
	return nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
