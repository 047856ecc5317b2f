package fetch

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	// UserAgent for requests
	UserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	torProxy = "socks5://127.0.0.1:9050"
)

// HTTPOptions configure the plain HTTP transport.
type HTTPOptions struct {
	UserAgent string
	Timeout   time.Duration
	Retries   int
	Proxy     string // proxy URL, or "tor" for a local Tor daemon
	Logger    *slog.Logger
}

// HTTPTransport downloads documents with a plain HTTP client.
type HTTPTransport struct {
	client *resty.Client
	logger *slog.Logger
}

// NewHTTPTransport creates an HTTP transport.
func NewHTTPTransport(opts HTTPOptions) *HTTPTransport {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if opts.UserAgent == "" {
		opts.UserAgent = UserAgent
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}

	client := resty.New()
	client.SetHeader("user-agent", opts.UserAgent)
	client.SetTimeout(opts.Timeout)
	client.SetRetryCount(opts.Retries)
	client.SetRetryWaitTime(2 * time.Second)
	client.AddRetryCondition(func(res *resty.Response, err error) bool {
		if err != nil {
			return true
		}
		return res.StatusCode() == http.StatusTooManyRequests || res.StatusCode() >= http.StatusInternalServerError
	})
	switch opts.Proxy {
	case "":
	case "tor":
		client.SetProxy(torProxy)
	default:
		client.SetProxy(opts.Proxy)
	}

	return &HTTPTransport{
		client: client,
		logger: logger.With("component", "fetch.http"),
	}
}

func (t *HTTPTransport) Fetch(ctx context.Context, url string) ([]byte, error) {
	res, err := t.client.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		return nil, err
	}
	if res.IsError() {
		t.logger.Warn("unexpected status", "url", url, "status", res.StatusCode())
		return nil, fmt.Errorf("unexpected status %d", res.StatusCode())
	}
	return res.Body(), nil
}
