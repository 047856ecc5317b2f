package fetch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/chromedp/chromedp"
)

// BrowserTransport renders pages in headless Chrome. Use it when the plain
// HTTP client is blocked by the site's bot protection.
type BrowserTransport struct {
	allocCtx context.Context
	cancel   context.CancelFunc
	timeout  time.Duration
	logger   *slog.Logger
}

// NewBrowserTransport starts a headless browser allocator.
func NewBrowserTransport(userAgent string, timeout time.Duration, logger *slog.Logger) *BrowserTransport {
	if userAgent == "" {
		userAgent = UserAgent
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent(userAgent),
	)

	allocCtx, cancel := chromedp.NewExecAllocator(context.Background(), opts...)

	return &BrowserTransport{
		allocCtx: allocCtx,
		cancel:   cancel,
		timeout:  timeout,
		logger:   logger.With("component", "fetch.browser"),
	}
}

// Close releases resources
func (t *BrowserTransport) Close() {
	if t.cancel != nil {
		t.cancel()
	}
}

// Fetch returns the rendered HTML, or the raw body text for JSON responses.
func (t *BrowserTransport) Fetch(ctx context.Context, url string) ([]byte, error) {
	browserCtx, cancel := chromedp.NewContext(t.allocCtx)
	defer cancel()

	browserCtx, cancel = context.WithTimeout(browserCtx, t.timeout)
	defer cancel()

	// Stop the browser tab when the caller gives up.
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	var contentType, content string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady(`body`, chromedp.ByQuery),
		chromedp.Evaluate(`document.contentType`, &contentType),
	)
	if err != nil {
		return nil, fmt.Errorf("chromedp error: %w", err)
	}

	if contentType == "application/json" {
		err = chromedp.Run(browserCtx, chromedp.Text(`body`, &content, chromedp.ByQuery))
	} else {
		err = chromedp.Run(browserCtx, chromedp.OuterHTML(`html`, &content, chromedp.ByQuery))
	}
	if err != nil {
		return nil, fmt.Errorf("chromedp error: %w", err)
	}

	if content == "" {
		return nil, fmt.Errorf("empty content returned")
	}
	t.logger.Debug("rendered", "url", url, "content_type", contentType, "bytes", len(content))
	return []byte(content), nil
}
