package page

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

const (
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	// maxBodyBytes caps how much of a page is read.
	maxBodyBytes = 5 << 20
)

// Options configures how pages are loaded.
type Options struct {
	Timeout   time.Duration
	UserAgent string
	// Render loads the page in headless Chrome so client-side rendered boards get their DOM.
	Render bool
	Logger *zap.Logger
}

func (o *Options) withDefaults() Options {
	out := Options{}
	if o != nil {
		out = *o
	}
	if out.Timeout <= 0 {
		out.Timeout = defaultTimeout
	}
	if out.UserAgent == "" {
		out.UserAgent = defaultUserAgent
	}
	if out.Logger == nil {
		out.Logger = zap.NewNop()
	}
	return out
}

// Load retrieves rawURL over HTTP, or through a headless browser when opts.Render is set.
func Load(ctx context.Context, rawURL string, opts *Options) (*Document, error) {
	o := opts.withDefaults()

	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("invalid url %q", rawURL)
	}

	var markup string
	if o.Render {
		markup, err = Render(ctx, rawURL, o)
	} else {
		markup, err = Fetch(ctx, rawURL, o)
	}
	if err != nil {
		return nil, err
	}

	return FromHTML(rawURL, markup)
}

// Fetch performs a GET request with browser-like headers and returns the body.
func Fetch(ctx context.Context, rawURL string, opts Options) (string, error) {
	o := opts.withDefaults()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", err
	}

	req.Header.Set("User-Agent", o.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	client := &http.Client{Timeout: o.Timeout}

	o.Logger.Debug("fetching page", zap.String("url", rawURL))
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("bad status: %s", resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", fmt.Errorf("read page body: %w", err)
	}

	return string(body), nil
}

// Render loads rawURL in headless Chrome and returns the rendered markup.
// Chrome or Chromium must be installed.
func Render(ctx context.Context, rawURL string, opts Options) (string, error) {
	o := opts.withDefaults()

	allocCtx, cancel := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
			chromedp.UserAgent(o.UserAgent),
		)...,
	)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	browserCtx, cancel = context.WithTimeout(browserCtx, o.Timeout)
	defer cancel()

	o.Logger.Debug("rendering page in headless browser", zap.String("url", rawURL))

	var markup string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(rawURL),
		chromedp.WaitReady("body"),
		// Job boards hydrate the description after load.
		chromedp.Sleep(2*time.Second),
		chromedp.OuterHTML("html", &markup),
	)
	if err != nil {
		return "", fmt.Errorf("browser rendering failed: %w", err)
	}

	o.Logger.Debug("rendered page", zap.String("url", rawURL), zap.Int("bytes", len(markup)))
	return markup, nil
}
