// Package screenshot captures the dashboard pages from a running server
// through a headless Chrome.
package screenshot

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"countrydash/internal/errors"

	"github.com/chromedp/chromedp"
)

// Page is one page to capture and the file it is saved to
type Page struct {
	File string
	Path string
}

// DefaultPages are the dashboard pages in capture order
var DefaultPages = []Page{
	{File: "dashboard.png", Path: "/"},
	{File: "histograms.png", Path: "/histograms"},
	{File: "scatter.png", Path: "/scatter"},
	{File: "visualizations.png", Path: "/visualizations"},
}

// Capturer renders a URL to PNG bytes
type Capturer interface {
	Capture(ctx context.Context, url string) ([]byte, error)
}

// Options configures the browser
type Options struct {
	Width  int
	Height int
	// Wait is how long a page gets to finish its client-side rendering
	Wait time.Duration
}

// ChromeCapturer drives one headless Chrome process. Each capture runs in a
// fresh tab.
type ChromeCapturer struct {
	opts          Options
	browser       context.Context
	cancelAlloc   context.CancelFunc
	cancelBrowser context.CancelFunc
}

// NewChromeCapturer starts a headless browser. Close releases it.
func NewChromeCapturer(ctx context.Context, opts Options) (*ChromeCapturer, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, errors.InvalidInput("viewport dimensions must be positive")
	}

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Headless,
		chromedp.NoSandbox,
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.WindowSize(opts.Width, opts.Height),
	)
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, allocOpts...)
	browser, cancelBrowser := chromedp.NewContext(allocCtx, chromedp.WithLogf(log.Printf))

	// start the browser now so a missing Chrome fails here, not on the first page
	if err := chromedp.Run(browser); err != nil {
		cancelBrowser()
		cancelAlloc()
		return nil, errors.Wrap(err, "failed to start headless browser")
	}

	return &ChromeCapturer{
		opts:          opts,
		browser:       browser,
		cancelAlloc:   cancelAlloc,
		cancelBrowser: cancelBrowser,
	}, nil
}

// Capture loads url in a new tab, waits and takes a viewport screenshot
func (c *ChromeCapturer) Capture(ctx context.Context, url string) ([]byte, error) {
	tab, cancel := chromedp.NewContext(c.browser)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	var buf []byte
	err := chromedp.Run(tab,
		chromedp.EmulateViewport(int64(c.opts.Width), int64(c.opts.Height)),
		chromedp.Navigate(url),
		chromedp.Sleep(c.opts.Wait),
		chromedp.CaptureScreenshot(&buf),
	)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, err
	}
	return buf, nil
}

// Close shuts the browser down
func (c *ChromeCapturer) Close() {
	c.cancelBrowser()
	c.cancelAlloc()
}

// Driver captures a set of pages from a base URL into an output directory
type Driver struct {
	capturer Capturer
	baseURL  string
	outDir   string
}

// NewDriver creates a driver. baseURL is the server root, e.g.
// http://localhost:5000.
func NewDriver(capturer Capturer, baseURL, outDir string) *Driver {
	return &Driver{
		capturer: capturer,
		baseURL:  strings.TrimRight(baseURL, "/"),
		outDir:   outDir,
	}
}

// Run captures pages in order and returns the paths written. It stops at the
// first page that fails.
func (d *Driver) Run(ctx context.Context, pages []Page) ([]string, error) {
	if err := os.MkdirAll(d.outDir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "failed to create %s", d.outDir)
	}

	written := make([]string, 0, len(pages))
	for _, page := range pages {
		url := d.URL(page)
		log.Printf("[Screenshots] Taking screenshot of %s...", url)

		png, err := d.capturer.Capture(ctx, url)
		if err != nil {
			return written, errors.Wrapf(err, "failed to capture %s", url)
		}

		target := filepath.Join(d.outDir, page.File)
		if err := os.WriteFile(target, png, 0o644); err != nil {
			return written, errors.Wrapf(err, "failed to write %s", target)
		}
		log.Printf("[Screenshots] Screenshot saved to %s", target)
		written = append(written, target)
	}
	return written, nil
}

// URL returns the absolute address of page
func (d *Driver) URL(page Page) string {
	if !strings.HasPrefix(page.Path, "/") {
		return d.baseURL + "/" + page.Path
	}
	return d.baseURL + page.Path
}
