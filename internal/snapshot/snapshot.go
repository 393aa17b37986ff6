// Package snapshot renders the dashboard in a headless browser and captures the result.
package snapshot

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/chromedp/chromedp"
)

// DefaultTimeout bounds a capture when the caller passes zero.
const DefaultTimeout = 30 * time.Second

// readyPollInterval is how often the page's ready flag is checked.
const readyPollInterval = 100 * time.Millisecond

// ErrNotReady is returned when the page never sets window.dashboardReady.
var ErrNotReady = errors.New("dashboard did not finish rendering")

// Options controls a capture.
type Options struct {
	Timeout    time.Duration
	Screenshot bool
	Quality    int
	Verbose    bool
}

// Result is a rendered dashboard.
type Result struct {
	HTML string
	// Failed lists canvases whose chart could not be created in the browser.
	Failed     []string
	Screenshot []byte
}

// Capture loads url in headless Chrome, waits for the dashboard script to finish and
// returns the rendered HTML. Chrome or Chromium must be installed.
func Capture(ctx context.Context, url string, opts Options) (*Result, error) {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Quality <= 0 || opts.Quality > 100 {
		opts.Quality = 90
	}
	if opts.Verbose {
		log.Printf("[snapshot] Rendering %s", url)
	}

	allocCtx, cancel := chromedp.NewExecAllocator(ctx, allocatorOptions()...)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	browserCtx, cancel = context.WithTimeout(browserCtx, opts.Timeout)
	defer cancel()

	res := &Result{}
	actions := []chromedp.Action{
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
		waitForReady(),
		chromedp.Evaluate(`window.dashboardFailed || []`, &res.Failed),
		chromedp.OuterHTML("html", &res.HTML),
	}
	if opts.Screenshot {
		actions = append(actions, chromedp.FullScreenshot(&res.Screenshot, opts.Quality))
	}

	if err := chromedp.Run(browserCtx, actions...); err != nil {
		return nil, fmt.Errorf("browser rendering failed: %w", err)
	}

	if opts.Verbose {
		log.Printf("[snapshot] Rendered HTML: %d bytes, %d failed charts", len(res.HTML), len(res.Failed))
	}
	return res, nil
}

func allocatorOptions() []chromedp.ExecAllocatorOption {
	return append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.WindowSize(1440, 1024),
	)
}

// waitForReady polls window.dashboardReady until it is true or the context ends.
func waitForReady() chromedp.ActionFunc {
	return func(ctx context.Context) error {
		ticker := time.NewTicker(readyPollInterval)
		defer ticker.Stop()

		for {
			var ready bool
			if err := chromedp.Evaluate(`window.dashboardReady === true`, &ready).Do(ctx); err != nil {
				return err
			}
			if ready {
				return nil
			}
			select {
			case <-ctx.Done():
				return fmt.Errorf("%w: %v", ErrNotReady, ctx.Err())
			case <-ticker.C:
			}
		}
	}
}
