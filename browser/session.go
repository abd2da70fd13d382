package browser

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/chromedp"

	"github.com/sree-9523/RedBus/config"
)

// Session is the capability set the pipeline needs from a browser. Selector
// strings are configuration data; the pipeline never hardcodes them.
type Session interface {
	Navigate(ctx context.Context, url string) error
	Refresh(ctx context.Context) error
	// Click scrolls the matched element into view and clicks it, waiting for
	// it to become interactable. A selector that matches nothing returns
	// ErrElementMissing.
	Click(ctx context.Context, selector string) error
	Text(ctx context.Context, selector string) (string, error)
	// ContentExtent measures the document's scroll height, the convergence
	// signal for lazy-loaded listings.
	ContentExtent(ctx context.Context) (int64, error)
	ScrollToBottom(ctx context.Context) error
	// ItemsHTML snapshots every element matching selector as outerHTML, in
	// page order. Extraction then works on the snapshots, so a node detaching
	// mid-iteration cannot fail the batch.
	ItemsHTML(ctx context.Context, selector string) ([]string, error)
}

// ChromeSession drives a single headless Chrome tab via chromedp. The
// session is exclusively owned by one pipeline run; it is not safe for
// concurrent callers.
type ChromeSession struct {
	ctx         context.Context
	cancelTab   context.CancelFunc
	cancelAlloc context.CancelFunc
}

// NewChromeSession starts a headless browser and opens the tab the run will
// own. Close must be called when the run is over.
func NewChromeSession(cfg *config.Config) (*ChromeSession, error) {
	chromeBin := cfg.ChromeBin
	if chromeBin == "" {
		chromeBin = findChromeBinary()
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent("Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 "+
			"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"),
	)
	if chromeBin != "" {
		opts = append(opts, chromedp.ExecPath(chromeBin))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), opts...)
	tabCtx, cancelTab := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(func(string, ...interface{}) {}))

	// Start the browser now so a missing binary fails fast.
	if err := chromedp.Run(tabCtx); err != nil {
		cancelTab()
		cancelAlloc()
		return nil, fmt.Errorf("start browser: %w", err)
	}

	return &ChromeSession{ctx: tabCtx, cancelTab: cancelTab, cancelAlloc: cancelAlloc}, nil
}

// Close shuts the tab and the browser process down.
func (s *ChromeSession) Close() error {
	s.cancelTab()
	s.cancelAlloc()
	return nil
}

func (s *ChromeSession) Navigate(ctx context.Context, url string) error {
	return s.run(ctx, chromedp.Navigate(url))
}

func (s *ChromeSession) Refresh(ctx context.Context) error {
	return s.run(ctx, chromedp.Reload())
}

// presencePoll is the re-probe interval while waiting for a client-rendered
// control to appear in the DOM.
const presencePoll = 200 * time.Millisecond

func (s *ChromeSession) Click(ctx context.Context, selector string) error {
	opts := queryOpts(selector)

	// The page renders client-side, so a control is routinely not in the
	// DOM yet right after navigation. Poll for presence up to the attempt
	// deadline; only an element still absent after the full budget counts
	// as genuinely missing.
	err := pollPresence(ctx, selector, presencePoll, func(ctx context.Context) (bool, error) {
		var nodes []*cdp.Node
		probe := append(opts, chromedp.AtLeast(0))
		if err := s.run(ctx, chromedp.Nodes(selector, &nodes, probe...)); err != nil {
			return false, err
		}
		return len(nodes) > 0, nil
	})
	if err != nil {
		return err
	}

	return s.run(ctx,
		chromedp.ScrollIntoView(selector, opts...),
		chromedp.Click(selector, opts...),
	)
}

// pollPresence re-probes for the element until it shows up or the deadline
// passes. Absence after the full budget maps to ErrElementMissing; an
// external cancellation or any other probe failure propagates as-is.
func pollPresence(ctx context.Context, selector string, interval time.Duration, probe func(context.Context) (bool, error)) error {
	for {
		present, err := probe(ctx)
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				return fmt.Errorf("%w: %s", ErrElementMissing, selector)
			}
			return err
		}
		if present {
			return nil
		}
		if err := sleep(ctx, interval); err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				return fmt.Errorf("%w: %s", ErrElementMissing, selector)
			}
			return err
		}
	}
}

func (s *ChromeSession) Text(ctx context.Context, selector string) (string, error) {
	var text string
	err := s.run(ctx, chromedp.Text(selector, &text, queryOpts(selector)...))
	return strings.TrimSpace(text), err
}

func (s *ChromeSession) ContentExtent(ctx context.Context) (int64, error) {
	var height int64
	err := s.run(ctx, chromedp.Evaluate(`document.body.scrollHeight`, &height))
	return height, err
}

func (s *ChromeSession) ScrollToBottom(ctx context.Context) error {
	return s.run(ctx, chromedp.Evaluate(`window.scrollTo(0, document.body.scrollHeight)`, nil))
}

func (s *ChromeSession) ItemsHTML(ctx context.Context, selector string) ([]string, error) {
	var items []string
	script := fmt.Sprintf(
		`Array.from(document.querySelectorAll(%s)).map(function(el) { return el.outerHTML; })`,
		strconv.Quote(selector))
	err := s.run(ctx, chromedp.Evaluate(script, &items))
	return items, err
}

// run executes chromedp actions on the session tab while honoring the
// caller's context for cancellation and deadline.
func (s *ChromeSession) run(ctx context.Context, actions ...chromedp.Action) error {
	runCtx := s.ctx
	var cancel context.CancelFunc
	if dl, ok := ctx.Deadline(); ok {
		runCtx, cancel = context.WithDeadline(runCtx, dl)
	} else {
		runCtx, cancel = context.WithCancel(runCtx)
	}
	defer cancel()

	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	err := chromedp.Run(runCtx, actions...)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return err
}

// queryOpts picks the chromedp matcher: XPath for selectors that look like
// XPath (the navigation waypoints use title/href attributes), CSS otherwise.
func queryOpts(selector string) []chromedp.QueryOption {
	if strings.HasPrefix(selector, "/") || strings.HasPrefix(selector, "(") {
		return []chromedp.QueryOption{chromedp.BySearch}
	}
	return []chromedp.QueryOption{chromedp.ByQuery}
}

// findChromeBinary locates a Chrome/Chromium binary on the host.
func findChromeBinary() string {
	names := []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	paths := []string{
		"/usr/bin/google-chrome-stable",
		"/usr/bin/google-chrome",
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/snap/bin/chromium",
		"/opt/google/chrome/google-chrome",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}
