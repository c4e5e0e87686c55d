// CLAUDE:SUMMARY Capture controller: navigates, settles, scrolls, screenshots one URL; converts every failure into a labeled placeholder image.
// Package capture photographs a single URL through an isolated browser
// session and always hands back a displayable image: a labeled
// screenshot on success, a synthetic placeholder carrying the error
// text on any failure. Navigation errors never escape this package.
package capture

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"net/url"
	"time"
)

// Status classifies the outcome of one capture attempt.
type Status string

const (
	// StatusCaptured means a real screenshot was taken and written.
	StatusCaptured Status = "captured"
	// StatusPlaceholder means the capture failed and a placeholder
	// image was written in its place.
	StatusPlaceholder Status = "placeholder"
	// StatusFailed means not even the placeholder could be written to
	// the output path. No file exists for this capture.
	StatusFailed Status = "failed"
)

// Viewport is the requested capture geometry: a fixed desktop width and
// a cap on the measured page height.
type Viewport struct {
	Width     int
	MaxHeight int
}

// Capture is the immutable result of one capture attempt.
type Capture struct {
	URL      string
	Label    string
	Viewport Viewport
	Path     string
	Status   Status
	Err      string // error detail, set iff Status != StatusCaptured
}

// Session is one isolated browser page. Implementations own exactly one
// page context and are discarded after a single capture.
type Session interface {
	// Navigate loads the URL, bounded by timeout, and waits for the
	// load event.
	Navigate(ctx context.Context, pageURL string, timeout time.Duration) error
	// WaitReady blocks until the network goes idle or the settle delay
	// elapses, whichever comes first.
	WaitReady(ctx context.Context, settle time.Duration) error
	// ScrollThrough scrolls to the bottom in step-pixel increments with
	// a pause between steps, then back to the top.
	ScrollThrough(ctx context.Context, step int, pause time.Duration) error
	// ContentHeight measures the rendered document height in pixels.
	ContentHeight(ctx context.Context) (int, error)
	// SetViewport resizes the page viewport.
	SetViewport(ctx context.Context, width, height int) error
	// Screenshot captures the current viewport as PNG bytes.
	Screenshot(ctx context.Context) ([]byte, error)
	Close() error
}

// Engine opens isolated browser sessions. The production implementation
// wraps a shared Chrome instance; tests inject fakes.
type Engine interface {
	NewSession(ctx context.Context) (Session, error)
}

// Config tunes the capture protocol.
type Config struct {
	// NavTimeout bounds navigation. Default: 30s.
	NavTimeout time.Duration
	// NavRetries is how many times a failed navigation is retried
	// before giving up on the page. Default: 1.
	NavRetries int
	// Settle is the fixed post-load delay raced against network idle.
	// Default: 2s.
	Settle time.Duration
	// ScrollStep is the scroll increment in pixels. Default: 100.
	ScrollStep int
	// ScrollPause is the delay between scroll increments. Default: 50ms.
	ScrollPause time.Duration
	// PostScrollPause lets lazy-loaded assets finish rendering after
	// the scroll pass. Default: 1s.
	PostScrollPause time.Duration
}

func (c *Config) defaults() {
	if c.NavTimeout <= 0 {
		c.NavTimeout = 30 * time.Second
	}
	if c.NavRetries < 0 {
		c.NavRetries = 0
	} else if c.NavRetries == 0 {
		c.NavRetries = 1
	}
	if c.Settle <= 0 {
		c.Settle = 2 * time.Second
	}
	if c.ScrollStep <= 0 {
		c.ScrollStep = 100
	}
	if c.ScrollPause <= 0 {
		c.ScrollPause = 50 * time.Millisecond
	}
	if c.PostScrollPause <= 0 {
		c.PostScrollPause = time.Second
	}
}

// Controller drives one browser session per capture. It performs no
// internal parallelism; callers may run multiple captures concurrently
// because every call owns its own session and output path.
type Controller struct {
	engine Engine
	cfg    Config
	logger *slog.Logger
}

// New creates a Controller on top of an Engine.
func New(engine Engine, cfg Config, logger *slog.Logger) *Controller {
	cfg.defaults()
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{engine: engine, cfg: cfg, logger: logger}
}

// Capture photographs pageURL and writes the result to outPath. On any
// failure (malformed URL, navigation, measurement, screenshot) it
// writes a placeholder image instead and reports StatusPlaceholder;
// only a write failure on outPath itself yields StatusFailed.
//
// "Page ready" is a heuristic: the network going idle or a fixed settle
// delay after load, whichever completes first. Pages with persistent
// background polling may be photographed before all visual content has
// settled.
func (c *Controller) Capture(ctx context.Context, pageURL, label string, vp Viewport, outPath string) Capture {
	result := Capture{URL: pageURL, Label: label, Viewport: vp, Path: outPath, Status: StatusCaptured}

	img, err := c.photograph(ctx, pageURL, vp)
	if err != nil {
		c.logger.Warn("capture: falling back to placeholder",
			"url", pageURL, "label", label, "error", err)
		result.Status = StatusPlaceholder
		result.Err = err.Error()
		img = Placeholder(label, err.Error())
	} else {
		img = AddBanner(img, label)
	}

	if werr := savePNG(outPath, img); werr != nil {
		c.logger.Error("capture: write failed", "path", outPath, "error", werr)
		result.Status = StatusFailed
		result.Err = werr.Error()
	}
	return result
}

func (c *Controller) photograph(ctx context.Context, pageURL string, vp Viewport) (image.Image, error) {
	u, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("capture: parse url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("capture: unsupported scheme %q in %s", u.Scheme, pageURL)
	}

	s, err := c.engine.NewSession(ctx)
	if err != nil {
		return nil, fmt.Errorf("capture: open session: %w", err)
	}
	// Session teardown before returning keeps a hung page from
	// contaminating any later capture.
	defer s.Close()

	if err := c.navigate(ctx, s, pageURL); err != nil {
		return nil, err
	}

	if err := s.WaitReady(ctx, c.cfg.Settle); err != nil {
		// Readiness is best-effort; photograph whatever rendered.
		c.logger.Debug("capture: ready wait interrupted", "url", pageURL, "error", err)
	}

	if err := s.ScrollThrough(ctx, c.cfg.ScrollStep, c.cfg.ScrollPause); err != nil {
		return nil, fmt.Errorf("capture: scroll %s: %w", pageURL, err)
	}
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(c.cfg.PostScrollPause):
	}

	height, err := s.ContentHeight(ctx)
	if err != nil {
		return nil, fmt.Errorf("capture: measure %s: %w", pageURL, err)
	}
	if height < 1 {
		// A page that reports no height gets the modest placeholder
		// geometry, not the full clamp ceiling.
		height = placeholderSize.Y
	}
	if height > vp.MaxHeight {
		height = vp.MaxHeight
	}

	if err := s.SetViewport(ctx, vp.Width, height); err != nil {
		return nil, fmt.Errorf("capture: viewport %s: %w", pageURL, err)
	}

	shot, err := s.Screenshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("capture: screenshot %s: %w", pageURL, err)
	}
	img, err := png.Decode(bytes.NewReader(shot))
	if err != nil {
		return nil, fmt.Errorf("capture: decode screenshot %s: %w", pageURL, err)
	}
	return img, nil
}

// navigate tries the navigation up to 1+NavRetries times. A bounded
// retry here is recoverable without re-running the whole company.
func (c *Controller) navigate(ctx context.Context, s Session, pageURL string) error {
	var err error
	for attempt := 0; attempt <= c.cfg.NavRetries; attempt++ {
		if attempt > 0 {
			c.logger.Debug("capture: retrying navigation", "url", pageURL, "attempt", attempt)
		}
		if err = s.Navigate(ctx, pageURL, c.cfg.NavTimeout); err == nil {
			return nil
		}
		if ctx.Err() != nil {
			break
		}
	}
	return fmt.Errorf("capture: navigate %s: %w", pageURL, err)
}
