// CLAUDE:SUMMARY Chrome lifecycle for the capture pipeline: launch or connect, hand out isolated page sessions, recycle on memory/interval.
// Package browser owns the Chrome instance behind the capture pipeline:
// launch (or connect to a remote instance), hand out one isolated page
// session per capture, recycle the process on a memory threshold or
// lifetime interval, and tear everything down at worker shutdown.
//
// The engine is an explicitly owned handle, never ambient state: one
// engine per batch worker, acquired at worker start and closed at
// worker shutdown.
package browser

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"

	"github.com/hazyhaar/revamp/internal/capture"
)

// Config configures the browser engine.
type Config struct {
	// RemoteURL is the WebSocket URL of an external Chrome instance.
	// Empty = launch a local Chrome via launcher.
	RemoteURL string

	// Headful disables headless mode (debugging).
	Headful bool

	// Stealth applies the stealth evasions on every new page. Live
	// sites behind bot detection block vanilla headless Chrome.
	Stealth bool

	// MemoryLimit in bytes. Recycle Chrome when exceeded. Default: 1GB.
	MemoryLimit int64

	// RecycleInterval is the maximum lifetime of a Chrome process
	// within one batch. Default: 4h.
	RecycleInterval time.Duration

	Logger *slog.Logger
}

func (c *Config) defaults() {
	if c.MemoryLimit <= 0 {
		c.MemoryLimit = 1 << 30 // 1GB
	}
	if c.RecycleInterval <= 0 {
		c.RecycleInterval = 4 * time.Hour
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Engine manages one Chrome process and creates capture sessions on it.
type Engine struct {
	cfg     Config
	mu      sync.RWMutex
	browser *rod.Browser
	lnch    *launcher.Launcher
	startAt time.Time
	closed  bool
}

// NewEngine creates an Engine. Call Start to launch Chrome.
func NewEngine(cfg Config) *Engine {
	cfg.defaults()
	return &Engine{cfg: cfg}
}

// Start launches Chrome (or connects to a remote instance) and starts
// the recycle monitor. The monitor stops when ctx is cancelled.
func (e *Engine) Start(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return fmt.Errorf("browser: engine is closed")
	}

	b, err := e.launch()
	if err != nil {
		return err
	}
	e.browser = b
	e.startAt = time.Now()

	go e.monitorLoop(ctx)
	return nil
}

// NewSession opens an isolated page for a single capture. The session
// must be closed by the caller; no page state is shared across
// sessions.
func (e *Engine) NewSession(ctx context.Context) (capture.Session, error) {
	e.mu.RLock()
	b := e.browser
	e.mu.RUnlock()
	if b == nil {
		return nil, fmt.Errorf("browser: engine not started")
	}
	return newSession(ctx, b, e.cfg.Stealth, e.cfg.Logger)
}

// Close shuts down Chrome.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closed = true
	return e.cleanup()
}

func (e *Engine) launch() (*rod.Browser, error) {
	log := e.cfg.Logger

	var wsURL string
	if e.cfg.RemoteURL != "" {
		wsURL = e.cfg.RemoteURL
		log.Info("browser: connecting to remote", "url", wsURL)
	} else {
		l := launcher.New().
			Headless(!e.cfg.Headful).
			Set("disable-blink-features", "AutomationControlled")
		u, err := l.Launch()
		if err != nil {
			return nil, fmt.Errorf("browser: launch: %w", err)
		}
		wsURL = u
		e.lnch = l
		log.Info("browser: launched local chrome", "headful", e.cfg.Headful)
	}

	b := rod.New().ControlURL(wsURL)
	if err := b.Connect(); err != nil {
		return nil, fmt.Errorf("browser: connect: %w", err)
	}

	// Redesigned variants are usually served over plain http or a
	// self-signed dev cert.
	if err := b.IgnoreCertErrors(true); err != nil {
		log.Warn("browser: ignore cert errors failed", "error", err)
	}
	return b, nil
}

func (e *Engine) recycle() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return fmt.Errorf("browser: engine is closed")
	}

	log := e.cfg.Logger
	log.Info("browser: recycling", "uptime", time.Since(e.startAt))

	if err := e.cleanup(); err != nil {
		log.Warn("browser: cleanup during recycle", "error", err)
	}

	b, err := e.launch()
	if err != nil {
		return fmt.Errorf("browser: relaunch: %w", err)
	}
	e.browser = b
	e.startAt = time.Now()
	return nil
}

func (e *Engine) cleanup() error {
	if e.browser != nil {
		e.browser.Close()
		e.browser = nil
	}
	if e.lnch != nil {
		e.lnch.Cleanup()
		e.lnch = nil
	}
	return nil
}

func (e *Engine) monitorLoop(ctx context.Context) {
	log := e.cfg.Logger
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			e.mu.RLock()
			if e.closed || e.browser == nil {
				e.mu.RUnlock()
				return
			}
			startAt := e.startAt
			b := e.browser
			e.mu.RUnlock()

			if time.Since(startAt) > e.cfg.RecycleInterval {
				log.Info("browser: recycle interval reached")
				if err := e.recycle(); err != nil {
					log.Error("browser: recycle failed", "error", err)
				}
				continue
			}

			used, err := jsHeapUsage(b)
			if err != nil {
				log.Debug("browser: heap check failed", "error", err)
				continue
			}
			if used > e.cfg.MemoryLimit {
				log.Info("browser: memory limit exceeded",
					"used", used, "limit", e.cfg.MemoryLimit)
				if err := e.recycle(); err != nil {
					log.Error("browser: recycle failed", "error", err)
				}
			}
		}
	}
}

// jsHeapUsage queries the JS heap of the first open page as a proxy for
// Chrome's overall memory pressure.
func jsHeapUsage(b *rod.Browser) (int64, error) {
	pages, err := b.Pages()
	if err != nil || len(pages) == 0 {
		return 0, fmt.Errorf("no pages for heap check")
	}
	res, err := pages[0].Eval(`() => {
		if (performance.memory) {
			return performance.memory.usedJSHeapSize;
		}
		return 0;
	}`)
	if err != nil {
		return 0, err
	}
	return int64(res.Value.Int()), nil
}
