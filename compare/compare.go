// CLAUDE:SUMMARY Comparison orchestrator: concurrent before/after captures with an explicit join, then composition into per-company artifacts.
package compare

import (
	"context"
	"fmt"
	"image"
	_ "image/png" // register the PNG decoder for loadPNG
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/hazyhaar/revamp/internal/capture"
	"github.com/hazyhaar/revamp/internal/compose"
	"github.com/hazyhaar/revamp/internal/slug"
)

// Capturer photographs one URL to outPath. capture.Controller is the
// production implementation; tests inject fakes.
type Capturer interface {
	Capture(ctx context.Context, pageURL, label string, vp capture.Viewport, outPath string) capture.Capture
}

// EventSink receives per-company stage events. Implementations must
// never block the pipeline; runlog.Log is the production sink.
type EventSink interface {
	Event(ctx context.Context, company, stage, status, detail string)
}

// Orchestrator sequences the two captures and the composition for one
// company.
type Orchestrator struct {
	capturer Capturer
	outRoot  string
	viewport capture.Viewport
	frameDur time.Duration
	logger   *slog.Logger
	events   EventSink
}

// NewOrchestrator creates an Orchestrator writing under outRoot.
// events may be nil.
func NewOrchestrator(capturer Capturer, outRoot string, cfg *Config, logger *slog.Logger, events EventSink) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		capturer: capturer,
		outRoot:  outRoot,
		viewport: capture.Viewport{Width: cfg.Capture.Width, MaxHeight: cfg.Capture.MaxHeight},
		frameDur: cfg.Compose.FrameDuration,
		logger:   logger,
		events:   events,
	}
}

// CompareCompany captures the company's original and redesigned URLs,
// composes the side-by-side and animated artifacts, and returns the
// manifest record. The two captures run concurrently; composition
// starts only after both have settled. Unreachable URLs surface as
// placeholder artifacts, not errors — an error return means this
// company produced no usable artifact set and should be skipped.
func (o *Orchestrator) CompareCompany(ctx context.Context, c Company) (*Record, error) {
	s := slug.Make(c.Name)
	dir := filepath.Join(o.outRoot, s)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, &ErrCompany{Company: c.Name, Stage: "capture",
			Cause: fmt.Errorf("create output dir: %w", err)}
	}

	log := o.logger.With("company", c.Name, "slug", s)
	o.event(ctx, c.Name, "capture", "started", "")

	// Independent captures: distinct sessions, distinct output paths.
	var wg sync.WaitGroup
	var before, after capture.Capture
	wg.Add(2)
	go func() {
		defer wg.Done()
		before = o.capturer.Capture(ctx, c.OriginalURL, "BEFORE (Original)",
			o.viewport, filepath.Join(dir, BeforeFile))
	}()
	go func() {
		defer wg.Done()
		after = o.capturer.Capture(ctx, c.RedesignedURL, "AFTER (Redesigned)",
			o.viewport, filepath.Join(dir, AfterFile))
	}()
	wg.Wait() // composition must not start before both captures settle

	if before.Status == capture.StatusFailed || after.Status == capture.StatusFailed {
		detail := before.Err
		if after.Status == capture.StatusFailed {
			detail = after.Err
		}
		o.event(ctx, c.Name, "capture", "failed", detail)
		return nil, &ErrCompany{Company: c.Name, Stage: "capture",
			Cause: fmt.Errorf("no image written: %s", detail)}
	}
	if before.Status != capture.StatusCaptured {
		log.Warn("compare: before capture degraded", "error", before.Err)
	}
	if after.Status != capture.StatusCaptured {
		log.Warn("compare: after capture degraded", "error", after.Err)
	}

	o.event(ctx, c.Name, "compose", "started", "")
	if err := o.composeArtifacts(dir, c.Name); err != nil {
		o.event(ctx, c.Name, "compose", "failed", err.Error())
		return nil, &ErrCompany{Company: c.Name, Stage: "compose", Cause: err}
	}

	o.event(ctx, c.Name, "compose", "done", "")
	log.Info("compare: company done",
		"before_status", before.Status, "after_status", after.Status)

	return &Record{
		Name:          c.Name,
		Slug:          s,
		OriginalURL:   c.OriginalURL,
		RedesignedURL: c.RedesignedURL,
		Before:        filepath.ToSlash(filepath.Join(s, BeforeFile)),
		After:         filepath.ToSlash(filepath.Join(s, AfterFile)),
		Comparison:    filepath.ToSlash(filepath.Join(s, ComparisonFile)),
		Animated:      filepath.ToSlash(filepath.Join(s, AnimatedFile)),
		BeforeStatus:  before.Status,
		AfterStatus:   after.Status,
		Timestamp:     time.Now().UTC(),
		Extra:         c.Extra,
	}, nil
}

func (o *Orchestrator) composeArtifacts(dir, name string) error {
	beforeImg, err := loadPNG(filepath.Join(dir, BeforeFile))
	if err != nil {
		return err
	}
	afterImg, err := loadPNG(filepath.Join(dir, AfterFile))
	if err != nil {
		return err
	}

	title := fmt.Sprintf("%s - Website Transformation", name)
	composite, err := compose.SideBySide(beforeImg, afterImg, title)
	if err != nil {
		return err
	}
	if err := compose.SavePNG(filepath.Join(dir, ComparisonFile), composite); err != nil {
		return err
	}

	anim, err := compose.AnimatedTransition([]image.Image{beforeImg, afterImg}, o.frameDur)
	if err != nil {
		return err
	}
	return compose.SaveGIF(filepath.Join(dir, AnimatedFile), anim)
}

func (o *Orchestrator) event(ctx context.Context, company, stage, status, detail string) {
	if o.events != nil {
		o.events.Event(ctx, company, stage, status, detail)
	}
}

func loadPNG(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("compare: open %s: %w", path, err)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("compare: decode %s: %w", path, err)
	}
	return img, nil
}
