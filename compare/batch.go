// CLAUDE:SUMMARY Batch runner: channel-fed workers, one browser engine each, per-company failure isolation, manifest written once at the end.
package compare

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/hazyhaar/revamp/internal/capture"
)

// EngineFactory builds one browser engine per batch worker. The runner
// closes each engine when its worker drains.
type EngineFactory func(ctx context.Context) (capture.Engine, func() error, error)

// Runner drives a batch of companies through the orchestrator.
type Runner struct {
	cfg       *Config
	newEngine EngineFactory
	logger    *slog.Logger
	events    EventSink
}

// NewRunner creates a Runner. events may be nil.
func NewRunner(cfg *Config, newEngine EngineFactory, logger *slog.Logger, events EventSink) *Runner {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{cfg: cfg, newEngine: newEngine, logger: logger, events: events}
}

// RunBatch processes companies in input order and writes the manifest
// (and flat summary) under outDir once, after the loop. A company whose
// pipeline fails outright is logged and skipped — it contributes no
// manifest record but never aborts the batch. Precondition failures
// (unusable output dir, records missing required fields) abort
// immediately before any company is processed.
func (r *Runner) RunBatch(ctx context.Context, companies []Company, outDir string) (*Manifest, error) {
	if outDir == "" {
		return nil, &ErrPrecondition{Reason: "output directory is empty"}
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, &ErrPrecondition{Reason: fmt.Sprintf("create output dir %s: %v", outDir, err)}
	}
	for i, c := range companies {
		if c.Name == "" || c.OriginalURL == "" || c.RedesignedURL == "" {
			return nil, &ErrPrecondition{
				Reason: fmt.Sprintf("company %d (%q) is missing required fields", i, c.Name),
			}
		}
	}

	workers := r.cfg.Batch.Workers
	if workers > len(companies) {
		workers = len(companies)
	}
	if workers < 1 {
		workers = 1
	}

	type job struct {
		idx     int
		company Company
	}
	jobs := make(chan job)
	// One slot per company keeps the manifest in input order no matter
	// which worker finishes first.
	results := make([]*Record, len(companies))

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			log := r.logger.With("worker", worker)

			engine, release, err := r.newEngine(ctx)
			if err != nil {
				log.Error("batch: engine start failed, worker idle", "error", err)
				// Keep receiving so the feed loop never blocks on a dead
				// worker. Each job is delivered exactly once, so whatever
				// lands here is skipped and recorded, not re-fed.
				for j := range jobs {
					r.skip(ctx, j.company, fmt.Errorf("no browser engine: %w", err))
				}
				return
			}
			defer func() {
				if err := release(); err != nil {
					log.Warn("batch: engine shutdown", "error", err)
				}
			}()

			ctrl := capture.New(engine, capture.Config{
				NavTimeout:      r.cfg.Capture.NavTimeout,
				NavRetries:      r.cfg.Capture.NavRetries,
				Settle:          r.cfg.Capture.Settle,
				ScrollStep:      r.cfg.Capture.ScrollStep,
				ScrollPause:     r.cfg.Capture.ScrollPause,
				PostScrollPause: r.cfg.Capture.PostScrollPause,
			}, log)
			orch := NewOrchestrator(ctrl, outDir, r.cfg, log, r.events)

			for j := range jobs {
				rec, err := orch.CompareCompany(ctx, j.company)
				if err != nil {
					r.skip(ctx, j.company, err)
					continue
				}
				results[j.idx] = rec
			}
		}(w)
	}

	for i, c := range companies {
		select {
		case jobs <- job{idx: i, company: c}:
		case <-ctx.Done():
			// Stop feeding; already-written company files stay valid.
			r.logger.Warn("batch: cancelled, manifest will not be written", "error", ctx.Err())
		}
		if ctx.Err() != nil {
			break
		}
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("compare: batch cancelled: %w", err)
	}

	m := NewManifest()
	for _, rec := range results {
		if rec != nil {
			m.Companies = append(m.Companies, *rec)
		}
	}

	if err := m.Write(outDir); err != nil {
		return nil, err
	}
	r.logger.Info("batch: complete",
		"companies", len(companies), "records", len(m.Companies),
		"skipped", len(companies)-len(m.Companies))
	return m, nil
}

func (r *Runner) skip(ctx context.Context, c Company, err error) {
	r.logger.Error("batch: company skipped", "company", c.Name, "error", err)
	if r.events != nil {
		r.events.Event(ctx, c.Name, "batch", "skipped", err.Error())
	}
}
