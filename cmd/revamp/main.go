// CLAUDE:SUMMARY CLI entry point for revamp — batch before/after website comparison with optional artifact preview server.
// Command revamp captures before/after screenshots for a list of
// companies and composes per-company comparison artifacts.
//
// Usage:
//
//	revamp -companies companies.json -out ./comparisons      # run a batch
//	revamp -companies c.json -out ./out -config revamp.yaml  # with config
//	revamp -serve :8080 -out ./comparisons -sites ./generated
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hazyhaar/revamp/compare"
	"github.com/hazyhaar/revamp/internal/browser"
	"github.com/hazyhaar/revamp/internal/capture"
	"github.com/hazyhaar/revamp/preview"
	"github.com/hazyhaar/revamp/runlog"
)

func main() {
	companiesPath := flag.String("companies", "", "path to the companies JSON array")
	outDir := flag.String("out", "./comparisons", "output root for artifacts and manifest")
	configPath := flag.String("config", "", "path to revamp.yaml config file")
	workers := flag.Int("workers", 0, "parallel batch workers (overrides config)")
	serveAddr := flag.String("serve", "", "serve artifacts on this address (runs after the batch, or alone)")
	sitesDir := flag.String("sites", "", "directory of generated site variants to serve under /sites")
	logLevel := flag.String("log-level", "info", "log level: debug, info, warn, error")
	flag.Parse()

	var level slog.Level
	switch *logLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, logger, *companiesPath, *outDir, *configPath, *workers, *serveAddr, *sitesDir); err != nil {
		logger.Error("revamp: fatal", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger, companiesPath, outDir, configPath string, workers int, serveAddr, sitesDir string) error {
	if companiesPath == "" && serveAddr == "" {
		fmt.Fprintln(os.Stderr, "usage: revamp -companies <file> -out <dir> | revamp -serve <addr> -out <dir>")
		os.Exit(1)
	}

	cfg := compare.DefaultConfig()
	if configPath != "" {
		loaded, err := compare.LoadConfigFile(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if workers > 0 {
		cfg.Batch.Workers = workers
	}

	if companiesPath != "" {
		if err := runBatch(ctx, logger, cfg, companiesPath, outDir); err != nil {
			return err
		}
	}

	if serveAddr != "" {
		return preview.New(outDir, sitesDir, logger).ListenAndServe(ctx, serveAddr)
	}
	return nil
}

func runBatch(ctx context.Context, logger *slog.Logger, cfg *compare.Config, companiesPath, outDir string) error {
	companies, err := loadCompanies(companiesPath)
	if err != nil {
		return err
	}
	logger.Info("revamp: starting batch",
		"companies", len(companies), "workers", cfg.Batch.Workers, "out", outDir)

	var events compare.EventSink
	if cfg.RunLog.Path != "" {
		log, err := runlog.Open(cfg.RunLog.Path)
		if err != nil {
			return err
		}
		defer log.Close()
		logger.Info("revamp: run log enabled", "path", cfg.RunLog.Path, "run_id", log.RunID())
		events = log
	}

	factory := func(ctx context.Context) (capture.Engine, func() error, error) {
		eng := browser.NewEngine(browser.Config{
			RemoteURL:       cfg.Browser.Remote,
			Headful:         cfg.Browser.Headful,
			Stealth:         !cfg.Browser.NoStealth,
			MemoryLimit:     cfg.Browser.MemoryLimit,
			RecycleInterval: cfg.Browser.RecycleInterval,
			Logger:          logger,
		})
		if err := eng.Start(ctx); err != nil {
			return nil, nil, err
		}
		return eng, eng.Close, nil
	}

	runner := compare.NewRunner(cfg, factory, logger, events)
	manifest, err := runner.RunBatch(ctx, companies, outDir)
	if err != nil {
		return err
	}
	logger.Info("revamp: batch finished", "records", len(manifest.Companies))
	return nil
}

func loadCompanies(path string) ([]compare.Company, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read companies: %w", err)
	}
	var companies []compare.Company
	if err := json.Unmarshal(data, &companies); err != nil {
		return nil, fmt.Errorf("parse companies: %w", err)
	}
	return companies, nil
}
