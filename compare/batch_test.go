package compare

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/hazyhaar/revamp/internal/capture"
)

// stubSession is a scripted browser page: navigation fails for URLs
// containing "unreachable", everything else renders a flat image.
type stubSession struct {
	currentURL string
	vpW, vpH   int
}

func (s *stubSession) Navigate(_ context.Context, pageURL string, _ time.Duration) error {
	s.currentURL = pageURL
	if strings.Contains(pageURL, "unreachable") {
		return errors.New("net::ERR_CONNECTION_REFUSED")
	}
	return nil
}

func (s *stubSession) WaitReady(context.Context, time.Duration) error { return nil }

func (s *stubSession) ScrollThrough(context.Context, int, time.Duration) error { return nil }

func (s *stubSession) ContentHeight(context.Context) (int, error) { return 600, nil }

func (s *stubSession) SetViewport(_ context.Context, w, h int) error {
	s.vpW, s.vpH = w, h
	return nil
}

func (s *stubSession) Screenshot(context.Context) ([]byte, error) {
	img := image.NewRGBA(image.Rect(0, 0, s.vpW, s.vpH))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.RGBA{G: 99, A: 255}),
		image.Point{}, draw.Src)
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *stubSession) Close() error { return nil }

type stubEngine struct{}

func (stubEngine) NewSession(context.Context) (capture.Session, error) {
	return &stubSession{}, nil
}

func fastBatchConfig() *Config {
	cfg := DefaultConfig()
	cfg.Capture.NavTimeout = time.Second
	cfg.Capture.Settle = time.Millisecond
	cfg.Capture.ScrollPause = time.Millisecond
	cfg.Capture.PostScrollPause = time.Millisecond
	return cfg
}

func stubFactory(context.Context) (capture.Engine, func() error, error) {
	return stubEngine{}, func() error { return nil }, nil
}

func batchCompanies() []Company {
	return []Company{
		{Name: "Alpha Tours", OriginalURL: "https://alpha.test", RedesignedURL: "http://localhost:3000/alpha"},
		{Name: "Beta Travel", OriginalURL: "https://beta.test", RedesignedURL: "http://unreachable.test"},
		{Name: "Gamma Trips", OriginalURL: "https://gamma.test", RedesignedURL: "http://localhost:3000/gamma"},
	}
}

func TestRunBatchIsolatesFailures(t *testing.T) {
	// WHAT: An unreachable redesigned URL degrades one company to a
	// placeholder but the manifest still records every company in
	// input order.
	out := t.TempDir()
	r := NewRunner(fastBatchConfig(), stubFactory, nil, nil)

	m, err := r.RunBatch(context.Background(), batchCompanies(), out)
	if err != nil {
		t.Fatalf("run batch: %v", err)
	}
	if len(m.Companies) != 3 {
		t.Fatalf("records = %d, want 3", len(m.Companies))
	}
	for i, want := range []string{"Alpha Tours", "Beta Travel", "Gamma Trips"} {
		if m.Companies[i].Name != want {
			t.Errorf("record %d = %q, want %q", i, m.Companies[i].Name, want)
		}
	}
	beta := m.Companies[1]
	if beta.AfterStatus != capture.StatusPlaceholder {
		t.Errorf("beta after status = %s, want placeholder", beta.AfterStatus)
	}
	if beta.BeforeStatus != capture.StatusCaptured {
		t.Errorf("beta before status = %s, want captured", beta.BeforeStatus)
	}
	// Placeholder side still yields all four artifacts.
	for _, rel := range []string{beta.Before, beta.After, beta.Comparison, beta.Animated} {
		if _, err := os.Stat(filepath.Join(out, rel)); err != nil {
			t.Errorf("missing artifact %s: %v", rel, err)
		}
	}
}

func TestRunBatchWritesManifestOnce(t *testing.T) {
	// WHAT: manifest.json and summary.json exist at the output root
	// and round-trip through LoadManifest.
	out := t.TempDir()
	r := NewRunner(fastBatchConfig(), stubFactory, nil, nil)

	if _, err := r.RunBatch(context.Background(), batchCompanies()[:1], out); err != nil {
		t.Fatalf("run batch: %v", err)
	}

	m, err := LoadManifest(filepath.Join(out, ManifestFile))
	if err != nil {
		t.Fatalf("load manifest: %v", err)
	}
	if len(m.Companies) != 1 || m.Companies[0].Slug != "alpha-tours" {
		t.Errorf("manifest = %+v", m.Companies)
	}
	if m.GeneratedAt.IsZero() {
		t.Error("manifest missing timestamp")
	}

	var rows []map[string]any
	data, err := os.ReadFile(filepath.Join(out, SummaryFile))
	if err != nil {
		t.Fatalf("read summary: %v", err)
	}
	if err := json.Unmarshal(data, &rows); err != nil {
		t.Fatalf("parse summary: %v", err)
	}
	if len(rows) != 1 || rows[0]["company_name"] != "Alpha Tours" {
		t.Errorf("summary = %+v", rows)
	}
}

func TestRunBatchSkipsWithoutAborting(t *testing.T) {
	// WHAT: A company whose output directory cannot be created is
	// skipped with a trace; the rest of the batch completes.
	out := t.TempDir()
	// A plain file where the slug directory should go forces a
	// per-company failure past the capture fallback.
	if err := os.WriteFile(filepath.Join(out, "beta-travel"), []byte("blocker"), 0o644); err != nil {
		t.Fatal(err)
	}

	sink := &recordingSink{}
	r := NewRunner(fastBatchConfig(), stubFactory, nil, sink)

	m, err := r.RunBatch(context.Background(), batchCompanies(), out)
	if err != nil {
		t.Fatalf("run batch: %v", err)
	}
	if len(m.Companies) != 2 {
		t.Fatalf("records = %d, want 2 (one skip)", len(m.Companies))
	}
	if m.Companies[0].Name != "Alpha Tours" || m.Companies[1].Name != "Gamma Trips" {
		t.Errorf("order after skip = %q, %q", m.Companies[0].Name, m.Companies[1].Name)
	}
	if _, ok := sink.find("batch", "skipped"); !ok {
		t.Error("skip left no trace in the event sink")
	}
}

func TestRunBatchPreconditions(t *testing.T) {
	// WHAT: Malformed records and an unusable output dir abort the
	// whole run before any company is processed.
	r := NewRunner(fastBatchConfig(), stubFactory, nil, nil)

	bad := batchCompanies()
	bad[1].OriginalURL = ""
	_, err := r.RunBatch(context.Background(), bad, t.TempDir())
	if !IsPrecondition(err) {
		t.Errorf("missing field: err = %v, want precondition", err)
	}

	_, err = r.RunBatch(context.Background(), batchCompanies(), "")
	if !IsPrecondition(err) {
		t.Errorf("empty outdir: err = %v, want precondition", err)
	}
}

func TestRunBatchParallelWorkersPreserveOrder(t *testing.T) {
	// WHAT: With several workers the manifest still lists companies in
	// input order.
	cfg := fastBatchConfig()
	cfg.Batch.Workers = 3
	r := NewRunner(cfg, stubFactory, nil, nil)

	m, err := r.RunBatch(context.Background(), batchCompanies(), t.TempDir())
	if err != nil {
		t.Fatalf("run batch: %v", err)
	}
	for i, want := range []string{"Alpha Tours", "Beta Travel", "Gamma Trips"} {
		if m.Companies[i].Name != want {
			t.Errorf("record %d = %q, want %q", i, m.Companies[i].Name, want)
		}
	}
}
