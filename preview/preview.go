// CLAUDE:SUMMARY Static HTTP server exposing comparison artifacts and locally generated redesign variants during a run.
// Package preview serves two static trees over HTTP: the comparison
// output root (so reviewers can open artifacts and the manifest) and,
// optionally, the directory of generated redesign variants — the
// "after" URLs point at this server during a batch run.
package preview

import (
	"context"
	"log/slog"
	"net/http"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server serves artifacts and redesigned site variants.
type Server struct {
	outRoot  string
	sitesDir string // empty = no /sites mount
	logger   *slog.Logger
}

// New creates a Server. sitesDir may be empty.
func New(outRoot, sitesDir string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{outRoot: outRoot, sitesDir: sitesDir, logger: logger}
}

// Handler builds the route tree.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Get("/manifest.json", func(w http.ResponseWriter, req *http.Request) {
		http.ServeFile(w, req, filepath.Join(s.outRoot, "manifest.json"))
	})
	r.Mount("/artifacts", http.StripPrefix("/artifacts",
		http.FileServer(http.Dir(s.outRoot))))
	if s.sitesDir != "" {
		r.Mount("/sites", http.StripPrefix("/sites",
			http.FileServer(http.Dir(s.sitesDir))))
	}
	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("preview: serving", "addr", addr, "out", s.outRoot, "sites", s.sitesDir)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutCtx)
	case err := <-errCh:
		return err
	}
}
