package preview

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestServesArtifactsAndManifest(t *testing.T) {
	// WHAT: Artifact files and the manifest are reachable over HTTP.
	// WHY: Reviewers open comparison images from the output root.
	out := t.TempDir()
	if err := os.MkdirAll(filepath.Join(out, "acme-tours"), 0o755); err != nil {
		t.Fatal(err)
	}
	os.WriteFile(filepath.Join(out, "manifest.json"), []byte(`{"companies":[]}`), 0o644)
	os.WriteFile(filepath.Join(out, "acme-tours", "before.png"), []byte("fakepng"), 0o644)

	srv := httptest.NewServer(New(out, "", nil).Handler())
	defer srv.Close()

	for path, want := range map[string]string{
		"/manifest.json":             `{"companies":[]}`,
		"/artifacts/manifest.json":   `{"companies":[]}`,
		"/artifacts/acme-tours/before.png": "fakepng",
	} {
		res, err := http.Get(srv.URL + path)
		if err != nil {
			t.Fatalf("get %s: %v", path, err)
		}
		body, _ := io.ReadAll(res.Body)
		res.Body.Close()
		if res.StatusCode != 200 {
			t.Errorf("%s: status %d", path, res.StatusCode)
			continue
		}
		if string(body) != want {
			t.Errorf("%s: body %q, want %q", path, body, want)
		}
	}
}

func TestServesSiteVariants(t *testing.T) {
	// WHAT: The generated-sites mount serves redesigned variants, the
	// targets of "after" captures.
	sites := t.TempDir()
	os.MkdirAll(filepath.Join(sites, "acme-tours"), 0o755)
	os.WriteFile(filepath.Join(sites, "acme-tours", "index.html"),
		[]byte("<html>new</html>"), 0o644)

	srv := httptest.NewServer(New(t.TempDir(), sites, nil).Handler())
	defer srv.Close()

	res, err := http.Get(srv.URL + "/sites/acme-tours/index.html")
	if err != nil {
		t.Fatal(err)
	}
	defer res.Body.Close()
	if res.StatusCode != 200 {
		t.Fatalf("status %d", res.StatusCode)
	}
	body, _ := io.ReadAll(res.Body)
	if string(body) != "<html>new</html>" {
		t.Errorf("body = %q", body)
	}
}

func TestNoSitesMount(t *testing.T) {
	// WHAT: Without a sites dir, /sites is simply absent.
	srv := httptest.NewServer(New(t.TempDir(), "", nil).Handler())
	defer srv.Close()

	res, err := http.Get(srv.URL + "/sites/x")
	if err != nil {
		t.Fatal(err)
	}
	res.Body.Close()
	if res.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", res.StatusCode)
	}
}
