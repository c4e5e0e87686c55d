package compare

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// NewManifest creates an empty manifest stamped with the current time.
func NewManifest() *Manifest {
	return &Manifest{GeneratedAt: time.Now().UTC()}
}

// Write serializes the manifest and the flat summary under outDir.
// Callers write once, at the end of a run: a missing manifest means
// "run incomplete", not "run empty".
func (m *Manifest) Write(outDir string) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("compare: marshal manifest: %w", err)
	}
	path := filepath.Join(outDir, ManifestFile)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("compare: write %s: %w", path, err)
	}
	return m.writeSummary(outDir)
}

// summaryRow mirrors the flat spreadsheet-friendly export the sales
// side consumes: one row per company with contact fields and artifact
// paths pulled to the top level.
type summaryRow struct {
	CompanyName     string `json:"company_name"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	Website         string `json:"website"`
	Score           any    `json:"score,omitempty"`
	Grade           string `json:"grade,omitempty"`
	GIFPath         string `json:"gif_path"`
	ComparisonImage string `json:"comparison_image"`
	OldScreenshot   string `json:"old_screenshot"`
	NewScreenshot   string `json:"new_screenshot"`
}

func (m *Manifest) writeSummary(outDir string) error {
	rows := make([]summaryRow, 0, len(m.Companies))
	for _, rec := range m.Companies {
		row := summaryRow{
			CompanyName:     rec.Name,
			Email:           extraString(rec.Extra, "email"),
			Phone:           extraString(rec.Extra, "phone"),
			Website:         rec.OriginalURL,
			Grade:           extraString(rec.Extra, "grade"),
			GIFPath:         rec.Animated,
			ComparisonImage: rec.Comparison,
			OldScreenshot:   rec.Before,
			NewScreenshot:   rec.After,
		}
		if raw, ok := rec.Extra["score"]; ok {
			var v any
			if json.Unmarshal(raw, &v) == nil {
				row.Score = v
			}
		}
		rows = append(rows, row)
	}

	data, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return fmt.Errorf("compare: marshal summary: %w", err)
	}
	path := filepath.Join(outDir, SummaryFile)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("compare: write %s: %w", path, err)
	}
	return nil
}

func extraString(extra map[string]json.RawMessage, key string) string {
	raw, ok := extra[key]
	if !ok {
		return ""
	}
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return s
	}
	return string(raw)
}

// LoadManifest reads a manifest written by Write.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("compare: read manifest: %w", err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("compare: parse manifest: %w", err)
	}
	return &m, nil
}

// MergeManifests concatenates the company arrays of several manifests
// in argument order. Outer orchestrators that shard a company list
// across processes merge the per-shard manifests with this.
func MergeManifests(manifests ...*Manifest) *Manifest {
	out := NewManifest()
	for _, m := range manifests {
		if m == nil {
			continue
		}
		out.Companies = append(out.Companies, m.Companies...)
	}
	return out
}
