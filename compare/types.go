// CLAUDE:SUMMARY Company/record/manifest types for the comparison pipeline, with verbatim pass-through of unknown JSON fields.
// Package compare produces human-reviewable before/after artifacts for
// redesigned websites: per-company screenshots, a side-by-side
// composite, an animated transition, and an order-preserving batch
// manifest.
package compare

import (
	"encoding/json"
	"time"

	"github.com/hazyhaar/revamp/internal/capture"
)

// Per-company artifact file names under <outRoot>/<slug>/.
const (
	BeforeFile     = "before.png"
	AfterFile      = "after.png"
	ComparisonFile = "comparison.png"
	AnimatedFile   = "animated.gif"

	ManifestFile = "manifest.json"
	SummaryFile  = "summary.json"
)

// Company is one input record. Fields beyond the three required ones
// (externally computed scores, contact details, ...) are kept verbatim
// in Extra and copied unchanged into the manifest record.
type Company struct {
	Name          string                     `json:"name"`
	OriginalURL   string                     `json:"original_url"`
	RedesignedURL string                     `json:"redesigned_url"`
	Extra         map[string]json.RawMessage `json:"-"`
}

// companyAlias avoids UnmarshalJSON recursion.
type companyAlias Company

func (c *Company) UnmarshalJSON(data []byte) error {
	var a companyAlias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	delete(raw, "name")
	delete(raw, "original_url")
	delete(raw, "redesigned_url")
	if len(raw) > 0 {
		a.Extra = raw
	}
	*c = Company(a)
	return nil
}

func (c Company) MarshalJSON() ([]byte, error) {
	return marshalWithExtra(companyAlias(c), c.Extra)
}

// Record is one company's entry in the batch manifest: the artifact
// paths (relative to the output root), capture statuses, and the
// pass-through fields.
type Record struct {
	Name          string          `json:"name"`
	Slug          string          `json:"slug"`
	OriginalURL   string          `json:"original_url"`
	RedesignedURL string          `json:"redesigned_url"`
	Before        string          `json:"before"`
	After         string          `json:"after"`
	Comparison    string          `json:"comparison"`
	Animated      string          `json:"animated"`
	BeforeStatus  capture.Status  `json:"before_status"`
	AfterStatus   capture.Status  `json:"after_status"`
	Timestamp     time.Time       `json:"timestamp"`

	Extra map[string]json.RawMessage `json:"-"`
}

type recordAlias Record

func (r Record) MarshalJSON() ([]byte, error) {
	return marshalWithExtra(recordAlias(r), r.Extra)
}

func (r *Record) UnmarshalJSON(data []byte) error {
	var a recordAlias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for _, known := range []string{
		"name", "slug", "original_url", "redesigned_url",
		"before", "after", "comparison", "animated",
		"before_status", "after_status", "timestamp",
	} {
		delete(raw, known)
	}
	if len(raw) > 0 {
		a.Extra = raw
	}
	*r = Record(a)
	return nil
}

// marshalWithExtra flattens extra fields into the struct's JSON object.
// Declared fields win on key collision so pass-through data can never
// shadow pipeline output.
func marshalWithExtra(v any, extra map[string]json.RawMessage) ([]byte, error) {
	base, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	if len(extra) == 0 {
		return base, nil
	}
	var m map[string]json.RawMessage
	if err := json.Unmarshal(base, &m); err != nil {
		return nil, err
	}
	for k, val := range extra {
		if _, taken := m[k]; !taken {
			m[k] = val
		}
	}
	return json.Marshal(m)
}

// Manifest is the aggregate of one batch run. Companies is a flat,
// order-preserving array: concatenating the arrays of two manifests is
// a valid merge.
type Manifest struct {
	GeneratedAt time.Time `json:"generated_at"`
	Companies   []Record  `json:"companies"`
}
