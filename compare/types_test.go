package compare

import (
	"encoding/json"
	"testing"
	"time"
)

func TestCompanyPassThroughFields(t *testing.T) {
	// WHAT: Unknown input fields survive verbatim from company JSON
	// into the marshalled record.
	// WHY: Scores, grades and contact details come from an upstream
	// component this pipeline must not interpret or drop.
	in := `{
		"name": "Acme Tours",
		"original_url": "https://acme.example",
		"redesigned_url": "http://localhost:3000/acme",
		"score": 42.5,
		"grade": "B",
		"email": "info@acme.example",
		"nested": {"a": [1, 2]}
	}`

	var c Company
	if err := json.Unmarshal([]byte(in), &c); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if c.Name != "Acme Tours" || c.OriginalURL != "https://acme.example" {
		t.Fatalf("known fields = %+v", c)
	}
	if len(c.Extra) != 4 {
		t.Fatalf("extra fields = %d, want 4", len(c.Extra))
	}
	if string(c.Extra["score"]) != "42.5" {
		t.Errorf("score = %s", c.Extra["score"])
	}

	rec := Record{
		Name:        c.Name,
		Slug:        "acme-tours",
		OriginalURL: c.OriginalURL,
		Timestamp:   time.Unix(1700000000, 0).UTC(),
		Extra:       c.Extra,
	}
	out, err := json.Marshal(rec)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var m map[string]json.RawMessage
	if err := json.Unmarshal(out, &m); err != nil {
		t.Fatalf("reparse: %v", err)
	}
	if string(m["grade"]) != `"B"` {
		t.Errorf("grade = %s", m["grade"])
	}
	if string(m["nested"]) != `{"a":[1,2]}` && string(m["nested"]) != `{"a": [1, 2]}` {
		t.Errorf("nested = %s", m["nested"])
	}
	if string(m["name"]) != `"Acme Tours"` {
		t.Errorf("name = %s", m["name"])
	}
}

func TestPassThroughCannotShadowPipelineFields(t *testing.T) {
	// WHAT: An extra field colliding with a declared key is ignored in
	// favor of the pipeline's own value.
	rec := Record{
		Name: "Real Name",
		Extra: map[string]json.RawMessage{
			"name": json.RawMessage(`"spoofed"`),
		},
	}
	out, err := json.Marshal(rec)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var m map[string]json.RawMessage
	if err := json.Unmarshal(out, &m); err != nil {
		t.Fatalf("reparse: %v", err)
	}
	if string(m["name"]) != `"Real Name"` {
		t.Errorf("name = %s, pass-through shadowed a declared field", m["name"])
	}
}

func TestRecordRoundTrip(t *testing.T) {
	// WHAT: Records survive a marshal/unmarshal cycle with extras.
	rec := Record{
		Name:       "Acme",
		Slug:       "acme",
		Before:     "acme/before.png",
		Timestamp:  time.Unix(1700000000, 0).UTC(),
		Extra:      map[string]json.RawMessage{"phone": json.RawMessage(`"+39 06 123"`)},
	}
	data, err := json.Marshal(rec)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back Record
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.Name != "Acme" || back.Before != "acme/before.png" {
		t.Errorf("round trip = %+v", back)
	}
	if string(back.Extra["phone"]) != `"+39 06 123"` {
		t.Errorf("phone = %s", back.Extra["phone"])
	}
}
