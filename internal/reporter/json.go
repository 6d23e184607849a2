package reporter

import (
	"encoding/json"
	"io"

	"rulescope/internal/chunker"
	"rulescope/internal/completeness"
	"rulescope/internal/detector"
)

// JSONReporter writes each stage's result as an indented JSON document.
type JSONReporter struct {
	w io.Writer
}

// NewJSONReporter creates a new JSON reporter
func NewJSONReporter(w io.Writer) *JSONReporter {
	return &JSONReporter{w: w}
}

func (r *JSONReporter) encode(v any) error {
	encoder := json.NewEncoder(r.w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// Detection outputs a detection result, with validation when present.
func (r *JSONReporter) Detection(res detector.Result, validation *detector.Validation) error {
	out := struct {
		detector.Result
		Validation *detector.Validation `json:"validation,omitempty"`
	}{Result: res, Validation: validation}
	return r.encode(out)
}

// Chunking outputs the chunking plan with per-chunk metadata.
func (r *JSONReporter) Chunking(res chunker.Result) error {
	return r.encode(res)
}

// Rules outputs extracted rules as a JSON array.
func (r *JSONReporter) Rules(rules []completeness.ExtractedRule) error {
	if rules == nil {
		rules = []completeness.ExtractedRule{}
	}
	return r.encode(rules)
}

// Completeness outputs the full completeness report.
func (r *JSONReporter) Completeness(report *completeness.Report) error {
	return r.encode(report)
}

// Summary outputs the run summary.
func (r *JSONReporter) Summary(sum Summary) error {
	return r.encode(sum)
}
