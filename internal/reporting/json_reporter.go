// File: internal/reporting/json_reporter.go
package reporting

import (
	"io"

	json "github.com/json-iterator/go"

	"github.com/xkilldash9x/forceps-cli/api/schemas"
)

// jsonEntry pairs a description with its resolution result in the emitted
// document.
type jsonEntry struct {
	Description string                   `json:"description"`
	Result      schemas.ResolutionResult `json:"result"`
}

// JSONReporter accumulates results and emits one JSON array on Close.
type JSONReporter struct {
	writer  io.WriteCloser
	entries []jsonEntry
}

// NewJSONReporter creates a JSONReporter that takes ownership of the writer.
func NewJSONReporter(w io.WriteCloser) *JSONReporter {
	return &JSONReporter{writer: w}
}

// Write buffers one result; nothing is emitted until Close.
func (r *JSONReporter) Write(description string, result schemas.ResolutionResult) error {
	r.entries = append(r.entries, jsonEntry{Description: description, Result: result})
	return nil
}

// Close renders the buffered results and closes the writer.
func (r *JSONReporter) Close() error {
	enc := json.NewEncoder(r.writer)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r.entries); err != nil {
		r.writer.Close()
		return err
	}
	return r.writer.Close()
}
