// File: internal/reporting/text_reporter.go
package reporting

import (
	"fmt"
	"io"

	"github.com/xkilldash9x/forceps-cli/api/schemas"
)

// TextReporter renders results in a human readable form, streaming as it
// goes.
type TextReporter struct {
	writer io.WriteCloser
}

// NewTextReporter creates a TextReporter that takes ownership of the writer.
func NewTextReporter(w io.WriteCloser) *TextReporter {
	return &TextReporter{writer: w}
}

// Write renders one result immediately.
func (r *TextReporter) Write(description string, result schemas.ResolutionResult) error {
	if !result.Success {
		if _, err := fmt.Fprintf(r.writer, "%-30s FAILED (%s)\n", description, result.Reason); err != nil {
			return err
		}
		for _, a := range result.Attempted {
			if _, err := fmt.Fprintf(r.writer, "    tried %-10s %-50s matches=%d\n",
				a.Strategy, a.Expression, a.MatchCount); err != nil {
				return err
			}
		}
		return nil
	}

	c := result.Candidate
	if _, err := fmt.Fprintf(r.writer, "%-30s %s\n    strategy=%s confidence=%.4f\n",
		description, c.Expression, c.Strategy, c.Confidence); err != nil {
		return err
	}
	for _, alt := range result.Alternates {
		if _, err := fmt.Fprintf(r.writer, "    alternate %-10s %-50s confidence=%.4f\n",
			alt.Strategy, alt.Expression, alt.Confidence); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the underlying writer.
func (r *TextReporter) Close() error { return r.writer.Close() }
