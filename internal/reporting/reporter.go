// File: internal/reporting/reporter.go
package reporting

import (
	"fmt"
	"io"
	"os"

	"github.com/xkilldash9x/forceps-cli/api/schemas"
)

// Reporter defines the interface for writing resolution results to an
// output.
type Reporter interface {
	// Write renders a single resolution result for the given description.
	Write(description string, result schemas.ResolutionResult) error
	// Close finalizes the report and closes any underlying resources.
	Close() error
}

// nopWriteCloser wraps an io.Writer and provides a no-op Close method.
type nopWriteCloser struct {
	io.Writer
}

func (nwc *nopWriteCloser) Close() error { return nil }

// New creates a reporter for the given format writing to outputPath, or to
// stdout when the path is empty or "stdout".
func New(format, outputPath string) (Reporter, error) {
	var writer io.WriteCloser
	if outputPath == "" || outputPath == "stdout" {
		writer = &nopWriteCloser{os.Stdout}
	} else {
		f, err := os.Create(outputPath)
		if err != nil {
			return nil, fmt.Errorf("failed to create output file %s: %w", outputPath, err)
		}
		writer = f
	}

	switch format {
	case "json":
		return NewJSONReporter(writer), nil
	case "text":
		return NewTextReporter(writer), nil
	default:
		writer.Close()
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}
