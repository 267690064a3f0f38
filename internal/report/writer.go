package report

import (
	"io"

	"github.com/nao1215/scanmark/internal/annotation"
	"github.com/nao1215/scanmark/internal/audit"
)

// Writer defines the interface for report output.
// Implementations render annotation snapshots in various formats.
type Writer interface {
	// Write outputs the entries to the configured destination.
	// Returns the number of bytes written and any error encountered.
	Write(entries []annotation.Entry) (int, error)

	// WriteFindings outputs findings raised by the active scan check.
	WriteFindings(findings []audit.Finding) (int, error)
}

// MultiWriter writes to multiple Writers simultaneously.
// This is useful for outputting to both terminal and file.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write outputs the entries to all configured Writers.
// Stops on first error encountered.
func (m *MultiWriter) Write(entries []annotation.Entry) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(entries)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// WriteFindings outputs the findings to all configured Writers.
func (m *MultiWriter) WriteFindings(findings []audit.Finding) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.WriteFindings(findings)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}
