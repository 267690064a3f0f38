package report

import (
	"encoding/json"
	"io"
	"time"

	"github.com/nao1215/scanmark/internal/annotation"
	"github.com/nao1215/scanmark/internal/audit"
)

// JSONWriter outputs listings in JSON format for tool integration.
type JSONWriter struct {
	baseWriter

	// indent enables pretty-printed JSON output.
	indent bool

	// indentPrefix is the prefix for each line in indented output.
	indentPrefix string

	// indentString is the indentation string (typically "  " or "\t").
	indentString string

	// version is written into the listing envelope.
	version string

	// now stamps the listing envelope.
	now func() time.Time
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent enables pretty-printed JSON output.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = prefix
		w.indentString = indent
	}
}

// WithPrettyPrint enables pretty-printed JSON with default indentation.
func WithPrettyPrint() JSONWriterOption {
	return WithIndent("", "  ")
}

// WithVersion sets the tool version recorded in the listing.
func WithVersion(version string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.version = version
	}
}

// WithGeneratedAt sets the clock used to stamp listings.
func WithGeneratedAt(now func() time.Time) JSONWriterOption {
	return func(w *JSONWriter) {
		w.now = now
	}
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{
		baseWriter: newBaseWriter(output),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Listing is the JSON document written by JSONWriter.Write.
type Listing struct {
	// Version is the scanmark version that produced the listing.
	Version string `json:"version,omitempty"`

	// GeneratedAt is when the listing was rendered.
	GeneratedAt time.Time `json:"generatedAt"`

	// Summary aggregates the entries.
	Summary Summary `json:"summary"`

	// Entries holds every URL in insertion order.
	Entries []ListingEntry `json:"entries"`
}

// ListingEntry flattens an entry for JSON consumers.
type ListingEntry struct {
	URL       string            `json:"url"`
	Status    annotation.Status `json:"status"`
	Tags      []string          `json:"tags"`
	FirstSeen time.Time         `json:"firstSeen"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

// NewListing builds a Listing from entries.
func NewListing(entries []annotation.Entry, version string, generatedAt time.Time) *Listing {
	l := &Listing{
		Version:     version,
		GeneratedAt: generatedAt,
		Summary:     Summarize(entries),
		Entries:     make([]ListingEntry, len(entries)),
	}
	for i, e := range entries {
		l.Entries[i] = ListingEntry{
			URL:       e.URL,
			Status:    e.Record.Status,
			Tags:      e.Record.AllTags(),
			FirstSeen: e.Record.FirstSeen,
			UpdatedAt: e.Record.UpdatedAt,
		}
	}
	return l
}

// Write outputs the entries wrapped in a Listing.
func (w *JSONWriter) Write(entries []annotation.Entry) (int, error) {
	return w.writeJSON(NewListing(entries, w.version, w.now()))
}

// WriteFindings outputs the findings as a JSON array.
func (w *JSONWriter) WriteFindings(findings []audit.Finding) (int, error) {
	if findings == nil {
		findings = []audit.Finding{}
	}
	return w.writeJSON(findings)
}

// writeJSON marshals the given value to JSON and writes it to the output.
func (w *JSONWriter) writeJSON(v any) (int, error) {
	var (
		data []byte
		err  error
	)
	if w.indent {
		data, err = json.MarshalIndent(v, w.indentPrefix, w.indentString)
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return 0, err
	}

	data = append(data, '\n')
	return w.output.Write(data)
}
