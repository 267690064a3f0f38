package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/scanmark/internal/annotation"
	"github.com/nao1215/scanmark/internal/audit"
)

// ruleWidth is the width of the horizontal rules in text output.
const ruleWidth = 70

// SimpleWriter outputs human-readable text listings for terminal display.
type SimpleWriter struct {
	baseWriter

	// showEmpty prints the table header even when there are no entries.
	showEmpty bool

	// verbose adds timestamps and finding details.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithShowEmpty configures the writer to show empty sections.
func WithShowEmpty(show bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.showEmpty = show
	}
}

// WithVerbose enables verbose output with additional details.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{baseWriter: newBaseWriter(output)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write outputs the entries as a URL / status / tags table followed by a summary.
func (w *SimpleWriter) Write(entries []annotation.Entry) (int, error) {
	var sb strings.Builder

	writeRule(&sb, "=")
	sb.WriteString("SCANNED URLS\n")
	writeRule(&sb, "=")
	sb.WriteString("\n")

	if len(entries) == 0 && !w.showEmpty {
		sb.WriteString("  No URLs recorded\n\n")
		return w.output.Write([]byte(sb.String()))
	}

	w.writeTable(&sb, entries)
	w.writeSummary(&sb, Summarize(entries))

	return w.output.Write([]byte(sb.String()))
}

func (w *SimpleWriter) writeTable(sb *strings.Builder, entries []annotation.Entry) {
	urlWidth := len("URL")
	for _, e := range entries {
		urlWidth = max(urlWidth, len(e.URL))
	}
	statusWidth := len(annotation.ScannedActive.String())

	fmt.Fprintf(sb, "%-*s  %-*s  %s\n", urlWidth, "URL", statusWidth, "STATUS", "TAGS")
	for _, e := range entries {
		fmt.Fprintf(sb, "%-*s  %-*s  %s\n",
			urlWidth, e.URL,
			statusWidth, e.Record.Status.String(),
			formatTags(e.Record.AllTags(), false),
		)
		if w.verbose {
			fmt.Fprintf(sb, "    first seen %s, updated %s\n",
				e.Record.FirstSeen.Format("2006-01-02 15:04:05 MST"),
				e.Record.UpdatedAt.Format("2006-01-02 15:04:05 MST"),
			)
		}
	}
	sb.WriteString("\n")
}

func (w *SimpleWriter) writeSummary(sb *strings.Builder, s Summary) {
	writeRule(sb, "-")
	sb.WriteString("SUMMARY\n")
	writeRule(sb, "-")
	sb.WriteString("\n")

	fmt.Fprintf(sb, "  ACTIVE:      %d\n", s.Active)
	fmt.Fprintf(sb, "  MANUAL:      %d\n", s.Manual)
	fmt.Fprintf(sb, "  NOT SCANNED: %d\n", s.NotScanned)
	fmt.Fprintf(sb, "  TOTAL:       %d URLs\n", s.Total)

	if len(s.Tags) > 0 {
		sb.WriteString("\n")
		for _, tc := range s.Tags {
			fmt.Fprintf(sb, "  [%s] %d\n", tc.Tag, tc.Count)
		}
	}
	sb.WriteString("\n")
}

// WriteFindings outputs one block per finding.
func (w *SimpleWriter) WriteFindings(findings []audit.Finding) (int, error) {
	var sb strings.Builder

	if len(findings) == 0 {
		if w.showEmpty {
			sb.WriteString("No new findings\n")
		}
		return w.output.Write([]byte(sb.String()))
	}

	for _, f := range findings {
		fmt.Fprintf(&sb, "[%s] %s\n", f.Severity, f.Name)
		fmt.Fprintf(&sb, "  URL:        %s\n", f.BaseURL)
		fmt.Fprintf(&sb, "  Confidence: %s\n", f.Confidence)
		if w.verbose {
			fmt.Fprintf(&sb, "  ID:         %s\n", f.ID)
			fmt.Fprintf(&sb, "  Detail:     %s\n", f.Detail)
		}
	}
	return w.output.Write([]byte(sb.String()))
}

func writeRule(sb *strings.Builder, ch string) {
	sb.WriteString(strings.Repeat(ch, ruleWidth))
	sb.WriteString("\n")
}
