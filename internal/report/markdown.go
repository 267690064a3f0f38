package report

import (
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
	"github.com/nao1215/scanmark/internal/annotation"
	"github.com/nao1215/scanmark/internal/audit"
)

// MarkdownWriter outputs listings in Markdown format for sharing,
// using nao1215/markdown for tables, alerts and a mermaid pie chart.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{baseWriter: newBaseWriter(output)}
}

// Write outputs the entries in Markdown format.
func (w *MarkdownWriter) Write(entries []annotation.Entry) (int, error) {
	md := markdown.NewMarkdown(w.output)
	summary := Summarize(entries)

	md.H1("Scanned URLs")
	md.PlainText("")

	w.writeSummary(md, summary)
	w.writeEntries(md, entries)
	w.writeTags(md, summary)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeSummary writes the status summary section.
func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, s Summary) {
	md.H2("Status Summary")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Status", "Count"},
		Rows: [][]string{
			{"🟢 " + annotation.ScannedActive.String(), strconv.Itoa(s.Active)},
			{"🟢 " + annotation.ScannedManual.String(), strconv.Itoa(s.Manual)},
			{"⚪ " + annotation.NotScanned.String(), strconv.Itoa(s.NotScanned)},
			{"**Total**", "**" + strconv.Itoa(s.Total) + "**"},
		},
	})
	md.PlainText("")

	if s.Total > 0 {
		w.writePieChart(md, s)
	}
	w.writeAlert(md, s)
}

// writePieChart writes a mermaid pie chart for the status distribution.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, s Summary) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Scan Coverage"),
		piechart.WithShowData(true),
	)

	if s.Active > 0 {
		chart.LabelAndIntValue("Active scan", uint64(s.Active))
	}
	if s.Manual > 0 {
		chart.LabelAndIntValue("Manual", uint64(s.Manual))
	}
	if s.NotScanned > 0 {
		chart.LabelAndIntValue("Not scanned", uint64(s.NotScanned))
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeAlert writes a coverage alert.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, s Summary) {
	switch {
	case s.Total == 0:
		md.Note("No URLs recorded yet.")
	case s.NotScanned == 0:
		md.Tip("Every recorded URL has been scanned.")
	default:
		md.Warningf("%d of %d URL(s) have not been scanned.", s.NotScanned, s.Total)
	}
	md.PlainText("")
}

// writeEntries writes one table row per URL.
func (w *MarkdownWriter) writeEntries(md *markdown.Markdown, entries []annotation.Entry) {
	md.H2("URLs")
	md.PlainText("")

	if len(entries) == 0 {
		md.PlainText("No URLs recorded.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(entries))
	for i, e := range entries {
		rows[i] = []string{
			"`" + e.URL + "`",
			e.Record.Status.String(),
			formatTags(e.Record.AllTags(), true),
			e.Record.UpdatedAt.Format("2006-01-02 15:04"),
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"URL", "Status", "Tags", "Updated"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeTags writes tag usage counts.
func (w *MarkdownWriter) writeTags(md *markdown.Markdown, s Summary) {
	if len(s.Tags) == 0 {
		return
	}

	md.H2("Tags")
	md.PlainText("")

	rows := make([][]string, len(s.Tags))
	for i, tc := range s.Tags {
		rows[i] = []string{LabelFor(tc.Tag).String(), strconv.Itoa(tc.Count)}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Tag", "URLs"},
		Rows:   rows,
	})
	md.PlainText("")
}

// WriteFindings outputs the findings as a Markdown table.
func (w *MarkdownWriter) WriteFindings(findings []audit.Finding) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H2("Findings")
	md.PlainText("")

	if len(findings) == 0 {
		md.PlainText("No new findings.")
		md.PlainText("")
		return len(md.String()), md.Build()
	}

	rows := make([][]string, len(findings))
	for i, f := range findings {
		rows[i] = []string{
			f.Name,
			"`" + f.BaseURL + "`",
			f.Severity.String(),
			f.Confidence.String(),
		}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Issue", "URL", "Severity", "Confidence"},
		Rows:   rows,
	})
	md.PlainText("")

	for _, f := range findings {
		md.Details(f.Name, f.Detail)
	}
	md.PlainText("")

	return len(md.String()), md.Build()
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [scanmark](https://github.com/nao1215/scanmark)*")
}
