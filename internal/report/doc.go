// Package report renders the contents of an annotation registry.
//
// This package contains writers for different output formats:
//   - SimpleWriter: Human-readable text output for terminal display
//   - JSONWriter: Structured JSON output for tool integration
//   - MarkdownWriter: Markdown with a mermaid status chart for sharing
//
// Every writer works from a []annotation.Entry snapshot (Registry.ListAll),
// so rendering never holds the registry lock. Writers also render the
// findings emitted by the active scan check.
package report
