// Package ingest reads URL lists from files exported by other tools and
// feeds them into registry hooks with bounded concurrency.
//
// Two input formats are understood:
//   - Plain text, one URL per line. Blank lines and lines starting with '#'
//     are skipped.
//   - HTML documents, such as saved site maps or crawler output. Link-like
//     attributes are extracted with golang.org/x/net/html and resolved
//     against a base URL.
//
// Feeder fans the URLs out to a hook function using errgroup with a
// concurrency limit, the same way batch scans are processed.
package ingest
