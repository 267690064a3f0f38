package ingest

import (
	"bufio"
	"fmt"
	"io"
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

// Format is the layout of an input file.
type Format int

const (
	// FormatLines is one URL per line.
	FormatLines Format = iota

	// FormatHTML is an HTML document whose links are extracted.
	FormatHTML
)

// maxLineSize bounds a single line in FormatLines input.
const maxLineSize = 1024 * 1024

// Read extracts URLs from r in the given format. base resolves relative
// links in HTML input and is ignored for line input.
func Read(r io.Reader, format Format, base string) ([]string, error) {
	switch format {
	case FormatLines:
		return ReadLines(r)
	case FormatHTML:
		return ReadHTMLLinks(r, base)
	default:
		return nil, fmt.Errorf("unknown input format %d", format)
	}
}

// ReadLines returns the non-empty, non-comment lines of r with surrounding
// whitespace trimmed. Lines are returned as-is otherwise; malformed URLs are
// left for the canonicalizer to handle.
func ReadLines(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var urls []string
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read URL list: %w", err)
	}
	return urls, nil
}

// linkAttrs maps element names to the attribute holding a URL.
var linkAttrs = map[string]string{
	"a":      "href",
	"link":   "href",
	"form":   "action",
	"script": "src",
	"img":    "src",
	"iframe": "src",
}

// ReadHTMLLinks parses an HTML document and returns the unique absolute
// URLs it links to, in document order. Relative links are resolved against
// base; when base is empty they are skipped.
func ReadHTMLLinks(r io.Reader, base string) ([]string, error) {
	var baseURL *url.URL
	if base != "" {
		u, err := url.Parse(base)
		if err != nil {
			return nil, fmt.Errorf("invalid base URL %q: %w", base, err)
		}
		baseURL = u
	}

	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	seen := make(map[string]bool)
	var links []string

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if attr, ok := linkAttrs[n.Data]; ok {
				if resolved := resolveURL(baseURL, getAttr(n, attr)); resolved != "" && !seen[resolved] {
					seen[resolved] = true
					links = append(links, resolved)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return links, nil
}

// resolveURL turns href into an absolute URL, or returns "" for links that
// do not point at a fetchable resource.
func resolveURL(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" || href == "#" {
		return ""
	}
	lower := strings.ToLower(href)
	for _, prefix := range []string{"javascript:", "mailto:", "tel:", "data:"} {
		if strings.HasPrefix(lower, prefix) {
			return ""
		}
	}

	u, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if u.IsAbs() {
		return u.String()
	}
	if base == nil {
		return ""
	}
	return base.ResolveReference(u).String()
}

// getAttr returns the value of the attribute key on n.
func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}
