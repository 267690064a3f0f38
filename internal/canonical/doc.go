// Package canonical maps URL-like strings to the canonical keys used by the
// annotation registry.
//
// Two requests that differ only in an explicit default port, the query string
// or the fragment refer to the same resource for annotation purposes:
//
//	http://example.com:80/a/b?x=1#top  ->  http://example.com/a/b
//	https://example.com:8443/x         ->  https://example.com:8443/x
//
// The host is kept exactly as written. HTTP://Example.com/x and
// http://example.com/x canonicalize to different keys because only the scheme
// is case-folded by the parser.
//
// Input that does not parse as an absolute URL is returned unchanged, so a
// caller always gets a usable key.
package canonical
