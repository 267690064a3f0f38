package canonical

import (
	"net/url"
	"strconv"
	"strings"
)

// Default ports elided from canonical keys.
const (
	// DefaultHTTPPort is the implicit port of the http scheme.
	DefaultHTTPPort = 80

	// DefaultHTTPSPort is the implicit port of the https scheme.
	DefaultHTTPSPort = 443

	// NoPort marks a URL without an explicit port.
	NoPort = -1
)

// Canonicalize returns the canonical key for raw.
//
// The key has the form scheme://host[:port]path. The port is omitted when it is
// absent or is the default for the scheme. Query string, fragment and user
// info are dropped. An empty path stays empty. The path is in escaped form, so
// "http://h/a b" and "http://h/a%20b" share a key.
//
// If raw is not an absolute URL with a scheme and a host, Canonicalize returns
// raw unchanged.
func Canonicalize(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	if u.Scheme == "" || u.Host == "" || u.Opaque != "" {
		return raw
	}

	port := NoPort
	if p := u.Port(); p != "" {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return raw
		}
		port = n
	}

	host := u.Hostname()
	if host == "" {
		return raw
	}
	if strings.Contains(host, ":") {
		// IPv6 literal
		host = "[" + host + "]"
	}

	var sb strings.Builder
	sb.Grow(len(raw))
	sb.WriteString(u.Scheme)
	sb.WriteString("://")
	sb.WriteString(host)
	if !IsDefaultPort(u.Scheme, port) {
		sb.WriteByte(':')
		sb.WriteString(strconv.Itoa(port))
	}
	sb.WriteString(u.EscapedPath())

	return sb.String()
}

// IsDefaultPort reports whether port may be omitted for scheme.
// NoPort is always considered default.
func IsDefaultPort(scheme string, port int) bool {
	switch {
	case port == NoPort:
		return true
	case scheme == "http" && port == DefaultHTTPPort:
		return true
	case scheme == "https" && port == DefaultHTTPSPort:
		return true
	default:
		return false
	}
}
