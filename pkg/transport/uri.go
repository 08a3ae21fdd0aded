// Package transport provides the wire bindings the dispatcher is driven
// over: stdio framing, a TCP request/reply loop and an HTTP handler, plus
// the URI normalizer the TCP binding validates its listen/dial address
// with.
package transport

import (
	"fmt"
	"net/url"
	"strings"
)

// NormalizeURI validates and canonicalizes a transport URI, per spec.md's
// C8 URI Normalizer: scheme must be "tcp" or "zmq" (the latter canonicalized
// to "tcp"), the authority (host[:port]) must be non-empty, and the path,
// query and fragment must all be empty ("/" is accepted as an empty path).
// Ported from inocybe_zmq/uri.py's Uri._normalize.
func NormalizeURI(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("transport: malformed uri %q: %w", raw, err)
	}

	var bad []string

	scheme := u.Scheme
	switch scheme {
	case "tcp", "zmq":
		scheme = "tcp"
	default:
		bad = append(bad, fmt.Sprintf("protocol (%s)", u.Scheme))
	}

	if u.Host == "" {
		bad = append(bad, fmt.Sprintf("authority (%s)", u.Host))
	}

	path := u.Path
	if path == "" || path == "/" {
		path = ""
	} else {
		bad = append(bad, fmt.Sprintf("path (%s)", u.Path))
	}

	if u.RawQuery != "" {
		bad = append(bad, fmt.Sprintf("query (%s)", u.RawQuery))
	}
	if u.Fragment != "" {
		bad = append(bad, fmt.Sprintf("fragment (%s)", u.Fragment))
	}

	if len(bad) > 0 {
		return "", fmt.Errorf("transport: bad values for %s", strings.Join(bad, ", "))
	}

	normalized := url.URL{Scheme: scheme, Host: u.Host}
	return normalized.String(), nil
}
