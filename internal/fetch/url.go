// file: internal/fetch/url.go
// version: 1.0.0
// guid: 0b5e8a73-2d4c-4f19-8e6a-c7d31b29f054

package fetch

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/url"
	"sort"
	"strings"
)

// NormalizeBaseURL trims whitespace and trailing slashes.
func NormalizeBaseURL(base string) string {
	return strings.TrimRight(strings.TrimSpace(base), "/")
}

// ResolveURL makes path absolute against base. An empty path resolves to base,
// http(s) URLs pass through untouched, and anything else is joined with exactly
// one slash.
func ResolveURL(base, path string) string {
	base = NormalizeBaseURL(base)
	if path == "" {
		return base
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return base + "/" + strings.TrimLeft(path, "/")
}

// requestURL appends the query to the resolved URL. url.Values.Encode sorts by key.
func requestURL(resolved string, query url.Values) string {
	if len(query) == 0 {
		return resolved
	}
	sep := "?"
	if strings.Contains(resolved, "?") {
		sep = "&"
	}
	return resolved + sep + query.Encode()
}

type keyParts struct {
	Method  string            `json:"method"`
	Headers map[string]string `json:"headers,omitempty"`
}

// Key derives the cache identity for a request. Header names are canonicalized
// and every map is encoded with sorted keys, so insertion order never matters.
// Header values only appear as digests, so keys can be listed and logged
// without exposing credentials. ForceRefresh is not part of the identity.
func Key(resolvedURL string, opts Options) string {
	parts := keyParts{Method: opts.method()}
	if len(opts.Header) > 0 {
		merged := make(map[string][]string, len(opts.Header))
		for name, values := range opts.Header {
			canon := http.CanonicalHeaderKey(name)
			merged[canon] = append(merged[canon], values...)
		}
		parts.Headers = make(map[string]string, len(merged))
		for name, values := range merged {
			parts.Headers[name] = digestValues(values)
		}
	}

	// encoding/json writes map keys in sorted order. Only strings are
	// marshaled, so the error is always nil.
	enc, _ := json.Marshal(parts)
	return requestURL(resolvedURL, opts.Query) + " " + string(enc)
}

// digestValues hashes header values independently of their order.
func digestValues(values []string) string {
	sorted := append([]string(nil), values...)
	sort.Strings(sorted)
	sum := sha256.Sum256([]byte(strings.Join(sorted, "\x00")))
	return "sha256:" + hex.EncodeToString(sum[:16])
}
