// file: internal/fetch/fetch.go
// version: 1.0.0
// guid: 58e1c6b2-7a9d-4e03-b4f8-2c6a0d9e1f37

// Package fetch wraps outbound API requests with cache-first semantics.
package fetch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/jdfalk/apicache/internal/cache"
	"github.com/jdfalk/apicache/internal/logging"
	"github.com/jdfalk/apicache/internal/metrics"
)

const maxErrorBody = 4 << 10

var errTrailingData = errors.New("unexpected data after JSON value")

// Doer sends HTTP requests. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Options describes one request. The zero value is a plain GET.
type Options struct {
	Method string
	Header http.Header
	Query  url.Values

	// ForceRefresh skips the cache read. The response is still stored.
	ForceRefresh bool
}

func (o Options) method() string {
	if o.Method == "" {
		return http.MethodGet
	}
	return strings.ToUpper(o.Method)
}

// Config holds Fetcher settings.
type Config struct {
	BaseURL    string
	DefaultTTL time.Duration
	Timeout    time.Duration
	UserAgent  string

	// Coalesce makes concurrent misses for one key share a single upstream
	// request. When false every miss goes to the network and the last
	// response to arrive wins.
	Coalesce bool
}

// Fetcher performs cache-aware requests against one backend.
type Fetcher struct {
	store      *cache.Store
	client     Doer
	baseURL    string
	userAgent  string
	timeout    time.Duration
	defaultTTL atomic.Int64
	coalesce   atomic.Bool
	group      singleflight.Group
}

// New creates a Fetcher that stores responses in store.
// If client is nil a client with cfg.Timeout is used.
func New(store *cache.Store, client Doer, cfg Config) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	f := &Fetcher{
		store:     store,
		client:    client,
		baseURL:   NormalizeBaseURL(cfg.BaseURL),
		userAgent: cfg.UserAgent,
		timeout:   cfg.Timeout,
	}
	f.SetDefaultTTL(cfg.DefaultTTL)
	f.SetCoalesce(cfg.Coalesce)
	return f
}

// BaseURL returns the normalized base URL.
func (f *Fetcher) BaseURL() string {
	return f.baseURL
}

// Resolve makes path absolute against the base URL.
func (f *Fetcher) Resolve(path string) string {
	return ResolveURL(f.baseURL, path)
}

// DefaultTTL returns the TTL used when callers pass none.
func (f *Fetcher) DefaultTTL() time.Duration {
	return time.Duration(f.defaultTTL.Load())
}

// SetDefaultTTL changes the fallback TTL. Non-positive values restore cache.DefaultTTL.
func (f *Fetcher) SetDefaultTTL(ttl time.Duration) {
	if ttl <= 0 {
		ttl = cache.DefaultTTL
	}
	f.defaultTTL.Store(int64(ttl))
}

// SetCoalesce toggles in-flight request sharing.
func (f *Fetcher) SetCoalesce(on bool) {
	f.coalesce.Store(on)
}

// Key returns the cache key Get would use for path and opts.
func (f *Fetcher) Key(path string, opts Options) string {
	return Key(f.Resolve(path), opts)
}

// Get returns the decoded JSON body for path. A fresh cached value is returned
// without touching the network; otherwise the request is sent and a 2xx body is
// stored before being returned. ttl <= 0 selects the default TTL.
//
// Returned values are shared with the cache and other callers and must not be
// modified. Use GetInto for a private typed copy.
func (f *Fetcher) Get(ctx context.Context, path string, opts Options, ttl time.Duration) (any, error) {
	resolved := f.Resolve(path)
	key := Key(resolved, opts)
	if ttl <= 0 {
		ttl = f.DefaultTTL()
	}

	if !opts.ForceRefresh {
		if v, ok := f.store.Get(key, ttl); ok {
			return v, nil
		}
		logging.LogCacheMiss("fetch", key)
	}

	load := func() (any, error) {
		v, err := f.send(ctx, opts.method(), requestURL(resolved, opts.Query), opts.Header, nil, false)
		if err != nil {
			return nil, err
		}
		f.store.Set(key, v)
		return v, nil
	}

	if !f.coalesce.Load() {
		return load()
	}

	v, err, shared := f.group.Do(key, load)
	if shared {
		metrics.IncCoalesced()
	}
	return v, err
}

// GetInto is Get followed by a JSON round trip of the value into out.
func (f *Fetcher) GetInto(ctx context.Context, path string, opts Options, ttl time.Duration, out any) error {
	v, err := f.Get(ctx, path, opts, ttl)
	if err != nil {
		return err
	}
	return Convert(v, out)
}

// Send performs an uncached request and decodes the JSON response. An empty
// body yields a nil value. Use it for mutations; the caller is responsible for
// invalidating affected keys.
func (f *Fetcher) Send(ctx context.Context, method, path string, header http.Header, body io.Reader) (any, error) {
	return f.send(ctx, strings.ToUpper(method), f.Resolve(path), header, body, true)
}

// Invalidate drops every cached entry whose key contains pattern.
func (f *Fetcher) Invalidate(pattern string) int {
	return f.store.InvalidatePattern(pattern)
}

// Clear drops every cached entry.
func (f *Fetcher) Clear() {
	f.store.Clear()
}

// Stats reports the cached keys.
func (f *Fetcher) Stats() cache.Stats {
	return f.store.Stats()
}

func (f *Fetcher) send(ctx context.Context, method, target string, header http.Header, body io.Reader, allowEmpty bool) (any, error) {
	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("fetch: failed to build request for %s: %w", target, err)
	}
	req.Header.Set("Accept", "application/json")
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}
	for name, values := range header {
		req.Header.Del(name)
		for _, v := range values {
			req.Header.Add(name, v)
		}
	}

	start := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		metrics.ObserveUpstream(metrics.OutcomeNetworkError, time.Since(start))
		logging.LogUpstream(method, target, 0, time.Since(start), err)
		return nil, fmt.Errorf("%w: %s %s: %w", ErrNetwork, method, target, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		herr := &HTTPError{
			Method:     method,
			URL:        target,
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       string(snippet),
		}
		metrics.ObserveUpstream(metrics.OutcomeHTTPError, time.Since(start))
		logging.LogUpstream(method, target, resp.StatusCode, time.Since(start), herr)
		return nil, herr
	}

	var v any
	if err := decodeBody(resp.Body, &v); err != nil {
		if allowEmpty && errors.Is(err, io.EOF) {
			metrics.ObserveUpstream(metrics.OutcomeOK, time.Since(start))
			return nil, nil
		}
		metrics.ObserveUpstream(metrics.OutcomeDecodeError, time.Since(start))
		logging.LogUpstream(method, target, resp.StatusCode, time.Since(start), err)
		return nil, fmt.Errorf("%w: %s %s: %w", ErrDecode, method, target, err)
	}

	metrics.ObserveUpstream(metrics.OutcomeOK, time.Since(start))
	logging.LogUpstream(method, target, resp.StatusCode, time.Since(start), nil)
	return v, nil
}

// decodeBody decodes exactly one JSON value. Anything but whitespace after it
// makes the body invalid.
func decodeBody(r io.Reader, v any) error {
	dec := json.NewDecoder(r)
	if err := dec.Decode(v); err != nil {
		return err
	}
	if _, err := dec.Token(); err != io.EOF {
		if err == nil {
			err = errTrailingData
		}
		return err
	}
	return nil
}

// Convert copies a decoded value into out through a JSON round trip.
func Convert(v any, out any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("fetch: failed to re-encode cached value: %w", err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return nil
}
