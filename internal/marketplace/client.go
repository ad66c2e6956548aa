// file: internal/marketplace/client.go
// version: 1.0.0
// guid: 0c8f2b67-5e1a-4d93-b7a4-6f9e3c1d8a25

// Package marketplace is the typed client for the model marketplace backend.
// Reads go through the response cache with per-endpoint freshness windows.
package marketplace

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/jdfalk/apicache/internal/fetch"
)

// Endpoint paths relative to the backend base URL.
const (
	ModelsPath   = "models"
	DatasetsPath = "datasets"
	UsagePath    = "billing/usage"
)

// TTLs are the freshness windows per endpoint. Zero selects the fetcher default.
type TTLs struct {
	Search time.Duration
	Detail time.Duration
	Usage  time.Duration
}

// DefaultTTLs mirror how often each view is expected to change.
var DefaultTTLs = TTLs{
	Search: 2 * time.Minute,
	Detail: 10 * time.Minute,
	Usage:  time.Minute,
}

// Client reads marketplace resources through a cache-aware fetcher.
type Client struct {
	fetcher *fetch.Fetcher

	mu    sync.RWMutex
	ttls  TTLs
	token string
}

// NewClient creates a Client. Zero fields in ttls fall back to DefaultTTLs.
func NewClient(f *fetch.Fetcher, ttls TTLs) *Client {
	c := &Client{fetcher: f}
	c.SetTTLs(ttls)
	return c
}

// SetTTLs replaces the per-endpoint freshness windows.
func (c *Client) SetTTLs(ttls TTLs) {
	if ttls.Search <= 0 {
		ttls.Search = DefaultTTLs.Search
	}
	if ttls.Detail <= 0 {
		ttls.Detail = DefaultTTLs.Detail
	}
	if ttls.Usage <= 0 {
		ttls.Usage = DefaultTTLs.Usage
	}
	c.mu.Lock()
	c.ttls = ttls
	c.mu.Unlock()
}

// TTLs returns the current freshness windows.
func (c *Client) TTLs() TTLs {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.ttls
}

// SetToken sets the bearer token sent with every request. The token is part of
// the request identity, so cached responses are never shared across tokens.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = strings.TrimSpace(token)
	c.mu.Unlock()
}

func (c *Client) header() http.Header {
	c.mu.RLock()
	token := c.token
	c.mu.RUnlock()

	if token == "" {
		return nil
	}
	return http.Header{"Authorization": {"Bearer " + token}}
}

// SearchModels lists models matching p.
func (c *Client) SearchModels(ctx context.Context, p SearchParams) (*ModelPage, error) {
	q := url.Values{}
	if s := strings.TrimSpace(p.Query); s != "" {
		q.Set("q", s)
	}
	if p.Category != "" {
		q.Set("category", p.Category)
	}
	if p.Page > 0 {
		q.Set("page", strconv.Itoa(p.Page))
	}

	var page ModelPage
	opts := fetch.Options{Header: c.header(), Query: q, ForceRefresh: p.ForceRefresh}
	if err := c.fetcher.GetInto(ctx, ModelsPath, opts, c.TTLs().Search, &page); err != nil {
		return nil, fmt.Errorf("search models: %w", err)
	}
	return &page, nil
}

// GetModel fetches a single model by id.
func (c *Client) GetModel(ctx context.Context, id string) (*Model, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("get model: %w", ErrMissingID)
	}

	var m Model
	opts := fetch.Options{Header: c.header()}
	if err := c.fetcher.GetInto(ctx, ModelsPath+"/"+url.PathEscape(id), opts, c.TTLs().Detail, &m); err != nil {
		return nil, fmt.Errorf("get model %s: %w", id, err)
	}
	return &m, nil
}

// ListDatasets lists datasets. Page <= 0 requests the first page.
func (c *Client) ListDatasets(ctx context.Context, page int) (*DatasetPage, error) {
	q := url.Values{}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}

	var out DatasetPage
	opts := fetch.Options{Header: c.header(), Query: q}
	if err := c.fetcher.GetInto(ctx, DatasetsPath, opts, 0, &out); err != nil {
		return nil, fmt.Errorf("list datasets: %w", err)
	}
	return &out, nil
}

// GetUsage fetches the billing summary for the current account.
func (c *Client) GetUsage(ctx context.Context, forceRefresh bool) (*Usage, error) {
	var u Usage
	opts := fetch.Options{Header: c.header(), ForceRefresh: forceRefresh}
	if err := c.fetcher.GetInto(ctx, UsagePath, opts, c.TTLs().Usage, &u); err != nil {
		return nil, fmt.Errorf("get usage: %w", err)
	}
	return &u, nil
}
