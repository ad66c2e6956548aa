// file: internal/marketplace/register.go
// version: 1.0.0
// guid: d4b17e92-3a6c-4f08-8e5d-92c0a7f1b6e3

package marketplace

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/jdfalk/apicache/internal/fetch"
	"github.com/jdfalk/apicache/internal/logging"
)

var (
	ErrMissingID       = errors.New("marketplace: id is required")
	ErrInvalidForm     = errors.New("marketplace: invalid registration")
	ErrUnexpectedReply = errors.New("marketplace: unexpected response shape")
)

// Registration is the model registration form.
type Registration struct {
	Name             string
	Description      string
	Category         string
	PricePer1KTokens float64
	Currency         string
	Tags             []string

	// Artifact is an optional file (model card, weights archive).
	Artifact     io.Reader
	ArtifactName string
}

// Validate checks the fields the backend rejects.
func (r Registration) Validate() error {
	var problems []string
	if strings.TrimSpace(r.Name) == "" {
		problems = append(problems, "name is required")
	}
	if strings.TrimSpace(r.Category) == "" {
		problems = append(problems, "category is required")
	}
	if r.PricePer1KTokens < 0 {
		problems = append(problems, "price must not be negative")
	}
	if r.Artifact != nil && strings.TrimSpace(r.ArtifactName) == "" {
		problems = append(problems, "artifact name is required with an artifact")
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidForm, strings.Join(problems, "; "))
	}
	return nil
}

func (r Registration) encode() (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	currency := strings.ToUpper(strings.TrimSpace(r.Currency))
	if currency == "" {
		currency = "USD"
	}
	fields := [][2]string{
		{"name", strings.TrimSpace(r.Name)},
		{"description", r.Description},
		{"category", strings.TrimSpace(r.Category)},
		{"price_per_1k_tokens", strconv.FormatFloat(r.PricePer1KTokens, 'f', -1, 64)},
		{"currency", currency},
	}
	for _, f := range fields {
		if err := w.WriteField(f[0], f[1]); err != nil {
			return nil, "", err
		}
	}
	for _, tag := range r.Tags {
		if err := w.WriteField("tags", tag); err != nil {
			return nil, "", err
		}
	}
	if r.Artifact != nil {
		part, err := w.CreateFormFile("artifact", r.ArtifactName)
		if err != nil {
			return nil, "", err
		}
		if _, err := io.Copy(part, r.Artifact); err != nil {
			return nil, "", fmt.Errorf("failed to read artifact: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

// RegisterModel submits a new model. On success every cached model listing and
// detail is invalidated so the next read sees the new entry. The returned model
// is nil when the backend replies without a body.
func (c *Client) RegisterModel(ctx context.Context, r Registration) (*Model, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}

	body, contentType, err := r.encode()
	if err != nil {
		return nil, fmt.Errorf("register model: failed to encode form: %w", err)
	}

	header := c.header()
	if header == nil {
		header = http.Header{}
	}
	header.Set("Content-Type", contentType)

	v, err := c.fetcher.Send(ctx, http.MethodPost, ModelsPath, header, body)
	if err != nil {
		return nil, fmt.Errorf("register model: %w", err)
	}

	removed := c.fetcher.Invalidate("/" + ModelsPath)
	logging.Debugf("marketplace: registered %q, invalidated %d cached model entries", r.Name, removed)

	if v == nil {
		return nil, nil
	}
	var m Model
	if err := fetch.Convert(v, &m); err != nil {
		return nil, fmt.Errorf("register model: %w: %w", ErrUnexpectedReply, err)
	}
	return &m, nil
}
