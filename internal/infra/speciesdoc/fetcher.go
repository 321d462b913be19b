// Package speciesdoc fetches and validates the per-species accessory configuration document.
package speciesdoc

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/pocketpet/server/internal/domain/pet"
	"github.com/pocketpet/server/internal/domain/species"
)

//go:embed species.schema.json
var schemaSource string

// maxDocumentSize bounds the body read from the asset server.
const maxDocumentSize = 1 << 20

var (
	// ErrBadStatus is returned for any non-2xx response.
	ErrBadStatus = errors.New("species document: unexpected status")
	// ErrInvalidDocument is returned when the document fails schema validation.
	ErrInvalidDocument = errors.New("species document: invalid")
)

// Fetcher loads species documents from a static asset server.
type Fetcher struct {
	baseURL *url.URL
	client  *http.Client
	schema  *jsonschema.Schema // nil disables validation
}

// Option customises a Fetcher.
type Option func(*Fetcher)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(f *Fetcher) { f.client = c }
}

// WithoutValidation skips the JSON schema check.
func WithoutValidation() Option {
	return func(f *Fetcher) { f.schema = nil }
}

// NewFetcher creates a fetcher resolving document paths against baseURL.
func NewFetcher(baseURL string, opts ...Option) (*Fetcher, error) {
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse asset base url: %w", err)
	}

	schema, err := CompileSchema()
	if err != nil {
		return nil, err
	}

	f := &Fetcher{
		baseURL: u,
		client:  http.DefaultClient,
		schema:  schema,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f, nil
}

// CompileSchema compiles the embedded species document schema.
func CompileSchema() (*jsonschema.Schema, error) {
	s, err := jsonschema.CompileString("species.schema.json", schemaSource)
	if err != nil {
		return nil, fmt.Errorf("compile species schema: %w", err)
	}
	return s, nil
}

// URL returns the document location for a species.
func (f *Fetcher) URL(speciesID string) string {
	return f.baseURL.ResolveReference(&url.URL{Path: pet.ConfigPath(speciesID)}).String()
}

// Fetch downloads, validates and parses the configuration for speciesID.
// No retries are attempted.
func (f *Fetcher) Fetch(ctx context.Context, speciesID string) (species.Configuration, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.URL(speciesID), nil)
	if err != nil {
		return nil, fmt.Errorf("build species request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch species document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s", ErrBadStatus, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentSize))
	if err != nil {
		return nil, fmt.Errorf("read species document: %w", err)
	}

	return Decode(body, f.schema)
}

// Decode validates body against schema (when non-nil) and parses it.
func Decode(body []byte, schema *jsonschema.Schema) (species.Configuration, error) {
	if schema != nil {
		var doc interface{}
		dec := json.NewDecoder(bytes.NewReader(body))
		dec.UseNumber()
		if err := dec.Decode(&doc); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
		}
		if err := schema.Validate(doc); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
		}
	}

	cfg, err := species.Parse(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	return cfg, nil
}
