// Package remote is a model backend that posts each invocation as JSON to an
// inference service and reads back one mask per node.
//
// Request body:
//
//	{"noise": [[...]], "conditioning": [[[[...]]]], "features": [[...]], "edges": [[0, 1, 1]]}
//
// where conditioning is [node][channel][y][x]. The service answers 200 with
//
//	{"masks": [[[...]]]}
//
// as [node][y][x]. Each invocation is a single attempt: failures are
// reported to the caller, never retried.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	ferrors "github.com/matzehuels/floorgen/pkg/errors"
	"github.com/matzehuels/floorgen/pkg/mask"
	"github.com/matzehuels/floorgen/pkg/model"
	"github.com/matzehuels/floorgen/pkg/observability"
)

// DefaultTimeout bounds a single HTTP round trip.
const DefaultTimeout = 60 * time.Second

const maxErrorBody = 4 << 10

// Client calls a remote inference endpoint.
type Client struct {
	url     string
	http    *http.Client
	headers map[string]string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) { cl.http = c }
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(cl *Client) {
		if d > 0 {
			cl.http = &http.Client{Timeout: d}
		}
	}
}

// WithHeader adds a header to every request, e.g. an API token.
func WithHeader(key, value string) Option {
	return func(cl *Client) { cl.headers[key] = value }
}

// New returns a client posting to url.
func New(url string, opts ...Option) *Client {
	c := &Client{
		url:     url,
		http:    &http.Client{Timeout: DefaultTimeout},
		headers: map[string]string{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// URL returns the inference endpoint.
func (c *Client) URL() string { return c.url }

type request struct {
	Noise        [][]float32     `json:"noise"`
	Conditioning [][][][]float32 `json:"conditioning"`
	Features     [][]float32     `json:"features"`
	Edges        [][3]int        `json:"edges"`
}

type response struct {
	Masks [][][]float32 `json:"masks"`
	Error string        `json:"error,omitempty"`
}

// Invoke implements model.Generator.
func (c *Client) Invoke(ctx context.Context, in model.Input) ([]mask.Map, error) {
	if err := in.Validate(); err != nil {
		return nil, ferrors.Wrap(ferrors.ErrCodeInvalidInput, err, "remote model")
	}

	body, err := json.Marshal(request{
		Noise:        in.Noise,
		Conditioning: in.Conditioning.Flatten(),
		Features:     in.Features,
		Edges:        in.Edges,
	})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, ferrors.Wrap(ferrors.ErrCodeInvalidConfig, err, "model url %q", c.url)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	hooks := observability.HTTP()
	hooks.OnRequest(ctx, req.Method, req.URL.Host, req.URL.Path)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, req.URL.Host, req.URL.Path, err)
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, ferrors.Wrap(ferrors.ErrCodeNetwork, err, "model request")
	}
	defer resp.Body.Close()
	hooks.OnResponse(ctx, req.Method, req.URL.Host, req.URL.Path, resp.StatusCode, time.Since(start))

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, ferrors.New(ferrors.ErrCodeNetwork, "model service returned %d: %s", resp.StatusCode, bytes.TrimSpace(msg))
	}

	var out response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, ferrors.Wrap(ferrors.ErrCodeInvalidFormat, err, "decode model response")
	}
	if out.Error != "" {
		return nil, ferrors.New(ferrors.ErrCodeModelInference, "model service: %s", out.Error)
	}
	return toMaps(out.Masks)
}

func toMaps(grids [][][]float32) ([]mask.Map, error) {
	maps := make([]mask.Map, len(grids))
	for i, g := range grids {
		size := len(g)
		m := mask.Map{Size: size, Data: make([]float32, 0, size*size)}
		for y, row := range g {
			if len(row) != size {
				return nil, ferrors.New(ferrors.ErrCodeInvalidFormat, "mask %d row %d has %d cells, want %d", i, y, len(row), size)
			}
			m.Data = append(m.Data, row...)
		}
		maps[i] = m
	}
	return maps, nil
}
