// Package backend provides the HTTP client for the downstream embedding service
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"embedbatch/internal/platform/logger"

	dom "embedbatch/internal/services/batcher/domain"
)

const (
	defaultURL     = "http://localhost:8080/embed"
	defaultUA      = "embedbatch"
	defaultMaxBody = 64 << 20
	diagBytes      = 2048
)

// Options configures the Client
type Options struct {
	URL       string
	UserAgent string

	// Timeout bounds one backend call; zero leaves it to the transport
	Timeout time.Duration

	// MaxBodyBytes caps the response body read per call
	MaxBodyBytes int64
}

// Client posts one batch per call to the backend; it never retries
type Client struct {
	http *http.Client
	opts Options
	log  logger.Logger
	now  func() time.Time
}

var _ dom.Backend = (*Client)(nil)

// embedRequest is the wire body the backend expects
type embedRequest struct {
	Inputs []string `json:"inputs"`
}

// NewClient creates a Client with defaults applied
func NewClient(o Options) *Client {
	if o.URL == "" {
		o.URL = defaultURL
	}
	if o.UserAgent == "" {
		o.UserAgent = defaultUA
	}
	if o.MaxBodyBytes <= 0 {
		o.MaxBodyBytes = defaultMaxBody
	}
	return &Client{
		http: &http.Client{Timeout: o.Timeout},
		opts: o,
		log:  *logger.Named("backend"),
		now:  time.Now,
	}
}

// Embed sends inputs in one POST and decodes the ordered embeddings
// transport failures and non-2xx replies map to BackendRequestFailed, undecodable bodies to BackendParseFailed
func (c *Client) Embed(ctx context.Context, inputs []string) ([][]float32, error) {
	body, err := json.Marshal(embedRequest{Inputs: inputs})
	if err != nil {
		return nil, dom.BackendRequestFailed(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.opts.URL, bytes.NewReader(body))
	if err != nil {
		return nil, dom.BackendRequestFailed(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.opts.UserAgent)

	start := c.now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, dom.BackendRequestFailed(err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, c.opts.MaxBodyBytes+1))
	lat := c.now().Sub(start)

	c.log.Debug().
		Str("url", c.opts.URL).
		Int("status", resp.StatusCode).
		Int("inputs", len(inputs)).
		Int("bytes", len(raw)).
		Dur("latency", lat).
		Msg("backend http response")
	c.log.Trace().Bytes("body", tail(raw)).Msg("backend body")

	if err != nil {
		return nil, dom.BackendRequestFailed(err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, dom.BackendRequestFailed(fmt.Sprintf("status %d body %s", resp.StatusCode, tail(raw)))
	}
	if int64(len(raw)) > c.opts.MaxBodyBytes {
		return nil, dom.BackendParseFailed(fmt.Sprintf("response body exceeds %d bytes", c.opts.MaxBodyBytes))
	}

	var out [][]float32
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, dom.BackendParseFailed(err)
	}
	// encoding/json maps null onto a nil slice; the reply must be a list of numeric lists
	if out == nil {
		return nil, dom.BackendParseFailed("expected an array of embeddings, got null")
	}
	for i, v := range out {
		if v == nil {
			return nil, dom.BackendParseFailed(fmt.Sprintf("embedding %d is null", i))
		}
	}
	return out, nil
}

func tail(b []byte) []byte {
	if len(b) > diagBytes {
		return b[:diagBytes]
	}
	return b
}
