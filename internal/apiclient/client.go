package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Options configures a Client
type Options struct {
	BaseURL        string
	FilesBaseURL   string
	RequestTimeout time.Duration
	UploadTimeout  time.Duration
	HTTPClient     *http.Client
	Metrics        *Metrics
}

// Client talks to the report-card REST backend
type Client struct {
	baseURL        string
	filesBaseURL   string
	requestTimeout time.Duration
	uploadTimeout  time.Duration
	http           *http.Client
	metrics        *Metrics
}

// New creates a Client, filling unset options with defaults
func New(opts Options) *Client {
	c := &Client{
		baseURL:        strings.TrimRight(opts.BaseURL, "/"),
		filesBaseURL:   strings.TrimRight(opts.FilesBaseURL, "/"),
		requestTimeout: opts.RequestTimeout,
		uploadTimeout:  opts.UploadTimeout,
		http:           opts.HTTPClient,
		metrics:        opts.Metrics,
	}
	if c.filesBaseURL == "" {
		c.filesBaseURL = c.baseURL
	}
	if c.requestTimeout <= 0 {
		c.requestTimeout = 15 * time.Second
	}
	if c.uploadTimeout <= 0 {
		c.uploadTimeout = 2 * time.Minute
	}
	if c.http == nil {
		// Deadlines are applied per request through the context
		c.http = &http.Client{}
	}
	return c
}

// request describes one backend call
type request struct {
	method      string
	route       string // route template, used as metrics label
	path        string
	url         string // absolute target, overrides baseURL+path
	body        io.Reader
	contentType string
	timeout     time.Duration
}

func (c *Client) jsonRequest(method, route, path string, payload any) (request, error) {
	req := request{method: method, route: route, path: path, timeout: c.requestTimeout}
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return req, fmt.Errorf("failed to encode request body: %w", err)
		}
		req.body = bytes.NewReader(b)
		req.contentType = "application/json"
	}
	return req, nil
}

// send performs req and returns the raw response body of a 2xx answer
func (c *Client) send(ctx context.Context, r request) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	resp, err := c.open(ctx, r)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response of %s %s: %w", r.method, r.path, err)
	}
	return body, nil
}

// open performs req and returns the response of a 2xx answer, body unread
func (c *Client) open(ctx context.Context, r request) (*http.Response, error) {
	target := r.url
	if target == "" {
		target = c.baseURL + r.path
	}
	httpReq, err := http.NewRequestWithContext(ctx, r.method, target, r.body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	if r.url == "" {
		httpReq.Header.Set("Accept", "application/json")
	}
	if r.contentType != "" {
		httpReq.Header.Set("Content-Type", r.contentType)
	}
	if token := TokenFrom(ctx); token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	started := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		c.metrics.observe(r.method, r.route, 0, started)
		return nil, fmt.Errorf("%s %s: %w", r.method, r.path, err)
	}
	c.metrics.observe(r.method, r.route, resp.StatusCode, started)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
		return nil, newAPIError(resp.StatusCode, body)
	}
	return resp, nil
}

// call sends r and decodes a JSON answer into out when out is non-nil
func (c *Client) call(ctx context.Context, r request, out any) error {
	body, err := c.send(ctx, r)
	if err != nil {
		return err
	}
	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode response of %s %s: %w", r.method, r.path, err)
	}
	return nil
}

// decodeList unmarshals a JSON array, treating any other shape as empty
func decodeList[T any](body []byte) ([]T, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return []T{}, nil
	}
	var items []T
	if err := json.Unmarshal(trimmed, &items); err != nil {
		return nil, fmt.Errorf("failed to decode list: %w", err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}
