// Package transport is a small HTTP client with ordered request and response
// interceptors. Non-2xx responses and transport failures surface as *core.Error.
package transport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"sync"

	"github.com/aretw0/notes/pkg/core"
)

var schemePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9+.\-]*://`)

// RequestOptions describes an outgoing request before URL resolution.
type RequestOptions struct {
	Method string
	Header http.Header
	Body   []byte
}

func (o RequestOptions) clone() RequestOptions {
	c := o
	if o.Header != nil {
		c.Header = o.Header.Clone()
	}
	return c
}

// RequestInterceptor receives the URL as passed by the caller and the current
// options, and returns the options to use from then on.
type RequestInterceptor func(ctx context.Context, url string, opts RequestOptions) RequestOptions

// Replay re-issues the original request, after request interceptors ran.
type Replay func(ctx context.Context) (*http.Response, error)

// ResponseInterceptor inspects or replaces a response. Returning an error
// aborts the chain.
type ResponseInterceptor func(ctx context.Context, resp *http.Response, replay Replay) (*http.Response, error)

// Config holds the configuration for a Client.
type Config struct {
	BaseURL              string
	HTTPClient           *http.Client
	Logger               *slog.Logger
	RequestInterceptors  []RequestInterceptor
	ResponseInterceptors []ResponseInterceptor
}

// Client performs requests against a base URL.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger

	mu                   sync.RWMutex
	requestInterceptors  []RequestInterceptor
	responseInterceptors []ResponseInterceptor
}

// New creates a Client. The error interceptor is registered after the
// configured response interceptors; interceptors added later run after it.
func New(config Config) *Client {
	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	c := &Client{
		baseURL:              config.BaseURL,
		http:                 httpClient,
		logger:               config.Logger,
		requestInterceptors:  append([]RequestInterceptor(nil), config.RequestInterceptors...),
		responseInterceptors: append([]ResponseInterceptor(nil), config.ResponseInterceptors...),
	}
	c.AddResponseInterceptor(ErrorInterceptor)
	return c
}

// AddRequestInterceptor appends a request interceptor.
func (c *Client) AddRequestInterceptor(i RequestInterceptor) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.requestInterceptors = append(c.requestInterceptors, i)
}

// AddResponseInterceptor appends a response interceptor.
func (c *Client) AddResponseInterceptor(i ResponseInterceptor) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.responseInterceptors = append(c.responseInterceptors, i)
}

// BaseURL returns the configured base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ResolveURL prefixes relative URLs with the base URL. URLs starting with a
// scheme are returned unchanged.
func (c *Client) ResolveURL(url string) string {
	if schemePattern.MatchString(url) {
		return url
	}
	return c.baseURL + url
}

// Fetch applies the request interceptors, performs exactly one request and
// passes the response through the response interceptors.
func (c *Client) Fetch(ctx context.Context, url string, opts RequestOptions) (*http.Response, error) {
	fullURL := c.ResolveURL(url)

	c.mu.RLock()
	reqInterceptors := append([]RequestInterceptor(nil), c.requestInterceptors...)
	respInterceptors := append([]ResponseInterceptor(nil), c.responseInterceptors...)
	c.mu.RUnlock()

	processed := opts.clone()
	for _, intercept := range reqInterceptors {
		processed = intercept(ctx, url, processed.clone())
	}
	if processed.Method == "" {
		processed.Method = http.MethodGet
	}

	send := func(ctx context.Context) (*http.Response, error) {
		return c.do(ctx, fullURL, processed)
	}

	resp, err := send(ctx)
	if err != nil {
		return nil, err
	}

	for _, intercept := range respInterceptors {
		next, err := intercept(ctx, resp, send)
		if err != nil {
			drain(resp)
			return nil, err
		}
		resp = next
	}

	return resp, nil
}

func (c *Client) do(ctx context.Context, fullURL string, opts RequestOptions) (*http.Response, error) {
	var body io.Reader
	if opts.Body != nil {
		body = bytes.NewReader(opts.Body)
	}

	req, err := http.NewRequestWithContext(ctx, opts.Method, fullURL, body)
	if err != nil {
		return nil, fmt.Errorf("build request %s %s: %w", opts.Method, fullURL, err)
	}
	if opts.Header != nil {
		req.Header = opts.Header.Clone()
	}

	if c.logger != nil {
		c.logger.Debug("http request", "method", opts.Method, "url", fullURL)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, core.NewNetworkError(err)
	}
	return resp, nil
}

// drain closes a response body that nobody will read.
func drain(resp *http.Response) {
	if resp == nil || resp.Body == nil {
		return
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}
