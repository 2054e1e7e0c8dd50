package transport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// JSONOptions describes a request whose body is encoded as JSON.
type JSONOptions struct {
	Method string
	Header http.Header
	Body   any
}

// JSONResponse is the response of FetchJSON. The body has already been
// consumed and closed; Data holds the decoded payload.
type JSONResponse[T any] struct {
	*http.Response
	Data T
}

// FetchJSON encodes opts.Body as JSON, performs the request and decodes the
// response when its content type is JSON. Otherwise Data is the zero value.
func FetchJSON[T any](ctx context.Context, c *Client, url string, opts JSONOptions) (*JSONResponse[T], error) {
	req := RequestOptions{Method: opts.Method, Header: opts.Header}
	if opts.Body != nil {
		body, err := json.Marshal(opts.Body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		req.Body = body
	}

	resp, err := c.Fetch(ctx, url, req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	out := &JSONResponse[T]{Response: resp}
	if !IsJSON(resp.Header.Get("Content-Type")) {
		_, _ = io.Copy(io.Discard, resp.Body)
		return out, nil
	}

	if err := json.NewDecoder(resp.Body).Decode(&out.Data); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode response from %s: %w", url, err)
	}
	return out, nil
}
