package transport

import (
	"github.com/aretw0/introspection"
)

// ClientState exposes internal state for observability.
type ClientState struct {
	BaseURL              string `json:"base_url"`
	RequestInterceptors  int    `json:"request_interceptors"`
	ResponseInterceptors int    `json:"response_interceptors"`
}

// State implements introspection.Introspectable.
func (c *Client) State() any {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return ClientState{
		BaseURL:              c.baseURL,
		RequestInterceptors:  len(c.requestInterceptors),
		ResponseInterceptors: len(c.responseInterceptors),
	}
}

// ComponentType implements introspection.Component.
func (c *Client) ComponentType() string {
	return "transport"
}

var _ introspection.Introspectable = (*Client)(nil)
var _ introspection.Component = (*Client)(nil)
