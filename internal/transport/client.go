// Package transport provides HTTP client plumbing for the image host API:
// authenticated request execution and response decoding.
package transport

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/stylerack/stylerack/pkg/constants"
	"github.com/stylerack/stylerack/pkg/errors"
)

// DefaultHTTPTimeout is the default timeout for HTTP requests.
var DefaultHTTPTimeout = constants.DefaultHTTPTimeout

// Client provides HTTP client functionality with authentication.
type Client struct {
	http *http.Client
	auth Authenticator
}

// New creates a new transport client with the specified authenticator.
func New(auth Authenticator) *Client {
	return NewWithTimeout(auth, DefaultHTTPTimeout)
}

// NewWithTimeout creates a transport client with a custom request timeout.
func NewWithTimeout(auth Authenticator, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultHTTPTimeout
	}
	return &Client{
		http: &http.Client{Timeout: timeout},
		auth: auth,
	}
}

// Do performs an HTTP request with authentication applied. A request that
// dies with its context maps onto the timeout/cancellation sentinels so
// callers can classify without inspecting url.Error internals.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	if c.auth != nil {
		c.auth.Apply(req)
	}

	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		switch req.Context().Err() {
		case context.DeadlineExceeded:
			return nil, fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, errors.ErrTimeout)
		case context.Canceled:
			return nil, fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, errors.ErrCanceled)
		}
		return nil, err
	}
	return resp, nil
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.WrapIO("create", "GET "+url, err)
	}
	return c.Do(req)
}
