// Package web implements ports.HTTPClient with net/http.
//
// The client keeps cookies between requests, which the form server uses to
// tie the pages of one submission together, and reports the final URL of
// every response so that redirects to closed-form or sign-in pages can be
// recognized.
package web

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/aretw0/gforms/pkg/ports"
)

// DefaultUserAgent is sent unless WithUserAgent overrides it.
const DefaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64; rv:128.0) Gecko/20100101 Firefox/128.0"

const maxBody = 16 << 20

// Client is a cookie-aware HTTP client.
type Client struct {
	http      *http.Client
	userAgent string
}

var _ ports.HTTPClient = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithTimeout bounds every request.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.http.Timeout = d
	}
}

// WithHTTPClient replaces the underlying client. Its jar is kept as is.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// New creates a client with a fresh cookie jar.
func New(opts ...Option) *Client {
	jar, _ := cookiejar.New(nil)
	c := &Client{
		http:      &http.Client{Jar: jar},
		userAgent: DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get fetches rawURL.
func (c *Client) Get(ctx context.Context, rawURL string) (*ports.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	return c.do(req)
}

// Post sends form as an urlencoded body.
func (c *Client) Post(ctx context.Context, rawURL string, form url.Values) (*ports.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req)
}

func (c *Client) do(req *http.Request) (*ports.Response, error) {
	req.Header.Set("User-Agent", c.userAgent)
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", req.URL, err)
	}
	return &ports.Response{
		URL:    resp.Request.URL.String(),
		Status: resp.StatusCode,
		Body:   body,
	}, nil
}
