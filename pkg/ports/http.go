package ports

import (
	"context"
	"net/url"
)

// Response is the part of an HTTP response the protocol needs.
// URL is the final URL after redirects.
type Response struct {
	URL    string
	Status int
	Body   []byte
}

// HTTPClient performs the requests of the submission protocol.
// Implementations follow redirects and keep cookies between calls.
type HTTPClient interface {
	Get(ctx context.Context, rawURL string) (*Response, error)
	Post(ctx context.Context, rawURL string, form url.Values) (*Response, error)
}
