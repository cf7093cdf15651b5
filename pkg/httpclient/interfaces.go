package httpclient

import (
	"context"
	"net/http"
)

// Response is a minimal HTTP response contract.
type Response interface {
	Body() []byte
	StatusCode() int
	Header() http.Header
	// URL is the final request URL after redirects.
	URL() string
}

// Client abstracts HTTP calls so callers can inject mocks or different transports.
// Per-call timeouts are carried by the context deadline.
type Client interface {
	Get(ctx context.Context, url string, params map[string]string, headers map[string]string) (Response, error)
	Post(ctx context.Context, url string, headers map[string]string, body []byte) (Response, error)
}
