package httpclient

import (
	"context"
	"net/http"
)

// HeaderField is one request header in caller-supplied order. Duplicate
// names are allowed; every entry is sent.
type HeaderField struct {
	Name  string
	Value string
}

// Response is a minimal HTTP response contract.
type Response interface {
	Body() []byte
	StatusCode() int
	Header() http.Header
}

// Client abstracts HTTP calls so callers can inject mocks or different transports.
type Client interface {
	Get(ctx context.Context, url string, headers []HeaderField) (Response, error)
}
