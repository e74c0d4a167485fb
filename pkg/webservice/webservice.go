package webservice

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/inevs/webservice/internal/cache"
	"github.com/inevs/webservice/internal/logger"
	"github.com/inevs/webservice/pkg/httpclient"
)

// Package webservice issues HTTP GET requests and decodes JSON response
// bodies into typed values, classifying failures as HTTPError, DecodeError,
// or ErrUnknown.

const defaultTimeout = 15 * time.Second

// Webservice executes GET requests. It holds no per-call state and is safe
// to share across concurrent callers.
type Webservice struct {
	client httpclient.Client
	cache  cache.ResponseCache
	log    logger.Logger
}

// Option configures a Webservice.
type Option func(*Webservice)

// WithClient overrides the HTTP transport.
func WithClient(c httpclient.Client) Option {
	return func(ws *Webservice) {
		if c != nil {
			ws.client = c
		}
	}
}

// WithCache attaches a response cache. Without one, every call fetches
// from the network.
func WithCache(c cache.ResponseCache) Option {
	return func(ws *Webservice) { ws.cache = c }
}

// WithLogger routes diagnostic output to log.
func WithLogger(log logger.Logger) Option {
	return func(ws *Webservice) {
		if log != nil {
			ws.log = log
		}
	}
}

// New builds a Webservice with a default resty transport.
func New(opts ...Option) *Webservice {
	ws := &Webservice{
		client: httpclient.NewRestyClient(defaultTimeout),
		log:    &logger.NopLogger{},
	}
	for _, opt := range opts {
		opt(ws)
	}
	return ws
}

// Default is a shared instance for callers that don't need custom wiring.
// The executor is stateless, so sharing it is safe.
var Default = New()

// Load performs a GET against baseURL with the given query parameters and
// header fields and decodes the JSON response body into T.
//
// Query parameters are percent-encoded and appended in caller order; an
// empty list leaves baseURL untouched. Headers are attached in caller
// order, duplicates included. A fresh cached response is preferred over a
// network fetch when a cache is configured.
//
// Exactly one of the decoded value or an error is returned: a non-2xx
// status yields *HTTPError, a body that fails to unmarshal into T yields
// *DecodeError, and everything else (malformed URL, transport failure,
// cancelled context) matches ErrUnknown via errors.Is.
func Load[T any](ctx context.Context, ws *Webservice, baseURL string, params []QueryParameter, headers []HeaderField) (T, error) {
	var zero T
	if ws == nil {
		ws = Default
	}

	requestURL, err := buildRequestURL(baseURL, params)
	if err != nil {
		return zero, unknown(err)
	}

	if entry, ok := ws.cachedResponse(requestURL); ok {
		return decodeBody[T](entry.Body)
	}

	resp, err := ws.client.Get(ctx, requestURL, headers)
	if err != nil {
		return zero, unknown(err)
	}

	status := resp.StatusCode()
	if status < http.StatusOK || status >= http.StatusMultipleChoices {
		return zero, &HTTPError{StatusCode: status}
	}

	ws.storeResponse(requestURL, resp)

	return decodeBody[T](resp.Body())
}

// cachedResponse returns a stored fresh response for url, if any. Cache
// read failures degrade to a miss.
func (ws *Webservice) cachedResponse(url string) (cache.Entry, bool) {
	if ws.cache == nil {
		return cache.Entry{}, false
	}

	entry, ok, err := ws.cache.Get(url)
	if err != nil {
		ws.log.WarnObj("response cache read failed", "error", err)
		return cache.Entry{}, false
	}
	if ok {
		ws.log.DebugObj("response served from cache", "url", url)
	}
	return entry, ok
}

// storeResponse caches resp when its headers grant a positive freshness
// lifetime. Only 2xx responses reach this point.
func (ws *Webservice) storeResponse(url string, resp httpclient.Response) {
	if ws.cache == nil {
		return
	}

	ttl := cache.FreshnessLifetime(resp.Header())
	if ttl <= 0 {
		return
	}

	entry := cache.Entry{StatusCode: resp.StatusCode(), Body: resp.Body()}
	if err := ws.cache.Put(url, entry, ttl); err != nil {
		ws.log.WarnObj("response cache write failed", "error", err)
	}
}

// validatable lets a target type enforce required fields after unmarshal.
type validatable interface {
	Validate() error
}

func decodeBody[T any](body []byte) (T, error) {
	var out T
	if err := json.Unmarshal(body, &out); err != nil {
		var zero T
		return zero, &DecodeError{cause: err}
	}
	if err := validateDecoded(&out); err != nil {
		var zero T
		return zero, &DecodeError{cause: err}
	}
	return out, nil
}

func validateDecoded(target any) error {
	v, ok := target.(validatable)
	if !ok {
		return nil
	}
	return v.Validate()
}
