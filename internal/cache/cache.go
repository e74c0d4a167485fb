package cache

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// Package cache provides optional local response caching with HTTP
// cache-control freshness semantics.

// Entry is one cached response.
type Entry struct {
	StatusCode int
	Body       []byte
}

// ResponseCache stores responses keyed by request URL. Expired entries
// behave as misses.
type ResponseCache interface {
	Close() error
	Get(url string) (Entry, bool, error)
	Put(url string, entry Entry, ttl time.Duration) error
}

// Options controls retention characteristics for concrete cache implementations.
type Options struct {
	MaxEntryTTL     time.Duration
	CleanupInterval time.Duration
}

const (
	defaultMaxEntryTTL     = 24 * time.Hour
	defaultCleanupInterval = time.Hour
)

// NewCache creates the configured cache backend.
func NewCache(typ, path string, opts Options) (ResponseCache, error) {
	typ = strings.TrimSpace(strings.ToLower(typ))
	opts = normalizeOptions(opts)

	switch typ {
	case "", "none", "disabled":
		return noopCache{}, nil
	case "bbolt":
		if strings.TrimSpace(path) == "" {
			return nil, fmt.Errorf("bbolt cache requires a path")
		}
		return openBolt(path, opts)
	default:
		return nil, fmt.Errorf("unsupported cache type %q", typ)
	}
}

func normalizeOptions(opts Options) Options {
	if opts.MaxEntryTTL <= 0 {
		opts.MaxEntryTTL = defaultMaxEntryTTL
	}
	if opts.CleanupInterval <= 0 {
		opts.CleanupInterval = defaultCleanupInterval
	}
	return opts
}

type noopCache struct{}

func (noopCache) Close() error                           { return nil }
func (noopCache) Get(string) (Entry, bool, error)        { return Entry{}, false, nil }
func (noopCache) Put(string, Entry, time.Duration) error { return nil }

// FreshnessLifetime returns how long a response may be served from cache,
// derived from its Cache-Control and Age headers. Zero means do not cache.
func FreshnessLifetime(h http.Header) time.Duration {
	cc := h.Get("Cache-Control")
	if cc == "" {
		return 0
	}

	var maxAge time.Duration
	for _, directive := range strings.Split(cc, ",") {
		directive = strings.TrimSpace(strings.ToLower(directive))
		switch {
		case directive == "no-store", directive == "no-cache", directive == "private":
			return 0
		case strings.HasPrefix(directive, "max-age="):
			secs, err := strconv.Atoi(strings.TrimPrefix(directive, "max-age="))
			if err != nil || secs <= 0 {
				return 0
			}
			maxAge = time.Duration(secs) * time.Second
		}
	}
	if maxAge <= 0 {
		return 0
	}

	if age := strings.TrimSpace(h.Get("Age")); age != "" {
		if secs, err := strconv.Atoi(age); err == nil && secs > 0 {
			maxAge -= time.Duration(secs) * time.Second
		}
	}
	if maxAge <= 0 {
		return 0
	}
	return maxAge
}
