package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/inevs/webservice/internal/cache"
	"github.com/inevs/webservice/internal/config"
	"github.com/inevs/webservice/internal/logger"
	"github.com/inevs/webservice/internal/secrets"
	"github.com/inevs/webservice/pkg/httpclient"
	"github.com/inevs/webservice/pkg/webservice"
)

// Webget wires together the endpoint registry, response cache, and request
// executor, and fetches configured endpoints.
type Webget struct {
	cfg      *config.Config
	registry *webservice.Registry
	cache    cache.ResponseCache
	ws       *webservice.Webservice
	log      logger.Logger
}

// NewWebget builds a webget runtime from config files.
func NewWebget(cfg *config.Config, log logger.Logger) (*Webget, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = &logger.NopLogger{}
	}

	registry, err := webservice.LoadRegistry(cfg.EndpointsFile)
	if err != nil {
		return nil, fmt.Errorf("load endpoints registry: %w", err)
	}
	log.InfoObj("endpoints registry loaded", "endpoints", registry.All())

	respCache, err := cache.NewCache(cfg.CacheType, cfg.CachePath, cache.Options{
		MaxEntryTTL:     cfg.CacheMaxTTL,
		CleanupInterval: cfg.CacheCleanupInterval,
	})
	if err != nil {
		return nil, fmt.Errorf("open response cache: %w", err)
	}

	ws := webservice.New(
		webservice.WithClient(httpclient.NewRestyClient(cfg.RequestTimeout)),
		webservice.WithCache(respCache),
		webservice.WithLogger(log),
	)

	return &Webget{
		cfg:      cfg,
		registry: registry,
		cache:    respCache,
		ws:       ws,
		log:      log,
	}, nil
}

// Close releases the response cache.
func (a *Webget) Close() error {
	if a == nil || a.cache == nil {
		return nil
	}
	return a.cache.Close()
}

// Run fetches the endpoints named by ids, or every configured endpoint
// when ids is empty, and prints each decoded body to stdout. The first
// failure is reported after all endpoints have been attempted.
func (a *Webget) Run(ctx context.Context, ids []string) error {
	if a == nil || a.ws == nil {
		return fmt.Errorf("webget is not initialized")
	}

	endpoints, err := a.resolveEndpoints(ids)
	if err != nil {
		return err
	}

	var firstErr error
	for _, ep := range endpoints {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := a.fetch(ctx, ep); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("endpoint %q: %w", ep.ID, err)
		}
	}
	return firstErr
}

func (a *Webget) resolveEndpoints(ids []string) ([]webservice.Endpoint, error) {
	if len(ids) == 0 {
		endpoints := a.registry.All()
		if len(endpoints) == 0 {
			return nil, fmt.Errorf("no endpoints configured in %s", a.cfg.EndpointsFile)
		}
		return endpoints, nil
	}

	endpoints := make([]webservice.Endpoint, 0, len(ids))
	for _, id := range ids {
		ep, ok := a.registry.ByID(id)
		if !ok {
			return nil, fmt.Errorf("unknown endpoint %q", id)
		}
		endpoints = append(endpoints, ep)
	}
	return endpoints, nil
}

// fetch loads one endpoint and prints the decoded body.
func (a *Webget) fetch(ctx context.Context, ep webservice.Endpoint) error {
	headers := ep.HeaderFields()
	if ep.SecretHeader != "" {
		if value, ok := secrets.Lookup(a.cfg.SecretsFile, ep.SecretKey); ok {
			headers = append(headers, webservice.HeaderField{Name: ep.SecretHeader, Value: value})
		} else {
			a.log.WarnObj("endpoint secret unavailable, sending without header", "endpoint", ep.ID)
		}
	}

	body, err := webservice.Load[json.RawMessage](ctx, a.ws, ep.BaseURL, ep.QueryParameters(), headers)
	if err != nil {
		a.reportFailure(ep, err)
		return err
	}

	var out bytes.Buffer
	if err := json.Indent(&out, body, "", "  "); err != nil {
		out.Reset()
		out.Write(body)
	}
	fmt.Fprintf(os.Stdout, "%s:\n%s\n", ep.ID, out.Bytes())
	return nil
}

func (a *Webget) reportFailure(ep webservice.Endpoint, err error) {
	var httpErr *webservice.HTTPError
	var decodeErr *webservice.DecodeError

	switch {
	case errors.As(err, &httpErr):
		a.log.ErrorObj("endpoint returned error status", "endpoint", map[string]any{
			"id": ep.ID, "status": httpErr.StatusCode,
		})
	case errors.As(err, &decodeErr):
		a.log.ErrorObj("endpoint body failed to decode", "endpoint", map[string]any{
			"id": ep.ID, "error": decodeErr.Error(),
		})
	default:
		a.log.ErrorObj("endpoint request failed", "endpoint", map[string]any{
			"id": ep.ID, "error": err.Error(),
		})
	}
}
