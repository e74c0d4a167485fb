package webservice

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Endpoint describes a named GET target: a base URL plus default query
// parameters and header fields applied to every request against it.
type Endpoint struct {
	ID      string           `json:"id" yaml:"id"`
	Name    string           `json:"name" yaml:"name"`
	BaseURL string           `json:"base_url" yaml:"base_url"`
	Query   []EndpointQuery  `json:"query" yaml:"query"`
	Headers []EndpointHeader `json:"headers" yaml:"headers"`

	// SecretHeader/SecretKey name an optional header whose value is read
	// from the local secrets file at request time. The request is sent
	// without the header when the secret is absent.
	SecretHeader string `json:"secret_header" yaml:"secret_header"`
	SecretKey    string `json:"secret_key" yaml:"secret_key"`
}

// EndpointQuery is one configured query parameter.
type EndpointQuery struct {
	Key   string `json:"key" yaml:"key"`
	Value string `json:"value" yaml:"value"`
}

// EndpointHeader is one configured request header.
type EndpointHeader struct {
	Name  string `json:"name" yaml:"name"`
	Value string `json:"value" yaml:"value"`
}

// QueryParameters converts the configured query entries, preserving order.
func (e Endpoint) QueryParameters() []QueryParameter {
	if len(e.Query) == 0 {
		return nil
	}
	params := make([]QueryParameter, 0, len(e.Query))
	for _, q := range e.Query {
		params = append(params, QueryParameter{Key: q.Key, Value: q.Value})
	}
	return params
}

// HeaderFields converts the configured header entries, preserving order.
func (e Endpoint) HeaderFields() []HeaderField {
	if len(e.Headers) == 0 {
		return nil
	}
	fields := make([]HeaderField, 0, len(e.Headers))
	for _, h := range e.Headers {
		fields = append(fields, HeaderField{Name: h.Name, Value: h.Value})
	}
	return fields
}

// Registry holds the loaded endpoint definitions.
type Registry struct {
	endpoints []Endpoint
	index     map[string]Endpoint
}

type registryFile struct {
	Endpoints []Endpoint `json:"endpoints" yaml:"endpoints"`
}

// LoadRegistry reads an endpoint registry from a YAML or JSON file.
func LoadRegistry(path string) (*Registry, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("endpoints file path is empty")
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read endpoints file: %w", err)
	}

	parsed, err := parseRegistry(raw, filepath.Ext(path))
	if err != nil {
		return nil, err
	}
	if len(parsed.Endpoints) == 0 {
		return nil, errors.New("endpoints file contains no endpoint entries")
	}

	reg := &Registry{
		endpoints: make([]Endpoint, 0, len(parsed.Endpoints)),
		index:     make(map[string]Endpoint, len(parsed.Endpoints)),
	}
	for i, ep := range parsed.Endpoints {
		ep = sanitizeEndpoint(ep)
		if err := validateEndpoint(ep); err != nil {
			return nil, fmt.Errorf("endpoint[%d]: %w", i, err)
		}
		if _, exists := reg.index[ep.ID]; exists {
			return nil, fmt.Errorf("duplicate endpoint id %q", ep.ID)
		}
		reg.endpoints = append(reg.endpoints, ep)
		reg.index[ep.ID] = ep
	}

	return reg, nil
}

func parseRegistry(data []byte, ext string) (registryFile, error) {
	ext = strings.ToLower(strings.TrimSpace(ext))

	decoders := []struct {
		name string
		ext  string
		fn   func([]byte, any) error
	}{
		{name: "yaml", ext: ".yaml", fn: yaml.Unmarshal},
		{name: "yaml", ext: ".yml", fn: yaml.Unmarshal},
		{name: "json", ext: ".json", fn: json.Unmarshal},
	}

	for _, d := range decoders {
		if ext != "" && ext != d.ext {
			continue
		}
		var parsed registryFile
		if err := d.fn(data, &parsed); err == nil {
			return parsed, nil
		}
	}

	return registryFile{}, errors.New("endpoints file format not recognized (expected YAML or JSON)")
}

func sanitizeEndpoint(ep Endpoint) Endpoint {
	ep.ID = strings.TrimSpace(ep.ID)
	ep.Name = strings.TrimSpace(ep.Name)
	ep.BaseURL = strings.TrimSpace(ep.BaseURL)
	ep.SecretHeader = strings.TrimSpace(ep.SecretHeader)
	ep.SecretKey = strings.TrimSpace(ep.SecretKey)
	return ep
}

func validateEndpoint(ep Endpoint) error {
	if ep.ID == "" {
		return errors.New("id is required")
	}
	if ep.BaseURL == "" {
		return fmt.Errorf("base_url is required for endpoint %q", ep.ID)
	}
	if (ep.SecretHeader == "") != (ep.SecretKey == "") {
		return fmt.Errorf("endpoint %q must set secret_header and secret_key together", ep.ID)
	}
	return nil
}

// All returns a copy of the loaded endpoints in file order.
func (r *Registry) All() []Endpoint {
	if r == nil || len(r.endpoints) == 0 {
		return nil
	}
	out := make([]Endpoint, len(r.endpoints))
	copy(out, r.endpoints)
	return out
}

// ByID returns the endpoint entry for the given id, if loaded.
func (r *Registry) ByID(id string) (Endpoint, bool) {
	id = strings.TrimSpace(id)
	if r == nil || id == "" {
		return Endpoint{}, false
	}
	ep, ok := r.index[id]
	return ep, ok
}
