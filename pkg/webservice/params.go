package webservice

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/inevs/webservice/pkg/httpclient"
)

// HeaderField aliases the shared httpclient.HeaderField for clarity at the
// call site.
type HeaderField = httpclient.HeaderField

// QueryParameter is one URL query component. Order is preserved when the
// query string is built, since it affects the resulting URL.
type QueryParameter struct {
	Key   string
	Value string
}

// buildRequestURL appends the encoded query parameters to base and
// validates the result. An empty parameter list leaves base untouched.
func buildRequestURL(base string, params []QueryParameter) (string, error) {
	raw := base + encodeQuery(params)
	if _, err := url.ParseRequestURI(raw); err != nil {
		return "", fmt.Errorf("invalid request url %q: %w", raw, err)
	}
	return raw, nil
}

// encodeQuery joins key=value pairs with & in the given order, prefixed
// with ?. Reserved characters are always percent-encoded.
func encodeQuery(params []QueryParameter) string {
	if len(params) == 0 {
		return ""
	}

	var sb strings.Builder
	for i, p := range params {
		if i == 0 {
			sb.WriteByte('?')
		} else {
			sb.WriteByte('&')
		}
		sb.WriteString(url.QueryEscape(p.Key))
		sb.WriteByte('=')
		sb.WriteString(url.QueryEscape(p.Value))
	}
	return sb.String()
}
