package ratelimit

import (
	"net/http"
	"strings"
)

// MatchEndpoint returns the endpoint configuration for a request, or nil when
// the default bucket applies. Exact paths win over prefixes. The health check
// is never limited and matches a zero-rate config.
func MatchEndpoint(path string, method string, configs []EndpointConfig) *EndpointConfig {
	if path == "/health" && method == http.MethodGet {
		return &EndpointConfig{}
	}

	for i := range configs {
		c := &configs[i]
		if c.Path == path && c.Method == method {
			return c
		}
	}
	for i := range configs {
		c := &configs[i]
		if c.Method == method && strings.HasSuffix(c.Path, "/") && strings.HasPrefix(path, c.Path) {
			return c
		}
	}
	return nil
}
