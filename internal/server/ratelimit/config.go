package ratelimit

import (
	"time"
)

// EndpointConfig overrides the default bucket for one route.
type EndpointConfig struct {
	Path   string  // exact path, or a prefix when it ends with "/"
	Method string  // HTTP method
	Rate   float64 // tokens per second
	Burst  int     // bucket capacity
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled         bool
	Rate            float64
	Burst           int
	CleanupInterval time.Duration
	IdleTTL         time.Duration
	EndpointConfigs []EndpointConfig
}

// NewConfig builds a config from the per-client request rate and burst. Batch
// scoring and version writes get a fraction of the default budget.
func NewConfig(perSecond float64, burst int) *Config {
	return &Config{
		Enabled:         perSecond > 0,
		Rate:            perSecond,
		Burst:           max(burst, 1),
		CleanupInterval: 5 * time.Minute,
		IdleTTL:         time.Hour,
		EndpointConfigs: DefaultEndpointConfigs(perSecond, burst),
	}
}

// DefaultEndpointConfigs returns the stricter buckets for expensive routes.
func DefaultEndpointConfigs(perSecond float64, burst int) []EndpointConfig {
	return []EndpointConfig{
		{Path: "/v1/score/batch", Method: "POST", Rate: perSecond / 10, Burst: max(burst/10, 1)},
		{Path: "/v1/versions", Method: "POST", Rate: perSecond / 2, Burst: max(burst/2, 1)},
		{Path: "/v1/versions/", Method: "POST", Rate: perSecond / 2, Burst: max(burst/2, 1)},
	}
}
