package ratelimit

import (
	"strings"
)

// MatchEndpoint resolves the rate limit configuration for a request. Exact
// path+method matches win over prefix matches; a config path ending in "/"
// matches everything beneath it (so "/runs/" covers "/runs/{id}/resume").
// Returns nil when no config applies.
func MatchEndpoint(path string, method string, configs []EndpointConfig) *EndpointConfig {
	// Health checks are never limited.
	if path == "/health" && method == "GET" {
		return &EndpointConfig{}
	}

	for i := range configs {
		if configs[i].Path == path && configs[i].Method == method {
			return &configs[i]
		}
	}

	for i := range configs {
		config := &configs[i]
		if config.Method != method || !strings.HasSuffix(config.Path, "/") {
			continue
		}
		if strings.HasPrefix(path, config.Path) {
			return config
		}
	}

	return nil
}
