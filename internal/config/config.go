// Package config provides configuration loading and validation for the CLI
// and server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Config represents the agent configuration that can be loaded from a JSON
// file. All fields are optional; missing values use defaults or must be
// provided via CLI flags or environment variables.
type Config struct {
	// Data sources
	PlacesAPIKey    string `json:"places_api_key,omitempty"`    // Google Places API key
	GBPAccessToken  string `json:"gbp_access_token,omitempty"`  // Business Profile OAuth token
	GBPClientID     string `json:"gbp_client_id,omitempty"`     // OAuth client ID for token refresh
	GBPClientSecret string `json:"gbp_client_secret,omitempty"` // OAuth client secret
	GBPRefreshToken string `json:"gbp_refresh_token,omitempty"` // long-lived refresh token

	// Generation
	GeminiAPIKey string `json:"gemini_api_key,omitempty"` // Gemini API key

	// CRM
	CRMBaseURL string `json:"crm_base_url,omitempty"` // CRM API endpoint
	CRMAPIKey  string `json:"crm_api_key,omitempty"`  // CRM agency API key

	// Hosting
	SiteDomain string `json:"site_domain,omitempty"` // base domain sites publish under
	ListenAddr string `json:"listen_addr,omitempty"` // dashboard API bind address

	// Behavior
	UseBrowser  bool   `json:"use_browser,omitempty"`  // render JS-heavy sites with a headless browser
	Verbose     bool   `json:"verbose,omitempty"`      // print detailed progress
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// FromEnv builds a Config from environment variables. Values already set on
// the receiver are kept; the environment only fills gaps, so a config file
// merged first wins.
func (c *Config) FromEnv() {
	setIfEmpty(&c.PlacesAPIKey, "PLACES_API_KEY")
	setIfEmpty(&c.GBPAccessToken, "GBP_ACCESS_TOKEN")
	setIfEmpty(&c.GBPClientID, "GBP_CLIENT_ID")
	setIfEmpty(&c.GBPClientSecret, "GBP_CLIENT_SECRET")
	setIfEmpty(&c.GBPRefreshToken, "GBP_REFRESH_TOKEN")
	setIfEmpty(&c.GeminiAPIKey, "GEMINI_API_KEY")
	setIfEmpty(&c.CRMBaseURL, "CRM_BASE_URL")
	setIfEmpty(&c.CRMAPIKey, "CRM_API_KEY")
	setIfEmpty(&c.SiteDomain, "SITE_DOMAIN")
	setIfEmpty(&c.ListenAddr, "LISTEN_ADDR")
	setIfEmpty(&c.DatabaseURL, "DATABASE_URL")
}

func setIfEmpty(dst *string, key string) {
	if *dst == "" {
		*dst = os.Getenv(key)
	}
}

// Validate checks that the configuration has valid values.
// Note: This doesn't check for required fields since those depend on the
// command being run and are enforced after merging.
func (c *Config) Validate() error {
	if c.CRMAPIKey != "" && c.CRMBaseURL == "" {
		return fmt.Errorf("config error: 'crm_api_key' set without 'crm_base_url'")
	}

	if c.SiteDomain != "" && strings.Contains(c.SiteDomain, "://") {
		return fmt.Errorf("config error: 'site_domain' must be a bare domain, not a URL: %s", c.SiteDomain)
	}

	if c.ListenAddr != "" && !strings.Contains(c.ListenAddr, ":") {
		return fmt.Errorf("config error: 'listen_addr' must be host:port, got: %s", c.ListenAddr)
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty string fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.PlacesAPIKey == "" {
		result.PlacesAPIKey = defaults.PlacesAPIKey
	}
	if result.GBPAccessToken == "" {
		result.GBPAccessToken = defaults.GBPAccessToken
	}
	if result.GeminiAPIKey == "" {
		result.GeminiAPIKey = defaults.GeminiAPIKey
	}
	if result.CRMBaseURL == "" {
		result.CRMBaseURL = defaults.CRMBaseURL
	}
	if result.CRMAPIKey == "" {
		result.CRMAPIKey = defaults.CRMAPIKey
	}
	if result.SiteDomain == "" {
		result.SiteDomain = defaults.SiteDomain
	}
	if result.ListenAddr == "" {
		result.ListenAddr = defaults.ListenAddr
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

// SiteURL returns the public URL for a subdomain under the configured base
// domain, defaulting when none is set.
func (c *Config) SiteURL(subdomain string) string {
	domain := c.SiteDomain
	if domain == "" {
		domain = "example-sites.com"
	}
	return fmt.Sprintf("https://%s.%s", subdomain, domain)
}
