package config

import (
	"fmt"
	"net/url"
	"strings"
)

// Validate performs rule validation on the loaded configuration.
// Load calls it automatically.
func (c *Config) Validate() error {
	if err := c.API.validate(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	if c.UI.PageSize <= 0 {
		return fmt.Errorf("ui.page_size must be > 0 (got %d)", c.UI.PageSize)
	}
	if c.UI.TopWords < 0 {
		return fmt.Errorf("ui.top_words must be >= 0 (got %d)", c.UI.TopWords)
	}
	if c.Log.MaxSizeMB < 0 || c.Log.MaxBackups < 0 || c.Log.MaxAgeDays < 0 {
		return fmt.Errorf("log rotation limits must be >= 0")
	}
	return nil
}

func (a *APIConfig) validate() error {
	u, err := url.Parse(a.BaseURL)
	if err != nil {
		return fmt.Errorf("base_url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("base_url must be an http or https URL (got %q)", a.BaseURL)
	}
	if u.Host == "" {
		return fmt.Errorf("base_url must include a host (got %q)", a.BaseURL)
	}
	a.BaseURL = strings.TrimRight(a.BaseURL, "/")

	if strings.TrimSpace(a.IdentityHeader) == "" {
		return fmt.Errorf("identity_header must not be empty")
	}
	return nil
}
