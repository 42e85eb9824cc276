// Package clientconfig holds the base URL the client talks to and the endpoints derived from it.
package clientconfig

import (
	"errors"
	"strings"
)

// ItemsPath is the items endpoint relative to the base URL.
const ItemsPath = "hiring.json"

// ErrMissingBaseURL is returned when a configuration is built without a base URL.
var ErrMissingBaseURL = errors.New("failed to read baseUrl: this field can not be empty")

// Configuration is an immutable snapshot. Derived endpoints always match BaseURL.
type Configuration struct {
	baseURL  string
	itemsURL string
}

// SanitizeBaseURL appends a trailing slash when missing and prepends https://
// when no http:// or https:// scheme is present. It is idempotent.
func SanitizeBaseURL(raw string) string {
	u := strings.TrimSpace(raw)
	if !strings.HasSuffix(u, "/") {
		u += "/"
	}
	if !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
		u = "https://" + u
	}
	return u
}

// New builds a configuration for raw. It fails when raw is blank.
func New(raw string) (Configuration, error) {
	if strings.TrimSpace(raw) == "" {
		return Configuration{}, ErrMissingBaseURL
	}
	base := SanitizeBaseURL(raw)
	return Configuration{baseURL: base, itemsURL: base + ItemsPath}, nil
}

// BaseURL returns the sanitized base URL.
func (c Configuration) BaseURL() string { return c.baseURL }

// ItemsURL returns the items endpoint.
func (c Configuration) ItemsURL() string { return c.itemsURL }

// IsZero reports whether c was never built.
func (c Configuration) IsZero() bool { return c.baseURL == "" }

// WithBaseURL returns a new snapshot pointing at raw; c is left untouched.
func (c Configuration) WithBaseURL(raw string) (Configuration, error) {
	return New(raw)
}

// Builder assembles a Configuration.
type Builder struct {
	baseURL string
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder { return &Builder{} }

// SetBaseURL records the raw base URL.
func (b *Builder) SetBaseURL(raw string) *Builder {
	b.baseURL = raw
	return b
}

// Create validates the builder and returns the configuration.
func (b *Builder) Create() (Configuration, error) {
	return New(b.baseURL)
}
