// Package config provides YAML configuration for the OCSP fetch client.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/georgepadayatti/ocspfetch"
)

// Common errors
var (
	ErrConfigurationError = errors.New("configuration error")
	ErrUnexpectedField    = errors.New("unexpected field in configuration")
)

// ConfigError represents a configuration error with field context.
type ConfigError struct {
	Field   string
	Message string
	Err     error
}

func (e *ConfigError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("config error in '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("config error: %s", e.Message)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new ConfigError.
func NewConfigError(field, message string) *ConfigError {
	return &ConfigError{Field: field, Message: message}
}

// ClientConfig is the YAML-facing configuration of an OCSP fetch
// client. All fields are optional; zero values select the library
// defaults.
type ClientConfig struct {
	// HashAlgorithm is "sha1" or "sha256".
	HashAlgorithm string `yaml:"hash-algorithm" json:"hash_algorithm,omitempty"`

	// DisableNonce turns off the anti-replay nonce extension.
	DisableNonce bool `yaml:"disable-nonce" json:"disable_nonce"`

	// UserAgent overrides the default User-Agent header.
	UserAgent string `yaml:"user-agent" json:"user_agent,omitempty"`

	// TimeoutSeconds bounds each responder exchange.
	TimeoutSeconds int `yaml:"timeout" json:"timeout,omitempty"`

	// CacheTTLSeconds is the in-memory cache expiry.
	CacheTTLSeconds int `yaml:"cache-ttl" json:"cache_ttl,omitempty"`

	// MaxResponseSize limits response body size in bytes.
	MaxResponseSize int64 `yaml:"max-response-size" json:"max_response_size,omitempty"`

	// Endpoints overrides the responder URLs declared in the
	// certificate.
	Endpoints []string `yaml:"endpoints" json:"endpoints,omitempty"`

	// ProxyURL routes responder traffic through an HTTP proxy.
	ProxyURL string `yaml:"proxy-url" json:"proxy_url,omitempty"`

	// InsecureSkipVerify disables TLS verification. Testing only.
	InsecureSkipVerify bool `yaml:"insecure-skip-verify" json:"insecure_skip_verify"`
}

// Load reads and validates a configuration file.
func Load(path string) (*ClientConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigurationError, err)
	}
	return Parse(data)
}

// Parse decodes and validates YAML configuration data. Unknown fields
// are rejected.
func Parse(data []byte) (*ClientConfig, error) {
	var config ClientConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&config); err != nil && err != io.EOF {
		return nil, fmt.Errorf("%w: %v", ErrUnexpectedField, err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// Validate checks field values without touching the network.
func (c *ClientConfig) Validate() error {
	if c.HashAlgorithm != "" {
		if _, err := ocspfetch.ParseDigestAlgorithm(c.HashAlgorithm); err != nil {
			return NewConfigError("hash-algorithm", fmt.Sprintf("must be \"sha1\" or \"sha256\", not %q", c.HashAlgorithm))
		}
	}
	if c.TimeoutSeconds < 0 {
		return NewConfigError("timeout", "must not be negative")
	}
	if c.CacheTTLSeconds < 0 {
		return NewConfigError("cache-ttl", "must not be negative")
	}
	if c.MaxResponseSize < 0 {
		return NewConfigError("max-response-size", "must not be negative")
	}
	return nil
}

// NewClient builds an ocspfetch.Client from the configuration.
func (c *ClientConfig) NewClient() (*ocspfetch.Client, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	cfg := ocspfetch.DefaultConfig()
	if c.UserAgent != "" {
		cfg.UserAgent = c.UserAgent
	}
	if c.TimeoutSeconds > 0 {
		cfg.Timeout = time.Duration(c.TimeoutSeconds) * time.Second
	}
	if c.CacheTTLSeconds > 0 {
		cfg.CacheTTL = time.Duration(c.CacheTTLSeconds) * time.Second
	}
	if c.MaxResponseSize > 0 {
		cfg.MaxResponseSize = c.MaxResponseSize
	}
	if c.ProxyURL != "" || c.InsecureSkipVerify {
		httpClient, err := ocspfetch.NewHTTPClient(&ocspfetch.HTTPClientConfig{
			ProxyURL:           c.ProxyURL,
			InsecureSkipVerify: c.InsecureSkipVerify,
			DialTimeout:        cfg.Timeout,
		})
		if err != nil {
			return nil, NewConfigError("proxy-url", err.Error())
		}
		cfg.HTTPClient = httpClient
	}

	return ocspfetch.NewClient(cfg), nil
}

// FetchOptions builds the per-call options from the configuration.
func (c *ClientConfig) FetchOptions() (*ocspfetch.FetchOptions, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	opts := &ocspfetch.FetchOptions{
		DisableNonce: c.DisableNonce,
		UserAgent:    c.UserAgent,
		Endpoints:    c.Endpoints,
	}
	if c.HashAlgorithm != "" {
		algo, err := ocspfetch.ParseDigestAlgorithm(c.HashAlgorithm)
		if err != nil {
			return nil, err
		}
		opts.HashAlgorithm = algo
	}
	if c.TimeoutSeconds > 0 {
		opts.Timeout = time.Duration(c.TimeoutSeconds) * time.Second
	}
	return opts, nil
}
