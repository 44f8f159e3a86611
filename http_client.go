package ocspfetch

import (
	"crypto/tls"
	"net"
	"net/http"
	"net/url"
	"time"
)

// HTTPClientConfig configures the HTTP client used to talk to
// responders. Most deployments can ignore it; it exists for proxies,
// custom trust roots, and connection tuning.
type HTTPClientConfig struct {
	// Timeout is the overall request timeout. Default: 10 seconds.
	Timeout time.Duration

	// ProxyURL routes requests through an HTTP proxy. Empty means the
	// environment's proxy settings apply.
	ProxyURL string

	// TLSConfig replaces the default TLS configuration entirely.
	TLSConfig *tls.Config

	// MinTLSVersion is applied when TLSConfig is nil. Default: TLS 1.2.
	MinTLSVersion uint16

	// InsecureSkipVerify disables certificate verification when
	// TLSConfig is nil. Testing only.
	InsecureSkipVerify bool

	// MaxIdleConnsPerHost bounds idle keep-alive connections per
	// responder. Default: 10.
	MaxIdleConnsPerHost int

	// DialTimeout bounds connection establishment. Default: equal to
	// Timeout.
	DialTimeout time.Duration
}

// DefaultHTTPClientConfig returns a secure default configuration.
func DefaultHTTPClientConfig() *HTTPClientConfig {
	return &HTTPClientConfig{
		Timeout:             10 * time.Second,
		MinTLSVersion:       tls.VersionTLS12,
		MaxIdleConnsPerHost: 10,
	}
}

// NewHTTPClient creates an HTTP client from the configuration.
func NewHTTPClient(config *HTTPClientConfig) (*http.Client, error) {
	if config == nil {
		config = DefaultHTTPClientConfig()
	}

	tlsConfig := config.TLSConfig
	if tlsConfig == nil {
		minVersion := config.MinTLSVersion
		if minVersion == 0 {
			minVersion = tls.VersionTLS12
		}
		tlsConfig = &tls.Config{
			MinVersion:         minVersion,
			InsecureSkipVerify: config.InsecureSkipVerify,
		}
	}

	dialTimeout := config.DialTimeout
	if dialTimeout == 0 {
		dialTimeout = config.Timeout
	}
	dialer := &net.Dialer{
		Timeout:   dialTimeout,
		KeepAlive: 30 * time.Second,
	}

	maxIdlePerHost := config.MaxIdleConnsPerHost
	if maxIdlePerHost == 0 {
		maxIdlePerHost = 10
	}
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		TLSClientConfig:       tlsConfig,
		MaxIdleConnsPerHost:   maxIdlePerHost,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	if config.ProxyURL != "" {
		proxyURL, err := url.Parse(config.ProxyURL)
		if err != nil {
			return nil, err
		}
		transport.Proxy = http.ProxyURL(proxyURL)
	}

	return &http.Client{
		Transport: transport,
		Timeout:   config.Timeout,
	}, nil
}

// NewSecureHTTPClient creates an HTTP client with the default secure
// settings and the given timeout.
func NewSecureHTTPClient(timeout time.Duration) *http.Client {
	config := DefaultHTTPClientConfig()
	config.Timeout = timeout

	client, _ := NewHTTPClient(config)
	return client
}
