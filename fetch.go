// Package ocspfetch retrieves OCSP responses for certificates over HTTP
// POST, with response caching, nonce-based replay protection, and
// fallback across the responder URLs a certificate declares.
package ocspfetch

import (
	"bytes"
	"context"
	"crypto/x509"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Config configures a Client.
type Config struct {
	// Timeout bounds each network exchange with a responder.
	// Default: 10 seconds.
	Timeout time.Duration

	// MaxResponseSize limits how much of a responder's body is read.
	// Default: 1 MB.
	MaxResponseSize int64

	// UserAgent is sent with every request. Default: "ocspfetch <version>".
	UserAgent string

	// CacheTTL is the expiry used when no Cache is injected and the
	// client falls back to its own in-memory store. Default: 1 hour.
	CacheTTL time.Duration

	// Cache stores responses keyed by the nonce-free request encoding.
	// If nil, a MemoryCache with CacheTTL is used.
	Cache Cache

	// HTTPClient performs the exchanges. If nil, a pooled client from
	// NewHTTPClient defaults is used. Supply a custom client for proxy
	// or TLS configuration.
	HTTPClient *http.Client
}

// DefaultConfig returns the default client configuration.
func DefaultConfig() *Config {
	return &Config{
		Timeout:         10 * time.Second,
		MaxResponseSize: 1024 * 1024,
		UserAgent:       DefaultUserAgent(),
		CacheTTL:        1 * time.Hour,
	}
}

// Client fetches OCSP responses. The cache and HTTP client are explicit
// dependencies; a Client holds no other mutable state, so it is safe
// for concurrent use whenever those two are.
type Client struct {
	config *Config
	client *http.Client
	cache  Cache
}

// NewClient creates a Client. A nil config selects DefaultConfig.
func NewClient(config *Config) *Client {
	if config == nil {
		config = DefaultConfig()
	}
	if config.Timeout <= 0 {
		config.Timeout = 10 * time.Second
	}
	if config.MaxResponseSize <= 0 {
		config.MaxResponseSize = 1024 * 1024
	}
	if config.UserAgent == "" {
		config.UserAgent = DefaultUserAgent()
	}

	client := config.HTTPClient
	if client == nil {
		// No overall client timeout: each exchange is bounded by its
		// own context deadline, which the per-call timeout controls.
		client, _ = NewHTTPClient(&HTTPClientConfig{DialTimeout: config.Timeout})
	}
	cache := config.Cache
	if cache == nil {
		ttl := config.CacheTTL
		if ttl == 0 {
			ttl = 1 * time.Hour
		}
		cache = NewMemoryCache(ttl)
	}

	return &Client{config: config, client: client, cache: cache}
}

// FetchOptions are the per-call knobs of Fetch. The zero value selects
// SHA-1 hashing, nonce use, the client's User-Agent, and the client's
// timeout, mirroring the defaults of the protocol in the wild.
type FetchOptions struct {
	// HashAlgorithm fingerprints the issuer name and key in the
	// request. Default: DigestSHA1.
	HashAlgorithm DigestAlgorithm

	// DisableNonce turns off the anti-replay nonce extension. The
	// nonce is on by default.
	DisableNonce bool

	// UserAgent overrides the client's User-Agent for this call.
	UserAgent string

	// Timeout overrides the client's per-exchange timeout.
	Timeout time.Duration

	// Endpoints overrides the responder URLs taken from the
	// certificate. Order is preserved.
	Endpoints []string
}

// Fetch retrieves an OCSP response for cert, issued by issuer.
//
// The certificate's responder URLs are tried in their declared order.
// For each URL the cache is consulted first, under a key derived from
// the nonce-free request encoding; a hit is returned immediately with
// no nonce verification, since it was verified when first fetched. On a
// miss the request is POSTed, the response decoded and stored under the
// same nonce-independent key, and the echoed nonce checked against the
// sent one. A nonce mismatch, like any transport failure, is remembered
// and the next URL tried. When every URL has failed the most recent
// error is returned; a certificate with no URLs fails with
// ErrNoOCSPServers.
//
// Each URL is attempted exactly once per call.
func (c *Client) Fetch(ctx context.Context, cert, issuer *x509.Certificate, opts *FetchOptions) (*Response, error) {
	if opts == nil {
		opts = &FetchOptions{}
	}

	// Argument checks happen before any network or cache I/O.
	certID, err := BuildCertID(cert, issuer, opts.HashAlgorithm)
	if err != nil {
		return nil, err
	}
	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = c.config.UserAgent
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = c.config.Timeout
	}
	endpoints := opts.Endpoints
	if endpoints == nil {
		endpoints = cert.OCSPServer
	}

	req, err := CreateRequest(certID, !opts.DisableNonce)
	if err != nil {
		return nil, err
	}

	var lastErr error
	for _, endpoint := range endpoints {
		resp, err := c.fetchOne(ctx, endpoint, req, userAgent, timeout)
		if err != nil {
			lastErr = err
			continue
		}
		return resp, nil
	}

	if lastErr == nil {
		return nil, ErrNoOCSPServers
	}
	return nil, lastErr
}

// fetchOne tries a single responder URL: cache first, then the wire.
func (c *Client) fetchOne(ctx context.Context, endpoint string, req *Request, userAgent string, timeout time.Duration) (*Response, error) {
	key := CacheKey(http.MethodPost, endpoint, req)

	if data, ok := c.cache.Get(key); ok {
		// Cached responses skip nonce verification: they were checked
		// against their own request when first fetched.
		resp, err := ParseResponse(data)
		if err != nil {
			return nil, NewTransportError(endpoint, fmt.Errorf("cached payload: %w", err))
		}
		return resp, nil
	}

	body, err := c.exchange(ctx, endpoint, req.Body, userAgent, timeout)
	if err != nil {
		return nil, NewTransportError(endpoint, err)
	}

	resp, err := ParseResponse(body)
	if err != nil {
		return nil, NewTransportError(endpoint, err)
	}

	// Store before nonce verification, under the nonce-free key: the
	// payload itself is valid and a later call with a fresh nonce must
	// still hit it.
	c.cache.Put(req, key, body)

	if req.Nonce != nil && resp.Nonce != nil && !bytes.Equal(req.Nonce, resp.Nonce) {
		return nil, NewOCSPValidationError("unable to verify OCSP response since the request and response nonces do not match")
	}
	return resp, nil
}

func (c *Client) exchange(ctx context.Context, endpoint string, body []byte, userAgent string, timeout time.Duration) ([]byte, error) {
	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(reqCtx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	httpReq.Header.Set("Accept", "application/ocsp-response")
	httpReq.Header.Set("Content-Type", "application/ocsp-request")
	httpReq.Header.Set("User-Agent", userAgent)

	httpResp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: HTTP %d", ErrFetchFailed, httpResp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(httpResp.Body, c.config.MaxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	return data, nil
}
