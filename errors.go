// Package ocspfetch retrieves OCSP responses for certificates.
// This file contains the error types reported by the package.
package ocspfetch

import (
	"errors"
	"fmt"
)

// Common errors
var (
	// ErrNoOCSPServers is returned when the certificate declares no
	// OCSP responder URLs, so there is nothing to query.
	ErrNoOCSPServers = errors.New("certificate lists no OCSP servers")

	// ErrFetchFailed wraps transport-level failures.
	ErrFetchFailed = errors.New("OCSP fetch failed")
)

// InvalidArgumentError indicates a malformed or out-of-domain input.
// It is always detected before any network or cache I/O.
type InvalidArgumentError struct {
	Message string
}

func (e *InvalidArgumentError) Error() string {
	return e.Message
}

// NewInvalidArgumentError creates a new InvalidArgumentError.
func NewInvalidArgumentError(format string, args ...any) *InvalidArgumentError {
	return &InvalidArgumentError{Message: fmt.Sprintf(format, args...)}
}

// TransportError indicates a connection, timeout, HTTP, or payload
// failure against a single responder URL. The orchestrator records it
// and moves on to the next URL.
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// NewTransportError creates a new TransportError.
func NewTransportError(url string, err error) *TransportError {
	return &TransportError{URL: url, Err: err}
}

// OCSPValidationError indicates that a freshly fetched response failed
// verification against the request that produced it.
type OCSPValidationError struct {
	Message string
}

func (e *OCSPValidationError) Error() string {
	return e.Message
}

// NewOCSPValidationError creates a new OCSPValidationError.
func NewOCSPValidationError(message string) *OCSPValidationError {
	return &OCSPValidationError{Message: message}
}
