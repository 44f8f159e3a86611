package ocspfetch

import (
	"crypto/x509"
	"encoding/asn1"
	"fmt"
	"time"

	"golang.org/x/crypto/ocsp"
)

// ResponseStatus is the outer OCSPResponseStatus enumeration.
type ResponseStatus int

const (
	ResponseSuccessful    ResponseStatus = 0
	ResponseMalformed     ResponseStatus = 1
	ResponseInternalError ResponseStatus = 2
	ResponseTryLater      ResponseStatus = 3
	ResponseSigRequired   ResponseStatus = 5
	ResponseUnauthorized  ResponseStatus = 6
)

// String returns the RFC 6960 name of the status.
func (s ResponseStatus) String() string {
	switch s {
	case ResponseSuccessful:
		return "successful"
	case ResponseMalformed:
		return "malformedRequest"
	case ResponseInternalError:
		return "internalError"
	case ResponseTryLater:
		return "tryLater"
	case ResponseSigRequired:
		return "sigRequired"
	case ResponseUnauthorized:
		return "unauthorized"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// Response is a decoded OCSP response. The certificate status payload
// is kept opaque; this package only surfaces what the fetch flow needs,
// chiefly the echoed nonce. Callers own the value once returned.
type Response struct {
	// Raw is the full DER encoding as received (or as cached).
	Raw []byte

	// Status is the outer response status.
	Status ResponseStatus

	// Nonce is the nonce echoed in the response extensions, nil when
	// the responder did not echo one.
	Nonce []byte

	// ProducedAt is when the responder signed the response. Zero for
	// non-successful responses, which carry no basic response.
	ProducedAt time.Time

	basic *basicResponseASN1
}

// ParseResponse decodes a DER-encoded OCSP response. Only the outer
// structure and the response extensions are interpreted; signature and
// status checking are left to the caller (see Details).
func ParseResponse(der []byte) (*Response, error) {
	var outer ocspResponseASN1
	rest, err := asn1.Unmarshal(der, &outer)
	if err != nil {
		return nil, fmt.Errorf("failed to parse OCSP response: %w", err)
	}
	if len(rest) > 0 {
		return nil, fmt.Errorf("failed to parse OCSP response: trailing data")
	}

	resp := &Response{Raw: der, Status: ResponseStatus(outer.Status)}
	if len(outer.ResponseBytes.Response) == 0 {
		return resp, nil
	}
	if !outer.ResponseBytes.ResponseType.Equal(OIDBasicResponse) {
		return nil, fmt.Errorf("unsupported OCSP response type %v", outer.ResponseBytes.ResponseType)
	}

	var basic basicResponseASN1
	if rest, err := asn1.Unmarshal(outer.ResponseBytes.Response, &basic); err != nil {
		return nil, fmt.Errorf("failed to parse basic OCSP response: %w", err)
	} else if len(rest) > 0 {
		return nil, fmt.Errorf("failed to parse basic OCSP response: trailing data")
	}

	resp.basic = &basic
	resp.ProducedAt = basic.TBSResponseData.ProducedAt
	resp.Nonce = nonceFromExtensions(basic.TBSResponseData.ResponseExtensions)
	return resp, nil
}

// Details parses the embedded single certificate status using
// golang.org/x/crypto/ocsp, verifying the response signature against
// the issuer when one is supplied. The fetch flow never calls this;
// interpreting good/revoked/unknown is the caller's decision.
func (r *Response) Details(issuer *x509.Certificate) (*ocsp.Response, error) {
	if r.Status != ResponseSuccessful {
		return nil, fmt.Errorf("OCSP responder returned %s", r.Status)
	}
	return ocsp.ParseResponse(r.Raw, issuer)
}
