package ocspfetch

import (
	"crypto/rand"
	"crypto/x509/pkix"
	"encoding/asn1"
	"fmt"
	"io"
)

// NonceLength is the size of generated request nonces. RFC 8954
// permits 1 to 32 octets; 16 matches common client practice.
const NonceLength = 16

// Request is a wire-encodable OCSP request for a single certificate.
//
// Body is the encoding sent over the wire. CacheBody is the encoding of
// the nonce-free variant of the same request and is what cache keys are
// derived from, so that a cached response is found again regardless of
// the random nonce in the wire form. When the request carries no nonce
// the two encodings are identical.
type Request struct {
	CertID *CertID

	// Nonce is the generated anti-replay value, nil when the request
	// was built without one.
	Nonce []byte

	Body      []byte
	CacheBody []byte
}

// CreateRequest builds a Request for the given CertID. The nonce-free
// encoding is always produced; when useNonce is true the wire encoding
// additionally carries a fresh nonce in the non-critical
// id-pkix-ocsp-nonce request extension. Every call generates a new
// nonce; requests are never reused across calls.
func CreateRequest(certID *CertID, useNonce bool) (*Request, error) {
	if certID == nil {
		return nil, NewInvalidArgumentError("certID must not be nil")
	}

	plain, err := marshalRequest(certID, nil)
	if err != nil {
		return nil, err
	}

	req := &Request{CertID: certID, Body: plain, CacheBody: plain}
	if !useNonce {
		return req, nil
	}

	nonce := make([]byte, NonceLength)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}
	withNonce, err := marshalRequest(certID, nonce)
	if err != nil {
		return nil, err
	}

	req.Nonce = nonce
	req.Body = withNonce
	return req, nil
}

func marshalRequest(certID *CertID, nonce []byte) ([]byte, error) {
	tbs := tbsRequestASN1{
		RequestList: []singleRequestASN1{{
			ReqCert: certIDASN1{
				HashAlgorithm: pkix.AlgorithmIdentifier{
					Algorithm:  certID.HashAlgorithm.oid(),
					Parameters: asn1NullParams,
				},
				IssuerNameHash: certID.IssuerNameHash,
				IssuerKeyHash:  certID.IssuerKeyHash,
				SerialNumber:   certID.SerialNumber,
			},
		}},
	}
	if nonce != nil {
		ext, err := nonceExtension(nonce)
		if err != nil {
			return nil, err
		}
		tbs.RequestExtensions = []pkix.Extension{ext}
	}

	der, err := asn1.Marshal(ocspRequestASN1{TBSRequest: tbs})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal OCSP request: %w", err)
	}
	return der, nil
}

// ParseRequest decodes a DER-encoded OCSP request, recovering the
// CertID and the nonce if one is present. Used for round-trip checks
// and by test responders that echo nonces.
func ParseRequest(der []byte) (*Request, error) {
	var req ocspRequestASN1
	rest, err := asn1.Unmarshal(der, &req)
	if err != nil {
		return nil, fmt.Errorf("failed to parse OCSP request: %w", err)
	}
	if len(rest) > 0 {
		return nil, fmt.Errorf("failed to parse OCSP request: trailing data")
	}
	if len(req.TBSRequest.RequestList) != 1 {
		return nil, fmt.Errorf("OCSP request contains %d requests, expected 1", len(req.TBSRequest.RequestList))
	}

	raw := req.TBSRequest.RequestList[0].ReqCert
	var algo DigestAlgorithm
	switch {
	case raw.HashAlgorithm.Algorithm.Equal(oidSHA1):
		algo = DigestSHA1
	case raw.HashAlgorithm.Algorithm.Equal(oidSHA256):
		algo = DigestSHA256
	default:
		return nil, fmt.Errorf("OCSP request uses unsupported hash algorithm %v", raw.HashAlgorithm.Algorithm)
	}

	return &Request{
		CertID: &CertID{
			HashAlgorithm:  algo,
			IssuerNameHash: raw.IssuerNameHash,
			IssuerKeyHash:  raw.IssuerKeyHash,
			SerialNumber:   raw.SerialNumber,
		},
		Nonce: nonceFromExtensions(req.TBSRequest.RequestExtensions),
		Body:  der,
	}, nil
}
