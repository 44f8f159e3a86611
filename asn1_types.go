// Package ocspfetch retrieves OCSP responses for certificates.
// This file contains the ASN.1 structure definitions for the OCSP wire
// protocol (RFC 6960). golang.org/x/crypto/ocsp covers most of the
// protocol but can neither attach request extensions nor expose
// response-level extensions, and the nonce (RFC 8954) lives in both, so
// the structures are defined here.
package ocspfetch

import (
	"crypto/x509/pkix"
	"encoding/asn1"
	"math/big"
	"time"
)

// Protocol OIDs
var (
	// OIDNonce is id-pkix-ocsp-nonce, the request/response nonce
	// extension (RFC 8954).
	OIDNonce = asn1.ObjectIdentifier{1, 3, 6, 1, 5, 5, 7, 48, 1, 2}

	// OIDBasicResponse is id-pkix-ocsp-basic, the only response type
	// in common use.
	OIDBasicResponse = asn1.ObjectIdentifier{1, 3, 6, 1, 5, 5, 7, 48, 1, 1}

	oidSHA1   = asn1.ObjectIdentifier{1, 3, 14, 3, 2, 26}
	oidSHA256 = asn1.ObjectIdentifier{2, 16, 840, 1, 101, 3, 4, 2, 1}
)

// asn1NullParams is the encoded NULL used as digest algorithm
// parameters, matching what deployed responders emit.
var asn1NullParams = asn1.RawValue{Tag: asn1.TagNull}

// certIDASN1 is CertID (RFC 6960, 4.1.1).
type certIDASN1 struct {
	HashAlgorithm  pkix.AlgorithmIdentifier
	IssuerNameHash []byte
	IssuerKeyHash  []byte
	SerialNumber   *big.Int
}

// singleRequestASN1 is Request inside TBSRequest.requestList. Single
// request extensions are never emitted by this package.
type singleRequestASN1 struct {
	ReqCert certIDASN1
}

// tbsRequestASN1 is TBSRequest. Version is DEFAULT v1 and omitted;
// requestorName is never emitted.
type tbsRequestASN1 struct {
	RequestList       []singleRequestASN1
	RequestExtensions []pkix.Extension `asn1:"explicit,tag:2,optional"`
}

// ocspRequestASN1 is OCSPRequest. The optional signature is never
// emitted.
type ocspRequestASN1 struct {
	TBSRequest tbsRequestASN1
}

// ocspResponseASN1 is the outer OCSPResponse.
type ocspResponseASN1 struct {
	Status        asn1.Enumerated
	ResponseBytes responseBytesASN1 `asn1:"explicit,tag:0,optional"`
}

// responseBytesASN1 is ResponseBytes; Response holds the DER encoding
// of a BasicOCSPResponse when ResponseType is id-pkix-ocsp-basic.
type responseBytesASN1 struct {
	ResponseType asn1.ObjectIdentifier
	Response     []byte
}

// basicResponseASN1 is BasicOCSPResponse. Certificates are kept raw;
// signature verification is the caller's concern.
type basicResponseASN1 struct {
	TBSResponseData    responseDataASN1
	SignatureAlgorithm pkix.AlgorithmIdentifier
	Signature          asn1.BitString
	Certificates       []asn1.RawValue `asn1:"explicit,tag:0,optional"`
}

// responseDataASN1 is ResponseData. The responderID CHOICE and the
// per-certificate SingleResponse entries stay raw: this package only
// needs responseExtensions, where the echoed nonce lives.
type responseDataASN1 struct {
	Raw                asn1.RawContent
	Version            int `asn1:"optional,default:0,explicit,tag:0"`
	RawResponderID     asn1.RawValue
	ProducedAt         time.Time `asn1:"generalized"`
	Responses          []asn1.RawValue
	ResponseExtensions []pkix.Extension `asn1:"explicit,tag:1,optional"`
}

// nonceExtension builds the non-critical nonce request extension. The
// extension value is the DER OCTET STRING encoding of the nonce bytes
// (itself wrapped in the extnValue OCTET STRING during marshaling).
func nonceExtension(nonce []byte) (pkix.Extension, error) {
	inner, err := asn1.Marshal(nonce)
	if err != nil {
		return pkix.Extension{}, err
	}
	return pkix.Extension{Id: OIDNonce, Critical: false, Value: inner}, nil
}

// nonceFromExtensions extracts the nonce value from an extension list,
// or nil when absent. A nonce encoded without the inner OCTET STRING
// wrapping, which some responders emit, is returned as-is.
func nonceFromExtensions(exts []pkix.Extension) []byte {
	for _, ext := range exts {
		if !ext.Id.Equal(OIDNonce) {
			continue
		}
		var value []byte
		if rest, err := asn1.Unmarshal(ext.Value, &value); err == nil && len(rest) == 0 {
			return value
		}
		return ext.Value
	}
	return nil
}
