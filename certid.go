package ocspfetch

import (
	"crypto/sha1"
	"crypto/sha256"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/asn1"
	"fmt"
	"hash"
	"math/big"
)

// DigestAlgorithm selects the hash function used to fingerprint the
// issuer name and key in a CertID.
type DigestAlgorithm int

const (
	// DigestSHA1 is the default algorithm; despite its age it remains
	// what most deployed responders index their databases by (RFC 5019).
	DigestSHA1 DigestAlgorithm = iota
	DigestSHA256
)

// String returns the lowercase name of the algorithm.
func (a DigestAlgorithm) String() string {
	switch a {
	case DigestSHA1:
		return "sha1"
	case DigestSHA256:
		return "sha256"
	default:
		return fmt.Sprintf("unknown(%d)", int(a))
	}
}

// ParseDigestAlgorithm parses "sha1" or "sha256".
func ParseDigestAlgorithm(name string) (DigestAlgorithm, error) {
	switch name {
	case "sha1":
		return DigestSHA1, nil
	case "sha256":
		return DigestSHA256, nil
	default:
		return 0, NewInvalidArgumentError("hash algorithm must be one of \"sha1\", \"sha256\", not %q", name)
	}
}

func (a DigestAlgorithm) valid() bool {
	return a == DigestSHA1 || a == DigestSHA256
}

func (a DigestAlgorithm) newHash() hash.Hash {
	if a == DigestSHA256 {
		return sha256.New()
	}
	return sha1.New()
}

func (a DigestAlgorithm) oid() asn1.ObjectIdentifier {
	if a == DigestSHA256 {
		return oidSHA256
	}
	return oidSHA1
}

// CertID identifies the certificate whose revocation status is being
// queried: the digest algorithm, issuer name and key hashes computed
// with it, and the certificate serial number. It is independent of any
// nonce, which makes it usable as a cache key seed. Immutable once
// built.
type CertID struct {
	HashAlgorithm  DigestAlgorithm
	IssuerNameHash []byte
	IssuerKeyHash  []byte
	SerialNumber   *big.Int
}

// BuildCertID computes the CertID for cert, issued by issuer, using the
// given digest algorithm. The issuer name hash covers the DER encoding
// of the certificate's issuer distinguished name; the key hash covers
// the issuer's public key BIT STRING contents (RFC 6960, 4.1.1).
func BuildCertID(cert, issuer *x509.Certificate, algo DigestAlgorithm) (*CertID, error) {
	if cert == nil || len(cert.Raw) == 0 {
		return nil, NewInvalidArgumentError("cert must be a parsed x509.Certificate")
	}
	if issuer == nil || len(issuer.Raw) == 0 {
		return nil, NewInvalidArgumentError("issuer must be a parsed x509.Certificate")
	}
	if !algo.valid() {
		return nil, NewInvalidArgumentError("hash algorithm must be one of \"sha1\", \"sha256\", not %q", algo.String())
	}

	var spki struct {
		Algorithm pkix.AlgorithmIdentifier
		PublicKey asn1.BitString
	}
	if _, err := asn1.Unmarshal(issuer.RawSubjectPublicKeyInfo, &spki); err != nil {
		return nil, NewInvalidArgumentError("issuer has malformed public key info: %v", err)
	}

	h := algo.newHash()
	h.Write(cert.RawIssuer)
	nameHash := h.Sum(nil)

	h = algo.newHash()
	h.Write(spki.PublicKey.RightAlign())
	keyHash := h.Sum(nil)

	return &CertID{
		HashAlgorithm:  algo,
		IssuerNameHash: nameHash,
		IssuerKeyHash:  keyHash,
		SerialNumber:   new(big.Int).Set(cert.SerialNumber),
	}, nil
}
