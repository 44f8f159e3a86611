package ocspfetch

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/asn1"
	"math/big"
	"testing"
	"time"

	"golang.org/x/crypto/ocsp"
)

// generateTestCA creates a self-signed CA certificate and key for use
// as an issuer and response signer.
func generateTestCA(t *testing.T) (*x509.Certificate, *rsa.PrivateKey) {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("Failed to generate CA key: %v", err)
	}

	template := &x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject: pkix.Name{
			CommonName:   "Test CA",
			Organization: []string{"ocspfetch test"},
		},
		NotBefore:             time.Now().Add(-time.Hour),
		NotAfter:              time.Now().Add(24 * time.Hour),
		KeyUsage:              x509.KeyUsageCertSign | x509.KeyUsageCRLSign | x509.KeyUsageDigitalSignature,
		BasicConstraintsValid: true,
		IsCA:                  true,
	}

	der, err := x509.CreateCertificate(rand.Reader, template, template, &key.PublicKey, key)
	if err != nil {
		t.Fatalf("Failed to create CA certificate: %v", err)
	}
	cert, err := x509.ParseCertificate(der)
	if err != nil {
		t.Fatalf("Failed to parse CA certificate: %v", err)
	}
	return cert, key
}

// issueTestCert creates a leaf certificate signed by the CA, declaring
// the given OCSP responder URLs in order.
func issueTestCert(t *testing.T, ca *x509.Certificate, caKey *rsa.PrivateKey, ocspURLs []string) *x509.Certificate {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("Failed to generate leaf key: %v", err)
	}

	template := &x509.Certificate{
		SerialNumber: big.NewInt(4242),
		Subject: pkix.Name{
			CommonName: "leaf.example.com",
		},
		NotBefore:   time.Now().Add(-time.Hour),
		NotAfter:    time.Now().Add(24 * time.Hour),
		KeyUsage:    x509.KeyUsageDigitalSignature,
		ExtKeyUsage: []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
		OCSPServer:  ocspURLs,
	}

	der, err := x509.CreateCertificate(rand.Reader, template, ca, &key.PublicKey, caKey)
	if err != nil {
		t.Fatalf("Failed to create leaf certificate: %v", err)
	}
	cert, err := x509.ParseCertificate(der)
	if err != nil {
		t.Fatalf("Failed to parse leaf certificate: %v", err)
	}
	return cert
}

// signedTestResponse builds a real signed OCSP response for the leaf
// using golang.org/x/crypto/ocsp. It carries no nonce: that package
// cannot put extensions at the response level.
func signedTestResponse(t *testing.T, ca *x509.Certificate, caKey *rsa.PrivateKey, leaf *x509.Certificate) []byte {
	t.Helper()

	now := time.Now().UTC().Truncate(time.Second)
	template := ocsp.Response{
		Status:       ocsp.Good,
		SerialNumber: leaf.SerialNumber,
		ThisUpdate:   now,
		NextUpdate:   now.Add(time.Hour),
	}
	der, err := ocsp.CreateResponse(ca, ca, template, caKey)
	if err != nil {
		t.Fatalf("Failed to create signed OCSP response: %v", err)
	}
	return der
}

// buildTestResponse hand-marshals a successful OCSP response carrying
// the given nonce in the response extensions, where real responders put
// it. The signature is a placeholder; ParseResponse does not verify.
func buildTestResponse(t *testing.T, nonce []byte) []byte {
	t.Helper()

	responderName, err := asn1.Marshal(pkix.Name{CommonName: "Test Responder"}.ToRDNSequence())
	if err != nil {
		t.Fatalf("Failed to marshal responder name: %v", err)
	}

	rd := responseDataASN1{
		RawResponderID: asn1.RawValue{
			Class:      asn1.ClassContextSpecific,
			Tag:        1,
			IsCompound: true,
			Bytes:      responderName,
		},
		ProducedAt: time.Now().UTC().Truncate(time.Second),
		Responses:  []asn1.RawValue{},
	}
	if nonce != nil {
		ext, err := nonceExtension(nonce)
		if err != nil {
			t.Fatalf("Failed to build nonce extension: %v", err)
		}
		rd.ResponseExtensions = []pkix.Extension{ext}
	}

	basic := basicResponseASN1{
		TBSResponseData: rd,
		SignatureAlgorithm: pkix.AlgorithmIdentifier{
			Algorithm: asn1.ObjectIdentifier{1, 2, 840, 113549, 1, 1, 11},
		},
		Signature: asn1.BitString{Bytes: []byte{0xde, 0xad, 0xbe, 0xef}, BitLength: 32},
	}
	basicDER, err := asn1.Marshal(basic)
	if err != nil {
		t.Fatalf("Failed to marshal basic response: %v", err)
	}

	der, err := asn1.Marshal(ocspResponseASN1{
		Status: asn1.Enumerated(ResponseSuccessful),
		ResponseBytes: responseBytesASN1{
			ResponseType: OIDBasicResponse,
			Response:     basicDER,
		},
	})
	if err != nil {
		t.Fatalf("Failed to marshal OCSP response: %v", err)
	}
	return der
}
