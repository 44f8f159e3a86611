package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/georgepadayatti/ocspfetch"
)

func TestParseFull(t *testing.T) {
	data := []byte(`
hash-algorithm: sha256
disable-nonce: true
user-agent: revocation-checker/2.0
timeout: 30
cache-ttl: 600
max-response-size: 524288
endpoints:
  - http://ocsp.example.com
  - http://ocsp-backup.example.com
proxy-url: http://proxy.internal:3128
insecure-skip-verify: true
`)

	config, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if config.HashAlgorithm != "sha256" {
		t.Errorf("Expected sha256, got %q", config.HashAlgorithm)
	}
	if !config.DisableNonce {
		t.Error("Expected disable-nonce to be set")
	}
	if config.UserAgent != "revocation-checker/2.0" {
		t.Errorf("Unexpected user agent: %q", config.UserAgent)
	}
	if config.TimeoutSeconds != 30 {
		t.Errorf("Expected timeout 30, got %d", config.TimeoutSeconds)
	}
	if config.CacheTTLSeconds != 600 {
		t.Errorf("Expected cache-ttl 600, got %d", config.CacheTTLSeconds)
	}
	if config.MaxResponseSize != 524288 {
		t.Errorf("Expected max-response-size 524288, got %d", config.MaxResponseSize)
	}
	if len(config.Endpoints) != 2 || config.Endpoints[0] != "http://ocsp.example.com" {
		t.Errorf("Unexpected endpoints: %v", config.Endpoints)
	}
	if config.ProxyURL != "http://proxy.internal:3128" {
		t.Errorf("Unexpected proxy URL: %q", config.ProxyURL)
	}
	if !config.InsecureSkipVerify {
		t.Error("Expected insecure-skip-verify to be set")
	}
}

func TestParseEmpty(t *testing.T) {
	config, err := Parse(nil)
	if err != nil {
		t.Fatalf("Parse of empty data failed: %v", err)
	}
	if config.HashAlgorithm != "" || config.TimeoutSeconds != 0 {
		t.Error("Empty configuration should produce zero values")
	}
}

func TestParseRejectsUnknownFields(t *testing.T) {
	_, err := Parse([]byte("no-such-field: true\n"))
	if !errors.Is(err, ErrUnexpectedField) {
		t.Errorf("Expected ErrUnexpectedField, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		config ClientConfig
		field  string
	}{
		{"bad algorithm", ClientConfig{HashAlgorithm: "md5"}, "hash-algorithm"},
		{"negative timeout", ClientConfig{TimeoutSeconds: -1}, "timeout"},
		{"negative cache ttl", ClientConfig{CacheTTLSeconds: -1}, "cache-ttl"},
		{"negative max size", ClientConfig{MaxResponseSize: -1}, "max-response-size"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			var configErr *ConfigError
			if !errors.As(err, &configErr) {
				t.Fatalf("Expected ConfigError, got %v", err)
			}
			if configErr.Field != tt.field {
				t.Errorf("Expected error in field %q, got %q", tt.field, configErr.Field)
			}
		})
	}

	valid := ClientConfig{HashAlgorithm: "sha1", TimeoutSeconds: 10}
	if err := valid.Validate(); err != nil {
		t.Errorf("Valid configuration should pass: %v", err)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ocsp.yaml")
	if err := os.WriteFile(path, []byte("hash-algorithm: sha1\ntimeout: 5\n"), 0o600); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	config, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if config.TimeoutSeconds != 5 {
		t.Errorf("Expected timeout 5, got %d", config.TimeoutSeconds)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if !errors.Is(err, ErrConfigurationError) {
		t.Errorf("Expected ErrConfigurationError, got %v", err)
	}
}

func TestNewClient(t *testing.T) {
	config := ClientConfig{TimeoutSeconds: 5, UserAgent: "custom/1.0"}
	client, err := config.NewClient()
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	if client == nil {
		t.Fatal("NewClient returned nil")
	}
}

func TestNewClientBadProxy(t *testing.T) {
	config := ClientConfig{ProxyURL: "://not a url"}
	_, err := config.NewClient()
	var configErr *ConfigError
	if !errors.As(err, &configErr) {
		t.Fatalf("Expected ConfigError, got %v", err)
	}
	if configErr.Field != "proxy-url" {
		t.Errorf("Expected error in proxy-url, got %q", configErr.Field)
	}
}

func TestFetchOptions(t *testing.T) {
	config := ClientConfig{
		HashAlgorithm:  "sha256",
		DisableNonce:   true,
		TimeoutSeconds: 7,
		Endpoints:      []string{"http://ocsp.example.com"},
	}

	opts, err := config.FetchOptions()
	if err != nil {
		t.Fatalf("FetchOptions failed: %v", err)
	}
	if opts.HashAlgorithm != ocspfetch.DigestSHA256 {
		t.Errorf("Expected SHA-256, got %v", opts.HashAlgorithm)
	}
	if !opts.DisableNonce {
		t.Error("Expected DisableNonce to carry over")
	}
	if opts.Timeout != 7*time.Second {
		t.Errorf("Expected timeout 7s, got %v", opts.Timeout)
	}
	if len(opts.Endpoints) != 1 {
		t.Errorf("Unexpected endpoints: %v", opts.Endpoints)
	}
}

func TestConfigErrorMessage(t *testing.T) {
	withField := NewConfigError("timeout", "must not be negative")
	if withField.Error() != "config error in 'timeout': must not be negative" {
		t.Errorf("Unexpected message: %q", withField.Error())
	}

	without := NewConfigError("", "broken")
	if without.Error() != "config error: broken" {
		t.Errorf("Unexpected message: %q", without.Error())
	}
}
