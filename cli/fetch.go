package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"golang.org/x/crypto/ocsp"

	"github.com/georgepadayatti/ocspfetch/config"
	"github.com/georgepadayatti/ocspfetch/keys"
)

// FetchOptions contains options for the fetch command.
type FetchOptions struct {
	Issuer     string
	ConfigFile string
	Algo       string
	NoNonce    bool
	Timeout    int
	UserAgent  string
	Endpoint   string
	Output     string
}

// FetchCommand implements the 'fetch' command.
func FetchCommand(args []string) {
	fetchFlags := flag.NewFlagSet("fetch", flag.ExitOnError)

	var opts FetchOptions

	fetchFlags.StringVar(&opts.Issuer, "issuer", "", "Issuer certificate file (PEM or DER)")
	fetchFlags.StringVar(&opts.ConfigFile, "config", "", "YAML configuration file")
	fetchFlags.StringVar(&opts.Algo, "algo", "", "Hash algorithm: sha1, sha256")
	fetchFlags.BoolVar(&opts.NoNonce, "no-nonce", false, "Skip the anti-replay nonce extension")
	fetchFlags.IntVar(&opts.Timeout, "timeout", 0, "Per-responder timeout in seconds")
	fetchFlags.StringVar(&opts.UserAgent, "ua", "", "User-Agent header")
	fetchFlags.StringVar(&opts.Endpoint, "endpoint", "", "Responder URL, overriding the certificate")
	fetchFlags.StringVar(&opts.Output, "o", "", "Write the DER response to this file")

	fetchFlags.Usage = func() {
		fmt.Printf("Usage: %s fetch [options] -issuer <issuer.pem> <certificate.pem>\n\n", os.Args[0])
		fmt.Println("Fetch an OCSP response for a certificate.")
		fmt.Println("")
		fmt.Println("Arguments:")
		fmt.Println("  certificate.pem  Certificate to query (PEM or DER format)")
		fmt.Println("")
		fmt.Println("Options:")
		fetchFlags.PrintDefaults()
	}

	fetchFlags.Parse(args[2:])

	if fetchFlags.NArg() != 1 || opts.Issuer == "" {
		fetchFlags.Usage()
		osExit(1)
		return
	}

	if err := runFetch(&opts, fetchFlags.Arg(0)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		osExit(1)
	}
}

func runFetch(opts *FetchOptions, certFile string) error {
	cert, err := keys.LoadCertFromPemDer(certFile)
	if err != nil {
		return fmt.Errorf("failed to load certificate: %w", err)
	}
	issuer, err := keys.LoadCertFromPemDer(opts.Issuer)
	if err != nil {
		return fmt.Errorf("failed to load issuer certificate: %w", err)
	}

	cfg := &config.ClientConfig{}
	if opts.ConfigFile != "" {
		cfg, err = config.Load(opts.ConfigFile)
		if err != nil {
			return err
		}
	}

	// Command-line flags override the configuration file.
	if opts.Algo != "" {
		cfg.HashAlgorithm = opts.Algo
	}
	if opts.NoNonce {
		cfg.DisableNonce = true
	}
	if opts.Timeout > 0 {
		cfg.TimeoutSeconds = opts.Timeout
	}
	if opts.UserAgent != "" {
		cfg.UserAgent = opts.UserAgent
	}
	if opts.Endpoint != "" {
		cfg.Endpoints = []string{opts.Endpoint}
	}

	client, err := cfg.NewClient()
	if err != nil {
		return err
	}
	fetchOpts, err := cfg.FetchOptions()
	if err != nil {
		return err
	}

	resp, err := client.Fetch(context.Background(), cert, issuer, fetchOpts)
	if err != nil {
		return err
	}

	if opts.Output != "" {
		if err := os.WriteFile(opts.Output, resp.Raw, 0644); err != nil {
			return fmt.Errorf("failed to write response: %w", err)
		}
		fmt.Printf("OCSP response written to %s\n", opts.Output)
	}

	fmt.Printf("  Status:      %s\n", resp.Status)
	if !resp.ProducedAt.IsZero() {
		fmt.Printf("  Produced At: %s\n", resp.ProducedAt.Format(time.RFC3339))
	}
	if len(resp.Nonce) > 0 {
		fmt.Printf("  Nonce:       %X\n", resp.Nonce)
	}

	if details, err := resp.Details(issuer); err == nil {
		fmt.Printf("  Cert Status: %s\n", certStatusString(details.Status))
		if details.Status == ocsp.Revoked {
			fmt.Printf("  Revoked At:  %s\n", details.RevokedAt.Format(time.RFC3339))
		}
	}

	return nil
}

func certStatusString(status int) string {
	switch status {
	case ocsp.Good:
		return "good"
	case ocsp.Revoked:
		return "revoked"
	default:
		return "unknown"
	}
}
