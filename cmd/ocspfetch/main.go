// Command ocspfetch fetches OCSP responses for certificates.
//
// Usage:
//
//	ocspfetch <command> [options] <args>
//
// Commands:
//
//	fetch    Fetch an OCSP response for a certificate
//	version  Show version information
//	help     Show help message
//
// Examples:
//
//	# Fetch a response and save it
//	ocspfetch fetch -issuer ca.pem -o response.der server.pem
//
//	# Fetch with SHA-256 hashing and no nonce
//	ocspfetch fetch -issuer ca.pem -algo sha256 -no-nonce server.pem
package main

import (
	"os"

	"github.com/georgepadayatti/ocspfetch/cli"
)

func main() {
	cli.Run(os.Args)
}
