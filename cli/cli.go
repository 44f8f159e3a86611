// Package cli provides the command-line interface for fetching OCSP
// responses.
package cli

import (
	"fmt"
	"os"

	"github.com/georgepadayatti/ocspfetch"
)

// osExit is a variable for os.Exit to allow testing
var osExit = os.Exit

// Run executes the CLI with the given arguments.
// This is the main entry point for the CLI.
func Run(args []string) {
	if len(args) < 2 {
		Usage()
		return
	}

	command := args[1]

	switch command {
	case "fetch":
		FetchCommand(args)
	case "version":
		VersionCommand()
	case "help", "-h", "--help":
		Usage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		Usage()
	}
}

// Usage prints the CLI usage information.
func Usage() {
	fmt.Printf("ocspfetch - OCSP response fetching tool\n\n")
	fmt.Printf("Usage: %s <command> [options] <args>\n\n", os.Args[0])
	fmt.Println("Commands:")
	fmt.Println("  fetch    Fetch an OCSP response for a certificate")
	fmt.Println("  version  Show version information")
	fmt.Println("  help     Show this help message")
	fmt.Println("")
	fmt.Printf("Use '%s <command> -h' for command-specific help\n", os.Args[0])
	fmt.Println("")
	fmt.Println("Examples:")
	fmt.Printf("  %s fetch -issuer ca.pem -o response.der server.pem\n", os.Args[0])
	fmt.Printf("  %s fetch -issuer ca.pem -algo sha256 -no-nonce server.pem\n", os.Args[0])
}

// VersionCommand prints version information.
func VersionCommand() {
	fmt.Printf("ocspfetch version %s\n", ocspfetch.Version)
}
