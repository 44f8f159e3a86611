package ocspfetch

// Version is the library version. It is embedded in the default
// User-Agent header sent to OCSP responders.
var Version = "0.1.0"

// DefaultUserAgent returns the User-Agent header value used when the
// caller does not supply one.
func DefaultUserAgent() string {
	return "ocspfetch/" + Version
}
