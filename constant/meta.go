// Package constant defines immutable application-level identifiers and configuration defaults.
package constant

const (
	// Cinelist is the canonical application identifier used for filesystem paths and CLI branding.
	Cinelist = "cinelist"

	// Version is the current application semantic version string.
	Version = "0.1.0"

	// Repository is the GitHub owner/name releases are published under.
	Repository = "cinelist-cli/cinelist"

	// UserAgent is the default HTTP User-Agent string used for requests to the catalog and geolocation services.
	UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// Build metadata, overridden at link time with -ldflags "-X".
var (
	BuiltAt  = "unknown"
	BuiltBy  = "unknown"
	Revision = "unknown"
)
