// Package key defines the canonical set of configuration identifiers used for centralized settings management.
package key

// Catalog Source - these keys control how the Médiathèque numérique catalog is paged through.
const (
	CatalogURL                  = "catalog.url"
	CatalogCategory             = "catalog.category"
	CatalogPageSize             = "catalog.page_size"
	CatalogMaxPages             = "catalog.max_pages"
	CatalogTimeoutSeconds       = "catalog.timeout_seconds"
	CatalogRequestsPerSecond    = "catalog.requests_per_second"
	CatalogCompletenessAttempts = "catalog.completeness_attempts"
	CatalogMinDuration          = "catalog.min_duration"
)

// Network Transport.
const (
	NetworkTLSFingerprint = "network.tls_fingerprint"
)

// Geolocation Gate - the catalog is only reachable from one country.
const (
	GeoEnable  = "geo.enable"
	GeoCountry = "geo.country"
	GeoURL     = "geo.url"
)

// Letterboxd Integration - these keys identify the target list and tune the browser session.
const (
	LetterboxdUsername            = "letterboxd.username"
	LetterboxdPassword            = "letterboxd.password"
	LetterboxdList                = "letterboxd.list"
	LetterboxdAnchor              = "letterboxd.anchor"
	LetterboxdHeadless            = "letterboxd.headless"
	LetterboxdMatchTimeoutMinutes = "letterboxd.match_timeout_minutes"
	LetterboxdStepTimeoutSeconds  = "letterboxd.step_timeout_seconds"
)

// Import Policy.
const (
	ImportMaxRemoved = "import.max_removed"
	ImportFallback   = "import.fallback"
)

// Snapshot Mirror.
const (
	MirrorPostgresDSN = "mirror.postgres_dsn"
)

// Run History.
const (
	HistoryLimit = "history.limit"
)

// Iconography - these keys manage the visual rendering of UI symbols.
const (
	IconsVariant = "icons.variant"
)

// Logging Infrastructure - these keys manage the application's internal diagnostics and auditing system.
const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

// CLI Execution Environment.
const (
	CliColored      = "cli.colored"
	CliVersionCheck = "cli.version_check"
)
