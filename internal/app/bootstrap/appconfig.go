// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// WAFFLE's CoreConfig handles framework-level settings (HTTP/HTTPS ports,
// TLS, logging level, CORS, body size limits). AppConfig is everything
// specific to this application: the MongoDB connection, the anonymous viewer
// cookie, workspace and report retention, and file storage for generated
// report artifacts.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Maximum connections in pool (default: 100)
	MongoMinPoolSize uint64 // Minimum connections to keep warm (default: 10)

	// Viewer cookie configuration. The dashboard has no accounts; the cookie
	// just ties a browser to its server-side workspace.
	ViewerCookieKey    string        // Secret key for signing the viewer cookie
	ViewerCookieName   string        // Cookie name (default: epivigil-viewer)
	ViewerCookieDomain string        // Cookie domain (blank means current host)
	ViewerCookieMaxAge time.Duration // Viewer cookie lifetime (default: 720h)

	// Workspace retention
	WorkspaceTTL time.Duration // Idle time before a workspace is evicted (default: 2h)

	// Report retention
	ReportMaxAge time.Duration // Age after which report artifacts are deleted (default: 24h)

	// CSRF protection configuration
	CSRFKey string // Secret key for CSRF token signing (32 bytes, must be strong in production)

	// File storage configuration (report artifacts)
	StorageType      string // Storage backend: "local" or "s3"
	StorageLocalPath string // Local storage path (e.g., "./artifacts")
	StorageLocalURL  string // URL prefix for serving local files (e.g., "/files")

	// S3/CloudFront configuration (only used if StorageType is "s3")
	StorageS3Region    string // AWS region
	StorageS3Bucket    string // S3 bucket name
	StorageS3Prefix    string // Key prefix (e.g., "reports/")
	StorageCFURL       string // CloudFront distribution URL
	StorageCFKeyPairID string // CloudFront key pair ID
	StorageCFKeyPath   string // Path to CloudFront private key file

	// Demo seeding: when true, a deterministic synthetic case dataset is
	// inserted on first boot so the dashboard has something to chart.
	SeedDemoData bool
}
