// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"time"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// EnvVarPrefix is the prefix for environment variables.
const EnvVarPrefix = "EPIVIGIL"

// appConfigKeys defines the configuration keys for this application.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, viewer_cookie_name, etc.
//   - Environment variables: EPIVIGIL_MONGO_URI, EPIVIGIL_VIEWER_COOKIE_NAME, etc.
//   - Command-line flags: --mongo_uri, --viewer_cookie_name, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "epivigil", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},

	// Viewer cookie configuration
	{Name: "viewer_cookie_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Viewer cookie signing key (must be strong in production)"},
	{Name: "viewer_cookie_name", Default: "epivigil-viewer", Desc: "Viewer cookie name"},
	{Name: "viewer_cookie_domain", Default: "", Desc: "Viewer cookie domain (blank means current host)"},
	{Name: "viewer_cookie_max_age", Default: "720h", Desc: "Viewer cookie max age (e.g., 720h, 24h)"},

	// Workspace retention
	{Name: "workspace_ttl", Default: "2h", Desc: "Idle time before a workspace is evicted"},

	// Report retention
	{Name: "report_max_age", Default: "24h", Desc: "Age after which report artifacts are deleted"},

	{Name: "csrf_key", Default: "dev-only-csrf-key-please-change-0123456789", Desc: "CSRF token signing key (32+ chars in production)"},

	// File storage configuration
	{Name: "storage_type", Default: "local", Desc: "Storage backend: 'local' or 's3'"},
	{Name: "storage_local_path", Default: "./artifacts", Desc: "Local storage path for report artifacts"},
	{Name: "storage_local_url", Default: "/files", Desc: "URL prefix for serving local files"},

	// S3/CloudFront configuration
	{Name: "storage_s3_region", Default: "", Desc: "AWS region for S3"},
	{Name: "storage_s3_bucket", Default: "", Desc: "S3 bucket name"},
	{Name: "storage_s3_prefix", Default: "reports/", Desc: "S3 key prefix"},
	{Name: "storage_cf_url", Default: "", Desc: "CloudFront distribution URL"},
	{Name: "storage_cf_keypair_id", Default: "", Desc: "CloudFront key pair ID"},
	{Name: "storage_cf_key_path", Default: "", Desc: "Path to CloudFront private key file"},

	// Demo seeding
	{Name: "seed_demo_data", Default: false, Desc: "Insert a synthetic case dataset on first boot"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// It is called early in startup so that both WAFFLE and the app have
// access to configuration before any backends or handlers are built.
//
// WAFFLE's config.LoadWithAppConfig handles:
//   - Loading from .env files
//   - Loading from config.yaml/json/toml files
//   - Reading environment variables (WAFFLE_* for core, EPIVIGIL_* for app)
//   - Parsing command-line flags
//   - Merging with precedence: flags > env > files > defaults
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, EnvVarPrefix, appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		// Viewer cookie
		ViewerCookieKey:    appValues.String("viewer_cookie_key"),
		ViewerCookieName:   appValues.String("viewer_cookie_name"),
		ViewerCookieDomain: appValues.String("viewer_cookie_domain"),
		ViewerCookieMaxAge: appValues.Duration("viewer_cookie_max_age", 720*time.Hour),

		// Retention
		WorkspaceTTL: appValues.Duration("workspace_ttl", 2*time.Hour),
		ReportMaxAge: appValues.Duration("report_max_age", 24*time.Hour),

		CSRFKey: appValues.String("csrf_key"),

		// File storage
		StorageType:      appValues.String("storage_type"),
		StorageLocalPath: appValues.String("storage_local_path"),
		StorageLocalURL:  appValues.String("storage_local_url"),

		// S3/CloudFront
		StorageS3Region:    appValues.String("storage_s3_region"),
		StorageS3Bucket:    appValues.String("storage_s3_bucket"),
		StorageS3Prefix:    appValues.String("storage_s3_prefix"),
		StorageCFURL:       appValues.String("storage_cf_url"),
		StorageCFKeyPairID: appValues.String("storage_cf_keypair_id"),
		StorageCFKeyPath:   appValues.String("storage_cf_key_path"),

		// Demo seeding
		SeedDemoData: appValues.Bool("seed_demo_data"),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}

	if appCfg.WorkspaceTTL <= 0 {
		return fmt.Errorf("workspace_ttl must be positive, got %s", appCfg.WorkspaceTTL)
	}
	if appCfg.ReportMaxAge <= 0 {
		return fmt.Errorf("report_max_age must be positive, got %s", appCfg.ReportMaxAge)
	}

	return nil
}
