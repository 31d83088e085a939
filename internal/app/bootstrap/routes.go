// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"
	"strings"
	"time"

	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/middleware"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/csrf"
	"go.uber.org/zap"

	chartsapifeature "github.com/dalemusser/epivigil/internal/app/features/chartsapi"
	comparisonsfeature "github.com/dalemusser/epivigil/internal/app/features/comparisons"
	dashboardfeature "github.com/dalemusser/epivigil/internal/app/features/dashboard"
	errorsfeature "github.com/dalemusser/epivigil/internal/app/features/errors"
	eventsapifeature "github.com/dalemusser/epivigil/internal/app/features/eventsapi"
	groupsapifeature "github.com/dalemusser/epivigil/internal/app/features/groupsapi"
	healthfeature "github.com/dalemusser/epivigil/internal/app/features/health"
	reportsapifeature "github.com/dalemusser/epivigil/internal/app/features/reportsapi"
	appresources "github.com/dalemusser/epivigil/internal/app/resources"
	"github.com/dalemusser/epivigil/internal/app/system/metrics"
	"github.com/dalemusser/epivigil/internal/app/system/viewer"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed.
//
// The route surface splits in two:
//   - The HTML shell (the dashboard page plus error pages) gets CSRF
//     protection and renders through the template engine.
//   - The JSON APIs under /api are called by the shell's own JavaScript with
//     the same viewer cookie; they are exempt from CSRF and speak jsonutil.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"

	// The viewer manager ties each browser to its server-side workspace via
	// an anonymous signed cookie. There are no accounts.
	viewers, err := viewer.NewManager(
		appCfg.ViewerCookieKey,
		appCfg.ViewerCookieName,
		appCfg.ViewerCookieDomain,
		appCfg.ViewerCookieMaxAge,
		secure,
		logger,
	)
	if err != nil {
		logger.Error("viewer manager init failed", zap.Error(err))
		return nil, err
	}

	// Initialize and boot the template engine once at startup.
	// Dev mode enables template reloading for faster iteration.
	eng := templates.New(coreCfg.Env == "dev")
	if err := eng.Boot(logger); err != nil {
		logger.Error("template engine boot failed", zap.Error(err))
		return nil, err
	}
	templates.UseEngine(eng, logger)

	// Create error logger for handlers.
	errLog := errorsfeature.NewErrorLogger(logger)

	r := chi.NewRouter()

	// ─────────────────────────────────────────────────────────────────────────
	// Global Middleware (applies to ALL routes)
	// ─────────────────────────────────────────────────────────────────────────

	// Request timeout middleware: prevents requests from hanging indefinitely.
	r.Use(chimw.Timeout(30 * time.Second))

	// CORS middleware: must be early in the chain to handle preflight requests.
	r.Use(middleware.CORSFromConfig(coreCfg))

	// Security headers middleware: adds X-Frame-Options, X-Content-Type-Options, etc.
	r.Use(middleware.SecurityHeadersFromConfig(coreCfg))

	// Request metrics: counts and times every request by route pattern.
	r.Use(metrics.Middleware)

	// Viewer middleware: every request carries a viewer identity; new
	// browsers get one minted on first contact.
	r.Use(viewers.Load)

	// CSRF protection middleware with path-based exemption for API routes.
	// Cookie name is "epivigil_csrf" to avoid collisions with other services
	// on the same domain.
	csrfOpts := []csrf.Option{
		csrf.Secure(secure),
		csrf.Path("/"),
		csrf.CookieName("epivigil_csrf"),
		csrf.FieldName("csrf_token"),
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.ErrorHandler(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			logger.Warn("CSRF validation failed",
				zap.String("path", req.URL.Path),
				zap.String("method", req.Method),
				zap.String("reason", csrf.FailureReason(req).Error()),
			)
			http.Error(w, "CSRF token invalid or missing", http.StatusForbidden)
		})),
	}
	// In dev mode, trust localhost origins for CSRF validation.
	if !secure {
		csrfOpts = append(csrfOpts, csrf.TrustedOrigins([]string{
			"localhost:8080",
			"localhost:3000",
			"127.0.0.1:8080",
			"127.0.0.1:3000",
		}))
	}
	if appCfg.ViewerCookieDomain != "" {
		csrfOpts = append(csrfOpts, csrf.Domain(appCfg.ViewerCookieDomain))
	}
	csrfProtect := csrf.Protect([]byte(appCfg.CSRFKey), csrfOpts...)

	// Skip CSRF for the JSON APIs: they are same-origin fetch calls guarded
	// by the SameSite viewer cookie, and the reference-data reads are public.
	csrfMiddleware := func(next http.Handler) http.Handler {
		csrfHandler := csrfProtect(next)
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if strings.HasPrefix(req.URL.Path, "/api/") {
				next.ServeHTTP(w, req)
				return
			}
			csrfHandler.ServeHTTP(w, req)
		})
	}
	r.Use(csrfMiddleware)

	// ─────────────────────────────────────────────────────────────────────────
	// Routes
	// ─────────────────────────────────────────────────────────────────────────

	// Health check endpoints for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, deps.Workspaces, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))
	healthfeature.MountRootEndpoints(r, healthHandler)

	// Prometheus metrics endpoint
	r.Handle("/metrics", metrics.Handler())

	// Static assets with pre-compressed file support (gzip/brotli)
	// /static/* serves files from disk (static directory)
	r.Handle("/static/*", fileserver.Handler("/static", "static"))

	// /assets/* serves embedded assets (bundled into the binary)
	r.Handle("/assets/*", appresources.AssetsHandler("/assets"))

	// Report artifacts (local storage only)
	if appCfg.StorageType == "local" || appCfg.StorageType == "" {
		r.Handle(appCfg.StorageLocalURL+"/*", fileserver.Handler(appCfg.StorageLocalURL, appCfg.StorageLocalPath))
	}

	// Reference data APIs (read-only, public CORS)
	groupsHandler := groupsapifeature.NewHandler(deps.MongoDatabase, logger)
	r.Mount("/api/groups", groupsapifeature.Routes(groupsHandler))

	eventsHandler := eventsapifeature.NewHandler(deps.MongoDatabase, logger)
	r.Mount("/api/events", eventsapifeature.Routes(eventsHandler))

	// Workspace and filter-combination API
	comparisonsHandler := comparisonsfeature.NewHandler(deps.Workspaces, deps.MongoDatabase, viewers, logger)
	r.Mount("/api/workspace", comparisonsfeature.Routes(comparisonsHandler))

	// Chart data API
	chartsHandler := chartsapifeature.NewHandler(deps.Workspaces, deps.MongoDatabase, logger)
	r.Mount("/api/charts", chartsapifeature.Routes(chartsHandler))

	// Report generation API
	reportsHandler := reportsapifeature.NewHandler(deps.Workspaces, deps.MongoDatabase, deps.FileStorage, errLog, logger)
	r.Mount("/api/reports", reportsapifeature.Routes(reportsHandler))

	// The dashboard shell
	dashboardHandler := dashboardfeature.NewHandler(logger)
	r.Mount("/", dashboardfeature.Routes(dashboardHandler))

	// 404 catch-all for unmatched routes
	errorsHandler := errorsfeature.NewHandler()
	r.NotFound(errorsHandler.NotFound)

	return r, nil
}
