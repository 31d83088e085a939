// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"

	"github.com/dalemusser/epivigil/internal/app/resources"
	"github.com/dalemusser/epivigil/internal/app/system/metrics"
	"github.com/dalemusser/epivigil/internal/app/system/tasks"
)

// Startup runs once after DB connections and schema/index setup are complete,
// but before the HTTP handler is built and requests are served.
//
// This is the place for one-time initialization that depends on having live
// database connections and fully loaded configuration: loading shared
// templates, registering gauges, and starting background workers.
//
// Returning a non-nil error will abort startup and prevent the server from
// starting.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	resources.LoadSharedTemplates()

	// Note: Indexes are created in EnsureSchema via indexes.EnsureAll().

	// Expose the live workspace count as a gauge.
	metrics.RegisterWorkspaceGauge(deps.Workspaces.Count)

	// Start background task runner
	startTaskRunner(appCfg, deps, logger)

	return nil
}

// taskRunner is the global task runner instance, used for graceful shutdown.
var taskRunner *tasks.Runner

// startTaskRunner initializes and starts the background task runner.
func startTaskRunner(appCfg AppConfig, deps DBDeps, logger *zap.Logger) {
	taskRunner = tasks.New(logger)

	// Evict workspaces idle past their TTL.
	taskRunner.Register(tasks.WorkspaceEvictionJob(deps.Workspaces, logger))

	// Delete expired report artifacts and their records.
	taskRunner.Register(tasks.ReportCleanupJob(deps.MongoDatabase, deps.FileStorage, appCfg.ReportMaxAge, logger))

	// Start running jobs
	taskRunner.Start()
}
