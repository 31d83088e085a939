// internal/app/system/tasks/jobs.go
package tasks

import (
	"context"
	"time"

	"github.com/dalemusser/waffle/pantry/storage"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/dalemusser/epivigil/internal/app/system/metrics"
	reportstore "github.com/dalemusser/epivigil/internal/app/store/reports"
	workspacestore "github.com/dalemusser/epivigil/internal/app/store/workspaces"
)

// WorkspaceEvictionJob creates a job that drops comparison workspaces whose
// viewers have gone away. Eviction is the only way workspace memory is
// reclaimed, so the sweep runs frequently.
func WorkspaceEvictionJob(ws *workspacestore.Store, logger *zap.Logger) Job {
	return Job{
		Name:     "workspace-eviction",
		Interval: 5 * time.Minute,
		Run: func(ctx context.Context) error {
			if n := ws.EvictIdle(); n > 0 {
				metrics.WorkspacesEvicted.Add(float64(n))
				logger.Info("evicted idle workspaces",
					zap.Int("evicted", n),
					zap.Int("remaining", ws.Count()))
			}
			return nil
		},
	}
}

// ReportCleanupJob creates a job that removes generated report exports older
// than maxAge: first the stored file, then the database record. A failed file
// delete leaves the record in place so the next sweep retries it.
func ReportCleanupJob(db *mongo.Database, store storage.Store, maxAge time.Duration, logger *zap.Logger) Job {
	return Job{
		Name:     "report-cleanup",
		Interval: 1 * time.Hour,
		Run: func(ctx context.Context) error {
			rs := reportstore.New(db)
			stale, err := rs.ListOlderThan(ctx, time.Now().Add(-maxAge))
			if err != nil {
				return err
			}

			deleted := 0
			for _, r := range stale {
				if r.StoragePath != "" {
					if err := store.Delete(ctx, r.StoragePath); err != nil {
						logger.Warn("failed to delete report file",
							zap.String("handle", r.Handle),
							zap.String("path", r.StoragePath),
							zap.Error(err))
						continue
					}
				}
				if err := rs.Delete(ctx, r.Handle); err != nil {
					logger.Warn("failed to delete report record",
						zap.String("handle", r.Handle),
						zap.Error(err))
					continue
				}
				deleted++
			}

			if deleted > 0 {
				logger.Info("cleaned up expired reports",
					zap.Int("deleted", deleted),
					zap.Duration("max_age", maxAge))
			}
			return nil
		},
	}
}
