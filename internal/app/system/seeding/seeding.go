// internal/app/system/seeding/seeding.go
package seeding

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	eventstore "github.com/dalemusser/epivigil/internal/app/store/events"
	groupstore "github.com/dalemusser/epivigil/internal/app/store/groups"
	"github.com/dalemusser/epivigil/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	casestore "github.com/dalemusser/epivigil/internal/app/store/cases"
)

// SeedAll seeds reference data (groups and events) when the collections are
// empty. When demo is true it also generates a synthetic case history so the
// dashboard has something to chart in a fresh environment. Production
// deployments receive reference and case data from the upstream surveillance
// sync and leave demo off.
func SeedAll(ctx context.Context, db *mongo.Database, logger *zap.Logger, demo bool) error {
	if err := seedReference(ctx, db, logger); err != nil {
		return err
	}
	if demo {
		if err := seedDemoCases(ctx, db, logger); err != nil {
			return err
		}
	}
	return nil
}

// defaultGroups mirrors the upstream catalog structure: each group bundles
// related notifiable events.
func defaultGroups() ([]models.Group, []models.Event) {
	groups := []models.Group{
		{ID: "grp-respiratorias", Name: "Infecciones respiratorias agudas", Description: "Vigilancia de IRA, ETI y neumonías"},
		{ID: "grp-vectoriales", Name: "Enfermedades vectoriales", Description: "Arbovirosis y otras transmitidas por vectores"},
		{ID: "grp-inmunoprevenibles", Name: "Inmunoprevenibles", Description: "Eventos prevenibles por vacunación"},
		{ID: "grp-zoonoticas", Name: "Zoonosis", Description: "Eventos de transmisión animal-humano"},
	}
	events := []models.Event{
		{ID: "evt-eti", Name: "Enfermedad tipo influenza (ETI)", GroupID: "grp-respiratorias", GroupName: groups[0].Name},
		{ID: "evt-neumonia", Name: "Neumonía", GroupID: "grp-respiratorias", GroupName: groups[0].Name},
		{ID: "evt-bronquiolitis", Name: "Bronquiolitis en menores de 2 años", GroupID: "grp-respiratorias", GroupName: groups[0].Name},
		{ID: "evt-covid", Name: "COVID-19", GroupID: "grp-respiratorias", GroupName: groups[0].Name},
		{ID: "evt-dengue", Name: "Dengue", GroupID: "grp-vectoriales", GroupName: groups[1].Name},
		{ID: "evt-zika", Name: "Zika", GroupID: "grp-vectoriales", GroupName: groups[1].Name},
		{ID: "evt-chikungunya", Name: "Chikungunya", GroupID: "grp-vectoriales", GroupName: groups[1].Name},
		{ID: "evt-sarampion", Name: "Sarampión", GroupID: "grp-inmunoprevenibles", GroupName: groups[2].Name},
		{ID: "evt-coqueluche", Name: "Coqueluche", GroupID: "grp-inmunoprevenibles", GroupName: groups[2].Name},
		{ID: "evt-hantavirus", Name: "Hantavirosis", GroupID: "grp-zoonoticas", GroupName: groups[3].Name},
		{ID: "evt-leptospirosis", Name: "Leptospirosis", GroupID: "grp-zoonoticas", GroupName: groups[3].Name},
	}
	return groups, events
}

func seedReference(ctx context.Context, db *mongo.Database, logger *zap.Logger) error {
	n, err := db.Collection(groupstore.CollectionName).CountDocuments(ctx, bson.M{})
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	groups, events := defaultGroups()
	gs := groupstore.New(db)
	es := eventstore.New(db)

	for _, g := range groups {
		if err := gs.Put(ctx, g); err != nil {
			logger.Error("failed to seed group", zap.String("group_id", g.ID), zap.Error(err))
			return err
		}
	}
	for _, e := range events {
		if err := es.Put(ctx, e); err != nil {
			logger.Error("failed to seed event", zap.String("event_id", e.ID), zap.Error(err))
			return err
		}
	}

	logger.Info("seeded reference data",
		zap.Int("groups", len(groups)),
		zap.Int("events", len(events)))
	return nil
}

// seedDemoCases writes a year of synthetic weekly case volume across all
// seeded events. The generator is seeded deterministically so restarts in a
// demo environment produce the same history.
func seedDemoCases(ctx context.Context, db *mongo.Database, logger *zap.Logger) error {
	coll := db.Collection(casestore.CollectionName)
	n, err := coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	_, events := defaultGroups()
	rng := rand.New(rand.NewSource(20240501))
	regions := []string{"AR-B", "AR-C", "AR-S", "AR-M", "AR-T"}
	classes := []models.Classification{
		models.ClassificationConfirmed, models.ClassificationSuspected,
		models.ClassificationProbable, models.ClassificationUnderStudy,
		models.ClassificationDiscarded,
	}

	start := time.Now().UTC().AddDate(-1, 0, 0)
	var batch []models.CaseRecord
	for week := 0; week < 52; week++ {
		weekStart := start.AddDate(0, 0, week*7)
		for _, ev := range events {
			// Per-event weekly volume between 0 and 24 cases.
			volume := rng.Intn(25)
			for i := 0; i < volume; i++ {
				sex := "F"
				switch rng.Intn(20) {
				case 0:
					sex = "X"
				default:
					if rng.Intn(2) == 0 {
						sex = "M"
					}
				}
				batch = append(batch, models.CaseRecord{
					EventID:        ev.ID,
					GroupID:        ev.GroupID,
					Classification: classes[rng.Intn(len(classes))],
					ReportedAt:     weekStart.AddDate(0, 0, rng.Intn(7)),
					Age:            rng.Intn(95),
					Sex:            sex,
					RegionCode:     regions[rng.Intn(len(regions))],
					Fatal:          rng.Intn(200) == 0,
				})
			}
		}
	}

	cs := casestore.New(db)
	// Insert in chunks so a single oversized batch cannot stall startup.
	const chunk = 1000
	for i := 0; i < len(batch); i += chunk {
		end := i + chunk
		if end > len(batch) {
			end = len(batch)
		}
		if err := cs.InsertMany(ctx, batch[i:end]); err != nil {
			return fmt.Errorf("seed demo cases: %w", err)
		}
	}

	logger.Info("seeded demo case history", zap.Int("cases", len(batch)))
	return nil
}
