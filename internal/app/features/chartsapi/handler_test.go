package chartsapi

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	casestore "github.com/dalemusser/epivigil/internal/app/store/cases"
	workspacestore "github.com/dalemusser/epivigil/internal/app/store/workspaces"
	"github.com/dalemusser/epivigil/internal/app/system/viewer"
	"github.com/dalemusser/epivigil/internal/domain/models"
	"github.com/dalemusser/epivigil/internal/testutil"
)

func newTestHandler(t *testing.T) (*Handler, *workspacestore.Store, *mongo.Database) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	ws := workspacestore.New(zap.NewNop(), time.Hour)
	return NewHandler(ws, db, zap.NewNop()), ws, db
}

func seedCases(t *testing.T, db *mongo.Database) {
	t.Helper()
	ctx, cancel := testutil.TestContext()
	defer cancel()

	cs := casestore.New(db)
	mk := func(day int, class models.Classification) models.CaseRecord {
		return models.CaseRecord{
			EventID:        "evt-dengue",
			GroupID:        "grp-vec",
			Classification: class,
			ReportedAt:     time.Date(2024, time.July, day, 0, 0, 0, 0, time.UTC),
			Age:            30,
			Sex:            "F",
			RegionCode:     "AR-B",
		}
	}
	err := cs.InsertMany(ctx, []models.CaseRecord{
		mk(10, models.ClassificationConfirmed),
		mk(11, models.ClassificationConfirmed),
		mk(17, models.ClassificationSuspected),
	})
	if err != nil {
		t.Fatalf("InsertMany() error = %v", err)
	}
}

func addCombination(ws *workspacestore.Workspace) models.FilterCombination {
	groupID := "grp-vec"
	return ws.AddFilterCombination(models.DraftFilter{
		GroupID:    &groupID,
		GroupName:  "Vectoriales",
		EventIDs:   []string{"evt-dengue"},
		EventNames: []string{"Dengue"},
		Label:      "Dengue",
	})
}

func get(t *testing.T, h *Handler, target, workspaceID string, out any) *testutil.ResponseRecorder {
	t.Helper()
	req := testutil.NewRequest(http.MethodGet, target)
	req = viewer.WithTestViewer(req, &viewer.Viewer{ID: "viewer-1", WorkspaceID: workspaceID})
	rec := testutil.NewRecorder()
	Routes(h).ServeHTTP(rec.ResponseRecorder, req)
	if out != nil && rec.Body.Len() > 0 {
		if err := json.NewDecoder(rec.Body).Decode(out); err != nil {
			t.Fatalf("decode response: %v", err)
		}
	}
	return rec
}

func TestAllCharts(t *testing.T) {
	h, store, db := newTestHandler(t)
	seedCases(t, db)
	ws := store.Create()
	fc := addCombination(ws)

	var payloads []ChartPayload
	rec := get(t, h, "/"+fc.ID, ws.ID(), &payloads)
	rec.AssertStatus(t, http.StatusOK)

	if len(payloads) != len(AllKinds) {
		t.Fatalf("got %d payloads, want %d", len(payloads), len(AllKinds))
	}
	for _, p := range payloads {
		if p.Error != nil {
			t.Errorf("kind %s unexpectedly errored: %+v", p.Kind, p.Error)
		}
		if p.CombinationID != fc.ID || p.Color != fc.Color {
			t.Errorf("kind %s payload not bound to combination: %+v", p.Kind, p)
		}
	}
}

func TestOneChart_Line(t *testing.T) {
	h, store, db := newTestHandler(t)
	seedCases(t, db)
	ws := store.Create()
	fc := addCombination(ws)

	var p struct {
		Kind  string                `json:"kind"`
		Data  []casestore.WeekCount `json:"data"`
		Error *ChartError           `json:"error"`
	}
	rec := get(t, h, "/"+fc.ID+"/line", ws.ID(), &p)
	rec.AssertStatus(t, http.StatusOK)

	if p.Error != nil {
		t.Fatalf("unexpected error payload: %+v", p.Error)
	}
	if len(p.Data) != 2 {
		t.Fatalf("got %d weekly points, want 2", len(p.Data))
	}
	if p.Data[0].Week != 28 || p.Data[0].Count != 2 {
		t.Errorf("first point = %+v, want week 28 count 2", p.Data[0])
	}
}

func TestOneChart_DateRangeApplied(t *testing.T) {
	h, store, db := newTestHandler(t)
	seedCases(t, db)
	ws := store.Create()
	fc := addCombination(ws)

	from := time.Date(2024, time.July, 14, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, time.July, 20, 0, 0, 0, 0, time.UTC)
	ws.SetDateRange(models.DateRange{From: &from, To: &to})

	var p struct {
		Data []casestore.WeekCount `json:"data"`
	}
	get(t, h, "/"+fc.ID+"/line", ws.ID(), &p)

	if len(p.Data) != 1 || p.Data[0].Week != 29 {
		t.Errorf("Data = %+v, want only week 29", p.Data)
	}
}

func TestOneChart_NoData(t *testing.T) {
	h, store, _ := newTestHandler(t)
	ws := store.Create()
	fc := addCombination(ws)

	var p ChartPayload
	rec := get(t, h, "/"+fc.ID+"/pie", ws.ID(), &p)
	rec.AssertStatus(t, http.StatusOK)

	if p.Error == nil || p.Error.Code != "no_data" {
		t.Fatalf("Error = %+v, want no_data", p.Error)
	}
	if p.Error.Suggestion == "" {
		t.Error("no_data error should carry a suggestion")
	}
	if p.Data != nil {
		t.Error("payload carries both data and error")
	}
}

func TestOneChart_UnknownKind(t *testing.T) {
	h, store, db := newTestHandler(t)
	seedCases(t, db)
	ws := store.Create()
	fc := addCombination(ws)

	var p ChartPayload
	rec := get(t, h, "/"+fc.ID+"/sparkline", ws.ID(), &p)
	rec.AssertStatus(t, http.StatusOK)

	if p.Error == nil || p.Error.Code != "unknown_kind" {
		t.Errorf("Error = %+v, want unknown_kind", p.Error)
	}
}

func TestCharts_UnknownCombination(t *testing.T) {
	h, store, _ := newTestHandler(t)
	ws := store.Create()

	rec := get(t, h, "/nope", ws.ID(), nil)
	rec.AssertStatus(t, http.StatusNotFound)
}

func TestCharts_NoWorkspace(t *testing.T) {
	h, _, _ := newTestHandler(t)

	rec := get(t, h, "/anything", "", nil)
	rec.AssertStatus(t, http.StatusNotFound)
}
