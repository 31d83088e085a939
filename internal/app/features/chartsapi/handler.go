// Package chartsapi builds chart payloads for comparison columns. Each saved
// combination plus the workspace's shared date range becomes a case query,
// and each chart kind maps to one aggregation over the cases collection.
//
// Endpoints:
//   - GET /api/charts/{combinationID} - all chart kinds for one combination
//   - GET /api/charts/{combinationID}/{kind} - a single chart
//
// A failing aggregation produces a structured error payload for that card
// only; the remaining cards still carry data.
package chartsapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	casestore "github.com/dalemusser/epivigil/internal/app/store/cases"
	workspacestore "github.com/dalemusser/epivigil/internal/app/store/workspaces"
	"github.com/dalemusser/epivigil/internal/app/system/jsonutil"
	"github.com/dalemusser/epivigil/internal/app/system/metrics"
	"github.com/dalemusser/epivigil/internal/app/system/timeouts"
	"github.com/dalemusser/epivigil/internal/app/system/viewer"
	"github.com/dalemusser/epivigil/internal/domain/models"
)

// Handler handles chart data requests.
type Handler struct {
	workspaces *workspacestore.Store
	cases      *casestore.Store
	logger     *zap.Logger
}

// NewHandler creates a chartsapi handler.
func NewHandler(ws *workspacestore.Store, db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		workspaces: ws,
		cases:      casestore.New(db),
		logger:     logger,
	}
}

func (h *Handler) combination(r *http.Request) (models.FilterCombination, models.DateRange, bool) {
	v := viewer.FromContext(r.Context())
	if v == nil || v.WorkspaceID == "" {
		return models.FilterCombination{}, models.DateRange{}, false
	}
	ws := h.workspaces.Get(v.WorkspaceID)
	if ws == nil {
		return models.FilterCombination{}, models.DateRange{}, false
	}
	fc, ok := ws.Combination(chi.URLParam(r, "combinationID"))
	if !ok {
		return models.FilterCombination{}, models.DateRange{}, false
	}
	return fc, ws.DateRange(), true
}

func queryFor(fc models.FilterCombination, dr models.DateRange) casestore.Query {
	q := casestore.Query{
		EventIDs:        fc.EventIDs,
		Classifications: fc.Clasificaciones,
		From:            dr.From,
		To:              dr.To,
	}
	if fc.GroupID != nil {
		q.GroupID = *fc.GroupID
	}
	return q
}

// AllChartsHandler handles GET /api/charts/{combinationID}.
func (h *Handler) AllChartsHandler(w http.ResponseWriter, r *http.Request) {
	fc, dr, ok := h.combination(r)
	if !ok {
		jsonutil.NotFound(w, "Combination not found")
		return
	}

	payloads := make([]ChartPayload, 0, len(AllKinds))
	for _, kind := range AllKinds {
		payloads = append(payloads, h.build(r, kind, fc, dr))
	}
	jsonutil.OK(w, payloads)
}

// OneChartHandler handles GET /api/charts/{combinationID}/{kind}.
func (h *Handler) OneChartHandler(w http.ResponseWriter, r *http.Request) {
	fc, dr, ok := h.combination(r)
	if !ok {
		jsonutil.NotFound(w, "Combination not found")
		return
	}
	jsonutil.OK(w, h.build(r, chi.URLParam(r, "kind"), fc, dr))
}

// build runs the aggregation behind one chart kind and wraps the result (or
// failure) in a payload.
func (h *Handler) build(r *http.Request, kind string, fc models.FilterCombination, dr models.DateRange) ChartPayload {
	p := ChartPayload{
		Kind:          kind,
		CombinationID: fc.ID,
		Label:         fc.DisplayName(),
		Color:         fc.Color,
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.logger, "build chart "+kind)
	defer cancel()

	q := queryFor(fc, dr)

	var (
		data any
		size int
		err  error
	)
	switch kind {
	case KindLine, KindArea:
		var series []casestore.WeekCount
		series, err = h.cases.WeeklySeries(ctx, q)
		data, size = series, len(series)
	case KindBar, KindPie:
		var slices []casestore.ClassificationCount
		slices, err = h.cases.ClassificationBreakdown(ctx, q)
		data, size = slices, len(slices)
	case KindAgePyramid:
		var buckets []casestore.PyramidBucket
		buckets, err = h.cases.AgePyramid(ctx, q)
		data, size = buckets, len(buckets)
	case KindChoroplethMap:
		var regions []casestore.RegionCount
		regions, err = h.cases.RegionCounts(ctx, q)
		data, size = regions, len(regions)
	default:
		p.Error = unknownKindError(kind)
		metrics.ChartBuilds.WithLabelValues(kind, "unknown_kind").Inc()
		return p
	}

	if err != nil {
		h.logger.Error("chart aggregation failed",
			zap.String("kind", kind),
			zap.String("combination_id", fc.ID),
			zap.Error(err))
		p.Error = queryFailedError()
		metrics.ChartBuilds.WithLabelValues(kind, "error").Inc()
		return p
	}
	if size == 0 {
		p.Error = noDataError()
		metrics.ChartBuilds.WithLabelValues(kind, "no_data").Inc()
		return p
	}

	p.Data = data
	metrics.ChartBuilds.WithLabelValues(kind, "ok").Inc()
	return p
}
