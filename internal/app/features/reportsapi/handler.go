// Package reportsapi generates downloadable comparison reports. A report is
// a point-in-time export of the viewer's workspace: the shared date range and
// every saved filter combination, flattened into a CSV of weekly case counts.
// The artifact lives in file storage; the database keeps a record with a
// handle the client can use to re-fetch the URL later.
package reportsapi

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dalemusser/waffle/pantry/storage"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	errorsfeature "github.com/dalemusser/epivigil/internal/app/features/errors"
	casestore "github.com/dalemusser/epivigil/internal/app/store/cases"
	eventstore "github.com/dalemusser/epivigil/internal/app/store/events"
	reportstore "github.com/dalemusser/epivigil/internal/app/store/reports"
	workspacestore "github.com/dalemusser/epivigil/internal/app/store/workspaces"
	"github.com/dalemusser/epivigil/internal/app/system/jsonutil"
	"github.com/dalemusser/epivigil/internal/app/system/refloader"
	"github.com/dalemusser/epivigil/internal/app/system/metrics"
	"github.com/dalemusser/epivigil/internal/app/system/timeouts"
	"github.com/dalemusser/epivigil/internal/app/system/viewer"
	"github.com/dalemusser/epivigil/internal/domain/models"
)

// Handler provides report generation and retrieval handlers.
type Handler struct {
	workspaces *workspacestore.Store
	cases      *casestore.Store
	events     *eventstore.Store
	reports    *reportstore.Store
	storage    storage.Store
	errLog     *errorsfeature.ErrorLogger
	logger     *zap.Logger
}

// NewHandler creates a reports Handler.
func NewHandler(ws *workspacestore.Store, db *mongo.Database, st storage.Store, errLog *errorsfeature.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		workspaces: ws,
		cases:      casestore.New(db),
		events:     eventstore.New(db),
		reports:    reportstore.New(db),
		storage:    st,
		errLog:     errLog,
		logger:     logger,
	}
}

// eventCatalogPageSize is the page size used when a report pages through the
// event catalog to expand an all-events combination.
const eventCatalogPageSize = 100

// GenerateResponse is the body returned after a successful generation.
type GenerateResponse struct {
	ReportHandle string `json:"report_handle"`
	URL          string `json:"url"`
}

// GenerateHandler snapshots the viewer's workspace and writes the report
// artifact. The workspace must have at least one saved combination.
func (h *Handler) GenerateHandler(w http.ResponseWriter, r *http.Request) {
	v := viewer.FromContext(r.Context())
	if v == nil || v.WorkspaceID == "" {
		jsonutil.NotFound(w, "No workspace")
		return
	}
	ws := h.workspaces.Get(v.WorkspaceID)
	if ws == nil {
		jsonutil.NotFound(w, "No workspace")
		return
	}

	combos := ws.Combinations()
	if len(combos) == 0 {
		jsonutil.BadRequest(w, "Workspace has no combinations to report")
		return
	}
	dateRange := ws.DateRange()

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.logger, "generate report")
	defer cancel()

	body, err := h.renderCSV(ctx, combos, dateRange)
	if err != nil {
		metrics.ReportsGenerated.WithLabelValues("error").Inc()
		h.errLog.Log(r, "report query failed", err)
		jsonutil.InternalError(w, "Failed to generate report")
		return
	}

	handle := uuid.New().String()
	now := time.Now().UTC()
	path := fmt.Sprintf("reports/%04d/%02d/%s.csv", now.Year(), int(now.Month()), handle)

	opts := &storage.PutOptions{ContentType: "text/csv; charset=utf-8"}
	if err := h.storage.Put(ctx, path, bytes.NewReader(body), opts); err != nil {
		metrics.ReportsGenerated.WithLabelValues("error").Inc()
		h.errLog.LogWithFields(r, "report upload failed", err, zap.String("path", path))
		jsonutil.InternalError(w, "Failed to store report")
		return
	}

	rec := models.Report{
		Handle:       handle,
		DateRange:    dateRange,
		Combinations: combos,
		StoragePath:  path,
		URL:          h.storage.URL(path),
		CreatedAt:    now,
	}
	if err := h.reports.Create(ctx, rec); err != nil {
		// Orphaned artifacts are swept by the cleanup task eventually, but
		// removing it now keeps storage tidy on the common failure path.
		_ = h.storage.Delete(ctx, path)
		metrics.ReportsGenerated.WithLabelValues("error").Inc()
		h.errLog.Log(r, "report record failed", err)
		jsonutil.InternalError(w, "Failed to save report")
		return
	}

	metrics.ReportsGenerated.WithLabelValues("ok").Inc()
	jsonutil.Created(w, GenerateResponse{ReportHandle: handle, URL: rec.URL})
}

// GetHandler returns the stored record for a previously generated report.
func (h *Handler) GetHandler(w http.ResponseWriter, r *http.Request) {
	handle := chi.URLParam(r, "reportHandle")

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.logger, "get report")
	defer cancel()

	rec, err := h.reports.GetByHandle(ctx, handle)
	if err != nil {
		if errors.Is(err, reportstore.ErrNotFound) {
			jsonutil.NotFound(w, "Report not found")
			return
		}
		h.errLog.LogWithFields(r, "report lookup failed", err, zap.String("handle", handle))
		jsonutil.InternalError(w, "Failed to load report")
		return
	}
	jsonutil.OK(w, rec)
}

// renderCSV flattens every combination's weekly series into one CSV body.
// Rows are grouped by combination, weeks in chronological order.
func (h *Handler) renderCSV(ctx context.Context, combos []models.FilterCombination, dr models.DateRange) ([]byte, error) {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)

	if err := cw.Write([]string{"combinacion", "grupo", "eventos", "anio", "semana", "casos"}); err != nil {
		return nil, err
	}

	for _, fc := range combos {
		names, err := h.eventNames(ctx, fc)
		if err != nil {
			return nil, fmt.Errorf("events for %s: %w", fc.ID, err)
		}

		q := casestore.Query{
			EventIDs:        fc.EventIDs,
			Classifications: fc.Clasificaciones,
			From:            dr.From,
			To:              dr.To,
		}
		if fc.GroupID != nil {
			q.GroupID = *fc.GroupID
		}
		series, err := h.cases.WeeklySeries(ctx, q)
		if err != nil {
			return nil, fmt.Errorf("series for %s: %w", fc.ID, err)
		}
		for _, p := range series {
			row := []string{
				fc.DisplayName(),
				fc.GroupName,
				names,
				strconv.Itoa(p.Year),
				strconv.Itoa(p.Week),
				strconv.FormatInt(p.Count, 10),
			}
			if err := cw.Write(row); err != nil {
				return nil, err
			}
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// eventNames resolves the event names printed for a combination. Explicit
// selections use the names snapshotted at save time. All-events combinations
// instead page through the current event catalog with a reference loader, so
// the durable artifact spells out the concrete events the sentinel stood for
// at generation time.
func (h *Handler) eventNames(ctx context.Context, fc models.FilterCombination) (string, error) {
	allEvents := len(fc.EventNames) == 1 && fc.EventNames[0] == models.AllEventsSentinel
	if fc.GroupID == nil || !allEvents {
		return strings.Join(fc.EventNames, "; "), nil
	}

	loader := refloader.New(func(ctx context.Context, groupID string, page int) ([]models.Event, int, error) {
		p, err := h.events.List(ctx, groupID, "", int64(page), eventCatalogPageSize)
		if err != nil {
			return nil, 0, err
		}
		return p.Items, int(p.Total), nil
	}, h.logger)
	loader.SetTerm(*fc.GroupID)

	events, err := loader.LoadAll(ctx)
	if err != nil {
		return "", err
	}
	names := make([]string, 0, len(events))
	for _, e := range events {
		names = append(names, e.Name)
	}
	return strings.Join(names, "; "), nil
}
