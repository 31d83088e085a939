// Package comparisons exposes the comparison-workspace API: the shared
// epi-week date range, the filter-combination list and the single edit
// session. A workspace is in-memory state owned by one viewer; all endpoints
// except creation resolve the workspace through the viewer cookie.
package comparisons

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	eventstore "github.com/dalemusser/epivigil/internal/app/store/events"
	groupstore "github.com/dalemusser/epivigil/internal/app/store/groups"
	workspacestore "github.com/dalemusser/epivigil/internal/app/store/workspaces"
	"github.com/dalemusser/epivigil/internal/app/system/epiweek"
	"github.com/dalemusser/epivigil/internal/app/system/htmlsanitize"
	"github.com/dalemusser/epivigil/internal/app/system/jsonutil"
	"github.com/dalemusser/epivigil/internal/app/system/timeouts"
	"github.com/dalemusser/epivigil/internal/app/system/viewer"
	"github.com/dalemusser/epivigil/internal/domain/models"
)

// Handler handles comparison workspace requests.
type Handler struct {
	workspaces *workspacestore.Store
	groups     *groupstore.Store
	events     *eventstore.Store
	viewers    *viewer.Manager
	logger     *zap.Logger
}

// NewHandler creates a comparisons handler.
func NewHandler(ws *workspacestore.Store, db *mongo.Database, viewers *viewer.Manager, logger *zap.Logger) *Handler {
	return &Handler{
		workspaces: ws,
		groups:     groupstore.New(db),
		events:     eventstore.New(db),
		viewers:    viewers,
		logger:     logger,
	}
}

// workspace resolves the caller's workspace via the viewer cookie. Returns
// nil when the viewer has no live workspace (never created, or evicted).
func (h *Handler) workspace(r *http.Request) *workspacestore.Workspace {
	v := viewer.FromContext(r.Context())
	if v == nil || v.WorkspaceID == "" {
		return nil
	}
	return h.workspaces.Get(v.WorkspaceID)
}

func (h *Handler) state(ws *workspacestore.Workspace) workspaceState {
	st := workspaceState{
		ID:           ws.ID(),
		DateRange:    ws.DateRange(),
		Combinations: ws.Combinations(),
		Editing:      ws.EditingCombination(),
		Draft:        ws.DraftFilter(),
	}
	if st.DateRange.From != nil {
		w := epiweek.Of(*st.DateRange.From)
		st.StartWeek = &w
	}
	if st.DateRange.To != nil {
		w := epiweek.Of(*st.DateRange.To)
		st.EndWeek = &w
	}
	return st
}

// CreateWorkspaceHandler handles POST /api/workspace. It creates a fresh
// workspace, binds it to the viewer cookie (replacing any previous binding)
// and returns the empty state.
func (h *Handler) CreateWorkspaceHandler(w http.ResponseWriter, r *http.Request) {
	ws := h.workspaces.Create()
	if err := h.viewers.BindWorkspace(w, r, ws.ID()); err != nil {
		h.logger.Error("failed to bind workspace to viewer", zap.Error(err))
		h.workspaces.Remove(ws.ID())
		jsonutil.InternalError(w, "Failed to create workspace")
		return
	}
	jsonutil.Created(w, h.state(ws))
}

// CurrentWorkspaceHandler handles GET /api/workspace/current.
func (h *Handler) CurrentWorkspaceHandler(w http.ResponseWriter, r *http.Request) {
	ws := h.workspace(r)
	if ws == nil {
		jsonutil.NotFound(w, "No active workspace")
		return
	}
	jsonutil.OK(w, h.state(ws))
}

// DateRangeHandler handles PUT /api/workspace/current/date-range.
//
// The body carries the clicked calendar dates of the two pickers. Picker
// policy: a start week after the current end clears the end; an end week
// before the start is refused and reported as end_rejected without touching
// the stored range's end.
func (h *Handler) DateRangeHandler(w http.ResponseWriter, r *http.Request) {
	ws := h.workspace(r)
	if ws == nil {
		jsonutil.NotFound(w, "No active workspace")
		return
	}

	var in dateRangeInput
	if err := jsonutil.Decode(r, &in); err != nil {
		jsonutil.BadRequest(w, "Invalid JSON payload")
		return
	}

	if in.Clear {
		ws.SetDateRange(models.DateRange{})
		jsonutil.OK(w, dateRangeResult{})
		return
	}

	// Rebuild the picker from the stored range so policy applies across
	// requests, not just within one.
	var p epiweek.RangePicker
	cur := ws.DateRange()
	if cur.From != nil {
		p.PickStart(*cur.From)
	}
	if cur.To != nil {
		p.PickEnd(*cur.To)
	}

	if in.StartDate != "" {
		d, err := time.Parse("2006-01-02", in.StartDate)
		if err != nil {
			jsonutil.BadRequest(w, "start_date must be YYYY-MM-DD")
			return
		}
		p.PickStart(d)
	}

	rejected := false
	if in.EndDate != "" {
		d, err := time.Parse("2006-01-02", in.EndDate)
		if err != nil {
			jsonutil.BadRequest(w, "end_date must be YYYY-MM-DD")
			return
		}
		_, ok := p.PickEnd(d)
		rejected = !ok
	}

	ws.SetDateRange(p.Range())

	res := dateRangeResult{DateRange: p.Range(), EndRejected: rejected}
	if sw := p.Start(); !sw.IsZero() {
		res.StartWeek = &sw
	}
	if ew := p.End(); !ew.IsZero() {
		res.EndWeek = &ew
	}
	jsonutil.OK(w, res)
}

// resolveDraft validates a combination input against the reference catalog
// and produces a draft: the label sanitized, classifications parsed and event
// membership checked. When expand is true (committing a save), an empty
// selection is additionally expanded to the group's full event list with the
// all-events sentinel; drafts keep the empty selection, since "all events" is
// only pinned down at save time.
//
// The returned message is a client-facing validation error; it is empty when
// the draft is usable.
func (h *Handler) resolveDraft(r *http.Request, in combinationInput, expand bool) (models.DraftFilter, string, error) {
	var d models.DraftFilter

	classes, bad := models.ParseClassifications(in.Classifications)
	if bad != "" {
		return d, "Unknown classification: " + bad, nil
	}
	d.Clasificaciones = classes
	d.Label = htmlsanitize.Label(in.Label)

	if in.GroupID == "" {
		if len(in.EventIDs) > 0 {
			return d, "Events require a group", nil
		}
		if expand {
			// A committed combination always carries a group; only drafts
			// may be group-less while the builder is open.
			return d, "A group is required", nil
		}
		return d, "", nil
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.logger, "resolve draft")
	defer cancel()

	g, err := h.groups.GetByID(ctx, in.GroupID)
	if err != nil {
		if err == groupstore.ErrNotFound {
			return d, "Unknown group", nil
		}
		return d, "", err
	}
	groupID := in.GroupID
	d.GroupID = &groupID
	d.GroupName = g.Name

	groupEvents, err := h.events.ListAllForGroup(ctx, in.GroupID)
	if err != nil {
		return d, "", err
	}

	if len(in.EventIDs) == 0 {
		if expand {
			return workspacestore.ResolveSelection(d, groupEvents), "", nil
		}
		return d, "", nil
	}

	// Explicit selection: every id must belong to the chosen group.
	byID := make(map[string]models.Event, len(groupEvents))
	for _, e := range groupEvents {
		byID[e.ID] = e
	}
	for _, id := range in.EventIDs {
		e, ok := byID[id]
		if !ok {
			return d, "Event does not belong to group: " + id, nil
		}
		d.EventIDs = append(d.EventIDs, e.ID)
		d.EventNames = append(d.EventNames, e.Name)
	}
	return d, "", nil
}

// AddCombinationHandler handles POST /api/workspace/current/combinations.
func (h *Handler) AddCombinationHandler(w http.ResponseWriter, r *http.Request) {
	ws := h.workspace(r)
	if ws == nil {
		jsonutil.NotFound(w, "No active workspace")
		return
	}

	var in combinationInput
	if err := jsonutil.Decode(r, &in); err != nil {
		jsonutil.BadRequest(w, "Invalid JSON payload")
		return
	}

	d, msg, err := h.resolveDraft(r, in, true)
	if err != nil {
		h.logger.Error("failed to resolve combination draft", zap.Error(err))
		jsonutil.InternalError(w, "Failed to resolve selection")
		return
	}
	if msg != "" {
		jsonutil.BadRequest(w, msg)
		return
	}

	fc := ws.AddFilterCombination(d)
	jsonutil.Created(w, fc)
}

// UpdateCombinationHandler handles PUT /api/workspace/current/combinations/{id}.
// The combination keeps its id and color; only the filter fields change.
func (h *Handler) UpdateCombinationHandler(w http.ResponseWriter, r *http.Request) {
	ws := h.workspace(r)
	if ws == nil {
		jsonutil.NotFound(w, "No active workspace")
		return
	}

	var in combinationInput
	if err := jsonutil.Decode(r, &in); err != nil {
		jsonutil.BadRequest(w, "Invalid JSON payload")
		return
	}

	d, msg, err := h.resolveDraft(r, in, true)
	if err != nil {
		h.logger.Error("failed to resolve combination draft", zap.Error(err))
		jsonutil.InternalError(w, "Failed to resolve selection")
		return
	}
	if msg != "" {
		jsonutil.BadRequest(w, msg)
		return
	}

	fc, ok := ws.UpdateFilterCombination(chi.URLParam(r, "combinationID"), d)
	if !ok {
		jsonutil.NotFound(w, "Combination not found")
		return
	}
	jsonutil.OK(w, fc)
}

// RemoveCombinationHandler handles DELETE /api/workspace/current/combinations/{id}.
// Removing an unknown id is a no-op; the delete is idempotent.
func (h *Handler) RemoveCombinationHandler(w http.ResponseWriter, r *http.Request) {
	ws := h.workspace(r)
	if ws == nil {
		jsonutil.NotFound(w, "No active workspace")
		return
	}
	ws.RemoveFilterCombination(chi.URLParam(r, "combinationID"))
	jsonutil.NoContent(w)
}

// DuplicateCombinationHandler handles POST /api/workspace/current/combinations/{id}/duplicate.
func (h *Handler) DuplicateCombinationHandler(w http.ResponseWriter, r *http.Request) {
	ws := h.workspace(r)
	if ws == nil {
		jsonutil.NotFound(w, "No active workspace")
		return
	}
	fc, ok := ws.DuplicateFilterCombination(chi.URLParam(r, "combinationID"))
	if !ok {
		jsonutil.NotFound(w, "Combination not found")
		return
	}
	jsonutil.Created(w, fc)
}

// ClearCombinationsHandler handles DELETE /api/workspace/current/combinations.
func (h *Handler) ClearCombinationsHandler(w http.ResponseWriter, r *http.Request) {
	ws := h.workspace(r)
	if ws == nil {
		jsonutil.NotFound(w, "No active workspace")
		return
	}
	ws.ClearFilterCombinations()
	jsonutil.NoContent(w)
}

// StartEditHandler handles POST /api/workspace/current/combinations/{id}/edit.
// Starting an edit on an unknown id changes nothing and reports not found.
func (h *Handler) StartEditHandler(w http.ResponseWriter, r *http.Request) {
	ws := h.workspace(r)
	if ws == nil {
		jsonutil.NotFound(w, "No active workspace")
		return
	}

	id := chi.URLParam(r, "combinationID")
	ws.StartEditingCombination(id)

	editing := ws.EditingCombination()
	if editing == nil || editing.ID != id {
		jsonutil.NotFound(w, "Combination not found")
		return
	}
	jsonutil.OK(w, map[string]any{
		"editing": editing,
		"draft":   ws.DraftFilter(),
	})
}

// EditStateHandler handles GET /api/workspace/current/edit.
func (h *Handler) EditStateHandler(w http.ResponseWriter, r *http.Request) {
	ws := h.workspace(r)
	if ws == nil {
		jsonutil.NotFound(w, "No active workspace")
		return
	}
	jsonutil.OK(w, map[string]any{
		"editing": ws.EditingCombination(),
		"draft":   ws.DraftFilter(),
	})
}

// CancelEditHandler handles POST /api/workspace/current/edit/cancel.
func (h *Handler) CancelEditHandler(w http.ResponseWriter, r *http.Request) {
	ws := h.workspace(r)
	if ws == nil {
		jsonutil.NotFound(w, "No active workspace")
		return
	}
	ws.CancelEditing()
	jsonutil.NoContent(w)
}

// DraftHandler handles PUT /api/workspace/current/draft. It replaces the
// uncommitted draft. When the draft's group differs from the previous one,
// the event selection is reset: events belong to exactly one group, so a
// stale selection can never survive a group change.
func (h *Handler) DraftHandler(w http.ResponseWriter, r *http.Request) {
	ws := h.workspace(r)
	if ws == nil {
		jsonutil.NotFound(w, "No active workspace")
		return
	}

	var in combinationInput
	if err := jsonutil.Decode(r, &in); err != nil {
		jsonutil.BadRequest(w, "Invalid JSON payload")
		return
	}

	if prev := ws.DraftFilter(); prev != nil && groupChanged(prev.GroupID, in.GroupID) {
		in.EventIDs = nil
	}

	d, msg, err := h.resolveDraft(r, in, false)
	if err != nil {
		h.logger.Error("failed to resolve draft", zap.Error(err))
		jsonutil.InternalError(w, "Failed to resolve selection")
		return
	}
	if msg != "" {
		jsonutil.BadRequest(w, msg)
		return
	}

	ws.SetDraftFilter(&d)
	jsonutil.OK(w, ws.DraftFilter())
}

func groupChanged(prev *string, next string) bool {
	if prev == nil {
		return next != ""
	}
	return *prev != next
}
