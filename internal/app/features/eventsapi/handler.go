// Package eventsapi serves the notifiable-event reference catalog.
//
// Endpoints:
//   - GET /api/events - paginated event listing, filterable by group
//   - GET /api/events/{eventID} - single event
//
// Like the group catalog, listings echo the search term for stale-response
// discarding on the client.
package eventsapi

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/dalemusser/epivigil/internal/app/features/groupsapi"
	eventstore "github.com/dalemusser/epivigil/internal/app/store/events"
	"github.com/dalemusser/epivigil/internal/app/system/jsonutil"
	"github.com/dalemusser/epivigil/internal/app/system/timeouts"
)

// Handler handles event catalog requests.
type Handler struct {
	events *eventstore.Store
	logger *zap.Logger
}

// NewHandler creates an eventsapi handler.
func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		events: eventstore.New(db),
		logger: logger,
	}
}

// ListHandler handles GET /api/events?group_id=&search=&page=&per_page=.
// An empty group_id lists events across all groups.
func (h *Handler) ListHandler(w http.ResponseWriter, r *http.Request) {
	groupID := r.URL.Query().Get("group_id")
	search := r.URL.Query().Get("search")
	page, perPage := groupsapi.PageParams(r)

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.logger, "list events")
	defer cancel()

	result, err := h.events.List(ctx, groupID, search, page, perPage)
	if err != nil {
		h.logger.Error("failed to list events",
			zap.String("group_id", groupID),
			zap.String("search", search),
			zap.Error(err))
		jsonutil.InternalError(w, "Failed to load events")
		return
	}
	jsonutil.OK(w, result)
}

// GetHandler handles GET /api/events/{eventID}.
func (h *Handler) GetHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "eventID")

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.logger, "get event")
	defer cancel()

	e, err := h.events.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, eventstore.ErrNotFound) {
			jsonutil.NotFound(w, "Event not found")
			return
		}
		h.logger.Error("failed to load event", zap.String("event_id", id), zap.Error(err))
		jsonutil.InternalError(w, "Failed to load event")
		return
	}
	jsonutil.OK(w, e)
}
