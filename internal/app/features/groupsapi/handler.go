// Package groupsapi serves the event-group reference catalog.
//
// Endpoints:
//   - GET /api/groups - paginated group listing with name search
//   - GET /api/groups/{groupID} - single group
//
// Responses echo the search term they were computed for so a client typing
// ahead can discard pages that no longer match its input.
package groupsapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	groupstore "github.com/dalemusser/epivigil/internal/app/store/groups"
	"github.com/dalemusser/epivigil/internal/app/system/jsonutil"
	"github.com/dalemusser/epivigil/internal/app/system/timeouts"
)

// DefaultPerPage is the page size when the client does not ask for one.
const DefaultPerPage = 20

// MaxPerPage caps client-requested page sizes.
const MaxPerPage = 100

// Handler handles group catalog requests.
type Handler struct {
	groups *groupstore.Store
	logger *zap.Logger
}

// NewHandler creates a groupsapi handler.
func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		groups: groupstore.New(db),
		logger: logger,
	}
}

// ListHandler handles GET /api/groups?search=&page=&per_page=.
func (h *Handler) ListHandler(w http.ResponseWriter, r *http.Request) {
	search := r.URL.Query().Get("search")
	page, perPage := PageParams(r)

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.logger, "list groups")
	defer cancel()

	result, err := h.groups.List(ctx, search, page, perPage)
	if err != nil {
		h.logger.Error("failed to list groups",
			zap.String("search", search),
			zap.Int64("page", page),
			zap.Error(err))
		jsonutil.InternalError(w, "Failed to load groups")
		return
	}
	jsonutil.OK(w, result)
}

// GetHandler handles GET /api/groups/{groupID}.
func (h *Handler) GetHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "groupID")

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.logger, "get group")
	defer cancel()

	g, err := h.groups.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, groupstore.ErrNotFound) {
			jsonutil.NotFound(w, "Group not found")
			return
		}
		h.logger.Error("failed to load group", zap.String("group_id", id), zap.Error(err))
		jsonutil.InternalError(w, "Failed to load group")
		return
	}
	jsonutil.OK(w, g)
}

// PageParams reads page and per_page query parameters with defaults and caps.
func PageParams(r *http.Request) (page, perPage int64) {
	page = 1
	perPage = DefaultPerPage
	if v := r.URL.Query().Get("page"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			page = n
		}
	}
	if v := r.URL.Query().Get("per_page"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			perPage = n
			if perPage > MaxPerPage {
				perPage = MaxPerPage
			}
		}
	}
	return page, perPage
}
