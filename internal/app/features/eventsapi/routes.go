package eventsapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dalemusser/epivigil/internal/app/system/apicors"
)

// Routes returns a router with the event catalog endpoints.
//
// When mounted at /api/events:
//   - GET /api/events?group_id= - paginated listing, filterable by group
//   - GET /api/events/{eventID} - single event
func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(apicors.Middleware())
	r.Get("/", h.ListHandler)
	r.Get("/{eventID}", h.GetHandler)
	return r
}
