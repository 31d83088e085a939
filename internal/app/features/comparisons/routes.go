package comparisons

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns a router with the comparison workspace endpoints.
//
// When mounted at /api/workspace:
//   - POST   /api/workspace - create a workspace for the viewer
//   - GET    /api/workspace/current - full workspace state
//   - PUT    /api/workspace/current/date-range - apply the epi-week pickers
//   - POST   /api/workspace/current/combinations - save a combination
//   - DELETE /api/workspace/current/combinations - clear the list
//   - PUT    /api/workspace/current/combinations/{id} - update in place
//   - DELETE /api/workspace/current/combinations/{id} - remove
//   - POST   /api/workspace/current/combinations/{id}/duplicate
//   - POST   /api/workspace/current/combinations/{id}/edit - start editing
//   - GET    /api/workspace/current/edit - edit session state
//   - POST   /api/workspace/current/edit/cancel - abandon the edit
//   - PUT    /api/workspace/current/draft - replace the uncommitted draft
//
// The caller's workspace is resolved through the viewer cookie; the cookie
// middleware must be installed upstream.
func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Post("/", h.CreateWorkspaceHandler)

	r.Route("/current", func(cr chi.Router) {
		cr.Get("/", h.CurrentWorkspaceHandler)
		cr.Put("/date-range", h.DateRangeHandler)

		cr.Route("/combinations", func(cc chi.Router) {
			cc.Post("/", h.AddCombinationHandler)
			cc.Delete("/", h.ClearCombinationsHandler)
			cc.Put("/{combinationID}", h.UpdateCombinationHandler)
			cc.Delete("/{combinationID}", h.RemoveCombinationHandler)
			cc.Post("/{combinationID}/duplicate", h.DuplicateCombinationHandler)
			cc.Post("/{combinationID}/edit", h.StartEditHandler)
		})

		cr.Get("/edit", h.EditStateHandler)
		cr.Post("/edit/cancel", h.CancelEditHandler)
		cr.Put("/draft", h.DraftHandler)
	})

	return r
}
