package groupsapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dalemusser/epivigil/internal/app/system/apicors"
)

// Routes returns a router with the group catalog endpoints.
//
// When mounted at /api/groups:
//   - GET /api/groups - paginated listing with search
//   - GET /api/groups/{groupID} - single group
//
// Reference data is public, so CORS is permissive and no viewer cookie is
// required.
func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(apicors.Middleware())
	r.Get("/", h.ListHandler)
	r.Get("/{groupID}", h.GetHandler)
	return r
}
