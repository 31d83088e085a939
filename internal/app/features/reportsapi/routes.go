package reportsapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns a chi.Router with report routes mounted.
func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Post("/", h.GenerateHandler)
	r.Get("/{reportHandle}", h.GetHandler)
	return r
}
