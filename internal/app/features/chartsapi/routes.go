package chartsapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns a router with the chart data endpoints.
//
// When mounted at /api/charts:
//   - GET /api/charts/{combinationID} - every chart kind for the combination
//   - GET /api/charts/{combinationID}/{kind} - a single chart
//
// Combinations live in the caller's workspace, so the viewer cookie
// middleware must be installed upstream.
func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Get("/{combinationID}", h.AllChartsHandler)
	r.Get("/{combinationID}/{kind}", h.OneChartHandler)
	return r
}
