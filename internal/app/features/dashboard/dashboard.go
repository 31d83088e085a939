// Package dashboard serves the comparison dashboard shell. The page is a
// single HTML surface; everything interactive on it talks to the JSON APIs
// under /api, so the handler's job is just to render the shell with the
// static vocabulary the front end needs (classification tags, palette).
package dashboard

import (
	"net/http"

	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	workspacestore "github.com/dalemusser/epivigil/internal/app/store/workspaces"
	"github.com/dalemusser/epivigil/internal/app/system/viewdata"
	"github.com/dalemusser/epivigil/internal/domain/models"
)

// Handler provides dashboard handlers.
type Handler struct {
	logger *zap.Logger
}

// NewHandler creates a dashboard Handler.
func NewHandler(logger *zap.Logger) *Handler {
	return &Handler{logger: logger}
}

// TagVM is one classification tag offered by the filter builder.
type TagVM struct {
	Value string
	Label string
}

// DashboardVM is the view model for the dashboard shell.
type DashboardVM struct {
	viewdata.BaseVM
	Palette         []string
	Classifications []TagVM
}

// Routes returns a chi.Router with dashboard routes mounted.
func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.Index)
	return r
}

// Index renders the dashboard shell.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	vm := DashboardVM{
		BaseVM:  viewdata.New(r),
		Palette: workspacestore.Palette,
	}
	vm.Title = "Comparaciones"

	for _, c := range models.AllClassifications {
		vm.Classifications = append(vm.Classifications, TagVM{
			Value: string(c),
			Label: c.Label(),
		})
	}

	templates.Render(w, r, "dashboard/index", vm)
}
