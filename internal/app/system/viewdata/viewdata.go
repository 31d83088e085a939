// Package viewdata builds the common view model embedded by every rendered
// page. The dashboard is a single-page surface, so the base VM is small: site
// identity, page context and the CSRF token for any form the shell carries.
package viewdata

import (
	"net/http"

	"github.com/dalemusser/waffle/pantry/httpnav"
	"github.com/gorilla/csrf"

	"github.com/dalemusser/epivigil/internal/app/system/viewer"
)

// SiteName is the fixed product name shown in the shell header and title.
const SiteName = "EpiVigil"

// BaseVM contains common fields for all view models. Embed it in
// feature-specific view models.
type BaseVM struct {
	SiteName    string
	Title       string
	CurrentPath string
	CSRFToken   string

	// ViewerID identifies the anonymous browser session, for debugging
	// overlays. Empty when the viewer middleware did not run.
	ViewerID string
}

// New creates a BaseVM for the current request.
func New(r *http.Request) BaseVM {
	vm := BaseVM{
		SiteName:    SiteName,
		CurrentPath: httpnav.CurrentPath(r),
		CSRFToken:   csrf.Token(r),
	}
	if v := viewer.FromContext(r.Context()); v != nil {
		vm.ViewerID = v.ID
	}
	return vm
}
