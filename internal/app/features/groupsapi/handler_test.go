package groupsapi

import (
	"encoding/json"
	"net/http"
	"testing"

	groupstore "github.com/dalemusser/epivigil/internal/app/store/groups"
	"github.com/dalemusser/epivigil/internal/domain/models"
	"github.com/dalemusser/epivigil/internal/testutil"
	"go.uber.org/zap"
)

func seed(t *testing.T, s *groupstore.Store) {
	t.Helper()
	ctx, cancel := testutil.TestContext()
	defer cancel()
	for _, g := range []models.Group{
		{ID: "grp-vec", Name: "Enfermedades vectoriales"},
		{ID: "grp-resp", Name: "Infecciones respiratorias"},
		{ID: "grp-zoo", Name: "Zoonosis"},
	} {
		if err := s.Put(ctx, g); err != nil {
			t.Fatalf("Put() error = %v", err)
		}
	}
}

func TestListHandler(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := NewHandler(db, zap.NewNop())
	seed(t, h.groups)

	req := testutil.NewRequest(http.MethodGet, "/?search=zoo")
	rec := testutil.NewRecorder()
	h.ListHandler(rec, req)

	rec.AssertStatus(t, http.StatusOK)

	var page groupstore.Page
	if err := json.NewDecoder(rec.Body).Decode(&page); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if page.Total != 1 {
		t.Errorf("Total = %d, want 1", page.Total)
	}
	if page.Search != "zoo" {
		t.Errorf("Search echo = %q, want %q", page.Search, "zoo")
	}
	if len(page.Items) != 1 || page.Items[0].ID != "grp-zoo" {
		t.Errorf("Items = %+v, want only grp-zoo", page.Items)
	}
}

func TestListHandler_Paginates(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := NewHandler(db, zap.NewNop())
	seed(t, h.groups)

	req := testutil.NewRequest(http.MethodGet, "/?page=2&per_page=2")
	rec := testutil.NewRecorder()
	h.ListHandler(rec, req)

	rec.AssertStatus(t, http.StatusOK)

	var page groupstore.Page
	if err := json.NewDecoder(rec.Body).Decode(&page); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if page.Total != 3 {
		t.Errorf("Total = %d, want 3", page.Total)
	}
	if len(page.Items) != 1 {
		t.Errorf("page 2 has %d items, want 1", len(page.Items))
	}
}

func TestGetHandler_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := NewHandler(db, zap.NewNop())

	req := testutil.NewRequest(http.MethodGet, "/grp-missing")
	rec := testutil.NewRecorder()

	router := Routes(h)
	router.ServeHTTP(rec.ResponseRecorder, req)

	rec.AssertStatus(t, http.StatusNotFound)
}

func TestRoutes_Get(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := NewHandler(db, zap.NewNop())
	seed(t, h.groups)

	req := testutil.NewRequest(http.MethodGet, "/grp-vec")
	rec := testutil.NewRecorder()

	router := Routes(h)
	router.ServeHTTP(rec.ResponseRecorder, req)

	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, "Enfermedades vectoriales")
}

func TestPageParams(t *testing.T) {
	tests := []struct {
		name        string
		url         string
		wantPage    int64
		wantPerPage int64
	}{
		{"defaults", "/", 1, DefaultPerPage},
		{"explicit", "/?page=3&per_page=50", 3, 50},
		{"capped", "/?per_page=1000", 1, MaxPerPage},
		{"invalid ignored", "/?page=abc&per_page=-2", 1, DefaultPerPage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.NewRequest(http.MethodGet, tt.url)
			page, perPage := PageParams(req)
			if page != tt.wantPage || perPage != tt.wantPerPage {
				t.Errorf("PageParams() = (%d, %d), want (%d, %d)",
					page, perPage, tt.wantPage, tt.wantPerPage)
			}
		})
	}
}
