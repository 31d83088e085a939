package reportstore

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/dalemusser/epivigil/internal/domain/models"
	"github.com/dalemusser/epivigil/internal/testutil"
)

func sampleReport(createdAt time.Time) models.Report {
	return models.Report{
		Handle:      uuid.NewString(),
		StoragePath: "reports/sample.csv",
		URL:         "https://cdn.example.com/reports/sample.csv",
		CreatedAt:   createdAt,
		Combinations: []models.FilterCombination{
			{ID: uuid.NewString(), GroupName: "Vectoriales", Label: "Dengue confirmados", Color: "#1f77b4"},
		},
	}
}

func TestCreateAndGetByHandle(t *testing.T) {
	db := testutil.SetupTestDB(t)
	s := New(db)

	ctx, cancel := testutil.TestContext()
	defer cancel()

	want := sampleReport(time.Now().UTC().Truncate(time.Millisecond))
	if err := s.Create(ctx, want); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	got, err := s.GetByHandle(ctx, want.Handle)
	if err != nil {
		t.Fatalf("GetByHandle() error = %v", err)
	}
	if got.StoragePath != want.StoragePath || got.URL != want.URL {
		t.Errorf("GetByHandle() = %+v, want %+v", got, want)
	}
	if len(got.Combinations) != 1 || got.Combinations[0].Label != "Dengue confirmados" {
		t.Errorf("combination snapshot not preserved: %+v", got.Combinations)
	}
}

func TestGetByHandle_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	s := New(db)

	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := s.GetByHandle(ctx, uuid.NewString())
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByHandle(unknown) error = %v, want ErrNotFound", err)
	}
}

func TestListOlderThan(t *testing.T) {
	db := testutil.SetupTestDB(t)
	s := New(db)

	ctx, cancel := testutil.TestContext()
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	old1 := sampleReport(now.Add(-72 * time.Hour))
	old2 := sampleReport(now.Add(-48 * time.Hour))
	fresh := sampleReport(now)
	for _, r := range []models.Report{fresh, old1, old2} {
		if err := s.Create(ctx, r); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	got, err := s.ListOlderThan(ctx, now.Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("ListOlderThan() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d reports, want 2", len(got))
	}
	// Oldest first.
	if got[0].Handle != old1.Handle || got[1].Handle != old2.Handle {
		t.Errorf("order = [%s, %s], want oldest first", got[0].Handle, got[1].Handle)
	}
}

func TestDelete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	s := New(db)

	ctx, cancel := testutil.TestContext()
	defer cancel()

	r := sampleReport(time.Now().UTC())
	if err := s.Create(ctx, r); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := s.Delete(ctx, r.Handle); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := s.GetByHandle(ctx, r.Handle); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByHandle after delete error = %v, want ErrNotFound", err)
	}

	// Deleting an unknown handle is a no-op.
	if err := s.Delete(ctx, uuid.NewString()); err != nil {
		t.Errorf("Delete(unknown) error = %v, want nil", err)
	}
}
