package casestore

import (
	"testing"
	"time"

	"github.com/dalemusser/epivigil/internal/domain/models"
	"github.com/dalemusser/epivigil/internal/testutil"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func caseAt(eventID, groupID string, class models.Classification, at time.Time) models.CaseRecord {
	return models.CaseRecord{
		EventID:        eventID,
		GroupID:        groupID,
		Classification: class,
		ReportedAt:     at,
		Age:            30,
		Sex:            "F",
		RegionCode:     "AR-B",
	}
}

func TestInsert_DerivesEpiWeek(t *testing.T) {
	db := testutil.SetupTestDB(t)
	s := New(db)

	ctx, cancel := testutil.TestContext()
	defer cancel()

	// 2024-07-10 (Wednesday) falls in epi week 28 of 2024.
	c := caseAt("evt-dengue", "grp-vec", models.ClassificationConfirmed, day(2024, time.July, 10))
	if err := s.Insert(ctx, c); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	series, err := s.WeeklySeries(ctx, Query{})
	if err != nil {
		t.Fatalf("WeeklySeries() error = %v", err)
	}
	if len(series) != 1 {
		t.Fatalf("got %d weeks, want 1", len(series))
	}
	if series[0].Year != 2024 || series[0].Week != 28 {
		t.Errorf("derived week = %d/%d, want 2024/28", series[0].Year, series[0].Week)
	}
}

func TestWeeklySeries_ChronologicalOrder(t *testing.T) {
	db := testutil.SetupTestDB(t)
	s := New(db)

	ctx, cancel := testutil.TestContext()
	defer cancel()

	err := s.InsertMany(ctx, []models.CaseRecord{
		caseAt("evt-dengue", "grp-vec", models.ClassificationConfirmed, day(2024, time.July, 17)),
		caseAt("evt-dengue", "grp-vec", models.ClassificationConfirmed, day(2024, time.July, 10)),
		caseAt("evt-dengue", "grp-vec", models.ClassificationConfirmed, day(2024, time.July, 10)),
		// Week 1 of 2025 starts 2024-12-29; year boundary ordering matters.
		caseAt("evt-dengue", "grp-vec", models.ClassificationConfirmed, day(2024, time.December, 30)),
	})
	if err != nil {
		t.Fatalf("InsertMany() error = %v", err)
	}

	series, err := s.WeeklySeries(ctx, Query{})
	if err != nil {
		t.Fatalf("WeeklySeries() error = %v", err)
	}
	if len(series) != 3 {
		t.Fatalf("got %d weeks, want 3", len(series))
	}
	if series[0].Week != 28 || series[0].Count != 2 {
		t.Errorf("first point = week %d count %d, want week 28 count 2", series[0].Week, series[0].Count)
	}
	if series[1].Week != 29 || series[1].Count != 1 {
		t.Errorf("second point = week %d count %d, want week 29 count 1", series[1].Week, series[1].Count)
	}
	if series[2].Year != 2025 || series[2].Week != 1 {
		t.Errorf("third point = %d/%d, want 2025/1", series[2].Year, series[2].Week)
	}
}

func TestCount_QueryFilters(t *testing.T) {
	db := testutil.SetupTestDB(t)
	s := New(db)

	ctx, cancel := testutil.TestContext()
	defer cancel()

	err := s.InsertMany(ctx, []models.CaseRecord{
		caseAt("evt-dengue", "grp-vec", models.ClassificationConfirmed, day(2024, time.July, 10)),
		caseAt("evt-dengue", "grp-vec", models.ClassificationSuspected, day(2024, time.July, 11)),
		caseAt("evt-zika", "grp-vec", models.ClassificationConfirmed, day(2024, time.July, 12)),
		caseAt("evt-eti", "grp-resp", models.ClassificationConfirmed, day(2024, time.August, 1)),
	})
	if err != nil {
		t.Fatalf("InsertMany() error = %v", err)
	}

	tests := []struct {
		name string
		q    Query
		want int64
	}{
		{"no filter", Query{}, 4},
		{"by group", Query{GroupID: "grp-vec"}, 3},
		{"by events", Query{EventIDs: []string{"evt-dengue"}}, 2},
		{"by classification", Query{Classifications: []models.Classification{models.ClassificationConfirmed}}, 3},
		{"group and classification", Query{GroupID: "grp-vec", Classifications: []models.Classification{models.ClassificationSuspected}}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.Count(ctx, tt.q)
			if err != nil {
				t.Fatalf("Count() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Count() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCount_DateRange(t *testing.T) {
	db := testutil.SetupTestDB(t)
	s := New(db)

	ctx, cancel := testutil.TestContext()
	defer cancel()

	err := s.InsertMany(ctx, []models.CaseRecord{
		caseAt("evt-dengue", "grp-vec", models.ClassificationConfirmed, day(2024, time.June, 1)),
		caseAt("evt-dengue", "grp-vec", models.ClassificationConfirmed, day(2024, time.July, 10)),
		caseAt("evt-dengue", "grp-vec", models.ClassificationConfirmed, day(2024, time.August, 20)),
	})
	if err != nil {
		t.Fatalf("InsertMany() error = %v", err)
	}

	from := day(2024, time.July, 1)
	to := day(2024, time.July, 31)
	got, err := s.Count(ctx, Query{From: &from, To: &to})
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if got != 1 {
		t.Errorf("Count(July) = %d, want 1", got)
	}
}

func TestClassificationBreakdown(t *testing.T) {
	db := testutil.SetupTestDB(t)
	s := New(db)

	ctx, cancel := testutil.TestContext()
	defer cancel()

	err := s.InsertMany(ctx, []models.CaseRecord{
		caseAt("evt-dengue", "grp-vec", models.ClassificationSuspected, day(2024, time.July, 10)),
		caseAt("evt-dengue", "grp-vec", models.ClassificationSuspected, day(2024, time.July, 10)),
		caseAt("evt-dengue", "grp-vec", models.ClassificationSuspected, day(2024, time.July, 10)),
		caseAt("evt-dengue", "grp-vec", models.ClassificationConfirmed, day(2024, time.July, 10)),
	})
	if err != nil {
		t.Fatalf("InsertMany() error = %v", err)
	}

	got, err := s.ClassificationBreakdown(ctx, Query{})
	if err != nil {
		t.Fatalf("ClassificationBreakdown() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d slices, want 2", len(got))
	}
	// Largest first.
	if got[0].Classification != models.ClassificationSuspected || got[0].Count != 3 {
		t.Errorf("first slice = %s/%d, want suspected/3", got[0].Classification, got[0].Count)
	}
	if got[1].Classification != models.ClassificationConfirmed || got[1].Count != 1 {
		t.Errorf("second slice = %s/%d, want confirmed/1", got[1].Classification, got[1].Count)
	}
}

func TestAgePyramid(t *testing.T) {
	db := testutil.SetupTestDB(t)
	s := New(db)

	ctx, cancel := testutil.TestContext()
	defer cancel()

	mk := func(age int, sex string) models.CaseRecord {
		c := caseAt("evt-dengue", "grp-vec", models.ClassificationConfirmed, day(2024, time.July, 10))
		c.Age = age
		c.Sex = sex
		return c
	}
	err := s.InsertMany(ctx, []models.CaseRecord{
		mk(3, "F"), mk(4, "M"), mk(2, "X"),
		mk(31, "F"), mk(34, "F"),
	})
	if err != nil {
		t.Fatalf("InsertMany() error = %v", err)
	}

	got, err := s.AgePyramid(ctx, Query{})
	if err != nil {
		t.Fatalf("AgePyramid() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d buckets, want 2", len(got))
	}
	// Youngest band first.
	if got[0].AgeFrom != 0 || got[0].Female != 1 || got[0].Male != 1 || got[0].Other != 1 {
		t.Errorf("bucket 0-4 = %+v, want female/male/other 1/1/1", got[0])
	}
	if got[1].AgeFrom != 30 || got[1].Female != 2 || got[1].Male != 0 {
		t.Errorf("bucket 30-34 = %+v, want female 2", got[1])
	}
}

func TestRegionCounts(t *testing.T) {
	db := testutil.SetupTestDB(t)
	s := New(db)

	ctx, cancel := testutil.TestContext()
	defer cancel()

	mk := func(region string) models.CaseRecord {
		c := caseAt("evt-dengue", "grp-vec", models.ClassificationConfirmed, day(2024, time.July, 10))
		c.RegionCode = region
		return c
	}
	err := s.InsertMany(ctx, []models.CaseRecord{
		mk("AR-S"), mk("AR-B"), mk("AR-B"),
	})
	if err != nil {
		t.Fatalf("InsertMany() error = %v", err)
	}

	got, err := s.RegionCounts(ctx, Query{})
	if err != nil {
		t.Fatalf("RegionCounts() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d regions, want 2", len(got))
	}
	if got[0].RegionCode != "AR-B" || got[0].Count != 2 {
		t.Errorf("first region = %s/%d, want AR-B/2", got[0].RegionCode, got[0].Count)
	}
	if got[1].RegionCode != "AR-S" || got[1].Count != 1 {
		t.Errorf("second region = %s/%d, want AR-S/1", got[1].RegionCode, got[1].Count)
	}
}

func TestInsertMany_EmptyBatch(t *testing.T) {
	db := testutil.SetupTestDB(t)
	s := New(db)

	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := s.InsertMany(ctx, nil); err != nil {
		t.Errorf("InsertMany(nil) error = %v, want nil", err)
	}
}
