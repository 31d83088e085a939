package workspacestore

import (
	"testing"
	"time"

	"github.com/dalemusser/epivigil/internal/domain/models"
	"go.uber.org/zap"
)

func newTestWorkspace() *Workspace {
	return newWorkspace(time.Now())
}

func strPtr(s string) *string { return &s }

func draftForGroup(groupID, groupName string, eventIDs ...string) models.DraftFilter {
	names := make([]string, len(eventIDs))
	for i, id := range eventIDs {
		names[i] = "Evento " + id
	}
	return models.DraftFilter{
		GroupID:    strPtr(groupID),
		GroupName:  groupName,
		EventIDs:   eventIDs,
		EventNames: names,
	}
}

func TestAddFilterCombination_UniqueIDs(t *testing.T) {
	ws := newTestWorkspace()

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		fc := ws.AddFilterCombination(draftForGroup("g1", "Dengue", "e1"))
		if fc.ID == "" {
			t.Fatal("combination id is empty")
		}
		if seen[fc.ID] {
			t.Fatalf("duplicate combination id %q", fc.ID)
		}
		seen[fc.ID] = true
	}
}

func TestAddFilterCombination_PaletteCycle(t *testing.T) {
	ws := newTestWorkspace()

	// Seven adds against a six-color palette: the 7th color wraps to the 1st.
	var combos []models.FilterCombination
	for i := 0; i < 7; i++ {
		combos = append(combos, ws.AddFilterCombination(draftForGroup("g1", "Dengue", "e1")))
	}
	for i, fc := range combos {
		want := Palette[i%len(Palette)]
		if fc.Color != want {
			t.Errorf("combination %d color = %q, want %q", i, fc.Color, want)
		}
	}
	if combos[6].Color != combos[0].Color {
		t.Errorf("7th color = %q, want same as 1st %q", combos[6].Color, combos[0].Color)
	}
}

func TestAddFilterCombination_NoRecolorAfterRemove(t *testing.T) {
	ws := newTestWorkspace()

	first := ws.AddFilterCombination(draftForGroup("g1", "Dengue", "e1"))
	second := ws.AddFilterCombination(draftForGroup("g1", "Dengue", "e2"))

	if !ws.RemoveFilterCombination(first.ID) {
		t.Fatal("remove returned false for existing id")
	}

	// The survivor keeps its original color even though it is now first.
	got, ok := ws.Combination(second.ID)
	if !ok {
		t.Fatal("second combination missing after remove")
	}
	if got.Color != Palette[1] {
		t.Errorf("survivor color = %q, want %q", got.Color, Palette[1])
	}

	// A re-add is colored by the current list length, not by history.
	third := ws.AddFilterCombination(draftForGroup("g1", "Dengue", "e3"))
	if third.Color != Palette[1] {
		t.Errorf("re-added color = %q, want %q", third.Color, Palette[1])
	}
}

func TestUpdateFilterCombination_PreservesIDAndColor(t *testing.T) {
	ws := newTestWorkspace()
	fc := ws.AddFilterCombination(draftForGroup("g1", "Dengue", "e1"))

	updated, ok := ws.UpdateFilterCombination(fc.ID, models.DraftFilter{
		GroupID:         strPtr("g2"),
		GroupName:       "Zoonosis",
		EventIDs:        []string{"e9"},
		EventNames:      []string{"Evento e9"},
		Clasificaciones: []models.Classification{models.ClassificationConfirmed},
		Label:           "renombrada",
	})
	if !ok {
		t.Fatal("update returned false for existing id")
	}
	if updated.ID != fc.ID {
		t.Errorf("id changed on update: %q -> %q", fc.ID, updated.ID)
	}
	if updated.Color != fc.Color {
		t.Errorf("color changed on update: %q -> %q", fc.Color, updated.Color)
	}
	if updated.GroupName != "Zoonosis" || updated.Label != "renombrada" {
		t.Errorf("fields not replaced: %+v", updated)
	}
}

func TestUpdateFilterCombination_UnknownIDIsNoop(t *testing.T) {
	ws := newTestWorkspace()
	ws.AddFilterCombination(draftForGroup("g1", "Dengue", "e1"))

	if _, ok := ws.UpdateFilterCombination("missing", draftForGroup("g2", "Zoonosis", "e2")); ok {
		t.Error("update of unknown id reported success")
	}
	if n := len(ws.Combinations()); n != 1 {
		t.Errorf("combination count = %d, want 1", n)
	}
}

func TestUpdateFilterCombination_EndsEditSession(t *testing.T) {
	ws := newTestWorkspace()
	fc := ws.AddFilterCombination(draftForGroup("g1", "Dengue", "e1"))

	ws.StartEditingCombination(fc.ID)
	if ws.EditingCombination() == nil {
		t.Fatal("edit session did not start")
	}

	if _, ok := ws.UpdateFilterCombination(fc.ID, draftForGroup("g1", "Dengue", "e2")); !ok {
		t.Fatal("update failed")
	}
	if ws.EditingCombination() != nil {
		t.Error("edit session still active after save")
	}
	if ws.DraftFilter() != nil {
		t.Error("draft not cleared after save")
	}
}

func TestDuplicateFilterCombination(t *testing.T) {
	ws := newTestWorkspace()
	orig := ws.AddFilterCombination(models.DraftFilter{
		GroupID:         strPtr("g1"),
		GroupName:       "Dengue",
		EventIDs:        []string{"e1", "e2"},
		EventNames:      []string{"Evento e1", "Evento e2"},
		Clasificaciones: []models.Classification{models.ClassificationConfirmed, models.ClassificationProbable},
	})

	dup, ok := ws.DuplicateFilterCombination(orig.ID)
	if !ok {
		t.Fatal("duplicate returned false for existing id")
	}
	if dup.ID == orig.ID {
		t.Error("duplicate shares id with original")
	}
	if *dup.GroupID != *orig.GroupID {
		t.Errorf("group id = %q, want %q", *dup.GroupID, *orig.GroupID)
	}
	if len(dup.EventIDs) != 2 || dup.EventIDs[0] != "e1" || dup.EventIDs[1] != "e2" {
		t.Errorf("event ids = %v, want [e1 e2]", dup.EventIDs)
	}
	if len(dup.Clasificaciones) != 2 {
		t.Errorf("classifications = %v, want 2 entries", dup.Clasificaciones)
	}
	// Label falls back to the group name when the original had none.
	if dup.Label != "Dengue (copia)" {
		t.Errorf("label = %q, want %q", dup.Label, "Dengue (copia)")
	}
}

func TestDuplicateFilterCombination_UsesLabelWhenPresent(t *testing.T) {
	ws := newTestWorkspace()
	d := draftForGroup("g1", "Dengue", "e1")
	d.Label = "brote norte"
	orig := ws.AddFilterCombination(d)

	dup, _ := ws.DuplicateFilterCombination(orig.ID)
	if dup.Label != "brote norte (copia)" {
		t.Errorf("label = %q, want %q", dup.Label, "brote norte (copia)")
	}
}

func TestDuplicateFilterCombination_UnknownIDIsNoop(t *testing.T) {
	ws := newTestWorkspace()
	if _, ok := ws.DuplicateFilterCombination("missing"); ok {
		t.Error("duplicate of unknown id reported success")
	}
	if n := len(ws.Combinations()); n != 0 {
		t.Errorf("combination count = %d, want 0", n)
	}
}

func TestRemoveFilterCombination_CancelsOwnEditSession(t *testing.T) {
	ws := newTestWorkspace()
	a := ws.AddFilterCombination(draftForGroup("g1", "Dengue", "e1"))
	b := ws.AddFilterCombination(draftForGroup("g1", "Dengue", "e2"))

	ws.StartEditingCombination(a.ID)
	ws.RemoveFilterCombination(a.ID)

	if ws.EditingCombination() != nil {
		t.Error("edit session survived removal of the edited entry")
	}
	if ws.DraftFilter() != nil {
		t.Error("draft survived removal of the edited entry")
	}

	// Removing an entry that is not being edited leaves the session alone.
	ws.StartEditingCombination(b.ID)
	c := ws.AddFilterCombination(draftForGroup("g1", "Dengue", "e3"))
	ws.RemoveFilterCombination(c.ID)
	if ws.EditingCombination() == nil {
		t.Error("edit session lost on removal of a different entry")
	}
}

func TestCancelEditing_LeavesListUntouched(t *testing.T) {
	ws := newTestWorkspace()
	fc := ws.AddFilterCombination(draftForGroup("g1", "Dengue", "e1"))

	ws.StartEditingCombination(fc.ID)
	ws.CancelEditing()

	if ws.EditingCombination() != nil {
		t.Error("edit session active after cancel")
	}
	got, ok := ws.Combination(fc.ID)
	if !ok {
		t.Fatal("combination missing after cancel")
	}
	if got.Label != fc.Label || got.Color != fc.Color || len(got.EventIDs) != len(fc.EventIDs) {
		t.Errorf("combination changed by cancel: %+v", got)
	}
}

func TestEditingCombination_StalePointer(t *testing.T) {
	ws := newTestWorkspace()
	fc := ws.AddFilterCombination(draftForGroup("g1", "Dengue", "e1"))

	// Point the session at an entry, then yank the entry out from under it by
	// clearing through a path that does not know about the session.
	ws.StartEditingCombination(fc.ID)
	ws.combinations = nil

	if got := ws.EditingCombination(); got != nil {
		t.Errorf("stale pointer lookup = %+v, want nil", got)
	}
}

func TestClearFilterCombinations(t *testing.T) {
	ws := newTestWorkspace()
	fc := ws.AddFilterCombination(draftForGroup("g1", "Dengue", "e1"))
	ws.AddFilterCombination(draftForGroup("g1", "Dengue", "e2"))
	ws.StartEditingCombination(fc.ID)

	ws.ClearFilterCombinations()

	if n := len(ws.Combinations()); n != 0 {
		t.Errorf("combination count = %d, want 0", n)
	}
	if ws.EditingCombination() != nil {
		t.Error("edit session active after clear")
	}
	if ws.DraftFilter() != nil {
		t.Error("draft set after clear")
	}
}

func TestStartEditing_InitializesDraftFromEntry(t *testing.T) {
	ws := newTestWorkspace()
	d := draftForGroup("g1", "Dengue", "e1", "e2")
	d.Label = "vigilancia"
	fc := ws.AddFilterCombination(d)

	ws.StartEditingCombination(fc.ID)

	draft := ws.DraftFilter()
	if draft == nil {
		t.Fatal("draft not initialized on edit start")
	}
	if draft.Label != "vigilancia" || len(draft.EventIDs) != 2 {
		t.Errorf("draft = %+v, want copy of combination fields", draft)
	}
}

func TestSetDraftFilter(t *testing.T) {
	ws := newTestWorkspace()

	d := draftForGroup("g1", "Dengue", "e1")
	ws.SetDraftFilter(&d)
	got := ws.DraftFilter()
	if got == nil || *got.GroupID != "g1" {
		t.Fatalf("draft = %+v, want group g1", got)
	}

	// The stored draft is a copy, not an alias.
	d.EventIDs[0] = "mutated"
	if ws.DraftFilter().EventIDs[0] == "mutated" {
		t.Error("draft aliases caller slice")
	}

	ws.SetDraftFilter(nil)
	if ws.DraftFilter() != nil {
		t.Error("draft not cleared by nil")
	}
}

func TestResolveSelection_EmptyMeansAllEvents(t *testing.T) {
	events := []models.Event{
		{ID: "1", Name: "Dengue clásico", GroupID: "A"},
		{ID: "2", Name: "Dengue grave", GroupID: "A"},
		{ID: "3", Name: "Dengue hemorrágico", GroupID: "A"},
	}

	d := models.DraftFilter{GroupID: strPtr("A"), GroupName: "Dengue"}
	resolved := ResolveSelection(d, events)

	if len(resolved.EventIDs) != 3 {
		t.Fatalf("event ids = %v, want all 3", resolved.EventIDs)
	}
	for i, want := range []string{"1", "2", "3"} {
		if resolved.EventIDs[i] != want {
			t.Errorf("event id[%d] = %q, want %q", i, resolved.EventIDs[i], want)
		}
	}
	if len(resolved.EventNames) != 1 || resolved.EventNames[0] != models.AllEventsSentinel {
		t.Errorf("event names = %v, want [%q]", resolved.EventNames, models.AllEventsSentinel)
	}
}

func TestResolveSelection_ExplicitSelectionPassesThrough(t *testing.T) {
	events := []models.Event{
		{ID: "1", GroupID: "A"},
		{ID: "2", GroupID: "A"},
	}
	d := models.DraftFilter{
		GroupID:    strPtr("A"),
		EventIDs:   []string{"2"},
		EventNames: []string{"Dengue grave"},
	}
	resolved := ResolveSelection(d, events)
	if len(resolved.EventIDs) != 1 || resolved.EventIDs[0] != "2" {
		t.Errorf("event ids = %v, want [2]", resolved.EventIDs)
	}
}

func TestStore_CreateGetRemove(t *testing.T) {
	s := New(zap.NewNop(), time.Hour)

	ws := s.Create()
	if got := s.Get(ws.ID()); got != ws {
		t.Error("Get did not return the created workspace")
	}
	if got := s.Get("missing"); got != nil {
		t.Error("Get for unknown id returned a workspace")
	}

	s.Remove(ws.ID())
	if got := s.Get(ws.ID()); got != nil {
		t.Error("workspace still reachable after Remove")
	}
}

func TestStore_EvictIdle(t *testing.T) {
	s := New(zap.NewNop(), time.Minute)

	base := time.Now()
	s.now = func() time.Time { return base }

	stale := s.Create()
	s.Create() // fresh at eviction time

	// Advance the clock past the TTL, then touch only the second workspace.
	s.now = func() time.Time { return base.Add(2 * time.Minute) }
	all := s.workspaces
	for id, ws := range all {
		if id != stale.ID() {
			ws.touch(s.now())
		}
	}

	if evicted := s.EvictIdle(); evicted != 1 {
		t.Errorf("evicted = %d, want 1", evicted)
	}
	if s.Get(stale.ID()) != nil {
		t.Error("stale workspace survived eviction")
	}
	if s.Count() != 1 {
		t.Errorf("count = %d, want 1", s.Count())
	}
}

func TestStore_EvictIdleDisabled(t *testing.T) {
	s := New(zap.NewNop(), 0)
	s.Create()
	if evicted := s.EvictIdle(); evicted != 0 {
		t.Errorf("evicted = %d, want 0 with zero ttl", evicted)
	}
}
