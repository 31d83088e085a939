// internal/app/store/workspaces/workspace.go
package workspacestore

import (
	"sync"
	"time"

	"github.com/dalemusser/epivigil/internal/domain/models"
	"github.com/google/uuid"
)

// Palette is the fixed ordered color palette for filter combinations. The
// n-th combination added gets Palette[n mod len(Palette)], where n is the
// list length before the insert. A color is never reassigned once given, so
// removing earlier combinations does not recolor survivors.
var Palette = []string{
	"#1f77b4", // blue
	"#d62728", // red
	"#2ca02c", // green
	"#ff7f0e", // orange
	"#9467bd", // purple
	"#8c564b", // brown
}

// Workspace holds one dashboard instance's comparison state: the shared date
// range, the list of saved filter combinations, and the exclusive edit/draft
// session. It is the single source of truth for that state; handlers never
// keep their own copies.
//
// All mutating operations are synchronous and atomic with respect to each
// other. Unknown-id lookups are silent no-ops, not errors: they indicate a
// stale UI reference, which is recoverable, not a contract violation.
type Workspace struct {
	mu sync.Mutex

	id         string
	createdAt  time.Time
	lastAccess time.Time

	dateRange    models.DateRange
	combinations []models.FilterCombination

	// editingID points at the combination currently being edited, or "" when
	// idle. The draft is the uncommitted shadow of the builder form.
	editingID string
	draft     *models.DraftFilter
}

func newWorkspace(now time.Time) *Workspace {
	return &Workspace{
		id:         uuid.NewString(),
		createdAt:  now,
		lastAccess: now,
	}
}

// ID returns the workspace identifier.
func (ws *Workspace) ID() string {
	return ws.id
}

// DateRange returns the shared date range.
func (ws *Workspace) DateRange() models.DateRange {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	return ws.dateRange
}

// SetDateRange replaces the shared range wholesale. Callers are responsible
// for keeping From <= To; the epi-week pickers do that before committing.
func (ws *Workspace) SetDateRange(r models.DateRange) {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	ws.dateRange = r
}

// Combinations returns a copy of the saved combination list in insertion
// order.
func (ws *Workspace) Combinations() []models.FilterCombination {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	out := make([]models.FilterCombination, len(ws.combinations))
	for i, c := range ws.combinations {
		out[i] = cloneCombination(c)
	}
	return out
}

// AddFilterCombination commits a draft as a new combination. It assigns a
// fresh id and the next palette color by current list length, then appends.
// The returned value is the saved combination.
func (ws *Workspace) AddFilterCombination(d models.DraftFilter) models.FilterCombination {
	ws.mu.Lock()
	defer ws.mu.Unlock()

	fc := models.FilterCombination{
		ID:              uuid.NewString(),
		GroupID:         d.GroupID,
		GroupName:       d.GroupName,
		EventIDs:        cloneStrings(d.EventIDs),
		EventNames:      cloneStrings(d.EventNames),
		Clasificaciones: cloneClassifications(d.Clasificaciones),
		Label:           d.Label,
		Color:           Palette[len(ws.combinations)%len(Palette)],
	}
	ws.combinations = append(ws.combinations, fc)
	return cloneCombination(fc)
}

// UpdateFilterCombination replaces all fields of the combination matching id
// except its id and color, which are preserved from the existing entry. An
// unknown id is a no-op. A successful update ends the edit session when the
// updated combination was the one being edited.
func (ws *Workspace) UpdateFilterCombination(id string, d models.DraftFilter) (models.FilterCombination, bool) {
	ws.mu.Lock()
	defer ws.mu.Unlock()

	for i, c := range ws.combinations {
		if c.ID != id {
			continue
		}
		updated := models.FilterCombination{
			ID:              c.ID,
			GroupID:         d.GroupID,
			GroupName:       d.GroupName,
			EventIDs:        cloneStrings(d.EventIDs),
			EventNames:      cloneStrings(d.EventNames),
			Clasificaciones: cloneClassifications(d.Clasificaciones),
			Label:           d.Label,
			Color:           c.Color,
		}
		ws.combinations[i] = updated
		if ws.editingID == id {
			ws.editingID = ""
			ws.draft = nil
		}
		return cloneCombination(updated), true
	}
	return models.FilterCombination{}, false
}

// RemoveFilterCombination deletes the matching entry, a no-op when absent.
// If the deleted entry was being edited, the edit session is cancelled too.
func (ws *Workspace) RemoveFilterCombination(id string) bool {
	ws.mu.Lock()
	defer ws.mu.Unlock()

	for i, c := range ws.combinations {
		if c.ID != id {
			continue
		}
		ws.combinations = append(ws.combinations[:i], ws.combinations[i+1:]...)
		if ws.editingID == id {
			ws.editingID = ""
			ws.draft = nil
		}
		return true
	}
	return false
}

// DuplicateFilterCombination clones the matching entry as a new combination
// with its own id and color, labeled "(copia)". Unknown ids are a no-op.
func (ws *Workspace) DuplicateFilterCombination(id string) (models.FilterCombination, bool) {
	ws.mu.Lock()
	var src *models.FilterCombination
	for i := range ws.combinations {
		if ws.combinations[i].ID == id {
			src = &ws.combinations[i]
			break
		}
	}
	if src == nil {
		ws.mu.Unlock()
		return models.FilterCombination{}, false
	}
	d := models.DraftFilter{
		GroupID:         src.GroupID,
		GroupName:       src.GroupName,
		EventIDs:        cloneStrings(src.EventIDs),
		EventNames:      cloneStrings(src.EventNames),
		Clasificaciones: cloneClassifications(src.Clasificaciones),
		Label:           src.DisplayName() + models.CopySuffix,
	}
	ws.mu.Unlock()

	return ws.AddFilterCombination(d), true
}

// ClearFilterCombinations empties the list and cancels any edit session.
func (ws *Workspace) ClearFilterCombinations() {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	ws.combinations = nil
	ws.editingID = ""
	ws.draft = nil
}

// StartEditingCombination sets the exclusive edit-session pointer. Existence
// is not validated eagerly; EditingCombination re-checks on read. Starting a
// new edit abandons, not merges, any unsaved draft of a different
// combination.
func (ws *Workspace) StartEditingCombination(id string) {
	ws.mu.Lock()
	defer ws.mu.Unlock()

	if ws.editingID == id {
		return
	}
	ws.editingID = id
	ws.draft = nil
	for _, c := range ws.combinations {
		if c.ID == id {
			d := draftFrom(c)
			ws.draft = &d
			break
		}
	}
}

// CancelEditing clears the edit-session pointer and the draft without
// touching the list.
func (ws *Workspace) CancelEditing() {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	ws.editingID = ""
	ws.draft = nil
}

// EditingCombination returns the list entry the edit pointer refers to, or
// nil when idle or when the pointer went stale (the entry was removed after
// editing started). Callers render a stale pointer as if idle.
func (ws *Workspace) EditingCombination() *models.FilterCombination {
	ws.mu.Lock()
	defer ws.mu.Unlock()

	if ws.editingID == "" {
		return nil
	}
	for _, c := range ws.combinations {
		if c.ID == ws.editingID {
			out := cloneCombination(c)
			return &out
		}
	}
	return nil
}

// SetDraftFilter replaces the transient draft with a caller-computed value.
// Pass nil to clear it.
func (ws *Workspace) SetDraftFilter(d *models.DraftFilter) {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	if d == nil {
		ws.draft = nil
		return
	}
	cp := *d
	cp.EventIDs = cloneStrings(d.EventIDs)
	cp.EventNames = cloneStrings(d.EventNames)
	cp.Clasificaciones = cloneClassifications(d.Clasificaciones)
	ws.draft = &cp
}

// DraftFilter returns the current draft, or nil when none is set.
func (ws *Workspace) DraftFilter() *models.DraftFilter {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	if ws.draft == nil {
		return nil
	}
	cp := *ws.draft
	cp.EventIDs = cloneStrings(ws.draft.EventIDs)
	cp.EventNames = cloneStrings(ws.draft.EventNames)
	cp.Clasificaciones = cloneClassifications(ws.draft.Clasificaciones)
	return &cp
}

// Combination returns a copy of the entry with the given id.
func (ws *Workspace) Combination(id string) (models.FilterCombination, bool) {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	for _, c := range ws.combinations {
		if c.ID == id {
			return cloneCombination(c), true
		}
	}
	return models.FilterCombination{}, false
}

func (ws *Workspace) touch(now time.Time) {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	ws.lastAccess = now
}

func (ws *Workspace) idleSince() time.Time {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	return ws.lastAccess
}

func draftFrom(c models.FilterCombination) models.DraftFilter {
	return models.DraftFilter{
		GroupID:         c.GroupID,
		GroupName:       c.GroupName,
		EventIDs:        cloneStrings(c.EventIDs),
		EventNames:      cloneStrings(c.EventNames),
		Clasificaciones: cloneClassifications(c.Clasificaciones),
		Label:           c.Label,
	}
}

func cloneCombination(c models.FilterCombination) models.FilterCombination {
	c.EventIDs = cloneStrings(c.EventIDs)
	c.EventNames = cloneStrings(c.EventNames)
	c.Clasificaciones = cloneClassifications(c.Clasificaciones)
	return c
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func cloneClassifications(in []models.Classification) []models.Classification {
	if in == nil {
		return nil
	}
	out := make([]models.Classification, len(in))
	copy(out, in)
	return out
}
