// internal/domain/models/filtercombination.go
package models

import "time"

// AllEventsSentinel is the single-element event-name list stored when a
// combination was saved with no explicit event selection, meaning "every
// event in the group". The Spanish label matches the UI copy.
const AllEventsSentinel = "Todos los eventos"

// CopySuffix is appended to the label of a duplicated combination.
const CopySuffix = " (copia)"

// FilterCombination is one named comparison unit: a group, a set of its
// events, optional classification tags and a display color. Combinations are
// compared side by side against the workspace's shared date range.
//
// GroupName and EventNames are denormalized at save time and are not re-synced
// if the reference data is renamed upstream. That staleness window is
// deliberate: it avoids re-fetching names on every render.
type FilterCombination struct {
	ID              string           `json:"id"`
	GroupID         *string          `json:"group_id,omitempty"`
	GroupName       string           `json:"group_name,omitempty"`
	EventIDs        []string         `json:"event_ids"`
	EventNames      []string         `json:"event_names"`
	Clasificaciones []Classification `json:"clasificaciones,omitempty"`
	Label           string           `json:"label,omitempty"`
	Color           string           `json:"color"`
}

// DisplayName returns the user-assigned label, falling back to the group name.
func (fc FilterCombination) DisplayName() string {
	if fc.Label != "" {
		return fc.Label
	}
	return fc.GroupName
}

// DraftFilter is the uncommitted shadow of the combination being built or
// edited: the same shape minus ID and Color, which are only assigned when the
// builder's save commits it into a real FilterCombination.
type DraftFilter struct {
	GroupID         *string          `json:"group_id,omitempty"`
	GroupName       string           `json:"group_name,omitempty"`
	EventIDs        []string         `json:"event_ids"`
	EventNames      []string         `json:"event_names"`
	Clasificaciones []Classification `json:"clasificaciones,omitempty"`
	Label           string           `json:"label,omitempty"`
}

// DateRange is the date window shared by every combination in a workspace.
// Both ends nil means no range constraint. From must be <= To when both are
// set; the epi-week pickers enforce that before committing.
type DateRange struct {
	From *time.Time `json:"from,omitempty"`
	To   *time.Time `json:"to,omitempty"`
}

// IsZero reports whether neither end of the range is set.
func (r DateRange) IsZero() bool {
	return r.From == nil && r.To == nil
}
