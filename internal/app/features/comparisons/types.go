package comparisons

import (
	"github.com/dalemusser/epivigil/internal/app/system/epiweek"
	"github.com/dalemusser/epivigil/internal/domain/models"
)

// combinationInput is the request body for creating or updating a filter
// combination, and for replacing the draft. Event ids are optional: an empty
// selection with a group means "all events of the group" and is resolved at
// save time.
type combinationInput struct {
	GroupID         string   `json:"group_id,omitempty"`
	EventIDs        []string `json:"event_ids,omitempty"`
	Classifications []string `json:"clasificaciones,omitempty"`
	Label           string   `json:"label,omitempty"`
}

// dateRangeInput carries the clicked calendar dates for the epi-week range
// pickers. Either side may be omitted to leave that picker untouched; an
// empty object clears the whole range.
type dateRangeInput struct {
	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`
	Clear     bool   `json:"clear,omitempty"`
}

// dateRangeResult reports the resolved selection after applying the picker
// policy. EndRejected is set when the requested end week preceded the start
// and was refused.
type dateRangeResult struct {
	DateRange   models.DateRange `json:"date_range"`
	StartWeek   *epiweek.Week    `json:"start_week,omitempty"`
	EndWeek     *epiweek.Week    `json:"end_week,omitempty"`
	EndRejected bool             `json:"end_rejected,omitempty"`
}

// workspaceState is the full comparison workspace as the dashboard renders
// it: shared date range, the combination list and the edit session.
type workspaceState struct {
	ID           string                     `json:"id"`
	DateRange    models.DateRange           `json:"date_range"`
	StartWeek    *epiweek.Week              `json:"start_week,omitempty"`
	EndWeek      *epiweek.Week              `json:"end_week,omitempty"`
	Combinations []models.FilterCombination `json:"combinations"`
	Editing      *models.FilterCombination  `json:"editing,omitempty"`
	Draft        *models.DraftFilter        `json:"draft,omitempty"`
}
