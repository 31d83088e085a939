// internal/app/system/epiweek/picker.go
package epiweek

import (
	"time"

	"github.com/dalemusser/epivigil/internal/domain/models"
)

// RangePicker models the two-calendar epi-week range selector: independent
// start and end pickers, each mapping a clicked date to its containing week.
//
// Inversion policy (the side-by-side calendar variant): picking a start week
// after the currently selected end clears the end and forces re-selection;
// picking an end week before the start is rejected outright. Rejection keeps
// both pickers unambiguous — the alternative single-calendar variant swaps
// the roles instead, and the two behaviors must not be mixed.
type RangePicker struct {
	start Week
	end   Week
}

// PickStart selects the week containing the clicked date as the range start.
// If an end week is already selected and now precedes the new start, the end
// is cleared.
func (p *RangePicker) PickStart(clicked time.Time) Week {
	p.start = Of(clicked)
	if !p.end.IsZero() && p.end.Before(p.start) {
		p.end = Week{}
	}
	return p.start
}

// PickEnd selects the week containing the clicked date as the range end. It
// returns false, leaving the picker unchanged, when the week precedes the
// selected start.
func (p *RangePicker) PickEnd(clicked time.Time) (Week, bool) {
	w := Of(clicked)
	if !p.start.IsZero() && w.Before(p.start) {
		return p.end, false
	}
	p.end = w
	return w, true
}

// Start returns the selected start week, zero when unselected.
func (p *RangePicker) Start() Week { return p.start }

// End returns the selected end week, zero when unselected.
func (p *RangePicker) End() Week { return p.end }

// Range resolves the current selection to a date range at week boundaries:
// From is the start week's Sunday, To the end week's Saturday. Unselected
// ends stay nil.
func (p *RangePicker) Range() models.DateRange {
	var r models.DateRange
	if !p.start.IsZero() {
		from, _ := p.start.Dates()
		r.From = &from
	}
	if !p.end.IsZero() {
		_, to := p.end.Dates()
		r.To = &to
	}
	return r
}

// Reset clears both pickers.
func (p *RangePicker) Reset() {
	p.start = Week{}
	p.end = Week{}
}
