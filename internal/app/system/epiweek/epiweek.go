// Package epiweek implements epidemiological week math and the week-range
// picker used by the dashboard's date selector.
//
// An epidemiological week runs Sunday through Saturday. Weeks are numbered
// 1..52 (occasionally 53) within the year that contains the majority of the
// week's days, i.e. the year of the week's Wednesday (the MMWR convention:
// week 1 is the first week with at least four days in January).
package epiweek

import "time"

// Week identifies one epidemiological week.
type Week struct {
	Year   int `json:"year"`
	Number int `json:"week"`
}

// Of returns the epidemiological week containing the given date. Only the
// calendar date matters; the time of day and location offset are ignored.
func Of(t time.Time) Week {
	d := dateOnly(t)
	sunday := d.AddDate(0, 0, -int(d.Weekday()))
	wednesday := sunday.AddDate(0, 0, 3)

	year := wednesday.Year()
	days := int(sunday.Sub(week1Start(year)).Hours() / 24)
	return Week{Year: year, Number: days/7 + 1}
}

// Dates returns the Sunday and Saturday bounding the week.
func (w Week) Dates() (from, to time.Time) {
	from = week1Start(w.Year).AddDate(0, 0, (w.Number-1)*7)
	to = from.AddDate(0, 0, 6)
	return from, to
}

// Before reports whether w falls strictly before other.
func (w Week) Before(other Week) bool {
	if w.Year != other.Year {
		return w.Year < other.Year
	}
	return w.Number < other.Number
}

// IsZero reports whether the week is unset.
func (w Week) IsZero() bool {
	return w.Year == 0 && w.Number == 0
}

// WeeksInYear returns 52 or 53 depending on the year's epi calendar.
func WeeksInYear(year int) int {
	days := int(week1Start(year+1).Sub(week1Start(year)).Hours() / 24)
	return days / 7
}

// week1Start returns the Sunday starting epi week 1 of the given year: the
// Sunday of the week whose Wednesday is the year's first Wednesday.
func week1Start(year int) time.Time {
	jan1 := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	offset := (int(time.Wednesday) - int(jan1.Weekday()) + 7) % 7
	return jan1.AddDate(0, 0, offset-3)
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
