// internal/domain/models/classification.go
package models

// Classification is an epidemiological case-status tag used to filter case
// counts. The set is closed; anything outside it is rejected at the API edge.
type Classification string

const (
	ClassificationConfirmed       Classification = "confirmed"
	ClassificationSuspected       Classification = "suspected"
	ClassificationProbable        Classification = "probable"
	ClassificationUnderStudy      Classification = "under-study"
	ClassificationNegative        Classification = "negative"
	ClassificationDiscarded       Classification = "discarded"
	ClassificationNotified        Classification = "notified"
	ClassificationFatalOutcome    Classification = "fatal-outcome"
	ClassificationNonFatalOutcome Classification = "non-fatal-outcome"
	ClassificationNeedsReview     Classification = "needs-review"
)

// AllClassifications lists every valid classification in display order.
var AllClassifications = []Classification{
	ClassificationConfirmed,
	ClassificationSuspected,
	ClassificationProbable,
	ClassificationUnderStudy,
	ClassificationNegative,
	ClassificationDiscarded,
	ClassificationNotified,
	ClassificationFatalOutcome,
	ClassificationNonFatalOutcome,
	ClassificationNeedsReview,
}

// classificationLabels maps each tag to its Spanish display name, matching
// the labels used in the surveillance bulletins this dashboard feeds.
var classificationLabels = map[Classification]string{
	ClassificationConfirmed:       "Confirmados",
	ClassificationSuspected:       "Sospechosos",
	ClassificationProbable:        "Probables",
	ClassificationUnderStudy:      "En estudio",
	ClassificationNegative:        "Negativos",
	ClassificationDiscarded:       "Descartados",
	ClassificationNotified:        "Notificados",
	ClassificationFatalOutcome:    "Fallecidos",
	ClassificationNonFatalOutcome: "No fallecidos",
	ClassificationNeedsReview:     "Requiere revisión",
}

// Valid reports whether c is one of the closed classification set.
func (c Classification) Valid() bool {
	_, ok := classificationLabels[c]
	return ok
}

// Label returns the display name for the classification, or the raw value
// when it is unknown.
func (c Classification) Label() string {
	if l, ok := classificationLabels[c]; ok {
		return l
	}
	return string(c)
}

// ParseClassifications validates a list of raw tags. It returns the parsed
// list and the first invalid tag, if any.
func ParseClassifications(raw []string) ([]Classification, string) {
	if len(raw) == 0 {
		return nil, ""
	}
	out := make([]Classification, 0, len(raw))
	for _, r := range raw {
		c := Classification(r)
		if !c.Valid() {
			return nil, r
		}
		out = append(out, c)
	}
	return out, ""
}
