// internal/domain/models/report.go
package models

import "time"

// Report records one generated comparison report. The request is
// fire-and-forget from the dashboard's perspective: the response is just the
// handle plus a URL to open, and the record keeps enough of a snapshot to
// re-identify what was exported.
type Report struct {
	Handle       string              `bson:"_id"          json:"handle"`
	DateRange    DateRange           `bson:"date_range"   json:"date_range"`
	Combinations []FilterCombination `bson:"combinations" json:"combinations"`
	StoragePath  string              `bson:"storage_path" json:"-"`
	URL          string              `bson:"url"          json:"url"`
	CreatedAt    time.Time           `bson:"created_at"   json:"created_at"`
}
