// internal/domain/models/caserecord.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CaseRecord is one notified surveillance case. Chart payloads are computed
// by aggregating these records per combination and date range.
//
// EpiYear/EpiWeek are derived from ReportedAt at insert time so weekly series
// can group without per-query date math.
type CaseRecord struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"  json:"id"`
	EventID        string             `bson:"event_id"       json:"event_id"`
	GroupID        string             `bson:"group_id"       json:"group_id"`
	Classification Classification     `bson:"classification" json:"classification"`
	ReportedAt     time.Time          `bson:"reported_at"    json:"reported_at"`
	EpiYear        int                `bson:"epi_year"       json:"epi_year"`
	EpiWeek        int                `bson:"epi_week"       json:"epi_week"`
	Age            int                `bson:"age"            json:"age"`
	Sex            string             `bson:"sex"            json:"sex"` // "F", "M" or "X"
	RegionCode     string             `bson:"region_code"    json:"region_code"`
	Fatal          bool               `bson:"fatal"          json:"fatal"`
}
