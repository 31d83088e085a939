// internal/app/store/cases/casestore.go
package casestore

import (
	"context"
	"time"

	"github.com/dalemusser/epivigil/internal/app/system/epiweek"
	"github.com/dalemusser/epivigil/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// CollectionName is the MongoDB collection holding notified case records.
const CollectionName = "cases"

// Store aggregates case records into the datasets behind each chart kind.
type Store struct {
	c *mongo.Collection
}

// New creates a case store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(CollectionName)}
}

// Query restricts an aggregation to one filter combination's slice of the
// data: a group, its selected events, optional classification tags and the
// shared date range. Empty fields impose no restriction.
type Query struct {
	GroupID         string
	EventIDs        []string
	Classifications []models.Classification
	From            *time.Time
	To              *time.Time
}

func (q Query) match() bson.M {
	m := bson.M{}
	if q.GroupID != "" {
		m["group_id"] = q.GroupID
	}
	if len(q.EventIDs) > 0 {
		m["event_id"] = bson.M{"$in": q.EventIDs}
	}
	if len(q.Classifications) > 0 {
		m["classification"] = bson.M{"$in": q.Classifications}
	}
	if q.From != nil || q.To != nil {
		r := bson.M{}
		if q.From != nil {
			r["$gte"] = *q.From
		}
		if q.To != nil {
			r["$lte"] = *q.To
		}
		m["reported_at"] = r
	}
	return m
}

// Insert stores one case record, deriving its epi week from ReportedAt.
func (s *Store) Insert(ctx context.Context, c models.CaseRecord) error {
	w := epiweek.Of(c.ReportedAt)
	c.EpiYear, c.EpiWeek = w.Year, w.Number
	_, err := s.c.InsertOne(ctx, c)
	return err
}

// InsertMany stores a batch of case records, deriving epi weeks.
func (s *Store) InsertMany(ctx context.Context, cases []models.CaseRecord) error {
	if len(cases) == 0 {
		return nil
	}
	docs := make([]any, len(cases))
	for i, c := range cases {
		w := epiweek.Of(c.ReportedAt)
		c.EpiYear, c.EpiWeek = w.Year, w.Number
		docs[i] = c
	}
	_, err := s.c.InsertMany(ctx, docs)
	return err
}

// Count returns the number of cases matching the query.
func (s *Store) Count(ctx context.Context, q Query) (int64, error) {
	return s.c.CountDocuments(ctx, q.match())
}

// WeekCount is one point of a weekly time series.
type WeekCount struct {
	Year  int   `bson:"year"  json:"year"`
	Week  int   `bson:"week"  json:"week"`
	Count int64 `bson:"count" json:"count"`
}

// WeeklySeries returns case counts grouped by epidemiological week, in
// chronological order. Weeks with no cases are simply absent.
func (s *Store) WeeklySeries(ctx context.Context, q Query) ([]WeekCount, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: q.match()}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id":   bson.M{"year": "$epi_year", "week": "$epi_week"},
			"count": bson.M{"$sum": 1},
		}}},
		bson.D{{Key: "$project", Value: bson.M{
			"_id":   0,
			"year":  "$_id.year",
			"week":  "$_id.week",
			"count": 1,
		}}},
		bson.D{{Key: "$sort", Value: bson.D{
			{Key: "year", Value: 1},
			{Key: "week", Value: 1},
		}}},
	}
	return aggregate[WeekCount](ctx, s.c, pipeline)
}

// ClassificationCount is one slice of a classification breakdown.
type ClassificationCount struct {
	Classification models.Classification `bson:"classification" json:"classification"`
	Count          int64                 `bson:"count"          json:"count"`
}

// ClassificationBreakdown returns case counts per classification tag,
// largest first.
func (s *Store) ClassificationBreakdown(ctx context.Context, q Query) ([]ClassificationCount, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: q.match()}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id":   "$classification",
			"count": bson.M{"$sum": 1},
		}}},
		bson.D{{Key: "$project", Value: bson.M{
			"_id":            0,
			"classification": "$_id",
			"count":          1,
		}}},
		bson.D{{Key: "$sort", Value: bson.D{
			{Key: "count", Value: -1},
			{Key: "classification", Value: 1},
		}}},
	}
	return aggregate[ClassificationCount](ctx, s.c, pipeline)
}

// PyramidBucket is one five-year age band of the population pyramid.
type PyramidBucket struct {
	AgeFrom int   `bson:"age_from" json:"age_from"`
	Female  int64 `bson:"female"   json:"female"`
	Male    int64 `bson:"male"     json:"male"`
	Other   int64 `bson:"other"    json:"other"`
}

// AgePyramid returns case counts per five-year age band split by sex,
// youngest band first.
func (s *Store) AgePyramid(ctx context.Context, q Query) ([]PyramidBucket, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: q.match()}},
		bson.D{{Key: "$project", Value: bson.M{
			"sex": 1,
			"age_from": bson.M{"$multiply": bson.A{
				bson.M{"$floor": bson.M{"$divide": bson.A{"$age", 5}}},
				5,
			}},
		}}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id": "$age_from",
			"female": bson.M{"$sum": bson.M{
				"$cond": bson.A{bson.M{"$eq": bson.A{"$sex", "F"}}, 1, 0},
			}},
			"male": bson.M{"$sum": bson.M{
				"$cond": bson.A{bson.M{"$eq": bson.A{"$sex", "M"}}, 1, 0},
			}},
			"other": bson.M{"$sum": bson.M{
				"$cond": bson.A{bson.M{"$in": bson.A{"$sex", bson.A{"F", "M"}}}, 0, 1},
			}},
		}}},
		bson.D{{Key: "$project", Value: bson.M{
			"_id":      0,
			"age_from": "$_id",
			"female":   1,
			"male":     1,
			"other":    1,
		}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "age_from", Value: 1}}}},
	}
	return aggregate[PyramidBucket](ctx, s.c, pipeline)
}

// RegionCount is one region's case count for the choropleth map.
type RegionCount struct {
	RegionCode string `bson:"region_code" json:"region_code"`
	Count      int64  `bson:"count"       json:"count"`
}

// RegionCounts returns case counts per region code, sorted by code.
func (s *Store) RegionCounts(ctx context.Context, q Query) ([]RegionCount, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: q.match()}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id":   "$region_code",
			"count": bson.M{"$sum": 1},
		}}},
		bson.D{{Key: "$project", Value: bson.M{
			"_id":         0,
			"region_code": "$_id",
			"count":       1,
		}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "region_code", Value: 1}}}},
	}
	return aggregate[RegionCount](ctx, s.c, pipeline)
}

func aggregate[T any](ctx context.Context, c *mongo.Collection, pipeline mongo.Pipeline) ([]T, error) {
	cur, err := c.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []T{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
