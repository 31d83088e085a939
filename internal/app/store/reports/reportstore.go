// internal/app/store/reports/reportstore.go
package reportstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/epivigil/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CollectionName is the MongoDB collection holding generated report records.
const CollectionName = "reports"

// ErrNotFound is returned when a report handle does not exist.
var ErrNotFound = errors.New("report not found")

// Store persists generated report records. The record is the durable side of
// a report: the artifact itself lives in file storage under StoragePath.
type Store struct {
	c *mongo.Collection
}

// New creates a report store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(CollectionName)}
}

// Create inserts a report record.
func (s *Store) Create(ctx context.Context, r models.Report) error {
	_, err := s.c.InsertOne(ctx, r)
	return err
}

// GetByHandle retrieves a report by its handle.
func (s *Store) GetByHandle(ctx context.Context, handle string) (*models.Report, error) {
	var r models.Report
	if err := s.c.FindOne(ctx, bson.M{"_id": handle}).Decode(&r); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &r, nil
}

// ListOlderThan returns reports created before the cutoff, oldest first.
// The cleanup task uses this to delete expired artifacts before dropping the
// records.
func (s *Store) ListOlderThan(ctx context.Context, cutoff time.Time) ([]models.Report, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{"created_at": bson.M{"$lt": cutoff}}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Report{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes a report record. Unknown handles are a no-op.
func (s *Store) Delete(ctx context.Context, handle string) error {
	_, err := s.c.DeleteOne(ctx, bson.M{"_id": handle})
	return err
}
