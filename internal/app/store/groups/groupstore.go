// internal/app/store/groups/groupstore.go
package groupstore

import (
	"context"
	"errors"
	"regexp"

	"github.com/dalemusser/epivigil/internal/app/store/storeutil"
	"github.com/dalemusser/epivigil/internal/app/system/htmlsanitize"
	"github.com/dalemusser/epivigil/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CollectionName is the MongoDB collection holding event groups.
const CollectionName = "groups"

// ErrNotFound is returned when a group does not exist.
var ErrNotFound = errors.New("group not found")

// Store provides read access to event-group reference data. Groups are
// loaded by an upstream sync process; the dashboard only reads them.
type Store struct {
	c *mongo.Collection
}

// New creates a group store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(CollectionName)}
}

// Page is one page of a group listing. Search echoes the term the page was
// computed for so clients can discard responses that no longer match their
// current input.
type Page struct {
	Items  []models.Group `json:"items"`
	Total  int64          `json:"total"`
	Page   int64          `json:"page"`
	Search string         `json:"search,omitempty"`
}

// List returns one page of groups, optionally filtered by a case-insensitive
// name substring, sorted by name.
func (s *Store) List(ctx context.Context, search string, page, perPage int64) (Page, error) {
	filter := bson.M{}
	if search != "" {
		filter["name"] = bson.M{"$regex": regexp.QuoteMeta(search), "$options": "i"}
	}

	total, err := s.c.CountDocuments(ctx, filter)
	if err != nil {
		return Page{}, err
	}

	opts := storeutil.Paginate(perPage, page).SetSort(bson.D{{Key: "name", Value: 1}})
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return Page{}, err
	}
	defer cur.Close(ctx)

	items := []models.Group{}
	if err := cur.All(ctx, &items); err != nil {
		return Page{}, err
	}

	if page < 1 {
		page = 1
	}
	return Page{Items: items, Total: total, Page: page, Search: search}, nil
}

// GetByID retrieves a group by id.
func (s *Store) GetByID(ctx context.Context, id string) (*models.Group, error) {
	var g models.Group
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&g); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &g, nil
}

// Put inserts or replaces a group. Used by seeding and the reference-data
// sync job. Descriptions come from external catalogs and are sanitized
// before they are stored.
func (s *Store) Put(ctx context.Context, g models.Group) error {
	g.Description = htmlsanitize.Description(g.Description)
	_, err := s.c.ReplaceOne(ctx, bson.M{"_id": g.ID}, g, options.Replace().SetUpsert(true))
	return err
}
