// internal/app/store/events/eventstore.go
package eventstore

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

// CollectionName is the MongoDB collection holding notifiable events.
const CollectionName = "events"

// ErrNotFound is returned when an event does not exist.
var ErrNotFound = errors.New("event not found")

// Store provides read access to notifiable-event reference data.
type Store struct {
	c *mongo.Collection
}

// New creates an event store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(CollectionName)}
}

// Page is one page of an event listing, echoing the search term it was
// computed for (stale-response discarding, same contract as the group store).
type Page struct {
	Items  []models.Event `json:"items"`
	Total  int64          `json:"total"`
	Page   int64          `json:"page"`
	Search string         `json:"search,omitempty"`
}

// List returns one page of events, optionally restricted to a group and
// filtered by a case-insensitive name substring, sorted by name.
func (s *Store) List(ctx context.Context, groupID, search string, page, perPage int64) (Page, error) {
	filter := bson.M{}
	if groupID != "" {
		filter["group_id"] = groupID
	}
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

	items := []models.Event{}
	if err := cur.All(ctx, &items); err != nil {
		return Page{}, err
	}

	if page < 1 {
		page = 1
	}
	return Page{Items: items, Total: total, Page: page, Search: search}, nil
}

// ListAllForGroup returns every event of a group, unpaginated and sorted by
// name. Used when an empty event selection has to be resolved to the full
// group event list at save time.
func (s *Store) ListAllForGroup(ctx context.Context, groupID string) ([]models.Event, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{"group_id": groupID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	items := []models.Event{}
	if err := cur.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// GetByID retrieves an event by id.
func (s *Store) GetByID(ctx context.Context, id string) (*models.Event, error) {
	var e models.Event
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&e); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &e, nil
}

// Put inserts or replaces an event. Descriptions come from external
// catalogs and are sanitized before they are stored.
func (s *Store) Put(ctx context.Context, e models.Event) error {
	e.Description = htmlsanitize.Description(e.Description)
	_, err := s.c.ReplaceOne(ctx, bson.M{"_id": e.ID}, e, options.Replace().SetUpsert(true))
	return err
}
