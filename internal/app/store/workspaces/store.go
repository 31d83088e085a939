// internal/app/store/workspaces/store.go
package workspacestore

import (
	"sync"
	"time"

	"github.com/dalemusser/epivigil/internal/domain/models"
	"go.uber.org/zap"
)

// Store owns every live comparison workspace, keyed by id. Workspaces are
// in-memory only: the dashboard does not persist filter combinations across
// reloads, so there is nothing to write through to MongoDB. Idle workspaces
// are evicted by a background task after the configured TTL.
type Store struct {
	mu         sync.Mutex
	logger     *zap.Logger
	ttl        time.Duration
	workspaces map[string]*Workspace
	now        func() time.Time
}

// New creates an empty workspace store. ttl is how long a workspace may sit
// untouched before EvictIdle removes it; zero disables eviction.
func New(logger *zap.Logger, ttl time.Duration) *Store {
	return &Store{
		logger:     logger,
		ttl:        ttl,
		workspaces: make(map[string]*Workspace),
		now:        time.Now,
	}
}

// Create adds a new empty workspace and returns it.
func (s *Store) Create() *Workspace {
	s.mu.Lock()
	defer s.mu.Unlock()

	ws := newWorkspace(s.now())
	s.workspaces[ws.id] = ws
	s.logger.Debug("workspace created", zap.String("workspace_id", ws.id))
	return ws
}

// Get returns the workspace with the given id, refreshing its idle timer, or
// nil when the id is unknown (expired or never existed).
func (s *Store) Get(id string) *Workspace {
	s.mu.Lock()
	ws := s.workspaces[id]
	s.mu.Unlock()

	if ws != nil {
		ws.touch(s.now())
	}
	return ws
}

// Remove deletes a workspace outright. Unknown ids are a no-op.
func (s *Store) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.workspaces, id)
}

// Count returns the number of live workspaces.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.workspaces)
}

// EvictIdle removes every workspace whose last access is older than the TTL
// and returns how many were evicted. With a zero TTL it does nothing.
func (s *Store) EvictIdle() int {
	if s.ttl <= 0 {
		return 0
	}
	cutoff := s.now().Add(-s.ttl)

	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0
	for id, ws := range s.workspaces {
		if ws.idleSince().Before(cutoff) {
			delete(s.workspaces, id)
			evicted++
		}
	}
	if evicted > 0 {
		s.logger.Info("evicted idle workspaces",
			zap.Int("count", evicted),
			zap.Int("remaining", len(s.workspaces)))
	}
	return evicted
}

// ResolveSelection finalizes a draft for saving. An empty event selection
// means "all events of the group": it is expanded to the full resolved event
// id list so the stored value is unambiguous, and the event names are
// replaced with the all-events sentinel. Drafts with an explicit selection
// pass through unchanged. groupEvents must already be resolved for the
// draft's group (models.EventsForGroup).
func ResolveSelection(d models.DraftFilter, groupEvents []models.Event) models.DraftFilter {
	if d.GroupID == nil || len(d.EventIDs) > 0 {
		return d
	}
	ids := make([]string, len(groupEvents))
	for i, e := range groupEvents {
		ids[i] = e.ID
	}
	d.EventIDs = ids
	d.EventNames = []string{models.AllEventsSentinel}
	return d
}
