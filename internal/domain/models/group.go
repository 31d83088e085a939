// internal/domain/models/group.go
package models

// Group is an event group: a family of notifiable events that are analyzed
// together (e.g. vector-borne, respiratory). Groups are read-only reference
// data; the dashboard never mutates them.
type Group struct {
	ID          string `bson:"_id"         json:"id"`
	Name        string `bson:"name"        json:"name"`
	Description string `bson:"description" json:"description,omitempty"`
}

// Event is a notifiable event belonging to exactly one group. GroupName is
// denormalized so selectors can render without a second lookup.
type Event struct {
	ID          string `bson:"_id"         json:"id"`
	Name        string `bson:"name"        json:"name"`
	GroupID     string `bson:"group_id"    json:"group_id"`
	GroupName   string `bson:"group_name"  json:"group_name,omitempty"`
	Description string `bson:"description" json:"description,omitempty"`
}

// EventsForGroup returns the subset of events that belong to the given group.
// A nil groupID yields an empty slice: with no group selected there are no
// valid event choices. The function never returns events carried over from a
// previously selected group; callers re-run it whenever the group changes.
func EventsForGroup(groupID *string, events []Event) []Event {
	if groupID == nil {
		return []Event{}
	}
	out := make([]Event, 0, len(events))
	for _, e := range events {
		if e.GroupID == *groupID {
			out = append(out, e)
		}
	}
	return out
}
