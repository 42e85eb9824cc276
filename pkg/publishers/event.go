package publishers

import (
	"time"

	"github.com/google/uuid"
	"github.com/samvad-hq/items-fetcher/pkg/items"
)

// Event is one fetched items snapshot sent downstream.
type Event struct {
	ID        string        `json:"id"`
	Endpoint  string        `json:"endpoint"`
	FetchedAt time.Time     `json:"fetched_at"`
	Stale     bool          `json:"stale"`
	Count     int           `json:"count"`
	Groups    []items.Group `json:"groups"`
}

// NewEvent groups c by listId and stamps it with a fresh id.
// stale marks a snapshot served from the cache after a failed fetch.
func NewEvent(endpoint string, c items.Collection, stale bool) Event {
	return Event{
		ID:        uuid.NewString(),
		Endpoint:  endpoint,
		FetchedAt: time.Now().UTC(),
		Stale:     stale,
		Count:     len(c.Items),
		Groups:    c.GroupByListID(),
	}
}

// attributes are attached to queue and topic messages for routing.
func (e Event) attributes() map[string]string {
	stale := "false"
	if e.Stale {
		stale = "true"
	}
	return map[string]string{
		"event_id": e.ID,
		"endpoint": e.Endpoint,
		"stale":    stale,
	}
}
