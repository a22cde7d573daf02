// Package history describes a recorded search.
package history

import (
	"strconv"
	"time"

	"github.com/google/uuid"
)

// AnonymousUser is recorded when the caller did not identify itself.
const AnonymousUser = "anonymous"

// Event is one search as seen by the history stream.
type Event struct {
	ID     string
	UserID string
	Query  string
	Path   string
	Total  int
	At     time.Time
}

// NewEvent stamps a search with a fresh ID and the current time.
func NewEvent(userID, query, path string, total int) Event {
	if userID == "" {
		userID = AnonymousUser
	}
	return Event{
		ID:     uuid.NewString(),
		UserID: userID,
		Query:  query,
		Path:   path,
		Total:  total,
		At:     time.Now().UTC(),
	}
}

// Fields flattens the event into stream entry fields.
func (e Event) Fields() map[string]string {
	return map[string]string{
		"id":    e.ID,
		"user":  e.UserID,
		"query": e.Query,
		"path":  e.Path,
		"total": strconv.Itoa(e.Total),
		"at":    e.At.Format(time.RFC3339Nano),
	}
}
