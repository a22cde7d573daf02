package history

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNewEvent(t *testing.T) {
	before := time.Now().UTC()
	e := NewEvent("", "bolt", "discovery", 12)

	if _, err := uuid.Parse(e.ID); err != nil {
		t.Errorf("ID %q is not a uuid: %v", e.ID, err)
	}
	if e.UserID != AnonymousUser {
		t.Errorf("UserID = %q, want %q", e.UserID, AnonymousUser)
	}
	if e.At.Before(before) {
		t.Errorf("At = %v is before %v", e.At, before)
	}
}

func TestFields(t *testing.T) {
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	e := Event{ID: "id-1", UserID: "u1", Query: "5965015726371", Path: "exact", Total: 1, At: at}

	f := e.Fields()
	want := map[string]string{
		"id": "id-1", "user": "u1", "query": "5965015726371",
		"path": "exact", "total": "1", "at": "2024-05-01T12:00:00Z",
	}
	for k, v := range want {
		if f[k] != v {
			t.Errorf("Fields()[%q] = %q, want %q", k, f[k], v)
		}
	}
	if len(f) != len(want) {
		t.Errorf("unexpected field count %d", len(f))
	}
}
