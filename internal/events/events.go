// Package events describes workspace activity that is shipped to the
// activity log, either through RabbitMQ or written directly.
package events

import (
	"context"
	"crypto/rand"
	"time"

	"github.com/oklog/ulid/v2"
)

type Type string

const (
	TypeSearch         Type = "chat.search"
	TypeSearchFailed   Type = "chat.search_failed"
	TypeRouteComputed  Type = "route.computed"
	TypeSessionDeleted Type = "session.deleted"
)

type Event struct {
	ID        string            `json:"id"`
	Type      Type              `json:"type"`
	UserID    string            `json:"user_id"`
	SessionID string            `json:"session_id,omitempty"`
	At        time.Time         `json:"at"`
	Attrs     map[string]string `json:"attrs,omitempty"`
}

func New(t Type, userID, sessionID string, attrs map[string]string) Event {
	now := time.Now().UTC()
	id, err := ulid.New(ulid.Timestamp(now), rand.Reader)
	if err != nil {
		id = ulid.Make()
	}
	return Event{
		ID:        id.String(),
		Type:      t,
		UserID:    userID,
		SessionID: sessionID,
		At:        now,
		Attrs:     attrs,
	}
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// Nop drops every event.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
