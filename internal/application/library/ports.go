// Package library holds the use cases of the booknotes service. It
// orchestrates the domain services and adds the access gate, the view
// cache, event publishing and metrics around them.
package library

import (
	"context"
	"time"
)

// ViewCache caches read views by name (cache-aside). Set only stores a
// value when no InvalidateAll ran since gen was read from Generation.
type ViewCache interface {
	Generation(ctx context.Context) (int64, error)
	Get(ctx context.Context, name string, dst interface{}) (bool, error)
	Set(ctx context.Context, name string, gen int64, v interface{}) error
	InvalidateAll(ctx context.Context) error
}

// EventPublisher sends a domain event
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, message interface{}) error
}

// Routing keys of library events
const (
	EventBookCreated   = "book.created"
	EventBookUpdated   = "book.updated"
	EventBookDeleted   = "book.deleted"
	EventReviewCreated = "review.created"
	EventReviewUpdated = "review.updated"
	EventReviewDeleted = "review.deleted"
	EventNoteCreated   = "note.created"
	EventNoteUpdated   = "note.updated"
	EventNoteDeleted   = "note.deleted"
)

// Event is the payload of every library event
type Event struct {
	Type       string    `json:"type"`
	BookID     uint      `json:"book_id,omitempty"`
	EntityID   uint      `json:"entity_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NopCache never hits
type NopCache struct{}

func (NopCache) Generation(context.Context) (int64, error)              { return 0, nil }
func (NopCache) Get(context.Context, string, interface{}) (bool, error) { return false, nil }
func (NopCache) Set(context.Context, string, int64, interface{}) error  { return nil }
func (NopCache) InvalidateAll(context.Context) error                    { return nil }

// NopPublisher drops events
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, interface{}) error { return nil }
