// Package bus provides event bus implementations for decoupling the
// search path from background consumers such as the history recorder.
package bus

import (
	"context"
	"time"
)

// Handler is a function that handles events.
type Handler func(ctx context.Context, event Event) error

// Bus defines the interface for event bus implementations. Publishing
// is fire-and-forget: subscribers run asynchronously and their errors
// never propagate back to the publisher.
type Bus interface {
	// Publish publishes an event to a topic.
	Publish(ctx context.Context, topic string, event Event) error

	// Subscribe subscribes to events on a topic.
	Subscribe(ctx context.Context, topic string, handler Handler) error

	// Close closes the bus and releases resources.
	Close() error
}

// Event represents a bus event.
type Event struct {
	// ID is the unique event identifier.
	ID string `json:"id"`

	// Type is the event type (e.g., "search.performed").
	Type string `json:"type"`

	// Source is the service that generated the event.
	Source string `json:"source"`

	// Timestamp is when the event was created.
	Timestamp int64 `json:"timestamp"`

	// Payload contains the event data.
	Payload any `json:"payload"`
}

// Topics for different event types.
const (
	// TopicSearchPerformed is published after every search request.
	TopicSearchPerformed = "search.performed"

	// TopicIssuesLoaded is published when a repository's issues are
	// loaded or replaced in the store.
	TopicIssuesLoaded = "issues.loaded"
)

// SearchEvent is the payload for TopicSearchPerformed.
type SearchEvent struct {
	Owner   string `json:"owner"`
	Repo    string `json:"repo"`
	Query   string `json:"query"`
	Results int    `json:"results"`
}

// LoadEvent is the payload for TopicIssuesLoaded.
type LoadEvent struct {
	Owner string `json:"owner"`
	Repo  string `json:"repo"`
	Count int    `json:"count"`
}

// NewEvent builds an event with the timestamp set to now.
func NewEvent(id, eventType, source string, payload any) Event {
	return Event{
		ID:        id,
		Type:      eventType,
		Source:    source,
		Timestamp: time.Now().Unix(),
		Payload:   payload,
	}
}
