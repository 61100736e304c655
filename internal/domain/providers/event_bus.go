package providers

import (
	"context"

	"github.com/alfredhq/alfred/internal/domain/entities"
)

// EventBus defines the interface for publishing and subscribing to events
type EventBus interface {
	// Publish publishes an event to all subscribers of a channel. Publishing
	// to a channel with no subscribers is a silent no-op.
	Publish(ctx context.Context, channel string, event *entities.DomainEvent) error

	// Subscribe subscribes to events on a channel. The subscription is dropped
	// when ctx is cancelled.
	Subscribe(ctx context.Context, channel string) (<-chan *entities.DomainEvent, error)

	// Unsubscribe unsubscribes all local subscribers from a channel
	Unsubscribe(ctx context.Context, channel string) error

	// Close closes the event bus and all subscriptions
	Close() error
}

// EventChannel constants for the broadcast scopes
const (
	// EventChannelAll carries every broadcast regardless of project
	EventChannelAll = "events:all"

	// EventChannelProjectPrefix is the prefix for project-scoped channels
	EventChannelProjectPrefix = "project:"
)

// ProjectChannel returns the channel name for a project-scoped subscription
func ProjectChannel(projectID string) string {
	return EventChannelProjectPrefix + projectID
}
