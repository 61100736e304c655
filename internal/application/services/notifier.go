package services

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/alfredhq/alfred/internal/domain/entities"
	"github.com/alfredhq/alfred/internal/domain/providers"
	"github.com/alfredhq/alfred/internal/infrastructure/observability"
)

// Notifier bridges successful mutations to the event bus. Broadcasting is
// fire-and-forget: a bus failure is logged and never propagated, so a write
// that already hit the database can't be failed by its notification.
type Notifier struct {
	bus     providers.EventBus
	metrics *observability.Metrics
}

// NewNotifier creates a new notifier. metrics may be nil.
func NewNotifier(bus providers.EventBus, metrics *observability.Metrics) *Notifier {
	return &Notifier{
		bus:     bus,
		metrics: metrics,
	}
}

// BroadcastAll publishes one event to the shared channel
func (n *Notifier) BroadcastAll(ctx context.Context, topic entities.EventTopic, payload any) {
	n.publish(ctx, providers.EventChannelAll, topic, payload)
}

// BroadcastToProject publishes one event to a project-scoped channel in
// addition to the shared channel
func (n *Notifier) BroadcastToProject(ctx context.Context, projectID string, topic entities.EventTopic, payload any) {
	n.publish(ctx, providers.EventChannelAll, topic, payload)
	n.publish(ctx, providers.ProjectChannel(projectID), topic, payload)
}

func (n *Notifier) publish(ctx context.Context, channel string, topic entities.EventTopic, payload any) {
	if n.bus == nil {
		return
	}

	event, err := entities.NewDomainEvent(topic, payload)
	if err != nil {
		log.Error().Err(err).Str("topic", string(topic)).Msg("failed to build event payload")
		return
	}

	if err := n.bus.Publish(ctx, channel, event); err != nil {
		log.Error().Err(err).Str("topic", string(topic)).Str("channel", channel).Msg("failed to broadcast event")
		return
	}

	if n.metrics != nil {
		observability.RecordBroadcast(ctx, n.metrics, string(topic))
	}
}
