package events

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alfredhq/alfred/internal/domain/entities"
	"github.com/alfredhq/alfred/internal/domain/providers"
	redisclient "github.com/alfredhq/alfred/internal/infrastructure/clients/redis"
)

func newTestBus(t *testing.T) providers.EventBus {
	t.Helper()

	mr := miniredis.RunT(t)
	client, err := redisclient.NewClientFromAddr(mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	bus := NewRedisEventBus(client)
	t.Cleanup(func() { bus.Close() })

	return bus
}

func waitForEvent(t *testing.T, ch <-chan *entities.DomainEvent) *entities.DomainEvent {
	t.Helper()

	select {
	case event := <-ch:
		return event
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
		return nil
	}
}

func TestRedisEventBus_PublishReachesAllSubscribers(t *testing.T) {
	bus := newTestBus(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	first, err := bus.Subscribe(ctx, providers.EventChannelAll)
	require.NoError(t, err)
	second, err := bus.Subscribe(ctx, providers.EventChannelAll)
	require.NoError(t, err)

	event, err := entities.NewDomainEvent(entities.TopicProjectUpdate, map[string]any{"id": "site-alpha", "progress": 70})
	require.NoError(t, err)

	require.NoError(t, bus.Publish(ctx, providers.EventChannelAll, event))

	got := waitForEvent(t, first)
	assert.Equal(t, event.ID, got.ID)
	assert.Equal(t, entities.TopicProjectUpdate, got.Topic)
	assert.JSONEq(t, `{"id":"site-alpha","progress":70}`, string(got.Payload))

	got = waitForEvent(t, second)
	assert.Equal(t, event.ID, got.ID)
}

func TestRedisEventBus_ProjectChannelIsScoped(t *testing.T) {
	bus := newTestBus(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	alpha, err := bus.Subscribe(ctx, providers.ProjectChannel("site-alpha"))
	require.NoError(t, err)
	beta, err := bus.Subscribe(ctx, providers.ProjectChannel("site-beta"))
	require.NoError(t, err)

	event, err := entities.NewDomainEvent(entities.TopicActionNew, map[string]any{"id": "act-1"})
	require.NoError(t, err)
	require.NoError(t, bus.Publish(ctx, providers.ProjectChannel("site-alpha"), event))

	got := waitForEvent(t, alpha)
	assert.Equal(t, event.ID, got.ID)

	select {
	case unexpected := <-beta:
		t.Fatalf("event leaked to another project channel: %v", unexpected)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestRedisEventBus_PublishWithoutSubscribersIsNoop(t *testing.T) {
	bus := newTestBus(t)

	event, err := entities.NewDomainEvent(entities.TopicWeatherUpdate, map[string]any{"location": "phoenix"})
	require.NoError(t, err)

	assert.NoError(t, bus.Publish(context.Background(), providers.EventChannelAll, event))
}

func TestRedisEventBus_SubscriberDroppedOnContextCancel(t *testing.T) {
	bus := newTestBus(t)

	ctx, cancel := context.WithCancel(context.Background())
	ch, err := bus.Subscribe(ctx, providers.EventChannelAll)
	require.NoError(t, err)

	cancel()

	// The channel is closed once the cancellation is observed
	assert.Eventually(t, func() bool {
		select {
		case _, open := <-ch:
			return !open
		default:
			return false
		}
	}, 2*time.Second, 10*time.Millisecond)
}
