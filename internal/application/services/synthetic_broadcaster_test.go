package services_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alfredhq/alfred/internal/application/services"
	"github.com/alfredhq/alfred/internal/domain/entities"
	"github.com/alfredhq/alfred/internal/domain/providers"
)

func TestSyntheticBroadcaster_EmitsFourEventsPerTick(t *testing.T) {
	bus := newCaptureBus()
	notifier := services.NewNotifier(bus, nil)
	clock := clockwork.NewFakeClock()

	broadcaster := services.NewSyntheticBroadcaster(notifier, clock, 2*time.Minute, "site-alpha")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go broadcaster.Run(ctx)

	// Let the Run loop install its ticker before advancing
	clock.BlockUntil(1)
	clock.Advance(2 * time.Minute)

	require.Eventually(t, func() bool {
		return len(bus.published(providers.EventChannelAll)) == 4
	}, 2*time.Second, 10*time.Millisecond)

	events := bus.published(providers.EventChannelAll)
	topics := make([]entities.EventTopic, len(events))
	for i, e := range events {
		topics[i] = e.Topic
	}
	assert.ElementsMatch(t, []entities.EventTopic{
		entities.TopicCommunicationNew,
		entities.TopicWeatherUpdate,
		entities.TopicProjectUpdate,
		entities.TopicAIInsight,
	}, topics)
}

func TestSyntheticBroadcaster_ValuesWithinDocumentedRanges(t *testing.T) {
	bus := newCaptureBus()
	notifier := services.NewNotifier(bus, nil)
	clock := clockwork.NewFakeClock()

	broadcaster := services.NewSyntheticBroadcaster(notifier, clock, 2*time.Minute, "site-alpha")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go broadcaster.Run(ctx)

	clock.BlockUntil(1)
	for i := 0; i < 20; i++ {
		clock.Advance(2 * time.Minute)
		require.Eventually(t, func() bool {
			return len(bus.published(providers.EventChannelAll)) == (i+1)*4
		}, 2*time.Second, 10*time.Millisecond)
	}

	for _, event := range bus.published(providers.EventChannelAll) {
		switch event.Topic {
		case entities.TopicWeatherUpdate:
			var payload struct {
				Location string                  `json:"location"`
				Data     *entities.WeatherRecord `json:"data"`
			}
			require.NoError(t, json.Unmarshal(event.Payload, &payload))
			assert.Equal(t, "site-alpha", payload.Location)
			assert.GreaterOrEqual(t, payload.Data.Temperature, 15.0)
			assert.LessOrEqual(t, payload.Data.Temperature, 45.0)
			assert.GreaterOrEqual(t, payload.Data.WindSpeed, 5.0)
			assert.LessOrEqual(t, payload.Data.WindSpeed, 25.0)
			assert.GreaterOrEqual(t, payload.Data.Humidity, 30.0)
			assert.LessOrEqual(t, payload.Data.Humidity, 70.0)
			assert.GreaterOrEqual(t, payload.Data.Pressure, 1000.0)
			assert.LessOrEqual(t, payload.Data.Pressure, 1030.0)
			assert.Contains(t, []string{"Clear", "Partly Cloudy", "Cloudy", "Rain"}, payload.Data.Condition)
		case entities.TopicProjectUpdate:
			var payload struct {
				ID        string    `json:"id"`
				Progress  int       `json:"progress"`
				UpdatedAt time.Time `json:"updatedAt"`
			}
			require.NoError(t, json.Unmarshal(event.Payload, &payload))
			assert.Equal(t, "site-alpha", payload.ID)
			assert.GreaterOrEqual(t, payload.Progress, 70)
			assert.LessOrEqual(t, payload.Progress, 90)
		case entities.TopicAIInsight:
			var comm entities.Communication
			require.NoError(t, json.Unmarshal(event.Payload, &comm))
			assert.Equal(t, entities.CommunicationPriorityHigh, comm.Priority)
			assert.True(t, comm.IsAI)
		case entities.TopicCommunicationNew:
			var comm entities.Communication
			require.NoError(t, json.Unmarshal(event.Payload, &comm))
			assert.Equal(t, entities.CommunicationTypeStatusUpdate, comm.Type)
			assert.Equal(t, entities.CommunicationPriorityNormal, comm.Priority)
			assert.NotEmpty(t, comm.ID)
		}
	}
}

func TestSyntheticBroadcaster_StopsOnContextCancel(t *testing.T) {
	bus := newCaptureBus()
	notifier := services.NewNotifier(bus, nil)
	clock := clockwork.NewFakeClock()

	broadcaster := services.NewSyntheticBroadcaster(notifier, clock, 2*time.Minute, "site-alpha")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		broadcaster.Run(ctx)
		close(done)
	}()

	clock.BlockUntil(1)
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("broadcaster did not stop on context cancel")
	}
}
