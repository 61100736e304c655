package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/alfredhq/alfred/internal/domain/entities"
	"github.com/alfredhq/alfred/internal/domain/providers"
	"github.com/alfredhq/alfred/internal/infrastructure/observability"
)

// StreamHandler handles Server-Sent Events connections for real-time updates
type StreamHandler struct {
	eventBus providers.EventBus
	metrics  *observability.Metrics
	clients  map[string]map[chan *entities.DomainEvent]bool // channel -> clients
	mu       sync.RWMutex
}

// NewStreamHandler creates a new stream handler. metrics may be nil when
// telemetry is disabled.
func NewStreamHandler(eventBus providers.EventBus, metrics *observability.Metrics) *StreamHandler {
	return &StreamHandler{
		eventBus: eventBus,
		metrics:  metrics,
		clients:  make(map[string]map[chan *entities.DomainEvent]bool),
	}
}

// StreamAll handles SSE connections for the network-wide feed
// GET /api/stream
func (h *StreamHandler) StreamAll(w http.ResponseWriter, r *http.Request) {
	h.stream(w, r, providers.EventChannelAll, map[string]interface{}{
		"channel":   "all",
		"timestamp": time.Now(),
	})
}

// StreamProject handles SSE connections scoped to a single project
// GET /api/stream/projects/{id}
func (h *StreamHandler) StreamProject(w http.ResponseWriter, r *http.Request) {
	projectID := r.PathValue("id")
	if projectID == "" {
		respondWithError(w, http.StatusBadRequest, "project ID is required")
		return
	}

	h.stream(w, r, providers.ProjectChannel(projectID), map[string]interface{}{
		"projectId": projectID,
		"timestamp": time.Now(),
	})
}

func (h *StreamHandler) stream(w http.ResponseWriter, r *http.Request, channel string, connectPayload map[string]interface{}) {
	if h.eventBus == nil {
		respondWithError(w, http.StatusServiceUnavailable, "real-time updates unavailable")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		respondWithError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	clientChan := make(chan *entities.DomainEvent, 10)
	h.registerClient(r.Context(), channel, clientChan)
	defer h.unregisterClient(r.Context(), channel, clientChan)

	eventChan, err := h.eventBus.Subscribe(r.Context(), channel)
	if err != nil {
		log.Error().Err(err).Str("channel", channel).Msg("failed to subscribe to event channel")
		return
	}

	h.sendEvent(w, "connected", connectPayload)
	flusher.Flush()

	go h.forwardEvents(r.Context(), eventChan, clientChan)

	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			log.Debug().Str("channel", channel).Msg("stream client disconnected")
			return
		case <-ticker.C:
			h.sendEvent(w, "heartbeat", map[string]interface{}{
				"timestamp": time.Now(),
			})
			flusher.Flush()
		case event := <-clientChan:
			if event == nil {
				continue
			}
			h.sendEvent(w, string(event.Topic), event)
			flusher.Flush()
		}
	}
}

// forwardEvents forwards events from the event bus to a client channel
func (h *StreamHandler) forwardEvents(ctx context.Context, eventChan <-chan *entities.DomainEvent, clientChan chan<- *entities.DomainEvent) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-eventChan:
			if !ok {
				return
			}
			select {
			case clientChan <- event:
			default:
				// Client channel full, skip event
			}
		}
	}
}

func (h *StreamHandler) registerClient(ctx context.Context, channel string, clientChan chan *entities.DomainEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.clients[channel] == nil {
		h.clients[channel] = make(map[chan *entities.DomainEvent]bool)
	}
	h.clients[channel][clientChan] = true
	if h.metrics != nil {
		h.metrics.StreamClients.Add(ctx, 1)
	}
	log.Debug().Str("channel", channel).Int("total", len(h.clients[channel])).Msg("stream client registered")
}

func (h *StreamHandler) unregisterClient(ctx context.Context, channel string, clientChan chan *entities.DomainEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if clients, exists := h.clients[channel]; exists {
		delete(clients, clientChan)
		if h.metrics != nil {
			h.metrics.StreamClients.Add(ctx, -1)
		}
		if len(clients) == 0 {
			delete(h.clients, channel)
		}
	}
}

// sendEvent writes one SSE event to the client
func (h *StreamHandler) sendEvent(w http.ResponseWriter, eventType string, data interface{}) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		log.Error().Err(err).Str("event", eventType).Msg("failed to marshal stream event")
		return
	}

	fmt.Fprintf(w, "event: %s\n", eventType)
	fmt.Fprintf(w, "data: %s\n\n", jsonData)
}

// ClientCount returns the number of connected stream clients
func (h *StreamHandler) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	count := 0
	for _, clients := range h.clients {
		count += len(clients)
	}
	return count
}
