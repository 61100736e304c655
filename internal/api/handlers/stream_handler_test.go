package handlers_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alfredhq/alfred/internal/api/handlers"
	"github.com/alfredhq/alfred/internal/domain/entities"
)

// streamBus hands every subscriber the same pre-loaded channel
type streamBus struct {
	events chan *entities.DomainEvent
}

func (b *streamBus) Publish(ctx context.Context, channel string, event *entities.DomainEvent) error {
	b.events <- event
	return nil
}

func (b *streamBus) Subscribe(ctx context.Context, channel string) (<-chan *entities.DomainEvent, error) {
	return b.events, nil
}

func (b *streamBus) Unsubscribe(ctx context.Context, channel string) error { return nil }

func (b *streamBus) Close() error { return nil }

// sseRecorder is a concurrency-safe ResponseWriter for a handler that keeps
// writing from its own goroutine
type sseRecorder struct {
	mu     sync.Mutex
	buf    bytes.Buffer
	header http.Header
	status int
}

func newSSERecorder() *sseRecorder {
	return &sseRecorder{header: make(http.Header), status: http.StatusOK}
}

func (r *sseRecorder) Header() http.Header { return r.header }

func (r *sseRecorder) WriteHeader(code int) { r.status = code }

func (r *sseRecorder) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.buf.Write(p)
}

func (r *sseRecorder) Flush() {}

func (r *sseRecorder) Body() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.buf.String()
}

func TestStreamHandler_DeliversConnectedThenEvents(t *testing.T) {
	event, err := entities.NewDomainEvent(entities.TopicProjectUpdate, map[string]any{"id": "site-alpha", "progress": 80})
	require.NoError(t, err)

	bus := &streamBus{events: make(chan *entities.DomainEvent, 1)}
	bus.events <- event

	handler := handlers.NewStreamHandler(bus, nil)

	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodGet, "/api/stream", nil).WithContext(ctx)
	rec := newSSERecorder()

	done := make(chan struct{})
	go func() {
		handler.StreamAll(rec, req)
		close(done)
	}()

	require.Eventually(t, func() bool {
		return strings.Contains(rec.Body(), "event: project-update")
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("handler did not return after context cancel")
	}

	body := rec.Body()
	connectedAt := strings.Index(body, "event: connected")
	updateAt := strings.Index(body, "event: project-update")
	require.GreaterOrEqual(t, connectedAt, 0)
	require.Greater(t, updateAt, connectedAt)
	assert.Contains(t, body, `"topic":"project-update"`)
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
	assert.Equal(t, 0, handler.ClientCount())
}

func TestStreamHandler_NilBusUnavailable(t *testing.T) {
	handler := handlers.NewStreamHandler(nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/stream", nil)
	w := httptest.NewRecorder()
	handler.StreamAll(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	env := decodeEnvelope(t, w)
	assert.Equal(t, "real-time updates unavailable", env.Error)
}

func TestStreamHandler_ProjectStreamRequiresID(t *testing.T) {
	bus := &streamBus{events: make(chan *entities.DomainEvent)}
	handler := handlers.NewStreamHandler(bus, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/stream/projects/", nil)
	w := httptest.NewRecorder()
	handler.StreamProject(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
