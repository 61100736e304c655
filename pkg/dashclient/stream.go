package dashclient

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/alfredhq/alfred/internal/domain/entities"
	"github.com/alfredhq/alfred/pkg/retry"
)

// Stream consumes the server-sent event feed and reconciles every pushed
// event into a Store. On disconnect it marks the store stale and reconnects
// with backoff; it never refetches on its own.
type Stream struct {
	client   *Client
	store    *Store
	retryCfg retry.Config

	// Separate HTTP client: the REST client's timeout would kill a
	// long-lived SSE connection.
	httpClient *http.Client
}

// NewStream creates a stream consumer feeding the given store
func NewStream(client *Client, store *Store) *Stream {
	cfg := retry.DefaultConfig()
	cfg.MaxTotalTimeout = 0
	return &Stream{
		client:     client,
		store:      store,
		retryCfg:   cfg,
		httpClient: &http.Client{},
	}
}

// Run connects to the event stream and applies events until ctx is
// cancelled. Each dropped connection marks the store stale before the
// reconnect attempts begin. A connection that was established and later
// dropped resets the backoff cycle; Run only gives up when the configured
// attempts all fail to connect at all.
func (s *Stream) Run(ctx context.Context) error {
	for {
		err := retry.DoWithLog(ctx, s.retryCfg, "event stream", func() error {
			connected, err := s.consume(ctx)
			if connected {
				// Established then dropped: the outer loop starts a
				// fresh backoff cycle
				return nil
			}
			return err
		}, func(attempt int, err error, nextDelay time.Duration) {
			log.Warn().
				Err(err).
				Int("attempt", attempt).
				Dur("nextDelay", nextDelay).
				Msg("event stream connection failed, retrying")
		})

		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err != nil {
			return err
		}
		log.Warn().Msg("event stream disconnected, reconnecting")
	}
}

// consume holds one SSE connection open and applies its events. The
// returned bool reports whether the connection was ever established.
func (s *Stream) consume(ctx context.Context) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.client.baseURL+"/api/stream", nil)
	if err != nil {
		return false, err
	}
	req.Header.Set("Accept", "text/event-stream")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.store.MarkStale()
		return false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		s.store.MarkStale()
		return false, fmt.Errorf("event stream returned status %d", resp.StatusCode)
	}

	log.Info().Str("url", req.URL.String()).Msg("event stream connected")

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var eventName, data string
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, "event: "):
			eventName = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			data = strings.TrimPrefix(line, "data: ")
		case line == "":
			// Blank line terminates one SSE message
			if err := s.dispatch(eventName, data); err != nil {
				log.Error().Err(err).Str("event", eventName).Msg("failed to apply event")
			}
			eventName, data = "", ""
		}
	}

	// The server never closes the stream on its own, so reaching here
	// means the connection dropped
	s.store.MarkStale()
	if err := scanner.Err(); err != nil {
		return true, err
	}
	return true, fmt.Errorf("event stream closed")
}

func (s *Stream) dispatch(eventName, data string) error {
	switch eventName {
	case "", "connected", "heartbeat":
		return nil
	}

	var event entities.DomainEvent
	if err := json.Unmarshal([]byte(data), &event); err != nil {
		return fmt.Errorf("decoding %s event: %w", eventName, err)
	}
	return s.store.Apply(&event)
}
