package entities

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"time"
)

// EventTopic names a real-time notification topic
type EventTopic string

// Topics emitted by the write paths and the synthetic broadcaster. Every
// successful mutation emits exactly one of these.
const (
	TopicProjectNew           EventTopic = "project-new"
	TopicProjectUpdate        EventTopic = "project-update"
	TopicProjectDeleted       EventTopic = "project-deleted"
	TopicCommunicationNew     EventTopic = "communication-new"
	TopicCommunicationUpdate  EventTopic = "communication-update"
	TopicCommunicationDeleted EventTopic = "communication-deleted"
	TopicAIInsight            EventTopic = "ai-insight"
	TopicActionNew            EventTopic = "action-new"
	TopicActionUpdate         EventTopic = "action-update"
	TopicActionDeleted        EventTopic = "action-deleted"
	TopicRiskNew              EventTopic = "risk-new"
	TopicRiskUpdate           EventTopic = "risk-update"
	TopicRiskDeleted          EventTopic = "risk-deleted"
	TopicWeatherUpdate        EventTopic = "weather-update"
	TopicWeatherDeleted       EventTopic = "weather-deleted"
	TopicWeatherTest          EventTopic = "weather-test"
)

// DomainEvent is the envelope broadcast to connected clients. Payload is an
// already-marshaled JSON document; the hub never inspects it.
type DomainEvent struct {
	ID        string          `json:"id"`
	Topic     EventTopic      `json:"topic"`
	Timestamp time.Time       `json:"timestamp"`
	Payload   json.RawMessage `json:"payload"`
}

// NewDomainEvent creates an event for the given topic. Marshal failures are
// reported so a broken payload never reaches the wire half-encoded.
func NewDomainEvent(topic EventTopic, payload any) (*DomainEvent, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &DomainEvent{
		ID:        generateEventID(),
		Topic:     topic,
		Timestamp: time.Now(),
		Payload:   data,
	}, nil
}

// generateEventID generates a unique event ID
func generateEventID() string {
	return time.Now().Format("20060102150405") + "-" + randomString(8)
}

// randomString generates a random string of specified length
func randomString(length int) string {
	bytes := make([]byte, length/2+1)
	if _, err := rand.Read(bytes); err != nil {
		// Fallback to timestamp-based if crypto/rand fails
		return time.Now().Format("150405.000")
	}
	return hex.EncodeToString(bytes)[:length]
}
