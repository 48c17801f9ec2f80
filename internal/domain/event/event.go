package event

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

// Event is a domain event describing something that happened to an
// application. Events are published after the owning transaction commits;
// subscribers (notification delivery, audit mirrors) must tolerate
// at-least-once delivery.
type Event struct {
	ID            string         `json:"id"`
	Type          Type           `json:"type"`
	ApplicationID string         `json:"application_id"`
	JobID         string         `json:"job_id,omitempty"`
	Payload       map[string]any `json:"payload,omitempty"`
	Timestamp     time.Time      `json:"timestamp"`
	CorrelationID string         `json:"correlation_id"`
}

// New creates a domain event with a generated ID and timestamp.
func New(eventType Type, applicationID, jobID string, payload map[string]any) *Event {
	return &Event{
		ID:            generateID(),
		Type:          eventType,
		ApplicationID: applicationID,
		JobID:         jobID,
		Payload:       payload,
		Timestamp:     time.Now(),
		CorrelationID: generateID(),
	}
}

// NewWithCorrelation creates an event linked to an existing correlation chain.
func NewWithCorrelation(eventType Type, applicationID, jobID string, payload map[string]any, correlationID string) *Event {
	evt := New(eventType, applicationID, jobID, payload)
	evt.CorrelationID = correlationID
	return evt
}

// PayloadString retrieves a string value from the payload, or "" when the
// key is absent or not a string.
func (e *Event) PayloadString(key string) string {
	if val, ok := e.Payload[key]; ok {
		if s, ok := val.(string); ok {
			return s
		}
	}
	return ""
}

// generateID creates a unique ID from a timestamp and random bytes.
func generateID() string {
	b := make([]byte, 8)
	rand.Read(b)
	return fmt.Sprintf("%d-%s", time.Now().UnixNano(), hex.EncodeToString(b))
}
