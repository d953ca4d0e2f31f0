package amqp

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/spinzar/bigcapital/internal/core/domain"
)

// Envelope wraps a domain event for the wire. ID is a ULID so consumers can
// deduplicate and order deliveries.
type Envelope struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	OccurredAt time.Time       `json:"occurredAt"`
	RequestID  string          `json:"requestId,omitempty"`
	Payload    json.RawMessage `json:"payload"`
}

// NewEnvelope serializes event into an envelope stamped at now.
func NewEnvelope(event domain.Event, requestID string, now time.Time) (*Envelope, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", event.EventName(), err)
	}
	return &Envelope{
		ID:         ulid.MustNew(ulid.Timestamp(now), ulid.DefaultEntropy()).String(),
		Name:       event.EventName(),
		OccurredAt: now.UTC(),
		RequestID:  requestID,
		Payload:    payload,
	}, nil
}

// ToJSON converts the envelope to JSON bytes
func (e *Envelope) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// EnvelopeFromJSON decodes an envelope from JSON bytes
func EnvelopeFromJSON(data []byte) (*Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, err
	}
	return &env, nil
}
