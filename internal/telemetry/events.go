package telemetry

import (
	"context"
	"log"
	"time"

	"go.opentelemetry.io/otel/trace"
)

type Publisher interface {
	Publish(ctx context.Context, routingKey string, event any) error
	Close() error
}

// Event types published on the room lifecycle.
const (
	EventParticipantJoined = "participant_joined"
	EventParticipantLeft   = "participant_left"
	EventMessagePosted     = "message_posted"
	EventMessageEdited     = "message_edited"
	EventMessageDeleted    = "message_deleted"
)

// EventEmitter publishes chat lifecycle events as versioned envelopes.
// A nil emitter or publisher is a no-op, so callers never guard.
type EventEmitter struct {
	publisher   Publisher
	service     string
	environment string
}

type EventEnvelope struct {
	SchemaVersion int    `json:"schema_version"`
	EventType     string `json:"event_type"`
	OccurredAt    string `json:"occurred_at"`
	Service       string `json:"service"`
	Environment   string `json:"environment"`
	TraceID       string `json:"trace_id,omitempty"`
	Payload       any    `json:"payload"`
}

// ParticipantEvent is the payload for presence lifecycle events.
type ParticipantEvent struct {
	Name   string `json:"name"`
	Reason string `json:"reason,omitempty"`
}

// MessageEvent is the payload for message lifecycle events. The text itself
// is never published.
type MessageEvent struct {
	ID   string `json:"id"`
	From string `json:"from"`
	To   string `json:"to"`
	Type string `json:"type"`
}

func NewEventEmitter(publisher Publisher, service, environment string) *EventEmitter {
	return &EventEmitter{
		publisher:   publisher,
		service:     service,
		environment: environment,
	}
}

// Emit publishes one event. Failures are logged and dropped; lifecycle
// events are best-effort and never fail the operation that produced them.
func (e *EventEmitter) Emit(ctx context.Context, eventType string, payload any) {
	if e == nil || e.publisher == nil {
		return
	}

	envelope := EventEnvelope{
		SchemaVersion: 1,
		EventType:     eventType,
		OccurredAt:    time.Now().UTC().Format(time.RFC3339Nano),
		Service:       e.service,
		Environment:   e.environment,
		Payload:       payload,
	}
	if spanCtx := trace.SpanContextFromContext(ctx); spanCtx.HasTraceID() {
		envelope.TraceID = spanCtx.TraceID().String()
	}

	if err := e.publisher.Publish(ctx, "chat."+eventType, envelope); err != nil {
		log.Printf("event publish failed: type=%s err=%v", eventType, err)
	}
}
