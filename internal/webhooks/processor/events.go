package processor

import (
	"encoding/json"
	"fmt"
)

// EventKind identifies a provider webhook event type.
type EventKind string

const (
	EventKindCallStarted  EventKind = "call_started"
	EventKindCallEnded    EventKind = "call_ended"
	EventKindCallAnalyzed EventKind = "call_analyzed"
	EventKindUnknown      EventKind = "unknown"
)

// Event is a provider webhook delivery reduced to the fields the state
// machine acts on. Raw keeps the original payload for logging.
type Event struct {
	Kind           EventKind
	ProviderCallID string
	Transcript     string
	Raw            json.RawMessage
}

type providerEnvelope struct {
	Event string `json:"event"`
	Call  struct {
		CallID     string `json:"call_id"`
		Transcript string `json:"transcript"`
	} `json:"call"`
}

// ParseEvent decodes a provider webhook payload. Unknown event names map to
// EventKindUnknown rather than an error so deliveries are never rejected for
// being newer than this service.
func ParseEvent(payload []byte) (Event, error) {
	var envelope providerEnvelope
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return Event{}, fmt.Errorf("failed to parse webhook payload: %w", err)
	}

	event := Event{
		ProviderCallID: envelope.Call.CallID,
		Transcript:     envelope.Call.Transcript,
		Raw:            json.RawMessage(payload),
	}

	switch envelope.Event {
	case "call_started":
		event.Kind = EventKindCallStarted
	case "call_ended":
		event.Kind = EventKindCallEnded
	case "call_analyzed":
		event.Kind = EventKindCallAnalyzed
	default:
		event.Kind = EventKindUnknown
	}
	return event, nil
}

// Outcome describes what an event did to the call record. It exists for
// logging and tests; the HTTP handler acknowledges every outcome the same way.
type Outcome string

const (
	OutcomeApplied  Outcome = "applied"
	OutcomeNoOp     Outcome = "no_op"
	OutcomeNotFound Outcome = "not_found"
	OutcomeIgnored  Outcome = "ignored"
)
