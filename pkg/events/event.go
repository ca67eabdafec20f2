package events

import "time"

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "TURN_COMPLETED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// NewTurnCompleted records one finished conversation exchange for the
// analytics stream. No utterance text is included, only routing metadata.
func NewTurnCompleted(sessionId, topic string, durationMs int64) Event {
	return BaseEvent{
		Type: "TURN_COMPLETED",
		Data: map[string]interface{}{
			"session_id":  sessionId,
			"topic":       topic,
			"duration_ms": durationMs,
		},
		OccurredAt: time.Now(),
	}
}

// NewTeaserCacheRebuilt marks a completed teaser index rebuild.
func NewTeaserCacheRebuilt(keywords int) Event {
	return BaseEvent{
		Type: "TEASER_CACHE_REBUILT",
		Data: map[string]interface{}{
			"keywords": keywords,
		},
		OccurredAt: time.Now(),
	}
}
