package events

import "time"

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "CHAT_TURN_COMPLETED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent embeds common logic for concrete events.
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

const (
	TypeUserRegistered    = "USER_REGISTERED"
	TypeChatTurnCompleted = "CHAT_TURN_COMPLETED"
	TypeSummaryCreated    = "SUMMARY_CREATED"
)

// NewUserRegistered is emitted after a successful registration.
func NewUserRegistered(username string) Event {
	return BaseEvent{
		Type: TypeUserRegistered,
		Data: map[string]interface{}{
			"username": username,
		},
		OccurredAt: time.Now(),
	}
}

// NewChatTurnCompleted is emitted after each delivered chat turn. The
// payload carries identifiers and flags only, never message content.
func NewChatTurnCompleted(username, sessionID string, greeting bool) Event {
	return BaseEvent{
		Type: TypeChatTurnCompleted,
		Data: map[string]interface{}{
			"username":   username,
			"session_id": sessionID,
			"greeting":   greeting,
		},
		OccurredAt: time.Now(),
	}
}

// NewSummaryCreated is emitted when a session summary is persisted.
func NewSummaryCreated(username, sessionID string) Event {
	return BaseEvent{
		Type: TypeSummaryCreated,
		Data: map[string]interface{}{
			"username":   username,
			"session_id": sessionID,
		},
		OccurredAt: time.Now(),
	}
}
