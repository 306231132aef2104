package events

import "time"

// Event is the contract for domain events published to the bus.
type Event interface {
	// EventType returns the unique code for this event (e.g. "CASE_DIAGNOSED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent is a plain implementation for events with no extra behavior.
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

// Event type codes.
const (
	TypeCaseSubmitted   = "CASE_SUBMITTED"
	TypeCaseDiagnosed   = "CASE_DIAGNOSED"
	TypeCaseRegenerated = "CASE_REGENERATED"
)

// NewCaseSubmitted builds the event emitted when a new case enters the
// system, before any diagnosis has run.
func NewCaseSubmitted(caseId, complaint string) Event {
	return BaseEvent{
		Type: TypeCaseSubmitted,
		Data: map[string]interface{}{
			"case_id":   caseId,
			"complaint": complaint,
		},
		OccurredAt: time.Now(),
	}
}

// NewCaseDiagnosed builds the event emitted after a diagnosis record is
// written onto a case.
func NewCaseDiagnosed(caseId, diagnosis string, regenerated bool) Event {
	eventType := TypeCaseDiagnosed
	if regenerated {
		eventType = TypeCaseRegenerated
	}
	return BaseEvent{
		Type: eventType,
		Data: map[string]interface{}{
			"case_id":   caseId,
			"diagnosis": diagnosis,
		},
		OccurredAt: time.Now(),
	}
}
