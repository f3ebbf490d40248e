package events

import "time"

// EventType defines the type of event.
type EventType string

const (
	EventTypeRunStarted     EventType = "run.started"
	EventTypeRunCompleted   EventType = "run.completed"
	EventTypeRunFailed      EventType = "run.failed"
	EventTypeRecordRejected EventType = "record.rejected"
)

// SchemaVersion is the current event schema version.
const SchemaVersion = "1.0"

// BaseEvent contains common fields for all events.
type BaseEvent struct {
	EventType     EventType `json:"event_type"`
	SchemaVersion string    `json:"schema_version"`
	RunID         string    `json:"run_id"`
	Timestamp     time.Time `json:"timestamp"`
}

// RunStartedEvent is emitted when a pipeline run begins.
type RunStartedEvent struct {
	BaseEvent
	Source string `json:"source"`
	Sink   string `json:"sink"`
}

// RunCompletedEvent is emitted when a pipeline run finishes cleanly.
type RunCompletedEvent struct {
	BaseEvent
	Products         int64 `json:"products"`
	Rejected         int64 `json:"rejected"`
	NodeRows         int64 `json:"node_rows"`
	RelationshipRows int64 `json:"relationship_rows"`
}

// RunFailedEvent is emitted when a pipeline run aborts.
type RunFailedEvent struct {
	BaseEvent
	Error string `json:"error"`
}

// RecordRejectedEvent is emitted for every input record dropped for a
// missing or unusable product code.
type RecordRejectedEvent struct {
	BaseEvent
	Reason string `json:"reason"`
}
