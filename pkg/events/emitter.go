// Package events publishes pipeline run lifecycle events to Kafka. Event
// emission is best-effort observability: a publish failure is logged and
// never fails the run.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/segmentio/kafka-go"

	"github.com/yoloeats/foodgraph/pkg/tracing"
)

// ProducerConfig holds Kafka producer configuration.
type ProducerConfig struct {
	Brokers      []string
	Topic        string
	BatchSize    int
	BatchTimeout time.Duration
	RequiredAcks int
	Compression  string
}

// Emitter publishes run events. A nil *Emitter is valid and drops everything,
// so callers never branch on whether events are enabled.
type Emitter struct {
	writer *kafka.Writer
	logger ectologger.Logger
	topic  string
	runID  string
}

// NewEmitter creates an emitter for the given run.
func NewEmitter(cfg ProducerConfig, runID string, logger ectologger.Logger) *Emitter {
	compression := kafka.Snappy
	switch cfg.Compression {
	case "gzip":
		compression = kafka.Gzip
	case "lz4":
		compression = kafka.Lz4
	case "zstd":
		compression = kafka.Zstd
	case "none":
		compression = 0
	}

	writer := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Balancer:               &kafka.LeastBytes{},
		BatchSize:              cfg.BatchSize,
		BatchTimeout:           cfg.BatchTimeout,
		RequiredAcks:           kafka.RequiredAcks(cfg.RequiredAcks),
		Compression:            compression,
		AllowAutoTopicCreation: true,
	}

	return &Emitter{
		writer: writer,
		logger: logger,
		topic:  cfg.Topic,
		runID:  runID,
	}
}

// Close closes the underlying writer.
func (e *Emitter) Close() error {
	if e == nil {
		return nil
	}
	return e.writer.Close()
}

// EmitRunStarted publishes a run.started event.
func (e *Emitter) EmitRunStarted(ctx context.Context, source, sink string) {
	if e == nil {
		return
	}
	e.publish(ctx, EventTypeRunStarted, &RunStartedEvent{
		BaseEvent: e.base(EventTypeRunStarted),
		Source:    source,
		Sink:      sink,
	})
}

// EmitRunCompleted publishes a run.completed event with the run's counters.
func (e *Emitter) EmitRunCompleted(ctx context.Context, products, rejected, nodeRows, relRows int64) {
	if e == nil {
		return
	}
	e.publish(ctx, EventTypeRunCompleted, &RunCompletedEvent{
		BaseEvent:        e.base(EventTypeRunCompleted),
		Products:         products,
		Rejected:         rejected,
		NodeRows:         nodeRows,
		RelationshipRows: relRows,
	})
}

// EmitRunFailed publishes a run.failed event.
func (e *Emitter) EmitRunFailed(ctx context.Context, runErr error) {
	if e == nil {
		return
	}
	e.publish(ctx, EventTypeRunFailed, &RunFailedEvent{
		BaseEvent: e.base(EventTypeRunFailed),
		Error:     runErr.Error(),
	})
}

// EmitRecordRejected publishes a record.rejected event.
func (e *Emitter) EmitRecordRejected(ctx context.Context, reason string) {
	if e == nil {
		return
	}
	e.publish(ctx, EventTypeRecordRejected, &RecordRejectedEvent{
		BaseEvent: e.base(EventTypeRecordRejected),
		Reason:    reason,
	})
}

func (e *Emitter) base(eventType EventType) BaseEvent {
	return BaseEvent{
		EventType:     eventType,
		SchemaVersion: SchemaVersion,
		RunID:         e.runID,
		Timestamp:     time.Now().UTC(),
	}
}

func (e *Emitter) publish(ctx context.Context, eventType EventType, event any) {
	ctx, span := tracing.StartSpan(ctx, "events.Emitter.publish")
	defer span.End()

	data, err := json.Marshal(event)
	if err != nil {
		e.logger.WithContext(ctx).WithError(err).Error("Failed to marshal event")
		return
	}

	msg := kafka.Message{
		Topic: e.topic,
		Key:   []byte(e.runID),
		Value: data,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(eventType)},
			{Key: "schema_version", Value: []byte(SchemaVersion)},
		},
	}

	if err := e.writer.WriteMessages(ctx, msg); err != nil {
		e.logger.WithContext(ctx).WithError(err).WithField("event_type", string(eventType)).Error("Failed to publish event")
	}
}
