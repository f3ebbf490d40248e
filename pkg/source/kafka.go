package source

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/segmentio/kafka-go"

	"github.com/yoloeats/foodgraph/pkg/tracing"
)

// KafkaConfig holds consumer settings for the product topic.
type KafkaConfig struct {
	Brokers       []string
	Topic         string
	ConsumerGroup string
}

// KafkaProvider streams product records from a Kafka topic. Each message
// value is one JSON product document. Offsets are committed only after the
// callback succeeds, so a failed record is redelivered.
type KafkaProvider struct {
	reader *kafka.Reader
	logger ectologger.Logger
}

// NewKafkaProvider creates a consumer over the product topic.
func NewKafkaProvider(cfg KafkaConfig, logger ectologger.Logger) *KafkaProvider {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     cfg.Brokers,
		Topic:       cfg.Topic,
		GroupID:     cfg.ConsumerGroup,
		MinBytes:    10e3, // 10KB
		MaxBytes:    10e6, // 10MB
		MaxWait:     500 * time.Millisecond,
		StartOffset: kafka.FirstOffset,
	})

	return &KafkaProvider{
		reader: reader,
		logger: logger,
	}
}

// Each consumes until the context is cancelled. Malformed message values are
// logged, committed and skipped so the stream cannot wedge on bad input.
func (p *KafkaProvider) Each(ctx context.Context, fn func(ctx context.Context, rec Record) error) error {
	p.logger.WithContext(ctx).WithField("topic", p.reader.Config().Topic).Info("Kafka source started")

	for {
		msg, err := p.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) {
				return nil
			}
			p.logger.WithContext(ctx).WithError(err).Error("Failed to fetch message")
			continue
		}

		if err := p.processMessage(ctx, msg, fn); err != nil {
			return err
		}
	}
}

func (p *KafkaProvider) processMessage(ctx context.Context, msg kafka.Message, fn func(ctx context.Context, rec Record) error) error {
	ctx, span := tracing.StartSpan(ctx, "source.KafkaProvider.processMessage")
	defer span.End()

	log := p.logger.WithContext(ctx).WithFields(map[string]any{
		"topic":     msg.Topic,
		"partition": msg.Partition,
		"offset":    msg.Offset,
	})

	var rec Record
	if err := json.Unmarshal(msg.Value, &rec); err != nil {
		log.WithError(err).Error("Failed to parse message, skipping")
		if err := p.reader.CommitMessages(ctx, msg); err != nil {
			log.WithError(err).Error("Failed to commit message")
		}
		return nil
	}

	// Do not commit on a callback error: the run aborts and the record is
	// redelivered on restart.
	if err := fn(ctx, rec); err != nil {
		log.WithError(err).Error("Failed to process record (not committing)")
		return err
	}

	if err := p.reader.CommitMessages(ctx, msg); err != nil {
		log.WithError(err).Error("Failed to commit message")
	}
	return nil
}

// Close closes the underlying reader.
func (p *KafkaProvider) Close(_ context.Context) error {
	return p.reader.Close()
}
