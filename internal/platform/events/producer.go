// Package events publishes best-effort notifications about merge and
// promotion activity. Delivery failures are logged, never surfaced to the
// caller: event emission is an observability aid, not part of the
// transactional outcome.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/segmentio/kafka-go"

	"github.com/Ramsey-B/magnolia/internal/platform/tracing"
)

const SchemaVersion = "1.0"

type EventType string

const (
	EventTypeGoldenMerged   EventType = "golden.merged"
	EventTypeGoldenPromoted EventType = "golden.promoted"
	EventTypeMatchReviewed  EventType = "match.reviewed"
)

// Envelope is the wire shape for every emitted event.
type Envelope struct {
	EventType      EventType `json:"event_type"`
	SchemaVersion  string    `json:"schema_version"`
	GoldenRecordID string    `json:"golden_record_id,omitempty"`
	MatchID        string    `json:"match_id,omitempty"`
	SourceCount    int       `json:"source_count,omitempty"`
	Status         string    `json:"status,omitempty"`
	OccurredAt     time.Time `json:"occurred_at"`
	TraceParent    string    `json:"traceparent,omitempty"`
}

type ProducerConfig struct {
	Brokers      []string
	Topic        string
	BatchSize    int
	BatchTimeout time.Duration
}

type Producer struct {
	writer *kafka.Writer
	logger ectologger.Logger
	topic  string
}

func NewProducer(cfg ProducerConfig, logger ectologger.Logger) *Producer {
	batchSize := cfg.BatchSize
	if batchSize == 0 {
		batchSize = 1
	}
	return &Producer{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(cfg.Brokers...),
			Balancer:               &kafka.LeastBytes{},
			BatchSize:              batchSize,
			BatchTimeout:           cfg.BatchTimeout,
			AllowAutoTopicCreation: true,
		},
		logger: logger,
		topic:  cfg.Topic,
	}
}

func (p *Producer) Close() error {
	return p.writer.Close()
}

func (p *Producer) publish(ctx context.Context, key string, env Envelope) {
	ctx, span := tracing.StartSpan(ctx, "events.Producer.publish")
	defer span.End()

	if env.OccurredAt.IsZero() {
		env.OccurredAt = time.Now().UTC()
	}
	env.SchemaVersion = SchemaVersion
	env.TraceParent = tracing.GetTraceParent(ctx)

	data, err := json.Marshal(env)
	if err != nil {
		p.logger.WithContext(ctx).WithError(err).Error("failed to marshal event envelope")
		return
	}

	msg := kafka.Message{
		Topic: p.topic,
		Key:   []byte(key),
		Value: data,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(env.EventType)},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"event_type": env.EventType,
			"key":        key,
		}).Warn("failed to publish event, continuing without it")
		return
	}

	p.logger.WithContext(ctx).WithFields(map[string]any{
		"event_type": env.EventType,
		"key":        key,
	}).Debug("published event")
}

// PublishGoldenMerged notifies that a match candidate was merged into a
// golden record.
func (p *Producer) PublishGoldenMerged(ctx context.Context, matchID, goldenRecordID string, sourceCount int) {
	p.publish(ctx, goldenRecordID, Envelope{
		EventType:      EventTypeGoldenMerged,
		MatchID:        matchID,
		GoldenRecordID: goldenRecordID,
		SourceCount:    sourceCount,
	})
}

// PublishGoldenPromoted notifies that an unmatched record was promoted
// directly to a golden record.
func (p *Producer) PublishGoldenPromoted(ctx context.Context, goldenRecordID string) {
	p.publish(ctx, goldenRecordID, Envelope{
		EventType:      EventTypeGoldenPromoted,
		GoldenRecordID: goldenRecordID,
		SourceCount:    1,
	})
}

// PublishMatchReviewed notifies that a candidate was approved or rejected
// without (yet) being merged.
func (p *Producer) PublishMatchReviewed(ctx context.Context, matchID, status string) {
	p.publish(ctx, matchID, Envelope{
		EventType: EventTypeMatchReviewed,
		MatchID:   matchID,
		Status:    status,
	})
}
