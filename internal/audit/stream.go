package audit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"
)

const (
	streamBatchSize  = 100
	streamFlushEvery = time.Second
	streamBufferSize = 10000
	breakerThreshold = 5
	breakerCooldown  = 30 * time.Second
)

// Stream delivers audit events to a Kafka topic for downstream consumers
// (reporting, supervisor dashboards). Delivery is best-effort: events are
// buffered in memory and the durable copy lives in the Store.
type Stream struct {
	client  *kgo.Client
	topic   string
	buffer  *ringBuffer
	breaker *circuitBreaker
	logger  *slog.Logger
}

// NewStream connects to Kafka and ensures the topic exists.
func NewStream(ctx context.Context, brokers []string, topic string, logger *slog.Logger) (*Stream, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
		kgo.ProducerBatchCompression(kgo.SnappyCompression()),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}

	if err := ensureTopic(ctx, client, topic); err != nil {
		client.Close()
		return nil, err
	}

	return &Stream{
		client:  client,
		topic:   topic,
		buffer:  newRingBuffer(streamBufferSize),
		breaker: newCircuitBreaker(breakerThreshold, breakerCooldown),
		logger:  logger,
	}, nil
}

func ensureTopic(ctx context.Context, client *kgo.Client, topic string) error {
	adm := kadm.NewClient(client)
	resp, err := adm.CreateTopics(ctx, 3, 1, nil, topic)
	if err != nil {
		return fmt.Errorf("create topic %s: %w", topic, err)
	}
	for _, r := range resp {
		if r.Err != nil && !errors.Is(r.Err, kerr.TopicAlreadyExists) {
			return fmt.Errorf("create topic %s: %w", r.Topic, r.Err)
		}
	}
	return nil
}

// Enqueue buffers an event for asynchronous delivery. Never blocks.
func (s *Stream) Enqueue(event Event) {
	s.buffer.Enqueue(event)
}

// Run drains the buffer until ctx is cancelled. Call in its own goroutine.
func (s *Stream) Run(ctx context.Context) {
	ticker := time.NewTicker(streamFlushEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.flush(context.Background())
			return
		case <-ticker.C:
			s.flush(ctx)
		}
	}
}

func (s *Stream) flush(ctx context.Context) {
	if !s.breaker.Allow() {
		return
	}

	batch := s.buffer.DequeueBatch(streamBatchSize)
	if len(batch) == 0 {
		return
	}

	records := make([]*kgo.Record, 0, len(batch))
	for _, event := range batch {
		payload, err := json.Marshal(event)
		if err != nil {
			s.logger.Error("marshal audit event", "error", err, "action", event.Action)
			continue
		}
		records = append(records, &kgo.Record{
			// Key by child so per-child history stays ordered in-partition.
			Key:   []byte(event.ChildID.String()),
			Value: payload,
		})
	}
	if len(records) == 0 {
		return
	}

	if err := s.client.ProduceSync(ctx, records...).FirstErr(); err != nil {
		s.breaker.RecordFailure()
		s.logger.Warn("audit stream produce failed, re-buffering",
			"error", err, "batch_size", len(records))
		for _, event := range batch {
			s.buffer.Enqueue(event)
		}
		return
	}
	s.breaker.RecordSuccess()
}

// Close flushes and releases the Kafka client.
func (s *Stream) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.flush(ctx)
	s.client.Close()
}
