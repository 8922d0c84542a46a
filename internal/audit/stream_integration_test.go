//go:build integration

package audit

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/twmb/franz-go/pkg/kgo"

	id "sprout/pkg/domain"
	"sprout/pkg/testutil/containers"
)

type StreamIntegrationSuite struct {
	suite.Suite
	brokers []string
}

func TestStreamIntegrationSuite(t *testing.T) {
	suite.Run(t, new(StreamIntegrationSuite))
}

func (s *StreamIntegrationSuite) SetupSuite() {
	s.brokers = containers.GetManager().GetRedpanda(s.T()).Brokers
}

func (s *StreamIntegrationSuite) TestDeliversEventsKeyedByChild() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	topic := "audit-events-" + id.NewChildID().String()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	stream, err := NewStream(ctx, s.brokers, topic, logger)
	s.Require().NoError(err)

	childID := id.NewChildID()
	actorID := id.NewActorID()
	for i := 0; i < 3; i++ {
		stream.Enqueue(Event{
			Timestamp: time.Now().UTC(),
			Action:    ActionRecordCreated,
			ActorID:   actorID,
			ActorRole: id.RoleCaregiver,
			ChildID:   childID,
		})
	}

	// Close flushes the buffer synchronously.
	stream.Close()

	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(s.brokers...),
		kgo.ConsumeTopics(topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	s.Require().NoError(err)
	defer consumer.Close()

	var received []Event
	deadline := time.Now().Add(20 * time.Second)
	for len(received) < 3 && time.Now().Before(deadline) {
		fetchCtx, fetchCancel := context.WithTimeout(ctx, 5*time.Second)
		fetches := consumer.PollFetches(fetchCtx)
		fetchCancel()
		fetches.EachRecord(func(rec *kgo.Record) {
			s.Equal(childID.String(), string(rec.Key))
			var event Event
			s.Require().NoError(json.Unmarshal(rec.Value, &event))
			received = append(received, event)
		})
	}

	s.Require().Len(received, 3)
	for _, event := range received {
		s.Equal(ActionRecordCreated, event.Action)
		s.Equal(childID, event.ChildID)
		s.Equal(actorID, event.ActorID)
	}
}

func (s *StreamIntegrationSuite) TestTopicCreationIsIdempotent() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	topic := "audit-events-" + id.NewChildID().String()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	first, err := NewStream(ctx, s.brokers, topic, logger)
	s.Require().NoError(err)
	first.Close()

	second, err := NewStream(ctx, s.brokers, topic, logger)
	s.Require().NoError(err)
	second.Close()
}
