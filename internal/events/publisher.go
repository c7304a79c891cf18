package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-kafka/v2/pkg/kafka"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

// EventPublisher publishes session events. Publishing is best-effort:
// callers log failures but never fail the user-facing operation on them.
type EventPublisher interface {
	PublishSessionEvent(ctx context.Context, event *SessionEvent) error
	Close() error
}

// ===== WATERMILL PUBLISHER =====

type watermillPublisher struct {
	publisher message.Publisher
	logger    *slog.Logger
}

// NewWatermillPublisher wraps any watermill publisher (Kafka or the
// in-process gochannel bus).
func NewWatermillPublisher(publisher message.Publisher, logger *slog.Logger) EventPublisher {
	return &watermillPublisher{
		publisher: publisher,
		logger:    logger,
	}
}

func (p *watermillPublisher) PublishSessionEvent(ctx context.Context, event *SessionEvent) error {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal session event: %w", err)
	}

	msg := message.NewMessage(event.ID, payload)
	msg.SetContext(ctx)

	if err := p.publisher.Publish(TopicSessions, msg); err != nil {
		return fmt.Errorf("failed to publish session event: %w", err)
	}

	p.logger.Debug("session event published",
		"event_id", event.ID,
		"type", event.Type,
		"user_id", event.UserID)
	return nil
}

func (p *watermillPublisher) Close() error {
	return p.publisher.Close()
}

// ===== CONSTRUCTORS =====

// NewGoChannelBus builds the in-process pub/sub used when no brokers are
// configured. The returned value serves as both publisher and subscriber.
func NewGoChannelBus(logger *slog.Logger) *gochannel.GoChannel {
	return gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: 64},
		watermill.NewSlogLogger(logger),
	)
}

// NewKafkaPublisher builds a Kafka-backed publisher for deployments with
// brokers configured.
func NewKafkaPublisher(brokers []string, logger *slog.Logger) (message.Publisher, error) {
	publisher, err := kafka.NewPublisher(
		kafka.PublisherConfig{
			Brokers:   brokers,
			Marshaler: kafka.DefaultMarshaler{},
		},
		watermill.NewSlogLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka publisher: %w", err)
	}
	return publisher, nil
}
