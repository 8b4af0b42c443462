package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"

	"github.com/treyzar/lotto-advisor/internal/config"
)

const (
	EventProfileCompleted   = "profile-completed"
	EventShortlistGenerated = "shortlist-generated"
	EventFinalSelected      = "final-selected"
)

// Event is the envelope written to the recommendation events topic. Messages
// are keyed by session so one visitor's events stay ordered on a partition.
type Event struct {
	ID        uuid.UUID      `json:"id"`
	SessionID uuid.UUID      `json:"session_id"`
	Type      string         `json:"type"`
	Payload   map[string]any `json:"payload,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

type MessageBus struct {
	writer *kafka.Writer
	logger *logrus.Logger
}

// NewMessageBus builds the event producer. With no brokers configured it
// returns nil and the callers skip publishing.
func NewMessageBus(cfg *config.Config, logger *logrus.Logger) (*MessageBus, error) {
	if len(cfg.Kafka.Brokers) == 0 {
		logger.Info("No Kafka brokers configured, event publishing disabled")
		return nil, nil
	}

	topic := cfg.Kafka.Topics.RecommendationEvents
	if topic == "" {
		topic = "recommendation-events"
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Kafka.Brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{}, // Key by session for per-visitor ordering
		RequiredAcks: kafka.RequireOne,
		Async:        false,
		BatchTimeout: 10 * time.Millisecond,
		BatchSize:    100,
	}

	return &MessageBus{
		writer: writer,
		logger: logger,
	}, nil
}

func (mb *MessageBus) Publish(ctx context.Context, sessionID uuid.UUID, eventType string, payload map[string]any) error {
	event := Event{
		ID:        uuid.New(),
		SessionID: sessionID,
		Type:      eventType,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	}

	eventBytes, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	message := kafka.Message{
		Key:   []byte(sessionID.String()),
		Value: eventBytes,
		Headers: []kafka.Header{
			{Key: "event_id", Value: []byte(event.ID.String())},
			{Key: "event_type", Value: []byte(eventType)},
			{Key: "timestamp", Value: []byte(event.Timestamp.Format(time.RFC3339))},
		},
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := mb.writer.WriteMessages(ctx, message); err != nil {
		mb.logger.WithError(err).WithField("event_type", eventType).Error("Failed to publish event to Kafka")
		return fmt.Errorf("failed to write event to Kafka: %w", err)
	}

	mb.logger.WithFields(logrus.Fields{
		"event_id":   event.ID,
		"event_type": eventType,
		"session_id": sessionID,
	}).Debug("Event published to Kafka")

	return nil
}

func (mb *MessageBus) Close() error {
	if mb == nil || mb.writer == nil {
		return nil
	}
	if err := mb.writer.Close(); err != nil {
		return fmt.Errorf("failed to close event writer: %w", err)
	}
	return nil
}
