package facades

import (
	"context"
	"encoding/json"

	"github.com/sbilibin2017/super-wallet/internal/logger"
	"github.com/sbilibin2017/super-wallet/internal/metrics"
	"github.com/sbilibin2017/super-wallet/internal/models"
	"github.com/segmentio/kafka-go"
)

//go:generate mockgen -source=wallet_events.go -destination=mock_kafka_test.go -package=facades

// HeaderEventType carries the event type next to the JSON payload.
const HeaderEventType = "x-event-type"

// KafkaWriter defines a Kafka writer abstraction.
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error // Writes messages to Kafka
	Close() error                                                   // Closes the Kafka writer
}

// WalletEventsPublisher writes wallet events to the events topic keyed by wallet id.
type WalletEventsPublisher struct {
	writer KafkaWriter
}

// NewWalletEventsPublisher creates a new WalletEventsPublisher.
func NewWalletEventsPublisher(writer KafkaWriter) *WalletEventsPublisher {
	return &WalletEventsPublisher{writer: writer}
}

// Publish sends event and waits for the broker to acknowledge it.
func (p *WalletEventsPublisher) Publish(ctx context.Context, event models.WalletEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		logger.Log.Errorw("failed to marshal wallet event", "walletId", event.Key(), "type", event.EventType(), "error", err)
		return err
	}

	msg := kafka.Message{
		Key:   []byte(event.Key()),
		Value: data,
		Headers: []kafka.Header{
			{Key: HeaderEventType, Value: []byte(event.EventType())},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		logger.Log.Errorw("failed to publish wallet event", "walletId", event.Key(), "type", event.EventType(), "error", err)
		return err
	}

	metrics.EventsPublished.WithLabelValues(string(event.EventType())).Inc()
	logger.Log.Infow("wallet event published", "walletId", event.Key(), "type", event.EventType())
	return nil
}
