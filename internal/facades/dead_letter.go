package facades

import (
	"context"
	"strconv"

	"github.com/sbilibin2017/super-wallet/internal/logger"
	"github.com/segmentio/kafka-go"
)

// Dead-letter headers.
const (
	HeaderDLTReason         = "x-dlt-reason"
	HeaderOriginalTopic     = "x-original-topic"
	HeaderOriginalPartition = "x-original-partition"
	HeaderOriginalOffset    = "x-original-offset"
)

// DeadLetterPublisher copies rejected command messages to the dead-letter topic.
type DeadLetterPublisher struct {
	writer KafkaWriter
}

// NewDeadLetterPublisher creates a new DeadLetterPublisher.
func NewDeadLetterPublisher(writer KafkaWriter) *DeadLetterPublisher {
	return &DeadLetterPublisher{writer: writer}
}

// Publish writes msg with its original key and value, annotated with reason
// and the position it was read from.
func (p *DeadLetterPublisher) Publish(ctx context.Context, msg kafka.Message, reason string) error {
	headers := make([]kafka.Header, 0, len(msg.Headers)+4)
	headers = append(headers, msg.Headers...)
	headers = append(headers,
		kafka.Header{Key: HeaderDLTReason, Value: []byte(reason)},
		kafka.Header{Key: HeaderOriginalTopic, Value: []byte(msg.Topic)},
		kafka.Header{Key: HeaderOriginalPartition, Value: []byte(strconv.Itoa(msg.Partition))},
		kafka.Header{Key: HeaderOriginalOffset, Value: []byte(strconv.FormatInt(msg.Offset, 10))},
	)

	dead := kafka.Message{
		Key:     msg.Key,
		Value:   msg.Value,
		Headers: headers,
	}

	if err := p.writer.WriteMessages(ctx, dead); err != nil {
		logger.Log.Errorw("failed to publish dead letter",
			"topic", msg.Topic, "partition", msg.Partition, "offset", msg.Offset, "error", err)
		return err
	}

	logger.Log.Warnw("message dead-lettered",
		"topic", msg.Topic, "partition", msg.Partition, "offset", msg.Offset, "reason", reason)
	return nil
}
