package consumers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sbilibin2017/super-wallet/internal/logger"
	"github.com/sbilibin2017/super-wallet/internal/metrics"
	"github.com/sbilibin2017/super-wallet/internal/models"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

//go:generate mockgen -source=wallet_commands.go -destination=mock_wallet_commands_test.go -package=consumers

// KafkaReader defines a Kafka consumer group reader abstraction.
type KafkaReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)         // Fetches the next message without committing it
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error // Commits offsets of handled messages
	Close() error                                                    // Closes the Kafka reader
}

// CommandProcessor drives a command through its wallet process.
type CommandProcessor interface {
	Process(ctx context.Context, cmd models.WalletCommand) error
}

// DeadLetterPublisher routes rejected messages to the dead-letter topic.
type DeadLetterPublisher interface {
	Publish(ctx context.Context, msg kafka.Message, reason string) error
}

// Config tunes the ingestion loop.
type Config struct {
	ProcessingTimeout time.Duration
	RetryCount        uint64
	RetryDelay        time.Duration
}

// WalletCommandsConsumer reads wallet commands one at a time and hands them
// to the orchestrator. A message is committed only after it was processed or
// dead-lettered.
type WalletCommandsConsumer struct {
	reader    KafkaReader
	processor CommandProcessor
	dlt       DeadLetterPublisher
	cfg       Config
	log       *zap.SugaredLogger
}

// NewWalletCommandsConsumer creates a new WalletCommandsConsumer.
func NewWalletCommandsConsumer(reader KafkaReader, processor CommandProcessor, dlt DeadLetterPublisher, cfg Config) *WalletCommandsConsumer {
	return &WalletCommandsConsumer{reader: reader, processor: processor, dlt: dlt, cfg: cfg, log: logger.Named("consumer")}
}

// Run consumes until ctx is cancelled. Transport errors never stop the loop.
func (c *WalletCommandsConsumer) Run(ctx context.Context) error {
	fetchBackoff := backoff.NewExponentialBackOff()
	fetchBackoff.MaxElapsedTime = 0

	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			wait := fetchBackoff.NextBackOff()
			c.log.Errorw("failed to fetch command message", "retryIn", wait, "error", err)
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(wait):
			}
			continue
		}
		fetchBackoff.Reset()

		if err := c.handle(ctx, msg); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			c.log.Errorw("command message left uncommitted",
				"partition", msg.Partition, "offset", msg.Offset, "error", err)
		}
	}
}

func (c *WalletCommandsConsumer) handle(ctx context.Context, msg kafka.Message) error {
	start := time.Now()
	defer func() {
		metrics.CommandDuration.Observe(time.Since(start).Seconds())
	}()

	cmd, err := decode(msg)
	if err != nil {
		c.log.Warnw("invalid command message",
			"partition", msg.Partition, "offset", msg.Offset, "error", err)
		if err := c.deadLetter(ctx, msg, fmt.Sprintf("invalid message: %v", err)); err != nil {
			return err
		}
		metrics.CommandsConsumed.WithLabelValues(metrics.ResultInvalid).Inc()
		return c.commit(ctx, msg)
	}

	if err := c.process(ctx, cmd, msg); err != nil {
		if ctx.Err() != nil {
			return err
		}
		c.log.Errorw("command processing failed",
			"walletId", cmd.Header().WalletID, "commandId", cmd.Header().ID, "offset", msg.Offset, "error", err)
		if err := c.deadLetter(ctx, msg, err.Error()); err != nil {
			return err
		}
		metrics.CommandsConsumed.WithLabelValues(metrics.ResultDeadLettered).Inc()
		return c.commit(ctx, msg)
	}

	metrics.CommandsConsumed.WithLabelValues(metrics.ResultProcessed).Inc()
	return c.commit(ctx, msg)
}

// process runs the command with bounded exponential retries, all within the
// per-message timeout.
func (c *WalletCommandsConsumer) process(ctx context.Context, cmd models.WalletCommand, msg kafka.Message) error {
	processCtx, cancel := context.WithTimeout(ctx, c.cfg.ProcessingTimeout)
	defer cancel()

	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = c.cfg.RetryDelay
	exp.MaxElapsedTime = 0
	exp.Reset()
	policy := backoff.WithContext(backoff.WithMaxRetries(exp, c.cfg.RetryCount), processCtx)

	operation := func() error {
		err := c.processor.Process(processCtx, cmd)
		if errors.Is(err, models.ErrInvariantViolation) || errors.Is(err, models.ErrInvalidStateTransition) {
			return backoff.Permanent(err)
		}
		return err
	}
	notify := func(err error, wait time.Duration) {
		c.log.Warnw("retrying command",
			"walletId", cmd.Header().WalletID, "commandId", cmd.Header().ID,
			"offset", msg.Offset, "retryIn", wait, "error", err)
	}

	err := backoff.RetryNotify(operation, policy, notify)
	if err != nil && errors.Is(processCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
		return fmt.Errorf("processing timed out after %s: %w", c.cfg.ProcessingTimeout, err)
	}
	return err
}

// deadLetter keeps trying until the message is written or ctx is done.
func (c *WalletCommandsConsumer) deadLetter(ctx context.Context, msg kafka.Message, reason string) error {
	exp := backoff.NewExponentialBackOff()
	exp.MaxElapsedTime = 0

	return backoff.RetryNotify(func() error {
		return c.dlt.Publish(ctx, msg, reason)
	}, backoff.WithContext(exp, ctx), func(err error, wait time.Duration) {
		c.log.Warnw("retrying dead letter", "offset", msg.Offset, "retryIn", wait, "error", err)
	})
}

func (c *WalletCommandsConsumer) commit(ctx context.Context, msg kafka.Message) error {
	if err := c.reader.CommitMessages(ctx, msg); err != nil {
		c.log.Errorw("failed to commit command message",
			"partition", msg.Partition, "offset", msg.Offset, "error", err)
		return err
	}
	return nil
}

func decode(msg kafka.Message) (models.WalletCommand, error) {
	payload, err := models.DecodeCommandMessage(msg.Value)
	if err != nil {
		return nil, err
	}
	return payload.ToCommand()
}
