package jobs

import (
	"context"
	"time"

	"github.com/sbilibin2017/super-wallet/internal/clock"
	"github.com/sbilibin2017/super-wallet/internal/logger"
	"github.com/sbilibin2017/super-wallet/internal/metrics"
	"github.com/sbilibin2017/super-wallet/internal/models"
)

//go:generate mockgen -source=send_executed_commands.go -destination=mock_send_executed_commands_test.go -package=jobs

const SendExecutedCommandsJobName = "send-executed-commands"

// UnsentCommandSender reads and delivers unsent outbox entries.
type UnsentCommandSender interface {
	FindUnsent(ctx context.Context, before time.Time, limit int) ([]*models.ExecutedCommand, error)
	Send(ctx context.Context, command *models.ExecutedCommand) error
}

// SendExecutedCommandsJob publishes outbox entries whose first send attempt
// failed or never happened.
type SendExecutedCommandsJob struct {
	sender      UnsentCommandSender
	clock       clock.Clock
	delay       time.Duration
	pageSize    int
	concurrency int
}

func NewSendExecutedCommandsJob(sender UnsentCommandSender, clk clock.Clock, delay time.Duration, pageSize, concurrency int) *SendExecutedCommandsJob {
	return &SendExecutedCommandsJob{sender: sender, clock: clk, delay: delay, pageSize: pageSize, concurrency: concurrency}
}

func (j *SendExecutedCommandsJob) Name() string { return SendExecutedCommandsJobName }

// Run sends one page of entries older than the delay. Wallets are handled
// concurrently, entries of one wallet in creation order. A wallet stops at
// its first failed entry so later events never overtake it.
func (j *SendExecutedCommandsJob) Run(ctx context.Context) error {
	commands, err := j.sender.FindUnsent(ctx, j.clock.Now().Add(-j.delay), j.pageSize)
	if err != nil {
		return err
	}
	if len(commands) == 0 {
		return nil
	}
	logger.Log.Infow("sending unsent executed commands", "count", len(commands))

	groups := groupByWallet(commands, func(c *models.ExecutedCommand) string { return c.WalletID })
	return forEachGroup(ctx, j.concurrency, groups, func(ctx context.Context, group []*models.ExecutedCommand) {
		for _, command := range group {
			if ctx.Err() != nil {
				return
			}
			if err := j.sender.Send(ctx, command); err != nil {
				metrics.JobItems.WithLabelValues(j.Name(), metrics.ResultFailed).Inc()
				logger.Log.Errorw("failed to send executed command",
					"walletId", command.WalletID, "commandId", command.CommandID, "error", err)
				return
			}
			metrics.JobItems.WithLabelValues(j.Name(), metrics.ResultOK).Inc()
			logger.Log.Infow("executed command sent", "walletId", command.WalletID, "commandId", command.CommandID)
		}
	})
}
