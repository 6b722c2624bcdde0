package jobs

import (
	"context"
	"time"

	"github.com/sbilibin2017/super-wallet/internal/clock"
	"github.com/sbilibin2017/super-wallet/internal/logger"
	"github.com/sbilibin2017/super-wallet/internal/metrics"
	"github.com/sbilibin2017/super-wallet/internal/models"
)

//go:generate mockgen -source=process_missing_executed_commands.go -destination=mock_process_missing_executed_commands_test.go -package=jobs

const ProcessMissingExecutedCommandsJobName = "process-missing-executed-commands"

// WalletsWithoutExecutedCommandFinder lists wallets whose last applied
// command has no outbox entry.
type WalletsWithoutExecutedCommandFinder interface {
	FindAllWithoutExecutedCommand(ctx context.Context, updatedBefore time.Time) ([]*models.Wallet, error)
}

// MissingCommandSender writes and sends the outbox entry of a wallet's last command.
type MissingCommandSender interface {
	SendLastExecutedCommandIfMissing(ctx context.Context, wallet *models.Wallet) error
}

// ProcessMissingExecutedCommandsJob restores outbox entries lost between the
// wallet save and the outbox write.
type ProcessMissingExecutedCommandsJob struct {
	finder      WalletsWithoutExecutedCommandFinder
	sender      MissingCommandSender
	clock       clock.Clock
	delay       time.Duration
	concurrency int
}

func NewProcessMissingExecutedCommandsJob(finder WalletsWithoutExecutedCommandFinder, sender MissingCommandSender, clk clock.Clock, delay time.Duration, concurrency int) *ProcessMissingExecutedCommandsJob {
	return &ProcessMissingExecutedCommandsJob{finder: finder, sender: sender, clock: clk, delay: delay, concurrency: concurrency}
}

func (j *ProcessMissingExecutedCommandsJob) Name() string { return ProcessMissingExecutedCommandsJobName }

func (j *ProcessMissingExecutedCommandsJob) Run(ctx context.Context) error {
	wallets, err := j.finder.FindAllWithoutExecutedCommand(ctx, j.clock.Now().Add(-j.delay))
	if err != nil {
		return err
	}
	if len(wallets) == 0 {
		return nil
	}
	logger.Log.Infow("restoring missing executed commands", "count", len(wallets))

	groups := groupByWallet(wallets, func(w *models.Wallet) string { return w.ID })
	return forEachGroup(ctx, j.concurrency, groups, func(ctx context.Context, group []*models.Wallet) {
		for _, wallet := range group {
			if err := j.sender.SendLastExecutedCommandIfMissing(ctx, wallet); err != nil {
				metrics.JobItems.WithLabelValues(j.Name(), metrics.ResultFailed).Inc()
				logger.Log.Errorw("failed to restore executed command", "walletId", wallet.ID, "error", err)
				continue
			}
			metrics.JobItems.WithLabelValues(j.Name(), metrics.ResultOK).Inc()
		}
	})
}
