package jobs

import (
	"context"
	"time"

	"github.com/sbilibin2017/super-wallet/internal/clock"
	"github.com/sbilibin2017/super-wallet/internal/logger"
	"github.com/sbilibin2017/super-wallet/internal/metrics"
	"github.com/sbilibin2017/super-wallet/internal/models"
)

//go:generate mockgen -source=process_not_completed.go -destination=mock_process_not_completed_test.go -package=jobs

const ProcessNotCompletedJobName = "process-not-completed"

// UnfinishedProcessFinder lists processes that have neither completed nor failed.
type UnfinishedProcessFinder interface {
	FindAllUnfinishedCreatedBefore(ctx context.Context, before time.Time) ([]*models.WalletProcess, error)
}

// StepsProcessor drives a process from its next step.
type StepsProcessor interface {
	ProcessSteps(ctx context.Context, process *models.WalletProcess) error
}

// ProcessNotCompletedJob resumes processes left behind by crashes or by the
// one-command-per-wallet guard.
type ProcessNotCompletedJob struct {
	finder      UnfinishedProcessFinder
	processor   StepsProcessor
	clock       clock.Clock
	delay       time.Duration
	concurrency int
}

func NewProcessNotCompletedJob(finder UnfinishedProcessFinder, processor StepsProcessor, clk clock.Clock, delay time.Duration, concurrency int) *ProcessNotCompletedJob {
	return &ProcessNotCompletedJob{finder: finder, processor: processor, clock: clk, delay: delay, concurrency: concurrency}
}

func (j *ProcessNotCompletedJob) Name() string { return ProcessNotCompletedJobName }

// Run re-drives processes older than the delay, one at a time per wallet in
// creation order.
func (j *ProcessNotCompletedJob) Run(ctx context.Context) error {
	processes, err := j.finder.FindAllUnfinishedCreatedBefore(ctx, j.clock.Now().Add(-j.delay))
	if err != nil {
		return err
	}
	if len(processes) == 0 {
		return nil
	}
	logger.Log.Infow("resuming unfinished processes", "count", len(processes))

	groups := groupByWallet(processes, func(p *models.WalletProcess) string { return p.WalletID })
	return forEachGroup(ctx, j.concurrency, groups, func(ctx context.Context, group []*models.WalletProcess) {
		for _, process := range group {
			if ctx.Err() != nil {
				return
			}
			if err := j.processor.ProcessSteps(ctx, process); err != nil {
				metrics.JobItems.WithLabelValues(j.Name(), metrics.ResultFailed).Inc()
				logger.Log.Errorw("failed to resume process",
					"processId", process.ID, "walletId", process.WalletID, "commandId", process.CommandID, "error", err)
				return
			}
			metrics.JobItems.WithLabelValues(j.Name(), metrics.ResultOK).Inc()
		}
	})
}
