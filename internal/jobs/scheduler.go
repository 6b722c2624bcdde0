package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sbilibin2017/super-wallet/internal/logger"
	"github.com/sbilibin2017/super-wallet/internal/metrics"
	"go.uber.org/zap"
)

//go:generate mockgen -source=scheduler.go -destination=mock_scheduler_test.go -package=jobs

// Job is a periodic sweep.
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

// JobLocker grants a named lock to at most one instance at a time.
type JobLocker interface {
	Acquire(ctx context.Context, name string, ttl time.Duration) (token string, ok bool, err error)
	Release(ctx context.Context, name, token string) error
}

// Scheduler runs jobs on cron schedules. Every run holds the job's
// distributed lock and is cut off at the job's timeout.
type Scheduler struct {
	cron   *cron.Cron
	locker JobLocker
	log    *zap.SugaredLogger
	ctx    context.Context
	cancel context.CancelFunc
}

// NewScheduler creates a Scheduler whose cron expressions carry a leading seconds field.
func NewScheduler(locker JobLocker) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	log := logger.Named("jobs")
	cronLog := cronLogger{log: log}
	return &Scheduler{
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithLogger(cronLog),
			cron.WithChain(cron.Recover(cronLog), cron.SkipIfStillRunning(cronLog)),
		),
		locker: locker,
		log:    log,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Register schedules job.
func (s *Scheduler) Register(schedule string, timeout time.Duration, job Job) error {
	_, err := s.cron.AddFunc(schedule, func() {
		s.RunOnce(s.ctx, job, timeout)
	})
	if err != nil {
		s.log.Errorw("failed to schedule job", "job", job.Name(), "schedule", schedule, "error", err)
		return err
	}
	s.log.Infow("job scheduled", "job", job.Name(), "schedule", schedule, "timeout", timeout)
	return nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop cancels running jobs and waits for them to return or for ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.cancel()
	done := s.cron.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RunOnce runs job if its lock is free. The lock outlives the run by at most
// timeout even if this instance dies.
func (s *Scheduler) RunOnce(ctx context.Context, job Job, timeout time.Duration) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	token, ok, err := s.locker.Acquire(ctx, job.Name(), timeout)
	if err != nil {
		metrics.JobRuns.WithLabelValues(job.Name(), metrics.ResultFailed).Inc()
		s.log.Errorw("failed to acquire job lock", "job", job.Name(), "error", err)
		return
	}
	if !ok {
		metrics.JobRuns.WithLabelValues(job.Name(), metrics.ResultSkipped).Inc()
		s.log.Debugw("job is running elsewhere", "job", job.Name())
		return
	}
	defer func() {
		releaseCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.locker.Release(releaseCtx, job.Name(), token); err != nil {
			s.log.Errorw("failed to release job lock", "job", job.Name(), "error", err)
		}
	}()

	start := time.Now()
	if err := job.Run(ctx); err != nil {
		metrics.JobRuns.WithLabelValues(job.Name(), metrics.ResultFailed).Inc()
		s.log.Errorw("job failed", "job", job.Name(), "elapsed", time.Since(start), "error", err)
		return
	}
	metrics.JobRuns.WithLabelValues(job.Name(), metrics.ResultOK).Inc()
	s.log.Infow("job finished", "job", job.Name(), "elapsed", time.Since(start))
}

// cronLogger routes cron's own logging to zap.
type cronLogger struct {
	log *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Errorw(msg, append(keysAndValues, "error", err)...)
}
