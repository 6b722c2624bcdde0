package services

import (
	"context"
	"fmt"

	"github.com/sbilibin2017/super-wallet/internal/clock"
	"github.com/sbilibin2017/super-wallet/internal/logger"
	"github.com/sbilibin2017/super-wallet/internal/metrics"
	"github.com/sbilibin2017/super-wallet/internal/models"
)

//go:generate mockgen -source=orchestrator.go -destination=mock_orchestrator_test.go -package=services

// WalletProcessRepository loads and stores wallet processes.
type WalletProcessRepository interface {
	// FindByWalletIDAndCommandID returns nil when the process does not exist.
	FindByWalletIDAndCommandID(ctx context.Context, walletID, commandID string) (*models.WalletProcess, error)
	ExistsUnfinishedByWalletIDExceptCommand(ctx context.Context, walletID, commandID string) (bool, error)
	Save(ctx context.Context, process *models.WalletProcess) error
}

// Transactor runs fn inside one database transaction.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// CommandChecker validates a command before a process is created for it.
type CommandChecker interface {
	Validate(ctx context.Context, cmd models.WalletCommand) error
}

// ProcessedCommandChecker answers whether a command already reached the outbox.
type ProcessedCommandChecker interface {
	IsCommandAlreadyProcessed(ctx context.Context, walletID, commandID string) (bool, error)
}

// CommandOrchestrator drives wallet commands through their processes.
type CommandOrchestrator struct {
	wallets    WalletRepository
	processes  WalletProcessRepository
	executed   ProcessedCommandChecker
	validator  CommandChecker
	publisher  EventsPublisher
	transactor Transactor
	executors  map[models.ProcessStep]StepExecutor
	clock      clock.Clock
}

// NewCommandOrchestrator fails when a process step has no executor.
func NewCommandOrchestrator(
	wallets WalletRepository,
	processes WalletProcessRepository,
	executed ProcessedCommandChecker,
	validator CommandChecker,
	publisher EventsPublisher,
	transactor Transactor,
	clk clock.Clock,
	executors ...StepExecutor,
) (*CommandOrchestrator, error) {
	byStep := make(map[models.ProcessStep]StepExecutor, len(executors))
	for _, executor := range executors {
		byStep[executor.Step()] = executor
	}
	for _, step := range models.ProcessSteps {
		if _, ok := byStep[step]; !ok {
			return nil, fmt.Errorf("no executor registered for step %s", step)
		}
	}

	return &CommandOrchestrator{
		wallets:    wallets,
		processes:  processes,
		executed:   executed,
		validator:  validator,
		publisher:  publisher,
		transactor: transactor,
		executors:  byStep,
		clock:      clk,
	}, nil
}

// Process handles one incoming command. Business failures are reported as an
// Error event and not returned; every other error is returned for retry.
func (o *CommandOrchestrator) Process(ctx context.Context, cmd models.WalletCommand) error {
	header := cmd.Header()
	log := logger.Log.With("walletId", header.WalletID, "commandId", header.ID)

	wallet, err := o.wallets.FindByID(ctx, header.WalletID)
	if err != nil {
		return err
	}
	if wallet == nil {
		return o.handleError(ctx, cmd, nil, models.NewApplicationError(models.ErrWalletNotFound,
			"Wallet %s not found", header.WalletID))
	}

	done, err := o.executed.IsCommandAlreadyProcessed(ctx, header.WalletID, header.ID)
	if err != nil {
		return err
	}
	if done {
		log.Infow("command already processed")
		return nil
	}

	process, err := o.processes.FindByWalletIDAndCommandID(ctx, header.WalletID, header.ID)
	if err != nil {
		return err
	}
	if process == nil {
		if err := o.validator.Validate(ctx, cmd); err != nil {
			return o.handleError(ctx, cmd, nil, err)
		}
		process = models.NewWalletProcess(header.WalletID, cmd)
		if err := o.processes.Save(ctx, process); err != nil {
			return err
		}
		log.Infow("process created", "processId", process.ID)
	}
	if process.Completed || process.Failed {
		log.Infow("process already finished", "processId", process.ID, "failed", process.Failed)
		return nil
	}

	busy, err := o.processes.ExistsUnfinishedByWalletIDExceptCommand(ctx, header.WalletID, header.ID)
	if err != nil {
		return err
	}
	if busy {
		log.Infow("another command is in flight for the wallet, deferring", "processId", process.ID)
		return nil
	}

	return o.ProcessSteps(ctx, process)
}

// ProcessSteps runs the remaining steps of process, storing wallet and
// process after each one.
func (o *CommandOrchestrator) ProcessSteps(ctx context.Context, process *models.WalletProcess) error {
	for {
		step, ok := process.NextStep()
		if !ok {
			return nil
		}

		wallet, err := o.wallets.FindByID(ctx, process.WalletID)
		if err != nil {
			return err
		}
		if wallet == nil {
			return o.handleError(ctx, process.Command, process, models.NewApplicationError(models.ErrWalletNotFound,
				"Wallet %s not found", process.WalletID))
		}

		data, err := o.executors[step].Execute(ctx, ProcessData{Wallet: wallet, Process: process})
		if err != nil {
			return o.handleError(ctx, process.Command, process, err)
		}

		if err := data.Process.MarkStepCompleted(step, o.clock.Now()); err != nil {
			return err
		}
		err = o.transactor.WithinTx(ctx, func(ctx context.Context) error {
			if err := o.wallets.Save(ctx, data.Wallet); err != nil {
				return err
			}
			return o.processes.Save(ctx, data.Process)
		})
		if err != nil {
			return err
		}

		logger.Log.Infow("process step completed",
			"walletId", process.WalletID, "commandId", process.CommandID,
			"processId", process.ID, "step", step, "completed", data.Process.Completed)
		process = data.Process
	}
}

func (o *CommandOrchestrator) handleError(ctx context.Context, cmd models.WalletCommand, process *models.WalletProcess, err error) error {
	header := cmd.Header()
	if !models.IsApplicationError(err) {
		metrics.CommandErrors.WithLabelValues(metrics.ErrorKindFault).Inc()
		logger.Log.Errorw("command processing failed",
			"walletId", header.WalletID, "commandId", header.ID, "error", err)
		return err
	}

	metrics.CommandErrors.WithLabelValues(metrics.ErrorKindBusiness).Inc()
	logger.Log.Warnw("command rejected",
		"walletId", header.WalletID, "commandId", header.ID, "error", err)

	if pubErr := o.publisher.Publish(ctx, models.NewErrorEvent(cmd, err)); pubErr != nil {
		return fmt.Errorf("publish error event: %w", pubErr)
	}

	if process == nil || process.Version == 0 {
		return nil
	}
	if markErr := process.MarkFailed(err.Error(), o.clock.Now()); markErr != nil {
		return markErr
	}
	return o.processes.Save(ctx, process)
}
