package services

import (
	"context"
	"fmt"

	"github.com/sbilibin2017/super-wallet/internal/clock"
	"github.com/sbilibin2017/super-wallet/internal/models"
)

//go:generate mockgen -source=steps.go -destination=mock_steps_test.go -package=services

// ProcessData is the pair a step works on.
type ProcessData struct {
	Wallet  *models.Wallet
	Process *models.WalletProcess
}

// StepExecutor runs one process step. Executors must be safe to re-run after
// a crash between the step's side effects and its completion being stored.
type StepExecutor interface {
	Step() models.ProcessStep
	Execute(ctx context.Context, data ProcessData) (ProcessData, error)
}

// ExecuteCommandStep applies the process command to the wallet.
type ExecuteCommandStep struct {
	clock clock.Clock
}

func NewExecuteCommandStep(clk clock.Clock) *ExecuteCommandStep {
	return &ExecuteCommandStep{clock: clk}
}

func (s *ExecuteCommandStep) Step() models.ProcessStep { return models.StepExecuteCommand }

func (s *ExecuteCommandStep) Execute(ctx context.Context, data ProcessData) (ProcessData, error) {
	if data.Process.Command == nil {
		return data, fmt.Errorf("%w: process %s has no command", models.ErrInvariantViolation, data.Process.ID)
	}

	result, err := data.Wallet.Execute(data.Process.Command, s.clock.Now())
	if err != nil {
		return data, err
	}
	data.Process.Result = result
	return data, nil
}

// ResultSender stores and publishes the outcome of a command.
type ResultSender interface {
	StoreAndSend(ctx context.Context, wallet *models.Wallet, result models.WalletCommandResult) error
}

// SendResponseStep writes the outbox entry and emits the result event.
type SendResponseStep struct {
	sender ResultSender
}

func NewSendResponseStep(sender ResultSender) *SendResponseStep {
	return &SendResponseStep{sender: sender}
}

func (s *SendResponseStep) Step() models.ProcessStep { return models.StepSendResponse }

func (s *SendResponseStep) Execute(ctx context.Context, data ProcessData) (ProcessData, error) {
	if data.Process.Result == nil {
		return data, fmt.Errorf("%w: process %s has no command result", models.ErrInvariantViolation, data.Process.ID)
	}
	if err := s.sender.StoreAndSend(ctx, data.Wallet, data.Process.Result); err != nil {
		return data, err
	}
	return data, nil
}
