package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// ProcessStep names one stage of a WalletProcess.
type ProcessStep string

const (
	StepExecuteCommand ProcessStep = "EXECUTE_COMMAND"
	StepSendResponse   ProcessStep = "SEND_RESPONSE"
)

// ProcessSteps is the fixed order in which steps run.
var ProcessSteps = []ProcessStep{StepExecuteCommand, StepSendResponse}

// StepExecution records when a step finished.
type StepExecution struct {
	Step        ProcessStep `json:"step"`
	CompletedAt time.Time   `json:"completedAt"`
}

// WalletProcess is the persisted saga that drives one command of one wallet
// from receipt to the emitted event.
type WalletProcess struct {
	ID            string
	WalletID      string
	CommandID     string
	Command       WalletCommand
	Result        WalletCommandResult
	StepHistory   []StepExecution
	Completed     bool
	Failed        bool
	FailureReason string
	Version       int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewWalletProcess returns an unsaved process for cmd against walletID.
func NewWalletProcess(walletID string, cmd WalletCommand) *WalletProcess {
	return &WalletProcess{
		WalletID:    walletID,
		CommandID:   cmd.Header().ID,
		Command:     cmd,
		StepHistory: []StepExecution{},
	}
}

func (p *WalletProcess) isStepCompleted(step ProcessStep) bool {
	for _, exec := range p.StepHistory {
		if exec.Step == step {
			return true
		}
	}
	return false
}

// NextStep returns the first step without a history entry. ok is false once
// the process is completed or failed.
func (p *WalletProcess) NextStep() (ProcessStep, bool) {
	if p.Completed || p.Failed {
		return "", false
	}
	for _, step := range ProcessSteps {
		if !p.isStepCompleted(step) {
			return step, true
		}
	}
	return "", false
}

// MarkStepCompleted appends a history entry for step and completes the process
// after the last step.
func (p *WalletProcess) MarkStepCompleted(step ProcessStep, now time.Time) error {
	if p.Completed || p.Failed {
		return fmt.Errorf("%w: process %s is already finished", ErrInvalidStateTransition, p.ID)
	}
	next, ok := p.NextStep()
	if !ok || next != step {
		return fmt.Errorf("%w: step %s is out of order for process %s, expected %s", ErrInvalidStateTransition, step, p.ID, next)
	}

	p.StepHistory = append(p.StepHistory, StepExecution{Step: step, CompletedAt: now})
	p.UpdatedAt = now

	if _, remaining := p.NextStep(); !remaining {
		return p.markCompleted(now)
	}
	return nil
}

func (p *WalletProcess) markCompleted(now time.Time) error {
	if p.Completed {
		return fmt.Errorf("%w: process %s is already completed", ErrInvalidStateTransition, p.ID)
	}
	for _, step := range ProcessSteps {
		if !p.isStepCompleted(step) {
			return fmt.Errorf("%w: process %s has step %s remaining", ErrInvalidStateTransition, p.ID, step)
		}
	}
	p.Completed = true
	p.UpdatedAt = now
	return nil
}

// MarkFailed stops the process for good after a business error.
func (p *WalletProcess) MarkFailed(reason string, now time.Time) error {
	if p.Completed || p.Failed {
		return fmt.Errorf("%w: process %s is already finished", ErrInvalidStateTransition, p.ID)
	}
	p.Failed = true
	p.FailureReason = reason
	p.UpdatedAt = now
	return nil
}

// StepHistoryJSON encodes the step history for storage.
func (p *WalletProcess) StepHistoryJSON() ([]byte, error) {
	if p.StepHistory == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(p.StepHistory)
}
