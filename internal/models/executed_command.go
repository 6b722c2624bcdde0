package models

import (
	"fmt"
	"time"
)

// ExecutedCommand is the outbox record of a command applied to a wallet.
// Send flips to true once the matching event has been published.
type ExecutedCommand struct {
	ID             string
	CommandID      string
	WalletID       string
	Result         WalletCommandResult
	WalletSnapshot *Wallet
	Send           bool
	Version        int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewExecutedCommand snapshots wallet together with result.
func NewExecutedCommand(wallet *Wallet, result WalletCommandResult) *ExecutedCommand {
	return &ExecutedCommand{
		CommandID:      result.Header().ID,
		WalletID:       wallet.ID,
		Result:         result,
		WalletSnapshot: wallet.Clone(),
	}
}

// ExecutedCommandFromLastResult builds the record for the last command the
// wallet applied.
func ExecutedCommandFromLastResult(wallet *Wallet) (*ExecutedCommand, error) {
	if wallet.LastExecutedCommandResult == nil {
		return nil, fmt.Errorf("%w: wallet %s has no executed command", ErrInvariantViolation, wallet.ID)
	}
	return NewExecutedCommand(wallet, wallet.LastExecutedCommandResult), nil
}

// MarkAsSent flips the outbox flag.
func (c *ExecutedCommand) MarkAsSent(now time.Time) {
	c.Send = true
	c.UpdatedAt = now
}
