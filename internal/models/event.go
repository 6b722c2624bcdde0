package models

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// EventType discriminates outbound wallet events.
type EventType string

const (
	EventFundsAdded     EventType = "FUNDS_ADDED"
	EventFundsBlocked   EventType = "FUNDS_BLOCKED"
	EventFundsReleased  EventType = "FUNDS_RELEASED"
	EventFundsWithdrawn EventType = "FUNDS_WITHDRAWN"
	EventError          EventType = "ERROR"
)

// WalletEvent is one of the events published to the events topic.
type WalletEvent interface {
	EventType() EventType
	// Key is the partitioning key, the wallet id.
	Key() string
}

// TokenBalance is a per-token line of a wallet snapshot.
type TokenBalance struct {
	Token     string          `json:"token"`
	Available decimal.Decimal `json:"available"`
	Blocked   decimal.Decimal `json:"blocked"`
}

// WalletSnapshot is the public view of a wallet carried by events.
type WalletSnapshot struct {
	ID      string         `json:"id"`
	OwnerID string         `json:"ownerId"`
	Balance []TokenBalance `json:"balance"`
}

// NewWalletSnapshot renders w with balances sorted by token.
func NewWalletSnapshot(w *Wallet) WalletSnapshot {
	balance := make([]TokenBalance, 0, len(w.Funds))
	for token, fund := range w.Funds {
		balance = append(balance, TokenBalance{
			Token:     token,
			Available: fund.Available,
			Blocked:   fund.TotalBlocked(),
		})
	}
	sort.Slice(balance, func(i, j int) bool { return balance[i].Token < balance[j].Token })

	return WalletSnapshot{ID: w.ID, OwnerID: w.OwnerID, Balance: balance}
}

type FundsAddedEvent struct {
	Type      EventType       `json:"type"`
	CommandID string          `json:"commandId"`
	WalletID  string          `json:"walletId"`
	Token     string          `json:"token"`
	Amount    decimal.Decimal `json:"amount"`
	Wallet    WalletSnapshot  `json:"wallet"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

type FundsBlockedEvent struct {
	Type      EventType       `json:"type"`
	CommandID string          `json:"commandId"`
	WalletID  string          `json:"walletId"`
	Token     string          `json:"token"`
	Amount    decimal.Decimal `json:"amount"`
	LockID    string          `json:"blockedFundsLockId"`
	Wallet    WalletSnapshot  `json:"wallet"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

type FundsReleasedEvent struct {
	Type      EventType       `json:"type"`
	CommandID string          `json:"commandId"`
	WalletID  string          `json:"walletId"`
	LockID    string          `json:"lockId"`
	Token     string          `json:"releasedFundsToken"`
	Amount    decimal.Decimal `json:"releasedFundsAmount"`
	Wallet    WalletSnapshot  `json:"wallet"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

type FundsWithdrawnEvent struct {
	Type      EventType       `json:"type"`
	CommandID string          `json:"commandId"`
	WalletID  string          `json:"walletId"`
	LockID    string          `json:"lockId"`
	Token     string          `json:"withdrawnFundsToken"`
	Amount    decimal.Decimal `json:"withdrawnFundsAmount"`
	Wallet    WalletSnapshot  `json:"wallet"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// ErrorEvent reports a command rejected for a business reason.
type ErrorEvent struct {
	Type         EventType `json:"type"`
	CommandID    string    `json:"commandId"`
	WalletID     string    `json:"walletId"`
	ErrorMessage string    `json:"errorMessage"`
}

func (FundsAddedEvent) EventType() EventType     { return EventFundsAdded }
func (FundsBlockedEvent) EventType() EventType   { return EventFundsBlocked }
func (FundsReleasedEvent) EventType() EventType  { return EventFundsReleased }
func (FundsWithdrawnEvent) EventType() EventType { return EventFundsWithdrawn }
func (ErrorEvent) EventType() EventType          { return EventError }

func (e FundsAddedEvent) Key() string     { return e.WalletID }
func (e FundsBlockedEvent) Key() string   { return e.WalletID }
func (e FundsReleasedEvent) Key() string  { return e.WalletID }
func (e FundsWithdrawnEvent) Key() string { return e.WalletID }
func (e ErrorEvent) Key() string          { return e.WalletID }

// NewErrorEvent builds the event published when cmd is rejected.
func NewErrorEvent(cmd WalletCommand, err error) ErrorEvent {
	return ErrorEvent{
		Type:         EventError,
		CommandID:    cmd.Header().ID,
		WalletID:     cmd.Header().WalletID,
		ErrorMessage: err.Error(),
	}
}

// EventFromResult maps a command result and the wallet state it produced to
// the matching funds event.
func EventFromResult(wallet *Wallet, result WalletCommandResult) (WalletEvent, error) {
	snapshot := NewWalletSnapshot(wallet)
	header := result.Header()

	switch r := result.(type) {
	case DepositFundsResult:
		return FundsAddedEvent{
			Type: EventFundsAdded, CommandID: header.ID, WalletID: header.WalletID,
			Token: r.Token, Amount: r.Amount, Wallet: snapshot, UpdatedAt: header.Timestamp,
		}, nil
	case BlockFundsResult:
		return FundsBlockedEvent{
			Type: EventFundsBlocked, CommandID: header.ID, WalletID: header.WalletID,
			Token: r.Token, Amount: r.Amount, LockID: r.LockID, Wallet: snapshot, UpdatedAt: header.Timestamp,
		}, nil
	case ReleaseFundsResult:
		return FundsReleasedEvent{
			Type: EventFundsReleased, CommandID: header.ID, WalletID: header.WalletID,
			LockID: r.LockID, Token: r.Token, Amount: r.Amount, Wallet: snapshot, UpdatedAt: header.Timestamp,
		}, nil
	case WithdrawFundsResult:
		return FundsWithdrawnEvent{
			Type: EventFundsWithdrawn, CommandID: header.ID, WalletID: header.WalletID,
			LockID: r.LockID, Token: r.Token, Amount: r.Amount, Wallet: snapshot, UpdatedAt: header.Timestamp,
		}, nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnknownCommand, result)
	}
}
