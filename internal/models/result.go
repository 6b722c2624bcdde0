package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ResultHeader identifies the command a result belongs to and when it was applied.
type ResultHeader struct {
	ID        string    `json:"id"`
	WalletID  string    `json:"walletId"`
	Timestamp time.Time `json:"timestamp"`
}

// Header returns the result identity.
func (h ResultHeader) Header() ResultHeader { return h }

// WalletCommandResult is the immutable outcome of applying a WalletCommand.
// Each command kind has exactly one result kind.
type WalletCommandResult interface {
	Header() ResultHeader
	Kind() CommandKind
	walletCommandResult()
}

// DepositFundsResult is the outcome of DepositFunds.
type DepositFundsResult struct {
	ResultHeader
	Token  string          `json:"token"`
	Amount decimal.Decimal `json:"amount"`
}

// BlockFundsResult is the outcome of BlockFunds and carries the new lock id.
type BlockFundsResult struct {
	ResultHeader
	Token  string          `json:"token"`
	Amount decimal.Decimal `json:"amount"`
	LockID string          `json:"blockedFundsLockId"`
}

// ReleaseFundsResult is the outcome of ReleaseFunds.
type ReleaseFundsResult struct {
	ResultHeader
	LockID string          `json:"lockId"`
	Token  string          `json:"releasedFundsToken"`
	Amount decimal.Decimal `json:"releasedFundsAmount"`
}

// WithdrawFundsResult is the outcome of WithdrawFunds.
type WithdrawFundsResult struct {
	ResultHeader
	LockID string          `json:"lockId"`
	Token  string          `json:"withdrawnFundsToken"`
	Amount decimal.Decimal `json:"withdrawnFundsAmount"`
}

func (DepositFundsResult) Kind() CommandKind  { return CommandKindDeposit }
func (BlockFundsResult) Kind() CommandKind    { return CommandKindBlock }
func (ReleaseFundsResult) Kind() CommandKind  { return CommandKindRelease }
func (WithdrawFundsResult) Kind() CommandKind { return CommandKindWithdraw }

func (DepositFundsResult) walletCommandResult()  {}
func (BlockFundsResult) walletCommandResult()    {}
func (ReleaseFundsResult) walletCommandResult()  {}
func (WithdrawFundsResult) walletCommandResult() {}

// MarshalResult encodes a result as a typed envelope.
func MarshalResult(result WalletCommandResult) ([]byte, error) {
	payload, err := json.Marshal(result)
	if err != nil {
		return nil, err
	}
	return json.Marshal(envelope{Type: result.Kind(), Payload: payload})
}

// UnmarshalResult decodes an envelope produced by MarshalResult.
func UnmarshalResult(data []byte) (WalletCommandResult, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, err
	}

	switch env.Type {
	case CommandKindDeposit:
		var result DepositFundsResult
		err := json.Unmarshal(env.Payload, &result)
		return result, err
	case CommandKindBlock:
		var result BlockFundsResult
		err := json.Unmarshal(env.Payload, &result)
		return result, err
	case CommandKindRelease:
		var result ReleaseFundsResult
		err := json.Unmarshal(env.Payload, &result)
		return result, err
	case CommandKindWithdraw:
		var result WithdrawFundsResult
		err := json.Unmarshal(env.Payload, &result)
		return result, err
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCommand, env.Type)
	}
}
