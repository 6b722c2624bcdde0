package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Wallet is the aggregate holding one owner's fund ledgers. It remembers the
// result of the last applied command so a replay of that command is a no-op.
type Wallet struct {
	ID                        string
	OwnerID                   string
	Version                   int
	Funds                     map[string]*Fund
	LastExecutedCommandResult WalletCommandResult
	CreatedAt                 time.Time
	UpdatedAt                 time.Time
}

// NewWallet returns an unsaved, empty wallet for ownerID.
func NewWallet(ownerID string) *Wallet {
	return &Wallet{
		OwnerID: ownerID,
		Funds:   make(map[string]*Fund),
	}
}

// LastExecutedCommandID returns the id of the last applied command, if any.
func (w *Wallet) LastExecutedCommandID() (string, bool) {
	if w.LastExecutedCommandResult == nil {
		return "", false
	}
	return w.LastExecutedCommandResult.Header().ID, true
}

// Execute applies cmd at time now. Replaying the last applied command returns
// the cached result without touching the ledgers. Ledger failures come back as
// *ApplicationError.
func (w *Wallet) Execute(cmd WalletCommand, now time.Time) (WalletCommandResult, error) {
	if lastID, ok := w.LastExecutedCommandID(); ok && lastID == cmd.Header().ID {
		return w.LastExecutedCommandResult, nil
	}

	result, err := w.executeNew(cmd, now)
	if err != nil {
		return nil, err
	}
	w.LastExecutedCommandResult = result
	return result, nil
}

func (w *Wallet) executeNew(cmd WalletCommand, now time.Time) (WalletCommandResult, error) {
	header := ResultHeader{ID: cmd.Header().ID, WalletID: w.ID, Timestamp: now}

	switch c := cmd.(type) {
	case DepositFunds:
		w.fund(c.Token).Deposit(c.Amount)
		return DepositFundsResult{ResultHeader: header, Token: c.Token, Amount: c.Amount}, nil

	case BlockFunds:
		fund, ok := w.Funds[c.Token]
		if available := w.Available(c.Token); !ok || c.Amount.GreaterThan(available) {
			return nil, NewApplicationError(ErrInsufficientFunds, "Cannot block %s %s: only %s available", c.Amount, c.Token, available)
		}
		lockID, err := fund.Block(c.Amount)
		if err != nil {
			return nil, NewApplicationError(err, "Cannot block %s %s: %v", c.Amount, c.Token, err)
		}
		return BlockFundsResult{ResultHeader: header, Token: c.Token, Amount: c.Amount, LockID: lockID}, nil

	case ReleaseFunds:
		token, fund, err := w.fundByLock(c.LockID)
		if err != nil {
			return nil, err
		}
		amount, err := fund.Release(c.LockID)
		if err != nil {
			return nil, NewApplicationError(err, "No funds to release under lock: %s", c.LockID)
		}
		return ReleaseFundsResult{ResultHeader: header, LockID: c.LockID, Token: token, Amount: amount}, nil

	case WithdrawFunds:
		token, fund, err := w.fundByLock(c.LockID)
		if err != nil {
			return nil, err
		}
		amount, err := fund.Withdraw(c.LockID)
		if err != nil {
			return nil, NewApplicationError(err, "No funds to withdraw under lock: %s", c.LockID)
		}
		return WithdrawFundsResult{ResultHeader: header, LockID: c.LockID, Token: token, Amount: amount}, nil

	default:
		return nil, fmt.Errorf("%w: %T", ErrUnknownCommand, cmd)
	}
}

func (w *Wallet) fund(token string) *Fund {
	if w.Funds == nil {
		w.Funds = make(map[string]*Fund)
	}
	fund, ok := w.Funds[token]
	if !ok {
		fund = NewFund()
		w.Funds[token] = fund
	}
	return fund
}

func (w *Wallet) fundByLock(lockID string) (string, *Fund, error) {
	for token, fund := range w.Funds {
		if fund.HasLock(lockID) {
			return token, fund, nil
		}
	}
	return "", nil, NewApplicationError(ErrUnknownLock, "No funds found under lock %s", lockID)
}

// Available returns the available balance of token, zero when the wallet never held it.
func (w *Wallet) Available(token string) decimal.Decimal {
	if fund, ok := w.Funds[token]; ok {
		return fund.Available
	}
	return decimal.Zero
}

// Clone returns a deep copy, used for snapshots.
func (w *Wallet) Clone() *Wallet {
	funds := make(map[string]*Fund, len(w.Funds))
	for token, fund := range w.Funds {
		funds[token] = fund.Clone()
	}
	clone := *w
	clone.Funds = funds
	return &clone
}

type walletJSON struct {
	ID                        string           `json:"id"`
	OwnerID                   string           `json:"ownerId"`
	Version                   int              `json:"version"`
	Funds                     map[string]*Fund `json:"funds"`
	LastExecutedCommandResult json.RawMessage  `json:"lastExecutedCommandResult,omitempty"`
	CreatedAt                 time.Time        `json:"createdAt"`
	UpdatedAt                 time.Time        `json:"updatedAt"`
}

// MarshalJSON encodes the wallet with its last result as a typed envelope.
func (w Wallet) MarshalJSON() ([]byte, error) {
	out := walletJSON{
		ID:        w.ID,
		OwnerID:   w.OwnerID,
		Version:   w.Version,
		Funds:     w.Funds,
		CreatedAt: w.CreatedAt,
		UpdatedAt: w.UpdatedAt,
	}
	if w.LastExecutedCommandResult != nil {
		raw, err := MarshalResult(w.LastExecutedCommandResult)
		if err != nil {
			return nil, err
		}
		out.LastExecutedCommandResult = raw
	}
	return json.Marshal(out)
}

// UnmarshalJSON is the inverse of MarshalJSON.
func (w *Wallet) UnmarshalJSON(data []byte) error {
	var in walletJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}

	*w = Wallet{
		ID:        in.ID,
		OwnerID:   in.OwnerID,
		Version:   in.Version,
		Funds:     in.Funds,
		CreatedAt: in.CreatedAt,
		UpdatedAt: in.UpdatedAt,
	}
	if w.Funds == nil {
		w.Funds = make(map[string]*Fund)
	}
	if len(in.LastExecutedCommandResult) > 0 && string(in.LastExecutedCommandResult) != "null" {
		result, err := UnmarshalResult(in.LastExecutedCommandResult)
		if err != nil {
			return err
		}
		w.LastExecutedCommandResult = result
	}
	return nil
}
