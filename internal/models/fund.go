package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BlockLimit is the maximum number of concurrent locks held by one fund.
const BlockLimit = 50

// Fund is the per-token ledger of a wallet: an available balance plus
// amounts reserved under lock ids.
type Fund struct {
	Available decimal.Decimal            `json:"available"`
	Blocked   map[string]decimal.Decimal `json:"blocked"`
}

// NewFund returns an empty ledger.
func NewFund() *Fund {
	return &Fund{
		Available: decimal.Zero,
		Blocked:   make(map[string]decimal.Decimal),
	}
}

// HasLock reports whether lockID currently reserves funds here.
func (f *Fund) HasLock(lockID string) bool {
	_, ok := f.Blocked[lockID]
	return ok
}

// Deposit adds amount to the available balance.
func (f *Fund) Deposit(amount decimal.Decimal) {
	f.Available = f.Available.Add(amount)
}

// Block moves amount from available to a new lock and returns the lock id.
func (f *Fund) Block(amount decimal.Decimal) (string, error) {
	if f.Available.LessThan(amount) {
		return "", ErrInsufficientFunds
	}
	if len(f.Blocked) >= BlockLimit {
		return "", ErrBlockLimitExceeded
	}
	if f.Blocked == nil {
		f.Blocked = make(map[string]decimal.Decimal)
	}

	lockID := uuid.NewString()
	f.Blocked[lockID] = amount
	f.Available = f.Available.Sub(amount)
	return lockID, nil
}

// Release drops the lock and returns its amount to the available balance.
func (f *Fund) Release(lockID string) (decimal.Decimal, error) {
	amount, ok := f.Blocked[lockID]
	if !ok {
		return decimal.Zero, ErrUnknownLock
	}
	delete(f.Blocked, lockID)
	f.Available = f.Available.Add(amount)
	return amount, nil
}

// Withdraw drops the lock; its amount leaves the ledger for good.
func (f *Fund) Withdraw(lockID string) (decimal.Decimal, error) {
	amount, ok := f.Blocked[lockID]
	if !ok {
		return decimal.Zero, ErrUnknownLock
	}
	delete(f.Blocked, lockID)
	return amount, nil
}

// TotalBlocked sums every active lock.
func (f *Fund) TotalBlocked() decimal.Decimal {
	total := decimal.Zero
	for _, amount := range f.Blocked {
		total = total.Add(amount)
	}
	return total
}

// Clone returns a deep copy.
func (f *Fund) Clone() *Fund {
	blocked := make(map[string]decimal.Decimal, len(f.Blocked))
	for lockID, amount := range f.Blocked {
		blocked[lockID] = amount
	}
	return &Fund{Available: f.Available, Blocked: blocked}
}
