package models

import (
	"errors"
	"fmt"
)

// Business failures. They reach callers wrapped in an ApplicationError.
var (
	ErrInsufficientFunds   = errors.New("insufficient funds")
	ErrBlockLimitExceeded  = errors.New("block limit exceeded")
	ErrUnknownLock         = errors.New("unknown lock")
	ErrWalletNotFound      = errors.New("wallet not found")
	ErrTokenNotFound       = errors.New("token not found")
	ErrTokenAlreadyExists  = errors.New("token already exists")
	ErrWalletsLimitReached = errors.New("wallets limit reached")
)

// Infrastructure and logic failures. These are never turned into events.
var (
	// ErrConflict is returned when an optimistic write loses against a concurrent one.
	ErrConflict = errors.New("optimistic lock conflict")
	// ErrInvalidStateTransition is returned by illegal WalletProcess transitions.
	ErrInvalidStateTransition = errors.New("invalid state transition")
	// ErrInvariantViolation marks a step invoked without its precondition.
	ErrInvariantViolation = errors.New("invariant violation")
	// ErrUnknownCommand is returned for command or result kinds outside the closed set.
	ErrUnknownCommand = errors.New("unknown wallet command")
)

// ApplicationError is a recoverable, business-facing failure. The orchestrator
// turns it into an Error event instead of letting it reach the retry layer.
type ApplicationError struct {
	Err     error
	Message string
}

// NewApplicationError wraps a business sentinel with a formatted message.
func NewApplicationError(err error, format string, args ...interface{}) *ApplicationError {
	return &ApplicationError{Err: err, Message: fmt.Sprintf(format, args...)}
}

func (e *ApplicationError) Error() string {
	if e.Message == "" {
		return e.Err.Error()
	}
	return e.Message
}

func (e *ApplicationError) Unwrap() error {
	return e.Err
}

// IsApplicationError reports whether err carries an ApplicationError anywhere in its chain.
func IsApplicationError(err error) bool {
	var appErr *ApplicationError
	return errors.As(err, &appErr)
}
