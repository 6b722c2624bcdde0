package models

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// CommandKind discriminates the closed set of wallet commands and their results.
type CommandKind string

const (
	CommandKindDeposit  CommandKind = "DEPOSIT_FUNDS"
	CommandKindBlock    CommandKind = "BLOCK_FUNDS"
	CommandKindRelease  CommandKind = "RELEASE_FUNDS"
	CommandKindWithdraw CommandKind = "WITHDRAW_FUNDS"
)

// CommandHeader identifies a command and the wallet it targets.
type CommandHeader struct {
	ID       string `json:"id"`
	WalletID string `json:"walletId"`
}

// Header returns the command identity.
func (h CommandHeader) Header() CommandHeader { return h }

// WalletCommand is one of DepositFunds, BlockFunds, ReleaseFunds, WithdrawFunds.
type WalletCommand interface {
	Header() CommandHeader
	Kind() CommandKind
	walletCommand()
}

// TokenCommand is implemented by commands that name a token and need it registered.
type TokenCommand interface {
	WalletCommand
	TokenName() string
}

// DepositFunds credits amount of token to the wallet.
type DepositFunds struct {
	CommandHeader
	Token  string          `json:"token"`
	Amount decimal.Decimal `json:"amount"`
}

// BlockFunds reserves amount of token under a new lock.
type BlockFunds struct {
	CommandHeader
	Token  string          `json:"token"`
	Amount decimal.Decimal `json:"amount"`
}

// ReleaseFunds returns the funds of a lock to the available balance.
type ReleaseFunds struct {
	CommandHeader
	LockID string `json:"lockId"`
}

// WithdrawFunds removes the funds of a lock from the wallet.
type WithdrawFunds struct {
	CommandHeader
	LockID string `json:"lockId"`
}

func (DepositFunds) Kind() CommandKind  { return CommandKindDeposit }
func (BlockFunds) Kind() CommandKind    { return CommandKindBlock }
func (ReleaseFunds) Kind() CommandKind  { return CommandKindRelease }
func (WithdrawFunds) Kind() CommandKind { return CommandKindWithdraw }

func (DepositFunds) walletCommand()  {}
func (BlockFunds) walletCommand()    {}
func (ReleaseFunds) walletCommand()  {}
func (WithdrawFunds) walletCommand() {}

func (c DepositFunds) TokenName() string { return c.Token }
func (c BlockFunds) TokenName() string   { return c.Token }

type envelope struct {
	Type    CommandKind     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// MarshalCommand encodes a command as a typed envelope.
func MarshalCommand(cmd WalletCommand) ([]byte, error) {
	payload, err := json.Marshal(cmd)
	if err != nil {
		return nil, err
	}
	return json.Marshal(envelope{Type: cmd.Kind(), Payload: payload})
}

// UnmarshalCommand decodes an envelope produced by MarshalCommand.
func UnmarshalCommand(data []byte) (WalletCommand, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, err
	}

	switch env.Type {
	case CommandKindDeposit:
		var cmd DepositFunds
		err := json.Unmarshal(env.Payload, &cmd)
		return cmd, err
	case CommandKindBlock:
		var cmd BlockFunds
		err := json.Unmarshal(env.Payload, &cmd)
		return cmd, err
	case CommandKindRelease:
		var cmd ReleaseFunds
		err := json.Unmarshal(env.Payload, &cmd)
		return cmd, err
	case CommandKindWithdraw:
		var cmd WithdrawFunds
		err := json.Unmarshal(env.Payload, &cmd)
		return cmd, err
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCommand, env.Type)
	}
}
