package models

import (
	"encoding/json"
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var (
	idPattern    = regexp.MustCompile(`^[a-zA-Z0-9-]*$`)
	tokenPattern = regexp.MustCompile(`^[a-zA-Z0-9]*$`)
)

// Limits on command amounts as written, before any normalization.
const (
	maxAmountScale         = 18
	maxAmountIntegerDigits = 20
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("idformat", func(fl validator.FieldLevel) bool {
		return idPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("tokenformat", func(fl validator.FieldLevel) bool {
		return tokenPattern.MatchString(fl.Field().String())
	})
	v.RegisterStructValidation(commandMessageStructLevel, CommandMessage{})
	return v
}

// CommandMessage is the inbound wire shape of a wallet command.
type CommandMessage struct {
	Type     CommandKind     `json:"type" validate:"required"`
	ID       string          `json:"id" validate:"required,max=128,idformat"`
	WalletID string          `json:"walletId" validate:"required,max=128,idformat"`
	Token    string          `json:"token,omitempty" validate:"max=32,tokenformat"`
	Amount   decimal.Decimal `json:"amount" validate:"-"`
	LockID   string          `json:"lockId,omitempty" validate:"max=128,idformat"`
}

func commandMessageStructLevel(sl validator.StructLevel) {
	msg := sl.Current().Interface().(CommandMessage)

	switch msg.Type {
	case CommandKindDeposit, CommandKindBlock:
		if msg.Token == "" {
			sl.ReportError(msg.Token, "Token", "token", "required", "")
		}
		if !msg.Amount.IsPositive() {
			sl.ReportError(msg.Amount, "Amount", "amount", "gt", "0")
		} else if !amountInRange(msg.Amount) {
			sl.ReportError(msg.Amount, "Amount", "amount", "amountrange", "")
		}
	case CommandKindRelease, CommandKindWithdraw:
		if msg.LockID == "" {
			sl.ReportError(msg.LockID, "LockID", "lockId", "required", "")
		}
	default:
		sl.ReportError(msg.Type, "Type", "type", "oneof", "DEPOSIT_FUNDS BLOCK_FUNDS RELEASE_FUNDS WITHDRAW_FUNDS")
	}
}

// amountInRange inspects the coefficient and exponent only, so it never
// expands the value.
func amountInRange(d decimal.Decimal) bool {
	exp := int64(d.Exponent())
	if exp < -maxAmountScale {
		return false
	}
	return int64(d.NumDigits())+exp <= maxAmountIntegerDigits
}

// Validate checks the message shape.
func (m CommandMessage) Validate() error {
	return validate.Struct(m)
}

// DecodeCommandMessage parses and validates a raw message value.
func DecodeCommandMessage(data []byte) (CommandMessage, error) {
	var msg CommandMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return CommandMessage{}, fmt.Errorf("decode command message: %w", err)
	}
	if err := msg.Validate(); err != nil {
		return CommandMessage{}, err
	}
	return msg, nil
}

// ToCommand maps a validated message to its command variant.
func (m CommandMessage) ToCommand() (WalletCommand, error) {
	header := CommandHeader{ID: m.ID, WalletID: m.WalletID}

	switch m.Type {
	case CommandKindDeposit:
		return DepositFunds{CommandHeader: header, Token: m.Token, Amount: m.Amount}, nil
	case CommandKindBlock:
		return BlockFunds{CommandHeader: header, Token: m.Token, Amount: m.Amount}, nil
	case CommandKindRelease:
		return ReleaseFunds{CommandHeader: header, LockID: m.LockID}, nil
	case CommandKindWithdraw:
		return WithdrawFunds{CommandHeader: header, LockID: m.LockID}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCommand, m.Type)
	}
}
