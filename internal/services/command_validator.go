package services

import (
	"context"
	"fmt"

	"github.com/sbilibin2017/super-wallet/internal/models"
)

//go:generate mockgen -source=command_validator.go -destination=mock_command_validator_test.go -package=services

// TokenChecker tells whether a token is registered.
type TokenChecker interface {
	TokenExists(ctx context.Context, name string) (bool, error)
}

// CommandValidator checks what the wallet aggregate takes on trust.
type CommandValidator struct {
	tokens TokenChecker
}

func NewCommandValidator(tokens TokenChecker) *CommandValidator {
	return &CommandValidator{tokens: tokens}
}

// Validate returns an *models.ApplicationError when cmd names an unregistered token.
func (v *CommandValidator) Validate(ctx context.Context, cmd models.WalletCommand) error {
	switch c := cmd.(type) {
	case models.DepositFunds:
		return v.validateToken(ctx, c.Token)
	case models.BlockFunds:
		return v.validateToken(ctx, c.Token)
	case models.ReleaseFunds, models.WithdrawFunds:
		return nil
	default:
		return fmt.Errorf("%w: %T", models.ErrUnknownCommand, cmd)
	}
}

func (v *CommandValidator) validateToken(ctx context.Context, token string) error {
	exists, err := v.tokens.TokenExists(ctx, token)
	if err != nil {
		return err
	}
	if !exists {
		return models.NewApplicationError(models.ErrTokenNotFound, "Token %s is not registered", token)
	}
	return nil
}
