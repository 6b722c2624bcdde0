package services

import (
	"context"
	"errors"
	"time"

	"github.com/sbilibin2017/super-wallet/internal/clock"
	"github.com/sbilibin2017/super-wallet/internal/logger"
	"github.com/sbilibin2017/super-wallet/internal/models"
)

//go:generate mockgen -source=executed_command.go -destination=mock_executed_command_test.go -package=services

// ExecutedCommandRepository is the outbox of applied commands.
type ExecutedCommandRepository interface {
	ExistsByWalletIDAndCommandID(ctx context.Context, walletID, commandID string) (bool, error)
	ExistsUnsentByWalletIDExceptCommand(ctx context.Context, walletID, commandID string) (bool, error)
	FindAllUnsentCreatedBefore(ctx context.Context, before time.Time, limit int) ([]*models.ExecutedCommand, error)
	Save(ctx context.Context, command *models.ExecutedCommand) error
}

// EventsPublisher sends wallet events to the events topic.
type EventsPublisher interface {
	Publish(ctx context.Context, event models.WalletEvent) error
}

// ExecutedCommandService writes the outbox and turns its entries into events.
type ExecutedCommandService struct {
	repo      ExecutedCommandRepository
	publisher EventsPublisher
	clock     clock.Clock
}

func NewExecutedCommandService(repo ExecutedCommandRepository, publisher EventsPublisher, clk clock.Clock) *ExecutedCommandService {
	return &ExecutedCommandService{repo: repo, publisher: publisher, clock: clk}
}

// IsCommandAlreadyProcessed reports whether the command has an outbox entry for the wallet.
func (s *ExecutedCommandService) IsCommandAlreadyProcessed(ctx context.Context, walletID, commandID string) (bool, error) {
	return s.repo.ExistsByWalletIDAndCommandID(ctx, walletID, commandID)
}

// StoreAndSend durably records result with a snapshot of wallet, then tries
// to publish it. Once the entry is stored, publish failures are left to the
// unsent sweep.
func (s *ExecutedCommandService) StoreAndSend(ctx context.Context, wallet *models.Wallet, result models.WalletCommandResult) error {
	return s.storeAndTrySend(ctx, models.NewExecutedCommand(wallet, result))
}

// SendLastExecutedCommandIfMissing records the wallet's last applied command
// when its outbox entry was never written.
func (s *ExecutedCommandService) SendLastExecutedCommandIfMissing(ctx context.Context, wallet *models.Wallet) error {
	commandID, ok := wallet.LastExecutedCommandID()
	if !ok {
		return nil
	}

	exists, err := s.repo.ExistsByWalletIDAndCommandID(ctx, wallet.ID, commandID)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	command, err := models.ExecutedCommandFromLastResult(wallet)
	if err != nil {
		return err
	}
	logger.Log.Infow("restoring missing executed command", "walletId", wallet.ID, "commandId", commandID)
	return s.storeAndTrySend(ctx, command)
}

// FindUnsent returns unsent entries created before the given time, oldest first.
func (s *ExecutedCommandService) FindUnsent(ctx context.Context, before time.Time, limit int) ([]*models.ExecutedCommand, error) {
	return s.repo.FindAllUnsentCreatedBefore(ctx, before, limit)
}

// Send publishes the event of command and marks it sent.
func (s *ExecutedCommandService) Send(ctx context.Context, command *models.ExecutedCommand) error {
	event, err := models.EventFromResult(command.WalletSnapshot, command.Result)
	if err != nil {
		return err
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		return err
	}

	command.MarkAsSent(s.clock.Now())
	return s.repo.Save(ctx, command)
}

func (s *ExecutedCommandService) storeAndTrySend(ctx context.Context, command *models.ExecutedCommand) error {
	err := s.repo.Save(ctx, command)
	if errors.Is(err, models.ErrConflict) {
		logger.Log.Infow("executed command already stored",
			"walletId", command.WalletID, "commandId", command.CommandID)
		return nil
	}
	if err != nil {
		return err
	}

	pending, err := s.repo.ExistsUnsentByWalletIDExceptCommand(ctx, command.WalletID, command.CommandID)
	if err != nil {
		logger.Log.Warnw("failed to check earlier unsent commands",
			"walletId", command.WalletID, "commandId", command.CommandID, "error", err)
		return nil
	}
	if pending {
		logger.Log.Infow("earlier commands are still unsent, leaving event to the sweep",
			"walletId", command.WalletID, "commandId", command.CommandID)
		return nil
	}

	if err := s.Send(ctx, command); err != nil {
		logger.Log.Warnw("failed to send executed command",
			"walletId", command.WalletID, "commandId", command.CommandID, "error", err)
	}
	return nil
}
