package services

import (
	"context"

	"github.com/sbilibin2017/super-wallet/internal/logger"
	"github.com/sbilibin2017/super-wallet/internal/models"
)

//go:generate mockgen -source=wallet.go -destination=mock_wallet_test.go -package=services

// WalletRepository loads and stores wallet aggregates.
type WalletRepository interface {
	// FindByID returns nil when the wallet does not exist.
	FindByID(ctx context.Context, id string) (*models.Wallet, error)
	CountByOwnerID(ctx context.Context, ownerID string) (int, error)
	// LockOwner serializes wallet creation for ownerID within the current transaction.
	LockOwner(ctx context.Context, ownerID string) error
	Save(ctx context.Context, wallet *models.Wallet) error
}

// WalletService creates and reads wallets.
type WalletService struct {
	repo          WalletRepository
	transactor    Transactor
	limitPerOwner int
}

// NewWalletService creates a new WalletService.
func NewWalletService(repo WalletRepository, transactor Transactor, limitPerOwner int) *WalletService {
	return &WalletService{repo: repo, transactor: transactor, limitPerOwner: limitPerOwner}
}

// CreateWallet opens an empty wallet for ownerID unless the owner already
// reached the limit.
func (s *WalletService) CreateWallet(ctx context.Context, ownerID string) (*models.Wallet, error) {
	wallet := models.NewWallet(ownerID)

	err := s.transactor.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.repo.LockOwner(ctx, ownerID); err != nil {
			return err
		}

		count, err := s.repo.CountByOwnerID(ctx, ownerID)
		if err != nil {
			return err
		}
		if count >= s.limitPerOwner {
			logger.Log.Warnw("wallets limit reached", "ownerId", ownerID, "count", count)
			return models.NewApplicationError(models.ErrWalletsLimitReached,
				"Owner %s already has %d wallets", ownerID, count)
		}

		return s.repo.Save(ctx, wallet)
	})
	if err != nil {
		return nil, err
	}

	logger.Log.Infow("wallet created", "walletId", wallet.ID, "ownerId", ownerID)
	return wallet, nil
}

// FindWallet returns the wallet or models.ErrWalletNotFound.
func (s *WalletService) FindWallet(ctx context.Context, id string) (*models.Wallet, error) {
	wallet, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if wallet == nil {
		return nil, models.ErrWalletNotFound
	}
	return wallet, nil
}
