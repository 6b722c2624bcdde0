package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sbilibin2017/super-wallet/internal/logger"
	"github.com/sbilibin2017/super-wallet/internal/middlewares"
	"github.com/sbilibin2017/super-wallet/internal/models"
)

//go:generate mockgen -source=wallets.go -destination=mock_wallets_test.go -package=handlers

// WalletCreator opens wallets for owners.
type WalletCreator interface {
	CreateWallet(ctx context.Context, ownerID string) (*models.Wallet, error)
}

// WalletFinder reads wallets.
type WalletFinder interface {
	FindWallet(ctx context.Context, id string) (*models.Wallet, error)
}

// NewCreateWalletHandler returns an HTTP handler that opens a wallet for the caller.
// @Summary Create wallet
// @Description Opens an empty wallet owned by the authorized caller. Fails when the owner reached the wallets limit.
// @Tags wallets
// @Produce json
// @Success 201 {object} models.WalletResponse "Wallet created"
// @Failure 401 {object} models.WalletErrorResponse "Unauthorized"
// @Failure 409 {object} models.WalletErrorResponse "Wallets limit reached"
// @Failure 500 {object} models.WalletErrorResponse "Internal server error"
// @Router /api/v1/wallets [post]
// @Security BearerAuth
func NewCreateWalletHandler(svc WalletCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		ownerID, ok := middlewares.OwnerIDFromContext(ctx)
		if !ok {
			writeJSON(w, http.StatusUnauthorized, models.WalletErrorResponse{Error: "Unauthorized"})
			return
		}

		wallet, err := svc.CreateWallet(ctx, ownerID)
		if err != nil {
			var appErr *models.ApplicationError
			if errors.As(err, &appErr) {
				writeJSON(w, http.StatusConflict, models.WalletErrorResponse{Error: appErr.Error()})
				return
			}
			logger.Log.Errorw("failed to create wallet", "requestId", middlewares.RequestIDFromContext(ctx), "ownerId", ownerID, "error", err)
			writeJSON(w, http.StatusInternalServerError, models.WalletErrorResponse{Error: "Internal server error"})
			return
		}

		writeJSON(w, http.StatusCreated, models.NewWalletResponse(wallet))
	}
}

// NewGetWalletHandler returns an HTTP handler that renders one wallet.
// @Summary Get wallet
// @Description Returns the wallet balances per token.
// @Tags wallets
// @Produce json
// @Param id path string true "Wallet ID"
// @Success 200 {object} models.WalletResponse "Wallet"
// @Failure 401 {object} models.WalletErrorResponse "Unauthorized"
// @Failure 404 {object} models.WalletErrorResponse "Wallet not found"
// @Failure 500 {object} models.WalletErrorResponse "Internal server error"
// @Router /api/v1/wallets/{id} [get]
// @Security BearerAuth
func NewGetWalletHandler(svc WalletFinder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		id := chi.URLParam(r, "id")

		wallet, err := svc.FindWallet(ctx, id)
		if errors.Is(err, models.ErrWalletNotFound) {
			writeJSON(w, http.StatusNotFound, models.WalletErrorResponse{Error: "Wallet not found"})
			return
		}
		if err != nil {
			logger.Log.Errorw("failed to get wallet", "requestId", middlewares.RequestIDFromContext(ctx), "walletId", id, "error", err)
			writeJSON(w, http.StatusInternalServerError, models.WalletErrorResponse{Error: "Internal server error"})
			return
		}

		writeJSON(w, http.StatusOK, models.NewWalletResponse(wallet))
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
