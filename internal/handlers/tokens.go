package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sbilibin2017/super-wallet/internal/logger"
	"github.com/sbilibin2017/super-wallet/internal/middlewares"
	"github.com/sbilibin2017/super-wallet/internal/models"
)

//go:generate mockgen -source=tokens.go -destination=mock_tokens_test.go -package=handlers

// TokenCreator registers tokens.
type TokenCreator interface {
	CreateToken(ctx context.Context, name string) (*models.Token, error)
}

// TokenLister lists registered tokens.
type TokenLister interface {
	ListTokens(ctx context.Context) ([]models.Token, error)
}

// NewCreateTokenHandler returns an HTTP handler that registers a token.
// @Summary Register token
// @Description Registers a token name that wallets may hold. Names are alphanumeric, up to 32 characters.
// @Tags tokens
// @Accept json
// @Produce json
// @Param request body models.CreateTokenRequest true "Token"
// @Success 201 {object} models.Token "Token registered"
// @Failure 400 {object} models.TokenErrorResponse "Invalid token name"
// @Failure 401 {object} models.TokenErrorResponse "Unauthorized"
// @Failure 409 {object} models.TokenErrorResponse "Token already exists"
// @Failure 500 {object} models.TokenErrorResponse "Internal server error"
// @Router /api/v1/tokens [post]
// @Security BearerAuth
func NewCreateTokenHandler(svc TokenCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req models.CreateTokenRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Log.Warnw("failed to decode token request", "requestId", middlewares.RequestIDFromContext(ctx), "error", err)
			writeJSON(w, http.StatusBadRequest, models.TokenErrorResponse{Error: "Invalid request body"})
			return
		}
		if err := req.Validate(); err != nil {
			logger.Log.Warnw("invalid token name", "requestId", middlewares.RequestIDFromContext(ctx), "name", req.Name, "error", err)
			writeJSON(w, http.StatusBadRequest, models.TokenErrorResponse{Error: "Invalid token name"})
			return
		}

		token, err := svc.CreateToken(ctx, req.Name)
		if errors.Is(err, models.ErrTokenAlreadyExists) {
			writeJSON(w, http.StatusConflict, models.TokenErrorResponse{Error: "Token already exists"})
			return
		}
		if err != nil {
			logger.Log.Errorw("failed to create token", "requestId", middlewares.RequestIDFromContext(ctx), "name", req.Name, "error", err)
			writeJSON(w, http.StatusInternalServerError, models.TokenErrorResponse{Error: "Internal server error"})
			return
		}

		writeJSON(w, http.StatusCreated, token)
	}
}

// NewListTokensHandler returns an HTTP handler that lists registered tokens.
// @Summary List tokens
// @Tags tokens
// @Produce json
// @Success 200 {array} models.Token "Registered tokens"
// @Failure 401 {object} models.TokenErrorResponse "Unauthorized"
// @Failure 500 {object} models.TokenErrorResponse "Internal server error"
// @Router /api/v1/tokens [get]
// @Security BearerAuth
func NewListTokensHandler(svc TokenLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		tokens, err := svc.ListTokens(ctx)
		if err != nil {
			logger.Log.Errorw("failed to list tokens", "requestId", middlewares.RequestIDFromContext(ctx), "error", err)
			writeJSON(w, http.StatusInternalServerError, models.TokenErrorResponse{Error: "Internal server error"})
			return
		}
		if tokens == nil {
			tokens = []models.Token{}
		}
		writeJSON(w, http.StatusOK, tokens)
	}
}
