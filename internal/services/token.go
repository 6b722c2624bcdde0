package services

import (
	"context"

	"github.com/sbilibin2017/super-wallet/internal/logger"
	"github.com/sbilibin2017/super-wallet/internal/models"
)

//go:generate mockgen -source=token.go -destination=mock_token_test.go -package=services

// TokenRepository is the durable token registry.
type TokenRepository interface {
	Create(ctx context.Context, name string) (*models.Token, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	FindAll(ctx context.Context) ([]models.Token, error)
}

// TokenCache remembers registered token names.
type TokenCache interface {
	Exists(ctx context.Context, name string) (bool, error)
	Set(ctx context.Context, name string) error
}

// TokenService manages registered tokens.
type TokenService struct {
	repo  TokenRepository
	cache TokenCache
}

// NewTokenService creates a new TokenService. cache may be nil.
func NewTokenService(repo TokenRepository, cache TokenCache) *TokenService {
	return &TokenService{repo: repo, cache: cache}
}

// CreateToken registers name.
func (s *TokenService) CreateToken(ctx context.Context, name string) (*models.Token, error) {
	token, err := s.repo.Create(ctx, name)
	if err != nil {
		return nil, err
	}
	s.remember(ctx, name)
	return token, nil
}

// ListTokens returns every registered token.
func (s *TokenService) ListTokens(ctx context.Context) ([]models.Token, error) {
	return s.repo.FindAll(ctx)
}

// TokenExists checks the cache first and falls back to the registry.
// Only positive answers are cached.
func (s *TokenService) TokenExists(ctx context.Context, name string) (bool, error) {
	if s.cache != nil {
		cached, err := s.cache.Exists(ctx, name)
		if err != nil {
			logger.Log.Warnw("token cache lookup failed", "token", name, "error", err)
		} else if cached {
			return true, nil
		}
	}

	exists, err := s.repo.ExistsByName(ctx, name)
	if err != nil {
		return false, err
	}
	if exists {
		s.remember(ctx, name)
	}
	return exists, nil
}

func (s *TokenService) remember(ctx context.Context, name string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, name); err != nil {
		logger.Log.Warnw("failed to cache token", "token", name, "error", err)
	}
}
