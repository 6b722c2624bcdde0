package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/sbilibin2017/super-wallet/internal/clock"
	"github.com/sbilibin2017/super-wallet/internal/models"
)

// TokenRepository is the registry of tokens wallets may hold.
type TokenRepository struct {
	db       *sqlx.DB
	txGetter func(ctx context.Context) *sqlx.Tx
	clock    clock.Clock
}

func NewTokenRepository(db *sqlx.DB, txGetter func(ctx context.Context) *sqlx.Tx, clk clock.Clock) *TokenRepository {
	return &TokenRepository{db: db, txGetter: txGetter, clock: clk}
}

// Create registers name. A taken name returns models.ErrTokenAlreadyExists.
func (r *TokenRepository) Create(ctx context.Context, name string) (*models.Token, error) {
	const query = `
		INSERT INTO tokens (id, name, created_at, updated_at)
		VALUES ($1, $2, $3, $3)
	`

	now := r.clock.Now()
	token := &models.Token{ID: uuid.NewString(), Name: name, CreatedAt: now, UpdatedAt: now}

	args := []any{token.ID, name, now}
	_, err := executor(ctx, r.db, r.txGetter).ExecContext(ctx, query, args...)
	logQuery(query, args, token.ID, err)

	if err != nil {
		if errors.Is(conflictOr(err), models.ErrConflict) {
			return nil, models.ErrTokenAlreadyExists
		}
		return nil, err
	}
	return token, nil
}

// ExistsByName reports whether name is registered.
func (r *TokenRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM tokens WHERE name = $1)`

	var exists bool
	err := sqlx.GetContext(ctx, executor(ctx, r.db, r.txGetter), &exists, query, name)
	logQuery(query, []any{name}, exists, err)

	return exists, err
}

// FindAll lists registered tokens by name.
func (r *TokenRepository) FindAll(ctx context.Context) ([]models.Token, error) {
	const query = `SELECT id, name, created_at, updated_at FROM tokens ORDER BY name`

	tokens := []models.Token{}
	err := sqlx.SelectContext(ctx, executor(ctx, r.db, r.txGetter), &tokens, query)
	logQuery(query, nil, len(tokens), err)

	return tokens, err
}
