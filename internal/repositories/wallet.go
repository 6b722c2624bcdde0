package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/sbilibin2017/super-wallet/internal/clock"
	"github.com/sbilibin2017/super-wallet/internal/models"
)

// WalletRepository stores wallet aggregates with optimistic concurrency.
type WalletRepository struct {
	db       *sqlx.DB
	txGetter func(ctx context.Context) *sqlx.Tx
	clock    clock.Clock
}

func NewWalletRepository(db *sqlx.DB, txGetter func(ctx context.Context) *sqlx.Tx, clk clock.Clock) *WalletRepository {
	return &WalletRepository{db: db, txGetter: txGetter, clock: clk}
}

type walletRow struct {
	ID                        string         `db:"id"`
	OwnerID                   string         `db:"owner_id"`
	Version                   int            `db:"version"`
	Funds                     []byte         `db:"funds"`
	LastExecutedCommandID     sql.NullString `db:"last_executed_command_id"`
	LastExecutedCommandResult []byte         `db:"last_executed_command_result"`
	CreatedAt                 time.Time      `db:"created_at"`
	UpdatedAt                 time.Time      `db:"updated_at"`
}

func (row walletRow) toModel() (*models.Wallet, error) {
	w := &models.Wallet{
		ID:        row.ID,
		OwnerID:   row.OwnerID,
		Version:   row.Version,
		Funds:     make(map[string]*models.Fund),
		CreatedAt: row.CreatedAt.UTC(),
		UpdatedAt: row.UpdatedAt.UTC(),
	}
	if len(row.Funds) > 0 {
		if err := json.Unmarshal(row.Funds, &w.Funds); err != nil {
			return nil, err
		}
	}
	if len(row.LastExecutedCommandResult) > 0 {
		result, err := models.UnmarshalResult(row.LastExecutedCommandResult)
		if err != nil {
			return nil, err
		}
		w.LastExecutedCommandResult = result
	}
	return w, nil
}

const walletColumns = `id, owner_id, version, funds, last_executed_command_id, last_executed_command_result, created_at, updated_at`

// FindByID returns the wallet or nil when it does not exist.
func (r *WalletRepository) FindByID(ctx context.Context, id string) (*models.Wallet, error) {
	query := `SELECT ` + walletColumns + ` FROM wallets WHERE id = $1`

	var row walletRow
	err := sqlx.GetContext(ctx, r.executor(ctx), &row, query, id)
	logQuery(query, []any{id}, row.Version, err)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return row.toModel()
}

// CountByOwnerID returns how many wallets ownerID has.
func (r *WalletRepository) CountByOwnerID(ctx context.Context, ownerID string) (int, error) {
	const query = `SELECT COUNT(*) FROM wallets WHERE owner_id = $1`

	var count int
	err := sqlx.GetContext(ctx, r.executor(ctx), &count, query, ownerID)
	logQuery(query, []any{ownerID}, count, err)

	return count, err
}

// LockOwner takes a transaction-scoped advisory lock on ownerID. It blocks
// until concurrent holders commit or roll back and is a no-op outside a
// transaction.
func (r *WalletRepository) LockOwner(ctx context.Context, ownerID string) error {
	const query = `SELECT pg_advisory_xact_lock(hashtext($1))`

	if r.txGetter == nil {
		return nil
	}
	tx := r.txGetter(ctx)
	if tx == nil {
		return nil
	}
	_, err := tx.ExecContext(ctx, query, ownerID)
	logQuery(query, []any{ownerID}, nil, err)

	return err
}

// FindAllWithoutExecutedCommand returns wallets updated before the given time
// whose last applied command has no executed_commands row.
func (r *WalletRepository) FindAllWithoutExecutedCommand(ctx context.Context, updatedBefore time.Time) ([]*models.Wallet, error) {
	query := `
		SELECT ` + walletColumns + `
		FROM wallets w
		WHERE w.updated_at < $1
		  AND w.last_executed_command_id IS NOT NULL
		  AND NOT EXISTS (
			SELECT 1 FROM executed_commands ec
			WHERE ec.wallet_id = w.id AND ec.command_id = w.last_executed_command_id
		  )
		ORDER BY w.updated_at
	`

	var rows []walletRow
	err := sqlx.SelectContext(ctx, r.executor(ctx), &rows, query, updatedBefore)
	logQuery(query, []any{updatedBefore}, len(rows), err)
	if err != nil {
		return nil, err
	}

	wallets := make([]*models.Wallet, 0, len(rows))
	for _, row := range rows {
		w, err := row.toModel()
		if err != nil {
			return nil, err
		}
		wallets = append(wallets, w)
	}
	return wallets, nil
}

// Save inserts a new wallet (Version 0) or updates an existing one when its
// version still matches. A lost race returns models.ErrConflict. On success
// the wallet carries the new version and timestamps.
func (r *WalletRepository) Save(ctx context.Context, w *models.Wallet) error {
	funds, err := json.Marshal(w.Funds)
	if err != nil {
		return err
	}

	var (
		lastID     sql.NullString
		lastResult sql.NullString
	)
	if w.LastExecutedCommandResult != nil {
		data, err := models.MarshalResult(w.LastExecutedCommandResult)
		if err != nil {
			return err
		}
		lastID = sql.NullString{String: w.LastExecutedCommandResult.Header().ID, Valid: true}
		lastResult = sql.NullString{String: string(data), Valid: true}
	}

	now := r.clock.Now()
	if w.Version == 0 {
		return r.insert(ctx, w, string(funds), lastID, lastResult, now)
	}
	return r.update(ctx, w, string(funds), lastID, lastResult, now)
}

func (r *WalletRepository) insert(ctx context.Context, w *models.Wallet, funds string, lastID, lastResult sql.NullString, now time.Time) error {
	const query = `
		INSERT INTO wallets (id, owner_id, version, funds, last_executed_command_id, last_executed_command_result, created_at, updated_at)
		VALUES ($1, $2, 1, $3, $4, $5, $6, $6)
	`

	id := w.ID
	if id == "" {
		id = uuid.NewString()
	}

	args := []any{id, w.OwnerID, funds, lastID, lastResult, now}
	_, err := r.executor(ctx).ExecContext(ctx, query, args...)
	logQuery(query, args, id, err)
	if err != nil {
		return conflictOr(err)
	}

	w.ID = id
	w.Version = 1
	w.CreatedAt = now
	w.UpdatedAt = now
	return nil
}

func (r *WalletRepository) update(ctx context.Context, w *models.Wallet, funds string, lastID, lastResult sql.NullString, now time.Time) error {
	const query = `
		UPDATE wallets
		SET version = version + 1, funds = $3, last_executed_command_id = $4,
			last_executed_command_result = $5, updated_at = $6
		WHERE id = $1 AND version = $2
	`

	args := []any{w.ID, w.Version, funds, lastID, lastResult, now}
	res, err := r.executor(ctx).ExecContext(ctx, query, args...)
	if err != nil {
		logQuery(query, args, nil, err)
		return err
	}

	affected, err := res.RowsAffected()
	logQuery(query, args, affected, err)
	if err != nil {
		return err
	}
	if err := expectOneRow(affected); err != nil {
		return err
	}

	w.Version++
	w.UpdatedAt = now
	return nil
}

func (r *WalletRepository) executor(ctx context.Context) sqlx.ExtContext {
	return executor(ctx, r.db, r.txGetter)
}
