package repositories

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/sbilibin2017/super-wallet/internal/clock"
	"github.com/sbilibin2017/super-wallet/internal/models"
)

// ExecutedCommandRepository is the outbox table of applied commands.
type ExecutedCommandRepository struct {
	db       *sqlx.DB
	txGetter func(ctx context.Context) *sqlx.Tx
	clock    clock.Clock
}

func NewExecutedCommandRepository(db *sqlx.DB, txGetter func(ctx context.Context) *sqlx.Tx, clk clock.Clock) *ExecutedCommandRepository {
	return &ExecutedCommandRepository{db: db, txGetter: txGetter, clock: clk}
}

type executedCommandRow struct {
	ID             string    `db:"id"`
	CommandID      string    `db:"command_id"`
	WalletID       string    `db:"wallet_id"`
	CommandResult  []byte    `db:"command_result"`
	WalletSnapshot []byte    `db:"wallet_snapshot"`
	Send           bool      `db:"send"`
	Version        int       `db:"version"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

func (row executedCommandRow) toModel() (*models.ExecutedCommand, error) {
	result, err := models.UnmarshalResult(row.CommandResult)
	if err != nil {
		return nil, err
	}
	var snapshot models.Wallet
	if err := json.Unmarshal(row.WalletSnapshot, &snapshot); err != nil {
		return nil, err
	}

	return &models.ExecutedCommand{
		ID:             row.ID,
		CommandID:      row.CommandID,
		WalletID:       row.WalletID,
		Result:         result,
		WalletSnapshot: &snapshot,
		Send:           row.Send,
		Version:        row.Version,
		CreatedAt:      row.CreatedAt.UTC(),
		UpdatedAt:      row.UpdatedAt.UTC(),
	}, nil
}

// ExistsByWalletIDAndCommandID reports whether the command was already recorded for the wallet.
func (r *ExecutedCommandRepository) ExistsByWalletIDAndCommandID(ctx context.Context, walletID, commandID string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM executed_commands WHERE wallet_id = $1 AND command_id = $2)`

	var exists bool
	err := sqlx.GetContext(ctx, r.executor(ctx), &exists, query, walletID, commandID)
	logQuery(query, []any{walletID, commandID}, exists, err)

	return exists, err
}

// ExistsUnsentByWalletIDExceptCommand reports whether the wallet has an unsent
// entry for a command other than commandID.
func (r *ExecutedCommandRepository) ExistsUnsentByWalletIDExceptCommand(ctx context.Context, walletID, commandID string) (bool, error) {
	const query = `
		SELECT EXISTS (
			SELECT 1 FROM executed_commands
			WHERE wallet_id = $1 AND send = FALSE AND command_id <> $2
		)
	`

	var exists bool
	err := sqlx.GetContext(ctx, r.executor(ctx), &exists, query, walletID, commandID)
	logQuery(query, []any{walletID, commandID}, exists, err)

	return exists, err
}

// FindAllUnsentCreatedBefore returns up to limit unsent entries created
// before the given time, in creation order.
func (r *ExecutedCommandRepository) FindAllUnsentCreatedBefore(ctx context.Context, before time.Time, limit int) ([]*models.ExecutedCommand, error) {
	const query = `
		SELECT id, command_id, wallet_id, command_result, wallet_snapshot, send, version, created_at, updated_at
		FROM executed_commands
		WHERE created_at < $1 AND send = FALSE
		ORDER BY created_at, id
		LIMIT $2
	`

	var rows []executedCommandRow
	err := sqlx.SelectContext(ctx, r.executor(ctx), &rows, query, before, limit)
	logQuery(query, []any{before, limit}, len(rows), err)
	if err != nil {
		return nil, err
	}

	commands := make([]*models.ExecutedCommand, 0, len(rows))
	for _, row := range rows {
		c, err := row.toModel()
		if err != nil {
			return nil, err
		}
		commands = append(commands, c)
	}
	return commands, nil
}

// Save inserts a new entry (Version 0) or updates an existing one when its
// version still matches. A duplicate (wallet, command) pair or a lost race
// returns models.ErrConflict.
func (r *ExecutedCommandRepository) Save(ctx context.Context, c *models.ExecutedCommand) error {
	now := r.clock.Now()
	if c.Version == 0 {
		return r.insert(ctx, c, now)
	}
	return r.update(ctx, c, now)
}

func (r *ExecutedCommandRepository) insert(ctx context.Context, c *models.ExecutedCommand, now time.Time) error {
	const query = `
		INSERT INTO executed_commands (id, command_id, wallet_id, command_result, wallet_snapshot, send, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, 1, $7, $7)
	`

	result, err := models.MarshalResult(c.Result)
	if err != nil {
		return err
	}
	snapshot, err := json.Marshal(c.WalletSnapshot)
	if err != nil {
		return err
	}

	id := c.ID
	if id == "" {
		id = uuid.NewString()
	}

	args := []any{id, c.CommandID, c.WalletID, string(result), string(snapshot), c.Send, now}
	_, err = r.executor(ctx).ExecContext(ctx, query, args...)
	logQuery(query, []any{id, c.CommandID, c.WalletID, c.Send, now}, id, err)
	if err != nil {
		return conflictOr(err)
	}

	c.ID = id
	c.Version = 1
	c.CreatedAt = now
	c.UpdatedAt = now
	return nil
}

func (r *ExecutedCommandRepository) update(ctx context.Context, c *models.ExecutedCommand, now time.Time) error {
	const query = `
		UPDATE executed_commands
		SET version = version + 1, send = $3, updated_at = $4
		WHERE id = $1 AND version = $2
	`

	args := []any{c.ID, c.Version, c.Send, now}
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

	c.Version++
	c.UpdatedAt = now
	return nil
}

func (r *ExecutedCommandRepository) executor(ctx context.Context) sqlx.ExtContext {
	return executor(ctx, r.db, r.txGetter)
}
