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

// WalletProcessRepository stores wallet processes with optimistic concurrency.
type WalletProcessRepository struct {
	db       *sqlx.DB
	txGetter func(ctx context.Context) *sqlx.Tx
	clock    clock.Clock
}

func NewWalletProcessRepository(db *sqlx.DB, txGetter func(ctx context.Context) *sqlx.Tx, clk clock.Clock) *WalletProcessRepository {
	return &WalletProcessRepository{db: db, txGetter: txGetter, clock: clk}
}

type walletProcessRow struct {
	ID            string    `db:"id"`
	WalletID      string    `db:"wallet_id"`
	CommandID     string    `db:"command_id"`
	Command       []byte    `db:"command"`
	CommandResult []byte    `db:"command_result"`
	StepHistory   []byte    `db:"step_history"`
	Completed     bool      `db:"completed"`
	Failed        bool      `db:"failed"`
	FailureReason string    `db:"failure_reason"`
	Version       int       `db:"version"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

func (row walletProcessRow) toModel() (*models.WalletProcess, error) {
	cmd, err := models.UnmarshalCommand(row.Command)
	if err != nil {
		return nil, err
	}

	p := &models.WalletProcess{
		ID:            row.ID,
		WalletID:      row.WalletID,
		CommandID:     row.CommandID,
		Command:       cmd,
		StepHistory:   []models.StepExecution{},
		Completed:     row.Completed,
		Failed:        row.Failed,
		FailureReason: row.FailureReason,
		Version:       row.Version,
		CreatedAt:     row.CreatedAt.UTC(),
		UpdatedAt:     row.UpdatedAt.UTC(),
	}
	if len(row.CommandResult) > 0 {
		if p.Result, err = models.UnmarshalResult(row.CommandResult); err != nil {
			return nil, err
		}
	}
	if len(row.StepHistory) > 0 {
		if err := json.Unmarshal(row.StepHistory, &p.StepHistory); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func toProcessModels(rows []walletProcessRow) ([]*models.WalletProcess, error) {
	processes := make([]*models.WalletProcess, 0, len(rows))
	for _, row := range rows {
		p, err := row.toModel()
		if err != nil {
			return nil, err
		}
		processes = append(processes, p)
	}
	return processes, nil
}

const walletProcessColumns = `id, wallet_id, command_id, command, command_result, step_history, completed, failed, failure_reason, version, created_at, updated_at`

// FindByWalletIDAndCommandID returns the process or nil when it does not exist.
func (r *WalletProcessRepository) FindByWalletIDAndCommandID(ctx context.Context, walletID, commandID string) (*models.WalletProcess, error) {
	query := `SELECT ` + walletProcessColumns + ` FROM wallet_processes WHERE wallet_id = $1 AND command_id = $2`

	var row walletProcessRow
	err := sqlx.GetContext(ctx, r.executor(ctx), &row, query, walletID, commandID)
	logQuery(query, []any{walletID, commandID}, row.ID, err)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return row.toModel()
}

// ExistsUnfinishedByWalletIDExceptCommand reports whether the wallet has an
// unfinished, non-failed process for a command other than commandID.
func (r *WalletProcessRepository) ExistsUnfinishedByWalletIDExceptCommand(ctx context.Context, walletID, commandID string) (bool, error) {
	const query = `
		SELECT EXISTS (
			SELECT 1 FROM wallet_processes
			WHERE wallet_id = $1 AND completed = FALSE AND failed = FALSE AND command_id <> $2
		)
	`

	var exists bool
	err := sqlx.GetContext(ctx, r.executor(ctx), &exists, query, walletID, commandID)
	logQuery(query, []any{walletID, commandID}, exists, err)

	return exists, err
}

// FindAllUnfinishedCreatedBefore returns unfinished, non-failed processes
// created before the given time, oldest first.
func (r *WalletProcessRepository) FindAllUnfinishedCreatedBefore(ctx context.Context, before time.Time) ([]*models.WalletProcess, error) {
	query := `
		SELECT ` + walletProcessColumns + `
		FROM wallet_processes
		WHERE created_at < $1 AND completed = FALSE AND failed = FALSE
		ORDER BY created_at
	`

	var rows []walletProcessRow
	err := sqlx.SelectContext(ctx, r.executor(ctx), &rows, query, before)
	logQuery(query, []any{before}, len(rows), err)
	if err != nil {
		return nil, err
	}
	return toProcessModels(rows)
}

// Save inserts a new process (Version 0) or updates an existing one when its
// version still matches. A lost race returns models.ErrConflict.
func (r *WalletProcessRepository) Save(ctx context.Context, p *models.WalletProcess) error {
	cmd, err := models.MarshalCommand(p.Command)
	if err != nil {
		return err
	}
	history, err := p.StepHistoryJSON()
	if err != nil {
		return err
	}
	var result sql.NullString
	if p.Result != nil {
		data, err := models.MarshalResult(p.Result)
		if err != nil {
			return err
		}
		result = sql.NullString{String: string(data), Valid: true}
	}

	now := r.clock.Now()
	if p.Version == 0 {
		return r.insert(ctx, p, string(cmd), result, string(history), now)
	}
	return r.update(ctx, p, result, string(history), now)
}

func (r *WalletProcessRepository) insert(ctx context.Context, p *models.WalletProcess, cmd string, result sql.NullString, history string, now time.Time) error {
	const query = `
		INSERT INTO wallet_processes (id, wallet_id, command_id, command, command_result, step_history,
			completed, failed, failure_reason, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 1, $10, $10)
	`

	id := p.ID
	if id == "" {
		id = uuid.NewString()
	}

	args := []any{id, p.WalletID, p.CommandID, cmd, result, history, p.Completed, p.Failed, p.FailureReason, now}
	_, err := r.executor(ctx).ExecContext(ctx, query, args...)
	logQuery(query, args, id, err)
	if err != nil {
		return conflictOr(err)
	}

	p.ID = id
	p.Version = 1
	p.CreatedAt = now
	p.UpdatedAt = now
	return nil
}

func (r *WalletProcessRepository) update(ctx context.Context, p *models.WalletProcess, result sql.NullString, history string, now time.Time) error {
	const query = `
		UPDATE wallet_processes
		SET version = version + 1, command_result = $3, step_history = $4, completed = $5,
			failed = $6, failure_reason = $7, updated_at = $8
		WHERE id = $1 AND version = $2
	`

	args := []any{p.ID, p.Version, result, history, p.Completed, p.Failed, p.FailureReason, now}
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

	p.Version++
	p.UpdatedAt = now
	return nil
}

func (r *WalletProcessRepository) executor(ctx context.Context) sqlx.ExtContext {
	return executor(ctx, r.db, r.txGetter)
}
