// Package dbx is the database/sql layer under the storage adapters: the
// DBTX handle repositories are bound to, the transaction runner behind
// Adapter.Transaction, a handle for disconnected adapters and a row-map
// runner for raw statements.
package dbx

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// DBTX is what a repository holds. *sql.DB, *sql.Tx and Closed all satisfy
// it, so one repository serves plain reads and transactional saves alike.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// TxFunc is one unit of work, e.g. the head upsert and version append of a
// versioned save. It must only touch the database through tx.
type TxFunc func(ctx context.Context, tx DBTX) error

// WithTx runs fn inside a transaction on db and commits if fn succeeds.
//
// An error from fn is returned after the rollback, joined with the rollback
// error if that failed too. A panic in fn rolls back and keeps unwinding.
// Begin and commit failures come back wrapped with the step that failed.
func WithTx(ctx context.Context, db *sql.DB, opts *sql.TxOptions, fn TxFunc) error {
	tx, err := db.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}

	finished := false
	defer func() {
		if !finished {
			_ = tx.Rollback()
		}
	}()

	if err := fn(ctx, tx); err != nil {
		finished = true
		// a canceled context has already rolled the transaction back
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			return errors.Join(err, fmt.Errorf("rollback: %w", rbErr))
		}
		return err
	}

	finished = true
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
