package database

import (
	"context"
	"database/sql"
	"fmt"
)

// WithTx runs fn inside a transaction. The transaction is rolled back when
// fn returns an error and committed otherwise.
func (db *Database) WithTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := db.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback failed: %v)", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// WithLockedTx serializes writers of one entity kind. It holds an in-process
// mutex for the duration of the transaction and, on postgres, also takes a
// transaction-scoped advisory lock so separate processes are serialized too.
func (db *Database) WithLockedTx(ctx context.Context, name string, fn func(tx *sql.Tx) error) error {
	l := db.lockFor(name)
	l.Lock()
	defer l.Unlock()

	return db.WithTx(ctx, func(tx *sql.Tx) error {
		if db.Dialect == DialectPostgres {
			if _, err := tx.ExecContext(ctx, "SELECT pg_advisory_xact_lock(hashtext($1))", name); err != nil {
				return fmt.Errorf("failed to acquire advisory lock for %s: %w", name, err)
			}
		}
		return fn(tx)
	})
}
