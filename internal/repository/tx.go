package repository

import (
	"context"
	"database/sql"
)

type txKey struct{}

// withTx runs fn inside a transaction carried on the context.  When the
// context already holds a transaction, fn joins it instead of opening a
// nested one; the outermost caller commits or rolls back.  Repositories
// route every statement through execer so the same code path serves
// both transactional and plain calls.
func withTx(ctx context.Context, db *sql.DB, fn func(ctx context.Context) error) error {
	if txFromContext(ctx) != nil {
		return fn(ctx)
	}
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	txCtx := context.WithValue(ctx, txKey{}, tx)
	if err := fn(txCtx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func txFromContext(ctx context.Context) *sql.Tx {
	tx, _ := ctx.Value(txKey{}).(*sql.Tx)
	return tx
}

// execer is the subset of *sql.DB and *sql.Tx the repositories use.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// conn returns the context's transaction when present, else the pool.
func conn(ctx context.Context, db *sql.DB) execer {
	if tx := txFromContext(ctx); tx != nil {
		return tx
	}
	return db
}
