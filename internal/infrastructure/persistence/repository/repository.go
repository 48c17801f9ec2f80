// Package repository contains the sqlite implementations of the
// persistence ports. Queries pick up an in-flight transaction from the
// context when the transaction manager put one there.
package repository

import (
	"context"
	"database/sql"
)

type contextKey string

// executor interface covers both *sql.DB and *sql.Tx
type executor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// getExecutor returns the context's transaction when present, the bare
// connection otherwise.
func getExecutor(ctx context.Context, db *sql.DB) executor {
	if tx, ok := ctx.Value(contextKey("tx")).(*sql.Tx); ok {
		return tx
	}
	return db
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}
