// Package sqlite provides the transaction manager backing the
// application layer's TransactionManager port.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/hirestack/ats/internal/application/port"
)

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

const (
	txKey      contextKey = "tx"
	txHooksKey contextKey = "txHooks"
)

// txHooks collects functions to run after the outermost commit.
type txHooks struct {
	fns []func()
}

// DB wraps sql.DB and implements TransactionManager
type DB struct {
	*sql.DB
	logger *zap.Logger
}

// NewDB creates a new database wrapper
func NewDB(sqlDB *sql.DB, logger *zap.Logger) *DB {
	return &DB{
		DB:     sqlDB,
		logger: logger,
	}
}

// WithTransaction runs fn inside a transaction. Nested calls reuse the
// transaction already in the context, so the engine can run inside a
// service-level transaction without deadlocking the sqlite writer.
func (db *DB) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if tx := extractTx(ctx); tx != nil {
		return fn(ctx)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		db.logger.Error("Failed to begin transaction", zap.Error(err))
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	hooks := &txHooks{}
	txCtx := context.WithValue(ctx, txKey, tx)
	txCtx = context.WithValue(txCtx, txHooksKey, hooks)

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			db.logger.Error("Transaction panicked, rolled back", zap.Any("panic", p))
			panic(p)
		}
	}()

	if err := fn(txCtx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			db.logger.Error("Failed to rollback transaction", zap.Error(rbErr))
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		db.logger.Error("Failed to commit transaction", zap.Error(err))
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	for _, hook := range hooks.fns {
		hook()
	}
	return nil
}

// AfterCommit defers fn until the transaction on ctx commits. Without a
// transaction in flight fn runs right away.
func (db *DB) AfterCommit(ctx context.Context, fn func()) {
	if hooks, ok := ctx.Value(txHooksKey).(*txHooks); ok {
		hooks.fns = append(hooks.fns, fn)
		return
	}
	fn()
}

// extractTx retrieves transaction from context if present
func extractTx(ctx context.Context) *sql.Tx {
	if tx, ok := ctx.Value(txKey).(*sql.Tx); ok {
		return tx
	}
	return nil
}

// Verify interface compliance
var _ port.TransactionManager = (*DB)(nil)
