package composables

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/arkiflo/arkiflo/pkg/constants"
)

var (
	ErrNoTx   = errors.New("no transaction found in context")
	ErrNoPool = errors.New("no database pool found in context")
)

// UseTx returns the transaction opened by the transaction middleware.
func UseTx(ctx context.Context) (pgx.Tx, error) {
	tx, ok := ctx.Value(constants.TxKey).(pgx.Tx)
	if !ok {
		return nil, ErrNoTx
	}
	return tx, nil
}

// WithTx returns a new context carrying the transaction.
func WithTx(ctx context.Context, tx pgx.Tx) context.Context {
	return context.WithValue(ctx, constants.TxKey, tx)
}

// UsePool returns the application database pool.
func UsePool(ctx context.Context) (*pgxpool.Pool, error) {
	pool, ok := ctx.Value(constants.PoolKey).(*pgxpool.Pool)
	if !ok {
		return nil, ErrNoPool
	}
	return pool, nil
}

// WithPool returns a new context carrying the database pool.
func WithPool(ctx context.Context, pool *pgxpool.Pool) context.Context {
	return context.WithValue(ctx, constants.PoolKey, pool)
}

// InTx runs fn inside the context transaction when one is present, and
// otherwise opens a new transaction on the pool for the duration of fn.
// Contexts carrying neither (service tests against fake repositories) run
// fn directly.
func InTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	if _, err := UseTx(ctx); err == nil {
		return fn(ctx)
	}
	pool, err := UsePool(ctx)
	if err != nil {
		return fn(ctx)
	}
	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()
	if err := fn(WithTx(ctx, tx)); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
