// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/mangaverse/internal/platform/dberr"
)

// # Transaction Boundary

// Transactor runs a unit of work inside a single database transaction.
//
// Repositories obtain the active transaction through [Conn], so a service can
// group several repository calls (a chapter write plus the manga recompute)
// into one atomic commit without the repositories knowing about each other.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Querier is the subset of pgx shared by [pgxpool.Pool] and [pgx.Tx].
type Querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error)
}

type txKey struct{}

// TxManager implements [Transactor] on top of a pgx pool.
type TxManager struct {
	pool *pgxpool.Pool
}

// NewTxManager constructs a [TxManager].
func NewTxManager(pool *pgxpool.Pool) *TxManager {
	return &TxManager{pool: pool}
}

// WithinTx begins a transaction, stores it in the context passed to fn, and
// commits when fn returns nil. Nested calls join the outer transaction.
// Begin and commit failures are classified through [dberr.Wrap], so an
// unreachable database surfaces as apperr.Unavailable.
func (manager *TxManager) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return fn(ctx)
	}

	transaction, err := manager.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return dberr.Wrap(err, "Transaction", "begin transaction")
	}

	// Rollback after a successful commit is a no-op.
	defer func() { _ = transaction.Rollback(ctx) }()

	if err := fn(context.WithValue(ctx, txKey{}, transaction)); err != nil {
		return err
	}

	if err := transaction.Commit(ctx); err != nil {
		return dberr.Wrap(err, "Transaction", "commit transaction")
	}

	return nil
}

// Conn returns the transaction bound to ctx, or the pool when none is active.
func Conn(ctx context.Context, pool *pgxpool.Pool) Querier {
	if transaction, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return transaction
	}
	return pool
}
