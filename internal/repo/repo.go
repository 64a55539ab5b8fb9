// Package repo contains all database access logic for the meetpoint API.
// Each aggregate has its own file with an interface and a Postgres implementation.
// No business logic lives here: only SQL, transactions and type mapping.
package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/pkordes/meetpoint/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, *pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test, giving free
// per-test isolation without any manual cleanup. Begin on a pgx.Tx opens a
// savepoint, so repo-level transactions nest inside the test transaction.
type db interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// scanner is satisfied by both pgx.Row and pgx.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// withTx runs fn inside a transaction. The transaction is committed when fn
// returns nil and rolled back on every other exit path, including panics and
// a canceled ctx: the rollback runs on a context detached from cancellation.
func withTx(ctx context.Context, d db, fn func(tx pgx.Tx) error) error {
	tx, err := d.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	// Rollback after a successful Commit is a no-op returning pgx.ErrTxClosed.
	defer func() { _ = tx.Rollback(context.WithoutCancel(ctx)) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Postgres SQLSTATE codes mapped onto domain errors.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
)

// mapPgError translates constraint violations into domain sentinels, keeping
// the driver error in the chain. No-rows becomes domain.ErrNotFound.
func mapPgError(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case pgUniqueViolation:
		return fmt.Errorf("%w: %s: %w", domain.ErrConflict, pgErr.ConstraintName, err)
	case pgForeignKeyViolation:
		return fmt.Errorf("%w: %s: %w", domain.ErrNotFound, pgErr.ConstraintName, err)
	case pgCheckViolation:
		return fmt.Errorf("%w: %s: %w", domain.ErrValidation, pgErr.ConstraintName, err)
	}
	return err
}
