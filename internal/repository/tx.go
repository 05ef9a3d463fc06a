package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// withTx runs fn inside a transaction, committing on success and rolling back otherwise.
func withTx(ctx context.Context, pool *pgxpool.Pool, fn func(tx pgx.Tx) error) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		// no-op once committed
		_ = tx.Rollback(ctx)
	}()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// lockEvent takes a row lock on the event and returns its capacity and active reservation count.
func lockEvent(ctx context.Context, tx pgx.Tx, eventID string) (capacity, reserved int, err error) {
	err = tx.QueryRow(ctx, `SELECT capacity FROM events WHERE id=$1 FOR UPDATE`, eventID).Scan(&capacity)
	if err != nil {
		return 0, 0, mapPgError(err)
	}
	err = tx.QueryRow(ctx, `
        SELECT COUNT(*) FROM reservations
        WHERE event_id=$1 AND status <> 'CANCELLED'`, eventID).Scan(&reserved)
	if err != nil {
		return 0, 0, fmt.Errorf("count reservations: %w", err)
	}
	return capacity, reserved, nil
}
