package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// inTx runs fn inside a transaction, committing on success and rolling back otherwise.
func inTx(ctx context.Context, pool db, fn func(tx pgx.Tx) error) (err error) {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}
