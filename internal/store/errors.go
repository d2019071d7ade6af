package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

var (
	ErrNotFound   = errors.New("record not found")
	ErrConflict   = errors.New("record conflicts with existing data")
	ErrEmptyOrder = errors.New("order has no line with a positive quantity")

	// ErrDuplicate and ErrMissingReference both match ErrConflict.
	ErrDuplicate        = fmt.Errorf("%w: duplicate key", ErrConflict)
	ErrMissingReference = fmt.Errorf("%w: referenced row does not exist", ErrConflict)
)

// mapError translates driver errors into the package sentinels.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code.Name() {
		case "unique_violation":
			return fmt.Errorf("%w: %s", ErrDuplicate, pqErr.Message)
		case "foreign_key_violation":
			return fmt.Errorf("%w: %s", ErrMissingReference, pqErr.Message)
		}
	}
	return err
}

func withTx(ctx context.Context, db *sqlx.DB, fn func(tx *sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return errors.Join(err, fmt.Errorf("rollback: %w", rbErr))
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// exec runs a delete inside tx and adds the affected rows to the cascade
// under table.
func (c *Cascade) exec(ctx context.Context, tx *sqlx.Tx, table, query string, args ...interface{}) (int64, error) {
	result, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("delete from %s: %w", table, mapError(err))
	}
	n, _ := result.RowsAffected()
	c.Deleted[table] += n
	return n, nil
}
