package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/jmoiron/sqlx"
)

type TxOptions struct {
	Isolation  sql.IsolationLevel
	ReadOnly   bool
	MaxRetries int
	// Backoff is the first wait between attempts; it doubles each retry.
	Backoff time.Duration
}

func DefaultTxOptions() TxOptions {
	return TxOptions{
		Isolation:  sql.LevelReadCommitted,
		MaxRetries: 3,
		Backoff:    50 * time.Millisecond,
	}
}

// WithTransaction runs fn inside one transaction: commit on nil, rollback on
// error or panic. The connection goes back to the pool either way.
func WithTransaction(ctx context.Context, db *sqlx.DB, opts TxOptions, fn func(*sqlx.Tx) error) (err error) {
	tx, err := db.BeginTxx(ctx, &sql.TxOptions{Isolation: opts.Isolation, ReadOnly: opts.ReadOnly})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err = fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			return fmt.Errorf("rollback transaction: %v: %w", rbErr, err)
		}
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// WithRetry reruns the whole transaction when it fails with a deadlock,
// serialization failure or lock timeout. fn must not have effects outside
// the transaction.
func WithRetry(ctx context.Context, db *sqlx.DB, opts TxOptions, fn func(*sqlx.Tx) error) error {
	wait := opts.Backoff
	if wait <= 0 {
		wait = DefaultTxOptions().Backoff
	}

	for attempt := 0; ; attempt++ {
		err := WithTransaction(ctx, db, opts, fn)
		if err == nil || !IsRetryable(err) {
			return err
		}
		if attempt >= opts.MaxRetries {
			return fmt.Errorf("transaction failed after %d attempts: %w", attempt+1, err)
		}

		if err := sleep(ctx, wait+time.Duration(rand.Int63n(int64(wait/4)+1))); err != nil {
			return err
		}
		wait *= 2
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
