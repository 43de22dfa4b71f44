package testutil

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/missionctl/internal/db"
)

// ErrInjected is returned by FailingUoW when no Err is set.
var ErrInjected = errors.New("injected write failure")

// FailingUoW runs transactions against DB but fails the FailOn-th write
// (1-based) of each transaction, so callers can check that a multi-row
// store operation leaves nothing behind. Reads are never failed.
type FailingUoW struct {
	DB     *sql.DB
	FailOn int
	Err    error
}

func (u *FailingUoW) WithinTx(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	tx, err := u.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	failErr := u.Err
	if failErr == nil {
		failErr = ErrInjected
	}
	if err := fn(ctx, &failingTx{DBTX: tx, failOn: u.FailOn, err: failErr}); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// failingTx counts writes within one transaction, which runs on a single
// goroutine.
type failingTx struct {
	db.DBTX
	writes int
	failOn int
	err    error
}

func (f *failingTx) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	f.writes++
	if f.writes == f.failOn {
		return nil, f.err
	}
	return f.DBTX.ExecContext(ctx, query, args...)
}
