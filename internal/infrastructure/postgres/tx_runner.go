package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/mfg-console/internal/application/inventory"
	"github.com/jhoicas/mfg-console/internal/domain"
)

var _ inventory.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool        *pgxpool.Pool
	lockTimeout time.Duration
}

// NewTxRunner construye el runner con el pool. lockTimeout acota la espera por SELECT ... FOR UPDATE.
func NewTxRunner(pool *pgxpool.Pool, lockTimeout time.Duration) *TxRunner {
	return &TxRunner{pool: pool, lockTimeout: lockTimeout}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
// Los errores de concurrencia (serialización, deadlock, lock timeout, cancelación) salen como ConflictError.
func (r *TxRunner) Run(ctx context.Context, fn func(tx inventory.Repos) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return conflictOr("begin", fmt.Errorf("begin transaction: %w", err))
	}
	defer func() { _ = tx.Rollback(context.WithoutCancel(ctx)) }()

	if r.lockTimeout > 0 {
		if _, err := tx.Exec(ctx, fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", r.lockTimeout.Milliseconds())); err != nil {
			return conflictOr("lock_timeout", fmt.Errorf("set lock_timeout: %w", err))
		}
	}

	if err := fn(NewRepos(tx)); err != nil {
		return conflictOr("tx", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return conflictOr("commit", fmt.Errorf("commit transaction: %w", err))
	}
	return nil
}

func conflictOr(op string, err error) error {
	if isConflict(err) {
		return &domain.ConflictError{Op: op, Err: err}
	}
	return err
}
