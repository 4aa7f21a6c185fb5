package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jdrueda/slotstock-api/internal/application/kardex"
	"github.com/jdrueda/slotstock-api/internal/domain"
)

// Ensure TxRunner implements kardex.TxRunner.
var _ kardex.TxRunner = (*TxRunner)(nil)

const txMaxRetries = 3

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
// Los fallos de serialización (40001) y deadlocks (40P01) se reintentan con
// backoff en una tx nueva; al agotar los reintentos devuelve
// domain.ErrConcurrencyConflict.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(tx kardex.Repos) error) error {
	return runWithRetries(ctx, func() error {
		return r.runOnce(ctx, fn)
	})
}

// runWithRetries ejecuta attempt hasta txMaxRetries veces. Solo los fallos de
// serialización se reintentan, con backoff lineal (attempt*50ms) sensible al
// contexto; cualquier otro error se devuelve en el acto. Al agotar los
// reintentos envuelve el último fallo en domain.ErrConcurrencyConflict.
func runWithRetries(ctx context.Context, attempt func() error) error {
	var lastErr error
	for i := 0; i < txMaxRetries; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(i) * 50 * time.Millisecond):
			}
		}
		err := attempt()
		if err == nil {
			return nil
		}
		if !isSerializationFailure(err) {
			return err
		}
		lastErr = err
	}
	return fmt.Errorf("%w: %v", domain.ErrConcurrencyConflict, lastErr)
}

func (r *TxRunner) runOnce(ctx context.Context, fn func(tx kardex.Repos) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	repos := kardex.Repos{
		Movements: NewMovementRepository(tx),
		Balances:  NewBalanceRepository(tx),
		Accounts:  NewAccountRepository(tx),
		Profiles:  NewProfileRepository(tx),
		Sales:     NewSaleRepository(tx),
		Suppliers: NewSupplierRepository(tx),
	}
	if err := fn(repos); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
