package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/mousto-pos/internal/application/inventory"
	"github.com/jhoicas/mousto-pos/internal/domain"
	"github.com/jhoicas/mousto-pos/internal/domain/repository"
)

var _ inventory.TxRunner = (*TxRunner)(nil)

// lock_not_available: SET LOCAL lock_timeout expirado esperando un SELECT ... FOR UPDATE.
const codeLockNotAvailable = "55P03"

// TxRunner ejecuta el motor de stock y el checkout en una transacción READ COMMITTED.
// Los productos se bloquean fila a fila; lockTimeout acota la espera entre dos cajas
// que venden el mismo producto a la vez.
type TxRunner struct {
	pool        *pgxpool.Pool
	lockTimeout time.Duration
}

// NewTxRunner construye el runner. lockTimeout <= 0 espera indefinidamente.
func NewTxRunner(pool *pgxpool.Pool, lockTimeout time.Duration) *TxRunner {
	return &TxRunner{pool: pool, lockTimeout: lockTimeout}
}

// Run abre la transacción, pasa a fn los repositorios atados a ella y hace Commit si fn no falla.
// Un bloqueo no obtenido a tiempo se devuelve como domain.ErrConflict.
func (r *TxRunner) Run(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	movRepo repository.StockMovementRepository,
	saleRepo repository.SaleRepository,
) error) error {
	err := pgx.BeginTxFunc(ctx, r.pool, pgx.TxOptions{IsoLevel: pgx.ReadCommitted}, func(tx pgx.Tx) error {
		if r.lockTimeout > 0 {
			// SET no admite parámetros: el valor es un entero generado aquí.
			stmt := fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", r.lockTimeout.Milliseconds())
			if _, err := tx.Exec(ctx, stmt); err != nil {
				return fmt.Errorf("set lock_timeout: %w", err)
			}
		}
		return fn(NewProductRepository(tx), NewStockMovementRepository(tx), NewSaleRepository(tx))
	})
	if isLockTimeout(err) {
		return fmt.Errorf("%w: produit en cours de modification, réessayez", domain.ErrConflict)
	}
	return err
}

func isLockTimeout(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == codeLockNotAvailable
}
