package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/gestoria-api/internal/application/billing"
	"github.com/jhoicas/gestoria-api/internal/application/casefile"
	"github.com/jhoicas/gestoria-api/internal/domain/repository"
)

var (
	_ casefile.TxRunner       = (*TxRunner)(nil)
	_ billing.PaymentTxRunner = (*TxRunner)(nil)
)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunCaseFile inicia una transacción, ejecuta fn con los repos del expediente atados a la tx y hace Commit o Rollback.
func (r *TxRunner) RunCaseFile(ctx context.Context, fn func(
	caseRepo repository.CaseFileRepository,
	docRepo repository.CaseDocumentRepository,
	historyRepo repository.StatusHistoryRepository,
) error) error {
	return r.run(ctx, func(tx pgx.Tx) error {
		return fn(NewCaseFileRepository(tx), NewCaseDocumentRepository(tx), NewStatusHistoryRepository(tx))
	})
}

// RunPayment transacción para registrar pagos (lee el expediente y crea el pago).
func (r *TxRunner) RunPayment(ctx context.Context, fn func(
	caseRepo repository.CaseFileRepository,
	paymentRepo repository.PaymentRepository,
) error) error {
	return r.run(ctx, func(tx pgx.Tx) error {
		return fn(NewCaseFileRepository(tx), NewPaymentRepository(tx))
	})
}

func (r *TxRunner) run(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
