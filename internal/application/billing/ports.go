package billing

import (
	"context"
	"time"

	"github.com/jhoicas/gestoria-api/internal/domain/entity"
	"github.com/jhoicas/gestoria-api/internal/domain/finance"
	"github.com/jhoicas/gestoria-api/internal/domain/repository"
)

// PaymentTxRunner ejecuta una función dentro de una transacción con los repos de expedientes y pagos.
type PaymentTxRunner interface {
	RunPayment(ctx context.Context, fn func(
		caseRepo repository.CaseFileRepository,
		paymentRepo repository.PaymentRepository,
	) error) error
}

// ReceiptPDFGenerator genera el recibo imprimible de un pago.
type ReceiptPDFGenerator interface {
	GenerateReceiptPDF(ctx context.Context, r *Receipt) ([]byte, error)
}

// Receipt datos del recibo de un pago.
type Receipt struct {
	Number   string
	IssuedAt time.Time
	Agency   entity.AgencySettings
	Client   *entity.Client
	CaseFile *entity.CaseFileView
	Payment  *entity.Payment
	// Totals del expediente tras todos sus pagos; Payment.Amount es el importe de este recibo.
	Totals finance.Totals
}
