package billing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/gestoria-api/internal/domain"
	"github.com/jhoicas/gestoria-api/internal/domain/entity"
	"github.com/jhoicas/gestoria-api/internal/domain/finance"
	"github.com/jhoicas/gestoria-api/internal/domain/repository"
)

// ReceiptUseCase genera el recibo (PDF) de un pago.
type ReceiptUseCase struct {
	payments  repository.PaymentRepository
	caseFiles repository.CaseFileRepository
	clients   repository.ClientRepository
	settings  repository.SettingsRepository
	generator ReceiptPDFGenerator
	now       func() time.Time
}

// NewReceiptUseCase construye el caso de uso inyectando todas sus dependencias.
func NewReceiptUseCase(
	payments repository.PaymentRepository,
	caseFiles repository.CaseFileRepository,
	clients repository.ClientRepository,
	settings repository.SettingsRepository,
	generator ReceiptPDFGenerator,
) *ReceiptUseCase {
	return &ReceiptUseCase{
		payments:  payments,
		caseFiles: caseFiles,
		clients:   clients,
		settings:  settings,
		generator: generator,
		now:       time.Now,
	}
}

// ReceiptNumber número del recibo: número de expediente + "/" + 8 primeros caracteres del id del pago.
func ReceiptNumber(caseFileNumber, paymentID string) string {
	short := paymentID
	if len(short) > 8 {
		short = short[:8]
	}
	return caseFileNumber + "/" + short
}

// Build reúne los datos del recibo sin renderizarlo.
func (uc *ReceiptUseCase) Build(ctx context.Context, paymentID string) (*Receipt, error) {
	// ── 1. Pago ───────────────────────────────────────────────────────────────
	p, err := uc.payments.GetByID(ctx, paymentID)
	if err != nil {
		return nil, fmt.Errorf("recibo: obtener pago: %w", err)
	}
	if p == nil {
		return nil, fmt.Errorf("pago %s: %w", paymentID, domain.ErrNotFound)
	}

	// ── 2. Expediente y cliente ───────────────────────────────────────────────
	cf, err := uc.caseFiles.GetByID(ctx, p.CaseFileID)
	if err != nil {
		return nil, fmt.Errorf("recibo: obtener expediente: %w", err)
	}
	if cf == nil {
		return nil, fmt.Errorf("expediente %s: %w", p.CaseFileID, domain.ErrNotFound)
	}
	client, err := uc.clients.GetByID(ctx, p.ClientID)
	if err != nil {
		return nil, fmt.Errorf("recibo: obtener cliente: %w", err)
	}
	if client == nil {
		return nil, fmt.Errorf("cliente %s: %w", p.ClientID, domain.ErrNotFound)
	}

	// ── 3. Cabecera de la gestoría (opcional) ─────────────────────────────────
	agency := entity.AgencySettings{NumberingFormat: entity.DefaultNumberingFormat}
	if st, err := uc.settings.Get(ctx); err != nil {
		return nil, fmt.Errorf("recibo: configuración: %w", err)
	} else if st != nil {
		agency = *st
	}

	// ── 4. Totales del expediente ─────────────────────────────────────────────
	all, _, err := uc.payments.List(ctx, repository.PaymentFilter{CaseFileID: cf.ID})
	if err != nil {
		return nil, fmt.Errorf("recibo: pagos del expediente: %w", err)
	}

	return &Receipt{
		Number:   ReceiptNumber(cf.Number, p.ID),
		IssuedAt: uc.now(),
		Agency:   agency,
		Client:   client,
		CaseFile: cf,
		Payment:  p,
		Totals:   finance.Rollup(cf.AgreedPrice, paymentAmounts(all)),
	}, nil
}

// Download genera el PDF del recibo y un nombre de fichero.
func (uc *ReceiptUseCase) Download(ctx context.Context, paymentID string) (pdfBytes []byte, filename string, err error) {
	r, err := uc.Build(ctx, paymentID)
	if err != nil {
		return nil, "", err
	}
	pdfBytes, err = uc.generator.GenerateReceiptPDF(ctx, r)
	if err != nil {
		return nil, "", fmt.Errorf("recibo: generación fallida: %w", err)
	}
	filename = "recibo_" + strings.ReplaceAll(r.Number, "/", "-") + ".pdf"
	return pdfBytes, filename, nil
}
