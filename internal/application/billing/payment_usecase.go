// Package billing gestiona pagos, totales pagado/pendiente y recibos.
package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/gestoria-api/internal/application/dto"
	"github.com/jhoicas/gestoria-api/internal/domain"
	"github.com/jhoicas/gestoria-api/internal/domain/entity"
	"github.com/jhoicas/gestoria-api/internal/domain/finance"
	"github.com/jhoicas/gestoria-api/internal/domain/repository"
)

// PaymentUseCase casos de uso de pagos y totales.
type PaymentUseCase struct {
	tx        PaymentTxRunner
	payments  repository.PaymentRepository
	caseFiles repository.CaseFileRepository
	clients   repository.ClientRepository
	now       func() time.Time
}

// NewPaymentUseCase construye el caso de uso.
func NewPaymentUseCase(
	tx PaymentTxRunner,
	payments repository.PaymentRepository,
	caseFiles repository.CaseFileRepository,
	clients repository.ClientRepository,
) *PaymentUseCase {
	return &PaymentUseCase{
		tx:        tx,
		payments:  payments,
		caseFiles: caseFiles,
		clients:   clients,
		now:       time.Now,
	}
}

// WithClock sustituye el reloj (tests).
func (uc *PaymentUseCase) WithClock(now func() time.Time) *PaymentUseCase {
	uc.now = now
	return uc
}

// Create registra un pago. El cliente se copia del expediente dentro de la misma transacción.
func (uc *PaymentUseCase) Create(ctx context.Context, in dto.CreatePaymentRequest) (*dto.PaymentResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	if !in.Amount.IsPositive() {
		return nil, fmt.Errorf("el importe debe ser mayor que cero: %w", domain.ErrInvalidInput)
	}
	method := entity.PaymentMethod(in.Method)
	if method != "" && !entity.ValidPaymentMethod(method) {
		return nil, fmt.Errorf("método de pago %q: %w", in.Method, domain.ErrInvalidInput)
	}
	now := uc.now()
	paidOn := dto.Today(now)
	if d, err := dto.ParseDate(in.PaidOn); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	} else if d != nil {
		paidOn = *d
	}

	p := &entity.Payment{
		ID:         uuid.New().String(),
		CaseFileID: in.CaseFileID,
		Amount:     in.Amount,
		PaidOn:     paidOn,
		Method:     method,
		Concept:    in.Concept,
		Notes:      in.Notes,
		CreatedAt:  now,
	}
	err := uc.tx.RunPayment(ctx, func(caseRepo repository.CaseFileRepository, paymentRepo repository.PaymentRepository) error {
		cf, err := caseRepo.GetByID(ctx, in.CaseFileID)
		if err != nil {
			return fmt.Errorf("obtener expediente: %w", err)
		}
		if cf == nil {
			return fmt.Errorf("expediente %s: %w", in.CaseFileID, domain.ErrNotFound)
		}
		p.ClientID = cf.ClientID
		return paymentRepo.Create(ctx, p)
	})
	if err != nil {
		return nil, err
	}
	return dto.NewPaymentResponse(p), nil
}

// Get devuelve un pago.
func (uc *PaymentUseCase) Get(ctx context.Context, id string) (*dto.PaymentResponse, error) {
	p, err := uc.payments.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("obtener pago: %w", err)
	}
	if p == nil {
		return nil, fmt.Errorf("pago %s: %w", id, domain.ErrNotFound)
	}
	return dto.NewPaymentResponse(p), nil
}

// List lista pagos, los más recientes primero. Filtra por expediente o por cliente.
func (uc *PaymentUseCase) List(ctx context.Context, in dto.PaymentFilterRequest) (*dto.PaymentListResponse, error) {
	in.DefaultPage()
	list, total, err := uc.payments.List(ctx, repository.PaymentFilter{
		CaseFileID: in.CaseFileID,
		ClientID:   in.ClientID,
		Limit:      in.Limit,
		Offset:     in.Offset,
	})
	if err != nil {
		return nil, fmt.Errorf("listar pagos: %w", err)
	}
	return &dto.PaymentListResponse{
		Items: dto.NewPaymentList(list),
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset, Total: total},
	}, nil
}

// Delete elimina un pago.
func (uc *PaymentUseCase) Delete(ctx context.Context, id string) error {
	p, err := uc.payments.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("obtener pago: %w", err)
	}
	if p == nil {
		return fmt.Errorf("pago %s: %w", id, domain.ErrNotFound)
	}
	return uc.payments.Delete(ctx, id)
}

// CaseFileRollup pagado y pendiente de un expediente. Sin pagos, pagado es 0 y pendiente el precio acordado.
func (uc *PaymentUseCase) CaseFileRollup(ctx context.Context, caseFileID string) (*dto.RollupResponse, error) {
	cf, err := uc.caseFiles.GetByID(ctx, caseFileID)
	if err != nil {
		return nil, fmt.Errorf("obtener expediente: %w", err)
	}
	if cf == nil {
		return nil, fmt.Errorf("expediente %s: %w", caseFileID, domain.ErrNotFound)
	}
	totals, err := uc.caseFileTotals(ctx, cf.AgreedPrice, caseFileID)
	if err != nil {
		return nil, err
	}
	return dto.NewRollupResponse(totals), nil
}

func (uc *PaymentUseCase) caseFileTotals(ctx context.Context, agreed decimal.Decimal, caseFileID string) (finance.Totals, error) {
	payments, _, err := uc.payments.List(ctx, repository.PaymentFilter{CaseFileID: caseFileID})
	if err != nil {
		return finance.Totals{}, fmt.Errorf("pagos del expediente: %w", err)
	}
	return finance.Rollup(agreed, paymentAmounts(payments)), nil
}

// ClientRollup total pagado por el cliente en todos sus expedientes, y acordado/pendiente sobre ellos.
func (uc *PaymentUseCase) ClientRollup(ctx context.Context, clientID string) (*dto.RollupResponse, error) {
	c, err := uc.clients.GetByID(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("obtener cliente: %w", err)
	}
	if c == nil {
		return nil, fmt.Errorf("cliente %s: %w", clientID, domain.ErrNotFound)
	}
	totals, err := ClientTotals(ctx, uc.caseFiles, uc.payments, clientID)
	if err != nil {
		return nil, err
	}
	return dto.NewRollupResponse(totals), nil
}

// ClientTotals suma precios acordados y pagos de un cliente.
func ClientTotals(
	ctx context.Context,
	caseFiles repository.CaseFileRepository,
	payments repository.PaymentRepository,
	clientID string,
) (finance.Totals, error) {
	files, _, err := caseFiles.List(ctx, repository.CaseFileFilter{ClientID: clientID, Limit: repository.MaxCaseFilesPerClient})
	if err != nil {
		return finance.Totals{}, fmt.Errorf("expedientes del cliente: %w", err)
	}
	agreed := make([]decimal.Decimal, 0, len(files))
	for _, f := range files {
		agreed = append(agreed, f.AgreedPrice)
	}
	list, _, err := payments.List(ctx, repository.PaymentFilter{ClientID: clientID})
	if err != nil {
		return finance.Totals{}, fmt.Errorf("pagos del cliente: %w", err)
	}
	return finance.Rollup(finance.Sum(agreed), paymentAmounts(list)), nil
}

func paymentAmounts(payments []*entity.Payment) []decimal.Decimal {
	out := make([]decimal.Decimal, 0, len(payments))
	for _, p := range payments {
		out = append(out, p.Amount)
	}
	return out
}
