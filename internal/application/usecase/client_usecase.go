package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/gestoria-api/internal/application/billing"
	"github.com/jhoicas/gestoria-api/internal/application/dto"
	"github.com/jhoicas/gestoria-api/internal/domain"
	"github.com/jhoicas/gestoria-api/internal/domain/entity"
	"github.com/jhoicas/gestoria-api/internal/domain/repository"
)

// ClientUseCase aplica reglas de negocio para clientes.
type ClientUseCase struct {
	repo      repository.ClientRepository
	caseFiles repository.CaseFileRepository
	payments  repository.PaymentRepository
	now       func() time.Time
}

// NewClientUseCase construye el caso de uso con sus puertos de persistencia.
func NewClientUseCase(
	repo repository.ClientRepository,
	caseFiles repository.CaseFileRepository,
	payments repository.PaymentRepository,
) *ClientUseCase {
	return &ClientUseCase{repo: repo, caseFiles: caseFiles, payments: payments, now: time.Now}
}

// Create crea un cliente.
func (uc *ClientUseCase) Create(ctx context.Context, in dto.ClientRequest) (*dto.ClientResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	now := uc.now()
	c := &entity.Client{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now}
	if err := applyClient(c, in); err != nil {
		return nil, err
	}
	if err := uc.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return dto.NewClientResponse(c), nil
}

func applyClient(c *entity.Client, in dto.ClientRequest) error {
	expiry, err := dto.ParseDate(in.DocumentExpiry)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}
	birth, err := dto.ParseDate(in.BirthDate)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}
	c.FirstName = in.FirstName
	c.LastName = in.LastName
	c.Email = in.Email
	c.Phone = in.Phone
	c.Nationality = in.Nationality
	c.DocumentNumber = in.DocumentNumber
	c.DocumentExpiry = expiry
	c.BirthDate = birth
	c.Street = in.Street
	c.StreetNumber = in.StreetNumber
	c.Floor = in.Floor
	c.Door = in.Door
	c.Notes = in.Notes
	return nil
}

// GetByID obtiene un cliente por ID.
func (uc *ClientUseCase) GetByID(ctx context.Context, id string) (*dto.ClientResponse, error) {
	c, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.NewClientResponse(c), nil
}

func (uc *ClientUseCase) get(ctx context.Context, id string) (*entity.Client, error) {
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("obtener cliente: %w", err)
	}
	if c == nil {
		return nil, fmt.Errorf("cliente %s: %w", id, domain.ErrNotFound)
	}
	return c, nil
}

// List lista clientes con búsqueda y paginación.
func (uc *ClientUseCase) List(ctx context.Context, in dto.ClientFilterRequest) (*dto.ClientListResponse, error) {
	in.DefaultPage()
	list, total, err := uc.repo.List(ctx, repository.ClientFilter{Query: in.Query, Limit: in.Limit, Offset: in.Offset})
	if err != nil {
		return nil, fmt.Errorf("listar clientes: %w", err)
	}
	items := make([]*dto.ClientResponse, 0, len(list))
	for _, c := range list {
		items = append(items, dto.NewClientResponse(c))
	}
	return &dto.ClientListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset, Total: total},
	}, nil
}

// Update reemplaza los datos del cliente.
func (uc *ClientUseCase) Update(ctx context.Context, id string, in dto.ClientRequest) (*dto.ClientResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	c, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := applyClient(c, in); err != nil {
		return nil, err
	}
	c.UpdatedAt = uc.now()
	if err := uc.repo.Update(ctx, c); err != nil {
		return nil, fmt.Errorf("actualizar cliente: %w", err)
	}
	return dto.NewClientResponse(c), nil
}

// Delete elimina el cliente con sus expedientes y pagos.
func (uc *ClientUseCase) Delete(ctx context.Context, id string) error {
	if _, err := uc.get(ctx, id); err != nil {
		return err
	}
	return uc.repo.Delete(ctx, id)
}

// Detail devuelve el cliente con sus expedientes, pagos y totales.
func (uc *ClientUseCase) Detail(ctx context.Context, id string) (*dto.ClientDetailResponse, error) {
	c, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	files, _, err := uc.caseFiles.List(ctx, repository.CaseFileFilter{ClientID: id, Limit: repository.MaxCaseFilesPerClient})
	if err != nil {
		return nil, fmt.Errorf("expedientes del cliente: %w", err)
	}
	payments, _, err := uc.payments.List(ctx, repository.PaymentFilter{ClientID: id})
	if err != nil {
		return nil, fmt.Errorf("pagos del cliente: %w", err)
	}
	totals, err := billing.ClientTotals(ctx, uc.caseFiles, uc.payments, id)
	if err != nil {
		return nil, err
	}
	return &dto.ClientDetailResponse{
		Client:    dto.NewClientResponse(c),
		CaseFiles: dto.NewCaseFileViewList(files),
		Payments:  dto.NewPaymentList(payments),
		Rollup:    dto.NewRollupResponse(totals),
	}, nil
}
