package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/gestoria-api/internal/application/dto"
	"github.com/jhoicas/gestoria-api/internal/domain"
	"github.com/jhoicas/gestoria-api/internal/domain/entity"
	"github.com/jhoicas/gestoria-api/internal/domain/repository"
)

// TramiteUseCase catálogo de tipos de trámite y sus documentos requeridos.
// Desactivar una plantilla solo afecta a expedientes nuevos; los checklists ya sembrados no cambian.
type TramiteUseCase struct {
	types repository.TramiteTypeRepository
	docs  repository.RequiredDocumentRepository
	now   func() time.Time
}

// NewTramiteUseCase construye el caso de uso.
func NewTramiteUseCase(types repository.TramiteTypeRepository, docs repository.RequiredDocumentRepository) *TramiteUseCase {
	return &TramiteUseCase{types: types, docs: docs, now: time.Now}
}

// CreateType crea un tipo de trámite. Activo por defecto.
func (uc *TramiteUseCase) CreateType(ctx context.Context, in dto.TramiteTypeRequest) (*dto.TramiteTypeResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	if in.BasePrice.IsNegative() {
		return nil, fmt.Errorf("precio base negativo: %w", domain.ErrInvalidInput)
	}
	now := uc.now()
	t := &entity.TramiteType{
		ID:        uuid.New().String(),
		Name:      in.Name,
		Code:      in.Code,
		BasePrice: in.BasePrice,
		Active:    in.Active == nil || *in.Active,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.types.Create(ctx, t); err != nil {
		return nil, err
	}
	return dto.NewTramiteTypeResponse(t), nil
}

// GetType obtiene un tipo de trámite.
func (uc *TramiteUseCase) GetType(ctx context.Context, id string) (*dto.TramiteTypeResponse, error) {
	t, err := uc.getType(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.NewTramiteTypeResponse(t), nil
}

func (uc *TramiteUseCase) getType(ctx context.Context, id string) (*entity.TramiteType, error) {
	t, err := uc.types.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("obtener tipo de trámite: %w", err)
	}
	if t == nil {
		return nil, fmt.Errorf("tipo de trámite %s: %w", id, domain.ErrNotFound)
	}
	return t, nil
}

// ListTypes lista el catálogo; onlyActive filtra los desactivados.
func (uc *TramiteUseCase) ListTypes(ctx context.Context, onlyActive bool) ([]*dto.TramiteTypeResponse, error) {
	list, err := uc.types.List(ctx, onlyActive)
	if err != nil {
		return nil, fmt.Errorf("listar tipos de trámite: %w", err)
	}
	out := make([]*dto.TramiteTypeResponse, 0, len(list))
	for _, t := range list {
		out = append(out, dto.NewTramiteTypeResponse(t))
	}
	return out, nil
}

// UpdateType modifica nombre, código, precio base y, si viene, el flag activo.
func (uc *TramiteUseCase) UpdateType(ctx context.Context, id string, in dto.TramiteTypeRequest) (*dto.TramiteTypeResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	if in.BasePrice.IsNegative() {
		return nil, fmt.Errorf("precio base negativo: %w", domain.ErrInvalidInput)
	}
	t, err := uc.getType(ctx, id)
	if err != nil {
		return nil, err
	}
	t.Name = in.Name
	t.Code = in.Code
	t.BasePrice = in.BasePrice
	if in.Active != nil {
		t.Active = *in.Active
	}
	t.UpdatedAt = uc.now()
	if err := uc.types.Update(ctx, t); err != nil {
		return nil, err
	}
	return dto.NewTramiteTypeResponse(t), nil
}

// SetTypeActive activa o desactiva un tipo de trámite.
func (uc *TramiteUseCase) SetTypeActive(ctx context.Context, id string, in dto.SetActiveRequest) (*dto.TramiteTypeResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	if _, err := uc.getType(ctx, id); err != nil {
		return nil, err
	}
	if err := uc.types.SetActive(ctx, id, *in.Active); err != nil {
		return nil, fmt.Errorf("activar tipo de trámite: %w", err)
	}
	return uc.GetType(ctx, id)
}

// DeleteType elimina el tipo y sus documentos requeridos. ErrConflict si hay expedientes que lo usan.
func (uc *TramiteUseCase) DeleteType(ctx context.Context, id string) error {
	if _, err := uc.getType(ctx, id); err != nil {
		return err
	}
	return uc.types.Delete(ctx, id)
}

// ── Documentos requeridos ─────────────────────────────────────────────────────

// CreateDocument añade un documento requerido al tipo de trámite.
func (uc *TramiteUseCase) CreateDocument(ctx context.Context, tramiteTypeID string, in dto.RequiredDocumentRequest) (*dto.RequiredDocumentResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	if _, err := uc.getType(ctx, tramiteTypeID); err != nil {
		return nil, err
	}
	d := &entity.RequiredDocument{
		ID:            uuid.New().String(),
		TramiteTypeID: tramiteTypeID,
		Name:          in.Name,
		Description:   in.Description,
		Order:         in.Order,
		Active:        in.Active == nil || *in.Active,
		CreatedAt:     uc.now(),
	}
	if err := uc.docs.Create(ctx, d); err != nil {
		return nil, err
	}
	return dto.NewRequiredDocumentResponse(d), nil
}

// ListDocuments documentos del trámite ordenados por orden.
func (uc *TramiteUseCase) ListDocuments(ctx context.Context, tramiteTypeID string, onlyActive bool) ([]*dto.RequiredDocumentResponse, error) {
	if _, err := uc.getType(ctx, tramiteTypeID); err != nil {
		return nil, err
	}
	list, err := uc.docs.ListByTramiteType(ctx, tramiteTypeID, onlyActive)
	if err != nil {
		return nil, fmt.Errorf("listar documentos requeridos: %w", err)
	}
	out := make([]*dto.RequiredDocumentResponse, 0, len(list))
	for _, d := range list {
		out = append(out, dto.NewRequiredDocumentResponse(d))
	}
	return out, nil
}

func (uc *TramiteUseCase) getDocument(ctx context.Context, id string) (*entity.RequiredDocument, error) {
	d, err := uc.docs.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("obtener documento requerido: %w", err)
	}
	if d == nil {
		return nil, fmt.Errorf("documento requerido %s: %w", id, domain.ErrNotFound)
	}
	return d, nil
}

// UpdateDocument modifica un documento requerido.
func (uc *TramiteUseCase) UpdateDocument(ctx context.Context, id string, in dto.RequiredDocumentRequest) (*dto.RequiredDocumentResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	d, err := uc.getDocument(ctx, id)
	if err != nil {
		return nil, err
	}
	d.Name = in.Name
	d.Description = in.Description
	d.Order = in.Order
	if in.Active != nil {
		d.Active = *in.Active
	}
	if err := uc.docs.Update(ctx, d); err != nil {
		return nil, fmt.Errorf("actualizar documento requerido: %w", err)
	}
	return dto.NewRequiredDocumentResponse(d), nil
}

// SetDocumentActive activa o desactiva una plantilla.
func (uc *TramiteUseCase) SetDocumentActive(ctx context.Context, id string, in dto.SetActiveRequest) (*dto.RequiredDocumentResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	d, err := uc.getDocument(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := uc.docs.SetActive(ctx, id, *in.Active); err != nil {
		return nil, fmt.Errorf("activar documento requerido: %w", err)
	}
	d.Active = *in.Active
	return dto.NewRequiredDocumentResponse(d), nil
}

// DeleteDocument elimina una plantilla.
func (uc *TramiteUseCase) DeleteDocument(ctx context.Context, id string) error {
	if _, err := uc.getDocument(ctx, id); err != nil {
		return err
	}
	return uc.docs.Delete(ctx, id)
}
