package repository

import (
	"context"

	"github.com/jhoicas/gestoria-api/internal/domain/entity"
)

// TramiteTypeRepository catálogo de tipos de trámite.
// Delete devuelve domain.ErrConflict si hay expedientes que lo referencian.
type TramiteTypeRepository interface {
	Create(ctx context.Context, t *entity.TramiteType) error
	GetByID(ctx context.Context, id string) (*entity.TramiteType, error)
	List(ctx context.Context, onlyActive bool) ([]*entity.TramiteType, error)
	Update(ctx context.Context, t *entity.TramiteType) error
	SetActive(ctx context.Context, id string, active bool) error
	Delete(ctx context.Context, id string) error
}

// RequiredDocumentRepository plantillas de documentos por tipo de trámite, ordenadas por Order.
type RequiredDocumentRepository interface {
	Create(ctx context.Context, d *entity.RequiredDocument) error
	GetByID(ctx context.Context, id string) (*entity.RequiredDocument, error)
	ListByTramiteType(ctx context.Context, tramiteTypeID string, onlyActive bool) ([]*entity.RequiredDocument, error)
	Update(ctx context.Context, d *entity.RequiredDocument) error
	SetActive(ctx context.Context, id string, active bool) error
	Delete(ctx context.Context, id string) error
}
