package repository

import (
	"context"

	"github.com/jhoicas/gestoria-api/internal/domain/entity"
)

// PaymentFilter filtros del listado de pagos. Limit 0 devuelve todos.
type PaymentFilter struct {
	CaseFileID string
	ClientID   string
	Limit      int
	Offset     int
}

// PaymentRepository define el puerto de persistencia para pagos.
type PaymentRepository interface {
	Create(ctx context.Context, p *entity.Payment) error
	GetByID(ctx context.Context, id string) (*entity.Payment, error)
	List(ctx context.Context, filter PaymentFilter) ([]*entity.Payment, int, error)
	ListAll(ctx context.Context) ([]*entity.Payment, error)
	Delete(ctx context.Context, id string) error
}
