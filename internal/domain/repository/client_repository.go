package repository

import (
	"context"

	"github.com/jhoicas/gestoria-api/internal/domain/entity"
)

// ClientFilter filtros de listado de clientes. Query busca en nombre, apellidos, NIE y email.
type ClientFilter struct {
	Query  string
	Limit  int
	Offset int
}

// ClientRepository define el puerto de persistencia para Client.
// Delete elimina en cascada expedientes y pagos del cliente.
type ClientRepository interface {
	Create(ctx context.Context, client *entity.Client) error
	GetByID(ctx context.Context, id string) (*entity.Client, error)
	List(ctx context.Context, filter ClientFilter) ([]*entity.Client, int, error)
	ListAll(ctx context.Context) ([]*entity.Client, error)
	Update(ctx context.Context, client *entity.Client) error
	Delete(ctx context.Context, id string) error
}
