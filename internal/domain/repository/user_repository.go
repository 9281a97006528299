package repository

import (
	"context"

	"github.com/jhoicas/gestoria-api/internal/domain/entity"
)

// UserRepository perfiles y roles. Create inserta perfil y rol juntos.
type UserRepository interface {
	Create(ctx context.Context, u *entity.UserProfile) error
	GetByID(ctx context.Context, id string) (*entity.UserProfile, error)
	ListWithRoles(ctx context.Context) ([]*entity.UserProfile, error)
	// GetRole devuelve "" si el usuario no tiene rol asignado.
	GetRole(ctx context.Context, userID string) (string, error)
	SetRole(ctx context.Context, userID, role string) error
	// UpdateProfile persiste nombre, email y avatar. ErrNotFound si no existe, ErrDuplicate si el email está en uso.
	UpdateProfile(ctx context.Context, u *entity.UserProfile) error
}

// SettingsRepository configuración de la gestoría (fila única).
type SettingsRepository interface {
	Get(ctx context.Context) (*entity.AgencySettings, error)
	Upsert(ctx context.Context, s *entity.AgencySettings) error
}
