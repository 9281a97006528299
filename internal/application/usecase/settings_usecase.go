package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/gestoria-api/internal/application/dto"
	"github.com/jhoicas/gestoria-api/internal/domain/entity"
	"github.com/jhoicas/gestoria-api/internal/domain/repository"
)

// SettingsUseCase datos de la gestoría.
type SettingsUseCase struct {
	repo repository.SettingsRepository
	now  func() time.Time
}

// NewSettingsUseCase construye el caso de uso.
func NewSettingsUseCase(repo repository.SettingsRepository) *SettingsUseCase {
	return &SettingsUseCase{repo: repo, now: time.Now}
}

// Get devuelve la configuración; si aún no existe, valores por defecto.
func (uc *SettingsUseCase) Get(ctx context.Context) (*dto.SettingsResponse, error) {
	st, err := uc.repo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("obtener configuración: %w", err)
	}
	if st == nil {
		st = &entity.AgencySettings{NumberingFormat: entity.DefaultNumberingFormat}
	}
	return dto.NewSettingsResponse(st), nil
}

// Update guarda la configuración (fila única).
func (uc *SettingsUseCase) Update(ctx context.Context, in dto.SettingsRequest) (*dto.SettingsResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	st := &entity.AgencySettings{
		Name:            in.Name,
		LogoURL:         in.LogoURL,
		Phone:           in.Phone,
		Email:           in.Email,
		Address:         in.Address,
		City:            in.City,
		PostalCode:      in.PostalCode,
		NumberingFormat: in.NumberingFormat,
		UpdatedAt:       uc.now(),
	}
	if err := uc.repo.Upsert(ctx, st); err != nil {
		return nil, fmt.Errorf("guardar configuración: %w", err)
	}
	return dto.NewSettingsResponse(st), nil
}
