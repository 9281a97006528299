package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/gestoria-api/internal/application/dto"
	"github.com/jhoicas/gestoria-api/internal/domain"
	"github.com/jhoicas/gestoria-api/internal/domain/entity"
	"github.com/jhoicas/gestoria-api/internal/domain/repository"
)

// UserUseCase perfiles y roles del backoffice.
type UserUseCase struct {
	repo repository.UserRepository
	now  func() time.Time
}

// NewUserUseCase construye el caso de uso con el puerto de persistencia.
func NewUserUseCase(repo repository.UserRepository) *UserUseCase {
	return &UserUseCase{repo: repo, now: time.Now}
}

// List perfiles con su rol.
func (uc *UserUseCase) List(ctx context.Context) ([]*dto.UserResponse, error) {
	list, err := uc.repo.ListWithRoles(ctx)
	if err != nil {
		return nil, fmt.Errorf("listar usuarios: %w", err)
	}
	out := make([]*dto.UserResponse, 0, len(list))
	for _, u := range list {
		out = append(out, dto.NewUserResponse(u))
	}
	return out, nil
}

// Create da de alta un perfil con su rol. Si no se indica ID se genera uno;
// normalmente coincide con el sujeto del proveedor de identidad.
func (uc *UserUseCase) Create(ctx context.Context, in dto.CreateUserRequest) (*dto.UserResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	id := in.ID
	if id == "" {
		id = uuid.New().String()
	}
	now := uc.now()
	u := &entity.UserProfile{
		ID:        id,
		Name:      in.Name,
		Email:     in.Email,
		Role:      in.Role,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	return dto.NewUserResponse(u), nil
}

// SetRole cambia el rol de un usuario.
func (uc *UserUseCase) SetRole(ctx context.Context, userID string, in dto.SetRoleRequest) (*dto.UserResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	u, err := uc.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("obtener usuario: %w", err)
	}
	if u == nil {
		return nil, fmt.Errorf("usuario %s: %w", userID, domain.ErrNotFound)
	}
	if err := uc.repo.SetRole(ctx, userID, in.Role); err != nil {
		return nil, fmt.Errorf("asignar rol: %w", err)
	}
	u.Role = in.Role
	return dto.NewUserResponse(u), nil
}

// Profile perfil del usuario autenticado con su rol efectivo.
func (uc *UserUseCase) Profile(ctx context.Context, actor entity.Actor) (*dto.UserResponse, error) {
	u, err := uc.own(ctx, actor)
	if err != nil {
		return nil, err
	}
	return dto.NewUserResponse(u), nil
}

// UpdateProfile edita nombre, email y avatar del propio usuario.
func (uc *UserUseCase) UpdateProfile(ctx context.Context, actor entity.Actor, in dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	u, err := uc.own(ctx, actor)
	if err != nil {
		return nil, err
	}
	u.Name = strings.TrimSpace(in.Name)
	u.Email = strings.TrimSpace(in.Email)
	u.AvatarURL = in.AvatarURL
	u.UpdatedAt = uc.now()
	if err := uc.repo.UpdateProfile(ctx, u); err != nil {
		return nil, fmt.Errorf("actualizar perfil: %w", err)
	}
	return dto.NewUserResponse(u), nil
}

// own carga el perfil del actor. Un token sin perfil dado de alta es NotFound.
func (uc *UserUseCase) own(ctx context.Context, actor entity.Actor) (*entity.UserProfile, error) {
	if actor.UserID == "" {
		return nil, domain.ErrUnauthorized
	}
	u, err := uc.repo.GetByID(ctx, actor.UserID)
	if err != nil {
		return nil, fmt.Errorf("obtener perfil: %w", err)
	}
	if u == nil {
		return nil, fmt.Errorf("perfil %s: %w", actor.UserID, domain.ErrNotFound)
	}
	if !entity.ValidRole(u.Role) {
		u.Role = actor.Role
	}
	return u, nil
}

// ResolveRole rol efectivo de un usuario. Sin rol asignado es operador.
func (uc *UserUseCase) ResolveRole(ctx context.Context, userID string) (string, error) {
	role, err := uc.repo.GetRole(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("obtener rol: %w", err)
	}
	if !entity.ValidRole(role) {
		return entity.RoleOperator, nil
	}
	return role, nil
}
