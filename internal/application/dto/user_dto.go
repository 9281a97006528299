package dto

import "time"

// CreateUserRequest alta de perfil con rol. Las credenciales las gestiona el proveedor de identidad.
type CreateUserRequest struct {
	ID    string `json:"id" validate:"omitempty,uuid"`
	Name  string `json:"nombre" validate:"required,max=255"`
	Email string `json:"email" validate:"required,email,max=255"`
	Role  string `json:"role" validate:"required,oneof=admin operador"`
}

// SetRoleRequest cambio de rol.
type SetRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=admin operador"`
}

// UpdateProfileRequest datos que cada usuario puede editar de su propio perfil. El rol no.
type UpdateProfileRequest struct {
	Name      string `json:"nombre" validate:"required,max=255"`
	Email     string `json:"email" validate:"required,email,max=255"`
	AvatarURL string `json:"avatar_url" validate:"omitempty,url,max=2048"`
}

// UserResponse perfil con su rol.
type UserResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"nombre"`
	Email     string    `json:"email"`
	AvatarURL string    `json:"avatar_url"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// SettingsRequest datos de la gestoría.
type SettingsRequest struct {
	Name            string `json:"nombre_gestoria" validate:"required,max=255"`
	LogoURL         string `json:"logo_url" validate:"omitempty,url"`
	Phone           string `json:"telefono" validate:"max=50"`
	Email           string `json:"email" validate:"omitempty,email"`
	Address         string `json:"direccion" validate:"max=255"`
	City            string `json:"ciudad" validate:"max=100"`
	PostalCode      string `json:"codigo_postal" validate:"max=20"`
	NumberingFormat string `json:"formato_numeracion" validate:"required,max=20"`
}

// SettingsResponse datos de la gestoría.
type SettingsResponse struct {
	Name            string    `json:"nombre_gestoria"`
	LogoURL         string    `json:"logo_url"`
	Phone           string    `json:"telefono"`
	Email           string    `json:"email"`
	Address         string    `json:"direccion"`
	City            string    `json:"ciudad"`
	PostalCode      string    `json:"codigo_postal"`
	NumberingFormat string    `json:"formato_numeracion"`
	UpdatedAt       time.Time `json:"updated_at"`
}
