package entity

import "time"

// Roles válidos.
const (
	RoleAdmin    = "admin"
	RoleOperator = "operador"
)

// UserProfile perfil de un usuario del backoffice. Las credenciales viven en el proveedor de identidad.
type UserProfile struct {
	ID        string
	Name      string
	Email     string
	AvatarURL string
	Role      string // admin, operador
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Actor identidad de quien ejecuta una operación. Se pasa explícitamente a los casos de uso.
type Actor struct {
	UserID string
	Role   string
}

// IsAdmin indica si el actor tiene rol admin.
func (a Actor) IsAdmin() bool { return a.Role == RoleAdmin }

// ValidRole comprueba que el rol sea admin u operador.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleOperator
}
