package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ClientRequest entrada para crear o actualizar un cliente. Fechas en formato YYYY-MM-DD.
type ClientRequest struct {
	FirstName      string `json:"nombre" validate:"required,max=255"`
	LastName       string `json:"apellidos" validate:"required,max=255"`
	Email          string `json:"email" validate:"required,email,max=255"`
	Phone          string `json:"telefono" validate:"required,max=50"`
	Nationality    string `json:"nacionalidad" validate:"required,max=100"`
	DocumentNumber string `json:"nie_pasaporte" validate:"required,max=50"`
	DocumentExpiry string `json:"fecha_vencimiento_nie" validate:"omitempty,datetime=2006-01-02"`
	BirthDate      string `json:"fecha_nacimiento" validate:"omitempty,datetime=2006-01-02"`
	Street         string `json:"calle" validate:"max=255"`
	StreetNumber   string `json:"numero" validate:"max=20"`
	Floor          string `json:"piso" validate:"max=20"`
	Door           string `json:"puerta" validate:"max=20"`
	Notes          string `json:"observaciones" validate:"max=5000"`
}

// ClientResponse salida de un cliente.
type ClientResponse struct {
	ID             string     `json:"id"`
	FirstName      string     `json:"nombre"`
	LastName       string     `json:"apellidos"`
	Email          string     `json:"email"`
	Phone          string     `json:"telefono"`
	Nationality    string     `json:"nacionalidad"`
	DocumentNumber string     `json:"nie_pasaporte"`
	DocumentExpiry *time.Time `json:"fecha_vencimiento_nie"`
	BirthDate      *time.Time `json:"fecha_nacimiento"`
	Street         string     `json:"calle"`
	StreetNumber   string     `json:"numero"`
	Floor          string     `json:"piso"`
	Door           string     `json:"puerta"`
	Notes          string     `json:"observaciones"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// ClientListResponse página de clientes.
type ClientListResponse struct {
	Items []*ClientResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// ClientDetailResponse cliente con sus expedientes, pagos y totales.
type ClientDetailResponse struct {
	Client    *ClientResponse     `json:"client"`
	CaseFiles []*CaseFileResponse `json:"expedientes"`
	Payments  []*PaymentResponse  `json:"payments"`
	Rollup    *RollupResponse     `json:"rollup"`
}

// RollupResponse totales pagado/pendiente. Pending puede ser negativo.
type RollupResponse struct {
	Agreed  decimal.Decimal `json:"agreed"`
	Paid    decimal.Decimal `json:"paid"`
	Pending decimal.Decimal `json:"pending"`
}

// ClientFilterRequest filtros de listado (query string).
type ClientFilterRequest struct {
	PageRequest
	Query string `query:"q"`
}
