package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// TramiteTypeRequest entrada para crear o actualizar un tipo de trámite.
type TramiteTypeRequest struct {
	Name      string          `json:"nombre" validate:"required,max=255"`
	Code      string          `json:"codigo" validate:"required,max=50"`
	BasePrice decimal.Decimal `json:"precio_base"`
	Active    *bool           `json:"active"`
}

// TramiteTypeResponse salida de un tipo de trámite.
type TramiteTypeResponse struct {
	ID        string          `json:"id"`
	Name      string          `json:"nombre"`
	Code      string          `json:"codigo"`
	BasePrice decimal.Decimal `json:"precio_base"`
	Active    bool            `json:"active"`
	CreatedAt time.Time       `json:"created_at"`
}

// RequiredDocumentRequest entrada para un documento requerido.
type RequiredDocumentRequest struct {
	Name        string `json:"nombre_documento" validate:"required,max=255"`
	Description string `json:"descripcion" validate:"max=2000"`
	Order       int    `json:"orden" validate:"min=0"`
	Active      *bool  `json:"active"`
}

// RequiredDocumentResponse salida de un documento requerido.
type RequiredDocumentResponse struct {
	ID            string `json:"id"`
	TramiteTypeID string `json:"tipo_tramite_id"`
	Name          string `json:"nombre_documento"`
	Description   string `json:"descripcion"`
	Order         int    `json:"orden"`
	Active        bool   `json:"active"`
}

// SetActiveRequest activa o desactiva un elemento del catálogo.
type SetActiveRequest struct {
	Active *bool `json:"active" validate:"required"`
}
