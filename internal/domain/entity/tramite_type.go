package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// TramiteType entrada del catálogo de trámites ofrecidos.
type TramiteType struct {
	ID        string
	Name      string
	Code      string
	BasePrice decimal.Decimal
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// RequiredDocument plantilla de un documento exigido por un tipo de trámite.
// Los inactivos no se copian al checklist de nuevos expedientes.
type RequiredDocument struct {
	ID            string
	TramiteTypeID string
	Name          string
	Description   string
	Order         int
	Active        bool
	CreatedAt     time.Time
}
