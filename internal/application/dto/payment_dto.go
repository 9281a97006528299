package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreatePaymentRequest entrada para registrar un pago. El cliente se toma del expediente.
type CreatePaymentRequest struct {
	CaseFileID string          `json:"expediente_id" validate:"required,uuid"`
	Amount     decimal.Decimal `json:"importe"`
	PaidOn     string          `json:"fecha_pago" validate:"omitempty,datetime=2006-01-02"`
	Method     string          `json:"metodo_pago" validate:"omitempty,oneof=efectivo transferencia tarjeta bizum"`
	Concept    string          `json:"concepto" validate:"max=255"`
	Notes      string          `json:"observaciones" validate:"max=5000"`
}

// PaymentFilterRequest filtros de listado (query string).
type PaymentFilterRequest struct {
	PageRequest
	CaseFileID string `query:"expediente_id"`
	ClientID   string `query:"cliente_id"`
}

// PaymentResponse salida de un pago.
type PaymentResponse struct {
	ID         string          `json:"id"`
	CaseFileID string          `json:"expediente_id"`
	ClientID   string          `json:"cliente_id"`
	Amount     decimal.Decimal `json:"importe"`
	PaidOn     time.Time       `json:"fecha_pago"`
	Method     string          `json:"metodo_pago"`
	Concept    string          `json:"concepto"`
	Notes      string          `json:"observaciones"`
	CreatedAt  time.Time       `json:"created_at"`
}

// PaymentListResponse página de pagos.
type PaymentListResponse struct {
	Items []*PaymentResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
