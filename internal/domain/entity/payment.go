package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod medio de pago.
type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "efectivo"
	PaymentTransfer PaymentMethod = "transferencia"
	PaymentCard     PaymentMethod = "tarjeta"
	PaymentBizum    PaymentMethod = "bizum"
)

// Payment pago asociado a un expediente. ClientID se copia del expediente.
type Payment struct {
	ID         string
	CaseFileID string
	ClientID   string
	Amount     decimal.Decimal // siempre > 0
	PaidOn     time.Time
	Method     PaymentMethod // vacío si no se indicó
	Concept    string
	Notes      string
	CreatedAt  time.Time
}

// ValidPaymentMethod comprueba que el método pertenezca al catálogo.
func ValidPaymentMethod(m PaymentMethod) bool {
	switch m {
	case PaymentCash, PaymentTransfer, PaymentCard, PaymentBizum:
		return true
	}
	return false
}
