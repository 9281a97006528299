// Package finance agrega importes de pagos con aritmética decimal.
package finance

import "github.com/shopspring/decimal"

// Totals resultado de un rollup. Pending puede ser negativo si se ha pagado de más.
type Totals struct {
	Agreed  decimal.Decimal
	Paid    decimal.Decimal
	Pending decimal.Decimal
}

// Sum suma los importes.
func Sum(amounts []decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}

// Rollup calcula pagado y pendiente: Pending = Agreed - Paid, sin recortar a cero.
func Rollup(agreed decimal.Decimal, amounts []decimal.Decimal) Totals {
	return FromPaid(agreed, Sum(amounts))
}

// FromPaid construye los totales cuando la suma ya viene agregada (p. ej. desde SQL).
func FromPaid(agreed, paid decimal.Decimal) Totals {
	return Totals{
		Agreed:  agreed,
		Paid:    paid,
		Pending: agreed.Sub(paid),
	}
}
