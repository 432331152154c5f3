package inventory

import (
	"math"

	"github.com/shopspring/decimal"
)

// Rangos de las columnas: cantidades INTEGER, precios y costos NUMERIC(14,4), totales NUMERIC(14,2).
const (
	MaxQuantity = math.MaxInt32
	AmountScale = 4
)

var (
	maxAmount = decimal.New(1, 10)
	maxTotal  = decimal.New(1, 12)
)

// ValidQuantity 1 <= q <= MaxQuantity.
func ValidQuantity(q int) bool {
	return q >= 1 && q <= MaxQuantity
}

// ValidAmount precio o costo representable sin redondeo: >= 0, < 10^10 y a lo sumo 4 decimales.
func ValidAmount(d decimal.Decimal) bool {
	return !d.IsNegative() && d.LessThan(maxAmount) && d.Equal(d.Truncate(AmountScale))
}

// ValidTotal total o subtotal de una orden (ya redondeado a 2 decimales).
func ValidTotal(d decimal.Decimal) bool {
	return !d.IsNegative() && d.LessThan(maxTotal)
}
