package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto vendible con su existencia.
// Quantity solo cambia vía inventory.AdjustQuantity (órdenes completadas o corrección manual).
type Product struct {
	ID          string
	SKU         string // opcional, único si existe
	Name        string
	Description string
	Price       decimal.Decimal // precio de venta
	Cost        decimal.Decimal // costo (promedio ponderado tras compras)
	Quantity    int
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
