package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Purchase cabecera de una compra a proveedor (orden de entrada).
type Purchase struct {
	ID          string
	SupplierID  string
	CreatedBy   string
	Status      OrderStatus
	Total       decimal.Decimal
	Notes       string
	CompletedAt *time.Time
	CancelledAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// PurchaseItem línea de una compra. UnitCost queda congelado al crear la compra.
type PurchaseItem struct {
	ID         string
	PurchaseID string
	Position   int
	ProductID  string
	Quantity   int
	UnitCost   decimal.Decimal
	Subtotal   decimal.Decimal
}
