package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale cabecera de una venta (orden de salida). ClientID es opcional.
type Sale struct {
	ID          string
	ClientID    string
	CreatedBy   string
	Status      OrderStatus
	Total       decimal.Decimal
	Notes       string
	CompletedAt *time.Time
	CancelledAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// SaleItem línea de una venta. UnitPrice queda congelado al crear la venta.
type SaleItem struct {
	ID        string
	SaleID    string
	Position  int
	ProductID string
	Quantity  int
	UnitPrice decimal.Decimal
	Subtotal  decimal.Decimal
}
