package repository

import (
	"context"

	"github.com/jhoicas/Comercio-api/internal/domain/entity"
)

// OrderFilter criterios de listado de compras/ventas (más recientes primero).
// PartyID filtra por proveedor (compras) o cliente (ventas).
type OrderFilter struct {
	Status  entity.OrderStatus
	PartyID string
	Limit   int
	Offset  int
}

// PurchaseRepository define el puerto de persistencia para compras y sus líneas.
type PurchaseRepository interface {
	Create(ctx context.Context, purchase *entity.Purchase) error
	CreateItem(ctx context.Context, item *entity.PurchaseItem) error
	GetByID(ctx context.Context, id string) (*entity.Purchase, error)
	// GetForUpdate bloquea la cabecera (SELECT FOR UPDATE) dentro de una transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.Purchase, error)
	// GetItems devuelve las líneas en orden de inserción.
	GetItems(ctx context.Context, purchaseID string) ([]*entity.PurchaseItem, error)
	UpdateStatus(ctx context.Context, purchase *entity.Purchase) error
	List(ctx context.Context, filter OrderFilter) ([]*entity.Purchase, int, error)
}

// SaleRepository define el puerto de persistencia para ventas y sus líneas.
type SaleRepository interface {
	Create(ctx context.Context, sale *entity.Sale) error
	CreateItem(ctx context.Context, item *entity.SaleItem) error
	GetByID(ctx context.Context, id string) (*entity.Sale, error)
	GetForUpdate(ctx context.Context, id string) (*entity.Sale, error)
	GetItems(ctx context.Context, saleID string) ([]*entity.SaleItem, error)
	UpdateStatus(ctx context.Context, sale *entity.Sale) error
	List(ctx context.Context, filter OrderFilter) ([]*entity.Sale, int, error)
}
