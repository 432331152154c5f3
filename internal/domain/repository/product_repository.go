package repository

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/Comercio-api/internal/domain/entity"
)

// ProductFilter criterios de listado de productos. Query busca en nombre o SKU (sin distinguir mayúsculas).
type ProductFilter struct {
	Query           string
	IncludeInactive bool
	Limit           int
	Offset          int
}

// ProductRepository define el puerto de persistencia para Product (DIP).
// GetByID/GetBySKU devuelven (nil, nil) si no existe.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	GetBySKU(ctx context.Context, sku string) (*entity.Product, error)
	// GetForUpdate bloquea la fila (SELECT FOR UPDATE) dentro de una transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.Product, error)
	// Update no modifica Quantity.
	Update(ctx context.Context, product *entity.Product) error
	UpdateCost(ctx context.Context, productID string, cost decimal.Decimal) error
	SetActive(ctx context.Context, productID string, active bool) error
	// AdjustQuantity aplica delta de forma atómica. ErrInsufficientStock si el resultado sería negativo,
	// ErrNotFound si el producto no existe. Devuelve la cantidad resultante.
	AdjustQuantity(ctx context.Context, productID string, delta int) (int, error)
	// List ordena por id ascendente y devuelve el total de coincidencias.
	List(ctx context.Context, filter ProductFilter) ([]*entity.Product, int, error)
}
