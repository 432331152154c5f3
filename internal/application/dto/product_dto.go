package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto. Quantity es la existencia inicial.
type CreateProductRequest struct {
	SKU         string          `json:"sku"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Cost        decimal.Decimal `json:"cost"`
	Quantity    int             `json:"quantity"`
}

// UpdateProductRequest entrada para actualizar un producto (sin Quantity).
type UpdateProductRequest struct {
	SKU         *string          `json:"sku"`
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Cost        *decimal.Decimal `json:"cost"`
}

// ProductFilterRequest filtros de listado.
type ProductFilterRequest struct {
	PageRequest
	Query           string `query:"q"`
	IncludeInactive bool   `query:"includeInactive"`
}

// AdjustQuantityRequest corrección manual de existencias.
type AdjustQuantityRequest struct {
	Delta  int    `json:"delta"`
	Reason string `json:"reason"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID          string          `json:"id"`
	SKU         string          `json:"sku,omitempty"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Cost        decimal.Decimal `json:"cost"`
	Quantity    int             `json:"quantity"`
	Active      bool            `json:"active"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// ProductSummary resumen de producto embebido en líneas de órdenes.
type ProductSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	SKU  string `json:"sku,omitempty"`
}

// StockAdjustmentResponse resultado de una corrección manual.
type StockAdjustmentResponse struct {
	ProductID string `json:"productId"`
	Delta     int    `json:"delta"`
	Quantity  int    `json:"quantity"`
	Reason    string `json:"reason,omitempty"`
}
