package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseItemRequest línea de compra. PrecoCustoUnitario es opcional: si falta se usa el costo del producto.
type PurchaseItemRequest struct {
	ProductID          string           `json:"productId"`
	Quantidade         int              `json:"quantidade"`
	PrecoCustoUnitario *decimal.Decimal `json:"precoCustoUnitario,omitempty"`
}

// CreatePurchaseRequest entrada de POST /api/purchases.
type CreatePurchaseRequest struct {
	SupplierID  string                `json:"supplierId"`
	Items       []PurchaseItemRequest `json:"items"`
	Observacoes string                `json:"observacoes,omitempty"`
}

// SaleItemRequest línea de venta; el precio se toma del producto.
type SaleItemRequest struct {
	ProductID  string `json:"productId"`
	Quantidade int    `json:"quantidade"`
}

// CreateSaleRequest entrada de POST /api/sales.
type CreateSaleRequest struct {
	ClientID    string            `json:"clientId,omitempty"`
	Items       []SaleItemRequest `json:"items"`
	Observacoes string            `json:"observacoes,omitempty"`
}

// TransitionRequest cuerpo de PATCH /:id/status.
type TransitionRequest struct {
	Status string `json:"status"`
}

// OrderFilterRequest filtros de listado de órdenes.
type OrderFilterRequest struct {
	PageRequest
	Status     string `query:"status"`
	SupplierID string `query:"supplierId"`
	ClientID   string `query:"clientId"`
}

// OrderItemResponse línea de orden con su precio congelado.
type OrderItemResponse struct {
	ID         string          `json:"id"`
	Position   int             `json:"position"`
	ProductID  string          `json:"productId"`
	Product    *ProductSummary `json:"product,omitempty"`
	Quantidade int             `json:"quantidade"`
	UnitPrice  decimal.Decimal `json:"precoUnitario"`
	Subtotal   decimal.Decimal `json:"subtotal"`
}

// PurchaseResponse compra con sus líneas.
type PurchaseResponse struct {
	ID          string              `json:"id"`
	SupplierID  string              `json:"supplierId"`
	CreatedBy   string              `json:"createdBy"`
	Status      string              `json:"status"`
	Total       decimal.Decimal     `json:"total"`
	Observacoes string              `json:"observacoes,omitempty"`
	Items       []OrderItemResponse `json:"items,omitempty"`
	CompletedAt *time.Time          `json:"completedAt,omitempty"`
	CancelledAt *time.Time          `json:"cancelledAt,omitempty"`
	CreatedAt   time.Time           `json:"createdAt"`
	UpdatedAt   time.Time           `json:"updatedAt"`
}

// PurchaseListResponse lista paginada de compras (sin líneas).
type PurchaseListResponse struct {
	Items []PurchaseResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// SaleResponse venta con sus líneas.
type SaleResponse struct {
	ID          string              `json:"id"`
	ClientID    string              `json:"clientId,omitempty"`
	CreatedBy   string              `json:"createdBy"`
	Status      string              `json:"status"`
	Total       decimal.Decimal     `json:"total"`
	Observacoes string              `json:"observacoes,omitempty"`
	Items       []OrderItemResponse `json:"items,omitempty"`
	CompletedAt *time.Time          `json:"completedAt,omitempty"`
	CancelledAt *time.Time          `json:"cancelledAt,omitempty"`
	CreatedAt   time.Time           `json:"createdAt"`
	UpdatedAt   time.Time           `json:"updatedAt"`
}

// SaleListResponse lista paginada de ventas (sin líneas).
type SaleListResponse struct {
	Items []SaleResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}
