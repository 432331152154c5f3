package repository

import (
	"context"

	"github.com/jhoicas/Comercio-api/internal/domain/entity"
)

// SupplierRepository define el puerto de persistencia para Supplier.
// Create/Update devuelven domain.ErrDuplicate ante nombre, email o tax id repetidos.
type SupplierRepository interface {
	Create(ctx context.Context, supplier *entity.Supplier) error
	GetByID(ctx context.Context, id string) (*entity.Supplier, error)
	Update(ctx context.Context, supplier *entity.Supplier) error
	List(ctx context.Context, query string, limit, offset int) ([]*entity.Supplier, int, error)
}
