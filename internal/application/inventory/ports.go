package inventory

import (
	"context"

	"github.com/jhoicas/Comercio-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando el repositorio de productos atado a esa tx.
type TxRunner interface {
	Run(ctx context.Context, fn func(productRepo repository.ProductRepository) error) error
}
