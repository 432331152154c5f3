package orders

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Comercio-api/internal/domain"
	"github.com/jhoicas/Comercio-api/internal/domain/entity"
	domaininv "github.com/jhoicas/Comercio-api/internal/domain/inventory"
	"github.com/jhoicas/Comercio-api/internal/domain/repository"
)

const maxNotesLen = 2000

// validateLine comprueba la forma de una línea (sin tocar la BD).
func validateLine(i int, productID string, qty int, cost *decimal.Decimal) error {
	if productID == "" {
		return fmt.Errorf("%w: items[%d].productId requerido", domain.ErrInvalidInput, i)
	}
	if !domaininv.ValidQuantity(qty) {
		return fmt.Errorf("%w: items[%d].quantidade debe estar entre 1 y %d", domain.ErrInvalidInput, i, domaininv.MaxQuantity)
	}
	if cost != nil && !domaininv.ValidAmount(*cost) {
		return fmt.Errorf("%w: items[%d].precoCustoUnitario debe ser >= 0, menor a 10^10 y con hasta %d decimales",
			domain.ErrInvalidInput, i, domaininv.AmountScale)
	}
	return nil
}

// validateProductSums rechaza órdenes cuya suma por producto excede MaxQuantity.
func validateProductSums(ids []string, qtys []int) error {
	sums := make(map[string]int, len(ids))
	for i, id := range ids {
		sums[id] += qtys[i]
		if sums[id] > domaininv.MaxQuantity {
			return fmt.Errorf("%w: la cantidad total del producto %s excede %d", domain.ErrInvalidInput, id, domaininv.MaxQuantity)
		}
	}
	return nil
}

func validateTotal(total decimal.Decimal) error {
	if !domaininv.ValidTotal(total) {
		return fmt.Errorf("%w: el total de la orden excede el máximo admitido", domain.ErrInvalidInput)
	}
	return nil
}

func validateNotes(notes string) error {
	if len(notes) > maxNotesLen {
		return fmt.Errorf("%w: observacoes excede %d caracteres", domain.ErrInvalidInput, maxNotesLen)
	}
	return nil
}

// loadProducts resuelve los productos de las líneas. Primero existencia (ErrNotFound), luego activos (ErrInvalidInput).
func loadProducts(ctx context.Context, repo repository.ProductRepository, ids []string) (map[string]*entity.Product, error) {
	out := make(map[string]*entity.Product, len(ids))
	for _, id := range ids {
		if _, ok := out[id]; ok {
			continue
		}
		p, err := repo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, id)
		}
		out[id] = p
	}
	for _, id := range ids {
		if !out[id].Active {
			return nil, fmt.Errorf("%w: producto %s inactivo", domain.ErrInvalidInput, id)
		}
	}
	return out, nil
}

// lineValue qty × precio sin redondear.
func lineValue(qty int, unit decimal.Decimal) decimal.Decimal {
	return unit.Mul(decimal.NewFromInt(int64(qty)))
}

// roundMoney redondea a 2 decimales (subtotales y total).
func roundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
