package inventory

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Comercio-api/internal/domain"
	domaininv "github.com/jhoicas/Comercio-api/internal/domain/inventory"
	"github.com/jhoicas/Comercio-api/internal/domain/repository"
)

// Sentido del movimiento de una orden.
const (
	DirectionIn  = 1  // compra: suma existencias
	DirectionOut = -1 // venta: resta existencias
)

// Line cantidad de un producto dentro de una orden. UnitCost solo se usa en entradas.
type Line struct {
	ProductID string
	Quantity  int
	UnitCost  decimal.Decimal
}

// Effect describe cómo aplicar las líneas de una orden al inventario.
// Sign = +1 al entrar a Completed, -1 al salir de Completed.
type Effect struct {
	Direction     int
	Sign          int
	UpdateCost    bool // recalcula costo promedio ponderado (solo entradas aplicadas)
	RequireActive bool // falla con ErrInvalidInput si algún producto está inactivo
}

// Aggregate suma cantidades por producto y devuelve las líneas ordenadas por id ascendente.
// El costo unitario agregado es el promedio ponderado de las líneas del mismo producto.
func Aggregate(lines []Line) []Line {
	byID := make(map[string]*Line, len(lines))
	value := make(map[string]decimal.Decimal, len(lines))
	for _, l := range lines {
		acc, ok := byID[l.ProductID]
		if !ok {
			acc = &Line{ProductID: l.ProductID}
			byID[l.ProductID] = acc
		}
		acc.Quantity += l.Quantity
		value[l.ProductID] = value[l.ProductID].Add(l.UnitCost.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	out := make([]Line, 0, len(byID))
	for id, l := range byID {
		if l.Quantity > 0 {
			l.UnitCost = value[id].Div(decimal.NewFromInt(int64(l.Quantity)))
		}
		out = append(out, *l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out
}

// ApplyEffect aplica el efecto de inventario de una orden dentro de la transacción del caller.
// Los productos se procesan en orden ascendente de id para que el orden de bloqueo sea determinista.
// Toda escritura de cantidad pasa por ProductRepository.AdjustQuantity.
// Cada línea y cada suma por producto debe estar en 1..MaxQuantity; si no, ErrInvalidInput sin tocar nada.
func ApplyEffect(ctx context.Context, products repository.ProductRepository, lines []Line, eff Effect) error {
	if eff.Sign == 0 {
		return nil
	}
	if eff.Direction != DirectionIn && eff.Direction != DirectionOut {
		return fmt.Errorf("inventory: dirección inválida %d", eff.Direction)
	}
	for _, l := range lines {
		if !domaininv.ValidQuantity(l.Quantity) {
			return fmt.Errorf("%w: cantidad %d fuera de rango para producto %s", domain.ErrInvalidInput, l.Quantity, l.ProductID)
		}
	}
	agg := Aggregate(lines)
	for _, l := range agg {
		if l.Quantity > domaininv.MaxQuantity {
			return fmt.Errorf("%w: la cantidad total del producto %s excede %d", domain.ErrInvalidInput, l.ProductID, domaininv.MaxQuantity)
		}
	}
	updateCost := eff.UpdateCost && eff.Direction == DirectionIn && eff.Sign > 0

	for _, l := range agg {
		if eff.RequireActive || updateCost {
			p, err := products.GetForUpdate(ctx, l.ProductID)
			if err != nil {
				return err
			}
			if p == nil {
				return fmt.Errorf("%w: producto %s", domain.ErrNotFound, l.ProductID)
			}
			if eff.RequireActive && !p.Active {
				return fmt.Errorf("%w: producto %s inactivo", domain.ErrInvalidInput, l.ProductID)
			}
			if updateCost {
				cost := domaininv.CostCalculator(p.Quantity, p.Cost, l.Quantity, l.UnitCost)
				if err := products.UpdateCost(ctx, l.ProductID, cost); err != nil {
					return err
				}
			}
		}
		delta := eff.Direction * eff.Sign * l.Quantity
		if _, err := products.AdjustQuantity(ctx, l.ProductID, delta); err != nil {
			if errors.Is(err, domain.ErrInsufficientStock) {
				return fmt.Errorf("%w: producto %s", domain.ErrInsufficientStock, l.ProductID)
			}
			return err
		}
	}
	return nil
}
