package inventory_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Comercio-api/internal/domain/inventory"
)

func TestCostCalculator_PromedioPonderado(t *testing.T) {
	// 100 unidades a 5 + 10 unidades a 4 → (500 + 40) / 110
	got := inventory.CostCalculator(100, decimal.NewFromInt(5), 10, decimal.NewFromInt(4))
	assert.True(t, decimal.RequireFromString("4.9091").Equal(got), "costo obtenido: %s", got)
}

func TestCostCalculator_SinStockPrevio(t *testing.T) {
	got := inventory.CostCalculator(0, decimal.NewFromInt(7), 3, decimal.NewFromInt(4))
	assert.True(t, decimal.NewFromInt(4).Equal(got))
}

func TestCostCalculator_EntradaNula(t *testing.T) {
	got := inventory.CostCalculator(0, decimal.NewFromInt(7), 0, decimal.NewFromInt(4))
	assert.True(t, decimal.NewFromInt(4).Equal(got), "sin unidades se toma el costo de entrada")
}
