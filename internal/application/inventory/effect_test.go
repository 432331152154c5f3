package inventory_test

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Comercio-api/internal/application/audit"
	"github.com/jhoicas/Comercio-api/internal/application/authz"
	"github.com/jhoicas/Comercio-api/internal/application/dto"
	"github.com/jhoicas/Comercio-api/internal/application/inventory"
	"github.com/jhoicas/Comercio-api/internal/domain"
	"github.com/jhoicas/Comercio-api/internal/domain/entity"
	"github.com/jhoicas/Comercio-api/internal/domain/repository"
	"github.com/jhoicas/Comercio-api/internal/infrastructure/memory"
	"github.com/jhoicas/Comercio-api/pkg/logger"
)

func seed(t *testing.T, store *memory.Store, id string, qty int, cost string) {
	t.Helper()
	now := time.Now().UTC()
	require.NoError(t, store.Products().Create(context.Background(), &entity.Product{
		ID: id, Name: id, Price: decimal.NewFromInt(1), Cost: decimal.RequireFromString(cost),
		Quantity: qty, Active: true, CreatedAt: now, UpdatedAt: now,
	}))
}

func qty(t *testing.T, store *memory.Store, id string) int {
	t.Helper()
	p, err := store.Products().GetByID(context.Background(), id)
	require.NoError(t, err)
	return p.Quantity
}

func TestAggregate(t *testing.T) {
	out := inventory.Aggregate([]inventory.Line{
		{ProductID: "b", Quantity: 2, UnitCost: decimal.NewFromInt(4)},
		{ProductID: "a", Quantity: 1},
		{ProductID: "b", Quantity: 2, UnitCost: decimal.NewFromInt(6)},
	})
	require.Len(t, out, 2)
	assert.Equal(t, "a", out[0].ProductID)
	assert.Equal(t, "b", out[1].ProductID)
	assert.Equal(t, 4, out[1].Quantity)
	assert.True(t, out[1].UnitCost.Equal(decimal.NewFromInt(5)))
}

func TestApplyEffect_TodoONada(t *testing.T) {
	store := memory.New()
	seed(t, store, "a", 10, "1")
	seed(t, store, "b", 1, "1")

	err := store.Run(context.Background(), func(products repository.ProductRepository) error {
		return inventory.ApplyEffect(context.Background(), products, []inventory.Line{
			{ProductID: "a", Quantity: 3},
			{ProductID: "b", Quantity: 2},
		}, inventory.Effect{Direction: inventory.DirectionOut, Sign: 1})
	})
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))
	assert.Equal(t, 10, qty(t, store, "a"), "el rollback debe deshacer el primer ajuste")
	assert.Equal(t, 1, qty(t, store, "b"))
}

func TestApplyEffect_EntradaActualizaCosto(t *testing.T) {
	store := memory.New()
	seed(t, store, "a", 10, "2")

	err := store.Run(context.Background(), func(products repository.ProductRepository) error {
		return inventory.ApplyEffect(context.Background(), products, []inventory.Line{
			{ProductID: "a", Quantity: 10, UnitCost: decimal.NewFromInt(4)},
		}, inventory.Effect{Direction: inventory.DirectionIn, Sign: 1, UpdateCost: true})
	})
	require.NoError(t, err)
	p, err := store.Products().GetByID(context.Background(), "a")
	require.NoError(t, err)
	assert.Equal(t, 20, p.Quantity)
	assert.True(t, p.Cost.Equal(decimal.NewFromInt(3)))
}

func TestAdjustQuantityUseCase(t *testing.T) {
	store := memory.New()
	seed(t, store, "a", 5, "1")
	uc := inventory.NewAdjustQuantityUseCase(store, audit.NewService(store.ActivityLogs(), logger.Nop()))
	actor := &authz.Identity{UserID: "u1", Username: "admin", Role: entity.RoleAdmin}
	ctx := context.Background()

	out, err := uc.Adjust(ctx, actor, "a", dto.AdjustQuantityRequest{Delta: -2, Reason: "rotura"})
	require.NoError(t, err)
	assert.Equal(t, 3, out.Quantity)

	_, err = uc.Adjust(ctx, actor, "a", dto.AdjustQuantityRequest{Delta: -4})
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))
	assert.Equal(t, 3, qty(t, store, "a"))

	_, err = uc.Adjust(ctx, actor, "a", dto.AdjustQuantityRequest{Delta: 0})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	_, err = uc.Adjust(ctx, actor, "zzz", dto.AdjustQuantityRequest{Delta: 1})
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	logs, total, err := store.ActivityLogs().List(ctx, repository.ActivityLogFilter{Action: entity.ActionAdjust})
	require.NoError(t, err)
	assert.Equal(t, 4, total)
	assert.Equal(t, entity.OutcomeSuccess, logs[3].Outcome)
	assert.Contains(t, logs[3].Detail, "rotura")
}

func TestAdjustQuantityUseCase_DeltaFueraDeRango(t *testing.T) {
	store := memory.New()
	seed(t, store, "a", 3, "1")
	uc := inventory.NewAdjustQuantityUseCase(store, audit.NewService(store.ActivityLogs(), logger.Nop()))
	actor := &authz.Identity{UserID: "u1", Username: "admin", Role: entity.RoleAdmin}
	ctx := context.Background()

	for _, delta := range []int{math.MaxInt32 + 1, math.MinInt64, math.MaxInt64} {
		_, err := uc.Adjust(ctx, actor, "a", dto.AdjustQuantityRequest{Delta: delta})
		assert.True(t, errors.Is(err, domain.ErrInvalidInput), "delta %d: %v", delta, err)
	}
	assert.Equal(t, 3, qty(t, store, "a"))

	// dentro del rango pero la existencia resultante no cabe
	_, err := uc.Adjust(ctx, actor, "a", dto.AdjustQuantityRequest{Delta: math.MaxInt32})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput), "obtenido %v", err)
	assert.Equal(t, 3, qty(t, store, "a"))
}

func TestApplyEffect_CantidadesFueraDeRango(t *testing.T) {
	store := memory.New()
	seed(t, store, "a", 0, "1")

	cases := [][]inventory.Line{
		{{ProductID: "a", Quantity: math.MaxInt64}, {ProductID: "a", Quantity: 2}},
		{{ProductID: "a", Quantity: math.MaxInt32}, {ProductID: "a", Quantity: 1}},
		{{ProductID: "a", Quantity: -1}},
	}
	for _, lines := range cases {
		err := store.Run(context.Background(), func(products repository.ProductRepository) error {
			return inventory.ApplyEffect(context.Background(), products, lines,
				inventory.Effect{Direction: inventory.DirectionOut, Sign: 1})
		})
		assert.True(t, errors.Is(err, domain.ErrInvalidInput), "obtenido %v", err)
		assert.Equal(t, 0, qty(t, store, "a"))
	}
}
