package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Comercio-api/internal/application/audit"
	"github.com/jhoicas/Comercio-api/internal/application/authz"
	"github.com/jhoicas/Comercio-api/internal/application/dto"
	"github.com/jhoicas/Comercio-api/internal/application/usecase"
	"github.com/jhoicas/Comercio-api/internal/domain"
	"github.com/jhoicas/Comercio-api/internal/domain/entity"
	"github.com/jhoicas/Comercio-api/internal/infrastructure/memory"
	"github.com/jhoicas/Comercio-api/pkg/logger"
)

var admin = &authz.Identity{UserID: "00000000-0000-0000-0000-00000000000a", Username: "admin", Role: entity.RoleAdmin}

func newProductUC() (*usecase.ProductUseCase, *memory.Store) {
	store := memory.New()
	return usecase.NewProductUseCase(store.Products(), audit.NewService(store.ActivityLogs(), logger.Nop())), store
}

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestProduct_Create_GuardaCantidadInicial(t *testing.T) {
	uc, _ := newProductUC()
	ctx := context.Background()

	for _, qty := range []int{0, 1, 100, 123456} {
		out, err := uc.Create(ctx, admin, dto.CreateProductRequest{
			Name: fmt.Sprintf("Producto %d", qty), Price: d("0"), Cost: d("0"), Quantity: qty,
		})
		require.NoError(t, err)
		got, err := uc.GetByID(ctx, out.ID)
		require.NoError(t, err)
		assert.Equal(t, qty, got.Quantity)
		assert.True(t, got.Active)
	}
}

func TestProduct_Create_Validaciones(t *testing.T) {
	uc, _ := newProductUC()
	ctx := context.Background()

	tests := []struct {
		name string
		in   dto.CreateProductRequest
	}{
		{"sin nombre", dto.CreateProductRequest{Name: "  ", Price: d("1")}},
		{"precio negativo", dto.CreateProductRequest{Name: "X", Price: d("-0.01")}},
		{"costo negativo", dto.CreateProductRequest{Name: "X", Price: d("1"), Cost: d("-1")}},
		{"cantidad negativa", dto.CreateProductRequest{Name: "X", Price: d("1"), Quantity: -1}},
		{"cantidad sobre INTEGER", dto.CreateProductRequest{Name: "X", Price: d("1"), Quantity: 1 << 31}},
		{"precio con 5 decimales", dto.CreateProductRequest{Name: "X", Price: d("4.12345")}},
		{"precio >= 10^10", dto.CreateProductRequest{Name: "X", Price: d("10000000000")}},
		{"costo con 5 decimales", dto.CreateProductRequest{Name: "X", Price: d("1"), Cost: d("0.00001")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Create(ctx, admin, tt.in)
			assert.True(t, errors.Is(err, domain.ErrInvalidInput), "obtenido %v", err)
		})
	}
}

func TestProduct_Create_SKUDuplicado(t *testing.T) {
	uc, _ := newProductUC()
	ctx := context.Background()

	_, err := uc.Create(ctx, admin, dto.CreateProductRequest{SKU: "W-1", Name: "Widget", Price: d("10")})
	require.NoError(t, err)
	_, err = uc.Create(ctx, admin, dto.CreateProductRequest{SKU: "w-1", Name: "Otro", Price: d("10")})
	assert.True(t, errors.Is(err, domain.ErrDuplicate))
	assert.Equal(t, "CONFLICT", domain.Kind(err))
}

func TestProduct_Update_NoTocaCantidad(t *testing.T) {
	uc, _ := newProductUC()
	ctx := context.Background()
	out, err := uc.Create(ctx, admin, dto.CreateProductRequest{Name: "Widget", Price: d("10"), Quantity: 7})
	require.NoError(t, err)

	name := "Widget Pro"
	price := d("12.50")
	upd, err := uc.Update(ctx, admin, out.ID, dto.UpdateProductRequest{Name: &name, Price: &price})
	require.NoError(t, err)
	assert.Equal(t, "Widget Pro", upd.Name)
	assert.True(t, upd.Price.Equal(price))
	assert.Equal(t, 7, upd.Quantity)

	neg := d("-1")
	_, err = uc.Update(ctx, admin, out.ID, dto.UpdateProductRequest{Cost: &neg})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	_, err = uc.Update(ctx, admin, "no-existe", dto.UpdateProductRequest{Name: &name})
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestProduct_List_FiltroYPaginacionEstable(t *testing.T) {
	uc, _ := newProductUC()
	ctx := context.Background()
	for i := 0; i < 25; i++ {
		_, err := uc.Create(ctx, admin, dto.CreateProductRequest{
			SKU: fmt.Sprintf("SKU-%02d", i), Name: fmt.Sprintf("Item %02d", i), Price: d("1"),
		})
		require.NoError(t, err)
	}
	_, err := uc.Create(ctx, admin, dto.CreateProductRequest{Name: "Martillo", Price: d("1")})
	require.NoError(t, err)

	first, err := uc.List(ctx, dto.ProductFilterRequest{Query: "item", PageRequest: dto.PageRequest{Page: 1, Limit: 10}})
	require.NoError(t, err)
	assert.Equal(t, 25, first.Page.Total)
	require.Len(t, first.Items, 10)

	second, err := uc.List(ctx, dto.ProductFilterRequest{Query: "ITEM", PageRequest: dto.PageRequest{Page: 2, Limit: 10}})
	require.NoError(t, err)
	require.Len(t, second.Items, 10)
	assert.Less(t, first.Items[9].ID, second.Items[0].ID, "orden por id ascendente entre páginas")

	again, err := uc.List(ctx, dto.ProductFilterRequest{Query: "item", PageRequest: dto.PageRequest{Page: 1, Limit: 10}})
	require.NoError(t, err)
	assert.Equal(t, first.Items, again.Items, "la misma página debe ser reproducible")

	bySKU, err := uc.List(ctx, dto.ProductFilterRequest{Query: "sku-07"})
	require.NoError(t, err)
	require.Len(t, bySKU.Items, 1)
	assert.Equal(t, "Item 07", bySKU.Items[0].Name)
	assert.Equal(t, dto.DefaultLimit, bySKU.Page.Limit)
}

func TestProduct_SetActive_OcultaDelListado(t *testing.T) {
	uc, _ := newProductUC()
	ctx := context.Background()
	out, err := uc.Create(ctx, admin, dto.CreateProductRequest{Name: "Viejo", Price: d("1")})
	require.NoError(t, err)

	off, err := uc.SetActive(ctx, admin, out.ID, false)
	require.NoError(t, err)
	assert.False(t, off.Active)

	list, err := uc.List(ctx, dto.ProductFilterRequest{})
	require.NoError(t, err)
	assert.Equal(t, 0, list.Page.Total)

	all, err := uc.List(ctx, dto.ProductFilterRequest{IncludeInactive: true})
	require.NoError(t, err)
	assert.Equal(t, 1, all.Page.Total)
}
