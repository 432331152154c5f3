package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Comercio-api/internal/application/audit"
	"github.com/jhoicas/Comercio-api/internal/application/dto"
	"github.com/jhoicas/Comercio-api/internal/application/usecase"
	"github.com/jhoicas/Comercio-api/internal/domain"
	"github.com/jhoicas/Comercio-api/internal/infrastructure/memory"
	"github.com/jhoicas/Comercio-api/pkg/logger"
)

func TestSupplier_Unicidad(t *testing.T) {
	store := memory.New()
	uc := usecase.NewSupplierUseCase(store.Suppliers(), audit.NewService(store.ActivityLogs(), logger.Nop()))
	ctx := context.Background()

	s, err := uc.Create(ctx, admin, dto.SupplierRequest{Name: "Acme", Email: "ventas@acme.com", TaxID: "900123"})
	require.NoError(t, err)
	assert.True(t, s.Active)

	for _, in := range []dto.SupplierRequest{
		{Name: "acme"},
		{Name: "Otro", Email: "VENTAS@acme.com"},
		{Name: "Otro", TaxID: "900123"},
	} {
		_, err := uc.Create(ctx, admin, in)
		assert.True(t, errors.Is(err, domain.ErrDuplicate), "entrada %+v", in)
	}

	_, err = uc.Create(ctx, admin, dto.SupplierRequest{Name: "Mal", Email: "no-es-email"})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	off, err := uc.SetActive(ctx, admin, s.ID, false)
	require.NoError(t, err)
	assert.False(t, off.Active)

	list, err := uc.List(ctx, dto.SearchRequest{Query: "acm"})
	require.NoError(t, err)
	assert.Equal(t, 1, list.Page.Total)
}

func TestClient_CRUD(t *testing.T) {
	store := memory.New()
	uc := usecase.NewClientUseCase(store.Clients(), audit.NewService(store.ActivityLogs(), logger.Nop()))
	ctx := context.Background()

	c, err := uc.Create(ctx, admin, dto.ClientRequest{Name: "Ana", Document: "123"})
	require.NoError(t, err)
	_, err = uc.Create(ctx, admin, dto.ClientRequest{Name: "Otra Ana", Document: "123"})
	assert.True(t, errors.Is(err, domain.ErrDuplicate))

	upd, err := uc.Update(ctx, admin, c.ID, dto.ClientRequest{Name: "Ana María", Document: "123", Phone: "555"})
	require.NoError(t, err)
	assert.Equal(t, "Ana María", upd.Name)
	assert.Equal(t, "555", upd.Phone)

	_, err = uc.GetByID(ctx, "nada")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}
