package authz_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Comercio-api/internal/application/authz"
	"github.com/jhoicas/Comercio-api/internal/domain"
	"github.com/jhoicas/Comercio-api/internal/domain/entity"
)

type denials struct {
	ops []authz.Operation
	ids []*authz.Identity
}

func (d *denials) RecordDenied(_ context.Context, id *authz.Identity, op authz.Operation) {
	d.ops = append(d.ops, op)
	d.ids = append(d.ids, id)
}

// ────────────────────────────────────────────────────────────────
// Tabla por defecto
// ────────────────────────────────────────────────────────────────

func TestDefaultPolicy(t *testing.T) {
	p := authz.DefaultPolicy()

	tests := []struct {
		role entity.Role
		op   authz.Operation
		want bool
	}{
		{entity.RoleSeller, authz.ProductRead, true},
		{entity.RoleSeller, authz.ProductCreate, false},
		{entity.RoleManager, authz.ProductCreate, true},
		{entity.RoleManager, authz.ProductAdjust, false},
		{entity.RoleAdmin, authz.ProductAdjust, true},
		{entity.RoleSeller, authz.PurchaseCreate, false},
		{entity.RoleManager, authz.PurchaseTransition, true},
		{entity.RoleSeller, authz.SaleCreate, true},
		{entity.RoleSeller, authz.SaleTransition, true},
		{entity.RoleManager, authz.UserRole, false},
		{entity.RoleAdmin, authz.UserRole, true},
		{entity.RoleManager, authz.ActivityRead, false},
		{entity.Role("owner"), authz.ProductRead, false},
		{entity.RoleAdmin, authz.Operation("product.delete"), false},
	}
	for _, tt := range tests {
		t.Run(string(tt.role)+"/"+string(tt.op), func(t *testing.T) {
			assert.Equal(t, tt.want, p.Allows(tt.role, tt.op))
		})
	}
}

func TestDefaultPolicy_TodasLasOperacionesTienenAdmin(t *testing.T) {
	p := authz.DefaultPolicy()
	for _, op := range authz.Operations() {
		assert.True(t, p.Allows(entity.RoleAdmin, op), "admin debe poder %s", op)
	}
}

// ────────────────────────────────────────────────────────────────
// Overrides
// ────────────────────────────────────────────────────────────────

func TestNewPolicy_Overrides(t *testing.T) {
	p, err := authz.NewPolicy(" purchase.create = admin|manager|seller ; sale.create=admin ")
	require.NoError(t, err)

	assert.True(t, p.Allows(entity.RoleSeller, authz.PurchaseCreate))
	assert.False(t, p.Allows(entity.RoleSeller, authz.SaleCreate))
	assert.Equal(t, []entity.Role{entity.RoleAdmin}, p.Roles(authz.SaleCreate))
	// el resto conserva el default
	assert.True(t, p.Allows(entity.RoleSeller, authz.SaleRead))
}

func TestNewPolicy_ListaVaciaNiegaATodos(t *testing.T) {
	p, err := authz.NewPolicy("sale.receipt=")
	require.NoError(t, err)
	assert.False(t, p.Allows(entity.RoleAdmin, authz.SaleReceipt))
}

func TestParseOverrides_Errores(t *testing.T) {
	for _, in := range []string{
		"product.create",
		"product.explode=admin",
		"product.create=admin|owner",
	} {
		t.Run(in, func(t *testing.T) {
			_, err := authz.ParseOverrides(in)
			assert.Error(t, err)
		})
	}
}

// ────────────────────────────────────────────────────────────────
// Gate
// ────────────────────────────────────────────────────────────────

func TestGate_PermiteYNiega(t *testing.T) {
	rec := &denials{}
	g := authz.NewGate(authz.DefaultPolicy(), rec)
	ctx := context.Background()

	seller := &authz.Identity{UserID: "u1", Username: "ana", Role: entity.RoleSeller}
	require.NoError(t, g.Authorize(ctx, seller, authz.SaleCreate))

	err := g.Authorize(ctx, seller, authz.PurchaseCreate)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrForbidden))
	require.Len(t, rec.ops, 1)
	assert.Equal(t, authz.PurchaseCreate, rec.ops[0])
	assert.Equal(t, "u1", rec.ids[0].UserID)
}

func TestGate_SinIdentidadFallaCerrado(t *testing.T) {
	rec := &denials{}
	g := authz.NewGate(authz.DefaultPolicy(), rec)

	err := g.Authorize(context.Background(), nil, authz.ProductRead)
	assert.True(t, errors.Is(err, domain.ErrForbidden))
	require.Len(t, rec.ids, 1)
	assert.Nil(t, rec.ids[0])
}

func TestGate_RolInvalidoEnIdentidad(t *testing.T) {
	g := authz.NewGate(authz.DefaultPolicy(), nil)
	err := g.Authorize(context.Background(), &authz.Identity{UserID: "x", Role: "root"}, authz.ProductRead)
	assert.True(t, errors.Is(err, domain.ErrForbidden))
}

func TestIdentityContext(t *testing.T) {
	assert.Nil(t, authz.FromContext(context.Background()))

	ctx := authz.WithIdentity(context.Background(), authz.Identity{UserID: "u9", Role: entity.RoleManager})
	id := authz.FromContext(ctx)
	require.NotNil(t, id)
	assert.Equal(t, "u9", id.UserID)
	assert.Equal(t, entity.RoleManager, id.Role)
}
