package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Comercio-api/internal/application/audit"
	"github.com/jhoicas/Comercio-api/internal/application/authz"
	"github.com/jhoicas/Comercio-api/internal/application/dto"
	"github.com/jhoicas/Comercio-api/internal/application/usecase"
	"github.com/jhoicas/Comercio-api/internal/domain"
	"github.com/jhoicas/Comercio-api/internal/domain/entity"
	"github.com/jhoicas/Comercio-api/internal/infrastructure/memory"
	"github.com/jhoicas/Comercio-api/pkg/logger"
)

func newUserUC() *usecase.UserUseCase {
	store := memory.New()
	return usecase.NewUserUseCase(store.Users(), audit.NewService(store.ActivityLogs(), logger.Nop())).
		WithHashCost(bcrypt.MinCost)
}

func TestUser_Create(t *testing.T) {
	uc := newUserUC()
	ctx := context.Background()

	out, err := uc.Create(ctx, admin, dto.CreateUserRequest{
		Username: "maria", Email: "Maria@Example.com", Password: "supersecreto", Role: "Manager",
	})
	require.NoError(t, err)
	assert.Equal(t, "manager", out.Role)
	assert.Equal(t, "maria@example.com", out.Email)
	assert.Equal(t, "maria", out.Name)
	assert.Equal(t, entity.UserStatusActive, out.Status)

	_, err = uc.Create(ctx, admin, dto.CreateUserRequest{Username: "otra", Email: "maria@example.com", Password: "supersecreto", Role: "seller"})
	assert.True(t, errors.Is(err, domain.ErrEmailAlreadyExists))

	_, err = uc.Create(ctx, admin, dto.CreateUserRequest{Username: "maria", Email: "m2@example.com", Password: "supersecreto", Role: "seller"})
	assert.True(t, errors.Is(err, domain.ErrDuplicate))
}

func TestUser_Create_RolInvalido(t *testing.T) {
	uc := newUserUC()
	for _, role := range []string{"", "owner", "vendedor"} {
		_, err := uc.Create(context.Background(), admin, dto.CreateUserRequest{
			Username: "pepe", Email: "pepe@example.com", Password: "supersecreto", Role: role,
		})
		assert.True(t, errors.Is(err, domain.ErrInvalidInput), "rol %q", role)
	}
}

func TestUser_AdminNoPuedeDegradarseNiDesactivarse(t *testing.T) {
	uc := newUserUC()
	ctx := context.Background()
	me, err := uc.Create(ctx, admin, dto.CreateUserRequest{Username: "root", Email: "root@example.com", Password: "supersecreto", Role: "admin"})
	require.NoError(t, err)
	self := &authz.Identity{UserID: me.ID, Username: me.Username, Role: entity.RoleAdmin}

	_, err = uc.ChangeRole(ctx, self, me.ID, dto.ChangeRoleRequest{Role: "seller"})
	assert.True(t, errors.Is(err, domain.ErrConflict))

	_, err = uc.SetActive(ctx, self, me.ID, false)
	assert.True(t, errors.Is(err, domain.ErrConflict))

	other, err := uc.Create(ctx, admin, dto.CreateUserRequest{Username: "juan", Email: "juan@example.com", Password: "supersecreto", Role: "seller"})
	require.NoError(t, err)
	promoted, err := uc.ChangeRole(ctx, self, other.ID, dto.ChangeRoleRequest{Role: "manager"})
	require.NoError(t, err)
	assert.Equal(t, "manager", promoted.Role)

	disabled, err := uc.SetActive(ctx, self, other.ID, false)
	require.NoError(t, err)
	assert.Equal(t, entity.UserStatusInactive, disabled.Status)

	_, err = uc.ChangeRole(ctx, self, other.ID, dto.ChangeRoleRequest{Role: "superuser"})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}
