package authz

import (
	"context"

	"github.com/jhoicas/Comercio-api/internal/domain/entity"
)

// Identity es lo que el gate de autenticación adjunta a cada request.
type Identity struct {
	UserID   string
	Username string
	Role     entity.Role
}

type identityKey struct{}

// WithIdentity adjunta la identidad al contexto.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// FromContext devuelve la identidad adjunta o nil si no hay.
func FromContext(ctx context.Context) *Identity {
	if ctx == nil {
		return nil
	}
	id, ok := ctx.Value(identityKey{}).(Identity)
	if !ok {
		return nil
	}
	return &id
}
