package authz

import (
	"context"
	"fmt"

	"github.com/jhoicas/Comercio-api/internal/domain"
)

// DenialRecorder recibe las denegaciones para auditarlas.
type DenialRecorder interface {
	RecordDenied(ctx context.Context, id *Identity, op Operation)
}

// Gate aplica la Policy. Sin identidad o con operación desconocida niega.
type Gate struct {
	policy   Policy
	recorder DenialRecorder
}

// NewGate construye el gate. recorder puede ser nil.
func NewGate(policy Policy, recorder DenialRecorder) *Gate {
	return &Gate{policy: policy, recorder: recorder}
}

// Authorize devuelve nil si id puede invocar op, o domain.ErrForbidden.
func (g *Gate) Authorize(ctx context.Context, id *Identity, op Operation) error {
	if id != nil && g.policy.Allows(id.Role, op) {
		return nil
	}
	if g.recorder != nil {
		g.recorder.RecordDenied(ctx, id, op)
	}
	return fmt.Errorf("%w: %s", domain.ErrForbidden, op)
}

// Policy expone la tabla en uso.
func (g *Gate) Policy() Policy { return g.policy }
