package orders

import (
	"context"
	"time"

	"github.com/jhoicas/Comercio-api/internal/application/dto"
	"github.com/jhoicas/Comercio-api/internal/domain/entity"
	"github.com/jhoicas/Comercio-api/internal/domain/repository"
)

// applyStatus fija el nuevo estado y su marca de tiempo.
func applyStatus(status *entity.OrderStatus, completedAt, cancelledAt **time.Time, target entity.OrderStatus, now time.Time) {
	*status = target
	switch target {
	case entity.OrderStatusCompleted:
		*completedAt = &now
	case entity.OrderStatusCancelled:
		*cancelledAt = &now
	}
}

func transitionAction(target entity.OrderStatus) string {
	switch target {
	case entity.OrderStatusCompleted:
		return entity.ActionComplete
	case entity.OrderStatusCancelled:
		return entity.ActionCancel
	}
	return entity.ActionUpdate
}

func outcomeOf(err error) string {
	if err != nil {
		return entity.OutcomeFailure
	}
	return entity.OutcomeSuccess
}

// summarize resuelve los productos de las líneas. Un producto ausente se omite del resumen.
func summarize(ctx context.Context, repo repository.ProductRepository, ids []string) (map[string]*entity.Product, error) {
	out := make(map[string]*entity.Product, len(ids))
	for _, id := range ids {
		if _, ok := out[id]; ok {
			continue
		}
		p, err := repo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if p != nil {
			out[id] = p
		}
	}
	return out, nil
}

func productSummary(p *entity.Product) *dto.ProductSummary {
	if p == nil {
		return nil
	}
	return &dto.ProductSummary{ID: p.ID, Name: p.Name, SKU: p.SKU}
}
