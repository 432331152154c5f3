package inventory

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/Comercio-api/internal/application/audit"
	"github.com/jhoicas/Comercio-api/internal/application/authz"
	"github.com/jhoicas/Comercio-api/internal/application/dto"
	"github.com/jhoicas/Comercio-api/internal/domain"
	"github.com/jhoicas/Comercio-api/internal/domain/entity"
	domaininv "github.com/jhoicas/Comercio-api/internal/domain/inventory"
	"github.com/jhoicas/Comercio-api/internal/domain/repository"
)

// AdjustQuantityUseCase corrección manual de existencias (fuera del flujo de órdenes).
type AdjustQuantityUseCase struct {
	txRunner TxRunner
	audit    *audit.Service
}

// NewAdjustQuantityUseCase construye el caso de uso.
func NewAdjustQuantityUseCase(txRunner TxRunner, auditSvc *audit.Service) *AdjustQuantityUseCase {
	return &AdjustQuantityUseCase{txRunner: txRunner, audit: auditSvc}
}

// Adjust aplica delta de forma atómica. ErrInsufficientStock si el resultado sería negativo.
func (uc *AdjustQuantityUseCase) Adjust(ctx context.Context, actor *authz.Identity, productID string, in dto.AdjustQuantityRequest) (*dto.StockAdjustmentResponse, error) {
	out, err := uc.adjust(ctx, productID, in)
	uc.audit.RecordResult(ctx, actor, audit.Entry{
		Action:     entity.ActionAdjust,
		EntityType: entity.EntityProduct,
		EntityID:   productID,
		Detail:     fmt.Sprintf("delta=%d motivo=%q", in.Delta, strings.TrimSpace(in.Reason)),
	}, err)
	return out, err
}

func (uc *AdjustQuantityUseCase) adjust(ctx context.Context, productID string, in dto.AdjustQuantityRequest) (*dto.StockAdjustmentResponse, error) {
	if productID == "" || in.Delta == 0 {
		return nil, fmt.Errorf("%w: delta debe ser distinto de cero", domain.ErrInvalidInput)
	}
	if in.Delta > domaininv.MaxQuantity || in.Delta < -domaininv.MaxQuantity {
		return nil, fmt.Errorf("%w: |delta| no puede exceder %d", domain.ErrInvalidInput, domaininv.MaxQuantity)
	}
	var qty int
	err := uc.txRunner.Run(ctx, func(productRepo repository.ProductRepository) error {
		n, err := productRepo.AdjustQuantity(ctx, productID, in.Delta)
		if err != nil {
			return err
		}
		qty = n
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &dto.StockAdjustmentResponse{
		ProductID: productID,
		Delta:     in.Delta,
		Quantity:  qty,
		Reason:    strings.TrimSpace(in.Reason),
	}, nil
}
