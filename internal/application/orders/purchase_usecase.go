package orders

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Comercio-api/internal/application/audit"
	"github.com/jhoicas/Comercio-api/internal/application/authz"
	"github.com/jhoicas/Comercio-api/internal/application/dto"
	"github.com/jhoicas/Comercio-api/internal/application/inventory"
	"github.com/jhoicas/Comercio-api/internal/domain"
	"github.com/jhoicas/Comercio-api/internal/domain/entity"
	"github.com/jhoicas/Comercio-api/internal/domain/repository"
)

// PurchaseUseCase compras a proveedores: creación, transición de estado y consulta.
// Completar una compra suma existencias y recalcula el costo promedio.
type PurchaseUseCase struct {
	txRunner     TxRunner
	purchaseRepo repository.PurchaseRepository
	productRepo  repository.ProductRepository
	cfg          Config
	audit        *audit.Service
	observer     TransitionObserver
	now          func() time.Time
}

// NewPurchaseUseCase construye el caso de uso. observer puede ser nil.
func NewPurchaseUseCase(
	txRunner TxRunner,
	purchaseRepo repository.PurchaseRepository,
	productRepo repository.ProductRepository,
	cfg Config,
	auditSvc *audit.Service,
	observer TransitionObserver,
) *PurchaseUseCase {
	return &PurchaseUseCase{
		txRunner:     txRunner,
		purchaseRepo: purchaseRepo,
		productRepo:  productRepo,
		cfg:          cfg,
		audit:        auditSvc,
		observer:     observer,
		now:          time.Now,
	}
}

// Create valida la forma del pedido, resuelve proveedor y productos, congela el costo unitario
// de cada línea y persiste cabecera y líneas en una sola transacción. Si la configuración
// indica autocompletar, el efecto de inventario se aplica en la misma transacción.
func (uc *PurchaseUseCase) Create(ctx context.Context, actor *authz.Identity, in dto.CreatePurchaseRequest) (*dto.PurchaseResponse, error) {
	out, err := uc.create(ctx, actor, in)
	entry := audit.Entry{Action: entity.ActionCreate, EntityType: entity.EntityPurchase}
	if out != nil {
		entry.EntityID = out.ID
		entry.Detail = fmt.Sprintf("status=%s total=%s items=%d", out.Status, out.Total.StringFixed(2), len(out.Items))
	}
	uc.audit.RecordResult(ctx, actor, entry, err)
	return out, err
}

func (uc *PurchaseUseCase) create(ctx context.Context, actor *authz.Identity, in dto.CreatePurchaseRequest) (*dto.PurchaseResponse, error) {
	// ── 1. Validación estructural ─────────────────────────────────────────────
	in.SupplierID = strings.TrimSpace(in.SupplierID)
	if in.SupplierID == "" {
		return nil, fmt.Errorf("%w: supplierId requerido", domain.ErrInvalidInput)
	}
	if len(in.Items) == 0 {
		return nil, fmt.Errorf("%w: la compra debe tener al menos un ítem", domain.ErrInvalidInput)
	}
	ids := make([]string, 0, len(in.Items))
	qtys := make([]int, 0, len(in.Items))
	for i := range in.Items {
		in.Items[i].ProductID = strings.TrimSpace(in.Items[i].ProductID)
		it := in.Items[i]
		if err := validateLine(i, it.ProductID, it.Quantidade, it.PrecoCustoUnitario); err != nil {
			return nil, err
		}
		ids = append(ids, it.ProductID)
		qtys = append(qtys, it.Quantidade)
	}
	if err := validateProductSums(ids, qtys); err != nil {
		return nil, err
	}
	if err := validateNotes(in.Observacoes); err != nil {
		return nil, err
	}

	now := uc.now().UTC()
	purchase := &entity.Purchase{
		ID:         uuid.New().String(),
		SupplierID: in.SupplierID,
		Status:     uc.cfg.initialStatus(uc.cfg.PurchaseAutoComplete),
		Notes:      in.Observacoes,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if actor != nil {
		purchase.CreatedBy = actor.UserID
	}
	if purchase.Status == entity.OrderStatusCompleted {
		purchase.CompletedAt = &now
	}

	var (
		items    []*entity.PurchaseItem
		products map[string]*entity.Product
	)
	// ── 2. Transacción: existencia, captura de costos, persistencia, efecto ───
	err := uc.txRunner.RunOrders(ctx, func(
		productRepo repository.ProductRepository,
		supplierRepo repository.SupplierRepository,
		_ repository.ClientRepository,
		purchaseRepo repository.PurchaseRepository,
		_ repository.SaleRepository,
	) error {
		supplier, err := supplierRepo.GetByID(ctx, in.SupplierID)
		if err != nil {
			return err
		}
		if supplier == nil {
			return fmt.Errorf("%w: proveedor %s", domain.ErrNotFound, in.SupplierID)
		}
		if !supplier.Active {
			return fmt.Errorf("%w: proveedor %s inactivo", domain.ErrInvalidInput, in.SupplierID)
		}
		products, err = loadProducts(ctx, productRepo, ids)
		if err != nil {
			return err
		}

		total := decimal.Zero
		items = make([]*entity.PurchaseItem, 0, len(in.Items))
		lines := make([]inventory.Line, 0, len(in.Items))
		for i, it := range in.Items {
			unitCost := products[it.ProductID].Cost
			if it.PrecoCustoUnitario != nil {
				unitCost = *it.PrecoCustoUnitario
			}
			value := lineValue(it.Quantidade, unitCost)
			total = total.Add(value)
			items = append(items, &entity.PurchaseItem{
				ID:         uuid.New().String(),
				PurchaseID: purchase.ID,
				Position:   i + 1,
				ProductID:  it.ProductID,
				Quantity:   it.Quantidade,
				UnitCost:   unitCost,
				Subtotal:   roundMoney(value),
			})
			lines = append(lines, inventory.Line{ProductID: it.ProductID, Quantity: it.Quantidade, UnitCost: unitCost})
		}
		purchase.Total = roundMoney(total)
		if err := validateTotal(purchase.Total); err != nil {
			return err
		}

		if err := purchaseRepo.Create(ctx, purchase); err != nil {
			return err
		}
		for _, item := range items {
			if err := purchaseRepo.CreateItem(ctx, item); err != nil {
				return err
			}
		}
		if purchase.Status == entity.OrderStatusCompleted {
			return inventory.ApplyEffect(ctx, productRepo, lines, inventory.Effect{
				Direction:  inventory.DirectionIn,
				Sign:       1,
				UpdateCost: uc.cfg.PurchaseUpdateCost,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toPurchaseResponse(purchase, items, products), nil
}

// Transition cambia el estado de la compra bajo bloqueo de fila. Entrar a Completed aplica
// el efecto de inventario y salir de Completed lo revierte, ambos en la misma transacción.
func (uc *PurchaseUseCase) Transition(ctx context.Context, actor *authz.Identity, id string, in dto.TransitionRequest) (*dto.PurchaseResponse, error) {
	target, err := ParseStatus(in.Status)
	var from entity.OrderStatus
	if err == nil {
		from, err = uc.transition(ctx, id, target)
	}
	uc.audit.RecordResult(ctx, actor, audit.Entry{
		Action:     transitionAction(target),
		EntityType: entity.EntityPurchase,
		EntityID:   id,
		Detail:     fmt.Sprintf("%s -> %s", from, target),
	}, err)
	if uc.observer != nil && target != "" {
		uc.observer.ObserveTransition(entity.EntityPurchase, from, target, outcomeOf(err))
	}
	if err != nil {
		return nil, err
	}
	return uc.Get(ctx, id)
}

func (uc *PurchaseUseCase) transition(ctx context.Context, id string, target entity.OrderStatus) (entity.OrderStatus, error) {
	var from entity.OrderStatus
	err := uc.txRunner.RunOrders(ctx, func(
		productRepo repository.ProductRepository,
		_ repository.SupplierRepository,
		_ repository.ClientRepository,
		purchaseRepo repository.PurchaseRepository,
		_ repository.SaleRepository,
	) error {
		purchase, err := purchaseRepo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if purchase == nil {
			return fmt.Errorf("%w: compra %s", domain.ErrNotFound, id)
		}
		from = purchase.Status
		if !from.CanTransitionTo(target) {
			return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, from, target)
		}
		if sign := from.EffectSign(target); sign != 0 {
			items, err := purchaseRepo.GetItems(ctx, id)
			if err != nil {
				return err
			}
			lines := make([]inventory.Line, 0, len(items))
			for _, it := range items {
				lines = append(lines, inventory.Line{ProductID: it.ProductID, Quantity: it.Quantity, UnitCost: it.UnitCost})
			}
			if err := inventory.ApplyEffect(ctx, productRepo, lines, inventory.Effect{
				Direction:     inventory.DirectionIn,
				Sign:          sign,
				UpdateCost:    uc.cfg.PurchaseUpdateCost,
				RequireActive: sign < 0 && uc.cfg.CancelPolicy == CancelRevalidate,
			}); err != nil {
				return err
			}
		}
		applyStatus(&purchase.Status, &purchase.CompletedAt, &purchase.CancelledAt, target, uc.now().UTC())
		purchase.UpdatedAt = uc.now().UTC()
		return purchaseRepo.UpdateStatus(ctx, purchase)
	})
	return from, err
}

// Get devuelve la compra con sus líneas en orden de inserción y el resumen de cada producto.
func (uc *PurchaseUseCase) Get(ctx context.Context, id string) (*dto.PurchaseResponse, error) {
	purchase, err := uc.purchaseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if purchase == nil {
		return nil, fmt.Errorf("%w: compra %s", domain.ErrNotFound, id)
	}
	items, err := uc.purchaseRepo.GetItems(ctx, id)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ProductID)
	}
	products, err := summarize(ctx, uc.productRepo, ids)
	if err != nil {
		return nil, err
	}
	return toPurchaseResponse(purchase, items, products), nil
}

// List lista compras (más recientes primero) sin líneas.
func (uc *PurchaseUseCase) List(ctx context.Context, in dto.OrderFilterRequest) (*dto.PurchaseListResponse, error) {
	in.Normalize()
	filter := repository.OrderFilter{PartyID: in.SupplierID, Limit: in.Limit, Offset: in.Offset()}
	if in.Status != "" {
		st, err := ParseStatus(in.Status)
		if err != nil {
			return nil, err
		}
		filter.Status = st
	}
	list, total, err := uc.purchaseRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.PurchaseResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toPurchaseResponse(p, nil, nil))
	}
	return &dto.PurchaseListResponse{Items: items, Page: dto.NewPageResponse(in.PageRequest, total)}, nil
}

func toPurchaseResponse(p *entity.Purchase, items []*entity.PurchaseItem, products map[string]*entity.Product) *dto.PurchaseResponse {
	out := &dto.PurchaseResponse{
		ID:          p.ID,
		SupplierID:  p.SupplierID,
		CreatedBy:   p.CreatedBy,
		Status:      p.Status.String(),
		Total:       p.Total,
		Observacoes: p.Notes,
		CompletedAt: p.CompletedAt,
		CancelledAt: p.CancelledAt,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	for _, it := range items {
		out.Items = append(out.Items, dto.OrderItemResponse{
			ID:         it.ID,
			Position:   it.Position,
			ProductID:  it.ProductID,
			Product:    productSummary(products[it.ProductID]),
			Quantidade: it.Quantity,
			UnitPrice:  it.UnitCost,
			Subtotal:   it.Subtotal,
		})
	}
	return out
}
