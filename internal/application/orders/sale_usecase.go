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

// SaleUseCase ventas: espejo de PurchaseUseCase en dirección de salida.
// Completar una venta resta existencias y nunca las deja negativas.
type SaleUseCase struct {
	txRunner    TxRunner
	saleRepo    repository.SaleRepository
	productRepo repository.ProductRepository
	cfg         Config
	audit       *audit.Service
	observer    TransitionObserver
	now         func() time.Time
}

// NewSaleUseCase construye el caso de uso. observer puede ser nil.
func NewSaleUseCase(
	txRunner TxRunner,
	saleRepo repository.SaleRepository,
	productRepo repository.ProductRepository,
	cfg Config,
	auditSvc *audit.Service,
	observer TransitionObserver,
) *SaleUseCase {
	return &SaleUseCase{
		txRunner:    txRunner,
		saleRepo:    saleRepo,
		productRepo: productRepo,
		cfg:         cfg,
		audit:       auditSvc,
		observer:    observer,
		now:         time.Now,
	}
}

// Create congela el precio de venta vigente de cada producto en sus líneas y persiste la venta.
func (uc *SaleUseCase) Create(ctx context.Context, actor *authz.Identity, in dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	out, err := uc.create(ctx, actor, in)
	entry := audit.Entry{Action: entity.ActionCreate, EntityType: entity.EntitySale}
	if out != nil {
		entry.EntityID = out.ID
		entry.Detail = fmt.Sprintf("status=%s total=%s items=%d", out.Status, out.Total.StringFixed(2), len(out.Items))
	}
	uc.audit.RecordResult(ctx, actor, entry, err)
	return out, err
}

func (uc *SaleUseCase) create(ctx context.Context, actor *authz.Identity, in dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	in.ClientID = strings.TrimSpace(in.ClientID)
	if len(in.Items) == 0 {
		return nil, fmt.Errorf("%w: la venta debe tener al menos un ítem", domain.ErrInvalidInput)
	}
	ids := make([]string, 0, len(in.Items))
	qtys := make([]int, 0, len(in.Items))
	for i := range in.Items {
		in.Items[i].ProductID = strings.TrimSpace(in.Items[i].ProductID)
		it := in.Items[i]
		if err := validateLine(i, it.ProductID, it.Quantidade, nil); err != nil {
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
	sale := &entity.Sale{
		ID:        uuid.New().String(),
		ClientID:  in.ClientID,
		Status:    uc.cfg.initialStatus(uc.cfg.SaleAutoComplete),
		Notes:     in.Observacoes,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if actor != nil {
		sale.CreatedBy = actor.UserID
	}
	if sale.Status == entity.OrderStatusCompleted {
		sale.CompletedAt = &now
	}

	var (
		items    []*entity.SaleItem
		products map[string]*entity.Product
	)
	err := uc.txRunner.RunOrders(ctx, func(
		productRepo repository.ProductRepository,
		_ repository.SupplierRepository,
		clientRepo repository.ClientRepository,
		_ repository.PurchaseRepository,
		saleRepo repository.SaleRepository,
	) error {
		if in.ClientID != "" {
			client, err := clientRepo.GetByID(ctx, in.ClientID)
			if err != nil {
				return err
			}
			if client == nil {
				return fmt.Errorf("%w: cliente %s", domain.ErrNotFound, in.ClientID)
			}
			if !client.Active {
				return fmt.Errorf("%w: cliente %s inactivo", domain.ErrInvalidInput, in.ClientID)
			}
		}
		var err error
		products, err = loadProducts(ctx, productRepo, ids)
		if err != nil {
			return err
		}

		total := decimal.Zero
		items = make([]*entity.SaleItem, 0, len(in.Items))
		lines := make([]inventory.Line, 0, len(in.Items))
		for i, it := range in.Items {
			unitPrice := products[it.ProductID].Price
			value := lineValue(it.Quantidade, unitPrice)
			total = total.Add(value)
			items = append(items, &entity.SaleItem{
				ID:        uuid.New().String(),
				SaleID:    sale.ID,
				Position:  i + 1,
				ProductID: it.ProductID,
				Quantity:  it.Quantidade,
				UnitPrice: unitPrice,
				Subtotal:  roundMoney(value),
			})
			lines = append(lines, inventory.Line{ProductID: it.ProductID, Quantity: it.Quantidade})
		}
		sale.Total = roundMoney(total)
		if err := validateTotal(sale.Total); err != nil {
			return err
		}

		if err := saleRepo.Create(ctx, sale); err != nil {
			return err
		}
		for _, item := range items {
			if err := saleRepo.CreateItem(ctx, item); err != nil {
				return err
			}
		}
		if sale.Status == entity.OrderStatusCompleted {
			return inventory.ApplyEffect(ctx, productRepo, lines, inventory.Effect{
				Direction: inventory.DirectionOut,
				Sign:      1,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toSaleResponse(sale, items, products), nil
}

// Transition cambia el estado de la venta. Dos intentos concurrentes de completar la misma venta
// se serializan en el bloqueo de fila: el segundo ve Completed y falla con ErrInvalidTransition.
func (uc *SaleUseCase) Transition(ctx context.Context, actor *authz.Identity, id string, in dto.TransitionRequest) (*dto.SaleResponse, error) {
	target, err := ParseStatus(in.Status)
	var from entity.OrderStatus
	if err == nil {
		from, err = uc.transition(ctx, id, target)
	}
	uc.audit.RecordResult(ctx, actor, audit.Entry{
		Action:     transitionAction(target),
		EntityType: entity.EntitySale,
		EntityID:   id,
		Detail:     fmt.Sprintf("%s -> %s", from, target),
	}, err)
	if uc.observer != nil && target != "" {
		uc.observer.ObserveTransition(entity.EntitySale, from, target, outcomeOf(err))
	}
	if err != nil {
		return nil, err
	}
	return uc.Get(ctx, id)
}

func (uc *SaleUseCase) transition(ctx context.Context, id string, target entity.OrderStatus) (entity.OrderStatus, error) {
	var from entity.OrderStatus
	err := uc.txRunner.RunOrders(ctx, func(
		productRepo repository.ProductRepository,
		_ repository.SupplierRepository,
		_ repository.ClientRepository,
		_ repository.PurchaseRepository,
		saleRepo repository.SaleRepository,
	) error {
		sale, err := saleRepo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if sale == nil {
			return fmt.Errorf("%w: venta %s", domain.ErrNotFound, id)
		}
		from = sale.Status
		if !from.CanTransitionTo(target) {
			return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, from, target)
		}
		if sign := from.EffectSign(target); sign != 0 {
			items, err := saleRepo.GetItems(ctx, id)
			if err != nil {
				return err
			}
			lines := make([]inventory.Line, 0, len(items))
			for _, it := range items {
				lines = append(lines, inventory.Line{ProductID: it.ProductID, Quantity: it.Quantity})
			}
			if err := inventory.ApplyEffect(ctx, productRepo, lines, inventory.Effect{
				Direction:     inventory.DirectionOut,
				Sign:          sign,
				RequireActive: sign < 0 && uc.cfg.CancelPolicy == CancelRevalidate,
			}); err != nil {
				return err
			}
		}
		applyStatus(&sale.Status, &sale.CompletedAt, &sale.CancelledAt, target, uc.now().UTC())
		sale.UpdatedAt = uc.now().UTC()
		return saleRepo.UpdateStatus(ctx, sale)
	})
	return from, err
}

// Get devuelve la venta con sus líneas en orden de inserción y el resumen de cada producto.
func (uc *SaleUseCase) Get(ctx context.Context, id string) (*dto.SaleResponse, error) {
	sale, items, products, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return toSaleResponse(sale, items, products), nil
}

func (uc *SaleUseCase) load(ctx context.Context, id string) (*entity.Sale, []*entity.SaleItem, map[string]*entity.Product, error) {
	sale, err := uc.saleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, nil, err
	}
	if sale == nil {
		return nil, nil, nil, fmt.Errorf("%w: venta %s", domain.ErrNotFound, id)
	}
	items, err := uc.saleRepo.GetItems(ctx, id)
	if err != nil {
		return nil, nil, nil, err
	}
	ids := make([]string, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ProductID)
	}
	products, err := summarize(ctx, uc.productRepo, ids)
	if err != nil {
		return nil, nil, nil, err
	}
	return sale, items, products, nil
}

// List lista ventas (más recientes primero) sin líneas.
func (uc *SaleUseCase) List(ctx context.Context, in dto.OrderFilterRequest) (*dto.SaleListResponse, error) {
	in.Normalize()
	filter := repository.OrderFilter{PartyID: in.ClientID, Limit: in.Limit, Offset: in.Offset()}
	if in.Status != "" {
		st, err := ParseStatus(in.Status)
		if err != nil {
			return nil, err
		}
		filter.Status = st
	}
	list, total, err := uc.saleRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.SaleResponse, 0, len(list))
	for _, s := range list {
		items = append(items, *toSaleResponse(s, nil, nil))
	}
	return &dto.SaleListResponse{Items: items, Page: dto.NewPageResponse(in.PageRequest, total)}, nil
}

func toSaleResponse(s *entity.Sale, items []*entity.SaleItem, products map[string]*entity.Product) *dto.SaleResponse {
	out := &dto.SaleResponse{
		ID:          s.ID,
		ClientID:    s.ClientID,
		CreatedBy:   s.CreatedBy,
		Status:      s.Status.String(),
		Total:       s.Total,
		Observacoes: s.Notes,
		CompletedAt: s.CompletedAt,
		CancelledAt: s.CancelledAt,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
	for _, it := range items {
		out.Items = append(out.Items, dto.OrderItemResponse{
			ID:         it.ID,
			Position:   it.Position,
			ProductID:  it.ProductID,
			Product:    productSummary(products[it.ProductID]),
			Quantidade: it.Quantity,
			UnitPrice:  it.UnitPrice,
			Subtotal:   it.Subtotal,
		})
	}
	return out
}
