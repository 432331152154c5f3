package usecase

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
	"github.com/jhoicas/Comercio-api/internal/domain"
	"github.com/jhoicas/Comercio-api/internal/domain/entity"
	domaininv "github.com/jhoicas/Comercio-api/internal/domain/inventory"
	"github.com/jhoicas/Comercio-api/internal/domain/repository"
)

const maxNameLen = 200

// ProductUseCase casos de uso CRUD para productos. Quantity solo cambia vía inventario (órdenes o corrección).
type ProductUseCase struct {
	repo  repository.ProductRepository
	audit *audit.Service
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository, auditSvc *audit.Service) *ProductUseCase {
	return &ProductUseCase{repo: repo, audit: auditSvc}
}

// Create crea un nuevo producto. La cantidad inicial es la existencia almacenada.
func (uc *ProductUseCase) Create(ctx context.Context, actor *authz.Identity, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	out, err := uc.create(ctx, in)
	entry := audit.Entry{Action: entity.ActionCreate, EntityType: entity.EntityProduct, Detail: in.Name}
	if out != nil {
		entry.EntityID = out.ID
	}
	uc.audit.RecordResult(ctx, actor, entry, err)
	return out, err
}

func (uc *ProductUseCase) create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.SKU = strings.TrimSpace(in.SKU)
	if err := validateProduct(in.Name, in.Price, in.Cost); err != nil {
		return nil, err
	}
	if in.Quantity < 0 || in.Quantity > domaininv.MaxQuantity {
		return nil, fmt.Errorf("%w: quantity debe estar entre 0 y %d", domain.ErrInvalidInput, domaininv.MaxQuantity)
	}
	if in.SKU != "" {
		existing, err := uc.repo.GetBySKU(ctx, in.SKU)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, fmt.Errorf("%w: SKU %s ya existe", domain.ErrDuplicate, in.SKU)
		}
	}
	now := time.Now().UTC()
	product := &entity.Product{
		ID:          uuid.New().String(),
		SKU:         in.SKU,
		Name:        in.Name,
		Description: strings.TrimSpace(in.Description),
		Price:       in.Price,
		Cost:        in.Cost,
		Quantity:    in.Quantity,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

func validateProduct(name string, price, cost decimal.Decimal) error {
	if name == "" {
		return fmt.Errorf("%w: name es requerido", domain.ErrInvalidInput)
	}
	if len(name) > maxNameLen {
		return fmt.Errorf("%w: name excede %d caracteres", domain.ErrInvalidInput, maxNameLen)
	}
	if !domaininv.ValidAmount(price) {
		return fmt.Errorf("%w: price debe ser >= 0, menor a 10^10 y con hasta %d decimales", domain.ErrInvalidInput, domaininv.AmountScale)
	}
	if !domaininv.ValidAmount(cost) {
		return fmt.Errorf("%w: cost debe ser >= 0, menor a 10^10 y con hasta %d decimales", domain.ErrInvalidInput, domaininv.AmountScale)
	}
	return nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, id)
	}
	return toProductResponse(product), nil
}

// Update actualiza un producto. No permite modificar Quantity.
func (uc *ProductUseCase) Update(ctx context.Context, actor *authz.Identity, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	out, err := uc.update(ctx, id, in)
	uc.audit.RecordResult(ctx, actor, audit.Entry{Action: entity.ActionUpdate, EntityType: entity.EntityProduct, EntityID: id}, err)
	return out, err
}

func (uc *ProductUseCase) update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, id)
	}
	if in.Name != nil {
		product.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		product.Description = strings.TrimSpace(*in.Description)
	}
	if in.Price != nil {
		product.Price = *in.Price
	}
	if in.Cost != nil {
		product.Cost = *in.Cost
	}
	if err := validateProduct(product.Name, product.Price, product.Cost); err != nil {
		return nil, err
	}
	if in.SKU != nil {
		sku := strings.TrimSpace(*in.SKU)
		if sku != "" && !strings.EqualFold(sku, product.SKU) {
			existing, err := uc.repo.GetBySKU(ctx, sku)
			if err != nil {
				return nil, err
			}
			if existing != nil && existing.ID != product.ID {
				return nil, fmt.Errorf("%w: SKU %s ya existe", domain.ErrDuplicate, sku)
			}
		}
		product.SKU = sku
	}
	product.UpdatedAt = time.Now().UTC()
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// SetActive activa o desactiva (soft delete) un producto.
func (uc *ProductUseCase) SetActive(ctx context.Context, actor *authz.Identity, id string, active bool) (*dto.ProductResponse, error) {
	err := uc.repo.SetActive(ctx, id, active)
	uc.audit.RecordResult(ctx, actor, audit.Entry{Action: activeAction(active), EntityType: entity.EntityProduct, EntityID: id}, err)
	if err != nil {
		return nil, err
	}
	return uc.GetByID(ctx, id)
}

// List lista productos con filtro por nombre/SKU, ordenados por id ascendente.
func (uc *ProductUseCase) List(ctx context.Context, in dto.ProductFilterRequest) (*dto.ProductListResponse, error) {
	in.Normalize()
	list, total, err := uc.repo.List(ctx, repository.ProductFilter{
		Query:           strings.TrimSpace(in.Query),
		IncludeInactive: in.IncludeInactive,
		Limit:           in.Limit,
		Offset:          in.Offset(),
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return &dto.ProductListResponse{Items: items, Page: dto.NewPageResponse(in.PageRequest, total)}, nil
}

func activeAction(active bool) string {
	if active {
		return entity.ActionEnable
	}
	return entity.ActionDisable
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:          p.ID,
		SKU:         p.SKU,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Cost:        p.Cost,
		Quantity:    p.Quantity,
		Active:      p.Active,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
