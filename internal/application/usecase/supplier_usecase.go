package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/asaskevich/govalidator"
	"github.com/google/uuid"

	"github.com/jhoicas/Comercio-api/internal/application/audit"
	"github.com/jhoicas/Comercio-api/internal/application/authz"
	"github.com/jhoicas/Comercio-api/internal/application/dto"
	"github.com/jhoicas/Comercio-api/internal/domain"
	"github.com/jhoicas/Comercio-api/internal/domain/entity"
	"github.com/jhoicas/Comercio-api/internal/domain/repository"
)

// SupplierUseCase CRUD de proveedores. Nombre, email y tax id repetidos ⇒ ErrDuplicate.
type SupplierUseCase struct {
	repo  repository.SupplierRepository
	audit *audit.Service
}

// NewSupplierUseCase construye el caso de uso.
func NewSupplierUseCase(repo repository.SupplierRepository, auditSvc *audit.Service) *SupplierUseCase {
	return &SupplierUseCase{repo: repo, audit: auditSvc}
}

func normalizeSupplier(in dto.SupplierRequest) (dto.SupplierRequest, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Contact = strings.TrimSpace(in.Contact)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.TaxID = strings.TrimSpace(in.TaxID)
	in.Address = strings.TrimSpace(in.Address)
	if in.Name == "" || len(in.Name) > maxNameLen {
		return in, fmt.Errorf("%w: name es requerido (máx. %d)", domain.ErrInvalidInput, maxNameLen)
	}
	if err := validEmail(in.Email, false); err != nil {
		return in, err
	}
	return in, nil
}

// validEmail valida formato; vacío solo es válido si no es requerido.
func validEmail(email string, required bool) error {
	if email == "" {
		if required {
			return fmt.Errorf("%w: email es requerido", domain.ErrInvalidInput)
		}
		return nil
	}
	if !govalidator.IsEmail(email) {
		return fmt.Errorf("%w: email inválido", domain.ErrInvalidInput)
	}
	return nil
}

// Create crea un proveedor activo.
func (uc *SupplierUseCase) Create(ctx context.Context, actor *authz.Identity, in dto.SupplierRequest) (*dto.SupplierResponse, error) {
	out, err := uc.create(ctx, in)
	entry := audit.Entry{Action: entity.ActionCreate, EntityType: entity.EntitySupplier, Detail: in.Name}
	if out != nil {
		entry.EntityID = out.ID
	}
	uc.audit.RecordResult(ctx, actor, entry, err)
	return out, err
}

func (uc *SupplierUseCase) create(ctx context.Context, in dto.SupplierRequest) (*dto.SupplierResponse, error) {
	in, err := normalizeSupplier(in)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	s := &entity.Supplier{
		ID:        uuid.New().String(),
		Name:      in.Name,
		Contact:   in.Contact,
		Email:     in.Email,
		TaxID:     in.TaxID,
		Address:   in.Address,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, s); err != nil {
		return nil, err
	}
	return toSupplierResponse(s), nil
}

// GetByID obtiene un proveedor.
func (uc *SupplierUseCase) GetByID(ctx context.Context, id string) (*dto.SupplierResponse, error) {
	s, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return toSupplierResponse(s), nil
}

func (uc *SupplierUseCase) get(ctx context.Context, id string) (*entity.Supplier, error) {
	s, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, fmt.Errorf("%w: proveedor %s", domain.ErrNotFound, id)
	}
	return s, nil
}

// Update reemplaza los datos del proveedor.
func (uc *SupplierUseCase) Update(ctx context.Context, actor *authz.Identity, id string, in dto.SupplierRequest) (*dto.SupplierResponse, error) {
	out, err := uc.update(ctx, id, in)
	uc.audit.RecordResult(ctx, actor, audit.Entry{Action: entity.ActionUpdate, EntityType: entity.EntitySupplier, EntityID: id}, err)
	return out, err
}

func (uc *SupplierUseCase) update(ctx context.Context, id string, in dto.SupplierRequest) (*dto.SupplierResponse, error) {
	in, err := normalizeSupplier(in)
	if err != nil {
		return nil, err
	}
	s, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.Name, s.Contact, s.Email, s.TaxID, s.Address = in.Name, in.Contact, in.Email, in.TaxID, in.Address
	s.UpdatedAt = time.Now().UTC()
	if err := uc.repo.Update(ctx, s); err != nil {
		return nil, err
	}
	return toSupplierResponse(s), nil
}

// SetActive activa o desactiva un proveedor.
func (uc *SupplierUseCase) SetActive(ctx context.Context, actor *authz.Identity, id string, active bool) (*dto.SupplierResponse, error) {
	out, err := func() (*dto.SupplierResponse, error) {
		s, err := uc.get(ctx, id)
		if err != nil {
			return nil, err
		}
		s.Active = active
		s.UpdatedAt = time.Now().UTC()
		if err := uc.repo.Update(ctx, s); err != nil {
			return nil, err
		}
		return toSupplierResponse(s), nil
	}()
	uc.audit.RecordResult(ctx, actor, audit.Entry{Action: activeAction(active), EntityType: entity.EntitySupplier, EntityID: id}, err)
	return out, err
}

// List lista proveedores por nombre, con búsqueda opcional.
func (uc *SupplierUseCase) List(ctx context.Context, in dto.SearchRequest) (*dto.SupplierListResponse, error) {
	in.Normalize()
	list, total, err := uc.repo.List(ctx, strings.TrimSpace(in.Query), in.Limit, in.Offset())
	if err != nil {
		return nil, err
	}
	items := make([]dto.SupplierResponse, 0, len(list))
	for _, s := range list {
		items = append(items, *toSupplierResponse(s))
	}
	return &dto.SupplierListResponse{Items: items, Page: dto.NewPageResponse(in.PageRequest, total)}, nil
}

func toSupplierResponse(s *entity.Supplier) *dto.SupplierResponse {
	return &dto.SupplierResponse{
		ID:        s.ID,
		Name:      s.Name,
		Contact:   s.Contact,
		Email:     s.Email,
		TaxID:     s.TaxID,
		Address:   s.Address,
		Active:    s.Active,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}
