package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Comercio-api/internal/application/audit"
	"github.com/jhoicas/Comercio-api/internal/application/authz"
	"github.com/jhoicas/Comercio-api/internal/application/dto"
	"github.com/jhoicas/Comercio-api/internal/domain"
	"github.com/jhoicas/Comercio-api/internal/domain/entity"
	"github.com/jhoicas/Comercio-api/internal/domain/repository"
)

// ClientUseCase CRUD de clientes. Documento repetido ⇒ ErrDuplicate.
type ClientUseCase struct {
	repo  repository.ClientRepository
	audit *audit.Service
}

// NewClientUseCase construye el caso de uso.
func NewClientUseCase(repo repository.ClientRepository, auditSvc *audit.Service) *ClientUseCase {
	return &ClientUseCase{repo: repo, audit: auditSvc}
}

func normalizeClient(in dto.ClientRequest) (dto.ClientRequest, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Document = strings.TrimSpace(in.Document)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Phone = strings.TrimSpace(in.Phone)
	in.Address = strings.TrimSpace(in.Address)
	if in.Name == "" || len(in.Name) > maxNameLen {
		return in, fmt.Errorf("%w: name es requerido (máx. %d)", domain.ErrInvalidInput, maxNameLen)
	}
	return in, validEmail(in.Email, false)
}

// Create crea un cliente activo.
func (uc *ClientUseCase) Create(ctx context.Context, actor *authz.Identity, in dto.ClientRequest) (*dto.ClientResponse, error) {
	out, err := uc.create(ctx, in)
	entry := audit.Entry{Action: entity.ActionCreate, EntityType: entity.EntityClient, Detail: in.Name}
	if out != nil {
		entry.EntityID = out.ID
	}
	uc.audit.RecordResult(ctx, actor, entry, err)
	return out, err
}

func (uc *ClientUseCase) create(ctx context.Context, in dto.ClientRequest) (*dto.ClientResponse, error) {
	in, err := normalizeClient(in)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	c := &entity.Client{
		ID:        uuid.New().String(),
		Name:      in.Name,
		Document:  in.Document,
		Email:     in.Email,
		Phone:     in.Phone,
		Address:   in.Address,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return toClientResponse(c), nil
}

// GetByID obtiene un cliente.
func (uc *ClientUseCase) GetByID(ctx context.Context, id string) (*dto.ClientResponse, error) {
	c, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return toClientResponse(c), nil
}

func (uc *ClientUseCase) get(ctx context.Context, id string) (*entity.Client, error) {
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("%w: cliente %s", domain.ErrNotFound, id)
	}
	return c, nil
}

// Update reemplaza los datos del cliente.
func (uc *ClientUseCase) Update(ctx context.Context, actor *authz.Identity, id string, in dto.ClientRequest) (*dto.ClientResponse, error) {
	out, err := func() (*dto.ClientResponse, error) {
		in, err := normalizeClient(in)
		if err != nil {
			return nil, err
		}
		c, err := uc.get(ctx, id)
		if err != nil {
			return nil, err
		}
		c.Name, c.Document, c.Email, c.Phone, c.Address = in.Name, in.Document, in.Email, in.Phone, in.Address
		c.UpdatedAt = time.Now().UTC()
		if err := uc.repo.Update(ctx, c); err != nil {
			return nil, err
		}
		return toClientResponse(c), nil
	}()
	uc.audit.RecordResult(ctx, actor, audit.Entry{Action: entity.ActionUpdate, EntityType: entity.EntityClient, EntityID: id}, err)
	return out, err
}

// SetActive activa o desactiva un cliente.
func (uc *ClientUseCase) SetActive(ctx context.Context, actor *authz.Identity, id string, active bool) (*dto.ClientResponse, error) {
	out, err := func() (*dto.ClientResponse, error) {
		c, err := uc.get(ctx, id)
		if err != nil {
			return nil, err
		}
		c.Active = active
		c.UpdatedAt = time.Now().UTC()
		if err := uc.repo.Update(ctx, c); err != nil {
			return nil, err
		}
		return toClientResponse(c), nil
	}()
	uc.audit.RecordResult(ctx, actor, audit.Entry{Action: activeAction(active), EntityType: entity.EntityClient, EntityID: id}, err)
	return out, err
}

// List lista clientes por nombre, con búsqueda opcional.
func (uc *ClientUseCase) List(ctx context.Context, in dto.SearchRequest) (*dto.ClientListResponse, error) {
	in.Normalize()
	list, total, err := uc.repo.List(ctx, strings.TrimSpace(in.Query), in.Limit, in.Offset())
	if err != nil {
		return nil, err
	}
	items := make([]dto.ClientResponse, 0, len(list))
	for _, c := range list {
		items = append(items, *toClientResponse(c))
	}
	return &dto.ClientListResponse{Items: items, Page: dto.NewPageResponse(in.PageRequest, total)}, nil
}

func toClientResponse(c *entity.Client) *dto.ClientResponse {
	return &dto.ClientResponse{
		ID:        c.ID,
		Name:      c.Name,
		Document:  c.Document,
		Email:     c.Email,
		Phone:     c.Phone,
		Address:   c.Address,
		Active:    c.Active,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
