package usecase

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Comercio-api/internal/application/audit"
	"github.com/jhoicas/Comercio-api/internal/application/authz"
	"github.com/jhoicas/Comercio-api/internal/application/dto"
	"github.com/jhoicas/Comercio-api/internal/domain"
	"github.com/jhoicas/Comercio-api/internal/domain/entity"
	"github.com/jhoicas/Comercio-api/internal/domain/repository"
)

const minPasswordLen = 8

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9._-]{3,50}$`)

// UserUseCase aplica reglas de negocio para usuarios. Los usuarios no se eliminan: se desactivan.
type UserUseCase struct {
	repo     repository.UserRepository
	audit    *audit.Service
	hashCost int
}

// NewUserUseCase construye el caso de uso con el puerto de persistencia.
func NewUserUseCase(repo repository.UserRepository, auditSvc *audit.Service) *UserUseCase {
	return &UserUseCase{repo: repo, audit: auditSvc, hashCost: bcrypt.DefaultCost}
}

// WithHashCost cambia el costo de bcrypt (los tests usan bcrypt.MinCost).
func (uc *UserUseCase) WithHashCost(cost int) *UserUseCase {
	uc.hashCost = cost
	return uc
}

// Create crea un usuario con cualquiera de los tres roles (solo admin).
func (uc *UserUseCase) Create(ctx context.Context, actor *authz.Identity, in dto.CreateUserRequest) (*dto.UserResponse, error) {
	out, err := uc.CreateUser(ctx, in)
	entry := audit.Entry{Action: entity.ActionCreate, EntityType: entity.EntityUser, Detail: fmt.Sprintf("username=%s role=%s", in.Username, in.Role)}
	if out != nil {
		entry.EntityID = out.ID
	}
	uc.audit.RecordResult(ctx, actor, entry, err)
	return out, err
}

// CreateUser valida, hashea la contraseña con bcrypt y persiste. Sin auditoría (la registra el caller).
// Devuelve ErrEmailAlreadyExists o ErrDuplicate (username) si ya existen.
func (uc *UserUseCase) CreateUser(ctx context.Context, in dto.CreateUserRequest) (*dto.UserResponse, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Name = strings.TrimSpace(in.Name)
	if !usernamePattern.MatchString(in.Username) {
		return nil, fmt.Errorf("%w: username debe tener 3-50 caracteres [a-zA-Z0-9._-]", domain.ErrInvalidInput)
	}
	if err := validEmail(in.Email, true); err != nil {
		return nil, err
	}
	if len(in.Password) < minPasswordLen {
		return nil, fmt.Errorf("%w: password debe tener al menos %d caracteres", domain.ErrInvalidInput, minPasswordLen)
	}
	role, ok := entity.ParseRole(strings.ToLower(strings.TrimSpace(in.Role)))
	if !ok {
		return nil, fmt.Errorf("%w: role debe ser admin, manager o seller", domain.ErrInvalidInput)
	}

	existing, err := uc.repo.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	existing, err = uc.repo.GetByUsername(ctx, in.Username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: username %s ya existe", domain.ErrDuplicate, in.Username)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), uc.hashCost)
	if err != nil {
		return nil, err
	}
	name := in.Name
	if name == "" {
		name = in.Username
	}
	now := time.Now().UTC()
	user := &entity.User{
		ID:           uuid.New().String(),
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: string(hash),
		Name:         name,
		Role:         role,
		Status:       entity.UserStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return toUserResponse(user), nil
}

// GetByID obtiene un usuario por ID.
func (uc *UserUseCase) GetByID(ctx context.Context, id string) (*dto.UserResponse, error) {
	user, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return toUserResponse(user), nil
}

func (uc *UserUseCase) get(ctx context.Context, id string) (*entity.User, error) {
	user, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("%w: usuario %s", domain.ErrNotFound, id)
	}
	return user, nil
}

// List lista usuarios ordenados por username.
func (uc *UserUseCase) List(ctx context.Context, in dto.PageRequest) (*dto.UserListResponse, error) {
	in.Normalize()
	list, total, err := uc.repo.List(ctx, in.Limit, in.Offset())
	if err != nil {
		return nil, err
	}
	items := make([]dto.UserResponse, 0, len(list))
	for _, u := range list {
		items = append(items, *toUserResponse(u))
	}
	return &dto.UserListResponse{Items: items, Page: dto.NewPageResponse(in, total)}, nil
}

// ChangeRole cambia el rol de un usuario. Un admin no puede quitarse el rol a sí mismo.
func (uc *UserUseCase) ChangeRole(ctx context.Context, actor *authz.Identity, id string, in dto.ChangeRoleRequest) (*dto.UserResponse, error) {
	var from entity.Role
	out, err := func() (*dto.UserResponse, error) {
		role, ok := entity.ParseRole(strings.ToLower(strings.TrimSpace(in.Role)))
		if !ok {
			return nil, fmt.Errorf("%w: role debe ser admin, manager o seller", domain.ErrInvalidInput)
		}
		user, err := uc.get(ctx, id)
		if err != nil {
			return nil, err
		}
		from = user.Role
		if actor != nil && actor.UserID == user.ID && role != entity.RoleAdmin {
			return nil, fmt.Errorf("%w: un administrador no puede quitarse su propio rol", domain.ErrConflict)
		}
		user.Role = role
		user.UpdatedAt = time.Now().UTC()
		if err := uc.repo.Update(ctx, user); err != nil {
			return nil, err
		}
		return toUserResponse(user), nil
	}()
	uc.audit.RecordResult(ctx, actor, audit.Entry{
		Action:     entity.ActionChangeRole,
		EntityType: entity.EntityUser,
		EntityID:   id,
		Detail:     fmt.Sprintf("%s -> %s", from, in.Role),
	}, err)
	return out, err
}

// SetActive activa o desactiva un usuario. Un admin no puede desactivarse a sí mismo.
func (uc *UserUseCase) SetActive(ctx context.Context, actor *authz.Identity, id string, active bool) (*dto.UserResponse, error) {
	out, err := func() (*dto.UserResponse, error) {
		user, err := uc.get(ctx, id)
		if err != nil {
			return nil, err
		}
		if !active && actor != nil && actor.UserID == user.ID {
			return nil, fmt.Errorf("%w: un administrador no puede desactivarse a sí mismo", domain.ErrConflict)
		}
		user.Status = entity.UserStatusInactive
		if active {
			user.Status = entity.UserStatusActive
		}
		user.UpdatedAt = time.Now().UTC()
		if err := uc.repo.Update(ctx, user); err != nil {
			return nil, err
		}
		return toUserResponse(user), nil
	}()
	uc.audit.RecordResult(ctx, actor, audit.Entry{Action: activeAction(active), EntityType: entity.EntityUser, EntityID: id}, err)
	return out, err
}

func toUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role.String(),
		Status:    u.Status,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
