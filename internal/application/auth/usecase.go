package auth

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Comercio-api/internal/application/audit"
	"github.com/jhoicas/Comercio-api/internal/application/authz"
	"github.com/jhoicas/Comercio-api/internal/application/dto"
	"github.com/jhoicas/Comercio-api/internal/application/usecase"
	"github.com/jhoicas/Comercio-api/internal/domain"
	"github.com/jhoicas/Comercio-api/internal/domain/entity"
	"github.com/jhoicas/Comercio-api/internal/domain/repository"
	"github.com/jhoicas/Comercio-api/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase casos de uso de autenticación: registro y login.
type AuthUseCase struct {
	userRepo          repository.UserRepository
	users             *usecase.UserUseCase
	audit             *audit.Service
	jwtCfg            JWTConfig
	allowRegistration bool
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(
	userRepo repository.UserRepository,
	users *usecase.UserUseCase,
	auditSvc *audit.Service,
	jwtCfg JWTConfig,
	allowRegistration bool,
) *AuthUseCase {
	return &AuthUseCase{
		userRepo:          userRepo,
		users:             users,
		audit:             auditSvc,
		jwtCfg:            jwtCfg,
		allowRegistration: allowRegistration,
	}
}

// RegisterUser autoregistro: el usuario siempre nace con rol seller.
func (uc *AuthUseCase) RegisterUser(ctx context.Context, in dto.RegisterRequest) (*dto.UserResponse, error) {
	if !uc.allowRegistration {
		return nil, fmt.Errorf("%w: el registro está deshabilitado", domain.ErrForbidden)
	}
	out, err := uc.users.CreateUser(ctx, dto.CreateUserRequest{
		Username: in.Username,
		Email:    in.Email,
		Password: in.Password,
		Name:     in.Name,
		Role:     entity.RoleSeller.String(),
	})
	entry := audit.Entry{Action: entity.ActionCreate, EntityType: entity.EntityUser, Detail: "registro username=" + in.Username}
	var actor *authz.Identity
	if out != nil {
		entry.EntityID = out.ID
		actor = &authz.Identity{UserID: out.ID, Username: out.Username, Role: entity.RoleSeller}
	}
	uc.audit.RecordResult(ctx, actor, entry, err)
	return out, err
}

// Login verifica usuario (username o email) y password, genera JWT y retorna token + usuario.
// Usuario inexistente o password incorrecta ⇒ ErrUnauthorized; usuario inactivo ⇒ ErrForbidden.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	login := strings.TrimSpace(in.Login)
	if login == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: login y password son requeridos", domain.ErrInvalidInput)
	}
	user, err := uc.findUser(ctx, login)
	if err != nil {
		return nil, err
	}
	var actor *authz.Identity
	if user != nil {
		actor = &authz.Identity{UserID: user.ID, Username: user.Username, Role: user.Role}
	}
	out, err := uc.login(user, in.Password)
	uc.audit.RecordResult(ctx, actor, audit.Entry{Action: entity.ActionLogin, EntityType: entity.EntityUser, EntityID: idOf(user), Detail: login}, err)
	return out, err
}

func (uc *AuthUseCase) findUser(ctx context.Context, login string) (*entity.User, error) {
	if strings.Contains(login, "@") {
		return uc.userRepo.GetByEmail(ctx, strings.ToLower(login))
	}
	return uc.userRepo.GetByUsername(ctx, login)
}

func (uc *AuthUseCase) login(user *entity.User, password string) (*dto.LoginResponse, error) {
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	if !user.IsActive() {
		return nil, fmt.Errorf("%w: usuario inactivo", domain.ErrForbidden)
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.Username, user.Role.String(), uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token:     token,
		ExpiresIn: uc.jwtCfg.ExpMinutes * 60,
		User: dto.UserResponse{
			ID:        user.ID,
			Username:  user.Username,
			Email:     user.Email,
			Name:      user.Name,
			Role:      user.Role.String(),
			Status:    user.Status,
			CreatedAt: user.CreatedAt,
			UpdatedAt: user.UpdatedAt,
		},
	}, nil
}

// Me devuelve la identidad adjunta por el middleware de autenticación.
func (uc *AuthUseCase) Me(id *authz.Identity) (*dto.MeResponse, error) {
	if id == nil {
		return nil, domain.ErrUnauthorized
	}
	return &dto.MeResponse{UserID: id.UserID, Username: id.Username, Role: id.Role.String()}, nil
}

func idOf(u *entity.User) string {
	if u == nil {
		return ""
	}
	return u.ID
}
