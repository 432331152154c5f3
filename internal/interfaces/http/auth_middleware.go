package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Comercio-api/internal/application/authz"
	"github.com/jhoicas/Comercio-api/internal/application/dto"
	"github.com/jhoicas/Comercio-api/internal/domain/entity"
	"github.com/jhoicas/Comercio-api/pkg/jwt"
)

// LocalIdentity clave de c.Locals con la *authz.Identity autenticada.
const LocalIdentity = "identity"

// AuthMiddleware valida el Bearer Token JWT y deja la identidad en c.Locals y en el UserContext.
func AuthMiddleware(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return unauthenticated(c, "Authorization header requerido")
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return unauthenticated(c, "formato: Bearer <token>")
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return unauthenticated(c, "token vacío")
		}
		claims, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			return unauthenticated(c, "token inválido o expirado")
		}
		role, ok := entity.ParseRole(claims.Role)
		if !ok {
			return unauthenticated(c, "rol desconocido en el token")
		}
		id := authz.Identity{UserID: claims.UserID, Username: claims.Username, Role: role}
		c.Locals(LocalIdentity, &id)
		c.SetUserContext(authz.WithIdentity(c.UserContext(), id))
		return c.Next()
	}
}

// unauthenticated responde 401 con el mismo código que domain.KindUnauthenticated; el motivo va en el mensaje.
func unauthenticated(c *fiber.Ctx, reason string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHENTICATED", Message: reason})
}

// RequireOperation consulta el Gate antes del handler: 403 si el rol no puede invocar op.
// Debe usarse DESPUÉS de AuthMiddleware.
func RequireOperation(gate *authz.Gate, op authz.Operation) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := gate.Authorize(c.UserContext(), GetIdentity(c), op); err != nil {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Code:    "FORBIDDEN",
				Message: "rol sin permiso para " + string(op),
			})
		}
		return c.Next()
	}
}

// GetIdentity devuelve la identidad autenticada o nil.
func GetIdentity(c *fiber.Ctx) *authz.Identity {
	id, _ := c.Locals(LocalIdentity).(*authz.Identity)
	return id
}

// GetUserID devuelve el UserID del contexto (después del middleware de auth).
func GetUserID(c *fiber.Ctx) string {
	if id := GetIdentity(c); id != nil {
		return id.UserID
	}
	return ""
}

// GetRole devuelve el rol del contexto (después del middleware de auth).
func GetRole(c *fiber.Ctx) string {
	if id := GetIdentity(c); id != nil {
		return string(id.Role)
	}
	return ""
}
