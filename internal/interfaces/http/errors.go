package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Comercio-api/internal/application/dto"
	"github.com/jhoicas/Comercio-api/internal/domain"
)

// LocalError guarda el error interno para que el logger de peticiones lo registre; nunca viaja al cliente.
const LocalError = "internal_error"

// statusByKind traduce domain.Kind a código HTTP.
var statusByKind = map[string]int{
	"UNAUTHENTICATED":    fiber.StatusUnauthorized,
	"FORBIDDEN":          fiber.StatusForbidden,
	"VALIDATION":         fiber.StatusBadRequest,
	"NOT_FOUND":          fiber.StatusNotFound,
	"CONFLICT":           fiber.StatusConflict,
	"INVALID_TRANSITION": fiber.StatusConflict,
	"INSUFFICIENT_STOCK": fiber.StatusConflict,
}

// writeError responde {code, message}. Los errores de dominio llevan su detalle;
// cualquier otro es 500 con mensaje genérico.
func writeError(c *fiber.Ctx, err error) error {
	kind := domain.Kind(err)
	status, ok := statusByKind[kind]
	if !ok {
		c.Locals(LocalError, err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Code:    "INTERNAL",
			Message: "error interno del servidor",
		})
	}
	return c.Status(status).JSON(dto.ErrorResponse{Code: kind, Message: err.Error()})
}

func badRequest(c *fiber.Ctx, code, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: code, Message: msg})
}

// ErrorHandler atiende lo que escapa de los handlers (rutas inexistentes, pánicos recuperados).
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code := "HTTP_ERROR"
		switch fe.Code {
		case fiber.StatusNotFound:
			code = "NOT_FOUND"
		case fiber.StatusMethodNotAllowed:
			code = "METHOD_NOT_ALLOWED"
		case fiber.StatusRequestEntityTooLarge:
			code = "BODY_TOO_LARGE"
		}
		if fe.Code < fiber.StatusInternalServerError {
			return c.Status(fe.Code).JSON(dto.ErrorResponse{Code: code, Message: fe.Message})
		}
	}
	return writeError(c, err)
}
