package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Comercio-api/internal/application/dto"
)

// pageFromQuery lee page/limit; la normalización (1..100) la hace cada caso de uso.
func pageFromQuery(c *fiber.Ctx) dto.PageRequest {
	return dto.PageRequest{
		Page:  c.QueryInt("page", 1),
		Limit: c.QueryInt("limit", dto.DefaultLimit),
	}
}

// parseStatus lee {active} de PATCH .../status; ok=false si falta o el cuerpo es ilegible.
func parseStatus(c *fiber.Ctx) (active, ok bool) {
	var in dto.StatusRequest
	if err := c.BodyParser(&in); err != nil || in.Active == nil {
		return false, false
	}
	return *in.Active, true
}
