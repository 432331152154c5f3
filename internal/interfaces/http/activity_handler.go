package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Comercio-api/internal/application/audit"
	"github.com/jhoicas/Comercio-api/internal/application/dto"
)

// ActivityHandler consulta del registro de auditoría (solo admin).
type ActivityHandler struct {
	svc *audit.Service
}

// NewActivityHandler construye el handler.
func NewActivityHandler(svc *audit.Service) *ActivityHandler {
	return &ActivityHandler{svc: svc}
}

// List godoc
// @Summary      Listar registro de actividad (más reciente primero)
// @Tags         activity
// @Security     Bearer
// @Produce      json
// @Param        actorId     query  string  false  "Usuario"
// @Param        action      query  string  false  "Acción (CREATE, COMPLETE, ACCESS_DENIED, …)"
// @Param        entityType  query  string  false  "product | supplier | client | user | purchase | sale | route"
// @Param        from        query  string  false  "RFC3339"
// @Param        to          query  string  false  "RFC3339"
// @Param        page        query  int     false  "Página"  default(1)
// @Param        limit       query  int     false  "Límite"  default(20)
// @Success      200  {object}  dto.ActivityLogListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/activity-logs [get]
func (h *ActivityHandler) List(c *fiber.Ctx) error {
	out, err := h.svc.List(c.UserContext(), dto.ActivityFilterRequest{
		PageRequest: pageFromQuery(c),
		ActorID:     c.Query("actorId"),
		Action:      c.Query("action"),
		EntityType:  c.Query("entityType"),
		From:        c.Query("from"),
		To:          c.Query("to"),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
